package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// RegisterInput describes a new account.
type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Age      int
	Gender   domain.Gender
	Password string
}

// UserPatch carries optional profile changes. Nil fields are left untouched.
type UserPatch struct {
	Name     *string
	Username *string
	Email    *string
	Age      *int
	Password *string
}

// UserService manages accounts.
type UserService struct {
	users      repository.UserRepository
	hasher     *auth.Hasher
	authorizer *auth.Authorizer
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	Hasher     *auth.Hasher
	Authorizer *auth.Authorizer
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewUserService builds the service.
func NewUserService(deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:      deps.UserRepo,
		hasher:     deps.Hasher,
		authorizer: deps.Authorizer,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Register validates and stores a new user with a hashed password.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	errs := fieldErrors{}
	errs.check(profileFields{Name: in.Name, Username: in.Username, Email: in.Email, Age: in.Age, Gender: in.Gender})
	errs.check(passwordField{Password: in.Password})
	if len(errs) > 0 {
		return nil, apperrors.NewValidationError("invalid user details", errs)
	}

	if err := s.ensureUnique(ctx, "", in.Username, in.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.NewValidationError("password cannot be hashed", map[string]any{"password": err.Error()})
	}

	user := &domain.User{
		Name:         in.Name,
		Username:     in.Username,
		Email:        in.Email,
		Age:          in.Age,
		Gender:       in.Gender,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperrors.NewConflict("User already exists", nil)
		}
		return nil, err
	}

	s.publish(ctx, events.New(events.EventUserRegistered, domain.SubjectID(user.ID),
		events.UserRegisteredPayload{UserID: user.ID, Username: user.Username}))
	return user, nil
}

// ListUsers returns every user.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apperrors.NewDomainError("NOT_FOUND", "No users found", http.StatusNotFound, nil)
	}
	return users, nil
}

// GetUser loads a user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if err := checkUserID(id); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "user")
	}
	return user, nil
}

// UpdateUser applies a patch to the caller's own account.
func (s *UserService) UpdateUser(ctx context.Context, claims *auth.Claims, id string, patch UserPatch) (*domain.User, error) {
	if err := checkUserID(id); err != nil {
		return nil, err
	}
	if err := s.authorizeSelf(claims, id, "update"); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "user")
	}

	next := profileFields{Name: user.Name, Username: user.Username, Email: user.Email, Age: user.Age, Gender: user.Gender}
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.Username != nil {
		next.Username = *patch.Username
	}
	if patch.Email != nil {
		next.Email = *patch.Email
	}
	if patch.Age != nil {
		next.Age = *patch.Age
	}

	errs := fieldErrors{}
	errs.check(next)
	if patch.Password != nil {
		errs.check(passwordField{Password: *patch.Password})
	}
	if len(errs) > 0 {
		return nil, apperrors.NewValidationError("invalid user details", errs)
	}

	user.Name, user.Age = next.Name, next.Age

	username, email := "", ""
	if patch.Username != nil && *patch.Username != user.Username {
		username = *patch.Username
	}
	if patch.Email != nil && *patch.Email != user.Email {
		email = *patch.Email
	}
	if err := s.ensureUnique(ctx, user.ID, username, email); err != nil {
		return nil, err
	}
	if username != "" {
		user.Username = username
	}
	if email != "" {
		user.Email = email
	}

	if patch.Password != nil {
		hash, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			return nil, apperrors.NewValidationError("password cannot be hashed", map[string]any{"password": err.Error()})
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperrors.NewConflict("User already exists", nil)
		}
		return nil, notFoundAs(err, "user")
	}
	return user, nil
}

// DeleteUser removes the caller's own account.
func (s *UserService) DeleteUser(ctx context.Context, claims *auth.Claims, id string) error {
	if err := checkUserID(id); err != nil {
		return err
	}
	if err := s.authorizeSelf(claims, id, "delete"); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return notFoundAs(err, "user")
	}
	return nil
}

// checkUserID rejects IDs that cannot name a stored user.
func checkUserID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewNotFound("user", nil)
	}
	return nil
}

func (s *UserService) authorizeSelf(claims *auth.Claims, id, action string) error {
	if claims == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	decision := s.authorizer.AuthorizeMutation(claims.Subject, domain.SubjectID(id))
	if !decision.Permitted {
		return forbidden(decision, "you are not authorized to "+action+" this user")
	}
	return nil
}

// ensureUnique checks that username and email (when non-empty) are not held
// by an account other than selfID.
func (s *UserService) ensureUnique(ctx context.Context, selfID, username, email string) error {
	if username != "" {
		existing, err := s.users.GetByUsername(ctx, username)
		switch {
		case err == nil && existing.ID != selfID:
			return apperrors.NewConflict("User already exists", map[string]any{"username": username})
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return err
		}
	}
	if email != "" {
		existing, err := s.users.GetByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != selfID:
			return apperrors.NewConflict("Email Address already exists", map[string]any{"email": email})
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return err
		}
	}
	return nil
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
