package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/domain"
)

// placeholderPassword seeds the hash verified when a login names an unknown
// account, so both failure paths cost one bcrypt comparison.
const placeholderPassword = "placeholder-password-never-matches"

// CredentialStore looks up login credentials. FindByEmail returns
// domain.ErrNotFound when no account uses the email.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.Credential, error)
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Subject   domain.SubjectID
	Token     string
	ExpiresAt time.Time
}

// Authenticator turns credentials into tokens and tokens back into claims.
type Authenticator struct {
	store     CredentialStore
	hasher    *Hasher
	tokens    *TokenManager
	ttl       time.Duration
	dummyHash string
	logger    *zap.Logger
}

// NewAuthenticator wires the authenticator. It hashes the placeholder
// password once with the hasher's cost.
func NewAuthenticator(store CredentialStore, hasher *Hasher, tokens *TokenManager, ttl time.Duration, logger *zap.Logger) (*Authenticator, error) {
	if store == nil || hasher == nil || tokens == nil {
		return nil, errors.New("authenticator requires store, hasher and token manager")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	dummy, err := hasher.Hash(placeholderPassword)
	if err != nil {
		return nil, fmt.Errorf("hash placeholder password: %w", err)
	}

	return &Authenticator{
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		ttl:       ttl,
		dummyHash: dummy,
		logger:    logger,
	}, nil
}

// Login verifies the email/password pair and issues an access token.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	cred, err := a.store.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		a.hasher.Verify(password, a.dummyHash)
		a.logger.Debug("login rejected", zap.String("reason", "unknown identifier"))
		return nil, ErrInvalidIdentifier
	}

	if !a.hasher.Verify(password, cred.PasswordHash) {
		a.logger.Debug("login rejected",
			zap.String("reason", "password mismatch"),
			zap.String("subject", string(cred.SubjectID)))
		return nil, ErrInvalidPassword
	}

	token, expiresAt, err := a.tokens.Issue(Claims{
		Subject: cred.SubjectID,
		Extra:   map[string]string{"email": cred.Email},
	}, a.ttl)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Subject: cred.SubjectID, Token: token, ExpiresAt: expiresAt}, nil
}

// Authenticate verifies a bare token string. It performs no I/O.
func (a *Authenticator) Authenticate(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	claims, err := a.tokens.Verify(token)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, ErrExpired):
		return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
	default:
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
}

// TTL returns the lifetime given to issued tokens.
func (a *Authenticator) TTL() time.Duration {
	return a.ttl
}
