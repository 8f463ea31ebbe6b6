package service

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

const maxPageLimit = 100

// AuthorLookup confirms that a subject still has an account.
type AuthorLookup interface {
	FindByID(ctx context.Context, id domain.SubjectID) (*domain.Credential, error)
}

// BlogInput describes a new post.
type BlogInput struct {
	Title       string
	Description string
	Tags        []string
}

// BlogPatch carries optional post changes. Nil fields are left untouched.
type BlogPatch struct {
	Title       *string
	Description *string
	Tags        []string
}

// BlogService coordinates blog workflows.
type BlogService struct {
	blogs        repository.BlogRepository
	authors      AuthorLookup
	authorizer   *auth.Authorizer
	dispatcher   events.Dispatcher
	defaultLimit int
	logger       *zap.Logger
}

// BlogDependencies bundles collaborators for the blog service.
type BlogDependencies struct {
	BlogRepo     repository.BlogRepository
	Authors      AuthorLookup
	Authorizer   *auth.Authorizer
	Dispatcher   events.Dispatcher
	DefaultLimit int
	Logger       *zap.Logger
}

// NewBlogService builds the service.
func NewBlogService(deps BlogDependencies) *BlogService {
	limit := deps.DefaultLimit
	if limit <= 0 {
		limit = 10
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlogService{
		blogs:        deps.BlogRepo,
		authors:      deps.Authors,
		authorizer:   deps.Authorizer,
		dispatcher:   deps.Dispatcher,
		defaultLimit: limit,
		logger:       logger,
	}
}

// CreateBlog stores a post authored by the caller.
func (s *BlogService) CreateBlog(ctx context.Context, claims *auth.Claims, in BlogInput) (*domain.Blog, error) {
	if decision := s.authorizer.AuthorizeCreate(claims); !decision.Permitted {
		return nil, forbidden(decision, "authentication required")
	}

	tags := normalizeTags(in.Tags)
	errs := fieldErrors{}
	errs.check(blogFields{Title: in.Title, Description: in.Description, Tags: tags})
	if len(errs) > 0 {
		return nil, apperrors.NewValidationError("invalid blog details", errs)
	}

	if _, err := s.authors.FindByID(ctx, claims.Subject); err != nil {
		return nil, notFoundAs(err, "user")
	}

	blog := &domain.Blog{
		Title:       in.Title,
		Description: in.Description,
		Tags:        tags,
		AuthorID:    string(claims.Subject),
	}
	if err := s.blogs.Create(ctx, blog); err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.EventBlogCreated, claims.Subject,
		events.BlogPayload{BlogID: blog.ID, Title: blog.Title}))
	return blog, nil
}

// ListBlogs returns the page of posts containing offset. Offsets are
// rounded down to a page boundary.
func (s *BlogService) ListBlogs(ctx context.Context, limit, offset int) (*domain.BlogPage, error) {
	if offset < 0 {
		return nil, apperrors.NewValidationError("Missing or invalid offset value", nil)
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	page := offset/limit + 1
	items, total, err := s.blogs.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.NewDomainError("NOT_FOUND", "No blogs found", http.StatusNotFound, nil)
	}

	return &domain.BlogPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// GetBlog loads a post by ID. Reads require no authorization.
func (s *BlogService) GetBlog(ctx context.Context, id int64) (*domain.Blog, error) {
	blog, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "blog")
	}
	return blog, nil
}

// UpdateBlog applies a patch when the caller owns the post.
func (s *BlogService) UpdateBlog(ctx context.Context, claims *auth.Claims, id int64, patch BlogPatch) (*domain.Blog, error) {
	if err := s.authorizeOwner(ctx, claims, id, "update"); err != nil {
		return nil, err
	}

	blog, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "blog")
	}

	if patch.Title != nil {
		blog.Title = *patch.Title
	}
	if patch.Description != nil {
		blog.Description = *patch.Description
	}
	if patch.Tags != nil {
		blog.Tags = normalizeTags(patch.Tags)
	}

	errs := fieldErrors{}
	errs.check(blogFields{Title: blog.Title, Description: blog.Description, Tags: blog.Tags})
	if len(errs) > 0 {
		return nil, apperrors.NewValidationError("invalid blog details", errs)
	}

	if err := s.blogs.Update(ctx, blog); err != nil {
		return nil, notFoundAs(err, "blog")
	}

	s.publish(ctx, events.New(events.EventBlogUpdated, claims.Subject,
		events.BlogPayload{BlogID: blog.ID, Title: blog.Title}))
	return blog, nil
}

// DeleteBlog removes a post when the caller owns it.
func (s *BlogService) DeleteBlog(ctx context.Context, claims *auth.Claims, id int64) error {
	if err := s.authorizeOwner(ctx, claims, id, "delete"); err != nil {
		return err
	}
	if err := s.blogs.Delete(ctx, id); err != nil {
		return notFoundAs(err, "blog")
	}

	s.publish(ctx, events.New(events.EventBlogDeleted, claims.Subject, events.BlogPayload{BlogID: id}))
	return nil
}

// authorizeOwner loads the post's author and checks it against the caller,
// whose account must still exist. The ownership decision is always taken
// before any mutation.
func (s *BlogService) authorizeOwner(ctx context.Context, claims *auth.Claims, id int64, action string) error {
	if claims == nil {
		return forbidden(s.authorizer.AuthorizeCreate(nil), "")
	}

	if _, err := s.authors.FindByID(ctx, claims.Subject); err != nil {
		return notFoundAs(err, "user")
	}

	owner, err := s.blogs.OwnerOf(ctx, id)
	if err != nil {
		return notFoundAs(err, "blog")
	}

	decision := s.authorizer.AuthorizeMutation(claims.Subject, owner)
	if !decision.Permitted {
		s.logger.Info("blog mutation denied",
			zap.Int64("blog_id", id),
			zap.String("subject", string(claims.Subject)),
			zap.String("reason", string(decision.Reason)))
		return forbidden(decision, "You are not authorized to "+action+" this blog")
	}
	return nil
}

func (s *BlogService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// normalizeTags trims tags and drops empty and repeated entries.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// SplitTags parses a comma separated tag list.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return normalizeTags(strings.Split(raw, ","))
}
