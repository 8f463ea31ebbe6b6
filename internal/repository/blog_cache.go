package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/domain"
)

const blogCachePrefix = "blog:"

// CachedBlogRepository is a read-through Redis cache in front of another
// BlogRepository. Single-blog reads are cached; every mutation evicts the
// entry. Cache failures are logged and fall through to the inner store.
type CachedBlogRepository struct {
	inner  BlogRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedBlogRepository wraps inner. A nil client or non-positive ttl
// returns inner unchanged.
func NewCachedBlogRepository(inner BlogRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) BlogRepository {
	if client == nil || ttl <= 0 {
		return inner
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedBlogRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (r *CachedBlogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	return r.inner.Create(ctx, blog)
}

func (r *CachedBlogRepository) Update(ctx context.Context, blog *domain.Blog) error {
	if err := r.inner.Update(ctx, blog); err != nil {
		return err
	}
	r.evict(ctx, blog.ID)
	return nil
}

func (r *CachedBlogRepository) Delete(ctx context.Context, id int64) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *CachedBlogRepository) GetByID(ctx context.Context, id int64) (*domain.Blog, error) {
	key := blogCacheKey(id)

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var blog domain.Blog
		if jsonErr := json.Unmarshal(raw, &blog); jsonErr == nil {
			return &blog, nil
		}
		r.logger.Warn("discarding undecodable cached blog", zap.Int64("blog_id", id))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("blog cache read failed", zap.Int64("blog_id", id), zap.Error(err))
	}

	blog, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(blog); err == nil {
		if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			r.logger.Warn("blog cache write failed", zap.Int64("blog_id", id), zap.Error(err))
		}
	}
	return blog, nil
}

func (r *CachedBlogRepository) List(ctx context.Context, limit, offset int) ([]domain.Blog, int, error) {
	return r.inner.List(ctx, limit, offset)
}

// OwnerOf always reads the inner store so ownership checks never see a
// stale author.
func (r *CachedBlogRepository) OwnerOf(ctx context.Context, id int64) (domain.SubjectID, error) {
	return r.inner.OwnerOf(ctx, id)
}

func (r *CachedBlogRepository) evict(ctx context.Context, id int64) {
	if err := r.client.Del(ctx, blogCacheKey(id)).Err(); err != nil {
		r.logger.Warn("blog cache evict failed", zap.Int64("blog_id", id), zap.Error(err))
	}
}

func blogCacheKey(id int64) string {
	return blogCachePrefix + strconv.FormatInt(id, 10)
}
