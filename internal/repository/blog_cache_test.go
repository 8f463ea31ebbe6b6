package repository

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/domain"
)

func TestNewCachedBlogRepositoryDisabled(t *testing.T) {
	inner := NewMemoryBlogRepository()

	assert.Same(t, inner, NewCachedBlogRepository(inner, nil, time.Minute, nil))

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()
	assert.Same(t, inner, NewCachedBlogRepository(inner, client, 0, nil))
}

func TestCachedBlogRepositoryFallsThroughWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	inner := NewMemoryBlogRepository()
	repo := NewCachedBlogRepository(inner, client, time.Minute, zap.NewNop())
	_, cached := repo.(*CachedBlogRepository)
	require.True(t, cached)

	blog := &domain.Blog{Title: "t", Description: "d", AuthorID: "U1"}
	require.NoError(t, repo.Create(ctx, blog))

	got, err := repo.GetByID(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)

	got.Title = "t2"
	require.NoError(t, repo.Update(ctx, got))

	owner, err := repo.OwnerOf(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectID("U1"), owner)

	require.NoError(t, repo.Delete(ctx, blog.ID))
	_, err = repo.GetByID(ctx, blog.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type countingBlogRepository struct {
	BlogRepository
	gets   atomic.Int32
	owners atomic.Int32
}

func (r *countingBlogRepository) GetByID(ctx context.Context, id int64) (*domain.Blog, error) {
	r.gets.Add(1)
	return r.BlogRepository.GetByID(ctx, id)
}

func (r *countingBlogRepository) OwnerOf(ctx context.Context, id int64) (domain.SubjectID, error) {
	r.owners.Add(1)
	return r.BlogRepository.OwnerOf(ctx, id)
}

func newCachedFixture(t *testing.T) (BlogRepository, *countingBlogRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	inner := &countingBlogRepository{BlogRepository: NewMemoryBlogRepository()}
	return NewCachedBlogRepository(inner, client, time.Minute, zap.NewNop()), inner, mr
}

func TestCachedBlogRepositoryServesRepeatReadsFromRedis(t *testing.T) {
	ctx := context.Background()
	repo, inner, mr := newCachedFixture(t)

	blog := &domain.Blog{Title: "t", Description: "d", Tags: []string{"go"}, AuthorID: "U1"}
	require.NoError(t, repo.Create(ctx, blog))
	assert.False(t, mr.Exists(blogCacheKey(blog.ID)), "create must not populate the cache")

	first, err := repo.GetByID(ctx, blog.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, blog.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 1, inner.gets.Load())
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, []string{"go"}, second.Tags)
	assert.Equal(t, "U1", second.AuthorID)
	assert.True(t, mr.Exists(blogCacheKey(blog.ID)))
	assert.Equal(t, time.Minute, mr.TTL(blogCacheKey(blog.ID)))

	mr.FastForward(time.Minute)
	_, err = repo.GetByID(ctx, blog.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, inner.gets.Load(), "expired entry must be reloaded")
}

func TestCachedBlogRepositoryEvictsOnMutation(t *testing.T) {
	ctx := context.Background()
	repo, inner, mr := newCachedFixture(t)

	blog := &domain.Blog{Title: "before", Description: "d", AuthorID: "U1"}
	require.NoError(t, repo.Create(ctx, blog))
	got, err := repo.GetByID(ctx, blog.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists(blogCacheKey(blog.ID)))

	got.Title = "after"
	require.NoError(t, repo.Update(ctx, got))
	assert.False(t, mr.Exists(blogCacheKey(blog.ID)))

	got, err = repo.GetByID(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.EqualValues(t, 2, inner.gets.Load())

	require.NoError(t, repo.Delete(ctx, blog.ID))
	assert.False(t, mr.Exists(blogCacheKey(blog.ID)))
	_, err = repo.GetByID(ctx, blog.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, mr.Exists(blogCacheKey(blog.ID)), "misses are not cached")
}

func TestCachedBlogRepositoryOwnerOfBypassesCache(t *testing.T) {
	ctx := context.Background()
	repo, inner, mr := newCachedFixture(t)

	blog := &domain.Blog{Title: "t", Description: "d", AuthorID: "U1"}
	require.NoError(t, repo.Create(ctx, blog))
	_, err := repo.GetByID(ctx, blog.ID)
	require.NoError(t, err)

	// A poisoned entry must not influence ownership.
	require.NoError(t, mr.Set(blogCacheKey(blog.ID), `{"ID":1,"AuthorID":"U2"}`))

	for i := 0; i < 2; i++ {
		owner, err := repo.OwnerOf(ctx, blog.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SubjectID("U1"), owner)
	}
	assert.EqualValues(t, 2, inner.owners.Load())
}

func TestCachedBlogRepositoryReplacesUndecodableEntries(t *testing.T) {
	ctx := context.Background()
	repo, inner, mr := newCachedFixture(t)

	blog := &domain.Blog{Title: "t", Description: "d", AuthorID: "U1"}
	require.NoError(t, repo.Create(ctx, blog))
	require.NoError(t, mr.Set(blogCacheKey(blog.ID), "not json"))

	got, err := repo.GetByID(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)
	assert.EqualValues(t, 1, inner.gets.Load())

	raw, err := mr.Get(blogCacheKey(blog.ID))
	require.NoError(t, err)
	assert.NotEqual(t, "not json", raw)
}
