package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/blog-service/internal/domain"
)

// MemoryUserRepository keeps users in process memory. It backs local runs
// without POSTGRES_DSN and the handler tests.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
	blogs *MemoryBlogRepository
}

// NewMemoryUserRepository returns an empty in-memory user store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]domain.User)}
}

// NewMemoryRepositories returns linked user and blog stores. Deleting a user
// removes their blogs, as the author_id foreign key does in Postgres.
func NewMemoryRepositories() (*MemoryUserRepository, *MemoryBlogRepository) {
	users := NewMemoryUserRepository()
	users.blogs = NewMemoryBlogRepository()
	return users, users.blogs
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if _, exists := r.users[user.ID]; exists {
		return domain.ErrDuplicate
	}
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return domain.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, u := range r.users {
		if id != user.ID && (u.Email == user.Email || u.Username == user.Username) {
			return domain.ErrDuplicate
		}
	}
	user.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.users, id)
	if r.blogs != nil {
		r.blogs.deleteByAuthor(id)
	}
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *MemoryUserRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (r *MemoryUserRepository) find(match func(domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

// MemoryBlogRepository keeps blogs in process memory.
type MemoryBlogRepository struct {
	mu     sync.RWMutex
	nextID int64
	blogs  map[int64]domain.Blog
}

// NewMemoryBlogRepository returns an empty in-memory blog store.
func NewMemoryBlogRepository() *MemoryBlogRepository {
	return &MemoryBlogRepository{blogs: make(map[int64]domain.Blog)}
}

func (r *MemoryBlogRepository) Create(_ context.Context, blog *domain.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now().UTC()
	blog.ID = r.nextID
	blog.CreatedAt, blog.UpdatedAt = now, now
	r.blogs[blog.ID] = cloneBlog(*blog)
	return nil
}

func (r *MemoryBlogRepository) Update(_ context.Context, blog *domain.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.blogs[blog.ID]
	if !ok {
		return domain.ErrNotFound
	}
	blog.AuthorID = existing.AuthorID
	blog.CreatedAt = existing.CreatedAt
	blog.UpdatedAt = time.Now().UTC()
	r.blogs[blog.ID] = cloneBlog(*blog)
	return nil
}

func (r *MemoryBlogRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.blogs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.blogs, id)
	return nil
}

func (r *MemoryBlogRepository) deleteByAuthor(authorID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, b := range r.blogs {
		if b.AuthorID == authorID {
			delete(r.blogs, id)
		}
	}
}

func (r *MemoryBlogRepository) GetByID(_ context.Context, id int64) (*domain.Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.blogs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	b = cloneBlog(b)
	return &b, nil
}

func (r *MemoryBlogRepository) List(_ context.Context, limit, offset int) ([]domain.Blog, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.blogs))
	for id := range r.blogs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	total := len(ids)
	if offset >= total {
		return []domain.Blog{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}

	blogs := make([]domain.Blog, 0, end-offset)
	for _, id := range ids[offset:end] {
		blogs = append(blogs, cloneBlog(r.blogs[id]))
	}
	return blogs, total, nil
}

func (r *MemoryBlogRepository) OwnerOf(_ context.Context, id int64) (domain.SubjectID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.blogs[id]
	if !ok {
		return "", domain.ErrNotFound
	}
	return domain.SubjectID(b.AuthorID), nil
}

func cloneBlog(b domain.Blog) domain.Blog {
	b.Tags = append([]string(nil), b.Tags...)
	return b
}
