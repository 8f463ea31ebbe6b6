package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-service/internal/domain"
)

// BlogRepository defines persistence access for blog posts. Lookups return
// domain.ErrNotFound for unknown posts.
type BlogRepository interface {
	Create(ctx context.Context, blog *domain.Blog) error
	Update(ctx context.Context, blog *domain.Blog) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Blog, error)
	List(ctx context.Context, limit, offset int) ([]domain.Blog, int, error)
	OwnerOf(ctx context.Context, id int64) (domain.SubjectID, error)
}

type blogRepository struct {
	pool *pgxpool.Pool
}

// NewBlogRepository returns a Postgres-backed implementation.
func NewBlogRepository(pool *pgxpool.Pool) BlogRepository {
	return &blogRepository{pool: pool}
}

const blogColumns = `id, title, description, tags, author_id, created_at, updated_at`

func (r *blogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	const query = `
        INSERT INTO blogs (title, description, tags, author_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		blog.Title,
		blog.Description,
		blog.Tags,
		blog.AuthorID,
	).Scan(&blog.ID, &blog.CreatedAt, &blog.UpdatedAt)
	return translate(err)
}

func (r *blogRepository) Update(ctx context.Context, blog *domain.Blog) error {
	const query = `
        UPDATE blogs SET title=$1, description=$2, tags=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		blog.Title,
		blog.Description,
		blog.Tags,
		blog.ID,
	).Scan(&blog.UpdatedAt)
	return translate(err)
}

func (r *blogRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *blogRepository) GetByID(ctx context.Context, id int64) (*domain.Blog, error) {
	blog, err := scanBlog(r.pool.QueryRow(ctx, `SELECT `+blogColumns+` FROM blogs WHERE id=$1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return blog, nil
}

func (r *blogRepository) List(ctx context.Context, limit, offset int) ([]domain.Blog, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM blogs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+blogColumns+` FROM blogs ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	blogs := make([]domain.Blog, 0, limit)
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, 0, err
		}
		blogs = append(blogs, *blog)
	}
	return blogs, total, rows.Err()
}

func (r *blogRepository) OwnerOf(ctx context.Context, id int64) (domain.SubjectID, error) {
	var owner string
	if err := r.pool.QueryRow(ctx, `SELECT author_id FROM blogs WHERE id=$1`, id).Scan(&owner); err != nil {
		return "", translate(err)
	}
	return domain.SubjectID(owner), nil
}

func scanBlog(row pgx.Row) (*domain.Blog, error) {
	var blog domain.Blog
	if err := row.Scan(
		&blog.ID,
		&blog.Title,
		&blog.Description,
		&blog.Tags,
		&blog.AuthorID,
		&blog.CreatedAt,
		&blog.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &blog, nil
}
