package dto

import (
	"time"

	"github.com/spec-kit/blog-service/internal/domain"
)

// CreateBlogRequest payload. Tags is a comma separated list.
type CreateBlogRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
}

// UpdateBlogRequest payload. Omitted fields are kept.
type UpdateBlogRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Tags        *string `json:"tags"`
}

// BlogResponse is the public view of a post.
type BlogResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Author      string    `json:"author"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BlogPageResponse wraps a listing window.
type BlogPageResponse struct {
	Items []BlogResponse `json:"items"`
	Meta  PageMeta       `json:"meta"`
}

// PageMeta describes the listing window.
type PageMeta struct {
	TotalItems   int `json:"total_items"`
	ItemCount    int `json:"item_count"`
	ItemsPerPage int `json:"items_per_page"`
	TotalPages   int `json:"total_pages"`
	CurrentPage  int `json:"current_page"`
}

// NewBlogResponse maps a domain blog.
func NewBlogResponse(b *domain.Blog) BlogResponse {
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	return BlogResponse{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Tags:        tags,
		Author:      b.AuthorID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// NewBlogPageResponse maps a domain page.
func NewBlogPageResponse(p *domain.BlogPage) BlogPageResponse {
	items := make([]BlogResponse, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, NewBlogResponse(&p.Items[i]))
	}
	return BlogPageResponse{
		Items: items,
		Meta: PageMeta{
			TotalItems:   p.Total,
			ItemCount:    len(p.Items),
			ItemsPerPage: p.Limit,
			TotalPages:   p.TotalPages,
			CurrentPage:  p.Page,
		},
	}
}
