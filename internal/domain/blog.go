package domain

import "time"

// Blog is a post written by a single author.
type Blog struct {
	ID          int64
	Title       string
	Description string
	Tags        []string
	AuthorID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BlogPage is one window of the blog listing.
type BlogPage struct {
	Items      []Blog
	Total      int
	Page       int
	Limit      int
	TotalPages int
}
