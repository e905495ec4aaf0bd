// Package content defines the blog post entity and its repository interface.
package content

import "time"

// Post is a blog entry. The markdown body is stored verbatim; rendering is a
// front-end concern.
type Post struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt,omitempty"`
	BodyMarkdown  string     `json:"bodyMarkdown"`
	CoverImageURL string     `json:"coverImageUrl,omitempty"`
	Published     bool       `json:"published"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// PostRepository defines the operations for persisting Post entities.
type PostRepository interface {
	FindByID(id string) (*Post, error)
	FindBySlug(slug string) (*Post, error)
	List(publishedOnly bool) ([]*Post, error)
	Store(post *Post) error
	Update(post *Post) error
	Delete(id string) error
}
