// Package content provides the concrete SQL-based implementation of the post
// repository.
package content

import (
	"database/sql"
	"time"

	"github.com/beaconworks/beacon-go/internal/domain/content"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/beaconworks/beacon-go/internal/infrastructure/persistence/database"
)

// SQLPostRepository is the SQL-based implementation of the PostRepository.
type SQLPostRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLPostRepository creates a new instance of the repository.
func NewSQLPostRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLPostRepository {
	return &SQLPostRepository{db: db, logger: logger}
}

const postColumns = `id, title, slug, excerpt, body_markdown, cover_image_url,
	published, published_at, created_at, updated_at`

// FindByID retrieves a Post by its unique identifier.
func (r *SQLPostRepository) FindByID(id string) (*content.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id))
}

// FindBySlug retrieves a Post by its slug.
func (r *SQLPostRepository) FindBySlug(slug string) (*content.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE slug = ?`
	return r.scanOne(r.db.QueryRow(query, slug))
}

// List returns posts newest first, optionally only published ones.
func (r *SQLPostRepository) List(publishedOnly bool) ([]*content.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`
	if publishedOnly {
		query += ` WHERE published = 1`
	}
	query += ` ORDER BY COALESCE(published_at, created_at) DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Database().Error("Failed to list posts", "error", err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*content.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// Store saves a new Post.
func (r *SQLPostRepository) Store(post *content.Post) error {
	const query = `
		INSERT INTO posts (id, title, slug, excerpt, body_markdown, cover_image_url,
			published, published_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(
		query,
		post.ID,
		post.Title,
		post.Slug,
		post.Excerpt,
		post.BodyMarkdown,
		post.CoverImageURL,
		post.Published,
		formatNullableTime(post.PublishedAt),
		post.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		r.logger.Database().Error("Failed to store post", "error", err.Error(), "slug", post.Slug)
	}
	return err
}

// Update rewrites a Post's mutable fields.
func (r *SQLPostRepository) Update(post *content.Post) error {
	const query = `
		UPDATE posts SET title = ?, slug = ?, excerpt = ?, body_markdown = ?,
			cover_image_url = ?, published = ?, published_at = ?, updated_at = ?
		WHERE id = ?`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := r.db.Exec(
		query,
		post.Title,
		post.Slug,
		post.Excerpt,
		post.BodyMarkdown,
		post.CoverImageURL,
		post.Published,
		formatNullableTime(post.PublishedAt),
		now,
		post.ID,
	)
	if err != nil {
		r.logger.Database().Error("Failed to update post", "error", err.Error(), "id", post.ID)
	}
	return err
}

// Delete removes a Post.
func (r *SQLPostRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		r.logger.Database().Error("Failed to delete post", "error", err.Error(), "id", id)
	}
	return err
}

func (r *SQLPostRepository) scanOne(row *sql.Row) (*content.Post, error) {
	post, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		r.logger.Database().Error("Failed to scan post", "error", err.Error())
		return nil, err
	}
	return post, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*content.Post, error) {
	var post content.Post
	var excerpt, coverImageURL sql.NullString
	var publishedAt, updatedAt sql.NullString
	var createdAt string

	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&excerpt,
		&post.BodyMarkdown,
		&coverImageURL,
		&post.Published,
		&publishedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	post.Excerpt = excerpt.String
	post.CoverImageURL = coverImageURL.String

	if post.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if publishedAt.Valid {
		t, err := parseTimestamp(publishedAt.String)
		if err != nil {
			return nil, err
		}
		post.PublishedAt = &t
	}
	if updatedAt.Valid {
		t, err := parseTimestamp(updatedAt.String)
		if err != nil {
			return nil, err
		}
		post.UpdatedAt = &t
	}

	return &post, nil
}

// parseTimestamp handles both RFC3339 and the legacy space-separated format
// that SQLite's CURRENT_TIMESTAMP default produces.
func parseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
