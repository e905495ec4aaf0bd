package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/beaconworks/beacon-go/internal/domain/content"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/beaconworks/beacon-go/internal/infrastructure/security"
)

// PostInput is the create/update payload for a blog post.
type PostInput struct {
	Title         string `json:"title" binding:"required"`
	Slug          string `json:"slug"`
	Excerpt       string `json:"excerpt"`
	BodyMarkdown  string `json:"bodyMarkdown"`
	CoverImageURL string `json:"coverImageUrl"`
	Published     bool   `json:"published"`
}

// PostService orchestrates blog post management.
type PostService struct {
	postRepo content.PostRepository
	logger   *logging.ChanneledLogger
}

// NewPostService creates a new post service.
func NewPostService(postRepo content.PostRepository, logger *logging.ChanneledLogger) *PostService {
	return &PostService{
		postRepo: postRepo,
		logger:   logger,
	}
}

// List returns posts, optionally restricted to published ones for the
// public site.
func (s *PostService) List(publishedOnly bool) ([]*content.Post, error) {
	posts, err := s.postRepo.List(publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// GetBySlug returns a post by its URL slug.
func (s *PostService) GetBySlug(slug string) (*content.Post, error) {
	if slug == "" {
		return nil, fmt.Errorf("post slug cannot be empty")
	}
	post, err := s.postRepo.FindBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get post %s: %w", slug, err)
	}
	return post, nil
}

// GetByID returns a post by ID.
func (s *PostService) GetByID(id string) (*content.Post, error) {
	if id == "" {
		return nil, fmt.Errorf("post ID cannot be empty")
	}
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post %s: %w", id, err)
	}
	return post, nil
}

// Create stores a new post. A missing slug is derived from the title; a
// slug collision is an error.
func (s *PostService) Create(input PostInput) (*content.Post, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("post title cannot be empty")
	}

	slug := input.Slug
	if slug == "" {
		slug = Slugify(input.Title)
	}
	existing, err := s.postRepo.FindBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug %s: %w", slug, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("post slug %s already exists", slug)
	}

	now := time.Now().UTC()
	post := &content.Post{
		ID:            security.GenerateULID(),
		Title:         input.Title,
		Slug:          slug,
		Excerpt:       input.Excerpt,
		BodyMarkdown:  input.BodyMarkdown,
		CoverImageURL: input.CoverImageURL,
		Published:     input.Published,
		CreatedAt:     now,
	}
	if input.Published {
		post.PublishedAt = &now
	}

	if err := s.postRepo.Store(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.Content().Info("Post created", "postId", post.ID, "slug", post.Slug)
	return post, nil
}

// Update modifies an existing post. Publishing for the first time
// stamps the publication time; republishing keeps the original stamp.
func (s *PostService) Update(id string, input PostInput) (*content.Post, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to verify post %s exists: %w", id, err)
	}
	if post == nil {
		return nil, fmt.Errorf("post %s not found", id)
	}

	if input.Slug != "" && input.Slug != post.Slug {
		existing, err := s.postRepo.FindBySlug(input.Slug)
		if err != nil {
			return nil, fmt.Errorf("failed to check slug %s: %w", input.Slug, err)
		}
		if existing != nil && existing.ID != id {
			return nil, fmt.Errorf("post slug %s already exists", input.Slug)
		}
		post.Slug = input.Slug
	}

	now := time.Now().UTC()
	post.Title = input.Title
	post.Excerpt = input.Excerpt
	post.BodyMarkdown = input.BodyMarkdown
	post.CoverImageURL = input.CoverImageURL
	if input.Published && post.PublishedAt == nil {
		post.PublishedAt = &now
	}
	post.Published = input.Published
	post.UpdatedAt = &now

	if err := s.postRepo.Update(post); err != nil {
		return nil, fmt.Errorf("failed to update post %s: %w", id, err)
	}

	s.logger.Content().Info("Post updated", "postId", post.ID, "slug", post.Slug)
	return post, nil
}

// Delete removes a post.
func (s *PostService) Delete(id string) error {
	if id == "" {
		return fmt.Errorf("post ID cannot be empty")
	}
	if err := s.postRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	s.logger.Content().Info("Post deleted", "postId", id)
	return nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases a title and collapses runs of non-alphanumerics
// into single hyphens.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStrip.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
