package handlers

import (
	"net/http"
	"strings"

	"github.com/beaconworks/beacon-go/internal/application/services"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// PostHandlers contains the blog post handlers, public and admin.
type PostHandlers struct {
	postService *services.PostService
	logger      *logging.ChanneledLogger
}

// NewPostHandlers creates post handlers with injected dependencies.
func NewPostHandlers(postService *services.PostService, logger *logging.ChanneledLogger) *PostHandlers {
	return &PostHandlers{
		postService: postService,
		logger:      logger,
	}
}

// GetPosts handles GET /api/v1/posts - published posts for the public site.
func (h *PostHandlers) GetPosts(c *gin.Context) {
	posts, err := h.postService.List(true)
	if err != nil {
		h.logger.Content().Error("Post listing failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetPostBySlug handles GET /api/v1/posts/:slug - single public post.
func (h *PostHandlers) GetPostBySlug(c *gin.Context) {
	post, err := h.postService.GetBySlug(c.Param("slug"))
	if err != nil {
		h.logger.Content().Error("Post lookup failed", "error", err.Error(), "slug", c.Param("slug"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get post"})
		return
	}
	if post == nil || !post.Published {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	c.JSON(http.StatusOK, post)
}

// GetAllPosts handles GET /api/v1/admin/posts - all posts including drafts.
func (h *PostHandlers) GetAllPosts(c *gin.Context) {
	posts, err := h.postService.List(false)
	if err != nil {
		h.logger.Content().Error("Admin post listing failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// PostPost handles POST /api/v1/admin/posts - create a post.
func (h *PostHandlers) PostPost(c *gin.Context) {
	var input services.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	post, err := h.postService.Create(input)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.Content().Error("Post creation failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, post)
}

// PutPost handles PUT /api/v1/admin/posts/:id - update a post.
func (h *PostHandlers) PutPost(c *gin.Context) {
	var input services.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	post, err := h.postService.Update(c.Param("id"), input)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		if strings.Contains(err.Error(), "already exists") {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.Content().Error("Post update failed", "error", err.Error(), "postId", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost handles DELETE /api/v1/admin/posts/:id - remove a post.
func (h *PostHandlers) DeletePost(c *gin.Context) {
	if err := h.postService.Delete(c.Param("id")); err != nil {
		h.logger.Content().Error("Post deletion failed", "error", err.Error(), "postId", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete post"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
