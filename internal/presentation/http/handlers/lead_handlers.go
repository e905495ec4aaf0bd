package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/beaconworks/beacon-go/internal/application/services"
	"github.com/beaconworks/beacon-go/internal/domain/leads"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// LeadHandlers contains the lead capture and management handlers.
type LeadHandlers struct {
	leadService *services.LeadService
	logger      *logging.ChanneledLogger
}

// NewLeadHandlers creates lead handlers with injected dependencies.
func NewLeadHandlers(leadService *services.LeadService, logger *logging.ChanneledLogger) *LeadHandlers {
	return &LeadHandlers{
		leadService: leadService,
		logger:      logger,
	}
}

// PostLead handles POST /api/v1/leads - public lead capture.
func (h *LeadHandlers) PostLead(c *gin.Context) {
	var req services.CaptureLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	lead, err := h.leadService.Capture(req)
	if err != nil {
		if strings.Contains(err.Error(), "invalid email") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email address"})
			return
		}
		h.logger.Leads().Error("Lead capture failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to capture lead"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"lead": gin.H{
			"id":             lead.ID,
			"email":          lead.Email,
			"score":          lead.Score,
			"classification": lead.Classification,
		},
	})
}

// GetLeads handles GET /api/v1/leads - admin lead listing.
func (h *LeadHandlers) GetLeads(c *gin.Context) {
	filter := leads.ListFilter{
		Status:         c.Query("status"),
		Classification: c.Query("classification"),
	}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
			return
		}
		filter.Page = page
	}
	if raw := c.Query("pageSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pageSize"})
			return
		}
		filter.PageSize = size
	}

	items, total, err := h.leadService.List(filter)
	if err != nil {
		h.logger.Leads().Error("Lead listing failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list leads"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leads": items, "total": total})
}

// GetLead handles GET /api/v1/leads/:id - admin single lead view.
func (h *LeadHandlers) GetLead(c *gin.Context) {
	lead, err := h.leadService.GetByID(c.Param("id"))
	if err != nil {
		h.logger.Leads().Error("Lead lookup failed", "error", err.Error(), "leadId", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get lead"})
		return
	}
	if lead == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}
	c.JSON(http.StatusOK, lead)
}

type leadStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PutLeadStatus handles PUT /api/v1/leads/:id/status - admin pipeline transition.
func (h *LeadHandlers) PutLeadStatus(c *gin.Context) {
	var req leadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	lead, err := h.leadService.UpdateStatus(c.Param("id"), req.Status)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
			return
		}
		if strings.Contains(err.Error(), "invalid lead status") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Leads().Error("Lead status update failed", "error", err.Error(), "leadId", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update lead status"})
		return
	}

	c.JSON(http.StatusOK, lead)
}
