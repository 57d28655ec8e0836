package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-application-tracker/internal/dtos"
	"github.com/justsurfingit/job-application-tracker/internal/middleware"
	"github.com/justsurfingit/job-application-tracker/internal/services"
)

type TechPrepHandler struct {
	TechPrepService *services.TechPrepService
}

func NewTechPrepHandler(s *services.TechPrepService) *TechPrepHandler {
	return &TechPrepHandler{TechPrepService: s}
}

// ListProblems is GET /tech-prep/problems
func (h *TechPrepHandler) ListProblems(c *gin.Context) {
	problems, err := h.TechPrepService.ListProblems(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err, "Problem not found", "Failed to fetch problems")
		return
	}
	c.JSON(http.StatusOK, gin.H{"problems": problems})
}

// UpdateProgress is POST /tech-prep/progress
func (h *TechPrepHandler) UpdateProgress(c *gin.Context) {
	var req dtos.ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	progress, err := h.TechPrepService.UpdateProgress(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		respondError(c, err, "Problem not found", "Failed to update progress")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"progress": gin.H{
			"id":         progress.ID,
			"problemId":  progress.ProblemID,
			"solved":     progress.Solved,
			"bookmarked": progress.Bookmarked,
			"updatedAt":  progress.UpdatedAt,
		},
	})
}
