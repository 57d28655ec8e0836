package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-application-tracker/internal/dtos"
	"github.com/justsurfingit/job-application-tracker/internal/middleware"
	"github.com/justsurfingit/job-application-tracker/internal/services"
)

type ApplicationHandler struct {
	LLMService         *services.LLMService
	ApplicationService *services.ApplicationService
	MaxUploadBytes     int64
}

func NewApplicationHandler(llm *services.LLMService, apps *services.ApplicationService, maxUploadBytes int64) *ApplicationHandler {
	return &ApplicationHandler{
		LLMService:         llm,
		ApplicationService: apps,
		MaxUploadBytes:     maxUploadBytes,
	}
}

// List is GET /applications?status=&company=
func (h *ApplicationHandler) List(c *gin.Context) {
	var q dtos.ApplicationListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	apps, err := h.ApplicationService.List(c.Request.Context(), middleware.CurrentUser(c), q)
	if err != nil {
		respondError(c, err, "Application not found", "Failed to fetch applications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// Create is POST /applications (multipart form, optional "resume" file).
func (h *ApplicationHandler) Create(c *gin.Context) {
	h.limitBody(c)

	var req dtos.ApplicationCreateForm
	if err := c.ShouldBind(&req); err != nil {
		if bodyTooLarge(c, err) {
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	resume, ok := openFormFile(c, "resume")
	if !ok {
		return
	}
	if resume != nil {
		defer resume.Close()
	}

	app, err := h.ApplicationService.Create(c.Request.Context(), middleware.CurrentUser(c), &req, readerOrNil(resume))
	if err != nil {
		respondError(c, err, "Application not found", "Failed to create application")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"application": app})
}

// Get is GET /applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	app, err := h.ApplicationService.Get(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Application not found", "Failed to fetch application")
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

// Update is PUT /applications/:id (multipart form, every field optional).
func (h *ApplicationHandler) Update(c *gin.Context) {
	h.limitBody(c)

	var req dtos.ApplicationUpdateForm
	if err := c.ShouldBind(&req); err != nil {
		if bodyTooLarge(c, err) {
			return
		}
		respondBindError(c, err)
		return
	}
	resume, ok := openFormFile(c, "resume")
	if !ok {
		return
	}
	if resume != nil {
		defer resume.Close()
	}

	app, err := h.ApplicationService.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), &req, readerOrNil(resume))
	if err != nil {
		respondError(c, err, "Application not found", "Failed to update application")
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

// Delete is DELETE /applications/:id
func (h *ApplicationHandler) Delete(c *gin.Context) {
	err := h.ApplicationService.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Application not found", "Failed to delete application")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ParseJob is POST /applications/extract. It drafts an application from the
// raw HTML of a job posting.
func (h *ApplicationHandler) ParseJob(c *gin.Context) {
	var req dtos.JobExtractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	draft, err := h.LLMService.ExtractApplication(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Job posting not found", "AI extraction failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

func (h *ApplicationHandler) limitBody(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}
}

// openFormFile returns the named file part, or nil when the form has none. On
// a malformed part it writes a 400 and reports false.
func openFormFile(c *gin.Context, field string) (io.ReadCloser, bool) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, true
	}
	if bodyTooLarge(c, err) {
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large or invalid"})
		return nil, false
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large or invalid"})
		return nil, false
	}
	return f, true
}

// bodyTooLarge answers 413 when err comes from the MaxUploadBytes limit.
func bodyTooLarge(c *gin.Context, err error) bool {
	var maxErr *http.MaxBytesError
	if !errors.As(err, &maxErr) {
		return false
	}
	c.JSON(http.StatusRequestEntityTooLarge, gin.H{
		"error": fmt.Sprintf("Request body exceeds the %d byte upload limit", maxErr.Limit),
	})
	return true
}

// readerOrNil keeps a nil ReadCloser from becoming a non-nil io.Reader.
func readerOrNil(rc io.ReadCloser) io.Reader {
	if rc == nil {
		return nil
	}
	return rc
}
