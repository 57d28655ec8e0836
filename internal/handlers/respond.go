package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/justsurfingit/job-application-tracker/internal/services"
)

// respondError maps a service error onto a status code. Unexpected errors are
// logged in full and reach the client only as the generic failure message.
func respondError(c *gin.Context, err error, notFound, failure string) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Msg})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	case errors.Is(err, services.ErrUpload):
		slog.Error("Storage upload failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file to storage service"})
	case errors.Is(err, services.ErrExtractionDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Job extraction is not configured"})
	default:
		slog.Error(failure, "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": failure})
	}
}

// respondBindError turns a binding failure into a 400 naming the field.
func respondBindError(c *gin.Context, err error) {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		fields := make([]string, 0, len(vErrs))
		for _, fe := range vErrs {
			fields = append(fields, describeField(fe))
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": strings.Join(fields, "; ")})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
}

func describeField(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", lowerFirst(fe.Field()))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", lowerFirst(fe.Field()))
	case "min", "max":
		return fmt.Sprintf("%s must respect %s=%s", lowerFirst(fe.Field()), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", lowerFirst(fe.Field()))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
