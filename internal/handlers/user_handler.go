package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-application-tracker/internal/dtos"
	"github.com/justsurfingit/job-application-tracker/internal/middleware"
	"github.com/justsurfingit/job-application-tracker/internal/services"
)

type UserHandler struct {
	AccountService *services.AccountService
	MaxUploadBytes int64
	SecureCookies  bool
}

func NewUserHandler(s *services.AccountService, maxUploadBytes int64, secureCookies bool) *UserHandler {
	return &UserHandler{AccountService: s, MaxUploadBytes: maxUploadBytes, SecureCookies: secureCookies}
}

// UpdateProfile is PUT /user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dtos.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := h.AccountService.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		respondError(c, err, "User not found", "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": user.Name, "email": user.Email})
}

// ChangePassword is PATCH /user/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req dtos.PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	err := h.AccountService.ChangePassword(c.Request.Context(), middleware.CurrentUser(c), &req)
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		return
	}
	if err != nil {
		respondError(c, err, "User not found", "Error updating password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// UpdateEmailPreferences is PATCH /user/email-preferences
func (h *UserHandler) UpdateEmailPreferences(c *gin.Context) {
	var req dtos.EmailPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Missing flags and non-boolean values land here alike.
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid preferences format"})
		return
	}
	if err := h.AccountService.UpdateEmailPreferences(c.Request.Context(), middleware.CurrentUser(c), &req); err != nil {
		respondError(c, err, "User not found", "Error updating email preferences")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email preferences updated successfully"})
}

// UploadImage is POST /user/upload (multipart "file").
func (h *UserHandler) UploadImage(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}
	file, ok := openFormFile(c, "file")
	if !ok {
		return
	}
	if file == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	url, err := h.AccountService.UploadImage(c.Request.Context(), middleware.CurrentUser(c), file)
	if err != nil {
		respondError(c, err, "User not found", "Internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "message": "Image uploaded successfully"})
}

// DeleteAccount is DELETE /user/delete. The session cookie is cleared too.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	if err := h.AccountService.DeleteAccount(c.Request.Context(), middleware.CurrentUser(c)); err != nil {
		respondError(c, err, "User not found", "Error deleting account")
		return
	}
	clearSessionCookie(c, h.SecureCookies)
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
