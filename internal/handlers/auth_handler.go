package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-application-tracker/internal/dtos"
	"github.com/justsurfingit/job-application-tracker/internal/middleware"
	"github.com/justsurfingit/job-application-tracker/internal/services"
)

type AuthHandler struct {
	AuthService   *services.AuthService
	SessionTTL    time.Duration
	SecureCookies bool
}

func NewAuthHandler(s *services.AuthService, ttl time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{AuthService: s, SessionTTL: ttl, SecureCookies: secureCookies}
}

// Signup is POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dtos.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.AuthService.Signup(c.Request.Context(), &req)
	if errors.Is(err, services.ErrEmailTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}
	if err != nil {
		respondError(c, err, "User not found", "Failed to create account")
		return
	}

	token, err := h.AuthService.Tokens.Issue(user.Email)
	if err != nil {
		respondError(c, err, "User not found", "Failed to create account")
		return
	}
	h.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login is POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, user, err := h.AuthService.Login(c.Request.Context(), &req)
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		respondError(c, err, "User not found", "Failed to sign in")
		return
	}
	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Signout is POST /auth/signout
func (h *AuthHandler) Signout(c *gin.Context) {
	clearSessionCookie(c, h.SecureCookies)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// Session is GET /auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": middleware.CurrentUser(c)})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.SessionTTL.Seconds()), "/", "", h.SecureCookies, true)
}

func clearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", secure, true)
}
