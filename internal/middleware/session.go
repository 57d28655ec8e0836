package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-application-tracker/internal/models"
)

const (
	SessionCookie  = "session"
	currentUserKey = "currentUser"
)

type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*models.User, error)
}

// RequireSession resolves the session token to a user once per request and
// stores it for CurrentUser. Requests without a usable session get a 401.
func RequireSession(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokens := SessionTokens(c)
		if len(tokens) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var user *models.User
		var err error
		for _, token := range tokens {
			if user, err = resolver.ResolveSession(c.Request.Context(), token); err == nil {
				break
			}
		}
		if err != nil {
			slog.Debug("Session rejected", "path", c.FullPath(), "err", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user resolved by RequireSession.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// SessionTokens lists the credentials a request presents, bearer token
// first, then the session cookie. A stale cookie must not shadow a valid
// bearer token, so callers try each in turn.
func SessionTokens(c *gin.Context) []string {
	var tokens []string
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		if t := strings.TrimSpace(parts[1]); t != "" {
			tokens = append(tokens, t)
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		tokens = append(tokens, cookie)
	}
	return tokens
}
