package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultPublicPaths can be visited without a session.
var DefaultPublicPaths = []string{"/login", "/signup", "/health"}

type TokenParser interface {
	Parse(token string) (string, error)
}

// Gatekeeper redirects unauthenticated browser navigation to /login. API
// routes are left to RequireSession, which answers with JSON instead.
func Gatekeeper(tokens TokenParser, publicPaths []string) gin.HandlerFunc {
	public := make(map[string]bool, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = true
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if public[path] || strings.HasPrefix(path, "/api/") {
			c.Next()
			return
		}

		for _, token := range SessionTokens(c) {
			if _, err := tokens.Parse(token); err == nil {
				c.Next()
				return
			}
		}
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}
