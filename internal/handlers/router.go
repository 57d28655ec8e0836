package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-application-tracker/internal/auth"
	"github.com/justsurfingit/job-application-tracker/internal/middleware"
	"github.com/justsurfingit/job-application-tracker/internal/services"
)

// Deps is everything the HTTP layer needs. LLM may be nil, in which case
// extraction answers 503.
type Deps struct {
	Auth         *services.AuthService
	Applications *services.ApplicationService
	TechPrep     *services.TechPrepService
	Accounts     *services.AccountService
	LLM          *services.LLMService
	Tokens       *auth.TokenManager

	CORSOrigins    []string
	MaxUploadBytes int64
	SecureCookies  bool
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(corsConfig(d.CORSOrigins)))
	r.Use(middleware.Gatekeeper(d.Tokens, middleware.DefaultPublicPaths))

	authHandler := NewAuthHandler(d.Auth, d.Tokens.TTL(), d.SecureCookies)
	appHandler := NewApplicationHandler(d.LLM, d.Applications, d.MaxUploadBytes)
	prepHandler := NewTechPrepHandler(d.TechPrep)
	userHandler := NewUserHandler(d.Accounts, d.MaxUploadBytes, d.SecureCookies)

	r.GET("/health", HealthCheck)

	requireSession := middleware.RequireSession(d.Auth)

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/signout", authHandler.Signout)
		authGroup.GET("/session", requireSession, authHandler.Session)
	}

	api := r.Group("/api", requireSession)
	{
		api.GET("/applications", appHandler.List)
		api.POST("/applications", appHandler.Create)
		api.POST("/applications/extract", appHandler.ParseJob)
		api.GET("/applications/:id", appHandler.Get)
		api.PUT("/applications/:id", appHandler.Update)
		api.DELETE("/applications/:id", appHandler.Delete)

		api.GET("/tech-prep/problems", prepHandler.ListProblems)
		api.POST("/tech-prep/progress", prepHandler.UpdateProgress)

		api.PUT("/user/profile", userHandler.UpdateProfile)
		api.PATCH("/user/password", userHandler.ChangePassword)
		api.PATCH("/user/email-preferences", userHandler.UpdateEmailPreferences)
		api.POST("/user/upload", userHandler.UploadImage)
		api.DELETE("/user/delete", userHandler.DeleteAccount)
	}

	return r
}

// corsConfig allows any origin when none are configured (local development).
// Credentials are only allowed for an explicit origin list.
func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.MaxAge = 12 * time.Hour
	if len(origins) == 0 {
		config.AllowAllOrigins = true
		return config
	}
	config.AllowOrigins = origins
	config.AllowCredentials = true
	return config
}
