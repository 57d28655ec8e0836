package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-application-tracker/internal/auth"
	"github.com/justsurfingit/job-application-tracker/internal/config"
	"github.com/justsurfingit/job-application-tracker/internal/database"
	"github.com/justsurfingit/job-application-tracker/internal/handlers"
	"github.com/justsurfingit/job-application-tracker/internal/mail"
	"github.com/justsurfingit/job-application-tracker/internal/repository"
	"github.com/justsurfingit/job-application-tracker/internal/services"
	"github.com/justsurfingit/job-application-tracker/internal/storage"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))
	if cfg.LogLevel > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Database Connection
	db, err := database.Connect(cfg.DatabaseURL, database.ParseLogLevel(cfg.DBLogLevel))
	if err != nil {
		slog.Error("Database unavailable", "err", err)
		os.Exit(1)
	}
	users := repository.NewUserRepository(db)
	apps := repository.NewApplicationRepository(db)
	problems := repository.NewProblemRepository(db)

	// 3. Object Storage
	uploader, err := storage.NewCloudinary(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, cfg.UploadTimeout)
	if err != nil {
		slog.Error("Storage unavailable", "err", err)
		os.Exit(1)
	}

	// 4. Core Services
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)
	authService := services.NewAuthService(users, tokens)
	appService := services.NewApplicationService(apps, uploader)
	prepService := services.NewTechPrepService(problems)
	accountService := services.NewAccountService(users, uploader)

	// 5. Job-posting extraction (optional)
	var llmService *services.LLMService
	if cfg.Gemini.APIKey != "" {
		completer, err := services.NewGeminiCompleter(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			slog.Warn("Job extraction disabled", "err", err)
		} else {
			llmService = services.NewLLMService(completer)
		}
	}

	// 6. Follow-up reminders over Gmail (optional)
	if cfg.Gmail.Enabled() {
		startReminders(ctx, cfg, apps, users)
	} else {
		slog.Info("Follow-up reminders disabled (GMAIL_CREDENTIALS_FILE/GMAIL_TOKEN_FILE not set)")
	}

	// 7. Router & Server
	router := handlers.NewRouter(handlers.Deps{
		Auth:           authService,
		Applications:   appService,
		TechPrep:       prepService,
		Accounts:       accountService,
		LLM:            llmService,
		Tokens:         tokens,
		CORSOrigins:    cfg.CORSOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
		SecureCookies:  cfg.SecureCookies,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.UploadTimeout,
		WriteTimeout: cfg.UploadTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "err", err)
		}
	}()

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "err", err)
		os.Exit(1)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	slog.Info("Server stopped")
}

func startReminders(ctx context.Context, cfg *config.Config, apps *repository.ApplicationRepository, users *repository.UserRepository) {
	client, err := auth.GmailClient(ctx, cfg.Gmail.CredentialsFile, cfg.Gmail.TokenFile)
	if err != nil {
		slog.Warn("Follow-up reminders disabled", "err", err)
		return
	}
	mailer, err := mail.NewGmailMailer(ctx, client, cfg.Gmail.From)
	if err != nil {
		slog.Warn("Follow-up reminders disabled", "err", err)
		return
	}
	slog.Info("Gmail connected, follow-up reminders enabled")
	services.NewReminderService(apps, users, mailer, cfg.ReminderInterval).StartWatcher(ctx)
}
