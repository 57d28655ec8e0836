package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/justsurfingit/job-application-tracker/internal/catalog"
	"github.com/justsurfingit/job-application-tracker/internal/config"
	"github.com/justsurfingit/job-application-tracker/internal/database"
	"github.com/justsurfingit/job-application-tracker/internal/repository"
)

// seed loads the embedded problem catalog. Problems already present (by
// title) are left alone, so it is safe to run on every deploy.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg.DatabaseURL, database.ParseLogLevel(cfg.DBLogLevel))
	if err != nil {
		slog.Error("Database unavailable", "err", err)
		os.Exit(1)
	}

	problems, err := catalog.Problems()
	if err != nil {
		slog.Error("Invalid problem catalog", "err", err)
		os.Exit(1)
	}

	inserted, err := repository.NewProblemRepository(db).SeedCatalog(context.Background(), problems)
	if err != nil {
		slog.Error("Seeding failed", "err", err)
		os.Exit(1)
	}
	slog.Info("Seeding finished", "catalog", len(problems), "inserted", inserted)
}
