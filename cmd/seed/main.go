package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"

	"reventa/internal/config"
	"reventa/internal/core"
	"reventa/internal/log"
	"reventa/internal/storage"
)

// Seeds the starter categories and an admin user into a fresh database.
// Re-running is safe: existing categories are left untouched.
func main() {
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig()).WithComponent(log.ComponentSeed)
	log.SetDefault(logger)

	cfg := config.Load()
	if cfg.SessionSecret == "" {
		// Validate requires a session secret, which seeding does not need.
		cfg.SessionSecret = "seed-only-placeholder"
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.New(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()

	categories := []core.Category{
		{Name: "Pokémon", Code: "POK"},
		{Name: "Dragon Ball Z", Code: "DBZ"},
		{Name: "Merch", Code: "MRC"},
		{Name: "One Piece", Code: "OPI"},
		{Name: "Yu Gi Oh", Code: "YGO"},
	}

	for _, c := range categories {
		if _, err := repo.GetCategoryByCode(ctx, c.Code); err == nil {
			logger.Info("Category already exists", "code", c.Code)
			continue
		} else if !errors.Is(err, core.ErrNotFound) {
			logger.Error("Failed to check category", "code", c.Code, "error", err)
			os.Exit(1)
		}
		created, err := repo.CreateCategory(ctx, c)
		if err != nil {
			logger.Error("Failed to seed category", "code", c.Code, "error", err)
			os.Exit(1)
		}
		logger.Info("Category seeded", "code", created.Code, "name", created.Name)
	}

	if openID := os.Getenv("SEED_ADMIN_OPENID"); openID != "" {
		user, err := repo.UpsertUser(ctx, core.User{
			OpenID:      openID,
			Name:        os.Getenv("SEED_ADMIN_NAME"),
			Email:       os.Getenv("SEED_ADMIN_EMAIL"),
			LoginMethod: "seed",
			Role:        "admin",
		})
		if err != nil {
			logger.Error("Failed to seed admin user", "error", err)
			os.Exit(1)
		}
		logger.Info("Admin user seeded", "open_id", user.OpenID)
	}

	logger.Info("Seeding completed")
}
