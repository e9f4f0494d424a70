package main

import (
	"context"
	"fmt"

	"github.com/pramudya/arus/internal/config"
	"github.com/pramudya/arus/internal/embedding"
	"github.com/pramudya/arus/internal/intent"
	"github.com/pramudya/arus/internal/service"
	"github.com/pramudya/arus/internal/storage"
	"github.com/spf13/viper"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/arus/arus.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initClassifier builds the hybrid intent classifier: a local embedding
// engine first, the OpenAI engine as remote fallback when an API key is
// configured, keywords as last resort inside the classifier itself.
func initClassifier() (*intent.Classifier, error) {
	cfg := config.LoadEmbeddingConfig()

	local, err := embedding.NewEngine(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding engine: %w", err)
	}

	var remote embedding.Engine
	if cfg.Provider != "openai" && cfg.OpenAIAPIKey != "" {
		remote, err = embedding.NewOpenAIEngine(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create fallback engine: %w", err)
		}
	}

	return intent.NewClassifier(local, remote), nil
}
