package main

import (
	"context"
	"fmt"

	"github.com/cellarist/decanter/internal/config"
	"github.com/cellarist/decanter/internal/service"
	"github.com/cellarist/decanter/internal/storage"
	"github.com/spf13/viper"
)

// initStorage initializes the catalog store with proper path expansion.
func initStorage(ctx context.Context) (service.CatalogStore, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/decanter/decanter.db"
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
