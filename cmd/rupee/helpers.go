package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/rupeeledger/rupeeledger/internal/common"
	"github.com/rupeeledger/rupeeledger/internal/config"
	"github.com/rupeeledger/rupeeledger/internal/service"
	"github.com/rupeeledger/rupeeledger/internal/storage"
)

// initStorage opens the database, runs migrations and seeds the default
// categories.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDBPath
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := store.SeedDefaultCategories(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to seed default categories: %w", err)
	}

	return store, nil
}

// userFacing turns an unexpected save failure into a short terminal message
// while the underlying detail goes to the log. Caller mistakes (validation,
// missing references, rejected operations) pass through so their own messages
// stay visible.
func userFacing(msg string, err error) error {
	if errors.Is(err, common.ErrValidation) ||
		errors.Is(err, common.ErrNotFound) ||
		errors.Is(err, common.ErrInvalidOperation) {
		return err
	}
	common.LogError(err, msg, nil)
	return common.NewUserError(msg+", please retry", err)
}
