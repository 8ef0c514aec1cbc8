// Package storage provides the key-value stores outlines are persisted in.
// This file holds the store contract, its errors and the backend selection.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"outliner/local-app/src/pkg/log"
	"outliner/local-app/src/pkg/model"
)

// Store errors
var (
	// ErrStorageAccess indicates that the store is unreachable or rejected the operation.
	ErrStorageAccess = errors.New("storage access failed")

	// ErrKeyNotFound indicates that no value is stored under the key.
	ErrKeyNotFound = errors.New("key not found")
)

// KVStore is an opaque key -> string store.
type KVStore interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key succeeds.
	Remove(ctx context.Context, key string) error
	// Keys lists the stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)
	// Close releases the store's resources.
	Close() error
}

// StoreType names a KVStore backend
type StoreType string

const (
	SQLite StoreType = "sqlite"
	Badger StoreType = "badger"
	Redis  StoreType = "redis"
	Memory StoreType = "memory"
)

// ValidateStoreType checks if the provided store type is supported
func ValidateStoreType(storeType string) (StoreType, error) {
	switch StoreType(storeType) {
	case SQLite, Badger, Redis, Memory:
		return StoreType(storeType), nil
	default:
		return "", fmt.Errorf("unsupported store type: %s", storeType)
	}
}

// NewStore opens the backend selected by the configuration.
func NewStore(ctx context.Context, cfg *model.Config, logger *log.Logger) (KVStore, error) {
	storeType, err := ValidateStoreType(cfg.StoreType)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Opening store", log.Fields{"type": string(storeType)})

	switch storeType {
	case SQLite:
		return OpenSQLite(filepath.Join(cfg.DatabaseDir, cfg.DatabaseFile), logger)
	case Badger:
		return OpenBadger(BadgerConfig{Path: cfg.BadgerDir, SyncWrites: true}, logger)
	case Redis:
		return OpenRedis(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
			Timeout:  time.Duration(cfg.RedisTimeoutMS) * time.Millisecond,
		}, logger)
	default:
		return NewMemoryStore(), nil
	}
}

// accessError wraps a backend failure so that it matches ErrStorageAccess
func accessError(op, key string, err error) error {
	return fmt.Errorf("%s %q: %w: %w", op, key, ErrStorageAccess, err)
}

// notFound reports key as absent
func notFound(key string) error {
	return fmt.Errorf("%q: %w", key, ErrKeyNotFound)
}
