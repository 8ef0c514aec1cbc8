package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"

	"outliner/local-app/src/pkg/log"
)

// BadgerConfig holds configuration for a BadgerDB-backed store.
type BadgerConfig struct {
	// Path is the directory for BadgerDB files. Ignored when InMemory is true.
	Path string

	// InMemory keeps everything in RAM. Used by tests.
	InMemory bool

	// SyncWrites fsyncs every write.
	SyncWrites bool
}

// badgerLogger adapts our Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *log.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(context.Background(), fmt.Sprintf(format, args...), log.Fields{"component": "badger"})
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(context.Background(), fmt.Sprintf(format, args...), log.Fields{"component": "badger"})
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(context.Background(), fmt.Sprintf(format, args...), log.Fields{"component": "badger"})
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(context.Background(), fmt.Sprintf(format, args...), log.Fields{"component": "badger"})
}

// BadgerStore implements KVStore on an embedded BadgerDB.
type BadgerStore struct {
	db     *badger.DB
	logger *log.Logger
}

// OpenBadger opens a BadgerDB at cfg.Path, or in memory when cfg.InMemory is set.
func OpenBadger(cfg BadgerConfig, logger *log.Logger) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(&badgerLogger{logger: logger})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	logger.Info(context.Background(), "Badger database opened", log.Fields{"path": cfg.Path, "inMemory": cfg.InMemory})
	return &BadgerStore{db: db, logger: logger}, nil
}

func (s *BadgerStore) Get(ctx context.Context, key string) (string, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", notFound(key)
	}
	if err != nil {
		s.logger.Error(ctx, "Failed to read value", log.Fields{"error": err, "key": key})
		return "", accessError("get", key, err)
	}
	return string(value), nil
}

func (s *BadgerStore) Set(ctx context.Context, key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		s.logger.Error(ctx, "Failed to write value", log.Fields{"error": err, "key": key})
		return accessError("set", key, err)
	}
	return nil
}

func (s *BadgerStore) Remove(ctx context.Context, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		s.logger.Error(ctx, "Failed to remove value", log.Fields{"error": err, "key": key})
		return accessError("remove", key, err)
	}
	return nil
}

// Keys lists stored keys; badger iterates in byte order, which is ascending.
func (s *BadgerStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, accessError("keys", "", err)
	}
	return keys, nil
}

func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close badger database: %w", err)
	}
	return nil
}
