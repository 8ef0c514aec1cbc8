// Package data provides data management functionality for the Outliner application.
// It moves outlines between the in-memory node tree and a key-value store.
package data

import (
	"context"
	"errors"
	"fmt"

	"outliner/local-app/src/pkg/event"
	"outliner/local-app/src/pkg/log"
	"outliner/local-app/src/pkg/model"
	"outliner/local-app/src/pkg/storage"
)

// TreeManager saves, loads and removes outlines under named keys
type TreeManager struct {
	store  storage.KVStore
	events *event.EventManager
	logger *log.Logger
}

// NewTreeManager creates a new TreeManager instance
func NewTreeManager(store storage.KVStore, events *event.EventManager, logger *log.Logger) (*TreeManager, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if logger == nil {
		logger = log.NewDiscard()
	}
	if events == nil {
		events = event.NewEventManager(logger)
	}
	return &TreeManager{
		store:  store,
		events: events,
		logger: logger,
	}, nil
}

// Events returns the event manager tree events are published on
func (tm *TreeManager) Events() *event.EventManager {
	return tm.events
}

// Save serializes root and stores it under key, overwriting any previous outline
func (tm *TreeManager) Save(ctx context.Context, root *model.Node, key string) error {
	if root == nil {
		return errors.New("cannot save a nil outline")
	}
	tm.logger.Info(ctx, "Saving outline", log.Fields{"key": key, "rootID": root.ID()})

	data, err := Encode(root)
	if err != nil {
		return err
	}

	if err := tm.store.Set(ctx, key, string(data)); err != nil {
		tm.logger.Error(ctx, "Failed to save outline", log.Fields{"key": key, "error": err})
		return fmt.Errorf("failed to save outline: %w", err)
	}

	tm.logger.Info(ctx, "Outline saved", log.Fields{"key": key, "bytes": len(data)})
	tm.events.Publish(event.Event{Type: event.TreeSaved, Data: event.TreeData{Key: key, Root: root}})
	return nil
}

// Load reads and rebuilds the outline stored under key.
// Loaded ids are kept, and the id counter is moved past them.
func (tm *TreeManager) Load(ctx context.Context, key string) (*model.Node, error) {
	tm.logger.Info(ctx, "Loading outline", log.Fields{"key": key})

	raw, err := tm.store.Get(ctx, key)
	if err != nil {
		tm.logger.Warn(ctx, "Failed to read outline", log.Fields{"key": key, "error": err})
		return nil, fmt.Errorf("failed to load outline: %w", err)
	}

	root, dropped, err := decode([]byte(raw))
	if err != nil {
		tm.logger.Warn(ctx, "Stored outline is invalid", log.Fields{"key": key, "error": err})
		return nil, fmt.Errorf("failed to load outline %q: %w", key, err)
	}
	if dropped > 0 {
		tm.logger.Debug(ctx, "Dropped malformed nodes", log.Fields{"key": key, "dropped": dropped})
	}

	model.EnsureIDsAbove(root.MaxID())

	tm.logger.Info(ctx, "Outline loaded", log.Fields{"key": key, "nodes": root.Count()})
	tm.events.Publish(event.Event{Type: event.TreeLoaded, Data: event.TreeData{Key: key, Root: root}})
	return root, nil
}

// Remove deletes the outline stored under key. Removing an absent outline succeeds.
func (tm *TreeManager) Remove(ctx context.Context, key string) error {
	tm.logger.Info(ctx, "Removing outline", log.Fields{"key": key})

	if err := tm.store.Remove(ctx, key); err != nil {
		tm.logger.Error(ctx, "Failed to remove outline", log.Fields{"key": key, "error": err})
		return fmt.Errorf("failed to remove outline: %w", err)
	}

	tm.events.Publish(event.Event{Type: event.TreeRemoved, Data: event.TreeData{Key: key}})
	return nil
}

// Keys lists the names of stored outlines
func (tm *TreeManager) Keys(ctx context.Context) ([]string, error) {
	keys, err := tm.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list outlines: %w", err)
	}
	return keys, nil
}

// Replace announces that the outline being edited under key was swapped for root
// without touching the store (a new or imported outline).
func (tm *TreeManager) Replace(ctx context.Context, root *model.Node, key string) {
	tm.logger.Info(ctx, "Outline replaced", log.Fields{"key": key, "nodes": root.Count()})
	tm.events.Publish(event.Event{Type: event.TreeReplaced, Data: event.TreeData{Key: key, Root: root}})
}

// DefaultTree builds the outline used when nothing can be loaded
func DefaultTree() *model.Node {
	child1 := model.NewNode(false, "bar1")
	child2 := model.NewNode(false, "bar2")
	return model.NewNode(false, "foo", child1, child2)
}
