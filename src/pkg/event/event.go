// Package event handles triggering of operations without direct dependency
package event

import (
	"context"
	"sync"

	"outliner/local-app/src/pkg/log"
	"outliner/local-app/src/pkg/model"
)

// EventType represents the type of event
type EventType int

const (
	TreeSaved EventType = iota
	TreeLoaded
	TreeRemoved
	TreeReplaced
)

// String returns the name of the event type
func (t EventType) String() string {
	switch t {
	case TreeSaved:
		return "tree_saved"
	case TreeLoaded:
		return "tree_loaded"
	case TreeRemoved:
		return "tree_removed"
	case TreeReplaced:
		return "tree_replaced"
	default:
		return "unknown"
	}
}

// TreeData is the payload of every tree event. Root is nil for TreeRemoved.
type TreeData struct {
	Key  string
	Root *model.Node
}

// Event represents an event with its type and associated data
type Event struct {
	Type EventType
	Data TreeData
}

// EventHandler is a function type for event handlers
type EventHandler func(Event)

// EventManager manages event subscriptions and publications
type EventManager struct {
	subscribers map[EventType][]EventHandler
	mu          sync.RWMutex
	logger      *log.Logger
}

// NewEventManager creates a new EventManager instance
func NewEventManager(logger *log.Logger) *EventManager {
	return &EventManager{
		subscribers: make(map[EventType][]EventHandler),
		logger:      logger,
	}
}

// Subscribe adds a new event handler for a specific event type
func (em *EventManager) Subscribe(eventType EventType, handler EventHandler) {
	em.mu.Lock()
	defer em.mu.Unlock()
	em.subscribers[eventType] = append(em.subscribers[eventType], handler)
}

// Publish delivers an event to all subscribed handlers, in subscription order,
// before returning. A panicking handler is logged and does not stop the others.
func (em *EventManager) Publish(event Event) {
	em.mu.RLock()
	handlers := append([]EventHandler(nil), em.subscribers[event.Type]...)
	em.mu.RUnlock()

	for _, handler := range handlers {
		em.dispatch(handler, event)
	}
}

func (em *EventManager) dispatch(h EventHandler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			em.logger.Error(context.Background(), "Panic in event handler", log.Fields{
				"event": event.Type.String(),
				"key":   event.Data.Key,
				"panic": r,
			})
		}
	}()
	h(event)
}
