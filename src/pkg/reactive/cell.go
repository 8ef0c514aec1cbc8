// Package reactive provides observable mutable values.
// A Cell notifies its subscribers synchronously, on the goroutine that mutated it,
// after every change. Views bind to the cells they render and nothing else.
package reactive

import "sync"

// subscriber is a registered change callback
type subscriber[T any] struct {
	id int
	fn func(T)
}

// Cell holds a value of type T and the callbacks observing it.
type Cell[T any] struct {
	mu      sync.Mutex
	value   T
	version uint64
	nextID  int
	subs    []subscriber[T]
}

// NewCell creates a new Cell holding the given value.
func NewCell[T any](value T) *Cell[T] {
	return &Cell[T]{value: value}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Version returns how many changes the cell has seen.
// A view can poll it instead of subscribing.
func (c *Cell[T]) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Set replaces the value and notifies subscribers.
func (c *Cell[T]) Set(value T) {
	c.mu.Lock()
	c.value = value
	c.version++
	value, subs := c.value, c.snapshot()
	c.mu.Unlock()

	notify(subs, value)
}

// Update mutates the value in place. Subscribers are notified only when fn reports a change.
func (c *Cell[T]) Update(fn func(value *T) bool) bool {
	c.mu.Lock()
	if !fn(&c.value) {
		c.mu.Unlock()
		return false
	}
	c.version++
	value, subs := c.value, c.snapshot()
	c.mu.Unlock()

	notify(subs, value)
	return true
}

// Subscribe registers fn to be called with the new value after each change.
// The returned function cancels the subscription; calling it more than once is harmless.
func (c *Cell[T]) Subscribe(fn func(T)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscriber[T]{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (c *Cell[T]) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// snapshot copies the subscriber list; the caller must hold mu
func (c *Cell[T]) snapshot() []subscriber[T] {
	if len(c.subs) == 0 {
		return nil
	}
	return append([]subscriber[T](nil), c.subs...)
}

func notify[T any](subs []subscriber[T], value T) {
	for _, s := range subs {
		s.fn(value)
	}
}
