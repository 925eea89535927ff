package directory

import "sync"

// Collection is the directory-store pattern for simple reference records
// (currencies, measure units): wholesale replace plus id-keyed reconciliation
// of create/update/delete results.
type Collection[T any] struct {
	mu    sync.RWMutex
	items []T
	id    func(T) int
}

// NewCollection creates an empty collection keyed by the given id function.
func NewCollection[T any](id func(T) int) *Collection[T] {
	return &Collection[T]{items: []T{}, id: id}
}

// Replace swaps the collection wholesale. A nil list normalizes to empty.
func (c *Collection[T]) Replace(list []T) {
	if list == nil {
		list = []T{}
	}
	c.mu.Lock()
	c.items = list
	c.mu.Unlock()
}

// All returns a copy of the collection.
func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// ApplyCreated appends a freshly created record.
func (c *Collection[T]) ApplyCreated(item T) {
	c.mu.Lock()
	c.items = append(c.items, item)
	c.mu.Unlock()
}

// ApplyUpdated replaces the record with a matching id, reporting whether a
// match was found.
func (c *Collection[T]) ApplyUpdated(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.id(c.items[i]) == c.id(item) {
			c.items[i] = item
			return true
		}
	}
	return false
}

// ApplyDeleted removes the record with the given id.
func (c *Collection[T]) ApplyDeleted(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.id(c.items[i]) == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}
