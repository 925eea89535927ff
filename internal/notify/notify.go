// Package notify delivers transient operator notifications. The emitter is
// an injected dependency owned by the application root; the provisioning
// workflow only sees the Notifier interface, which keeps it testable without
// any process-wide registry.
package notify

import (
	"sync"

	"github.com/nuqta-dev/tenadmin/internal/i18n"
)

// Level classifies a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a bilingual transient message.
type Notification struct {
	Level   Level
	Message i18n.Message
}

// Notifier receives notifications from core components.
type Notifier interface {
	Notify(Notification)
}

// Func adapts a function to the Notifier interface.
type Func func(Notification)

// Notify implements Notifier.
func (f Func) Notify(n Notification) { f(n) }

// Discard is a Notifier that drops everything.
var Discard Notifier = Func(func(Notification) {})

// Emitter fans notifications out to subscribers.
type Emitter struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Notification)
}

// NewEmitter creates an empty emitter.
func NewEmitter() *Emitter {
	return &Emitter{subs: make(map[int]func(Notification))}
}

// Subscribe registers a callback and returns a cancel function.
func (e *Emitter) Subscribe(fn func(Notification)) (cancel func()) {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

// Notify delivers the notification to all current subscribers.
func (e *Emitter) Notify(n Notification) {
	e.mu.Lock()
	callbacks := make([]func(Notification), 0, len(e.subs))
	for _, fn := range e.subs {
		callbacks = append(callbacks, fn)
	}
	e.mu.Unlock()

	for _, fn := range callbacks {
		fn(n)
	}
}
