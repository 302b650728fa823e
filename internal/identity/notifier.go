package identity

import (
	"sync"

	"github.com/google/uuid"
)

// AuthState is the payload pushed to auth-state listeners. A nil UserID
// pointer means signed out.
type AuthState struct {
	UserID   *uuid.UUID
	DeviceID string
}

// Notifier broadcasts auth-state transitions to registered listeners. Each
// listener receives the current state once at registration and then one call
// per subsequent transition. Unsubscribing stops delivery immediately.
type Notifier struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func(AuthState)
	current   AuthState
}

func NewNotifier() *Notifier {
	return &Notifier{listeners: map[int]func(AuthState){}}
}

// Subscribe registers a listener and returns its unsubscribe function. The
// listener is invoked synchronously with the current state before Subscribe
// returns.
func (n *Notifier) Subscribe(fn func(AuthState)) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	state := n.current
	n.mu.Unlock()

	fn(state)

	return func() {
		n.mu.Lock()
		delete(n.listeners, id)
		n.mu.Unlock()
	}
}

// Publish records the new state and dispatches it once to every listener.
func (n *Notifier) Publish(state AuthState) {
	n.mu.Lock()
	n.current = state
	fns := make([]func(AuthState), 0, len(n.listeners))
	for _, fn := range n.listeners {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}
