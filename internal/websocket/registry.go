package websocket

import (
	"sync"
)

// Registry is the set of live connections. It is owned by a Hub and is
// safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[*Client]struct{})}
}

// Add inserts c. Adding a client twice is a no-op.
func (r *Registry) Add(c *Client) {
	r.mu.Lock()
	r.clients[c] = struct{}{}
	r.mu.Unlock()
}

// Remove deletes c if present.
func (r *Registry) Remove(c *Client) {
	r.mu.Lock()
	delete(r.clients, c)
	r.mu.Unlock()
}

func (r *Registry) Contains(c *Client) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.clients[c]
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// ForEach calls visit for every client in a snapshot taken at call time.
// The lock is released before visiting, so visit may call Add or Remove.
func (r *Registry) ForEach(visit func(c *Client)) {
	r.mu.RLock()
	snapshot := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		snapshot = append(snapshot, c)
	}
	r.mu.RUnlock()

	for _, c := range snapshot {
		visit(c)
	}
}
