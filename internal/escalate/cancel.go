package escalate

import "sync"

// CancelRegistry tracks caller-supplied request IDs flagged for cooperative
// cancellation. The engine polls it at tier boundaries; an in-flight tier is
// never aborted, its result is simply returned as final.
type CancelRegistry struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// NewCancelRegistry creates an empty registry.
func NewCancelRegistry() *CancelRegistry {
	return &CancelRegistry{ids: make(map[string]struct{})}
}

// Cancel flags a request ID. Unknown IDs are fine; the flag simply waits for
// a request that may never arrive and is dropped on Clear.
func (r *CancelRegistry) Cancel(id string) {
	if id == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids[id] = struct{}{}
}

// Cancelled reports whether the ID has been flagged.
func (r *CancelRegistry) Cancelled(id string) bool {
	if id == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.ids[id]
	return ok
}

// Clear drops the flag for an ID, typically when its request completes.
func (r *CancelRegistry) Clear(id string) {
	if id == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ids, id)
}
