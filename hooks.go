package refimport

import (
	"sync"

	"github.com/agentstation/refimport/pkg/project"
)

// ReferenceAddedHook is called when a pass adds a reference to a descriptor.
// It is also called during dry runs, where nothing is written.
type ReferenceAddedHook func(ref project.Reference)

// hooks manages event callbacks for descriptor changes
type hooks struct {
	mu               sync.RWMutex
	onReferenceAdded []ReferenceAddedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnReferenceAdded registers a callback for when references are added
func (h *hooks) OnReferenceAdded(fn ReferenceAddedHook) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onReferenceAdded = append(h.onReferenceAdded, fn)
}

func (h *hooks) triggerReferenceAdded(ref project.Reference) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onReferenceAdded {
		fn(ref)
	}
}
