package autosave

import (
	"github.com/aretw0/introspection"
)

// CoordinatorState exposes the machine's internals for observability.
type CoordinatorState struct {
	Status     Status `json:"status"`
	Queued     int    `json:"queued"`
	Generation uint64 `json:"generation"`
	HasSaved   bool   `json:"has_saved"`
}

// State implements introspection.Introspectable.
func (c *Coordinator) State() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CoordinatorState{
		Status:     c.status,
		Queued:     len(c.queue),
		Generation: c.gen,
		HasSaved:   c.lastSaved != nil,
	}
}

// ComponentType implements introspection.Component.
func (c *Coordinator) ComponentType() string {
	return "autosave"
}

var _ introspection.Introspectable = (*Coordinator)(nil)
var _ introspection.Component = (*Coordinator)(nil)
