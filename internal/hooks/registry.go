// Package hooks runs registered callbacks at DHCP lease lifecycle
// transitions, keeping the client control loop isolated from their failures.
package hooks

import (
	"context"
	"sync"

	"github.com/athena-dhcpd/athena-dhclient/internal/lease"
)

// Trigger names a point in the client lifecycle at which hooks run.
type Trigger string

const (
	// TriggerBound — the client has obtained a new lease.
	TriggerBound Trigger = "bound"
	// TriggerUnbound — the client has voluntarily relinquished its lease.
	TriggerUnbound Trigger = "unbound"
	// TriggerRenewed — the lease was renewed after the renewal timer expired.
	TriggerRenewed Trigger = "renewed"
	// TriggerRebound — the lease was rebound after the rebinding timer expired.
	TriggerRebound Trigger = "rebound"
	// TriggerExpired — the lease expired; the client restarts negotiation.
	TriggerExpired Trigger = "expired"
)

// Func is a hook body. It receives the lease read-only and must observe ctx
// cancellation at its blocking points.
type Func func(ctx context.Context, l *lease.Lease) error

// Hook is a named unit of behavior bound to a trigger at registration time.
type Hook struct {
	Name string
	Func Func
}

// Registry maps triggers to the ordered hooks interested in them. It is
// expected to stabilize at startup, but late registration is tolerated:
// dispatch always works on a snapshot.
type Registry struct {
	mu    sync.Mutex
	hooks map[Trigger][]Hook
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{hooks: make(map[Trigger][]Hook)}
}

// Register appends the hook to the trigger's ordered set. The same hook may
// register for several triggers, or twice for one — duplicates are the
// caller's business, not detected here.
func (r *Registry) Register(t Trigger, h Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[t] = append(r.hooks[t], h)
}

// HooksFor returns a copy of the hooks registered for the trigger, in
// registration order. Empty when none registered.
func (r *Registry) HooksFor(t Trigger) []Hook {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Hook, len(r.hooks[t]))
	copy(out, r.hooks[t])
	return out
}
