// Package hostapi exposes the dispatcher to a host process through opaque
// handles and a fixed set of flat calls. cmd/hapticfeedback wraps it in C
// entry points.
package hostapi

import (
	"sync"

	"github.com/banshee-data/haptics/internal/haptics"
)

// Handle identifies a dispatcher across the host boundary. Zero is never a
// valid handle.
type Handle uintptr

// FeedbackConfig mirrors the C struct passed by value from the host:
//
//	struct HandFeedbackConfig {
//	    uint8_t Hand;
//	    uint8_t Location;
//	    float   NormalizedStrength;
//	    float   Duration;
//	};
//
// Sequential layout, 12 bytes with two bytes of padding after Location.
type FeedbackConfig struct {
	Hand               uint8
	Location           uint8
	_                  [2]byte
	NormalizedStrength float32
	Duration           float32
}

// Request converts the wire struct into a dispatcher request.
func (c FeedbackConfig) Request() haptics.FeedbackRequest {
	return haptics.FeedbackRequest{
		Hand:     haptics.Hand(c.Hand),
		Location: haptics.FeedbackLocation(c.Location),
		Strength: c.NormalizedStrength,
		Duration: c.Duration,
	}
}

// Registry owns the process-wide dispatcher handed out to the host. The
// dispatcher is created on the first Instance call and released by
// Shutdown. All calls are serialised by the registry.
type Registry struct {
	mu        sync.Mutex
	newConfig func() haptics.Config
	next      Handle
	handle    Handle
	instance  *haptics.Dispatcher
}

// NewRegistry returns an empty registry. newConfig is called each time a
// dispatcher is created; nil uses the hardware defaults.
func NewRegistry(newConfig func() haptics.Config) *Registry {
	if newConfig == nil {
		newConfig = func() haptics.Config { return haptics.Config{} }
	}
	return &Registry{newConfig: newConfig}
}

// Instance returns the handle of the shared dispatcher, creating it if
// needed. Repeated calls return the same handle until Shutdown.
func (r *Registry) Instance() Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.instance == nil {
		r.next++
		r.handle = r.next
		r.instance = haptics.NewDispatcher(r.newConfig())
	}
	return r.handle
}

// with runs fn against the dispatcher behind h. Unknown handles are ignored.
func (r *Registry) with(h Handle, fn func(d *haptics.Dispatcher)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h == 0 || h != r.handle || r.instance == nil {
		return
	}
	fn(r.instance)
}

// Initialize opens both gloves on the dispatcher behind h.
func (r *Registry) Initialize(h Handle, leftPortID, rightPortID uint16) {
	r.with(h, func(d *haptics.Dispatcher) {
		d.Initialize(leftPortID, rightPortID)
	})
}

// Close releases the dispatcher's ports. The handle stays valid.
func (r *Registry) Close(h Handle) {
	r.with(h, func(d *haptics.Dispatcher) {
		d.Close()
	})
}

// ApplyFeedback forwards cfg to the dispatcher behind h.
func (r *Registry) ApplyFeedback(h Handle, cfg FeedbackConfig) {
	r.with(h, func(d *haptics.Dispatcher) {
		d.ApplyFeedback(cfg.Request())
	})
}

// Shutdown closes the shared dispatcher and invalidates its handle. The next
// Instance call creates a fresh dispatcher under a new handle.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.instance != nil {
		r.instance.Close()
	}
	r.instance = nil
	r.handle = 0
}

var defaultRegistry = NewRegistry(nil)

// Default returns the registry used by the exported C entry points.
func Default() *Registry {
	return defaultRegistry
}
