package serialmux

import (
	"sync"

	"github.com/banshee-data/haptics/internal/monitoring"
)

// Binding is the serial connection to one hand's haptic device. It is
// created closed; Open reports whether the device could be reached.
//
// Writes are fire-and-forget: the firmware sends no acknowledgement and a
// failed write is logged here rather than returned to the caller.
type Binding struct {
	mu      sync.Mutex
	path    string
	opts    PortOptions
	factory SerialPortFactory
	port    SerialPorter
}

// NewBinding returns a closed binding for the device at path.
func NewBinding(path string, opts PortOptions, factory SerialPortFactory) *Binding {
	if factory == nil {
		factory = RealSerialPortFactory{}
	}
	return &Binding{
		path:    path,
		opts:    opts,
		factory: factory,
	}
}

// Path returns the device name the binding was created for.
func (b *Binding) Path() string {
	return b.path
}

// Open opens the underlying port. Opening an already open binding is a no-op
// that returns true.
func (b *Binding) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.port != nil {
		return true
	}

	port, err := b.factory.Open(b.path, &b.opts)
	if err != nil {
		monitoring.Logf("serialmux: could not open %s: %v", b.path, err)
		return false
	}
	b.port = port
	return true
}

// IsOpen reports whether the binding currently holds an open port.
func (b *Binding) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.port != nil
}

// Write sends data to the device if the binding is open.
func (b *Binding) Write(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.port == nil {
		return
	}

	n, err := b.port.Write(data)
	if err != nil {
		monitoring.Logf("serialmux: write to %s failed: %v", b.path, err)
		return
	}
	if n != len(data) {
		monitoring.Logf("serialmux: short write to %s: %d/%d bytes", b.path, n, len(data))
	}
}

// Close releases the port. It is safe to call on a closed binding.
func (b *Binding) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.port == nil {
		return
	}
	if err := b.port.Close(); err != nil {
		monitoring.Logf("serialmux: close %s: %v", b.path, err)
	}
	b.port = nil
}
