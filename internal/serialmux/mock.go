package serialmux

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/banshee-data/haptics/internal/monitoring"
)

// ErrPortClosed is returned by TestableSerialPort once Close has been called.
var ErrPortClosed = errors.New("serial port closed")

// TestableSerialPort implements SerialPorter with configurable behaviour for testing.
// It provides fine-grained control over writes, errors, and latency.
type TestableSerialPort struct {
	mu sync.Mutex

	// WriteBuffer captures data written to the port
	WriteBuffer *bytes.Buffer

	// Writes records each Write call's payload separately
	Writes [][]byte

	// WriteLatency adds a delay to each Write call
	WriteLatency time.Duration

	// WriteError is returned by the next Write call if set
	WriteError error

	// CloseError is returned by Close if set
	CloseError error

	// Closed indicates whether Close was called
	Closed bool

	// WriteCalls records the number of Write calls
	WriteCalls int

	// CloseCalls records the number of Close calls
	CloseCalls int
}

// NewTestableSerialPort creates a new TestableSerialPort for testing.
func NewTestableSerialPort() *TestableSerialPort {
	return &TestableSerialPort{
		WriteBuffer: bytes.NewBuffer(nil),
	}
}

// Write writes to the write buffer, optionally simulating latency and errors.
func (t *TestableSerialPort) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.WriteCalls++

	if t.Closed {
		return 0, ErrPortClosed
	}

	if t.WriteError != nil {
		err := t.WriteError
		t.WriteError = nil
		return 0, err
	}

	if t.WriteLatency > 0 {
		t.mu.Unlock()
		time.Sleep(t.WriteLatency)
		t.mu.Lock()
	}

	t.Writes = append(t.Writes, append([]byte(nil), p...))
	return t.WriteBuffer.Write(p)
}

// Close marks the port as closed.
func (t *TestableSerialPort) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.Closed = true
	t.CloseCalls++
	return t.CloseError
}

// GetWrittenData returns all data written to the port.
func (t *TestableSerialPort) GetWrittenData() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]byte(nil), t.WriteBuffer.Bytes()...)
}

// GetWrites returns a copy of each successful Write payload.
func (t *TestableSerialPort) GetWrites() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([][]byte, len(t.Writes))
	for i, w := range t.Writes {
		out[i] = append([]byte(nil), w...)
	}
	return out
}

// Reset clears all buffers and resets state.
func (t *TestableSerialPort) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.WriteBuffer.Reset()
	t.Writes = nil
	t.WriteCalls = 0
	t.CloseCalls = 0
	t.Closed = false
	t.WriteError = nil
	t.CloseError = nil
	t.WriteLatency = 0
}

// MockSerialPortFactory implements SerialPortFactory for testing.
type MockSerialPortFactory struct {
	mu sync.Mutex

	// Port is returned from Open for any path without an entry in Ports
	Port SerialPorter

	// Ports maps a device path to the port returned for it
	Ports map[string]SerialPorter

	// Error is returned by Open if set
	Error error

	// Errors maps a device path to the error returned for it
	Errors map[string]error

	// OpenCalls records all Open calls
	OpenCalls []MockOpenCall
}

// MockOpenCall records details of an Open call.
type MockOpenCall struct {
	Path    string
	Options PortOptions
}

// NewMockSerialPortFactory creates a new MockSerialPortFactory.
func NewMockSerialPortFactory(port SerialPorter) *MockSerialPortFactory {
	return &MockSerialPortFactory{
		Port:   port,
		Ports:  make(map[string]SerialPorter),
		Errors: make(map[string]error),
	}
}

// Open returns the configured port or error.
func (f *MockSerialPortFactory) Open(path string, opts *PortOptions) (SerialPorter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := MockOpenCall{Path: path}
	if opts != nil {
		call.Options = *opts
	}
	f.OpenCalls = append(f.OpenCalls, call)

	if err, ok := f.Errors[path]; ok && err != nil {
		return nil, err
	}
	if f.Error != nil {
		return nil, f.Error
	}
	if port, ok := f.Ports[path]; ok {
		return port, nil
	}
	if f.Port == nil {
		return nil, fmt.Errorf("no mock port configured for %s", path)
	}
	return f.Port, nil
}

// LastCall returns the most recent Open call, or nil if none.
func (f *MockSerialPortFactory) LastCall() *MockOpenCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.OpenCalls) == 0 {
		return nil
	}
	return &f.OpenCalls[len(f.OpenCalls)-1]
}

// Reset clears all recorded calls.
func (f *MockSerialPortFactory) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.OpenCalls = nil
	f.Error = nil
}

// CaptureSerialPortFactory opens files in Dir in place of serial devices so
// that the bytes sent to each glove can be inspected without hardware.
type CaptureSerialPortFactory struct {
	Dir string
}

// Open creates (or truncates) a capture file named after the device path.
func (f CaptureSerialPortFactory) Open(path string, _ *PortOptions) (SerialPorter, error) {
	name := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(strings.TrimPrefix(path, "/"))
	out, err := os.Create(filepath.Join(f.Dir, "capture_"+name+".bin"))
	if err != nil {
		return nil, fmt.Errorf("failed to create capture file for %s: %w", path, err)
	}
	monitoring.Logf("Writing mock serial port %s output to %s", path, out.Name())
	return out, nil
}
