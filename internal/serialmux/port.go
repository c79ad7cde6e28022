// Package serialmux wraps the serial link to a single haptic device. It keeps
// the go.bug.st/serial dependency behind small interfaces so the dispatcher
// can be exercised without hardware.
package serialmux

import (
	"fmt"
	"io"
	"runtime"
)

// SerialPorter defines the minimal interface needed for a serial port.
// The haptic firmware never answers, so only the write half is required.
type SerialPorter interface {
	io.Writer
	io.Closer
}

// SerialPortFactory defines an interface for creating serial ports.
// This abstraction enables dependency injection of serial port creation.
type SerialPortFactory interface {
	// Open opens a serial port at the specified path with the given options.
	Open(path string, opts *PortOptions) (SerialPorter, error)
}

// SerialPortOpener is a function type for opening serial ports.
type SerialPortOpener func(path string, opts *PortOptions) (SerialPorter, error)

// Open implements SerialPortFactory.
func (f SerialPortOpener) Open(path string, opts *PortOptions) (SerialPorter, error) {
	return f(path, opts)
}

// PortName maps a numeric port identifier to the device name used by the
// host operating system.
func PortName(id uint16) string {
	return portName(runtime.GOOS, id)
}

func portName(goos string, id uint16) string {
	switch goos {
	case "windows":
		return fmt.Sprintf("COM%d", id)
	case "darwin":
		return fmt.Sprintf("/dev/cu.usbmodem%d", id)
	default:
		return fmt.Sprintf("/dev/ttyACM%d", id)
	}
}
