package serialmux

import (
	"fmt"

	"go.bug.st/serial"
)

// RealSerialPortFactory opens hardware serial ports through go.bug.st/serial.
type RealSerialPortFactory struct{}

// Open opens the serial device at path using the provided options.
func (RealSerialPortFactory) Open(path string, opts *PortOptions) (SerialPorter, error) {
	if opts == nil {
		defaults := DefaultPortOptions()
		opts = &defaults
	}

	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", path, err)
	}
	return port, nil
}

// ListPorts returns the serial device names currently visible to the host.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}
