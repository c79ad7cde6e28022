package serialmux

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPortName(t *testing.T) {
	assert.Equal(t, "COM3", portName("windows", 3))
	assert.Equal(t, "/dev/cu.usbmodem4", portName("darwin", 4))
	assert.Equal(t, "/dev/ttyACM0", portName("linux", 0))
	assert.Equal(t, portName(runtime.GOOS, 7), PortName(7))
}

func TestSerialPortOpener(t *testing.T) {
	port := NewTestableSerialPort()
	var gotPath string
	opener := SerialPortOpener(func(path string, _ *PortOptions) (SerialPorter, error) {
		gotPath = path
		if path == "bad" {
			return nil, errors.New("bad path")
		}
		return port, nil
	})

	p, err := opener.Open("COM5", nil)
	assert.NoError(t, err)
	assert.Same(t, port, p)
	assert.Equal(t, "COM5", gotPath)

	_, err = opener.Open("bad", nil)
	assert.Error(t, err)
}
