package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/haptics/internal/haptics"
	"github.com/banshee-data/haptics/internal/serialmux"
)

func parseDeviceFlags(t *testing.T, args ...string) *deviceFlags {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	df := addDeviceFlags(fs)
	require.NoError(t, fs.Parse(args))
	return df
}

func TestDeviceFlags_Defaults(t *testing.T) {
	df := parseDeviceFlags(t)

	cfg, err := df.config()
	require.NoError(t, err)
	assert.Equal(t, uint(1), df.left)
	assert.Equal(t, uint(2), df.right)
	assert.Equal(t, serialmux.DefaultPortOptions(), cfg.PortOptions)
	assert.Nil(t, cfg.Factory)
}

func TestDeviceFlags_DevModeUsesCaptureFactory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gloves")
	df := parseDeviceFlags(t, "-dev", dir, "-baud", "115200")

	cfg, err := df.config()
	require.NoError(t, err)
	assert.Equal(t, serialmux.CaptureSerialPortFactory{Dir: dir}, cfg.Factory)
	assert.Equal(t, 115200, cfg.PortOptions.BaudRate)
	assert.DirExists(t, dir)
}

func TestDeviceFlags_RejectsOversizedPortID(t *testing.T) {
	df := parseDeviceFlags(t, "-left", "70000")

	_, err := df.config()
	assert.Error(t, err)
}

func TestDeviceFlags_RejectsSharedPortID(t *testing.T) {
	dir := t.TempDir()
	df := parseDeviceFlags(t, "-dev", dir, "-left", "3", "-right", "3")

	_, err := df.config()
	assert.ErrorContains(t, err, "cannot share port ID 3")
}

func TestRunServer_ListenErrorReturns(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	// the address is taken, so ListenAndServe fails straight away
	server := &http.Server{Addr: ln.Addr().String(), ReadHeaderTimeout: time.Second}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = runServer(ctx, server)
	assert.Error(t, err)
	assert.NoError(t, ctx.Err())
}

func TestRunServer_ShutsDownOnCancel(t *testing.T) {
	server := &http.Server{Addr: "127.0.0.1:0", ReadHeaderTimeout: time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, runServer(ctx, server))
}

func TestPulseFlags_Request(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	pf := addPulseFlags(fs)
	require.NoError(t, fs.Parse([]string{"-hand", "right", "-location", "ring", "-strength", "0.5", "-duration", "0.25"}))

	req, err := pf.request()
	require.NoError(t, err)
	assert.Equal(t, haptics.FeedbackRequest{
		Hand:     haptics.Right,
		Location: haptics.Ring,
		Strength: 0.5,
		Duration: 0.25,
	}, req)
}

func TestPulseFlags_RequestErrors(t *testing.T) {
	tests := []struct {
		name string
		pf   pulseFlags
	}{
		{"unknown hand", pulseFlags{hand: "third", location: "index", duration: 0.1}},
		{"unknown location", pulseFlags{hand: "left", location: "palm", duration: 0.1}},
		{"negative duration", pulseFlags{hand: "left", location: "index", duration: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.pf.request()
			assert.Error(t, err)
		})
	}
}

func TestDeviceFlags_OpenWritesCaptureFiles(t *testing.T) {
	dir := t.TempDir()
	df := parseDeviceFlags(t, "-dev", dir, "-left", "7", "-right", "8")

	d := df.open()
	defer d.Close()

	sent := d.Dispatch(haptics.FeedbackRequest{Hand: haptics.Both, Location: haptics.Thumb, Strength: 1, Duration: 0.2})
	assert.ElementsMatch(t, []haptics.Hand{haptics.Left, haptics.Right}, sent)
}
