package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")

	if !called {
		t.Error("Custom logger was not called")
	}

	// nil installs a no-op logger
	called = false
	SetLogger(nil)
	Logf("test message")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestSwap_RestoresPrevious(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var first, second []string
	SetLogger(func(format string, v ...interface{}) {
		first = append(first, fmt.Sprintf(format, v...))
	})

	restore := Swap(func(format string, v ...interface{}) {
		second = append(second, fmt.Sprintf(format, v...))
	})
	Logf("port %d", 3)
	restore()
	Logf("port %d", 4)

	if len(second) != 1 || second[0] != "port 3" {
		t.Errorf("swapped logger got %v, want [port 3]", second)
	}
	if len(first) != 1 || first[0] != "port 4" {
		t.Errorf("restored logger got %v, want [port 4]", first)
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logf panicked: %v", r)
		}
	}()

	Logf("test message: %s", "value")
}
