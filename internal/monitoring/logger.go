// Package monitoring holds the diagnostic logger shared by the haptics
// packages.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Swap installs f as the logger and returns a function restoring the
// previous one. Intended for tests: defer monitoring.Swap(f)().
func Swap(f func(format string, v ...interface{})) (restore func()) {
	previous := Logf
	SetLogger(f)
	return func() { Logf = previous }
}
