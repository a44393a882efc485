// Package monitoring holds the package-level diagnostic logger shared by the
// CLI and the storage layer. It defaults to log.Printf; tests or embedding
// code can redirect or mute it with SetLogger.
package monitoring

import "log"

// Logf is the package-level diagnostic logger.
var Logf func(format string, v ...interface{}) = log.Printf

// Debugf emits verbose diagnostics. It is a no-op until EnableDebug is
// called.
var Debugf func(format string, v ...interface{}) = func(string, ...interface{}) {}

// SetLogger replaces the package logger. Passing nil sets a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// EnableDebug routes Debugf through the current Logf.
func EnableDebug() {
	Debugf = func(format string, v ...interface{}) {
		Logf("debug: "+format, v...)
	}
}
