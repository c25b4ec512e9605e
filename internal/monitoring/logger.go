// Package monitoring holds the diagnostic logger shared by the threshold
// packages. Library code never writes to stderr directly; it goes through
// Logf so the CLI and tests decide where messages end up.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil mutes all output.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Warnf logs through Logf with the WARNING prefix used for recoverable data
// problems such as samples that fall outside the bucket range.
func Warnf(format string, v ...interface{}) {
	Logf("WARNING: "+format, v...)
}
