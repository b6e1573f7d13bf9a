//go:build !statsview

// Package stats optionally serves live runtime statistics over HTTP.
// This is the build without the statsview constraint: Launch does
// nothing and Available reports false.
package stats

import "io"

// Address the statistics server would listen on in a statsview build.
const Address = "localhost:12680"

// Launch does nothing in this build.
func Launch(output io.Writer) {}

// Available reports whether this build carries the statistics server.
func Available() bool {
	return false
}
