//go:build statsview

// Package stats optionally serves live runtime statistics over HTTP.
// It is only built when the statsview build constraint is present;
// without it, Launch is a no-op and Available reports false.
//
// With the constraint, graphs are served at
//
//	localhost:12680/debug/statsview
//
// and standard pprof endpoints at
//
//	localhost:12680/debug/pprof/
package stats

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Address the statistics server listens on.
const Address = "localhost:12680"

const url = "/debug/statsview"

// Launch starts the statistics server in its own goroutine.
func Launch(output io.Writer) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(Address))
		mgr := statsview.New()
		mgr.Start()
	}()

	fmt.Fprintf(output, "stats server available at %s%s\n", Address, url)
}

// Available reports whether this build carries the statistics server.
func Available() bool {
	return true
}
