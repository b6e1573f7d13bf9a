package device

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordHandler collects formatted log lines for assertions.
type recordHandler struct {
	lines *[]string
}

func (h recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h recordHandler) Handle(_ context.Context, record slog.Record) error {
	line := record.Message
	record.Attrs(func(a slog.Attr) bool {
		line += " " + a.Value.String()
		return true
	})
	*h.lines = append(*h.lines, line)
	return nil
}

func (h recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h recordHandler) WithGroup(string) slog.Handler      { return h }

func newTestConsole(port byte) (*Console, *[]string) {
	lines := &[]string{}
	c := NewConsole(port, WithConsoleLogger(slog.New(recordHandler{lines: lines})))
	return c, lines
}

func TestConsoleBuffersUntilNewline(t *testing.T) {
	c, lines := newTestConsole(0x01)

	for _, b := range []byte("OK") {
		c.Out(0x0001, b)
	}
	assert.Empty(t, *lines)

	c.Out(0x0001, '\n')

	require.Len(t, *lines, 1)
	assert.Equal(t, "console OK", (*lines)[0])
}

func TestConsoleLineTerminators(t *testing.T) {
	testCases := []struct {
		desc       string
		terminator byte
	}{
		{desc: "newline", terminator: '\n'},
		{desc: "carriage return", terminator: '\r'},
		{desc: "nul", terminator: 0x00},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c, lines := newTestConsole(0x01)
			c.Out(0x0001, 'x')
			c.Out(0x0001, tC.terminator)
			require.Len(t, *lines, 1)
			assert.Equal(t, "console x", (*lines)[0])
		})
	}
}

func TestConsoleMatchesLowHalfOfPort(t *testing.T) {
	c, lines := newTestConsole(0x01)

	// high half carries whatever was in A and must not affect matching
	c.Out(0xAB01, 'h')
	c.Out(0xCD01, 'i')
	c.Out(0x0001, '\n')

	require.Len(t, *lines, 1)
	assert.Equal(t, "console hi", (*lines)[0])
}

func TestConsoleIgnoresOtherPorts(t *testing.T) {
	c, lines := newTestConsole(0x01)

	c.Out(0x0002, 'x')
	c.Out(0x00FE, 'y')
	c.Flush()

	assert.Empty(t, *lines)
}

func TestConsoleFlushEmitsPartialLine(t *testing.T) {
	c, lines := newTestConsole(0x01)

	c.Out(0x0001, 'a')
	c.Out(0x0001, 'b')
	c.Flush()

	require.Len(t, *lines, 1)
	assert.Equal(t, "console ab", (*lines)[0])

	c.Flush()
	assert.Len(t, *lines, 1, "empty buffer does not log")
}

func TestConsoleInFloats(t *testing.T) {
	c, _ := newTestConsole(0x01)
	assert.Equal(t, byte(0xFF), c.In(0x0001))
}
