package device

import "log/slog"

// Console is an I/O space that treats one output port as a character
// console: bytes written to it are buffered into lines and logged,
// which is how small test programs print status. Reads float at 0xFF.
type Console struct {
	port   byte
	logger *slog.Logger
	line   []byte
}

type ConsoleOption func(*Console)

// WithConsoleLogger overrides the default logger.
func WithConsoleLogger(logger *slog.Logger) ConsoleOption {
	return func(c *Console) {
		c.logger = logger
	}
}

// NewConsole returns a console on the given port number. OUT places the
// operand byte on the low half of the port address, so matching ignores
// the high half and works whatever the program left in A.
func NewConsole(port byte, opts ...ConsoleOption) *Console {
	c := &Console{
		port:   port,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// In reads 0xFF, the floating-bus convention.
func (c *Console) In(port uint16) byte {
	return 0xFF
}

// Out buffers printable traffic on the console port. NUL, CR and LF
// terminate the current line and log it; other ports are ignored.
func (c *Console) Out(port uint16, value byte) {
	if byte(port) != c.port {
		return
	}
	if value == 0 || value == '\n' || value == '\r' {
		c.Flush()
		return
	}
	c.line = append(c.line, value)
}

// Flush logs any buffered partial line. Front ends call it when a run
// stops so trailing output without a newline still shows up.
func (c *Console) Flush() {
	if len(c.line) == 0 {
		return
	}
	c.logger.Info("console", "line", string(c.line))
	c.line = c.line[:0]
}
