// Package zemu assembles the machine: a Z80 register file, flat RAM,
// the interpreting core, a cycle counter and the debugger that drives
// them. Front ends talk to a Machine; everything below it is wired
// here and nowhere else.
package zemu

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/zemulab/go-zemu/zemu/debug"
	"github.com/zemulab/go-zemu/zemu/device"
	"github.com/zemulab/go-zemu/zemu/interp"
	"github.com/zemulab/go-zemu/zemu/memory"
	"github.com/zemulab/go-zemu/zemu/z80"
)

// Machine is one fully wired emulated system.
type Machine struct {
	CPU      *z80.CPU
	RAM      *memory.RAM
	Core     *interp.Core
	Debugger *debug.Debugger
	Cycles   *device.CycleCounter
}

// Config carries the optional pieces of a Machine.
type Config struct {
	// BreakpointCapacity overrides the debugger's default registry
	// bound when positive.
	BreakpointCapacity int

	// Ports attaches an I/O space for IN and OUT.
	Ports interp.Ports

	// Tickers are extra peripherals advanced once per cycle, after
	// the cycle counter.
	Tickers []debug.Ticker
}

// New returns a machine with default configuration.
func New() *Machine {
	return NewWithConfig(Config{})
}

// NewWithConfig builds and wires a machine. The core's HALT line is
// connected to the debugger's halt request, so a program that executes
// HALT stops an unbounded run at the next step boundary.
func NewWithConfig(cfg Config) *Machine {
	cpu := z80.New()
	ram := memory.NewRAM()
	counter := &device.CycleCounter{}

	var dbg *debug.Debugger
	coreOpts := []interp.Option{
		interp.WithHaltHook(func(state bool) {
			dbg.Halt(state)
		}),
	}
	if cfg.Ports != nil {
		coreOpts = append(coreOpts, interp.WithPorts(cfg.Ports))
	}
	core := interp.New(ram, coreOpts...)

	tickers := append([]debug.Ticker{counter}, cfg.Tickers...)
	dbgOpts := []debug.Option{
		debug.WithTickers(tickers...),
		debug.WithPeeker(ram),
	}
	if cfg.BreakpointCapacity > 0 {
		dbgOpts = append(dbgOpts, debug.WithBreakpointCapacity(cfg.BreakpointCapacity))
	}
	dbg = debug.New(cpu, core, dbgOpts...)

	return &Machine{
		CPU:      cpu,
		RAM:      ram,
		Core:     core,
		Debugger: dbg,
		Cycles:   counter,
	}
}

// Load copies a raw program image into memory at origin.
func (m *Machine) Load(origin uint16, image []byte) error {
	if err := m.RAM.LoadAt(origin, image); err != nil {
		return err
	}
	slog.Debug("program loaded", "origin", fmt.Sprintf("0x%04X", origin), "size", len(image))
	return nil
}

// LoadFile reads a raw binary image from disk and loads it at origin.
func (m *Machine) LoadFile(path string, origin uint16) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	if err := m.Load(origin, data); err != nil {
		return err
	}
	slog.Info("program file loaded", "path", path, "size", len(data))
	return nil
}

// Step executes a single instruction.
func (m *Machine) Step() int {
	return m.Debugger.Step()
}

// Run resumes execution with the given cycle budget; a negative budget
// runs unbounded.
func (m *Machine) Run(budget int) int {
	return m.Debugger.Continue(budget)
}

// Reset returns the CPU and cycle counter to power-on state and
// releases any halt. Memory and breakpoints are left as they are.
func (m *Machine) Reset() {
	m.CPU.Reset()
	m.Cycles.Reset()
	m.Debugger.Halt(false)
	slog.Debug("machine reset")
}
