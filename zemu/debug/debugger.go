// Package debug implements run control for the machine: a halt flag,
// a breakpoint registry, single stepping with per-cycle peripheral
// ticks, budgeted continue, and read-only access to the register file
// for front ends.
package debug

import (
	"github.com/zemulab/go-zemu/zemu/memory"
	"github.com/zemulab/go-zemu/zemu/z80"
)

// Core executes instructions against a CPU. RunOne runs whole
// instructions until at least minCycles cycles have elapsed and
// returns the cycles actually consumed, which is therefore never
// below minCycles.
type Core interface {
	RunOne(cpu *z80.CPU, minCycles int) int
}

// Ticker is a peripheral advanced once per consumed cycle.
type Ticker interface {
	Tick()
}

// Debugger owns the run-control state of one machine: the CPU it
// steps, the core that executes for it, and the peripherals it keeps
// in sync.
type Debugger struct {
	cpu  *z80.CPU
	core Core

	state   RunState
	bps     *breakpoints
	tickers []Ticker
	mem     memory.Peeker
}

// Option configures a Debugger at construction.
type Option func(*Debugger)

// WithBreakpointCapacity overrides DefaultBreakpointCapacity. Values
// below one fall back to the default.
func WithBreakpointCapacity(n int) Option {
	return func(d *Debugger) {
		d.bps = newBreakpoints(n)
	}
}

// WithTickers attaches peripherals to advance once per consumed
// cycle, in the order given.
func WithTickers(tickers ...Ticker) Option {
	return func(d *Debugger) {
		d.tickers = append(d.tickers, tickers...)
	}
}

// WithPeeker gives conditional breakpoints side-effect-free access to
// memory. Without it, memory conditions never hold.
func WithPeeker(mem memory.Peeker) Option {
	return func(d *Debugger) {
		d.mem = mem
	}
}

// New returns a Debugger in StateRunning with an empty breakpoint
// registry.
func New(cpu *z80.CPU, core Core, opts ...Option) *Debugger {
	d := &Debugger{
		cpu:   cpu,
		core:  core,
		state: StateRunning,
		bps:   newBreakpoints(DefaultBreakpointCapacity),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the current run state.
func (d *Debugger) State() RunState {
	return d.state
}

// Halted reports whether a halt is currently requested.
func (d *Debugger) Halted() bool {
	return d.state == StateHalted
}

// BreakHit reports whether the last stop was a breakpoint.
func (d *Debugger) BreakHit() bool {
	return d.state == StateBreak
}

// Halt requests (true) or releases (false) a halt. Releasing always
// lands in StateRunning, even from StateBreak. Halt is commonly wired
// as the CPU core's HALT callback, in which case it takes effect at
// the next step boundary of a running Continue.
func (d *Debugger) Halt(requested bool) {
	if requested {
		d.state = StateHalted
	} else {
		d.state = StateRunning
	}
}

// Step executes exactly one instruction and advances every ticker
// once per consumed cycle. It returns the cycle count, which is always
// at least one. Step ignores and never changes the run state; halt and
// breakpoints only matter to Continue.
func (d *Debugger) Step() int {
	cycles := d.core.RunOne(d.cpu, 1)
	for i := 0; i < cycles; i++ {
		for _, t := range d.tickers {
			t.Tick()
		}
	}
	return cycles
}

// Continue resumes execution until something stops it: a halt
// request, a breakpoint, or an exhausted cycle budget. A negative
// budget means unbounded. The return is the number of cycles consumed.
//
// If the debugger is already halted, Continue returns zero without
// stepping, whatever the budget and whatever PC points at. Otherwise
// at least one step executes, so a zero budget still advances one
// instruction; the budget is a threshold checked at step boundaries,
// not an exact cycle count. Breakpoints are checked strictly after
// each step, which is why an entry at the starting PC does not fire
// until execution comes back around to it.
func (d *Debugger) Continue(budget int) int {
	if d.state == StateHalted {
		return 0
	}
	d.state = StateRunning

	cycles := 0
	for {
		cycles += d.Step()

		if d.bps.match(d.cpu.PC, condEnv{cpu: d.cpu, mem: d.mem}) {
			d.state = StateBreak
			break
		}
		if d.state != StateRunning {
			break
		}
		if budget >= 0 && cycles >= budget {
			break
		}
	}
	return cycles
}

// AddBreakpoint registers addr. Duplicates are legal and each entry
// counts against the capacity; at capacity the registry is unchanged
// and the error wraps ErrBreakpointLimit.
func (d *Debugger) AddBreakpoint(addr uint16) error {
	return d.bps.add(addr, nil)
}

// AddBreakpointCond registers addr gated by cond. A nil cond is the
// same as AddBreakpoint.
func (d *Debugger) AddBreakpointCond(addr uint16, cond *Condition) error {
	return d.bps.add(addr, cond)
}

// RemoveBreakpoint drops every entry at addr, reporting whether any
// existed.
func (d *Debugger) RemoveBreakpoint(addr uint16) bool {
	return d.bps.remove(addr)
}

// ClearBreakpoints empties the registry.
func (d *Debugger) ClearBreakpoints() {
	d.bps.clear()
}

// HasBreakpoint reports whether any entry matches addr, ignoring
// conditions.
func (d *Debugger) HasBreakpoint(addr uint16) bool {
	return d.bps.contains(addr)
}

// Breakpoints returns a copy of the registry in insertion order.
func (d *Debugger) Breakpoints() []Breakpoint {
	out := make([]Breakpoint, len(d.bps.list))
	copy(out, d.bps.list)
	return out
}

// Register reads one register of the attached CPU.
func (d *Debugger) Register(id RegisterID) (uint16, bool) {
	return ReadRegister(d.cpu, id)
}
