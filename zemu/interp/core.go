// Package interp is an interpreting Z80 core covering the unprefixed
// instruction set that small test programs and monitors actually use:
// loads, arithmetic, jumps, calls, the stack and both bank exchanges.
// Opcodes outside the subset execute as logged four-cycle NOPs so a
// stray program keeps stepping instead of wedging the machine.
package interp

import (
	"github.com/zemulab/go-zemu/zemu/bit"
	"github.com/zemulab/go-zemu/zemu/memory"
	"github.com/zemulab/go-zemu/zemu/z80"
)

// Ports is the I/O space for IN and OUT. The Z80 drives a 16-bit port
// address: the operand byte on the low half, A on the high half.
type Ports interface {
	In(port uint16) byte
	Out(port uint16, value byte)
}

// Core executes instructions against a memory bus. It keeps no CPU
// state of its own; everything architectural lives in the z80.CPU it
// is handed.
type Core struct {
	mem    memory.Bus
	ports  Ports
	onHalt func(bool)
}

// Option configures a Core at construction.
type Option func(*Core)

// WithPorts attaches an I/O space. Without one, OUT is ignored and IN
// reads 0xFF, the floating-bus convention.
func WithPorts(ports Ports) Option {
	return func(c *Core) {
		c.ports = ports
	}
}

// WithHaltHook registers a callback invoked with true when the core
// executes HALT. Run-control layers wire their halt request to it so
// that a halted program stops an unbounded run.
func WithHaltHook(fn func(bool)) Option {
	return func(c *Core) {
		c.onHalt = fn
	}
}

// New returns a core bound to the given bus.
func New(mem memory.Bus, opts ...Option) *Core {
	c := &Core{mem: mem}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunOne executes whole instructions until at least minCycles cycles
// have elapsed and returns the cycles actually consumed. Instructions
// are never split, so the return can overshoot the minimum; it is
// never below it. A halted CPU burns four-cycle idle steps.
func (c *Core) RunOne(cpu *z80.CPU, minCycles int) int {
	if minCycles < 1 {
		minCycles = 1
	}
	cycles := 0
	for cycles < minCycles {
		cycles += c.execute(cpu)
	}
	return cycles
}

func (c *Core) fetch(cpu *z80.CPU) byte {
	b := c.mem.Read(cpu.PC)
	cpu.PC++
	return b
}

func (c *Core) fetchWord(cpu *z80.CPU) uint16 {
	low := c.fetch(cpu)
	high := c.fetch(cpu)
	return bit.Combine(high, low)
}

func (c *Core) push(cpu *z80.CPU, value uint16) {
	cpu.SP--
	c.mem.Write(cpu.SP, bit.High(value))
	cpu.SP--
	c.mem.Write(cpu.SP, bit.Low(value))
}

func (c *Core) pop(cpu *z80.CPU) uint16 {
	low := c.mem.Read(cpu.SP)
	cpu.SP++
	high := c.mem.Read(cpu.SP)
	cpu.SP++
	return bit.Combine(high, low)
}

// reg8 reads an 8-bit operand by its encoding index, in the hardware
// order B, C, D, E, H, L, (HL), A.
func (c *Core) reg8(cpu *z80.CPU, idx byte) byte {
	switch idx {
	case 0:
		return cpu.BC.High()
	case 1:
		return cpu.BC.Low()
	case 2:
		return cpu.DE.High()
	case 3:
		return cpu.DE.Low()
	case 4:
		return cpu.HL.High()
	case 5:
		return cpu.HL.Low()
	case 6:
		return c.mem.Read(cpu.HL.Word())
	default:
		return cpu.AF.High()
	}
}

func (c *Core) setReg8(cpu *z80.CPU, idx byte, value byte) {
	switch idx {
	case 0:
		cpu.BC.SetHigh(value)
	case 1:
		cpu.BC.SetLow(value)
	case 2:
		cpu.DE.SetHigh(value)
	case 3:
		cpu.DE.SetLow(value)
	case 4:
		cpu.HL.SetHigh(value)
	case 5:
		cpu.HL.SetLow(value)
	case 6:
		c.mem.Write(cpu.HL.Word(), value)
	default:
		cpu.AF.SetHigh(value)
	}
}

// reg16 reads a wide operand by its encoding index, in the hardware
// order BC, DE, HL, SP.
func reg16(cpu *z80.CPU, idx byte) uint16 {
	switch idx {
	case 0:
		return cpu.BC.Word()
	case 1:
		return cpu.DE.Word()
	case 2:
		return cpu.HL.Word()
	default:
		return cpu.SP
	}
}

func setReg16(cpu *z80.CPU, idx byte, value uint16) {
	switch idx {
	case 0:
		cpu.BC.SetWord(value)
	case 1:
		cpu.DE.SetWord(value)
	case 2:
		cpu.HL.SetWord(value)
	default:
		cpu.SP = value
	}
}

// pushPair reads a wide operand for PUSH, where index 3 is AF.
func pushPair(cpu *z80.CPU, idx byte) uint16 {
	switch idx {
	case 0:
		return cpu.BC.Word()
	case 1:
		return cpu.DE.Word()
	case 2:
		return cpu.HL.Word()
	default:
		return cpu.AF.Word()
	}
}

func setPushPair(cpu *z80.CPU, idx byte, value uint16) {
	switch idx {
	case 0:
		cpu.BC.SetWord(value)
	case 1:
		cpu.DE.SetWord(value)
	case 2:
		cpu.HL.SetWord(value)
	default:
		cpu.AF.SetWord(value)
	}
}

// condition evaluates a branch condition by its encoding index, in the
// hardware order NZ, Z, NC, C, PO, PE, P, M.
func condition(cpu *z80.CPU, idx byte) bool {
	switch idx {
	case 0:
		return !cpu.Flag(z80.FlagZ)
	case 1:
		return cpu.Flag(z80.FlagZ)
	case 2:
		return !cpu.Flag(z80.FlagC)
	case 3:
		return cpu.Flag(z80.FlagC)
	case 4:
		return !cpu.Flag(z80.FlagPV)
	case 5:
		return cpu.Flag(z80.FlagPV)
	case 6:
		return !cpu.Flag(z80.FlagS)
	default:
		return cpu.Flag(z80.FlagS)
	}
}
