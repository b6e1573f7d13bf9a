package interp

import (
	"fmt"
	"log/slog"

	"github.com/zemulab/go-zemu/zemu/bit"
	"github.com/zemulab/go-zemu/zemu/z80"
)

// execute runs a single instruction and returns its cost in cycles.
// Timings are the documented Z80 T-state counts.
func (c *Core) execute(cpu *z80.CPU) int {
	if cpu.Halted {
		// A halted CPU executes internal NOPs until an interrupt or a
		// reset; the subset has no interrupts, so it idles with the
		// halt line held down.
		if c.onHalt != nil {
			c.onHalt(true)
		}
		return 4
	}

	op := c.fetch(cpu)

	// LD r, r' fills the whole 0x40..0x7F block, with HALT sitting in
	// the hole where LD (HL), (HL) would be.
	if op&0xC0 == 0x40 {
		if op == 0x76 { // HALT
			cpu.Halted = true
			if c.onHalt != nil {
				c.onHalt(true)
			}
			return 4
		}
		dst := (op >> 3) & 7
		src := op & 7
		c.setReg8(cpu, dst, c.reg8(cpu, src))
		if dst == 6 || src == 6 {
			return 7
		}
		return 4
	}

	// The ALU block 0x80..0xBF: operation in bits 3-5, operand in 0-2.
	if op&0xC0 == 0x80 {
		c.alu(cpu, (op>>3)&7, c.reg8(cpu, op&7))
		if op&7 == 6 {
			return 7
		}
		return 4
	}

	switch op {
	case 0x00: // NOP
		return 4

	case 0x01, 0x11, 0x21, 0x31: // LD rr, nn
		setReg16(cpu, (op>>4)&3, c.fetchWord(cpu))
		return 10

	case 0x02: // LD (BC), A
		c.mem.Write(cpu.BC.Word(), cpu.AF.High())
		return 7
	case 0x12: // LD (DE), A
		c.mem.Write(cpu.DE.Word(), cpu.AF.High())
		return 7
	case 0x0A: // LD A, (BC)
		cpu.AF.SetHigh(c.mem.Read(cpu.BC.Word()))
		return 7
	case 0x1A: // LD A, (DE)
		cpu.AF.SetHigh(c.mem.Read(cpu.DE.Word()))
		return 7

	case 0x03, 0x13, 0x23, 0x33: // INC rr
		idx := (op >> 4) & 3
		setReg16(cpu, idx, reg16(cpu, idx)+1)
		return 6
	case 0x0B, 0x1B, 0x2B, 0x3B: // DEC rr
		idx := (op >> 4) & 3
		setReg16(cpu, idx, reg16(cpu, idx)-1)
		return 6

	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x34, 0x3C: // INC r
		idx := (op >> 3) & 7
		c.setReg8(cpu, idx, inc8(cpu, c.reg8(cpu, idx)))
		if idx == 6 {
			return 11
		}
		return 4
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x35, 0x3D: // DEC r
		idx := (op >> 3) & 7
		c.setReg8(cpu, idx, dec8(cpu, c.reg8(cpu, idx)))
		if idx == 6 {
			return 11
		}
		return 4

	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x36, 0x3E: // LD r, n
		idx := (op >> 3) & 7
		c.setReg8(cpu, idx, c.fetch(cpu))
		if idx == 6 {
			return 10
		}
		return 7

	case 0x07: // RLCA
		rlca(cpu)
		return 4
	case 0x0F: // RRCA
		rrca(cpu)
		return 4
	case 0x17: // RLA
		rla(cpu)
		return 4
	case 0x1F: // RRA
		rra(cpu)
		return 4

	case 0x08: // EX AF, AF'
		cpu.ExAF()
		return 4
	case 0xD9: // EXX
		cpu.Exx()
		return 4
	case 0xEB: // EX DE, HL
		cpu.ExDEHL()
		return 4

	case 0x09, 0x19, 0x29, 0x39: // ADD HL, rr
		cpu.HL.SetWord(add16(cpu, cpu.HL.Word(), reg16(cpu, (op>>4)&3)))
		return 11

	case 0x10: // DJNZ d
		d := int8(c.fetch(cpu))
		b := cpu.BC.High() - 1
		cpu.BC.SetHigh(b)
		if b != 0 {
			cpu.PC += uint16(d)
			return 13
		}
		return 8

	case 0x18: // JR d
		d := int8(c.fetch(cpu))
		cpu.PC += uint16(d)
		return 12
	case 0x20, 0x28, 0x30, 0x38: // JR cc, d
		d := int8(c.fetch(cpu))
		if condition(cpu, (op>>3)&3) {
			cpu.PC += uint16(d)
			return 12
		}
		return 7

	case 0x22: // LD (nn), HL
		addr := c.fetchWord(cpu)
		c.mem.Write(addr, cpu.HL.Low())
		c.mem.Write(addr+1, cpu.HL.High())
		return 16
	case 0x2A: // LD HL, (nn)
		addr := c.fetchWord(cpu)
		cpu.HL.SetWord(bit.Combine(c.mem.Read(addr+1), c.mem.Read(addr)))
		return 16
	case 0x32: // LD (nn), A
		c.mem.Write(c.fetchWord(cpu), cpu.AF.High())
		return 13
	case 0x3A: // LD A, (nn)
		cpu.AF.SetHigh(c.mem.Read(c.fetchWord(cpu)))
		return 13

	case 0x27: // DAA stays outside the subset and logs like any unknown opcode
	case 0x2F: // CPL
		cpl(cpu)
		return 4
	case 0x37: // SCF
		scf(cpu)
		return 4
	case 0x3F: // CCF
		ccf(cpu)
		return 4

	case 0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE: // ALU n
		c.alu(cpu, (op>>3)&7, c.fetch(cpu))
		return 7

	case 0xC3: // JP nn
		cpu.PC = c.fetchWord(cpu)
		return 10
	case 0xC2, 0xCA, 0xD2, 0xDA, 0xE2, 0xEA, 0xF2, 0xFA: // JP cc, nn
		addr := c.fetchWord(cpu)
		if condition(cpu, (op>>3)&7) {
			cpu.PC = addr
		}
		return 10
	case 0xE9: // JP (HL)
		cpu.PC = cpu.HL.Word()
		return 4

	case 0xCD: // CALL nn
		addr := c.fetchWord(cpu)
		c.push(cpu, cpu.PC)
		cpu.PC = addr
		return 17
	case 0xC4, 0xCC, 0xD4, 0xDC, 0xE4, 0xEC, 0xF4, 0xFC: // CALL cc, nn
		addr := c.fetchWord(cpu)
		if condition(cpu, (op>>3)&7) {
			c.push(cpu, cpu.PC)
			cpu.PC = addr
			return 17
		}
		return 10

	case 0xC9: // RET
		cpu.PC = c.pop(cpu)
		return 10
	case 0xC0, 0xC8, 0xD0, 0xD8, 0xE0, 0xE8, 0xF0, 0xF8: // RET cc
		if condition(cpu, (op>>3)&7) {
			cpu.PC = c.pop(cpu)
			return 11
		}
		return 5

	case 0xC5, 0xD5, 0xE5, 0xF5: // PUSH rr
		c.push(cpu, pushPair(cpu, (op>>4)&3))
		return 11
	case 0xC1, 0xD1, 0xE1, 0xF1: // POP rr
		setPushPair(cpu, (op>>4)&3, c.pop(cpu))
		return 10

	case 0xE3: // EX (SP), HL
		low := c.mem.Read(cpu.SP)
		high := c.mem.Read(cpu.SP + 1)
		c.mem.Write(cpu.SP, cpu.HL.Low())
		c.mem.Write(cpu.SP+1, cpu.HL.High())
		cpu.HL.SetWord(bit.Combine(high, low))
		return 19

	case 0xF9: // LD SP, HL
		cpu.SP = cpu.HL.Word()
		return 6

	case 0xD3: // OUT (n), A
		port := bit.Combine(cpu.AF.High(), c.fetch(cpu))
		if c.ports != nil {
			c.ports.Out(port, cpu.AF.High())
		}
		return 11
	case 0xDB: // IN A, (n)
		port := bit.Combine(cpu.AF.High(), c.fetch(cpu))
		value := byte(0xFF)
		if c.ports != nil {
			value = c.ports.In(port)
		}
		cpu.AF.SetHigh(value)
		return 11

	case 0xF3, 0xFB: // DI, EI
		// The subset has no interrupt machinery, so enabling state is
		// accepted and dropped.
		return 4
	}

	slog.Debug("opcode outside subset, executing as NOP",
		"opcode", fmt.Sprintf("0x%02X", op),
		"pc", fmt.Sprintf("0x%04X", cpu.PC-1))
	return 4
}

// alu dispatches the 8-bit accumulator operations by their encoding
// index, in the hardware order ADD, ADC, SUB, SBC, AND, XOR, OR, CP.
func (c *Core) alu(cpu *z80.CPU, sel, value byte) {
	switch sel {
	case 0:
		add(cpu, value, false)
	case 1:
		add(cpu, value, true)
	case 2:
		cpu.AF.SetHigh(sub(cpu, value, false))
	case 3:
		cpu.AF.SetHigh(sub(cpu, value, true))
	case 4:
		logicAnd(cpu, value)
	case 5:
		logicXor(cpu, value)
	case 6:
		logicOr(cpu, value)
	default:
		cp(cpu, value)
	}
}
