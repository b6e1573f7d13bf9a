package interp

import (
	"math/bits"

	"github.com/zemulab/go-zemu/zemu/z80"
)

// The helpers below implement the documented Z80 flag behavior,
// including the X and Y copies of result bits 3 and 5. CP is the one
// oddball: it copies X and Y from the operand instead of the result.

func add(cpu *z80.CPU, value byte, withCarry bool) {
	a := cpu.AF.High()
	carry := byte(0)
	if withCarry && cpu.Flag(z80.FlagC) {
		carry = 1
	}
	result := a + value + carry

	var f byte
	f |= result & (z80.FlagS | z80.FlagY | z80.FlagX)
	if result == 0 {
		f |= z80.FlagZ
	}
	if (a&0x0F)+(value&0x0F)+carry > 0x0F {
		f |= z80.FlagH
	}
	if (a^value)&0x80 == 0 && (a^result)&0x80 != 0 {
		f |= z80.FlagPV
	}
	if int(a)+int(value)+int(carry) > 0xFF {
		f |= z80.FlagC
	}

	cpu.AF.SetHigh(result)
	cpu.AF.SetLow(f)
}

// sub computes A - value (- carry), sets the flags, and returns the
// result without storing it; SUB and SBC store it, CP discards it.
func sub(cpu *z80.CPU, value byte, withCarry bool) byte {
	a := cpu.AF.High()
	carry := byte(0)
	if withCarry && cpu.Flag(z80.FlagC) {
		carry = 1
	}
	result := a - value - carry

	f := z80.FlagN
	f |= result & (z80.FlagS | z80.FlagY | z80.FlagX)
	if result == 0 {
		f |= z80.FlagZ
	}
	if (a&0x0F)-(value&0x0F)-carry > 0x0F {
		f |= z80.FlagH
	}
	if (a^value)&0x80 != 0 && (a^result)&0x80 != 0 {
		f |= z80.FlagPV
	}
	if int(a)-int(value)-int(carry) < 0 {
		f |= z80.FlagC
	}

	cpu.AF.SetLow(f)
	return result
}

func cp(cpu *z80.CPU, value byte) {
	sub(cpu, value, false)
	f := cpu.AF.Low() &^ (z80.FlagY | z80.FlagX)
	f |= value & (z80.FlagY | z80.FlagX)
	cpu.AF.SetLow(f)
}

func logicAnd(cpu *z80.CPU, value byte) {
	result := cpu.AF.High() & value
	cpu.AF.SetHigh(result)
	cpu.AF.SetLow(logicFlags(result) | z80.FlagH)
}

func logicOr(cpu *z80.CPU, value byte) {
	result := cpu.AF.High() | value
	cpu.AF.SetHigh(result)
	cpu.AF.SetLow(logicFlags(result))
}

func logicXor(cpu *z80.CPU, value byte) {
	result := cpu.AF.High() ^ value
	cpu.AF.SetHigh(result)
	cpu.AF.SetLow(logicFlags(result))
}

// logicFlags builds the flag byte the bitwise operations share: sign,
// zero, the result copies, and even parity. Carry and subtract are
// always clear; AND alone adds the half carry.
func logicFlags(result byte) byte {
	f := result & (z80.FlagS | z80.FlagY | z80.FlagX)
	if result == 0 {
		f |= z80.FlagZ
	}
	if bits.OnesCount8(result)%2 == 0 {
		f |= z80.FlagPV
	}
	return f
}

// inc8 and dec8 preserve the carry flag; overflow is pinned to the
// single values that can produce it.
func inc8(cpu *z80.CPU, value byte) byte {
	result := value + 1
	f := cpu.AF.Low() & z80.FlagC
	f |= result & (z80.FlagS | z80.FlagY | z80.FlagX)
	if result == 0 {
		f |= z80.FlagZ
	}
	if value&0x0F == 0x0F {
		f |= z80.FlagH
	}
	if value == 0x7F {
		f |= z80.FlagPV
	}
	cpu.AF.SetLow(f)
	return result
}

func dec8(cpu *z80.CPU, value byte) byte {
	result := value - 1
	f := cpu.AF.Low()&z80.FlagC | z80.FlagN
	f |= result & (z80.FlagS | z80.FlagY | z80.FlagX)
	if result == 0 {
		f |= z80.FlagZ
	}
	if value&0x0F == 0 {
		f |= z80.FlagH
	}
	if value == 0x80 {
		f |= z80.FlagPV
	}
	cpu.AF.SetLow(f)
	return result
}

// add16 implements ADD HL, rr: sign, zero and parity survive, the
// half carry comes from bit 11 and the copies from the high byte.
func add16(cpu *z80.CPU, lhs, rhs uint16) uint16 {
	result := uint32(lhs) + uint32(rhs)

	f := cpu.AF.Low() & (z80.FlagS | z80.FlagZ | z80.FlagPV)
	f |= byte(result>>8) & (z80.FlagY | z80.FlagX)
	if (lhs&0x0FFF)+(rhs&0x0FFF) > 0x0FFF {
		f |= z80.FlagH
	}
	if result > 0xFFFF {
		f |= z80.FlagC
	}

	cpu.AF.SetLow(f)
	return uint16(result)
}

// The accumulator rotates keep sign, zero and parity untouched.

func rlca(cpu *z80.CPU) {
	a := cpu.AF.High()
	result := a<<1 | a>>7
	cpu.AF.SetHigh(result)
	cpu.AF.SetLow(rotateFlags(cpu, result, a&0x80 != 0))
}

func rrca(cpu *z80.CPU) {
	a := cpu.AF.High()
	result := a>>1 | a<<7
	cpu.AF.SetHigh(result)
	cpu.AF.SetLow(rotateFlags(cpu, result, a&0x01 != 0))
}

func rla(cpu *z80.CPU) {
	a := cpu.AF.High()
	result := a << 1
	if cpu.Flag(z80.FlagC) {
		result |= 0x01
	}
	cpu.AF.SetHigh(result)
	cpu.AF.SetLow(rotateFlags(cpu, result, a&0x80 != 0))
}

func rra(cpu *z80.CPU) {
	a := cpu.AF.High()
	result := a >> 1
	if cpu.Flag(z80.FlagC) {
		result |= 0x80
	}
	cpu.AF.SetHigh(result)
	cpu.AF.SetLow(rotateFlags(cpu, result, a&0x01 != 0))
}

func rotateFlags(cpu *z80.CPU, result byte, carryOut bool) byte {
	f := cpu.AF.Low() & (z80.FlagS | z80.FlagZ | z80.FlagPV)
	f |= result & (z80.FlagY | z80.FlagX)
	if carryOut {
		f |= z80.FlagC
	}
	return f
}

func cpl(cpu *z80.CPU) {
	result := ^cpu.AF.High()
	cpu.AF.SetHigh(result)

	f := cpu.AF.Low() &^ (z80.FlagY | z80.FlagX)
	f |= result&(z80.FlagY|z80.FlagX) | z80.FlagH | z80.FlagN
	cpu.AF.SetLow(f)
}

func scf(cpu *z80.CPU) {
	f := cpu.AF.Low() & (z80.FlagS | z80.FlagZ | z80.FlagPV)
	f |= cpu.AF.High()&(z80.FlagY|z80.FlagX) | z80.FlagC
	cpu.AF.SetLow(f)
}

func ccf(cpu *z80.CPU) {
	old := cpu.AF.Low()
	f := old & (z80.FlagS | z80.FlagZ | z80.FlagPV)
	f |= cpu.AF.High() & (z80.FlagY | z80.FlagX)
	if old&z80.FlagC != 0 {
		f |= z80.FlagH
	} else {
		f |= z80.FlagC
	}
	cpu.AF.SetLow(f)
}
