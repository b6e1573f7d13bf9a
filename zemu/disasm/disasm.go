// Package disasm decodes machine code back into mnemonics for
// display. It covers the same instruction subset the interpreting core
// executes; anything else renders as a DB byte so the listing never
// loses sync by more than one byte.
package disasm

import (
	"fmt"

	"github.com/zemulab/go-zemu/zemu/bit"
	"github.com/zemulab/go-zemu/zemu/memory"
)

// Line is one disassembled instruction.
type Line struct {
	Addr   uint16
	Text   string
	Length int
}

var (
	reg8Names  = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}
	reg16Names = [4]string{"BC", "DE", "HL", "SP"}
	pushNames  = [4]string{"BC", "DE", "HL", "AF"}
	condNames  = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}
	aluNames   = [8]string{"ADD A,", "ADC A,", "SUB", "SBC A,", "AND", "XOR", "OR", "CP"}
)

// Decode disassembles the instruction at addr, returning its text and
// its length in bytes.
func Decode(mem memory.Peeker, addr uint16) (string, int) {
	op := mem.Peek(addr)
	n := mem.Peek(addr + 1)
	nn := bit.Combine(mem.Peek(addr+2), n)

	if op&0xC0 == 0x40 {
		if op == 0x76 {
			return "HALT", 1
		}
		return fmt.Sprintf("LD %s, %s", reg8Names[(op>>3)&7], reg8Names[op&7]), 1
	}
	if op&0xC0 == 0x80 {
		return fmt.Sprintf("%s %s", aluNames[(op>>3)&7], reg8Names[op&7]), 1
	}

	switch op {
	case 0x00:
		return "NOP", 1
	case 0x01, 0x11, 0x21, 0x31:
		return fmt.Sprintf("LD %s, $%04X", reg16Names[(op>>4)&3], nn), 3
	case 0x02:
		return "LD (BC), A", 1
	case 0x12:
		return "LD (DE), A", 1
	case 0x0A:
		return "LD A, (BC)", 1
	case 0x1A:
		return "LD A, (DE)", 1
	case 0x03, 0x13, 0x23, 0x33:
		return fmt.Sprintf("INC %s", reg16Names[(op>>4)&3]), 1
	case 0x0B, 0x1B, 0x2B, 0x3B:
		return fmt.Sprintf("DEC %s", reg16Names[(op>>4)&3]), 1
	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x34, 0x3C:
		return fmt.Sprintf("INC %s", reg8Names[(op>>3)&7]), 1
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x35, 0x3D:
		return fmt.Sprintf("DEC %s", reg8Names[(op>>3)&7]), 1
	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x36, 0x3E:
		return fmt.Sprintf("LD %s, $%02X", reg8Names[(op>>3)&7], n), 2
	case 0x07:
		return "RLCA", 1
	case 0x0F:
		return "RRCA", 1
	case 0x17:
		return "RLA", 1
	case 0x1F:
		return "RRA", 1
	case 0x08:
		return "EX AF, AF'", 1
	case 0x09, 0x19, 0x29, 0x39:
		return fmt.Sprintf("ADD HL, %s", reg16Names[(op>>4)&3]), 1
	case 0x10:
		return fmt.Sprintf("DJNZ $%04X", addr+2+uint16(int8(n))), 2
	case 0x18:
		return fmt.Sprintf("JR $%04X", addr+2+uint16(int8(n))), 2
	case 0x20, 0x28, 0x30, 0x38:
		return fmt.Sprintf("JR %s, $%04X", condNames[(op>>3)&3], addr+2+uint16(int8(n))), 2
	case 0x22:
		return fmt.Sprintf("LD ($%04X), HL", nn), 3
	case 0x2A:
		return fmt.Sprintf("LD HL, ($%04X)", nn), 3
	case 0x32:
		return fmt.Sprintf("LD ($%04X), A", nn), 3
	case 0x3A:
		return fmt.Sprintf("LD A, ($%04X)", nn), 3
	case 0x2F:
		return "CPL", 1
	case 0x37:
		return "SCF", 1
	case 0x3F:
		return "CCF", 1
	case 0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE:
		return fmt.Sprintf("%s $%02X", aluNames[(op>>3)&7], n), 2
	case 0xC3:
		return fmt.Sprintf("JP $%04X", nn), 3
	case 0xC2, 0xCA, 0xD2, 0xDA, 0xE2, 0xEA, 0xF2, 0xFA:
		return fmt.Sprintf("JP %s, $%04X", condNames[(op>>3)&7], nn), 3
	case 0xE9:
		return "JP (HL)", 1
	case 0xCD:
		return fmt.Sprintf("CALL $%04X", nn), 3
	case 0xC4, 0xCC, 0xD4, 0xDC, 0xE4, 0xEC, 0xF4, 0xFC:
		return fmt.Sprintf("CALL %s, $%04X", condNames[(op>>3)&7], nn), 3
	case 0xC9:
		return "RET", 1
	case 0xC0, 0xC8, 0xD0, 0xD8, 0xE0, 0xE8, 0xF0, 0xF8:
		return fmt.Sprintf("RET %s", condNames[(op>>3)&7]), 1
	case 0xC5, 0xD5, 0xE5, 0xF5:
		return fmt.Sprintf("PUSH %s", pushNames[(op>>4)&3]), 1
	case 0xC1, 0xD1, 0xE1, 0xF1:
		return fmt.Sprintf("POP %s", pushNames[(op>>4)&3]), 1
	case 0xD9:
		return "EXX", 1
	case 0xEB:
		return "EX DE, HL", 1
	case 0xE3:
		return "EX (SP), HL", 1
	case 0xF9:
		return "LD SP, HL", 1
	case 0xD3:
		return fmt.Sprintf("OUT ($%02X), A", n), 2
	case 0xDB:
		return fmt.Sprintf("IN A, ($%02X)", n), 2
	case 0xF3:
		return "DI", 1
	case 0xFB:
		return "EI", 1
	}

	return fmt.Sprintf("DB $%02X", op), 1
}

// Range disassembles up to count instructions starting at addr. It
// stops early if the address space wraps.
func Range(mem memory.Peeker, addr uint16, count int) []Line {
	lines := make([]Line, 0, count)
	for i := 0; i < count; i++ {
		text, length := Decode(mem, addr)
		lines = append(lines, Line{Addr: addr, Text: text, Length: length})
		next := addr + uint16(length)
		if next < addr {
			break
		}
		addr = next
	}
	return lines
}

// Around returns a window of height lines with the instruction at pc
// in view. It starts decoding a little before pc so the current
// instruction sits mid window when the preceding bytes decode onto it;
// if they do not, the window simply starts at pc.
func Around(mem memory.Peeker, pc uint16, height int) []Line {
	if height < 1 {
		return nil
	}

	backtrack := uint16(16)
	if pc < backtrack {
		backtrack = pc
	}

	var lines []Line
	pcIndex := -1
	addr := pc - backtrack
	for i := 0; i < 3*height+int(backtrack); i++ {
		text, length := Decode(mem, addr)
		if addr == pc {
			pcIndex = len(lines)
		}
		lines = append(lines, Line{Addr: addr, Text: text, Length: length})
		if pcIndex >= 0 && len(lines) >= pcIndex+height {
			break
		}
		next := addr + uint16(length)
		if next < addr {
			break
		}
		addr = next
	}

	if pcIndex < 0 {
		return Range(mem, pc, height)
	}

	start := pcIndex - height/2
	if start < 0 {
		start = 0
	}
	end := start + height
	if end > len(lines) {
		end = len(lines)
		start = end - height
		if start < 0 {
			start = 0
		}
	}
	return lines[start:end]
}
