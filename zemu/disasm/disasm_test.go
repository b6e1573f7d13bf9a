package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zemulab/go-zemu/zemu/memory"
)

func loaded(program ...byte) *memory.RAM {
	ram := memory.NewRAM()
	if err := ram.LoadAt(0, program); err != nil {
		panic(err)
	}
	return ram
}

func TestDecode(t *testing.T) {
	testCases := []struct {
		desc    string
		program []byte
		want    string
		length  int
	}{
		{desc: "nop", program: []byte{0x00}, want: "NOP", length: 1},
		{desc: "halt", program: []byte{0x76}, want: "HALT", length: 1},
		{desc: "ld r r", program: []byte{0x48}, want: "LD C, B", length: 1},
		{desc: "ld through hl", program: []byte{0x77}, want: "LD (HL), A", length: 1},
		{desc: "ld r n", program: []byte{0x3E, 0x42}, want: "LD A, $42", length: 2},
		{desc: "ld rr nn", program: []byte{0x21, 0x34, 0x12}, want: "LD HL, $1234", length: 3},
		{desc: "alu register", program: []byte{0x91}, want: "SUB C", length: 1},
		{desc: "alu immediate", program: []byte{0xC6, 0x05}, want: "ADD A, $05", length: 2},
		{desc: "compare", program: []byte{0xBE}, want: "CP (HL)", length: 1},
		{desc: "jp", program: []byte{0xC3, 0x00, 0x80}, want: "JP $8000", length: 3},
		{desc: "jp conditional", program: []byte{0xDA, 0xCD, 0xAB}, want: "JP C, $ABCD", length: 3},
		{desc: "jr forward", program: []byte{0x18, 0x10}, want: "JR $0012", length: 2},
		{desc: "jr backward", program: []byte{0x18, 0xFE}, want: "JR $0000", length: 2},
		{desc: "jr conditional", program: []byte{0x20, 0x05}, want: "JR NZ, $0007", length: 2},
		{desc: "djnz", program: []byte{0x10, 0xFC}, want: "DJNZ $FFFE", length: 2},
		{desc: "call", program: []byte{0xCD, 0x00, 0x90}, want: "CALL $9000", length: 3},
		{desc: "ret", program: []byte{0xC9}, want: "RET", length: 1},
		{desc: "ret conditional", program: []byte{0xF8}, want: "RET M", length: 1},
		{desc: "push af", program: []byte{0xF5}, want: "PUSH AF", length: 1},
		{desc: "pop bc", program: []byte{0xC1}, want: "POP BC", length: 1},
		{desc: "exchange banks", program: []byte{0xD9}, want: "EXX", length: 1},
		{desc: "exchange af", program: []byte{0x08}, want: "EX AF, AF'", length: 1},
		{desc: "inc wide", program: []byte{0x33}, want: "INC SP", length: 1},
		{desc: "dec narrow", program: []byte{0x35}, want: "DEC (HL)", length: 1},
		{desc: "add hl", program: []byte{0x39}, want: "ADD HL, SP", length: 1},
		{desc: "store a direct", program: []byte{0x32, 0x00, 0x40}, want: "LD ($4000), A", length: 3},
		{desc: "load hl direct", program: []byte{0x2A, 0xFE, 0xDF}, want: "LD HL, ($DFFE)", length: 3},
		{desc: "out", program: []byte{0xD3, 0xFE}, want: "OUT ($FE), A", length: 2},
		{desc: "in", program: []byte{0xDB, 0xFE}, want: "IN A, ($FE)", length: 2},
		{desc: "outside subset", program: []byte{0xED}, want: "DB $ED", length: 1},
		{desc: "daa outside subset", program: []byte{0x27}, want: "DB $27", length: 1},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			text, length := Decode(loaded(tC.program...), 0)
			assert.Equal(t, tC.want, text)
			assert.Equal(t, tC.length, length)
		})
	}
}

func TestRangeWalksInstructionLengths(t *testing.T) {
	ram := loaded(
		0x3E, 0x01, // LD A, $01
		0x21, 0x00, 0x40, // LD HL, $4000
		0x77, // LD (HL), A
		0x76, // HALT
	)

	lines := Range(ram, 0, 4)

	require.Len(t, lines, 4)
	assert.Equal(t, uint16(0x0000), lines[0].Addr)
	assert.Equal(t, uint16(0x0002), lines[1].Addr)
	assert.Equal(t, uint16(0x0005), lines[2].Addr)
	assert.Equal(t, uint16(0x0006), lines[3].Addr)
	assert.Equal(t, "HALT", lines[3].Text)
}

func TestRangeStopsAtWrap(t *testing.T) {
	ram := memory.NewRAM()
	lines := Range(ram, 0xFFFE, 10)
	require.NotEmpty(t, lines)
	last := lines[len(lines)-1]
	assert.LessOrEqual(t, len(lines), 3)
	assert.Equal(t, uint16(0xFFFF), last.Addr)
}

func TestAroundKeepsPCInWindow(t *testing.T) {
	// A run of NOPs decodes cleanly from any start, so pc must end up
	// mid window.
	ram := memory.NewRAM()
	lines := Around(ram, 0x0100, 9)

	require.Len(t, lines, 9)
	found := false
	for _, l := range lines {
		if l.Addr == 0x0100 {
			found = true
		}
	}
	assert.True(t, found, "window must contain pc")
	assert.NotEqual(t, uint16(0x0100), lines[0].Addr, "pc should not sit at the window top when context exists")
}

func TestAroundNearAddressZero(t *testing.T) {
	ram := memory.NewRAM()
	lines := Around(ram, 0x0000, 5)

	require.NotEmpty(t, lines)
	assert.Equal(t, uint16(0x0000), lines[0].Addr)
}
