// Package z80 models the architectural state of a Zilog Z80: the
// program counter, stack pointer, index registers and both register
// banks. Instruction execution lives elsewhere; this package only
// holds state and the operations the hardware defines on it.
package z80

// Flag bits of the F register.
const (
	FlagC  byte = 0x01 // carry
	FlagN  byte = 0x02 // add/subtract
	FlagPV byte = 0x04 // parity/overflow
	FlagX  byte = 0x08 // copy of result bit 3
	FlagH  byte = 0x10 // half carry
	FlagY  byte = 0x20 // copy of result bit 5
	FlagZ  byte = 0x40 // zero
	FlagS  byte = 0x80 // sign
)

// CPU is the full Z80 register file. The main bank (AF, BC, DE, HL) is
// the one instructions operate on; the alternate bank (AF2, BC2, DE2,
// HL2) is reachable only through the exchange operations.
type CPU struct {
	PC uint16
	SP uint16
	IX uint16
	IY uint16

	AF Pair
	BC Pair
	DE Pair
	HL Pair

	AF2 Pair
	BC2 Pair
	DE2 Pair
	HL2 Pair

	// Halted is set when the core executes HALT. Nothing in the
	// register file clears it; that is up to Reset or an interrupt.
	Halted bool
}

// New returns a CPU in its power-on state.
func New() *CPU {
	c := &CPU{}
	c.Reset()
	return c
}

// Reset puts the register file back into the power-on state: PC is
// zero, AF and SP hold 0xFFFF as on real silicon, everything else is
// cleared.
func (c *CPU) Reset() {
	*c = CPU{
		SP: 0xFFFF,
		AF: Pair(0xFFFF),
	}
}

// ExAF swaps AF with its alternate bank counterpart.
func (c *CPU) ExAF() {
	c.AF, c.AF2 = c.AF2, c.AF
}

// Exx swaps BC, DE and HL with their alternate bank counterparts.
// AF is not part of the exchange.
func (c *CPU) Exx() {
	c.BC, c.BC2 = c.BC2, c.BC
	c.DE, c.DE2 = c.DE2, c.DE
	c.HL, c.HL2 = c.HL2, c.HL
}

// ExDEHL swaps DE and HL within the main bank.
func (c *CPU) ExDEHL() {
	c.DE, c.HL = c.HL, c.DE
}

// Flag reports whether the given flag bit is set in F.
func (c *CPU) Flag(flag byte) bool {
	return c.AF.Low()&flag != 0
}

// SetFlag sets or clears the given flag bit in F.
func (c *CPU) SetFlag(flag byte, on bool) {
	f := c.AF.Low()
	if on {
		f |= flag
	} else {
		f &^= flag
	}
	c.AF.SetLow(f)
}

// FlagString renders F as the conventional eight-letter mnemonic
// string, with a dash for each clear bit.
func (c *CPU) FlagString() string {
	names := [8]byte{'S', 'Z', 'Y', 'H', 'X', 'P', 'N', 'C'}
	bits := [8]byte{FlagS, FlagZ, FlagY, FlagH, FlagX, FlagPV, FlagN, FlagC}

	out := make([]byte, 8)
	f := c.AF.Low()
	for i := range bits {
		if f&bits[i] != 0 {
			out[i] = names[i]
		} else {
			out[i] = '-'
		}
	}
	return string(out)
}
