package z80

// Pair is a 16-bit register made of two independently addressable 8-bit
// halves, matching the AF/BC/DE/HL layout of the Z80.
type Pair uint16

// Word returns the full 16-bit value.
func (p Pair) Word() uint16 {
	return uint16(p)
}

// High returns the most significant byte.
func (p Pair) High() byte {
	return byte(p >> 8)
}

// Low returns the least significant byte.
func (p Pair) Low() byte {
	return byte(p)
}

// SetWord replaces the full 16-bit value.
func (p *Pair) SetWord(value uint16) {
	*p = Pair(value)
}

// SetHigh replaces the most significant byte.
func (p *Pair) SetHigh(value byte) {
	*p = Pair(uint16(value)<<8 | uint16(*p)&0x00FF)
}

// SetLow replaces the least significant byte.
func (p *Pair) SetLow(value byte) {
	*p = Pair(uint16(*p)&0xFF00 | uint16(value))
}
