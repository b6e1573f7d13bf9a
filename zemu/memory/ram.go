package memory

import "fmt"

// RAM is a flat 64 KiB address space with no mapping hardware. Reads
// and writes never fail and addresses wrap naturally with uint16.
type RAM struct {
	data [Size]byte
}

// NewRAM returns zeroed memory.
func NewRAM() *RAM {
	return &RAM{}
}

// Read returns the byte at addr.
func (r *RAM) Read(addr uint16) byte {
	return r.data[addr]
}

// Write stores value at addr.
func (r *RAM) Write(addr uint16, value byte) {
	r.data[addr] = value
}

// Peek returns the byte at addr. For plain RAM it is identical to Read;
// it exists so the debug tooling can hold a Peeker and never a Bus.
func (r *RAM) Peek(addr uint16) byte {
	return r.data[addr]
}

// LoadAt copies an image into memory starting at origin.
func (r *RAM) LoadAt(origin uint16, image []byte) error {
	if len(image) > Size-int(origin) {
		return fmt.Errorf("image of %d bytes does not fit at 0x%04X", len(image), origin)
	}
	copy(r.data[origin:], image)
	return nil
}
