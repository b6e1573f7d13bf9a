// Package memory provides the address space of the machine and the
// interfaces through which the CPU core and the debug tooling reach it.
package memory

// Size is the number of addressable bytes.
const Size = 0x10000

// Bus is what the CPU core executes against.
type Bus interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// Peeker reads memory without side effects. Debug tooling goes through
// it so that inspecting the machine cannot disturb it.
type Peeker interface {
	Peek(addr uint16) byte
}
