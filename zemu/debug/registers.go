package debug

import (
	"fmt"
	"strings"

	"github.com/zemulab/go-zemu/zemu/z80"
)

// RegisterID names one register of the Z80 file for the accessor API.
// Identifiers are dense and start at zero so front ends can enumerate
// the whole file.
type RegisterID int

// Register identifiers, in enumeration order: the wide registers
// first, then the main bank byte by byte, then the alternate bank.
const (
	RegPC RegisterID = iota
	RegSP
	RegIX
	RegIY
	RegA
	RegF
	RegB
	RegC
	RegD
	RegE
	RegH
	RegL
	RegA2
	RegF2
	RegB2
	RegC2
	RegD2
	RegE2
	RegH2
	RegL2

	registerCount
)

// RegisterCount is the number of valid register identifiers.
const RegisterCount = int(registerCount)

var registerNames = [registerCount]string{
	"PC", "SP", "IX", "IY",
	"A", "F", "B", "C", "D", "E", "H", "L",
	"A'", "F'", "B'", "C'", "D'", "E'", "H'", "L'",
}

func (id RegisterID) String() string {
	if id < 0 || id >= registerCount {
		return fmt.Sprintf("reg(%d)", int(id))
	}
	return registerNames[id]
}

// registerReaders maps each identifier to the field it reads. The
// whole ID-to-register mapping lives in this one table; byte-wide
// registers are widened to uint16.
var registerReaders = [registerCount]func(*z80.CPU) uint16{
	RegPC: func(c *z80.CPU) uint16 { return c.PC },
	RegSP: func(c *z80.CPU) uint16 { return c.SP },
	RegIX: func(c *z80.CPU) uint16 { return c.IX },
	RegIY: func(c *z80.CPU) uint16 { return c.IY },
	RegA:  func(c *z80.CPU) uint16 { return uint16(c.AF.High()) },
	RegF:  func(c *z80.CPU) uint16 { return uint16(c.AF.Low()) },
	RegB:  func(c *z80.CPU) uint16 { return uint16(c.BC.High()) },
	RegC:  func(c *z80.CPU) uint16 { return uint16(c.BC.Low()) },
	RegD:  func(c *z80.CPU) uint16 { return uint16(c.DE.High()) },
	RegE:  func(c *z80.CPU) uint16 { return uint16(c.DE.Low()) },
	RegH:  func(c *z80.CPU) uint16 { return uint16(c.HL.High()) },
	RegL:  func(c *z80.CPU) uint16 { return uint16(c.HL.Low()) },
	RegA2: func(c *z80.CPU) uint16 { return uint16(c.AF2.High()) },
	RegF2: func(c *z80.CPU) uint16 { return uint16(c.AF2.Low()) },
	RegB2: func(c *z80.CPU) uint16 { return uint16(c.BC2.High()) },
	RegC2: func(c *z80.CPU) uint16 { return uint16(c.BC2.Low()) },
	RegD2: func(c *z80.CPU) uint16 { return uint16(c.DE2.High()) },
	RegE2: func(c *z80.CPU) uint16 { return uint16(c.DE2.Low()) },
	RegH2: func(c *z80.CPU) uint16 { return uint16(c.HL2.High()) },
	RegL2: func(c *z80.CPU) uint16 { return uint16(c.HL2.Low()) },
}

// ReadRegister returns the current value of the identified register.
// The second return is false when the identifier is out of range.
// Reads never modify the CPU.
func ReadRegister(cpu *z80.CPU, id RegisterID) (uint16, bool) {
	if id < 0 || id >= registerCount {
		return 0, false
	}
	return registerReaders[id](cpu), true
}

// ReadRegisterLegacy is ReadRegister for callers that predate the
// two-value form. Unknown identifiers yield 0xFFFF, a value PC or SP
// can legitimately hold, so new code should use ReadRegister.
func ReadRegisterLegacy(cpu *z80.CPU, id RegisterID) uint16 {
	value, ok := ReadRegister(cpu, id)
	if !ok {
		return 0xFFFF
	}
	return value
}

var registerByName = func() map[string]RegisterID {
	m := make(map[string]RegisterID, 2*RegisterCount)
	for i, name := range registerNames {
		m[name] = RegisterID(i)
		if strings.HasSuffix(name, "'") {
			m[strings.TrimSuffix(name, "'")+"2"] = RegisterID(i)
		}
	}
	return m
}()

// LookupRegister resolves a register name to its identifier. Matching
// is case-insensitive and alternate bank registers are accepted both
// in prime form ("A'") and with a trailing 2 ("A2").
func LookupRegister(name string) (RegisterID, bool) {
	id, ok := registerByName[strings.ToUpper(strings.TrimSpace(name))]
	return id, ok
}
