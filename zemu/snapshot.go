package zemu

// Snapshot is a copy of the observable machine state, taken at an
// instruction boundary. Front ends render from this instead of poking
// at the CPU directly.
type Snapshot struct {
	PC uint16
	SP uint16
	IX uint16
	IY uint16

	AF uint16
	BC uint16
	DE uint16
	HL uint16

	AF2 uint16
	BC2 uint16
	DE2 uint16
	HL2 uint16

	Flags  string
	Halted bool

	State  string
	Cycles uint64
}

// Snapshot captures the register file, run state and cycle count.
func (m *Machine) Snapshot() Snapshot {
	c := m.CPU
	return Snapshot{
		PC:     c.PC,
		SP:     c.SP,
		IX:     c.IX,
		IY:     c.IY,
		AF:     c.AF.Word(),
		BC:     c.BC.Word(),
		DE:     c.DE.Word(),
		HL:     c.HL.Word(),
		AF2:    c.AF2.Word(),
		BC2:    c.BC2.Word(),
		DE2:    c.DE2.Word(),
		HL2:    c.HL2.Word(),
		Flags:  c.FlagString(),
		Halted: c.Halted,
		State:  m.Debugger.State().String(),
		Cycles: m.Cycles.Count(),
	}
}
