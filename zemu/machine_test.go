package zemu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zemulab/go-zemu/zemu/debug"
	"github.com/zemulab/go-zemu/zemu/device"
)

type recordedWrite struct {
	port  uint16
	value byte
}

type capturePorts struct {
	writes []recordedWrite
}

func (p *capturePorts) In(port uint16) byte {
	return 0xFF
}

func (p *capturePorts) Out(port uint16, value byte) {
	p.writes = append(p.writes, recordedWrite{port: port, value: value})
}


func TestHaltStopsUnboundedRun(t *testing.T) {
	m := New()
	require.NoError(t, m.Load(0, []byte{0x00, 0x00, 0x76}))

	cycles := m.Run(-1)

	assert.Equal(t, 12, cycles)
	assert.Equal(t, debug.StateHalted, m.Debugger.State())
	assert.Equal(t, uint16(0x0003), m.CPU.PC)
}

func TestCycleCounterTracksExecution(t *testing.T) {
	m := New()
	require.NoError(t, m.Load(0, make([]byte, 64)))

	cycles := m.Run(40)

	assert.Equal(t, 40, cycles)
	assert.Equal(t, uint64(40), m.Cycles.Count())
}

func TestBreakpointStopsRun(t *testing.T) {
	m := New()
	require.NoError(t, m.Load(0, make([]byte, 16)))
	require.NoError(t, m.Debugger.AddBreakpoint(0x0002))

	cycles := m.Run(-1)

	assert.Equal(t, 8, cycles)
	assert.Equal(t, debug.StateBreak, m.Debugger.State())
	assert.Equal(t, uint16(0x0002), m.CPU.PC)
}

func TestMemoryConditionSeesRAM(t *testing.T) {
	m := New()
	program := []byte{
		0x3E, 0x05, // LD A, $05
		0x32, 0x00, 0x40, // LD ($4000), A
		0x00, // NOP
		0x76, // HALT
	}
	require.NoError(t, m.Load(0, program))

	cond, err := debug.ParseCondition("[$4000] == $05")
	require.NoError(t, err)
	require.NoError(t, m.Debugger.AddBreakpointCond(0x0005, cond))

	cycles := m.Run(-1)

	assert.Equal(t, debug.StateBreak, m.Debugger.State())
	assert.Equal(t, uint16(0x0005), m.CPU.PC)
	assert.Equal(t, 20, cycles)
}

func TestPortsAreWiredThroughConfig(t *testing.T) {
	ports := &capturePorts{}
	m := NewWithConfig(Config{Ports: ports})
	program := []byte{
		0x3E, 0xAA, // LD A, $AA
		0xD3, 0x10, // OUT ($10), A
		0x76, // HALT
	}
	require.NoError(t, m.Load(0, program))

	cycles := m.Run(-1)

	assert.Equal(t, 22, cycles)
	require.Len(t, ports.writes, 1)
	assert.Equal(t, uint16(0xAA10), ports.writes[0].port)
	assert.Equal(t, byte(0xAA), ports.writes[0].value)
}

func TestExtraTickersRunEveryCycle(t *testing.T) {
	fires := 0
	divider := device.NewClockDivider(5, func() { fires++ })
	m := NewWithConfig(Config{Tickers: []debug.Ticker{divider}})
	require.NoError(t, m.Load(0, make([]byte, 8)))

	m.Run(20)

	assert.Equal(t, 4, fires)
	assert.Equal(t, uint64(20), m.Cycles.Count())
}

func TestBreakpointCapacityFromConfig(t *testing.T) {
	m := NewWithConfig(Config{BreakpointCapacity: 1})

	require.NoError(t, m.Debugger.AddBreakpoint(0x0001))
	err := m.Debugger.AddBreakpoint(0x0002)
	assert.ErrorIs(t, err, debug.ErrBreakpointLimit)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "program.bin")
	require.NoError(t, os.WriteFile(path, []byte{0x3E, 0x42, 0x76}, 0o644))

	m := New()
	require.NoError(t, m.LoadFile(path, 0x0100))

	assert.Equal(t, byte(0x3E), m.RAM.Peek(0x0100))
	assert.Equal(t, byte(0x42), m.RAM.Peek(0x0101))
	assert.Equal(t, byte(0x76), m.RAM.Peek(0x0102))
}

func TestLoadFileMissing(t *testing.T) {
	m := New()
	err := m.LoadFile(filepath.Join(t.TempDir(), "nope.bin"), 0)
	assert.Error(t, err)
}

func TestLoadRejectsOversizedImage(t *testing.T) {
	m := New()
	err := m.Load(0xFFFF, []byte{0x00, 0x00})
	assert.Error(t, err)
}

func TestResetReturnsToPowerOn(t *testing.T) {
	m := New()
	require.NoError(t, m.Load(0, []byte{0x00, 0x00, 0x76}))
	m.Run(-1)
	require.Equal(t, debug.StateHalted, m.Debugger.State())

	m.Reset()

	assert.Equal(t, uint16(0x0000), m.CPU.PC)
	assert.Equal(t, uint16(0xFFFF), m.CPU.SP)
	assert.Equal(t, debug.StateRunning, m.Debugger.State())
	assert.Equal(t, uint64(0), m.Cycles.Count())
	assert.Equal(t, byte(0x76), m.RAM.Peek(0x0002), "memory survives reset")
}

func TestSnapshot(t *testing.T) {
	m := New()
	m.CPU.PC = 0x1234
	m.CPU.SP = 0x8000
	m.CPU.IX = 0x00AA
	m.CPU.IY = 0x00BB
	m.CPU.AF.SetWord(0x12FF)
	m.CPU.BC.SetWord(0x3456)
	m.CPU.HL2.SetWord(0x9ABC)

	snap := m.Snapshot()

	assert.Equal(t, uint16(0x1234), snap.PC)
	assert.Equal(t, uint16(0x8000), snap.SP)
	assert.Equal(t, uint16(0x00AA), snap.IX)
	assert.Equal(t, uint16(0x00BB), snap.IY)
	assert.Equal(t, uint16(0x12FF), snap.AF)
	assert.Equal(t, uint16(0x3456), snap.BC)
	assert.Equal(t, uint16(0x9ABC), snap.HL2)
	assert.Equal(t, "SZYHXPNC", snap.Flags)
	assert.Equal(t, "running", snap.State)
	assert.False(t, snap.Halted)
	assert.Equal(t, uint64(0), snap.Cycles)
}
