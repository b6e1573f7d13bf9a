// Package monitor is the interactive terminal front end: registers,
// disassembly, memory, breakpoints and a log tail, driven one debugger
// command per keypress. It owns the terminal while it runs.
package monitor

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/zemulab/go-zemu/zemu"
	"github.com/zemulab/go-zemu/zemu/debug"
	"github.com/zemulab/go-zemu/zemu/disasm"
)

const (
	minTermWidth  = 80
	minTermHeight = 24

	leftWidth      = 40
	registerRows   = 8
	breakpointRows = 5
	disasmRows     = 12

	memoryBytesPerRow = 8
	logRingSize       = 128

	// Cycle budget for a plain continue, so the screen comes back
	// even when the program never hits a breakpoint.
	defaultBudget = 100000
)

// byte registers drawn through the debugger's accessor, four per line,
// main bank then alternate.
var byteRegisterRows = [4][4]debug.RegisterID{
	{debug.RegA, debug.RegF, debug.RegB, debug.RegC},
	{debug.RegD, debug.RegE, debug.RegH, debug.RegL},
	{debug.RegA2, debug.RegF2, debug.RegB2, debug.RegC2},
	{debug.RegD2, debug.RegE2, debug.RegH2, debug.RegL2},
}

// Monitor drives one machine from the terminal.
type Monitor struct {
	mach     *zemu.Machine
	screen   tcell.Screen
	ring     *logRing
	logLevel slog.Level
	memBase  uint16
	budget   int
	running  bool
}

// New returns a monitor attached to the given machine.
func New(mach *zemu.Machine) *Monitor {
	return &Monitor{
		mach:     mach,
		logLevel: slog.LevelInfo,
		budget:   defaultBudget,
	}
}

// Run takes over the terminal until the user quits. The default slog
// handler is replaced with the monitor's log pane for the duration and
// restored on exit.
func (m *Monitor) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	m.screen = screen
	defer screen.Fini()

	m.ring = newLogRing(logRingSize)
	previous := slog.Default()
	slog.SetDefault(slog.New(m.ring))
	defer slog.SetDefault(previous)

	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	slog.Info("monitor attached", "pc", hex16(m.mach.CPU.PC))

	m.running = true
	// The machine advances only on keystrokes; nothing on screen can
	// change between events, so the loop blocks in PollEvent.
	for m.running {
		m.draw()
		m.screen.Show()

		switch ev := m.screen.PollEvent().(type) {
		case *tcell.EventKey:
			m.handleKey(ev)
		case *tcell.EventResize:
			m.screen.Sync()
		}
	}
	return nil
}

func (m *Monitor) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		m.running = false
		return
	case tcell.KeyRune:
	default:
		return
	}

	switch ev.Rune() {
	case 'q':
		m.running = false
	case 's':
		cycles := m.mach.Step()
		slog.Debug("step", "cycles", cycles, "pc", hex16(m.mach.CPU.PC))
	case 'c':
		m.resume(m.budget)
	case 'C':
		m.resume(-1)
	case 'h':
		if m.mach.Debugger.Halted() {
			m.mach.Debugger.Halt(false)
			slog.Info("halt released")
		} else {
			m.mach.Debugger.Halt(true)
			slog.Info("halt requested")
		}
	case 'b':
		m.toggleBreakpoint(m.mach.CPU.PC)
	case 'x':
		m.mach.Debugger.ClearBreakpoints()
		slog.Info("breakpoints cleared")
	case 'g':
		m.mach.Reset()
		slog.Info("machine reset")
	case '[':
		m.memBase -= 0x100
	case ']':
		m.memBase += 0x100
	case '+', '=':
		m.changeLogLevel(1)
	case '-', '_':
		m.changeLogLevel(-1)
	}
}

func (m *Monitor) resume(budget int) {
	cycles := m.mach.Run(budget)
	slog.Info("continue",
		"cycles", cycles,
		"state", m.mach.Debugger.State(),
		"pc", hex16(m.mach.CPU.PC))
}

func (m *Monitor) toggleBreakpoint(addr uint16) {
	if m.mach.Debugger.HasBreakpoint(addr) {
		m.mach.Debugger.RemoveBreakpoint(addr)
		slog.Info("breakpoint removed", "addr", hex16(addr))
		return
	}
	if err := m.mach.Debugger.AddBreakpoint(addr); err != nil {
		slog.Error("breakpoint rejected", "error", err)
		return
	}
	slog.Info("breakpoint set", "addr", hex16(addr))
}

func (m *Monitor) changeLogLevel(direction int) {
	oldLevel := m.logLevel
	switch direction {
	case -1:
		switch m.logLevel {
		case slog.LevelDebug:
			m.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			m.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			m.logLevel = slog.LevelError
		}
	case 1:
		switch m.logLevel {
		case slog.LevelError:
			m.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			m.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			m.logLevel = slog.LevelDebug
		}
	}
	if oldLevel != m.logLevel {
		slog.Info("log filter changed", "from", oldLevel, "to", m.logLevel)
	}
}

func (m *Monitor) draw() {
	termWidth, termHeight := m.screen.Size()
	m.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		m.drawText(0, termHeight/2, termWidth, style, msg)
		return
	}

	dividerX := leftWidth
	rightX := dividerX + 2
	rightWidth := termWidth - rightX

	bpY := registerRows + 1
	memY := bpY + breakpointRows + 1
	logY := disasmRows + 1

	m.drawBorders(termWidth, termHeight, dividerX, bpY, memY, logY)
	m.drawRegisters(1, 1, dividerX-1)
	m.drawBreakpoints(1, bpY+1, dividerX-1, breakpointRows)
	m.drawMemory(1, memY+1, dividerX-1, termHeight-memY-2)
	m.drawDisassembly(rightX, 1, rightWidth)
	m.drawLogs(rightX, logY+1, rightWidth, termHeight)
}

func (m *Monitor) drawBorders(termWidth, termHeight, dividerX, bpY, memY, logY int) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for y := 0; y < termHeight-1; y++ {
		m.screen.SetContent(dividerX, y, '│', nil, borderStyle)
	}

	for x := 0; x < termWidth; x++ {
		if x != dividerX {
			m.screen.SetContent(x, 0, '─', nil, borderStyle)
		}
	}
	m.screen.SetContent(dividerX, 0, '┬', nil, borderStyle)

	for x := 0; x < dividerX; x++ {
		m.screen.SetContent(x, bpY, '─', nil, borderStyle)
		m.screen.SetContent(x, memY, '─', nil, borderStyle)
	}
	m.screen.SetContent(dividerX, bpY, '┤', nil, borderStyle)
	m.screen.SetContent(dividerX, memY, '┤', nil, borderStyle)

	for x := dividerX + 1; x < termWidth; x++ {
		m.screen.SetContent(x, logY, '─', nil, borderStyle)
	}
	m.screen.SetContent(dividerX, logY, '├', nil, borderStyle)

	m.drawText(1, 0, dividerX-1, titleStyle, " Registers ")
	m.drawText(1, bpY, dividerX-1, titleStyle, " Breakpoints ")
	m.drawText(1, memY, dividerX-1, titleStyle, fmt.Sprintf(" Memory $%04X ", m.memBase))
	m.drawText(dividerX+2, 0, termWidth-dividerX-2, titleStyle, " Disassembly ")
	m.drawText(dividerX+2, logY, termWidth-dividerX-2, titleStyle,
		fmt.Sprintf(" Logs [%s] (-/+ filter) ", levelName(m.logLevel)))

	help := " s=step c=run C=run! h=halt b=bp x=clear g=reset [/]=mem +/-=logs q=quit "
	m.drawText(0, termHeight-1, termWidth, borderStyle, help)
}

func (m *Monitor) drawRegisters(x, y, width int) {
	d := m.mach.Debugger
	snap := m.mach.Snapshot()

	lines := []string{
		fmt.Sprintf("State: %-8s Cycles: %d", snap.State, snap.Cycles),
		fmt.Sprintf("PC $%04X  SP $%04X", snap.PC, snap.SP),
		fmt.Sprintf("IX $%04X  IY $%04X", snap.IX, snap.IY),
		fmt.Sprintf("Flags %s", snap.Flags),
	}
	for _, row := range byteRegisterRows {
		var b strings.Builder
		for i, id := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			v, _ := d.Register(id)
			fmt.Fprintf(&b, "%-2s $%02X", id, v)
		}
		lines = append(lines, b.String())
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	for i, line := range lines {
		m.drawText(x, y+i, width, style, line)
	}
}

func (m *Monitor) drawBreakpoints(x, y, width, rows int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorBlue)

	bps := m.mach.Debugger.Breakpoints()
	if len(bps) == 0 {
		m.drawText(x, y, width, style, "(none)")
		return
	}
	for i, bp := range bps {
		if i >= rows {
			m.drawText(x, y+rows-1, width, style, fmt.Sprintf("... %d more", len(bps)-rows+1))
			break
		}
		line := fmt.Sprintf("$%04X  hits=%d", bp.Addr, bp.Hits)
		if bp.Cond != nil {
			line += "  if " + bp.Cond.String()
		}
		m.drawText(x, y+i, width, style, line)
	}
}

func (m *Monitor) drawMemory(x, y, width, rows int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorSilver)

	for row := 0; row < rows; row++ {
		base := m.memBase + uint16(row*memoryBytesPerRow)
		var b strings.Builder
		fmt.Fprintf(&b, "%04X: ", base)
		ascii := make([]byte, 0, memoryBytesPerRow)
		for i := 0; i < memoryBytesPerRow; i++ {
			v := m.mach.RAM.Peek(base + uint16(i))
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%02X", v)
			if v >= 0x20 && v < 0x7F {
				ascii = append(ascii, v)
			} else {
				ascii = append(ascii, '.')
			}
		}
		b.WriteString("  ")
		b.Write(ascii)
		m.drawText(x, y+row, width, style, b.String())
	}
}

func (m *Monitor) drawDisassembly(x, y, width int) {
	pc := m.mach.CPU.PC
	lines := disasm.Around(m.mach.RAM, pc, disasmRows)

	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	currentStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)

	for i, line := range lines {
		pcMark := ' '
		if line.Addr == pc {
			pcMark = '→'
		}
		bpMark := ' '
		if m.mach.Debugger.HasBreakpoint(line.Addr) {
			bpMark = '*'
		}

		useStyle := style
		if line.Addr == pc {
			useStyle = currentStyle
		}
		text := fmt.Sprintf("%c%c $%04X: %s", pcMark, bpMark, line.Addr, line.Text)
		m.drawText(x, y+i, width, useStyle, text)
	}
}

func (m *Monitor) drawLogs(x, y, width, termHeight int) {
	available := termHeight - 1 - y
	if available <= 0 {
		return
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, e := range m.ring.recent(available, m.logLevel) {
		style := infoStyle
		switch e.level {
		case slog.LevelDebug:
			style = debugStyle
		case slog.LevelWarn:
			style = warnStyle
		case slog.LevelError:
			style = errStyle
		}
		m.drawText(x, y+i, width, style, formatEntry(e))
	}
}

func (m *Monitor) drawText(x, y, maxWidth int, style tcell.Style, text string) {
	col := x
	for _, ch := range text {
		if col >= x+maxWidth {
			break
		}
		m.screen.SetContent(col, y, ch, nil, style)
		col++
	}
}

func levelName(l slog.Level) string {
	switch l {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	}
	return "INFO"
}

func hex16(v uint16) string {
	return fmt.Sprintf("0x%04X", v)
}
