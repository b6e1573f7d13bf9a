package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/zemulab/go-zemu/zemu"
	"github.com/zemulab/go-zemu/zemu/debug"
	"github.com/zemulab/go-zemu/zemu/device"
	"github.com/zemulab/go-zemu/zemu/disasm"
	"github.com/zemulab/go-zemu/zemu/monitor"
	"github.com/zemulab/go-zemu/zemu/stats"
)

func main() {
	app := cli.NewApp()
	app.Name = "zemu"
	app.Description = "A Z80 machine emulator with run control"
	app.Usage = "zemu [options] <command>"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
		cli.BoolFlag{
			Name:  "stats",
			Usage: "Serve runtime statistics (needs a statsview build)",
		},
	}
	app.Before = setup
	app.Commands = []cli.Command{
		runCommand(),
		monitorCommand(),
		dumpCommand(),
	}

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func setup(c *cli.Context) error {
	level := slog.LevelInfo
	if c.GlobalBool("verbose") {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))

	if c.GlobalBool("stats") {
		if stats.Available() {
			stats.Launch(os.Stdout)
		} else {
			slog.Warn("This build does not include the stats server, rebuild with -tags statsview")
		}
	}
	return nil
}

// loadFlags are shared by every command that loads a program image
// into a fresh machine.
func loadFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "origin",
			Usage: "Load and start address",
			Value: "0x0000",
		},
		cli.StringSliceFlag{
			Name:  "break, b",
			Usage: "Stop when execution reaches this address, repeatable",
		},
		cli.StringSliceFlag{
			Name:  "break-if",
			Usage: "Conditional stop as <addr>:<condition>, e.g. 0x0010:a==$42",
		},
		cli.IntFlag{
			Name:  "max-breakpoints",
			Usage: "Breakpoint registry capacity",
			Value: debug.DefaultBreakpointCapacity,
		},
		cli.StringFlag{
			Name:  "console",
			Usage: "Log writes to this output port as console text, e.g. 0x01",
		},
	}
}

func runCommand() cli.Command {
	return cli.Command{
		Name:      "run",
		Usage:     "Execute a program image until it stops",
		ArgsUsage: "<program file>",
		Flags: append(loadFlags(),
			cli.IntFlag{
				Name:  "cycles",
				Usage: "Cycle budget, negative runs until a breakpoint or HALT",
				Value: -1,
			},
			cli.BoolFlag{
				Name:  "trace",
				Usage: "Log every instruction as it executes",
			},
		),
		Action: runProgram,
	}
}

func monitorCommand() cli.Command {
	return cli.Command{
		Name:      "monitor",
		Usage:     "Load a program and attach the interactive monitor",
		ArgsUsage: "<program file>",
		Flags:     loadFlags(),
		Action:    runMonitor,
	}
}

func dumpCommand() cli.Command {
	return cli.Command{
		Name:      "dump",
		Usage:     "Disassemble a program image to stdout",
		ArgsUsage: "<program file>",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "origin",
				Usage: "Load address",
				Value: "0x0000",
			},
			cli.IntFlag{
				Name:  "count",
				Usage: "Number of instructions to list",
				Value: 32,
			},
		},
		Action: dumpProgram,
	}
}

// machineFromArgs builds a machine from the shared load flags: program
// image, origin, breakpoints and the optional console port. The console
// is nil unless --console was given.
func machineFromArgs(c *cli.Context) (*zemu.Machine, *device.Console, uint16, error) {
	if c.NArg() < 1 {
		cli.ShowCommandHelp(c, c.Command.Name)
		return nil, nil, 0, errors.New("no program file provided")
	}

	origin, err := parseAddress(c.String("origin"))
	if err != nil {
		return nil, nil, 0, fmt.Errorf("bad origin: %v", err)
	}

	cfg := zemu.Config{
		BreakpointCapacity: c.Int("max-breakpoints"),
	}
	var console *device.Console
	if arg := c.String("console"); arg != "" {
		port, err := parseAddress(arg)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("bad console port: %v", err)
		}
		console = device.NewConsole(byte(port))
		cfg.Ports = console
	}

	mach := zemu.NewWithConfig(cfg)
	if err := mach.LoadFile(c.Args().Get(0), origin); err != nil {
		return nil, nil, 0, err
	}
	mach.CPU.PC = origin

	for _, arg := range c.StringSlice("break") {
		addr, err := parseAddress(arg)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("bad breakpoint %q: %v", arg, err)
		}
		if err := mach.Debugger.AddBreakpoint(addr); err != nil {
			return nil, nil, 0, err
		}
	}
	for _, arg := range c.StringSlice("break-if") {
		addr, cond, err := parseConditionalBreak(arg)
		if err != nil {
			return nil, nil, 0, err
		}
		if err := mach.Debugger.AddBreakpointCond(addr, cond); err != nil {
			return nil, nil, 0, err
		}
	}

	return mach, console, origin, nil
}

func runProgram(c *cli.Context) error {
	mach, console, origin, err := machineFromArgs(c)
	if err != nil {
		return err
	}

	budget := c.Int("cycles")
	slog.Info("Starting execution", "pc", fmt.Sprintf("0x%04X", origin), "budget", budget)

	start := time.Now()
	var cycles int
	if c.Bool("trace") {
		cycles = runTraced(mach, budget)
	} else {
		cycles = mach.Run(budget)
	}
	elapsed := time.Since(start)

	if console != nil {
		console.Flush()
	}
	printSummary(mach, cycles, elapsed)
	return nil
}

// runTraced goes through Continue one instruction at a time so each
// one can be logged with its disassembly. Zero-budget continues keep
// the breakpoint and halt semantics of a plain run.
func runTraced(mach *zemu.Machine, budget int) int {
	cycles := 0
	for {
		pc := mach.CPU.PC
		text, _ := disasm.Decode(mach.RAM, pc)

		n := mach.Debugger.Continue(0)
		if n == 0 {
			break
		}
		cycles += n
		slog.Info("trace", "pc", fmt.Sprintf("0x%04X", pc), "instr", text, "cycles", n)

		if mach.Debugger.State() != debug.StateRunning {
			break
		}
		if budget >= 0 && cycles >= budget {
			break
		}
	}
	return cycles
}

func printSummary(mach *zemu.Machine, cycles int, elapsed time.Duration) {
	snap := mach.Snapshot()

	fmt.Printf("stopped: %s after %d cycles in %s\n", snap.State, cycles, elapsed.Round(time.Microsecond))
	fmt.Printf("PC  $%04X  SP  $%04X  IX  $%04X  IY  $%04X\n", snap.PC, snap.SP, snap.IX, snap.IY)
	fmt.Printf("AF  $%04X  BC  $%04X  DE  $%04X  HL  $%04X  [%s]\n", snap.AF, snap.BC, snap.DE, snap.HL, snap.Flags)
	fmt.Printf("AF' $%04X  BC' $%04X  DE' $%04X  HL' $%04X\n", snap.AF2, snap.BC2, snap.DE2, snap.HL2)

	for _, bp := range mach.Debugger.Breakpoints() {
		line := fmt.Sprintf("breakpoint $%04X  hits=%d", bp.Addr, bp.Hits)
		if bp.Cond != nil {
			line += "  if " + bp.Cond.String()
		}
		fmt.Println(line)
	}
}

func runMonitor(c *cli.Context) error {
	mach, console, _, err := machineFromArgs(c)
	if err != nil {
		return err
	}
	if console != nil {
		defer console.Flush()
	}
	return monitor.New(mach).Run()
}

func dumpProgram(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelp(c, "dump")
		return errors.New("no program file provided")
	}

	origin, err := parseAddress(c.String("origin"))
	if err != nil {
		return fmt.Errorf("bad origin: %v", err)
	}

	mach := zemu.New()
	if err := mach.LoadFile(c.Args().Get(0), origin); err != nil {
		return err
	}

	for _, line := range disasm.Range(mach.RAM, origin, c.Int("count")) {
		var raw strings.Builder
		for i := 0; i < line.Length; i++ {
			if i > 0 {
				raw.WriteByte(' ')
			}
			fmt.Fprintf(&raw, "%02X", mach.RAM.Peek(line.Addr+uint16(i)))
		}
		fmt.Printf("%04X  %-8s  %s\n", line.Addr, raw.String(), line.Text)
	}
	return nil
}

func parseAddress(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	base := 10
	switch {
	case strings.HasPrefix(s, "$"):
		s = s[1:]
		base = 16
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s = s[2:]
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, fmt.Errorf("bad address %q", s)
	}
	return uint16(v), nil
}

// parseConditionalBreak splits a --break-if argument of the form
// "<addr>:<condition>".
func parseConditionalBreak(arg string) (uint16, *debug.Condition, error) {
	addrText, condText, found := strings.Cut(arg, ":")
	if !found {
		return 0, nil, fmt.Errorf("conditional breakpoint %q: want <addr>:<condition>", arg)
	}
	addr, err := parseAddress(addrText)
	if err != nil {
		return 0, nil, fmt.Errorf("conditional breakpoint %q: %v", arg, err)
	}
	cond, err := debug.ParseCondition(condText)
	if err != nil {
		return 0, nil, err
	}
	return addr, cond, nil
}
