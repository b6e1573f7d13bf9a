package debug

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zemulab/go-zemu/zemu/memory"
	"github.com/zemulab/go-zemu/zemu/z80"
)

// CondOp is the comparison operator of a breakpoint condition.
type CondOp int

const (
	CondEQ CondOp = iota
	CondNE
	CondLT
	CondGT
	CondLE
	CondGE
)

func (op CondOp) String() string {
	switch op {
	case CondEQ:
		return "=="
	case CondNE:
		return "!="
	case CondLT:
		return "<"
	case CondGT:
		return ">"
	case CondLE:
		return "<="
	case CondGE:
		return ">="
	}
	return "?"
}

type condSource int

const (
	sourceRegister condSource = iota
	sourceMemory
	sourceHits
)

// Condition gates a breakpoint: when the breakpoint's address is
// reached, the entry only fires if the comparison holds at that
// moment.
type Condition struct {
	source condSource
	reg    RegisterID
	addr   uint16
	op     CondOp
	value  uint16
}

// condEnv is what a condition evaluates against. The peeker may be
// nil, in which case memory conditions never hold.
type condEnv struct {
	cpu *z80.CPU
	mem memory.Peeker
}

// operator lookup must try the two-character forms first so that
// "<=" does not parse as "<".
var condOps = []struct {
	text string
	op   CondOp
}{
	{"==", CondEQ},
	{"!=", CondNE},
	{"<=", CondLE},
	{">=", CondGE},
	{"<", CondLT},
	{">", CondGT},
}

// ParseCondition parses a breakpoint condition of the form
// "<source> <op> <value>". The source is a register name ("a == $1F"),
// a memory cell ("[$4000] != 0") or the entry's own arrival count
// ("hits > 3"). Values are decimal, $hex or 0xhex.
func ParseCondition(text string) (*Condition, error) {
	var lhs, rhs string
	cond := &Condition{}

	found := false
	for _, candidate := range condOps {
		if idx := strings.Index(text, candidate.text); idx >= 0 {
			lhs = strings.TrimSpace(text[:idx])
			rhs = strings.TrimSpace(text[idx+len(candidate.text):])
			cond.op = candidate.op
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("condition %q: no comparison operator", text)
	}
	if lhs == "" || rhs == "" {
		return nil, fmt.Errorf("condition %q: missing operand", text)
	}

	switch {
	case strings.HasPrefix(lhs, "["):
		if !strings.HasSuffix(lhs, "]") {
			return nil, fmt.Errorf("condition %q: unterminated memory operand", text)
		}
		addr, err := parseNumber(lhs[1 : len(lhs)-1])
		if err != nil {
			return nil, fmt.Errorf("condition %q: %v", text, err)
		}
		cond.source = sourceMemory
		cond.addr = addr
	case strings.EqualFold(lhs, "hits"):
		cond.source = sourceHits
	default:
		id, ok := LookupRegister(lhs)
		if !ok {
			return nil, fmt.Errorf("condition %q: unknown register %q", text, lhs)
		}
		cond.source = sourceRegister
		cond.reg = id
	}

	value, err := parseNumber(rhs)
	if err != nil {
		return nil, fmt.Errorf("condition %q: %v", text, err)
	}
	cond.value = value

	return cond, nil
}

func parseNumber(s string) (uint16, error) {
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
		return 0, fmt.Errorf("bad number %q", s)
	}
	return uint16(v), nil
}

// eval reports whether the condition holds. hits is the arrival count
// of the owning breakpoint, including the current arrival.
func (c *Condition) eval(env condEnv, hits int) bool {
	var lhs int
	switch c.source {
	case sourceRegister:
		v, ok := ReadRegister(env.cpu, c.reg)
		if !ok {
			return false
		}
		lhs = int(v)
	case sourceMemory:
		if env.mem == nil {
			return false
		}
		lhs = int(env.mem.Peek(c.addr))
	case sourceHits:
		lhs = hits
	}
	return compare(lhs, c.op, int(c.value))
}

func compare(lhs int, op CondOp, rhs int) bool {
	switch op {
	case CondEQ:
		return lhs == rhs
	case CondNE:
		return lhs != rhs
	case CondLT:
		return lhs < rhs
	case CondGT:
		return lhs > rhs
	case CondLE:
		return lhs <= rhs
	case CondGE:
		return lhs >= rhs
	}
	return false
}

func (c *Condition) String() string {
	switch c.source {
	case sourceMemory:
		return fmt.Sprintf("[$%04X] %s $%X", c.addr, c.op, c.value)
	case sourceHits:
		return fmt.Sprintf("hits %s %d", c.op, c.value)
	}
	return fmt.Sprintf("%s %s $%X", c.reg, c.op, c.value)
}
