package debug

import (
	"errors"
	"fmt"
)

// DefaultBreakpointCapacity bounds the registry when no explicit
// capacity is configured.
const DefaultBreakpointCapacity = 256

// ErrBreakpointLimit is returned by AddBreakpoint when the registry is
// at capacity.
var ErrBreakpointLimit = errors.New("breakpoint limit reached")

// Breakpoint is one entry in the registry: an address to stop at, an
// optional firing condition, and the number of times execution has
// arrived at the address.
type Breakpoint struct {
	Addr uint16
	Cond *Condition
	Hits int
}

// breakpoints is the registry itself: a bounded list in insertion
// order. Duplicate addresses are legal and kept as distinct entries.
type breakpoints struct {
	max  int
	list []Breakpoint
}

func newBreakpoints(capacity int) *breakpoints {
	if capacity < 1 {
		capacity = DefaultBreakpointCapacity
	}
	return &breakpoints{max: capacity}
}

func (b *breakpoints) add(addr uint16, cond *Condition) error {
	if len(b.list) >= b.max {
		return fmt.Errorf("adding breakpoint at 0x%04X: %w", addr, ErrBreakpointLimit)
	}
	b.list = append(b.list, Breakpoint{Addr: addr, Cond: cond})
	return nil
}

// remove drops every entry at addr and reports whether any existed.
func (b *breakpoints) remove(addr uint16) bool {
	kept := b.list[:0]
	removed := false
	for _, bp := range b.list {
		if bp.Addr == addr {
			removed = true
			continue
		}
		kept = append(kept, bp)
	}
	b.list = kept
	return removed
}

func (b *breakpoints) clear() {
	b.list = b.list[:0]
}

// contains reports address membership only; conditions are ignored.
func (b *breakpoints) contains(addr uint16) bool {
	for _, bp := range b.list {
		if bp.Addr == addr {
			return true
		}
	}
	return false
}

// match reports whether execution arriving at addr should break. Every
// entry at the address counts the arrival; the result is true if any
// of them is unconditional or has a condition that holds.
func (b *breakpoints) match(addr uint16, env condEnv) bool {
	fired := false
	for i := range b.list {
		bp := &b.list[i]
		if bp.Addr != addr {
			continue
		}
		bp.Hits++
		if bp.Cond == nil || bp.Cond.eval(env, bp.Hits) {
			fired = true
		}
	}
	return fired
}
