// Package device holds cycle-driven peripherals. Each one advances by
// exactly one clock cycle per Tick call; the run-control layer drives
// them once per cycle the CPU consumes.
package device

// CycleCounter counts elapsed clock cycles.
type CycleCounter struct {
	count uint64
}

// Tick advances the counter by one cycle.
func (c *CycleCounter) Tick() {
	c.count++
}

// Count returns the number of cycles seen since the last reset.
func (c *CycleCounter) Count() uint64 {
	return c.count
}

// Reset puts the counter back to zero.
func (c *CycleCounter) Reset() {
	c.count = 0
}
