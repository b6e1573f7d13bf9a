package device

// ClockDivider fires a callback once every period cycles, like the
// divider chains behind real timer hardware.
type ClockDivider struct {
	period int
	phase  int
	fire   func()
}

// NewClockDivider returns a divider that calls fire every period
// cycles. Periods below one are treated as one.
func NewClockDivider(period int, fire func()) *ClockDivider {
	if period < 1 {
		period = 1
	}
	return &ClockDivider{period: period, fire: fire}
}

// Tick advances the divider by one cycle, firing on the period edge.
func (d *ClockDivider) Tick() {
	d.phase++
	if d.phase >= d.period {
		d.phase = 0
		if d.fire != nil {
			d.fire()
		}
	}
}
