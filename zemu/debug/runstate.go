package debug

// RunState is the execution state of the debugger.
type RunState int

// A constructed Debugger starts in StateRunning. StateUndefined is
// only the zero value of the type and is never entered again.
const (
	StateUndefined RunState = iota
	StateRunning
	StateHalted
	StateBreak
)

func (s RunState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateHalted:
		return "halted"
	case StateBreak:
		return "break"
	}
	return "undefined"
}
