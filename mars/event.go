package mars

// An Event is what one Step observed. Thread death and match end are
// reported here, not as errors: after a successful load the executor
// is total over every opcode, modifier, and addressing mode.
type Event int

const (
	// Stepped: the thread advanced to the next cell.
	Stepped Event = iota

	// Skipped: a skip-class instruction advanced the thread by two.
	Skipped

	// Jumped: the thread moved to a computed address.
	Jumped

	// Split: the process gained a thread.
	Split

	// ThreadTerminated: the thread died (DAT, zero divisor, or
	// private storage access with no private storage).
	ThreadTerminated

	// MaxCyclesReached: the cycle budget ran out; the match is a
	// draw. Reported once; the simulator is halted afterwards.
	MaxCyclesReached

	// Halted: the simulator was already halted. Calling Step again
	// keeps returning Halted; it never fails.
	Halted
)

var eventNames = [...]string{
	Stepped:          "Stepped",
	Skipped:          "Skipped",
	Jumped:           "Jumped",
	Split:            "Split",
	ThreadTerminated: "ThreadTerminated",
	MaxCyclesReached: "MaxCyclesReached",
	Halted:           "Halted",
}

func (e Event) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return "Event(?)"
	}
	return eventNames[e]
}
