package starfield

// Next returns the phase that follows p in the fixed animation cycle.
func Next(p Phase) Phase {
	switch p {
	case PhaseDrawing:
		return PhaseWaiting
	case PhaseWaiting:
		return PhaseUndrawing
	case PhaseUndrawing:
		return PhaseRepositioning
	default:
		return PhaseDrawing
	}
}

// Advance applies one transition to s. Leaving repositioning generates a
// fresh layout and bumps the cycle counter; every other transition only
// changes the phase.
func Advance(s State, generate func() Layout) State {
	next := Next(s.Phase)
	if s.Phase == PhaseRepositioning {
		return State{Phase: next, Cycle: s.Cycle + 1, Layout: generate()}
	}
	s.Phase = next
	return s
}
