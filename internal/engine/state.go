package engine

// State represents the playback state of a reading session.
type State int

const (
	// StateIdle indicates the session is constructed but not started.
	StateIdle State = iota
	// StatePlaying indicates words are being emitted on a timer.
	StatePlaying
	// StatePaused indicates playback is suspended at the current word.
	StatePaused
	// StateChapterComplete indicates a chapter boundary was reached and
	// playback is halted until the next chapter is entered.
	StateChapterComplete
	// StateFinished indicates the last word has been shown. Only Restart
	// leaves this state.
	StateFinished
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateChapterComplete:
		return "chapter_complete"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// transitions lists the legal state changes. Anything not listed here is
// treated as a no-op by the engine rather than an error.
var transitions = map[State][]State{
	StateIdle:            {StatePlaying, StatePaused, StateFinished},
	StatePlaying:         {StatePaused, StateChapterComplete, StateFinished, StateIdle},
	StatePaused:          {StatePlaying, StateFinished, StateIdle},
	StateChapterComplete: {StatePlaying, StatePaused, StateFinished, StateIdle},
	StateFinished:        {StateIdle},
}

// canTransition reports whether moving from one state to another is legal.
func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
