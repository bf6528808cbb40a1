package domain

// State is a Boot Sequencer state.
type State int

const (
	StateAwaitingPrompt State = iota
	StateSequencing
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAwaitingPrompt:
		return "AwaitingPrompt"
	case StateSequencing:
		return "Sequencing"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transition can leave s.
func (s State) Terminal() bool { return s == StateDone || s == StateFailed }

// PromptMarker is a console marker recognised by a Detector.
type PromptMarker int

const (
	// MarkerNone means the line matched nothing.
	MarkerNone PromptMarker = iota
	// MarkerReadyPrompt means the bootloader accepts commands.
	MarkerReadyPrompt
)

func (m PromptMarker) String() string {
	switch m {
	case MarkerReadyPrompt:
		return "ReadyPrompt"
	default:
		return "None"
	}
}

// Rule maps a substring found in a console line to a marker.
type Rule struct {
	Marker  PromptMarker
	Pattern string
}

// Command is a text payload written to the device. Commands produced by the
// sequencer always end in the configured terminator.
type Command string

func (c Command) Bytes() []byte { return []byte(c) }
