package playback

import (
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/gridpath/topology"
)

// Sentinel errors for scheduler misuse.
var (
	// ErrBusy indicates a Start or Backtrack while another run is in flight.
	ErrBusy = errors.New("playback: a playback is already running")
	// ErrNoResult indicates there is no result (or no path) to play.
	ErrNoResult = errors.New("playback: no result to play")
)

// Paint is the transient state of one overlay cell.
type Paint int

const (
	PaintEmpty Paint = iota
	PaintVisited
	PaintPath
	PaintBacktrack
	PaintAlt
)

var paintNames = [...]string{
	PaintEmpty:     "empty",
	PaintVisited:   "visited",
	PaintPath:      "path",
	PaintBacktrack: "backtrack",
	PaintAlt:       "alt",
}

// String returns the lowercase paint name.
func (p Paint) String() string {
	if p < 0 || int(p) >= len(paintNames) {
		return fmt.Sprintf("Paint(%d)", int(p))
	}
	return paintNames[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p Paint) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Paint) UnmarshalText(b []byte) error {
	i, err := lookup(paintNames[:], "paint", string(b))
	*p = Paint(i)
	return err
}

// Phase labels the step of a playback a Frame belongs to.
type Phase int

const (
	PhaseVisited Phase = iota
	PhaseClear
	PhasePath
	PhaseBacktrack
	PhaseAlternate
	PhaseRevert
	PhaseDone
	PhaseCancelled
)

var phaseNames = [...]string{
	PhaseVisited:   "visited",
	PhaseClear:     "clear",
	PhasePath:      "path",
	PhaseBacktrack: "backtrack",
	PhaseAlternate: "alternate",
	PhaseRevert:    "revert",
	PhaseDone:      "done",
	PhaseCancelled: "cancelled",
}

// String returns the lowercase phase name.
func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(b []byte) error {
	i, err := lookup(phaseNames[:], "phase", string(b))
	*p = Phase(i)
	return err
}

func lookup(names []string, what, name string) (int, error) {
	for i, n := range names {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("playback: unknown %s %q", what, name)
}

// Terminal reports whether p ends a run.
func (p Phase) Terminal() bool { return p == PhaseDone || p == PhaseCancelled }

// State is the scheduler's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateDone
	StateCancelled
)

// CancelMode selects what Cancel does to the overlay.
type CancelMode int

const (
	// CancelRevert restores the primary layer to its state when the run began.
	CancelRevert CancelMode = iota
	// CancelFreeze keeps the overlay as it is at the moment of cancellation.
	CancelFreeze
)

// Frame is one observable transition. Terminal frames carry the zero Position
// and PaintEmpty.
type Frame struct {
	Seq      uint64            `json:"seq"`
	Phase    Phase             `json:"phase"`
	Position topology.Position `json:"position"`
	Paint    Paint             `json:"paint"`
}

// Sink receives frames one at a time, in increasing Seq order.
type Sink interface {
	Emit(Frame)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Frame)

// Emit calls f(fr).
func (f SinkFunc) Emit(fr Frame) { f(fr) }

// Discard drops every frame.
var Discard Sink = SinkFunc(func(Frame) {})

// Config holds the inter-step delays.
type Config struct {
	VisitedDelay   time.Duration
	PathDelay      time.Duration
	BacktrackDelay time.Duration
}

// DefaultConfig returns the reference pacing: the visited phase is faster
// than the path phase, and backtracking is the slowest.
func DefaultConfig() Config {
	return Config{
		VisitedDelay:   100 * time.Millisecond,
		PathDelay:      180 * time.Millisecond,
		BacktrackDelay: 200 * time.Millisecond,
	}
}
