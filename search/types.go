package search

import (
	"errors"
	"fmt"
	"time"

	"github.com/zyedidia/generic/mapset"

	"github.com/katalvlaran/gridpath/grid"
	"github.com/katalvlaran/gridpath/terrain"
	"github.com/katalvlaran/gridpath/topology"
)

// ErrInvalidInput is the parent of every caller-contract violation.
var ErrInvalidInput = errors.New("search: invalid input")

// Caller-contract violations. Each wraps ErrInvalidInput.
var (
	// ErrNilGrid indicates a nil *grid.Grid.
	ErrNilGrid = fmt.Errorf("%w: grid is nil", ErrInvalidInput)
	// ErrStartOutOfBounds indicates the start position does not index a cell.
	ErrStartOutOfBounds = fmt.Errorf("%w: start out of bounds", ErrInvalidInput)
	// ErrEndOutOfBounds indicates the end position does not index a cell.
	ErrEndOutOfBounds = fmt.Errorf("%w: end out of bounds", ErrInvalidInput)
	// ErrUnknownAlgorithm indicates an unrecognized algorithm selector.
	ErrUnknownAlgorithm = fmt.Errorf("%w: unknown algorithm", ErrInvalidInput)
)

// Algorithm selects the frontier discipline and priority function.
type Algorithm int

const (
	// BFS expands cells in discovery order.
	BFS Algorithm = iota
	// Dijkstra expands cells by accumulated cost.
	Dijkstra
	// AStar expands cells by accumulated cost plus Manhattan distance to the end.
	AStar
)

var algorithmNames = [...]string{
	BFS:      "BFS",
	Dijkstra: "Dijkstra",
	AStar:    "A*",
}

// Algorithms lists every supported algorithm.
func Algorithms() []Algorithm { return []Algorithm{BFS, Dijkstra, AStar} }

// String returns "BFS", "Dijkstra" or "A*".
func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// ParseAlgorithm maps a selector name to an Algorithm.
// "AStar" is accepted as an alias of "A*".
func ParseAlgorithm(name string) (Algorithm, error) {
	if name == "AStar" {
		return AStar, nil
	}
	for a, n := range algorithmNames {
		if n == name {
			return Algorithm(a), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	if a < 0 || int(a) >= len(algorithmNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(a))
	}
	return []byte(algorithmNames[a]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(b []byte) error {
	v, err := ParseAlgorithm(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Options configures a Run.
type Options struct {
	// Table prices cells. Default terrain.Hard().
	Table terrain.CostTable
	// OverrideMud lets the search enter mud cells.
	OverrideMud bool
	// Policy combines walkability with the table. Default terrain.PolicyPredicate.
	Policy terrain.Policy
	// OnVisit is called each time a cell is finalized, with its 0-based order.
	OnVisit func(p topology.Position, order int)
}

// Option configures Run via functional arguments.
type Option func(*Options)

// DefaultOptions returns the hard table, no mud override, predicate policy
// and a no-op OnVisit hook.
func DefaultOptions() Options {
	return Options{
		Table:   terrain.Hard(),
		Policy:  terrain.PolicyPredicate,
		OnVisit: func(topology.Position, int) {},
	}
}

// WithCostTable sets the table used for ordering (Dijkstra, AStar) and reporting.
func WithCostTable(t terrain.CostTable) Option {
	return func(o *Options) {
		if t.Costs != nil {
			o.Table = t
		}
	}
}

// WithOverrideMud allows or forbids entering mud.
func WithOverrideMud(allow bool) Option {
	return func(o *Options) { o.OverrideMud = allow }
}

// WithPolicy selects the walk policy.
func WithPolicy(p terrain.Policy) Option {
	return func(o *Options) { o.Policy = p }
}

// WithOnVisit registers a finalization hook.
func WithOnVisit(fn func(p topology.Position, order int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// Result is the outcome of one Run. It is owned by the caller once returned;
// the assembler and the playback scheduler only read it.
type Result struct {
	Algorithm  Algorithm
	Start, End topology.Position
	Found      bool
	// Path runs from Start to End inclusive; empty when !Found.
	Path []topology.Position
	// Visited lists cells in finalization order, each at most once.
	Visited    []topology.Position
	TotalCost  terrain.Cost
	PathLength int
	Elapsed    time.Duration
	// Grid is the snapshot the result was computed on.
	Grid *grid.Grid
	// Table is the cost table the result was priced with.
	Table terrain.CostTable
}

// Alternatives returns the visited cells that are not on the path, in
// visited order. These are the "explored but unused" cells.
func (r *Result) Alternatives() []topology.Position {
	onPath := mapset.New[topology.Position]()
	for _, p := range r.Path {
		onPath.Put(p)
	}
	out := make([]topology.Position, 0, len(r.Visited))
	for _, p := range r.Visited {
		if !onPath.Has(p) {
			out = append(out, p)
		}
	}
	return out
}
