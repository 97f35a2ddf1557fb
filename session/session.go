// Package session composes grid editing, search and playback for one user.
//
// A Session owns an immutable grid snapshot that every edit replaces, the
// start and end markers, the latest Result per algorithm, and a playback
// Scheduler. Any edit or run freezes and resets an in-flight playback so the
// overlay never describes a grid that no longer exists.
//
// Session methods must not be called from a playback Sink: they wait for the
// playback goroutine to settle.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/katalvlaran/gridpath/grid"
	"github.com/katalvlaran/gridpath/playback"
	"github.com/katalvlaran/gridpath/search"
	"github.com/katalvlaran/gridpath/terrain"
	"github.com/katalvlaran/gridpath/topology"
)

// ErrMissingEndpoint indicates a Run before both start and end are placed.
var ErrMissingEndpoint = errors.New("session: start and end must both be set")

// Session is safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	grid    *grid.Grid
	start   *topology.Position
	end     *topology.Position
	results map[search.Algorithm]*search.Result
	sched   *playback.Scheduler
}

// New returns a session over an all-Empty grid. A nil scheduler is replaced by
// one with the default pacing that discards frames.
func New(shape topology.Shape, size int, sched *playback.Scheduler) (*Session, error) {
	g, err := grid.New(shape, size)
	if err != nil {
		return nil, err
	}
	if sched == nil {
		sched = playback.New(playback.DefaultConfig(), nil)
	}
	return &Session{grid: g, results: make(map[search.Algorithm]*search.Result), sched: sched}, nil
}

// Grid returns the current snapshot.
func (s *Session) Grid() *grid.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid
}

// Endpoints returns the start and end markers and whether each is set.
func (s *Session) Endpoints() (start, end topology.Position, hasStart, hasEnd bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.start != nil {
		start, hasStart = *s.start, true
	}
	if s.end != nil {
		end, hasEnd = *s.end, true
	}
	return start, end, hasStart, hasEnd
}

// Scheduler returns the session's playback scheduler.
func (s *Session) Scheduler() *playback.Scheduler { return s.sched }

// SetStart moves the start marker to p, clearing its previous cell.
func (s *Session) SetStart(p topology.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placeMarker(p, terrain.Start)
}

// SetEnd moves the end marker to p, clearing its previous cell.
func (s *Session) SetEnd(p topology.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placeMarker(p, terrain.End)
}

// placeMarker writes a Start or End marker. s.mu must be held.
func (s *Session) placeMarker(p topology.Position, k terrain.Kind) error {
	if !s.grid.InBounds(p) {
		return fmt.Errorf("session: place %s at %s: %w", k, p, grid.ErrOutOfBounds)
	}
	mine, other := &s.start, &s.end
	if k == terrain.End {
		mine, other = other, mine
	}

	g := s.grid
	var err error
	if *mine != nil {
		if g, err = g.With(**mine, terrain.Empty); err != nil {
			return err
		}
	}
	if g, err = g.With(p, k); err != nil {
		return err
	}
	if *other != nil && **other == p {
		*other = nil
	}
	at := p
	*mine = &at
	s.commit(g)
	return nil
}

// Paint toggles kind at p: painting the kind a cell already has clears it to
// Empty. Start and End delegate to SetStart and SetEnd. Overwriting a marker
// unsets it.
func (s *Session) Paint(p topology.Position, kind terrain.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kind == terrain.Start || kind == terrain.End {
		return s.placeMarker(p, kind)
	}

	cur, err := s.grid.At(p)
	if err != nil {
		return fmt.Errorf("session: paint %s: %w", p, err)
	}
	next := kind
	if cur == kind {
		next = terrain.Empty
	}
	g, err := s.grid.With(p, next)
	if err != nil {
		return err
	}
	s.dropMarkerAt(p)
	s.commit(g)
	return nil
}

// Replace swaps in g wholesale and reads the markers from it.
func (s *Session) Replace(g *grid.Grid) error {
	if g == nil {
		return search.ErrNilGrid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start, s.end = nil, nil
	if p, ok := g.Find(terrain.Start); ok {
		s.start = &p
	}
	if p, ok := g.Find(terrain.End); ok {
		s.end = &p
	}
	s.commit(g)
	return nil
}

// Reshape discards the grid for an empty one of a new shape and size.
func (s *Session) Reshape(shape topology.Shape, size int) error {
	g, err := grid.New(shape, size)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start, s.end = nil, nil
	s.results = make(map[search.Algorithm]*search.Result)
	s.commit(g)
	return nil
}

// Reset empties the grid in place, removes both markers and drops every result.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, _ := grid.New(s.grid.Shape(), s.grid.Size())
	s.start, s.end = nil, nil
	s.results = make(map[search.Algorithm]*search.Result)
	s.commit(g)
}

// Run searches the current grid between the markers and keeps the result
// under alg, superseding the previous one.
func (s *Session) Run(alg search.Algorithm, opts ...search.Option) (*search.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.start == nil || s.end == nil {
		return nil, ErrMissingEndpoint
	}
	s.sched.Reset()

	res, err := search.Run(s.grid, *s.start, *s.end, alg, opts...)
	if err != nil {
		return nil, err
	}
	s.results[alg] = res
	return res, nil
}

// Result returns the last result for alg.
func (s *Session) Result(alg search.Algorithm) (*search.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.results[alg]
	return res, ok
}

// Clear forgets the result for alg.
func (s *Session) Clear(alg search.Algorithm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.results, alg)
}

// Play starts an asynchronous playback of the result for alg. An edit
// racing with Play either lands first or freezes the run it starts.
// Returns playback.ErrNoResult when alg has not been run.
func (s *Session) Play(alg search.Algorithm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.results[alg]
	if !ok {
		return playback.ErrNoResult
	}
	return s.sched.Start(res)
}

// dropMarkerAt unsets whichever marker sits on p. s.mu must be held.
func (s *Session) dropMarkerAt(p topology.Position) {
	if s.start != nil && *s.start == p {
		s.start = nil
	}
	if s.end != nil && *s.end == p {
		s.end = nil
	}
}

// commit installs g after freezing and resetting any playback. s.mu must be held.
func (s *Session) commit(g *grid.Grid) {
	s.sched.Reset()
	s.grid = g
}
