package playback

import (
	"context"
	"sync"
	"time"

	"github.com/katalvlaran/gridpath/search"
	"github.com/katalvlaran/gridpath/topology"
)

// step is one planned transition: wait delay, then paint pos.
type step struct {
	phase Phase
	pos   topology.Position
	paint Paint
	delay time.Duration
}

// Scheduler replays results over one Overlay. Safe for concurrent use.
type Scheduler struct {
	cfg  Config
	sink Sink

	mu         sync.Mutex
	res        *search.Result
	overlay    *Overlay
	saved      *Overlay // overlay at run start, for CancelRevert
	state      State
	seq        uint64
	altOn      bool
	cancel     context.CancelFunc
	cancelling bool
	mode       CancelMode
	done       chan struct{}

	// emitMu and turn order deliveries by Seq across goroutines.
	emitMu    sync.Mutex
	turn      *sync.Cond
	delivered uint64
}

// New returns an idle scheduler. A nil sink discards frames.
func New(cfg Config, sink Sink) *Scheduler {
	if sink == nil {
		sink = Discard
	}
	s := &Scheduler{cfg: cfg, sink: sink}
	s.turn = sync.NewCond(&s.emitMu)
	return s
}

// Start begins an asynchronous playback of res on a fresh overlay.
// Returns ErrNoResult for a nil result and ErrBusy while another run is in flight.
func (s *Scheduler) Start(res *search.Result) error {
	if res == nil || res.Grid == nil {
		return ErrNoResult
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning {
		return ErrBusy
	}

	s.res = res
	s.overlay = newOverlay(res.Grid.Topology())
	s.altOn = false
	s.launch(s.playSteps())
	return nil
}

// playSteps plans visited reveals, the clear, and path reveals. Start and end
// cells keep their own glyphs and are never painted.
func (s *Scheduler) playSteps() []step {
	res := s.res
	marker := func(p topology.Position) bool { return p == res.Start || p == res.End }

	steps := make([]step, 0, 2*len(res.Visited)+len(res.Path))
	for _, p := range res.Visited {
		if !marker(p) {
			steps = append(steps, step{PhaseVisited, p, PaintVisited, s.cfg.VisitedDelay})
		}
	}
	for _, p := range res.Visited {
		if !marker(p) {
			steps = append(steps, step{PhaseClear, p, PaintEmpty, 0})
		}
	}
	for _, p := range res.Path {
		if !marker(p) {
			steps = append(steps, step{PhasePath, p, PaintPath, s.cfg.PathDelay})
		}
	}
	return steps
}

// Backtrack walks the current result's path in reverse: every cell still
// painted Path flashes Backtrack for BacktrackDelay and then clears.
// Returns ErrBusy while a run is in flight and ErrNoResult without a found path.
func (s *Scheduler) Backtrack() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning {
		return ErrBusy
	}
	if s.res == nil || !s.res.Found || s.overlay == nil {
		return ErrNoResult
	}

	path := s.res.Path
	steps := make([]step, 0, 2*len(path))
	for i := len(path) - 1; i >= 0; i-- {
		p := path[i]
		if s.overlay.Primary(p) != PaintPath {
			continue
		}
		steps = append(steps,
			step{PhaseBacktrack, p, PaintBacktrack, 0},
			step{PhaseBacktrack, p, PaintEmpty, s.cfg.BacktrackDelay},
		)
	}
	s.launch(steps)
	return nil
}

// launch starts the run goroutine. s.mu must be held.
func (s *Scheduler) launch(steps []step) {
	ctx, cancel := context.WithCancel(context.Background())
	s.saved = s.overlay.clone()
	s.state = StateRunning
	s.cancel = cancel
	s.cancelling = false
	s.mode = CancelRevert
	s.done = make(chan struct{})
	go s.run(ctx, steps, s.done)
}

func (s *Scheduler) run(ctx context.Context, steps []step, done chan struct{}) {
	defer close(done)
	for _, st := range steps {
		if !wait(ctx, st.delay) {
			break
		}
		fr, ok := s.apply(ctx, st)
		if !ok {
			break
		}
		s.deliver(fr)
	}
	s.end(ctx)
}

// apply paints one step unless the run was cancelled meanwhile.
func (s *Scheduler) apply(ctx context.Context, st step) (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Err() != nil {
		return Frame{}, false
	}
	s.overlay.set(st.pos, st.paint)
	return s.frame(st.phase, st.pos, s.overlay.At(st.pos)), true
}

// end settles the terminal state and emits its frames.
func (s *Scheduler) end(ctx context.Context) {
	s.mu.Lock()
	var frames []Frame
	if ctx.Err() == nil {
		s.state = StateDone
		frames = append(frames, s.frame(PhaseDone, topology.Position{}, PaintEmpty))
	} else {
		if s.mode == CancelRevert {
			s.overlay.top.Each(func(p topology.Position) {
				if was := s.saved.Primary(p); s.overlay.Primary(p) != was {
					s.overlay.set(p, was)
					frames = append(frames, s.frame(PhaseRevert, p, s.overlay.At(p)))
				}
			})
		}
		s.state = StateCancelled
		frames = append(frames, s.frame(PhaseCancelled, topology.Position{}, PaintEmpty))
	}
	s.cancel()
	s.saved = nil
	s.mu.Unlock()

	s.deliver(frames...)
}

// deliver hands frames, which carry consecutive Seqs, to the sink once every
// earlier frame has been delivered. It must be called without s.mu held.
func (s *Scheduler) deliver(frames ...Frame) {
	if len(frames) == 0 {
		return
	}
	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	for s.delivered+1 != frames[0].Seq {
		s.turn.Wait()
	}
	for _, fr := range frames {
		s.sink.Emit(fr)
	}
	s.delivered = frames[len(frames)-1].Seq
	s.turn.Broadcast()
}

// frame stamps the next sequence number. s.mu must be held.
func (s *Scheduler) frame(ph Phase, p topology.Position, v Paint) Frame {
	s.seq++
	return Frame{Seq: s.seq, Phase: ph, Position: p, Paint: v}
}

// Cancel stops the run in flight before its next reveal. It does not block
// and may be called from a Sink. Reports whether a run was cancelled.
func (s *Scheduler) Cancel(mode CancelMode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(mode)
}

// cancelLocked is Cancel with s.mu held.
func (s *Scheduler) cancelLocked(mode CancelMode) bool {
	if s.state != StateRunning || s.cancelling {
		return false
	}
	s.cancelling = true
	s.mode = mode
	s.cancel()
	return true
}

// Wait blocks until the current run, if any, has emitted its terminal frame.
func (s *Scheduler) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// ToggleAlternate marks or unmarks the visited cells that are not on the
// path on the alternative layer and reports whether the layer is now shown.
// The primary layer is untouched, so a run in flight is not disturbed.
func (s *Scheduler) ToggleAlternate() bool {
	s.mu.Lock()
	if s.res == nil || s.overlay == nil {
		s.mu.Unlock()
		return false
	}
	s.altOn = !s.altOn
	var frames []Frame
	for _, p := range s.res.Alternatives() {
		if p == s.res.Start || p == s.res.End {
			continue
		}
		if s.altOn {
			s.overlay.alt.Put(p)
		} else {
			s.overlay.alt.Remove(p)
		}
		frames = append(frames, s.frame(PhaseAlternate, p, s.overlay.At(p)))
	}
	on := s.altOn
	s.mu.Unlock()

	s.deliver(frames...)
	return on
}

// Snapshot returns a copy of the overlay; the zero Overlay before any Start.
func (s *Scheduler) Snapshot() Overlay {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.overlay == nil {
		return Overlay{}
	}
	return *s.overlay.clone()
}

// Reset freezes any run in flight, waits for it, and discards the result
// and the overlay. A Start racing with Reset is frozen too: the overlay is
// only discarded once no run is in flight.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.state == StateRunning {
		s.cancelLocked(CancelFreeze)
		done := s.done
		s.mu.Unlock()
		<-done
		s.mu.Lock()
	}
	s.res = nil
	s.overlay = nil
	s.altOn = false
	s.state = StateIdle
}

// Busy reports whether a run is in flight.
func (s *Scheduler) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateRunning
}

// State returns the lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Result returns the result being (or last) played, or nil.
func (s *Scheduler) Result() *search.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.res
}

// wait sleeps for d unless ctx ends first; reports whether to proceed.
func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
