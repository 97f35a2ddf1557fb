// Package playback replays a search.Result as a timed sequence of paint
// transitions over an overlay grid, for observation of how the answer was found.
//
// Overview:
//
//   - Phase Visited: each finalized cell (start and end excluded) is revealed
//     as Visited, one per VisitedDelay, in exactly the engine's order.
//   - Phase Clear: every Visited cell returns to Empty at once.
//   - Phase Path: each intermediate path cell is revealed as Path, one per PathDelay.
//   - Backtrack: the path is walked in reverse; each Path cell flashes
//     Backtrack for BacktrackDelay and then clears.
//   - ToggleAlternate: marks (or unmarks) the explored-but-unused cells on a
//     separate layer, so it never disturbs a primary playback in flight.
//
// Every transition is delivered to a Sink as a Frame with a monotonically
// increasing Seq. The Grid and the Result are never mutated.
//
// Concurrency:
//
//   - One scheduler owns one overlay; it runs at most one playback at a time.
//     Start or Backtrack while a run is in flight returns ErrBusy.
//   - Waits between reveals are context-driven timers; Cancel takes effect
//     before the next reveal fires.
//   - Sinks are called outside the scheduler lock, from the run goroutine or
//     from a ToggleAlternate caller, but one frame at a time and strictly in
//     Seq order. A sink may call Cancel, Busy or Snapshot; it must not call
//     ToggleAlternate, Reset or Wait.
//
// Cancellation:
//
//   - CancelRevert restores the primary layer to its state when the run began
//     and emits PhaseRevert frames for every cell it restores.
//   - CancelFreeze leaves the overlay exactly as it is.
//   - Either way the run ends with a PhaseCancelled frame; cancellation is a
//     normal terminal state, not an error.
//
// Errors:
//
//   - ErrBusy:     a playback is already running on this scheduler.
//   - ErrNoResult: nil result, or Backtrack with nothing to walk back.
package playback
