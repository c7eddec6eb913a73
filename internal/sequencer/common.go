package sequencer

import (
	"time"

	"github.com/roelstierum/plcsim-go/internal/model"
	"github.com/roelstierum/plcsim-go/internal/motion"
)

const (
	motionExact        = motion.OffsetExact
	motionPickupOffset = motion.OffsetPickup
	motionPlaceOffset  = motion.OffsetPlace
)

// handleCancel implements spec §4.5's "Supervisor cancel mid-motion"
// edge case and §4.4's "Additionally" clause: a nonzero cancel_req
// aborts the active flow with code 7, but only once neither motion
// primitive is in progress, so an in-flight primitive always finishes
// atomically before the transition to 650.
func (s *Sequencer) handleCancel(now time.Time, job model.Job) bool {
	if !cancelRequested(job) {
		return false
	}
	if s.engine.InProgress() || s.fork.InProgress() {
		return false
	}
	s.clearHandshake()
	s.cancelInto(model.CancelByEcoSystem)
	return true
}

// pollEngineTimeout enters Error 888 when the engine primitive has
// run past 2x its nominal duration, per spec §4.5's "Failure
// semantics". Returns true if it fired, so the caller's switch case
// should stop processing this tick.
func (s *Sequencer) pollEngineTimeout(now time.Time) bool {
	if s.engine.TimedOut(now) {
		s.EnterError(model.ErrCodeEngineTimeout)
		return true
	}
	return false
}

// pollForkTimeout is pollEngineTimeout's fork-motion counterpart.
func (s *Sequencer) pollForkTimeout(now time.Time) bool {
	if s.fork.TimedOut(now) {
		s.EnterError(model.ErrCodeForkTimeout)
		return true
	}
	return false
}

// startEngine starts the engine primitive, routing to Error 888 if it
// refuses (motion.ErrBusy, per SPEC_FULL.md §7 — a primitive already
// running is a programming error, not a recoverable condition).
// Returns true if it fired, so the caller's switch case should stop
// processing this tick.
func (s *Sequencer) startEngine(now time.Time, targetRow int, offsetMode motion.OffsetMode, duration time.Duration) bool {
	if err := s.engine.StartEngineMove(now, targetRow, offsetMode, duration); err != nil {
		s.log.Error("engine move rejected", "lift", s.lift.ID, "err", err)
		s.EnterError(model.ErrCodeHardwareFault)
		return true
	}
	return false
}

// startFork is startEngine's fork-motion counterpart.
func (s *Sequencer) startFork(now time.Time, targetSide int, duration time.Duration) bool {
	if err := s.fork.StartForkMove(now, targetSide, duration); err != nil {
		s.log.Error("fork move rejected", "lift", s.lift.ID, "err", err)
		s.EnterError(model.ErrCodeHardwareFault)
		return true
	}
	return false
}
