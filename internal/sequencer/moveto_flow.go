package sequencer

import (
	"time"

	"github.com/roelstierum/plcsim-go/internal/model"
)

// tickMoveTo drives cycles 300-399: check whether already at
// destination (→399 immediately, per spec §4.5's "MoveTo to the
// lift's current row" edge case); else verify shaft availability
// against the peer's reach; if not free, hold (non-blocking); else
// move the engine; on arrival →399; wait clear →10.
func (s *Sequencer) tickMoveTo(now time.Time, job model.Job, peer PeerView, clearAll bool) {
	l := s.lift

	if l.Cycle != model.CycleMoveToComplete {
		if s.handleCancel(now, job) {
			return
		}
	}

	switch l.Cycle {
	case model.CycleMoveToStart:
		if l.Row == s.destination {
			l.Cycle = model.CycleMoveToComplete
			return
		}
		if peerHolds(peer, s.destination) {
			// Shaft not free, or the peer is stuck in Error and reaches
			// our target: hold here without starting motion. This is
			// the non-blocking wait of spec §4.5's MoveTo flow and its
			// Failure Semantics — the Sequencer re-checks on every
			// subsequent tick.
			return
		}
		l.Cycle = model.CycleMoveToMoving

	case model.CycleMoveToMoving:
		if !s.engine.InProgress() {
			if s.startEngine(now, s.destination, motionExact, s.dur.EngineMove) {
				return
			}
		}
		if s.pollEngineTimeout(now) {
			return
		}
		if s.engine.Poll(now) {
			l.Row = s.engine.ResolvedRow()
			l.Cycle = model.CycleMoveToComplete
		}

	case model.CycleMoveToComplete:
		if clearAll {
			l.Cycle = model.CycleReady
			s.acceptedTask = model.TaskNone
		}
	}
}
