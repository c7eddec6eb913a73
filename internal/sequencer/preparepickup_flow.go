package sequencer

import (
	"time"

	"github.com/roelstierum/plcsim-go/internal/model"
)

// tickPreparePickupOrBringAway drives the whole 400-499 cycle band. It
// is split between two flows that never overlap in their ranges:
//
//   - PreparePickup (task_type=3), cycles 400-420/499: wait GetTray,
//     move to origin, extend forks to the pickup side, done — no pickup
//     motion, no tray ever changes hands, per spec §4.5.
//   - BringAway (task_type=4), cycles 430-498: the Full flow's
//     placement leg only, entered directly since a BringAway job
//     assumes the tray is already aboard; see SPEC_FULL.md §4.5's
//     resolution of the BringAway Open Question.
func (s *Sequencer) tickPreparePickupOrBringAway(now time.Time, job model.Job, peer PeerView, clearAll bool) {
	l := s.lift

	if l.Cycle >= model.CycleBAWaitSetTray {
		s.tickPlaceLeg(now, job, peer, clearAll,
			model.CycleBAWaitSetTray, model.CycleBAMoveDest,
			model.CycleBAPlaceExtend, model.CycleBAPlaceOffset,
			model.CycleBAPlaceExact, model.CycleBAPlaceRetract,
			model.CycleBAComplete)
		return
	}

	if l.Cycle != model.CyclePPComplete {
		if s.handleCancel(now, job) {
			return
		}
	}

	switch l.Cycle {
	case model.CyclePPWaitGetTray:
		s.publishHandshake(model.HandshakeGetTray)
		if s.ackEdge(job) {
			s.clearHandshake()
			l.Cycle = model.CyclePPMoveOrigin
		}

	case model.CyclePPMoveOrigin:
		if !s.engine.InProgress() {
			if peerHolds(peer, s.origin) {
				return
			}
			if s.startEngine(now, s.origin, motionExact, s.dur.EngineMove) {
				return
			}
		}
		if s.pollEngineTimeout(now) {
			return
		}
		if s.engine.Poll(now) {
			l.Row = s.engine.ResolvedRow()
			l.Cycle = model.CyclePPForksExtend
		}

	case model.CyclePPForksExtend:
		if !s.fork.InProgress() {
			if s.startFork(now, int(pickupSide), s.dur.ForkMove) {
				return
			}
		}
		if s.pollForkTimeout(now) {
			return
		}
		if s.fork.Poll(now) {
			l.ForkSide = model.ForkSide(s.fork.ForkTarget())
			l.Cycle = model.CyclePPComplete
		}

	case model.CyclePPComplete:
		if clearAll {
			l.Cycle = model.CycleReady
			s.acceptedTask = model.TaskNone
		}
	}
}
