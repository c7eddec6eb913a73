package sequencer

import (
	"time"

	"github.com/roelstierum/plcsim-go/internal/model"
)

// Pickup and place always extend to opposite fork sides. The spec's
// Job carries no side selector (origin/destination/task_type/ack/
// cancel_req only), so the side is a station-layout fact rather than
// a per-job input; fixed left-for-pickup, right-for-place keeps the
// two legs visibly distinct in tests and traces.
const (
	pickupSide = model.ForkLeft
	placeSide  = model.ForkRight
)

// tickFull drives cycles 100-299: the Full flow (task_type=1) and,
// after the pickup leg completes, shares its placement leg with
// BringAway via tickPlaceLeg.
func (s *Sequencer) tickFull(now time.Time, job model.Job, peer PeerView, clearAll bool) {
	l := s.lift

	if l.Cycle < model.CyclePickupComplete {
		if s.handleCancel(now, job) {
			return
		}
	}

	switch l.Cycle {
	case model.CycleFullWaitGetTray:
		s.publishHandshake(model.HandshakeGetTray)
		if s.ackEdge(job) {
			s.clearHandshake()
			l.Cycle = model.CycleFullForksMiddle
		}

	case model.CycleFullForksMiddle:
		if !s.fork.InProgress() {
			if s.startFork(now, int(model.ForkMiddle), s.dur.ForkMove) {
				return
			}
		}
		if s.pollForkTimeout(now) {
			return
		}
		if s.fork.Poll(now) {
			l.ForkSide = model.ForkSide(s.fork.ForkTarget())
			l.Cycle = model.CycleFullMoveOrigin
		}

	case model.CycleFullMoveOrigin:
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
			l.Cycle = model.CycleFullForksExtend
		}

	case model.CycleFullForksExtend:
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
			l.Cycle = model.CycleFullPickupOffset
		}

	case model.CycleFullPickupOffset:
		if !s.engine.InProgress() {
			if s.startEngine(now, s.origin, motionPickupOffset, s.dur.PickOffset) {
				return
			}
		}
		if s.pollEngineTimeout(now) {
			return
		}
		if s.engine.Poll(now) {
			l.Row = s.engine.ResolvedRow()
			l.Cycle = model.CycleFullPickupExact
		}

	case model.CycleFullPickupExact:
		if !s.engine.InProgress() {
			if s.startEngine(now, s.origin, motionExact, s.dur.PickOffset) {
				return
			}
		}
		if s.pollEngineTimeout(now) {
			return
		}
		if s.engine.Poll(now) {
			l.Row = s.engine.ResolvedRow()
			l.TrayPresent = true
			l.Cycle = model.CycleFullForksRetract
		}

	case model.CycleFullForksRetract:
		if !s.fork.InProgress() {
			if s.startFork(now, int(model.ForkMiddle), s.dur.ForkMove) {
				return
			}
		}
		if s.pollForkTimeout(now) {
			return
		}
		if s.fork.Poll(now) {
			l.ForkSide = model.ForkSide(s.fork.ForkTarget())
			l.Cycle = model.CyclePickupComplete
		}

	case model.CyclePickupComplete:
		l.Cycle = model.CycleFullWaitSetTray

	default:
		s.tickPlaceLeg(now, job, peer, clearAll,
			model.CycleFullWaitSetTray, model.CycleFullMoveDest,
			model.CycleFullPlaceExtend, model.CycleFullPlaceOffset,
			model.CycleFullPlaceExact, model.CycleFullPlaceRetract,
			model.CycleFullComplete)
	}
}

// tickPlaceLeg implements cycles 201-299 (and their BringAway-band
// equivalents): wait SetTray, move to destination, extend forks to
// the place side, place (offset then exact, tray cleared on success),
// forks to middle, complete, wait clear. The cycle constants for each
// phase are passed in so Full and BringAway can share the
// implementation while publishing their own documented cycle bands.
func (s *Sequencer) tickPlaceLeg(now time.Time, job model.Job, peer PeerView, clearAll bool,
	waitSetTray, moveDest, placeExtend, placeOffset, placeExact, placeRetract, complete int) {
	l := s.lift

	if l.Cycle != complete {
		if s.handleCancel(now, job) {
			return
		}
	}

	switch l.Cycle {
	case waitSetTray:
		s.publishHandshake(model.HandshakeSetTray)
		if s.ackEdge(job) {
			s.clearHandshake()
			l.Cycle = moveDest
		}

	case moveDest:
		if !s.engine.InProgress() {
			if peerHolds(peer, s.destination) {
				return
			}
			if s.startEngine(now, s.destination, motionExact, s.dur.EngineMove) {
				return
			}
		}
		if s.pollEngineTimeout(now) {
			return
		}
		if s.engine.Poll(now) {
			l.Row = s.engine.ResolvedRow()
			l.Cycle = placeExtend
		}

	case placeExtend:
		if !s.fork.InProgress() {
			if s.startFork(now, int(placeSide), s.dur.ForkMove) {
				return
			}
		}
		if s.pollForkTimeout(now) {
			return
		}
		if s.fork.Poll(now) {
			l.ForkSide = model.ForkSide(s.fork.ForkTarget())
			l.Cycle = placeOffset
		}

	case placeOffset:
		if !s.engine.InProgress() {
			if s.startEngine(now, s.destination, motionPlaceOffset, s.dur.PickOffset) {
				return
			}
		}
		if s.pollEngineTimeout(now) {
			return
		}
		if s.engine.Poll(now) {
			l.Row = s.engine.ResolvedRow()
			l.Cycle = placeExact
		}

	case placeExact:
		if !s.engine.InProgress() {
			if s.startEngine(now, s.destination, motionExact, s.dur.PickOffset) {
				return
			}
		}
		if s.pollEngineTimeout(now) {
			return
		}
		if s.engine.Poll(now) {
			l.Row = s.engine.ResolvedRow()
			l.TrayPresent = false
			l.Cycle = placeRetract
		}

	case placeRetract:
		if !s.fork.InProgress() {
			if s.startFork(now, int(model.ForkMiddle), s.dur.ForkMove) {
				return
			}
		}
		if s.pollForkTimeout(now) {
			return
		}
		if s.fork.Poll(now) {
			l.ForkSide = model.ForkSide(s.fork.ForkTarget())
			l.Cycle = complete
		}

	case complete:
		if clearAll {
			l.Cycle = model.CycleReady
			s.acceptedTask = model.TaskNone
		}
	}
}
