// Package sequencer implements the per-lift job lifecycle engine of
// spec §4.5: the main state machine driving a job from acceptance
// through handshakes, motions, fork extensions, pickup/place,
// retraction, and completion.
//
// The integer cycle code IS the state, per spec §9's design note ("no
// coroutines, no continuations"); Tick is a pure function of
// (state, inputs, clock) that the teacher's own Service.Start loops
// (ingester/service.go) call once per iteration, except here there is
// exactly one iteration per fixed-cadence tick rather than a retrying
// poll loop.
package sequencer

import (
	"time"

	"github.com/roelstierum/plcsim-go/internal/model"
	"github.com/roelstierum/plcsim-go/internal/motion"
	"github.com/roelstierum/plcsim-go/internal/obslog"
	"github.com/roelstierum/plcsim-go/internal/validator"
)

// Durations bundles the motion timings a Sequencer needs.
type Durations struct {
	ForkMove   time.Duration
	EngineMove time.Duration
	PickOffset time.Duration
}

// PeerView is what the Validator and the reach-conflict check in
// spec §4.5's "Failure semantics" need to know about the other lift,
// resolved through the Cell each tick rather than a direct reference
// (per spec §9's "Cyclic entity relationship" design note).
type PeerView struct {
	Active   bool
	ReachMin int
	ReachMax int
	InError  bool
}

// Sequencer drives one lift's job lifecycle. It owns the lift's
// mutable state, its two motion primitives, and the ack-edge detector
// for the handshake protocol.
type Sequencer struct {
	lift   *model.Lift
	limits validator.Limits
	dur    Durations
	log    *obslog.Logger

	engine motion.Primitive
	fork   motion.Primitive

	// acceptedTask is latched at cycle 30 so that when a flow resumes
	// (e.g. after a hold for a peer's reach conflict) it always knows
	// which flow it is in, independent of the raw EcoToPlc job fields
	// the supervisor might have already begun clearing.
	acceptedTask model.TaskType
	origin       int
	destination  int

	// pendingHandshake records which acknowledgement the Sequencer is
	// currently advertising, per spec §4.5's handshake protocol.
	pendingHandshake model.HandshakeJobType
}

// New constructs a Sequencer for the given lift, in cycle Init.
func New(liftID int, limits validator.Limits, dur Durations) *Sequencer {
	l := &model.Lift{ID: liftID, Cycle: model.CycleInit, ForkSide: model.ForkMiddle}
	return &Sequencer{
		lift:   l,
		limits: limits,
		dur:    dur,
		log:    obslog.New("sequencer"),
	}
}

// Lift returns the lift state for read-only inspection (reach
// computation, publication, testing).
func (s *Sequencer) Lift() *model.Lift { return s.lift }

// Reset forces the sequencer back to Init, zeroing the lift's row,
// fork side, tray flag, error code and cancel code. The Init state's
// own tick does not call it: tickInit only re-centres the forks and
// parks the row.
func (s *Sequencer) Reset() {
	s.lift.Row = 0
	s.lift.ForkSide = model.ForkMiddle
	s.lift.TrayPresent = false
	s.lift.ErrorCode = 0
	s.lift.CancelCode = model.CancelNone
	s.lift.Cycle = model.CycleInit
	s.acceptedTask = model.TaskNone
	s.pendingHandshake = model.HandshakeNone
}

// Tick advances the sequencer exactly one step. job is this tick's
// snapshot of the lift's EcoToPlc inputs; peer is the other lift's
// reach/error view, resolved by the Cell Supervisor for this tick.
// clearAll is true once the supervisor has zeroed task_type (used by
// the terminal-cycle "wait for clear" states).
func (s *Sequencer) Tick(now time.Time, job model.Job, peer PeerView, clearAll bool) {
	l := s.lift

	// Sample the acknowledgement level on every tick, not only at
	// handshake cycles, so a drop to false between two handshakes is
	// seen and the next handshake's rising edge counts.
	defer l.SetLastAck(job.Ack)

	// Watchdog/hardware error states take priority and are handled by
	// the caller (Cell Supervisor) forcing Cycle to CycleError; once
	// there, only xClearError routes out, handled uniformly here so
	// every flow shares the same exit.
	if l.Cycle == model.CycleError {
		// xClearError is modeled via a dedicated ClearError() call from
		// the supervisor, not via the Job struct, since it is not part
		// of a job request; nothing to do on an ordinary tick.
		return
	}

	switch {
	case l.Cycle == model.CycleInit:
		s.tickInit(now)
	case l.Cycle == model.CycleIdle:
		l.Cycle = model.CycleReady
	case l.Cycle == model.CycleReady:
		s.tickReady(job)
	case l.Cycle == model.CycleValidation:
		s.tickValidation(job, peer)
	case l.Cycle == model.CycleAccepted:
		s.tickAccepted(now)
	case l.Cycle == model.CycleRejected:
		s.tickRejected(clearAll)
	case l.Cycle >= 100 && l.Cycle <= 299:
		s.tickFull(now, job, peer, clearAll)
	case l.Cycle >= 300 && l.Cycle <= 399:
		s.tickMoveTo(now, job, peer, clearAll)
	case l.Cycle >= 400 && l.Cycle <= 499:
		s.tickPreparePickupOrBringAway(now, job, peer, clearAll)
	}

	// Cancellation is observed at the top of the next tick, before any
	// new primitive is started this tick, per spec §5. It never
	// interrupts a primitive already running; tickFull/tickMoveTo/
	// tickPreparePickupOrBringAway call handleCancel, which acts only
	// while no primitive is in progress.
}

func (s *Sequencer) tickInit(now time.Time) {
	l := s.lift
	if !s.fork.InProgress() {
		if s.startFork(now, int(model.ForkMiddle), s.dur.ForkMove) {
			return
		}
	}
	if s.fork.Poll(now) {
		l.ForkSide = model.ForkSide(s.fork.ForkTarget())
		l.Row = 0
		l.Cycle = model.CycleIdle
	}
}

func (s *Sequencer) tickReady(job model.Job) {
	l := s.lift
	if job.Active() {
		s.origin = job.Origin
		s.destination = job.Destination
		l.Cycle = model.CycleValidation
	}
}

func (s *Sequencer) tickValidation(job model.Job, peer PeerView) {
	l := s.lift
	selfMin, selfMax := model.Reach(*l, job, true)

	peerMin, peerMax := peer.ReachMin, peer.ReachMax
	res := validator.Validate(validator.Request{
		TaskType:    job.TaskType,
		Origin:      job.Origin,
		Destination: job.Destination,
	}, *l, s.limits, peer.Active, peerMin, peerMax, selfMin, selfMax)

	if !res.Accepted {
		l.CancelCode = res.Cancel
		l.Cycle = model.CycleRejected
		s.log.Info("job rejected", "lift", l.ID, "reason", res.Cancel.String())
		return
	}

	l.ReachMin, l.ReachMax = selfMin, selfMax
	s.acceptedTask = job.TaskType
	l.Cycle = model.CycleAccepted
}

func (s *Sequencer) tickAccepted(now time.Time) {
	l := s.lift
	switch s.acceptedTask {
	case model.TaskFull:
		l.Cycle = model.CycleFullWaitGetTray
		s.pendingHandshake = model.HandshakeGetTray
	case model.TaskMoveTo:
		l.Cycle = model.CycleMoveToStart
	case model.TaskPreparePickup:
		l.Cycle = model.CyclePPWaitGetTray
		s.pendingHandshake = model.HandshakeGetTray
	case model.TaskBringAway:
		l.Cycle = model.CycleBAWaitSetTray
		s.pendingHandshake = model.HandshakeSetTray
	default:
		l.Cycle = model.CycleRejected
		l.CancelCode = model.CancelInvalidAssignment
	}
}

func (s *Sequencer) tickRejected(clearAll bool) {
	l := s.lift
	if clearAll {
		l.CancelCode = model.CancelNone
		l.Cycle = model.CycleReady
	}
}

// peerHolds reports whether the peer lift blocks a move to target,
// per spec §4.5's Failure Semantics: an active peer job or a
// peer stuck in Error both hold our flow at its current cycle as long
// as our target row falls inside the peer's reserved reach, until the
// peer's job clears or the operator clears its error.
func peerHolds(peer PeerView, target int) bool {
	if !peer.Active && !peer.InError {
		return false
	}
	return model.Overlaps(target, target, peer.ReachMin, peer.ReachMax)
}

// cancelRequested reports a nonzero supervisor cancel, per spec §4.4's
// "Additionally" clause and §4.5's "Supervisor cancel mid-motion"
// edge case. It is checked only between primitive starts, never while
// one is in progress, per spec §5.
func cancelRequested(job model.Job) bool { return job.CancelReq != 0 }

func (s *Sequencer) cancelInto(reason model.CancelCode) {
	l := s.lift
	l.CancelCode = reason
	l.Cycle = model.CycleRejected
}

// EnterError routes the lift into the 888 Error state with the given
// error code, per spec §4.5 and §7 (MotionTimeout/HardwareFault and
// WatchdogExpiry both call this).
func (s *Sequencer) EnterError(code int) {
	l := s.lift
	l.ErrorCode = code
	l.Cycle = model.CycleError
	l.AlarmShort, l.AlarmSolution = alarmText(code)
	s.log.Error("lift entering error", "lift", l.ID, "code", code)
}

// alarmText maps this implementation's internal error codes to the
// short description/solution pair published at sShortAlarmDescription
// and sAlarmSolution (spec §6). Unknown codes still publish something
// rather than leaving the fields stale from a previous error.
func alarmText(code int) (short, solution string) {
	switch code {
	case model.ErrCodeEngineTimeout:
		return "engine move timed out", "check engine drive and row encoder, then clear error"
	case model.ErrCodeForkTimeout:
		return "fork move timed out", "check fork drive and side sensor, then clear error"
	case model.ErrCodeWatchdogExpiry:
		return "watchdog expired", "restore EcoSystem heartbeat, then clear error"
	case model.ErrCodeHardwareFault:
		return "motion primitive rejected start", "check engine/fork drive wiring, then clear error"
	default:
		return "unspecified fault", "clear error and retry"
	}
}

// ClearError is the supervisor's xClearError action; per spec §4.5 and
// §9 it always routes to -10 regardless of which error was latched.
func (s *Sequencer) ClearError() {
	if s.lift.Cycle != model.CycleError {
		return
	}
	s.lift.ErrorCode = 0
	s.lift.Cycle = model.CycleInit
}
