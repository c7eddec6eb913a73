// Package model holds the wire-level value types shared by the
// validator, sequencer, and supervisor packages: the Lift and Cell
// state, the Job a supervisor writes, and the enums that are part of
// the external fieldbus contract.
package model

import "fmt"

// ForkSide is the lateral extension state of a lift's fork.
type ForkSide int

const (
	ForkLeft ForkSide = iota
	ForkMiddle
	ForkRight
)

// String returns a readable name for the fork side. On PlcToEco the
// side is published as its integer value (0=left, 1=middle, 2=right),
// per spec §6, not as this name.
func (f ForkSide) String() string {
	switch f {
	case ForkLeft:
		return "left"
	case ForkMiddle:
		return "middle"
	case ForkRight:
		return "right"
	default:
		return "unknown"
	}
}

// TaskType identifies the job kind a supervisor requests.
type TaskType int

const (
	TaskNone TaskType = iota
	TaskFull
	TaskMoveTo
	TaskPreparePickup
	TaskBringAway
)

// CancelCode is the wire-level enum (1..7) identifying why a job was
// rejected or aborted. Values and ordering are part of the external
// contract and must never be renumbered.
type CancelCode int

const (
	CancelNone CancelCode = iota
	CancelPickupWithTray
	CancelDestinationOutOfReach
	CancelOriginOutOfReach
	CancelInvalidZeroPosition
	CancelLiftsCross
	CancelInvalidAssignment
	CancelByEcoSystem
)

func (c CancelCode) String() string {
	switch c {
	case CancelNone:
		return "none"
	case CancelPickupWithTray:
		return "pickup_with_tray"
	case CancelDestinationOutOfReach:
		return "destination_out_of_reach"
	case CancelOriginOutOfReach:
		return "origin_out_of_reach"
	case CancelInvalidZeroPosition:
		return "invalid_zero_position"
	case CancelLiftsCross:
		return "lifts_cross"
	case CancelInvalidAssignment:
		return "invalid_assignment"
	case CancelByEcoSystem:
		return "cancelled_by_supervisor"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}

// StationStatus is the per-lift status enum published at
// PlcToEco/StationData/[i]/iStationStatus.
type StationStatus int16

const (
	StatusNA StationStatus = iota
	StatusOK
	StatusNotif
	StatusWarn
	StatusErr
	StatusBoot
	StatusOffline
	StatusSemiAuto
	StatusTeach
	StatusHand
	StatusHome
	StatusStop
)

// Cycle codes. These integers are themselves part of the external
// contract (supervisor UIs display them) and must not be renumbered.
const (
	CycleInit          = -10
	CycleIdle          = 0
	CycleReady         = 10
	CycleValidation    = 25
	CycleAccepted      = 30
	CycleRejected      = 650
	CycleError         = 888

	// Full flow (task_type=1), cycles 100-299.
	CycleFullWaitGetTray   = 100
	CycleFullForksMiddle   = 101
	CycleFullMoveOrigin    = 102
	CycleFullMoveOriginEnd = 105
	CycleFullForksExtend   = 150
	CycleFullForksExtendEnd = 153
	CycleFullPickupOffset  = 155
	CycleFullPickupExact   = 156
	CycleFullForksRetract  = 160
	CycleFullForksRetractEnd = 163
	CyclePickupComplete    = 199
	CycleFullWaitSetTray   = 201
	CycleFullMoveDest      = 202
	CycleFullMoveDestEnd   = 205
	CycleFullPlaceExtend   = 250
	CycleFullPlaceExtendEnd = 253
	CycleFullPlaceOffset   = 255
	CycleFullPlaceExact    = 256
	CycleFullPlaceRetract  = 260
	CycleFullPlaceRetractEnd = 263
	CycleFullComplete      = 299

	// MoveTo flow (task_type=2), cycles 300-399.
	CycleMoveToStart    = 300
	CycleMoveToMoving   = 310
	CycleMoveToComplete = 399

	// PreparePickup flow (task_type=3), cycles 400-499.
	CyclePPWaitGetTray = 400
	CyclePPMoveOrigin  = 410
	CyclePPForksExtend = 420
	CyclePPComplete    = 499

	// BringAway flow (task_type=4) re-enters the Full flow's placement
	// leg under the 400-499 band, per SPEC_FULL.md §4.5's resolution
	// of the BringAway Open Question: no pickup leg, drop-off only.
	CycleBAWaitSetTray      = 430
	CycleBAMoveDest         = 440
	CycleBAMoveDestEnd      = 443
	CycleBAPlaceExtend      = 450
	CycleBAPlaceExtendEnd   = 453
	CycleBAPlaceOffset      = 455
	CycleBAPlaceExact       = 456
	CycleBAPlaceRetract     = 460
	CycleBAPlaceRetractEnd  = 463
	CycleBAComplete         = 498
)

// Internal error codes published at iErrorCode on entry to Error 888.
// The wire contract only requires an integer (spec §6); these values
// are this implementation's own vocabulary, shared by internal/sequencer
// (motion timeouts) and internal/supervisor (watchdog expiry) so both
// can describe the same code in alarmText.
const (
	ErrCodeEngineTimeout  = 1001
	ErrCodeForkTimeout    = 1002
	ErrCodeWatchdogExpiry = 1003
	// ErrCodeHardwareFault marks a motion primitive rejecting a Start
	// call (motion.ErrBusy) because it was asked to move while already
	// in progress, a programming error the Sequencer cannot recover
	// from in-flow.
	ErrCodeHardwareFault = 1004
)

// HandshakeJobType identifies which acknowledgement the PLC currently
// expects from the supervisor.
type HandshakeJobType int

const (
	HandshakeNone HandshakeJobType = iota
	HandshakeGetTray
	HandshakeSetTray
)

// Job is the set of inputs the supervisor writes at EcoToPlc for one
// lift. It is observed by the Sequencer and never mutated by anything
// else; the supervisor is the sole writer.
type Job struct {
	TaskType    TaskType
	Origin      int
	Destination int
	Ack         bool
	CancelReq   int
}

// Active reports whether a job request is present (task_type > 0).
func (j Job) Active() bool {
	return j.TaskType != TaskNone
}

// Lift is the per-lift physical and sequencer-facing state described
// in spec §3.
type Lift struct {
	ID int

	Row         int
	ForkSide    ForkSide
	TrayPresent bool

	ReachMin int
	ReachMax int

	ErrorCode   int
	SeqComment  string
	Cycle       int
	Status      StationStatus
	CancelCode  CancelCode

	AlarmShort    string
	AlarmSolution string

	HandshakeJobType HandshakeJobType
	HandshakeRowNr   int

	// lastAck holds the previous tick's xAcknowledgeMovement level so
	// the Sequencer's ackEdge never double-counts a held-high
	// acknowledgement.
	lastAck bool
}

// LastAck returns the acknowledgement level observed on the previous
// tick, used by the handshake edge detector.
func (l *Lift) LastAck() bool { return l.lastAck }

// SetLastAck records the acknowledgement level for the next tick's
// edge detection.
func (l *Lift) SetLastAck(v bool) { l.lastAck = v }

// Reach returns the closed row interval the lift currently occupies or
// may need before its next safe checkpoint, per spec §4.2. Callers
// pass the active job so Reach can be computed without the lift
// storing a reference to it.
func Reach(l Lift, job Job, jobActive bool) (min, max int) {
	if !jobActive {
		return l.Row, l.Row
	}
	min, max = l.Row, l.Row
	if job.Origin > 0 {
		if job.Origin < min {
			min = job.Origin
		}
		if job.Origin > max {
			max = job.Origin
		}
	}
	if job.Destination > 0 {
		if job.Destination < min {
			min = job.Destination
		}
		if job.Destination > max {
			max = job.Destination
		}
	}
	return min, max
}

// CycleComment renders a human-readable description of a cycle code,
// published at sSeq_Step_comment/sStationStateDescription (spec §3's
// seq_comment attribute, §6's wire paths). Unlisted cycles (the
// BringAway band reuses Full's place-leg numbering under its own
// constants, already listed below) fall back to a generic message
// rather than an empty string.
func CycleComment(cycle int) string {
	switch cycle {
	case CycleInit:
		return "initializing"
	case CycleIdle:
		return "idle"
	case CycleReady:
		return "ready for assignment"
	case CycleValidation:
		return "validating assignment"
	case CycleAccepted:
		return "assignment accepted"
	case CycleRejected:
		return "assignment rejected"
	case CycleError:
		return "error"
	case CycleFullWaitGetTray, CyclePPWaitGetTray:
		return "waiting for get-tray acknowledgement"
	case CycleFullForksMiddle:
		return "centering forks"
	case CycleFullMoveOrigin, CyclePPMoveOrigin:
		return "moving to origin"
	case CycleFullForksExtend, CyclePPForksExtend:
		return "extending forks for pickup"
	case CycleFullPickupOffset:
		return "lowering onto tray"
	case CycleFullPickupExact:
		return "settling at pickup row"
	case CycleFullForksRetract:
		return "retracting forks with tray"
	case CyclePickupComplete:
		return "pickup complete"
	case CyclePPComplete:
		return "prepared for pickup"
	case CycleFullWaitSetTray, CycleBAWaitSetTray:
		return "waiting for set-tray acknowledgement"
	case CycleFullMoveDest, CycleBAMoveDest:
		return "moving to destination"
	case CycleFullPlaceExtend, CycleBAPlaceExtend:
		return "extending forks for place"
	case CycleFullPlaceOffset, CycleBAPlaceOffset:
		return "raising tray off forks"
	case CycleFullPlaceExact, CycleBAPlaceExact:
		return "settling at place row"
	case CycleFullPlaceRetract, CycleBAPlaceRetract:
		return "retracting empty forks"
	case CycleFullComplete, CycleBAComplete:
		return "assignment complete"
	case CycleMoveToStart:
		return "preparing move"
	case CycleMoveToMoving:
		return "moving to destination"
	case CycleMoveToComplete:
		return "move complete"
	default:
		return "in progress"
	}
}

// JobActive reports whether a cycle code represents a lift currently
// executing a job (validating, accepted, or anywhere in a flow band),
// as opposed to idle, waiting for work, rejected, or in error. The Cell
// Supervisor uses this to decide whether a lift's reach should reflect
// its job's origin/destination or only its current row.
func JobActive(cycle int) bool {
	switch cycle {
	case CycleValidation, CycleAccepted:
		return true
	}
	return cycle >= 100 && cycle <= CyclePPComplete
}

// Overlaps reports whether two closed row intervals intersect.
func Overlaps(aMin, aMax, bMin, bMax int) bool {
	return aMin <= bMax && bMin <= aMax
}
