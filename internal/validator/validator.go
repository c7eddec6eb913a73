// Package validator implements the pure admission check of spec §4.4:
// given a job request and the current state of both lifts, it returns
// either accepted or a cancel reason code from the defined set. The
// checks run in a fixed order; the first failure wins and no further
// checks run.
//
// Validate takes no clock and touches no I/O, matching the teacher's
// preference (see internal/repository/tx_classification.go) for small,
// independently testable pure functions next to the stateful code that
// calls them.
package validator

import "github.com/roelstierum/plcsim-go/internal/model"

// Request is the job under validation, already resolved to a single
// lift's perspective.
type Request struct {
	TaskType    model.TaskType
	Origin      int
	Destination int
}

// Limits is the physical row range a lift may occupy.
type Limits struct {
	MinRow int
	MaxRow int
}

func (l Limits) inRange(row int) bool {
	return row >= l.MinRow && row <= l.MaxRow
}

// Result is the validator's verdict.
type Result struct {
	Accepted bool
	Cancel   model.CancelCode
}

func accept() Result { return Result{Accepted: true} }
func reject(c model.CancelCode) Result { return Result{Accepted: false, Cancel: c} }

// needsDestination reports whether a task type's flow requires a
// nonzero destination, per spec §4.4 step 5.
func needsDestination(t model.TaskType) bool {
	switch t {
	case model.TaskFull, model.TaskMoveTo, model.TaskBringAway:
		return true
	default:
		return false
	}
}

// hasPickupLeg reports whether a task type's admission includes the
// pickup-with-tray check of spec §4.4 step 3. BringAway is issued
// specifically because a tray is already present (see SPEC_FULL.md
// §4.5's resolution of the BringAway Open Question), so it never
// applies this check to itself.
func hasPickupLeg(t model.TaskType) bool {
	switch t {
	case model.TaskFull, model.TaskPreparePickup:
		return true
	default:
		return false
	}
}

// Validate runs the seven-step ordered admission check of spec §4.4.
// self is the lift the job targets; peer is the other lift in the
// shaft. selfLimits bounds self's physical row range. peerActive and
// peerReach describe the peer's currently reserved interval, if any.
func Validate(req Request, self model.Lift, selfLimits Limits, peerActive bool, peerReachMin, peerReachMax int, selfReachMin, selfReachMax int) Result {
	// Step 1: cross-lift reach conflict.
	if peerActive && model.Overlaps(selfReachMin, selfReachMax, peerReachMin, peerReachMax) {
		return reject(model.CancelLiftsCross)
	}

	// Step 2: zero-position checks.
	switch req.TaskType {
	case model.TaskFull:
		if req.Origin == 0 || req.Destination == 0 {
			return reject(model.CancelInvalidZeroPosition)
		}
	case model.TaskPreparePickup, model.TaskBringAway:
		if req.Origin == 0 {
			return reject(model.CancelInvalidZeroPosition)
		}
	}

	// Step 3: pickup-with-tray.
	if hasPickupLeg(req.TaskType) && self.TrayPresent {
		return reject(model.CancelPickupWithTray)
	}

	// Step 4: destination out of reach.
	if req.Destination > 0 && !selfLimits.inRange(req.Destination) {
		return reject(model.CancelDestinationOutOfReach)
	}

	// Step 5: destination required but absent.
	if needsDestination(req.TaskType) && req.Destination <= 0 {
		return reject(model.CancelInvalidAssignment)
	}

	// Step 6: origin out of reach.
	if req.Origin > 0 && !selfLimits.inRange(req.Origin) {
		return reject(model.CancelOriginOutOfReach)
	}

	return accept()
}
