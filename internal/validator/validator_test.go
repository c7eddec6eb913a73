package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roelstierum/plcsim-go/internal/model"
	"github.com/roelstierum/plcsim-go/internal/validator"
)

func defaultLimits() validator.Limits {
	return validator.Limits{MinRow: 1, MaxRow: 20}
}

func TestValidate_AcceptsFullJobWithNoConflict(t *testing.T) {
	self := model.Lift{ID: 1, Row: 0}
	req := validator.Request{TaskType: model.TaskFull, Origin: 5, Destination: 12}

	res := validator.Validate(req, self, defaultLimits(), false, 0, 0, 0, 12)

	require.True(t, res.Accepted)
	assert.Equal(t, model.CancelNone, res.Cancel)
}

// Scenario 2 of spec §8: lift 2 has an active Full job reaching
// [3, 10]; lift 1 writes a MoveTo to destination 7 from row 0. The
// resulting reach [0, 7] overlaps lift 2's [3, 10], so the conflict
// check (step 1) rejects before any later step runs.
func TestValidate_CrossLiftReach(t *testing.T) {
	self := model.Lift{ID: 1, Row: 0}
	req := validator.Request{TaskType: model.TaskMoveTo, Destination: 7}

	res := validator.Validate(req, self, defaultLimits(), true, 3, 10, 0, 7)

	require.False(t, res.Accepted)
	assert.Equal(t, model.CancelLiftsCross, res.Cancel)
}

// Scenario 3 of spec §8: a pickup-leg task (Full) is requested while
// the lift already carries a tray.
func TestValidate_RejectsPickupWithTrayPresent(t *testing.T) {
	self := model.Lift{ID: 1, Row: 0, TrayPresent: true}
	req := validator.Request{TaskType: model.TaskFull, Origin: 4, Destination: 9}

	res := validator.Validate(req, self, defaultLimits(), false, 0, 0, 4, 9)

	require.False(t, res.Accepted)
	assert.Equal(t, model.CancelPickupWithTray, res.Cancel)
}

func TestValidate_BringAwayIgnoresPickupWithTrayCheck(t *testing.T) {
	self := model.Lift{ID: 1, Row: 0, TrayPresent: true}
	req := validator.Request{TaskType: model.TaskBringAway, Origin: 4, Destination: 9}

	res := validator.Validate(req, self, defaultLimits(), false, 0, 0, 4, 9)

	assert.True(t, res.Accepted)
}

func TestValidate_RejectsDestinationOutOfReach(t *testing.T) {
	self := model.Lift{ID: 1, Row: 0}
	req := validator.Request{TaskType: model.TaskFull, Origin: 4, Destination: 99}

	res := validator.Validate(req, self, defaultLimits(), false, 0, 0, 4, 99)

	require.False(t, res.Accepted)
	assert.Equal(t, model.CancelDestinationOutOfReach, res.Cancel)
}

// MoveTo has no step 2 zero-position check, so a request with no
// destination reaches step 5 (destination required) rather than being
// rejected earlier as a zero position.
func TestValidate_RejectsMissingDestinationForMoveTo(t *testing.T) {
	self := model.Lift{ID: 1, Row: 0}
	req := validator.Request{TaskType: model.TaskMoveTo, Origin: 4}

	res := validator.Validate(req, self, defaultLimits(), false, 0, 0, 4, 4)

	require.False(t, res.Accepted)
	assert.Equal(t, model.CancelInvalidAssignment, res.Cancel)
}

// Scenario 5 of spec §8: a MoveTo never reads Origin (moveto_flow.go
// only consumes Destination and the lift's current Row), so step 2's
// zero-position check must not apply to it even when Origin is unset.
func TestValidate_MoveToAcceptsZeroOrigin(t *testing.T) {
	self := model.Lift{ID: 1, Row: 0}
	req := validator.Request{TaskType: model.TaskMoveTo, Destination: 8}

	res := validator.Validate(req, self, defaultLimits(), false, 0, 0, 0, 8)

	require.True(t, res.Accepted)
	assert.Equal(t, model.CancelNone, res.Cancel)
}

func TestValidate_RejectsOriginOutOfReach(t *testing.T) {
	self := model.Lift{ID: 1, Row: 0}
	req := validator.Request{TaskType: model.TaskFull, Origin: 99, Destination: 5}

	res := validator.Validate(req, self, defaultLimits(), false, 0, 0, 5, 99)

	require.False(t, res.Accepted)
	assert.Equal(t, model.CancelOriginOutOfReach, res.Cancel)
}

func TestValidate_RejectsZeroOriginForFull(t *testing.T) {
	self := model.Lift{ID: 1, Row: 0}
	req := validator.Request{TaskType: model.TaskFull, Destination: 5}

	res := validator.Validate(req, self, defaultLimits(), false, 0, 0, 0, 5)

	require.False(t, res.Accepted)
	assert.Equal(t, model.CancelInvalidZeroPosition, res.Cancel)
}
