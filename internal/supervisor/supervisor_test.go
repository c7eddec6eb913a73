package supervisor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roelstierum/plcsim-go/internal/config"
	"github.com/roelstierum/plcsim-go/internal/model"
	"github.com/roelstierum/plcsim-go/internal/supervisor"
	"github.com/roelstierum/plcsim-go/internal/varspace"
)

const step = 100 * time.Millisecond

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Durations.ForkMove = step
	cfg.Durations.EngineMove = step
	cfg.Durations.PickOffset = step
	cfg.Durations.Watchdog = 500 * time.Millisecond
	return cfg
}

// warmUp ticks cell until both lifts reach Ready (Init -> Idle -> Ready
// takes exactly 3 ticks with ForkMove == step).
func warmUp(t *testing.T, cell *supervisor.Cell, start time.Time) time.Time {
	t.Helper()
	now := start
	for i := 0; i < 3; i++ {
		cell.Tick(now)
		now = now.Add(step)
	}
	require.Equal(t, model.CycleReady, cell.Lift(1).Cycle)
	require.Equal(t, model.CycleReady, cell.Lift(2).Cycle)
	return now
}

// Scenario 2 of spec §8, driven end to end through the Cell: lift 2
// already has an active, reaching job when lift 1 requests a MoveTo
// that overlaps it. Lift 1's Validation step (run before lift 2's own
// tick in each round) sees lift 2's reach as left by the previous
// round and rejects.
func TestCell_CrossLiftReachRejectsMoveTo(t *testing.T) {
	space := varspace.New()
	cell := supervisor.New(space, testConfig(), nil, nil)
	now := warmUp(t, cell, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	p2 := varspace.EcoToPlc(2)
	space.Write(p2.TaskType, varspace.Int(int(model.TaskFull)))
	space.Write(p2.Origination, varspace.Int(3))
	space.Write(p2.Destination, varspace.Int(10))

	cell.Tick(now) // lift 2: Ready -> Validation
	now = now.Add(step)
	cell.Tick(now) // lift 2: Validation -> Accepted (reach now covers row 7)
	now = now.Add(step)
	require.Equal(t, model.CycleAccepted, cell.Lift(2).Cycle)

	p1 := varspace.EcoToPlc(1)
	space.Write(p1.TaskType, varspace.Int(int(model.TaskMoveTo)))
	space.Write(p1.Destination, varspace.Int(7))
	// Toggle the heartbeat so testConfig's 500ms watchdog window does
	// not expire before the final tick below.
	space.Write(varspace.PathWatchDog, varspace.Bool(true))

	cell.Tick(now) // lift 1: Ready -> Validation
	now = now.Add(step)
	require.Equal(t, model.CycleValidation, cell.Lift(1).Cycle)

	cell.Tick(now) // lift 1: Validation -> Rejected (overlaps lift 2's reach)
	assert.Equal(t, model.CycleRejected, cell.Lift(1).Cycle)
	assert.Equal(t, model.CancelLiftsCross, cell.Lift(1).CancelCode)
}

// Scenario 6 of spec §8: EcoToPlc/xWatchDog stops toggling for longer
// than the configured window; both lifts are forced into Error 888
// with WatchdogExpiry, and each lift's own xClearError restores it to
// Init independently of the other.
func TestCell_WatchdogExpiryAndPerLiftClear(t *testing.T) {
	space := varspace.New()
	cell := supervisor.New(space, testConfig(), nil, nil)
	now := warmUp(t, cell, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	// Establish an initial watchdog level so the next tick has a
	// baseline to compare against.
	space.Write(varspace.PathWatchDog, varspace.Bool(false))
	cell.Tick(now)
	now = now.Add(step)

	// Hold the watchdog level steady past the configured window.
	for elapsed := time.Duration(0); elapsed <= 500*time.Millisecond; elapsed += step {
		cell.Tick(now)
		now = now.Add(step)
	}

	require.Equal(t, model.CycleError, cell.Lift(1).Cycle)
	require.Equal(t, model.CycleError, cell.Lift(2).Cycle)
	assert.Equal(t, model.ErrCodeWatchdogExpiry, cell.Lift(1).ErrorCode)
	assert.Equal(t, model.ErrCodeWatchdogExpiry, cell.Lift(2).ErrorCode)

	// Clear lift 1 only; lift 2 must remain in Error.
	p1 := varspace.EcoToPlc(1)
	space.Write(p1.ClearError, varspace.Bool(true))
	cell.Tick(now)
	now = now.Add(step)

	assert.Equal(t, model.CycleInit, cell.Lift(1).Cycle)
	assert.Equal(t, model.CycleError, cell.Lift(2).Cycle)

	// Clearing lift 1 again (xClearError still true) is a no-op since
	// it is no longer in Error.
	cell.Tick(now)
	assert.Equal(t, model.CycleIdle, cell.Lift(1).Cycle)
}
