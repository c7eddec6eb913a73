package motion_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roelstierum/plcsim-go/internal/motion"
)

func TestPrimitive_EngineMoveExactResolvesTargetRow(t *testing.T) {
	var p motion.Primitive
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, p.StartEngineMove(start, 12, motion.OffsetExact, time.Second))
	assert.True(t, p.InProgress())
	assert.False(t, p.Poll(start.Add(500*time.Millisecond)))

	assert.True(t, p.Poll(start.Add(time.Second)))
	assert.False(t, p.InProgress())
	assert.Equal(t, 12, p.ResolvedRow())
}

func TestPrimitive_EngineMoveOffsetsAdjustResolvedRow(t *testing.T) {
	var pickup motion.Primitive
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, pickup.StartEngineMove(start, 5, motion.OffsetPickup, time.Second))
	pickup.Poll(start.Add(time.Second))
	assert.Equal(t, 6, pickup.ResolvedRow())

	var place motion.Primitive
	require.NoError(t, place.StartEngineMove(start, 5, motion.OffsetPlace, time.Second))
	place.Poll(start.Add(time.Second))
	assert.Equal(t, 4, place.ResolvedRow())
}

func TestPrimitive_ForkMoveResolvesTargetSide(t *testing.T) {
	var p motion.Primitive
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, p.StartForkMove(start, 2, time.Second))
	assert.False(t, p.Poll(start))
	assert.True(t, p.Poll(start.Add(time.Second)))
	assert.Equal(t, 2, p.ForkTarget())
}

func TestPrimitive_StartWhileRunningReturnsErrBusy(t *testing.T) {
	var p motion.Primitive
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, p.StartEngineMove(start, 1, motion.OffsetExact, time.Second))
	err := p.StartEngineMove(start, 2, motion.OffsetExact, time.Second)
	assert.ErrorIs(t, err, motion.ErrBusy)
}

func TestPrimitive_TimedOutAfterTwiceDuration(t *testing.T) {
	var p motion.Primitive
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, p.StartEngineMove(start, 1, motion.OffsetExact, time.Second))

	assert.False(t, p.TimedOut(start.Add(2*time.Second)))
	assert.True(t, p.TimedOut(start.Add(2*time.Second+time.Millisecond)))
}

func TestPrimitive_NotInProgressNeverPollsDone(t *testing.T) {
	var p motion.Primitive
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, p.InProgress())
	assert.False(t, p.Poll(now))
	assert.False(t, p.TimedOut(now))
}
