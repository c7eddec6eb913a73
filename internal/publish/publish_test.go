package publish_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roelstierum/plcsim-go/internal/publish"
	"github.com/roelstierum/plcsim-go/internal/varspace"
)

func TestPublisher_SetSkipsUnchangedValue(t *testing.T) {
	space := varspace.New()
	p := publish.New(space)

	p.Set("PlcToEco/StationData/0/iCycle", varspace.Int(10))
	sub := space.Subscribe()
	defer sub.Close()

	// Same value again must not reach the Space, so no change arrives
	// on the subscription.
	p.Set("PlcToEco/StationData/0/iCycle", varspace.Int(10))

	p.Set("PlcToEco/StationData/0/iCycle", varspace.Int(11))
	change := <-sub.C
	assert.Equal(t, "PlcToEco/StationData/0/iCycle", change.Path)
	assert.Equal(t, int64(11), change.Value.I)

	assert.Equal(t, 11, space.ReadInt("PlcToEco/StationData/0/iCycle"))
}

func TestPublisher_LastWrittenTracksOwnWrites(t *testing.T) {
	space := varspace.New()
	p := publish.New(space)

	_, ok := p.LastWritten("PlcToEco/Elevator1/xTrayInElevator")
	assert.False(t, ok)

	p.Set("PlcToEco/Elevator1/xTrayInElevator", varspace.Bool(true))
	v, ok := p.LastWritten("PlcToEco/Elevator1/xTrayInElevator")
	require.True(t, ok)
	assert.True(t, v.B)
}

// A write that bypasses the Publisher (e.g. a transport client writing
// the override path directly) is invisible to LastWritten even though
// Space.Read sees it — this is exactly the divergence the Cell
// Supervisor's reconciliation step watches for.
func TestPublisher_LastWrittenDoesNotSeeExternalWrites(t *testing.T) {
	space := varspace.New()
	p := publish.New(space)
	path := "PlcToEco/Elevator1/xTrayInElevator"

	p.Set(path, varspace.Bool(false))
	space.Write(path, varspace.Bool(true))

	last, ok := p.LastWritten(path)
	require.True(t, ok)
	assert.False(t, last.B)

	current, _ := space.Read(path)
	assert.True(t, current.B)
}

func TestPublisher_SetTrayInElevator(t *testing.T) {
	space := varspace.New()
	p := publish.New(space)
	path := "PlcToEco/Elevator2/xTrayInElevator"

	p.SetTrayInElevator(path, true)
	assert.True(t, space.ReadBool(path))

	v, ok := p.LastWritten(path)
	require.True(t, ok)
	assert.True(t, v.B)
}
