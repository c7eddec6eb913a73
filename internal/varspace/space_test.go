package varspace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roelstierum/plcsim-go/internal/varspace"
)

func TestSpace_ReadWriteRoundTrip(t *testing.T) {
	s := varspace.New()

	_, ok := s.Read("EcoToPlc/xWatchDog")
	assert.False(t, ok)
	assert.Equal(t, 0, s.ReadInt("EcoToPlc/xWatchDog"))
	assert.False(t, s.ReadBool("EcoToPlc/xWatchDog"))

	s.Write("EcoToPlc/xWatchDog", varspace.Bool(true))
	v, ok := s.Read("EcoToPlc/xWatchDog")
	require.True(t, ok)
	assert.True(t, v.B)
	assert.True(t, s.ReadBool("EcoToPlc/xWatchDog"))

	s.Write("PlcToEco/StationData/0/iCycle", varspace.Int(100))
	assert.Equal(t, 100, s.ReadInt("PlcToEco/StationData/0/iCycle"))
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, varspace.Int(5).Equal(varspace.Int(5)))
	assert.False(t, varspace.Int(5).Equal(varspace.Int(6)))
	assert.False(t, varspace.Int(5).Equal(varspace.Bool(false)))
	assert.True(t, varspace.String("x").Equal(varspace.String("x")))
}

func TestSpace_ListPaths(t *testing.T) {
	s := varspace.New()
	s.Write("PlcToEco/StationData/0/iCycle", varspace.Int(1))
	s.Write("PlcToEco/StationData/1/iCycle", varspace.Int(2))
	s.Write("EcoToPlc/xWatchDog", varspace.Bool(false))

	paths := s.ListPaths("PlcToEco/")
	assert.Len(t, paths, 2)

	all := s.ListPaths("")
	assert.Len(t, all, 3)
}

func TestSpace_SubscribeReceivesChanges(t *testing.T) {
	s := varspace.New()
	sub := s.Subscribe()
	defer sub.Close()

	s.Write("EcoToPlc/xWatchDog", varspace.Bool(true))

	change := <-sub.C
	assert.Equal(t, "EcoToPlc/xWatchDog", change.Path)
	assert.True(t, change.Value.B)
}

func TestSpace_SubscribeClose(t *testing.T) {
	s := varspace.New()
	sub := s.Subscribe()
	sub.Close()

	_, ok := <-sub.C
	assert.False(t, ok, "channel should be closed")
}

// ReadCancelAssignment honors the lift-1-only historic typo alias
// "iCancelAssignent" (missing 't'), per spec §6/§9.
func TestReadCancelAssignment_Lift1AliasAccepted(t *testing.T) {
	s := varspace.New()
	p := varspace.EcoToPlc(1)

	require.NotEmpty(t, p.CancelAssignmentAlias)
	s.Write(p.CancelAssignmentAlias, varspace.Int(7))

	assert.Equal(t, 7, varspace.ReadCancelAssignment(s, 1))
}

func TestReadCancelAssignment_CanonicalPathWins(t *testing.T) {
	s := varspace.New()
	p := varspace.EcoToPlc(1)

	s.Write(p.CancelAssignment, varspace.Int(5))
	s.Write(p.CancelAssignmentAlias, varspace.Int(7))

	assert.Equal(t, 5, varspace.ReadCancelAssignment(s, 1))
}

// Lift 2 never gets the typo alias: the canonical path is the only
// accepted source.
func TestReadCancelAssignment_Lift2HasNoAlias(t *testing.T) {
	s := varspace.New()
	p := varspace.EcoToPlc(2)

	assert.Empty(t, p.CancelAssignmentAlias)

	s.Write(p.CancelAssignment, varspace.Int(3))
	assert.Equal(t, 3, varspace.ReadCancelAssignment(s, 2))
}

func TestPlcToEco_PathsAreIndexedByStationSlot(t *testing.T) {
	p0 := varspace.PlcToEco(1, 0)
	p1 := varspace.PlcToEco(1, 1)

	assert.Equal(t, "PlcToEco/StationData/0/iCycle", p0.Cycle)
	assert.Equal(t, "PlcToEco/StationData/1/iCycle", p1.Cycle)
	assert.Equal(t, "PlcToEco/Elevator1/xTrayInElevator", p0.TrayInElevator)
	assert.Equal(t, "PlcToEco/Elevator1/xTrayInElevator", p1.TrayInElevator)
}
