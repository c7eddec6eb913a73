package supervisor

import (
	"github.com/roelstierum/plcsim-go/internal/model"
	"github.com/roelstierum/plcsim-go/internal/varspace"
)

// publishAll writes both lifts' PlcToEco mirror plus the station-wide
// fields, per spec §4.7: only values that changed since the last
// publish actually hit the Space, so a tick that didn't move anything
// produces no subscriber traffic.
func (c *Cell) publishAll() {
	c.pub.Set(varspace.PathStationAmount, varspace.Int(2))
	c.pub.Set(varspace.PathStationMainStatus, varspace.Int16(int16(c.mainStatus())))

	for i := 0; i < 2; i++ {
		lift := i + 1
		l := c.seqs[i].Lift()
		paths := varspace.PlcToEco(lift, i)
		l.SeqComment = model.CycleComment(l.Cycle)

		c.pub.Set(paths.Cycle, varspace.Int32(int32(l.Cycle)))
		c.pub.Set(paths.StationStatus, varspace.Int16(int16(statusFor(l.Cycle))))
		c.pub.Set(paths.HandshakeJobType, varspace.Int16(int16(l.HandshakeJobType)))
		c.pub.Set(paths.HandshakeRowNr, varspace.Int16(int16(l.HandshakeRowNr)))
		c.pub.Set(paths.CancelAssignment, varspace.Int16(int16(l.CancelCode)))
		if paths.CancelAssignmentAlias != "" {
			c.pub.Set(paths.CancelAssignmentAlias, varspace.Int16(int16(l.CancelCode)))
		}
		c.pub.Set(paths.ShortAlarmDescription, varspace.String(l.AlarmShort))
		c.pub.Set(paths.AlarmSolution, varspace.String(l.AlarmSolution))
		c.pub.Set(paths.StationStateDescription, varspace.String(l.SeqComment))

		c.pub.Set(paths.SeqStepComment, varspace.String(l.SeqComment))
		c.pub.Set(paths.RowLocation, varspace.Int32(int32(l.Row)))
		// xTrayInElevator is the one path an external write may override
		// directly (spec §4.7/§9); Set still records what the core
		// itself believes so reconcileTrayOverride can detect the next
		// divergence.
		c.pub.Set(paths.TrayInElevator, varspace.Bool(l.TrayPresent))
		c.pub.Set(paths.CurrentForkSide, varspace.Int16(int16(l.ForkSide)))
		c.pub.Set(paths.ErrorCode, varspace.Int32(int32(l.ErrorCode)))
	}
}

// mainStatus rolls the two lifts' status up to the station-wide
// iMainStatus: the worse of the two wins, Err outranking Warn
// outranking anything else, matching a typical PLC station-status
// rollup.
func (c *Cell) mainStatus() model.StationStatus {
	worst := statusFor(c.seqs[0].Lift().Cycle)
	for i := 1; i < 2; i++ {
		s := statusFor(c.seqs[i].Lift().Cycle)
		if statusWeight(s) > statusWeight(worst) {
			worst = s
		}
	}
	return worst
}

func statusWeight(s model.StationStatus) int {
	switch s {
	case model.StatusErr:
		return 3
	case model.StatusWarn:
		return 2
	case model.StatusBoot:
		return 1
	default:
		return 0
	}
}
