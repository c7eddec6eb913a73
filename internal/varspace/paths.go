package varspace

import "fmt"

// Path builders for the EcoToPlc/PlcToEco variable tree of spec §6.
// Centralising them here keeps every other package from hand-building
// path strings, which would otherwise be the easiest place for the
// lift-1 "iCancelAssignent" typo compatibility requirement to get lost.

const (
	PathWatchDog = "EcoToPlc/xWatchDog"

	PathStationAmount     = "PlcToEco/StationDataToEco/iAmountOfSations"
	PathStationMainStatus = "PlcToEco/StationDataToEco/iMainStatus"
)

// EcoToPlc returns the supervisor-write paths for one lift (1 or 2).
type EcoToPlcPaths struct {
	AcknowledgeMovement string
	CancelAssignment    string
	// CancelAssignmentAlias is the historic misspelling
	// "iCancelAssignent" accepted only on lift 1, per spec §6 and §9.
	CancelAssignmentAlias string
	ClearError            string
	TaskType              string
	Origination           string
	Destination           string
}

func EcoToPlc(lift int) EcoToPlcPaths {
	base := fmt.Sprintf("EcoToPlc/Elevator%d", lift)
	assignBase := fmt.Sprintf("%s/Elevator%dEcoSystAssignment", base, lift)
	p := EcoToPlcPaths{
		AcknowledgeMovement: base + "/xAcknowledgeMovement",
		CancelAssignment:    base + "/iCancelAssignment",
		ClearError:          base + "/xClearError",
		TaskType:            assignBase + "/iTaskType",
		Origination:         assignBase + "/iOrigination",
		Destination:         assignBase + "/iDestination",
	}
	if lift == 1 {
		p.CancelAssignmentAlias = base + "/iCancelAssignent"
	}
	return p
}

// PlcToEcoPaths are the core-write paths for one lift's StationData
// slot (index i, 0-based) and Elevator mirror.
type PlcToEcoPaths struct {
	Cycle                   string
	StationStatus           string
	HandshakeJobType        string
	HandshakeRowNr          string
	CancelAssignment        string
	// CancelAssignmentAlias mirrors CancelAssignment under the historic
	// misspelling "iCancelAssignent", published on lift 1 only: spec §6
	// requires the core to both accept and publish that spelling there.
	CancelAssignmentAlias   string
	ShortAlarmDescription   string
	AlarmSolution           string
	StationStateDescription string

	SeqStepComment    string
	RowLocation       string
	TrayInElevator    string
	CurrentForkSide   string
	ErrorCode         string
}

func PlcToEco(lift int, index int) PlcToEcoPaths {
	station := fmt.Sprintf("PlcToEco/StationData/%d", index)
	elevator := fmt.Sprintf("PlcToEco/Elevator%d", lift)
	p := PlcToEcoPaths{
		Cycle:                   station + "/iCycle",
		StationStatus:           station + "/iStationStatus",
		HandshakeJobType:        station + "/Handshake/iJobType",
		HandshakeRowNr:          station + "/Handshake/iRowNr",
		CancelAssignment:        station + "/iCancelAssignment",
		ShortAlarmDescription:   station + "/sShortAlarmDescription",
		AlarmSolution:           station + "/sAlarmSolution",
		StationStateDescription: station + "/sStationStateDescription",

		SeqStepComment:  elevator + "/sSeq_Step_comment",
		RowLocation:     elevator + "/iElevatorRowLocation",
		TrayInElevator:  elevator + "/xTrayInElevator",
		CurrentForkSide: elevator + "/iCurrentForkSide",
		ErrorCode:       elevator + "/iErrorCode",
	}
	if lift == 1 {
		p.CancelAssignmentAlias = station + "/iCancelAssignent"
	}
	return p
}

// ReadCancelAssignment reads a lift's EcoToPlc cancel-request cell,
// honoring the lift-1 alias: if either the canonical or the aliased
// path is nonzero, the cancel is considered requested.
func ReadCancelAssignment(s *Space, lift int) int {
	p := EcoToPlc(lift)
	if v := s.ReadInt(p.CancelAssignment); v != 0 {
		return v
	}
	if p.CancelAssignmentAlias != "" {
		return s.ReadInt(p.CancelAssignmentAlias)
	}
	return 0
}
