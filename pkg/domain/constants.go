package domain

// StepName identifies a micro-step of the traversal state machine.
// The string values are stable and appear in logs, snapshots and the HTTP API.
type StepName string

const (
	StepStart                  StepName = "START"
	StepCheckAllComponentsDone StepName = "checkAllComponentsDone"
	StepCheckComponentDone     StepName = "checkComponentDone"
	StepCheckEndAdded          StepName = "checkEndAdded"
	StepCheckFrontierEmpty     StepName = "checkLDVEmpty"
	StepFrontierEmpty          StepName = "LDVEmpty"
	StepGetPlace               StepName = "getPlaceFromLDV"
	StepCheckAdded             StepName = "checkAdded"
	StepWasAdded               StepName = "wasAdded"
	StepWasNotAdded            StepName = "wasNotAdded"
	StepNeighborsLoopTop       StepName = "checkNeighborsLoopTop"
	StepNeighborsLoopIf        StepName = "checkNeighborsLoopIf"
	StepNeighborsLoopIfTrue    StepName = "checkNeighborsLoopIfTrue"
	StepNeighborsLoopIfFalse   StepName = "checkNeighborsLoopIfFalse"
	StepFinalizeComponent      StepName = "finalizeComponent"
	StepCheckAnyUnadded        StepName = "checkAnyUnadded"
	StepStartNewComponent      StepName = "startNewComponent"
	StepDoneToTrue             StepName = "doneToTrue"
	StepCleanup                StepName = "cleanup"
	StepDone                   StepName = "DONE"
)

// EndsIteration reports whether completing the step finishes one
// "iteration" of the outer search loop.
func (s StepName) EndsIteration() bool {
	switch s {
	case StepStart, StepCheckAllComponentsDone, StepCheckComponentDone,
		StepCheckEndAdded, StepStartNewComponent, StepCleanup:
		return true
	}
	return false
}

// TerminationReason explains why a run reached DONE.
type TerminationReason string

const (
	ReasonNone               TerminationReason = ""
	ReasonFoundPath          TerminationReason = "found-path"
	ReasonFoundComponent     TerminationReason = "found-component"
	ReasonFoundAllComponents TerminationReason = "found-all-components"
	ReasonSearchFailed       TerminationReason = "search-failed"
)
