package domain

// TurnOutcome is what the orchestrator yields for one handled turn.
type TurnOutcome struct {
	Response              string
	Intent                Intent
	Phase                 Phase
	Completion            CompletionInfo
	Requirements          *Requirements
	Interests             []string
	RequirementsExtracted bool
}

// FinalizeOutcome reports the finalization side effects for a turn. The
// planner status is auxiliary metadata; a downstream failure never undoes the
// persisted snapshot.
type FinalizeOutcome struct {
	SnapshotKey   string
	Uploaded      bool
	PlannerStatus string
}
