// Package domain defines the core domain models for the orchestrator.
package domain

// Intent represents the classified intent of a user turn.
type Intent string

const (
	IntentGreeting Intent = "greeting"
	IntentPlanning Intent = "planning"
	IntentOther    Intent = "other"

	// IntentBlocked and IntentError are gateway-level response markers, never
	// produced by classification.
	IntentBlocked Intent = "blocked"
	IntentError   Intent = "error"
)

// Phase represents the collection progress of a session.
type Phase string

const (
	PhaseInitial    Phase = "initial"
	PhaseCollecting Phase = "collecting"
	PhaseComplete   Phase = "complete"
)

// ValidPhase reports whether s is one of the known phases.
func ValidPhase(s string) bool {
	switch Phase(s) {
	case PhaseInitial, PhaseCollecting, PhaseComplete:
		return true
	}
	return false
}

// CompletionState represents the derived completion status of a requirements document.
type CompletionState string

const (
	CompletionIncomplete        CompletionState = "incomplete"
	CompletionMandatoryComplete CompletionState = "mandatory_complete"
	CompletionAllComplete       CompletionState = "all_complete"
)

// ConversationState represents the gateway-level marker stored on the session.
type ConversationState string

const (
	StateGreetingProcessed     ConversationState = "greeting_processed"
	StateCollecting            ConversationState = "collecting_requirements"
	StateRequirementsComplete  ConversationState = "requirements_complete"
	StateInputBlocked          ConversationState = "input_blocked"
)

// Role represents the author of a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// PlannerStatus values recorded after a downstream planning-agent call.
const (
	PlannerStatusSuccess = "success"
	PlannerStatusTimeout = "timeout"
	PlannerStatusError   = "error"
)
