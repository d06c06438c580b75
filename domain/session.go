package domain

import "time"

// Turn is a single entry in the conversation history.
type Turn struct {
	Role    Role   `json:"role"`
	Message string `json:"message"`
}

// SuccessMetrics tracks per-session outcome counters used by trust scoring.
type SuccessMetrics struct {
	ResponsesGenerated      int `json:"responses_generated"`
	CoordinationsSuccessful int `json:"coordinations_successful"`
}

// Session is the per-conversation record held in the session store. It is
// read-modify-written as a whole unit per turn; concurrent turns for the same
// session id are last-write-wins.
type Session struct {
	SessionID  string    `json:"session_id"`
	UserID     string    `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`

	ConversationHistory []Turn        `json:"conversation_history"`
	Requirements        *Requirements `json:"requirements"`
	Phase               Phase         `json:"phase"`

	ConversationState    ConversationState `json:"conversation_state"`
	LastIntent           Intent            `json:"last_intent,omitempty"`
	RequirementsComplete bool              `json:"requirements_complete"`

	TrustScore     float64        `json:"trust_score"`
	ErrorCount     int            `json:"error_count"`
	SuccessMetrics SuccessMetrics `json:"success_metrics"`

	// Finalization anchors. InitialTimestamp is established once and reused so
	// repeated finalizations update the same snapshot object.
	InitialTimestamp      string `json:"initial_timestamp,omitempty"`
	InitialJSONKey        string `json:"initial_json_s3_key,omitempty"`
	InitialJSONUploaded   bool   `json:"initial_json_uploaded"`
	PlanningAgentNotified bool   `json:"planning_agent_notified"`
	PlanningAgentStatus   string `json:"planning_agent_status,omitempty"`
}

// NewSession returns a default-initialized session record.
func NewSession(sessionID, userID string) *Session {
	now := time.Now().UTC()
	return &Session{
		SessionID:           sessionID,
		UserID:              userID,
		CreatedAt:           now,
		LastActive:          now,
		ConversationHistory: []Turn{},
		Requirements:        NewRequirements(),
		Phase:               PhaseInitial,
		ConversationState:   StateGreetingProcessed,
		TrustScore:          1.0,
	}
}

// RecentHistory returns the last n turns, or the whole history when shorter.
func (s *Session) RecentHistory(n int) []Turn {
	if n <= 0 || len(s.ConversationHistory) <= n {
		return s.ConversationHistory
	}
	return s.ConversationHistory[len(s.ConversationHistory)-n:]
}
