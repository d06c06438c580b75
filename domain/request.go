package domain

// ChatRequest is the inbound conversational turn.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Message   string `json:"message"`
}

// ChatResponse is the shaped result of one turn. Error only ever carries a
// generic marker; internal detail stays in the logs.
type ChatResponse struct {
	Success             bool              `json:"success"`
	Response            string            `json:"response"`
	SessionID           string            `json:"session_id"`
	Intent              Intent            `json:"intent,omitempty"`
	ConversationState   ConversationState `json:"conversation_state,omitempty"`
	TrustScore          float64           `json:"trust_score"`
	CompletionStatus    CompletionState   `json:"completion_status,omitempty"`
	OptionalProgress    string            `json:"optional_progress,omitempty"`
	RequirementsExtracted bool            `json:"requirements_extracted"`
	CollectionComplete  bool              `json:"collection_complete"`
	FinalJSONKey        string            `json:"final_json_s3_key,omitempty"`
	PlanningAgentStatus string            `json:"planning_agent_status,omitempty"`
	Error               string            `json:"error,omitempty"`
}
