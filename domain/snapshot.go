package domain

import "fmt"

// Snapshot is the finalization payload persisted once the mandatory set is
// filled and handed to the downstream planning agent at all_complete. The wire
// shape is consumed downstream; field names and the json_filename format are
// fixed.
type Snapshot struct {
	StatusCode   int           `json:"status_code"`
	Interest     []string      `json:"interest"`
	Message      []Turn        `json:"message"`
	JSONFilename string        `json:"json_filename"`
	SessionID    string        `json:"session_id"`
	Timestamp    string        `json:"timestamp"`
	Requirements *Requirements `json:"requirements,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// SnapshotFilename is the json_filename value embedded in the payload.
func SnapshotFilename(sessionID string) string {
	return fmt.Sprintf("sessions/%s.json", sessionID)
}

// SnapshotKey is the storage key for a session's snapshot. The token is the
// session's stable timestamp anchor, so re-finalization overwrites the same
// object instead of creating a new one.
func SnapshotKey(sessionID, token string) string {
	return fmt.Sprintf("sessions/%s_%s.json", sessionID, token)
}
