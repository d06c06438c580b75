// Package store defines the session storage interface and implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ecotrip/orchestrator/domain"
)

// ErrUnknownBackend is returned by the factory for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown store backend")

// Store is the key-value persistence contract for session records and
// finalization snapshots. Implementations are safe for concurrent use across
// sessions; writes to the same session id are last-write-wins.
type Store interface {
	// Get returns the session record, or (nil, nil) when absent.
	Get(ctx context.Context, sessionID string) (*domain.Session, error)

	// Put overwrites the full record. The record carries its own session id.
	Put(ctx context.Context, session *domain.Session) error

	// Update merges the set fields of patch into the stored record, creating a
	// default record first when absent, and always refreshes last_active. The
	// stored result is returned.
	Update(ctx context.Context, sessionID string, patch *Patch) (*domain.Session, error)

	// Delete removes the record. Deleting an absent record is not an error.
	Delete(ctx context.Context, sessionID string) error

	// PutSnapshot persists a finalization snapshot at key, overwriting any
	// previous snapshot stored there.
	PutSnapshot(ctx context.Context, key string, snap *domain.Snapshot) error

	// GetSnapshot returns the snapshot at key, or (nil, nil) when absent.
	GetSnapshot(ctx context.Context, key string) (*domain.Snapshot, error)

	// Close releases backend resources.
	Close() error
}

// Patch is a partial session record. Nil fields are left unchanged; set fields
// replace the stored value at the top level.
type Patch struct {
	ConversationHistory []domain.Turn
	Requirements        *domain.Requirements
	Phase               *domain.Phase

	ConversationState    *domain.ConversationState
	LastIntent           *domain.Intent
	RequirementsComplete *bool

	TrustScore     *float64
	ErrorCount     *int
	SuccessMetrics *domain.SuccessMetrics

	InitialTimestamp      *string
	InitialJSONKey        *string
	InitialJSONUploaded   *bool
	PlanningAgentNotified *bool
	PlanningAgentStatus   *string
}

// Apply merges the patch into the session record and refreshes last_active.
func (p *Patch) Apply(s *domain.Session) {
	if p == nil {
		s.LastActive = time.Now().UTC()
		return
	}
	if p.ConversationHistory != nil {
		s.ConversationHistory = p.ConversationHistory
	}
	if p.Requirements != nil {
		s.Requirements = p.Requirements
	}
	if p.Phase != nil {
		s.Phase = *p.Phase
	}
	if p.ConversationState != nil {
		s.ConversationState = *p.ConversationState
	}
	if p.LastIntent != nil {
		s.LastIntent = *p.LastIntent
	}
	if p.RequirementsComplete != nil {
		s.RequirementsComplete = *p.RequirementsComplete
	}
	if p.TrustScore != nil {
		s.TrustScore = *p.TrustScore
	}
	if p.ErrorCount != nil {
		s.ErrorCount = *p.ErrorCount
	}
	if p.SuccessMetrics != nil {
		s.SuccessMetrics = *p.SuccessMetrics
	}
	if p.InitialTimestamp != nil {
		s.InitialTimestamp = *p.InitialTimestamp
	}
	if p.InitialJSONKey != nil {
		s.InitialJSONKey = *p.InitialJSONKey
	}
	if p.InitialJSONUploaded != nil {
		s.InitialJSONUploaded = *p.InitialJSONUploaded
	}
	if p.PlanningAgentNotified != nil {
		s.PlanningAgentNotified = *p.PlanningAgentNotified
	}
	if p.PlanningAgentStatus != nil {
		s.PlanningAgentStatus = *p.PlanningAgentStatus
	}
	s.LastActive = time.Now().UTC()
}

// Helpers for building patches without intermediate variables.

func BoolPtr(v bool) *bool                                          { return &v }
func IntPtr(v int) *int                                             { return &v }
func Float64Ptr(v float64) *float64                                 { return &v }
func StringPtr(v string) *string                                    { return &v }
func PhasePtr(v domain.Phase) *domain.Phase                         { return &v }
func IntentPtr(v domain.Intent) *domain.Intent                      { return &v }
func StatePtr(v domain.ConversationState) *domain.ConversationState { return &v }
func MetricsPtr(v domain.SuccessMetrics) *domain.SuccessMetrics     { return &v }
