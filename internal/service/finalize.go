package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/ecotrip/orchestrator/domain"
	"github.com/ecotrip/orchestrator/pkg/metrics"
	"github.com/ecotrip/orchestrator/store"
)

// snapshotTokenFormat is the per-session timestamp token, established once and
// reused so every finalization addresses the same snapshot key.
const snapshotTokenFormat = "20060102_150405"

// Finalize persists the completion snapshot and, at all_complete, hands the
// session to the planning agent at most once. Every step degrades instead of
// failing the turn: a build failure stores the minimal error snapshot and a
// downstream failure is recorded as auxiliary status only.
func (s *Service) Finalize(ctx context.Context, sess *domain.Session, completion domain.CompletionInfo) *domain.FinalizeOutcome {
	token := sess.InitialTimestamp
	tokenEstablished := false
	if token == "" {
		token = time.Now().UTC().Format(snapshotTokenFormat)
		tokenEstablished = true
	}
	key := domain.SnapshotKey(sess.SessionID, token)

	snap, err := s.buildSnapshot(ctx, sess)
	if err != nil {
		s.log.Error("failed to build finalization snapshot",
			zap.String("session_id", sess.SessionID), zap.Error(err))
		snap = errorSnapshot(sess.SessionID, err)
	}

	uploaded := sess.InitialJSONUploaded
	if err := s.store.PutSnapshot(ctx, key, snap); err != nil {
		s.log.Error("failed to persist finalization snapshot",
			zap.String("session_id", sess.SessionID), zap.String("key", key), zap.Error(err))
		metrics.SessionsFinalized.WithLabelValues("error").Inc()
	} else {
		uploaded = true
		metrics.SessionsFinalized.WithLabelValues(string(completion.State())).Inc()
	}

	notified := sess.PlanningAgentNotified
	plannerStatus := sess.PlanningAgentStatus
	if completion.AllComplete && !notified {
		if s.planner == nil {
			s.log.Warn("planning agent not configured, skipping handoff",
				zap.String("session_id", sess.SessionID))
		} else {
			err := s.planner.Notify(ctx, snap)
			notified = true
			plannerStatus = plannerOutcome(err)
			metrics.PlannerNotifications.WithLabelValues(plannerStatus).Inc()
			if err != nil {
				s.log.Error("planning agent handoff failed",
					zap.String("session_id", sess.SessionID),
					zap.String("status", plannerStatus), zap.Error(err))
			}
		}
	}

	patch := &store.Patch{
		InitialJSONKey:      store.StringPtr(key),
		InitialJSONUploaded: store.BoolPtr(uploaded),
	}
	if tokenEstablished {
		patch.InitialTimestamp = store.StringPtr(token)
	}
	if notified != sess.PlanningAgentNotified || plannerStatus != sess.PlanningAgentStatus {
		patch.PlanningAgentNotified = store.BoolPtr(notified)
		patch.PlanningAgentStatus = store.StringPtr(plannerStatus)
	}

	if updated, err := s.store.Update(ctx, sess.SessionID, patch); err != nil {
		s.log.Error("failed to persist finalization state",
			zap.String("session_id", sess.SessionID), zap.Error(err))
	} else {
		*sess = *updated
	}

	return &domain.FinalizeOutcome{
		SnapshotKey:   key,
		Uploaded:      uploaded,
		PlannerStatus: plannerStatus,
	}
}

// buildSnapshot assembles the snapshot from the stored record, falling back
// to the in-memory record when the store has no copy yet.
func (s *Service) buildSnapshot(ctx context.Context, sess *domain.Session) (*domain.Snapshot, error) {
	stored, err := s.store.Get(ctx, sess.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read session for snapshot: %w", err)
	}
	if stored == nil {
		stored = sess
	}

	req := stored.Requirements
	if req == nil {
		req = domain.NewRequirements()
	}

	return &domain.Snapshot{
		StatusCode:   200,
		Interest:     domain.ExtractInterests(req),
		Message:      append([]domain.Turn{}, stored.ConversationHistory...),
		JSONFilename: domain.SnapshotFilename(stored.SessionID),
		SessionID:    stored.SessionID,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Requirements: req,
	}, nil
}

// errorSnapshot is the minimal snapshot stored when the full one cannot be built.
func errorSnapshot(sessionID string, err error) *domain.Snapshot {
	return &domain.Snapshot{
		StatusCode:   500,
		Interest:     []string{},
		Message:      []domain.Turn{},
		JSONFilename: domain.SnapshotFilename(sessionID),
		SessionID:    sessionID,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Error:        err.Error(),
	}
}

// plannerOutcome maps a notification error to the recorded status.
func plannerOutcome(err error) string {
	if err == nil {
		return domain.PlannerStatusSuccess
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return domain.PlannerStatusTimeout
	}
	return domain.PlannerStatusError
}
