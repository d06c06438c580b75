package service

import (
	"context"
	"fmt"

	"github.com/ecotrip/orchestrator/domain"
)

// GetSession returns the stored record, or (nil, nil) when absent.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

// ResetSession replaces the record with a fresh default under the same id.
// Clearing is a reset, not a removal: the session stays addressable.
func (s *Service) ResetSession(ctx context.Context, sessionID string) error {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	userID := ""
	if sess != nil {
		userID = sess.UserID
	}

	if err := s.store.Put(ctx, domain.NewSession(sessionID, userID)); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	return nil
}
