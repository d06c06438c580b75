package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ecotrip/orchestrator/config"
	"github.com/ecotrip/orchestrator/domain"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	_, err := New(&config.Config{StoreBackend: "cassandra"})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestStorePutGet(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			missing, err := s.Get(ctx, "nope")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if missing != nil {
				t.Fatalf("expected nil for absent session, got %+v", missing)
			}

			sess := domain.NewSession("s1", "u1")
			sess.Phase = domain.PhaseCollecting
			sess.ConversationHistory = []domain.Turn{{Role: domain.RoleUser, Message: "hi"}}
			if err := s.Put(ctx, sess); err != nil {
				t.Fatalf("Put failed: %v", err)
			}

			got, err := s.Get(ctx, "s1")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got == nil || got.UserID != "u1" || got.Phase != domain.PhaseCollecting {
				t.Fatalf("unexpected session: %+v", got)
			}
			if len(got.ConversationHistory) != 1 || got.ConversationHistory[0].Message != "hi" {
				t.Fatalf("unexpected history: %+v", got.ConversationHistory)
			}
			if got.Requirements == nil {
				t.Fatalf("expected requirements document")
			}
		})
	}
}

func TestStoreUpdateCreatesDefault(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.Update(ctx, "fresh", &Patch{Phase: PhasePtr(domain.PhaseCollecting)})
			if err != nil {
				t.Fatalf("Update failed: %v", err)
			}
			if got.SessionID != "fresh" {
				t.Fatalf("unexpected session id: %q", got.SessionID)
			}
			if got.Phase != domain.PhaseCollecting {
				t.Fatalf("expected patched phase, got %q", got.Phase)
			}
			if got.Requirements == nil {
				t.Fatalf("expected default requirements document")
			}
			if got.TrustScore != 1.0 {
				t.Fatalf("expected default trust score, got %v", got.TrustScore)
			}

			stored, err := s.Get(ctx, "fresh")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if stored == nil || stored.Phase != domain.PhaseCollecting {
				t.Fatalf("default record not persisted: %+v", stored)
			}
		})
	}
}

func TestStoreUpdateMergesSetFieldsOnly(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			sess := domain.NewSession("s2", "u2")
			sess.Phase = domain.PhaseCollecting
			sess.ConversationHistory = []domain.Turn{
				{Role: domain.RoleUser, Message: "hello"},
				{Role: domain.RoleAgent, Message: "hi there"},
			}
			sess.LastActive = time.Now().UTC().Add(-time.Hour)
			if err := s.Put(ctx, sess); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			before := sess.LastActive

			got, err := s.Update(ctx, "s2", &Patch{TrustScore: Float64Ptr(0.7)})
			if err != nil {
				t.Fatalf("Update failed: %v", err)
			}

			if got.TrustScore != 0.7 {
				t.Fatalf("expected trust 0.7, got %v", got.TrustScore)
			}
			if got.Phase != domain.PhaseCollecting {
				t.Fatalf("phase changed unexpectedly: %q", got.Phase)
			}
			if len(got.ConversationHistory) != 2 {
				t.Fatalf("history changed unexpectedly: %+v", got.ConversationHistory)
			}
			if !got.LastActive.After(before) {
				t.Fatalf("last_active not refreshed: %v vs %v", got.LastActive, before)
			}
		})
	}
}

func TestStoreUpdateReplacesHistoryAndRequirements(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Put(ctx, domain.NewSession("s3", "u3")); err != nil {
				t.Fatalf("Put failed: %v", err)
			}

			req := domain.NewRequirements()
			dest := "Singapore"
			req.DestinationCity = &dest
			history := []domain.Turn{
				{Role: domain.RoleUser, Message: "I want to visit Singapore"},
				{Role: domain.RoleAgent, Message: "Great choice!"},
			}

			got, err := s.Update(ctx, "s3", &Patch{
				ConversationHistory: history,
				Requirements:        req,
			})
			if err != nil {
				t.Fatalf("Update failed: %v", err)
			}

			if len(got.ConversationHistory) != 2 {
				t.Fatalf("unexpected history: %+v", got.ConversationHistory)
			}
			if got.Requirements.DestinationCity == nil || *got.Requirements.DestinationCity != "Singapore" {
				t.Fatalf("unexpected requirements: %+v", got.Requirements)
			}
		})
	}
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Put(ctx, domain.NewSession("s4", "u4")); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			if err := s.Delete(ctx, "s4"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}

			got, err := s.Get(ctx, "s4")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got != nil {
				t.Fatalf("expected deleted session to be absent")
			}

			if err := s.Delete(ctx, "s4"); err != nil {
				t.Fatalf("deleting absent session should not error: %v", err)
			}
		})
	}
}

func TestStoreSnapshotUpsert(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			missing, err := s.GetSnapshot(ctx, "sessions/none.json")
			if err != nil {
				t.Fatalf("GetSnapshot failed: %v", err)
			}
			if missing != nil {
				t.Fatalf("expected nil for absent snapshot")
			}

			key := domain.SnapshotKey("s5", "20251220_100000")
			snap := &domain.Snapshot{
				StatusCode:   200,
				Interest:     []string{"nature"},
				Message:      []domain.Turn{{Role: domain.RoleUser, Message: "hi"}},
				JSONFilename: domain.SnapshotFilename("s5"),
				SessionID:    "s5",
				Timestamp:    "2025-12-20T10:00:00Z",
			}
			if err := s.PutSnapshot(ctx, key, snap); err != nil {
				t.Fatalf("PutSnapshot failed: %v", err)
			}

			got, err := s.GetSnapshot(ctx, key)
			if err != nil {
				t.Fatalf("GetSnapshot failed: %v", err)
			}
			if got == nil || got.StatusCode != 200 || len(got.Interest) != 1 {
				t.Fatalf("unexpected snapshot: %+v", got)
			}

			snap.StatusCode = 500
			if err := s.PutSnapshot(ctx, key, snap); err != nil {
				t.Fatalf("PutSnapshot overwrite failed: %v", err)
			}
			got, err = s.GetSnapshot(ctx, key)
			if err != nil {
				t.Fatalf("GetSnapshot failed: %v", err)
			}
			if got.StatusCode != 500 {
				t.Fatalf("snapshot not overwritten: %+v", got)
			}
		})
	}
}
