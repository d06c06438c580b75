package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ecotrip/orchestrator/config"
	"github.com/ecotrip/orchestrator/domain"
	"github.com/ecotrip/orchestrator/internal/adapter/extractor"
	"github.com/ecotrip/orchestrator/internal/adapter/planner"
	"github.com/ecotrip/orchestrator/internal/service"
	"github.com/ecotrip/orchestrator/pkg/logger"
	"github.com/ecotrip/orchestrator/policy"
	"github.com/ecotrip/orchestrator/store"
	"github.com/ecotrip/orchestrator/tests/helpers"
)

// The user-visible reply texts, restated here so a typo in the production
// constants cannot silently pass.
const (
	wantGreetingFallback = "Hello! I'm helping you plan your trip. Where would you like to go and when?"
	wantPlanningFallback = "I'd be happy to help you plan your sustainable travel! Could you tell me where you'd like to go and when?"
	wantPlanningDefault  = "Let me help you plan your trip!"
	wantCompletionNotice = "\n\nExcellent! I have all the information needed for your sustainable travel planning."
	wantRedirectWithData = "I'd love to chat, but let's focus on planning your trip first. What other travel details can you share with me?"
	wantRedirectNoData   = "I'm here to help you plan sustainable travel. Where would you like to go for your next trip?"
	wantBlockedResponse  = "I can only help with travel planning. Please ask about destinations, accommodations, or travel advice."
	wantErrorResponse    = "I encountered an issue processing your request. Could you please try again?"
	wantRedactedResponse = "[SENSITIVE DATA REDACTED]"
)

// scriptedExtractor serves queued replies per prompt kind and records every
// call it receives.
type scriptedExtractor struct {
	replies map[extractor.Kind][]string
	errs    map[extractor.Kind]error
	calls   []extractor.Kind
	inputs  []*extractor.Input
}

func newScript() *scriptedExtractor {
	return &scriptedExtractor{
		replies: map[extractor.Kind][]string{},
		errs:    map[extractor.Kind]error{},
	}
}

func (f *scriptedExtractor) queue(kind extractor.Kind, replies ...string) {
	f.replies[kind] = append(f.replies[kind], replies...)
}

func (f *scriptedExtractor) fail(kind extractor.Kind, err error) {
	f.errs[kind] = err
}

func (f *scriptedExtractor) Invoke(_ context.Context, kind extractor.Kind, in *extractor.Input) (string, error) {
	f.calls = append(f.calls, kind)
	f.inputs = append(f.inputs, in)

	if err := f.errs[kind]; err != nil {
		return "", err
	}

	queue := f.replies[kind]
	if len(queue) == 0 {
		return "", fmt.Errorf("no scripted reply for kind %s", kind)
	}
	f.replies[kind] = queue[1:]
	return queue[0], nil
}

var _ extractor.Client = (*scriptedExtractor)(nil)

// failingStore wraps a real store and fails selected operations.
type failingStore struct {
	store.Store
	getErr    error
	updateErr error
}

func (s *failingStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.Store.Get(ctx, sessionID)
}

func (s *failingStore) Update(ctx context.Context, sessionID string, patch *store.Patch) (*domain.Session, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.Store.Update(ctx, sessionID, patch)
}

func testConfig(policyEnabled bool) *config.Config {
	return &config.Config{
		PolicyEnabled: policyEnabled,
		PolicyTimeout: time.Second,
	}
}

func newTestService(t *testing.T, script *scriptedExtractor, pl *planner.Client, pe *policy.Engine) (*service.Service, store.Store) {
	t.Helper()
	st := helpers.NewTestMemoryStore(t)
	svc := service.New(st, script, pl, pe, testConfig(pe != nil), logger.NewNop())
	return svc, st
}

func strPtr(s string) *string     { return &s }
func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

// reqWithMandatory fills exactly the six mandatory fields.
func reqWithMandatory() *domain.Requirements {
	req := domain.NewRequirements()
	req.DestinationCity = strPtr("Singapore")
	req.TripDates.StartDate = strPtr("2025-12-20")
	req.TripDates.EndDate = strPtr("2025-12-25")
	req.DurationDays = intPtr(5)
	req.Travelers.Adults = intPtr(2)
	req.Travelers.Children = intPtr(1)
	req.BudgetTotalSGD = floatPtr(2000)
	req.Pace = strPtr("relaxed")
	return req
}

// reqAllFilled fills the mandatory fields and all seven optional slots.
func reqAllFilled() *domain.Requirements {
	req := reqWithMandatory()
	req.Optional.EcoPreferences = strPtr("low-carbon transport")
	req.Optional.DietaryPreferences = strPtr("vegetarian")
	req.Optional.Interests = []string{"nature", "museums"}
	req.Optional.Uninterests = []string{"nightlife"}
	req.Optional.AccessibilityNeeds = strPtr("none")
	req.Optional.AccommodationLocation.Neighborhood = strPtr("Tiong Bahru")
	req.Optional.GroupType = strPtr("family")
	return req
}

// extractionReply renders a requirements document into the tagged-section
// format the collection model replies with.
func extractionReply(t *testing.T, req *domain.Requirements, response, phase string) string {
	t.Helper()
	doc, err := json.Marshal(map[string]any{"requirements": req})
	require.NoError(t, err)
	return fmt.Sprintf("EXTRACTED_JSON: %s\nRESPONSE: %s\nPHASE: %s", doc, response, phase)
}
