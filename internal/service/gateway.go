package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ecotrip/orchestrator/domain"
	"github.com/ecotrip/orchestrator/pkg/metrics"
	"github.com/ecotrip/orchestrator/store"
)

const (
	blockedResponse = "I can only help with travel planning. Please ask about destinations, accommodations, or travel advice."
	errorResponse   = "I encountered an issue processing your request. Could you please try again?"

	// degradedTrustScore is reported on blocked and errored turns.
	degradedTrustScore = 0.5

	defaultUserID = "anonymous"
)

// Process runs the full pipeline for one chat turn: ensure session, validate
// input, classify, orchestrate, validate output, persist gateway state and
// finalize when the mandatory set is filled. Internal failures degrade to a
// generic error response instead of surfacing.
func (s *Service) Process(ctx context.Context, req *domain.ChatRequest) *domain.ChatResponse {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()[:8]
	}
	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	}
	log := s.log.WithSession(sessionID, userID)

	sess, err := s.ensureSession(ctx, sessionID, userID)
	if err != nil {
		log.Error("failed to ensure session", zap.Error(err))
		metrics.RecordTurn(string(domain.IntentError), "error")
		return errorChatResponse(sessionID)
	}

	verdict := s.ValidateInput(ctx, req.Message)
	if !verdict.Allowed {
		log.Warn("input blocked",
			zap.Float64("risk", verdict.Risk),
			zap.Strings("threats", verdict.Threats),
			zap.String("reason", verdict.Reason))
		return s.blockedTurn(ctx, sess)
	}

	intent := s.ClassifyIntent(ctx, req.Message)

	outcome, err := s.HandleTurn(ctx, sess, req.Message, intent)
	if err != nil {
		log.Error("turn failed", zap.String("intent", string(intent)), zap.Error(err))
		s.recordTurnError(ctx, sess)
		metrics.RecordTurn(string(intent), "error")
		return errorChatResponse(sessionID)
	}

	response := s.ValidateOutput(ctx, outcome.Response)

	state := conversationState(intent, outcome.Completion)

	m := sess.SuccessMetrics
	m.ResponsesGenerated++
	if outcome.RequirementsExtracted {
		m.CoordinationsSuccessful++
	}

	trust := TrustScore(sess, verdict.Risk)

	if updated, err := s.store.Update(ctx, sessionID, &store.Patch{
		ConversationState: store.StatePtr(state),
		TrustScore:        store.Float64Ptr(trust),
		SuccessMetrics:    store.MetricsPtr(m),
	}); err != nil {
		log.Error("failed to persist gateway state", zap.Error(err))
	} else {
		*sess = *updated
	}

	resp := &domain.ChatResponse{
		Success:               true,
		Response:              response,
		SessionID:             sessionID,
		Intent:                intent,
		ConversationState:     state,
		TrustScore:            trust,
		CompletionStatus:      outcome.Completion.State(),
		OptionalProgress:      fmt.Sprintf("%d/%d", outcome.Completion.OptionalFilled, domain.OptionalSlotCount),
		RequirementsExtracted: outcome.RequirementsExtracted,
	}

	if outcome.Completion.MandatoryComplete {
		fin := s.Finalize(ctx, sess, outcome.Completion)
		resp.CollectionComplete = outcome.Completion.AllComplete
		resp.FinalJSONKey = fin.SnapshotKey
		resp.PlanningAgentStatus = fin.PlannerStatus
	}

	metrics.RecordTurn(string(intent), "ok")
	log.Info("turn processed",
		zap.String("intent", string(intent)),
		zap.String("completion", string(outcome.Completion.State())),
		zap.String("trust_level", TrustLevel(trust)))
	return resp
}

func (s *Service) ensureSession(ctx context.Context, sessionID, userID string) (*domain.Session, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if sess != nil {
		return sess, nil
	}

	sess = domain.NewSession(sessionID, userID)
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

// blockedTurn persists the blocked marker and shapes the refusal response.
// The turn is not added to the conversation history.
func (s *Service) blockedTurn(ctx context.Context, sess *domain.Session) *domain.ChatResponse {
	metrics.RecordTurn(string(domain.IntentBlocked), "blocked")

	if _, err := s.store.Update(ctx, sess.SessionID, &store.Patch{
		ConversationState: store.StatePtr(domain.StateInputBlocked),
		LastIntent:        store.IntentPtr(domain.IntentBlocked),
		TrustScore:        store.Float64Ptr(degradedTrustScore),
	}); err != nil {
		s.log.Error("failed to persist blocked state",
			zap.String("session_id", sess.SessionID), zap.Error(err))
	}

	return &domain.ChatResponse{
		Success:           false,
		Response:          blockedResponse,
		SessionID:         sess.SessionID,
		Intent:            domain.IntentBlocked,
		ConversationState: domain.StateInputBlocked,
		TrustScore:        degradedTrustScore,
	}
}

func (s *Service) recordTurnError(ctx context.Context, sess *domain.Session) {
	if _, err := s.store.Update(ctx, sess.SessionID, &store.Patch{
		ErrorCount: store.IntPtr(sess.ErrorCount + 1),
	}); err != nil {
		s.log.Error("failed to record turn error",
			zap.String("session_id", sess.SessionID), zap.Error(err))
	}
}

func errorChatResponse(sessionID string) *domain.ChatResponse {
	return &domain.ChatResponse{
		Success:    false,
		Response:   errorResponse,
		SessionID:  sessionID,
		Intent:     domain.IntentError,
		TrustScore: degradedTrustScore,
		Error:      "internal_error",
	}
}

// conversationState maps the turn outcome to the gateway-level marker.
func conversationState(intent domain.Intent, completion domain.CompletionInfo) domain.ConversationState {
	switch {
	case completion.MandatoryComplete:
		return domain.StateRequirementsComplete
	case intent == domain.IntentGreeting:
		return domain.StateGreetingProcessed
	default:
		return domain.StateCollecting
	}
}
