package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ecotrip/orchestrator/domain"
	"github.com/ecotrip/orchestrator/internal/adapter/extractor"
	"github.com/ecotrip/orchestrator/store"
)

// historyWindow is the number of trailing turns handed to the extraction
// model as conversation context.
const historyWindow = 6

const (
	greetingFallback = "Hello! I'm helping you plan your trip. Where would you like to go and when?"
	planningFallback = "I'd be happy to help you plan your sustainable travel! Could you tell me where you'd like to go and when?"
	planningDefault  = "Let me help you plan your trip!"
	completionSuffix = "\n\nExcellent! I have all the information needed for your sustainable travel planning."

	redirectWithData = "I'd love to chat, but let's focus on planning your trip first. What other travel details can you share with me?"
	redirectNoData   = "I'm here to help you plan sustainable travel. Where would you like to go for your next trip?"
)

// HandleTurn runs the branch for the classified intent, appends the user and
// agent turns to the history and persists history, requirements and phase as
// one store update. Branch-level model failures degrade to hardcoded fallback
// replies; only a store failure is returned as an error.
func (s *Service) HandleTurn(ctx context.Context, sess *domain.Session, message string, intent domain.Intent) (*domain.TurnOutcome, error) {
	var (
		response  string
		phase     = sess.Phase
		req       = sess.Requirements
		extracted bool
	)

	switch intent {
	case domain.IntentGreeting:
		response, phase = s.greetingTurn(ctx, message)
	case domain.IntentPlanning:
		response, req, phase, extracted = s.planningTurn(ctx, sess, message)
	default:
		response = s.redirectTurn(sess)
	}

	completion := domain.EvaluateCompletion(req)

	history := append(append([]domain.Turn{}, sess.ConversationHistory...),
		domain.Turn{Role: domain.RoleUser, Message: message},
		domain.Turn{Role: domain.RoleAgent, Message: response},
	)

	updated, err := s.store.Update(ctx, sess.SessionID, &store.Patch{
		ConversationHistory:  history,
		Requirements:         req,
		Phase:                store.PhasePtr(phase),
		LastIntent:           store.IntentPtr(intent),
		RequirementsComplete: store.BoolPtr(completion.MandatoryComplete),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist turn: %w", err)
	}
	*sess = *updated

	return &domain.TurnOutcome{
		Response:              response,
		Intent:                intent,
		Phase:                 phase,
		Completion:            completion,
		Requirements:          req,
		Interests:             domain.ExtractInterests(req),
		RequirementsExtracted: extracted,
	}, nil
}

// greetingTurn generates the transition-to-planning greeting. The phase is
// reset to initial; requirements are untouched.
func (s *Service) greetingTurn(ctx context.Context, message string) (string, domain.Phase) {
	raw, err := s.extractor.Invoke(ctx, extractor.KindGreetingTransition, &extractor.Input{UserInput: message})
	if err != nil {
		s.log.Warn("greeting generation failed, using fallback", zap.Error(err))
		return greetingFallback, domain.PhaseInitial
	}

	response := strings.TrimSpace(raw)
	if response == "" {
		response = greetingFallback
	}
	return response, domain.PhaseInitial
}

// planningTurn runs requirements collection over the recent history. A reply
// whose EXTRACTED_JSON parses replaces the document wholesale; otherwise the
// current document is kept. Reaching all_complete forces the complete phase
// and appends the completion notice to the reply.
func (s *Service) planningTurn(ctx context.Context, sess *domain.Session, message string) (string, *domain.Requirements, domain.Phase, bool) {
	in := &extractor.Input{
		UserInput:    message,
		History:      sess.RecentHistory(historyWindow),
		Requirements: sess.Requirements,
		Phase:        sess.Phase,
	}

	raw, err := s.extractor.Invoke(ctx, extractor.KindRequirementsCollection, in)
	if err != nil {
		s.log.Warn("requirements collection failed, using fallback", zap.Error(err))
		return planningFallback, sess.Requirements, sess.Phase, false
	}

	reply := extractor.ParseReply(raw)

	req := sess.Requirements
	extracted := false
	if reply.HasRequirements {
		req = reply.Requirements
		extracted = true
	} else {
		s.log.Warn("model reply carried no parseable extraction, keeping current requirements",
			zap.String("session_id", sess.SessionID))
	}

	response := planningDefault
	if reply.HasResponse {
		response = reply.Response
	}

	phase := sess.Phase
	if reply.HasPhase {
		phase = reply.Phase
	}

	if completion := domain.EvaluateCompletion(req); completion.AllComplete {
		phase = domain.PhaseComplete
		response += completionSuffix
	}

	return response, req, phase, extracted
}

// redirectTurn answers an off-topic message. The variant depends on whether
// any mandatory data has been collected yet.
func (s *Service) redirectTurn(sess *domain.Session) string {
	if sess.Requirements.HasMandatoryData() {
		return redirectWithData
	}
	return redirectNoData
}
