package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ecotrip/orchestrator/domain"
	"github.com/ecotrip/orchestrator/internal/adapter/extractor"
)

var (
	greetingKeywords = []string{"hello", "hi", "hey", "good morning", "how are you"}
	planningKeywords = []string{"travel", "trip", "visit", "go", "plan", "book"}
)

// ClassifyIntent determines the intent of a user message. The extraction
// model is asked for a single word; output containing "greeting" or "other"
// maps to that intent and everything else counts as planning. When the model
// is unavailable a keyword heuristic decides instead.
func (s *Service) ClassifyIntent(ctx context.Context, message string) domain.Intent {
	raw, err := s.extractor.Invoke(ctx, extractor.KindBinaryIntent, &extractor.Input{UserInput: message})
	if err != nil {
		s.log.Warn("intent classification failed, using keyword fallback", zap.Error(err))
		return keywordIntent(message)
	}

	verdict := strings.ToLower(strings.TrimSpace(raw))
	if verdict == "" {
		return keywordIntent(message)
	}

	switch {
	case strings.Contains(verdict, "greeting"):
		return domain.IntentGreeting
	case strings.Contains(verdict, "other"):
		return domain.IntentOther
	default:
		return domain.IntentPlanning
	}
}

// keywordIntent is a substring scan over the lowered message. Greeting
// keywords win over planning keywords.
func keywordIntent(message string) domain.Intent {
	lower := strings.ToLower(message)
	for _, kw := range greetingKeywords {
		if strings.Contains(lower, kw) {
			return domain.IntentGreeting
		}
	}
	for _, kw := range planningKeywords {
		if strings.Contains(lower, kw) {
			return domain.IntentPlanning
		}
	}
	return domain.IntentOther
}
