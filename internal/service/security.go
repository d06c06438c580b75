package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ecotrip/orchestrator/pkg/metrics"
)

// redactedResponse substitutes an agent reply that matched the redaction policy.
const redactedResponse = "[SENSITIVE DATA REDACTED]"

// InputVerdict is the outcome of input moderation for one message.
type InputVerdict struct {
	Allowed bool
	Risk    float64
	Threats []string
	Reason  string
}

// ValidateInput runs the moderation policy over the user message. A disabled
// or failing policy engine allows the message through (fail-open); only an
// explicit unsafe decision blocks.
func (s *Service) ValidateInput(ctx context.Context, message string) InputVerdict {
	if !s.config.PolicyEnabled || s.policy == nil {
		return InputVerdict{Allowed: true}
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.PolicyTimeout)
	defer cancel()

	decision, err := s.policy.CheckInput(ctx, message)
	if err != nil {
		s.log.Warn("input policy check failed, allowing message", zap.Error(err))
		metrics.PolicyDecisions.WithLabelValues("input", "error").Inc()
		return InputVerdict{Allowed: true}
	}

	if decision.Safe {
		metrics.PolicyDecisions.WithLabelValues("input", "allowed").Inc()
		return InputVerdict{Allowed: true}
	}

	metrics.PolicyDecisions.WithLabelValues("input", "blocked").Inc()
	return InputVerdict{
		Allowed: false,
		Risk:    decision.Risk,
		Threats: decision.Threats,
		Reason:  decision.Reason,
	}
}

// ValidateOutput runs the redaction policy over the agent reply. A sensitive
// match substitutes the whole reply; otherwise it passes through unchanged,
// including when the engine is disabled or failing.
func (s *Service) ValidateOutput(ctx context.Context, response string) string {
	if !s.config.PolicyEnabled || s.policy == nil {
		return response
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.PolicyTimeout)
	defer cancel()

	decision, err := s.policy.CheckOutput(ctx, response)
	if err != nil {
		s.log.Warn("output policy check failed, passing response through", zap.Error(err))
		metrics.PolicyDecisions.WithLabelValues("output", "error").Inc()
		return response
	}

	if decision.Safe {
		metrics.PolicyDecisions.WithLabelValues("output", "passed").Inc()
		return response
	}

	s.log.Warn("sensitive content redacted from response", zap.Strings("matches", decision.Matches))
	metrics.PolicyDecisions.WithLabelValues("output", "redacted").Inc()
	return redactedResponse
}
