package service

import "github.com/ecotrip/orchestrator/domain"

const (
	trustWeightUser     = 0.3
	trustWeightSession  = 0.3
	trustWeightSecurity = 0.4
)

// TrustScore computes the per-turn trust score from session activity, outcome
// counters and the input risk of the current message.
func TrustScore(sess *domain.Session, inputRisk float64) float64 {
	security := 1.0 - inputRisk
	if security < 0 {
		security = 0
	}
	return trustWeightUser*userComponent(sess) +
		trustWeightSession*sessionComponent(sess) +
		trustWeightSecurity*security
}

// userComponent scales an activity ratio by a tier multiplier. Tiers move
// from new to established at 3 user turns and to verified at 10.
func userComponent(sess *domain.Session) float64 {
	turns := 0
	for _, t := range sess.ConversationHistory {
		if t.Role == domain.RoleUser {
			turns++
		}
	}

	multiplier := 0.5
	switch {
	case turns >= 10:
		multiplier = 1.0
	case turns >= 3:
		multiplier = 0.8
	}

	activity := float64(turns) / 10
	if activity > 1 {
		activity = 1
	}
	return multiplier * activity
}

// sessionComponent rewards generated responses and successful coordinations
// and penalizes recorded errors, floored at 0.1.
func sessionComponent(sess *domain.Session) float64 {
	m := sess.SuccessMetrics

	base := float64(m.ResponsesGenerated+m.CoordinationsSuccessful) / 5
	if base > 1 {
		base = 1
	}

	penalty := 0.15 * float64(sess.ErrorCount)
	if penalty > 0.5 {
		penalty = 0.5
	}

	score := base - penalty
	if score < 0.1 {
		score = 0.1
	}
	return score
}

// TrustLevel maps a trust score to its reporting band.
func TrustLevel(score float64) string {
	switch {
	case score >= 0.8:
		return "high"
	case score >= 0.6:
		return "medium"
	case score >= 0.4:
		return "low"
	default:
		return "untrusted"
	}
}
