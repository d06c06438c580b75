// Package extractor provides an abstraction for the conversational
// extraction model that drives intent classification and requirements
// collection.
package extractor

import (
	"context"

	"github.com/ecotrip/orchestrator/domain"
)

// Kind selects the prompt family for an extraction call.
type Kind string

const (
	// KindBinaryIntent classifies a message as greeting, planning or other.
	KindBinaryIntent Kind = "binary_intent"
	// KindGreetingTransition produces a greeting that steers toward planning.
	KindGreetingTransition Kind = "greeting_transition"
	// KindRequirementsCollection extracts travel requirements from the
	// conversation and replies in the tagged section format.
	KindRequirementsCollection Kind = "requirements_collection"
)

// Input bundles the conversation context for one extraction call. Fields
// beyond UserInput are only consulted for requirements collection.
type Input struct {
	UserInput    string
	History      []domain.Turn
	Requirements *domain.Requirements
	Phase        domain.Phase
}

// Client produces raw model text for a given prompt kind. Implementations
// bound every call with a per-kind timeout.
type Client interface {
	Invoke(ctx context.Context, kind Kind, in *Input) (string, error)
}
