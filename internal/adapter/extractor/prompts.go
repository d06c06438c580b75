package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ecotrip/orchestrator/domain"
)

const intentPromptTemplate = `You are a binary intent classifier for a travel planning assistant.
Classify the user's message into exactly one of three categories:

greeting - a salutation or small talk opener with no travel content
planning - anything about a trip: destinations, dates, travelers, budget, pace, preferences
other - unrelated to both greetings and travel

User message: %s

Respond with a single word: greeting, planning or other.`

const greetingPromptTemplate = `You are a friendly sustainable-travel planning assistant.
The user has greeted you. Reply with a short, warm greeting that transitions
into planning: acknowledge them and ask where they would like to go and when.

User message: %s`

const collectionPromptTemplate = `You are a travel requirements collector for sustainable trip planning.
Work from the conversation so far and the user's latest message to fill in the
target schema. Re-emit the COMPLETE updated document every time, carrying over
everything already collected. For optional fields, "no_preference" or "none"
are valid answers. Never invent values the user did not give.

Conversation so far:
%s

Latest user message: %s

Current collected requirements:
%s

Current phase: %s

Target schema:
%s

Respond in exactly this format:
EXTRACTED_JSON: {the complete updated requirements document}
RESPONSE: your conversational reply asking for what is still missing
PHASE: initial, collecting or complete`

// buildPrompt renders the prompt for the given kind from the call input.
func buildPrompt(kind Kind, in *Input) (string, error) {
	switch kind {
	case KindBinaryIntent:
		return fmt.Sprintf(intentPromptTemplate, in.UserInput), nil

	case KindGreetingTransition:
		return fmt.Sprintf(greetingPromptTemplate, in.UserInput), nil

	case KindRequirementsCollection:
		current, err := marshalDocument(in.Requirements)
		if err != nil {
			return "", fmt.Errorf("failed to encode current requirements: %w", err)
		}
		target, err := marshalDocument(domain.NewRequirements())
		if err != nil {
			return "", fmt.Errorf("failed to encode target schema: %w", err)
		}
		return fmt.Sprintf(collectionPromptTemplate,
			formatHistory(in.History), in.UserInput, current, string(in.Phase), target), nil

	default:
		return "", fmt.Errorf("unknown extraction kind %q", kind)
	}
}

// marshalDocument renders a requirements document in the enveloped wire form
// the agent is asked to re-emit.
func marshalDocument(r *domain.Requirements) (string, error) {
	if r == nil {
		r = domain.NewRequirements()
	}
	envelope := struct {
		Requirements *domain.Requirements `json:"requirements"`
	}{r}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func formatHistory(history []domain.Turn) string {
	if len(history) == 0 {
		return "(no prior turns)"
	}
	lines := make([]string, 0, len(history))
	for _, turn := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", turn.Role, turn.Message))
	}
	return strings.Join(lines, "\n")
}
