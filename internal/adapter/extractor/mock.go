package extractor

import (
	"context"
	"fmt"
	"strings"
)

// MockClient is a deterministic Client for local development and tests.
// It classifies by keyword and echoes the current requirements back unchanged.
type MockClient struct{}

var _ Client = (*MockClient)(nil)

// NewMockClient creates a new mock client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Invoke returns a canned response for the given kind.
func (m *MockClient) Invoke(ctx context.Context, kind Kind, in *Input) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	switch kind {
	case KindBinaryIntent:
		return m.classify(in.UserInput), nil

	case KindGreetingTransition:
		return "Hello! I'd love to help you plan a sustainable trip. Where would you like to go and when?", nil

	case KindRequirementsCollection:
		doc, err := marshalDocument(in.Requirements)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("EXTRACTED_JSON: %s\nRESPONSE: Tell me more about your trip so I can fill in the details.\nPHASE: collecting", doc), nil

	default:
		return "", fmt.Errorf("unknown extraction kind %q", kind)
	}
}

func (m *MockClient) classify(input string) string {
	lower := strings.ToLower(input)
	for _, word := range []string{"hello", "hi", "hey", "good morning", "how are you"} {
		if strings.Contains(lower, word) {
			return "greeting"
		}
	}
	for _, word := range []string{"travel", "trip", "visit", "go", "plan", "book"} {
		if strings.Contains(lower, word) {
			return "planning"
		}
	}
	return "other"
}
