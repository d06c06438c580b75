package extractor

import (
	"github.com/ecotrip/orchestrator/config"
)

// ModeMock selects the deterministic mock client.
const ModeMock = "mock"

// New creates a client based on cfg.ExtractorMode. Any value other than
// "mock" selects the OpenAI-backed client.
func New(cfg *config.Config) (Client, error) {
	if cfg.ExtractorMode == ModeMock {
		return NewMockClient(), nil
	}
	return NewOpenAIClient(cfg)
}
