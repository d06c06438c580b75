package extractor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ecotrip/orchestrator/config"
	"github.com/ecotrip/orchestrator/pkg/metrics"
)

// OpenAIClient invokes the OpenAI chat completion API with a per-kind
// deadline.
type OpenAIClient struct {
	client   *openai.Client
	model    string
	timeouts map[Kind]time.Duration
}

var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient creates a client backed by the OpenAI API.
func NewOpenAIClient(cfg *config.Config) (*OpenAIClient, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	return &OpenAIClient{
		client: openai.NewClient(cfg.OpenAIAPIKey),
		model:  cfg.OpenAIModel,
		timeouts: map[Kind]time.Duration{
			KindBinaryIntent:           cfg.IntentTimeout,
			KindGreetingTransition:     cfg.GreetingTimeout,
			KindRequirementsCollection: cfg.CollectTimeout,
		},
	}, nil
}

// Invoke renders the prompt for kind and returns the raw completion text.
func (e *OpenAIClient) Invoke(ctx context.Context, kind Kind, in *Input) (string, error) {
	prompt, err := buildPrompt(kind, in)
	if err != nil {
		return "", err
	}

	timeout := e.timeouts[kind]
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0.2,
		MaxTokens:   300,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		metrics.RecordExtraction(string(kind), "error", time.Since(start).Seconds())
		return "", fmt.Errorf("failed to invoke extraction model: %w", err)
	}
	metrics.RecordExtraction(string(kind), "ok", time.Since(start).Seconds())

	if len(resp.Choices) == 0 {
		return "", errors.New("extraction model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
