// Package policy evaluates OPA policies over user input and agent output.
package policy

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Engine is the OPA policy engine. It holds one prepared query per policy.
type Engine struct {
	moderation rego.PreparedEvalQuery
	redaction  rego.PreparedEvalQuery
}

// InputDecision is the result of the input moderation policy.
type InputDecision struct {
	Safe    bool
	Risk    float64
	Threats []string
	Reason  string
}

// OutputDecision is the result of the output redaction policy.
type OutputDecision struct {
	Safe    bool
	Matches []string
	Reason  string
}

// NewEngine creates a policy engine with the built-in policies.
func NewEngine(ctx context.Context) (*Engine, error) {
	return NewEngineWithPolicies(ctx, ModerationPolicy, RedactionPolicy)
}

// NewEngineWithPolicies creates a policy engine from the given policy sources.
func NewEngineWithPolicies(ctx context.Context, moderation, redaction string) (*Engine, error) {
	modQuery, err := prepare(ctx, "moderation.rego", moderation, "data.moderation.decision")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare moderation policy: %w", err)
	}

	redQuery, err := prepare(ctx, "redaction.rego", redaction, "data.redaction.decision")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare redaction policy: %w", err)
	}

	return &Engine{moderation: modQuery, redaction: redQuery}, nil
}

func prepare(ctx context.Context, filename, content, query string) (rego.PreparedEvalQuery, error) {
	r := rego.New(
		rego.Query(query),
		rego.Module(filename, content),
	)
	return r.PrepareForEval(ctx)
}

// CheckInput evaluates the moderation policy over a user message.
func (e *Engine) CheckInput(ctx context.Context, message string) (*InputDecision, error) {
	result, err := eval(ctx, e.moderation, map[string]interface{}{"message": message})
	if err != nil {
		return nil, err
	}

	decision := &InputDecision{
		Safe:    boolField(result, "safe"),
		Risk:    floatField(result, "risk"),
		Threats: stringsField(result, "threats"),
		Reason:  stringField(result, "reason"),
	}
	return decision, nil
}

// CheckOutput evaluates the redaction policy over an agent response.
func (e *Engine) CheckOutput(ctx context.Context, response string) (*OutputDecision, error) {
	result, err := eval(ctx, e.redaction, map[string]interface{}{"response": response})
	if err != nil {
		return nil, err
	}

	decision := &OutputDecision{
		Safe:    boolField(result, "safe"),
		Matches: stringsField(result, "matches"),
		Reason:  stringField(result, "reason"),
	}
	return decision, nil
}

func eval(ctx context.Context, query rego.PreparedEvalQuery, input map[string]interface{}) (map[string]interface{}, error) {
	results, err := query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return nil, fmt.Errorf("policy returned no decision")
	}

	decision, ok := results[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("policy returned unexpected type %T", results[0].Expressions[0].Value)
	}
	return decision, nil
}

func boolField(m map[string]interface{}, key string) bool {
	v, _ := m[key].(bool)
	return v
}

func floatField(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	}
	return 0
}

func stringField(m map[string]interface{}, key string) string {
	v, _ := m[key].(string)
	return v
}

func stringsField(m map[string]interface{}, key string) []string {
	raw, ok := m[key].([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ModerationPolicy flags prompt injection attempts in user messages.
const ModerationPolicy = `
package moderation

import rego.v1

threat_patterns := [
	"ignore previous",
	"system override",
	"forget instructions",
	"developer mode",
	"admin access",
	"bypass safety",
]

threats := [pattern |
	some pattern in threat_patterns
	contains(lower(input.message), pattern)
]

default decision := {"safe": true, "risk": 0.0, "threats": [], "reason": ""}

decision := {"safe": false, "risk": risk, "threats": threats, "reason": "potential_injection"} if {
	count(threats) > 0
	risk := min([1.0, 0.4 * count(threats)])
}
`

// RedactionPolicy flags sensitive terms in agent responses.
const RedactionPolicy = `
package redaction

import rego.v1

sensitive_terms := [
	"password",
	"credit card",
	"ssn",
	"social security",
]

matches := [term |
	some term in sensitive_terms
	contains(lower(input.response), term)
]

default decision := {"safe": true, "matches": [], "reason": ""}

decision := {"safe": false, "matches": matches, "reason": "sensitive_data"} if {
	count(matches) > 0
}
`
