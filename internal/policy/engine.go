// Package policy decides how a batch run reacts to a failed question.
package policy

import (
	"context"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/v1/rego"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/batch"
)

// Engine is the OPA policy engine for batch failures.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
// The module must define data.batch_policy.decision.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.batch_policy.decision"),
		rego.Module("batch_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Load builds an engine from a policy file, or from the built-in policy
// named by mode ("continue" or "abort") when file is empty.
func Load(ctx context.Context, mode, file string) (*Engine, error) {
	if file != "" {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read policy file: %w", err)
		}
		return NewEngine(ctx, string(content))
	}

	switch batch.Decision(mode) {
	case batch.DecisionContinue, "":
		return NewEngine(ctx, ContinuePolicy)
	case batch.DecisionAbort:
		return NewEngine(ctx, AbortPolicy)
	default:
		return nil, fmt.Errorf("unknown batch failure policy %q", mode)
	}
}

// Decide evaluates the policy for a failed batch item.
func (e *Engine) Decide(ctx context.Context, f batch.Failure) (batch.Decision, error) {
	input := map[string]interface{}{
		"index":    f.Index,
		"question": f.Question,
		"error":    f.Error,
		"failures": f.Failures,
		"total":    f.Total,
	}

	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return batch.DecisionContinue, nil
	}

	s, ok := results[0].Expressions[0].Value.(string)
	if !ok {
		return "", fmt.Errorf("policy returned %T, want string", results[0].Expressions[0].Value)
	}

	switch d := batch.Decision(s); d {
	case batch.DecisionContinue, batch.DecisionAbort:
		return d, nil
	default:
		return "", fmt.Errorf("policy returned unknown decision %q", s)
	}
}

// ContinuePolicy records a placeholder for a failed question and moves on.
const ContinuePolicy = `
package batch_policy

default decision := "continue"
`

// AbortPolicy stops the run at the first failed question.
const AbortPolicy = `
package batch_policy

default decision := "abort"
`
