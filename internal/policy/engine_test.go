package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/batch"
)

func TestBuiltinPolicies(t *testing.T) {
	ctx := context.Background()

	cont, err := Load(ctx, "continue", "")
	require.NoError(t, err)
	d, err := cont.Decide(ctx, batch.Failure{Index: 0, Failures: 1, Total: 8})
	require.NoError(t, err)
	assert.Equal(t, batch.DecisionContinue, d)

	abort, err := Load(ctx, "abort", "")
	require.NoError(t, err)
	d, err = abort.Decide(ctx, batch.Failure{Index: 0, Failures: 1, Total: 8})
	require.NoError(t, err)
	assert.Equal(t, batch.DecisionAbort, d)

	def, err := Load(ctx, "", "")
	require.NoError(t, err)
	d, err = def.Decide(ctx, batch.Failure{})
	require.NoError(t, err)
	assert.Equal(t, batch.DecisionContinue, d)
}

func TestUnknownMode(t *testing.T) {
	_, err := Load(context.Background(), "retry", "")
	assert.Error(t, err)
}

func TestPolicyFileThreshold(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "batch.rego")
	content := `
package batch_policy

default decision := "continue"

decision := "abort" if {
	input.failures >= 2
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	e, err := Load(ctx, "abort", path)
	require.NoError(t, err)

	d, err := e.Decide(ctx, batch.Failure{Failures: 1, Total: 8})
	require.NoError(t, err)
	assert.Equal(t, batch.DecisionContinue, d)

	d, err = e.Decide(ctx, batch.Failure{Failures: 2, Total: 8})
	require.NoError(t, err)
	assert.Equal(t, batch.DecisionAbort, d)
}

func TestPolicyUnknownDecision(t *testing.T) {
	ctx := context.Background()
	e, err := NewEngine(ctx, `
package batch_policy

decision := "retry"
`)
	require.NoError(t, err)

	_, err = e.Decide(ctx, batch.Failure{})
	assert.Error(t, err)
}

func TestInvalidPolicy(t *testing.T) {
	_, err := NewEngine(context.Background(), "package batch_policy\n\ndecision := ")
	assert.Error(t, err)

	_, err = Load(context.Background(), "", filepath.Join(t.TempDir(), "missing.rego"))
	assert.Error(t, err)
}
