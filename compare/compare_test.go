package compare

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qkemsim "github.com/kemlab/qkemsim-go"
	"github.com/kemlab/qkemsim-go/core"
	"github.com/kemlab/qkemsim-go/factor"
)

func TestRunDefault(t *testing.T) {
	result, err := Run(DefaultConfig())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, result.RunID)
	assert.Equal(t, core.RSAToyParams.Bits, result.RSAKeyBits)
	assert.Equal(t, core.Lat128Params.Name, result.LatticeName)

	// The toy modulus must fall; the lattice side must not.
	assert.True(t, result.RSACompromised)
	assert.Equal(t, qkemsim.ReasonFactored, result.RSAVerdict.Reason)
	assert.False(t, result.LatticeCompromised)
	assert.Equal(t, qkemsim.ReasonNotApplicable, result.LatticeVerdict.Reason)
}

func TestRunBudgetExhausted(t *testing.T) {
	cfg := Config{
		RSA:     core.RSA256Params,
		Lattice: core.Lat128Params,
		Budget:  factor.IterBudget(200),
	}
	result, err := Run(cfg)
	require.NoError(t, err, "exhaustion is an outcome, not a run failure")

	assert.False(t, result.RSACompromised)
	assert.Equal(t, qkemsim.ReasonBudgetExhausted, result.RSAVerdict.Reason)
	assert.False(t, result.LatticeCompromised)
}

func TestRunUniqueIDs(t *testing.T) {
	r1, err := Run(DefaultConfig())
	require.NoError(t, err)
	r2, err := Run(DefaultConfig())
	require.NoError(t, err)
	assert.NotEqual(t, r1.RunID, r2.RunID)
}

func TestRunInvalidParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RSA.Bits = 10
	_, err := Run(cfg)
	assert.Error(t, err, "parameter errors must propagate, not vanish into verdicts")

	cfg = DefaultConfig()
	cfg.Lattice.Degree = 100
	_, err = Run(cfg)
	assert.Error(t, err)
}
