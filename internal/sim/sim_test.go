package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvard/vault-core/internal/config"
	"github.com/halvard/vault-core/internal/logger"
	"github.com/halvard/vault-core/internal/models"
)

func TestScenarioRunsToCompletion(t *testing.T) {
	logger.Init()
	cfg := config.NewConfig()

	s, err := NewScenario(cfg)
	require.NoError(t, err)

	var results []StepResult
	require.NoError(t, s.Run(func(r StepResult) { results = append(results, r) }))

	require.Len(t, results, len(s.Steps()))
	for _, r := range results {
		assert.True(t, r.Ok, "step %d (%s) failed: %v", r.Index, r.Name, r.Err)
	}

	// The demonstrated rejections must not have moved any funds; the sum of
	// per-asset values still matches the aggregate.
	var sum uint64
	for _, id := range s.Vault.SupportedAssets() {
		info, err := s.Vault.AssetInfo(id)
		require.NoError(t, err)
		sum += info.CumulativeValue
	}
	assert.Equal(t, s.Vault.TotalNormalizedValue(), sum)
	assert.False(t, s.Vault.IsPaused())

	// Post-scenario holdings: alice kept 1 native unit and 56,000 USDC.
	assert.Equal(t, units(1, 18), s.Vault.Balance(alice, models.NativeAsset))
	assert.Equal(t, units(56_000, 6), s.Vault.Balance(alice, usdcID))
	assert.Equal(t, units(3_000, 18), s.Vault.Balance(bob, daiID))
}
