package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvard/vault-core/internal/models"
)

type stubView struct {
	assets map[models.AssetID]models.AssetInfo
	order  []models.AssetID
}

func (s *stubView) SupportedAssets() []models.AssetID { return s.order }
func (s *stubView) AssetInfo(id models.AssetID) (models.AssetInfo, error) {
	return s.assets[id], nil
}
func (s *stubView) TotalNormalizedValue() uint64 { return 3_500_000_000 }
func (s *stubView) Caps() (uint64, uint64)       { return 1_000_000_000_000, 50_000_000_000 }
func (s *stubView) IsPaused() bool               { return true }

func newStubView() *stubView {
	return &stubView{
		order: []models.AssetID{models.NativeAsset, "USDC"},
		assets: map[models.AssetID]models.AssetInfo{
			models.NativeAsset: {
				ID:              models.NativeAsset,
				Supported:       true,
				Decimals:        18,
				Status:          models.AssetActive,
				CumulativeValue: 3_000_000_000,
				DepositCount:    2,
			},
			"USDC": {
				ID:              "USDC",
				Supported:       true,
				Decimals:        6,
				Status:          models.AssetPaused,
				CumulativeValue: 500_000_000,
				DepositCount:    1,
				WithdrawalCount: 1,
			},
		},
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Save(dir, newStubView()))

	snap, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Equal(t, uint64(3_500_000_000), snap.AggregateValue)
	assert.Equal(t, uint64(1_000_000_000_000), snap.AggregateCap)
	assert.True(t, snap.Paused)
	assert.NotZero(t, snap.CreatedAt)

	require.Len(t, snap.Assets, 2)
	assert.Equal(t, "NATIVE", snap.Assets[0].ID)
	assert.Equal(t, "active", snap.Assets[0].Status)
	assert.Equal(t, "paused", snap.Assets[1].Status)
	assert.Equal(t, uint64(500_000_000), snap.Assets[1].CumulativeValue)
}

func TestLoadMissingFile(t *testing.T) {
	snap, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, snap)
}
