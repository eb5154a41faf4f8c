package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adrecon/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Normalizer.FragmentationMinRun)
	assert.Equal(t, 10, cfg.Segmenter.LookbackLines)
	assert.Equal(t, 20, cfg.Category.CampaignMinDescriptionLength)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.True(t, cfg.Reconcile.MatchTolerance.Equal(decimal.RequireFromString("0.01")))

	assert.Contains(t, cfg.Segmenter.SkipKeywords, "subtotal")
	assert.Contains(t, cfg.Segmenter.SkipKeywords, "ยอดรวม")
	assert.Contains(t, cfg.Category.FeeKeywords, "ค่าธรรมเนียม")
	assert.Contains(t, cfg.Reconcile.TotalLabels, "total amount due")

	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ADRECON_SEGMENTER_LOOKBACK_LINES", "5")
	t.Setenv("ADRECON_SEGMENTER_SKIP_KEYWORDS", "alpha, beta ,")
	t.Setenv("ADRECON_RECONCILE_MATCH_TOLERANCE", "0.50")
	t.Setenv("ADRECON_BATCH_CONCURRENCY", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Segmenter.LookbackLines)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Segmenter.SkipKeywords)
	assert.True(t, cfg.Reconcile.MatchTolerance.Equal(decimal.RequireFromString("0.50")))
	assert.Equal(t, 8, cfg.Batch.Concurrency)
}

func TestLoad_RejectsUnparseableDecimal(t *testing.T) {
	t.Setenv("ADRECON_RECONCILE_MAGNITUDE_MAX", "not-a-number")

	cfg, err := Load()
	assert.Nil(t, cfg)
	assert.Error(t, err)
}

func TestDefault_MatchesLoadedDefaults(t *testing.T) {
	loaded, err := Load()
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, loaded.Normalizer, def.Normalizer)
	assert.Equal(t, loaded.Segmenter, def.Segmenter)
	assert.Equal(t, loaded.Category, def.Category)
	assert.Equal(t, loaded.Batch, def.Batch)
	assert.Equal(t, loaded.Reconcile.TotalLabels, def.Reconcile.TotalLabels)
	assert.True(t, loaded.Reconcile.MagnitudeMin.Equal(def.Reconcile.MagnitudeMin))
	assert.True(t, loaded.Reconcile.MagnitudeMax.Equal(def.Reconcile.MagnitudeMax))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "fragmentation run below idempotence floor",
			mutate:  func(c *Config) { c.Normalizer.FragmentationMinRun = 2 },
			wantErr: true,
		},
		{
			name:    "zero lookback",
			mutate:  func(c *Config) { c.Segmenter.LookbackLines = 0 },
			wantErr: true,
		},
		{
			name:    "negative description length",
			mutate:  func(c *Config) { c.Category.CampaignMinDescriptionLength = -1 },
			wantErr: true,
		},
		{
			name: "inverted magnitude bounds",
			mutate: func(c *Config) {
				c.Reconcile.MagnitudeMin = decimal.NewFromInt(10)
				c.Reconcile.MagnitudeMax = decimal.NewFromInt(1)
			},
			wantErr: true,
		},
		{
			name:    "negative tolerance",
			mutate:  func(c *Config) { c.Reconcile.MatchTolerance = decimal.RequireFromString("-0.01") },
			wantErr: true,
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Batch.Concurrency = 0 },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
