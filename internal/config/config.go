package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"adrecon/internal/domain"
)

// Config holds all pipeline configuration.
type Config struct {
	Normalizer NormalizerConfig
	Segmenter  SegmenterConfig
	Category   CategoryConfig
	Reconcile  ReconcileConfig
	Batch      BatchConfig
}

// NormalizerConfig holds text normalization settings.
type NormalizerConfig struct {
	// FragmentationMinRun is the minimum number of consecutive short-token
	// lines treated as a fragmented token and merged back together.
	FragmentationMinRun int `mapstructure:"fragmentation_min_run"`
}

// SegmenterConfig holds line segmentation settings.
type SegmenterConfig struct {
	// LookbackLines bounds how many preceding lines may be accumulated
	// into one item description.
	LookbackLines int `mapstructure:"lookback_lines"`
	// SkipKeywords marks structural lines (totals, VAT, page numbers,
	// addresses) that never contribute to item descriptions. Matched
	// case-insensitively as substrings; both scripts of the source
	// documents appear here.
	SkipKeywords []string `mapstructure:"skip_keywords"`
}

// CategoryConfig holds category classification settings.
type CategoryConfig struct {
	// CampaignMinDescriptionLength is the length heuristic for campaign
	// lines whose embedded code failed to parse.
	CampaignMinDescriptionLength int `mapstructure:"campaign_min_description_length"`
	// FeeKeywords marks fee/service-charge line items.
	FeeKeywords []string `mapstructure:"fee_keywords"`
	// TotalKeywords marks subtotal/total/tax lines.
	TotalKeywords []string `mapstructure:"total_keywords"`
}

// ReconcileConfig holds reconciliation settings.
type ReconcileConfig struct {
	// TotalLabels are the explicit declared-total labels, tried before the
	// frequency fallback.
	TotalLabels []string `mapstructure:"total_labels"`
	// MagnitudeMin/MagnitudeMax bound plausible invoice totals for the
	// frequency-based fallback.
	MagnitudeMin decimal.Decimal `mapstructure:"-"`
	MagnitudeMax decimal.Decimal `mapstructure:"-"`
	// MatchTolerance is the absolute discrepancy below which declared and
	// computed totals are considered reconciled.
	MatchTolerance decimal.Decimal `mapstructure:"-"`
}

// BatchConfig holds batch processing settings.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// Default keyword sets. The source documents mix English and Thai; these
// lists are data, extended per deployment via environment, not a canon.
var (
	defaultSkipKeywords = []string{
		"subtotal", "total", "amount due", "vat", "invoice number",
		"billing id", "account id", "payment", "page",
		"ยอดรวม", "รวมทั้งสิ้น", "ภาษีมูลค่าเพิ่ม", "ใบแจ้งหนี้", "หน้า",
	}
	defaultFeeKeywords = []string{
		"fee", "service charge", "adjustment", "regulatory",
		"ค่าธรรมเนียม", "ค่าบริการ",
	}
	defaultTotalKeywords = []string{
		"subtotal", "total", "vat", "tax",
		"ยอดรวม", "รวมทั้งสิ้น", "ภาษีมูลค่าเพิ่ม", "ภาษี",
	}
	defaultTotalLabels = []string{
		"total amount due", "amount due", "grand total", "invoice total", "total",
		"ยอดรวมที่ครบกำหนด", "รวมทั้งสิ้น", "ยอดรวม",
	}
)

// Load reads configuration from environment variables with the ADRECON_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ADRECON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Normalizer defaults
	v.SetDefault("normalizer.fragmentation_min_run", 3)

	// Segmenter defaults
	v.SetDefault("segmenter.lookback_lines", 10)
	v.SetDefault("segmenter.skip_keywords", strings.Join(defaultSkipKeywords, ","))

	// Category defaults
	v.SetDefault("category.campaign_min_description_length", 20)
	v.SetDefault("category.fee_keywords", strings.Join(defaultFeeKeywords, ","))
	v.SetDefault("category.total_keywords", strings.Join(defaultTotalKeywords, ","))

	// Reconcile defaults
	v.SetDefault("reconcile.total_labels", strings.Join(defaultTotalLabels, ","))
	v.SetDefault("reconcile.magnitude_min", "100")
	v.SetDefault("reconcile.magnitude_max", "2000000")
	v.SetDefault("reconcile.match_tolerance", "0.01")

	// Batch defaults
	v.SetDefault("batch.concurrency", 4)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"normalizer.fragmentation_min_run":         "ADRECON_NORMALIZER_FRAGMENTATION_MIN_RUN",
		"segmenter.lookback_lines":                 "ADRECON_SEGMENTER_LOOKBACK_LINES",
		"segmenter.skip_keywords":                  "ADRECON_SEGMENTER_SKIP_KEYWORDS",
		"category.campaign_min_description_length": "ADRECON_CATEGORY_CAMPAIGN_MIN_DESCRIPTION_LENGTH",
		"category.fee_keywords":                    "ADRECON_CATEGORY_FEE_KEYWORDS",
		"category.total_keywords":                  "ADRECON_CATEGORY_TOTAL_KEYWORDS",
		"reconcile.total_labels":                   "ADRECON_RECONCILE_TOTAL_LABELS",
		"reconcile.magnitude_min":                  "ADRECON_RECONCILE_MAGNITUDE_MIN",
		"reconcile.magnitude_max":                  "ADRECON_RECONCILE_MAGNITUDE_MAX",
		"reconcile.match_tolerance":                "ADRECON_RECONCILE_MATCH_TOLERANCE",
		"batch.concurrency":                        "ADRECON_BATCH_CONCURRENCY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	magnitudeMin, err := decimal.NewFromString(v.GetString("reconcile.magnitude_min"))
	if err != nil {
		return nil, fmt.Errorf("parsing reconcile.magnitude_min: %w", err)
	}
	magnitudeMax, err := decimal.NewFromString(v.GetString("reconcile.magnitude_max"))
	if err != nil {
		return nil, fmt.Errorf("parsing reconcile.magnitude_max: %w", err)
	}
	tolerance, err := decimal.NewFromString(v.GetString("reconcile.match_tolerance"))
	if err != nil {
		return nil, fmt.Errorf("parsing reconcile.match_tolerance: %w", err)
	}

	cfg := &Config{}
	cfg.Normalizer = NormalizerConfig{
		FragmentationMinRun: v.GetInt("normalizer.fragmentation_min_run"),
	}
	cfg.Segmenter = SegmenterConfig{
		LookbackLines: v.GetInt("segmenter.lookback_lines"),
		SkipKeywords:  splitList(v.GetString("segmenter.skip_keywords")),
	}
	cfg.Category = CategoryConfig{
		CampaignMinDescriptionLength: v.GetInt("category.campaign_min_description_length"),
		FeeKeywords:                  splitList(v.GetString("category.fee_keywords")),
		TotalKeywords:                splitList(v.GetString("category.total_keywords")),
	}
	cfg.Reconcile = ReconcileConfig{
		TotalLabels:    splitList(v.GetString("reconcile.total_labels")),
		MagnitudeMin:   magnitudeMin,
		MagnitudeMax:   magnitudeMax,
		MatchTolerance: tolerance,
	}
	cfg.Batch = BatchConfig{
		Concurrency: v.GetInt("batch.concurrency"),
	}

	return cfg, nil
}

// Default returns the built-in configuration without consulting the
// environment. Tests and embedding callers use this.
func Default() *Config {
	return &Config{
		Normalizer: NormalizerConfig{FragmentationMinRun: 3},
		Segmenter: SegmenterConfig{
			LookbackLines: 10,
			SkipKeywords:  append([]string(nil), defaultSkipKeywords...),
		},
		Category: CategoryConfig{
			CampaignMinDescriptionLength: 20,
			FeeKeywords:                  append([]string(nil), defaultFeeKeywords...),
			TotalKeywords:                append([]string(nil), defaultTotalKeywords...),
		},
		Reconcile: ReconcileConfig{
			TotalLabels:    append([]string(nil), defaultTotalLabels...),
			MagnitudeMin:   decimal.NewFromInt(100),
			MagnitudeMax:   decimal.NewFromInt(2_000_000),
			MatchTolerance: decimal.RequireFromString("0.01"),
		},
		Batch: BatchConfig{Concurrency: 4},
	}
}

// Validate rejects configurations the pipeline cannot run with. This is the
// only misconfiguration surface allowed to raise, per the process() boundary.
func (c *Config) Validate() error {
	// Merged tokens must come out wider than a fragment, or normalization
	// would not be idempotent.
	if c.Normalizer.FragmentationMinRun < 3 {
		return fmt.Errorf("%w: fragmentation_min_run must be >= 3, got %d",
			domain.ErrInvalidConfig, c.Normalizer.FragmentationMinRun)
	}
	if c.Segmenter.LookbackLines <= 0 {
		return fmt.Errorf("%w: lookback_lines must be positive, got %d",
			domain.ErrInvalidConfig, c.Segmenter.LookbackLines)
	}
	if c.Category.CampaignMinDescriptionLength < 0 {
		return fmt.Errorf("%w: campaign_min_description_length must not be negative, got %d",
			domain.ErrInvalidConfig, c.Category.CampaignMinDescriptionLength)
	}
	if c.Reconcile.MagnitudeMin.GreaterThan(c.Reconcile.MagnitudeMax) {
		return fmt.Errorf("%w: magnitude bounds inverted (%s > %s)",
			domain.ErrInvalidConfig, c.Reconcile.MagnitudeMin, c.Reconcile.MagnitudeMax)
	}
	if c.Reconcile.MatchTolerance.IsNegative() {
		return fmt.Errorf("%w: match_tolerance must not be negative, got %s",
			domain.ErrInvalidConfig, c.Reconcile.MatchTolerance)
	}
	if c.Batch.Concurrency <= 0 {
		return fmt.Errorf("%w: batch concurrency must be positive, got %d",
			domain.ErrInvalidConfig, c.Batch.Concurrency)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
