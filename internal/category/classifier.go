// Package category assigns each segmented line item to one of the closed
// set {campaign, refund, fee, total, other} using sign, keyword sets, and a
// description-length heuristic.
package category

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"adrecon/internal/config"
	"adrecon/internal/domain"
)

// Classifier applies the ordered categorization rules.
type Classifier struct {
	minDescriptionLength int
	feeKeywords          []string
	totalKeywords        []string
	maxPlausible         decimal.Decimal
}

// New creates a Classifier. maxPlausible bounds amounts that can come out of
// splitting concatenated digit runs; anything larger is kept for audit but
// never counted as a campaign, refund, or fee.
func New(cfg config.CategoryConfig, maxPlausible decimal.Decimal) *Classifier {
	return &Classifier{
		minDescriptionLength: cfg.CampaignMinDescriptionLength,
		feeKeywords:          lowerAll(cfg.FeeKeywords),
		totalKeywords:        lowerAll(cfg.TotalKeywords),
		maxPlausible:         maxPlausible,
	}
}

// Classify returns a copy of the item with its category set. Rules are
// evaluated in order; the first match wins:
//
//  1. items the segmenter already tagged as totals stay totals
//  2. total/subtotal/tax keywords in the description
//  3. implausibly large split amounts are retained as other
//  4. negative amounts are refunds
//  5. fee keywords
//  6. an attached campaign code, or a long free-text description
//     (localized or garbled campaign lines rarely parse but are still long)
//  7. everything else is extraction noise
func (c *Classifier) Classify(item domain.LineItem) domain.LineItem {
	item.Category = c.categorize(item)
	return item
}

func (c *Classifier) categorize(item domain.LineItem) domain.Category {
	if item.Category == domain.CategoryTotal {
		return domain.CategoryTotal
	}
	desc := strings.ToLower(item.RawDescription)
	if containsAny(desc, c.totalKeywords) {
		return domain.CategoryTotal
	}
	if item.Amount.Abs().GreaterThan(c.maxPlausible) {
		return domain.CategoryOther
	}
	if item.Amount.IsNegative() {
		return domain.CategoryRefund
	}
	if containsAny(desc, c.feeKeywords) {
		return domain.CategoryFee
	}
	if item.CampaignCode != nil || utf8.RuneCountInString(item.RawDescription) > c.minDescriptionLength {
		return domain.CategoryCampaign
	}
	return domain.CategoryOther
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
