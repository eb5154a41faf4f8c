package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adrecon/internal/config"
	"adrecon/internal/domain"
)

func newTestValidator() *Validator {
	return New(config.Default().Reconcile)
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(desc, amount string, cat domain.Category) domain.LineItem {
	return domain.LineItem{RawDescription: desc, Amount: amt(amount), Category: cat}
}

func sampleItems() []domain.LineItem {
	return []domain.LineItem{
		item("pk|40109|SDH_pk_thailand-example_none_Traffic_Responsive_[ST]|2089P12", "18093.56", domain.CategoryCampaign),
		item("Regulatory operating fee", "500.00", domain.CategoryFee),
		item("Refund for overdelivery", "-42.84", domain.CategoryRefund),
		item("Subtotal", "18550.72", domain.CategoryTotal),
		item("scan", "5.00", domain.CategoryOther),
	}
}

func TestReconcile_Match(t *testing.T) {
	v := newTestValidator()
	lines := []string{"Campaign charges", "Total amount due 18,550.72"}

	result := v.Reconcile(sampleItems(), lines)

	require.NotNil(t, result.DeclaredTotal)
	require.NotNil(t, result.Discrepancy)
	assert.Equal(t, domain.VerdictMatch, result.Verdict)
	assert.Equal(t, "18550.72", result.ComputedTotal.StringFixed(2))
	assert.Equal(t, "18550.72", result.DeclaredTotal.StringFixed(2))
	assert.Equal(t, "0.00", result.Discrepancy.StringFixed(2))
}

func TestReconcile_Mismatch(t *testing.T) {
	v := newTestValidator()
	lines := []string{"Campaign charges", "Total 18,482.50"}

	result := v.Reconcile(sampleItems(), lines)

	require.NotNil(t, result.Discrepancy)
	assert.Equal(t, domain.VerdictMismatch, result.Verdict)
	assert.Equal(t, "68.22", result.Discrepancy.StringFixed(2))
	assert.Contains(t, result.Status, "mismatch")
}

func TestReconcile_NoDeclaredTotal(t *testing.T) {
	v := newTestValidator()
	lines := []string{"Campaign charges", "1,200.00", "Refund", "-42.84"}
	items := []domain.LineItem{
		item("Campaign charges", "1200.00", domain.CategoryCampaign),
		item("Refund", "-42.84", domain.CategoryRefund),
	}

	result := v.Reconcile(items, lines)

	assert.Equal(t, domain.VerdictNoDeclaredTotal, result.Verdict)
	assert.Nil(t, result.DeclaredTotal)
	assert.Nil(t, result.Discrepancy, "discrepancy is undefined, not zero")
	assert.Equal(t, "1157.16", result.ComputedTotal.StringFixed(2))
}

func TestReconcile_ComputedTotalExcludesTotalAndOther(t *testing.T) {
	v := newTestValidator()
	result := v.Reconcile(sampleItems(), nil)
	// 18093.56 + 500.00 - 42.84; the Total and Other rows do not count
	assert.Equal(t, "18550.72", result.ComputedTotal.StringFixed(2))
}

func TestReconcile_PerCategoryTotals(t *testing.T) {
	v := newTestValidator()
	result := v.Reconcile(sampleItems(), nil)

	assert.Equal(t, "18093.56", result.PerCategoryTotals[domain.CategoryCampaign].StringFixed(2))
	assert.Equal(t, "500.00", result.PerCategoryTotals[domain.CategoryFee].StringFixed(2))
	assert.Equal(t, "-42.84", result.PerCategoryTotals[domain.CategoryRefund].StringFixed(2))
	assert.Equal(t, "18550.72", result.PerCategoryTotals[domain.CategoryTotal].StringFixed(2))
	assert.Equal(t, "5.00", result.PerCategoryTotals[domain.CategoryOther].StringFixed(2))
}

func TestLabeledTotal_AmountOnNextLine(t *testing.T) {
	v := newTestValidator()
	lines := []string{"Total amount due", "18,550.72"}

	result := v.Reconcile(sampleItems(), lines)

	require.NotNil(t, result.DeclaredTotal)
	assert.Equal(t, "18550.72", result.DeclaredTotal.StringFixed(2))
}

func TestLabeledTotal_SubtotalDoesNotSatisfyTotalLabel(t *testing.T) {
	v := newTestValidator()
	lines := []string{"Subtotal 18,000.00", "Total 18,550.72"}

	result := v.Reconcile(sampleItems(), lines)

	require.NotNil(t, result.DeclaredTotal)
	assert.Equal(t, "18550.72", result.DeclaredTotal.StringFixed(2))
}

func TestLabeledTotal_ThaiLabel(t *testing.T) {
	v := newTestValidator()
	lines := []string{"รวมทั้งสิ้น 18,550.72"}

	result := v.Reconcile(sampleItems(), lines)

	require.NotNil(t, result.DeclaredTotal)
	assert.Equal(t, "18550.72", result.DeclaredTotal.StringFixed(2))
	assert.Equal(t, domain.VerdictMatch, result.Verdict)
}

func TestFrequencyFallback_RepeatedTotalWins(t *testing.T) {
	v := newTestValidator()
	// No recognizable label; the invoice total recurs on the cover page and
	// in the page footer.
	lines := []string{
		"18,550.72",
		"Campaign charges 18,093.56",
		"18,550.72",
	}
	items := []domain.LineItem{
		item("Campaign charges", "18093.56", domain.CategoryCampaign),
	}

	result := v.Reconcile(items, lines)

	require.NotNil(t, result.DeclaredTotal)
	assert.Equal(t, "18550.72", result.DeclaredTotal.StringFixed(2))
}

func TestFrequencyFallback_RecurringLineItemRejected(t *testing.T) {
	v := newTestValidator()
	lines := []string{
		"Campaign one 1,200.00",
		"Campaign two 1,200.00",
		"Campaign three 1,200.00",
	}
	items := []domain.LineItem{
		item("Campaign one", "1200.00", domain.CategoryCampaign),
		item("Campaign two", "1200.00", domain.CategoryCampaign),
		item("Campaign three", "1200.00", domain.CategoryCampaign),
	}

	result := v.Reconcile(items, lines)
	assert.Equal(t, domain.VerdictNoDeclaredTotal, result.Verdict)
}

func TestFrequencyFallback_TieYieldsNoTotal(t *testing.T) {
	v := newTestValidator()
	lines := []string{"18,550.72", "18,550.72", "17,000.00", "17,000.00"}

	result := v.Reconcile(nil, lines)
	assert.Equal(t, domain.VerdictNoDeclaredTotal, result.Verdict)
}

func TestFrequencyFallback_MagnitudeBounds(t *testing.T) {
	v := newTestValidator()
	// Recurring values below the plausible-total floor never qualify.
	lines := []string{"5.00", "5.00", "5.00"}

	result := v.Reconcile(nil, lines)
	assert.Equal(t, domain.VerdictNoDeclaredTotal, result.Verdict)
}

func TestReconcile_EmptyDocument(t *testing.T) {
	v := newTestValidator()
	result := v.Reconcile(nil, nil)

	assert.Equal(t, domain.VerdictNoDeclaredTotal, result.Verdict)
	assert.Equal(t, "0.00", result.ComputedTotal.StringFixed(2))
}

// Given identical inputs, the result is identical across runs, including
// the human-readable status.
func TestReconcile_Deterministic(t *testing.T) {
	v := newTestValidator()
	lines := []string{"Total amount due 18,550.72"}

	first := v.Reconcile(sampleItems(), lines)
	second := v.Reconcile(sampleItems(), lines)
	assert.Equal(t, first, second)
}
