// Package reconcile sums classified line items per category, recovers the
// document's declared total, and produces a match/mismatch verdict with a
// numeric discrepancy.
package reconcile

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"adrecon/internal/config"
	"adrecon/internal/domain"
)

var amountPattern = regexp.MustCompile(`-?\d+(?:,\d{3})*\.\d{2}`)

// Validator reconciles extracted line amounts against the declared total.
type Validator struct {
	totalLabels  []string
	magnitudeMin decimal.Decimal
	magnitudeMax decimal.Decimal
	tolerance    decimal.Decimal
}

// New creates a Validator from reconciliation settings.
func New(cfg config.ReconcileConfig) *Validator {
	lowered := make([]string, len(cfg.TotalLabels))
	for i, l := range cfg.TotalLabels {
		lowered[i] = strings.ToLower(l)
	}
	return &Validator{
		totalLabels:  lowered,
		magnitudeMin: cfg.MagnitudeMin,
		magnitudeMax: cfg.MagnitudeMax,
		tolerance:    cfg.MatchTolerance,
	}
}

// Reconcile computes per-category sums and the verdict for one document.
// Summation follows item order, so results are reproducible bit for bit.
// The declared total is derived once and never overwritten.
func (v *Validator) Reconcile(items []domain.LineItem, lines []string) *domain.ReconciliationResult {
	perCategory := make(map[domain.Category]decimal.Decimal, len(domain.Categories))
	for _, c := range domain.Categories {
		perCategory[c] = decimal.Zero
	}
	computed := decimal.Zero
	for _, item := range items {
		perCategory[item.Category] = perCategory[item.Category].Add(item.Amount)
		if item.Category.Countable() {
			computed = computed.Add(item.Amount)
		}
	}

	result := &domain.ReconciliationResult{
		ComputedTotal:     computed,
		PerCategoryTotals: perCategory,
	}

	declared, ok := v.declaredTotal(items, lines)
	if !ok {
		result.Verdict = domain.VerdictNoDeclaredTotal
		result.Status = "no declared total found; document cannot be verified"
		return result
	}

	discrepancy := computed.Sub(declared)
	result.DeclaredTotal = &declared
	result.Discrepancy = &discrepancy
	if discrepancy.Abs().LessThan(v.tolerance) {
		result.Verdict = domain.VerdictMatch
		result.Status = fmt.Sprintf("reconciled: computed %s matches declared %s",
			computed.StringFixed(2), declared.StringFixed(2))
	} else {
		result.Verdict = domain.VerdictMismatch
		result.Status = fmt.Sprintf("mismatch: computed %s vs declared %s (discrepancy %s)",
			computed.StringFixed(2), declared.StringFixed(2), discrepancy.StringFixed(2))
	}
	return result
}

// declaredTotal tries the explicit label match first, then the
// frequency-based fallback.
func (v *Validator) declaredTotal(items []domain.LineItem, lines []string) (decimal.Decimal, bool) {
	if d, ok := v.labeledTotal(lines); ok {
		return d, true
	}
	return v.frequencyTotal(items, lines)
}

// labeledTotal finds the first line carrying a total label followed by an
// amount, in either supported script. The amount may sit on the label line
// or alone on the line directly after it.
func (v *Validator) labeledTotal(lines []string) (decimal.Decimal, bool) {
	for i, line := range lines {
		if !v.matchesTotalLabel(line) {
			continue
		}
		if amts := lineAmounts(line); len(amts) > 0 {
			return amts[len(amts)-1], true
		}
		if i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if amountPattern.MatchString(next) && amountPattern.FindString(next) == next {
				if amts := lineAmounts(next); len(amts) > 0 {
					return amts[0], true
				}
			}
		}
	}
	return decimal.Zero, false
}

// matchesTotalLabel requires the label to start at a word boundary so that
// "subtotal" does not satisfy the "total" label.
func (v *Validator) matchesTotalLabel(line string) bool {
	lowered := strings.ToLower(line)
	for _, label := range v.totalLabels {
		idx := strings.Index(lowered, label)
		if idx < 0 {
			continue
		}
		if idx > 0 {
			before, _ := utf8.DecodeLastRuneInString(lowered[:idx])
			if unicode.IsLetter(before) {
				continue
			}
		}
		return true
	}
	return false
}

// frequencyTotal picks the most frequent amount within the plausible
// invoice-total magnitude range. The winner must occur at least twice, win
// without a tie, and must not simply be a recurring ordinary line-item
// value; anything weaker yields no declared total rather than a guess.
func (v *Validator) frequencyTotal(items []domain.LineItem, lines []string) (decimal.Decimal, bool) {
	counts := make(map[string]int)
	values := make(map[string]decimal.Decimal)
	for _, line := range lines {
		for _, amt := range lineAmounts(line) {
			if amt.LessThan(v.magnitudeMin) || amt.GreaterThan(v.magnitudeMax) {
				continue
			}
			key := amt.StringFixed(2)
			counts[key]++
			values[key] = amt
		}
	}

	best, bestCount, tied := "", 0, false
	for key, n := range counts {
		switch {
		case n > bestCount:
			best, bestCount, tied = key, n, false
		case n == bestCount && key != best:
			tied = true
		}
	}
	if bestCount < 2 || tied {
		return decimal.Zero, false
	}

	// A value that recurs as an ordinary line item at least as often as it
	// appears overall is a repeated charge, not the invoice total.
	itemOccurrences := 0
	for _, item := range items {
		if item.Category.Countable() && item.Amount.StringFixed(2) == best {
			itemOccurrences++
		}
	}
	if itemOccurrences >= bestCount {
		return decimal.Zero, false
	}
	return values[best], true
}

func lineAmounts(line string) []decimal.Decimal {
	matches := amountPattern.FindAllString(line, -1)
	out := make([]decimal.Decimal, 0, len(matches))
	for _, m := range matches {
		d, err := decimal.NewFromString(strings.ReplaceAll(m, ",", ""))
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out
}
