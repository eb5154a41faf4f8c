// Package segmenter walks normalized invoice text and emits candidate
// (description, amount) pairs. Structural lines (totals, VAT, page numbers,
// addresses) are excluded from description accumulation via a skip-keyword
// set; amount-bearing skip lines become Total items immediately.
package segmenter

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"adrecon/internal/config"
	"adrecon/internal/domain"
	"adrecon/internal/normalizer"
)

// amountPattern matches one monetary amount: optional sign, digits with
// optional thousands separators, exactly two fractional digits. The bounded
// fractional part is what makes left-to-right splitting of concatenated
// amounts deterministic.
var amountPattern = regexp.MustCompile(`-?\d+(?:,\d{3})*\.\d{2}`)

// amountTailPattern matches a run of one or more amounts terminating a line.
// More than one amount without separating whitespace is the canonical
// presentation for Total/Voucher/Cash triples in one provider's layout.
var amountTailPattern = regexp.MustCompile(`(?:-?\d+(?:,\d{3})*\.\d{2})+$`)

// Segmenter extracts ordered line items from a normalized line stream.
type Segmenter struct {
	lookback     int
	skipKeywords []string
}

// New creates a Segmenter from segmentation settings.
func New(cfg config.SegmenterConfig) *Segmenter {
	lowered := make([]string, len(cfg.SkipKeywords))
	for i, kw := range cfg.SkipKeywords {
		lowered[i] = strings.ToLower(kw)
	}
	return &Segmenter{
		lookback:     cfg.LookbackLines,
		skipKeywords: lowered,
	}
}

// Segment scans the line stream top to bottom and returns items in order of
// appearance. Items carry the Other placeholder category except skip-keyword
// amount lines, which are tagged Total at once. Page markers are soft: they
// neither accumulate nor reset the description window.
func (s *Segmenter) Segment(lines []string) []domain.LineItem {
	var items []domain.LineItem
	var window []string

	for _, line := range lines {
		if line == "" || line == normalizer.PageBreak {
			continue
		}

		if s.matchesSkipKeyword(line) {
			// Structural line: never part of a description. Amount-bearing
			// structural lines are the document's own totals.
			for _, amt := range trailingAmounts(line) {
				items = append(items, domain.LineItem{
					RawDescription: strings.TrimSpace(strings.TrimSuffix(line, amountTailPattern.FindString(line))),
					Amount:         amt,
					Category:       domain.CategoryTotal,
				})
			}
			continue
		}

		tail := amountTailPattern.FindStringIndex(line)
		if tail == nil {
			window = appendBounded(window, line, s.lookback)
			continue
		}

		prefix := strings.TrimSpace(line[:tail[0]])
		if prefix != "" {
			window = appendBounded(window, prefix, s.lookback)
		}
		description := strings.Join(window, " ")

		for _, amt := range parseAmounts(line[tail[0]:tail[1]]) {
			items = append(items, domain.LineItem{
				RawDescription: description,
				Amount:         amt,
				Category:       domain.CategoryOther,
			})
		}
		window = window[:0]
	}
	return items
}

func (s *Segmenter) matchesSkipKeyword(line string) bool {
	lowered := strings.ToLower(line)
	for _, kw := range s.skipKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// trailingAmounts returns the amounts terminating a line, in left-to-right
// order, or nil when the line carries none.
func trailingAmounts(line string) []decimal.Decimal {
	tail := amountTailPattern.FindString(line)
	if tail == "" {
		return nil
	}
	return parseAmounts(tail)
}

// parseAmounts splits a concatenated amount cluster left to right.
func parseAmounts(cluster string) []decimal.Decimal {
	matches := amountPattern.FindAllString(cluster, -1)
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

// appendBounded keeps at most limit most-recent lines in the window,
// bounding description growth near document headers.
func appendBounded(window []string, line string, limit int) []string {
	window = append(window, line)
	if len(window) > limit {
		window = window[len(window)-limit:]
	}
	return window
}
