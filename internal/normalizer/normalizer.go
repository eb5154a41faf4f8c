// Package normalizer repairs the known failure modes of the upstream text
// extractor: invisible separator characters injected between glyphs, and
// character fragmentation where one logical token is rendered as a run of
// one- or two-character lines.
package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"adrecon/internal/config"
	"adrecon/internal/domain"
)

// PageBreak is the soft page-boundary marker inserted between pages. It is
// a hint, not a hard cut: logical records may span it and downstream stages
// ignore it during accumulation.
const PageBreak = "\f"

// invisible lists the separator characters the extraction layer injects
// between visible glyphs on some font/encoding combinations.
var invisible = []string{
	"​", // zero width space
	"‌", // zero width non-joiner
	"‍", // zero width joiner
	"⁠", // word joiner
	"\uFEFF", // BOM / zero width no-break space
	"­", // soft hyphen
	"᠎", // mongolian vowel separator
}

var invisibleReplacer = strings.NewReplacer(func() []string {
	pairs := make([]string, 0, len(invisible)*2)
	for _, s := range invisible {
		pairs = append(pairs, s, "")
	}
	return pairs
}()...)

// amountPattern recognizes a plausible monetary amount: digits with an
// optional sign, optional thousands separators, and a decimal point.
// Amounts terminate fragment runs and are never merged into a token.
var amountPattern = regexp.MustCompile(`^-?\d[\d,]*\.\d+$`)

// Normalizer cleans and de-fragments extracted page text.
type Normalizer struct {
	minRun int
}

// New creates a Normalizer. cfg.FragmentationMinRun is the shortest run of
// consecutive short-token lines that gets merged back into one token.
func New(cfg config.NormalizerConfig) *Normalizer {
	return &Normalizer{minRun: cfg.FragmentationMinRun}
}

// Normalize flattens a document's pages into a single cleaned line stream.
// Page boundaries survive as PageBreak marker lines. Normalization never
// fails; empty input yields an empty stream.
func (n *Normalizer) Normalize(pages []domain.PageText) []string {
	var lines []string
	for i, page := range pages {
		if i > 0 {
			lines = append(lines, PageBreak)
		}
		for _, line := range page {
			lines = append(lines, cleanLine(line))
		}
	}
	return n.NormalizeLines(lines)
}

// NormalizeLines cleans an already-flattened line stream and repairs
// fragmentation. It is idempotent: normalizing normalized output is a no-op.
func (n *Normalizer) NormalizeLines(lines []string) []string {
	cleaned := make([]string, len(lines))
	for i, line := range lines {
		if line == PageBreak {
			cleaned[i] = line
			continue
		}
		cleaned[i] = cleanLine(line)
	}
	return n.repairFragmentation(cleaned)
}

// repairFragmentation merges runs of >= minRun consecutive short-token lines
// into one token, spliced back at the run's start position. A run ends at the
// first empty line, multi-word line, page marker, or plausible amount.
func (n *Normalizer) repairFragmentation(lines []string) []string {
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); {
		if !isFragmentToken(lines[i]) {
			out = append(out, lines[i])
			i++
			continue
		}
		j := i
		for j < len(lines) && isFragmentToken(lines[j]) {
			j++
		}
		if j-i >= n.minRun {
			out = append(out, strings.Join(lines[i:j], ""))
		} else {
			out = append(out, lines[i:j]...)
		}
		i = j
	}
	return out
}

// isFragmentToken reports whether a line looks like one fragment of a split
// token: a single token of at most two runes that is not itself an amount.
func isFragmentToken(line string) bool {
	if line == "" || line == PageBreak {
		return false
	}
	if strings.ContainsFunc(line, unicode.IsSpace) {
		return false
	}
	if len([]rune(line)) > 2 {
		return false
	}
	return !amountPattern.MatchString(line)
}

// cleanLine strips invisible separators, folds full-width glyph variants to
// their canonical forms, applies canonical composition, and collapses runs of
// whitespace to single spaces.
func cleanLine(line string) string {
	line = invisibleReplacer.Replace(line)
	line = width.Fold.String(line)
	line = norm.NFC.String(line)
	return strings.Join(strings.Fields(line), " ")
}
