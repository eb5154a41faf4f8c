// Package classifier determines which platform issued a document and
// whether its line items are expected to carry the embedded campaign-code
// grammar. Filename hints and content signals are independent evidence
// sources combined by Classify.
package classifier

import (
	"regexp"
	"strings"

	"adrecon/internal/domain"
)

// filenamePrefixes maps each provider's filename convention. The
// conventions are distinct and non-overlapping across providers.
var filenamePrefixes = map[domain.Provider][]string{
	domain.ProviderGoogle: {"google", "adwords"},
	domain.ProviderMeta:   {"facebook", "meta", "fb-"},
	domain.ProviderTikTok: {"tiktok", "tt-", "bytedance"},
}

// vendorNames maps each provider's company-name string as it appears
// verbatim in the invoice body.
var vendorNames = map[domain.Provider][]string{
	domain.ProviderGoogle: {"Google Asia Pacific", "Google LLC"},
	domain.ProviderMeta:   {"Meta Platforms", "Facebook, Inc"},
	domain.ProviderTikTok: {"TikTok Pte", "TikTok Information Technologies"},
}

// orderedProviders fixes evaluation order so classification is deterministic.
var orderedProviders = []domain.Provider{
	domain.ProviderGoogle,
	domain.ProviderMeta,
	domain.ProviderTikTok,
}

// leadTokenPattern matches the campaign-code lead token: a short lowercase
// marker immediately followed by a pipe separator.
var leadTokenPattern = regexp.MustCompile(`(?:^|\s)[a-z]{2,4}\|`)

// campaignIDPattern matches a known campaign-id code: four digits, one
// letter, two digits.
var campaignIDPattern = regexp.MustCompile(`\b\d{4}[A-Za-z]\d{2}\b`)

// Result is the combined classification outcome.
type Result struct {
	Provider domain.Provider
	Subtype  domain.Subtype
}

// Classify combines filename and content evidence. Filename evidence wins
// for the provider; the body vendor string is the fallback. Subtype is
// monotonic: once structured evidence is found it is never downgraded by
// missing fields elsewhere in the document.
func Classify(filenameHint string, lines []string) Result {
	provider := ProviderFromFilename(filenameHint)
	if provider == domain.ProviderUnknown {
		provider = ProviderFromContent(lines)
	}
	return Result{Provider: provider, Subtype: DetectSubtype(lines)}
}

// ProviderFromFilename inspects the filename hint alone.
func ProviderFromFilename(filenameHint string) domain.Provider {
	name := strings.ToLower(filenameHint)
	if name == "" {
		return domain.ProviderUnknown
	}
	for _, p := range orderedProviders {
		for _, prefix := range filenamePrefixes[p] {
			if strings.Contains(name, prefix) {
				return p
			}
		}
	}
	return domain.ProviderUnknown
}

// ProviderFromContent looks for a vendor company-name string in the body.
func ProviderFromContent(lines []string) domain.Provider {
	for _, line := range lines {
		for _, p := range orderedProviders {
			for _, vendor := range vendorNames[p] {
				if strings.Contains(line, vendor) {
					return p
				}
			}
		}
	}
	return domain.ProviderUnknown
}

// DetectSubtype reports Structured when the campaign-code lead token is
// present, or when a run of consecutive campaign-id codes stands in for it
// (degraded evidence: the lead token was not recoverable even after
// normalization). Absent both signals the document is FreeForm.
func DetectSubtype(lines []string) domain.Subtype {
	consecutiveIDs := 0
	for _, line := range lines {
		if leadTokenPattern.MatchString(line) {
			return domain.SubtypeStructured
		}
		if n := len(campaignIDPattern.FindAllString(line, -1)); n > 0 {
			consecutiveIDs += n
			if consecutiveIDs >= 2 {
				return domain.SubtypeStructured
			}
		} else if line != "" {
			consecutiveIDs = 0
		}
	}
	return domain.SubtypeFreeForm
}
