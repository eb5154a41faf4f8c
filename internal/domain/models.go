package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// PageText is the ordered sequence of lines extracted from a single page.
// A line may be empty.
type PageText []string

// RawDocument is the immutable input produced by the external text
// extraction collaborator: ordered page texts plus identifying metadata.
type RawDocument struct {
	DocumentID   string     `json:"document_id"`
	ProviderHint string     `json:"provider_hint"` // usually the source filename
	Pages        []PageText `json:"pages"`
}

// CampaignCode is the pipe-and-underscore delimited mini-record embedded in
// a structured line description. Fields the parser could not recover are
// empty; a CampaignCode is only ever attached when the required fields
// (agency, project id, project name, objective, campaign id) all parsed.
type CampaignCode struct {
	Agency      string `json:"agency"`
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	Objective   string `json:"objective"`
	Period      string `json:"period,omitempty"`
	CampaignID  string `json:"campaign_id"`
}

// LineItem is one extracted (description, amount) pair. Created by the
// segmenter, enriched by the campaign code parser and category classifier,
// immutable once finalized.
type LineItem struct {
	RawDescription string          `json:"raw_description"`
	Amount         decimal.Decimal `json:"amount"`
	Category       Category        `json:"category"`
	CampaignCode   *CampaignCode   `json:"campaign_code,omitempty"`
}

// MarshalJSON emits the amount with exactly two fractional digits.
func (li LineItem) MarshalJSON() ([]byte, error) {
	type alias struct {
		RawDescription string        `json:"raw_description"`
		Amount         string        `json:"amount"`
		Category       Category      `json:"category"`
		CampaignCode   *CampaignCode `json:"campaign_code,omitempty"`
	}
	return json.Marshal(alias{
		RawDescription: li.RawDescription,
		Amount:         li.Amount.StringFixed(2),
		Category:       li.Category,
		CampaignCode:   li.CampaignCode,
	})
}

// ReconciliationResult is the per-document verdict comparing the declared
// invoice total against the sum of extracted line items.
type ReconciliationResult struct {
	DeclaredTotal     *decimal.Decimal             `json:"declared_total,omitempty"`
	ComputedTotal     decimal.Decimal              `json:"computed_total"`
	PerCategoryTotals map[Category]decimal.Decimal `json:"per_category_totals"`
	Discrepancy       *decimal.Decimal             `json:"discrepancy,omitempty"`
	Verdict           Verdict                      `json:"verdict"`
	Status            string                       `json:"status"`
}

// ProcessResult is the full output of processing one document.
type ProcessResult struct {
	DocumentID     string                `json:"document_id"`
	Provider       Provider              `json:"provider"`
	Subtype        Subtype               `json:"subtype"`
	Items          []LineItem            `json:"items"`
	Reconciliation *ReconciliationResult `json:"reconciliation"`
}
