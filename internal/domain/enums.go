package domain

// Provider identifies the advertising platform that issued an invoice.
type Provider string

const (
	ProviderGoogle  Provider = "google"
	ProviderMeta    Provider = "meta"
	ProviderTikTok  Provider = "tiktok"
	ProviderUnknown Provider = "unknown"
)

// Subtype distinguishes documents whose line items carry the embedded
// campaign-code grammar from plain free-form invoices.
type Subtype string

const (
	SubtypeStructured Subtype = "structured"
	SubtypeFreeForm   Subtype = "freeform"
)

// Category classifies a single extracted line item.
type Category string

const (
	CategoryCampaign Category = "campaign"
	CategoryRefund   Category = "refund"
	CategoryFee      Category = "fee"
	CategoryTotal    Category = "total"
	CategoryOther    Category = "other"
)

// Categories lists every valid line-item category.
var Categories = []Category{
	CategoryCampaign,
	CategoryRefund,
	CategoryFee,
	CategoryTotal,
	CategoryOther,
}

// IsValid reports whether c is a member of the closed category set.
func (c Category) IsValid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Countable reports whether items of this category contribute to the
// computed document total.
func (c Category) Countable() bool {
	return c == CategoryCampaign || c == CategoryRefund || c == CategoryFee
}

// Verdict is the reconciliation outcome for a document.
type Verdict string

const (
	VerdictMatch           Verdict = "match"
	VerdictMismatch        Verdict = "mismatch"
	VerdictNoDeclaredTotal Verdict = "no_declared_total"
)
