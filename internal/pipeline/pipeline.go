// Package pipeline wires the processing stages into the single per-document
// entry point: normalize, classify, segment, enrich, categorize, reconcile.
// Each stage hands an immutable value forward; nothing is mutated once a
// stage has produced it.
package pipeline

import (
	"fmt"
	"log"

	"adrecon/internal/campaign"
	"adrecon/internal/category"
	"adrecon/internal/classifier"
	"adrecon/internal/config"
	"adrecon/internal/domain"
	"adrecon/internal/normalizer"
	"adrecon/internal/reconcile"
	"adrecon/internal/segmenter"
)

// Pipeline processes one document at a time. It is stateless across
// documents and safe for concurrent use.
type Pipeline struct {
	normalizer *normalizer.Normalizer
	segmenter  *segmenter.Segmenter
	category   *category.Classifier
	reconciler *reconcile.Validator
}

// New builds a Pipeline from configuration. Misconfiguration is the only
// construction failure; data quality never is.
func New(cfg *config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline configuration: %w", err)
	}
	return &Pipeline{
		normalizer: normalizer.New(cfg.Normalizer),
		segmenter:  segmenter.New(cfg.Segmenter),
		category:   category.New(cfg.Category, cfg.Reconcile.MagnitudeMax),
		reconciler: reconcile.New(cfg.Reconcile),
	}, nil
}

// Process turns one extracted document into classified line items and a
// reconciliation verdict. The caller always receives a complete result with
// an explicit verdict; "I don't know" is modeled as data, never as an error.
// Only caller bugs (missing document id, nil document) raise.
func (p *Pipeline) Process(documentID, filenameHint string, raw *domain.RawDocument) (*domain.ProcessResult, error) {
	if documentID == "" {
		return nil, domain.ErrMissingDocumentID
	}
	if raw == nil {
		return nil, domain.ErrNilDocument
	}
	if filenameHint == "" {
		filenameHint = raw.ProviderHint
	}

	lines := p.normalizer.Normalize(raw.Pages)
	cls := classifier.Classify(filenameHint, lines)

	items := p.segmenter.Segment(lines)
	for i := range items {
		// Attempted on every item: free-form descriptions simply have no
		// recognizable anchor, which is a normal, silent outcome.
		items[i].CampaignCode = campaign.Parse(items[i].RawDescription)
		items[i] = p.category.Classify(items[i])
	}

	recon := p.reconciler.Reconcile(items, lines)

	log.Printf("pipeline.Process: document %s — provider=%s subtype=%s items=%d verdict=%s",
		documentID, cls.Provider, cls.Subtype, len(items), recon.Verdict)

	return &domain.ProcessResult{
		DocumentID:     documentID,
		Provider:       cls.Provider,
		Subtype:        cls.Subtype,
		Items:          items,
		Reconciliation: recon,
	}, nil
}
