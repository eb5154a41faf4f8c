// Package service runs the per-document pipeline over batches. Documents
// are independent, so the batch fans out one worker per document under a
// concurrency bound; one bad document never halts the batch.
package service

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"adrecon/internal/config"
	"adrecon/internal/domain"
	"adrecon/internal/port"
)

// BatchInput is one document to process: either an already-extracted
// RawDocument, or raw bytes to hand to the text extractor first.
type BatchInput struct {
	DocumentID   string
	FilenameHint string
	Raw          *domain.RawDocument
	Bytes        []byte
}

// BatchItemResult pairs one input with its outcome. Err is set only for
// boundary failures (extractor errors, caller bugs); data-quality issues
// surface inside Result.
type BatchItemResult struct {
	DocumentID string
	Result     *domain.ProcessResult
	Err        error
}

// BatchReport summarizes one batch run.
type BatchReport struct {
	RunID       uuid.UUID
	Processed   int
	Matches     int
	Mismatches  int
	Unverified  int
	Failed      int
	Results     []BatchItemResult
}

// BatchProcessor fans documents out to the pipeline.
type BatchProcessor struct {
	processor   port.DocumentProcessor
	extractor   port.TextExtractor
	concurrency int
}

// NewBatchProcessor creates a BatchProcessor. extractor may be nil when all
// inputs carry pre-extracted RawDocuments.
func NewBatchProcessor(processor port.DocumentProcessor, extractor port.TextExtractor, cfg config.BatchConfig) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		extractor:   extractor,
		concurrency: cfg.Concurrency,
	}
}

// ProcessAll processes every input and returns results in input order.
// Cancellation marks unstarted documents with ctx.Err(); in-flight documents
// run to completion since the pipeline itself never blocks on I/O.
func (b *BatchProcessor) ProcessAll(ctx context.Context, inputs []BatchInput) *BatchReport {
	report := &BatchReport{
		RunID:   uuid.New(),
		Results: make([]BatchItemResult, len(inputs)),
	}

	log.Printf("service.BatchProcessor: run %s started (documents=%d, concurrency=%d)",
		report.RunID, len(inputs), b.concurrency)

	sem := make(chan struct{}, b.concurrency)
	var wg sync.WaitGroup
	for i := range inputs {
		if ctx.Err() != nil {
			report.Results[i] = BatchItemResult{DocumentID: inputs[i].DocumentID, Err: ctx.Err()}
			continue
		}
		sem <- struct{}{} // acquire
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }() // release
			report.Results[i] = b.processOne(ctx, inputs[i])
		}(i)
	}
	wg.Wait()

	for _, r := range report.Results {
		switch {
		case r.Err != nil:
			report.Failed++
		case r.Result == nil:
			report.Failed++
		default:
			report.Processed++
			switch r.Result.Reconciliation.Verdict {
			case domain.VerdictMatch:
				report.Matches++
			case domain.VerdictMismatch:
				report.Mismatches++
			case domain.VerdictNoDeclaredTotal:
				report.Unverified++
			}
		}
	}

	log.Printf("service.BatchProcessor: run %s finished — processed=%d matches=%d mismatches=%d unverified=%d failed=%d",
		report.RunID, report.Processed, report.Matches, report.Mismatches, report.Unverified, report.Failed)
	return report
}

func (b *BatchProcessor) processOne(ctx context.Context, input BatchInput) BatchItemResult {
	raw := input.Raw
	if raw == nil && b.extractor != nil {
		extracted, err := b.extractor.Extract(ctx, input.Bytes)
		if err != nil {
			log.Printf("service.BatchProcessor: extraction failed for document %s: %v", input.DocumentID, err)
			return BatchItemResult{DocumentID: input.DocumentID, Err: err}
		}
		raw = extracted
	}

	result, err := b.processor.Process(input.DocumentID, input.FilenameHint, raw)
	if err != nil {
		log.Printf("service.BatchProcessor: processing failed for document %s: %v", input.DocumentID, err)
		return BatchItemResult{DocumentID: input.DocumentID, Err: err}
	}
	return BatchItemResult{DocumentID: input.DocumentID, Result: result}
}
