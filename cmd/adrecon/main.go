// Command adrecon runs the invoice pipeline over pre-extracted documents.
// Each argument is a JSON file containing one RawDocument; results are
// written to stdout as JSON, one object per document. All file I/O lives
// here, outside the core.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"adrecon/internal/config"
	"adrecon/internal/domain"
	"adrecon/internal/pipeline"
	"adrecon/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: adrecon <document.json> [...]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		log.Fatalf("building pipeline: %v", err)
	}

	inputs := make([]service.BatchInput, 0, len(os.Args)-1)
	for _, path := range os.Args[1:] {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("reading %s: %v", path, err)
		}
		var raw domain.RawDocument
		if err := json.Unmarshal(data, &raw); err != nil {
			log.Fatalf("decoding %s: %v", path, err)
		}
		if raw.DocumentID == "" {
			raw.DocumentID = filepath.Base(path)
		}
		if raw.ProviderHint == "" {
			raw.ProviderHint = filepath.Base(path)
		}
		inputs = append(inputs, service.BatchInput{
			DocumentID:   raw.DocumentID,
			FilenameHint: raw.ProviderHint,
			Raw:          &raw,
		})
	}

	batch := service.NewBatchProcessor(p, nil, cfg.Batch)
	report := batch.ProcessAll(context.Background(), inputs)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, r := range report.Results {
		if r.Err != nil {
			log.Printf("main: document %s failed: %v", r.DocumentID, r.Err)
			continue
		}
		if err := enc.Encode(r.Result); err != nil {
			log.Fatalf("encoding result for %s: %v", r.DocumentID, err)
		}
	}
}
