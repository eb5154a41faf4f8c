package port

import (
	"context"

	"adrecon/internal/domain"
)

// TextExtractor abstracts the external text extraction collaborator. It is
// stateless and idempotent per document; rate limiting, retries and timeouts
// are the caller's concern.
type TextExtractor interface {
	Extract(ctx context.Context, documentBytes []byte) (*domain.RawDocument, error)
}
