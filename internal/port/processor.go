package port

import "adrecon/internal/domain"

// DocumentProcessor turns one extracted document into classified line items
// and a reconciliation verdict. Implementations never fail for data-quality
// reasons; an error indicates a caller bug (nil document, missing id).
type DocumentProcessor interface {
	Process(documentID, filenameHint string, raw *domain.RawDocument) (*domain.ProcessResult, error)
}
