package domain

import "errors"

var (
	ErrMissingDocumentID = errors.New("document id is required")
	ErrNilDocument       = errors.New("raw document is required")
	ErrInvalidConfig     = errors.New("invalid pipeline configuration")
)
