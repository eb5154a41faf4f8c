package mocks

import (
	"github.com/stretchr/testify/mock"

	"adrecon/internal/domain"
)

// MockDocumentProcessor is a mock implementation of port.DocumentProcessor.
type MockDocumentProcessor struct {
	mock.Mock
}

func (m *MockDocumentProcessor) Process(documentID, filenameHint string, raw *domain.RawDocument) (*domain.ProcessResult, error) {
	args := m.Called(documentID, filenameHint, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessResult), args.Error(1)
}
