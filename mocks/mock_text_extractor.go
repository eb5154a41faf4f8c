package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"adrecon/internal/domain"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(ctx context.Context, documentBytes []byte) (*domain.RawDocument, error) {
	args := m.Called(ctx, documentBytes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawDocument), args.Error(1)
}
