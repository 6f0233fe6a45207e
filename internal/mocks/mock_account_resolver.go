package mocks

import (
	"context"

	"github.com/you/plumbsvc/domain"
)

// MockAccountResolver implements domain.AccountResolver interface for testing
type MockAccountResolver struct {
	ResolveByPhoneFunc func(ctx context.Context, phone string) ([]int64, error)
	ResolveByEmailFunc func(ctx context.Context, email string) ([]int64, error)
}

// NewMockAccountResolver creates a new MockAccountResolver with default behaviors
func NewMockAccountResolver() *MockAccountResolver {
	return &MockAccountResolver{}
}

// ResolveByPhone resolves customer ids for a phone number
func (m *MockAccountResolver) ResolveByPhone(ctx context.Context, phone string) ([]int64, error) {
	if m.ResolveByPhoneFunc != nil {
		return m.ResolveByPhoneFunc(ctx, phone)
	}
	// Default behavior: no match
	return nil, nil
}

// ResolveByEmail resolves customer ids for an email
func (m *MockAccountResolver) ResolveByEmail(ctx context.Context, email string) ([]int64, error) {
	if m.ResolveByEmailFunc != nil {
		return m.ResolveByEmailFunc(ctx, email)
	}
	// Default behavior: no match
	return nil, nil
}

// Compile-time interface compliance verification
var _ domain.AccountResolver = (*MockAccountResolver)(nil)
