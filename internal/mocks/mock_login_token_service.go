package mocks

import "github.com/you/plumbsvc/domain"

// MockLoginTokenService implements domain.LoginTokenService interface for testing
type MockLoginTokenService struct {
	GenerateFunc func(email string) (string, error)
	ValidateFunc func(token string) (string, error)
}

// NewMockLoginTokenService creates a new MockLoginTokenService with default behaviors
func NewMockLoginTokenService() *MockLoginTokenService {
	return &MockLoginTokenService{}
}

// Generate issues a signed token for the email
func (m *MockLoginTokenService) Generate(email string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(email)
	}
	return "mock_token_" + email, nil
}

// Validate returns the email the token was issued for
func (m *MockLoginTokenService) Validate(token string) (string, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token)
	}
	return "", domain.ErrTokenInvalid
}

// Compile-time interface compliance verification
var _ domain.LoginTokenService = (*MockLoginTokenService)(nil)
