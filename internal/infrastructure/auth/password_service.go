package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/you/plumbsvc/domain"
)

// PasswordServiceImpl hashes and checks admin passwords with bcrypt. Only
// the back-office login uses passwords; portal customers never have one.
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordService creates a password service at the default bcrypt cost.
func NewPasswordService() domain.PasswordService {
	return &PasswordServiceImpl{cost: bcrypt.DefaultCost}
}

// Hash implements domain.PasswordService
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify implements domain.PasswordService. Comparison failures and
// malformed hashes both read as a mismatch.
func (p *PasswordServiceImpl) Verify(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
