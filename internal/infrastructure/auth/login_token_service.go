package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/you/plumbsvc/domain"
)

// LoginTokenServiceImpl implements domain.LoginTokenService with HS256
// tokens. Used for magic-link email login and unsubscribe links; the token
// only ever carries an email, ownership is re-resolved when it is redeemed.
type LoginTokenServiceImpl struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
}

// NewLoginTokenService creates a new login token service
func NewLoginTokenService(secretKey, issuer string, ttl time.Duration) domain.LoginTokenService {
	return &LoginTokenServiceImpl{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		ttl:       ttl,
	}
}

func (l *LoginTokenServiceImpl) generateJTI() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// Generate implements domain.LoginTokenService
func (l *LoginTokenServiceImpl) Generate(email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"email": email,
		"iss":   l.issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(l.ttl).Unix(),
		"jti":   l.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(l.secretKey)
}

// Validate implements domain.LoginTokenService
func (l *LoginTokenServiceImpl) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenInvalid
		}
		return l.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}

	if !token.Valid {
		return "", domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrTokenInvalid
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", domain.ErrTokenInvalid
	}

	return email, nil
}
