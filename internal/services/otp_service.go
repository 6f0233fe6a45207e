package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/plumbsvc/domain"
)

// OTPServiceImpl implements domain.OTPService using Redis persistence. OTPs
// are keyed by phone number only: portal login happens before any customer
// identity is established.
type OTPServiceImpl struct {
	notificationSvc domain.NotificationService
	redisClient     *redis.Client
	config          OTPConfig
}

type OTPConfig struct {
	Length       int
	TTL          time.Duration
	MaxAttempts  int
	ResendWindow time.Duration
}

// NewOTPService creates a new Redis-based OTP service
func NewOTPService(notificationSvc domain.NotificationService, redisClient *redis.Client, config OTPConfig) domain.OTPService {
	return &OTPServiceImpl{
		notificationSvc: notificationSvc,
		redisClient:     redisClient,
		config:          config,
	}
}

// Generate implements domain.OTPService
func (s *OTPServiceImpl) Generate(ctx context.Context, phone string) (*domain.OTPRequest, error) {
	otpKey := fmt.Sprintf("otp:%s", phone)
	resendKey := fmt.Sprintf("otp:res:%s", phone)
	attemptsKey := fmt.Sprintf("otp:att:%s", phone)

	if canResend, _, _ := s.CanResend(ctx, phone); !canResend {
		return nil, domain.ErrOTPResendLimit
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	if err := s.redisClient.Set(ctx, otpKey, code, s.config.TTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store OTP in Redis: %w", err)
	}

	if err := s.redisClient.Set(ctx, attemptsKey, 0, s.config.TTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to initialize attempts counter: %w", err)
	}

	if err := s.redisClient.Set(ctx, resendKey, 1, s.config.ResendWindow).Err(); err != nil {
		return nil, fmt.Errorf("failed to set resend throttle: %w", err)
	}

	otpReq := &domain.OTPRequest{
		Phone:     phone,
		Code:      code,
		ExpiresAt: time.Now().Add(s.config.TTL),
		Attempts:  0,
	}

	message := fmt.Sprintf("Your Economy Plumbing login code is %s. Valid for %d minutes.", code, int(s.config.TTL.Minutes()))
	if err := s.notificationSvc.SendSMS(phone, message); err != nil {
		// Clean up Redis entries if SMS fails
		s.redisClient.Del(ctx, otpKey, attemptsKey, resendKey)
		return nil, fmt.Errorf("failed to send OTP SMS: %w", err)
	}

	return otpReq, nil
}

// Verify implements domain.OTPService
func (s *OTPServiceImpl) Verify(ctx context.Context, phone, code string) (bool, error) {
	otpKey := fmt.Sprintf("otp:%s", phone)
	attemptsKey := fmt.Sprintf("otp:att:%s", phone)

	attempts, err := s.redisClient.Incr(ctx, attemptsKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment attempts: %w", err)
	}

	if attempts > int64(s.config.MaxAttempts) {
		s.redisClient.Del(ctx, otpKey, attemptsKey)
		return false, domain.ErrOTPMaxAttempts
	}

	storedCode, err := s.redisClient.Get(ctx, otpKey).Result()
	if err == redis.Nil {
		return false, domain.ErrOTPNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to get OTP from Redis: %w", err)
	}

	if storedCode != code {
		return false, domain.ErrOTPInvalid
	}

	// Success - a code is single use
	s.redisClient.Del(ctx, otpKey, attemptsKey)

	return true, nil
}

// CanResend implements domain.OTPService
func (s *OTPServiceImpl) CanResend(ctx context.Context, phone string) (bool, int64, error) {
	resendKey := fmt.Sprintf("otp:res:%s", phone)

	ttl, err := s.redisClient.TTL(ctx, resendKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to check resend TTL: %w", err)
	}

	if ttl <= 0 {
		return true, 0, nil
	}

	return false, int64(ttl.Seconds()), nil
}

// generateSecureCode generates a cryptographically secure OTP code
func (s *OTPServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.Length)

	for i := 0; i < s.config.Length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}
