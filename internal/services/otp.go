package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"itrportal/internal/apperr"
)

const (
	otpPrefix        = "otp:"
	otpAttemptPrefix = "otp_attempts:"
)

// OTPStore keeps issued one-time codes in Redis with a TTL and caps
// verification attempts per phone number.
type OTPStore struct {
	cache       *RedisCache
	ttl         time.Duration
	maxAttempts int
}

func NewOTPStore(cache *RedisCache, ttl time.Duration, maxAttempts int) *OTPStore {
	return &OTPStore{cache: cache, ttl: ttl, maxAttempts: maxAttempts}
}

// GenerateCode returns a random six-digit code
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Issue generates a code for the phone number and stores it, replacing
// any previous code
func (s *OTPStore) Issue(ctx context.Context, phoneNumber string) (string, error) {
	code, err := GenerateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	if err := s.cache.Set(ctx, otpPrefix+phoneNumber, code, s.ttl); err != nil {
		return "", fmt.Errorf("failed to store otp: %w", err)
	}
	_ = s.cache.Delete(ctx, otpAttemptPrefix+phoneNumber)
	return code, nil
}

// Verify checks the submitted code. The stored code is consumed on
// success; repeated failures within the TTL exhaust the attempt cap.
func (s *OTPStore) Verify(ctx context.Context, phoneNumber, code string) error {
	attempts, err := s.cache.IncrWithExpire(ctx, otpAttemptPrefix+phoneNumber, s.ttl)
	if err != nil {
		return fmt.Errorf("failed to count otp attempts: %w", err)
	}
	if attempts > int64(s.maxAttempts) {
		return apperr.Authentication("too many OTP attempts, request a new code")
	}

	stored, err := s.cache.Get(ctx, otpPrefix+phoneNumber)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperr.Authentication("invalid or expired OTP")
		}
		return fmt.Errorf("failed to read otp: %w", err)
	}

	if stored != code {
		return apperr.Authentication("invalid or expired OTP")
	}

	_ = s.cache.Delete(ctx, otpPrefix+phoneNumber)
	_ = s.cache.Delete(ctx, otpAttemptPrefix+phoneNumber)
	return nil
}
