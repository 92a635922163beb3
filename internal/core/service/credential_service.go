package service

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/studentmonitor/student-monitor-api/internal/api/metrics"
)

const defaultHashConcurrency = 4

// BcryptCredentialService hashes and verifies passwords with bcrypt.
// Hashing is deliberately slow, so a semaphore caps the number of hashes
// computed at once; a burst of registrations queues here instead of
// exhausting the request workers. The plaintext argument is never logged.
type BcryptCredentialService struct {
	cost int
	sem  chan struct{}
}

// NewBcryptCredentialService builds a credential service with the given
// bcrypt cost and concurrency bound. Out-of-range values fall back to
// bcrypt.DefaultCost and defaultHashConcurrency.
func NewBcryptCredentialService(cost, maxConcurrent int) *BcryptCredentialService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if maxConcurrent <= 0 {
		maxConcurrent = defaultHashConcurrency
	}
	return &BcryptCredentialService{
		cost: cost,
		sem:  make(chan struct{}, maxConcurrent),
	}
}

// Hash produces an opaque bcrypt hash of the plaintext.
func (s *BcryptCredentialService) Hash(plaintext string) (string, error) {
	start := time.Now()
	defer func() { metrics.PasswordHashDuration.Observe(time.Since(start).Seconds()) }()

	s.sem <- struct{}{}
	defer func() { <-s.sem }()

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether the plaintext matches the stored hash.
func (s *BcryptCredentialService) Verify(plaintext, hash string) bool {
	s.sem <- struct{}{}
	defer func() { <-s.sem }()

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
