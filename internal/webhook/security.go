package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// VerifySignature checks the GitHub HMAC-SHA256 signature header
// ("sha256=<hex>") against the exact raw request body. An empty secret
// disables verification; a non-empty secret makes the header required.
func VerifySignature(secret, signature string, payload []byte) error {
	if secret == "" {
		return nil
	}
	if signature == "" {
		return ErrMissingSignature
	}
	if !strings.HasPrefix(signature, "sha256=") {
		return ErrSignaturePrefix
	}

	expected, err := hex.DecodeString(signature[len("sha256="):])
	if err != nil {
		return ErrSignatureHex
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)

	// Constant-time comparison on raw bytes
	if !hmac.Equal(expected, mac.Sum(nil)) {
		return ErrSignatureMismatch
	}
	return nil
}

// rateLimiter throttles webhook deliveries per repository, with
// auto-cleanup of idle entries.
type rateLimiter struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

func newRateLimiter(requestsPerMin int) *rateLimiter {
	burst := requestsPerMin / 10
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](
			1000,          // Max 1000 unique repositories
			nil,           // No eviction callback
			time.Minute*5, // TTL: 5 minutes
		),
		rate:  rate.Limit(float64(requestsPerMin) / 60.0), // Per second
		burst: burst,
	}
}

func (rl *rateLimiter) Allow(key string) error {
	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(key, limiter)
	}

	if !limiter.Allow() {
		return fmt.Errorf("rate limit exceeded for %s", key)
	}
	return nil
}
