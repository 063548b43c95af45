package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
)

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "itsasecret"
	payload := []byte(`{"repository":{"full_name":"Super/Project"}}`)

	t.Run("Valid Signature", func(t *testing.T) {
		if err := VerifySignature(secret, sign(secret, payload), payload); err != nil {
			t.Errorf("expected valid signature to pass, got %v", err)
		}
	})

	t.Run("Empty Secret Skips Verification", func(t *testing.T) {
		if err := VerifySignature("", "", payload); err != nil {
			t.Errorf("expected no verification without secret, got %v", err)
		}
	})

	t.Run("Missing Header", func(t *testing.T) {
		if err := VerifySignature(secret, "", payload); !errors.Is(err, ErrMissingSignature) {
			t.Errorf("expected ErrMissingSignature, got %v", err)
		}
	})

	t.Run("Bad Prefix", func(t *testing.T) {
		if err := VerifySignature(secret, "sha1=abcdef", payload); !errors.Is(err, ErrSignaturePrefix) {
			t.Errorf("expected ErrSignaturePrefix, got %v", err)
		}
	})

	t.Run("Undecodable Hex", func(t *testing.T) {
		if err := VerifySignature(secret, "sha256=nothex", payload); !errors.Is(err, ErrSignatureHex) {
			t.Errorf("expected ErrSignatureHex, got %v", err)
		}
	})

	t.Run("Mutated Payload", func(t *testing.T) {
		signature := sign(secret, payload)
		mutated := append([]byte(nil), payload...)
		mutated[0] ^= 1
		if err := VerifySignature(secret, signature, mutated); !errors.Is(err, ErrSignatureMismatch) {
			t.Errorf("expected ErrSignatureMismatch, got %v", err)
		}
	})

	t.Run("Mutated Signature", func(t *testing.T) {
		signature := []byte(sign(secret, payload))
		last := signature[len(signature)-1]
		if last == '0' {
			signature[len(signature)-1] = '1'
		} else {
			signature[len(signature)-1] = '0'
		}
		if err := VerifySignature(secret, string(signature), payload); !errors.Is(err, ErrSignatureMismatch) {
			t.Errorf("expected ErrSignatureMismatch, got %v", err)
		}
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		if err := VerifySignature(secret, sign("othersecret", payload), payload); !errors.Is(err, ErrSignatureMismatch) {
			t.Errorf("expected ErrSignatureMismatch, got %v", err)
		}
	})
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(60) // 1/s, burst 6

	for i := 0; i < 6; i++ {
		if err := rl.Allow("Super/Project"); err != nil {
			t.Fatalf("request %d within burst rejected: %v", i, err)
		}
	}
	if err := rl.Allow("Super/Project"); err == nil {
		t.Error("expected rejection past burst")
	}
	if err := rl.Allow("Other/Repo"); err != nil {
		t.Errorf("per-repository isolation broken: %v", err)
	}
}
