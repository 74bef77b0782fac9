// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"errors"
	"fmt"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
)

// JuryCodeLength is the length of a generated jury access code.
const JuryCodeLength = 4

const juryCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ValidateAdminKey compares the provided key against the configured one in
// constant time. An empty expected key never validates.
func ValidateAdminKey(provided, expected string) error {
	if expected == "" || !hmac.Equal([]byte(provided), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// GenerateJuryCode returns a random access code of uppercase letters and
// digits. Uniqueness is the caller's concern.
func GenerateJuryCode() (string, error) {
	// Largest multiple of len(juryCodeChars) that fits in a byte,
	// so rejected bytes keep the distribution uniform
	limit := byte(256 - 256%len(juryCodeChars))

	code := make([]byte, 0, JuryCodeLength)
	buf := make([]byte, JuryCodeLength*2)
	for len(code) < JuryCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate jury code: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			code = append(code, juryCodeChars[int(b)%len(juryCodeChars)])
			if len(code) == JuryCodeLength {
				break
			}
		}
	}
	return string(code), nil
}
