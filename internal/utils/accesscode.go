package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const accessCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateAccessCode generates a customer lookup code in the form
// CUST-XXXX-XXXX using the uppercase alphanumeric alphabet.
func GenerateAccessCode() (string, error) {
	part := func() (string, error) {
		b := make([]byte, 4)
		if _, err := rand.Read(b); err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}
		var builder strings.Builder
		for _, c := range b {
			builder.WriteByte(accessCodeAlphabet[int(c)%len(accessCodeAlphabet)])
		}
		return builder.String(), nil
	}

	first, err := part()
	if err != nil {
		return "", err
	}
	second, err := part()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CUST-%s-%s", first, second), nil
}

// IsAccessCode reports whether s looks like a customer access code.
func IsAccessCode(s string) bool {
	if len(s) != 14 || !strings.HasPrefix(s, "CUST-") || s[9] != '-' {
		return false
	}
	for _, part := range []string{s[5:9], s[10:14]} {
		for i := 0; i < len(part); i++ {
			if !strings.ContainsRune(accessCodeAlphabet, rune(part[i])) {
				return false
			}
		}
	}
	return true
}
