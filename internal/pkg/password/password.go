// Package password provides the one-way salted hashing primitive used for
// stored credentials. bcrypt embeds a per-call random salt in the digest, so
// hashing the same plaintext twice yields different digests that both verify,
// and comparison runs in constant time with respect to mismatches.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash produces a salted one-way digest of the plaintext.
func Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether the plaintext reproduces the digest. The hashing
// cost is deliberate backpressure against brute-force attempts.
func Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
