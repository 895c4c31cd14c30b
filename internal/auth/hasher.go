// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"

	"github.com/samber/oops"
)

// Credential digest sizes. Both the salt and the resulting digest are fixed
// at 32 bytes; verification fails closed on anything else.
const (
	SaltLength = 32
	HashLength = sha256.Size
)

// ErrEmptyPassword is returned when attempting to hash an empty password.
var ErrEmptyPassword = oops.Code("AUTH_EMPTY_PASSWORD").Errorf("password cannot be empty")

// CredentialHasher produces and verifies salted password digests.
type CredentialHasher interface {
	// Generate draws a fresh random salt and returns (digest, salt) where
	// digest = SHA-256(salt || password).
	Generate(password string) (hash, salt []byte, err error)

	// Verify recomputes the digest for the candidate password and compares
	// it against the expected one. Returns false, never an error, on any
	// malformed input.
	Verify(password string, salt, hash []byte) bool
}

// SHA256Hasher implements CredentialHasher with a 32-byte random salt and a
// single SHA-256 pass over salt || password.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// Generate draws a 32-byte random salt and computes SHA-256(salt || password).
func (h *SHA256Hasher) Generate(password string) ([]byte, []byte, error) {
	if password == "" {
		return nil, nil, ErrEmptyPassword
	}

	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, oops.Code("AUTH_SALT_FAILED").
			With("operation", "crypto/rand.Read").
			Wrap(err)
	}

	return digest(salt, password), salt, nil
}

// Verify checks a candidate password against a stored (salt, hash) pair.
// Fails closed: a salt or hash that is not exactly 32 bytes yields false.
// The comparison is constant-time.
func (h *SHA256Hasher) Verify(password string, salt, hash []byte) bool {
	if len(salt) != SaltLength || len(hash) != HashLength {
		return false
	}
	return subtle.ConstantTimeCompare(digest(salt, password), hash) == 1
}

func digest(salt []byte, password string) []byte {
	d := sha256.New()
	d.Write(salt)
	d.Write([]byte(password))
	return d.Sum(nil)
}
