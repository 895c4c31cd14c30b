// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

package auth

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA256HasherGenerate(t *testing.T) {
	hasher := NewSHA256Hasher()

	t.Run("produces fixed-size salt and digest", func(t *testing.T) {
		hash, salt, err := hasher.Generate("correct horse battery")
		require.NoError(t, err)
		assert.Len(t, salt, SaltLength)
		assert.Len(t, hash, HashLength)
	})

	t.Run("digest is sha256 of salt then password", func(t *testing.T) {
		hash, salt, err := hasher.Generate("hunter22")
		require.NoError(t, err)

		d := sha256.New()
		d.Write(salt)
		d.Write([]byte("hunter22"))
		assert.Equal(t, d.Sum(nil), hash)
	})

	t.Run("same password gets distinct salts", func(t *testing.T) {
		hash1, salt1, err := hasher.Generate("samesame")
		require.NoError(t, err)
		hash2, salt2, err := hasher.Generate("samesame")
		require.NoError(t, err)

		assert.NotEqual(t, salt1, salt2)
		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, _, err := hasher.Generate("")
		require.ErrorIs(t, err, ErrEmptyPassword)
	})
}

func TestSHA256HasherVerify(t *testing.T) {
	hasher := NewSHA256Hasher()
	hash, salt, err := hasher.Generate("open sesame")
	require.NoError(t, err)

	t.Run("accepts the original password", func(t *testing.T) {
		assert.True(t, hasher.Verify("open sesame", salt, hash))
	})

	t.Run("rejects a different password", func(t *testing.T) {
		assert.False(t, hasher.Verify("open sesamee", salt, hash))
		assert.False(t, hasher.Verify("", salt, hash))
	})

	t.Run("fails closed on malformed salt", func(t *testing.T) {
		assert.False(t, hasher.Verify("open sesame", salt[:16], hash))
		assert.False(t, hasher.Verify("open sesame", nil, hash))
	})

	t.Run("fails closed on malformed hash", func(t *testing.T) {
		assert.False(t, hasher.Verify("open sesame", salt, hash[:16]))
		assert.False(t, hasher.Verify("open sesame", salt, nil))
	})

	t.Run("rejects mismatched salt for same password", func(t *testing.T) {
		otherHash, otherSalt, err := hasher.Generate("open sesame")
		require.NoError(t, err)
		assert.False(t, hasher.Verify("open sesame", otherSalt, hash))
		assert.True(t, hasher.Verify("open sesame", otherSalt, otherHash))
	})
}
