package utils

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test constants
const (
	testPassword      = "SecurePassword123!"
	testWrongPassword = "WrongPassword456!"
)

func TestHashPassword_Success(t *testing.T) {
	// Arrange
	password := testPassword

	// Act
	hash, salt, err := HashPassword(password)

	// Assert
	require.NoError(t, err, "HashPassword should not return error for valid password")
	assert.NotEmpty(t, hash, "Hash should not be empty")
	assert.NotEmpty(t, salt, "Salt should not be empty")
	assert.NotEqual(t, password, hash, "Hash should be different from password")

	// Salt is 32 random bytes hex-encoded, hash is a 32-byte key hex-encoded
	assert.Len(t, salt, SaltLength*2, "Salt should be hex of 32 bytes")
	assert.Len(t, hash, KeyLength*2, "Hash should be hex of 32 bytes")
	_, err = hex.DecodeString(salt)
	assert.NoError(t, err, "Salt should be valid hex")
	_, err = hex.DecodeString(hash)
	assert.NoError(t, err, "Hash should be valid hex")
}

func TestHashPasswordWithSalt_Deterministic(t *testing.T) {
	// Arrange
	_, salt, err := HashPassword(testPassword)
	require.NoError(t, err, "Setup: HashPassword should not fail")

	// Act
	hash1 := HashPasswordWithSalt(testPassword, salt)
	hash2 := HashPasswordWithSalt(testPassword, salt)

	// Assert
	assert.Equal(t, hash1, hash2, "Same password and salt should always produce the same hash")
}

func TestVerifyPassword_Correct(t *testing.T) {
	// Arrange
	hash, salt, err := HashPassword(testPassword)
	require.NoError(t, err, "Setup: HashPassword should not fail")

	// Act
	match := VerifyPassword(testPassword, hash, salt)

	// Assert
	assert.True(t, match, "Password should match its hash")
}

func TestVerifyPassword_Incorrect(t *testing.T) {
	// Arrange
	hash, salt, err := HashPassword(testPassword)
	require.NoError(t, err, "Setup: HashPassword should not fail")

	// Act
	match := VerifyPassword(testWrongPassword, hash, salt)

	// Assert
	assert.False(t, match, "Wrong password should not match hash")
}

func TestVerifyPassword_WrongSalt(t *testing.T) {
	// Arrange
	hash, _, err := HashPassword(testPassword)
	require.NoError(t, err, "Setup: HashPassword should not fail")
	_, otherSalt, err := HashPassword(testPassword)
	require.NoError(t, err, "Setup: second HashPassword should not fail")

	// Act
	match := VerifyPassword(testPassword, hash, otherSalt)

	// Assert
	assert.False(t, match, "Hash derived with a different salt should not verify")
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	// Arrange
	password := testPassword

	// Act
	hash1, salt1, err1 := HashPassword(password)
	hash2, salt2, err2 := HashPassword(password)

	// Assert
	require.NoError(t, err1, "First HashPassword should not fail")
	require.NoError(t, err2, "Second HashPassword should not fail")
	assert.NotEqual(t, salt1, salt2, "Each call should generate a fresh random salt")
	assert.NotEqual(t, hash1, hash2, "Same password should produce different hashes due to unique salt")
}

func TestHashPassword_EmptyPassword(t *testing.T) {
	// Arrange
	password := ""

	// Act
	hash, salt, err := HashPassword(password)

	// Assert
	require.NoError(t, err, "PBKDF2 should handle empty passwords")
	assert.NotEmpty(t, hash, "Hash should be generated even for empty password")
	assert.True(t, VerifyPassword("", hash, salt), "Empty password should verify against its own hash")
}

func TestHashPassword_VeryLongPassword(t *testing.T) {
	// Arrange
	// 1000 character password
	password := strings.Repeat("a", 1000)

	// Act
	hash, salt, err := HashPassword(password)

	// Assert
	require.NoError(t, err, "HashPassword should handle very long passwords")
	assert.True(t, VerifyPassword(password, hash, salt), "Very long password should match its hash")
}

func TestHashPassword_UnicodeCharacters(t *testing.T) {
	// Arrange
	unicodePasswords := []string{
		"パスワード123",         // Japanese
		"Şifre123!",          // Turkish
		"Пароль123",          // Russian
		"🔒🔑Password123",      // Emoji
		"Contraseña_ñ_ü_ç_ş", // Mixed special chars
	}

	for _, password := range unicodePasswords {
		t.Run(password, func(t *testing.T) {
			// Act
			hash, salt, err := HashPassword(password)

			// Assert
			require.NoError(t, err, "HashPassword should handle unicode passwords")
			assert.True(t, VerifyPassword(password, hash, salt), "Unicode password should match its hash")
			assert.False(t, VerifyPassword(password+"x", hash, salt), "Modified password should not match")
		})
	}
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _, _ = HashPassword(testPassword)
	}
}

func BenchmarkVerifyPassword(b *testing.B) {
	hash, salt, _ := HashPassword(testPassword)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = VerifyPassword(testPassword, hash, salt)
	}
}
