package services

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"

	"myarc/utils"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters shared by passwords and privacy PINs
const (
	memory      = 64 * 1024
	iterations  = 3
	parallelism = 2
	keyLength   = 32
	saltLength  = 16
)

var ErrInvalidPIN = errors.New("pin must be exactly 4 digits")

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	return hashSecret(password)
}

// HashPIN hashes a 4-digit privacy PIN the same way passwords are hashed.
func HashPIN(pin string) (string, error) {
	if !utils.ValidatePIN(pin) {
		return "", ErrInvalidPIN
	}
	return hashSecret(pin)
}

// VerifyPassword verifies if the provided secret matches the stored hash
func VerifyPassword(stored, provided string) (bool, error) {
	parts := strings.Split(stored, "$")
	if len(parts) != 2 {
		return false, errors.New("invalid stored hash format")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[0])
	if err != nil {
		return false, err
	}
	storedHash, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(provided), salt, iterations, memory, parallelism, keyLength)
	return subtle.ConstantTimeCompare(computed, storedHash) == 1, nil
}

// ComparePasswords returns true if plain matches storedHash. Malformed hashes
// never match.
func ComparePasswords(storedHash, plain string) bool {
	match, err := VerifyPassword(storedHash, plain)
	if err != nil {
		return false
	}
	return match
}

func ComparePIN(storedHash, pin string) bool {
	return utils.ValidatePIN(pin) && ComparePasswords(storedHash, pin)
}

func hashSecret(secret string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.New("failed to generate salt")
	}

	hash := argon2.IDKey([]byte(secret), salt, iterations, memory, parallelism, keyLength)

	encodedSalt := base64.RawStdEncoding.EncodeToString(salt)
	encodedHash := base64.RawStdEncoding.EncodeToString(hash)
	return encodedSalt + "$" + encodedHash, nil
}
