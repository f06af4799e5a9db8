package services

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedCiphertext = errors.New("malformed ciphertext")

// Encryptor seals entry bodies with AES-256-GCM. Ciphertext is stored as
// hex(nonce):hex(sealed). A zero Encryptor (no key) is disabled and passes
// plaintext through on Encrypt.
type Encryptor struct {
	aead cipher.AEAD
}

func NewEncryptor(key []byte) (*Encryptor, error) {
	if len(key) == 0 {
		return &Encryptor{}, nil
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Encryptor{aead: aead}, nil
}

func (e *Encryptor) Enabled() bool {
	return e != nil && e.aead != nil
}

func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if !e.Enabled() {
		return plaintext, nil
	}
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := e.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(sealed), nil
}

func (e *Encryptor) Decrypt(ciphertext string) (string, error) {
	if !e.Enabled() {
		return "", errors.New("encryption key not configured")
	}
	nonceHex, sealedHex, ok := strings.Cut(ciphertext, ":")
	if !ok {
		return "", ErrMalformedCiphertext
	}
	nonce, err := hex.DecodeString(nonceHex)
	if err != nil || len(nonce) != e.aead.NonceSize() {
		return "", ErrMalformedCiphertext
	}
	sealed, err := hex.DecodeString(sealedHex)
	if err != nil {
		return "", ErrMalformedCiphertext
	}
	plain, err := e.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	return string(plain), nil
}
