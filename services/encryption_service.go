package services

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	// ErrEncryptionKeyNotSet indicates the encryption key environment variable is not configured
	ErrEncryptionKeyNotSet = errors.New("DATA_ENCRYPTION_KEY environment variable is not set")
	// ErrInvalidCiphertext indicates the ciphertext is malformed or too short
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
)

// getEncryptionKey retrieves the encryption key from environment variables.
// The key must be exactly 32 bytes.
func getEncryptionKey() ([]byte, error) {
	keyStr := os.Getenv("DATA_ENCRYPTION_KEY")
	if keyStr == "" {
		return nil, ErrEncryptionKeyNotSet
	}

	key, err := base64.StdEncoding.DecodeString(keyStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode encryption key: %w", err)
	}

	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes (got %d bytes)", chacha20poly1305.KeySize, len(key))
	}

	return key, nil
}

// EncryptSensitiveData seals plaintext with XChaCha20-Poly1305.
// Returns base64(nonce || ciphertext).
func EncryptSensitiveData(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil // Don't encrypt empty strings
	}

	key, err := getEncryptionKey()
	if err != nil {
		return "", err
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptSensitiveData opens a value produced by EncryptSensitiveData
func DecryptSensitiveData(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil // Don't decrypt empty strings
	}

	key, err := getEncryptionKey()
	if err != nil {
		return "", err
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	if len(data) < aead.NonceSize()+aead.Overhead() {
		return "", ErrInvalidCiphertext
	}

	nonce, sealed := data[:aead.NonceSize()], data[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	return string(plaintext), nil
}

// SealFormValues encrypts submitted form values for storage. Without a
// configured key the values are not kept and an empty string is returned.
func SealFormValues(values FormValues) (string, error) {
	if len(values) == 0 {
		return "", nil
	}
	if _, err := getEncryptionKey(); errors.Is(err, ErrEncryptionKeyNotSet) {
		return "", nil
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode form values: %w", err)
	}
	return EncryptSensitiveData(string(raw))
}

// OpenFormValues reverses SealFormValues
func OpenFormValues(sealed string) (FormValues, error) {
	if sealed == "" {
		return FormValues{}, nil
	}

	raw, err := DecryptSensitiveData(sealed)
	if err != nil {
		return nil, err
	}

	values := FormValues{}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("failed to decode form values: %w", err)
	}
	return values, nil
}

// GenerateEncryptionKey returns a new random base64 key suitable for
// DATA_ENCRYPTION_KEY.
func GenerateEncryptionKey() (string, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
