package services

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestEncryptionKey(t *testing.T) {
	t.Helper()
	key, err := GenerateEncryptionKey()
	require.NoError(t, err)
	t.Setenv("DATA_ENCRYPTION_KEY", key)
}

func TestEncryptDecrypt(t *testing.T) {
	setTestEncryptionKey(t)

	t.Run("Encrypt and Decrypt", func(t *testing.T) {
		plaintext := "Juan Pérez"
		encrypted, err := EncryptSensitiveData(plaintext)
		assert.NoError(t, err)
		assert.NotEmpty(t, encrypted)
		assert.NotEqual(t, plaintext, encrypted)

		decrypted, err := DecryptSensitiveData(encrypted)
		assert.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	})

	t.Run("Empty string", func(t *testing.T) {
		encrypted, err := EncryptSensitiveData("")
		assert.NoError(t, err)
		assert.Empty(t, encrypted)

		decrypted, err := DecryptSensitiveData("")
		assert.NoError(t, err)
		assert.Empty(t, decrypted)
	})

	t.Run("Different ciphertexts for same plaintext", func(t *testing.T) {
		plaintext := "test-value"
		encrypted1, _ := EncryptSensitiveData(plaintext)
		encrypted2, _ := EncryptSensitiveData(plaintext)
		assert.NotEqual(t, encrypted1, encrypted2)
	})
}

func TestEncryptionWithoutKey(t *testing.T) {
	os.Unsetenv("DATA_ENCRYPTION_KEY")

	_, err := EncryptSensitiveData("test")
	assert.ErrorIs(t, err, ErrEncryptionKeyNotSet)

	_, err = DecryptSensitiveData("test")
	assert.ErrorIs(t, err, ErrEncryptionKeyNotSet)
}

func TestInvalidCiphertext(t *testing.T) {
	setTestEncryptionKey(t)

	_, err := DecryptSensitiveData("not-valid-base64!!!")
	assert.Error(t, err)

	_, err = DecryptSensitiveData("YWJj") // "abc"
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestDecryptWithWrongKey(t *testing.T) {
	setTestEncryptionKey(t)
	encrypted, err := EncryptSensitiveData("secreto")
	require.NoError(t, err)

	setTestEncryptionKey(t)
	_, err = DecryptSensitiveData(encrypted)
	assert.Error(t, err)
}

func TestSealFormValues(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		setTestEncryptionKey(t)
		values := FormValues{"plaintiff": "María López", "facts": "Hechos relevantes"}

		sealed, err := SealFormValues(values)
		require.NoError(t, err)
		assert.NotContains(t, sealed, "María")

		opened, err := OpenFormValues(sealed)
		require.NoError(t, err)
		assert.Equal(t, values, opened)
	})

	t.Run("Without key values are not stored", func(t *testing.T) {
		os.Unsetenv("DATA_ENCRYPTION_KEY")
		sealed, err := SealFormValues(FormValues{"plaintiff": "María"})
		assert.NoError(t, err)
		assert.Empty(t, sealed)
	})

	t.Run("Empty sealed value", func(t *testing.T) {
		opened, err := OpenFormValues("")
		assert.NoError(t, err)
		assert.Empty(t, opened)
	})
}

func TestGenerateEncryptionKey(t *testing.T) {
	key1, err := GenerateEncryptionKey()
	assert.NoError(t, err)
	assert.NotEmpty(t, key1)

	key2, err := GenerateEncryptionKey()
	assert.NoError(t, err)
	assert.NotEqual(t, key1, key2)
}
