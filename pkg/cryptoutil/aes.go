package cryptoutil

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// AESGCMKeySize is the key length required for AES-256-GCM.
const AESGCMKeySize = 32

// Encrypt seals plaintext with AES-256-GCM under key, returning a
// hex-encoded nonce||ciphertext string. key must be AESGCMKeySize bytes.
func Encrypt(key []byte, plaintext string) (string, error) {
	if len(key) != AESGCMKeySize {
		return "", fmt.Errorf("cryptoutil: key must be %d bytes, got %d", AESGCMKeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("cryptoutil: creating cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("cryptoutil: creating GCM: %w", err)
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("cryptoutil: generating nonce: %w", err)
	}

	ciphertext := aesGCM.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(ciphertext), nil
}

// Decrypt opens a hex-encoded nonce||ciphertext string produced by Encrypt.
func Decrypt(key []byte, ciphertextHex string) (string, error) {
	if len(key) != AESGCMKeySize {
		return "", fmt.Errorf("cryptoutil: key must be %d bytes, got %d", AESGCMKeySize, len(key))
	}

	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return "", fmt.Errorf("cryptoutil: decoding ciphertext: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("cryptoutil: creating cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("cryptoutil: creating GCM: %w", err)
	}

	nonceSize := aesGCM.NonceSize()
	if len(ciphertext) < nonceSize {
		return "", fmt.Errorf("cryptoutil: ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("cryptoutil: decrypting: %w", err)
	}

	return string(plaintext), nil
}
