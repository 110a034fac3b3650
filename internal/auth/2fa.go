package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"

	"github.com/pquerna/otp/totp"
)

// totpIssuer labels enrolled accounts in authenticator apps.
const totpIssuer = "MedCertDashboard"

// GenerateTOTPSecret creates a fresh TOTP key for the account and returns
// the base32 secret together with the otpauth enrollment URL.
func GenerateTOTPSecret(accountName string) (secret, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: accountName,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

// ValidateTOTP checks if the provided TOTP code is valid for the given secret
func ValidateTOTP(secret, code string) bool {
	return totp.Validate(code, secret)
}

// EncryptTOTPSecret encrypts the TOTP secret before storing it. AES-GCM
// with a random nonce; the key is derived from the configured encryption
// key via SHA-256.
func EncryptTOTPSecret(secret, encryptionKey string) (string, error) {
	hash := sha256.Sum256([]byte(encryptionKey))
	block, err := aes.NewCipher(hash[:])
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, []byte(secret), nil)
	return hex.EncodeToString(sealed), nil
}

// DecryptTOTPSecret decrypts a stored TOTP secret.
func DecryptTOTPSecret(encryptedSecret, encryptionKey string) (string, error) {
	sealed, err := hex.DecodeString(encryptedSecret)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256([]byte(encryptionKey))
	block, err := aes.NewCipher(hash[:])
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	if len(sealed) < gcm.NonceSize() {
		return "", errors.New("encrypted secret too short")
	}

	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
