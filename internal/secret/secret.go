// Package secret encrypts sensitive customer data at rest with fernet tokens.
package secret

import (
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"
)

// ErrInvalidToken is returned when a token was not produced with the box key
// or has been tampered with.
var ErrInvalidToken = errors.New("invalid or tampered secret token")

// Box seals and opens fernet tokens with a single key.
type Box struct {
	key *fernet.Key
}

// NewBox creates a Box from a base64-encoded 32-byte fernet key.
func NewBox(encodedKey string) (*Box, error) {
	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("invalid fernet key: %w", err)
	}
	return &Box{key: key}, nil
}

// GenerateKey returns a new random key, base64 encoded.
func GenerateKey() (string, error) {
	var k fernet.Key
	if err := k.Generate(); err != nil {
		return "", err
	}
	return k.Encode(), nil
}

// Seal encrypts and signs plaintext.
func (b *Box) Seal(plaintext []byte) (string, error) {
	tok, err := fernet.EncryptAndSign(plaintext, b.key)
	if err != nil {
		return "", fmt.Errorf("failed to seal secret: %w", err)
	}
	return string(tok), nil
}

// Open verifies and decrypts a token produced by Seal. Tokens never expire.
func (b *Box) Open(token string) ([]byte, error) {
	msg := fernet.VerifyAndDecrypt([]byte(token), -1, []*fernet.Key{b.key})
	if msg == nil {
		return nil, ErrInvalidToken
	}
	return msg, nil
}
