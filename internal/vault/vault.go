// Package vault encrypts tenant secrets (SMTP passwords, model API keys) at rest.
package vault

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/scrypt"
)

// salt is fixed so the same ENCRYPTION_KEY always yields the same key.
var salt = []byte("salt")

// Vault performs reversible encryption with a key derived once per process.
//
// Ciphertexts are hex(nonce || sealed) using AES-256-GCM with a random nonce per call.
// Decrypt also accepts the legacy AES-256-CBC/zero-IV hex format and returns any value
// it cannot decrypt unchanged, so plaintext values stored before encryption keep working.
type Vault struct {
	aead   cipher.AEAD
	legacy cipher.Block
}

// New derives the key from secret with scrypt (N=16384, r=8, p=1).
func New(secret string) (*Vault, error) {
	key, err := scrypt.Key([]byte(secret), salt, 1<<14, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return &Vault{aead: aead, legacy: block}, nil
}

// Encrypt returns the ciphertext of text. Empty input is returned as is.
func (v *Vault) Encrypt(text string) (string, error) {
	if text == "" {
		return text, nil
	}
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}
	sealed := v.aead.Seal(nonce, nonce, []byte(text), nil)
	return hex.EncodeToString(sealed), nil
}

// Decrypt never fails: undecryptable input comes back unchanged.
func (v *Vault) Decrypt(text string) string {
	if text == "" {
		return text
	}
	raw, err := hex.DecodeString(text)
	if err != nil {
		return text
	}
	if plain, ok := v.openGCM(raw); ok {
		return plain
	}
	if plain, ok := v.openLegacy(raw); ok {
		return plain
	}
	return text
}

func (v *Vault) openGCM(raw []byte) (string, bool) {
	ns := v.aead.NonceSize()
	if len(raw) < ns+v.aead.Overhead() {
		return "", false
	}
	plain, err := v.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", false
	}
	return string(plain), true
}

func (v *Vault) openLegacy(raw []byte) (string, bool) {
	bs := v.legacy.BlockSize()
	if len(raw) == 0 || len(raw)%bs != 0 {
		return "", false
	}
	plain := make([]byte, len(raw))
	cipher.NewCBCDecrypter(v.legacy, make([]byte, bs)).CryptBlocks(plain, raw)

	pad := int(plain[len(plain)-1])
	if pad == 0 || pad > bs {
		return "", false
	}
	if !bytes.Equal(plain[len(plain)-pad:], bytes.Repeat([]byte{byte(pad)}, pad)) {
		return "", false
	}
	plain = plain[:len(plain)-pad]
	if !utf8.Valid(plain) {
		return "", false
	}
	return string(plain), true
}
