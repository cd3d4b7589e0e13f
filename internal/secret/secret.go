// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package secret encrypts credentials at rest with a key bound to the host.
// It protects against casual disclosure of the data file, not against an
// attacker who can read the file and knows the host identity.
package secret

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/argon2"
)

// keySalt is fixed so the same host id always yields the same key.
var keySalt = []byte("itab.webdav.credentials.v1")

// Argon2id parameters, matching the ones used for vault master keys.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	keyLen       = 32
)

var errPadding = errors.New("secret: invalid padding")

// Codec encrypts and decrypts short secrets with AES-256-CBC.
type Codec struct {
	key []byte
}

// NewCodec derives the key from hostID. An empty hostID falls back to the
// machine hostname.
func NewCodec(hostID string) (*Codec, error) {
	if hostID == "" {
		h, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("secret host id: %w", err)
		}
		hostID = h
	}
	key := argon2.IDKey([]byte(hostID), keySalt, argonTime, argonMemory, argonThreads, keyLen)
	return &Codec{key: key}, nil
}

// Encrypt returns hex(iv) + ":" + hex(ciphertext). Empty input yields an
// empty string.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("secret iv: %w", err)
	}

	padded := pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. Input that is not a well-formed ciphertext for
// this key is returned unchanged, so values stored before encryption was
// enabled keep working.
func (c *Codec) Decrypt(text string) string {
	plain, err := c.decrypt(text)
	if err != nil {
		return text
	}
	return plain
}

func (c *Codec) decrypt(text string) (string, error) {
	ivHex, ctHex, ok := strings.Cut(text, ":")
	if !ok {
		return "", errors.New("secret: missing separator")
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return "", err
	}
	ct, err := hex.DecodeString(ctHex)
	if err != nil {
		return "", err
	}
	if len(iv) != aes.BlockSize || len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return "", errors.New("secret: bad length")
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	out := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ct)

	plain, err := unpad(out, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, errPadding
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, errPadding
	}
	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, errPadding
		}
	}
	return b[:len(b)-n], nil
}
