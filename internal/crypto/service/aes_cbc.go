package service

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
)

// AESCBCCipher implements FieldCipher with AES-256 in CBC mode and PKCS#7 padding.
//
// The encoded field is base64(IV || ciphertext) with a 16-byte random IV. CBC carries
// no authentication tag: a modified field either fails padding/decoding checks or
// decrypts to different bytes. Detecting tampering is not part of this contract.
//
// The cipher holds no state and is safe for concurrent use.
type AESCBCCipher struct{}

// NewAESCBCCipher creates a new AESCBCCipher.
func NewAESCBCCipher() *AESCBCCipher {
	return &AESCBCCipher{}
}

// Encrypt pads plaintext, encrypts it under key with a fresh IV and returns the encoded field.
func (a *AESCBCCipher) Encrypt(plaintext string, key cryptoDomain.DerivedKey) (string, error) {
	block, err := newBlock(key)
	if err != nil {
		return "", err
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, cryptoDomain.IVSize+len(padded))

	iv := out[:cryptoDomain.IVSize]
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate iv: %w", err)
	}

	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[cryptoDomain.IVSize:], padded)
	cryptoDomain.Zero(padded)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt decodes token, splits the IV and decrypts the remainder under key.
func (a *AESCBCCipher) Decrypt(token string, key cryptoDomain.DerivedKey) (string, error) {
	block, err := newBlock(key)
	if err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64", cryptoDomain.ErrMalformedCiphertext)
	}
	if len(raw) < cryptoDomain.IVSize {
		return "", fmt.Errorf("%w: shorter than iv", cryptoDomain.ErrMalformedCiphertext)
	}

	iv, body := raw[:cryptoDomain.IVSize], raw[cryptoDomain.IVSize:]
	if len(body) == 0 || len(body)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: body is not block aligned", cryptoDomain.ErrMalformedCiphertext)
	}

	plain := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, body)
	defer cryptoDomain.Zero(plain)

	unpadded, err := pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return "", err
	}

	return string(unpadded), nil
}

func newBlock(key cryptoDomain.DerivedKey) (cipher.Block, error) {
	if !key.Valid() {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	return block, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data), len(data)+n)
	copy(out, data)
	return append(out, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: invalid padding", cryptoDomain.ErrMalformedCiphertext)
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, fmt.Errorf("%w: invalid padding", cryptoDomain.ErrMalformedCiphertext)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: invalid padding", cryptoDomain.ErrMalformedCiphertext)
		}
	}

	return data[:len(data)-n], nil
}
