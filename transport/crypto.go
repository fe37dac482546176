package transport

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"errors"
	"fmt"
)

const (
	ivLen       = 16
	ivRandomLen = 3
)

// ChannelCipher implements the CM channel-encryption scheme: AES-256-CBC
// with PKCS7 padding, IV itself AES-ECB-encrypted before transmission, in
// either a plain-random-IV mode or an HMAC-derived-IV mode.
type ChannelCipher struct {
	block      cipher.Block
	hmacSecret []byte
	useHMAC    bool
}

// NewChannelCipher builds a cipher from a 32-byte AES-256 session key. Use
// HMAC mode only when the server offered a challenge during the handshake.
func NewChannelCipher(sessionKey []byte, useHMAC bool) (*ChannelCipher, error) {
	if len(sessionKey) != 32 {
		return nil, fmt.Errorf("transport: session key must be 32 bytes, got %d", len(sessionKey))
	}
	block, err := aes.NewCipher(sessionKey)
	if err != nil {
		return nil, fmt.Errorf("transport: building AES cipher: %w", err)
	}
	c := &ChannelCipher{block: block, useHMAC: useHMAC}
	if useHMAC {
		c.hmacSecret = append([]byte{}, sessionKey[:16]...)
	}
	return c, nil
}

func (c *ChannelCipher) Encrypt(plaintext []byte) ([]byte, error) {
	iv := make([]byte, ivLen)
	if c.useHMAC {
		random3 := iv[ivLen-ivRandomLen:]
		if _, err := rand.Read(random3); err != nil {
			return nil, err
		}
		mac := hmac.New(sha1.New, c.hmacSecret)
		mac.Write(random3)
		mac.Write(plaintext)
		hash := mac.Sum(nil)
		copy(iv[:ivLen-ivRandomLen], hash[:ivLen-ivRandomLen])
	} else {
		if _, err := rand.Read(iv); err != nil {
			return nil, err
		}
	}

	encryptedIV := make([]byte, ivLen)
	c.block.Encrypt(encryptedIV, iv)

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(ciphertext, padded)

	out := make([]byte, 0, ivLen+len(ciphertext))
	out = append(out, encryptedIV...)
	out = append(out, ciphertext...)
	return out, nil
}

func (c *ChannelCipher) Decrypt(data []byte) ([]byte, error) {
	if len(data) < ivLen || (len(data)-ivLen)%aes.BlockSize != 0 {
		return nil, errors.New("transport: malformed encrypted packet")
	}

	iv := make([]byte, ivLen)
	c.block.Decrypt(iv, data[:ivLen])

	ciphertext := data[ivLen:]
	plainPadded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(plainPadded, ciphertext)

	plaintext, err := pkcs7Unpad(plainPadded)
	if err != nil {
		return nil, err
	}

	if c.useHMAC {
		random3 := iv[ivLen-ivRandomLen:]
		mac := hmac.New(sha1.New, c.hmacSecret)
		mac.Write(random3)
		mac.Write(plaintext)
		hash := mac.Sum(nil)
		if !hmac.Equal(hash[:ivLen-ivRandomLen], iv[:ivLen-ivRandomLen]) {
			return nil, errors.New("transport: HMAC verification failed")
		}
	}
	return plaintext, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("transport: cannot unpad empty data")
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > len(data) || padLen > aes.BlockSize {
		return nil, errors.New("transport: invalid PKCS7 padding")
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, errors.New("transport: invalid PKCS7 padding")
		}
	}
	return data[:len(data)-padLen], nil
}

// steamPublicKey is Steam's RSA public key for the Public universe, as a DER
// PKIX SubjectPublicKeyInfo blob (from SteamKit2/Util/KeyDictionary.cs,
// EUniverse.Public).
var steamPublicKey = []byte{
	0x30, 0x81, 0x9d, 0x30, 0x0d, 0x06, 0x09, 0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d, 0x01, 0x01, 0x01,
	0x05, 0x00, 0x03, 0x81, 0x8b, 0x00, 0x30, 0x81, 0x87, 0x02, 0x81, 0x81, 0x00, 0xdf, 0xaf, 0xd9,
	0x4e, 0x77, 0xa5, 0xc6, 0x5f, 0x9b, 0x76, 0xaf, 0xe4, 0xa1, 0x86, 0xea, 0x73, 0xea, 0x12, 0x0f,
	0xad, 0xd1, 0xf5, 0x49, 0x2b, 0xa6, 0xea, 0xd1, 0x2d, 0xe9, 0x1b, 0xb3, 0xde, 0x4c, 0x8b, 0x9c,
	0xd7, 0xf4, 0xa9, 0x42, 0xe6, 0xf2, 0xfa, 0x03, 0x07, 0xc7, 0x8e, 0x99, 0x8b, 0x37, 0xc9, 0xb8,
	0xb6, 0xc4, 0x27, 0x7b, 0x32, 0x27, 0x9c, 0xb5, 0xd5, 0x92, 0x6d, 0x30, 0x3f, 0xa2, 0x3c, 0x13,
	0xad, 0x29, 0x4b, 0x4f, 0x61, 0x6e, 0x3f, 0xee, 0xe3, 0x17, 0x4c, 0xf7, 0xb6, 0xd6, 0x41, 0x8a,
	0x05, 0x33, 0x42, 0x08, 0x93, 0xd4, 0x8c, 0x17, 0x81, 0x9e, 0x75, 0xab, 0x24, 0x64, 0x5b, 0x8c,
	0x3a, 0x48, 0x0f, 0x8c, 0xa7, 0x83, 0xef, 0x17, 0xb9, 0x29, 0x78, 0xd3, 0x35, 0x55, 0xcd, 0x18,
	0xf2, 0xc3, 0x92, 0x53, 0x4d, 0xf5, 0xb1, 0xc4, 0xf5, 0x93, 0xaa, 0x5d, 0x2c, 0x71, 0xbd, 0xb1,
	0x1d, 0xba, 0x5e, 0x5c, 0x9d, 0x0e, 0xd0, 0x0e, 0x6f, 0xde, 0x43, 0x02, 0x01, 0x11,
}

// EncryptSessionKey wraps the AES session key (optionally with the server's
// challenge appended) for the ChannelEncryptResponse using RSA-OAEP-SHA1
// against the Public-universe key above.
func EncryptSessionKey(sessionKey, challenge []byte) ([]byte, error) {
	pub, err := x509.ParsePKIXPublicKey(steamPublicKey)
	if err != nil {
		return nil, fmt.Errorf("transport: parsing steam public key: %w", err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("transport: steam public key is not RSA")
	}

	blob := sessionKey
	if len(challenge) > 0 {
		blob = append(append([]byte{}, sessionKey...), challenge...)
	}
	return rsa.EncryptOAEP(sha1.New(), rand.Reader, rsaPub, blob, nil)
}
