package transport

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	sessionKey := make([]byte, 32)
	if _, err := rand.Read(sessionKey); err != nil {
		t.Fatal(err)
	}

	sizes := []int{0, 5, 16, 17, 63}
	for _, useHMAC := range []bool{false, true} {
		for _, size := range sizes {
			plaintext := make([]byte, size)
			if _, err := rand.Read(plaintext); err != nil {
				t.Fatal(err)
			}

			c, err := NewChannelCipher(sessionKey, useHMAC)
			if err != nil {
				t.Fatal(err)
			}
			ciphertext, err := c.Encrypt(plaintext)
			if err != nil {
				t.Fatal(err)
			}
			got, err := c.Decrypt(ciphertext)
			if err != nil {
				t.Fatalf("useHMAC=%v size=%d: %v", useHMAC, size, err)
			}
			if !bytes.Equal(got, plaintext) {
				t.Errorf("useHMAC=%v size=%d: roundtrip mismatch", useHMAC, size)
			}
		}
	}
}

func TestEncryptProducesDifferentOutput(t *testing.T) {
	sessionKey := make([]byte, 32)
	if _, err := rand.Read(sessionKey); err != nil {
		t.Fatal(err)
	}
	c, err := NewChannelCipher(sessionKey, false)
	if err != nil {
		t.Fatal(err)
	}
	plaintext := []byte("same plaintext every time")

	a, err := c.Encrypt(plaintext)
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Encrypt(plaintext)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, b) {
		t.Error("expected different ciphertext for repeated encryption of the same plaintext")
	}
}

func TestPKCS7PadUnpad(t *testing.T) {
	for _, size := range []int{0, 1, 15, 16, 17, 31, 32} {
		data := make([]byte, size)
		padded := pkcs7Pad(data, 16)
		if len(padded)%16 != 0 {
			t.Fatalf("size %d: padded length %d not block-aligned", size, len(padded))
		}
		unpadded, err := pkcs7Unpad(padded)
		if err != nil {
			t.Fatalf("size %d: %v", size, err)
		}
		if !bytes.Equal(unpadded, data) {
			t.Errorf("size %d: unpad mismatch", size)
		}
	}
}

func TestInvalidSessionKeyLength(t *testing.T) {
	if _, err := NewChannelCipher(make([]byte, 16), false); err == nil {
		t.Error("expected error for 16-byte session key")
	}
}
