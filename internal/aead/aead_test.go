package aead

import (
	"bytes"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := DeriveKey([]byte("correct horse battery staple"))
	plaintext := []byte("the framed blob's compressed bytes")

	e, err := Encrypt(key, plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if len(e) != NonceSize+len(plaintext)+TagSize {
		t.Errorf("unexpected ciphertext length %d", len(e))
	}

	got, err := Decrypt(key, e)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("round trip mismatch: got %q", got)
	}
}

func TestDecryptWrongPasswordFails(t *testing.T) {
	key := DeriveKey([]byte("pw"))
	wrongKey := DeriveKey([]byte("not-pw"))
	e, err := Encrypt(key, []byte("secret payload"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decrypt(wrongKey, e); err == nil {
		t.Errorf("Decrypt with wrong key should fail")
	}
}

func TestDecryptTamperedTagFails(t *testing.T) {
	key := DeriveKey([]byte("pw"))
	e, err := Encrypt(key, []byte("secret payload"))
	if err != nil {
		t.Fatal(err)
	}
	e[len(e)-1] ^= 0xFF
	if _, err := Decrypt(key, e); err == nil {
		t.Errorf("Decrypt with tampered tag should fail")
	}
}

func TestNoncesAreRandomPerCall(t *testing.T) {
	key := DeriveKey([]byte("pw"))
	e1, _ := Encrypt(key, []byte("same plaintext"))
	e2, _ := Encrypt(key, []byte("same plaintext"))
	if bytes.Equal(e1[:NonceSize], e2[:NonceSize]) {
		t.Errorf("two calls produced the same nonce")
	}
}
