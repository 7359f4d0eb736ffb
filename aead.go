package cryptguard

import (
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	nonceSize = chacha20poly1305.NonceSize // 12
	tagSize   = chacha20poly1305.Overhead  // 16
)

// seal encrypts plaintext under key and nonce, binding aad into the
// authentication tag without encrypting it. It returns ciphertext and
// tag separately since the container codec stores them in distinct
// fixed-size fields.
func seal(key *SecretBuffer, nonce [nonceSize]byte, aad, plaintext []byte) (ciphertext, tag []byte, err error) {
	aead, err := chacha20poly1305.New(key.Bytes())
	if err != nil {
		return nil, nil, errDerivationFailed(err)
	}

	sealed := aead.Seal(nil, nonce[:], plaintext, aad)
	ciphertext = sealed[:len(sealed)-tagSize]
	tag = sealed[len(sealed)-tagSize:]
	return ciphertext, tag, nil
}

// open decrypts ciphertext+tag under key and nonce, verifying aad.
// Every failure — wrong key, tampered aad, tampered ciphertext,
// tampered tag — collapses to the single AuthenticationFailed kind;
// no branch here distinguishes the cause, by design.
func open(key *SecretBuffer, nonce [nonceSize]byte, aad, ciphertext, tag []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key.Bytes())
	if err != nil {
		return nil, errDerivationFailed(err)
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, nonce[:], sealed, aad)
	if err != nil {
		return nil, errAuthenticationFailed("")
	}
	return plaintext, nil
}
