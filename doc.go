// Package cryptguard implements a local, zero-configuration file
// encryption engine: password-based key derivation, authenticated
// encryption, and atomic, backup-aware file I/O for secrets stored
// alongside source code.
//
// # Overview
//
// The engine turns a plaintext file plus a passphrase into a
// self-contained encrypted container on disk, and back. It does not
// run a server, manage long-lived key material, or depend on any
// third-party service: every byte needed to decrypt a container,
// except the passphrase, travels inside the container itself.
//
// # Cipher and key derivation
//
// The engine uses exactly one algorithm pair:
//
//   - Argon2id for key derivation (golang.org/x/crypto/argon2), with
//     passphrases and derived keys held in memguard-backed secret
//     buffers (github.com/awnumar/memguard)
//   - ChaCha20-Poly1305 for authenticated encryption
//     (golang.org/x/crypto/chacha20poly1305)
//
// Both choices are fixed in the container format (kdf_id = 1,
// aead_id = 1); there is no algorithm agility to configure or get
// wrong.
//
// # Basic usage
//
//	eng := cryptguard.NewEngine()
//	pass := cryptguard.SecretBufferFromBytes([]byte("correct horse battery staple"))
//	defer pass.Destroy()
//
//	encPath, err := eng.EncryptFile(".env", pass, cryptguard.EncryptOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	plainPath, err := eng.DecryptFile(encPath, pass, cryptguard.DecryptOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Container format
//
// Every container is 80 bytes of header followed by ciphertext of
// the same length as the plaintext:
//
//	offset  size  field
//	0       4     magic       = "CGCR"
//	4       2     version
//	6       1     kdf_id      = 1 (Argon2id)
//	7       1     aead_id     = 1 (ChaCha20-Poly1305)
//	8       4     mem_cost_kib
//	12      4     time_cost
//	16      4     parallelism
//	20      32    salt
//	52      12    nonce
//	64      16    tag
//	80      N     ciphertext
//
// The first 64 bytes are fed to the AEAD as associated data, so any
// tampering with the parameters, salt, or nonce is detected on
// decrypt even though those fields are not themselves secret.
//
// # Security considerations
//
// Protected against: unauthorized reading of files at rest, tampering
// or corruption of a container (authenticated encryption), and
// offline brute-force of the passphrase (memory-hard KDF).
//
// Not protected against: an attacker with live access to this
// process's memory, side-channel attacks, or compromised endpoints.
// Each file's security rests entirely on its passphrase and the KDF
// cost parameters chosen for it; there is no forward secrecy across
// files and no key rotation protocol.
package cryptguard
