package cryptguard

import (
	"os"

	"github.com/awnumar/memguard"
)

// Engine is the stateless facade over the file encryption pipeline:
// no mutable state beyond its own immutable configuration, so it is
// safe to call concurrently from multiple goroutines provided
// distinct calls don't target the same source path. Every call is
// fully self-contained given its arguments.
type Engine struct {
	defaultProfile Profile
}

// NewEngine builds an Engine. With no options it defaults to the
// Balanced profile and carries no other configuration: the engine
// reads no environment variables and no config files of its own.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{defaultProfile: DefaultProfile}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) resolveParams(o EncryptOptions) (KDFParams, error) {
	if o.Params != (KDFParams{}) {
		return o.Params, nil
	}
	profile := o.Profile
	if profile == "" {
		profile = e.defaultProfile
	}
	return ProfileParams(profile)
}

// EncryptFile reads src, encrypts it under passphrase, and writes the
// container to src+".enc" atomically, disposing of the original per
// opts. It returns the path of the produced container.
func (e *Engine) EncryptFile(src string, passphrase *SecretBuffer, opts EncryptOptions) (string, error) {
	if err := validateFilePath(src); err != nil {
		return "", err
	}

	plaintext, err := readRegularFile(src)
	if err != nil {
		return "", err
	}

	dst := encryptedName(src)
	if _, statErr := os.Stat(dst); statErr == nil && !opts.Overwrite {
		return "", errAlreadyEncrypted(dst)
	}

	params, err := e.resolveParams(opts)
	if err != nil {
		return "", err
	}

	containerBytes, err := encryptBytes(plaintext, passphrase, params)
	zeroize(plaintext)
	if err != nil {
		return "", err
	}

	if err := atomicWrite(dst, containerBytes, 0o600); err != nil {
		return "", err
	}

	if err := disposeOriginal(src, opts.KeepBackup, opts.SecureDelete); err != nil {
		// dst has already committed; the source cleanup is best-effort.
		return dst, err
	}

	return dst, nil
}

// DecryptFile reads the container at src, decrypts it under
// passphrase, and writes the plaintext atomically to src with the
// ".enc" suffix removed. It returns the path of the produced
// plaintext file.
func (e *Engine) DecryptFile(src string, passphrase *SecretBuffer, opts DecryptOptions) (string, error) {
	if err := validateFilePath(src); err != nil {
		return "", err
	}

	dst, err := decryptedName(src)
	if err != nil {
		return "", err
	}

	if _, statErr := os.Stat(dst); statErr == nil && !opts.Overwrite {
		return "", errWouldOverwrite(dst)
	}

	containerBytes, err := readRegularFile(src)
	if err != nil {
		return "", err
	}

	plaintext, err := decryptBytes(containerBytes, passphrase)
	if err != nil {
		return "", err
	}

	writeErr := atomicWrite(dst, plaintext, 0o600)
	zeroize(plaintext)
	if writeErr != nil {
		return "", writeErr
	}

	if opts.RemoveContainer {
		if err := os.Remove(src); err != nil {
			return dst, errIO("remove", src, err)
		}
	}

	return dst, nil
}

// EncryptBytes encrypts plaintext under passphrase and params,
// returning a self-contained container. It is the in-memory
// counterpart of EncryptFile and is what EncryptFile uses internally.
func (e *Engine) EncryptBytes(plaintext []byte, passphrase *SecretBuffer, params KDFParams) ([]byte, error) {
	return encryptBytes(plaintext, passphrase, params)
}

// DecryptBytes parses and decrypts a container produced by
// EncryptBytes or EncryptFile.
func (e *Engine) DecryptBytes(containerBytes []byte, passphrase *SecretBuffer) ([]byte, error) {
	return decryptBytes(containerBytes, passphrase)
}

// VerifyPassphrase reports whether passphrase successfully decrypts
// containerBytes, discarding the plaintext.
func (e *Engine) VerifyPassphrase(containerBytes []byte, passphrase *SecretBuffer) bool {
	plaintext, err := decryptBytes(containerBytes, passphrase)
	if err != nil {
		return false
	}
	zeroize(plaintext)
	return true
}

// encryptBytes is the package-level implementation shared by
// Engine.EncryptBytes and Engine.EncryptFile.
func encryptBytes(plaintext []byte, passphrase *SecretBuffer, params KDFParams) ([]byte, error) {
	if passphrase == nil || passphrase.Len() == 0 {
		return nil, errEmptyPassphrase()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var salt [saltSize]byte
	if err := readRandom(salt[:]); err != nil {
		return nil, err
	}
	var nonce [nonceSize]byte
	if err := readRandom(nonce[:]); err != nil {
		return nil, err
	}

	key, err := deriveKey(passphrase, salt, params)
	if err != nil {
		return nil, err
	}
	defer key.Destroy()

	aad := headerAAD(params, salt, nonce)
	ciphertext, tag, err := seal(key, nonce, aad, plaintext)
	if err != nil {
		return nil, err
	}

	c := container{
		Version:    currentVersion,
		Params:     params,
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}
	copy(c.Tag[:], tag)

	return serializeContainer(c), nil
}

// decryptBytes is the package-level implementation shared by
// Engine.DecryptBytes, Engine.VerifyPassphrase, and Engine.DecryptFile.
func decryptBytes(containerBytes []byte, passphrase *SecretBuffer) ([]byte, error) {
	if passphrase == nil || passphrase.Len() == 0 {
		return nil, errEmptyPassphrase()
	}

	c, err := parseContainer(containerBytes)
	if err != nil {
		return nil, err
	}

	key, err := deriveKey(passphrase, c.Salt, c.Params)
	if err != nil {
		return nil, err
	}
	defer key.Destroy()

	aad := headerAAD(c.Params, c.Salt, c.Nonce)
	plaintext, err := open(key, c.Nonce, aad, c.Ciphertext, c.Tag[:])
	if err != nil {
		return nil, err
	}

	return plaintext, nil
}

// zeroize overwrites a plaintext or intermediate buffer before it's
// dropped. Unlike SecretBuffer.Destroy, this operates on plain []byte
// values the engine allocated itself (file contents read from disk),
// which never need memguard's page-locking — only a wipe that the
// compiler can't optimize away, which is exactly what
// memguard.WipeBytes guarantees.
func zeroize(b []byte) {
	memguard.WipeBytes(b)
}
