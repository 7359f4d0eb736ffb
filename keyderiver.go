package cryptguard

import (
	"golang.org/x/crypto/argon2"
)

// deriveKey turns a passphrase and salt into a 32-byte symmetric key
// using Argon2id. It is a pure function: identical inputs always
// produce identical output, with no hidden global state and no
// randomness consumed.
//
// params.Validate() must reject any Parallelism outside 1-255 before
// this point — argon2.IDKey takes its threads argument as a uint8 and
// panics on a degree below 1, and a larger uint32 would silently wrap.
//
// The returned SecretBuffer is owned by the caller, which must
// Destroy it once the derived key is no longer needed.
func deriveKey(passphrase *SecretBuffer, salt [32]byte, params KDFParams) (*SecretBuffer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if passphrase == nil || passphrase.Len() == 0 {
		return nil, errEmptyPassphrase()
	}

	key := argon2.IDKey(
		passphrase.Bytes(),
		salt[:],
		params.TimeCost,
		params.MemoryCostKiB,
		uint8(params.Parallelism),
		params.OutputLength,
	)
	if len(key) != int(params.OutputLength) {
		return nil, errDerivationFailed(nil)
	}

	out := SecretBufferFromBytes(key)
	return out, nil
}
