package cryptguard

import (
	"encoding/binary"
)

const (
	magicCGCR = "CGCR"

	currentVersion = uint16(1)

	kdfArgon2id          = uint8(1)
	aeadChaCha20Poly1305 = uint8(1)

	saltSize = 32

	// headerSize is the full fixed-size header: magic through tag.
	headerSize = 80
	// aadSize is the portion of the header bound into the AEAD tag —
	// everything up to, but not including, the tag field itself.
	aadSize = 64
)

// container holds the parsed fields of an on-disk encrypted file: a
// fixed 80-byte header (magic, version, kdf_id, aead_id, three cost
// fields, salt, nonce, tag) followed by ciphertext of the same length
// as the plaintext.
//
// Both the KDF and the AEAD are fixed to a single algorithm, so the
// header carries no explicit salt/nonce-size fields — the sizes are
// fixed too and need no length prefix.
type container struct {
	Version uint16
	Params  KDFParams
	Salt    [saltSize]byte
	Nonce   [nonceSize]byte
	Tag     [tagSize]byte
	Ciphertext []byte
}

// serializeContainer writes the fixed header followed by ciphertext.
// The returned slice's first aadSize bytes are exactly what must be
// fed to the AEAD as associated data; callers seal before calling
// this function and pass the resulting tag in, since the header
// (the AAD) must be fully known before sealing can bind it.
func serializeContainer(c container) []byte {
	out := make([]byte, headerSize+len(c.Ciphertext))

	copy(out[0:4], magicCGCR)
	binary.LittleEndian.PutUint16(out[4:6], c.Version)
	out[6] = kdfArgon2id
	out[7] = aeadChaCha20Poly1305
	binary.LittleEndian.PutUint32(out[8:12], c.Params.MemoryCostKiB)
	binary.LittleEndian.PutUint32(out[12:16], c.Params.TimeCost)
	binary.LittleEndian.PutUint32(out[16:20], c.Params.Parallelism)
	copy(out[20:52], c.Salt[:])
	copy(out[52:64], c.Nonce[:])
	copy(out[64:80], c.Tag[:])
	copy(out[80:], c.Ciphertext)

	return out
}

// headerAAD returns the first aadSize bytes of a header built from
// the given fields, without the tag — used to compute the AAD before
// the tag (which depends on sealing against that very AAD) exists.
func headerAAD(params KDFParams, salt [saltSize]byte, nonce [nonceSize]byte) []byte {
	aad := make([]byte, aadSize)
	copy(aad[0:4], magicCGCR)
	binary.LittleEndian.PutUint16(aad[4:6], currentVersion)
	aad[6] = kdfArgon2id
	aad[7] = aeadChaCha20Poly1305
	binary.LittleEndian.PutUint32(aad[8:12], params.MemoryCostKiB)
	binary.LittleEndian.PutUint32(aad[12:16], params.TimeCost)
	binary.LittleEndian.PutUint32(aad[16:20], params.Parallelism)
	copy(aad[20:52], salt[:])
	copy(aad[52:64], nonce[:])
	return aad
}

// parseContainer validates and decodes bytes into a container. Parsing
// is total on the input slice: no field read goes past what length
// already guarantees, and the ciphertext is a single slice view into
// data with no copy.
func parseContainer(data []byte) (container, error) {
	if len(data) < headerSize {
		return container{}, errCorruptContainer("too short")
	}
	if string(data[0:4]) != magicCGCR {
		return container{}, errNotAContainer("", "bad magic")
	}

	version := binary.LittleEndian.Uint16(data[4:6])
	if version != currentVersion {
		return container{}, errUnsupportedVersion(version)
	}

	kdfID := data[6]
	aeadID := data[7]
	if kdfID != kdfArgon2id || aeadID != aeadChaCha20Poly1305 {
		return container{}, errUnsupportedAlgorithm("unrecognized kdf_id/aead_id")
	}

	params := KDFParams{
		MemoryCostKiB: binary.LittleEndian.Uint32(data[8:12]),
		TimeCost:      binary.LittleEndian.Uint32(data[12:16]),
		Parallelism:   binary.LittleEndian.Uint32(data[16:20]),
		OutputLength:  derivedKeyLength,
	}
	if err := params.Validate(); err != nil {
		return container{}, errCorruptContainer("bad params: " + err.Error())
	}

	var c container
	c.Version = version
	c.Params = params
	copy(c.Salt[:], data[20:52])
	copy(c.Nonce[:], data[52:64])
	copy(c.Tag[:], data[64:80])
	c.Ciphertext = data[80:]

	return c, nil
}
