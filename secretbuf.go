package cryptguard

import (
	"crypto/subtle"

	"github.com/awnumar/memguard"
)

// SecretBuffer owns a guard-paged, mlock'd allocation and guarantees
// that its bytes are overwritten with zeros before the memory is
// returned to the OS, whether released normally, on error, or during
// a panic unwind. Passphrases and derived keys are always carried as
// *SecretBuffer, never as a bare []byte, once they cross into this
// package.
//
// Allocation failure inside memguard is treated as fatal and
// terminates the process rather than returning an error: there is no
// safe way to keep running once the OS won't give us locked pages for
// secret material.
type SecretBuffer struct {
	buf *memguard.LockedBuffer
}

// NewSecretBuffer returns a zero-filled secret buffer of length n.
func NewSecretBuffer(n int) *SecretBuffer {
	return &SecretBuffer{buf: memguard.NewBuffer(n)}
}

// SecretBufferFromBytes copies src into a fresh secret buffer and
// wipes src in place, so a temporary plaintext passphrase slice never
// outlives the copy.
func SecretBufferFromBytes(src []byte) *SecretBuffer {
	sb := &SecretBuffer{buf: memguard.NewBufferFromBytes(src)}
	return sb
}

// Len returns the number of bytes in the buffer.
func (s *SecretBuffer) Len() int {
	return len(s.buf.Bytes())
}

// Bytes returns a view into the locked region. The region is writable
// for buffers made by NewSecretBuffer; buffers made by
// SecretBufferFromBytes are frozen read-only by memguard. Callers must
// not retain the slice beyond the SecretBuffer's lifetime: once
// Destroy runs, the backing memory is gone.
func (s *SecretBuffer) Bytes() []byte {
	return s.buf.Bytes()
}

// Equal compares two secret buffers. For buffers of equal length the
// byte comparison is constant-time; buffers of differing lengths are
// reported as unequal immediately, so the comparison does not hide
// whether the lengths differ.
func (s *SecretBuffer) Equal(other *SecretBuffer) bool {
	if other == nil {
		return false
	}
	a, b := s.Bytes(), other.Bytes()
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Destroy zeroizes and releases the buffer. Safe to call more than
// once; subsequent calls are no-ops.
func (s *SecretBuffer) Destroy() {
	s.buf.Destroy()
}

// String never exposes the buffer's contents, including in debug
// output produced by %v or %s.
func (s *SecretBuffer) String() string {
	return "<secret>"
}
