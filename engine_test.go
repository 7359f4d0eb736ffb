package cryptguard

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestEngineEncryptDecryptBytesRoundTrip(t *testing.T) {
	engine := NewEngine()
	passphrase := SecretBufferFromBytes([]byte("correct horse battery staple"))
	defer passphrase.Destroy()

	plaintext := []byte("hello, this is a secret message")
	params, err := ProfileParams(ProfileFast)
	if err != nil {
		t.Fatalf("ProfileParams: %v", err)
	}

	container, err := engine.EncryptBytes(plaintext, passphrase, params)
	if err != nil {
		t.Fatalf("EncryptBytes: %v", err)
	}

	got, err := engine.DecryptBytes(container, passphrase)
	if err != nil {
		t.Fatalf("DecryptBytes: %v", err)
	}
	if string(got) != string(plaintext) {
		t.Errorf("DecryptBytes() = %q, want %q", got, plaintext)
	}
}

func TestEngineEncryptBytesEmptyPlaintext(t *testing.T) {
	engine := NewEngine()
	passphrase := SecretBufferFromBytes([]byte("a passphrase"))
	defer passphrase.Destroy()

	params, _ := ProfileParams(ProfileFast)
	container, err := engine.EncryptBytes(nil, passphrase, params)
	if err != nil {
		t.Fatalf("EncryptBytes with empty plaintext: %v", err)
	}

	got, err := engine.DecryptBytes(container, passphrase)
	if err != nil {
		t.Fatalf("DecryptBytes: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("DecryptBytes() = %q, want empty", got)
	}
}

// S1: EncryptBytes followed by DecryptBytes with the same passphrase
// recovers the original plaintext exactly.
func TestScenarioRoundTripSamePassphrase(t *testing.T) {
	engine := NewEngine()
	passphrase := SecretBufferFromBytes([]byte("s1-passphrase"))
	defer passphrase.Destroy()

	params, _ := ProfileParams(ProfileFast)
	plaintext := []byte("round trip content")

	container, err := engine.EncryptBytes(plaintext, passphrase, params)
	if err != nil {
		t.Fatalf("EncryptBytes: %v", err)
	}
	got, err := engine.DecryptBytes(container, passphrase)
	if err != nil {
		t.Fatalf("DecryptBytes: %v", err)
	}
	if string(got) != string(plaintext) {
		t.Fatalf("recovered plaintext = %q, want %q", got, plaintext)
	}
}

// S2: decrypting with the wrong passphrase fails with AuthenticationFailed.
func TestScenarioWrongPassphraseFails(t *testing.T) {
	engine := NewEngine()
	right := SecretBufferFromBytes([]byte("right-passphrase"))
	wrong := SecretBufferFromBytes([]byte("wrong-passphrase"))
	defer right.Destroy()
	defer wrong.Destroy()

	params, _ := ProfileParams(ProfileFast)
	container, err := engine.EncryptBytes([]byte("payload"), right, params)
	if err != nil {
		t.Fatalf("EncryptBytes: %v", err)
	}

	_, err = engine.DecryptBytes(container, wrong)
	if !IsAuthenticationFailed(err) {
		t.Errorf("DecryptBytes with wrong passphrase error = %v, want authentication_failed", err)
	}
}

// S3: a single bit flip anywhere in the container causes decryption to
// fail, never to silently succeed with corrupted output.
func TestScenarioBitFlipAnywhereFailsClosed(t *testing.T) {
	engine := NewEngine()
	passphrase := SecretBufferFromBytes([]byte("bit-flip-passphrase"))
	defer passphrase.Destroy()

	params, _ := ProfileParams(ProfileFast)
	container, err := engine.EncryptBytes([]byte("some payload worth protecting"), passphrase, params)
	if err != nil {
		t.Fatalf("EncryptBytes: %v", err)
	}

	for _, idx := range []int{0, 5, headerSize - 1, headerSize, len(container) - 1} {
		tampered := append([]byte(nil), container...)
		tampered[idx] ^= 0x01

		if _, err := engine.DecryptBytes(tampered, passphrase); err == nil {
			t.Errorf("expected decryption to fail after flipping byte %d", idx)
		}
	}
}

func TestEngineEncryptFileDecryptFile(t *testing.T) {
	dir := t.TempDir()
	src := writeTempFile(t, dir, "document.txt", "the full contents of a file")

	engine := NewEngine()
	passphrase := SecretBufferFromBytes([]byte("file-passphrase"))
	defer passphrase.Destroy()

	encPath, err := engine.EncryptFile(src, passphrase, EncryptOptions{Profile: ProfileFast})
	if err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}
	if encPath != src+".enc" {
		t.Errorf("EncryptFile() path = %q, want %q", encPath, src+".enc")
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("expected source file to be removed after a default-delete encrypt")
	}

	decPath, err := engine.DecryptFile(encPath, passphrase, DecryptOptions{RemoveContainer: true})
	if err != nil {
		t.Fatalf("DecryptFile: %v", err)
	}
	if decPath != src {
		t.Errorf("DecryptFile() path = %q, want %q", decPath, src)
	}

	got, err := os.ReadFile(decPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "the full contents of a file" {
		t.Errorf("recovered contents = %q", got)
	}
	if _, err := os.Stat(encPath); !os.IsNotExist(err) {
		t.Error("expected container to be removed when RemoveContainer is set")
	}
}

func TestEngineEncryptFileRefusesOverwriteByDefault(t *testing.T) {
	dir := t.TempDir()
	src := writeTempFile(t, dir, "document.txt", "v1")
	writeTempFile(t, dir, "document.txt.enc", "already here")

	engine := NewEngine()
	passphrase := SecretBufferFromBytes([]byte("passphrase"))
	defer passphrase.Destroy()

	_, err := engine.EncryptFile(src, passphrase, EncryptOptions{Profile: ProfileFast})
	if !IsKind(err, KindAlreadyEncrypted) {
		t.Errorf("error = %v, want already_encrypted", err)
	}
}

func TestEngineDecryptFileRefusesOverwriteByDefault(t *testing.T) {
	dir := t.TempDir()
	src := writeTempFile(t, dir, "document.txt", "original plaintext")
	writeTempFile(t, dir, "document.txt", "untouched")

	engine := NewEngine()
	passphrase := SecretBufferFromBytes([]byte("passphrase"))
	defer passphrase.Destroy()

	params, _ := ProfileParams(ProfileFast)
	container, err := engine.EncryptBytes([]byte("payload"), passphrase, params)
	if err != nil {
		t.Fatalf("EncryptBytes: %v", err)
	}
	encPath := filepath.Join(dir, "document.txt.enc")
	if err := os.WriteFile(encPath, container, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err = engine.DecryptFile(encPath, passphrase, DecryptOptions{})
	if !IsKind(err, KindWouldOverwrite) {
		t.Errorf("error = %v, want would_overwrite", err)
	}

	got, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "untouched" {
		t.Errorf("existing plaintext = %q, want %q", got, "untouched")
	}
}

func TestEngineDecryptFileRejectsMissingSuffix(t *testing.T) {
	dir := t.TempDir()
	src := writeTempFile(t, dir, "document.txt", "not a container")

	engine := NewEngine()
	passphrase := SecretBufferFromBytes([]byte("passphrase"))
	defer passphrase.Destroy()

	_, err := engine.DecryptFile(src, passphrase, DecryptOptions{})
	if !IsKind(err, KindNotAContainer) {
		t.Errorf("error = %v, want not_a_container", err)
	}
}

func TestEngineEmptyPassphraseRejected(t *testing.T) {
	engine := NewEngine()
	params, _ := ProfileParams(ProfileFast)

	_, err := engine.EncryptBytes([]byte("payload"), SecretBufferFromBytes(nil), params)
	if !IsKind(err, KindEmptyPassphrase) {
		t.Errorf("error = %v, want empty_passphrase", err)
	}
}

func TestEngineVerifyPassphrase(t *testing.T) {
	engine := NewEngine()
	right := SecretBufferFromBytes([]byte("the-real-passphrase"))
	wrong := SecretBufferFromBytes([]byte("a-guess"))
	defer right.Destroy()
	defer wrong.Destroy()

	params, _ := ProfileParams(ProfileFast)
	container, err := engine.EncryptBytes([]byte("payload"), right, params)
	if err != nil {
		t.Fatalf("EncryptBytes: %v", err)
	}

	if !engine.VerifyPassphrase(container, right) {
		t.Error("VerifyPassphrase with the correct passphrase should return true")
	}
	if engine.VerifyPassphrase(container, wrong) {
		t.Error("VerifyPassphrase with the wrong passphrase should return false")
	}
}

func TestEngineDefaultProfileOption(t *testing.T) {
	engine := NewEngine(WithDefaultProfile(ProfileFast))
	passphrase := SecretBufferFromBytes([]byte("passphrase"))
	defer passphrase.Destroy()

	dir := t.TempDir()
	src := writeTempFile(t, dir, "a.txt", "content")

	encPath, err := engine.EncryptFile(src, passphrase, EncryptOptions{})
	if err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}

	data, err := os.ReadFile(encPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	c, err := parseContainer(data)
	if err != nil {
		t.Fatalf("parseContainer: %v", err)
	}

	want, _ := ProfileParams(ProfileFast)
	if c.Params != want {
		t.Errorf("container params = %+v, want default profile params %+v", c.Params, want)
	}
}

// Concurrent EncryptFile/DecryptFile calls on distinct paths must not
// interfere with each other's temp files or outcomes.
func TestEngineConcurrentDistinctFiles(t *testing.T) {
	dir := t.TempDir()
	engine := NewEngine(WithDefaultProfile(ProfileFast))
	passphrase := SecretBufferFromBytes([]byte("concurrent-passphrase"))
	defer passphrase.Destroy()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			src := filepath.Join(dir, filepathName(i))
			if err := os.WriteFile(src, []byte("payload for file"), 0o600); err != nil {
				errs[i] = err
				return
			}
			encPath, err := engine.EncryptFile(src, passphrase, EncryptOptions{})
			if err != nil {
				errs[i] = err
				return
			}
			if _, err := engine.DecryptFile(encPath, passphrase, DecryptOptions{RemoveContainer: true}); err != nil {
				errs[i] = err
			}
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("goroutine %d: %v", i, err)
		}
	}
}

func filepathName(i int) string {
	return "concurrent-" + string(rune('a'+i)) + ".txt"
}

// TestEngineSaltAndNonceAreUniqueAcrossRepeatedCalls exercises
// invariant 4: across many sequential EncryptBytes calls against the
// identical plaintext and passphrase, every observed (salt, nonce)
// pair must be distinct. Both are drawn fresh from crypto/rand on
// every call, so a collision across this many draws would mean the
// random source, not just bad luck, is broken.
func TestEngineSaltAndNonceAreUniqueAcrossRepeatedCalls(t *testing.T) {
	const trials = 10000

	engine := NewEngine()
	passphrase := SecretBufferFromBytes([]byte("correct horse battery staple"))
	defer passphrase.Destroy()

	plaintext := []byte("identical plaintext for every trial")
	params, err := ProfileParams(ProfileFast)
	if err != nil {
		t.Fatalf("ProfileParams: %v", err)
	}

	type pair struct {
		salt  [saltSize]byte
		nonce [nonceSize]byte
	}
	seen := make(map[pair]struct{}, trials)

	for i := 0; i < trials; i++ {
		containerBytes, err := engine.EncryptBytes(plaintext, passphrase, params)
		if err != nil {
			t.Fatalf("EncryptBytes (trial %d): %v", i, err)
		}
		c, err := parseContainer(containerBytes)
		if err != nil {
			t.Fatalf("parseContainer (trial %d): %v", i, err)
		}

		key := pair{salt: c.Salt, nonce: c.Nonce}
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate (salt, nonce) pair observed at trial %d", i)
		}
		seen[key] = struct{}{}
	}
}
