package cryptguard

import (
	"crypto/rand"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const encSuffix = ".enc"
const backupSuffix = ".backup"

// encryptedName appends the literal ".enc" suffix to the full
// filename, never touching any extension-parsing logic: ".env"
// becomes ".env.enc", never "..enc".
func encryptedName(src string) string {
	return src + encSuffix
}

// decryptedName strips exactly the ".enc" suffix. A path that doesn't
// carry it is rejected — there is no inference from context.
func decryptedName(src string) (string, error) {
	if len(src) <= len(encSuffix) || src[len(src)-len(encSuffix):] != encSuffix {
		return "", errNotAContainer(src, "missing .enc suffix")
	}
	return src[:len(src)-len(encSuffix)], nil
}

// randomSuffix returns a random string with well over 64 bits of
// entropy for naming sibling temp files.
func randomSuffix() string {
	return uuid.NewString()
}

// readRegularFile reads src fully into memory after confirming it
// exists and is a regular file.
func readRegularFile(src string) ([]byte, error) {
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errNotFound(src)
		}
		return nil, errIO("stat", src, err)
	}
	if !info.Mode().IsRegular() {
		return nil, errNotAFile(src)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return nil, errIO("read", src, err)
	}
	return data, nil
}

// atomicWrite writes data to dst via a sibling temp file, fsync, and
// rename, unlinking the temp file on any failure before the rename
// commits.
func atomicWrite(dst string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(dst)
	tmpPath := filepath.Join(dir, filepath.Base(dst)+".tmp-"+randomSuffix())

	tmp, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return errIO("create", tmpPath, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errIO("write", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errIO("sync", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errIO("close", tmpPath, err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return errIO("rename", tmpPath, err)
	}

	return nil
}

// disposeOriginal implements the three mutually exclusive outcomes
// for the source file after a successful commit: keep a backup,
// securely overwrite-then-delete, or plain delete. Its failure is a
// best-effort secondary step — the destination has already committed
// by the time this runs.
func disposeOriginal(src string, keepBackup, secureDelete bool) error {
	if keepBackup {
		if err := os.Rename(src, src+backupSuffix); err != nil {
			return errIO("rename", src, err)
		}
		return nil
	}

	if secureDelete {
		info, err := os.Stat(src)
		if err != nil {
			return errIO("stat", src, err)
		}
		zeros := make([]byte, info.Size())
		if err := os.WriteFile(src, zeros, info.Mode()); err != nil {
			return errIO("overwrite", src, err)
		}
	}

	if err := os.Remove(src); err != nil {
		return errIO("remove", src, err)
	}
	return nil
}

func readRandom(buf []byte) error {
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return errRandomnessFailure(err)
	}
	return nil
}
