package cryptguard

// EncryptOptions controls a single EncryptFile call. The zero value
// encrypts with the Engine's default profile (Balanced unless set with
// WithDefaultProfile), refuses to overwrite an existing ".enc" target,
// and deletes the original plaintext on success.
type EncryptOptions struct {
	// Profile selects a named cost preset. Ignored if Params is set.
	// Defaults to the Engine's default profile when empty.
	Profile Profile

	// Params, if non-zero, overrides Profile entirely.
	Params KDFParams

	// KeepBackup renames the original to "<path>.backup" instead of
	// deleting it. Mutually exclusive with SecureDelete; KeepBackup
	// wins if both are set.
	KeepBackup bool

	// SecureDelete overwrites the original with zeros before unlinking
	// it. Ignored if KeepBackup is set.
	SecureDelete bool

	// Overwrite allows replacing an existing ".enc" target.
	Overwrite bool
}

// DecryptOptions controls a single DecryptFile call.
type DecryptOptions struct {
	// Overwrite allows replacing an existing plaintext target.
	Overwrite bool

	// RemoveContainer deletes the ".enc" source after a successful decrypt.
	RemoveContainer bool
}

// EngineOption configures an Engine at construction time, so a caller
// never has to know about fields it doesn't care about.
type EngineOption func(*Engine)

// WithDefaultProfile overrides the profile EncryptFile uses when the
// caller's EncryptOptions names neither a Profile nor Params.
// EncryptBytes always takes explicit params and does not consult it.
func WithDefaultProfile(p Profile) EngineOption {
	return func(e *Engine) {
		e.defaultProfile = p
	}
}
