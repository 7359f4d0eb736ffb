package cryptguard

// validateFilePath rejects the empty path early, before any syscall.
func validateFilePath(path string) error {
	if path == "" {
		return newErr(KindIoError, "", "file path must not be empty", nil)
	}
	return nil
}
