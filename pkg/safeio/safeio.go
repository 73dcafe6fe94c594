// Package safeio holds small filesystem helpers shared by the fetch strategies.
package safeio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CleanUserPath cleans a user-provided path and rejects traversal attempts.
// Returns paths with forward slashes for cross-platform consistency.
func CleanUserPath(p string) (string, error) {
	c := filepath.Clean(p)
	if strings.Contains(c, "..") {
		return "", errors.New("path traversal detected")
	}
	return filepath.ToSlash(c), nil
}

// MoveFile renames src to dest, replacing dest when it already exists.
// Windows refuses an overwriting rename, so a pre-existing dest is removed first.
func MoveFile(src, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		if err := os.Remove(dest); err != nil {
			return fmt.Errorf("remove existing %s: %w", dest, err)
		}
	}
	if err := os.Rename(src, dest); err != nil {
		return fmt.Errorf("rename %s to %s: %w", src, dest, err)
	}
	return nil
}

// CopyFile copies src to dest, streaming the contents and preserving the
// source file mode. dest is replaced if present.
func CopyFile(src, dest string) error {
	in, err := os.Open(src) // #nosec G304 -- callers pass paths they derived themselves
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	st, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, st.Mode().Perm()) // #nosec G304
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// FileSize returns the size of path in bytes.
func FileSize(path string) (int64, error) {
	st, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return st.Size(), nil
}
