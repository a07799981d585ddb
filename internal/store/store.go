// Package store holds the client's durable local state: the bearer token and
// a best-effort cache of the last task pages fetched from the backend.
package store

import (
	"os"
	"path/filepath"
	"strings"
)

// Store roots all durable client state in one directory.
type Store struct {
	Dir string
}

// ConfigDir resolves the default state directory.
func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.taskdeck).
	if v := strings.TrimSpace(os.Getenv("TASKDECK_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskdeck"), nil
}

// Default returns a Store rooted at ConfigDir.
func Default() (Store, error) {
	dir, err := ConfigDir()
	if err != nil {
		return Store{}, err
	}
	return Store{Dir: dir}, nil
}

func (s Store) ensureDir() error {
	return os.MkdirAll(s.Dir, 0o700)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
