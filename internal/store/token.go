package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const tokenFile = "token"

func (s Store) tokenPath() string {
	return filepath.Join(s.Dir, tokenFile)
}

// LoadToken reads the persisted bearer token. A missing file is not an
// error: it means no session, and returns "".
func (s Store) LoadToken() (string, error) {
	b, err := os.ReadFile(s.tokenPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// SaveToken persists the bearer token across restarts. 0600: the token is a
// credential.
func (s Store) SaveToken(token string) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, ".token-*", s.tokenPath(), []byte(token+"\n"), 0o600)
}

// RemoveToken deletes the persisted token. Removing an absent token is fine.
func (s Store) RemoveToken() error {
	err := os.Remove(s.tokenPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// HasToken reports whether a token file exists.
func (s Store) HasToken() bool {
	_, err := os.Stat(s.tokenPath())
	return err == nil
}
