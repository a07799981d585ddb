package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTokenRoundtrip(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	tok, err := s.LoadToken()
	if err != nil {
		t.Fatalf("load before save: %v", err)
	}
	if tok != "" {
		t.Fatalf("token = %q, want empty before save", tok)
	}
	if s.HasToken() {
		t.Fatal("HasToken() = true before save")
	}

	if err := s.SaveToken("tok-abc"); err != nil {
		t.Fatalf("save: %v", err)
	}
	tok, err = s.LoadToken()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tok != "tok-abc" {
		t.Fatalf("token = %q, want tok-abc", tok)
	}
	if !s.HasToken() {
		t.Fatal("HasToken() = false after save")
	}

	fi, err := os.Stat(filepath.Join(s.Dir, "token"))
	if err != nil {
		t.Fatalf("stat token file: %v", err)
	}
	if perm := fi.Mode().Perm(); perm != 0o600 {
		t.Fatalf("token file mode = %o, want 600", perm)
	}
}

func TestRemoveToken(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	// Removing a token that was never saved is not an error.
	if err := s.RemoveToken(); err != nil {
		t.Fatalf("remove absent: %v", err)
	}

	if err := s.SaveToken("tok"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.RemoveToken(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if s.HasToken() {
		t.Fatal("HasToken() = true after remove")
	}
}

func TestConfigDirEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKDECK_CONFIG_DIR", dir)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("config dir: %v", err)
	}
	if got != dir {
		t.Fatalf("dir = %q, want %q", got, dir)
	}
}
