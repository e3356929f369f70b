package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("  secret-token\n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	got, err := Load(Source{Name: "token", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "secret-token" {
		t.Fatalf("expected trimmed secret, got %q", got)
	}
}

func TestLoadFilePrecedesEnvAndValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("from-file"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	t.Setenv("HH_MATCHER_TEST_TOKEN", "from-env")

	got, err := Load(Source{File: path, Env: "HH_MATCHER_TEST_TOKEN", Value: "inline"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-file" {
		t.Fatalf("expected file to win, got %q", got)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HH_MATCHER_TEST_TOKEN", "from-env")

	got, err := Load(Source{Env: "HH_MATCHER_TEST_TOKEN", Value: "inline"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-env" {
		t.Fatalf("expected env to win over inline, got %q", got)
	}
}

func TestLoadMissingEverything(t *testing.T) {
	if _, err := Load(Source{Name: "api key"}); err == nil {
		t.Fatalf("expected an error for unresolved secret")
	}
}

func TestLoadEmptyFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("   \n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := Load(Source{File: path}); err == nil {
		t.Fatalf("expected an error for empty secret file")
	}
}
