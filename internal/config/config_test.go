package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/loom-lang/loom/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	if cfg.Syntax != "auto" {
		t.Errorf("default syntax = %q, want auto", cfg.Syntax)
	}
	if cfg.Jobs != 0 || cfg.Cache || cfg.NoColor {
		t.Errorf("default config not zero-valued: %+v", cfg)
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := config.ParseConfig([]byte("syntax: imp\njobs: 4\ncache: true\ncache_dir: /tmp/c\nfail_fast: true\n"), "loom.yaml")
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Syntax != "imp" || cfg.Jobs != 4 || !cfg.Cache || cfg.CacheDir != "/tmp/c" || !cfg.FailFast {
		t.Errorf("parsed config = %+v", cfg)
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := config.ParseConfig([]byte("jobs: 2\n"), "loom.yaml")
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Syntax != "auto" {
		t.Errorf("syntax = %q, want the auto default kept", cfg.Syntax)
	}
}

func TestParseConfigInvalid(t *testing.T) {
	cases := []string{
		"syntax: pascal\n",
		"jobs: -1\n",
		"syntax: [a, b]\n",
	}
	for _, data := range cases {
		if _, err := config.ParseConfig([]byte(data), "loom.yaml"); err == nil {
			t.Errorf("ParseConfig(%q) accepted invalid input", data)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loom.yaml")
	if err := os.WriteFile(path, []byte("syntax: fun\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Syntax != "fun" {
		t.Errorf("syntax = %q, want fun", cfg.Syntax)
	}

	if _, err := config.LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadConfig should fail on a missing file")
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(root, "loom.yaml")
	if err := os.WriteFile(path, []byte("syntax: auto\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	found, err := config.FindConfig(nested)
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	if found != path {
		t.Errorf("found %q, want %q", found, path)
	}
}

func TestFindConfigYmlFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loom.yml")
	if err := os.WriteFile(path, []byte("syntax: auto\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	found, err := config.FindConfig(dir)
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	if found != path {
		t.Errorf("found %q, want %q", found, path)
	}
}

func TestFindConfigAbsent(t *testing.T) {
	found, err := config.FindConfig(t.TempDir())
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	if found != "" {
		t.Errorf("found %q in an empty tree", found)
	}
}
