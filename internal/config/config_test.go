package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CSMAP_DB", "")
	t.Setenv("CSMAP_EVERY", "2")
	os.Unsetenv("CSMAP_MAPS_DIR")
	os.Unsetenv("CSMAP_MAP_DATA")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MapsDir != ".awpy/maps" {
		t.Errorf("MapsDir: got %q", cfg.MapsDir)
	}
	if cfg.Every != 2 {
		t.Errorf("Every: got %d, want 2", cfg.Every)
	}
	if !strings.HasSuffix(cfg.DBPath, filepath.Join(".csmap", "replays.db")) {
		t.Errorf("DBPath: got %q", cfg.DBPath)
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("CSMAP_MAPS_DIR", "")
	os.Unsetenv("CSMAP_MAPS_DIR")
	t.Setenv("CSMAP_DB", "/tmp/from-env.db")

	path := filepath.Join(t.TempDir(), ".env")
	content := "CSMAP_MAPS_DIR=/srv/maps\nCSMAP_DB=/tmp/from-file.db\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("CSMAP_MAPS_DIR") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MapsDir != "/srv/maps" {
		t.Errorf("MapsDir from file: got %q", cfg.MapsDir)
	}
	if cfg.DBPath != "/tmp/from-env.db" {
		t.Errorf("environment should win over file, got %q", cfg.DBPath)
	}
}

func TestLoadInvalidEvery(t *testing.T) {
	t.Setenv("CSMAP_EVERY", "0")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for CSMAP_EVERY=0")
	}

	t.Setenv("CSMAP_EVERY", "often")
	_, err := Load("")
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}
