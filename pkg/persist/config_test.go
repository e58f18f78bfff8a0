package persist

import "testing"

func TestLoadConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WAYFINDER_CONFIG_PATH", t.TempDir())
	t.Setenv("WAYFINDER_PATH", dir)
	t.Setenv("WAYFINDER_FILE", "models.json")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BasePath() != dir {
		t.Errorf("BasePath() = %q, want %q", cfg.BasePath(), dir)
	}
	if cfg.FileName() != "models.json" {
		t.Errorf("FileName() = %q, want models.json", cfg.FileName())
	}
}

func TestFileConfigDefaultName(t *testing.T) {
	cfg := &FileConfig{Path: "/tmp/x"}
	if cfg.FileName() != DefaultFileName {
		t.Fatalf("FileName() = %q", cfg.FileName())
	}
}
