package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/abhisek/quotafill/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, name := range []string{"QUOTA", "DATASET", "CATALOGS", "USE_SEED_CATALOG", "DB", "LOG_LEVEL"} {
		t.Setenv(config.EnvPrefix+name, "")
	}
	t.Chdir(home)
	return home
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	home := isolate(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent")
	}
	if want := filepath.Join(home, ".config", "quotafill", "config.toml"); resolved != want {
		t.Fatalf("resolved = %q, want %q", resolved, want)
	}
	if cfg.Quota != 10 {
		t.Fatalf("quota = %d, want 10", cfg.Quota)
	}
	if cfg.Dataset != filepath.Join(home, "skills.json") {
		t.Fatalf("dataset not expanded: %q", cfg.Dataset)
	}
	if !cfg.UseSeedCatalog {
		t.Fatal("expected seed catalog enabled by default")
	}
	if cfg.DBPath != "" {
		t.Fatalf("expected empty db path, got %q", cfg.DBPath)
	}
}

func TestLoadProjectFile(t *testing.T) {
	home := isolate(t)
	content := `
quota = 12
dataset = "data/skills.json"
catalogs = ["extra.yaml", "~/batch.json"]
use_seed_catalog = false
log_level = "DEBUG"

[generate]
concurrency = 2
temperature = 0.3
`
	if err := os.WriteFile(filepath.Join(home, "quotafill.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "quotafill.toml" {
		t.Fatalf("expected project file, got %q (exists=%v)", resolved, exists)
	}
	if cfg.Quota != 12 || cfg.UseSeedCatalog {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Catalogs[1] != filepath.Join(home, "batch.json") {
		t.Fatalf("catalog path not expanded: %q", cfg.Catalogs[1])
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level not normalized: %q", cfg.LogLevel)
	}
	if cfg.Generate.Concurrency != 2 || cfg.Generate.MaxTokens != 2048 {
		t.Fatalf("generate section: %+v", cfg.Generate)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.toml")
	if err := os.WriteFile(path, []byte("quota = 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("QUOTAFILL_QUOTA", "15")
	t.Setenv("QUOTAFILL_CATALOGS", "a.yaml, b.json,")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Quota != 15 {
		t.Fatalf("quota = %d, want env value 15", cfg.Quota)
	}
	if len(cfg.Catalogs) != 2 {
		t.Fatalf("catalogs = %v", cfg.Catalogs)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "bad.toml")
	if err := os.WriteFile(path, []byte("qouta = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "qouta") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestValidateCombinesProblems(t *testing.T) {
	cfg := config.Default()
	cfg.Quota = 0
	cfg.LogLevel = "loud"
	cfg.Generate.Temperature = 2

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"quota", "log_level", "temperature"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestSampleConfigMatchesDefaults(t *testing.T) {
	var cfg config.Config
	if err := toml.Unmarshal([]byte(config.SampleConfig()), &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	def := config.Default()
	if cfg.Quota != def.Quota || cfg.Generate != def.Generate || cfg.UseSeedCatalog != def.UseSeedCatalog {
		t.Fatalf("sample drifted from defaults: %+v vs %+v", cfg, def)
	}
}
