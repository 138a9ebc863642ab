package config

import (
	"os"
	"path/filepath"
	"testing"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(originalDir)
	})
	return tmpDir
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	tmpDir := chdirTemp(t)

	yamlContent := `
port: "3080"
env: "test"
oracle:
  host: "db.example.com"
  port: 1521
  user: "appuser"
  service: "ORCLPDB"
chart:
  responsive: false
  width: 640
  height: 480
`
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	os.Unsetenv("ORACLE_HOST")
	os.Unsetenv("ORACLE_OWNERS")
	t.Setenv("PORT", "4080")
	t.Setenv("ORACLE_SERVICE", "FREEPDB1")
	t.Setenv("ORACLE_PASSWORD", "secret")

	cfg, err := Load("test-version")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "4080" {
		t.Errorf("expected Port=4080 (from env), got %s", cfg.Port)
	}
	if cfg.Oracle.Host != "db.example.com" {
		t.Errorf("expected Oracle host from YAML, got %s", cfg.Oracle.Host)
	}
	if cfg.Oracle.Service != "FREEPDB1" {
		t.Errorf("expected env to override YAML service, got %s", cfg.Oracle.Service)
	}
	if cfg.Oracle.Password != "secret" {
		t.Errorf("expected password from env")
	}
	if cfg.Chart.Responsive {
		t.Errorf("expected responsive=false from YAML")
	}
	if cfg.Chart.Width != 640 || cfg.Chart.Height != 480 {
		t.Errorf("expected 640x480, got %dx%d", cfg.Chart.Width, cfg.Chart.Height)
	}
	if cfg.Version != "test-version" {
		t.Errorf("expected version to be set at load time, got %s", cfg.Version)
	}
}

func TestLoad_MissingConfigFileUsesDefaults(t *testing.T) {
	chdirTemp(t)

	os.Unsetenv("PORT")
	os.Unsetenv("ORACLE_HOST")
	os.Unsetenv("ORACLE_PORT")
	os.Unsetenv("ORACLE_OWNERS")
	os.Unsetenv("CHART_WIDTH")
	os.Unsetenv("CHART_HEIGHT")
	os.Unsetenv("CHART_RESPONSIVE")

	cfg, err := Load("dev")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "3080" {
		t.Errorf("expected default port 3080, got %s", cfg.Port)
	}
	if cfg.Oracle.Port != 1521 {
		t.Errorf("expected default oracle port 1521, got %d", cfg.Oracle.Port)
	}
	if !cfg.Chart.Responsive {
		t.Errorf("expected responsive default true")
	}
	if cfg.Oracle.Owners != nil {
		t.Errorf("expected no owners by default, got %v", cfg.Oracle.Owners)
	}
}

func TestLoad_ParsesOwners(t *testing.T) {
	chdirTemp(t)

	t.Setenv("ORACLE_OWNERS", "hr, sales ,,finance")

	cfg, err := Load("dev")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := []string{"HR", "SALES", "FINANCE"}
	if len(cfg.Oracle.Owners) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.Oracle.Owners)
	}
	for i, w := range want {
		if cfg.Oracle.Owners[i] != w {
			t.Errorf("owner %d: expected %s, got %s", i, w, cfg.Oracle.Owners[i])
		}
	}
}

func TestParseOwners(t *testing.T) {
	if parseOwners("") != nil {
		t.Errorf("expected nil for empty string")
	}
	if parseOwners(" , ,") != nil {
		t.Errorf("expected nil for blank entries")
	}
	got := parseOwners("scott")
	if len(got) != 1 || got[0] != "SCOTT" {
		t.Errorf("expected [SCOTT], got %v", got)
	}
}
