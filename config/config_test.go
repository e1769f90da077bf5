package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCfg(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ".wflcfg"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write .wflcfg: %v", err)
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Default()
	if cfg != want {
		t.Fatalf("got %+v, want %+v", cfg, want)
	}
}

func TestLoadCustomValues(t *testing.T) {
	dir := t.TempDir()
	writeCfg(t, dir, `
# WFL Configuration
timeout_seconds = 120
logging_enabled = true
debug_report_enabled = false
log_level = debug
execution_logging = true
max_memory_mb = 512
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TimeoutSeconds != 120 || !cfg.LoggingEnabled || cfg.DebugReportEnabled ||
		cfg.LogLevel != LogDebug || !cfg.ExecutionLogging || cfg.MaxMemoryMB != 512 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadPartialKeepsOtherDefaults(t *testing.T) {
	dir := t.TempDir()
	writeCfg(t, dir, "timeout_seconds = 30\nlog_level = error\n")
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Default()
	want.TimeoutSeconds = 30
	want.LogLevel = LogError
	if cfg != want {
		t.Fatalf("got %+v, want %+v", cfg, want)
	}
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	dir := t.TempDir()
	writeCfg(t, dir, "timeout_seconds = not-a-number\n")
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TimeoutSeconds != Default().TimeoutSeconds {
		t.Fatalf("expected the default timeout to survive a bad value, got %d", cfg.TimeoutSeconds)
	}
}

func TestLoadClampsTimeoutToAtLeastOneSecond(t *testing.T) {
	dir := t.TempDir()
	writeCfg(t, dir, "timeout_seconds = 0\n")
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TimeoutSeconds != 1 {
		t.Fatalf("expected timeout_seconds to clamp to 1, got %d", cfg.TimeoutSeconds)
	}
}

func TestParseLogLevelCaseInsensitive(t *testing.T) {
	cases := map[string]LogLevel{
		"debug": LogDebug, "INFO": LogInfo, "Warning": LogWarn, "warn": LogWarn,
		"ERROR": LogError, "unknown": LogInfo,
	}
	for input, want := range cases {
		if got := ParseLogLevel(input); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestLoadCommentsAreIgnored(t *testing.T) {
	dir := t.TempDir()
	writeCfg(t, dir, "# a leading comment\ntimeout_seconds = 45\n# a trailing comment")
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TimeoutSeconds != 45 {
		t.Fatalf("expected 45, got %d", cfg.TimeoutSeconds)
	}
}
