// Package config loads the optional .wflcfg file that tunes a run's
// timeouts, logging, and reporting without touching the script itself.
package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LogLevel selects the verbosity of the runner's structured log output.
type LogLevel int

const (
	LogInfo LogLevel = iota
	LogDebug
	LogWarn
	LogError
)

func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "debug"
	case LogWarn:
		return "warn"
	case LogError:
		return "error"
	default:
		return "info"
	}
}

// ParseLogLevel maps a .wflcfg log_level value to a LogLevel, defaulting to
// LogInfo for anything unrecognized rather than failing the whole load.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogDebug
	case "warn", "warning":
		return LogWarn
	case "error":
		return LogError
	default:
		return LogInfo
	}
}

// Config is the resolved set of .wflcfg values, always fully populated:
// every field has a usable default even when no file is present.
type Config struct {
	TimeoutSeconds     int
	LoggingEnabled     bool
	DebugReportEnabled bool
	LogLevel           LogLevel
	ExecutionLogging   bool
	MaxMemoryMB        int
}

// Default returns the configuration a directory with no .wflcfg gets.
func Default() Config {
	return Config{
		TimeoutSeconds:     60,
		LoggingEnabled:     false,
		DebugReportEnabled: true,
		LogLevel:           LogInfo,
		ExecutionLogging:   false,
		MaxMemoryMB:        256,
	}
}

// Load reads dir/.wflcfg if present and overlays recognized keys onto the
// defaults. A missing file is not an error; an unreadable one is.
func Load(dir string) (Config, error) {
	cfg := Default()
	path := filepath.Join(dir, ".wflcfg")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		applyKey(&cfg, key, value)
	}
	return cfg, scanner.Err()
}

func applyKey(cfg *Config, key, value string) {
	switch key {
	case "timeout_seconds":
		if n, err := strconv.Atoi(value); err == nil {
			if n < 1 {
				n = 1
			}
			cfg.TimeoutSeconds = n
		}
	case "logging_enabled":
		if b, err := strconv.ParseBool(value); err == nil {
			cfg.LoggingEnabled = b
		}
	case "debug_report_enabled":
		if b, err := strconv.ParseBool(value); err == nil {
			cfg.DebugReportEnabled = b
		}
	case "log_level":
		cfg.LogLevel = ParseLogLevel(value)
	case "execution_logging":
		if b, err := strconv.ParseBool(value); err == nil {
			cfg.ExecutionLogging = b
		}
	case "max_memory_mb":
		if n, err := strconv.Atoi(value); err == nil && n >= 0 {
			cfg.MaxMemoryMB = n
		}
	}
}
