package shell

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "vfs.yaml"

// Config holds the shell's runtime settings.
type Config struct {
	DiskSize    int64  `yaml:"disk_size"`
	Prompt      string `yaml:"prompt"`
	LogLevel    string `yaml:"log_level"`
	HistoryFile string `yaml:"history_file"`
}

// DefaultConfig returns the stock settings: a 1 MiB disk and a bare
// prompt.
func DefaultConfig() Config {
	return Config{
		DiskSize: 1024 * 1024,
		Prompt:   "> ",
		LogLevel: "info",
	}
}

// LoadConfig reads settings from a yaml file, then applies
// environment overrides (VFS_DISK_SIZE, VFS_PROMPT, VFS_LOG_LEVEL,
// VFS_HISTORY_FILE). An empty path falls back to vfs.yaml in the
// working directory when present.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" && IsFile(DefaultConfigFile) {
		path = DefaultConfigFile
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, Fatal(err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, Fatal(err)
		}
	}

	cfg.Prompt = envOr("VFS_PROMPT", cfg.Prompt)
	cfg.LogLevel = envOr("VFS_LOG_LEVEL", cfg.LogLevel)
	cfg.HistoryFile = envOr("VFS_HISTORY_FILE", cfg.HistoryFile)
	if v := os.Getenv("VFS_DISK_SIZE"); v != "" {
		size, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, Fatalf("invalid VFS_DISK_SIZE: %s", v)
		}
		cfg.DiskSize = size
	}

	if cfg.DiskSize <= 0 {
		return cfg, Fatalf("invalid disk_size: %d", cfg.DiskSize)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
