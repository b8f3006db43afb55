// Package config holds the server configuration, sourced from an optional
// YAML file plus command-line flags. Flags win over the file, the file wins
// over defaults.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"text-editor-server/internal/filesystem"
	"text-editor-server/internal/textenc"
)

// Config holds all configurable values for the server.
type Config struct {
	BaseDirectory     string `yaml:"base_directory"`
	Transport         string `yaml:"transport"`
	Port              int    `yaml:"port"`
	MaxFileSizeMB     int    `yaml:"max_file_size_mb"`
	MaxPatchesPerFile int    `yaml:"max_patches_per_file"`
	LockTimeoutSec    int    `yaml:"lock_timeout_sec"`
	DefaultEncoding   string `yaml:"default_encoding"`
}

// Defaults returns a Config populated with the built-in defaults.
func Defaults() *Config {
	return &Config{
		Transport:         "mcp",
		Port:              8080,
		MaxFileSizeMB:     10,
		MaxPatchesPerFile: 50,
		LockTimeoutSec:    30,
		DefaultEncoding:   textenc.DefaultEncoding,
	}
}

// Load builds the configuration from args (without the program name). A
// -config flag names a YAML file applied over the defaults; any other flag
// given explicitly overrides the file value.
func Load(args []string) (*Config, error) {
	cfg := Defaults()

	fs := flag.NewFlagSet("text-editor", flag.ContinueOnError)
	configFile := fs.String("config", "", "Path to a YAML configuration file")
	fs.StringVar(&cfg.BaseDirectory, "dir", cfg.BaseDirectory, "Base directory all file paths resolve under (required)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport protocol (mcp, stdio or http)")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "Port for HTTP transport")
	fs.IntVar(&cfg.MaxFileSizeMB, "max-file-size", cfg.MaxFileSizeMB, "Maximum file size in MB")
	fs.IntVar(&cfg.MaxPatchesPerFile, "max-patches", cfg.MaxPatchesPerFile, "Maximum patches per request")
	fs.IntVar(&cfg.LockTimeoutSec, "lock-timeout", cfg.LockTimeoutSec, "File lock timeout in seconds")
	fs.StringVar(&cfg.DefaultEncoding, "encoding", cfg.DefaultEncoding, "Default text encoding")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *configFile != "" {
		fileCfg := Defaults()
		data, err := os.ReadFile(*configFile)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", *configFile, err)
		}

		// Start from the file, then re-apply flags the user actually set.
		merged := *fileCfg
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "dir":
				merged.BaseDirectory = cfg.BaseDirectory
			case "transport":
				merged.Transport = cfg.Transport
			case "port":
				merged.Port = cfg.Port
			case "max-file-size":
				merged.MaxFileSizeMB = cfg.MaxFileSizeMB
			case "max-patches":
				merged.MaxPatchesPerFile = cfg.MaxPatchesPerFile
			case "lock-timeout":
				merged.LockTimeoutSec = cfg.LockTimeoutSec
			case "encoding":
				merged.DefaultEncoding = cfg.DefaultEncoding
			}
		})
		cfg = &merged
	}

	return cfg, nil
}

// Validate checks the configuration values and the base directory.
func (c *Config) Validate() error {
	if c.BaseDirectory == "" {
		return fmt.Errorf("base directory is required")
	}
	abs, err := filepath.Abs(c.BaseDirectory)
	if err != nil {
		return fmt.Errorf("resolving base directory: %w", err)
	}
	c.BaseDirectory = abs

	if err := filesystem.CheckDirectoryIsWritable(c.BaseDirectory); err != nil {
		return fmt.Errorf("base directory check failed: %w", err)
	}

	switch c.Transport {
	case "mcp", "stdio", "http":
	default:
		return fmt.Errorf("transport must be 'mcp', 'stdio' or 'http'")
	}

	if c.Port < 1024 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1024 and 65535")
	}
	if c.MaxFileSizeMB < 1 || c.MaxFileSizeMB > 100 {
		return fmt.Errorf("max file size must be between 1 and 100 MB")
	}
	if c.MaxPatchesPerFile < 1 || c.MaxPatchesPerFile > 1000 {
		return fmt.Errorf("max patches per request must be between 1 and 1000")
	}
	if c.LockTimeoutSec < 1 || c.LockTimeoutSec > 300 {
		return fmt.Errorf("lock timeout must be between 1 and 300 seconds")
	}
	if _, err := textenc.Lookup(c.DefaultEncoding); err != nil {
		return fmt.Errorf("default encoding: %w", err)
	}
	return nil
}

// MaxFileSizeBytes returns the file size ceiling in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}
