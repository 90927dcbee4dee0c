package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aryankumar/podcleaner/internal/util"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultConfigName = ".pod-cleaner"
	envPrefix         = "POD_CLEANER"

	// legacyDirEnv is honoured for compatibility with existing deployments
	legacyDirEnv = "KUBECONFIG_DIR"

	DefaultKubeconfigDir = "kubeconfig"
	DefaultTimeout       = 30 * time.Second
	DefaultParallel      = 5
	DefaultBatchSize     = 50
	DefaultOutputFormat  = "table"
)

// Manager handles pod-cleaner configuration
// Precedence (highest first): flags, environment, settings file, defaults
type Manager struct {
	configPath string
	viper      *viper.Viper
}

// NewManager creates a new configuration manager
// An empty configPath searches $HOME/.pod-cleaner.yaml
func NewManager(configPath string) *Manager {
	v := viper.New()

	v.SetDefault("kubeconfig-dir", DefaultKubeconfigDir)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("parallel", DefaultParallel)
	v.SetDefault("batch-size", DefaultBatchSize)
	v.SetDefault("output", DefaultOutputFormat)
	v.SetDefault("no-color", false)
	v.SetDefault("verbose", false)
	v.SetDefault("log-file", "")
	v.SetDefault("metrics-file", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("kubeconfig-dir", envPrefix+"_KUBECONFIG_DIR", legacyDirEnv)

	return &Manager{
		configPath: configPath,
		viper:      v,
	}
}

// BindFlags binds command-line flags to configuration keys
// Only flags that were explicitly set override lower-precedence sources
func (m *Manager) BindFlags(flags *pflag.FlagSet) error {
	for _, key := range []string{
		"kubeconfig-dir", "timeout", "parallel", "batch-size",
		"output", "no-color", "verbose", "log-file", "metrics-file",
	} {
		flag := flags.Lookup(key)
		if flag == nil {
			continue
		}
		if err := m.viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %q: %w", key, err)
		}
	}
	return nil
}

// Load reads the settings file (if any), applies overrides and validates the result
func (m *Manager) Load() (*Settings, error) {
	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			m.viper.AddConfigPath(home)
		}
		m.viper.SetConfigName(defaultConfigName)
		m.viper.SetConfigType("yaml")
	}

	if err := m.viper.ReadInConfig(); err != nil {
		// A missing settings file is fine, defaults apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	settings := &Settings{}
	if err := m.viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := settings.Normalize(); err != nil {
		return nil, err
	}

	return settings, nil
}

// ConfigFileUsed returns the settings file that was read, if any
func (m *Manager) ConfigFileUsed() string {
	return m.viper.ConfigFileUsed()
}

// Normalize fills zero values with defaults, expands paths and validates ranges
func (s *Settings) Normalize() error {
	if s.KubeconfigDir == "" {
		s.KubeconfigDir = DefaultKubeconfigDir
	}
	if s.Timeout == 0 {
		s.Timeout = DefaultTimeout
	}
	if s.Parallel == 0 {
		s.Parallel = DefaultParallel
	}
	if s.BatchSize == 0 {
		s.BatchSize = DefaultBatchSize
	}
	if s.OutputFormat == "" {
		s.OutputFormat = DefaultOutputFormat
	}

	if s.Timeout < 0 {
		return util.ConfigurationError("timeout must be positive, got %s", s.Timeout)
	}
	if s.Parallel < 0 {
		return util.ConfigurationError("parallel must be positive, got %d", s.Parallel)
	}
	if s.BatchSize < 0 {
		return util.ConfigurationError("batch-size must be positive, got %d", s.BatchSize)
	}

	switch s.OutputFormat {
	case "table", "json", "yaml":
	default:
		return util.ConfigurationError("unsupported output format %q (supported: table, json, yaml)", s.OutputFormat)
	}

	dir, err := expandPath(s.KubeconfigDir)
	if err != nil {
		return util.ConfigurationError("invalid kubeconfig directory %q: %v", s.KubeconfigDir, err)
	}
	s.KubeconfigDir = dir

	if s.LogFile != "" {
		if s.LogFile, err = expandPath(s.LogFile); err != nil {
			return util.ConfigurationError("invalid log file %q: %v", s.LogFile, err)
		}
	}

	return nil
}

// expandPath expands ~ and environment variables and returns an absolute, clean path
func expandPath(path string) (string, error) {
	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	return filepath.Abs(filepath.Clean(path))
}
