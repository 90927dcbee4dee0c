package config

import "time"

// Settings holds the resolved runtime configuration of one pod-cleaner invocation.
// It is built once by Manager.Load and passed explicitly to the cluster loader
// and the fleet coordinator.
type Settings struct {
	// KubeconfigDir is the directory holding one credential file per cluster
	KubeconfigDir string `mapstructure:"kubeconfig-dir" yaml:"kubeconfigDir" json:"kubeconfigDir"`

	// Timeout bounds every single API call (probe, list, delete)
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`

	// Parallel is the maximum number of clusters worked on concurrently
	Parallel int `mapstructure:"parallel" yaml:"parallel" json:"parallel"`

	// BatchSize is the number of clusters handed to one dispatcher batch
	BatchSize int `mapstructure:"batch-size" yaml:"batchSize" json:"batchSize"`

	// OutputFormat is the report format (table, json, yaml)
	OutputFormat string `mapstructure:"output" yaml:"output" json:"output"`

	// NoColor disables colored output
	NoColor bool `mapstructure:"no-color" yaml:"noColor" json:"noColor"`

	// Verbose enables debug logging
	Verbose bool `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// LogFile, when set, receives a copy of every log record
	LogFile string `mapstructure:"log-file" yaml:"logFile,omitempty" json:"logFile,omitempty"`

	// MetricsFile, when set, receives the run metrics in Prometheus text format
	MetricsFile string `mapstructure:"metrics-file" yaml:"metricsFile,omitempty" json:"metricsFile,omitempty"`
}

// CredentialFile is one cluster credential file found in the kubeconfig directory
type CredentialFile struct {
	// ClusterName is the file's base name with the extension stripped
	ClusterName string `json:"clusterName"`

	// Path is the absolute path of the file
	Path string `json:"path"`
}
