// Package app holds the state shared by pod-cleaner commands for one invocation.
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aryankumar/podcleaner/internal/cluster"
	"github.com/aryankumar/podcleaner/internal/config"
	"github.com/aryankumar/podcleaner/internal/fleet"
	"github.com/aryankumar/podcleaner/internal/metrics"
	"github.com/aryankumar/podcleaner/internal/output"
	"github.com/aryankumar/podcleaner/internal/util"
	"github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log file rotation limits
const (
	LogFileMaxSizeMB  = 10
	LogFileMaxBackups = 5
)

// App carries settings, logging and I/O for the running command
type App struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	Settings *config.Settings
	Logger   *slog.Logger
	Metrics  *metrics.Metrics

	// ClientsetFactory overrides how clientsets are built (nil uses client-go)
	ClientsetFactory cluster.ClientsetFactory

	configFile string
	logFile    *lumberjack.Logger
}

// New creates an App bound to the given streams
func New(in io.Reader, out, errOut io.Writer) *App {
	return &App{
		In:      in,
		Out:     out,
		Err:     errOut,
		Logger:  slog.Default(),
		Metrics: metrics.New(),
	}
}

// Configure loads settings from the config file, environment and flags and sets up logging
func (a *App) Configure(configPath string, flags *pflag.FlagSet) error {
	mgr := config.NewManager(configPath)
	if err := mgr.BindFlags(flags); err != nil {
		return err
	}

	settings, err := mgr.Load()
	if err != nil {
		return err
	}
	a.Settings = settings
	a.configFile = mgr.ConfigFileUsed()

	if err := a.setupLogging(); err != nil {
		return err
	}

	a.Logger.Debug("configuration loaded",
		"config_file", a.configFile,
		"kubeconfig_dir", settings.KubeconfigDir,
		"parallel", settings.Parallel,
		"batch_size", settings.BatchSize,
		"timeout", settings.Timeout)

	return nil
}

// setupLogging configures structured logging with slog
func (a *App) setupLogging() error {
	logLevel := slog.LevelInfo
	if a.Settings.Verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var sink io.Writer = a.Err
	if a.Settings.LogFile != "" {
		// lumberjack opens the file on first write; report an unusable directory now
		if err := os.MkdirAll(filepath.Dir(a.Settings.LogFile), 0o755); err != nil {
			return util.ConfigurationError("cannot create log directory for %s: %v", a.Settings.LogFile, err)
		}
		a.logFile = &lumberjack.Logger{
			Filename:   a.Settings.LogFile,
			MaxSize:    LogFileMaxSizeMB,
			MaxBackups: LogFileMaxBackups,
		}
		sink = io.MultiWriter(a.Err, a.logFile)
	}

	var handler slog.Handler
	if a.Settings.NoColor {
		handler = slog.NewJSONHandler(sink, opts)
	} else {
		handler = slog.NewTextHandler(sink, opts)
	}

	a.Logger = slog.New(handler)
	slog.SetDefault(a.Logger)

	return nil
}

// Formatter returns the formatter selected by the output setting
func (a *App) Formatter() (output.Formatter, error) {
	format, err := output.ParseFormat(a.Settings.OutputFormat)
	if err != nil {
		return nil, util.ConfigurationError("%v", err)
	}
	return output.NewFormatter(format, output.WithNoColor(a.Settings.NoColor)), nil
}

// LoadCoordinator loads every cluster in the credential directory.
// It fails with a configuration error when no cluster could be loaded.
func (a *App) LoadCoordinator(ctx context.Context) (*fleet.Coordinator, error) {
	opts := []cluster.LoaderOption{
		cluster.WithTimeout(a.Settings.Timeout),
		cluster.WithParallel(a.Settings.Parallel),
		cluster.WithLogger(a.Logger),
	}
	if a.ClientsetFactory != nil {
		opts = append(opts, cluster.WithClientsetFactory(a.ClientsetFactory))
	}

	f, err := cluster.NewLoader(a.Settings.KubeconfigDir, opts...).Load(ctx)
	if err != nil {
		return nil, err
	}

	a.Metrics.RecordClustersLoaded(f.Len())
	for range f.Failures() {
		a.Metrics.RecordClusterFailure("load")
	}

	if f.Len() == 0 {
		if len(f.Failures()) == 0 {
			return nil, util.ConfigurationError("no cluster credential files found in %s", a.Settings.KubeconfigDir)
		}
		names := make([]string, 0, len(f.Failures()))
		for _, ferr := range f.Failures() {
			if name, ok := util.ClusterNameOf(ferr); ok {
				names = append(names, name)
			}
		}
		slices.Sort(names)
		return nil, util.ConfigurationError("none of the %d credential files in %s could be loaded (%s)",
			len(f.Failures()), a.Settings.KubeconfigDir, strings.Join(names, ", "))
	}

	return fleet.NewCoordinator(f,
		fleet.WithParallel(a.Settings.Parallel),
		fleet.WithBatchSize(a.Settings.BatchSize),
		fleet.WithLogger(a.Logger),
		fleet.WithMetrics(a.Metrics)), nil
}

// Confirm asks a yes/no question on the App's streams; only "y" or "yes" confirm
func (a *App) Confirm(question string) bool {
	fmt.Fprintf(a.Out, "%s [y/N]: ", question)

	reader := bufio.NewReader(a.In)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// Close writes the metrics file if configured and closes the log file
func (a *App) Close() error {
	var errs []error

	if a.Settings != nil && a.Settings.MetricsFile != "" {
		if err := a.Metrics.WriteTextfile(a.Settings.MetricsFile); err != nil {
			errs = append(errs, err)
		} else {
			a.Logger.Debug("metrics written", "file", a.Settings.MetricsFile)
		}
	}

	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close log file: %w", err))
		}
		a.logFile = nil
	}

	return util.CombineErrors(errs...)
}
