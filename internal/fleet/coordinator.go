package fleet

import (
	"log/slog"

	"github.com/aryankumar/podcleaner/internal/cluster"
	"github.com/aryankumar/podcleaner/internal/executor"
	"github.com/aryankumar/podcleaner/internal/metrics"
)

// Coordinator dispatches fleet-wide operations over a loaded cluster set
type Coordinator struct {
	fleet     *cluster.Fleet
	parallel  int
	batchSize int
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithParallel bounds how many clusters are worked on at once
func WithParallel(n int) Option {
	return func(c *Coordinator) {
		c.parallel = n
	}
}

// WithBatchSize caps how many clusters one dispatched deletion batch holds
func WithBatchSize(n int) Option {
	return func(c *Coordinator) {
		c.batchSize = n
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithMetrics records run counters into m
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// NewCoordinator creates a coordinator for the given fleet
func NewCoordinator(f *cluster.Fleet, opts ...Option) *Coordinator {
	if f == nil {
		f = cluster.NewFleet()
	}

	c := &Coordinator{
		fleet:     f,
		parallel:  executor.DefaultMaxConcurrency,
		batchSize: executor.DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.parallel <= 0 {
		c.parallel = executor.DefaultMaxConcurrency
	}
	if c.batchSize <= 0 {
		c.batchSize = executor.DefaultBatchSize
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Fleet returns the cluster set the coordinator works on
func (c *Coordinator) Fleet() *cluster.Fleet {
	return c.fleet
}

// ClusterInfo returns the metadata captured for each cluster at load time, in load order
func (c *Coordinator) ClusterInfo() []cluster.Info {
	return c.fleet.Infos()
}

// clusterBatchSize spreads n clusters over the workers, never exceeding the configured batch size
func (c *Coordinator) clusterBatchSize(n int) int {
	perWorker := (n + c.parallel - 1) / c.parallel
	return max(1, min(c.batchSize, perWorker))
}
