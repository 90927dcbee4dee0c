// Package metrics records run counters for a pod-cleaner invocation and
// exports them in the node-exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pod_cleaner"

// Label values for deletion and batch results
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
	ResultDryRun  = "dry_run"
)

// Label keys
const (
	labelCluster   = "cluster"
	labelOperation = "operation"
	labelResult    = "result"
)

// Metrics holds the collectors for one run. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	clustersLoaded      prometheus.Counter
	clusterFailures     *prometheus.CounterVec
	problemPodsFound    *prometheus.CounterVec
	podDeletions        *prometheus.CounterVec
	batches             *prometheus.CounterVec
	clusterQueryLatency prometheus.Histogram
}

// New creates a Metrics instance backed by its own registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		clustersLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clusters_loaded_total",
			Help:      "Number of clusters successfully loaded from the credential directory.",
		}),
		clusterFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cluster_failures_total",
			Help:      "Number of per-cluster failures by operation.",
		}, []string{labelOperation}),
		problemPodsFound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "problem_pods_found_total",
			Help:      "Number of pods in Error or Unknown status found per cluster.",
		}, []string{labelCluster}),
		podDeletions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pod_deletions_total",
			Help:      "Number of pod deletions per cluster by result.",
		}, []string{labelCluster, labelResult}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Number of dispatched batches by result.",
		}, []string{labelResult}),
		clusterQueryLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cluster_query_duration_seconds",
			Help:      "Duration of a problem pod query against one cluster.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}

	m.registry.MustRegister(
		m.clustersLoaded,
		m.clusterFailures,
		m.problemPodsFound,
		m.podDeletions,
		m.batches,
		m.clusterQueryLatency,
	)

	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordClustersLoaded adds n loaded clusters
func (m *Metrics) RecordClustersLoaded(n int) {
	if m == nil {
		return
	}
	m.clustersLoaded.Add(float64(n))
}

// RecordClusterFailure counts a failed per-cluster operation
func (m *Metrics) RecordClusterFailure(operation string) {
	if m == nil {
		return
	}
	m.clusterFailures.WithLabelValues(operation).Inc()
}

// RecordClusterQuery records one cluster query and the problem pods it found
func (m *Metrics) RecordClusterQuery(cluster string, problemPods int, duration time.Duration) {
	if m == nil {
		return
	}
	m.problemPodsFound.WithLabelValues(cluster).Add(float64(problemPods))
	m.clusterQueryLatency.Observe(duration.Seconds())
}

// RecordDeletion counts one pod deletion outcome
func (m *Metrics) RecordDeletion(cluster, result string) {
	m.RecordDeletions(cluster, result, 1)
}

// RecordDeletions counts n pod deletion outcomes
func (m *Metrics) RecordDeletions(cluster, result string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.podDeletions.WithLabelValues(cluster, result).Add(float64(n))
}

// RecordBatch counts one dispatched batch
func (m *Metrics) RecordBatch(failed bool) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if failed {
		result = ResultFailed
	}
	m.batches.WithLabelValues(result).Inc()
}

// WriteTextfile writes all collected metrics to path in the textfile collector format
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
