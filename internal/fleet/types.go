package fleet

import (
	"time"
)

// ProblemPod is a snapshot of a pod in Error or Unknown status
type ProblemPod struct {
	Name              string    `json:"name" yaml:"name"`
	Namespace         string    `json:"namespace" yaml:"namespace"`
	Status            string    `json:"status" yaml:"status"`
	CreationTimestamp time.Time `json:"creationTimestamp" yaml:"creationTimestamp"`
}

// QueryResult holds the problem pods found on each loaded cluster.
// Every cluster appears exactly once: in Pods when its query succeeded
// (an empty slice means healthy) or in Failed when it did not.
type QueryResult struct {
	// Namespace is the filter the query ran with ("" means all namespaces)
	Namespace string

	// CheckedAt is when the query started
	CheckedAt time.Time

	// Order lists every cluster name in load order
	Order []string

	// Pods maps cluster name to its problem pods in API return order
	Pods map[string][]ProblemPod

	// Failed maps cluster name to the error that prevented its query
	Failed map[string]error
}

func newQueryResult(namespace string, order []string) *QueryResult {
	return &QueryResult{
		Namespace: namespace,
		CheckedAt: time.Now(),
		Order:     order,
		Pods:      make(map[string][]ProblemPod, len(order)),
		Failed:    make(map[string]error),
	}
}

// TotalProblemPods returns the number of problem pods across all clusters
func (r *QueryResult) TotalProblemPods() int {
	total := 0
	for _, pods := range r.Pods {
		total += len(pods)
	}
	return total
}

// ClustersWithProblems returns the names of clusters with at least one problem pod, in load order
func (r *QueryResult) ClustersWithProblems() []string {
	names := make([]string, 0)
	for _, name := range r.Order {
		if len(r.Pods[name]) > 0 {
			names = append(names, name)
		}
	}
	return names
}

// Healthy reports whether a cluster was queried successfully and has no problem pods
func (r *QueryResult) Healthy(name string) bool {
	pods, ok := r.Pods[name]
	return ok && len(pods) == 0
}

// FailureMessages returns the failed clusters with their error text
func (r *QueryResult) FailureMessages() map[string]string {
	return errorMessages(r.Failed)
}

// DeleteStats counts deletion outcomes for one cluster.
// Once a run completes Success+Failed equals Total, except in dry-run mode
// where both stay zero.
type DeleteStats struct {
	Total   int `json:"total" yaml:"total"`
	Success int `json:"success" yaml:"success"`
	Failed  int `json:"failed" yaml:"failed"`
}

// Add returns the field-wise sum of two stats
func (s DeleteStats) Add(other DeleteStats) DeleteStats {
	return DeleteStats{
		Total:   s.Total + other.Total,
		Success: s.Success + other.Success,
		Failed:  s.Failed + other.Failed,
	}
}

// MutationResult holds the deletion stats of every loaded cluster
type MutationResult struct {
	// DryRun reports whether deletes were skipped
	DryRun bool

	// Namespace is the filter the run used ("" means all namespaces)
	Namespace string

	// Order lists every cluster name in load order
	Order []string

	// Stats maps every loaded cluster to its deletion stats.
	// Healthy clusters and clusters whose query failed have zero stats.
	Stats map[string]DeleteStats

	// Failed maps cluster name to the error that prevented any deletion on it
	Failed map[string]error
}

// Totals returns the stats summed over all clusters
func (r *MutationResult) Totals() DeleteStats {
	var total DeleteStats
	for _, s := range r.Stats {
		total = total.Add(s)
	}
	return total
}

// HasFailures reports whether any delete failed or any cluster could not be processed
func (r *MutationResult) HasFailures() bool {
	return r.Totals().Failed > 0 || len(r.Failed) > 0
}

// FailureMessages returns the failed clusters with their error text
func (r *MutationResult) FailureMessages() map[string]string {
	return errorMessages(r.Failed)
}

func errorMessages(errs map[string]error) map[string]string {
	out := make(map[string]string, len(errs))
	for name, err := range errs {
		out[name] = err.Error()
	}
	return out
}
