package output

import (
	"time"

	"github.com/aryankumar/podcleaner/internal/fleet"
)

// Cluster states used in reports
const (
	StateHealthy  = "healthy"
	StateProblems = "problems"
	StateFailed   = "failed"
	StatePartial  = "partial"
	StateSuccess  = "success"
	StateDryRun   = "dry-run"
)

// QuerySummary counts the outcome of a problem pod query
type QuerySummary struct {
	ClustersChecked      int `json:"clustersChecked" yaml:"clustersChecked"`
	ClustersWithProblems int `json:"clustersWithProblems" yaml:"clustersWithProblems"`
	ProblemPods          int `json:"problemPods" yaml:"problemPods"`
	ClustersFailed       int `json:"clustersFailed" yaml:"clustersFailed"`
}

// ClusterPods is one cluster's entry in a query report
type ClusterPods struct {
	Cluster string             `json:"cluster" yaml:"cluster"`
	State   string             `json:"state" yaml:"state"`
	Pods    []fleet.ProblemPod `json:"pods" yaml:"pods"`
	Error   string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// QueryReport is the serializable form of a fleet.QueryResult
type QueryReport struct {
	CheckedAt time.Time     `json:"checkedAt" yaml:"checkedAt"`
	Namespace string        `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Summary   QuerySummary  `json:"summary" yaml:"summary"`
	Clusters  []ClusterPods `json:"clusters" yaml:"clusters"`
}

// NewQueryReport flattens a query result into load order
func NewQueryReport(r *fleet.QueryResult) QueryReport {
	report := QueryReport{
		CheckedAt: r.CheckedAt,
		Namespace: r.Namespace,
		Summary: QuerySummary{
			ClustersChecked:      len(r.Order),
			ClustersWithProblems: len(r.ClustersWithProblems()),
			ProblemPods:          r.TotalProblemPods(),
			ClustersFailed:       len(r.Failed),
		},
		Clusters: make([]ClusterPods, 0, len(r.Order)),
	}

	for _, name := range r.Order {
		entry := ClusterPods{Cluster: name, Pods: []fleet.ProblemPod{}}
		switch {
		case r.Failed[name] != nil:
			entry.State = StateFailed
			entry.Error = r.Failed[name].Error()
		case len(r.Pods[name]) > 0:
			entry.State = StateProblems
			entry.Pods = r.Pods[name]
		default:
			entry.State = StateHealthy
		}
		report.Clusters = append(report.Clusters, entry)
	}

	return report
}

// ClusterStats is one cluster's entry in a deletion report
type ClusterStats struct {
	Cluster           string `json:"cluster" yaml:"cluster"`
	State             string `json:"state" yaml:"state"`
	fleet.DeleteStats `yaml:",inline"`
	Error             string `json:"error,omitempty" yaml:"error,omitempty"`
}

// MutationReport is the serializable form of a fleet.MutationResult
type MutationReport struct {
	DryRun    bool              `json:"dryRun" yaml:"dryRun"`
	Namespace string            `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Totals    fleet.DeleteStats `json:"totals" yaml:"totals"`
	Clusters  []ClusterStats    `json:"clusters" yaml:"clusters"`
}

// NewMutationReport flattens a mutation result into load order
func NewMutationReport(r *fleet.MutationResult) MutationReport {
	report := MutationReport{
		DryRun:    r.DryRun,
		Namespace: r.Namespace,
		Totals:    r.Totals(),
		Clusters:  make([]ClusterStats, 0, len(r.Order)),
	}

	for _, name := range r.Order {
		stats := r.Stats[name]
		entry := ClusterStats{Cluster: name, DeleteStats: stats}
		switch {
		case r.Failed[name] != nil:
			entry.State = StateFailed
			entry.Error = r.Failed[name].Error()
		case stats.Total == 0:
			entry.State = StateHealthy
		case r.DryRun:
			entry.State = StateDryRun
		case stats.Failed > 0:
			entry.State = StatePartial
		default:
			entry.State = StateSuccess
		}
		report.Clusters = append(report.Clusters, entry)
	}

	return report
}
