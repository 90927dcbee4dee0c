package output

import (
	"errors"
	"testing"
	"time"

	"github.com/aryankumar/podcleaner/internal/fleet"
)

var (
	checkedAt = time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	createdAt = time.Date(2026, 5, 1, 7, 8, 9, 0, time.UTC)
)

func sampleQuery() *fleet.QueryResult {
	return &fleet.QueryResult{
		Namespace: "payments",
		CheckedAt: checkedAt,
		Order:     []string{"prod", "staging", "dev"},
		Pods: map[string][]fleet.ProblemPod{
			"prod": {
				{Name: "api-7f9", Namespace: "payments", Status: "Error", CreationTimestamp: createdAt},
				{Name: "worker-1", Namespace: "payments", Status: "Unknown", CreationTimestamp: createdAt},
			},
			"staging": {},
		},
		Failed: map[string]error{
			"dev": errors.New("connection refused"),
		},
	}
}

func sampleMutation(dryRun bool) *fleet.MutationResult {
	prod := fleet.DeleteStats{Total: 2, Success: 1, Failed: 1}
	qa := fleet.DeleteStats{Total: 3, Success: 3}
	if dryRun {
		prod = fleet.DeleteStats{Total: 2}
		qa = fleet.DeleteStats{Total: 3}
	}
	return &fleet.MutationResult{
		DryRun: dryRun,
		Order:  []string{"prod", "staging", "dev", "qa"},
		Stats: map[string]fleet.DeleteStats{
			"prod":    prod,
			"staging": {},
			"dev":     {},
			"qa":      qa,
		},
		Failed: map[string]error{
			"dev": errors.New("connection refused"),
		},
	}
}

func TestNewQueryReport(t *testing.T) {
	report := NewQueryReport(sampleQuery())

	want := QuerySummary{ClustersChecked: 3, ClustersWithProblems: 1, ProblemPods: 2, ClustersFailed: 1}
	if report.Summary != want {
		t.Errorf("Summary = %+v, want %+v", report.Summary, want)
	}

	if len(report.Clusters) != 3 {
		t.Fatalf("got %d clusters, want 3", len(report.Clusters))
	}

	names := []string{"prod", "staging", "dev"}
	states := []string{StateProblems, StateHealthy, StateFailed}
	for i, entry := range report.Clusters {
		if entry.Cluster != names[i] || entry.State != states[i] {
			t.Errorf("cluster %d = %s/%s, want %s/%s", i, entry.Cluster, entry.State, names[i], states[i])
		}
		if entry.Pods == nil {
			t.Errorf("cluster %s has nil pods", entry.Cluster)
		}
	}
	if report.Clusters[2].Error != "connection refused" {
		t.Errorf("failed cluster error = %q", report.Clusters[2].Error)
	}
}

func TestNewMutationReport(t *testing.T) {
	tests := []struct {
		name       string
		dryRun     bool
		wantStates []string
		wantTotals fleet.DeleteStats
	}{
		{
			name:       "executed",
			wantStates: []string{StatePartial, StateHealthy, StateFailed, StateSuccess},
			wantTotals: fleet.DeleteStats{Total: 5, Success: 4, Failed: 1},
		},
		{
			name:       "dry run",
			dryRun:     true,
			wantStates: []string{StateDryRun, StateHealthy, StateFailed, StateDryRun},
			wantTotals: fleet.DeleteStats{Total: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := NewMutationReport(sampleMutation(tt.dryRun))

			if report.Totals != tt.wantTotals {
				t.Errorf("Totals = %+v, want %+v", report.Totals, tt.wantTotals)
			}
			for i, entry := range report.Clusters {
				if entry.State != tt.wantStates[i] {
					t.Errorf("%s state = %s, want %s", entry.Cluster, entry.State, tt.wantStates[i])
				}
			}
		})
	}
}
