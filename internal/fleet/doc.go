// Package fleet runs problem pod queries and deletions across every loaded cluster.
//
// A Coordinator wraps a cluster.Fleet. FindProblemPods is read-only and
// isolates per-cluster failures; DeleteProblemPods always re-queries the
// fleet before acting and supports a dry-run mode that makes no API calls.
//
//	coord := fleet.NewCoordinator(f, fleet.WithParallel(5), fleet.WithLogger(logger))
//	result := coord.FindProblemPods(ctx, "")
//	stats := coord.DeleteProblemPods(ctx, "default", true)
package fleet
