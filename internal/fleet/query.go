package fleet

import (
	"context"
	"sync"
	"time"

	"github.com/aryankumar/podcleaner/internal/cluster"
	"golang.org/x/sync/errgroup"
)

// FindProblemPods lists the pods in Error or Unknown status on every cluster.
// An empty namespace searches all namespaces. A failing cluster is logged once
// and recorded in the result's Failed map; it never stops the other clusters.
func (c *Coordinator) FindProblemPods(ctx context.Context, namespace string) *QueryResult {
	clients := c.fleet.Clients()
	result := newQueryResult(namespace, c.fleet.Names())

	c.logger.Info("searching for problem pods",
		"clusters", len(clients),
		"namespace", namespaceLabel(namespace))

	var mu sync.Mutex

	// Per-cluster errors are recorded, not returned, so no cluster cancels its siblings
	var g errgroup.Group
	g.SetLimit(c.parallel)

	for _, client := range clients {
		client := client
		g.Go(func() error {
			pods, err := c.queryCluster(ctx, client, namespace)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed[client.Name] = err
				return nil
			}
			result.Pods[client.Name] = pods
			return nil
		})
	}
	_ = g.Wait()

	c.logger.Info("problem pod search completed",
		"clusters", len(clients),
		"with_problems", len(result.ClustersWithProblems()),
		"problem_pods", result.TotalProblemPods(),
		"failed", len(result.Failed))

	return result
}

// queryCluster lists one cluster's pods and keeps the problem pods
func (c *Coordinator) queryCluster(ctx context.Context, client *cluster.Client, namespace string) ([]ProblemPod, error) {
	start := time.Now()

	pods, err := client.ListPods(ctx, namespace)
	if err != nil {
		c.logger.Error("failed to query cluster",
			"cluster", client.Name,
			"error", err)
		c.metrics.RecordClusterFailure("list pods")
		return nil, err
	}

	problems := make([]ProblemPod, 0)
	for i := range pods {
		pod := &pods[i]
		if !cluster.IsProblemPod(pod) {
			continue
		}
		problems = append(problems, ProblemPod{
			Name:              pod.Name,
			Namespace:         pod.Namespace,
			Status:            cluster.PodStatus(pod),
			CreationTimestamp: pod.CreationTimestamp.Time,
		})
	}

	c.metrics.RecordClusterQuery(client.Name, len(problems), time.Since(start))

	c.logger.Debug("cluster queried",
		"cluster", client.Name,
		"pods", len(pods),
		"problem_pods", len(problems),
		"duration", time.Since(start))

	return problems, nil
}

func namespaceLabel(namespace string) string {
	if namespace == "" {
		return "all"
	}
	return namespace
}
