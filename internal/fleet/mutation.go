package fleet

import (
	"context"
	"maps"

	"github.com/aryankumar/podcleaner/internal/cluster"
	"github.com/aryankumar/podcleaner/internal/executor"
	"github.com/aryankumar/podcleaner/internal/metrics"
	"github.com/aryankumar/podcleaner/internal/util"
)

// mergeStats sums the stats of a cluster reported by more than one batch
func mergeStats(acc, part DeleteStats) DeleteStats {
	return acc.Add(part)
}

// DeleteProblemPods deletes every problem pod on every cluster.
// It always starts from a fresh FindProblemPods snapshot. In dry-run mode it
// only records how many pods would be deleted and makes no API calls.
// Failed deletes are counted and never retried.
func (c *Coordinator) DeleteProblemPods(ctx context.Context, namespace string, dryRun bool) *MutationResult {
	snapshot := c.FindProblemPods(ctx, namespace)

	result := &MutationResult{
		DryRun:    dryRun,
		Namespace: namespace,
		Order:     snapshot.Order,
		Stats:     make(map[string]DeleteStats, len(snapshot.Order)),
		Failed:    make(map[string]error, len(snapshot.Failed)),
	}
	for _, name := range snapshot.Order {
		result.Stats[name] = DeleteStats{}
	}
	maps.Copy(result.Failed, snapshot.Failed)

	targets := snapshot.ClustersWithProblems()
	if len(targets) == 0 {
		c.logger.Info("no problem pods to delete", "namespace", namespaceLabel(namespace))
		return result
	}

	if dryRun {
		for _, name := range targets {
			pods := snapshot.Pods[name]
			result.Stats[name] = DeleteStats{Total: len(pods)}
			c.metrics.RecordDeletions(name, metrics.ResultDryRun, len(pods))
			c.logger.Info("dry run: would delete problem pods",
				"cluster", name,
				"count", len(pods))
		}
		return result
	}

	d := executor.NewDispatcher[string, DeleteStats](mergeStats,
		executor.WithBatchSize(c.clusterBatchSize(len(targets))),
		executor.WithMaxConcurrency(c.parallel),
		executor.WithLogger(c.logger),
		executor.WithProgress(func(completed, total int) {
			c.logger.Debug("deletion progress", "batches_done", completed, "batches", total)
		}))

	batches := d.Partition(targets)
	stats, results := d.Dispatch(ctx, targets, func(ctx context.Context, b executor.Batch[string]) (map[string]DeleteStats, error) {
		out := make(map[string]DeleteStats, len(b.Items))
		for _, name := range b.Items {
			client, ok := c.fleet.Get(name)
			if !ok {
				continue
			}
			out[name] = c.deleteFromCluster(ctx, client, snapshot.Pods[name])
		}
		return out, nil
	})

	maps.Copy(result.Stats, stats)

	for _, r := range results {
		c.metrics.RecordBatch(r.Error != nil)
	}

	if executor.HasErrors(results) {
		failed := executor.FilterFailed(results)
		for _, r := range failed {
			for _, name := range batches[r.Index].Items {
				result.Failed[name] = r.Error
			}
		}
		c.logger.Error("deletion batches failed",
			"batches", len(failed),
			"error", util.NewMultiError(executor.GetErrors(failed)))
	}

	totals := result.Totals()
	c.logger.Info("problem pod deletion completed",
		"clusters", len(targets),
		"total", totals.Total,
		"success", totals.Success,
		"failed", totals.Failed,
		"batch_success_rate", executor.SuccessRate(results),
		"summary", executor.Summarize(results).String())

	return result
}

// deleteFromCluster deletes pods one at a time and counts each outcome
func (c *Coordinator) deleteFromCluster(ctx context.Context, client *cluster.Client, pods []ProblemPod) DeleteStats {
	stats := DeleteStats{Total: len(pods)}

	for _, pod := range pods {
		ref := util.PodRef(pod.Namespace, pod.Name)

		err := client.DeletePod(ctx, pod.Namespace, pod.Name)
		switch {
		case err == nil:
			stats.Success++
			c.metrics.RecordDeletion(client.Name, metrics.ResultSuccess)
			c.logger.Info("deleted pod",
				"cluster", client.Name,
				"pod", ref,
				"status", pod.Status)
		case util.IsNotFound(err):
			stats.Failed++
			c.metrics.RecordDeletion(client.Name, metrics.ResultFailed)
			c.logger.Warn("pod already gone",
				"cluster", client.Name,
				"pod", ref)
		default:
			stats.Failed++
			c.metrics.RecordDeletion(client.Name, metrics.ResultFailed)
			c.metrics.RecordClusterFailure("delete pod")
			c.logger.Error("failed to delete pod",
				"cluster", client.Name,
				"pod", ref,
				"error", err)
		}
	}

	return stats
}
