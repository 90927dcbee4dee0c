package pods

import (
	"fmt"
	"strings"

	"github.com/aryankumar/podcleaner/internal/cli/app"
	"github.com/aryankumar/podcleaner/internal/fleet"
	"github.com/spf13/cobra"
)

// NewCleanPodsCmd creates the clean-pods command
func NewCleanPodsCmd(a *app.App) *cobra.Command {
	var (
		namespace        string
		dryRun           bool
		skipConfirmation bool
	)

	cmd := &cobra.Command{
		Use:   "clean-pods",
		Short: "Delete pods in Error or Unknown state across all clusters",
		Long: `Delete every pod whose status is Error or Unknown on every cluster in the
credential directory.

The fleet is queried first and the plan is shown. Deletion requires
confirmation unless --yes or --dry-run is given. Failed deletions are
counted and never retried; the command exits non-zero if any failed.`,
		Example: `  # Show what would be deleted
  pod-cleaner clean-pods --dry-run

  # Delete problem pods in one namespace without prompting
  pod-cleaner clean-pods -n batch-jobs -y`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCleanPods(cmd, a, namespace, dryRun, skipConfirmation)
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "only clean this namespace (default all namespaces)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be deleted without deleting")
	cmd.Flags().BoolVarP(&skipConfirmation, "yes", "y", false, "skip confirmation prompt")

	return cmd
}

func runCleanPods(cmd *cobra.Command, a *app.App, namespace string, dryRun, skipConfirmation bool) error {
	ctx := cmd.Context()

	formatter, err := a.Formatter()
	if err != nil {
		return err
	}

	coord, err := a.LoadCoordinator(ctx)
	if err != nil {
		return err
	}

	plan := coord.FindProblemPods(ctx, namespace)
	if plan.TotalProblemPods() == 0 {
		fmt.Fprintln(a.Out, "No pods to clean")
		return nil
	}

	if !dryRun && !skipConfirmation {
		if err := formatter.FormatQuery(a.Out, plan); err != nil {
			return err
		}
		fmt.Fprintln(a.Out)
		if !confirmClean(a, plan) {
			fmt.Fprintln(a.Out, "Cleanup cancelled")
			return nil
		}
	}

	result := coord.DeleteProblemPods(ctx, namespace, dryRun)
	if err := formatter.FormatMutation(a.Out, result); err != nil {
		return err
	}

	if failed := result.Totals().Failed; failed > 0 {
		return fmt.Errorf("%d pod deletion(s) failed", failed)
	}
	return nil
}

// confirmClean prompts the user for confirmation before deleting
func confirmClean(a *app.App, plan *fleet.QueryResult) bool {
	clusters := plan.ClustersWithProblems()
	fmt.Fprintf(a.Out, "WARNING: %d pod(s) will be DELETED from %d cluster(s): %s\n",
		plan.TotalProblemPods(), len(clusters), strings.Join(clusters, ", "))

	return a.Confirm("Are you sure you want to delete these pods?")
}
