package pods

import (
	"github.com/aryankumar/podcleaner/internal/cli/app"
	"github.com/spf13/cobra"
)

// NewListPodsCmd creates the list-pods command
func NewListPodsCmd(a *app.App) *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "list-pods",
		Short: "List pods in Error or Unknown state across all clusters",
		Long: `List pods whose status is Error or Unknown on every cluster in the
credential directory.

Clusters that cannot be queried are reported and skipped.`,
		Example: `  # Check every namespace on every cluster
  pod-cleaner list-pods

  # Check one namespace
  pod-cleaner list-pods -n payments

  # Use another credential directory and print JSON
  pod-cleaner list-pods -k ./clusters -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListPods(cmd, a, namespace)
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "only check this namespace (default all namespaces)")

	return cmd
}

func runListPods(cmd *cobra.Command, a *app.App, namespace string) error {
	formatter, err := a.Formatter()
	if err != nil {
		return err
	}

	coord, err := a.LoadCoordinator(cmd.Context())
	if err != nil {
		return err
	}

	result := coord.FindProblemPods(cmd.Context(), namespace)
	return formatter.FormatQuery(a.Out, result)
}
