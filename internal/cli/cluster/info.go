package cluster

import (
	"github.com/aryankumar/podcleaner/internal/cli/app"
	"github.com/spf13/cobra"
)

// NewClusterInfoCmd creates the cluster-info command
func NewClusterInfoCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster-info",
		Short: "Show version and endpoint of every loaded cluster",
		Long: `Load every cluster in the credential directory and show its name,
Kubernetes version, API server, build date and platform.`,
		Example: `  pod-cleaner cluster-info
  pod-cleaner cluster-info -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := a.Formatter()
			if err != nil {
				return err
			}

			coord, err := a.LoadCoordinator(cmd.Context())
			if err != nil {
				return err
			}

			return formatter.FormatClusterInfo(a.Out, coord.ClusterInfo())
		},
	}

	return cmd
}
