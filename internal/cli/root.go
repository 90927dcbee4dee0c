package cli

import (
	"context"
	"os"

	"github.com/aryankumar/podcleaner/internal/cli/app"
	"github.com/aryankumar/podcleaner/internal/cli/cluster"
	"github.com/aryankumar/podcleaner/internal/cli/pods"
	"github.com/aryankumar/podcleaner/internal/config"
	"github.com/aryankumar/podcleaner/internal/util"
	"github.com/spf13/cobra"
)

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	a := app.New(os.Stdin, os.Stdout, os.Stderr)
	err := newRootCmd(a).ExecuteContext(ctx)
	return util.CombineErrors(err, a.Close())
}

// newRootCmd creates the root command
func newRootCmd(a *app.App) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "pod-cleaner",
		Short: "Pod Cleaner - find and delete failed pods across Kubernetes clusters",
		Long: `Pod Cleaner audits a fleet of Kubernetes clusters for pods stuck in the
Error or Unknown state and optionally deletes them.

Every file in the credential directory whose name ends in .yaml/.yml or
starts with k8s is treated as one cluster. Clusters that cannot be reached
are reported and skipped; the rest of the fleet is still processed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.Configure(cfgFile, cmd.Flags())
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pod-cleaner.yaml)")
	rootCmd.PersistentFlags().StringP("kubeconfig-dir", "k", config.DefaultKubeconfigDir, "directory of cluster credential files (env KUBECONFIG_DIR)")
	rootCmd.PersistentFlags().StringP("output", "o", config.DefaultOutputFormat, "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output with debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().Duration("timeout", config.DefaultTimeout, "timeout for each API call")
	rootCmd.PersistentFlags().IntP("parallel", "p", config.DefaultParallel, "number of clusters processed in parallel")
	rootCmd.PersistentFlags().Int("batch-size", config.DefaultBatchSize, "maximum clusters per deletion batch")
	rootCmd.PersistentFlags().String("log-file", "", "also write logs to this file")
	rootCmd.PersistentFlags().String("metrics-file", "", "write run metrics in Prometheus text format to this file")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(pods.NewListPodsCmd(a))
	rootCmd.AddCommand(pods.NewCleanPodsCmd(a))
	rootCmd.AddCommand(cluster.NewClusterInfoCmd(a))

	return rootCmd
}
