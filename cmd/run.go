package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runParallelFlag int
var runDryRunFlag bool
var runReportFlag string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [roots...]",
		Short: "Rewrite link files to forward exported types",
		Long:  runLongDescription,
		PreRun: func(cmd *cobra.Command, _ []string) {
			bindCommandFlags(cmd, map[string]string{
				runParallelFlagName: runParallelConfigKey,
				dryRunFlagName:      dryRunConfigKey,
				reportFlagName:      reportConfigKey,
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Run(cmd.Context(), runArgs(args))
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of link files processed in parallel")
	cmd.Flags().BoolVar(&runDryRunFlag, dryRunFlagName, viper.GetBool(dryRunConfigKey), "compute rewrites without writing any file")
	cmd.Flags().StringVar(&runReportFlag, reportFlagName, viper.GetString(reportConfigKey), "write a YAML report of the run to this path")
}
