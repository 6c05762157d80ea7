package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var checkParallelFlag int
var checkReportFlag string

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [roots...]",
		Short: "Show pending link rewrites without writing them",
		Long:  checkLongDescription,
		PreRun: func(cmd *cobra.Command, _ []string) {
			bindCommandFlags(cmd, map[string]string{
				runParallelFlagName: runParallelConfigKey,
				reportFlagName:      reportConfigKey,
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Check(cmd.Context(), runArgs(args))
		},
	}

	cmd.Flags().IntVarP(&checkParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of link files processed in parallel")
	cmd.Flags().StringVar(&checkReportFlag, reportFlagName, viper.GetString(reportConfigKey), "write a YAML report of the check to this path")

	return cmd
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
