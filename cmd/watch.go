package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"linktypes.dev/pkg/linktypes/internal/domain"
)

var watchParallelFlag int
var watchDebounceFlag time.Duration

// watchCmd represents the watch command.
var watchCmd = newWatchCmd()

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [roots...]",
		Short: "Rewrite link files whenever the sourcemap changes",
		Long: `Run once, then again each time the sourcemap is rewritten
(for example by rojo sourcemap --watch). Stop with Ctrl+C.

` + rootsHelp,
		PreRun: func(cmd *cobra.Command, _ []string) {
			bindCommandFlags(cmd, map[string]string{
				runParallelFlagName: runParallelConfigKey,
				debounceFlagName:    debounceConfigKey,
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Watch(cmd.Context(), domain.WatchArgs{
				RunArgs:  runArgs(args),
				Debounce: viper.GetDuration(debounceConfigKey),
			})
		},
	}

	cmd.Flags().IntVarP(&watchParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of link files processed in parallel")
	cmd.Flags().DurationVar(&watchDebounceFlag, debounceFlagName, viper.GetDuration(debounceConfigKey), "quiet period after a sourcemap change before running")

	return cmd
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
