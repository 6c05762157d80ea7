package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"linktypes.dev/pkg/linktypes/internal/domain"
	m "linktypes.dev/pkg/linktypes/internal/model"
)

var viewReportFlag string

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View a previously saved run report",
		Long:  "View a YAML report written by run or check with --report.",
		Args:  cobra.ExactArgs(0),
		PreRun: func(cmd *cobra.Command, _ []string) {
			bindCommandFlags(cmd, map[string]string{
				reportFlagName: reportConfigKey,
			})
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			reportPath := m.Path(viper.GetString(reportConfigKey))
			if reportPath == "" {
				return errors.New("no report path given: pass --report or set run.report")
			}

			return workflow.View(cmd.Context(), domain.ViewArgs{Report: reportPath})
		},
	}

	cmd.Flags().StringVar(&viewReportFlag, reportFlagName, viper.GetString(reportConfigKey), "path of the report to view")

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
