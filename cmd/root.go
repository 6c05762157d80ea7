// Package cmd provides the root command and CLI setup for linktypes.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"linktypes.dev/pkg/linktypes/internal/adapter"
	"linktypes.dev/pkg/linktypes/internal/controller"
	"linktypes.dev/pkg/linktypes/internal/domain"
	m "linktypes.dev/pkg/linktypes/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var luauAdapter adapter.LuauFileAdapter
var sourcemapStore adapter.SourcemapStore
var reportStore adapter.ReportStore
var resolver domain.Resolver
var linker domain.Linker
var workflow domain.Workflow
var ui controller.UI

// sourcemapFlag is a root-level flag naming the Rojo sourcemap.
var sourcemapFlag string

// baseDirFlag anchors relative sourcemap file paths.
var baseDirFlag string

// excludePatterns is a root-level flag that filters link files for applicable commands.
var excludePatterns []string

// verboseFlag switches the log file to debug level.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	luauAdapter = adapter.NewLocalLuauFileAdapter()
	sourcemapStore = adapter.NewLocalSourcemapStore()
	reportStore = adapter.NewReportStore()
	resolver = domain.NewResolver(fsAdapter)
	linker = domain.NewLinker(fsAdapter, luauAdapter, resolver)
	workflow = domain.NewWorkflow(
		fsAdapter,
		sourcemapStore,
		reportStore,
		ui,
		resolver,
		linker,
	)
}

const rootsHelp = `Package roots default to the paths.roots config key
(Packages, ServerPackages and DevPackages). Roots that do not exist are skipped.`

const rootLongDescription = `Linktypes rewrites the link files Wally generates for installed packages
so that they re-export every exported type of the module they point to.

Each link's require path is resolved against a Rojo sourcemap
(rojo sourcemap --output sourcemap.json) to find the real module file.

` + rootsHelp

const runLongDescription = `Rewrite the link files under the given package roots.

` + rootsHelp

const checkLongDescription = `Report link files that are not up to date without writing them.
Exits with a non-zero status when any link would change or failed.

` + rootsHelp

const listLongDescription = `List link files, the require path of each and the module it resolves to.

` + rootsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "linktypes",
		Short: "Forward exported Luau types through Wally link files",
		Long:  rootLongDescription,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SilenceUsage = true
			configureLogger("", viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&sourcemapFlag, sourcemapFlagName, "m",
			viper.GetString(sourcemapConfigKey),
			"path to the Rojo sourcemap",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(sourcemapFlagName), sourcemapConfigKey)

	cmd.PersistentFlags().StringVar(&baseDirFlag, baseDirFlagName, viper.GetString(baseDirConfigKey), "directory relative sourcemap paths are resolved against (default: working directory)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(baseDirFlagName), baseDirConfigKey)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude link files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "write debug logs")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// bindCommandFlags binds a command's own flags to their config keys when the
// command runs. Several commands share keys, so binding at construction would
// leave only the last command's flags bound.
func bindCommandFlags(cmd *cobra.Command, keys map[string]string) {
	for flagName, key := range keys {
		bindFlagToConfig(cmd.Flags().Lookup(flagName), key)
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		if hint := m.HintFor(err); hint != "" {
			rootCmd.PrintErrln("hint:", hint)
		}

		stop()
		os.Exit(1)
	}
}

// runArgs collects the batch arguments shared by run, check, list and watch.
func runArgs(args []string) domain.RunArgs {
	roots := parsePaths(args)
	if len(roots) == 0 {
		roots = parsePaths(viper.GetStringSlice(rootsConfigKey))
	}

	return domain.RunArgs{
		Sourcemap: m.Path(viper.GetString(sourcemapConfigKey)),
		BaseDir:   m.Path(viper.GetString(baseDirConfigKey)),
		Roots:     roots,
		Exclude:   viper.GetStringSlice(excludeConfigKey),
		Threads:   viper.GetInt(runParallelConfigKey),
		DryRun:    viper.GetBool(dryRunConfigKey),
		Report:    m.Path(viper.GetString(reportConfigKey)),
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
