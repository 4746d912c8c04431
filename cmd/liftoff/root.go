package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/liftoff/internal/app"
	"github.com/five82/liftoff/internal/config"
	"github.com/five82/liftoff/internal/logging"
)

// globals are the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	prefsPath  string
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "liftoff",
		Short: "Browse SpaceX launches from the terminal",
		Long: `liftoff browses the SpaceX launch catalog.

Run without a subcommand to start the interactive browser. The subcommands
print the same data as tables for scripting.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: g.configPath,
				PrefsPath:  g.prefsPath,
			})
		},
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "override config path (optional)")
	root.PersistentFlags().StringVar(&g.prefsPath, "prefs", "", "override preferences path (optional)")

	root.AddCommand(
		newLaunchesCmd(g),
		newShowCmd(g),
		newFavCmd(g),
		newCompareCmd(g),
		newStatsCmd(g),
	)
	return root
}

// openApp builds the shared components for a subcommand. Diagnostics go
// to stderr so stdout carries only the table.
func (g *globals) openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := logging.NewText(cmd.ErrOrStderr(), cfg.LogLevel)
	return app.Open(cmd.Context(), cfg, logger)
}
