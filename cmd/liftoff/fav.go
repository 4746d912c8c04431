package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/liftoff/internal/app"
	"github.com/five82/liftoff/internal/favorites"
)

func newFavCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav",
		Short: "List or change favorite launches",
		Long: `List or change favorite launches.

Changes are visible immediately to a running liftoff browser.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List favorite launches",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withFavorites(g, cmd, func(a *app.App) error {
					set := a.Favorites.Snapshot()
					out := cmd.OutOrStdout()
					if set.Len() == 0 {
						_, err := fmt.Fprintln(out, "No favorites yet")
						return err
					}
					items, err := a.API.QueryLaunchesByIDs(cmd.Context(), set.IDs())
					if err != nil {
						return err
					}
					return printTable(out, launchHeaders, launchRows(items, set))
				})
			},
		},
		newFavMutateCmd(g, "add", "Star launches", (*favorites.Store).Add),
		newFavMutateCmd(g, "remove", "Unstar launches", (*favorites.Store).Remove),
		newFavMutateCmd(g, "toggle", "Flip the star on launches", (*favorites.Store).Toggle),
	)
	return cmd
}

func newFavMutateCmd(g *globals, use, short string, apply func(*favorites.Store, string)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <launch-id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFavorites(g, cmd, func(a *app.App) error {
				for _, id := range args {
					apply(a.Favorites, id)
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), countLabel(a.Favorites.Snapshot().Len(), "favorite", "favorites"))
				return err
			})
		},
	}
}

// withFavorites opens the app, hydrates favorites and runs fn.
func withFavorites(g *globals, cmd *cobra.Command, fn func(a *app.App) error) error {
	a, err := g.openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	a.Favorites.Hydrate(cmd.Context())
	return fn(a)
}
