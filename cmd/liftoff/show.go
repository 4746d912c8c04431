package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/five82/liftoff/internal/spacex"
)

func newShowCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show <launch-id>",
		Short: "Show one launch with its rocket and launchpad",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			ctx := cmd.Context()

			launch, err := a.API.GetLaunch(ctx, args[0])
			if err != nil {
				return err
			}
			if launch == nil {
				return errors.New("launch not found")
			}

			var (
				rocket *spacex.Rocket
				pad    *spacex.Launchpad
			)
			eg, egctx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				var err error
				rocket, err = a.API.GetRocket(egctx, launch.Rocket)
				return err
			})
			eg.Go(func() error {
				var err error
				pad, err = a.API.GetLaunchpad(egctx, launch.Launchpad)
				return err
			})
			if err := eg.Wait(); err != nil {
				a.Logger.Warn("related lookups failed", "id", launch.ID, "err", err)
			}

			a.Favorites.Hydrate(ctx)
			return printLaunch(cmd.OutOrStdout(), launch, rocket, pad, a.Favorites.Has(launch.ID))
		},
	}
}

func printLaunch(w io.Writer, l *spacex.Launch, rocket *spacex.Rocket, pad *spacex.Launchpad, starred bool) error {
	var rows [][]string
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			rows = append(rows, []string{label, value})
		}
	}

	name := l.Name
	if starred {
		name = "★ " + name
	}
	add("Name", name)
	add("Date", formatDate(l.DateUTC, l.Date()))
	add("Outcome", l.Outcome())
	add("ID", l.ID)
	if rocket != nil {
		add("Rocket", rocket.Name)
		if rocket.CostPerLaunch > 0 {
			add("Cost", "$"+humanize.Comma(rocket.CostPerLaunch))
		}
	}
	if pad != nil {
		add("Launchpad", pad.FullName)
		add("Location", strings.Trim(pad.Locality+", "+pad.Region, ", "))
	}
	add("Webcast", l.Links.Webcast)
	add("Article", l.Links.Article)
	add("Wikipedia", l.Links.Wikipedia)
	for i, url := range l.Links.Flickr.Original {
		add(fmt.Sprintf("Photo %d", i+1), spacex.SizedFlickr(url, "z"))
	}

	if err := printTable(w, []string{"Field", "Value"}, rows); err != nil {
		return err
	}
	if details := strings.TrimSpace(l.Details); details != "" {
		_, err := fmt.Fprintf(w, "\n%s\n", details)
		return err
	}
	return nil
}
