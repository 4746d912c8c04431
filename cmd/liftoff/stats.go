package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/five82/liftoff/internal/stats"
)

func newStatsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Launches and success rate per year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			history, err := a.API.LaunchHistory(cmd.Context())
			if err != nil {
				return err
			}
			years := stats.ByYear(history)
			out := cmd.OutOrStdout()
			if len(years) == 0 {
				_, err := fmt.Fprintln(out, "No launch history")
				return err
			}
			return printTable(out, []string{"Year", "Launches", "Successes", "Rate"}, statsRows(years))
		},
	}
}

func statsRows(years []stats.Year) [][]string {
	row := func(label string, y stats.Year) []string {
		return []string{label, strconv.Itoa(y.Launches), strconv.Itoa(y.Successes), fmt.Sprintf("%d%%", y.Rate)}
	}
	rows := make([][]string, 0, len(years)+1)
	for _, y := range years {
		rows = append(rows, row(strconv.Itoa(y.Year), y))
	}
	return append(rows, row("Total", stats.Totals(years)))
}
