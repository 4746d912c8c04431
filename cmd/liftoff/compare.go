package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/five82/liftoff/internal/compare"
)

func newCompareCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <left-id> <right-id>",
		Short: "Compare two launches side by side",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if !a.Compare.Submit(cmd.Context(), args[0], args[1]) {
				return errors.New("compare needs two launch ids")
			}
			a.Compare.Wait()

			state := a.Compare.State()
			if state.Err != nil {
				return state.Err
			}
			if state.Result == nil {
				return errors.New("comparison did not complete")
			}
			return printTable(cmd.OutOrStdout(), []string{"", state.Result.Left.Name, state.Result.Right.Name}, compareRows(*state.Result))
		},
	}
}

func compareRows(r compare.Result) [][]string {
	field := func(label string, get func(compare.Side) string) []string {
		return []string{label, get(r.Left), get(r.Right)}
	}
	return [][]string{
		field("ID", func(s compare.Side) string { return s.LaunchID }),
		field("Date", func(s compare.Side) string { return formatDate(s.DateUTC, s.Date()) }),
		field("Outcome", compare.Side.Outcome),
		field("Rocket", func(s compare.Side) string { return s.RocketName }),
		field("Launchpad", func(s compare.Side) string { return s.PadName }),
		field("Webcast", func(s compare.Side) string { return s.Webcast }),
		field("Wikipedia", func(s compare.Side) string { return s.Wikipedia }),
	}
}
