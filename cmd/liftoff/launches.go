package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/liftoff/internal/query"
)

func newLaunchesCmd(g *globals) *cobra.Command {
	var (
		f     query.Filter
		share string
		pages int
	)

	cmd := &cobra.Command{
		Use:   "launches",
		Short: "List launches matching a filter",
		Long: `List launches matching a filter.

EXAMPLES:
    liftoff launches --status upcoming
    liftoff launches --outcome failure --sort date_asc
    liftoff launches --search starlink --from 2020-01-01 --to 2020-12-31 --pages 3
    liftoff launches --query 'status=past&success=success'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := f
			if share != "" {
				parsed, err := query.ParseQuery(share)
				if err != nil {
					return err
				}
				filter = parsed
			}
			filter = filter.Normalize()

			a, err := g.openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			a.Favorites.Hydrate(cmd.Context())

			list := a.NewLaunchList()
			defer list.Close()
			list.Reset(filter, nil)
			for i := 0; i < max(pages, 1); i++ {
				if !list.RequestNextPage(cmd.Context()) {
					break
				}
				list.Wait()
			}

			state := list.State()
			if state.Err != nil {
				return state.Err
			}

			out := cmd.OutOrStdout()
			if len(state.Items) == 0 {
				_, err := fmt.Fprintln(out, "No launches match this filter")
				return err
			}
			if err := printTable(out, launchHeaders, launchRows(state.Items, a.Favorites.Snapshot())); err != nil {
				return err
			}
			more := ""
			if state.HasMore {
				more = ", more available (--pages)"
			}
			_, err = fmt.Fprintf(out, "%s · %s%s\n", countLabel(len(state.Items), "launch", "launches"), filter.Summary(), more)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar((*string)(&f.Status), "status", string(query.StatusAll), "all, upcoming or past")
	flags.StringVar((*string)(&f.Outcome), "outcome", string(query.OutcomeAll), "all, success or failure")
	flags.StringVar((*string)(&f.Sort), "sort", string(query.SortDateDesc), "date_desc, date_asc, name_asc or name_desc")
	flags.StringVar(&f.Search, "search", "", "case-insensitive name search")
	flags.StringVar(&f.From, "from", "", "earliest launch date (YYYY-MM-DD)")
	flags.StringVar(&f.To, "to", "", "latest launch date (YYYY-MM-DD)")
	flags.StringVar(&share, "query", "", "shareable filter string; overrides the other filter flags")
	flags.IntVar(&pages, "pages", 1, "number of pages to fetch")
	return cmd
}
