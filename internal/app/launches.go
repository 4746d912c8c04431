package app

import (
	"context"

	"github.com/five82/liftoff/internal/paging"
	"github.com/five82/liftoff/internal/query"
	"github.com/five82/liftoff/internal/spacex"
)

// LaunchList pages through launches matching a filter.
type LaunchList = paging.Controller[query.Filter, spacex.LaunchListItem]

// NewLaunchList returns a controller fetching Config.PageSize launches per
// page. The caller owns it and must Close it.
func (a *App) NewLaunchList() *LaunchList {
	return paging.New(a.fetchLaunchPage, paging.WithLogger(a.Logger.WithPrefix("paging")))
}

func (a *App) fetchLaunchPage(ctx context.Context, f query.Filter, index int) (paging.Page[spacex.LaunchListItem], error) {
	res, err := a.API.QueryLaunches(ctx, f.Document(), index, a.Config.PageSize)
	if err != nil {
		return paging.Page[spacex.LaunchListItem]{}, err
	}
	return PageFromResult(index, res), nil
}

// FirstPage fetches page 1 for f so a list can be seeded before it is
// shown.
func (a *App) FirstPage(ctx context.Context, f query.Filter) (*paging.Page[spacex.LaunchListItem], error) {
	page, err := a.fetchLaunchPage(ctx, f, 1)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// PageFromResult converts an API envelope into a page. A missing next page
// number ends the sequence.
func PageFromResult(index int, res spacex.Paginated[spacex.LaunchListItem]) paging.Page[spacex.LaunchListItem] {
	next := 0
	if res.HasNextPage && res.NextPage != nil {
		next = *res.NextPage
	}
	if res.Page > 0 {
		index = res.Page
	}
	return paging.Page[spacex.LaunchListItem]{Index: index, Items: res.Docs, Next: next}
}
