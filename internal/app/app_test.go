package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/five82/liftoff/internal/config"
	"github.com/five82/liftoff/internal/favorites"
	"github.com/five82/liftoff/internal/kv"
	"github.com/five82/liftoff/internal/query"
	"github.com/five82/liftoff/internal/spacex"
)

type fakeAPI struct {
	mu      sync.Mutex
	byID    map[string]spacex.LaunchListItem
	failIDs error
	pages   []int
}

func (f *fakeAPI) QueryLaunches(_ context.Context, _ spacex.LaunchQuery, page, limit int) (spacex.Paginated[spacex.LaunchListItem], error) {
	f.mu.Lock()
	f.pages = append(f.pages, page)
	f.mu.Unlock()
	next := page + 1
	return spacex.Paginated[spacex.LaunchListItem]{
		Docs:        []spacex.LaunchListItem{{ID: "l1", Name: "FalconSat"}},
		Page:        page,
		Limit:       limit,
		HasNextPage: true,
		NextPage:    &next,
	}, nil
}

func (f *fakeAPI) QueryLaunchesByIDs(_ context.Context, ids []string) ([]spacex.LaunchListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIDs != nil {
		return nil, f.failIDs
	}
	out := []spacex.LaunchListItem{}
	for _, id := range ids {
		if item, ok := f.byID[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeAPI) GetLaunch(context.Context, string) (*spacex.Launch, error) { return nil, nil }

func (f *fakeAPI) GetRocket(context.Context, string) (*spacex.Rocket, error) { return nil, nil }

func (f *fakeAPI) GetLaunchpad(context.Context, string) (*spacex.Launchpad, error) { return nil, nil }

func (f *fakeAPI) LaunchHistory(context.Context) ([]spacex.LaunchSummary, error) { return nil, nil }

func openTestApp(t *testing.T, api *fakeAPI) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Storage = config.StorageMemory
	cfg.DataDir = t.TempDir()
	cfg.PageSize = 5

	a, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	a.API = api
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestPageFromResult(t *testing.T) {
	next := 3
	tests := []struct {
		name     string
		index    int
		res      spacex.Paginated[spacex.LaunchListItem]
		wantIdx  int
		wantNext int
	}{
		{"has next", 2, spacex.Paginated[spacex.LaunchListItem]{Page: 2, HasNextPage: true, NextPage: &next}, 2, 3},
		{"last page", 4, spacex.Paginated[spacex.LaunchListItem]{Page: 4}, 4, 0},
		{"next flag without number", 1, spacex.Paginated[spacex.LaunchListItem]{HasNextPage: true}, 1, 0},
		{"server page wins", 1, spacex.Paginated[spacex.LaunchListItem]{Page: 2}, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := PageFromResult(tt.index, tt.res)
			assert.Equal(t, tt.wantIdx, page.Index)
			assert.Equal(t, tt.wantNext, page.Next)
		})
	}
}

func TestOpenMemoryAndCloseTwice(t *testing.T) {
	a := openTestApp(t, &fakeAPI{})
	_, ok := a.KV.(*kv.Memory)
	assert.True(t, ok)
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
}

func TestFirstPageUsesPageSize(t *testing.T) {
	api := &fakeAPI{}
	a := openTestApp(t, api)

	page, err := a.FirstPage(context.Background(), query.Default())
	require.NoError(t, err)
	assert.Equal(t, 1, page.Index)
	assert.Equal(t, 2, page.Next)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, []int{1}, api.pages)
}

func TestLaunchListPagesThroughAPI(t *testing.T) {
	api := &fakeAPI{}
	a := openTestApp(t, api)

	list := a.NewLaunchList()
	defer list.Close()
	require.True(t, list.Reset(query.Default(), nil))
	require.True(t, list.RequestNextPage(context.Background()))
	list.Wait()
	require.True(t, list.RequestNextPage(context.Background()))
	list.Wait()

	state := list.State()
	assert.Equal(t, 2, state.Pages)
	assert.Len(t, state.Items, 2)
	assert.True(t, state.HasMore)
}

func TestRefreshListing(t *testing.T) {
	api := &fakeAPI{byID: map[string]spacex.LaunchListItem{
		"a": {ID: "a", Name: "Demo-2"},
		"b": {ID: "b", Name: "CRS-20"},
	}}
	a := openTestApp(t, api)
	ctx := context.Background()
	a.Favorites.Hydrate(ctx)
	a.Favorites.Add("a")
	a.Favorites.Add("b")

	require.NoError(t, a.RefreshListing(ctx))
	snap := a.Listing.Snapshot()
	assert.Equal(t, []string{"a", "b"}, snap.IDs)
	assert.Len(t, snap.Launches, 2)
	assert.False(t, snap.Stale(a.Favorites.Snapshot()))

	api.mu.Lock()
	api.failIDs = errors.New("api down")
	api.mu.Unlock()
	require.Error(t, a.RefreshListing(ctx))
	require.Error(t, a.RefreshListing(ctx))

	snap = a.Listing.Snapshot()
	assert.Len(t, snap.Launches, 2, "last good listing is kept")
	assert.True(t, snap.IsOffline())
}

func TestStartSyncAppliesPeerWrites(t *testing.T) {
	a := openTestApp(t, &fakeAPI{})
	ctx := context.Background()
	a.Favorites.Hydrate(ctx)
	require.NoError(t, a.StartSync())

	peer := a.KV.(*kv.Memory).Peer()
	defer func() { _ = peer.Close() }()
	require.NoError(t, peer.Set(ctx, favorites.Key, `["5eb87cd9ffd86e000604b32a"]`))

	require.Eventually(t, func() bool {
		return a.Favorites.Has("5eb87cd9ffd86e000604b32a")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestListingRefresherFollowsNewFavorites(t *testing.T) {
	api := &fakeAPI{byID: map[string]spacex.LaunchListItem{
		"a": {ID: "a", Name: "Demo-2"},
	}}
	a := openTestApp(t, api)
	a.Favorites.Hydrate(context.Background())
	a.StartListingRefresher(time.Hour)

	a.Favorites.Add("a")

	require.Eventually(t, func() bool {
		return len(a.Listing.Snapshot().Visible(a.Favorites.Snapshot())) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCloseStopsBackgroundWork(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := config.Default()
	cfg.Storage = config.StorageMemory
	cfg.DataDir = t.TempDir()
	a, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	a.API = &fakeAPI{}

	require.NoError(t, a.StartSync())
	a.StartListingRefresher(time.Hour)
	require.NoError(t, a.Close())
}
