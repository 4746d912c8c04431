package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/liftoff/internal/favorites"
	"github.com/five82/liftoff/internal/paging"
	"github.com/five82/liftoff/internal/query"
	"github.com/five82/liftoff/internal/spacex"
	"github.com/five82/liftoff/internal/state"
	"github.com/five82/liftoff/internal/stats"
)

type fakeAPI struct {
	mu       sync.Mutex
	launches map[string]*spacex.Launch
	calls    []string
}

func (f *fakeAPI) QueryLaunches(context.Context, spacex.LaunchQuery, int, int) (spacex.Paginated[spacex.LaunchListItem], error) {
	return spacex.Paginated[spacex.LaunchListItem]{}, nil
}

func (f *fakeAPI) QueryLaunchesByIDs(context.Context, []string) ([]spacex.LaunchListItem, error) {
	return nil, nil
}

func (f *fakeAPI) GetLaunch(_ context.Context, id string) (*spacex.Launch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)
	return f.launches[id], nil
}

func (f *fakeAPI) GetRocket(_ context.Context, id string) (*spacex.Rocket, error) {
	return &spacex.Rocket{ID: id, Name: "Falcon 9"}, nil
}

func (f *fakeAPI) GetLaunchpad(_ context.Context, id string) (*spacex.Launchpad, error) {
	return &spacex.Launchpad{ID: id, Name: "SLC 40"}, nil
}

func (f *fakeAPI) LaunchHistory(context.Context) ([]spacex.LaunchSummary, error) {
	return nil, errors.New("not implemented")
}

func item(id, name string) spacex.LaunchListItem {
	return spacex.LaunchListItem{ID: id, Name: name, DateUTC: "2020-05-30T19:22:00.000Z"}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := New(Options{
		Context:   context.Background(),
		PrefsPath: t.TempDir() + "/prefs.toml",
		Now:       func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return updated.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDetailDropsStaleAnswers(t *testing.T) {
	api := &fakeAPI{launches: map[string]*spacex.Launch{
		"a": {ID: "a", Name: "Demo-2"},
		"b": {ID: "b", Name: "CRS-20"},
	}}
	m := newTestModel(t)
	m.api = api
	m.list = paging.State[spacex.LaunchListItem]{Items: []spacex.LaunchListItem{item("a", "Demo-2"), item("b", "CRS-20")}}

	first := m.selectDetailCmd()
	require.NotNil(t, first)
	m.cursor = 1
	second := m.selectDetailCmd()
	require.NotNil(t, second)

	// The second answer lands first, then the stale one.
	m.applyDetail(second().(detailMsg))
	m.applyDetail(first().(detailMsg))

	require.NotNil(t, m.detail.launch)
	assert.Equal(t, "b", m.detail.launch.ID)
	assert.Equal(t, "Falcon 9", m.detail.rocket.Name)
	assert.False(t, m.detail.loading)
}

func TestSelectDetailSkipsCurrent(t *testing.T) {
	m := newTestModel(t)
	m.api = &fakeAPI{}
	m.list = paging.State[spacex.LaunchListItem]{Items: []spacex.LaunchListItem{item("a", "Demo-2")}}

	require.NotNil(t, m.selectDetailCmd())
	assert.Nil(t, m.selectDetailCmd())
}

func TestDetailNotFound(t *testing.T) {
	m := newTestModel(t)
	m.api = &fakeAPI{launches: map[string]*spacex.Launch{}}
	m.list = paging.State[spacex.LaunchListItem]{Items: []spacex.LaunchListItem{item("gone", "Gone")}}

	cmd := m.selectDetailCmd()
	require.NotNil(t, cmd)
	m.applyDetail(cmd().(detailMsg))
	assert.ErrorIs(t, m.detail.err, errLaunchNotFound)
}

func TestApplyFilterSameFingerprintIsNoop(t *testing.T) {
	m := newTestModel(t)
	m.cursor = 3

	cmd := m.applyFilter(query.Filter{Search: "  "})
	assert.Nil(t, cmd)
	assert.Equal(t, 3, m.cursor)

	cmd = m.applyFilter(query.Filter{Status: query.StatusUpcoming})
	assert.NotNil(t, cmd)
	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, query.StatusUpcoming, m.filter.Status)
	assert.Contains(t, m.status, "upcoming")
}

func TestFilterFormRoundTrip(t *testing.T) {
	f := newFilterForm()
	want := query.Filter{
		Status:  query.StatusPast,
		Outcome: query.OutcomeFailure,
		Sort:    query.SortNameAsc,
		Search:  "starlink",
		From:    "2020-01-01",
	}.Normalize()

	f.load(want)
	assert.Equal(t, want, f.filter())

	f.setFocus(fieldOutcome)
	require.True(t, f.cycle(1))
	assert.Equal(t, query.OutcomeAll, f.filter().Outcome, "cycling wraps around")

	f.setFocus(fieldSearch)
	assert.False(t, f.cycle(1))

	f.clear()
	assert.Equal(t, query.Default(), f.filter())
}

func TestFilterFormKeys(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(keyMsg("f"))
	m = updated.(Model)
	require.True(t, m.showForm)

	// Status row: right moves all -> upcoming.
	updated, _ = m.Update(keyMsg("right"))
	m = updated.(Model)
	// "q" goes nowhere while the form is open.
	updated, cmd := m.Update(keyMsg("q"))
	m = updated.(Model)
	assert.Nil(t, cmd)
	require.True(t, m.showForm)

	updated, cmd = m.Update(keyMsg("enter"))
	m = updated.(Model)
	assert.False(t, m.showForm)
	assert.NotNil(t, cmd)
	assert.Equal(t, query.StatusUpcoming, m.filter.Status)
}

func TestApplyStatsDropsStaleToken(t *testing.T) {
	m := newTestModel(t)
	m.stats.token = 2
	m.stats.loading = true

	m.applyStats(statsMsg{token: 1, years: []stats.Year{{Year: 2006, Launches: 1}}})
	assert.True(t, m.stats.loading)
	assert.False(t, m.stats.loaded)

	m.applyStats(statsMsg{token: 2, years: []stats.Year{{Year: 2020, Launches: 26, Successes: 26, Rate: 100}}})
	assert.False(t, m.stats.loading)
	assert.True(t, m.stats.loaded)
	assert.Len(t, m.stats.years, 1)

	m.stats.token = 3
	m.applyStats(statsMsg{token: 3, err: errors.New("boom")})
	assert.Error(t, m.stats.err)
	assert.Len(t, m.stats.years, 1, "previous history kept on error")
}

func TestRenderLaunchRowsFooter(t *testing.T) {
	m := newTestModel(t)
	items := []spacex.LaunchListItem{item("a", "Demo-2"), item("b", "CRS-20")}
	m.list = paging.State[spacex.LaunchListItem]{Items: items, HasMore: true}

	out := m.renderLaunchRows(items, 0, 0, m.launchesFooter(), 60, m.theme.SurfaceAlt)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 3*RowsPerLaunch)
	assert.Contains(t, out, "Demo-2")
	assert.Contains(t, out, "More launches below")

	m.list.Err = &paging.FetchError{Index: 2, Err: errors.New("timeout")}
	out = m.renderLaunchRows(items, 0, 0, m.launchesFooter(), 60, m.theme.SurfaceAlt)
	assert.Contains(t, out, "r to retry")
}

func TestClampLists(t *testing.T) {
	m := newTestModel(t)
	m.list = paging.State[spacex.LaunchListItem]{Items: []spacex.LaunchListItem{item("a", "A")}}
	m.cursor = 10
	m.favCursor = 4
	m.clampLists()

	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, 0, m.favCursor)

	m.list.HasMore = true
	m.cursor = 10
	m.clampLists()
	assert.Equal(t, 1, m.cursor, "cursor may rest on the footer row")
}

func TestFavoritesViewFollowsLiveSet(t *testing.T) {
	m := newTestModel(t)
	m.snapshot = state.Snapshot{
		IDs:      []string{"a", "b"},
		Launches: []spacex.LaunchListItem{item("a", "Demo-2"), item("b", "CRS-20")},
		Fetched:  true,
	}
	m.favSet = favorites.NewSet("a", "b")
	assert.Len(t, m.visibleFavorites(), 2)

	m.favSet = favorites.NewSet("b")
	visible := m.visibleFavorites()
	require.Len(t, visible, 1)
	assert.Equal(t, "b", visible[0].ID)
	assert.Empty(t, m.favoritesFooter())
}

func TestAddToCompareFillsSides(t *testing.T) {
	m := newTestModel(t)

	cmd := m.addToCompare(item("a", "Demo-2"))
	assert.Nil(t, cmd)
	left, right := m.compareForm.values()
	assert.Equal(t, "a", left)
	assert.Empty(t, right)
	assert.Equal(t, ViewLaunches, m.currentView)

	m.addToCompare(item("b", "CRS-20"))
	left, right = m.compareForm.values()
	assert.Equal(t, "a", left)
	assert.Equal(t, "b", right)
	assert.Equal(t, ViewCompare, m.currentView)
	assert.False(t, m.compareForm.editing())

	// A third launch starts a new pair.
	m.addToCompare(item("c", "SAOCOM"))
	left, right = m.compareForm.values()
	assert.Equal(t, "c", left)
	assert.Empty(t, right)
}

func TestViewSwitching(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(keyMsg("2"))
	m = updated.(Model)
	assert.Equal(t, ViewFavorites, m.currentView)

	updated, _ = m.Update(keyMsg("tab"))
	m = updated.(Model)
	assert.Equal(t, ViewCompare, m.currentView)
	assert.True(t, m.compareForm.editing())

	// Typing goes to the input, not the view keys.
	updated, _ = m.Update(keyMsg("4"))
	m = updated.(Model)
	assert.Equal(t, ViewCompare, m.currentView)
	left, _ := m.compareForm.values()
	assert.Equal(t, "4", left)

	updated, _ = m.Update(keyMsg("esc"))
	m = updated.(Model)
	updated, _ = m.Update(keyMsg("4"))
	m = updated.(Model)
	assert.Equal(t, ViewStats, m.currentView)
}

func TestViewRendersEveryView(t *testing.T) {
	m := newTestModel(t)
	for _, v := range viewOrder {
		m.currentView = v
		out := m.View()
		assert.Contains(t, out, "liftoff", v.String())
	}
	m.showHelp = true
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
}
