// Package ui provides the Bubble Tea TUI for liftoff.
package ui

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/five82/liftoff/internal/compare"
	"github.com/five82/liftoff/internal/favorites"
	"github.com/five82/liftoff/internal/paging"
	"github.com/five82/liftoff/internal/prefs"
	"github.com/five82/liftoff/internal/query"
	"github.com/five82/liftoff/internal/spacex"
	"github.com/five82/liftoff/internal/state"
	"github.com/five82/liftoff/internal/stats"
)

// View represents the current active view.
type View int

const (
	ViewLaunches View = iota
	ViewFavorites
	ViewCompare
	ViewStats
)

var viewOrder = []View{ViewLaunches, ViewFavorites, ViewCompare, ViewStats}

func (v View) String() string {
	switch v {
	case ViewFavorites:
		return "Favorites"
	case ViewCompare:
		return "Compare"
	case ViewStats:
		return "Stats"
	default:
		return "Launches"
	}
}

// LaunchList pages through launches for one filter at a time.
type LaunchList = paging.Controller[query.Filter, spacex.LaunchListItem]

// Options configures the UI.
type Options struct {
	Context   context.Context
	API       spacex.Fetcher
	Favorites *favorites.Store
	Launches  *LaunchList
	Compare   *compare.Loader
	Listing   *state.Store
	Filter    query.Filter
	Logger    *log.Logger
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
	Now       func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	api       spacex.Fetcher
	favs      *favorites.Store
	launches  *LaunchList
	compare   *compare.Loader
	listing   *state.Store
	logger    *log.Logger
	prefsPath string
	pollTick  time.Duration
	now       func() time.Time
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	focusedPane int // 0 = list, 1 = detail
	showHelp    bool
	status      string
	spinner     spinner.Model

	// Launches state
	filter   query.Filter
	list     paging.State[spacex.LaunchListItem]
	cursor   int
	offset   int
	showForm bool
	form     filterForm

	// Favorites state
	favSet    *favorites.Set
	snapshot  state.Snapshot
	favCursor int
	favOffset int

	// Detail state
	detail detailState

	// Compare state
	compareForm  compareForm
	compareState compare.State

	// Stats state
	stats statsState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	m := Model{
		ctx:         ctx,
		api:         opts.API,
		favs:        opts.Favorites,
		launches:    opts.Launches,
		compare:     opts.Compare,
		listing:     opts.Listing,
		logger:      logger,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		now:         now,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		currentView: ViewLaunches,
		filter:      opts.Filter.Normalize(),
		form:        newFilterForm(),
		compareForm: newCompareForm(),
	}
	m.spinner = spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(m.theme.Styles().AccentText),
	)
	if m.launches != nil {
		m.list = m.launches.State()
	}
	if m.favs != nil {
		m.favSet = m.favs.Snapshot()
	}
	if m.compare != nil {
		m.compareState = m.compare.State()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		m.spinner.Tick,
		m.firstPageCmd(),
	}
	if m.favs != nil {
		cmds = append(cmds, m.hydrateCmd())
	}
	if m.listing != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.listing))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.clampLists()
		return m, m.visibleCmd()

	case tea.FocusMsg:
		// Another process may have changed favorites while we were hidden.
		return m, m.syncCmd()

	case tickMsg:
		return m, tea.Batch(fetchSnapshotCmd(m.listing), tickCmd(m.pollTick))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.clampLists()
		cmd := m.selectDetailCmd()
		return m, cmd

	case launchesChangedMsg:
		if m.launches != nil {
			m.list = m.launches.State()
		}
		m.clampLists()
		detail := m.selectDetailCmd()
		return m, tea.Batch(m.visibleCmd(), detail)

	case favoritesChangedMsg:
		if m.favs != nil {
			m.favSet = m.favs.Snapshot()
		}
		m.clampLists()
		cmd := m.selectDetailCmd()
		return m, cmd

	case compareChangedMsg:
		if m.compare != nil {
			m.compareState = m.compare.State()
		}
		return m, nil

	case detailMsg:
		m.applyDetail(msg)
		return m, nil

	case statsMsg:
		m.applyStats(msg)
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.showForm {
		return m.renderFilterForm()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.showForm {
		return m.handleFilterFormKey(msg)
	}

	// Compare inputs swallow printable keys while focused.
	if m.currentView == ViewCompare && m.compareForm.editing() {
		return m.handleCompareKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = m.theme.Styles().AccentText
		return m, m.savePrefsCmd()

	case key.Matches(msg, m.keys.Tab):
		return m.switchView(m.cycleView(1))

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView(m.cycleView(-1))

	case key.Matches(msg, m.keys.ViewLaunches):
		return m.switchView(ViewLaunches)

	case key.Matches(msg, m.keys.ViewFavorites):
		return m.switchView(ViewFavorites)

	case key.Matches(msg, m.keys.ViewCompare):
		return m.switchView(ViewCompare)

	case key.Matches(msg, m.keys.ViewStats):
		return m.switchView(ViewStats)

	case key.Matches(msg, m.keys.Escape):
		if m.focusedPane == 1 {
			m.focusedPane = 0
			return m, nil
		}
		m.status = ""
		return m, nil
	}

	switch m.currentView {
	case ViewLaunches:
		return m.handleLaunchesKey(msg)
	case ViewFavorites:
		return m.handleFavoritesKey(msg)
	case ViewCompare:
		return m.handleCompareKey(msg)
	case ViewStats:
		return m.handleStatsKey(msg)
	}

	return m, nil
}

func (m Model) cycleView(step int) View {
	for i, v := range viewOrder {
		if v == m.currentView {
			return viewOrder[(i+step+len(viewOrder))%len(viewOrder)]
		}
	}
	return ViewLaunches
}

// switchView changes the active view and kicks off whatever it needs.
func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	m.focusedPane = 0
	switch v {
	case ViewStats:
		if !m.stats.loaded && !m.stats.loading {
			cmd := m.loadStatsCmd()
			return m, cmd
		}
	case ViewCompare:
		m.compareForm.focus(0)
	case ViewLaunches, ViewFavorites:
		m.clampLists()
		detail := m.selectDetailCmd()
		return m, tea.Batch(m.visibleCmd(), detail)
	}
	return m, nil
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLaunches:
		return m.renderLaunches()
	case ViewFavorites:
		return m.renderFavorites()
	case ViewCompare:
		return m.renderCompare()
	case ViewStats:
		return m.renderStats()
	default:
		return ""
	}
}

func (m Model) contentHeight() int {
	return max(m.height-2, 3) // header + command bar
}

// spinnerText prefixes s with the spinner frame.
func (m Model) spinnerText(s string) string {
	return m.spinner.View() + " " + s
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type launchesChangedMsg struct{}

type favoritesChangedMsg struct{}

type compareChangedMsg struct{}

type statusMsg string

type statsMsg struct {
	token uint64
	years []stats.Year
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Core components notify subscribers synchronously, and those callbacks
// call Program.Send. Anything that mutates them therefore runs inside a
// command, never directly in Update.

func (m Model) hydrateCmd() tea.Cmd {
	favs, ctx := m.favs, m.ctx
	return func() tea.Msg {
		favs.Hydrate(ctx)
		return favoritesChangedMsg{}
	}
}

func (m Model) syncCmd() tea.Cmd {
	if m.favs == nil {
		return nil
	}
	favs, ctx := m.favs, m.ctx
	return func() tea.Msg {
		favs.Sync(ctx)
		return favoritesChangedMsg{}
	}
}

func (m Model) toggleFavoriteCmd(id string) tea.Cmd {
	if m.favs == nil || id == "" {
		return nil
	}
	favs := m.favs
	return func() tea.Msg {
		favs.Toggle(id)
		return favoritesChangedMsg{}
	}
}

func (m Model) savePrefsCmd() tea.Cmd {
	path := m.prefsPath
	p := prefs.Prefs{Theme: m.theme.Name, Filter: m.filter.Values()}
	logger := m.logger
	return func() tea.Msg {
		if err := prefs.Save(path, p); err != nil {
			logger.Warn("save prefs failed", "err", err)
		}
		return nil
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Context == nil {
		opts.Context = ctx
	}
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))

	var unsubscribe []func()
	if opts.Launches != nil {
		unsubscribe = append(unsubscribe, opts.Launches.Subscribe(func(paging.State[spacex.LaunchListItem]) {
			p.Send(launchesChangedMsg{})
		}))
	}
	if opts.Favorites != nil {
		unsubscribe = append(unsubscribe, opts.Favorites.Subscribe(func(*favorites.Set) {
			p.Send(favoritesChangedMsg{})
		}))
	}
	if opts.Compare != nil {
		unsubscribe = append(unsubscribe, opts.Compare.Subscribe(func(compare.State) {
			p.Send(compareChangedMsg{})
		}))
	}
	defer func() {
		for _, cancel := range unsubscribe {
			cancel()
		}
	}()

	_, err := p.Run()
	return err
}
