package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/liftoff/internal/spacex"
)

// visibleFavorites filters the fetched listing by the live favorite set.
func (m Model) visibleFavorites() []spacex.LaunchListItem {
	return m.snapshot.Visible(m.favSet)
}

// handleFavoritesKey processes keyboard input for the favorites view.
func (m Model) handleFavoritesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.visibleFavorites()
	if cursor, ok := m.moveCursor(msg, m.favCursor, len(items)); ok {
		m.favCursor = cursor
		m.favOffset = m.listWindow().Follow(m.favOffset, m.favCursor, len(items))
		cmd := m.selectDetailCmd()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Open):
		if len(items) > 0 {
			m.focusedPane = 1
			cmd := m.selectDetailCmd()
			return m, cmd
		}

	case key.Matches(msg, m.keys.Star):
		if launch, ok := m.selectedLaunch(); ok {
			return m, m.toggleFavoriteCmd(launch.ID)
		}

	case key.Matches(msg, m.keys.CompareThis):
		if launch, ok := m.selectedLaunch(); ok {
			cmd := m.addToCompare(launch)
			return m, cmd
		}
	}
	return m, nil
}

// renderFavorites renders the favorites list next to the detail pane.
func (m Model) renderFavorites() string {
	items := m.visibleFavorites()
	title := fmt.Sprintf("Favorites (%d)", m.favSet.Len())
	return m.renderListWithDetail(title, items, m.favCursor, m.favOffset, m.favoritesFooter())
}

func (m Model) favoritesFooter() string {
	snap := m.snapshot
	switch {
	case snap.IsOffline():
		return fmt.Sprintf("! offline, retrying (%v)", snap.LastError)
	case snap.LastError != nil:
		return "! " + snap.LastError.Error()
	case m.favSet.Len() > 0 && snap.Stale(m.favSet):
		return m.spinnerText("Loading favorites...")
	}
	return ""
}
