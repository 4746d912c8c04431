package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/liftoff/internal/paging"
	"github.com/five82/liftoff/internal/query"
	"github.com/five82/liftoff/internal/spacex"
)

// listWindow describes the scrolled list inside a titled box.
func (m Model) listWindow() paging.Window {
	return paging.Window{ItemHeight: RowsPerLaunch, Height: m.contentHeight() - 2}
}

// footerShown reports whether the list ends in a loading/error row.
func (m Model) footerShown() bool {
	return m.list.HasMore || m.list.Loading || m.list.Err != nil
}

// listRows counts launches plus the footer row.
func (m Model) listRows() int {
	n := len(m.list.Items)
	if m.footerShown() {
		n++
	}
	return n
}

// clampLists keeps both cursors and offsets inside their lists.
func (m *Model) clampLists() {
	rows := m.listRows()
	m.cursor = min(max(m.cursor, 0), max(rows-1, 0))
	m.offset = m.listWindow().Follow(m.offset, m.cursor, rows)

	favRows := len(m.visibleFavorites())
	m.favCursor = min(max(m.favCursor, 0), max(favRows-1, 0))
	m.favOffset = m.listWindow().Follow(m.favOffset, m.favCursor, favRows)
}

// moveCursor applies a navigation key to cursor within rows. It reports
// false when msg is not a navigation key.
func (m Model) moveCursor(msg tea.KeyMsg, cursor, rows int) (int, bool) {
	if rows == 0 {
		return 0, false
	}
	page := m.listWindow().Visible()
	switch {
	case key.Matches(msg, m.keys.Down):
		cursor++
	case key.Matches(msg, m.keys.Up):
		cursor--
	case key.Matches(msg, m.keys.Top):
		cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		cursor = rows - 1
	case key.Matches(msg, m.keys.PageDown):
		cursor += page
	case key.Matches(msg, m.keys.PageUp):
		cursor -= page
	case key.Matches(msg, m.keys.HalfPageDown):
		cursor += max(page/2, 1)
	case key.Matches(msg, m.keys.HalfPageUp):
		cursor -= max(page/2, 1)
	default:
		return cursor, false
	}
	return min(max(cursor, 0), rows-1), true
}

// selectedLaunch returns the launch under the cursor in the active list.
func (m Model) selectedLaunch() (spacex.LaunchListItem, bool) {
	switch m.currentView {
	case ViewLaunches:
		if m.cursor < len(m.list.Items) {
			return m.list.Items[m.cursor], true
		}
	case ViewFavorites:
		favs := m.visibleFavorites()
		if m.favCursor < len(favs) {
			return favs[m.favCursor], true
		}
	}
	return spacex.LaunchListItem{}, false
}

// handleLaunchesKey processes keyboard input for the launches view.
func (m Model) handleLaunchesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.listRows()
	if cursor, ok := m.moveCursor(msg, m.cursor, rows); ok {
		m.cursor = cursor
		m.offset = m.listWindow().Follow(m.offset, m.cursor, rows)
		detail := m.selectDetailCmd()
		return m, tea.Batch(m.visibleCmd(), detail)
	}

	switch {
	case key.Matches(msg, m.keys.Open):
		if m.cursor >= len(m.list.Items) {
			return m, m.retryCmd()
		}
		m.focusedPane = 1
		cmd := m.selectDetailCmd()
		return m, cmd

	case key.Matches(msg, m.keys.Star):
		if launch, ok := m.selectedLaunch(); ok {
			return m, m.toggleFavoriteCmd(launch.ID)
		}

	case key.Matches(msg, m.keys.Filter):
		m.form.load(m.filter)
		m.showForm = true
		return m, nil

	case key.Matches(msg, m.keys.ResetFilter):
		cmd := m.applyFilter(query.Default())
		return m, cmd

	case key.Matches(msg, m.keys.Retry):
		return m, m.retryCmd()

	case key.Matches(msg, m.keys.CompareThis):
		if launch, ok := m.selectedLaunch(); ok {
			cmd := m.addToCompare(launch)
			return m, cmd
		}
	}
	return m, nil
}

// applyFilter switches the list to f. An equivalent filter changes nothing.
func (m *Model) applyFilter(f query.Filter) tea.Cmd {
	f = f.Normalize()
	if f.Fingerprint() == m.filter.Fingerprint() {
		m.filter = f
		return nil
	}
	m.filter = f
	m.cursor, m.offset = 0, 0
	m.status = "filter: " + f.Summary()
	return tea.Batch(m.resetListCmd(f), m.savePrefsCmd())
}

func (m Model) resetListCmd(f query.Filter) tea.Cmd {
	if m.launches == nil {
		return nil
	}
	launches, ctx := m.launches, m.ctx
	return func() tea.Msg {
		if launches.Reset(f, nil) {
			launches.RequestNextPage(ctx)
		}
		return launchesChangedMsg{}
	}
}

func (m Model) firstPageCmd() tea.Cmd {
	if m.launches == nil {
		return nil
	}
	launches, ctx := m.launches, m.ctx
	return func() tea.Msg {
		if launches.State().Pages == 0 {
			launches.RequestNextPage(ctx)
		}
		return nil
	}
}

func (m Model) retryCmd() tea.Cmd {
	if m.launches == nil || m.list.Err == nil {
		return nil
	}
	launches, ctx := m.launches, m.ctx
	return func() tea.Msg {
		launches.Retry(ctx)
		return nil
	}
}

// visibleCmd reports the last on-screen row so the controller can fetch
// the next page once the footer scrolls into view.
func (m Model) visibleCmd() tea.Cmd {
	if m.launches == nil || !m.ready || m.currentView != ViewLaunches {
		return nil
	}
	stop := m.listWindow().Stop(m.offset, m.listRows())
	if stop < len(m.list.Items) || !m.list.HasMore || m.list.Loading || m.list.Err != nil {
		return nil
	}
	launches, ctx := m.launches, m.ctx
	return func() tea.Msg {
		launches.Visible(ctx, stop)
		return nil
	}
}

// renderLaunches renders the list pane and, when wide enough, the detail
// pane beside it.
func (m Model) renderLaunches() string {
	title := fmt.Sprintf("Launches · %s", m.filter.Summary())
	return m.renderListWithDetail(title, m.list.Items, m.cursor, m.offset, m.launchesFooter())
}

func (m Model) launchesFooter() string {
	switch {
	case m.list.Err != nil:
		return "! " + m.list.Err.Error() + " (r to retry)"
	case m.list.Loading:
		return m.spinnerText("Loading launches...")
	case m.list.HasMore:
		return "More launches below"
	}
	return ""
}

// renderListWithDetail lays out a launch list next to the detail pane.
func (m Model) renderListWithDetail(title string, items []spacex.LaunchListItem, cursor, offset int, footer string) string {
	height := m.contentHeight()

	if len(items) == 0 && footer == "" {
		styles := m.theme.Styles()
		msg := styles.MutedText.Render("No launches match this filter")
		if m.currentView == ViewFavorites {
			msg = styles.MutedText.Render("No favorites yet. Press s on a launch to star it.")
		}
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, msg)
	}

	listWidth := m.width
	showDetail := m.width >= LayoutCompactWidth || m.focusedPane == 1
	if showDetail {
		if m.width >= LayoutExtraWideWidth {
			listWidth = m.width * 35 / 100
		} else {
			listWidth = m.width * 45 / 100
		}
	}
	if m.focusedPane == 1 && m.width < LayoutCompactWidth {
		listWidth = 0
	}

	var panes []string
	if listWidth > 0 {
		listFocused := m.focusedPane == 0
		bgColor := ternary(listFocused, m.theme.FocusBg, m.theme.SurfaceAlt)
		content := m.renderLaunchRows(items, cursor, offset, footer, listWidth-2, bgColor)
		panes = append(panes, m.renderTitledBox(title, content, listWidth, height, listFocused))
	}
	if showDetail {
		detailWidth := m.width - listWidth
		detailFocused := m.focusedPane == 1
		bgColor := ternary(detailFocused, m.theme.FocusBg, m.theme.SurfaceAlt)
		content := m.renderDetailContent(detailWidth-4, bgColor)
		panes = append(panes, m.renderTitledBox("Detail", content, detailWidth, height, detailFocused))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panes...)
}

// renderLaunchRows renders the visible slice of items, two lines each,
// followed by the footer row when present.
func (m Model) renderLaunchRows(items []spacex.LaunchListItem, cursor, offset int, footer string, width int, bgColor string) string {
	rows := len(items)
	if footer != "" {
		rows++
	}
	start, end := m.listWindow().Range(offset, rows)

	var lines []string
	for i := start; i < end; i++ {
		selected := i == cursor
		rowBg := ternary(selected, m.theme.SelectionBg, bgColor)
		bg := NewBgStyle(rowBg)

		if i >= len(items) {
			styles := m.theme.Styles()
			style := styles.MutedText
			if m.list.Err != nil && m.currentView == ViewLaunches {
				style = styles.DangerText
			}
			lines = append(lines, bg.FillLine(bg.Render(truncate(footer, width-2), style), width), bg.FillLine("", width))
			continue
		}
		first, second := m.formatLaunchRow(items[i], width, rowBg, selected)
		lines = append(lines, bg.FillLine(first, width), bg.FillLine(second, width))
	}
	return strings.Join(lines, "\n")
}

// formatLaunchRow renders a launch as a title line and a date/outcome
// line. Selected rows use SelectionText throughout for contrast.
func (m Model) formatLaunchRow(item spacex.LaunchListItem, width int, bgColor string, selected bool) (string, string) {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	star := "  "
	starStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Star))
	if m.favSet.Has(item.ID) {
		star = "★ "
	}

	titleStyle := styles.Text.Bold(true)
	metaStyle := styles.MutedText
	outcomeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.OutcomeColor(item.Outcome())))
	if selected {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		titleStyle = sel.Bold(true)
		metaStyle = sel
		outcomeStyle = sel
	}

	first := bg.Render(star, starStyle) + bg.Render(truncate(item.Name, width-4), titleStyle)

	date := item.Date()
	when := formatDate(item.DateUTC, date)
	if rel := relativeDate(date, m.now()); rel != "" {
		when += " (" + rel + ")"
	}
	outcome := item.Outcome()
	whenWidth := max(width-len(outcome)-7, 8)
	second := bg.Spaces(2) + bg.Render(truncate(when, whenWidth), metaStyle) +
		bg.Render(" · ", styles.FaintText) + bg.Render(outcome, outcomeStyle)
	return first, second
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐. Focused boxes use BorderFocus and FocusBg.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr := ternary(focused, m.theme.BorderFocus, m.theme.Border)
	bgColorStr := ternary(focused, m.theme.FocusBg, m.theme.SurfaceAlt)
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 1))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColorStr))
	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	lines := make([]string, 0, boxHeight)
	for i := range boxHeight {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(lines, "\n") + "\n" + bottomBorder
}
