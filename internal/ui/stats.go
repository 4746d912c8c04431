package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/liftoff/internal/stats"
)

type statsState struct {
	token   uint64
	loading bool
	loaded  bool
	years   []stats.Year
	err     error
}

// loadStatsCmd fetches the launch history and aggregates it off the UI
// goroutine.
func (m *Model) loadStatsCmd() tea.Cmd {
	if m.api == nil {
		return nil
	}
	m.stats.token++
	m.stats.loading = true
	token, api, ctx := m.stats.token, m.api, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		history, err := api.LaunchHistory(ctx)
		if err != nil {
			return statsMsg{token: token, err: err}
		}
		return statsMsg{token: token, years: stats.ByYear(history)}
	}
}

func (m *Model) applyStats(msg statsMsg) {
	if msg.token != m.stats.token {
		return
	}
	m.stats.loading = false
	m.stats.err = msg.err
	if msg.err == nil {
		m.stats.years = msg.years
		m.stats.loaded = true
	}
}

func (m Model) handleStatsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Retry) && !m.stats.loading {
		cmd := m.loadStatsCmd()
		return m, cmd
	}
	return m, nil
}

// renderStats draws launches per year as horizontal bars: successes in
// the success color, the rest muted.
func (m Model) renderStats() string {
	height := m.contentHeight()
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)
	inner := m.width - 4

	var lines []string
	switch {
	case m.stats.err != nil:
		lines = append(lines, bg.Render(truncate("! "+m.stats.err.Error()+" (r to retry)", inner), styles.DangerText))
	case m.stats.loading && !m.stats.loaded:
		lines = append(lines, bg.Render(m.spinnerText("Loading launch history..."), styles.MutedText))
	case len(m.stats.years) == 0:
		lines = append(lines, bg.Render("No launch history", styles.MutedText))
	}

	if len(m.stats.years) > 0 {
		total := stats.Totals(m.stats.years)
		lines = append(lines,
			bg.Render(fmt.Sprintf("%s · %d%% success", countLabel(total.Launches, "launch", "launches"), total.Rate), styles.Text.Bold(true)),
			"",
		)

		peak := stats.MaxLaunches(m.stats.years)
		barWidth := max(inner-24, 10)
		okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Outcomes.Success))
		restStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Faint))
		for _, y := range m.stats.years {
			full := y.Launches * barWidth / max(peak, 1)
			ok := y.Successes * barWidth / max(peak, 1)
			bar := bg.Render(strings.Repeat("█", ok), okStyle) + bg.Render(strings.Repeat("░", max(full-ok, 0)), restStyle)
			line := bg.Render(fmt.Sprintf("%d ", y.Year), styles.MutedText) +
				bar + bg.Spaces(barWidth-full+1) +
				bg.Render(fmt.Sprintf("%3d", y.Launches), styles.Text) +
				bg.Render(fmt.Sprintf("  %3d%%", y.Rate), styles.AccentText)
			lines = append(lines, line)
		}
	}

	return m.renderTitledBox("Launches per year", strings.Join(lines, "\n"), m.width, height, true)
}
