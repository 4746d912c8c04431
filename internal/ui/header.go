package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	content := m.buildStatusContent(styles, bg)

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		MaxHeight(1).
		Render(content)
}

// buildStatusContent builds the status bar content string.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < LayoutCompactWidth
	sep := bg.Spaces(2)

	var parts []string

	parts = append(parts, bg.Render("liftoff", styles.Logo))

	// View tabs
	tabs := make([]string, 0, len(viewOrder))
	for i, v := range viewOrder {
		label := fmt.Sprintf("%d %s", i+1, v)
		if compact {
			label = fmt.Sprintf("%d", i+1)
		}
		style := styles.MutedText
		if v == m.currentView {
			style = styles.AccentText.Bold(true)
			if compact {
				label = fmt.Sprintf("%d %s", i+1, v)
			}
		}
		tabs = append(tabs, bg.Render(label, style))
	}
	parts = append(parts, strings.Join(tabs, bg.Render(" · ", styles.FaintText)))

	// Launch count
	loaded := fmt.Sprintf("%d", len(m.list.Items))
	if m.list.HasMore {
		loaded += "+"
	}
	parts = append(parts,
		bg.Render("Loaded:", styles.MutedText)+bg.Space()+
			bg.Render(loaded, styles.Text),
	)

	// Favorites count
	starStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Star))
	favCount := "…"
	if m.favs == nil || m.favs.Loaded() {
		favCount = fmt.Sprintf("%d", m.favSet.Len())
	}
	parts = append(parts, bg.Render("★", starStyle)+bg.Space()+bg.Render(favCount, styles.Text))

	if timeStr := m.formatTimestamp(); timeStr != "" {
		parts = append(parts, bg.Render(timeStr, styles.MutedText))
	}

	// Favorites listing health
	if m.snapshot.IsOffline() {
		parts = append(parts, bg.Render("OFFLINE", styles.DangerText.Bold(true)))
	} else if m.snapshot.LastError != nil {
		maxErr := ternaryInt(compact, 40, 80)
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(m.snapshot.LastError.Error(), maxErr), styles.DangerText),
		)
	}

	// Transient status from the last action
	if m.status != "" {
		parts = append(parts,
			bg.Render("!", styles.WarningText.Bold(true))+bg.Space()+
				bg.Render(truncate(m.status, ternaryInt(compact, 40, 80)), styles.WarningText),
		)
	}

	return bg.Join(parts, sep)
}

// formatTimestamp formats the last favorites refresh with a relative
// indicator.
func (m Model) formatTimestamp() string {
	last := m.snapshot.LastUpdated
	if last.IsZero() {
		return ""
	}

	timeSince := m.now().Sub(last)
	timeStr := last.Format("15:04:05")

	switch {
	case timeSince < time.Minute:
		timeStr += " (now)"
	case timeSince < time.Hour:
		timeStr += fmt.Sprintf(" (%dm ago)", int(timeSince.Minutes()))
	case timeSince < 24*time.Hour:
		timeStr += fmt.Sprintf(" (%dh ago)", int(timeSince.Hours()))
	}

	return timeStr
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewFavorites:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Detail"},
			{"s", "Unstar"},
			{"c", "Compare"},
			{"1", "Launches"},
			{"Tab", "Views"},
			{"?", "More"},
		}
	case ViewCompare:
		commands = []cmd{
			{"i", "Edit"},
			{"enter", "Compare"},
			{"r", "Reload"},
			{"ctrl+x", "Clear"},
			{"Tab", "Views"},
			{"?", "More"},
		}
	case ViewStats:
		commands = []cmd{
			{"r", "Reload"},
			{"Tab", "Views"},
			{"?", "More"},
		}
	default: // ViewLaunches
		filterLabel := "Filter"
		if !m.filter.IsDefault() {
			filterLabel = "Filter*"
		}
		commands = []cmd{
			{"f", filterLabel},
			{"F", "Reset"},
			{"s", "Star"},
			{"c", "Compare"},
			{"j/k", "Navigate"},
			{"enter", "Detail"},
			{"Tab", "Views"},
			{"?", "More"},
		}
	}

	colon := bg.Render(":", styles.FaintText)
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Add theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxHeight(1).Render(strings.Join(segments, sep))
}
