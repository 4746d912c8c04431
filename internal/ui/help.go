package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const helpKeyWidth = 12

// renderHelp draws the key bindings as a centered two-column modal.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning)).Width(helpKeyWidth)

	groups := m.keys.helpGroups()
	half := (len(groups) + 1) / 2
	column := func(gs []helpGroup) string {
		blocks := make([]string, 0, len(gs))
		for _, g := range gs {
			lines := []string{styles.AccentText.Bold(true).Render(g.title)}
			for _, b := range g.bindings {
				h := b.Help()
				lines = append(lines, keyStyle.Render(h.Key)+styles.Text.Render(h.Desc))
			}
			blocks = append(blocks, strings.Join(lines, "\n"))
		}
		return lipgloss.NewStyle().Width(34).Render(strings.Join(blocks, "\n\n"))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.Text.Bold(true).Render("Keyboard Shortcuts"),
		styles.FaintText.Render(strings.Repeat("─", 30)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, column(groups[:half]), "  ", column(groups[half:])),
	)

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		modal.Render(body),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
