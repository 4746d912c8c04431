package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// OutcomePalette colours the three launch outcomes.
type OutcomePalette struct {
	Upcoming string
	Success  string
	Failure  string
}

// For maps an outcome label ("Success", "Failure", anything else) to its
// colour. Labels are matched case-insensitively.
func (p OutcomePalette) For(outcome string) string {
	switch strings.ToLower(strings.TrimSpace(outcome)) {
	case "success":
		return p.Success
	case "failure":
		return p.Failure
	default:
		return p.Upcoming
	}
}

// Theme is a named set of colours. Every value is a hex string that
// lipgloss.Color accepts.
type Theme struct {
	Name string

	Background string
	Surface    string
	SurfaceAlt string
	FocusBg    string

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Warning string
	Danger  string
	Info    string

	// Star marks favorite launches.
	Star string

	Outcomes OutcomePalette
}

// OutcomeColor returns the foreground colour for a launch outcome label.
func (t Theme) OutcomeColor(outcome string) string {
	if c := t.Outcomes.For(outcome); c != "" {
		return c
	}
	return t.Muted
}

// Styles holds the lipgloss styles derived from a Theme.
type Styles struct {
	Surface    lipgloss.Style
	SurfaceAlt lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header lipgloss.Style
	Logo   lipgloss.Style

	outcomes OutcomePalette
	badgeFg  string
	muted    string
}

// Styles builds the style set for t.
func (t Theme) Styles() Styles {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	panel := func(bg string) lipgloss.Style {
		return fg(t.Text).Background(lipgloss.Color(bg))
	}

	return Styles{
		Surface:    panel(t.Surface),
		SurfaceAlt: panel(t.SurfaceAlt),

		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header: panel(t.Surface).Padding(0, 1),
		Logo:   fg(t.Warning).Bold(true),

		outcomes: t.Outcomes,
		badgeFg:  t.Background,
		muted:    t.Muted,
	}
}

// OutcomeBadge returns a filled badge style for the given outcome.
func (s Styles) OutcomeBadge(outcome string) lipgloss.Style {
	color := s.outcomes.For(outcome)
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.badgeFg)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// WithBackground returns a copy of s in which every style paints bg
// explicitly. Text rendered inside a coloured panel otherwise resets the
// background to the terminal default after each span.
func (s Styles) WithBackground(bg string) Styles {
	c := lipgloss.Color(bg)
	for _, st := range []*lipgloss.Style{
		&s.Surface, &s.SurfaceAlt,
		&s.Text, &s.MutedText, &s.FaintText, &s.AccentText,
		&s.WarningText, &s.DangerText, &s.InfoText,
		&s.Header, &s.Logo,
	} {
		*st = st.Background(c)
	}
	return s
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

var themes = map[string]Theme{
	// https://github.com/EdenEast/nightfox.nvim
	"Nightfox": {
		Name:          "Nightfox",
		Background:    "#131a24",
		Surface:       "#192330",
		SurfaceAlt:    "#212e3f",
		FocusBg:       "#29394f",
		SelectionBg:   "#2b3b51",
		SelectionText: "#cdcecf",
		Border:        "#39506d",
		BorderFocus:   "#719cd6",
		Text:          "#cdcecf",
		Muted:         "#738091",
		Faint:         "#71839b",
		Accent:        "#719cd6",
		Warning:       "#dbc074",
		Danger:        "#c94f6d",
		Info:          "#63cdcf",
		Star:          "#dbc074",
		Outcomes:      OutcomePalette{Upcoming: "#719cd6", Success: "#81b29a", Failure: "#c94f6d"},
	},
	// https://github.com/rebelot/kanagawa.nvim
	"Kanagawa": {
		Name:          "Kanagawa",
		Background:    "#16161D",
		Surface:       "#1F1F28",
		SurfaceAlt:    "#2A2A37",
		FocusBg:       "#2A2A37",
		SelectionBg:   "#2D4F67",
		SelectionText: "#DCD7BA",
		Border:        "#54546D",
		BorderFocus:   "#7E9CD8",
		Text:          "#DCD7BA",
		Muted:         "#C8C093",
		Faint:         "#727169",
		Accent:        "#7E9CD8",
		Warning:       "#E6C384",
		Danger:        "#E46876",
		Info:          "#7FB4CA",
		Star:          "#E6C384",
		Outcomes:      OutcomePalette{Upcoming: "#7E9CD8", Success: "#98BB6C", Failure: "#E46876"},
	},
	// Tailwind slate and sky.
	"Slate": {
		Name:          "Slate",
		Background:    "#020617",
		Surface:       "#0f172a",
		SurfaceAlt:    "#1e293b",
		FocusBg:       "#283548",
		SelectionBg:   "#0284c7",
		SelectionText: "#f8fafc",
		Border:        "#334155",
		BorderFocus:   "#38bdf8",
		Text:          "#f1f5f9",
		Muted:         "#94a3b8",
		Faint:         "#64748b",
		Accent:        "#38bdf8",
		Warning:       "#f59e0b",
		Danger:        "#ef4444",
		Info:          "#06b6d4",
		Star:          "#f59e0b",
		Outcomes:      OutcomePalette{Upcoming: "#38bdf8", Success: "#22c55e", Failure: "#ef4444"},
	},
}

// GetTheme returns the named theme, or the first theme when name is unknown.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[themeOrder[0]]
}

// NextTheme returns the theme after current in cycle order.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames lists the available themes in cycle order.
func ThemeNames() []string {
	return append([]string(nil), themeOrder...)
}
