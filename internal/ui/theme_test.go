package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestOutcomeColor(t *testing.T) {
	th := GetTheme("Nightfox")
	tests := []struct {
		label string
		want  string
	}{
		{" Success ", th.Outcomes.Success},
		{"FAILURE", th.Outcomes.Failure},
		{"Upcoming", th.Outcomes.Upcoming},
		{"TBD", th.Outcomes.Upcoming},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, th.OutcomeColor(tt.label), tt.label)
	}

	th.Outcomes.Upcoming = ""
	assert.Equal(t, th.Muted, th.OutcomeColor("TBD"), "empty palette entry falls back to muted")
}

func TestThemeCycle(t *testing.T) {
	assert.Equal(t, []string{"Nightfox", "Kanagawa", "Slate"}, ThemeNames())

	names := ThemeNames()
	names[0] = "mutated"
	assert.Equal(t, "Nightfox", ThemeNames()[0], "ThemeNames must return a copy")

	assert.Equal(t, "Kanagawa", NextTheme("Nightfox"))
	assert.Equal(t, "Nightfox", NextTheme("Slate"))
	assert.Equal(t, "Nightfox", NextTheme("Unknown"))
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		assert.Equal(t, name, th.Name)
		assert.NotEmpty(t, th.Outcomes.Upcoming, name)
		assert.NotEmpty(t, th.Outcomes.Success, name)
		assert.NotEmpty(t, th.Outcomes.Failure, name)
		assert.NotEmpty(t, th.Star, name)
	}
	assert.Equal(t, "Nightfox", GetTheme("Unknown").Name)
}

func TestWithBackgroundKeepsOutcomePalette(t *testing.T) {
	th := GetTheme("Slate")
	styles := th.Styles().WithBackground(th.SurfaceAlt)
	assert.Equal(t, th.Outcomes, styles.outcomes)
	assert.Equal(t, lipgloss.Color(th.SurfaceAlt), styles.MutedText.GetBackground())
}
