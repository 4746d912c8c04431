package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// fieldLabelWidth is the label column of detail and compare rows.
const fieldLabelWidth = 11

// BgStyle paints text on a fixed background colour.
//
// lipgloss ends every rendered span with a full reset, so a space between
// two spans shows the terminal background. BgStyle renders words and the
// gaps between them separately, each with the panel colour set.
type BgStyle struct {
	bg   lipgloss.Color
	fill lipgloss.Style
}

// NewBgStyle creates a background helper for bgColor.
func NewBgStyle(bgColor string) BgStyle {
	bg := lipgloss.Color(bgColor)
	return BgStyle{bg: bg, fill: lipgloss.NewStyle().Background(bg)}
}

// Render styles text with style on the background, spaces included.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	style = style.Background(b.bg)
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = style.Render(w)
		}
	}
	return strings.Join(words, b.Space())
}

// Field renders a fixed-width label followed by value, truncated so the
// whole row fits in width.
func (b BgStyle) Field(label, value string, width int, labelStyle, valueStyle lipgloss.Style) string {
	return b.Render(padRight(label, fieldLabelWidth), labelStyle) +
		b.Render(truncate(value, width-fieldLabelWidth), valueStyle)
}

// Space returns a single styled space.
func (b BgStyle) Space() string {
	return b.fill.Render(" ")
}

// Spaces returns n styled spaces.
func (b BgStyle) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return b.fill.Render(strings.Repeat(" ", n))
}

// Join joins parts with sep painted on the background.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, b.fill.Render(sep))
}

// FillLine pads rendered content to width with the background colour.
func (b BgStyle) FillLine(content string, width int) string {
	return b.fill.Width(width).Render(content)
}
