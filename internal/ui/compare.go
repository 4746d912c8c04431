package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/liftoff/internal/compare"
	"github.com/five82/liftoff/internal/spacex"
)

// compareForm holds the two launch id inputs. focused is -1 when neither
// input has focus.
type compareForm struct {
	inputs  [2]textinput.Model
	focused int
}

func newCompareForm() compareForm {
	var f compareForm
	for i, placeholder := range []string{"left launch id", "right launch id"} {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = 64
		in.Width = 28
		f.inputs[i] = in
	}
	f.focused = -1
	return f
}

func (f compareForm) editing() bool {
	return f.focused >= 0
}

func (f *compareForm) focus(i int) {
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	f.focused = i
	if i >= 0 && i < len(f.inputs) {
		f.inputs[i].Focus()
	}
}

func (f compareForm) values() (string, string) {
	return strings.TrimSpace(f.inputs[0].Value()), strings.TrimSpace(f.inputs[1].Value())
}

// addToCompare fills the next empty side with launch. Filling the second
// side submits the pair.
func (m *Model) addToCompare(launch spacex.LaunchListItem) tea.Cmd {
	left, right := m.compareForm.values()
	switch {
	case left == "" || (left != "" && right != ""):
		m.compareForm.inputs[0].SetValue(launch.ID)
		m.compareForm.inputs[1].SetValue("")
		m.status = "compare: " + truncate(launch.Name, 24) + " vs ? (press c on another launch)"
		return nil
	default:
		m.compareForm.inputs[1].SetValue(launch.ID)
		m.status = ""
		m.currentView = ViewCompare
		m.compareForm.focus(-1)
		return m.submitCompareCmd()
	}
}

func (m Model) submitCompareCmd() tea.Cmd {
	if m.compare == nil {
		return nil
	}
	left, right := m.compareForm.values()
	loader, ctx := m.compare, m.ctx
	return func() tea.Msg {
		if !loader.Submit(ctx, left, right) {
			return statusMsg("compare needs two launch ids")
		}
		return compareChangedMsg{}
	}
}

func (m Model) clearCompareCmd() tea.Cmd {
	if m.compare == nil {
		return nil
	}
	loader := m.compare
	return func() tea.Msg {
		loader.Clear()
		return compareChangedMsg{}
	}
}

// handleCompareKey processes keyboard input for the compare view.
func (m Model) handleCompareKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ClearCompare) {
		m.compareForm.inputs[0].SetValue("")
		m.compareForm.inputs[1].SetValue("")
		return m, m.clearCompareCmd()
	}

	if !m.compareForm.editing() {
		switch {
		case key.Matches(msg, m.keys.Open), msg.String() == "i":
			m.compareForm.focus(0)
		case key.Matches(msg, m.keys.Retry):
			return m, m.submitCompareCmd()
		}
		return m, nil
	}

	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape):
		m.compareForm.focus(-1)
		return m, nil
	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
		m.compareForm.focus(1 - m.compareForm.focused)
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		left, right := m.compareForm.values()
		if left == "" || right == "" {
			m.compareForm.focus(ternaryInt(left == "", 0, 1))
			return m, nil
		}
		m.compareForm.focus(-1)
		return m, m.submitCompareCmd()
	}

	var cmd tea.Cmd
	i := m.compareForm.focused
	m.compareForm.inputs[i], cmd = m.compareForm.inputs[i].Update(msg)
	return m, cmd
}

// renderCompare renders the inputs and the two sides.
func (m Model) renderCompare() string {
	height := m.contentHeight()
	styles := m.theme.Styles()

	var b strings.Builder
	for i, label := range []string{"Left:  ", "Right: "} {
		labelStyle := ternaryStyle(m.compareForm.focused == i, styles.AccentText, styles.MutedText)
		b.WriteString(labelStyle.Render(label))
		b.WriteString(m.compareForm.inputs[i].View())
		b.WriteString("\n")
	}
	hint := "i/enter: edit  •  tab: switch  •  enter: compare  •  ctrl+x: clear"
	b.WriteString(styles.FaintText.Render(hint))
	b.WriteString("\n")

	s := m.compareState
	switch {
	case s.Loading:
		b.WriteString(styles.MutedText.Render(m.spinnerText("Comparing " + s.Left + " and " + s.Right + "...")))
	case s.Err != nil:
		b.WriteString(styles.DangerText.Render(truncate("! "+s.Err.Error(), m.width-2)))
	case !s.Active:
		b.WriteString(styles.MutedText.Render("Enter two launch ids, or press c on launches in the list."))
	}
	header := b.String()
	headerHeight := lipgloss.Height(header)

	if s.Result == nil {
		return lipgloss.NewStyle().Height(height).Render(header)
	}

	boxHeight := max(height-headerHeight, 6)
	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth
	left := m.renderTitledBox(s.Result.Left.Name, m.renderCompareSide(s.Result.Left, s.Result.Right, leftWidth-4), leftWidth, boxHeight, false)
	right := m.renderTitledBox(s.Result.Right.Name, m.renderCompareSide(s.Result.Right, s.Result.Left, rightWidth-4), rightWidth, boxHeight, false)
	return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// renderCompareSide renders one side; fields that differ from other are
// highlighted.
func (m Model) renderCompareSide(side, other compare.Side, width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	rows := []struct{ label, value, otherValue string }{
		{"Date", formatDate(side.DateUTC, side.Date()), formatDate(other.DateUTC, other.Date())},
		{"Outcome", side.Outcome(), other.Outcome()},
		{"Rocket", side.RocketName, other.RocketName},
		{"Launchpad", side.PadName, other.PadName},
		{"Webcast", side.Webcast, other.Webcast},
		{"Article", side.Article, other.Article},
		{"Wikipedia", side.Wikipedia, other.Wikipedia},
	}
	lines := []string{bg.Render(truncate(side.LaunchID, width), styles.FaintText), ""}
	for _, row := range rows {
		value := row.value
		if value == "" {
			value = "-"
		}
		style := styles.Text
		switch {
		case row.label == "Outcome":
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.OutcomeColor(value))).Bold(true)
		case row.value != row.otherValue:
			style = styles.AccentText
		}
		lines = append(lines, bg.Field(row.label, value, width, styles.FaintText, style))
	}
	return strings.Join(lines, "\n")
}

func ternaryInt(cond bool, a, b int) int {
	if cond {
		return a
	}
	return b
}

func ternaryStyle(cond bool, a, b lipgloss.Style) lipgloss.Style {
	if cond {
		return a
	}
	return b
}
