package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/liftoff/internal/query"
)

var (
	statusChoices  = []query.Status{query.StatusAll, query.StatusUpcoming, query.StatusPast}
	outcomeChoices = []query.Outcome{query.OutcomeAll, query.OutcomeSuccess, query.OutcomeFailure}
	sortChoices    = []query.Sort{query.SortDateDesc, query.SortDateAsc, query.SortNameAsc, query.SortNameDesc}
)

// Form rows: three choice rows cycled with left/right, then three text
// inputs.
const (
	fieldStatus = iota
	fieldOutcome
	fieldSort
	fieldSearch
	fieldFrom
	fieldTo
	fieldCount
)

type filterForm struct {
	status  int
	outcome int
	sort    int
	inputs  [3]textinput.Model // search, from, to
	focused int
}

func newFilterForm() filterForm {
	var f filterForm
	for i, placeholder := range []string{"mission name", "YYYY-MM-DD", "YYYY-MM-DD"} {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = 64
		in.Width = 30
		f.inputs[i] = in
	}
	return f
}

// load copies f into the form and focuses the first row.
func (f *filterForm) load(filter query.Filter) {
	filter = filter.Normalize()
	f.status = indexOf(statusChoices, filter.Status)
	f.outcome = indexOf(outcomeChoices, filter.Outcome)
	f.sort = indexOf(sortChoices, filter.Sort)
	f.inputs[0].SetValue(filter.Search)
	f.inputs[1].SetValue(filter.From)
	f.inputs[2].SetValue(filter.To)
	f.setFocus(fieldStatus)
}

func (f *filterForm) setFocus(field int) {
	f.focused = (field + fieldCount) % fieldCount
	for i := range f.inputs {
		if i+fieldSearch == f.focused {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

// cycle moves the focused choice row by step. Text rows ignore it.
func (f *filterForm) cycle(step int) bool {
	switch f.focused {
	case fieldStatus:
		f.status = wrap(f.status+step, len(statusChoices))
	case fieldOutcome:
		f.outcome = wrap(f.outcome+step, len(outcomeChoices))
	case fieldSort:
		f.sort = wrap(f.sort+step, len(sortChoices))
	default:
		return false
	}
	return true
}

func (f *filterForm) clear() {
	f.status, f.outcome, f.sort = 0, 0, 0
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
}

func (f filterForm) filter() query.Filter {
	return query.Filter{
		Status:  statusChoices[f.status],
		Outcome: outcomeChoices[f.outcome],
		Sort:    sortChoices[f.sort],
		Search:  f.inputs[0].Value(),
		From:    f.inputs[1].Value(),
		To:      f.inputs[2].Value(),
	}.Normalize()
}

func indexOf[T comparable](choices []T, v T) int {
	for i, c := range choices {
		if c == v {
			return i
		}
	}
	return 0
}

func wrap(i, n int) int {
	return (i%n + n) % n
}

// handleFilterFormKey processes keyboard input while the filter form is
// open.
func (m Model) handleFilterFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.showForm = false
		return m, nil
	case msg.String() == "ctrl+c":
		m.form.clear()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.showForm = false
		cmd := m.applyFilter(m.form.filter())
		return m, cmd
	case key.Matches(msg, m.keys.Tab), msg.String() == "down":
		m.form.setFocus(m.form.focused + 1)
		return m, nil
	case key.Matches(msg, m.keys.ShiftTab), msg.String() == "up":
		m.form.setFocus(m.form.focused - 1)
		return m, nil
	case key.Matches(msg, m.keys.Cycle):
		if m.form.cycle(ternaryInt(msg.String() == "left", -1, 1)) {
			return m, nil
		}
	}

	if m.form.focused < fieldSearch {
		return m, nil
	}
	var cmd tea.Cmd
	i := m.form.focused - fieldSearch
	m.form.inputs[i], cmd = m.form.inputs[i].Update(msg)
	return m, cmd
}

// renderFilterForm renders the filter modal centered over the screen.
func (m Model) renderFilterForm() string {
	styles := m.theme.Styles()
	f := m.form

	labels := []string{"Status", "Outcome", "Sort", "Search", "From", "To"}
	choices := []string{
		string(statusChoices[f.status]),
		string(outcomeChoices[f.outcome]),
		strings.ReplaceAll(string(sortChoices[f.sort]), "_", " "),
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Launch Filter"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 44)))
	b.WriteString("\n\n")

	for i, label := range labels {
		focused := i == f.focused
		labelStyle := ternaryStyle(focused, styles.AccentText.Bold(true), styles.MutedText)
		marker := ternary(focused, "› ", "  ")
		b.WriteString(labelStyle.Render(marker + padRight(label+":", 10)))
		if i < fieldSearch {
			value := "‹ " + choices[i] + " ›"
			b.WriteString(ternaryStyle(focused, styles.Text.Bold(true), styles.Text).Render(value))
		} else {
			b.WriteString(f.inputs[i-fieldSearch].View())
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("share: "))
	share := f.filter().Encode()
	if share == "" {
		share = "(default)"
	}
	b.WriteString(styles.InfoText.Render(truncate(share, 40)))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("tab: next  ←/→: change  enter: apply  ctrl+c: clear  esc: cancel"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 2).
		Width(min(72, max(m.width-4, 20)))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
