package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/five82/liftoff/internal/spacex"
)

// detailState tracks the launch shown in the detail pane. Every selection
// takes a new token; answers carrying an older token are ignored.
type detailState struct {
	token   uint64
	id      string
	loading bool
	launch  *spacex.Launch
	rocket  *spacex.Rocket
	pad     *spacex.Launchpad
	err     error
}

type detailMsg struct {
	token  uint64
	id     string
	launch *spacex.Launch
	rocket *spacex.Rocket
	pad    *spacex.Launchpad
	err    error
}

var errLaunchNotFound = errors.New("launch not found")

// selectDetailCmd starts loading the launch under the cursor when it
// differs from the one already shown.
func (m *Model) selectDetailCmd() tea.Cmd {
	launch, ok := m.selectedLaunch()
	if !ok || launch.ID == m.detail.id || m.api == nil {
		return nil
	}
	m.detail.token++
	m.detail.id = launch.ID
	m.detail.loading = true
	m.detail.err = nil
	return loadDetailCmd(m.ctx, m.api, m.detail.token, launch.ID)
}

func loadDetailCmd(ctx context.Context, api spacex.Fetcher, token uint64, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()

		msg := detailMsg{token: token, id: id}
		launch, err := api.GetLaunch(ctx, id)
		if err != nil {
			msg.err = err
			return msg
		}
		if launch == nil {
			msg.err = errLaunchNotFound
			return msg
		}
		msg.launch = launch

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			rocket, err := api.GetRocket(gctx, launch.Rocket)
			msg.rocket = rocket
			return err
		})
		g.Go(func() error {
			pad, err := api.GetLaunchpad(gctx, launch.Launchpad)
			msg.pad = pad
			return err
		})
		msg.err = g.Wait()
		return msg
	}
}

// applyDetail stores a loaded detail unless the selection moved on.
func (m *Model) applyDetail(msg detailMsg) {
	if msg.token != m.detail.token {
		m.logger.Debug("dropping stale detail", "id", msg.id)
		return
	}
	m.detail.loading = false
	m.detail.err = msg.err
	if msg.launch != nil {
		m.detail.launch = msg.launch
		m.detail.rocket = msg.rocket
		m.detail.pad = msg.pad
	}
}

// renderDetailContent renders the detail pane body.
func (m Model) renderDetailContent(width int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	d := m.detail
	if d.id == "" {
		return bg.Render("Select a launch", styles.MutedText)
	}
	if d.err != nil && (d.launch == nil || d.launch.ID != d.id) {
		return bg.Render(truncate("! "+d.err.Error(), width), styles.DangerText)
	}
	if d.launch == nil || d.launch.ID != d.id {
		return bg.Render(m.spinnerText("Loading launch..."), styles.MutedText)
	}

	l := d.launch
	var lines []string
	add := func(label, value string, style lipgloss.Style) {
		if strings.TrimSpace(value) == "" {
			return
		}
		lines = append(lines, bg.Field(label, value, width, styles.FaintText, style))
	}

	title := l.Name
	if m.favSet.Has(l.ID) {
		title = "★ " + title
	}
	lines = append(lines, bg.Render(truncate(title, width), styles.Text.Bold(true)), "")

	date := l.Date()
	add("Date", formatDate(l.DateUTC, date), styles.Text)
	add("", relativeDate(date, m.now()), styles.MutedText)
	lines = append(lines, bg.Render(padRight("Outcome", fieldLabelWidth), styles.FaintText)+styles.OutcomeBadge(l.Outcome()).Render(l.Outcome()))
	add("ID", l.ID, styles.MutedText)

	if r := d.rocket; r != nil {
		lines = append(lines, "")
		add("Rocket", r.Name, styles.AccentText)
		if r.SuccessRatePct > 0 {
			add("", fmt.Sprintf("%.0f%% success rate", r.SuccessRatePct), styles.MutedText)
		}
		if r.CostPerLaunch > 0 {
			add("", "$"+humanize.Comma(r.CostPerLaunch)+" per launch", styles.MutedText)
		}
	}
	if p := d.pad; p != nil {
		add("Launchpad", ternary(p.FullName != "", p.FullName, p.Name), styles.AccentText)
		add("", strings.Trim(p.Locality+", "+p.Region, ", "), styles.MutedText)
	}

	if strings.TrimSpace(l.Details) != "" {
		lines = append(lines, "")
		wrapped := lipgloss.NewStyle().Width(width).Render(strings.TrimSpace(l.Details))
		for _, line := range strings.Split(wrapped, "\n") {
			lines = append(lines, bg.Render(line, styles.Text))
		}
	}

	links := []struct{ label, url string }{
		{"Webcast", l.Links.Webcast},
		{"Article", l.Links.Article},
		{"Wikipedia", l.Links.Wikipedia},
	}
	first := true
	for _, link := range links {
		if link.url == "" {
			continue
		}
		if first {
			lines = append(lines, "")
			first = false
		}
		add(link.label, link.url, styles.InfoText)
	}

	if photos := l.Links.Flickr.Original; len(photos) > 0 {
		lines = append(lines, "", bg.Render(countLabel(len(photos), "photo", "photos"), styles.FaintText))
		for _, url := range photos {
			lines = append(lines, bg.Render(truncate(spacex.SizedFlickr(url, "z"), width), styles.InfoText))
		}
	}

	if d.err != nil {
		lines = append(lines, "", bg.Render(truncate("! "+d.err.Error(), width), styles.DangerText))
	}
	return strings.Join(lines, "\n")
}
