package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/five82/liftoff/internal/favorites"
	"github.com/five82/liftoff/internal/spacex"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// printTable writes rows under headers with a rounded border.
func printTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// launchRows renders launches as table rows; favorites get a star.
func launchRows(items []spacex.LaunchListItem, favs *favorites.Set) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		star := ""
		if favs.Has(item.ID) {
			star = "★"
		}
		rows = append(rows, []string{star, item.Name, formatDate(item.DateUTC, item.Date()), item.Outcome(), item.ID})
	}
	return rows
}

var launchHeaders = []string{"", "Name", "Date (UTC)", "Outcome", "ID"}

func formatDate(raw string, t time.Time) string {
	if t.IsZero() {
		if raw == "" {
			return "unknown"
		}
		return raw
	}
	return t.UTC().Format("2006-01-02 15:04")
}

func countLabel(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return humanize.Comma(int64(n)) + " " + plural
}
