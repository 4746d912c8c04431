// Package stats aggregates launch history into per-year figures.
package stats

import (
	"math"
	"slices"

	"github.com/five82/liftoff/internal/spacex"
)

// Year holds the launch figures for one calendar year (UTC).
type Year struct {
	Year      int
	Launches  int
	Successes int
	// Rate is the success percentage rounded to the nearest integer.
	Rate int
}

// ByYear groups history by the UTC year of each launch date, oldest year
// first. Launches without a parseable date are skipped. Only launches with
// a recorded success count toward Successes; upcoming and failed ones still
// count toward Launches.
func ByYear(history []spacex.LaunchSummary) []Year {
	byYear := map[int]*Year{}
	for _, launch := range history {
		date := launch.Date()
		if date.IsZero() {
			continue
		}
		y := date.UTC().Year()
		entry, ok := byYear[y]
		if !ok {
			entry = &Year{Year: y}
			byYear[y] = entry
		}
		entry.Launches++
		if launch.Success != nil && *launch.Success {
			entry.Successes++
		}
	}

	out := make([]Year, 0, len(byYear))
	for _, entry := range byYear {
		entry.Rate = int(math.Round(float64(entry.Successes) / float64(entry.Launches) * 100))
		out = append(out, *entry)
	}
	slices.SortFunc(out, func(a, b Year) int { return a.Year - b.Year })
	return out
}

// Totals sums every year.
func Totals(years []Year) Year {
	var total Year
	for _, y := range years {
		total.Launches += y.Launches
		total.Successes += y.Successes
	}
	if total.Launches > 0 {
		total.Rate = int(math.Round(float64(total.Successes) / float64(total.Launches) * 100))
	}
	return total
}

// MaxLaunches returns the busiest year's launch count, for scaling charts.
func MaxLaunches(years []Year) int {
	peak := 0
	for _, y := range years {
		peak = max(peak, y.Launches)
	}
	return peak
}
