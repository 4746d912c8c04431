package stats

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/five82/liftoff/internal/spacex"
)

func boolPtr(v bool) *bool { return &v }

func TestByYear(t *testing.T) {
	history := []spacex.LaunchSummary{
		{DateUTC: "2008-09-28T23:15:00.000Z", Success: boolPtr(true)},
		{DateUTC: "2006-03-24T22:30:00.000Z", Success: boolPtr(false)},
		{DateUTC: "2008-08-03T03:34:00.000Z", Success: boolPtr(false)},
		{DateUTC: "2008-12-31T23:30:00-02:00", Success: boolPtr(true)}, // 2009 in UTC
		{DateUTC: "2008-01-01T00:00:00.000Z", Success: nil},
		{DateUTC: "", Success: boolPtr(true)},
	}
	want := []Year{
		{Year: 2006, Launches: 1, Successes: 0, Rate: 0},
		{Year: 2008, Launches: 3, Successes: 1, Rate: 33},
		{Year: 2009, Launches: 1, Successes: 1, Rate: 100},
	}
	if diff := cmp.Diff(want, ByYear(history)); diff != "" {
		t.Fatalf("ByYear mismatch (-want +got):\n%s", diff)
	}
}

func TestByYear_RoundsHalfUp(t *testing.T) {
	history := []spacex.LaunchSummary{
		{DateUTC: "2010-06-04T18:45:00.000Z", Success: boolPtr(true)},
		{DateUTC: "2010-12-08T15:43:00.000Z", Success: boolPtr(false)},
		{DateUTC: "2010-12-09T15:43:00.000Z", Success: boolPtr(true)},
		{DateUTC: "2010-12-10T15:43:00.000Z", Success: boolPtr(true)},
		{DateUTC: "2010-12-11T15:43:00.000Z", Success: boolPtr(false)},
		{DateUTC: "2010-12-12T15:43:00.000Z", Success: boolPtr(true)},
		{DateUTC: "2010-12-13T15:43:00.000Z", Success: boolPtr(true)},
		{DateUTC: "2010-12-14T15:43:00.000Z", Success: boolPtr(false)},
	}
	got := ByYear(history)
	if len(got) != 1 || got[0].Rate != 63 {
		t.Fatalf("ByYear = %#v, want 5/8 rounded to 63", got)
	}
}

func TestByYear_Empty(t *testing.T) {
	if got := ByYear(nil); len(got) != 0 {
		t.Fatalf("ByYear(nil) = %#v, want empty", got)
	}
}

func TestTotalsAndMax(t *testing.T) {
	years := []Year{
		{Year: 2020, Launches: 26, Successes: 26},
		{Year: 2021, Launches: 31, Successes: 30},
	}
	total := Totals(years)
	if total.Launches != 57 || total.Successes != 56 || total.Rate != 98 {
		t.Fatalf("Totals = %#v", total)
	}
	if MaxLaunches(years) != 31 {
		t.Fatalf("MaxLaunches = %d, want 31", MaxLaunches(years))
	}
	if Totals(nil).Rate != 0 {
		t.Fatalf("Totals(nil) rate should be 0")
	}
}
