package query

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/five82/liftoff/internal/spacex"
)

// Status narrows launches by whether they have happened yet.
type Status string

const (
	StatusAll      Status = "all"
	StatusUpcoming Status = "upcoming"
	StatusPast     Status = "past"
)

// Outcome narrows launches by mission result.
type Outcome string

const (
	OutcomeAll     Outcome = "all"
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Sort orders the launch listing.
type Sort string

const (
	SortDateDesc Sort = "date_desc"
	SortDateAsc  Sort = "date_asc"
	SortNameAsc  Sort = "name_asc"
	SortNameDesc Sort = "name_desc"
)

// Shareable keys. Outcome travels as "success".
const (
	KeyStatus  = "status"
	KeyOutcome = "success"
	KeySort    = "sort"
	KeySearch  = "search"
	KeyFrom    = "from"
	KeyTo      = "to"
)

// Filter is the user-facing launch filter. The zero value is the default
// filter once normalized.
type Filter struct {
	Status  Status
	Outcome Outcome
	Sort    Sort
	Search  string
	From    string
	To      string
}

// Default returns the all-default filter.
func Default() Filter {
	return Filter{Status: StatusAll, Outcome: OutcomeAll, Sort: SortDateDesc}
}

// Normalize maps unknown or empty values to their defaults, trims text and
// drops dates that are not YYYY-MM-DD or RFC 3339.
func (f Filter) Normalize() Filter {
	out := Default()
	switch Status(strings.ToLower(strings.TrimSpace(string(f.Status)))) {
	case StatusUpcoming:
		out.Status = StatusUpcoming
	case StatusPast:
		out.Status = StatusPast
	}
	switch Outcome(strings.ToLower(strings.TrimSpace(string(f.Outcome)))) {
	case OutcomeSuccess:
		out.Outcome = OutcomeSuccess
	case OutcomeFailure:
		out.Outcome = OutcomeFailure
	}
	switch s := Sort(strings.ToLower(strings.TrimSpace(string(f.Sort)))); s {
	case SortDateAsc, SortNameAsc, SortNameDesc:
		out.Sort = s
	}
	out.Search = strings.TrimSpace(f.Search)
	out.From = cleanDate(f.From)
	out.To = cleanDate(f.To)
	return out
}

// IsDefault reports whether f filters and sorts nothing.
func (f Filter) IsDefault() bool {
	return f.Normalize() == Default()
}

// Document translates f into the API filter, sort and projection.
func (f Filter) Document() spacex.LaunchQuery {
	n := f.Normalize()
	q := map[string]any{}

	switch n.Status {
	case StatusUpcoming:
		q["upcoming"] = true
	case StatusPast:
		q["upcoming"] = false
	}
	switch n.Outcome {
	case OutcomeSuccess:
		q["success"] = true
	case OutcomeFailure:
		q["success"] = false
	}
	if n.Search != "" {
		q["name"] = map[string]any{
			"$regex":   regexp.QuoteMeta(n.Search),
			"$options": "i",
		}
	}
	if n.From != "" || n.To != "" {
		bounds := map[string]any{}
		if n.From != "" {
			bounds["$gte"] = lowerBound(n.From)
		}
		if n.To != "" {
			bounds["$lte"] = upperBound(n.To)
		}
		q["date_utc"] = bounds
	}

	return spacex.LaunchQuery{
		Query:  q,
		Sort:   n.sortDocument(),
		Select: append([]string(nil), spacex.ListFields...),
	}
}

func (f Filter) sortDocument() map[string]int {
	switch f.Sort {
	case SortNameAsc:
		return map[string]int{"name": 1}
	case SortNameDesc:
		return map[string]int{"name": -1}
	case SortDateAsc:
		return map[string]int{"date_utc": 1}
	default:
		return map[string]int{"date_utc": -1}
	}
}

// Fingerprint is a stable key for the effective query. Filters that
// normalize to the same document share a fingerprint.
func (f Filter) Fingerprint() string {
	doc := f.Document()
	// Maps of strings and bools always encode; json sorts map keys.
	canonical, _ := json.Marshal(struct {
		Query map[string]any `json:"query"`
		Sort  map[string]int `json:"sort"`
	}{doc.Query, doc.Sort})
	return fmt.Sprintf("%016x", xxhash.Sum64(canonical))
}

// Values returns the shareable key/value form holding only non-default
// fields.
func (f Filter) Values() map[string]string {
	n := f.Normalize()
	out := map[string]string{}
	if n.Status != StatusAll {
		out[KeyStatus] = string(n.Status)
	}
	if n.Outcome != OutcomeAll {
		out[KeyOutcome] = string(n.Outcome)
	}
	if n.Sort != SortDateDesc {
		out[KeySort] = string(n.Sort)
	}
	if n.Search != "" {
		out[KeySearch] = n.Search
	}
	if n.From != "" {
		out[KeyFrom] = n.From
	}
	if n.To != "" {
		out[KeyTo] = n.To
	}
	return out
}

// Parse is the inverse of Values. Unknown keys are ignored and unknown
// values fall back to defaults.
func Parse(values map[string]string) Filter {
	return Filter{
		Status:  Status(values[KeyStatus]),
		Outcome: Outcome(values[KeyOutcome]),
		Sort:    Sort(values[KeySort]),
		Search:  values[KeySearch],
		From:    values[KeyFrom],
		To:      values[KeyTo],
	}.Normalize()
}

// Encode renders the shareable form as a URL query string.
func (f Filter) Encode() string {
	values := url.Values{}
	for k, v := range f.Values() {
		values.Set(k, v)
	}
	return values.Encode()
}

// ParseQuery decodes a URL query string produced by Encode. A leading "?"
// is accepted.
func ParseQuery(raw string) (Filter, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(raw), "?"))
	if err != nil {
		return Default(), fmt.Errorf("parse filter query: %w", err)
	}
	flat := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			flat[k] = v[0]
		}
	}
	return Parse(flat), nil
}

// Summary is a short human description used in headers.
func (f Filter) Summary() string {
	n := f.Normalize()
	parts := []string{}
	if n.Status != StatusAll {
		parts = append(parts, string(n.Status))
	}
	if n.Outcome != OutcomeAll {
		parts = append(parts, string(n.Outcome))
	}
	if n.Search != "" {
		parts = append(parts, fmt.Sprintf("%q", n.Search))
	}
	switch {
	case n.From != "" && n.To != "":
		parts = append(parts, n.From+".."+n.To)
	case n.From != "":
		parts = append(parts, "from "+n.From)
	case n.To != "":
		parts = append(parts, "to "+n.To)
	}
	if len(parts) == 0 {
		parts = append(parts, "all launches")
	}
	return strings.Join(parts, " · ") + " · " + strings.ReplaceAll(string(n.Sort), "_", " ")
}

// cleanDate reduces value to a YYYY-MM-DD date. Timestamps are cut to
// their UTC calendar day so every spelling of one day shares a document
// and fingerprint. Anything else is dropped.
func cleanDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t.Format(time.DateOnly)
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC().Format(time.DateOnly)
	}
	return ""
}

const apiTimeLayout = "2006-01-02T15:04:05.000Z"

// lowerBound is the first instant of a normalized date's UTC day.
func lowerBound(date string) string {
	t, _ := time.Parse(time.DateOnly, date)
	return t.Format(apiTimeLayout)
}

// upperBound is the last millisecond of a normalized date's UTC day so the
// bound is inclusive.
func upperBound(date string) string {
	t, _ := time.Parse(time.DateOnly, date)
	return t.Add(24*time.Hour - time.Millisecond).Format(apiTimeLayout)
}
