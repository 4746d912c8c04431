package spacex

import (
	"regexp"
	"time"
)

// LaunchLinks mirrors the links object on a launch document.
type LaunchLinks struct {
	Patch     PatchLinks  `json:"patch"`
	Webcast   string      `json:"webcast"`
	Wikipedia string      `json:"wikipedia"`
	Article   string      `json:"article"`
	Flickr    FlickrLinks `json:"flickr"`
}

// PatchLinks holds mission patch image URLs.
type PatchLinks struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

// FlickrLinks holds gallery image URLs.
type FlickrLinks struct {
	Original []string `json:"original"`
}

// Launch mirrors /launches/:id.
type Launch struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	DateUTC   string      `json:"date_utc"`
	Success   *bool       `json:"success"`
	Details   string      `json:"details"`
	Rocket    string      `json:"rocket"`
	Launchpad string      `json:"launchpad"`
	Links     LaunchLinks `json:"links"`
	Upcoming  bool        `json:"upcoming"`
}

// Date returns the parsed launch date.
func (l Launch) Date() time.Time {
	return parseTime(l.DateUTC)
}

// Outcome labels the launch result.
func (l Launch) Outcome() string {
	return outcomeLabel(l.Success)
}

// LaunchListItem is the projection returned by list queries.
type LaunchListItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	DateUTC   string `json:"date_utc"`
	Success   *bool  `json:"success"`
	Rocket    string `json:"rocket"`
	Launchpad string `json:"launchpad"`
	Links     struct {
		Patch struct {
			Small string `json:"small"`
		} `json:"patch"`
	} `json:"links"`
}

// Date returns the parsed launch date.
func (l LaunchListItem) Date() time.Time {
	return parseTime(l.DateUTC)
}

// Outcome labels the launch result.
func (l LaunchListItem) Outcome() string {
	return outcomeLabel(l.Success)
}

// LaunchSummary is the minimal projection used for history charts.
type LaunchSummary struct {
	DateUTC string `json:"date_utc"`
	Success *bool  `json:"success"`
}

// Date returns the parsed launch date.
func (l LaunchSummary) Date() time.Time {
	return parseTime(l.DateUTC)
}

// Rocket mirrors /rockets/:id.
type Rocket struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Active         bool    `json:"active"`
	Stages         int     `json:"stages"`
	Boosters       int     `json:"boosters"`
	CostPerLaunch  int64   `json:"cost_per_launch"`
	SuccessRatePct float64 `json:"success_rate_pct"`
	FirstFlight    string  `json:"first_flight"`
}

// Launchpad mirrors /launchpads/:id.
type Launchpad struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Region   string `json:"region"`
	Locality string `json:"locality"`
	FullName string `json:"full_name"`
}

// Paginated is the envelope returned by the query endpoints.
type Paginated[T any] struct {
	Docs          []T  `json:"docs"`
	TotalDocs     int  `json:"totalDocs"`
	Limit         int  `json:"limit"`
	TotalPages    int  `json:"totalPages"`
	Page          int  `json:"page"`
	PagingCounter int  `json:"pagingCounter"`
	HasPrevPage   bool `json:"hasPrevPage"`
	HasNextPage   bool `json:"hasNextPage"`
	PrevPage      *int `json:"prevPage"`
	NextPage      *int `json:"nextPage"`
}

// LaunchQuery is the mongo-style filter and sort document posted to
// /launches/query.
type LaunchQuery struct {
	Query  map[string]any `json:"query"`
	Sort   map[string]int `json:"sort,omitempty"`
	Select []string       `json:"select,omitempty"`
}

// ListFields is the projection used for list rows.
var ListFields = []string{
	"id",
	"name",
	"date_utc",
	"success",
	"links.patch.small",
	"rocket",
	"launchpad",
}

func outcomeLabel(success *bool) string {
	switch {
	case success == nil:
		return "TBD"
	case *success:
		return "Success"
	default:
		return "Failure"
	}
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

var flickrSuffix = regexp.MustCompile(`(?i)(?:_[a-z])?\.(jpg|jpeg|png|webp)$`)

// SizedFlickr rewrites a Flickr static URL to the given size suffix
// (for example "z" for ~640px), replacing an existing suffix if present.
func SizedFlickr(url, size string) string {
	if size == "" {
		size = "z"
	}
	return flickrSuffix.ReplaceAllString(url, "_"+size+".$1")
}

// DetailTTL picks how long a launch detail may be served from cache:
// a minute near launch time, six hours otherwise.
func DetailTTL(l Launch, now time.Time) time.Duration {
	date := l.Date()
	diff := now.Sub(date)
	if diff < 0 {
		diff = -diff
	}
	if l.Upcoming || date.IsZero() || diff < 48*time.Hour {
		return time.Minute
	}
	return 6 * time.Hour
}
