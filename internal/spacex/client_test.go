package spacex

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	opts = append([]Option{WithInitialBackoff(time.Millisecond)}, opts...)
	c, err := NewClient(server.URL+"/v4", opts...)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL+"/" {
		t.Fatalf("url = %q, want %q", u.String(), DefaultBaseURL+"/")
	}

	u, err = parseBaseURL("http://example.com:1234/api?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "/api/" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("expected error for missing host")
	}
}

func TestQueryLaunches_PostsQueryAndOptions(t *testing.T) {
	t.Parallel()

	var got map[string]any
	var gotPath, gotMethod, gotContentType string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&got)
		next := 3
		_ = json.NewEncoder(w).Encode(Paginated[LaunchListItem]{
			Docs:        []LaunchListItem{{ID: "a", Name: "Alpha"}},
			Page:        2,
			HasNextPage: true,
			NextPage:    &next,
		})
	}))

	page, err := c.QueryLaunches(testContext(t), LaunchQuery{
		Query:  map[string]any{"upcoming": true},
		Sort:   map[string]int{"name": 1},
		Select: ListFields,
	}, 2, 10)
	if err != nil {
		t.Fatalf("QueryLaunches returned error: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/v4/launches/query" {
		t.Fatalf("request = %s %s, want POST /v4/launches/query", gotMethod, gotPath)
	}
	if gotContentType != "application/json" {
		t.Fatalf("content-type = %q", gotContentType)
	}
	if len(page.Docs) != 1 || page.Docs[0].ID != "a" || page.NextPage == nil || *page.NextPage != 3 {
		t.Fatalf("page = %#v", page)
	}

	query, _ := got["query"].(map[string]any)
	if query["upcoming"] != true {
		t.Fatalf("query = %#v, want upcoming=true", got["query"])
	}
	options, _ := got["options"].(map[string]any)
	if options["page"] != float64(2) || options["limit"] != float64(10) {
		t.Fatalf("options = %#v, want page=2 limit=10", options)
	}
	sort, _ := options["sort"].(map[string]any)
	if sort["name"] != float64(1) {
		t.Fatalf("sort = %#v", options["sort"])
	}
}

func TestQueryLaunches_NilQueryEncodesEmptyObject(t *testing.T) {
	t.Parallel()

	var raw map[string]json.RawMessage
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		_, _ = io.WriteString(w, `{"docs":[]}`)
	}))
	if _, err := c.QueryLaunches(testContext(t), LaunchQuery{}, 0, 5); err != nil {
		t.Fatalf("QueryLaunches returned error: %v", err)
	}
	if string(raw["query"]) != "{}" {
		t.Fatalf("query = %s, want {}", raw["query"])
	}
}

func TestQueryLaunchesByIDs_EmptySkipsRequest(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	items, err := c.QueryLaunchesByIDs(testContext(t), nil)
	if err != nil {
		t.Fatalf("QueryLaunchesByIDs returned error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("items = %#v, want empty non-nil", items)
	}
	if calls.Load() != 0 {
		t.Fatalf("calls = %d, want 0", calls.Load())
	}
}

func TestQueryLaunchesByIDs_UsesInFilterWithoutPagination(t *testing.T) {
	t.Parallel()

	var got struct {
		Query   map[string]map[string][]string `json:"query"`
		Options map[string]any                 `json:"options"`
	}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = io.WriteString(w, `{"docs":[{"id":"b"},{"id":"a"}]}`)
	}))
	items, err := c.QueryLaunchesByIDs(testContext(t), []string{"a", "b"})
	if err != nil {
		t.Fatalf("QueryLaunchesByIDs returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %#v", items)
	}
	ids := got.Query["_id"]["$in"]
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("$in = %#v", ids)
	}
	if got.Options["pagination"] != false {
		t.Fatalf("pagination = %#v, want false", got.Options["pagination"])
	}
}

func TestGetters_EmptyIDReturnsNil(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	ctx := testContext(t)
	if launch, err := c.GetLaunch(ctx, "  "); launch != nil || err != nil {
		t.Fatalf("GetLaunch = %v, %v", launch, err)
	}
	if rocket, err := c.GetRocket(ctx, ""); rocket != nil || err != nil {
		t.Fatalf("GetRocket = %v, %v", rocket, err)
	}
	if pad, err := c.GetLaunchpad(ctx, ""); pad != nil || err != nil {
		t.Fatalf("GetLaunchpad = %v, %v", pad, err)
	}
	if calls.Load() != 0 {
		t.Fatalf("calls = %d, want 0", calls.Load())
	}
}

func TestFetch_RetriesServerErrorsThenSucceeds(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = io.WriteString(w, `{"id":"r1","name":"Falcon 9"}`)
	}))
	rocket, err := c.GetRocket(testContext(t), "r1")
	if err != nil {
		t.Fatalf("GetRocket returned error: %v", err)
	}
	if rocket.Name != "Falcon 9" {
		t.Fatalf("rocket = %#v", rocket)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3", calls.Load())
	}
}

func TestFetch_GivesUpAfterThreeAttempts(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, "upstream unavailable\n")
	}))
	_, err := c.GetLaunch(testContext(t), "x")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusServiceUnavailable || apiErr.Body != "upstream unavailable" {
		t.Fatalf("apiErr = %#v", apiErr)
	}
	if err.Error() != "spacex api error 503: upstream unavailable" {
		t.Fatalf("message = %q", err.Error())
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3", calls.Load())
	}
}

func TestFetch_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	_, err := c.GetLaunchpad(testContext(t), "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("err = %v, want 404 APIError", err)
	}
	if apiErr.Temporary() {
		t.Fatalf("404 reported temporary")
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestFetch_DecodeFailureIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, "{not json")
	}))
	if _, err := c.GetRocket(testContext(t), "r"); err == nil {
		t.Fatalf("expected decode error")
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestGetLaunch_CachesUsingDetailTTL(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}

	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, `{"id":"old","name":"Old","date_utc":"2020-01-01T00:00:00.000Z","upcoming":false}`)
	}), WithClock(clock))

	ctx := testContext(t)
	for range 2 {
		if _, err := c.GetLaunch(ctx, "old"); err != nil {
			t.Fatalf("GetLaunch returned error: %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1 (cached)", calls.Load())
	}

	advance(5 * time.Hour)
	if _, err := c.GetLaunch(ctx, "old"); err != nil {
		t.Fatalf("GetLaunch returned error: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1 within six hours", calls.Load())
	}

	advance(2 * time.Hour)
	if _, err := c.GetLaunch(ctx, "old"); err != nil {
		t.Fatalf("GetLaunch returned error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2 after expiry", calls.Load())
	}
}

func TestQueryLaunches_NotCached(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, `{"docs":[]}`)
	}))
	ctx := testContext(t)
	for range 2 {
		if _, err := c.QueryLaunches(ctx, LaunchQuery{}, 1, 20); err != nil {
			t.Fatalf("QueryLaunches returned error: %v", err)
		}
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestLaunchHistory_SelectsDateAndOutcome(t *testing.T) {
	t.Parallel()

	var got struct {
		Options struct {
			Select     []string `json:"select"`
			Pagination *bool    `json:"pagination"`
		} `json:"options"`
	}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = io.WriteString(w, `{"docs":[{"date_utc":"2020-05-30T19:22:00.000Z","success":true}]}`)
	}))
	history, err := c.LaunchHistory(testContext(t))
	if err != nil {
		t.Fatalf("LaunchHistory returned error: %v", err)
	}
	if len(history) != 1 || history[0].Success == nil || !*history[0].Success {
		t.Fatalf("history = %#v", history)
	}
	if len(got.Options.Select) != 2 || got.Options.Pagination == nil || *got.Options.Pagination {
		t.Fatalf("options = %#v", got.Options)
	}
}

func TestClient_SetsUserAgent(t *testing.T) {
	t.Parallel()

	var ua string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		_, _ = io.WriteString(w, `{}`)
	}), WithUserAgent("liftoff-test"))
	if _, err := c.GetRocket(testContext(t), "r"); err != nil {
		t.Fatalf("GetRocket returned error: %v", err)
	}
	if ua != "liftoff-test" {
		t.Fatalf("user agent = %q", ua)
	}
}

func TestNilClientReturnsError(t *testing.T) {
	var c *Client
	if _, err := c.GetLaunch(context.Background(), "x"); err == nil {
		t.Fatalf("expected error from nil client")
	}
}
