// Package spacex provides an HTTP client for the public SpaceX v4 API.
//
// # Overview
//
// The package defines the read-only client liftoff uses to list, query and
// inspect launches, rockets and launchpads. It handles HTTP communication,
// JSON serialization, bounded retries and a small response cache.
//
// # Architecture
//
//   - client.go: HTTP client, retry policy and endpoint methods
//   - cache.go: TTL response cache for GET endpoints
//   - types.go: Data structures mirroring the API schema plus helpers
//
// # Client Usage
//
//	client, err := spacex.NewClient(spacex.DefaultBaseURL)
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	page, err := client.QueryLaunches(ctx, spacex.LaunchQuery{
//		Query:  map[string]any{"upcoming": true},
//		Sort:   map[string]int{"date_utc": 1},
//		Select: spacex.ListFields,
//	}, 1, 20)
//
// # API Endpoints
//
//   - POST /launches/query: paginated filtered listing, lookup by ids, history
//   - GET /launches/:id: launch detail
//   - GET /rockets/:id: rocket detail
//   - GET /launchpads/:id: launchpad detail
//
// # Retries
//
// Responses with status 429 or 5xx are retried, up to three attempts in
// total, waiting 500ms then 1s between attempts. Any other non-2xx status,
// transport failures and decode failures are returned immediately. When
// attempts are exhausted the caller receives *APIError:
//
//	spacex api error 503: upstream unavailable
//
// # Caching
//
// GET responses are cached in memory. Launch detail lives for a minute when
// the launch is upcoming or within 48 hours of its date and six hours
// otherwise (see DetailTTL). Rockets and launchpads live for a day. Query
// POSTs are never cached.
//
// # Thread Safety
//
// The Client is safe for concurrent use.
package spacex
