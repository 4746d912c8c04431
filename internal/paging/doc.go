// Package paging drives incremental retrieval of a paged list.
//
// A Controller holds the pages fetched so far for one query. Pages are
// contiguous from index 1 and are only appended after a successful fetch of
// the next expected index; exactly one fetch runs at a time. When the
// query's fingerprint changes, all pages are discarded and any fetch still
// running is cancelled and its result ignored on arrival (each fetch
// carries the generation it was started in).
//
// The render layer reports the last row it shows through Visible. Once the
// synthetic loading row just after the items scrolls into view the next page
// is requested. That is the only automatic trigger.
//
// Window computes which rows to render for a scroll offset and which row is
// the last one visible. Its numbers are presentation choices and have no
// bearing on controller correctness.
package paging
