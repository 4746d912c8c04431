// Package query translates the launch Filter into the API query document,
// a stable fingerprint and a flat shareable key/value form.
//
// The fingerprint is derived from the normalized document only, so two
// filters that mean the same thing (for example an empty Sort and
// SortDateDesc) never cause the paging controller to refetch.
package query
