// Package state holds the favorites listing shared between the background
// refresher and the UI.
//
// The refresher fetches the launches for the current favorite ids and calls
// Update; the UI reads copies with Snapshot on its own schedule. A failed
// fetch keeps the previous listing and records the error, so the screen
// keeps showing the last good data while reporting that the API is
// unreachable:
//
//	store.Update(ids, launches, nil) // replace listing, clear error
//	store.Update(nil, nil, err)      // keep listing, record err
//
// Rendering goes through Snapshot.Visible with the live favorite set, so a
// row disappears the moment it is unfavorited instead of waiting for the
// next fetch. Snapshot.Stale tells the refresher when a newly added id is
// missing from the listing.
//
// The zero Store is ready to use.
package state
