// Package compare loads two launches, with their rocket and launchpad, for
// side-by-side display.
//
// Fetching only starts on Submit. Each submission takes a new token and
// only the newest token may change state, so a slow answer for a pair the
// user has moved away from never overwrites the current one. A failed load
// records the error but keeps whatever result was already on screen. Pairs
// are reused for a minute.
package compare
