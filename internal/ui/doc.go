// Package ui provides the terminal user interface for liftoff.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds everything the screen shows
// and is rebuilt on every message; the long-lived state lives in the core
// components it is handed through Options:
//
//   - paging.Controller: the paged launch list for the current filter
//   - favorites.Store: the persisted favorite set, shared with other processes
//   - compare.Loader: the side-by-side comparison
//   - state.Store: the fetched favorites listing, refreshed in the background
//
// Components notify subscribers synchronously. Run bridges each
// subscription to Program.Send, and Update re-reads the component state
// when the matching *ChangedMsg arrives. Mutations are issued from tea.Cmd
// closures so a notification never blocks the update loop.
//
// # Package Structure
//
//   - app.go: Model, Update/View, messages, commands and Run
//   - launches.go: launch list navigation, paging and row rendering
//   - favorites.go: favorites view over the live set
//   - detail.go: detail pane with rocket and launchpad lookups
//   - compare.go: compare inputs and side-by-side rendering
//   - stats.go: launches-per-year bars
//   - filter_form.go: filter modal
//   - header.go, help.go: status bar, command bar and help overlay
//   - theme.go, style_helpers.go: palettes and background-aware rendering
//
// # Views
//
//   - Launches: infinite list of launches for the active filter
//   - Favorites: starred launches, updated as soon as a star changes
//   - Compare: two launches with differing fields highlighted
//   - Stats: launches and success rate per year
//
// # Layout
//
// Wide terminals show the list and the detail pane side by side. Below
// LayoutCompactWidth the list takes the full width and enter swaps in the
// detail pane.
package ui
