package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the detail pane is
	// hidden and the list takes the full width.
	LayoutCompactWidth = 100

	// LayoutExtraWideWidth is the threshold for a narrower list pane.
	LayoutExtraWideWidth = 160
)

// RowsPerLaunch is how many terminal rows one launch occupies.
const RowsPerLaunch = 2

// Timing constants.
const (
	// DefaultUIInterval is how often the UI re-reads the favorites listing.
	DefaultUIInterval = time.Second

	// RequestTimeout bounds one-off API calls made from the UI.
	RequestTimeout = 20 * time.Second
)
