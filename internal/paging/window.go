package paging

// Window describes a scrolled list viewport measured in terminal rows.
// Offsets and indexes are in items; ItemHeight is how many rows each item
// occupies.
type Window struct {
	ItemHeight int
	Height     int
	Overscan   int
}

// Visible returns how many items fit in the viewport (at least one).
func (w Window) Visible() int {
	h := max(w.ItemHeight, 1)
	return max(w.Height/h, 1)
}

// Range returns the half-open item range [start, end) to render for a list
// of count rows scrolled to offset, including overscan on both sides.
func (w Window) Range(offset, count int) (start, end int) {
	if count <= 0 {
		return 0, 0
	}
	offset = w.Clamp(offset, count)
	overscan := max(w.Overscan, 0)
	start = max(offset-overscan, 0)
	end = min(offset+w.Visible()+overscan, count)
	return start, end
}

// Stop returns the index of the last row actually on screen. Overscan
// rows do not count. It is -1 for an empty list.
func (w Window) Stop(offset, count int) int {
	if count <= 0 {
		return -1
	}
	offset = w.Clamp(offset, count)
	return min(offset+w.Visible(), count) - 1
}

// Clamp keeps offset inside [0, count-Visible()].
func (w Window) Clamp(offset, count int) int {
	return min(max(offset, 0), max(count-w.Visible(), 0))
}

// Follow returns the offset that keeps cursor on screen, moving as little
// as possible from offset.
func (w Window) Follow(offset, cursor, count int) int {
	visible := w.Visible()
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+visible {
		offset = cursor - visible + 1
	}
	return w.Clamp(offset, count)
}
