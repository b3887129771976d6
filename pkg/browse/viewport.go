package browse

// Direction of a selection move.
type Direction int

const (
	Up Direction = iota
	Down
)

// Viewport tracks the selected row of a filtered list and the window [Top, Bottom]
// of rows visible on screen.
//
// Every operation keeps:
//   - -1 <= Selected < length of the view (Selected == -1 means nothing is selected)
//   - 0 <= Top <= Bottom and Bottom-Top+1 == Capacity
//
// MoveSelection and Resize also keep Top <= Selected <= Bottom. Refilter does not:
// after a filter change the window always returns to the top of the list, even
// when the preferred selection lies below it. The next move scrolls it back in.
type Viewport struct {
	Selected int
	Top      int
	Bottom   int

	capacity int
	length   int
}

// NewViewport returns an empty viewport showing capacity rows.
func NewViewport(capacity int) *Viewport {
	v := &Viewport{Selected: -1, capacity: max(1, capacity)}
	v.Bottom = v.capacity - 1
	return v
}

// Capacity is the number of rows the window shows.
func (v *Viewport) Capacity() int {
	return v.capacity
}

// Len is the length of the view the viewport was last refiltered against.
func (v *Viewport) Len() int {
	return v.length
}

// Refilter resets the window to the top of a new view of n rows and selects
// preferred when it is a valid index, otherwise nothing.
func (v *Viewport) Refilter(n, preferred int) {
	v.length = max(0, n)
	v.Top = 0
	v.Bottom = v.Top + v.capacity - 1
	if preferred >= 0 && preferred < v.length {
		v.Selected = preferred
	} else {
		v.Selected = -1
	}
}

// MoveSelection moves the selection delta rows in dir, clamped to the view, and
// scrolls the window by the overflow when the selection leaves it.
func (v *Viewport) MoveSelection(delta int, dir Direction) {
	if v.length == 0 {
		v.Selected = -1
		return
	}
	next := v.Selected + delta
	if dir == Up {
		next = v.Selected - delta
	}
	next = min(max(next, 0), v.length-1)
	v.Selected = next

	if next < v.Top {
		scroll := v.Top - next
		v.Top -= scroll
		v.Bottom -= scroll
	}
	if next > v.Bottom {
		scroll := next - v.Bottom
		v.Top += scroll
		v.Bottom += scroll
	}
}

// Resize changes the number of visible rows, keeping Top. A selection that would
// fall below the shrunken window pulls the window down with it.
func (v *Viewport) Resize(capacity int) {
	v.capacity = max(1, capacity)
	v.Bottom = v.Top + v.capacity - 1
	if v.Selected > v.Bottom {
		scroll := v.Selected - v.Bottom
		v.Top += scroll
		v.Bottom += scroll
	}
}

// Visible returns the half-open range [from, to) of view indices to draw.
func (v *Viewport) Visible() (from, to int) {
	from = min(v.Top, v.length)
	to = min(v.Bottom+1, v.length)
	return from, to
}

// IsSelected reports whether row i is the selected row.
func (v *Viewport) IsSelected(i int) bool {
	return v.Selected >= 0 && i == v.Selected
}
