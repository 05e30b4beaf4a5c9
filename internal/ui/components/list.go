package components

// List tracks a cursor and a scroll window over Len rows. Rows themselves
// live with the caller, so the list survives rebuilds of the row slice.
type List struct {
	Len      int
	Cursor   int
	Offset   int
	PageSize int
}

// NewList creates a list with the given page size.
func NewList(pageSize int) *List {
	return &List{PageSize: pageSize}
}

// SetLen updates the row count, keeping the cursor on screen.
func (l *List) SetLen(n int) {
	l.Len = n
	l.SetCursor(l.Cursor)
}

// Reset moves the cursor back to the first row.
func (l *List) Reset() {
	l.Cursor = 0
	l.Offset = 0
}

// SetCursor moves the cursor to i, clamped to the rows, scrolling as needed.
func (l *List) SetCursor(i int) {
	if i >= l.Len {
		i = l.Len - 1
	}
	if i < 0 {
		i = 0
	}
	l.Cursor = i
	if l.Cursor < l.Offset {
		l.Offset = l.Cursor
	}
	if l.PageSize > 0 && l.Cursor >= l.Offset+l.PageSize {
		l.Offset = l.Cursor - l.PageSize + 1
	}
	if l.Offset < 0 {
		l.Offset = 0
	}
}

// Down moves the cursor down.
func (l *List) Down() {
	if l.Cursor < l.Len-1 {
		l.SetCursor(l.Cursor + 1)
	}
}

// Up moves the cursor up.
func (l *List) Up() {
	if l.Cursor > 0 {
		l.SetCursor(l.Cursor - 1)
	}
}

// Window returns the half-open range of visible rows.
func (l *List) Window() (start, end int) {
	if l.Len == 0 {
		return 0, 0
	}
	end = l.Len
	if l.PageSize > 0 && l.Offset+l.PageSize < end {
		end = l.Offset + l.PageSize
	}
	return l.Offset, end
}

// Selected returns the index of the selected row.
func (l *List) Selected() int {
	return l.Cursor
}

// IsSelected returns true if the given absolute index is the cursor.
func (l *List) IsSelected(absIdx int) bool {
	return absIdx == l.Cursor
}
