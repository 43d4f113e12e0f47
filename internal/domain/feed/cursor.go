package feed

// Cursor is an opaque continuation token. The zero value starts at the beginning.
// Pages are ordered by ascending ID, so the token carries the last ID already emitted.
type Cursor struct {
	afterID uint64
}

// CursorAfter returns a cursor positioned after the given ID.
func CursorAfter(id uint64) Cursor {
	return Cursor{afterID: id}
}

// AfterID is the exclusive lower bound for the next page.
func (c Cursor) AfterID() uint64 {
	return c.afterID
}

// IsZero reports whether the cursor points at the start of the feed.
func (c Cursor) IsZero() bool {
	return c.afterID == 0
}
