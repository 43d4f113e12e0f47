package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursor(t *testing.T) {
	var c Cursor
	assert.True(t, c.IsZero())
	assert.Equal(t, uint64(0), c.AfterID())

	c = CursorAfter(42)
	assert.False(t, c.IsZero())
	assert.Equal(t, uint64(42), c.AfterID())
}
