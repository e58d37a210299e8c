package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationParams_Validate(t *testing.T) {
	p := &PaginationParams{Page: 0, PerPage: 0}
	p.Validate()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 15, p.PerPage)

	p = &PaginationParams{Page: 2, PerPage: 500}
	p.Validate()
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 100, p.PerPage)
}

func TestPaginationParams_Offset(t *testing.T) {
	p := &PaginationParams{Page: 3, PerPage: 15}
	assert.Equal(t, 30, p.Offset())
}

func TestNewPagination(t *testing.T) {
	pag := NewPagination(2, 15, 31)

	assert.Equal(t, 3, pag.TotalPages)
	assert.True(t, pag.HasNext)
	assert.True(t, pag.HasPrev)

	pag = NewPagination(1, 15, 10)
	assert.Equal(t, 1, pag.TotalPages)
	assert.False(t, pag.HasNext)
	assert.False(t, pag.HasPrev)
}

func TestCursor_RoundTrip(t *testing.T) {
	createdAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	encoded := EncodeCursor("abc-123", createdAt)

	params := &CursorParams{Cursor: encoded}
	cursor, err := params.DecodeCursor()
	require.NoError(t, err)
	require.NotNil(t, cursor)

	assert.Equal(t, "abc-123", cursor.ID)
	assert.True(t, cursor.CreatedAt.Equal(createdAt))
}

func TestDecodeCursor_Empty(t *testing.T) {
	params := &CursorParams{}
	cursor, err := params.DecodeCursor()
	require.NoError(t, err)
	assert.Nil(t, cursor)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	params := &CursorParams{Cursor: "!!not-base64!!"}
	_, err := params.DecodeCursor()
	assert.Error(t, err)
}

func TestNewCursorPagination_TrimsExtraItem(t *testing.T) {
	type row struct {
		id        string
		createdAt time.Time
	}
	// Fetched limit+1 rows to detect another page
	items := []row{
		{"a", time.Now()},
		{"b", time.Now()},
		{"c", time.Now()},
	}

	pag, trimmed := NewCursorPagination(items, 2,
		func(r row) string { return r.id },
		func(r row) time.Time { return r.createdAt },
	)

	assert.Len(t, trimmed, 2)
	assert.True(t, pag.HasNext)
	require.NotNil(t, pag.NextCursor)
	require.NotNil(t, pag.PrevCursor)

	next, err := (&CursorParams{Cursor: *pag.NextCursor}).DecodeCursor()
	require.NoError(t, err)
	assert.Equal(t, "b", next.ID)
}
