package source

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRange(t *testing.T) {
	r := Range{Start: 3, End: 9}

	assert.Equal(t, 6, r.Len())
	assert.True(t, r.Valid(9))
	assert.False(t, r.Valid(8))
	assert.False(t, Range{Start: 5, End: 4}.Valid(10))
	assert.False(t, Range{Start: -1, End: 4}.Valid(10))

	assert.True(t, r.Contains(Range{Start: 3, End: 9}))
	assert.True(t, r.Contains(Range{Start: 5, End: 5}))
	assert.False(t, r.Contains(Range{Start: 2, End: 5}))

	assert.True(t, r.Overlaps(Range{Start: 8, End: 12}))
	assert.False(t, r.Overlaps(Range{Start: 9, End: 12}))
	assert.Equal(t, "[3,9)", r.String())
}

func TestCheck(t *testing.T) {
	bound := Range{Start: 0, End: 10}
	assert.NoError(t, Check("op", Range{Start: 2, End: 4}, bound))

	err := Check("op", Range{Start: 8, End: 12}, bound)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOffsetInconsistency)

	var oe *OffsetError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, "op", oe.Op)
	assert.Equal(t, Range{Start: 8, End: 12}, oe.Range)
	assert.Contains(t, err.Error(), "[8,12) outside [0,10)")

	assert.Error(t, Check("op", Range{Start: 5, End: 4}, bound))
}

func TestShift(t *testing.T) {
	s := Shift(10)
	assert.Equal(t, 12, s.Start(2))
	assert.Equal(t, 15, s.End(5))

	x, ok := s.Locate(14)
	assert.True(t, ok)
	assert.Equal(t, 4, x)

	_, ok = s.Locate(5)
	assert.False(t, ok)
}

// "<p>Hello,<!-- c --> world!</p>" with the comment removed
func commentGap() *Text {
	t := NewText(3)
	t.Append("Hello,", 3)
	t.Append(" world!", 19)
	return t
}

func TestText_Gap(t *testing.T) {
	txt := commentGap()

	assert.Equal(t, "Hello, world!", txt.String())
	assert.Equal(t, 13, txt.Len())
	assert.Equal(t, Range{Start: 3, End: 26}, txt.Span())

	assert.Equal(t, 3, txt.Start(0))
	assert.Equal(t, 19, txt.Start(6), "start on a gap resolves after it")
	assert.Equal(t, 9, txt.End(6), "end on a gap resolves before it")
	assert.Equal(t, 26, txt.End(13))

	for _, tt := range []struct{ x, want int }{
		{3, 0}, {9, 6}, {12, 6}, {19, 6}, {20, 7}, {26, 13},
	} {
		got, ok := txt.Locate(tt.x)
		assert.True(t, ok, "Locate(%d)", tt.x)
		assert.Equal(t, tt.want, got, "Locate(%d)", tt.x)
	}
	_, ok := txt.Locate(30)
	assert.False(t, ok)
	_, ok = txt.Locate(1)
	assert.False(t, ok)
}

// "a&amp;b" decoded to "a&b"
func TestText_Substitute(t *testing.T) {
	txt := NewText(0)
	txt.Append("a", 0)
	txt.Substitute("&", Range{Start: 1, End: 6})
	txt.Append("b", 6)

	assert.Equal(t, "a&b", txt.String())
	assert.Equal(t, 1, txt.Start(1))
	assert.Equal(t, 6, txt.End(2))
	assert.Equal(t, 6, txt.Start(2))
	assert.Equal(t, 7, txt.End(3))

	x, ok := txt.Locate(3)
	assert.True(t, ok)
	assert.Equal(t, 1, x, "inside an entity snaps to its start")
	x, _ = txt.Locate(6)
	assert.Equal(t, 2, x)
}

func TestText_RoundTrip(t *testing.T) {
	txt := commentGap()
	s := txt.String()
	for i := 0; i <= len(s); i++ {
		x, ok := txt.Locate(txt.Start(i))
		require.True(t, ok)
		if i == 6 {
			continue // the gap boundary maps to one decoded offset
		}
		assert.Equal(t, i, x, "offset %d", i)
	}
}

func TestText_MergesContiguousLiterals(t *testing.T) {
	txt := NewText(0)
	txt.Append("ab", 0)
	txt.Append("cd", 2)
	txt.Append("", 9)

	assert.Len(t, txt.pieces, 1)
	assert.Equal(t, Range{Start: 0, End: 4}, txt.Span())
	assert.Equal(t, 3, txt.End(3))
}

func TestText_Empty(t *testing.T) {
	txt := NewText(7)
	assert.True(t, txt.Empty())
	assert.Equal(t, 7, txt.Start(0))
	assert.Equal(t, 7, txt.End(0))
	assert.Equal(t, Range{Start: 7, End: 7}, txt.Span())
}
