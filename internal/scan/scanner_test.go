package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerBasics(t *testing.T) {
	s := New([]byte("hello"))
	assert.True(t, s.HasLeft(5))
	assert.False(t, s.HasLeft(6))
	assert.Equal(t, byte('h'), s.Peek())
	assert.Equal(t, byte('e'), s.PeekAt(1))
	assert.Equal(t, byte('h'), s.NextByte())
	assert.Equal(t, 1, s.Cursor())
	assert.Equal(t, []byte("ell"), s.NextChunk(3))
	assert.False(t, s.EOF())
	assert.Equal(t, byte('o'), s.NextByte())
	assert.True(t, s.EOF())
}

func TestScannerNextU64LE(t *testing.T) {
	buf := []byte{1, 0, 0, 0, 0, 0, 0, 0, 'x'}
	s := New(buf)
	v, ok := s.NextU64LEChecked()
	require.True(t, ok)
	assert.Equal(t, uint64(1), v)
	assert.Equal(t, byte('x'), s.NextByte())
}

func TestScannerCheckedNeverPanics(t *testing.T) {
	s := New([]byte{1, 2})
	_, ok := s.NextU64LEChecked()
	assert.False(t, ok)
	b, ok := s.NextByteChecked()
	assert.True(t, ok)
	assert.Equal(t, byte(1), b)
	chunk, ok := s.NextChunkChecked(5)
	assert.False(t, ok)
	assert.Nil(t, chunk)
}

func TestNextChunkU64CheckedRejectsOversizedLength(t *testing.T) {
	s := New([]byte("abc"))
	chunk, ok := s.NextChunkU64Checked(4)
	assert.False(t, ok)
	assert.Nil(t, chunk)
}

func TestNextChunkU64CheckedRejectsLengthThatWouldGoNegativeAsInt(t *testing.T) {
	s := New([]byte("abc"))
	// A length with the top bit set would wrap to a negative int on a
	// 64-bit platform if ever converted before the bounds check; the
	// comparison must happen in uint64 space first.
	chunk, ok := s.NextChunkU64Checked(1 << 63)
	assert.False(t, ok)
	assert.Nil(t, chunk)
}

func TestNextChunkU64CheckedAcceptsExactFit(t *testing.T) {
	s := New([]byte("abc"))
	chunk, ok := s.NextChunkU64Checked(3)
	assert.True(t, ok)
	assert.Equal(t, []byte("abc"), chunk)
	assert.True(t, s.EOF())
}

func TestUArraySpillsPastInlineCapacity(t *testing.T) {
	var u UArray[int]
	for i := 0; i < N*3; i++ {
		u.Push(i)
	}
	assert.Equal(t, N*3, u.Len())
	for i := 0; i < N*3; i++ {
		assert.Equal(t, i, u.At(i))
	}
	assert.Equal(t, N*3, len(u.Slice()))
}

func TestUArrayStaysInline(t *testing.T) {
	var u UArray[string]
	u.Push("a")
	u.Push("b")
	assert.Equal(t, 2, u.Len())
	assert.Equal(t, "a", u.At(0))
	u.Reset()
	assert.Equal(t, 0, u.Len())
}

func TestHashIndexFreshEntry(t *testing.T) {
	idx := NewHashIndex[string, int]()
	assert.True(t, idx.FreshEntry("a", 1))
	assert.False(t, idx.FreshEntry("a", 2))
	v, ok := idx.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = idx.Remove("a")
	assert.True(t, ok)
	assert.Equal(t, 0, idx.Len())
}

func TestOrderedIndexPreservesDeclarationOrder(t *testing.T) {
	idx := NewOrderedIndex[string, int]()
	idx.FreshEntry("z", 1)
	idx.FreshEntry("a", 2)
	idx.FreshEntry("m", 3)
	assert.Equal(t, []string{"z", "a", "m"}, idx.Keys())

	var seen []string
	idx.Iterate(func(k string, _ int) bool {
		seen = append(seen, k)
		return true
	})
	assert.Equal(t, []string{"z", "a", "m"}, seen)

	idx.Remove("a")
	assert.Equal(t, []string{"z", "m"}, idx.Keys())
}
