package tag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectorClassRoundTrip(t *testing.T) {
	for s := Selector(0); int(s) < len(selectorClass); s++ {
		class := ClassOf(s)
		assert.Equal(t, class, ClassOf(FromClass(class)),
			"selector %v: FromClass(ClassOf(s)).ClassOf() must equal ClassOf(s)", s)
	}
}

func TestValidSelectorRejectsOutOfRange(t *testing.T) {
	assert.False(t, ValidSelector(uint8(SelList)+1))
	assert.True(t, ValidSelector(uint8(SelList)))
}

func TestValidClassRejectsOutOfRange(t *testing.T) {
	assert.True(t, ValidClass(uint8(List)))
	assert.False(t, ValidClass(uint8(List)+1))
}

func TestTagUniqueIsPureFunctionOfClass(t *testing.T) {
	cases := map[Class]Unique{
		UInt:  UniqueUInt,
		SInt:  UniqueSInt,
		Bin:   UniqueBin,
		Str:   UniqueStr,
		Bool:  UniqueIllegal,
		Float: UniqueIllegal,
		List:  UniqueIllegal,
	}
	for class, want := range cases {
		assert.Equal(t, want, TagUnique(class), "class %v", class)
		// idempotent: calling twice yields the same answer
		assert.Equal(t, want, TagUnique(class))
	}
}

func TestCUTagOf(t *testing.T) {
	ct := CUTagOf(Str)
	assert.Equal(t, Str, ct.Class)
	assert.Equal(t, UniqueStr, ct.Unique)
}
