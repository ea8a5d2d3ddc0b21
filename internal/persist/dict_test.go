package persist

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skytable/internal/dictval"
	"skytable/internal/scan"
)

func TestEncodeDecodeDictRoundTrip(t *testing.T) {
	d := dictval.New()
	require.NoError(t, d.Set("maxlen", dictval.UIntEntry(64)))
	require.NoError(t, d.Set("ascii_only", dictval.BoolEntry(true)))
	require.NoError(t, d.Set("name", dictval.StrEntry("sayan")))
	require.NoError(t, d.Set("blob", dictval.BinEntry([]byte{1, 2, 3})))
	list, err := dictval.ListEntry([]dictval.Entry{dictval.UIntEntry(1), dictval.UIntEntry(2)})
	require.NoError(t, err)
	require.NoError(t, d.Set("items", list))
	nested := dictval.New()
	require.NoError(t, nested.Set("inner", dictval.StrEntry("v")))
	require.NoError(t, d.Set("nested", dictval.DictEntryOf(nested)))

	encoded := EncodeDict(d)
	decoded, err := DecodeDict(scan.New(encoded))
	require.NoError(t, err)

	for _, k := range d.Keys() {
		want, _ := d.Get(k)
		got, ok := decoded.Get(k)
		require.True(t, ok, "missing key %q", k)
		assert.Equal(t, want.Kind, got.Kind)
	}
}

func TestEncodeDecodeEmptyDict(t *testing.T) {
	d := dictval.New()
	decoded, err := DecodeDict(scan.New(EncodeDict(d)))
	require.NoError(t, err)
	assert.Equal(t, 0, decoded.Len())
}

func TestDecodeDictRejectsTruncatedHeader(t *testing.T) {
	_, err := DecodeDict(scan.New([]byte{1, 2, 3}))
	require.Error(t, err)
}

func TestDecodeDictNeverPanicsOnRandomBytes(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		n := r.Intn(65)
		buf := make([]byte, n)
		_, _ = r.Read(buf)
		assert.NotPanics(t, func() {
			_, _ = DecodeDict(scan.New(buf))
		})
	}
}
