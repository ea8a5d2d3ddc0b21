package wire

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skytable/internal/data"
	"skytable/internal/errkind"
	"skytable/internal/scan"
)

func TestEncodeDecodeRequestRoundTrip(t *testing.T) {
	req := Request{Version: 1, Flags: 0, Query: []byte("create model m(id: uint64)"), Params: []byte("param-blob")}
	encoded := EncodeRequest(req)

	got, err := DecodeRequest(scan.New(encoded))
	require.NoError(t, err)
	assert.Equal(t, req.Version, got.Version)
	assert.Equal(t, req.Query, got.Query)
	assert.Equal(t, req.Params, got.Params)
}

func TestDecodeRequestRejectsTruncatedFrame(t *testing.T) {
	req := Request{Version: 1, Query: []byte("abc"), Params: []byte("xy")}
	encoded := EncodeRequest(req)

	_, err := DecodeRequest(scan.New(encoded[:len(encoded)-1]))
	assert.Error(t, err)
}

func TestEncodeDecodeResponseEmpty(t *testing.T) {
	got, err := DecodeResponse(scan.New(EncodeResponse(Empty())))
	require.NoError(t, err)
	assert.Equal(t, KindEmpty, got.Kind)
}

func TestEncodeDecodeResponseError(t *testing.T) {
	got, err := DecodeResponse(scan.New(EncodeResponse(Err(errkind.DoesNotExist))))
	require.NoError(t, err)
	assert.Equal(t, KindError, got.Kind)
	assert.Equal(t, errkind.DoesNotExist, got.ErrorKind)
}

func TestEncodeDecodeResponseRowRoundTrip(t *testing.T) {
	row := []data.Cell{data.NewUint(7), data.NewStr("hi"), data.Null()}
	got, err := DecodeResponse(scan.New(EncodeResponse(Row1(row))))
	require.NoError(t, err)
	require.Equal(t, KindRow, got.Kind)
	require.Len(t, got.Row, 3)

	v, err := got.Row[0].ReadUint()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)

	s, err := got.Row[1].ReadStr()
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	assert.True(t, got.Row[2].IsNull())
}

func TestEncodeDecodeResponseRowsRoundTrip(t *testing.T) {
	rows := [][]data.Cell{
		{data.NewUint(1), data.NewBool(true)},
		{data.NewUint(2), data.NewBool(false)},
	}
	got, err := DecodeResponse(scan.New(EncodeResponse(Rows(rows))))
	require.NoError(t, err)
	require.Equal(t, KindRows, got.Kind)
	require.Len(t, got.Rows, 2)

	v, err := got.Rows[1][0].ReadUint()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v)

	b, err := got.Rows[1][1].ReadBool()
	require.NoError(t, err)
	assert.False(t, b)
}

func TestEncodeDecodeBinAndFloatCellRoundTrip(t *testing.T) {
	row := []data.Cell{data.NewBin([]byte{0xde, 0xad, 0xbe, 0xef}), data.NewFloat(3.5)}
	got, err := DecodeResponse(scan.New(EncodeResponse(Row1(row))))
	require.NoError(t, err)
	require.Len(t, got.Row, 2)

	b, err := got.Row[0].ReadBin()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, b)

	f, err := got.Row[1].ReadFloat()
	require.NoError(t, err)
	assert.Equal(t, 3.5, f)
}

func TestDecodeResponseNeverPanicsOnRandomBytes(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	for i := 0; i < 200; i++ {
		n := r.Intn(64)
		buf := make([]byte, n)
		r.Read(buf)
		assert.NotPanics(t, func() {
			_, _ = DecodeResponse(scan.New(buf))
		})
	}
}

func TestDecodeResponseRejectsUnknownKind(t *testing.T) {
	_, err := DecodeResponse(scan.New([]byte{0xFF}))
	assert.Error(t, err)
}
