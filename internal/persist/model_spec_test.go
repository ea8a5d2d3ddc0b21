package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skytable/internal/core"
	"skytable/internal/dictval"
	"skytable/internal/scan"
	"skytable/internal/tag"
)

func TestEncodeDecodeModelRecordRoundTrip(t *testing.T) {
	rec := ModelRecord{
		SpaceName:    "myspace",
		ModelName:    "u",
		PrimaryField: "username",
		Fields: []*core.Field{
			{Name: "username", Primary: true, Layers: []*core.Layer{{Selector: tag.SelStr, Props: dictval.New()}}},
			{Name: "password", Layers: []*core.Layer{{Selector: tag.SelBin, Props: dictval.New()}}},
		},
	}

	decoded, err := DecodeModelRecord(scan.New(EncodeModelRecord(rec)))
	require.NoError(t, err)
	assert.Equal(t, "myspace", decoded.SpaceName)
	assert.Equal(t, "u", decoded.ModelName)
	assert.Equal(t, "username", decoded.PrimaryField)
	require.Len(t, decoded.Fields, 2)
	assert.True(t, decoded.Fields[0].Primary)
	assert.False(t, decoded.Fields[1].Primary)
}

func TestDecodeModelRecordRejectsTruncatedMetadata(t *testing.T) {
	_, err := DecodeModelRecord(scan.New([]byte{1, 2, 3}))
	require.Error(t, err)
}
