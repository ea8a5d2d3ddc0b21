package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skytable/internal/dictval"
	"skytable/internal/tag"
)

func strLayer(props map[string]dictval.Entry) *Layer {
	d := dictval.New()
	for k, v := range props {
		_ = d.Set(k, v)
	}
	return &Layer{Selector: tag.SelStr, Props: d}
}

func TestNewFieldScalarHasOneLayer(t *testing.T) {
	f := NewField("username", true, strLayer(nil))
	require.Len(t, f.Layers, 1)
	assert.Equal(t, tag.Str, f.Class())
	assert.Same(t, f.TopLayer(), f.Layers[0])
}

func TestNewFieldListFlattensInnerThenOuter(t *testing.T) {
	inner := strLayer(nil)
	outer := &Layer{Selector: tag.SelList, Props: dictval.New(), Inner: inner}
	f := NewField("tags", false, outer)
	require.Len(t, f.Layers, 2)
	assert.Equal(t, tag.Str, f.Layers[0].Class())
	assert.Equal(t, tag.List, f.Layers[1].Class())
	assert.Equal(t, tag.List, f.Class())
}
