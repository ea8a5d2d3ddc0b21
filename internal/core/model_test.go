package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skytable/internal/data"
	"skytable/internal/dictval"
	"skytable/internal/tag"
)

func rowFields() []*Field {
	return []*Field{
		{Name: "id", Primary: true, Layers: []*Layer{plainLayer(tag.SelUInt64)}},
		{Name: "name", Layers: []*Layer{plainLayer(tag.SelStr)}},
	}
}

func TestNewModelBuildsRowEngine(t *testing.T) {
	m, err := newModel("myspace", "users", rowFields(), nil)
	require.NoError(t, err)
	assert.False(t, m.IsListModel)
	assert.Equal(t, "id", m.PrimaryField)
	assert.ElementsMatch(t, []string{"id", "name"}, m.FieldNames())

	require.NoError(t, m.KV.Set(data.NewUint(1), []data.Cell{data.NewUint(1), data.NewStr("ada")}))
	got, ok, err := m.KV.Get(data.NewUint(1))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got, 2)
}

func TestNewModelBuildsListEngine(t *testing.T) {
	primary := &Field{Name: "id", Primary: true, Layers: []*Layer{plainLayer(tag.SelUInt64)}}
	list := NewField("items", false, &Layer{Selector: tag.SelList, Props: dictval.New(), Inner: plainLayer(tag.SelStr)})
	m, err := newModel("myspace", "bags", []*Field{primary, list}, nil)
	require.NoError(t, err)
	assert.True(t, m.IsListModel)

	require.NoError(t, m.KV.LSet(data.NewUint(7), []data.Cell{data.NewStr("a"), data.NewStr("b")}))
	lst, ok, err := m.KV.LGet(data.NewUint(7))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, lst.Len())
}

func TestNewModelRejectsBadPrimaryType(t *testing.T) {
	badPrimary := &Field{Name: "flag", Primary: true, Layers: []*Layer{plainLayer(tag.SelBool)}}
	other := &Field{Name: "name", Layers: []*Layer{plainLayer(tag.SelStr)}}
	_, err := newModel("s", "m", []*Field{badPrimary, other}, nil)
	require.Error(t, err)
}

func TestModelAddRemoveUpdateField(t *testing.T) {
	m, err := newModel("myspace", "users", rowFields(), nil)
	require.NoError(t, err)

	newField := &Field{Name: "email", Layers: []*Layer{plainLayer(tag.SelStr)}}
	require.NoError(t, m.addField(newField))
	_, ok := m.Field("email")
	assert.True(t, ok)

	require.Error(t, m.addField(newField)) // already exists

	require.NoError(t, m.removeField("email"))
	_, ok = m.Field("email")
	assert.False(t, ok)

	require.Error(t, m.removeField("id")) // can't remove primary

	updated := &Field{Name: "name", Layers: []*Layer{plainLayer(tag.SelStr)}}
	require.NoError(t, m.updateField(updated))

	wrongClass := &Field{Name: "name", Layers: []*Layer{plainLayer(tag.SelUInt64)}}
	require.Error(t, m.updateField(wrongClass))

	primaryChange := &Field{Name: "id", Layers: []*Layer{plainLayer(tag.SelUInt64)}}
	require.Error(t, m.updateField(primaryChange))
}
