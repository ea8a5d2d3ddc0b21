package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skytable/internal/dictval"
)

func TestSpaceInstallAndDropModel(t *testing.T) {
	sp := newSpace("myspace", nil)
	assert.True(t, sp.Empty())

	m, err := newModel("myspace", "users", rowFields(), nil)
	require.NoError(t, err)
	require.NoError(t, sp.installModel(m))
	assert.False(t, sp.Empty())

	require.Error(t, sp.installModel(m)) // already exists

	got, ok := sp.Model("users")
	require.True(t, ok)
	assert.Equal(t, m, got)

	require.NoError(t, sp.dropModel("users", false))
	assert.True(t, sp.Empty())

	require.Error(t, sp.dropModel("users", false)) // does not exist
}

func TestSpaceAlterPropsOverwritesKeys(t *testing.T) {
	with := dictval.New()
	require.NoError(t, with.Set("owner", dictval.StrEntry("alice")))
	sp := newSpace("myspace", with)

	update := dictval.New()
	require.NoError(t, update.Set("owner", dictval.StrEntry("bob")))
	require.NoError(t, update.Set("env", dictval.StrEntry("prod")))
	require.NoError(t, sp.alterProps(update))

	owner, ok := sp.Props.Get("owner")
	require.True(t, ok)
	assert.Equal(t, "bob", owner.Str)
	env, ok := sp.Props.Get("env")
	require.True(t, ok)
	assert.Equal(t, "prod", env.Str)
}
