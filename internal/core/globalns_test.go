package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skytable/internal/tag"
)

func TestGlobalNSCreateAlterDropSpace(t *testing.T) {
	g := NewGlobalNS()
	_, err := g.CreateSpace("s1", nil)
	require.NoError(t, err)

	_, err = g.CreateSpace("s1", nil)
	require.Error(t, err) // already exists

	require.NoError(t, g.DropSpace("s1", false))

	_, ok := g.Space("s1")
	assert.False(t, ok)
}

func TestGlobalNSDropNonEmptySpaceRequiresForce(t *testing.T) {
	g := NewGlobalNS()
	_, err := g.CreateSpace("s1", nil)
	require.NoError(t, err)
	_, err = g.CreateModel("s1", "users", rowFields(), nil)
	require.NoError(t, err)

	require.Error(t, g.DropSpace("s1", false))
	require.NoError(t, g.DropSpace("s1", true))
}

func TestGlobalNSCreateModelRoundTrip(t *testing.T) {
	g := NewGlobalNS()
	_, err := g.CreateSpace("s1", nil)
	require.NoError(t, err)

	m, err := g.CreateModel("s1", "users", rowFields(), nil)
	require.NoError(t, err)
	assert.Equal(t, "users", m.Name)

	_, err = g.CreateModel("s1", "users", rowFields(), nil)
	require.Error(t, err) // already exists

	_, err = g.CreateModel("missing-space", "users", rowFields(), nil)
	require.Error(t, err)
}

func TestGlobalNSAlterModelAddRemoveUpdate(t *testing.T) {
	g := NewGlobalNS()
	_, err := g.CreateSpace("s1", nil)
	require.NoError(t, err)
	_, err = g.CreateModel("s1", "users", rowFields(), nil)
	require.NoError(t, err)

	newField := &Field{Name: "email", Layers: []*Layer{plainLayer(tag.SelStr)}}
	require.NoError(t, g.AlterModelAdd("s1", "users", []*Field{newField}))
	require.NoError(t, g.AlterModelRemove("s1", "users", []string{"email"}))

	require.Error(t, g.AlterModelAdd("missing-space", "users", []*Field{newField}))
}

func TestGlobalNSDropModel(t *testing.T) {
	g := NewGlobalNS()
	_, err := g.CreateSpace("s1", nil)
	require.NoError(t, err)
	_, err = g.CreateModel("s1", "users", rowFields(), nil)
	require.NoError(t, err)

	require.NoError(t, g.DropModel("s1", "users", false))
	require.Error(t, g.DropModel("s1", "users", false))
}

// TestGlobalNSConcurrentCreateSpaceExactlyOneWins exercises the
// concurrency invariant: of N goroutines racing to CREATE SPACE with
// the same name, exactly one succeeds.
func TestGlobalNSConcurrentCreateSpaceExactlyOneWins(t *testing.T) {
	g := NewGlobalNS()
	const n = 32
	var wg sync.WaitGroup
	successes := make([]bool, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := g.CreateSpace("race", nil)
			successes[i] = err == nil
		}(i)
	}
	wg.Wait()

	count := 0
	for _, ok := range successes {
		if ok {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
