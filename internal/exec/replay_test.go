package exec

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"skytable/internal/core"
	"skytable/internal/journal"
	"skytable/internal/wire"
)

func TestApplySnapshotRebuildsSchema(t *testing.T) {
	d := newTestDispatcher()
	createUserModel(t, d)
	mustDispatch(t, d, `INSERT INTO myspace.u ("sayan", "pw")`)

	path := filepath.Join(t.TempDir(), "db.snapshot")
	require.NoError(t, journal.WriteSnapshot(d.Global, path))

	spaces, err := journal.ReadSnapshot(path)
	require.NoError(t, err)

	restored := core.NewGlobalNS()
	require.NoError(t, ApplySnapshot(restored, spaces))

	sp, ok := restored.Space("myspace")
	require.True(t, ok)
	m, ok := sp.Model("u")
	require.True(t, ok)
	require.Equal(t, "username", m.PrimaryField)
	require.Len(t, m.Fields(), 2)
}

func TestApplyRecordReplaysCreateAndDropKinds(t *testing.T) {
	var ops []core.Operation
	d := newTestDispatcher()
	d.OnMutation = func(op core.Operation) { ops = append(ops, op) }

	mustDispatch(t, d, `CREATE SPACE myspace`)
	mustDispatch(t, d, `CREATE MODEL myspace.u (primary username: string, password: string)`)
	mustDispatch(t, d, `DROP MODEL myspace.u`)
	mustDispatch(t, d, `DROP SPACE myspace`)
	require.Len(t, ops, 4)

	restored := core.NewGlobalNS()
	for _, op := range ops {
		rec := journal.Record{Kind: op.Kind, SpaceName: op.SpaceName, Payload: op.Payload}
		require.NoError(t, ApplyRecord(restored, rec))
	}

	_, ok := restored.Space("myspace")
	require.False(t, ok, "DROP SPACE should have left no trace after replay")
}

func TestApplyRecordReplaysAlterModelAdd(t *testing.T) {
	var ops []core.Operation
	d := newTestDispatcher()
	d.OnMutation = func(op core.Operation) { ops = append(ops, op) }

	mustDispatch(t, d, `CREATE SPACE myspace`)
	mustDispatch(t, d, `CREATE MODEL myspace.u (primary username: string)`)
	resp := d.Dispatch(context.Background(), []byte(`ALTER MODEL myspace.u ADD (password: string)`), nil)
	require.NotEqual(t, wire.KindError, resp.Kind)

	restored := core.NewGlobalNS()
	for _, op := range ops {
		rec := journal.Record{Kind: op.Kind, SpaceName: op.SpaceName, ModelName: op.ModelName, Payload: op.Payload}
		require.NoError(t, ApplyRecord(restored, rec))
	}

	sp, ok := restored.Space("myspace")
	require.True(t, ok)
	m, ok := sp.Model("u")
	require.True(t, ok)
	_, ok = m.Field("password")
	require.True(t, ok, "ALTER MODEL ADD should have replayed the new field")
}

// TestApplyRecordReplaysDropModelAfterJournalRoundTrip exercises the
// path a real crash-recovery replay takes: every mutation is appended
// through a real journal.Writer, read back with journal.ReadAll (no
// in-memory core.Operation survives a process restart), and replayed.
// DROP_MODEL's own payload only ever names the model, never its space,
// so this only works if the frame itself carries the space name.
func TestApplyRecordReplaysDropModelAfterJournalRoundTrip(t *testing.T) {
	d := newTestDispatcher()
	path := filepath.Join(t.TempDir(), "db.journal")
	jw, err := journal.Create(path)
	require.NoError(t, err)
	d.OnMutation = func(op core.Operation) {
		require.NoError(t, jw.Append(op))
	}

	mustDispatch(t, d, `CREATE SPACE myspace`)
	mustDispatch(t, d, `CREATE MODEL myspace.u (primary username: string, password: string)`)
	mustDispatch(t, d, `DROP MODEL myspace.u`)
	require.NoError(t, jw.Close())

	records, err := journal.ReadAll(path)
	require.NoError(t, err)
	require.Len(t, records, 3)

	restored := core.NewGlobalNS()
	for _, rec := range records {
		require.NoError(t, ApplyRecord(restored, rec))
	}

	sp, ok := restored.Space("myspace")
	require.True(t, ok, "CREATE SPACE should have survived replay")
	_, ok = sp.Model("u")
	require.False(t, ok, "DROP MODEL should have removed the model on replay")
}
