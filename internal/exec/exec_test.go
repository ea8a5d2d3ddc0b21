package exec

import (
	"context"
	"sync"
	"testing"

	"skytable/internal/core"
	"skytable/internal/taskpool"
	"skytable/internal/wire"
)

func newTestDispatcher() *Dispatcher {
	return &Dispatcher{
		Global: core.NewGlobalNS(),
		Pool:   taskpool.NewFixed(2),
	}
}

func mustDispatch(t *testing.T, d *Dispatcher, query string) wire.Response {
	t.Helper()
	resp := d.Dispatch(context.Background(), []byte(query), nil)
	if resp.Kind == wire.KindError {
		t.Fatalf("query %q failed: %v", query, resp.ErrorKind)
	}
	return resp
}

func TestCreateSpaceThenInspectSpace(t *testing.T) {
	d := newTestDispatcher()
	mustDispatch(t, d, `CREATE SPACE myspace`)
	resp := mustDispatch(t, d, `INSPECT SPACE myspace`)
	if resp.Kind != wire.KindRow || len(resp.Row) != 1 {
		t.Fatalf("expected a single-column row, got %+v", resp)
	}
	raw, err := resp.Row[0].ReadBin()
	if err != nil {
		t.Fatalf("expected a bin cell: %v", err)
	}
	if len(raw) != 8 {
		t.Fatalf("expected an empty encoded dict (8-byte zero count), got %d bytes", len(raw))
	}
}

func TestInspectSpaceUnknownSpaceIsDoesNotExist(t *testing.T) {
	d := newTestDispatcher()
	resp := d.Dispatch(context.Background(), []byte(`INSPECT SPACE nope`), nil)
	if resp.Kind != wire.KindError {
		t.Fatalf("expected an error response, got %+v", resp)
	}
}

func createUserModel(t *testing.T, d *Dispatcher) {
	t.Helper()
	mustDispatch(t, d, `CREATE SPACE myspace`)
	mustDispatch(t, d, `CREATE MODEL myspace.u (primary username: string, password: string)`)
}

func TestInsertThenSelectPlainColumn(t *testing.T) {
	d := newTestDispatcher()
	createUserModel(t, d)

	mustDispatch(t, d, `INSERT INTO myspace.u ("sayan", "pw")`)
	resp := mustDispatch(t, d, `SELECT password FROM myspace.u WHERE username = "sayan"`)
	if resp.Kind != wire.KindRow || len(resp.Row) != 1 {
		t.Fatalf("expected a single-column row, got %+v", resp)
	}
	pw, err := resp.Row[0].ReadStr()
	if err != nil {
		t.Fatalf("expected a str cell: %v", err)
	}
	if pw != "pw" {
		t.Fatalf("expected password %q, got %q", "pw", pw)
	}
}

func TestSelectRejectsNonPrimaryWhereClause(t *testing.T) {
	d := newTestDispatcher()
	createUserModel(t, d)
	mustDispatch(t, d, `INSERT INTO myspace.u ("sayan", "pw")`)

	resp := d.Dispatch(context.Background(), []byte(`SELECT password FROM myspace.u WHERE password = "pw"`), nil)
	if resp.Kind != wire.KindError {
		t.Fatalf("expected an error for a non-primary WHERE clause, got %+v", resp)
	}
}

func TestExistsReflectsInsertAndDelete(t *testing.T) {
	d := newTestDispatcher()
	createUserModel(t, d)

	before := mustDispatch(t, d, `EXISTS myspace.u "sayan"`)
	if ok, _ := before.Row[0].ReadBool(); ok {
		t.Fatalf("expected EXISTS to be false before any insert")
	}

	mustDispatch(t, d, `INSERT INTO myspace.u ("sayan", "pw")`)
	after := mustDispatch(t, d, `EXISTS myspace.u "sayan"`)
	if ok, _ := after.Row[0].ReadBool(); !ok {
		t.Fatalf("expected EXISTS to be true after insert")
	}

	mustDispatch(t, d, `DELETE FROM myspace.u WHERE username = "sayan"`)
	gone := mustDispatch(t, d, `EXISTS myspace.u "sayan"`)
	if ok, _ := gone.Row[0].ReadBool(); ok {
		t.Fatalf("expected EXISTS to be false after delete")
	}
}

func TestUpdateSetMutatesOnlyNamedFields(t *testing.T) {
	d := newTestDispatcher()
	createUserModel(t, d)
	mustDispatch(t, d, `INSERT INTO myspace.u ("sayan", "pw")`)

	mustDispatch(t, d, `UPDATE myspace.u "sayan" SET password = "newpw"`)
	resp := mustDispatch(t, d, `SELECT username, password FROM myspace.u WHERE username = "sayan"`)
	user, _ := resp.Row[0].ReadStr()
	pw, _ := resp.Row[1].ReadStr()
	if user != "sayan" {
		t.Fatalf("expected username to be left untouched, got %q", user)
	}
	if pw != "newpw" {
		t.Fatalf("expected password to be updated, got %q", pw)
	}
}

func TestListModelLSetIsAllOrNothing(t *testing.T) {
	d := newTestDispatcher()
	mustDispatch(t, d, `CREATE SPACE myspace`)
	mustDispatch(t, d, `CREATE MODEL myspace.tags (primary id: uint64, vals: list { type: string })`)

	mustDispatch(t, d, `UPDATE myspace.tags 1 LSET vals ("a", "b", "c")`)
	resp := d.Dispatch(context.Background(), []byte(`UPDATE myspace.tags 1 LSET vals ("d")`), nil)
	if resp.Kind != wire.KindError {
		t.Fatalf("expected LSET against an already-populated key to fail, got %+v", resp)
	}

	lenResp := mustDispatch(t, d, `SELECT FROM myspace.tags 1 LGET vals LEN`)
	n, _ := lenResp.Row[0].ReadUint()
	if n != 3 {
		t.Fatalf("expected list length 3, got %d", n)
	}
}

func TestSysctlIsHonestlyUnimplemented(t *testing.T) {
	d := newTestDispatcher()
	resp := d.Dispatch(context.Background(), []byte(`SYSCTL compact`), nil)
	if resp.Kind != wire.KindError {
		t.Fatalf("expected SYSCTL to report an error rather than invent behavior, got %+v", resp)
	}
}

func TestUseValidatesSpaceExistsButHasNoOtherEffect(t *testing.T) {
	d := newTestDispatcher()
	resp := d.Dispatch(context.Background(), []byte(`USE myspace`), nil)
	if resp.Kind != wire.KindError {
		t.Fatalf("expected USE against an unknown space to fail, got %+v", resp)
	}
	mustDispatch(t, d, `CREATE SPACE myspace`)
	ok := mustDispatch(t, d, `USE myspace`)
	if ok.Kind != wire.KindEmpty {
		t.Fatalf("expected USE against a known space to return Empty, got %+v", ok)
	}
}

func TestConcurrentCreateSpaceOnlyOneWins(t *testing.T) {
	d := newTestDispatcher()
	const n = 8
	results := make([]wire.Response, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			results[i] = d.Dispatch(context.Background(), []byte(`CREATE SPACE race`), nil)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, r := range results {
		if r.Kind != wire.KindError {
			successes++
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one winning CREATE SPACE, got %d", successes)
	}
}

func TestOnMutationFiresForEverySchemaChange(t *testing.T) {
	var kinds []core.OperationKind
	var mu sync.Mutex
	d := newTestDispatcher()
	d.OnMutation = func(op core.Operation) {
		mu.Lock()
		defer mu.Unlock()
		kinds = append(kinds, op.Kind)
	}

	mustDispatch(t, d, `CREATE SPACE myspace`)
	mustDispatch(t, d, `CREATE MODEL myspace.u (primary username: string, password: string)`)
	mustDispatch(t, d, `DROP MODEL myspace.u`)
	mustDispatch(t, d, `DROP SPACE myspace`)

	want := []core.OperationKind{core.OpCreateSpace, core.OpCreateModel, core.OpDropModel, core.OpDropSpace}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d mutation callbacks, got %d (%v)", len(want), len(kinds), kinds)
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Fatalf("mutation %d: expected %v, got %v", i, k, kinds[i])
		}
	}
}

func TestDescribeModelReportsSchema(t *testing.T) {
	d := newTestDispatcher()
	createUserModel(t, d)
	resp := mustDispatch(t, d, `DESCRIBE MODEL myspace.u`)
	if resp.Kind != wire.KindRow || len(resp.Row) != 1 {
		t.Fatalf("expected a single-column row, got %+v", resp)
	}
	if _, err := resp.Row[0].ReadBin(); err != nil {
		t.Fatalf("expected an encoded-dict bin cell: %v", err)
	}
}
