package ql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skytable/internal/lexer"
	"skytable/internal/tag"
)

func lex(t *testing.T, src string) []lexer.Token {
	t.Helper()
	toks, err := lexer.LexInsecure([]byte(src))
	require.NoError(t, err)
	return toks
}

func TestTryEntityRefQualifiedAndBare(t *testing.T) {
	s := NewState(lex(t, "myspace.u"), InplaceData{})
	ref, err := s.TryEntityRef()
	require.NoError(t, err)
	assert.Equal(t, EntityRef{Space: "myspace", Model: "u"}, ref)
	assert.True(t, s.EOF())

	s2 := NewState(lex(t, "u"), InplaceData{})
	ref2, err := s2.TryEntityRef()
	require.NoError(t, err)
	assert.Equal(t, EntityRef{Model: "u"}, ref2)
}

func TestCursorRoundedEqFalseAtEOF(t *testing.T) {
	s := NewState(nil, InplaceData{})
	assert.False(t, s.CursorRoundedEq(lex(t, "x")[0]))
}

func TestParseCreateSpaceNoWith(t *testing.T) {
	stmt, err := Parse(lex(t, "CREATE SPACE myspace"), InplaceData{})
	require.NoError(t, err)
	cs, ok := stmt.(*CreateSpace)
	require.True(t, ok)
	assert.Equal(t, "myspace", cs.Name)
	assert.Nil(t, cs.With)
}

func TestParseCreateSpaceWithDict(t *testing.T) {
	stmt, err := Parse(lex(t, `CREATE SPACE myspace WITH { env: "prod", replicas: 3, }`), InplaceData{})
	require.NoError(t, err)
	cs := stmt.(*CreateSpace)
	require.NotNil(t, cs.With)
	env, ok := cs.With.Get("env")
	require.True(t, ok)
	assert.Equal(t, "prod", env.Str)
}

func TestParseDropSpaceForce(t *testing.T) {
	stmt, err := Parse(lex(t, "DROP SPACE myspace FORCE"), InplaceData{})
	require.NoError(t, err)
	ds := stmt.(*DropSpace)
	assert.True(t, ds.Force)
}

func TestParseCreateModelWithPrimaryAndListField(t *testing.T) {
	stmt, err := Parse(lex(t, `CREATE MODEL s.t ( id: uint64, tags: list { type: string }, PRIMARY id: uint64 )`), InplaceData{})
	require.NoError(t, err)
	cm := stmt.(*CreateModel)
	assert.Equal(t, EntityRef{Space: "s", Model: "t"}, cm.Entity)
	require.Len(t, cm.Fields, 3)

	assert.Equal(t, "id", cm.Fields[0].Name)
	assert.Equal(t, tag.SelUInt64, cm.Fields[0].Layer.Selector)
	assert.False(t, cm.Fields[0].Primary)

	assert.Equal(t, "tags", cm.Fields[1].Name)
	assert.Equal(t, tag.SelList, cm.Fields[1].Layer.Selector)
	require.NotNil(t, cm.Fields[1].Layer.Inner)
	assert.Equal(t, tag.SelStr, cm.Fields[1].Layer.Inner.Selector)

	assert.Equal(t, "id", cm.Fields[2].Name)
	assert.True(t, cm.Fields[2].Primary)
}

func TestParseCreateModelRowExample(t *testing.T) {
	stmt, err := Parse(lex(t, `CREATE MODEL myspace.u ( PRIMARY username: string, password: binary )`), InplaceData{})
	require.NoError(t, err)
	cm := stmt.(*CreateModel)
	require.Len(t, cm.Fields, 2)
	assert.True(t, cm.Fields[0].Primary)
	assert.Equal(t, tag.SelStr, cm.Fields[0].Layer.Selector)
	assert.Equal(t, tag.SelBin, cm.Fields[1].Layer.Selector)
}

func TestParseAlterModelAddRemoveUpdate(t *testing.T) {
	stmt, err := Parse(lex(t, `ALTER MODEL s.t ADD ( note: string )`), InplaceData{})
	require.NoError(t, err)
	am := stmt.(*AlterModel)
	assert.Equal(t, AlterAdd, am.Action)
	require.Len(t, am.Fields, 1)

	stmt2, err := Parse(lex(t, `ALTER MODEL s.t REMOVE ( note )`), InplaceData{})
	require.NoError(t, err)
	am2 := stmt2.(*AlterModel)
	assert.Equal(t, AlterRemove, am2.Action)
	assert.Equal(t, []string{"note"}, am2.Removed)

	stmt3, err := Parse(lex(t, `ALTER MODEL s.t UPDATE ( note: binary )`), InplaceData{})
	require.NoError(t, err)
	am3 := stmt3.(*AlterModel)
	assert.Equal(t, AlterUpdate, am3.Action)
	require.Len(t, am3.Fields, 1)
}

func TestParseDropModel(t *testing.T) {
	stmt, err := Parse(lex(t, `DROP MODEL s.t`), InplaceData{})
	require.NoError(t, err)
	dm := stmt.(*DropModel)
	assert.False(t, dm.Force)
	assert.Equal(t, EntityRef{Space: "s", Model: "t"}, dm.Entity)
}

func TestParseInsert(t *testing.T) {
	stmt, err := Parse(lex(t, `INSERT INTO myspace.u ( "sayan", "pw" )`), InplaceData{})
	require.NoError(t, err)
	ins := stmt.(*Insert)
	require.Len(t, ins.Values, 2)
	assert.Equal(t, "sayan", ins.Values[0].Str)
	assert.Equal(t, "pw", ins.Values[1].Str)
}

func TestParseSelectPlainWhereForm(t *testing.T) {
	stmt, err := Parse(lex(t, `SELECT password FROM myspace.u WHERE username = "sayan"`), InplaceData{})
	require.NoError(t, err)
	sel := stmt.(*Select)
	assert.Equal(t, []string{"password"}, sel.Columns)
	assert.Equal(t, "username", sel.KeyField)
	assert.Equal(t, "sayan", sel.Key.Str)
	assert.Nil(t, sel.List)
}

func TestParseSelectListGetForms(t *testing.T) {
	stmt, err := Parse(lex(t, `SELECT FROM s.t 1 LGET tags LEN`), InplaceData{})
	require.NoError(t, err)
	sel := stmt.(*Select)
	require.NotNil(t, sel.List)
	assert.Equal(t, "tags", sel.List.Field)
	assert.Equal(t, ListGetLen, sel.List.Mode)
	assert.Equal(t, uint64(1), sel.Key.UInt)

	stmt2, err := Parse(lex(t, `SELECT FROM s.t 1 LGET tags VALUEAT 1`), InplaceData{})
	require.NoError(t, err)
	sel2 := stmt2.(*Select)
	assert.Equal(t, ListGetValueAt, sel2.List.Mode)
	assert.Equal(t, uint64(1), sel2.List.Arg)

	stmt3, err := Parse(lex(t, `SELECT FROM s.t 2 LGET tags`), InplaceData{})
	require.NoError(t, err)
	sel3 := stmt3.(*Select)
	assert.Equal(t, ListGetAll, sel3.List.Mode)
}

func TestParseUpdateSetForm(t *testing.T) {
	stmt, err := Parse(lex(t, `UPDATE s.t 1 SET f = 9`), InplaceData{})
	require.NoError(t, err)
	up := stmt.(*Update)
	assert.Equal(t, uint64(1), up.Key.UInt)
	require.Len(t, up.Set, 1)
	assert.Equal(t, "f", up.Set[0].Field)
	assert.Equal(t, uint64(9), up.Set[0].Value.UInt)
	assert.Nil(t, up.List)
}

func TestParseUpdateLSetForm(t *testing.T) {
	stmt, err := Parse(lex(t, `UPDATE s.t 1 LSET tags ( "a", "b" )`), InplaceData{})
	require.NoError(t, err)
	up := stmt.(*Update)
	require.NotNil(t, up.List)
	assert.Equal(t, "tags", up.List.Field)
	require.Len(t, up.List.Values, 2)
	assert.Equal(t, "b", up.List.Values[1].Str)
}

func TestParseDelete(t *testing.T) {
	stmt, err := Parse(lex(t, `DELETE FROM s.t WHERE id = 1`), InplaceData{})
	require.NoError(t, err)
	del := stmt.(*Delete)
	assert.Equal(t, "id", del.KeyField)
	assert.Equal(t, uint64(1), del.Key.UInt)
}

func TestParseExists(t *testing.T) {
	stmt, err := Parse(lex(t, `EXISTS s.t 1`), InplaceData{})
	require.NoError(t, err)
	ex := stmt.(*Exists)
	assert.Equal(t, uint64(1), ex.Key.UInt)
}

func TestParseRejectsTrailingTokens(t *testing.T) {
	_, err := Parse(lex(t, `DROP SPACE myspace EXTRA`), InplaceData{})
	assert.Error(t, err)
}

func TestParseDictRejectsDuplicateKey(t *testing.T) {
	_, err := Parse(lex(t, `CREATE SPACE s WITH { a: 1, a: 2 }`), InplaceData{})
	assert.Error(t, err)
}

func TestParseEmptyQueryFails(t *testing.T) {
	_, err := Parse(nil, InplaceData{})
	assert.Error(t, err)
}

func TestParseStubStatementsRejectedAtTopLevel(t *testing.T) {
	_, err := Parse(lex(t, `USE myspace`), InplaceData{})
	assert.Error(t, err)
}
