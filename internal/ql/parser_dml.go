package ql

import (
	"skytable/internal/dictval"
	"skytable/internal/errkind"
	"skytable/internal/lexer"
)

// Insert is `INSERT INTO <space.model> ( value, … )`: a positional
// value list in the model's declared field order, dispatched onto the
// KV engine's SET operation.
type Insert struct {
	Entity EntityRef
	Values []dictval.Entry
}

func (*Insert) isStatement() {}

// ListGetMode selects which LGET variant a Select's list clause runs.
type ListGetMode uint8

const (
	ListGetAll ListGetMode = iota
	ListGetLen
	ListGetLimit
	ListGetValueAt
)

// ListGet is the `LGET <field> [LEN | LIMIT n | VALUEAT i]` clause,
// dispatched onto the list engine's read operations (§4.7).
type ListGet struct {
	Field string
	Mode  ListGetMode
	Arg   uint64 // meaningful for ListGetLimit, ListGetValueAt
}

// Select covers both the deferred-semantics plain column select
// (`SELECT cols FROM entity WHERE pk = value`) and the list-read form
// (`SELECT FROM entity value LGET field ...`), distinguished by
// whether List is set.
type Select struct {
	Entity   EntityRef
	Columns  []string // plain form only
	KeyField string    // plain form only
	Key      dictval.Entry
	List     *ListGet // nil for the plain form
}

func (*Select) isStatement() {}

// ListSet is the `LSET field ( value, … )` clause, dispatched onto the
// list engine's LSET operation (insert-only-if-absent).
type ListSet struct {
	Field  string
	Values []dictval.Entry
}

// Assignment is one `field = value` clause of an UPDATE's SET list.
type Assignment struct {
	Field string
	Value dictval.Entry
}

// Update covers both the plain `SET field = value, …` mutation and the
// list-mutating `LSET field ( value, … )` form.
type Update struct {
	Entity EntityRef
	Key    dictval.Entry
	Set    []Assignment // plain form only
	List   *ListSet     // non-nil for the list form
}

func (*Update) isStatement() {}

// Delete is `DELETE FROM <space.model> WHERE <ident> = <value>`.
type Delete struct {
	Entity   EntityRef
	KeyField string
	Key      dictval.Entry
}

func (*Delete) isStatement() {}

// Exists is `EXISTS <space.model> <value>`.
type Exists struct {
	Entity EntityRef
	Key    dictval.Entry
}

func (*Exists) isStatement() {}

// parseScalarValue parses a bare literal — a DML value position never
// accepts a nested dict the way a dict literal's value does.
func parseScalarValue(s *State) (dictval.Entry, error) {
	if s.EOF() {
		return dictval.Entry{}, errkind.New(errkind.UnexpectedEOF, "expected a value")
	}
	tok := s.Read()
	switch tok.Kind {
	case lexer.LitBool:
		s.CursorAhead()
		return dictval.BoolEntry(tok.Bool), nil
	case lexer.LitUint:
		s.CursorAhead()
		return dictval.UIntEntry(tok.Uint), nil
	case lexer.LitSint:
		s.CursorAhead()
		return dictval.SIntEntry(tok.Sint), nil
	case lexer.LitFloat:
		s.CursorAhead()
		return dictval.FloatEntry(tok.Flt), nil
	case lexer.LitStr:
		s.CursorAhead()
		return dictval.StrEntry(tok.Str), nil
	case lexer.LitBin:
		s.CursorAhead()
		return dictval.BinEntry(tok.Bin), nil
	default:
		return dictval.Entry{}, errkind.New(errkind.InvalidSyntax, "expected a literal value, got %v", tok)
	}
}

func parseValueList(s *State) ([]dictval.Entry, error) {
	if err := s.expectSymbol(lexer.SymLParen); err != nil {
		return nil, err
	}
	var values []dictval.Entry
	if s.peekKind(lexer.SymRParen) {
		s.CursorAhead()
		return values, nil
	}
	for {
		v, err := parseScalarValue(s)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		if s.EOF() {
			return nil, errkind.New(errkind.UnexpectedEOF, "unterminated value list")
		}
		switch s.Read().Kind {
		case lexer.SymComma:
			s.CursorAhead()
			if s.peekKind(lexer.SymRParen) {
				s.CursorAhead()
				return values, nil
			}
		case lexer.SymRParen:
			s.CursorAhead()
			return values, nil
		default:
			return nil, errkind.New(errkind.InvalidSyntax, "expected ',' or ')' in value list, got %v", s.Read())
		}
	}
}

func parseInsert(s *State) (Statement, error) {
	s.CursorAhead() // INSERT
	if err := s.expectKeyword(lexer.KwINTO); err != nil {
		return nil, err
	}
	entity, err := s.TryEntityRef()
	if err != nil {
		return nil, err
	}
	values, err := parseValueList(s)
	if err != nil {
		return nil, err
	}
	return &Insert{Entity: entity, Values: values}, nil
}

func parseSelect(s *State) (Statement, error) {
	s.CursorAhead() // SELECT
	if s.peekKeyword(lexer.KwFROM) {
		s.CursorAhead()
		entity, err := s.TryEntityRef()
		if err != nil {
			return nil, err
		}
		key, err := parseScalarValue(s)
		if err != nil {
			return nil, err
		}
		if err := s.expectKeyword(lexer.KwLGET); err != nil {
			return nil, err
		}
		field, err := s.expectIdent()
		if err != nil {
			return nil, errkind.New(errkind.InvalidSyntax, "expected field name after LGET")
		}
		lg := &ListGet{Field: field, Mode: ListGetAll}
		switch {
		case s.CursorAheadIf(s.peekKeyword(lexer.KwLEN)):
			lg.Mode = ListGetLen
		case s.peekKeyword(lexer.KwLIMIT):
			s.CursorAhead()
			n, err := s.expectUint()
			if err != nil {
				return nil, err
			}
			lg.Mode, lg.Arg = ListGetLimit, n
		case s.peekKeyword(lexer.KwVALUEAT):
			s.CursorAhead()
			n, err := s.expectUint()
			if err != nil {
				return nil, err
			}
			lg.Mode, lg.Arg = ListGetValueAt, n
		}
		return &Select{Entity: entity, Key: key, List: lg}, nil
	}

	cols, err := parseIdentListNoParens(s)
	if err != nil {
		return nil, err
	}
	if err := s.expectKeyword(lexer.KwFROM); err != nil {
		return nil, err
	}
	entity, err := s.TryEntityRef()
	if err != nil {
		return nil, err
	}
	if err := s.expectKeyword(lexer.KwWHERE); err != nil {
		return nil, err
	}
	keyField, key, err := parseWhereEquality(s)
	if err != nil {
		return nil, err
	}
	return &Select{Entity: entity, Columns: cols, KeyField: keyField, Key: key}, nil
}

func parseUpdate(s *State) (Statement, error) {
	s.CursorAhead() // UPDATE
	entity, err := s.TryEntityRef()
	if err != nil {
		return nil, err
	}
	key, err := parseScalarValue(s)
	if err != nil {
		return nil, err
	}
	if s.CursorAheadIf(s.peekKeyword(lexer.KwLSET)) {
		field, err := s.expectIdent()
		if err != nil {
			return nil, errkind.New(errkind.InvalidSyntax, "expected field name after LSET")
		}
		values, err := parseValueList(s)
		if err != nil {
			return nil, err
		}
		return &Update{Entity: entity, Key: key, List: &ListSet{Field: field, Values: values}}, nil
	}
	if err := s.expectKeyword(lexer.KwSET); err != nil {
		return nil, err
	}
	var assigns []Assignment
	for {
		field, err := s.expectIdent()
		if err != nil {
			return nil, errkind.New(errkind.InvalidSyntax, "expected field name in SET clause")
		}
		if err := s.expectSymbol(lexer.SymEq); err != nil {
			return nil, err
		}
		val, err := parseScalarValue(s)
		if err != nil {
			return nil, err
		}
		assigns = append(assigns, Assignment{Field: field, Value: val})
		if !s.CursorAheadIf(s.peekKind(lexer.SymComma)) {
			break
		}
	}
	return &Update{Entity: entity, Key: key, Set: assigns}, nil
}

func parseDelete(s *State) (Statement, error) {
	s.CursorAhead() // DELETE
	if err := s.expectKeyword(lexer.KwFROM); err != nil {
		return nil, err
	}
	entity, err := s.TryEntityRef()
	if err != nil {
		return nil, err
	}
	if err := s.expectKeyword(lexer.KwWHERE); err != nil {
		return nil, err
	}
	keyField, key, err := parseWhereEquality(s)
	if err != nil {
		return nil, err
	}
	return &Delete{Entity: entity, KeyField: keyField, Key: key}, nil
}

func parseExists(s *State) (Statement, error) {
	s.CursorAhead() // EXISTS
	entity, err := s.TryEntityRef()
	if err != nil {
		return nil, err
	}
	key, err := parseScalarValue(s)
	if err != nil {
		return nil, err
	}
	return &Exists{Entity: entity, Key: key}, nil
}

func parseWhereEquality(s *State) (field string, val dictval.Entry, err error) {
	field, err = s.expectIdent()
	if err != nil {
		return "", dictval.Entry{}, errkind.New(errkind.InvalidSyntax, "expected field name in WHERE clause")
	}
	if err := s.expectSymbol(lexer.SymEq); err != nil {
		return "", dictval.Entry{}, err
	}
	val, err = parseScalarValue(s)
	if err != nil {
		return "", dictval.Entry{}, err
	}
	return field, val, nil
}

// parseIdentListNoParens parses `ident (',' ident)*` with no
// surrounding parentheses, used for SELECT's column list.
func parseIdentListNoParens(s *State) ([]string, error) {
	var names []string
	for {
		name, err := s.expectIdent()
		if err != nil {
			return nil, errkind.New(errkind.InvalidSyntax, "expected column name")
		}
		names = append(names, name)
		if !s.CursorAheadIf(s.peekKind(lexer.SymComma)) {
			return names, nil
		}
	}
}

// expectUint consumes an unsigned integer literal, used by LIMIT and
// VALUEAT which never take a negative argument.
func (s *State) expectUint() (uint64, error) {
	if s.EOF() || s.Read().Kind != lexer.LitUint {
		return 0, errkind.New(errkind.InvalidSyntax, "expected an unsigned integer")
	}
	return s.FwRead().Uint, nil
}
