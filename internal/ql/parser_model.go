package ql

import (
	"skytable/internal/dictval"
	"skytable/internal/errkind"
	"skytable/internal/lexer"
)

// CreateModel is `CREATE MODEL <space.model> ( <fieldspec>, … ) [WITH <dict>]`.
type CreateModel struct {
	Entity EntityRef
	Fields []*FieldSpec
	With   *dictval.Dict
}

func (*CreateModel) isStatement() {}

// AlterAction names one clause of an `ALTER MODEL` statement.
type AlterAction uint8

const (
	AlterAdd AlterAction = iota
	AlterRemove
	AlterUpdate
)

// AlterModel is `ALTER MODEL <space.model> (ADD|REMOVE|UPDATE) …`.
// ADD takes a field list like CREATE MODEL; REMOVE takes a bare field
// name list; UPDATE takes a field list whose layers replace the
// existing ones (narrowing is validated by internal/core, not here).
type AlterModel struct {
	Entity  EntityRef
	Action  AlterAction
	Fields  []*FieldSpec // ADD, UPDATE
	Removed []string     // REMOVE
}

func (*AlterModel) isStatement() {}

// DropModel is `DROP MODEL <space.model> [FORCE]`.
type DropModel struct {
	Entity EntityRef
	Force  bool
}

func (*DropModel) isStatement() {}

func parseModelStmt(s *State, action lexer.Kw) (Statement, error) {
	entity, err := s.TryEntityRef()
	if err != nil {
		return nil, err
	}
	switch action {
	case lexer.KwCREATE:
		fields, err := parseFieldSpecList(s)
		if err != nil {
			return nil, err
		}
		var with *dictval.Dict
		if s.CursorAheadIf(s.peekKeyword(lexer.KwWITH)) {
			with, err = parseDict(s)
			if err != nil {
				return nil, err
			}
		}
		return &CreateModel{Entity: entity, Fields: fields, With: with}, nil
	case lexer.KwALTER:
		return parseAlterModel(s, entity)
	case lexer.KwDROP:
		force := s.CursorAheadIf(s.peekKeyword(lexer.KwFORCE))
		return &DropModel{Entity: entity, Force: force}, nil
	default:
		return nil, errkind.New(errkind.Internal, "unreachable DDL action %v", action)
	}
}

func parseAlterModel(s *State, entity EntityRef) (Statement, error) {
	if s.EOF() || s.Read().Kind != lexer.Keyword {
		return nil, errkind.New(errkind.InvalidSyntax, "expected ADD, REMOVE, or UPDATE")
	}
	switch s.FwRead().Kw {
	case lexer.KwADD:
		fields, err := parseFieldSpecList(s)
		if err != nil {
			return nil, err
		}
		return &AlterModel{Entity: entity, Action: AlterAdd, Fields: fields}, nil
	case lexer.KwREMOVE:
		names, err := parseIdentList(s)
		if err != nil {
			return nil, err
		}
		return &AlterModel{Entity: entity, Action: AlterRemove, Removed: names}, nil
	case lexer.KwUPDATE:
		fields, err := parseFieldSpecList(s)
		if err != nil {
			return nil, err
		}
		return &AlterModel{Entity: entity, Action: AlterUpdate, Fields: fields}, nil
	default:
		return nil, errkind.New(errkind.UnsupportedAlter, "unsupported ALTER MODEL action")
	}
}

// parseFieldSpecList parses `( <fieldspec>, … )`.
func parseFieldSpecList(s *State) ([]*FieldSpec, error) {
	if err := s.expectSymbol(lexer.SymLParen); err != nil {
		return nil, err
	}
	var fields []*FieldSpec
	if s.peekKind(lexer.SymRParen) {
		s.CursorAhead()
		return fields, nil
	}
	for {
		f, err := parseFieldSpec(s)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
		if s.EOF() {
			return nil, errkind.New(errkind.UnexpectedEOF, "unterminated field list")
		}
		switch s.Read().Kind {
		case lexer.SymComma:
			s.CursorAhead()
			if s.peekKind(lexer.SymRParen) {
				s.CursorAhead()
				return fields, nil
			}
		case lexer.SymRParen:
			s.CursorAhead()
			return fields, nil
		default:
			return nil, errkind.New(errkind.BadFieldDefinition, "expected ',' or ')' in field list, got %v", s.Read())
		}
	}
}

// parseIdentList parses `( ident, … )`.
func parseIdentList(s *State) ([]string, error) {
	if err := s.expectSymbol(lexer.SymLParen); err != nil {
		return nil, err
	}
	var names []string
	if s.peekKind(lexer.SymRParen) {
		s.CursorAhead()
		return names, nil
	}
	for {
		name, err := s.expectIdent()
		if err != nil {
			return nil, errkind.New(errkind.InvalidSyntax, "expected identifier")
		}
		names = append(names, name)
		if s.EOF() {
			return nil, errkind.New(errkind.UnexpectedEOF, "unterminated identifier list")
		}
		switch s.Read().Kind {
		case lexer.SymComma:
			s.CursorAhead()
			if s.peekKind(lexer.SymRParen) {
				s.CursorAhead()
				return names, nil
			}
		case lexer.SymRParen:
			s.CursorAhead()
			return names, nil
		default:
			return nil, errkind.New(errkind.InvalidSyntax, "expected ',' or ')' in identifier list, got %v", s.Read())
		}
	}
}
