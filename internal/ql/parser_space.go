package ql

import (
	"skytable/internal/dictval"
	"skytable/internal/errkind"
	"skytable/internal/lexer"
)

// CreateSpace is `CREATE SPACE <ident> [WITH <dict>]`.
type CreateSpace struct {
	Name string
	With *dictval.Dict // nil if WITH omitted
}

func (*CreateSpace) isStatement() {}

// AlterSpace is `ALTER SPACE <ident> WITH <dict>`.
type AlterSpace struct {
	Name string
	With *dictval.Dict
}

func (*AlterSpace) isStatement() {}

// DropSpace is `DROP SPACE <ident> [FORCE]`.
type DropSpace struct {
	Name  string
	Force bool
}

func (*DropSpace) isStatement() {}

// parseSpaceStmt parses the tail of a SPACE statement; action is
// already-consumed CREATE/ALTER/DROP and SPACE has also been consumed
// by the caller.
func parseSpaceStmt(s *State, action lexer.Kw) (Statement, error) {
	name, err := s.expectIdent()
	if err != nil {
		return nil, errkind.New(errkind.InvalidSyntax, "expected space name")
	}
	switch action {
	case lexer.KwCREATE:
		var with *dictval.Dict
		if s.CursorAheadIf(s.peekKeyword(lexer.KwWITH)) {
			with, err = parseDict(s)
			if err != nil {
				return nil, err
			}
		}
		return &CreateSpace{Name: name, With: with}, nil
	case lexer.KwALTER:
		if err := s.expectKeyword(lexer.KwWITH); err != nil {
			return nil, errkind.New(errkind.InvalidSyntax, "ALTER SPACE requires WITH <dict>")
		}
		with, err := parseDict(s)
		if err != nil {
			return nil, err
		}
		return &AlterSpace{Name: name, With: with}, nil
	case lexer.KwDROP:
		force := s.CursorAheadIf(s.peekKeyword(lexer.KwFORCE))
		return &DropSpace{Name: name, Force: force}, nil
	default:
		return nil, errkind.New(errkind.Internal, "unreachable DDL action %v", action)
	}
}
