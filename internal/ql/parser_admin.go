package ql

import (
	"skytable/internal/errkind"
	"skytable/internal/lexer"
)

// Use is `USE <ident>`, selecting the active space for unqualified
// entity references on the issuing connection. Stateless per
// dispatch() (spec.md §9 lists USE's detailed semantics as deferred);
// the handler only validates the named space exists.
type Use struct {
	Space string
}

func (*Use) isStatement() {}

// InspectSpace is `INSPECT SPACE <ident>`; it answers with the named
// space's property dict, the only INSPECT target spec.md's worked
// example exercises (`CREATE SPACE myspace` then `INSPECT SPACE
// myspace` -> `{}`).
type InspectSpace struct {
	Name string
}

func (*InspectSpace) isStatement() {}

// DescribeSpace is `DESCRIBE SPACE <ident>`.
type DescribeSpace struct {
	Name string
}

func (*DescribeSpace) isStatement() {}

// DescribeModel is `DESCRIBE MODEL <space.model>`.
type DescribeModel struct {
	Entity EntityRef
}

func (*DescribeModel) isStatement() {}

// Sysctl is `SYSCTL <ident>`. spec.md §9 explicitly leaves
// blocking_exec_sysctl's semantics unspecified ("do not guess"); this
// only recognizes the statement shape so it routes to the blocking
// dispatch slot reserved for it. The executor's handler reports it
// unimplemented rather than inventing behavior for Action.
type Sysctl struct {
	Action string
}

func (*Sysctl) isStatement() {}

func parseUse(s *State) (Statement, error) {
	s.CursorAhead() // USE
	name, err := s.expectIdent()
	if err != nil {
		return nil, errkind.New(errkind.InvalidSyntax, "expected space name after USE")
	}
	return &Use{Space: name}, nil
}

func parseInspect(s *State) (Statement, error) {
	s.CursorAhead() // INSPECT
	if err := s.expectKeyword(lexer.KwSPACE); err != nil {
		return nil, errkind.New(errkind.InvalidSyntax, "only INSPECT SPACE is supported")
	}
	name, err := s.expectIdent()
	if err != nil {
		return nil, errkind.New(errkind.InvalidSyntax, "expected space name after INSPECT SPACE")
	}
	return &InspectSpace{Name: name}, nil
}

func parseDescribe(s *State) (Statement, error) {
	s.CursorAhead() // DESCRIBE
	if s.EOF() || s.Read().Kind != lexer.Keyword {
		return nil, errkind.New(errkind.InvalidSyntax, "expected SPACE or MODEL after DESCRIBE")
	}
	switch s.Read().Kw {
	case lexer.KwSPACE:
		s.CursorAhead()
		name, err := s.expectIdent()
		if err != nil {
			return nil, errkind.New(errkind.InvalidSyntax, "expected space name after DESCRIBE SPACE")
		}
		return &DescribeSpace{Name: name}, nil
	case lexer.KwMODEL:
		s.CursorAhead()
		entity, err := s.TryEntityRef()
		if err != nil {
			return nil, err
		}
		return &DescribeModel{Entity: entity}, nil
	default:
		return nil, errkind.New(errkind.WrongEntity, "expected SPACE or MODEL after DESCRIBE")
	}
}

func parseSysctl(s *State) (Statement, error) {
	s.CursorAhead() // SYSCTL
	action, err := s.expectIdent()
	if err != nil {
		return nil, errkind.New(errkind.InvalidSyntax, "expected an action identifier after SYSCTL")
	}
	return &Sysctl{Action: action}, nil
}
