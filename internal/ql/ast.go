package ql

import (
	"skytable/internal/errkind"
	"skytable/internal/lexer"
)

// EntityRef names a model, optionally qualified by its owning space
// (the `<space.model>` grammar production). An unqualified reference
// relies on the session's USE-d space.
type EntityRef struct {
	Space string // empty if unqualified
	Model string
}

// Qualified reports whether the reference named its space explicitly.
func (e EntityRef) Qualified() bool { return e.Space != "" }

// TryEntityRef parses `<ident>` or `<ident> '.' <ident>`. The first
// form yields a Model-only EntityRef; the second yields Space.Model.
func (s *State) TryEntityRef() (EntityRef, error) {
	first, err := s.expectIdent()
	if err != nil {
		return EntityRef{}, errkind.New(errkind.InvalidSyntax, "expected entity reference")
	}
	if s.peekKind(lexer.SymDot) {
		s.CursorAhead()
		second, err := s.expectIdent()
		if err != nil {
			return EntityRef{}, errkind.New(errkind.InvalidSyntax, "expected model name after '.'")
		}
		return EntityRef{Space: first, Model: second}, nil
	}
	return EntityRef{Model: first}, nil
}

// Statement is implemented by every top-level AST node. Every
// statement in this grammar must use its full allotted token range —
// Parse verifies that after a node's own parse function returns, no
// tokens are left over.
type Statement interface {
	isStatement()
}

// Parse consumes the entire token stream toks as one statement,
// dispatching on the leading keyword. It fails if any tokens remain
// unconsumed after the statement-specific parser returns.
func Parse(toks []lexer.Token, data QueryData) (Statement, error) {
	s := NewState(toks, data)
	if s.EOF() {
		return nil, errkind.New(errkind.UnexpectedEOF, "empty query")
	}
	lead := s.Read()
	if lead.Kind != lexer.Keyword || !lexer.IsStatementKeyword(lead.Kw) {
		return nil, errkind.New(errkind.ExpectedStatement, "expected a statement keyword, got %v", lead)
	}

	var (
		stmt Statement
		err  error
	)
	switch lead.Kw {
	case lexer.KwCREATE, lexer.KwALTER, lexer.KwDROP:
		stmt, err = parseDDL(s)
	case lexer.KwINSERT:
		stmt, err = parseInsert(s)
	case lexer.KwSELECT:
		stmt, err = parseSelect(s)
	case lexer.KwUPDATE:
		stmt, err = parseUpdate(s)
	case lexer.KwDELETE:
		stmt, err = parseDelete(s)
	case lexer.KwEXISTS:
		stmt, err = parseExists(s)
	case lexer.KwUSE:
		stmt, err = parseUse(s)
	case lexer.KwINSPECT:
		stmt, err = parseInspect(s)
	case lexer.KwDESCRIBE:
		stmt, err = parseDescribe(s)
	case lexer.KwSYSCTL:
		stmt, err = parseSysctl(s)
	default:
		return nil, errkind.New(errkind.UnknownKeyword, "unhandled statement keyword %v", lead.Kw)
	}
	if err != nil {
		return nil, err
	}
	if !s.EOF() {
		return nil, errkind.New(errkind.InvalidSyntax, "unexpected trailing tokens after statement (%d left)", s.Remaining())
	}
	return stmt, nil
}

func parseDDL(s *State) (Statement, error) {
	action := s.FwRead().Kw // CREATE, ALTER, or DROP already matched by caller
	if s.EOF() {
		return nil, errkind.New(errkind.UnexpectedEOF, "expected SPACE or MODEL after %v", action)
	}
	entity := s.Read()
	switch {
	case entity.Kind == lexer.Keyword && entity.Kw == lexer.KwSPACE:
		s.CursorAhead()
		return parseSpaceStmt(s, action)
	case entity.Kind == lexer.Keyword && entity.Kw == lexer.KwMODEL:
		s.CursorAhead()
		return parseModelStmt(s, action)
	default:
		return nil, errkind.New(errkind.WrongEntity, "expected SPACE or MODEL, got %v", entity)
	}
}
