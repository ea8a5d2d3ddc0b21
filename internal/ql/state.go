// Package ql implements the recursive-descent parser that turns a
// lexer.Token stream into a typed statement AST. The parser never
// trusts an unchecked lookahead: every cursor movement is guarded by
// an EOF check first, mirroring the scan.Scanner pretest-then-read
// discipline the lexer itself follows.
package ql

import (
	"skytable/internal/errkind"
	"skytable/internal/lexer"
)

// QueryData marks whether a State's tokens originated from a
// fully-inline query (InplaceData) or from a template plus a
// substituted parameter segment (SubstitutedData). The distinction
// carries no parsing behavior of its own — by the time tokens reach
// State, lexer.SecureLex has already resolved every parameter into a
// literal token — and nothing downstream branches on it either:
// internal/exec always passes SubstitutedData{}.
type QueryData interface {
	queryData()
}

type InplaceData struct{}

func (InplaceData) queryData() {}

type SubstitutedData struct{}

func (SubstitutedData) queryData() {}

// State is a forward-only cursor over a statement's token stream.
type State struct {
	toks []lexer.Token
	pos  int
	data QueryData
}

// NewState wraps toks for parsing. data records whether toks came from
// an inline query or a secure-lexed template; it carries no parsing
// effect.
func NewState(toks []lexer.Token, data QueryData) *State {
	return &State{toks: toks, data: data}
}

// Data returns the QueryData this State was constructed with.
func (s *State) Data() QueryData { return s.data }

// EOF reports whether every token has been consumed.
func (s *State) EOF() bool { return s.pos >= len(s.toks) }

// Remaining returns the number of unconsumed tokens.
func (s *State) Remaining() int { return len(s.toks) - s.pos }

// Cursor returns the current token index.
func (s *State) Cursor() int { return s.pos }

// Current returns the unconsumed tail of the token stream.
func (s *State) Current() []lexer.Token { return s.toks[s.pos:] }

// Read returns the token at the cursor without consuming it. Caller
// must pretest !EOF().
func (s *State) Read() lexer.Token { return s.toks[s.pos] }

// FwRead returns the token at the cursor and advances past it. Caller
// must pretest !EOF().
func (s *State) FwRead() lexer.Token {
	t := s.toks[s.pos]
	s.pos++
	return t
}

// CursorAhead advances the cursor by one token unconditionally. Caller
// must pretest !EOF().
func (s *State) CursorAhead() { s.pos++ }

// CursorAheadIf advances the cursor by one token iff cond is true,
// returning cond. Used to consume an optional token (e.g. a trailing
// FORCE) only after the caller has already matched it by peeking.
func (s *State) CursorAheadIf(cond bool) bool {
	if cond {
		s.pos++
	}
	return cond
}

// CursorRoundedEq reports whether the current token equals t, without
// ever panicking: at EOF it reports false rather than indexing past
// the end of the stream.
func (s *State) CursorRoundedEq(t lexer.Token) bool {
	if s.EOF() {
		return false
	}
	return s.Read().Equal(t)
}

// expect consumes the current token if it is the keyword kw, else
// returns a syntax error. It never panics on an empty stream.
func (s *State) expectKeyword(kw lexer.Kw) error {
	if s.EOF() || s.Read().Kind != lexer.Keyword || s.Read().Kw != kw {
		return errkind.New(errkind.ExpectedStatement, "expected keyword %v", kw)
	}
	s.CursorAhead()
	return nil
}

func (s *State) expectSymbol(k lexer.Kind) error {
	if s.EOF() || s.Read().Kind != k {
		return errkind.New(errkind.InvalidSyntax, "expected %v", k)
	}
	s.CursorAhead()
	return nil
}

func (s *State) expectIdent() (string, error) {
	if s.EOF() || s.Read().Kind != lexer.Ident {
		return "", errkind.New(errkind.InvalidSyntax, "expected identifier")
	}
	return s.FwRead().Id, nil
}

// peekKeyword reports whether the current token is the keyword kw,
// without consuming it and without panicking at EOF.
func (s *State) peekKeyword(kw lexer.Kw) bool {
	return !s.EOF() && s.Read().Kind == lexer.Keyword && s.Read().Kw == kw
}

func (s *State) peekKind(k lexer.Kind) bool {
	return !s.EOF() && s.Read().Kind == k
}
