package ql

import (
	"skytable/internal/dictval"
	"skytable/internal/errkind"
	"skytable/internal/lexer"
)

// parseDict parses `{ key: value (, key: value)* [,] }`. Trailing
// commas are accepted, an empty dict is legal, and a duplicate key
// within the same dict is a parse error.
func parseDict(s *State) (*dictval.Dict, error) {
	if err := s.expectSymbol(lexer.SymLBrace); err != nil {
		return nil, err
	}
	d := dictval.New()
	if s.peekKind(lexer.SymRBrace) {
		s.CursorAhead()
		return d, nil
	}
	for {
		key, err := s.expectIdent()
		if err != nil {
			return nil, errkind.New(errkind.InvalidSyntax, "expected dict key")
		}
		if err := s.expectSymbol(lexer.SymColon); err != nil {
			return nil, err
		}
		val, err := parseDictValue(s)
		if err != nil {
			return nil, err
		}
		if err := d.Set(key, val); err != nil {
			return nil, errkind.New(errkind.InvalidSyntax, "%v", err)
		}

		if s.EOF() {
			return nil, errkind.New(errkind.UnexpectedEOF, "unterminated dict")
		}
		switch s.Read().Kind {
		case lexer.SymComma:
			s.CursorAhead()
			if s.peekKind(lexer.SymRBrace) {
				s.CursorAhead()
				return d, nil
			}
		case lexer.SymRBrace:
			s.CursorAhead()
			return d, nil
		default:
			return nil, errkind.New(errkind.InvalidSyntax, "expected ',' or '}' in dict, got %v", s.Read())
		}
	}
}

// parseDictValue parses a literal or a nested dict, the two value
// forms a generic <dict> literal permits (tymeta's extra "nested
// layer" alternative is handled separately by parseLayers, not here).
func parseDictValue(s *State) (dictval.Entry, error) {
	if s.EOF() {
		return dictval.Entry{}, errkind.New(errkind.UnexpectedEOF, "expected dict value")
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
	case lexer.SymLBrace:
		nested, err := parseDict(s)
		if err != nil {
			return dictval.Entry{}, err
		}
		return dictval.DictEntryOf(nested), nil
	default:
		return dictval.Entry{}, errkind.New(errkind.InvalidSyntax, "expected a literal or nested dict, got %v", tok)
	}
}
