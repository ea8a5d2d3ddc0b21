package ql

import (
	"skytable/internal/dictval"
	"skytable/internal/errkind"
	"skytable/internal/lexer"
	"skytable/internal/tag"
)

// LayerSpec is one parsed `<layers>` production: a selector plus its
// property dict. A list layer's inner element type lives in Inner,
// populated by the tymeta entry whose key is "type".
type LayerSpec struct {
	Selector tag.Selector
	Props    map[string]dictval.Entry
	Inner    *LayerSpec
}

// FieldSpec is one parsed `<fieldspec>` production.
type FieldSpec struct {
	Name    string
	Primary bool
	Layer   *LayerSpec
}

func selectorFromTypeKeyword(kw lexer.Kw) (tag.Selector, error) {
	switch kw {
	case lexer.KwBOOL:
		return tag.SelBool, nil
	case lexer.KwSTRING:
		return tag.SelStr, nil
	case lexer.KwBINARY:
		return tag.SelBin, nil
	case lexer.KwUINT8:
		return tag.SelUInt8, nil
	case lexer.KwUINT16:
		return tag.SelUInt16, nil
	case lexer.KwUINT32:
		return tag.SelUInt32, nil
	case lexer.KwUINT64:
		return tag.SelUInt64, nil
	case lexer.KwSINT8:
		return tag.SelSInt8, nil
	case lexer.KwSINT16:
		return tag.SelSInt16, nil
	case lexer.KwSINT32:
		return tag.SelSInt32, nil
	case lexer.KwSINT64:
		return tag.SelSInt64, nil
	case lexer.KwFLOAT32:
		return tag.SelFloat32, nil
	case lexer.KwFLOAT64:
		return tag.SelFloat64, nil
	case lexer.KwLIST:
		return tag.SelList, nil
	default:
		return 0, errkind.New(errkind.BadFieldDefinition, "not a type keyword: %v", kw)
	}
}

// parseLayers parses `<typekw> [ '{' <tymeta> '}' ]`.
func parseLayers(s *State) (*LayerSpec, error) {
	if s.EOF() || s.Read().Kind != lexer.Keyword || !lexer.IsTypeKeyword(s.Read().Kw) {
		return nil, errkind.New(errkind.BadFieldDefinition, "expected a type keyword")
	}
	sel, err := selectorFromTypeKeyword(s.FwRead().Kw)
	if err != nil {
		return nil, err
	}
	layer := &LayerSpec{Selector: sel, Props: map[string]dictval.Entry{}}
	if !s.peekKind(lexer.SymLBrace) {
		return layer, nil
	}
	s.CursorAhead()
	if s.peekKind(lexer.SymRBrace) {
		s.CursorAhead()
		return layer, nil
	}
	for {
		key, err := s.expectIdent()
		if err != nil {
			return nil, errkind.New(errkind.BadFieldDefinition, "expected tymeta key")
		}
		if err := s.expectSymbol(lexer.SymColon); err != nil {
			return nil, err
		}
		if key == "type" {
			inner, err := parseLayers(s)
			if err != nil {
				return nil, err
			}
			layer.Inner = inner
		} else {
			val, err := parseDictValue(s)
			if err != nil {
				return nil, err
			}
			if _, dup := layer.Props[key]; dup {
				return nil, errkind.New(errkind.BadFieldDefinition, "duplicate tymeta key %q", key)
			}
			layer.Props[key] = val
		}
		if s.EOF() {
			return nil, errkind.New(errkind.UnexpectedEOF, "unterminated tymeta")
		}
		switch s.Read().Kind {
		case lexer.SymComma:
			s.CursorAhead()
			if s.peekKind(lexer.SymRBrace) {
				s.CursorAhead()
				return layer, nil
			}
		case lexer.SymRBrace:
			s.CursorAhead()
			return layer, nil
		default:
			return nil, errkind.New(errkind.BadFieldDefinition, "expected ',' or '}' in tymeta, got %v", s.Read())
		}
	}
}

// parseFieldSpec parses `<ident> ':' <layers>` or `PRIMARY <ident> ':' <layers>`.
func parseFieldSpec(s *State) (*FieldSpec, error) {
	primary := s.CursorAheadIf(s.peekKeyword(lexer.KwPRIMARY))
	name, err := s.expectIdent()
	if err != nil {
		return nil, errkind.New(errkind.BadFieldDefinition, "expected field name")
	}
	if err := s.expectSymbol(lexer.SymColon); err != nil {
		return nil, err
	}
	layer, err := parseLayers(s)
	if err != nil {
		return nil, err
	}
	return &FieldSpec{Name: name, Primary: primary, Layer: layer}, nil
}
