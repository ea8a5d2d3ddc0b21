package lexer

import (
	"math"
	"unicode/utf8"

	"skytable/internal/errkind"
	"skytable/internal/scan"
	"skytable/internal/tag"
)

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

// LexInsecure tokenizes a self-contained source buffer: inline string,
// numeric, and bool literals; identifiers; keywords; punctuation.
// Untrusted application data should go through SecureLex instead.
func LexInsecure(src []byte) ([]Token, error) {
	s := scan.New(src)
	var out scan.UArray[Token]
	for !s.EOF() {
		skipSpace(s)
		if s.EOF() {
			break
		}
		b := s.Peek()
		switch {
		case isIdentStart(b):
			out.Push(lexIdentOrKeywordOrBool(s))
		case isDigit(b) || (b == '-' && s.HasLeft(2) && isDigit(s.PeekAt(1))):
			tok, err := lexNumber(s)
			if err != nil {
				return nil, err
			}
			out.Push(tok)
		case b == '\'' || b == '"':
			tok, err := lexString(s)
			if err != nil {
				return nil, err
			}
			out.Push(tok)
		default:
			tok, err := lexSymbol(s)
			if err != nil {
				return nil, err
			}
			out.Push(tok)
		}
	}
	return out.Slice(), nil
}

func skipSpace(s *scan.Scanner) {
	for !s.EOF() && isSpace(s.Peek()) {
		s.Advance(1)
	}
}

func lexIdentOrKeywordOrBool(s *scan.Scanner) Token {
	start := s.Cursor()
	for !s.EOF() && isIdentCont(s.Peek()) {
		s.Advance(1)
	}
	raw := string(s.SliceFrom(start))
	switch {
	case equalFold(raw, "true"):
		return boolTok(true)
	case equalFold(raw, "false"):
		return boolTok(false)
	}
	if kw, ok := LookupKeyword(raw); ok {
		return kwTok(kw)
	}
	return identTok(raw)
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func lexNumber(s *scan.Scanner) (Token, error) {
	start := s.Cursor()
	neg := false
	if s.Peek() == '-' {
		neg = true
		s.Advance(1)
	}
	if s.EOF() || !isDigit(s.Peek()) {
		return Token{}, errkind.New(errkind.InvalidNumberLiteral, "expected digit at offset %d", s.Cursor())
	}
	for !s.EOF() && isDigit(s.Peek()) {
		s.Advance(1)
	}
	raw := string(s.SliceFrom(start))
	if neg {
		v, err := parseInt(raw)
		if err != nil {
			return Token{}, errkind.New(errkind.InvalidNumberLiteral, "invalid signed literal %q", raw)
		}
		return sintTok(v), nil
	}
	v, err := parseUint(raw)
	if err != nil {
		return Token{}, errkind.New(errkind.InvalidNumberLiteral, "invalid unsigned literal %q", raw)
	}
	return uintTok(v), nil
}

func parseUint(s string) (uint64, error) {
	var v uint64
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return 0, errkind.New(errkind.InvalidNumberLiteral, "non-digit in %q", s)
		}
		v = v*10 + uint64(s[i]-'0')
	}
	return v, nil
}

func parseInt(s string) (int64, error) {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	u, err := parseUint(s)
	if err != nil {
		return 0, err
	}
	if neg {
		return -int64(u), nil
	}
	return int64(u), nil
}

func lexString(s *scan.Scanner) (Token, error) {
	quote := s.NextByte()
	var buf []byte
	for {
		if s.EOF() {
			return Token{}, errkind.New(errkind.InvalidStringLiteral, "unterminated string literal")
		}
		b := s.NextByte()
		if b == quote {
			return strTok(string(buf)), nil
		}
		if b == '\\' {
			if s.EOF() {
				return Token{}, errkind.New(errkind.InvalidStringLiteral, "unterminated escape sequence")
			}
			esc := s.NextByte()
			switch esc {
			case '\\':
				buf = append(buf, '\\')
			case '\'':
				buf = append(buf, '\'')
			case '"':
				buf = append(buf, '"')
			default:
				return Token{}, errkind.New(errkind.InvalidStringLiteral, "invalid escape sequence \\%c", esc)
			}
			continue
		}
		buf = append(buf, b)
	}
}

func lexSymbol(s *scan.Scanner) (Token, error) {
	b := s.NextByte()
	switch b {
	case '{':
		return symTok(SymLBrace), nil
	case '}':
		return symTok(SymRBrace), nil
	case '(':
		return symTok(SymLParen), nil
	case ')':
		return symTok(SymRParen), nil
	case ',':
		return symTok(SymComma), nil
	case ':':
		return symTok(SymColon), nil
	case ';':
		return symTok(SymSemicolon), nil
	case '.':
		return symTok(SymDot), nil
	case '=':
		return symTok(SymEq), nil
	default:
		return Token{}, errkind.New(errkind.InvalidSyntax, "unexpected byte %q", b)
	}
}

// SecureLex tokenizes a query template plus a separate parameter
// segment. Each '?' in the template consumes the next parameter from
// params. The template may contain keywords, identifiers, and
// punctuation exactly as LexInsecure would tokenize them, but never a
// bare quoted string or bare number standing in for application data
// — those must travel through the parameter segment as a '?'.
func SecureLex(template []byte, params []byte) ([]Token, error) {
	s := scan.New(template)
	ps := scan.New(params)
	var out scan.UArray[Token]
	for !s.EOF() {
		skipSpace(s)
		if s.EOF() {
			break
		}
		b := s.Peek()
		switch {
		case b == '?':
			s.Advance(1)
			tok, err := nextParam(ps)
			if err != nil {
				return nil, err
			}
			out.Push(tok)
		case isIdentStart(b):
			out.Push(lexIdentOrKeywordOrBool(s))
		case isDigit(b) || (b == '-' && s.HasLeft(2) && isDigit(s.PeekAt(1))):
			return nil, errkind.New(errkind.InvalidSyntax, "inline numeric literal not permitted in secure mode; use a ? placeholder")
		case b == '\'' || b == '"':
			return nil, errkind.New(errkind.InvalidStringLiteral, "inline string literal not permitted in secure mode; use a ? placeholder")
		default:
			tok, err := lexSymbol(s)
			if err != nil {
				return nil, err
			}
			out.Push(tok)
		}
	}
	return out.Slice(), nil
}

// nextParam reads one length-typed parameter: a 1-byte class tag
// (bool/uint/sint/float/bin/str — List is not a legal parameter
// class), an 8-byte little-endian length, and that many raw bytes.
func nextParam(ps *scan.Scanner) (Token, error) {
	rawTag, ok := ps.NextByteChecked()
	if !ok {
		return Token{}, errkind.New(errkind.BadParameter, "no parameter available for ?")
	}
	if !tag.ValidClass(rawTag) {
		return Token{}, errkind.New(errkind.BadParameter, "invalid parameter class byte %d", rawTag)
	}
	class := tag.Class(rawTag)
	length, ok := ps.NextU64LEChecked()
	if !ok {
		return Token{}, errkind.New(errkind.BadParameter, "truncated parameter length")
	}
	payload, ok := ps.NextChunkU64Checked(length)
	if !ok {
		return Token{}, errkind.New(errkind.BadParameter, "truncated parameter payload")
	}
	switch class {
	case tag.Bool:
		if len(payload) != 1 {
			return Token{}, errkind.New(errkind.BadParameter, "bool parameter must be 1 byte")
		}
		return boolTok(payload[0] != 0), nil
	case tag.UInt:
		v, err := decodeFixedU64(payload)
		if err != nil {
			return Token{}, errkind.New(errkind.BadParameter, "uint parameter: %v", err)
		}
		return uintTok(v), nil
	case tag.SInt:
		v, err := decodeFixedU64(payload)
		if err != nil {
			return Token{}, errkind.New(errkind.BadParameter, "sint parameter: %v", err)
		}
		return sintTok(int64(v)), nil
	case tag.Float:
		v, err := decodeFixedU64(payload)
		if err != nil {
			return Token{}, errkind.New(errkind.BadParameter, "float parameter: %v", err)
		}
		return floatTok(math.Float64frombits(v)), nil
	case tag.Bin:
		return binTok(append([]byte(nil), payload...)), nil
	case tag.Str:
		if !utf8.Valid(payload) {
			return Token{}, errkind.New(errkind.BadParameter, "str parameter is not valid utf-8")
		}
		return strTok(string(payload)), nil
	default:
		return Token{}, errkind.New(errkind.BadParameter, "parameter class %v cannot appear as a literal", class)
	}
}

func decodeFixedU64(payload []byte) (uint64, error) {
	if len(payload) != 8 {
		return 0, errkind.New(errkind.BadParameter, "expected 8-byte fixed-width payload, got %d", len(payload))
	}
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(payload[i])
	}
	return v, nil
}
