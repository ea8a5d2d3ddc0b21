package lexer

import "strings"

// Kw enumerates every reserved word the query language recognizes.
// Statement keywords occupy the contiguous range [KwUSE, KwDROP]: the
// eight non-blocking ones first, then the four blocking ones.
type Kw uint8

const (
	// Non-blocking statement keywords: dispatched synchronously on
	// the calling goroutine.
	KwUSE Kw = iota
	KwINSPECT
	KwDESCRIBE
	KwINSERT
	KwSELECT
	KwUPDATE
	KwDELETE
	KwEXISTS

	// Blocking statement keywords: dispatched through the blocking
	// worker pool.
	KwSYSCTL
	KwCREATE
	KwALTER
	KwDROP

	stmtKeywordCount // sentinel, not a real keyword

	// Entity keywords.
	KwSPACE
	KwMODEL

	// Type keywords.
	KwBOOL
	KwSTRING
	KwBINARY
	KwUINT8
	KwUINT16
	KwUINT32
	KwUINT64
	KwSINT8
	KwSINT16
	KwSINT32
	KwSINT64
	KwFLOAT32
	KwFLOAT64
	KwLIST

	// Modifiers.
	KwPRIMARY
	KwNULL
	KwIF
	KwNOT
	KwFORCE
	KwWITH

	// DML clause keywords.
	KwINTO
	KwFROM
	KwWHERE
	KwSET
	KwADD
	KwREMOVE

	// List-action keywords.
	KwLSET
	KwLGET
	KwLEN
	KwLIMIT
	KwVALUEAT
)

var kwNames = map[Kw]string{
	KwUSE: "use", KwINSPECT: "inspect", KwDESCRIBE: "describe",
	KwINSERT: "insert", KwSELECT: "select", KwUPDATE: "update",
	KwDELETE: "delete", KwEXISTS: "exists", KwSYSCTL: "sysctl",
	KwCREATE: "create", KwALTER: "alter", KwDROP: "drop",
	KwSPACE: "space", KwMODEL: "model",
	KwBOOL: "bool", KwSTRING: "string", KwBINARY: "binary",
	KwUINT8: "uint8", KwUINT16: "uint16", KwUINT32: "uint32", KwUINT64: "uint64",
	KwSINT8: "sint8", KwSINT16: "sint16", KwSINT32: "sint32", KwSINT64: "sint64",
	KwFLOAT32: "float32", KwFLOAT64: "float64", KwLIST: "list",
	KwPRIMARY: "primary", KwNULL: "null", KwIF: "if", KwNOT: "not", KwFORCE: "force",
	KwWITH: "with", KwINTO: "into", KwFROM: "from", KwWHERE: "where", KwSET: "set",
	KwADD: "add", KwREMOVE: "remove",
	KwLSET: "lset", KwLGET: "lget", KwLEN: "len", KwLIMIT: "limit", KwVALUEAT: "valueat",
}

func (k Kw) String() string {
	if s, ok := kwNames[k]; ok {
		return s
	}
	return "kw(?)"
}

// keywordTable maps the lowercased spelling to its Kw; keyword matching
// is case-insensitive (identifiers are not).
var keywordTable = func() map[string]Kw {
	m := make(map[string]Kw, len(kwNames))
	for k, name := range kwNames {
		m[name] = k
	}
	return m
}()

// LookupKeyword resolves an identifier-shaped byte run to a keyword,
// case-insensitively. ok is false for any non-reserved identifier.
func LookupKeyword(s string) (Kw, bool) {
	kw, ok := keywordTable[strings.ToLower(s)]
	return kw, ok
}

// IsStatementKeyword reports whether kw is one of the twelve statement
// keywords (as opposed to an entity, type, or modifier keyword).
func IsStatementKeyword(kw Kw) bool {
	return kw < stmtKeywordCount
}

// IsBlocking reports whether a statement keyword's handler must run on
// the blocking worker pool (schema-mutating DDL) rather than inline
// (DML). Matches KeywordStmt.is_blocking() from the spec.
func IsBlocking(kw Kw) bool {
	switch kw {
	case KwSYSCTL, KwCREATE, KwALTER, KwDROP:
		return true
	default:
		return false
	}
}

// IsTypeKeyword reports whether kw names a layer selector type.
func IsTypeKeyword(kw Kw) bool {
	switch kw {
	case KwBOOL, KwSTRING, KwBINARY,
		KwUINT8, KwUINT16, KwUINT32, KwUINT64,
		KwSINT8, KwSINT16, KwSINT32, KwSINT64,
		KwFLOAT32, KwFLOAT64, KwLIST:
		return true
	default:
		return false
	}
}
