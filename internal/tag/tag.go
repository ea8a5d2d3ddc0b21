// Package tag implements the engine's tri-level type tag system:
// TagClass (semantic class), TagSelector (concrete on-disk width), and
// TagUnique (hash-equality class used to key the primary index). The
// three enumerations are closed and their integer values are part of
// the on-disk and wire format — never reorder or renumber a constant.
package tag

import "fmt"

// Class is the semantic type of a Datacell, independent of its exact
// bit width.
type Class uint8

const (
	Bool Class = iota
	UInt
	SInt
	Float
	Bin
	Str
	List
)

func (c Class) String() string {
	switch c {
	case Bool:
		return "bool"
	case UInt:
		return "uint"
	case SInt:
		return "sint"
	case Float:
		return "float"
	case Bin:
		return "bin"
	case Str:
		return "str"
	case List:
		return "list"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// ValidClass reports whether c is one of the seven defined classes.
func ValidClass(c uint8) bool {
	return c <= uint8(List)
}

// Selector is the concrete declared width of a field's layer. Several
// selectors map to the same Class (e.g. UInt8..UInt64 all map to
// Class UInt).
type Selector uint8

const (
	SelBool Selector = iota
	SelUInt8
	SelUInt16
	SelUInt32
	SelUInt64
	SelSInt8
	SelSInt16
	SelSInt32
	SelSInt64
	SelFloat32
	SelFloat64
	SelBin
	SelStr
	SelList
)

var selectorNames = [...]string{
	SelBool: "bool", SelUInt8: "uint8", SelUInt16: "uint16", SelUInt32: "uint32",
	SelUInt64: "uint64", SelSInt8: "sint8", SelSInt16: "sint16", SelSInt32: "sint32",
	SelSInt64: "sint64", SelFloat32: "float32", SelFloat64: "float64",
	SelBin: "bin", SelStr: "str", SelList: "list",
}

func (s Selector) String() string {
	if int(s) < len(selectorNames) && selectorNames[s] != "" {
		return selectorNames[s]
	}
	return fmt.Sprintf("selector(%d)", uint8(s))
}

// selectorClass is the selector -> class lookup table named in the
// spec: every selector maps to exactly one class.
var selectorClass = [...]Class{
	SelBool:    Bool,
	SelUInt8:   UInt,
	SelUInt16:  UInt,
	SelUInt32:  UInt,
	SelUInt64:  UInt,
	SelSInt8:   SInt,
	SelSInt16:  SInt,
	SelSInt32:  SInt,
	SelSInt64:  SInt,
	SelFloat32: Float,
	SelFloat64: Float,
	SelBin:     Bin,
	SelStr:     Str,
	SelList:    List,
}

// ValidSelector reports whether raw is a defined Selector value,
// rejecting out-of-range bytes rather than ever producing one.
func ValidSelector(raw uint8) bool {
	return raw < uint8(len(selectorClass))
}

// ClassOf returns the Class a Selector decodes to. Callers must have
// validated s with ValidSelector first; an invalid selector returns
// Bool as a zero value, but should never be reached in practice since
// every decode path pretests with ValidSelector.
func ClassOf(s Selector) Class {
	if !ValidSelector(uint8(s)) {
		return Bool
	}
	return selectorClass[s]
}

// FromClass returns the canonical "widest" selector for a class, used
// when a type keyword in the query language names only a class (not a
// specific width) and a default selector must be chosen. Bool, Float,
// Bin, Str, and List each have exactly one selector per class already;
// UInt/SInt default to the 64-bit width.
func FromClass(c Class) Selector {
	switch c {
	case Bool:
		return SelBool
	case UInt:
		return SelUInt64
	case SInt:
		return SelSInt64
	case Float:
		return SelFloat64
	case Bin:
		return SelBin
	case Str:
		return SelStr
	case List:
		return SelList
	default:
		return SelBool
	}
}

// Unique is the hash-equality class used to key the primary index. Only
// classes with a well-defined equality/hash notion over their full
// value range have one; Bool, Float, and List are Illegal as primary
// key classes.
type Unique uint8

const (
	UniqueUInt Unique = iota
	UniqueSInt
	UniqueBin
	UniqueStr
	UniqueIllegal Unique = 0xFF
)

func (u Unique) String() string {
	switch u {
	case UniqueUInt:
		return "uint"
	case UniqueSInt:
		return "sint"
	case UniqueBin:
		return "bin"
	case UniqueStr:
		return "str"
	case UniqueIllegal:
		return "illegal"
	default:
		return fmt.Sprintf("unique(%d)", uint8(u))
	}
}

// TagUnique is a pure function of Class: any value written with class
// C must decode with Unique U where U = TagUnique(C). Bool, Float, and
// List classes have no uniqueness identity and map to UniqueIllegal.
func TagUnique(c Class) Unique {
	switch c {
	case UInt:
		return UniqueUInt
	case SInt:
		return UniqueSInt
	case Bin:
		return UniqueBin
	case Str:
		return UniqueStr
	default:
		return UniqueIllegal
	}
}

// CUTag bundles a Class with its derived Unique, the pairing that a
// Datacell carries at runtime (spec's "CUTag").
type CUTag struct {
	Class  Class
	Unique Unique
}

// CUTagOf builds the canonical CUTag for a class.
func CUTagOf(c Class) CUTag {
	return CUTag{Class: c, Unique: TagUnique(c)}
}
