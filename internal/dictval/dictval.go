// Package dictval implements the generic dictionary value used for
// space and model metadata properties and, encoded through
// internal/persist, for on-disk dict payloads. Unlike data.Cell (which
// backs model field values and enforces list homogeneity), a dict
// entry may itself be a nested dict, so it gets its own small tagged
// union here.
package dictval

import (
	"fmt"

	"skytable/internal/data"
	"skytable/internal/tag"
)

// Kind discriminates an Entry's payload, mirroring the dscr byte used
// on the wire and on disk (§4.8): 0..7 match tag.Class's ordering with
// an added Null at the front, and 8 is the nested-dict extension no
// Cell/List payload can express.
type Kind uint8

const (
	Null Kind = iota
	Bool
	UInt
	SInt
	Float
	Bin
	Str
	ListKind
	DictKind
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
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
	case ListKind:
		return "list"
	case DictKind:
		return "dict"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Entry is one leaf or branch of a Dict: a scalar, a homogeneous list
// of scalars, or a nested Dict.
type Entry struct {
	Kind  Kind
	Bool  bool
	UInt  uint64
	Sint  int64
	Float float64
	Bin   []byte
	Str   string
	List  []Entry
	Dict  *Dict
}

func NullEntry() Entry             { return Entry{Kind: Null} }
func BoolEntry(v bool) Entry       { return Entry{Kind: Bool, Bool: v} }
func UIntEntry(v uint64) Entry     { return Entry{Kind: UInt, UInt: v} }
func SIntEntry(v int64) Entry      { return Entry{Kind: SInt, Sint: v} }
func FloatEntry(v float64) Entry   { return Entry{Kind: Float, Float: v} }
func BinEntry(v []byte) Entry      { return Entry{Kind: Bin, Bin: v} }
func StrEntry(v string) Entry      { return Entry{Kind: Str, Str: v} }
func DictEntryOf(d *Dict) Entry    { return Entry{Kind: DictKind, Dict: d} }

// ListEntry builds a list entry. Dict items are illegal inside a list
// (only scalars nest that deep); a nested list nests fine since
// ListKind itself carries no further List field restriction beyond
// that one level, matching the original model's one-level list shape.
func ListEntry(items []Entry) (Entry, error) {
	for _, it := range items {
		if it.Kind == DictKind {
			return Entry{}, fmt.Errorf("dict value not permitted inside a list entry")
		}
	}
	return Entry{Kind: ListKind, List: items}, nil
}

// FromCell converts a model field's scalar Datacell into a dict Entry
// so a runtime value can travel through generic dict encoding. No
// executor path calls it; DESCRIBE MODEL reports field names only.
func FromCell(c data.Cell) (Entry, error) {
	if c.IsNull() {
		return NullEntry(), nil
	}
	switch c.Class() {
	case tag.Bool:
		v, err := c.ReadBool()
		return BoolEntry(v), err
	case tag.UInt:
		v, err := c.ReadUint()
		return UIntEntry(v), err
	case tag.SInt:
		v, err := c.ReadSint()
		return SIntEntry(v), err
	case tag.Float:
		v, err := c.ReadFloat()
		return FloatEntry(v), err
	case tag.Bin:
		v, err := c.ReadBin()
		return BinEntry(v), err
	case tag.Str:
		v, err := c.ReadStr()
		return StrEntry(v), err
	default:
		return Entry{}, fmt.Errorf("cannot convert class %v to a dict entry", c.Class())
	}
}

// ToCell converts a scalar Entry into a data.Cell, the inverse of
// FromCell, used by the executor to turn a parsed DML literal into the
// engine's storage representation. A list or nested-dict Entry has no
// single-Cell representation and is rejected.
func (e Entry) ToCell() (data.Cell, error) {
	switch e.Kind {
	case Null:
		return data.Null(), nil
	case Bool:
		return data.NewBool(e.Bool), nil
	case UInt:
		return data.NewUint(e.UInt), nil
	case SInt:
		return data.NewSint(e.Sint), nil
	case Float:
		return data.NewFloat(e.Float), nil
	case Bin:
		return data.NewBin(e.Bin), nil
	case Str:
		return data.NewStr(e.Str), nil
	default:
		return data.Cell{}, fmt.Errorf("cannot convert dict entry of kind %v to a scalar cell", e.Kind)
	}
}

// Dict is an insertion-unordered string-keyed map of Entry. Key order
// carries no invariant (unlike a model's field map), so Keys returns a
// sorted slice for deterministic iteration and encoding.
type Dict struct {
	m map[string]Entry
}

// New returns an empty Dict.
func New() *Dict {
	return &Dict{m: make(map[string]Entry)}
}

// Set inserts key=val, returning an error if key is already present.
// Duplicate keys within one dict literal or payload are a structural
// error, not a silent overwrite.
func (d *Dict) Set(key string, val Entry) error {
	if _, exists := d.m[key]; exists {
		return fmt.Errorf("duplicate dict key %q", key)
	}
	d.m[key] = val
	return nil
}

// Put unconditionally installs key=val, overwriting any existing
// entry. Used by ALTER SPACE's WITH clause, which replaces properties
// rather than rejecting a name already in use, and by the executor's
// DESCRIBE result builders.
func (d *Dict) Put(key string, val Entry) {
	d.m[key] = val
}

// Get looks up key.
func (d *Dict) Get(key string) (Entry, bool) {
	v, ok := d.m[key]
	return v, ok
}

// Len returns the number of entries.
func (d *Dict) Len() int { return len(d.m) }

// Keys returns the dict's keys in ascending sorted order.
func (d *Dict) Keys() []string {
	keys := make([]string, 0, len(d.m))
	for k := range d.m {
		keys = append(keys, k)
	}
	sortStrings(keys)
	return keys
}

// sortStrings is a tiny insertion sort; dict sizes in practice (model
// properties, field type metadata) are a handful of entries, so this
// avoids pulling in sort for a handful of string compares.
func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
