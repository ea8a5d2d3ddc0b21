// Package data implements Datacell, the engine's tagged runtime value.
// A Datacell carries a tag.CUTag plus an inline or boxed payload; lists
// are reference-counted and rw-lock-protected so a Datacell can be
// shared between a KV record and a concurrent reader without copying.
package data

import (
	"fmt"

	"skytable/internal/tag"
)

// Cell is a tagged value: null, bool, uint, sint, float, bin, str, or
// list. The zero Cell is null.
type Cell struct {
	class tag.Class
	init  bool

	u    uint64
	i    int64
	f    float64
	bin  []byte
	str  string
	list *List
}

// Null returns the null Cell.
func Null() Cell { return Cell{} }

// NewBool constructs a bool Cell.
func NewBool(v bool) Cell {
	var u uint64
	if v {
		u = 1
	}
	return Cell{class: tag.Bool, init: true, u: u}
}

// NewUint constructs a uint Cell, stored as 64-bit per the spec.
func NewUint(v uint64) Cell { return Cell{class: tag.UInt, init: true, u: v} }

// NewSint constructs a signed-int Cell, stored as 64-bit.
func NewSint(v int64) Cell { return Cell{class: tag.SInt, init: true, i: v} }

// NewFloat constructs a float Cell, stored as 64-bit.
func NewFloat(v float64) Cell { return Cell{class: tag.Float, init: true, f: v} }

// NewBin constructs a binary Cell. The slice is retained, not copied;
// callers that mutate it afterwards are responsible for not aliasing
// live engine state.
func NewBin(v []byte) Cell { return Cell{class: tag.Bin, init: true, bin: v} }

// NewStr constructs a UTF-8 string Cell.
func NewStr(v string) Cell { return Cell{class: tag.Str, init: true, str: v} }

// NewListCell constructs a list Cell wrapping an already-built List.
func NewListCell(l *List) Cell { return Cell{class: tag.List, init: true, list: l} }

// Tag returns the Cell's CUTag. A null Cell reports tag.Bool's CUTag,
// matching the "no type until initialized" semantics; callers should
// check IsNull before trusting Tag for a never-written value.
func (c Cell) Tag() tag.CUTag {
	return tag.CUTagOf(c.class)
}

// Class reports the Cell's semantic class directly.
func (c Cell) Class() tag.Class { return c.class }

// IsNull reports whether the Cell holds no value.
func (c Cell) IsNull() bool { return !c.init }

// IsInit is the inverse of IsNull, kept to mirror the source contract
// naming (is_null / is_init as a matched pair).
func (c Cell) IsInit() bool { return c.init }

func (c Cell) typeMismatch(want tag.Class) error {
	return fmt.Errorf("type mismatch: expected %v, got %v", want, c.class)
}

// ReadBool returns the Cell's bool value.
func (c Cell) ReadBool() (bool, error) {
	if c.class != tag.Bool {
		return false, c.typeMismatch(tag.Bool)
	}
	return c.u != 0, nil
}

// ReadUint returns the Cell's unsigned value.
func (c Cell) ReadUint() (uint64, error) {
	if c.class != tag.UInt {
		return 0, c.typeMismatch(tag.UInt)
	}
	return c.u, nil
}

// ReadSint returns the Cell's signed value.
func (c Cell) ReadSint() (int64, error) {
	if c.class != tag.SInt {
		return 0, c.typeMismatch(tag.SInt)
	}
	return c.i, nil
}

// ReadFloat returns the Cell's float value.
func (c Cell) ReadFloat() (float64, error) {
	if c.class != tag.Float {
		return 0, c.typeMismatch(tag.Float)
	}
	return c.f, nil
}

// ReadBin returns the Cell's binary payload, borrowed (not copied).
func (c Cell) ReadBin() ([]byte, error) {
	if c.class != tag.Bin {
		return nil, c.typeMismatch(tag.Bin)
	}
	return c.bin, nil
}

// ReadStr returns the Cell's string payload.
func (c Cell) ReadStr() (string, error) {
	if c.class != tag.Str {
		return "", c.typeMismatch(tag.Str)
	}
	return c.str, nil
}

// ReadList returns the Cell's shared List handle.
func (c Cell) ReadList() (*List, error) {
	if c.class != tag.List {
		return nil, c.typeMismatch(tag.List)
	}
	return c.list, nil
}

// String renders a debug-friendly representation; never used on a wire
// or persistence path.
func (c Cell) String() string {
	if c.IsNull() {
		return "null"
	}
	switch c.class {
	case tag.Bool:
		b, _ := c.ReadBool()
		return fmt.Sprintf("%v", b)
	case tag.UInt:
		return fmt.Sprintf("%d", c.u)
	case tag.SInt:
		return fmt.Sprintf("%d", c.i)
	case tag.Float:
		return fmt.Sprintf("%v", c.f)
	case tag.Bin:
		return fmt.Sprintf("bin(%d bytes)", len(c.bin))
	case tag.Str:
		return fmt.Sprintf("%q", c.str)
	case tag.List:
		return fmt.Sprintf("list(%d items)", c.list.Len())
	default:
		return "?"
	}
}
