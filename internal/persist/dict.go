// Package persist implements the binary encoding used by both
// snapshots and the write-ahead journal (§4.8): a generic dict codec
// for property maps, a field-map codec for model schemas, and the
// PersistObject contract's pretest sequencing. Every decoder here
// uses scan.Scanner's *Checked accessors rather than the lexer's
// pretest-then-panic convention — a corrupt file on disk must produce
// an error, never a crash.
package persist

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"skytable/internal/dictval"
	"skytable/internal/errkind"
	"skytable/internal/scan"
)

func appendU64LE(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

// EncodeDict writes d in the generic dict wire/disk format: a u64 LE
// entry count followed by length-prefixed, dscr-tagged entries in
// d.Keys()'s sorted order (sorted so encoding is deterministic and
// therefore testable, though the format itself carries no ordering
// requirement).
func EncodeDict(d *dictval.Dict) []byte {
	keys := d.Keys()
	buf := appendU64LE(nil, uint64(len(keys)))
	for _, k := range keys {
		v, _ := d.Get(k)
		buf = appendU64LE(buf, uint64(len(k)))
		buf = appendEntryTagged(buf, k, v)
	}
	return buf
}

func appendEntryTagged(buf []byte, key string, v dictval.Entry) []byte {
	buf = append(buf, byte(v.Kind))
	buf = append(buf, key...)
	return appendValue(buf, v)
}

func appendValue(buf []byte, v dictval.Entry) []byte {
	switch v.Kind {
	case dictval.Null:
		return buf
	case dictval.Bool:
		if v.Bool {
			return append(buf, 1)
		}
		return append(buf, 0)
	case dictval.UInt:
		return appendU64LE(buf, v.UInt)
	case dictval.SInt:
		return appendU64LE(buf, uint64(v.Sint))
	case dictval.Float:
		return appendU64LE(buf, mathFloatBits(v.Float))
	case dictval.Bin:
		buf = appendU64LE(buf, uint64(len(v.Bin)))
		return append(buf, v.Bin...)
	case dictval.Str:
		buf = appendU64LE(buf, uint64(len(v.Str)))
		return append(buf, v.Str...)
	case dictval.ListKind:
		buf = appendU64LE(buf, uint64(len(v.List)))
		for _, item := range v.List {
			buf = append(buf, byte(item.Kind))
			buf = appendValue(buf, item)
		}
		return buf
	case dictval.DictKind:
		return append(buf, EncodeDict(v.Dict)...)
	default:
		return buf
	}
}

// metadataSize is the fixed pretest_can_dec_metadata check for the
// dict format: the 8-byte entry count header.
const metadataSize = 8

// DecodeDict is dec_dict: it reads a generic dict payload from s,
// refusing ever to read past end. Any structural violation — short
// header, unknown dscr, invalid UTF-8 in a Str, a Dict nested inside a
// list item — yields a *errkind.QueryError with Kind
// CorruptedStructure/CorruptedPayload rather than a panic, satisfying
// testable property 8 (decoder robustness on arbitrary input).
func DecodeDict(s *scan.Scanner) (*dictval.Dict, error) {
	if !s.HasLeft(metadataSize) {
		return nil, errkind.New(errkind.CorruptedStructure, "dict header truncated")
	}
	count := s.NextU64LE()
	d := dictval.New()
	for i := uint64(0); i < count; i++ {
		keyLen, ok := s.NextU64LEChecked()
		if !ok {
			return nil, errkind.New(errkind.CorruptedStructure, "dict entry %d: truncated key length", i)
		}
		dscrByte, ok := s.NextByteChecked()
		if !ok {
			return nil, errkind.New(errkind.CorruptedStructure, "dict entry %d: truncated dscr", i)
		}
		keyBytes, ok := s.NextChunkU64Checked(keyLen)
		if !ok {
			return nil, errkind.New(errkind.CorruptedStructure, "dict entry %d: truncated key", i)
		}
		if !utf8.Valid(keyBytes) {
			return nil, errkind.New(errkind.CorruptedPayload, "dict entry %d: key is not valid UTF-8", i)
		}
		v, err := decodeValue(s, dictval.Kind(dscrByte))
		if err != nil {
			return nil, fmt.Errorf("dict entry %d: %w", i, err)
		}
		if err := d.Set(string(keyBytes), v); err != nil {
			return nil, errkind.New(errkind.CorruptedPayload, "dict entry %d: %v", i, err)
		}
	}
	return d, nil
}

func decodeValue(s *scan.Scanner, kind dictval.Kind) (dictval.Entry, error) {
	switch kind {
	case dictval.Null:
		return dictval.NullEntry(), nil
	case dictval.Bool:
		b, ok := s.NextByteChecked()
		if !ok {
			return dictval.Entry{}, errkind.New(errkind.CorruptedStructure, "truncated bool")
		}
		return dictval.BoolEntry(b != 0), nil
	case dictval.UInt:
		v, ok := s.NextU64LEChecked()
		if !ok {
			return dictval.Entry{}, errkind.New(errkind.CorruptedStructure, "truncated uint")
		}
		return dictval.UIntEntry(v), nil
	case dictval.SInt:
		v, ok := s.NextU64LEChecked()
		if !ok {
			return dictval.Entry{}, errkind.New(errkind.CorruptedStructure, "truncated sint")
		}
		return dictval.SIntEntry(int64(v)), nil
	case dictval.Float:
		v, ok := s.NextU64LEChecked()
		if !ok {
			return dictval.Entry{}, errkind.New(errkind.CorruptedStructure, "truncated float")
		}
		return dictval.FloatEntry(mathFloatFromBits(v)), nil
	case dictval.Bin:
		return decodeBytesEntry(s, false)
	case dictval.Str:
		return decodeBytesEntry(s, true)
	case dictval.ListKind:
		return decodeListEntry(s)
	case dictval.DictKind:
		nested, err := DecodeDict(s)
		if err != nil {
			return dictval.Entry{}, err
		}
		return dictval.DictEntryOf(nested), nil
	default:
		return dictval.Entry{}, errkind.New(errkind.CorruptedPayload, "unknown dscr byte %d", kind)
	}
}

func decodeBytesEntry(s *scan.Scanner, isStr bool) (dictval.Entry, error) {
	n, ok := s.NextU64LEChecked()
	if !ok {
		return dictval.Entry{}, errkind.New(errkind.CorruptedStructure, "truncated length")
	}
	raw, ok := s.NextChunkU64Checked(n)
	if !ok {
		return dictval.Entry{}, errkind.New(errkind.CorruptedStructure, "truncated payload")
	}
	if isStr {
		if !utf8.Valid(raw) {
			return dictval.Entry{}, errkind.New(errkind.CorruptedPayload, "string is not valid UTF-8")
		}
		return dictval.StrEntry(string(raw)), nil
	}
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return dictval.BinEntry(cp), nil
}

func decodeListEntry(s *scan.Scanner) (dictval.Entry, error) {
	n, ok := s.NextU64LEChecked()
	if !ok {
		return dictval.Entry{}, errkind.New(errkind.CorruptedStructure, "truncated list length")
	}
	var items []dictval.Entry
	for i := uint64(0); i < n; i++ {
		dscrByte, ok := s.NextByteChecked()
		if !ok {
			return dictval.Entry{}, errkind.New(errkind.CorruptedStructure, "list item %d: truncated dscr", i)
		}
		if dictval.Kind(dscrByte) == dictval.DictKind {
			return dictval.Entry{}, errkind.New(errkind.CorruptedPayload, "list item %d: dict not permitted inside a list", i)
		}
		item, err := decodeValue(s, dictval.Kind(dscrByte))
		if err != nil {
			return dictval.Entry{}, fmt.Errorf("list item %d: %w", i, err)
		}
		items = append(items, item)
	}
	out, err := dictval.ListEntry(items)
	if err != nil {
		return dictval.Entry{}, errkind.Wrap(errkind.CorruptedPayload, err)
	}
	return out, nil
}
