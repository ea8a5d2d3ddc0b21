package persist

import (
	"skytable/internal/errkind"
	"skytable/internal/scan"
)

// Metadata is the per-object header a Spec decodes before the object
// body; its shape is implementation-specific (a model record's
// metadata is the byte lengths of its space, model and primary-field
// names; a dict's entry count is handled by DecodeDict/EncodeDict
// directly).
type Metadata interface {
	// ObjectLen is the pretest_can_dec_object lower bound: the number
	// of bytes the object body requires given this metadata.
	ObjectLen() int
}

// Spec is Go's stand-in for the source's const-generic PersistObject
// trait: one implementation per persisted object kind (currently only
// the model record, via modelRecordSpec in model_spec.go). Every Spec obeys the same two-pretest
// sequencing spec.md §4.8 mandates: MetaLen bounds the metadata read,
// then DecodeMeta's returned Metadata.ObjectLen bounds the object read.
type Spec[T any] interface {
	// MetaLen is pretest_can_dec_metadata: the fixed number of bytes
	// the metadata header occupies.
	MetaLen() int
	EncodeMeta(obj T) []byte
	EncodeObject(obj T) []byte
	DecodeMeta(s *scan.Scanner) (Metadata, error)
	DecodeObject(s *scan.Scanner, md Metadata) (T, error)
}

// DecodeWithPretests runs a Spec's two mandatory pretests in sequence
// before touching the object body, refusing to read past end at every
// step: first MetaLen against the scanner's remaining bytes, then the
// decoded Metadata's ObjectLen.
func DecodeWithPretests[T any](spec Spec[T], s *scan.Scanner) (T, error) {
	var zero T
	if !s.HasLeft(spec.MetaLen()) {
		return zero, errkind.New(errkind.CorruptedStructure, "metadata truncated: need %d bytes, have %d", spec.MetaLen(), s.Remaining())
	}
	md, err := spec.DecodeMeta(s)
	if err != nil {
		return zero, err
	}
	if !s.HasLeft(md.ObjectLen()) {
		return zero, errkind.New(errkind.CorruptedStructure, "object body truncated: need %d bytes, have %d", md.ObjectLen(), s.Remaining())
	}
	return spec.DecodeObject(s, md)
}
