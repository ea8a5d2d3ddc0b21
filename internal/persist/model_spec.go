package persist

import (
	"skytable/internal/core"
	"skytable/internal/errkind"
	"skytable/internal/scan"
)

// ModelRecord is the full persisted form of a Model: its identity
// (owning space name, model name, primary field name) plus its field
// map. Snapshots and CREATE_MODEL journal records both encode one of
// these; the journal additionally prefixes it with an opcode byte
// (see internal/journal).
type ModelRecord struct {
	SpaceName    string
	ModelName    string
	PrimaryField string
	Fields       []*core.Field
}

// modelMetadata is ModelRecord's Metadata: the three identity strings,
// decoded eagerly (their own lengths are individually bounds-checked
// by the scanner's *Checked accessors, so no read past end is
// possible even though the metadata itself is variable-length past
// its fixed 24-byte header of three u64 LE lengths).
type modelMetadata struct {
	spaceName    string
	modelName    string
	primaryField string
}

// ObjectLen is the lower bound pretest_can_dec_object requires: the
// field map's own u64 LE entry-count header must be present.
func (modelMetadata) ObjectLen() int { return 8 }

// EncodeModelRecord serializes m in full: identity strings, then the
// field map.
func EncodeModelRecord(m ModelRecord) []byte {
	var spec modelRecordSpec
	return append(spec.EncodeMeta(m), spec.EncodeObject(m)...)
}

// DecodeModelRecord is the dec counterpart, run through the standard
// two-pretest sequence via DecodeWithPretests.
func DecodeModelRecord(s *scan.Scanner) (ModelRecord, error) {
	return DecodeWithPretests[ModelRecord](modelRecordSpec{}, s)
}

type modelRecordSpec struct{}

func (modelRecordSpec) MetaLen() int { return 24 }

func (modelRecordSpec) EncodeMeta(m ModelRecord) []byte {
	buf := appendU64LE(nil, uint64(len(m.SpaceName)))
	buf = appendU64LE(buf, uint64(len(m.ModelName)))
	buf = appendU64LE(buf, uint64(len(m.PrimaryField)))
	buf = append(buf, m.SpaceName...)
	buf = append(buf, m.ModelName...)
	buf = append(buf, m.PrimaryField...)
	return buf
}

func (modelRecordSpec) EncodeObject(m ModelRecord) []byte {
	return EncodeFieldMap(m.Fields)
}

func (modelRecordSpec) DecodeMeta(s *scan.Scanner) (Metadata, error) {
	spaceLen, ok := s.NextU64LEChecked()
	if !ok {
		return nil, errkind.New(errkind.CorruptedStructure, "model record: truncated space name length")
	}
	nameLen, ok := s.NextU64LEChecked()
	if !ok {
		return nil, errkind.New(errkind.CorruptedStructure, "model record: truncated model name length")
	}
	primaryLen, ok := s.NextU64LEChecked()
	if !ok {
		return nil, errkind.New(errkind.CorruptedStructure, "model record: truncated primary field length")
	}
	spaceBytes, ok := s.NextChunkU64Checked(spaceLen)
	if !ok {
		return nil, errkind.New(errkind.CorruptedStructure, "model record: truncated space name")
	}
	nameBytes, ok := s.NextChunkU64Checked(nameLen)
	if !ok {
		return nil, errkind.New(errkind.CorruptedStructure, "model record: truncated model name")
	}
	primaryBytes, ok := s.NextChunkU64Checked(primaryLen)
	if !ok {
		return nil, errkind.New(errkind.CorruptedStructure, "model record: truncated primary field name")
	}
	return modelMetadata{
		spaceName:    string(spaceBytes),
		modelName:    string(nameBytes),
		primaryField: string(primaryBytes),
	}, nil
}

func (modelRecordSpec) DecodeObject(s *scan.Scanner, md Metadata) (ModelRecord, error) {
	mm := md.(modelMetadata)
	fields, err := DecodeFieldMap(s)
	if err != nil {
		return ModelRecord{}, err
	}
	for _, f := range fields {
		if f.Name == mm.primaryField {
			f.Primary = true
		}
	}
	return ModelRecord{
		SpaceName:    mm.spaceName,
		ModelName:    mm.modelName,
		PrimaryField: mm.primaryField,
		Fields:       fields,
	}, nil
}
