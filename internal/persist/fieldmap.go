package persist

import (
	"skytable/internal/core"
	"skytable/internal/errkind"
	"skytable/internal/scan"
	"skytable/internal/tag"
)

// EncodeFieldMap writes fields in declaration order using the
// ordered-insertion field-map format (§4.8): a field's Primary bit is
// not part of this encoding (the owning Model records the primary
// field's name separately), only its nullability and layer chain are.
func EncodeFieldMap(fields []*core.Field) []byte {
	buf := appendU64LE(nil, uint64(len(fields)))
	for _, f := range fields {
		buf = appendU64LE(buf, uint64(len(f.Name)))
		buf = appendU64LE(buf, 0) // prop_count, reserved
		buf = appendU64LE(buf, uint64(len(f.Layers)))
		if f.Nullable {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		buf = append(buf, f.Name...)
		for _, l := range f.Layers {
			buf = append(buf, byte(l.Selector))
			buf = append(buf, EncodeDict(l.Props)...)
		}
	}
	return buf
}

// DecodeFieldMap is the dec counterpart of EncodeFieldMap. Decoded
// fields carry Primary=false uniformly; the caller must re-mark the
// model's primary field by name after decoding (modelRecordSpec's
// DecodeObject does so from the record's primary-field name), matching
// how the format itself omits the primary bit.
func DecodeFieldMap(s *scan.Scanner) ([]*core.Field, error) {
	if !s.HasLeft(metadataSize) {
		return nil, errkind.New(errkind.CorruptedStructure, "field map header truncated")
	}
	count := s.NextU64LE()
	var fields []*core.Field
	for i := uint64(0); i < count; i++ {
		nameLen, ok := s.NextU64LEChecked()
		if !ok {
			return nil, errkind.New(errkind.CorruptedStructure, "field %d: truncated name length", i)
		}
		_, ok = s.NextU64LEChecked() // prop_count, reserved
		if !ok {
			return nil, errkind.New(errkind.CorruptedStructure, "field %d: truncated prop count", i)
		}
		layerCount, ok := s.NextU64LEChecked()
		if !ok {
			return nil, errkind.New(errkind.CorruptedStructure, "field %d: truncated layer count", i)
		}
		nullableByte, ok := s.NextByteChecked()
		if !ok {
			return nil, errkind.New(errkind.CorruptedStructure, "field %d: truncated nullable flag", i)
		}
		nameBytes, ok := s.NextChunkU64Checked(nameLen)
		if !ok {
			return nil, errkind.New(errkind.CorruptedStructure, "field %d: truncated name", i)
		}
		var layers []*core.Layer
		for j := uint64(0); j < layerCount; j++ {
			selByte, ok := s.NextByteChecked()
			if !ok {
				return nil, errkind.New(errkind.CorruptedStructure, "field %d layer %d: truncated selector", i, j)
			}
			if !tag.ValidSelector(selByte) {
				return nil, errkind.New(errkind.CorruptedPayload, "field %d layer %d: invalid selector %d", i, j, selByte)
			}
			props, err := DecodeDict(s)
			if err != nil {
				return nil, err
			}
			layers = append(layers, &core.Layer{Selector: tag.Selector(selByte), Props: props})
		}
		fields = append(fields, &core.Field{
			Name:     string(nameBytes),
			Nullable: nullableByte != 0,
			Layers:   layers,
		})
	}
	return fields, nil
}
