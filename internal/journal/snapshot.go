package journal

import (
	"encoding/binary"
	"os"

	"skytable/internal/core"
	"skytable/internal/errkind"
	"skytable/internal/persist"
	"skytable/internal/scan"
)

func appendU64LE(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

// WriteSnapshot serializes the full catalogue of g — every space's
// property dict and every model's field map — to path, per §6's
// "*.snapshot — a dict-encoded catalogue of spaces, models, fields."
func WriteSnapshot(g *core.GlobalNS, path string) error {
	spaces := g.Spaces()
	buf := appendU64LE(nil, uint64(len(spaces)))
	for _, sp := range spaces {
		buf = appendU64LE(buf, uint64(len(sp.Name)))
		buf = append(buf, sp.Name...)
		buf = append(buf, persist.EncodeDict(sp.Props)...)

		models := sp.Models()
		buf = appendU64LE(buf, uint64(len(models)))
		for _, m := range models {
			rec := persist.ModelRecord{
				SpaceName:    sp.Name,
				ModelName:    m.Name,
				PrimaryField: m.PrimaryField,
				Fields:       m.Fields(),
			}
			buf = append(buf, persist.EncodeModelRecord(rec)...)
		}
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return errkind.Wrap(errkind.IOError, err)
	}
	return nil
}

// SpaceSnapshot is one decoded space entry from a snapshot file: its
// name, its property dict, and its models' records. Installing these
// back into a live GlobalNS is internal/exec.ApplySnapshot's job
// (cmd/skyd calls it at startup), not this package's — ReadSnapshot
// only decodes.
type SpaceSnapshot struct {
	Name   string
	Props  []byte // re-decode with persist.DecodeDict if needed
	Models []persist.ModelRecord
}

// ReadSnapshot decodes path written by WriteSnapshot.
func ReadSnapshot(path string) ([]SpaceSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errkind.Wrap(errkind.IOError, err)
	}
	s := scan.New(data)
	if !s.HasLeft(8) {
		return nil, errkind.New(errkind.CorruptedStructure, "snapshot: truncated header")
	}
	spaceCount := s.NextU64LE()
	var out []SpaceSnapshot
	for i := uint64(0); i < spaceCount; i++ {
		nameLen, ok := s.NextU64LEChecked()
		if !ok {
			return out, errkind.New(errkind.CorruptedStructure, "snapshot: space %d truncated name length", i)
		}
		nameBytes, ok := s.NextChunkU64Checked(nameLen)
		if !ok {
			return out, errkind.New(errkind.CorruptedStructure, "snapshot: space %d truncated name", i)
		}
		propsStart := s.Cursor()
		if _, err := persist.DecodeDict(s); err != nil {
			return out, err
		}
		propsBytes := data[propsStart:s.Cursor()]

		modelCount, ok := s.NextU64LEChecked()
		if !ok {
			return out, errkind.New(errkind.CorruptedStructure, "snapshot: space %d truncated model count", i)
		}
		var models []persist.ModelRecord
		for j := uint64(0); j < modelCount; j++ {
			rec, err := persist.DecodeModelRecord(s)
			if err != nil {
				return out, err
			}
			models = append(models, rec)
		}
		out = append(out, SpaceSnapshot{Name: string(nameBytes), Props: propsBytes, Models: models})
	}
	return out, nil
}
