package exec

import (
	"skytable/internal/core"
	"skytable/internal/dictval"
	"skytable/internal/errkind"
	"skytable/internal/journal"
	"skytable/internal/persist"
	"skytable/internal/ql"
	"skytable/internal/scan"
)

// ApplySnapshot installs every space and model decoded from a
// snapshot file (internal/journal.ReadSnapshot's output) into g. It
// is the counterpart to WriteSnapshot's own walk of GlobalNS, run once
// at startup before the journal is replayed on top.
func ApplySnapshot(g *core.GlobalNS, spaces []journal.SpaceSnapshot) error {
	for _, sp := range spaces {
		props, err := persist.DecodeDict(scan.New(sp.Props))
		if err != nil {
			return err
		}
		if _, err := g.CreateSpace(sp.Name, props); err != nil {
			return err
		}
		for _, mr := range sp.Models {
			if _, err := g.CreateModel(mr.SpaceName, mr.ModelName, mr.Fields, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// ApplyRecord replays one already-durable journal record against g,
// the inverse of the dispatchBlocking handler that produced it via
// d.mutated. Used by cmd/skyd's startup replay; the replay-journal
// subcommand only prints records and does not call it.
func ApplyRecord(g *core.GlobalNS, rec journal.Record) error {
	switch rec.Kind {
	case core.OpCreateSpace:
		name, with, err := decodeSpaceOp(rec.Payload)
		if err != nil {
			return err
		}
		_, err = g.CreateSpace(name, with)
		return err

	case core.OpAlterSpace:
		name, with, err := decodeSpaceOp(rec.Payload)
		if err != nil {
			return err
		}
		return g.AlterSpace(name, with)

	case core.OpDropSpace:
		name, force, err := decodeDropOp(rec.Payload)
		if err != nil {
			return err
		}
		return g.DropSpace(name, force)

	case core.OpCreateModel:
		mr, err := persist.DecodeModelRecord(scan.New(rec.Payload))
		if err != nil {
			return err
		}
		_, err = g.CreateModel(mr.SpaceName, mr.ModelName, mr.Fields, nil)
		return err

	case core.OpDropModel:
		name, force, err := decodeDropOp(rec.Payload)
		if err != nil {
			return err
		}
		return g.DropModel(rec.SpaceName, name, force)

	case core.OpAlterModel:
		return applyAlterModelRecord(g, rec)

	default:
		return errkind.New(errkind.CorruptedStructure, "journal: unknown opcode %v", rec.Kind)
	}
}

func applyAlterModelRecord(g *core.GlobalNS, rec journal.Record) error {
	s := scan.New(rec.Payload)
	nameLen, ok := s.NextU64LEChecked()
	if !ok {
		return errkind.New(errkind.CorruptedStructure, "alter model record: truncated model name length")
	}
	nameBytes, ok := s.NextChunkU64Checked(nameLen)
	if !ok {
		return errkind.New(errkind.CorruptedStructure, "alter model record: truncated model name")
	}
	actionByte, ok := s.NextByteChecked()
	if !ok {
		return errkind.New(errkind.CorruptedStructure, "alter model record: truncated action byte")
	}
	modelName := string(nameBytes)
	action := ql.AlterAction(actionByte)

	switch action {
	case ql.AlterRemove:
		count, ok := s.NextU64LEChecked()
		if !ok {
			return errkind.New(errkind.CorruptedStructure, "alter model record: truncated removed-field count")
		}
		names := make([]string, 0, count)
		for i := uint64(0); i < count; i++ {
			l, ok := s.NextU64LEChecked()
			if !ok {
				return errkind.New(errkind.CorruptedStructure, "alter model record: truncated removed-field name length")
			}
			b, ok := s.NextChunkU64Checked(l)
			if !ok {
				return errkind.New(errkind.CorruptedStructure, "alter model record: truncated removed-field name")
			}
			names = append(names, string(b))
		}
		return g.AlterModelRemove(rec.SpaceName, modelName, names)

	case ql.AlterAdd, ql.AlterUpdate:
		fields, err := persist.DecodeFieldMap(s)
		if err != nil {
			return err
		}
		if action == ql.AlterAdd {
			return g.AlterModelAdd(rec.SpaceName, modelName, fields)
		}
		return g.AlterModelUpdate(rec.SpaceName, modelName, fields)

	default:
		return errkind.New(errkind.CorruptedStructure, "alter model record: unknown action byte %d", actionByte)
	}
}

func decodeSpaceOp(payload []byte) (string, *dictval.Dict, error) {
	s := scan.New(payload)
	nameLen, ok := s.NextU64LEChecked()
	if !ok {
		return "", nil, errkind.New(errkind.CorruptedStructure, "space op: truncated name length")
	}
	nameBytes, ok := s.NextChunkU64Checked(nameLen)
	if !ok {
		return "", nil, errkind.New(errkind.CorruptedStructure, "space op: truncated name")
	}
	with, err := persist.DecodeDict(s)
	if err != nil {
		return "", nil, err
	}
	return string(nameBytes), with, nil
}

func decodeDropOp(payload []byte) (string, bool, error) {
	s := scan.New(payload)
	nameLen, ok := s.NextU64LEChecked()
	if !ok {
		return "", false, errkind.New(errkind.CorruptedStructure, "drop op: truncated name length")
	}
	nameBytes, ok := s.NextChunkU64Checked(nameLen)
	if !ok {
		return "", false, errkind.New(errkind.CorruptedStructure, "drop op: truncated name")
	}
	forceByte, ok := s.NextByteChecked()
	if !ok {
		return "", false, errkind.New(errkind.CorruptedStructure, "drop op: truncated force flag")
	}
	return string(nameBytes), forceByte != 0, nil
}
