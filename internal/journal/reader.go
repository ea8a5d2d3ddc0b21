package journal

import (
	"os"

	"github.com/google/uuid"

	"skytable/internal/core"
	"skytable/internal/errkind"
	"skytable/internal/scan"
)

// Record is one decoded journal frame.
type Record struct {
	SessionID uuid.UUID
	Kind      core.OperationKind
	SpaceName string
	ModelName string // empty for space-level operations
	Payload   []byte
}

const sessionIDLen = 16

// ReadAll decodes every frame in path in order. It never reads past
// the end of a truncated final frame; a short trailing frame (the
// crash-mid-append case Append's single-write design anticipates) is
// reported as an error rather than a partial Record, and the records
// decoded before it are still returned alongside the error so a
// replay tool can recover everything durably written.
func ReadAll(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errkind.Wrap(errkind.IOError, err)
	}
	s := scan.New(data)
	var records []Record
	for !s.EOF() {
		recLen, ok := s.NextU64LEChecked()
		if !ok {
			return records, errkind.New(errkind.CorruptedStructure, "journal: truncated frame length")
		}
		body, ok := s.NextChunkU64Checked(recLen)
		if !ok {
			return records, errkind.New(errkind.CorruptedStructure, "journal: truncated frame body")
		}
		rec, err := decodeRecord(body)
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeRecord(body []byte) (Record, error) {
	if len(body) < sessionIDLen+1 {
		return Record{}, errkind.New(errkind.CorruptedStructure, "journal: frame shorter than session-id+opcode header")
	}
	var id uuid.UUID
	if err := id.UnmarshalBinary(body[:sessionIDLen]); err != nil {
		return Record{}, errkind.Wrap(errkind.CorruptedPayload, err)
	}
	opcode := core.OperationKind(body[sessionIDLen])
	s := scan.New(body[sessionIDLen+1:])

	spaceLen, ok := s.NextU64LEChecked()
	if !ok {
		return Record{}, errkind.New(errkind.CorruptedStructure, "journal: truncated frame space-name length")
	}
	spaceBytes, ok := s.NextChunkU64Checked(spaceLen)
	if !ok {
		return Record{}, errkind.New(errkind.CorruptedStructure, "journal: truncated frame space name")
	}
	modelLen, ok := s.NextU64LEChecked()
	if !ok {
		return Record{}, errkind.New(errkind.CorruptedStructure, "journal: truncated frame model-name length")
	}
	modelBytes, ok := s.NextChunkU64Checked(modelLen)
	if !ok {
		return Record{}, errkind.New(errkind.CorruptedStructure, "journal: truncated frame model name")
	}
	rest := s.NextChunk(s.Remaining())
	payload := make([]byte, len(rest))
	copy(payload, rest)

	return Record{
		SessionID: id,
		Kind:      opcode,
		SpaceName: string(spaceBytes),
		ModelName: string(modelBytes),
		Payload:   payload,
	}, nil
}

// DistinctSessions returns the set of session ids seen across
// records, in first-seen order. More than one entry means the journal
// file is a concatenation of segments from different server runs.
func DistinctSessions(records []Record) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var out []uuid.UUID
	for _, r := range records {
		if !seen[r.SessionID] {
			seen[r.SessionID] = true
			out = append(out, r.SessionID)
		}
	}
	return out
}
