// Package journal implements the append-only write-ahead log format
// named in §6: a sequence of length-prefixed frames, each carrying a
// schema-mutation opcode (internal/core.OperationKind) plus its
// internal/persist-encoded payload. Structurally a journal is a
// persisted migration plan, grounded on
// internal/migration/migration.go's Operations []core.Operation
// sequence — that package holds its plan in memory for a CLI to print
// or apply; this one serializes the same shape to a file so a crashed
// server can replay it on restart.
package journal

import (
	"encoding/binary"
	"os"
	"sync"

	"github.com/google/uuid"

	"skytable/internal/core"
	"skytable/internal/errkind"
)

// Writer appends records to one journal file. Appends are serialized
// by mu, matching §5's "Journal file — mutex; appends serialized."
// Every record this Writer produces is stamped with the same
// sessionID, generated fresh when the Writer is constructed — a
// reader concatenating journal segments from different server runs
// can detect the seam by watching sessionID change mid-stream.
type Writer struct {
	mu        sync.Mutex
	f         *os.File
	sessionID uuid.UUID
}

// Create opens path for appending, creating it if absent, and assigns
// a fresh random session id to everything this Writer appends.
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errkind.Wrap(errkind.IOError, err)
	}
	return &Writer{f: f, sessionID: uuid.New()}, nil
}

// SessionID returns the session id stamped on every record this
// Writer appends.
func (w *Writer) SessionID() uuid.UUID {
	return w.sessionID
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	return w.f.Close()
}

// Append writes one record: `u64 LE record_len ; record_bytes`, where
// record_bytes is the 16-byte session id, the 1-byte opcode, the
// operation's space name and model name (each a `u64 LE length + bytes`
// field, model name empty for space-level operations), and the
// operation's already-encoded payload (see internal/persist). Space and
// model name are carried in the frame itself, not folded into Payload,
// so a replay reading the journal back after a process restart (no
// in-memory core.Operation to fall back on) can always recover which
// space and model a record belongs to, including for DROP_MODEL/
// ALTER_MODEL whose payloads never name their own space. The write is
// a single buffered Write call per record rather than separate
// length/body writes, so a crash mid-append can at worst truncate the
// very last record, never corrupt an earlier one.
func (w *Writer) Append(op core.Operation) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	idBytes, err := w.sessionID.MarshalBinary()
	if err != nil {
		return errkind.Wrap(errkind.Internal, err)
	}

	record := make([]byte, 0, len(idBytes)+1+8+len(op.SpaceName)+8+len(op.ModelName)+len(op.Payload))
	record = append(record, idBytes...)
	record = append(record, byte(op.Kind))
	record = appendU64LE(record, uint64(len(op.SpaceName)))
	record = append(record, op.SpaceName...)
	record = appendU64LE(record, uint64(len(op.ModelName)))
	record = append(record, op.ModelName...)
	record = append(record, op.Payload...)

	frame := make([]byte, 8+len(record))
	binary.LittleEndian.PutUint64(frame[:8], uint64(len(record)))
	copy(frame[8:], record)

	if _, err := w.f.Write(frame); err != nil {
		return errkind.Wrap(errkind.IOError, err)
	}
	return nil
}

func appendU64LE(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}
