package core

// OperationKind is the journal opcode stamped on every schema-mutating
// record (§6's "*.journal — append-only sequence of frames... starting
// with a 1-byte opcode"). The spec leaves the exact numbering to the
// implementer provided it is stable and documented; this assignment
// matches the worked example CREATE_SPACE=1 … DROP_MODEL=6 verbatim so
// a reader cross-referencing the spec's journal dump sees the same
// numbers.
type OperationKind uint8

const (
	OpCreateSpace OperationKind = iota + 1
	OpAlterSpace
	OpDropSpace
	OpCreateModel
	OpAlterModel
	OpDropModel
)

func (k OperationKind) String() string {
	switch k {
	case OpCreateSpace:
		return "CREATE_SPACE"
	case OpAlterSpace:
		return "ALTER_SPACE"
	case OpDropSpace:
		return "DROP_SPACE"
	case OpCreateModel:
		return "CREATE_MODEL"
	case OpAlterModel:
		return "ALTER_MODEL"
	case OpDropModel:
		return "DROP_MODEL"
	default:
		return "UNKNOWN_OP"
	}
}

// Operation is one schema-mutating record destined for the journal: an
// opcode plus the object's identity and its persist-layer-encoded
// payload. internal/journal appends the length-prefixed frame;
// internal/core only ever produces Operation values, never writes
// them to disk itself, keeping the schema graph free of any file I/O
// dependency.
type Operation struct {
	Kind      OperationKind
	SpaceName string
	ModelName string // empty for space-level operations
	Payload   []byte
}
