// Package wire implements the request/response frame codec named in
// §6, consumed by the out-of-scope connection loop: a request frame
// carries a query template plus a separate parameter byte string (the
// lexer's secure-mode input), and a response frame carries one of
// Empty/Error/Row/Rows, tagged the same way a persisted dict value is
// (§4.8's dscr byte family, reused here for wire values too).
package wire

import (
	"encoding/binary"

	"skytable/internal/data"
	"skytable/internal/errkind"
	"skytable/internal/scan"
	"skytable/internal/tag"
)

// Request is one decoded wire request frame.
type Request struct {
	Version byte
	Flags   byte
	Query   []byte
	Params  []byte
}

func appendU64LE(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

// EncodeRequest serializes r per §6's request frame layout.
func EncodeRequest(r Request) []byte {
	buf := []byte{r.Version, r.Flags}
	buf = appendU64LE(buf, uint64(len(r.Query)))
	buf = appendU64LE(buf, uint64(len(r.Params)))
	buf = append(buf, r.Query...)
	buf = append(buf, r.Params...)
	return buf
}

// DecodeRequest reads one request frame from s, never reading past
// its end.
func DecodeRequest(s *scan.Scanner) (Request, error) {
	version, ok := s.NextByteChecked()
	if !ok {
		return Request{}, errkind.New(errkind.CorruptedStructure, "request: truncated version")
	}
	flags, ok := s.NextByteChecked()
	if !ok {
		return Request{}, errkind.New(errkind.CorruptedStructure, "request: truncated flags")
	}
	queryLen, ok := s.NextU64LEChecked()
	if !ok {
		return Request{}, errkind.New(errkind.CorruptedStructure, "request: truncated query length")
	}
	paramLen, ok := s.NextU64LEChecked()
	if !ok {
		return Request{}, errkind.New(errkind.CorruptedStructure, "request: truncated param length")
	}
	query, ok := s.NextChunkU64Checked(queryLen)
	if !ok {
		return Request{}, errkind.New(errkind.CorruptedStructure, "request: truncated query bytes")
	}
	params, ok := s.NextChunkU64Checked(paramLen)
	if !ok {
		return Request{}, errkind.New(errkind.CorruptedStructure, "request: truncated param bytes")
	}
	return Request{Version: version, Flags: flags, Query: append([]byte(nil), query...), Params: append([]byte(nil), params...)}, nil
}

// ResponseKind is the leading byte of a response frame.
type ResponseKind byte

const (
	KindEmpty ResponseKind = 0x00
	KindError ResponseKind = 0x01
	KindRow   ResponseKind = 0x02
	KindRows  ResponseKind = 0x03
)

// Response is one wire response frame.
type Response struct {
	Kind      ResponseKind
	ErrorKind errkind.Kind
	Row       []data.Cell
	Rows      [][]data.Cell
}

// Empty, Err, Row1, and Rows build the four Response variants.
func Empty() Response                        { return Response{Kind: KindEmpty} }
func Err(k errkind.Kind) Response             { return Response{Kind: KindError, ErrorKind: k} }
func Row1(cols []data.Cell) Response          { return Response{Kind: KindRow, Row: cols} }
func Rows(rows [][]data.Cell) Response        { return Response{Kind: KindRows, Rows: rows} }

// EncodeResponse serializes r per §6's response frame layout.
func EncodeResponse(r Response) []byte {
	switch r.Kind {
	case KindEmpty:
		return []byte{byte(KindEmpty)}
	case KindError:
		buf := []byte{byte(KindError), 0, 0}
		binary.LittleEndian.PutUint16(buf[1:], uint16(r.ErrorKind))
		return buf
	case KindRow:
		buf := []byte{byte(KindRow)}
		for _, c := range r.Row {
			buf = append(buf, encodeTaggedValue(c)...)
		}
		return buf
	case KindRows:
		buf := []byte{byte(KindRows)}
		buf = appendU64LE(buf, uint64(len(r.Rows)))
		for _, row := range r.Rows {
			buf = appendU64LE(buf, uint64(len(row)))
			for _, c := range row {
				buf = append(buf, encodeTaggedValue(c)...)
			}
		}
		return buf
	default:
		return []byte{byte(KindEmpty)}
	}
}

// dscr mirrors internal/persist's dict value discriminator (§4.8),
// reused here as the wire's tagged-value discriminator per §6.
const (
	dscrNull = 0
	dscrBool = 1
	dscrUint = 2
	dscrSint = 3
	dscrFlt  = 4
	dscrBin  = 5
	dscrStr  = 6
)

func encodeTaggedValue(c data.Cell) []byte {
	if c.IsNull() {
		return []byte{dscrNull}
	}
	switch c.Class() {
	case tag.Bool:
		v, _ := c.ReadBool()
		b := byte(0)
		if v {
			b = 1
		}
		return []byte{dscrBool, b}
	case tag.UInt:
		v, _ := c.ReadUint()
		return appendU64LE([]byte{dscrUint}, v)
	case tag.SInt:
		v, _ := c.ReadSint()
		return appendU64LE([]byte{dscrSint}, uint64(v))
	case tag.Float:
		v, _ := c.ReadFloat()
		return appendU64LE([]byte{dscrFlt}, floatBits(v))
	case tag.Bin:
		v, _ := c.ReadBin()
		buf := appendU64LE([]byte{dscrBin}, uint64(len(v)))
		return append(buf, v...)
	case tag.Str:
		v, _ := c.ReadStr()
		buf := appendU64LE([]byte{dscrStr}, uint64(len(v)))
		return append(buf, v...)
	default:
		return []byte{dscrNull}
	}
}

// DecodeResponse reads one response frame from s.
func DecodeResponse(s *scan.Scanner) (Response, error) {
	kindByte, ok := s.NextByteChecked()
	if !ok {
		return Response{}, errkind.New(errkind.CorruptedStructure, "response: truncated kind")
	}
	switch ResponseKind(kindByte) {
	case KindEmpty:
		return Empty(), nil
	case KindError:
		chunk, ok := s.NextChunkChecked(2)
		if !ok {
			return Response{}, errkind.New(errkind.CorruptedStructure, "response: truncated error code")
		}
		return Err(errkind.Kind(binary.LittleEndian.Uint16(chunk))), nil
	case KindRow:
		cols, err := decodeRowToEOF(s)
		if err != nil {
			return Response{}, err
		}
		return Row1(cols), nil
	case KindRows:
		count, ok := s.NextU64LEChecked()
		if !ok {
			return Response{}, errkind.New(errkind.CorruptedStructure, "response: truncated row count")
		}
		var rows [][]data.Cell
		for i := uint64(0); i < count; i++ {
			colCount, ok := s.NextU64LEChecked()
			if !ok {
				return Response{}, errkind.New(errkind.CorruptedStructure, "response: row %d truncated column count", i)
			}
			var cols []data.Cell
			for j := uint64(0); j < colCount; j++ {
				c, err := decodeTaggedValue(s)
				if err != nil {
					return Response{}, err
				}
				cols = append(cols, c)
			}
			rows = append(rows, cols)
		}
		return Rows(rows), nil
	default:
		return Response{}, errkind.New(errkind.CorruptedPayload, "response: unknown kind byte %d", kindByte)
	}
}

// decodeRowToEOF decodes tagged values until the scanner is
// exhausted — a KindRow frame carries no explicit column count
// because §6 defines it as "N columns as tagged values" with N
// implicit in the frame length the transport already delimits.
func decodeRowToEOF(s *scan.Scanner) ([]data.Cell, error) {
	var cols []data.Cell
	for !s.EOF() {
		c, err := decodeTaggedValue(s)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, nil
}

func decodeTaggedValue(s *scan.Scanner) (data.Cell, error) {
	dscr, ok := s.NextByteChecked()
	if !ok {
		return data.Cell{}, errkind.New(errkind.CorruptedStructure, "tagged value: truncated dscr")
	}
	switch dscr {
	case dscrNull:
		return data.Null(), nil
	case dscrBool:
		b, ok := s.NextByteChecked()
		if !ok {
			return data.Cell{}, errkind.New(errkind.CorruptedStructure, "tagged value: truncated bool")
		}
		return data.NewBool(b != 0), nil
	case dscrUint:
		v, ok := s.NextU64LEChecked()
		if !ok {
			return data.Cell{}, errkind.New(errkind.CorruptedStructure, "tagged value: truncated uint")
		}
		return data.NewUint(v), nil
	case dscrSint:
		v, ok := s.NextU64LEChecked()
		if !ok {
			return data.Cell{}, errkind.New(errkind.CorruptedStructure, "tagged value: truncated sint")
		}
		return data.NewSint(int64(v)), nil
	case dscrFlt:
		v, ok := s.NextU64LEChecked()
		if !ok {
			return data.Cell{}, errkind.New(errkind.CorruptedStructure, "tagged value: truncated float")
		}
		return data.NewFloat(floatFromBits(v)), nil
	case dscrBin:
		n, ok := s.NextU64LEChecked()
		if !ok {
			return data.Cell{}, errkind.New(errkind.CorruptedStructure, "tagged value: truncated bin length")
		}
		raw, ok := s.NextChunkU64Checked(n)
		if !ok {
			return data.Cell{}, errkind.New(errkind.CorruptedStructure, "tagged value: truncated bin")
		}
		return data.NewBin(append([]byte(nil), raw...)), nil
	case dscrStr:
		n, ok := s.NextU64LEChecked()
		if !ok {
			return data.Cell{}, errkind.New(errkind.CorruptedStructure, "tagged value: truncated str length")
		}
		raw, ok := s.NextChunkU64Checked(n)
		if !ok {
			return data.Cell{}, errkind.New(errkind.CorruptedStructure, "tagged value: truncated str")
		}
		return data.NewStr(string(raw)), nil
	default:
		return data.Cell{}, errkind.New(errkind.CorruptedPayload, "tagged value: unknown dscr %d", dscr)
	}
}
