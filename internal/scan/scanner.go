// Package scan provides the bounded byte cursor the lexer tokenizes
// over (Scanner), a small stack-resident growable array used to avoid
// heap allocation for short token runs (UArray), and the index trait
// surface behind a Model's ordered field map and a Space's unordered
// model map.
package scan

import "encoding/binary"

// Scanner is a random-access forward cursor over a byte slice. Every
// next_* method requires the caller to have pretested HasLeft for the
// number of bytes it is about to consume; Scanner never reads past the
// end of its buffer; callers that skip the pretest get a panic from
// the underlying slice rather than a silent out-of-bounds read.
type Scanner struct {
	buf    []byte
	cursor int
}

// New wraps buf in a Scanner starting at offset 0.
func New(buf []byte) *Scanner {
	return &Scanner{buf: buf}
}

// Cursor returns the current byte offset.
func (s *Scanner) Cursor() int { return s.cursor }

// Len returns the total length of the underlying buffer.
func (s *Scanner) Len() int { return len(s.buf) }

// Remaining returns the number of unconsumed bytes.
func (s *Scanner) Remaining() int { return len(s.buf) - s.cursor }

// HasLeft reports whether at least n more bytes remain.
func (s *Scanner) HasLeft(n int) bool {
	return s.Remaining() >= n
}

// EOF reports whether the cursor has reached the end of the buffer.
func (s *Scanner) EOF() bool {
	return s.cursor >= len(s.buf)
}

// Peek returns the byte at the cursor without advancing it. Caller
// must pretest HasLeft(1).
func (s *Scanner) Peek() byte {
	return s.buf[s.cursor]
}

// PeekAt returns the byte offset bytes ahead of the cursor without
// advancing. Caller must pretest HasLeft(offset + 1).
func (s *Scanner) PeekAt(offset int) byte {
	return s.buf[s.cursor+offset]
}

// NextByte consumes and returns one byte. Caller must pretest
// HasLeft(1).
func (s *Scanner) NextByte() byte {
	b := s.buf[s.cursor]
	s.cursor++
	return b
}

// Advance moves the cursor forward n bytes without reading them.
// Caller must pretest HasLeft(n).
func (s *Scanner) Advance(n int) {
	s.cursor += n
}

// NextChunk consumes and returns the next n bytes as a sub-slice of
// the underlying buffer (no copy). Caller must pretest HasLeft(n).
func (s *Scanner) NextChunk(n int) []byte {
	chunk := s.buf[s.cursor : s.cursor+n]
	s.cursor += n
	return chunk
}

// NextChunkVariable is an alias of NextChunk kept for parity with the
// scanner contract's next_chunk_variable name; both return a borrowed
// slice of exactly n bytes.
func (s *Scanner) NextChunkVariable(n int) []byte {
	return s.NextChunk(n)
}

// NextU64LE consumes 8 bytes and decodes them as a little-endian
// uint64, per the engine-wide rule that all multi-byte integers are
// little-endian. Caller must pretest HasLeft(8).
func (s *Scanner) NextU64LE() uint64 {
	v := binary.LittleEndian.Uint64(s.buf[s.cursor : s.cursor+8])
	s.cursor += 8
	return v
}

// NextU64LEChecked is the fallible counterpart used by persistence
// decoders that would rather return a decode error than trust a
// pretest: it reports ok=false instead of panicking when fewer than 8
// bytes remain.
func (s *Scanner) NextU64LEChecked() (v uint64, ok bool) {
	if !s.HasLeft(8) {
		return 0, false
	}
	return s.NextU64LE(), true
}

// NextByteChecked is the fallible counterpart of NextByte.
func (s *Scanner) NextByteChecked() (b byte, ok bool) {
	if !s.HasLeft(1) {
		return 0, false
	}
	return s.NextByte(), true
}

// NextChunkChecked is the fallible counterpart of NextChunk.
func (s *Scanner) NextChunkChecked(n int) (chunk []byte, ok bool) {
	if !s.HasLeft(n) {
		return nil, false
	}
	return s.NextChunk(n), true
}

// SliceFrom returns the bytes already consumed between start and the
// current cursor position, without affecting the cursor. Used by
// tokenizers that scan a run of characters (an identifier, a number)
// and then need the exact bytes they walked over.
func (s *Scanner) SliceFrom(start int) []byte {
	return s.buf[start:s.cursor]
}

// NextChunkU64Checked is NextChunkChecked for a length read off the
// wire as a u64: the comparison against Remaining happens in uint64
// space before any conversion to int, so an adversarial length too
// large to fit in an int (or that would go negative once converted)
// is rejected as ok=false instead of ever reaching a slice expression.
func (s *Scanner) NextChunkU64Checked(n uint64) (chunk []byte, ok bool) {
	if n > uint64(s.Remaining()) {
		return nil, false
	}
	return s.NextChunk(int(n)), true
}
