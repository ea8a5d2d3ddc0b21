package engine

import (
	"encoding/binary"
	"hash/fnv"

	"skytable/internal/data"
	"skytable/internal/errkind"
	"skytable/internal/tag"
)

// keyBytes canonicalizes a primary-key Cell into the byte string used
// both as the shard map key and as the shard-selection hash input.
// uint/sint keys are encoded 8-byte little-endian (matching the
// engine-wide LE rule); bin/str keys are used as-is. Bool, Float, and
// List cannot key a record — TagUnique(their class) is
// tag.UniqueIllegal, and model creation already refuses to accept them
// as a primary field's type.
func keyBytes(k data.Cell, unique tag.Unique) (string, error) {
	switch unique {
	case tag.UniqueUInt:
		v, err := k.ReadUint()
		if err != nil {
			return "", errkind.Wrap(errkind.TypeMismatch, err)
		}
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], v)
		return string(buf[:]), nil
	case tag.UniqueSInt:
		v, err := k.ReadSint()
		if err != nil {
			return "", errkind.Wrap(errkind.TypeMismatch, err)
		}
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		return string(buf[:]), nil
	case tag.UniqueBin:
		v, err := k.ReadBin()
		if err != nil {
			return "", errkind.Wrap(errkind.TypeMismatch, err)
		}
		return string(v), nil
	case tag.UniqueStr:
		v, err := k.ReadStr()
		if err != nil {
			return "", errkind.Wrap(errkind.TypeMismatch, err)
		}
		return v, nil
	default:
		return "", errkind.New(errkind.TypeMismatch, "class %v has no primary-key identity", k.Class())
	}
}

// shardIndex picks a shard deterministically from the key's canonical
// bytes via FNV-1a, so the same key always lands on the same shard
// regardless of which goroutine looks it up.
func shardIndex(key string, nshards int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % nshards
}
