// Package engine implements the per-model KV engine (C7): a sharded
// primary index keyed by primary-key bytes, holding either a row
// (ordered Datacell columns) or, for list models, a single
// rw-lock-protected Datacell list. Sharding follows
// server/src/engine/idx/stdhm.rs's per-bucket-guard shape: readers
// never block readers, and a single writer holds one shard's lock at
// a time rather than a global lock over the whole model.
package engine

import (
	"sync"

	"skytable/internal/data"
	"skytable/internal/errkind"
	"skytable/internal/tag"
)

// shardCount is fixed rather than configurable: the spec names no
// tuning knob for it, and a compile-time constant keeps key-to-shard
// routing allocation-free.
const shardCount = 16

type shard struct {
	mu  sync.RWMutex
	row map[string][]data.Cell
	lst map[string]*data.List
}

// Engine is one model's primary index. isList selects which of the
// shard's two maps is live; a given Engine instance only ever uses
// one, matching "a model owns one KV engine instance whose concrete
// variant is determined by the primary key's TagUnique" plus the
// row/list split from §4.3/§4.7.
type Engine struct {
	shards    [shardCount]*shard
	keyUnique tag.Unique
	isList    bool
}

// New builds an Engine keyed by keyUnique. isList selects the
// list-model variant (§4.7's LSET/LGET family) over the row-model
// variant (SET/GET/UPDATE/DEL).
func New(keyUnique tag.Unique, isList bool) *Engine {
	e := &Engine{keyUnique: keyUnique, isList: isList}
	for i := range e.shards {
		e.shards[i] = &shard{row: make(map[string][]data.Cell), lst: make(map[string]*data.List)}
	}
	return e
}

func (e *Engine) shardFor(k data.Cell) (*shard, string, error) {
	kb, err := keyBytes(k, e.keyUnique)
	if err != nil {
		return nil, "", err
	}
	return e.shards[shardIndex(kb, shardCount)], kb, nil
}

// Set atomically installs a fresh row record. It fails with
// OverwriteError if key is already present.
func (e *Engine) Set(key data.Cell, cols []data.Cell) error {
	sh, kb, err := e.shardFor(key)
	if err != nil {
		return err
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, exists := sh.row[kb]; exists {
		return errkind.New(errkind.OverwriteError, "key already exists")
	}
	sh.row[kb] = cols
	return nil
}

// Get returns key's row columns, or ok=false if absent.
func (e *Engine) Get(key data.Cell) (cols []data.Cell, ok bool, err error) {
	sh, kb, err := e.shardFor(key)
	if err != nil {
		return nil, false, err
	}
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	cols, ok = sh.row[kb]
	return cols, ok, nil
}

// Update mutates key's row in place under the owning shard's write
// lock by calling apply with the current columns; apply's return value
// replaces them. It fails with Nil if key is absent.
func (e *Engine) Update(key data.Cell, apply func(cols []data.Cell) ([]data.Cell, error)) error {
	sh, kb, err := e.shardFor(key)
	if err != nil {
		return err
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()
	cur, exists := sh.row[kb]
	if !exists {
		return errkind.New(errkind.Nil, "key does not exist")
	}
	next, err := apply(cur)
	if err != nil {
		return err
	}
	sh.row[kb] = next
	return nil
}

// Del removes key's row, reporting whether it was present.
func (e *Engine) Del(key data.Cell) (bool, error) {
	sh, kb, err := e.shardFor(key)
	if err != nil {
		return false, err
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()
	_, existed := sh.row[kb]
	delete(sh.row, kb)
	return existed, nil
}

// LSet inserts a new list at key only if key is absent, matching
// §4.7's "LSET list items… inserts only if list is absent".
func (e *Engine) LSet(key data.Cell, items []data.Cell) error {
	sh, kb, err := e.shardFor(key)
	if err != nil {
		return err
	}
	l, err := data.NewList(items)
	if err != nil {
		return err
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, exists := sh.lst[kb]; exists {
		return errkind.New(errkind.OverwriteError, "list already exists at key")
	}
	sh.lst[kb] = l
	return nil
}

// LGet returns the *data.List stored at key, or ok=false if absent.
// The returned List is shared, not copied — callers read it through
// its own rw-lock-protected methods (Len, At, Snapshot, Limit).
func (e *Engine) LGet(key data.Cell) (l *data.List, ok bool, err error) {
	sh, kb, err := e.shardFor(key)
	if err != nil {
		return nil, false, err
	}
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	l, ok = sh.lst[kb]
	return l, ok, nil
}
