package core

import (
	"sync"

	"skytable/internal/dictval"
	"skytable/internal/errkind"
	"skytable/internal/scan"
)

// Space is a named container of models plus a property dictionary.
// Model-name uniqueness is scoped to the space; space-name uniqueness
// is scoped to the GlobalNS.
type Space struct {
	mu     sync.RWMutex
	Name   string
	Props  *dictval.Dict
	models *scan.HashIndex[string, *Model]
}

func newSpace(name string, with *dictval.Dict) *Space {
	if with == nil {
		with = dictval.New()
	}
	return &Space{Name: name, Props: with, models: scan.NewHashIndex[string, *Model]()}
}

// Model looks up a model by name.
func (sp *Space) Model(name string) (*Model, bool) {
	sp.mu.RLock()
	defer sp.mu.RUnlock()
	return sp.models.Get(name)
}

// Models returns every model currently installed in the space, order
// unspecified — used by snapshotting, which walks the full catalogue.
func (sp *Space) Models() []*Model {
	sp.mu.RLock()
	defer sp.mu.RUnlock()
	out := make([]*Model, 0, sp.models.Len())
	sp.models.Iterate(func(_ string, m *Model) bool {
		out = append(out, m)
		return true
	})
	return out
}

// Empty reports whether the space contains no models, the precondition
// transactional_exec_drop checks unless FORCE is given.
func (sp *Space) Empty() bool {
	sp.mu.RLock()
	defer sp.mu.RUnlock()
	return sp.models.Len() == 0
}

func (sp *Space) installModel(m *Model) error {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	if fresh := sp.models.FreshEntry(m.Name, m); !fresh {
		return errkind.New(errkind.AlreadyExists, "model %q already exists in space %q", m.Name, sp.Name)
	}
	return nil
}

func (sp *Space) dropModel(name string, force bool) error {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	m, ok := sp.models.Get(name)
	if !ok {
		return errkind.New(errkind.DoesNotExist, "model %q does not exist in space %q", name, sp.Name)
	}
	if !force {
		_ = m // no row-count check: a non-force drop removes the model even when its KV engine holds rows
	}
	_, _ = sp.models.Remove(name)
	return nil
}

// alterProps merges with's keys into Props, overwriting any existing
// key of the same name — the whole point of ALTER SPACE WITH <dict>.
func (sp *Space) alterProps(with *dictval.Dict) error {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	for _, k := range with.Keys() {
		v, _ := with.Get(k)
		sp.Props.Put(k, v)
	}
	return nil
}
