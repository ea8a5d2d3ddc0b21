package core

import (
	"sync"

	"skytable/internal/dictval"
	"skytable/internal/errkind"
)

// GlobalNS is the top-level namespace: every Space in the running
// engine, keyed by name.
type GlobalNS struct {
	mu     sync.RWMutex
	spaces map[string]*Space
}

// NewGlobalNS returns an empty namespace.
func NewGlobalNS() *GlobalNS {
	return &GlobalNS{spaces: make(map[string]*Space)}
}

// Space looks up a space by name.
func (g *GlobalNS) Space(name string) (*Space, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	sp, ok := g.spaces[name]
	return sp, ok
}

// Spaces returns every space currently installed, order unspecified —
// used by snapshotting, which walks the full catalogue.
func (g *GlobalNS) Spaces() []*Space {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Space, 0, len(g.spaces))
	for _, sp := range g.spaces {
		out = append(out, sp)
	}
	return out
}

// CreateSpace is transactional_exec_create for Space: it installs a
// new, empty space under a single write-locked critical section.
// Journalling the change is the caller's responsibility (internal/exec
// hands the journal record to its OnMutation callback after this
// returns successfully); precondition failure yields already-exists.
func (g *GlobalNS) CreateSpace(name string, with *dictval.Dict) (*Space, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.spaces[name]; exists {
		return nil, errkind.New(errkind.AlreadyExists, "space %q already exists", name)
	}
	sp := newSpace(name, with)
	g.spaces[name] = sp
	return sp, nil
}

// AlterSpace is transactional_exec_alter for Space: merges with's keys
// into the space's property dict in place.
func (g *GlobalNS) AlterSpace(name string, with *dictval.Dict) error {
	sp, ok := g.Space(name)
	if !ok {
		return errkind.New(errkind.DoesNotExist, "space %q does not exist", name)
	}
	return sp.alterProps(with)
}

// DropSpace is transactional_exec_drop for Space: fails with
// non-empty-on-drop unless force is set or the space has no models.
func (g *GlobalNS) DropSpace(name string, force bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	sp, ok := g.spaces[name]
	if !ok {
		return errkind.New(errkind.DoesNotExist, "space %q does not exist", name)
	}
	if !force && !sp.Empty() {
		return errkind.New(errkind.NonEmptyOnDrop, "space %q still has models", name)
	}
	delete(g.spaces, name)
	return nil
}

// CreateModel is transactional_exec_create for Model: resolves the
// owning space, runs the model-creation algorithm, and installs the
// result.
func (g *GlobalNS) CreateModel(spaceName, modelName string, fields []*Field, with *dictval.Dict) (*Model, error) {
	sp, ok := g.Space(spaceName)
	if !ok {
		return nil, errkind.New(errkind.DoesNotExist, "space %q does not exist", spaceName)
	}
	m, err := newModel(spaceName, modelName, fields, with)
	if err != nil {
		return nil, err
	}
	if err := sp.installModel(m); err != nil {
		return nil, err
	}
	return m, nil
}

// AlterModelAdd, AlterModelRemove, and AlterModelUpdate are
// transactional_exec_alter for Model's three clause kinds.
func (g *GlobalNS) AlterModelAdd(spaceName, modelName string, fields []*Field) error {
	m, err := g.resolveModel(spaceName, modelName)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if err := m.addField(f); err != nil {
			return err
		}
	}
	return nil
}

func (g *GlobalNS) AlterModelRemove(spaceName, modelName string, names []string) error {
	m, err := g.resolveModel(spaceName, modelName)
	if err != nil {
		return err
	}
	for _, n := range names {
		if err := m.removeField(n); err != nil {
			return err
		}
	}
	return nil
}

func (g *GlobalNS) AlterModelUpdate(spaceName, modelName string, fields []*Field) error {
	m, err := g.resolveModel(spaceName, modelName)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if err := m.updateField(f); err != nil {
			return err
		}
	}
	return nil
}

// DropModel is transactional_exec_drop for Model. force is accepted but
// not consulted: the model is removed whether or not it holds rows.
func (g *GlobalNS) DropModel(spaceName, modelName string, force bool) error {
	sp, ok := g.Space(spaceName)
	if !ok {
		return errkind.New(errkind.DoesNotExist, "space %q does not exist", spaceName)
	}
	return sp.dropModel(modelName, force)
}

func (g *GlobalNS) resolveModel(spaceName, modelName string) (*Model, error) {
	sp, ok := g.Space(spaceName)
	if !ok {
		return nil, errkind.New(errkind.DoesNotExist, "space %q does not exist", spaceName)
	}
	m, ok := sp.Model(modelName)
	if !ok {
		return nil, errkind.New(errkind.DoesNotExist, "model %q does not exist in space %q", modelName, spaceName)
	}
	return m, nil
}
