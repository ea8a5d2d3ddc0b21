package core

import (
	"sync"

	"skytable/internal/dictval"
	"skytable/internal/engine"
	"skytable/internal/errkind"
	"skytable/internal/scan"
	"skytable/internal/tag"
)

// Model is a schema: a primary-key field plus an ordered-insertion
// mapping from field name to Field (declaration order is preserved
// and must be persistable, per §4.2). A Model owns one KV engine
// instance whose concrete variant (row or list) is fixed at creation
// time by isListModel. Model stores its owning space's name rather
// than a pointer, avoiding the cyclic Space<->Model ownership the
// spec calls out.
type Model struct {
	mu sync.RWMutex

	Name         string
	SpaceName    string
	PrimaryField string
	primaryTag   tag.CUTag
	IsListModel  bool

	fields *scan.OrderedIndex[string, *Field]

	KV *engine.Engine
}

// newModel runs the model-creation algorithm (§4.6 steps 1–4) and, on
// success, returns a fully wired Model with its KV engine installed.
func newModel(spaceName, name string, fields []*Field, with *dictval.Dict) (*Model, error) {
	primary, err := validateFieldSet(fields)
	if err != nil {
		return nil, err
	}

	idx := scan.NewOrderedIndex[string, *Field]()
	for _, f := range fields {
		if fresh := idx.FreshEntry(f.Name, f); !fresh {
			return nil, errkind.New(errkind.BadFieldDefinition, "duplicate field %q", f.Name)
		}
	}

	listModel := isListModel(fields, primary)
	primaryTag := tag.CUTagOf(primary.Class())
	if primaryTag.Unique == tag.UniqueIllegal {
		return nil, errkind.New(errkind.BadFieldDefinition, "type %v cannot be a primary key", primary.Class())
	}

	m := &Model{
		Name:         name,
		SpaceName:    spaceName,
		PrimaryField: primary.Name,
		primaryTag:   primaryTag,
		IsListModel:  listModel,
		fields:       idx,
		KV:           engine.New(primaryTag.Unique, listModel),
	}
	_ = with // the model-level property dict is accepted and discarded; no model-level properties are defined in this build
	return m, nil
}

// Field looks up a field by name.
func (m *Model) Field(name string) (*Field, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fields.Get(name)
}

// Fields returns the model's fields in declaration order.
func (m *Model) Fields() []*Field {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Field, 0, m.fields.Len())
	m.fields.Iterate(func(_ string, f *Field) bool {
		out = append(out, f)
		return true
	})
	return out
}

// FieldNames returns field names in declaration order.
func (m *Model) FieldNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fields.Keys()
}

// addField implements the ADD clause of ALTER MODEL: the new field
// must not collide with an existing name and must pass the same
// per-selector layer validation a CREATE MODEL field would.
func (m *Model) addField(f *Field) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f.Primary {
		return errkind.New(errkind.UnsupportedAlter, "cannot add a new primary field")
	}
	if err := validateLayer(f.Layers); err != nil {
		return err
	}
	if fresh := m.fields.FreshEntry(f.Name, f); !fresh {
		return errkind.New(errkind.AlreadyExists, "field %q already exists", f.Name)
	}
	return nil
}

// removeField implements the REMOVE clause of ALTER MODEL.
func (m *Model) removeField(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.fields.Get(name)
	if !ok {
		return errkind.New(errkind.DoesNotExist, "field %q does not exist", name)
	}
	if f.Primary {
		return errkind.New(errkind.UnsupportedAlter, "cannot remove the primary field")
	}
	_, _ = m.fields.Remove(name)
	return nil
}

// updateField implements the UPDATE clause of ALTER MODEL. Changing a
// field's class (not just its width or its property dict) is rejected
// as an unsupported narrowing/widening change; the primary field's
// tag can never be altered.
func (m *Model) updateField(f *Field) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.fields.Get(f.Name)
	if !ok {
		return errkind.New(errkind.DoesNotExist, "field %q does not exist", f.Name)
	}
	if existing.Primary {
		return errkind.New(errkind.UnsupportedAlter, "cannot alter the primary field's type")
	}
	if err := validateLayer(f.Layers); err != nil {
		return err
	}
	if existing.Class() != f.Class() {
		return errkind.New(errkind.UnsupportedAlter, "cannot change field %q's class from %v to %v", f.Name, existing.Class(), f.Class())
	}
	f.Primary = existing.Primary
	m.fields.Set(f.Name, f)
	return nil
}
