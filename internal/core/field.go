// Package core implements the schema object graph (C6): GlobalNS,
// Space, Model, Field, and Layer, plus the transactional create/
// alter/drop entrypoints that install them under a KV engine.
package core

import (
	"skytable/internal/dictval"
	"skytable/internal/tag"
)

// Layer is a TagSelector plus a property dictionary. A list-selector
// layer's element type lives in Inner; every other selector leaves
// Inner nil.
type Layer struct {
	Selector tag.Selector
	Props    *dictval.Dict
	Inner    *Layer
}

// Class reports the semantic class this layer resolves to.
func (l *Layer) Class() tag.Class { return tag.ClassOf(l.Selector) }

// Field is a typed column: an ordered non-empty list of Layers (layer
// 0 innermost) and a nullability flag. Non-list fields carry exactly
// one layer; list fields carry exactly two, the outer one being the
// list selector.
type Field struct {
	Name     string
	Primary  bool
	Nullable bool
	Layers   []*Layer
}

// TopLayer returns the outermost (declared) layer — for a list field
// this is the list layer itself, not its element layer.
func (f *Field) TopLayer() *Layer { return f.Layers[len(f.Layers)-1] }

// Class reports the field's declared top-level class.
func (f *Field) Class() tag.Class { return f.TopLayer().Class() }

// flattenLayer walks a single parsed layer (with its optional Inner
// element layer) into the engine-wide layer-0-innermost ordering: for
// a list layer this yields [element, list]; for any other selector it
// yields the one-element slice [layer].
func flattenLayer(l *Layer) []*Layer {
	if l.Inner == nil {
		return []*Layer{l}
	}
	inner := flattenLayer(l.Inner)
	return append(inner, &Layer{Selector: l.Selector, Props: l.Props})
}

// NewField builds a Field from a single parsed top-level layer,
// flattening it into the declared layer-0-innermost order.
func NewField(name string, primary bool, top *Layer) *Field {
	return &Field{Name: name, Primary: primary, Layers: flattenLayer(top)}
}
