package core

import (
	"fmt"

	"go.uber.org/multierr"

	"skytable/internal/errkind"
	"skytable/internal/tag"
)

// scalarLayerProps is the per-selector allow-list for a layer's
// property dict (spec's "validate layer property dict keys against a
// per-selector allow-list"). Numeric and bool selectors take no
// properties in this build; str/bin take length and charset
// constraints; list takes none of its own (its only meaningful key,
// "type", is consumed structurally by the parser into Layer.Inner,
// never reaching this allow-list check).
var scalarLayerProps = map[tag.Selector]map[string]bool{
	tag.SelStr: {"maxlen": true, "ascii_only": true},
	tag.SelBin: {"maxlen": true},
}

// validateLayer checks a field's full layer chain: for a list layer,
// the inner element layer must exist and must not itself be a list
// (no nested lists); every layer's property dict keys must be on its
// selector's allow-list.
func validateLayer(layers []*Layer) error {
	top := layers[len(layers)-1]
	if top.Selector == tag.SelList {
		if len(layers) < 2 {
			return errkind.New(errkind.BadFieldDefinition, "list field missing an inner element type")
		}
		inner := layers[len(layers)-2]
		if inner.Selector == tag.SelList {
			return errkind.New(errkind.BadFieldDefinition, "nested lists are not supported")
		}
	} else if len(layers) != 1 {
		return errkind.New(errkind.BadFieldDefinition, "non-list field must have exactly one layer")
	}
	for _, l := range layers {
		allow := scalarLayerProps[l.Selector]
		for _, k := range l.Props.Keys() {
			if !allow[k] {
				return errkind.New(errkind.BadFieldDefinition, "property %q is not valid for type %v", k, l.Selector)
			}
		}
	}
	return nil
}

// validateFieldSet runs the model-creation algorithm's field checks
// (spec §4.6 step 1): no duplicate names, exactly one primary field.
// Every field's own layer errors are collected via multierr rather
// than stopping at the first one, so a single CREATE MODEL reports
// everything wrong with it at once.
func validateFieldSet(fields []*Field) (primary *Field, err error) {
	seen := make(map[string]bool, len(fields))
	var primaries []*Field
	for _, f := range fields {
		if seen[f.Name] {
			err = multierr.Append(err, errkind.New(errkind.BadFieldDefinition, "duplicate field %q", f.Name))
			continue
		}
		seen[f.Name] = true
		if verr := validateLayer(f.Layers); verr != nil {
			err = multierr.Append(err, fmt.Errorf("field %q: %w", f.Name, verr))
		}
		if f.Primary {
			primaries = append(primaries, f)
		}
	}
	switch len(primaries) {
	case 0:
		err = multierr.Append(err, errkind.New(errkind.BadFieldDefinition, "model has no primary field"))
	case 1:
		primary = primaries[0]
	default:
		err = multierr.Append(err, errkind.New(errkind.BadFieldDefinition, "model has more than one primary field"))
	}
	return primary, err
}

// isListModel reports whether a model's non-primary fields reduce to
// exactly one list-typed field — the shape that routes through the
// list engine (LSET/LGET) instead of the row engine (SET/GET/UPDATE).
func isListModel(fields []*Field, primary *Field) bool {
	var nonPrimary []*Field
	for _, f := range fields {
		if f != primary {
			nonPrimary = append(nonPrimary, f)
		}
	}
	return len(nonPrimary) == 1 && nonPrimary[0].Class() == tag.List
}
