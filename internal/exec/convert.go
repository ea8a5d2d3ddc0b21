package exec

import (
	"skytable/internal/core"
	"skytable/internal/dictval"
	"skytable/internal/ql"
)

// fieldSpecToCoreField turns one parsed field declaration into the
// schema graph's own Field type, flattening its layer chain through
// core.NewField exactly as a hand-built *core.Field would be.
func fieldSpecToCoreField(fs *ql.FieldSpec) (*core.Field, error) {
	layer, err := layerSpecToCoreLayer(fs.Layer)
	if err != nil {
		return nil, err
	}
	return core.NewField(fs.Name, fs.Primary, layer), nil
}

func fieldSpecsToCoreFields(specs []*ql.FieldSpec) ([]*core.Field, error) {
	fields := make([]*core.Field, 0, len(specs))
	for _, fs := range specs {
		f, err := fieldSpecToCoreField(fs)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// layerSpecToCoreLayer converts a parsed LayerSpec's property map (a
// plain map the parser builds as it reads `{ key: value, ... }`) into
// the dictval.Dict a core.Layer carries, recursing into Inner for a
// list layer's element type.
func layerSpecToCoreLayer(ls *ql.LayerSpec) (*core.Layer, error) {
	props := dictval.New()
	for k, v := range ls.Props {
		if err := props.Set(k, v); err != nil {
			return nil, err
		}
	}
	layer := &core.Layer{Selector: ls.Selector, Props: props}
	if ls.Inner != nil {
		inner, err := layerSpecToCoreLayer(ls.Inner)
		if err != nil {
			return nil, err
		}
		layer.Inner = inner
	}
	return layer, nil
}
