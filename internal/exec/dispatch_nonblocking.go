package exec

import (
	"skytable/internal/core"
	"skytable/internal/data"
	"skytable/internal/dictval"
	"skytable/internal/errkind"
	"skytable/internal/lexer"
	"skytable/internal/ql"
	"skytable/internal/persist"
	"skytable/internal/tag"
	"skytable/internal/wire"
)

// dispatchNonBlocking parses and runs one DML or read-only
// introspection statement inline, on the calling goroutine. Every
// entity reference here must be fully qualified: dispatch(global,
// squery) is stateless (no connection/session object threads a USE-d
// space through), so USE's only real effect is validating the named
// space exists.
func (d *Dispatcher) dispatchNonBlocking(kw lexer.Kw, toks []lexer.Token) wire.Response {
	stmt, err := ql.Parse(toks, ql.SubstitutedData{})
	if err != nil {
		return wire.Err(errkind.KindOf(err))
	}

	switch s := stmt.(type) {
	case *ql.Use:
		if _, ok := d.Global.Space(s.Space); !ok {
			return wire.Err(errkind.DoesNotExist)
		}
		return wire.Empty()

	case *ql.InspectSpace:
		sp, ok := d.Global.Space(s.Name)
		if !ok {
			return wire.Err(errkind.DoesNotExist)
		}
		return wire.Row1([]data.Cell{data.NewBin(persist.EncodeDict(sp.Props))})

	case *ql.DescribeSpace:
		sp, ok := d.Global.Space(s.Name)
		if !ok {
			return wire.Err(errkind.DoesNotExist)
		}
		return wire.Row1([]data.Cell{data.NewBin(persist.EncodeDict(describeSpaceDict(sp)))})

	case *ql.DescribeModel:
		_, m, err := d.resolveModel(s.Entity)
		if err != nil {
			return wire.Err(errkind.KindOf(err))
		}
		return wire.Row1([]data.Cell{data.NewBin(persist.EncodeDict(describeModelDict(m)))})

	case *ql.Insert:
		return d.execInsert(s)

	case *ql.Select:
		return d.execSelect(s)

	case *ql.Update:
		return d.execUpdate(s)

	case *ql.Delete:
		return d.execDelete(s)

	case *ql.Exists:
		return d.execExists(s)

	default:
		err := errkind.New(errkind.Internal, "non-blocking dispatch received a blocking statement %T", s)
		return wire.Err(errkind.KindOf(err))
	}
}

func (d *Dispatcher) resolveModel(entity ql.EntityRef) (*core.Space, *core.Model, error) {
	if !entity.Qualified() {
		return nil, nil, errkind.New(errkind.WrongEntity, "statement requires a qualified <space.model> reference")
	}
	sp, ok := d.Global.Space(entity.Space)
	if !ok {
		return nil, nil, errkind.New(errkind.DoesNotExist, "space %q does not exist", entity.Space)
	}
	m, ok := sp.Model(entity.Model)
	if !ok {
		return nil, nil, errkind.New(errkind.DoesNotExist, "model %q does not exist in space %q", entity.Model, entity.Space)
	}
	return sp, m, nil
}

func describeSpaceDict(sp *core.Space) *dictval.Dict {
	out := dictval.New()
	for _, k := range sp.Props.Keys() {
		v, _ := sp.Props.Get(k)
		out.Put(k, v)
	}
	names := make([]dictval.Entry, 0, len(sp.Models()))
	for _, m := range sp.Models() {
		names = append(names, dictval.StrEntry(m.Name))
	}
	list, err := dictval.ListEntry(names)
	if err == nil {
		out.Put("models", list)
	}
	return out
}

func describeModelDict(m *core.Model) *dictval.Dict {
	out := dictval.New()
	out.Put("primary_field", dictval.StrEntry(m.PrimaryField))
	out.Put("is_list_model", dictval.BoolEntry(m.IsListModel))
	names := make([]dictval.Entry, 0, len(m.FieldNames()))
	for _, n := range m.FieldNames() {
		names = append(names, dictval.StrEntry(n))
	}
	list, err := dictval.ListEntry(names)
	if err == nil {
		out.Put("fields", list)
	}
	return out
}

func (d *Dispatcher) execInsert(s *ql.Insert) wire.Response {
	_, m, err := d.resolveModel(s.Entity)
	if err != nil {
		return wire.Err(errkind.KindOf(err))
	}
	if m.IsListModel {
		err := errkind.New(errkind.WrongModel, "list models are populated with an UPDATE ... LSET, not INSERT")
		return wire.Err(errkind.KindOf(err))
	}
	fields := m.Fields()
	if len(s.Values) != len(fields) {
		err := errkind.New(errkind.WrongArity, "INSERT expected %d values, got %d", len(fields), len(s.Values))
		return wire.Err(errkind.KindOf(err))
	}
	cols := make([]data.Cell, len(s.Values))
	var keyCell data.Cell
	keyFound := false
	for i, v := range s.Values {
		c, err := v.ToCell()
		if err != nil {
			return wire.Err(errkind.KindOf(err))
		}
		cols[i] = c
		if fields[i].Name == m.PrimaryField {
			keyCell, keyFound = c, true
		}
	}
	if !keyFound {
		err := errkind.New(errkind.Internal, "primary field %q missing from model's own field list", m.PrimaryField)
		return wire.Err(errkind.KindOf(err))
	}
	if err := m.KV.Set(keyCell, cols); err != nil {
		return wire.Err(errkind.KindOf(err))
	}
	return wire.Empty()
}

func (d *Dispatcher) execSelect(s *ql.Select) wire.Response {
	_, m, err := d.resolveModel(s.Entity)
	if err != nil {
		return wire.Err(errkind.KindOf(err))
	}
	if s.List != nil {
		return d.execListGet(m, s)
	}

	if s.KeyField != m.PrimaryField {
		err := errkind.New(errkind.WrongModel, "SELECT's WHERE clause must equal the model's primary field %q", m.PrimaryField)
		return wire.Err(errkind.KindOf(err))
	}
	keyCell, err := s.Key.ToCell()
	if err != nil {
		return wire.Err(errkind.KindOf(err))
	}
	cols, ok, err := m.KV.Get(keyCell)
	if err != nil {
		return wire.Err(errkind.KindOf(err))
	}
	if !ok {
		return wire.Err(errkind.Nil)
	}
	names := m.FieldNames()
	idx := make(map[string]int, len(names))
	for i, n := range names {
		idx[n] = i
	}
	out := make([]data.Cell, len(s.Columns))
	for i, col := range s.Columns {
		pos, ok := idx[col]
		if !ok {
			err := errkind.New(errkind.DoesNotExist, "field %q does not exist on model %q", col, m.Name)
			return wire.Err(errkind.KindOf(err))
		}
		out[i] = cols[pos]
	}
	return wire.Row1(out)
}

func (d *Dispatcher) execListGet(m *core.Model, s *ql.Select) wire.Response {
	if !m.IsListModel {
		err := errkind.New(errkind.WrongModel, "LGET is only valid against a list model")
		return wire.Err(errkind.KindOf(err))
	}
	if err := validateListField(m, s.List.Field); err != nil {
		return wire.Err(errkind.KindOf(err))
	}
	keyCell, err := s.Key.ToCell()
	if err != nil {
		return wire.Err(errkind.KindOf(err))
	}
	list, ok, err := m.KV.LGet(keyCell)
	if err != nil {
		return wire.Err(errkind.KindOf(err))
	}
	if !ok {
		return wire.Err(errkind.Nil)
	}
	switch s.List.Mode {
	case ql.ListGetLen:
		return wire.Row1([]data.Cell{data.NewUint(uint64(list.Len()))})
	case ql.ListGetLimit:
		return wire.Row1(list.Limit(int(s.List.Arg)))
	case ql.ListGetValueAt:
		c, ok := list.At(int(s.List.Arg))
		if !ok {
			return wire.Err(errkind.Nil)
		}
		return wire.Row1([]data.Cell{c})
	default:
		return wire.Row1(list.Snapshot())
	}
}

func validateListField(m *core.Model, field string) error {
	f, ok := m.Field(field)
	if !ok {
		return errkind.New(errkind.DoesNotExist, "field %q does not exist on model %q", field, m.Name)
	}
	if f.Class() != tag.List {
		return errkind.New(errkind.WrongModel, "field %q is not a list field", field)
	}
	return nil
}

func (d *Dispatcher) execUpdate(s *ql.Update) wire.Response {
	_, m, err := d.resolveModel(s.Entity)
	if err != nil {
		return wire.Err(errkind.KindOf(err))
	}
	keyCell, err := s.Key.ToCell()
	if err != nil {
		return wire.Err(errkind.KindOf(err))
	}

	if s.List != nil {
		if !m.IsListModel {
			err := errkind.New(errkind.WrongModel, "LSET is only valid against a list model")
			return wire.Err(errkind.KindOf(err))
		}
		if err := validateListField(m, s.List.Field); err != nil {
			return wire.Err(errkind.KindOf(err))
		}
		items := make([]data.Cell, len(s.List.Values))
		for i, v := range s.List.Values {
			c, err := v.ToCell()
			if err != nil {
				return wire.Err(errkind.KindOf(err))
			}
			items[i] = c
		}
		if err := m.KV.LSet(keyCell, items); err != nil {
			return wire.Err(errkind.KindOf(err))
		}
		return wire.Empty()
	}

	names := m.FieldNames()
	idx := make(map[string]int, len(names))
	for i, n := range names {
		idx[n] = i
	}
	assignments := make(map[int]data.Cell, len(s.Set))
	for _, a := range s.Set {
		pos, ok := idx[a.Field]
		if !ok {
			err := errkind.New(errkind.DoesNotExist, "field %q does not exist on model %q", a.Field, m.Name)
			return wire.Err(errkind.KindOf(err))
		}
		c, err := a.Value.ToCell()
		if err != nil {
			return wire.Err(errkind.KindOf(err))
		}
		assignments[pos] = c
	}
	err = m.KV.Update(keyCell, func(cols []data.Cell) ([]data.Cell, error) {
		next := append([]data.Cell(nil), cols...)
		for pos, c := range assignments {
			next[pos] = c
		}
		return next, nil
	})
	if err != nil {
		return wire.Err(errkind.KindOf(err))
	}
	return wire.Empty()
}

func (d *Dispatcher) execDelete(s *ql.Delete) wire.Response {
	_, m, err := d.resolveModel(s.Entity)
	if err != nil {
		return wire.Err(errkind.KindOf(err))
	}
	if s.KeyField != m.PrimaryField {
		err := errkind.New(errkind.WrongModel, "DELETE's WHERE clause must equal the model's primary field %q", m.PrimaryField)
		return wire.Err(errkind.KindOf(err))
	}
	keyCell, err := s.Key.ToCell()
	if err != nil {
		return wire.Err(errkind.KindOf(err))
	}
	existed, err := m.KV.Del(keyCell)
	if err != nil {
		return wire.Err(errkind.KindOf(err))
	}
	if !existed {
		return wire.Err(errkind.Nil)
	}
	return wire.Empty()
}

func (d *Dispatcher) execExists(s *ql.Exists) wire.Response {
	_, m, err := d.resolveModel(s.Entity)
	if err != nil {
		return wire.Err(errkind.KindOf(err))
	}
	keyCell, err := s.Key.ToCell()
	if err != nil {
		return wire.Err(errkind.KindOf(err))
	}
	var exists bool
	if m.IsListModel {
		_, ok, err := m.KV.LGet(keyCell)
		if err != nil {
			return wire.Err(errkind.KindOf(err))
		}
		exists = ok
	} else {
		_, ok, err := m.KV.Get(keyCell)
		if err != nil {
			return wire.Err(errkind.KindOf(err))
		}
		exists = ok
	}
	return wire.Row1([]data.Cell{data.NewBool(exists)})
}
