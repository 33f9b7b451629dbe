package toon

import (
	"encoding"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
)

// Unmarshaler is the interface implemented by types that
// can unmarshal a TOON description of themselves.
type Unmarshaler interface {
	UnmarshalTOON([]byte) error
}

// Decoder reads and decodes TOON values from an input stream.
type Decoder struct {
	r    io.Reader
	opts []DecodeOption
}

// NewDecoder returns a new decoder that reads from r.
//
// The decoder may buffer data from r as necessary. It is the caller's
// responsibility to call Close on r if required.
//
// Functional options can be provided to configure the decoding process,
// such as setting a maximum decoding depth with the MaxDepth option.
func NewDecoder(r io.Reader, opts ...DecodeOption) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// Decode reads the next TOON-encoded value from its input and stores it in
// the value pointed to by out. If out is nil or not a pointer, Decode
// returns an error.
//
// See the documentation for Unmarshal for details about the conversion of
// TOON into a Go value.
//
// If the input is malformed, Decode returns a *DecodeError describing the
// failure and the line it occurred on.
//
// Note: This is a non-streaming implementation. It reads the entire
// reader into memory first before parsing.
func (d *Decoder) Decode(out any) error {
	if d.r == nil {
		return fmt.Errorf("toon: Decode(nil reader)")
	}
	data, err := io.ReadAll(d.r)
	if err != nil {
		return err
	}

	o := defaultDecodeOptions()
	for _, opt := range d.opts {
		if err := opt(&o); err != nil {
			return err
		}
	}

	val, err := decodeValue(data, &o)
	if err != nil {
		return err
	}

	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("toon: Unmarshal(non-pointer %T or nil)", out)
	}

	if target, ok := out.(**Value); ok {
		*target = val
		return nil
	}

	ds := &decodeState{depth: o.maxDepth}
	return ds.mapValue(val, rv.Elem())
}

type decodeState struct {
	depth int
}

func (ds *decodeState) mapValue(val *Value, rv reflect.Value) error { //nolint:gocyclo
	ds.depth--
	if ds.depth <= 0 {
		return fmt.Errorf("toon: reached max recursion depth")
	}
	defer func() { ds.depth++ }()

	if val.IsNull() {
		switch rv.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
	}

	// Attempt to use a custom unmarshaler if available.
	handled, err := ds.tryCustomUnmarshal(val, rv)
	if err != nil {
		return err
	}
	if handled {
		return nil
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}

	if rv.Kind() == reflect.Interface {
		return ds.mapInterface(val, rv)
	}
	if !rv.CanSet() {
		return fmt.Errorf("toon: cannot set value of type %s", rv.Type())
	}

	switch val.Kind() {
	case KindNull:
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	case KindBool:
		return ds.mapBool(val, rv)
	case KindNumber:
		return ds.mapNumber(val, rv)
	case KindString:
		return ds.mapString(val, rv)
	case KindArray:
		switch rv.Kind() {
		case reflect.Slice:
			return ds.mapSlice(val, rv)
		case reflect.Array:
			return ds.mapArray(val, rv)
		default:
			return fmt.Errorf("toon: cannot unmarshal array into Go value of type %s", rv.Type())
		}
	case KindObject:
		switch rv.Kind() {
		case reflect.Struct:
			return ds.mapStruct(val, rv)
		case reflect.Map:
			return ds.mapMap(val, rv)
		default:
			return fmt.Errorf("toon: cannot unmarshal object into Go value of type %s", rv.Type())
		}
	default:
		return fmt.Errorf("toon: mapping for value kind %s not implemented", val.Kind())
	}
}

// tryCustomUnmarshal attempts to use a custom unmarshaler (toon.Unmarshaler
// or encoding.TextUnmarshaler) on the given reflect.Value. It returns true
// if a custom unmarshaler was found and used, in which case the caller
// should not proceed with default unmarshaling.
func (ds *decodeState) tryCustomUnmarshal(val *Value, rv reflect.Value) (bool, error) {
	if !rv.CanAddr() {
		return false, nil
	}
	pv := rv.Addr()
	if !pv.CanInterface() {
		return false, nil
	}

	if u, ok := pv.Interface().(Unmarshaler); ok {
		// Re-encode the subtree so the custom unmarshaler sees TOON text.
		o := defaultEncodeOptions()
		f := newFormatter(&o)
		if err := u.UnmarshalTOON(f.format(val)); err != nil {
			return true, &UnmarshalerError{Type: pv.Type(), Err: err}
		}
		return true, nil
	}

	if u, ok := pv.Interface().(encoding.TextUnmarshaler); ok {
		if val.Kind() != KindString {
			// TextUnmarshaler can only be used on string values.
			return false, nil
		}
		s, _ := val.AsStr()
		if err := u.UnmarshalText([]byte(s)); err != nil {
			return true, &UnmarshalerError{Type: pv.Type(), Err: err}
		}
		return true, nil
	}

	return false, nil
}

func (ds *decodeState) mapString(val *Value, rv reflect.Value) error {
	if rv.Kind() != reflect.String {
		return fmt.Errorf("toon: cannot unmarshal string into Go value of type %s", rv.Type())
	}
	s, _ := val.AsStr()
	rv.SetString(s)
	return nil
}

func (ds *decodeState) mapNumber(val *Value, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := val.AsInt()
		if err != nil {
			return fmt.Errorf("toon: cannot unmarshal number into Go value of type %s: %w", rv.Type(), err)
		}
		if rv.OverflowInt(i) {
			return fmt.Errorf("toon: integer value %d overflows Go value of type %s", i, rv.Type())
		}
		rv.SetInt(i)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		i, err := val.AsInt()
		if err != nil {
			return fmt.Errorf("toon: cannot unmarshal number into Go value of type %s: %w", rv.Type(), err)
		}
		if i < 0 || rv.OverflowUint(uint64(i)) {
			return fmt.Errorf("toon: integer value %d overflows Go value of type %s", i, rv.Type())
		}
		rv.SetUint(uint64(i))
		return nil
	case reflect.Float32, reflect.Float64:
		f, _ := val.AsFloat()
		if rv.OverflowFloat(f) {
			return fmt.Errorf("toon: float value %f overflows Go value of type %s", f, rv.Type())
		}
		rv.SetFloat(f)
		return nil
	default:
		return fmt.Errorf("toon: cannot unmarshal number into Go value of type %s", rv.Type())
	}
}

func (ds *decodeState) mapBool(val *Value, rv reflect.Value) error {
	if rv.Kind() != reflect.Bool {
		return fmt.Errorf("toon: cannot unmarshal boolean into Go value of type %s", rv.Type())
	}
	b, _ := val.AsBool()
	rv.SetBool(b)
	return nil
}

func (ds *decodeState) mapSlice(val *Value, rv reflect.Value) error {
	elems, _ := val.AsArr()
	newSlice := reflect.MakeSlice(rv.Type(), len(elems), len(elems))
	for i, elem := range elems {
		if err := ds.mapValue(elem, newSlice.Index(i)); err != nil {
			return err
		}
	}
	rv.Set(newSlice)
	return nil
}

func (ds *decodeState) mapArray(val *Value, rv reflect.Value) error {
	elems, _ := val.AsArr()
	if rv.Len() != len(elems) {
		return fmt.Errorf("toon: cannot unmarshal array of length %d into Go array of length %d", len(elems), rv.Len())
	}
	for i, elem := range elems {
		if err := ds.mapValue(elem, rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

// findField finds the target field in a struct's cached fields.
// It first attempts a case-sensitive match, then falls back to a
// case-insensitive match.
func findField(fields map[string]field, keyStr string) *field {
	if f, ok := fields[keyStr]; ok {
		return &f
	}
	if f, ok := fields[strings.ToLower(keyStr)]; ok {
		return &f
	}
	return nil
}

func (ds *decodeState) mapMap(val *Value, rv reflect.Value) error {
	mapType := rv.Type()
	if mapType.Key().Kind() != reflect.String {
		return fmt.Errorf("toon: cannot unmarshal object into map with non-string key type %s", mapType.Key())
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMap(mapType))
	} else {
		for _, k := range rv.MapKeys() {
			rv.SetMapIndex(k, reflect.Value{}) // The zero Value deletes the key
		}
	}
	elemType := mapType.Elem()
	fields, _ := val.AsObj()
	for _, f := range fields {
		newVal := reflect.New(elemType).Elem()
		if err := ds.mapValue(f.Value, newVal); err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(f.Key), newVal)
	}
	return nil
}

func (ds *decodeState) mapStruct(val *Value, rv reflect.Value) error {
	fields := cachedFields(rv.Type())
	objFields, _ := val.AsObj()
	for _, f := range objFields {
		if targetField := findField(fields, f.Key); targetField != nil {
			fieldVal := rv.FieldByIndex(targetField.idx)
			if fieldVal.IsValid() && fieldVal.CanSet() {
				if err := ds.mapValue(f.Value, fieldVal); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (ds *decodeState) mapInterface(val *Value, rv reflect.Value) error {
	if rv.NumMethod() != 0 {
		return fmt.Errorf("toon: cannot unmarshal into non-empty interface %s", rv.Type())
	}
	var concreteVal reflect.Value
	switch val.Kind() {
	case KindNull:
		return nil
	case KindBool:
		var b bool
		concreteVal = reflect.ValueOf(&b).Elem()
	case KindNumber:
		if val.numIsInt {
			var i int64
			concreteVal = reflect.ValueOf(&i).Elem()
		} else {
			var f float64
			concreteVal = reflect.ValueOf(&f).Elem()
		}
	case KindString:
		var s string
		concreteVal = reflect.ValueOf(&s).Elem()
	case KindArray:
		var a []any
		concreteVal = reflect.ValueOf(&a).Elem()
	case KindObject:
		var o map[string]any
		concreteVal = reflect.ValueOf(&o).Elem()
	default:
		return fmt.Errorf("toon: cannot determine concrete type for interface{} for value kind %s", val.Kind())
	}
	if err := ds.mapValue(val, concreteVal); err != nil {
		return err
	}
	rv.Set(concreteVal)
	return nil
}

// A field represents a single field in a struct.
type field struct {
	idx []int
}

// fieldCache caches a map of struct field names to their properties.
var fieldCache sync.Map // map[reflect.Type]map[string]field

// cachedFields returns a map of field names to field properties for the given
// type. The result is cached to avoid repeated reflection work.
func cachedFields(t reflect.Type) map[string]field { //nolint:gocognit
	if f, ok := fieldCache.Load(t); ok {
		if fields, ok := f.(map[string]field); ok {
			return fields
		}
	}

	fields := make(map[string]field)
	var walk func(t reflect.Type, idx []int)
	walk = func(t reflect.Type, idx []int) {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.Anonymous {
				// Recurse into embedded structs.
				walk(sf.Type, append(idx, i))
				continue
			}
			if !sf.IsExported() {
				continue
			}

			tag := sf.Tag.Get("toon")
			if tag == "-" {
				continue
			}

			f := field{idx: append(idx, i)}
			tagName := strings.Split(tag, ",")[0]

			// Store entries for the original tag name and field name.
			if tagName != "" {
				fields[tagName] = f
			}
			fields[sf.Name] = f

			// Store lower-cased versions for case-insensitive fallback,
			// but do not overwrite an existing case-sensitive match.
			if tagName != "" {
				lowerTagName := strings.ToLower(tagName)
				if _, ok := fields[lowerTagName]; !ok {
					fields[lowerTagName] = f
				}
			}
			lowerFieldName := strings.ToLower(sf.Name)
			if _, ok := fields[lowerFieldName]; !ok {
				fields[lowerFieldName] = f
			}
		}
	}
	walk(t, nil)

	fieldCache.Store(t, fields)
	return fields
}
