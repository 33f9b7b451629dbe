package toon

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"
)

// Marshaler is the interface implemented by types that
// can marshal themselves into valid TOON.
type Marshaler interface {
	MarshalTOON() ([]byte, error)
}

// Encoder writes TOON values to an output stream.
type Encoder struct {
	w    io.Writer
	opts []EncodeOption
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer, opts ...EncodeOption) *Encoder {
	return &Encoder{w: w, opts: opts}
}

// Encode writes the TOON encoding of v to the stream.
func (e *Encoder) Encode(v any) error {
	o := defaultEncodeOptions()
	for _, opt := range e.opts {
		if err := opt(&o); err != nil {
			return err
		}
	}

	val, err := FromNative(v)
	if err != nil {
		return err
	}

	f := newFormatter(&o)
	_, err = e.w.Write(f.format(val))
	return err
}

// FromNative converts a Go value into the Value model. It applies the
// codec's input normalization: NaN and infinities become null, time.Time
// becomes an ISO-8601 string, and non-serializable kinds (channels,
// functions) become null. Map keys are sorted so the encoding is
// deterministic; struct fields keep declaration order.
func FromNative(v any) (*Value, error) {
	if val, ok := v.(*Value); ok {
		return val, nil
	}
	es := &encodeState{}
	node, err := es.marshalValue(reflect.ValueOf(v))
	if err != nil {
		return nil, fmt.Errorf("toon: %w", err)
	}
	return node, nil
}

type encodeState struct{}

var timeType = reflect.TypeOf(time.Time{})

func (e *encodeState) marshalCustom(v reflect.Value, u Marshaler) (*Value, error) {
	b, err := u.MarshalTOON()
	if err != nil {
		return nil, &MarshalerError{Type: v.Type(), Err: err}
	}

	// The user's marshaled output must be parsed back into a Value to be
	// integrated into the tree being built.
	node, err := Decode(b)
	if err != nil {
		return nil, &MarshalerError{
			Type: v.Type(),
			Err:  fmt.Errorf("invalid TOON output: %w", err),
		}
	}
	return node, nil
}

// parseTag splits a toon struct tag into its name and options.
func parseTag(tag string) (string, map[string]bool) {
	parts := strings.Split(tag, ",")
	name := parts[0]
	options := make(map[string]bool)
	for _, part := range parts[1:] {
		options[strings.TrimSpace(part)] = true
	}
	return name, options
}

// isEmptyValue reports whether the value v is empty.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}

func (e *encodeState) marshalValue(v reflect.Value) (*Value, error) {
	// Handle nil interfaces explicitly to avoid panics.
	if !v.IsValid() || (v.Kind() == reflect.Interface && v.IsNil()) {
		return Null(), nil
	}

	// Check for custom Marshaler implementation.
	// We must check the value itself and a pointer to the value,
	// to handle both value and pointer receivers.
	if v.Type().NumMethod() > 0 && v.CanInterface() {
		if u, ok := v.Interface().(Marshaler); ok {
			return e.marshalCustom(v, u)
		}
	}
	if v.Kind() != reflect.Pointer {
		var pv reflect.Value
		if v.CanAddr() {
			pv = v.Addr()
		} else {
			// For non-addressable values (like struct literals),
			// create a pointer to a copy to check for the interface.
			pv = reflect.New(v.Type())
			pv.Elem().Set(v)
		}
		if pv.Type().NumMethod() > 0 && pv.CanInterface() {
			if u, ok := pv.Interface().(Marshaler); ok {
				return e.marshalCustom(pv, u)
			}
		}
	}

	// Follow pointers and interfaces to find the concrete value.
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return Null(), nil
		}
		v = v.Elem()
	}

	if v.Type() == timeType {
		t := v.Interface().(time.Time)
		return Str(t.UTC().Format(time.RFC3339)), nil
	}
	if v.CanInterface() {
		if val, ok := v.Interface().(Value); ok {
			return &val, nil
		}
	}

	switch v.Kind() {
	case reflect.String:
		return Str(v.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		val := v.Uint()
		if val > math.MaxInt64 {
			return nil, fmt.Errorf("cannot marshal uint value %d (overflows int64)", val)
		}
		return Int(int64(val)), nil
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			// Non-finite numbers have no representation; normalize to null.
			return Null(), nil
		}
		return Float(f), nil
	case reflect.Bool:
		return Bool(v.Bool()), nil
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return Null(), nil
		}
		elems := make([]*Value, v.Len())
		for i := 0; i < v.Len(); i++ {
			elem, err := e.marshalValue(v.Index(i))
			if err != nil {
				return nil, err
			}
			elems[i] = elem
		}
		return Arr(elems...), nil
	case reflect.Map:
		if v.IsNil() {
			return Null(), nil
		}
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("map key type must be a string, got %s", v.Type().Key())
		}

		keys := make([]string, 0, v.Len())
		for _, key := range v.MapKeys() {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)

		fields := make([]Field, 0, len(keys))
		for _, key := range keys {
			value, err := e.marshalValue(v.MapIndex(reflect.ValueOf(key)))
			if err != nil {
				return nil, err
			}
			fields = append(fields, F(key, value))
		}
		return Obj(fields...), nil
	case reflect.Struct:
		t := v.Type()
		fields := make([]Field, 0, v.NumField())
		for i := 0; i < v.NumField(); i++ {
			field := t.Field(i)
			fieldValue := v.Field(i)

			if !field.IsExported() {
				continue
			}

			tagStr := field.Tag.Get("toon")
			tagName, opts := parseTag(tagStr)

			if tagName == "-" {
				continue
			}
			if opts["omitempty"] && isEmptyValue(fieldValue) {
				continue
			}

			keyStr := field.Name
			if tagName != "" {
				keyStr = tagName
			}

			value, err := e.marshalValue(fieldValue)
			if err != nil {
				return nil, err
			}
			fields = append(fields, F(keyStr, value))
		}
		return Obj(fields...), nil
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		// Not serializable; the input contract maps these to null.
		return Null(), nil
	default:
		return nil, fmt.Errorf("unsupported type for marshaling: %s", v.Type())
	}
}
