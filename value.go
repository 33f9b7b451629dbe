package toon

import "fmt"

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is the structured-value model exchanged with callers: the kind of
// tree produced by parsing JSON. Objects preserve key order, arrays preserve
// element order. Values are immutable once handed to the codec; neither
// Encode nor Decode retains references across calls.
type Value struct {
	kind Kind

	boolVal  bool
	numInt   int64
	numFloat float64
	numIsInt bool
	strVal   string

	arrVal []*Value
	objVal []Field
}

// Field is a single key-value entry of an object.
type Field struct {
	Key   string
	Value *Value
}

// Null returns the null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool returns a boolean value.
func Bool(v bool) *Value {
	return &Value{kind: KindBool, boolVal: v}
}

// Int returns an integer-flavored number value.
func Int(v int64) *Value {
	return &Value{kind: KindNumber, numInt: v, numIsInt: true}
}

// Float returns a float-flavored number value. Negative zero is normalized
// to zero.
func Float(v float64) *Value {
	if v == 0 {
		return &Value{kind: KindNumber} // collapses -0
	}
	return &Value{kind: KindNumber, numFloat: v}
}

// Str returns a string value.
func Str(v string) *Value {
	return &Value{kind: KindString, strVal: v}
}

// Arr returns an array value holding the given elements.
func Arr(elems ...*Value) *Value {
	return &Value{kind: KindArray, arrVal: elems}
}

// Obj returns an object value holding the given fields in order.
func Obj(fields ...Field) *Value {
	return &Value{kind: KindObject, objVal: fields}
}

// F builds a Field for use with Obj.
func F(key string, v *Value) Field {
	return Field{Key: key, Value: v}
}

// Kind returns the variant held by v. A nil Value reads as null.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether v is the null value.
func (v *Value) IsNull() bool {
	return v == nil || v.kind == KindNull
}

// AsBool returns the boolean payload.
func (v *Value) AsBool() (bool, error) {
	if v.Kind() != KindBool {
		return false, fmt.Errorf("toon: expected bool, got %s", v.Kind())
	}
	return v.boolVal, nil
}

// AsFloat returns the numeric payload as a float64.
func (v *Value) AsFloat() (float64, error) {
	if v.Kind() != KindNumber {
		return 0, fmt.Errorf("toon: expected number, got %s", v.Kind())
	}
	if v.numIsInt {
		return float64(v.numInt), nil
	}
	return v.numFloat, nil
}

// AsInt returns the numeric payload as an int64. It fails for numbers with
// a fractional part.
func (v *Value) AsInt() (int64, error) {
	if v.Kind() != KindNumber {
		return 0, fmt.Errorf("toon: expected number, got %s", v.Kind())
	}
	if !v.numIsInt {
		f := v.numFloat
		i := int64(f)
		if float64(i) != f {
			return 0, fmt.Errorf("toon: number %v is not an integer", f)
		}
		return i, nil
	}
	return v.numInt, nil
}

// AsStr returns the string payload.
func (v *Value) AsStr() (string, error) {
	if v.Kind() != KindString {
		return "", fmt.Errorf("toon: expected string, got %s", v.Kind())
	}
	return v.strVal, nil
}

// AsArr returns the array elements.
func (v *Value) AsArr() ([]*Value, error) {
	if v.Kind() != KindArray {
		return nil, fmt.Errorf("toon: expected array, got %s", v.Kind())
	}
	return v.arrVal, nil
}

// AsObj returns the object fields in order.
func (v *Value) AsObj() ([]Field, error) {
	if v.Kind() != KindObject {
		return nil, fmt.Errorf("toon: expected object, got %s", v.Kind())
	}
	return v.objVal, nil
}

// Len returns the element count of an array or field count of an object,
// and zero for scalars.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindArray:
		return len(v.arrVal)
	case KindObject:
		return len(v.objVal)
	default:
		return 0
	}
}

// Get returns the value under key in an object, or nil if absent or v is
// not an object.
func (v *Value) Get(key string) *Value {
	if v.Kind() != KindObject {
		return nil
	}
	for _, f := range v.objVal {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

// Index returns the i-th element of an array.
func (v *Value) Index(i int) (*Value, error) {
	if v.Kind() != KindArray {
		return nil, fmt.Errorf("toon: expected array, got %s", v.Kind())
	}
	if i < 0 || i >= len(v.arrVal) {
		return nil, fmt.Errorf("toon: index %d out of bounds (len=%d)", i, len(v.arrVal))
	}
	return v.arrVal[i], nil
}

// isScalar reports whether v is a leaf: null, bool, number or string.
func (v *Value) isScalar() bool {
	switch v.Kind() {
	case KindNull, KindBool, KindNumber, KindString:
		return true
	}
	return false
}

// Equal reports structural equality. Numbers compare by numeric value, so
// an integer-flavored 2 equals a float-flavored 2; this is the equality the
// round-trip guarantee is stated in.
func (v *Value) Equal(o *Value) bool {
	if v.Kind() != o.Kind() {
		return false
	}
	switch v.Kind() {
	case KindNull:
		return true
	case KindBool:
		return v.boolVal == o.boolVal
	case KindNumber:
		if v.numIsInt && o.numIsInt {
			return v.numInt == o.numInt
		}
		vf, _ := v.AsFloat()
		of, _ := o.AsFloat()
		return vf == of
	case KindString:
		return v.strVal == o.strVal
	case KindArray:
		if len(v.arrVal) != len(o.arrVal) {
			return false
		}
		for i := range v.arrVal {
			if !v.arrVal[i].Equal(o.arrVal[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.objVal) != len(o.objVal) {
			return false
		}
		for i := range v.objVal {
			if v.objVal[i].Key != o.objVal[i].Key || !v.objVal[i].Value.Equal(o.objVal[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
