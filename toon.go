package toon

import "bytes"

// Marshal returns the TOON encoding of v.
//
// Marshal traverses the value v recursively, converting it into the Value
// model first (see FromNative) and then rendering the model as TOON text.
//
// Struct fields are encoded in declaration order. The encoding of each
// field can be customized with the "toon" struct tag:
//
//	// Field appears in TOON as key "name".
//	Field int `toon:"name"`
//
//	// Field appears as key "name" and is omitted if empty.
//	Field int `toon:"name,omitempty"`
//
//	// Field is ignored.
//	Field int `toon:"-"`
//
// Map values are encoded with their keys sorted so output is
// deterministic. Channel and function values encode as null.
//
// Functional options configure the output, for example Indent, Delimiter
// and LengthMarkers.
func Marshal(v any, opts ...EncodeOption) ([]byte, error) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, opts...)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal parses the TOON-encoded data and stores the result in the
// value pointed to by v. If v is nil or not a pointer, Unmarshal returns
// an error.
//
// Unmarshal matches object keys to struct field names or "toon" tags,
// preferring an exact match but accepting a case-insensitive one. When
// unmarshaling into an interface value, objects become map[string]any,
// arrays become []any, and numbers become int64 or float64 depending on
// whether the literal carried a fraction or exponent.
//
// Malformed input is reported as a *DecodeError carrying the error kind
// and the 1-based line number. In lenient mode (see Lenient) most
// structural problems are repaired instead of reported.
func Unmarshal(data []byte, v any, opts ...DecodeOption) error {
	dec := NewDecoder(bytes.NewReader(data), opts...)
	return dec.Decode(v)
}

// Encode renders a Value tree as TOON text. The output has no trailing
// newline. Encoding an empty object yields empty output.
func Encode(v *Value, opts ...EncodeOption) ([]byte, error) {
	o := defaultEncodeOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	f := newFormatter(&o)
	return f.format(v), nil
}

// Decode parses TOON text into a Value tree. Empty input decodes to an
// empty object. The concrete error type for malformed input is
// *DecodeError.
func Decode(data []byte, opts ...DecodeOption) (*Value, error) {
	o := defaultDecodeOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	return decodeValue(data, &o)
}
