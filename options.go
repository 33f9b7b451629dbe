package toon

import "fmt"

// Delim is the field delimiter used for primitive inline arrays and tabular
// rows.
type Delim byte

const (
	DelimComma Delim = ','
	DelimTab   Delim = '\t'
	DelimPipe  Delim = '|'
)

const (
	defaultIndent   = 2
	defaultMaxDepth = 1000
)

type encodeOptions struct {
	indent        int
	delim         Delim
	lengthMarkers bool
}

type decodeOptions struct {
	indent   int
	strict   bool
	maxDepth int
}

func defaultEncodeOptions() encodeOptions {
	return encodeOptions{indent: defaultIndent, delim: DelimComma}
}

func defaultDecodeOptions() decodeOptions {
	return decodeOptions{indent: defaultIndent, strict: true, maxDepth: defaultMaxDepth}
}

// EncodeOption configures encoding.
type EncodeOption func(*encodeOptions) error

// DecodeOption configures decoding.
type DecodeOption func(*decodeOptions) error

// Indent returns an EncodeOption that sets the indent width in spaces.
// The width n must be a positive integer.
func Indent(n int) EncodeOption {
	return func(o *encodeOptions) error {
		if n <= 0 {
			return fmt.Errorf("toon: indent width must be a positive integer")
		}
		o.indent = n
		return nil
	}
}

// Delimiter returns an EncodeOption that sets the field delimiter. Only
// comma, tab and pipe are valid.
func Delimiter(d Delim) EncodeOption {
	return func(o *encodeOptions) error {
		switch d {
		case DelimComma, DelimTab, DelimPipe:
			o.delim = d
			return nil
		default:
			return fmt.Errorf("toon: invalid delimiter %q", byte(d))
		}
	}
}

// LengthMarkers returns an EncodeOption that prefixes declared array
// lengths with the '#' marker.
func LengthMarkers() EncodeOption {
	return func(o *encodeOptions) error {
		o.lengthMarkers = true
		return nil
	}
}

// ExpectIndent returns a DecodeOption that sets the indent width the input
// is expected to use. It must match the width the input was encoded with.
func ExpectIndent(n int) DecodeOption {
	return func(o *decodeOptions) error {
		if n <= 0 {
			return fmt.Errorf("toon: indent width must be a positive integer")
		}
		o.indent = n
		return nil
	}
}

// Lenient returns a DecodeOption that switches the decoder to best-effort
// recovery: structural mismatches are padded, truncated or passed through
// as raw strings instead of failing.
func Lenient() DecodeOption {
	return func(o *decodeOptions) error {
		o.strict = false
		return nil
	}
}

// MaxDepth returns a DecodeOption that sets the maximum nesting depth for
// the decoder. This keeps adversarial deeply-nested input from exhausting
// the stack.
//
// The depth n must be a positive integer.
func MaxDepth(n int) DecodeOption {
	return func(o *decodeOptions) error {
		if n <= 0 {
			return fmt.Errorf("toon: max depth must be a positive integer")
		}
		o.maxDepth = n
		return nil
	}
}
