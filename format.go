package toon

import (
	"bytes"
	"strings"

	"github.com/toonfmt/go-toon/internal/literal"
)

// lengthMarker prefixes a declared array length when length markers are
// enabled, e.g. [#3]: 1,2,3.
const lengthMarker = '#'

// arrayShape classifies how a sequence is rendered.
type arrayShape uint8

const (
	// shapePrimitive: every element is a scalar; rendered inline.
	shapePrimitive arrayShape = iota
	// shapeTabular: uniform objects with scalar values; rendered as a
	// header plus one delimiter-joined row per element.
	shapeTabular
	// shapeMixed: everything else; rendered as dash-prefixed items.
	shapeMixed
)

// classify decides the rendering shape of an array. For tabular arrays it
// also returns the header field order, taken from the first element.
// Empty arrays are primitive by convention.
func classify(elems []*Value) (arrayShape, []string) {
	if len(elems) == 0 {
		return shapePrimitive, nil
	}

	scalarOnly := true
	for _, e := range elems {
		if !e.isScalar() {
			scalarOnly = false
			break
		}
	}
	if scalarOnly {
		return shapePrimitive, nil
	}

	first := elems[0]
	if first.Kind() != KindObject || first.Len() == 0 {
		return shapeMixed, nil
	}
	keys := make([]string, len(first.objVal))
	for i, f := range first.objVal {
		keys[i] = f.Key
	}
	for _, e := range elems {
		if e.Kind() != KindObject || len(e.objVal) != len(keys) {
			return shapeMixed, nil
		}
		for i, f := range e.objVal {
			if f.Key != keys[i] || !f.Value.isScalar() {
				return shapeMixed, nil
			}
		}
	}
	return shapeTabular, keys
}

// formatter renders a Value tree as TOON text.
type formatter struct {
	buf     bytes.Buffer
	indent  string
	delim   byte
	markers bool

	started bool
	// dash marks that the next line starts a mixed-list item: its
	// indentation is replaced by the parent indent plus "- ".
	dash bool
}

func newFormatter(opts *encodeOptions) *formatter {
	return &formatter{
		indent:  strings.Repeat(" ", opts.indent),
		delim:   byte(opts.delim),
		markers: opts.lengthMarkers,
	}
}

// format renders the root value and returns the accumulated text. The
// output carries no trailing newline.
func (f *formatter) format(v *Value) []byte {
	switch v.Kind() {
	case KindObject:
		f.writeObject(v.objVal, 0)
	case KindArray:
		f.writeArray("", v.arrVal, 0)
	default:
		f.beginLine(0)
		f.buf.WriteString(f.scalar(v))
	}
	return f.buf.Bytes()
}

// beginLine starts a new output line at the given depth.
func (f *formatter) beginLine(depth int) {
	if f.started {
		f.buf.WriteByte('\n')
	}
	f.started = true
	if f.dash {
		f.dash = false
		f.writeIndent(depth - 1)
		f.buf.WriteString("- ")
		return
	}
	f.writeIndent(depth)
}

func (f *formatter) writeIndent(depth int) {
	for i := 0; i < depth; i++ {
		f.buf.WriteString(f.indent)
	}
}

func (f *formatter) writeObject(fields []Field, depth int) {
	for _, fld := range fields {
		f.writeEntry(fld.Key, fld.Value, depth)
	}
}

func (f *formatter) writeEntry(key string, v *Value, depth int) {
	switch v.Kind() {
	case KindArray:
		f.writeArray(f.key(key), v.arrVal, depth)
	case KindObject:
		f.beginLine(depth)
		f.buf.WriteString(f.key(key))
		f.buf.WriteByte(':')
		f.writeObject(v.objVal, depth+1)
	default:
		f.beginLine(depth)
		f.buf.WriteString(f.key(key))
		f.buf.WriteString(": ")
		f.buf.WriteString(f.scalar(v))
	}
}

// writeArray renders an array under the given (already quoted) key, or at
// root when the key is empty.
func (f *formatter) writeArray(qkey string, elems []*Value, depth int) {
	shape, header := classify(elems)
	switch shape {
	case shapePrimitive:
		f.beginLine(depth)
		f.buf.WriteString(qkey)
		f.writeHeader(len(elems), markNonComma)
		f.buf.WriteByte(':')
		if len(elems) > 0 {
			f.buf.WriteByte(' ')
			for i, e := range elems {
				if i > 0 {
					f.buf.WriteByte(f.delim)
				}
				f.buf.WriteString(f.scalar(e))
			}
		}

	case shapeTabular:
		f.beginLine(depth)
		f.buf.WriteString(qkey)
		f.writeHeader(len(elems), markAlways)
		f.buf.WriteByte('{')
		for i, k := range header {
			if i > 0 {
				f.buf.WriteByte(f.delim)
			}
			f.buf.WriteString(f.key(k))
		}
		f.buf.WriteString("}:")
		for _, e := range elems {
			f.beginLine(depth + 1)
			for i, k := range header {
				if i > 0 {
					f.buf.WriteByte(f.delim)
				}
				f.buf.WriteString(f.scalar(e.Get(k)))
			}
		}

	case shapeMixed:
		f.beginLine(depth)
		f.buf.WriteString(qkey)
		f.writeHeader(len(elems), markNever)
		f.buf.WriteByte(':')
		for _, e := range elems {
			f.writeItem(e, depth+1)
		}
	}
}

// delimMarkMode controls whether the header brackets carry the delimiter
// character before the closing bracket.
type delimMarkMode uint8

const (
	markNever    delimMarkMode = iota // mixed form: [3]:
	markNonComma                      // primitive form: [3]: for comma, [3|]: otherwise
	markAlways                        // tabular form: [3,]{...}: even for comma
)

// writeHeader renders the bracket section, e.g. [#3|]. The caller appends
// the field list and the colon.
func (f *formatter) writeHeader(n int, mode delimMarkMode) {
	f.buf.WriteByte('[')
	if f.markers {
		f.buf.WriteByte(lengthMarker)
	}
	f.buf.WriteString(literal.FormatInt(int64(n)))
	if mode == markAlways || (mode == markNonComma && f.delim != byte(DelimComma)) {
		f.buf.WriteByte(f.delim)
	}
	f.buf.WriteByte(']')
}

// writeItem renders one element of a mixed array at the given item depth.
func (f *formatter) writeItem(v *Value, depth int) {
	switch v.Kind() {
	case KindObject:
		if v.Len() == 0 {
			f.beginLine(depth)
			f.buf.WriteByte('-')
			return
		}
		f.dash = true
		f.writeObject(v.objVal, depth+1)
	case KindArray:
		f.dash = true
		f.writeArray("", v.arrVal, depth+1)
	default:
		f.beginLine(depth)
		f.buf.WriteString("- ")
		f.buf.WriteString(f.scalar(v))
	}
}

// scalar renders a leaf value, quoting strings per the active delimiter.
func (f *formatter) scalar(v *Value) string {
	switch v.Kind() {
	case KindNull:
		return "null"
	case KindBool:
		if v.boolVal {
			return "true"
		}
		return "false"
	case KindNumber:
		if v.numIsInt {
			return literal.FormatInt(v.numInt)
		}
		return literal.FormatFloat(v.numFloat)
	case KindString:
		if literal.NeedsQuote(v.strVal, f.delim) {
			return literal.Quote(v.strVal)
		}
		return v.strVal
	default:
		// Non-scalars never reach here; classify and the entry writers
		// route them to block form.
		return "null"
	}
}

// key renders a mapping key, quoted by the same rules as string scalars.
func (f *formatter) key(k string) string {
	if literal.NeedsQuote(k, f.delim) {
		return literal.Quote(k)
	}
	return k
}
