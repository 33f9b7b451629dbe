package toon

import (
	"errors"
	"strconv"
	"strings"

	"github.com/toonfmt/go-toon/internal/literal"
	"github.com/toonfmt/go-toon/internal/scanner"
)

// parser rebuilds a Value tree from scanned lines by recursive descent over
// indentation depths. The cursor advances monotonically; no global state.
type parser struct {
	lines  []scanner.Line
	pos    int
	strict bool
}

// headerInfo is the parsed bracket section of an array line, e.g. [#3|] or
// [2,]{id,name}.
type headerInfo struct {
	declaredLen int
	delim       byte
	tabular     bool
	fields      []string
}

// lineShape is the analyzed form of one content line in mapping context.
type lineShape struct {
	recognized bool
	key        string
	hasKey     bool
	header     *headerInfo
	inline     string
}

func decodeValue(data []byte, o *decodeOptions) (*Value, error) {
	lines, err := scanner.Scan(data, o.indent, o.strict)
	if err != nil {
		var ie *scanner.IndentError
		if errors.As(err, &ie) {
			return nil, decodeErrf(ErrMalformedIndentation, ie.Line, "%d spaces with indent width %d", ie.Spaces, ie.Width)
		}
		return nil, err
	}
	if len(lines) == 0 {
		return Obj(), nil
	}

	// Re-base leniently if the whole document is shifted right.
	if base := lines[0].Depth; base > 0 {
		if o.strict {
			return nil, decodeErrf(ErrSyntax, lines[0].Num, "unexpected indentation at document root")
		}
		for i := range lines {
			if lines[i].Depth >= base {
				lines[i].Depth -= base
			} else {
				lines[i].Depth = 0
			}
		}
	}

	p := &parser{lines: lines, strict: o.strict}
	v, err := p.parseRoot(o.maxDepth)
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.lines) {
		if o.strict {
			return nil, decodeErrf(ErrSyntax, p.lines[p.pos].Num, "unexpected content after document root")
		}
	}
	return v, nil
}

func (p *parser) parseRoot(budget int) (*Value, error) {
	ln := p.lines[0]
	sh, err := p.shapeOf(ln.Content, ln.Num)
	if err != nil {
		if p.strict {
			return nil, err
		}
		sh = lineShape{}
	}

	switch {
	case sh.header != nil && !sh.hasKey:
		p.pos++
		return p.parseArrayValue(sh, ln, 0, budget)
	case sh.recognized:
		return p.parseObject(0, budget)
	case len(p.lines) == 1:
		p.pos++
		return p.coerce(ln.Content, ln.Num)
	default:
		if p.strict {
			return nil, decodeErrf(ErrSyntax, ln.Num, "unrecognized line shape: %q", ln.Content)
		}
		return p.parseObject(0, budget)
	}
}

// parseObject consumes mapping entries at the given depth until the depth
// drops or a list marker appears.
func (p *parser) parseObject(depth, budget int) (*Value, error) {
	if budget <= 0 {
		return nil, decodeErrf(ErrDepthExceeded, p.currentLineNum(), "nesting exceeds maximum depth")
	}

	var fields []Field
	seen := make(map[string]int)
	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		if ln.Depth < depth {
			break
		}
		if ln.Depth > depth {
			if p.strict {
				return nil, decodeErrf(ErrSyntax, ln.Num, "unexpected indentation")
			}
			p.pos++
			continue
		}
		if isDashLine(ln.Content) {
			break
		}

		sh, err := p.shapeOf(ln.Content, ln.Num)
		if err != nil {
			if p.strict {
				return nil, err
			}
			sh = lineShape{}
		}
		if !sh.recognized {
			if p.strict {
				return nil, decodeErrf(ErrSyntax, ln.Num, "expected mapping entry, got %q", ln.Content)
			}
			// Best effort: keep the raw line as a string-valued entry.
			fields = append(fields, F(ln.Content, Str(ln.Content)))
			p.pos++
			continue
		}

		p.pos++
		v, err := p.parseEntryValue(sh, ln, depth, budget)
		if err != nil {
			return nil, err
		}
		if i, dup := seen[sh.key]; dup {
			if p.strict {
				return nil, decodeErrf(ErrSyntax, ln.Num, "duplicate key %q", sh.key)
			}
			fields[i].Value = v
			continue
		}
		seen[sh.key] = len(fields)
		fields = append(fields, F(sh.key, v))
	}
	return Obj(fields...), nil
}

// parseEntryValue parses the value of an entry whose key line sits at depth.
func (p *parser) parseEntryValue(sh lineShape, ln scanner.Line, depth, budget int) (*Value, error) {
	if sh.header != nil {
		return p.parseArrayValue(sh, ln, depth, budget)
	}

	if sh.inline != "" {
		if p.pos < len(p.lines) && p.lines[p.pos].Depth > depth {
			if p.strict {
				return nil, decodeErrf(ErrSyntax, p.lines[p.pos].Num, "unexpected indentation under inline value")
			}
			p.skipDeeperThan(depth)
		}
		return p.coerce(sh.inline, ln.Num)
	}

	// No inline value: an indented block follows, or the value is an empty
	// mapping.
	if p.pos >= len(p.lines) || p.lines[p.pos].Depth <= depth {
		return Obj(), nil
	}
	child := p.lines[p.pos]
	if child.Depth != depth+1 {
		if p.strict {
			return nil, decodeErrf(ErrSyntax, child.Num, "unexpected indentation")
		}
		p.skipDeeperThan(depth)
		return Obj(), nil
	}

	// Dispatch the block on its first line: a bare array header claims the
	// key's value; anything else is a nested mapping.
	if childShape, err := p.shapeOf(child.Content, child.Num); err == nil && childShape.header != nil && !childShape.hasKey {
		p.pos++
		return p.parseArrayValue(childShape, child, depth+1, budget-1)
	}
	return p.parseObject(depth+1, budget-1)
}

// parseArrayValue parses an array whose header line sits at headerDepth and
// has already been consumed.
func (p *parser) parseArrayValue(sh lineShape, ln scanner.Line, headerDepth, budget int) (*Value, error) {
	if budget <= 0 {
		return nil, decodeErrf(ErrDepthExceeded, ln.Num, "nesting exceeds maximum depth")
	}
	h := sh.header

	if h.tabular {
		if sh.inline != "" {
			if p.strict {
				return nil, decodeErrf(ErrSyntax, ln.Num, "unexpected inline content after tabular header")
			}
		}
		return p.parseRows(h, ln, headerDepth+1)
	}

	if sh.inline != "" {
		return p.parsePrimitiveInline(h, sh.inline, ln, headerDepth)
	}

	// Block body: dash items, or nothing at all for an empty array.
	if p.pos < len(p.lines) && p.lines[p.pos].Depth == headerDepth+1 && isDashLine(p.lines[p.pos].Content) {
		return p.parseItems(h, ln, headerDepth+1, budget)
	}
	if p.pos < len(p.lines) && p.lines[p.pos].Depth > headerDepth {
		if p.strict {
			return nil, decodeErrf(ErrSyntax, p.lines[p.pos].Num, "expected list item")
		}
		p.skipDeeperThan(headerDepth)
	}
	if h.declaredLen != 0 && p.strict {
		return nil, decodeErrf(ErrLengthMismatch, ln.Num, "declared %d elements, found 0", h.declaredLen)
	}
	return Arr(), nil
}

// parsePrimitiveInline parses the delimiter-joined body after a primitive
// array header.
func (p *parser) parsePrimitiveInline(h *headerInfo, inline string, ln scanner.Line, headerDepth int) (*Value, error) {
	if p.pos < len(p.lines) && p.lines[p.pos].Depth > headerDepth {
		if p.strict {
			return nil, decodeErrf(ErrSyntax, p.lines[p.pos].Num, "unexpected indentation under inline array")
		}
		p.skipDeeperThan(headerDepth)
	}

	cells := literal.SplitFields(inline, h.delim)
	if len(cells) != h.declaredLen && p.strict {
		if otherDelimFits(inline, h.delim, h.declaredLen) {
			return nil, decodeErrf(ErrDelimiterMismatch, ln.Num, "body fields are not separated by the declared delimiter %q", h.delim)
		}
		return nil, decodeErrf(ErrLengthMismatch, ln.Num, "declared %d elements, found %d", h.declaredLen, len(cells))
	}
	elems := make([]*Value, 0, len(cells))
	for _, c := range cells {
		v, err := p.coerce(c, ln.Num)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return Arr(elems...), nil
}

// parseRows parses tabular rows at rowDepth, zipping each with the header
// field names.
func (p *parser) parseRows(h *headerInfo, ln scanner.Line, rowDepth int) (*Value, error) {
	var elems []*Value
	for p.pos < len(p.lines) {
		row := p.lines[p.pos]
		if row.Depth < rowDepth {
			break
		}
		if row.Depth > rowDepth {
			if p.strict {
				return nil, decodeErrf(ErrSyntax, row.Num, "unexpected indentation in tabular block")
			}
			p.pos++
			continue
		}
		p.pos++

		cells := literal.SplitFields(row.Content, h.delim)
		if len(cells) != len(h.fields) {
			if p.strict {
				if otherDelimFits(row.Content, h.delim, len(h.fields)) {
					return nil, decodeErrf(ErrDelimiterMismatch, row.Num, "row fields are not separated by the declared delimiter %q", h.delim)
				}
				return nil, decodeErrf(ErrRowArity, row.Num, "row has %d fields, header declares %d", len(cells), len(h.fields))
			}
			for len(cells) < len(h.fields) {
				cells = append(cells, "null")
			}
			cells = cells[:len(h.fields)]
		}

		fields := make([]Field, 0, len(h.fields))
		for i, name := range h.fields {
			v, err := p.coerce(cells[i], row.Num)
			if err != nil {
				return nil, err
			}
			fields = append(fields, F(name, v))
		}
		elems = append(elems, Obj(fields...))
	}

	if len(elems) != h.declaredLen && p.strict {
		return nil, decodeErrf(ErrLengthMismatch, ln.Num, "declared %d rows, found %d", h.declaredLen, len(elems))
	}
	return Arr(elems...), nil
}

// parseItems parses dash-prefixed mixed-list items at itemDepth.
func (p *parser) parseItems(h *headerInfo, ln scanner.Line, itemDepth, budget int) (*Value, error) {
	var elems []*Value
	for p.pos < len(p.lines) {
		item := p.lines[p.pos]
		if item.Depth != itemDepth || !isDashLine(item.Content) {
			break
		}
		p.pos++

		rest := strings.TrimPrefix(strings.TrimPrefix(item.Content, "-"), " ")
		if rest == "" {
			elems = append(elems, Obj())
			continue
		}

		sh, err := p.shapeOf(rest, item.Num)
		if err != nil {
			if p.strict {
				return nil, err
			}
			sh = lineShape{}
		}
		switch {
		case sh.header != nil && !sh.hasKey:
			// The item is itself an array; the dash absorbed its header
			// line, so its body sits two levels below the dash.
			v, err := p.parseArrayValue(sh, item, itemDepth+1, budget-1)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		case sh.recognized:
			v, err := p.parseItemObject(sh, item, itemDepth, budget)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		default:
			v, err := p.coerce(rest, item.Num)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		}
	}

	if len(elems) != h.declaredLen && p.strict {
		return nil, decodeErrf(ErrLengthMismatch, ln.Num, "declared %d items, found %d", h.declaredLen, len(elems))
	}
	return Arr(elems...), nil
}

// parseItemObject parses a mapping list item: the first entry rides on the
// dash line, the remaining entries sit one level below the dash.
func (p *parser) parseItemObject(sh lineShape, item scanner.Line, itemDepth, budget int) (*Value, error) {
	first, err := p.parseEntryValue(sh, item, itemDepth+1, budget-1)
	if err != nil {
		return nil, err
	}
	rest, err := p.parseObject(itemDepth+1, budget-1)
	if err != nil {
		return nil, err
	}
	fields := append([]Field{F(sh.key, first)}, rest.objVal...)
	return Obj(fields...), nil
}

// unquoteKind classifies an Unquote failure. Bad escape sequences keep
// their own error kind; anything else, such as trailing characters after
// the closing quote, is a malformed token shape.
func unquoteKind(err error) ErrorKind {
	if errors.Is(err, literal.ErrEscape) {
		return ErrInvalidEscape
	}
	return ErrSyntax
}

// coerce turns one unquoted or quoted token into a scalar Value.
func (p *parser) coerce(token string, lineNum int) (*Value, error) {
	if token != "" && token[0] == '"' {
		s, err := literal.Unquote(token)
		if err != nil {
			if p.strict {
				return nil, decodeErrf(unquoteKind(err), lineNum, "%v", err)
			}
			return Str(token), nil
		}
		return Str(s), nil
	}
	switch token {
	case "null":
		return Null(), nil
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	}
	if literal.IsNumber(token) {
		if i, err := strconv.ParseInt(token, 10, 64); err == nil {
			return Int(i), nil
		}
		if f, err := strconv.ParseFloat(token, 64); err == nil {
			return Float(f), nil
		}
	}
	return Str(token), nil
}

// shapeOf analyzes one content line in mapping context. A shape with
// recognized=false is not an entry; the caller decides whether that is a
// scalar, an error, or lenient fallback material.
func (p *parser) shapeOf(content string, lineNum int) (lineShape, error) {
	var sh lineShape
	rest := content
	at := 0

	if content == "" {
		return sh, nil
	}

	if content[0] == '"' {
		end := scanQuotedKey(content)
		if end < 0 {
			// Could be a quoted scalar spanning the whole line; not an
			// entry shape.
			return sh, nil
		}
		key, err := literal.Unquote(content[:end])
		if err != nil {
			return sh, decodeErrf(unquoteKind(err), lineNum, "%v", err)
		}
		if end >= len(content) || (content[end] != ':' && content[end] != '[') {
			return sh, nil
		}
		sh.key = key
		sh.hasKey = true
		rest = content[end:]
		at = end
	} else {
		idx := strings.IndexAny(content, ":[")
		if idx < 0 {
			return sh, nil
		}
		sh.key = content[:idx]
		sh.hasKey = idx > 0
		rest = content[idx:]
		at = idx
	}

	if rest[0] == '[' {
		h, next, ok := parseHeader(content, at)
		if !ok {
			if p.strict {
				return sh, decodeErrf(ErrSyntax, lineNum, "malformed array header in %q", content)
			}
			return lineShape{}, nil
		}
		if h.tabular {
			for i, f := range h.fields {
				if f != "" && f[0] == '"' {
					name, err := literal.Unquote(f)
					if err != nil {
						if p.strict {
							return sh, decodeErrf(unquoteKind(err), lineNum, "%v", err)
						}
						name = f
					}
					h.fields[i] = name
				}
			}
		}
		sh.header = h
		sh.inline = strings.TrimSpace(content[next:])
		sh.recognized = true
		return sh, nil
	}

	// Plain key: value entry.
	sh.inline = strings.TrimSpace(rest[1:])
	sh.recognized = true
	return sh, nil
}

// parseHeader parses the bracket section starting at content[i] == '[',
// plus an optional {fields} list, anchored by a trailing colon. It returns
// the offset just past the colon.
func parseHeader(content string, i int) (*headerInfo, int, bool) {
	h := &headerInfo{delim: byte(DelimComma)}
	j := i + 1
	if j < len(content) && content[j] == lengthMarker {
		j++
	}
	start := j
	for j < len(content) && content[j] >= '0' && content[j] <= '9' {
		j++
	}
	if j == start {
		return nil, 0, false
	}
	n, err := strconv.Atoi(content[start:j])
	if err != nil {
		return nil, 0, false
	}
	h.declaredLen = n
	if j < len(content) && isDelimByte(content[j]) {
		h.delim = content[j]
		j++
	}
	if j >= len(content) || content[j] != ']' {
		return nil, 0, false
	}
	j++

	if j < len(content) && content[j] == '{' {
		k := scanBraced(content, j)
		if k < 0 {
			return nil, 0, false
		}
		inner := content[j+1 : k]
		h.tabular = true
		if inner != "" {
			h.fields = literal.SplitFields(inner, h.delim)
		}
		j = k + 1
	}

	if j >= len(content) || content[j] != ':' {
		return nil, 0, false
	}
	return h, j + 1, true
}

// scanQuotedKey returns the offset just past the closing quote of a quoted
// run starting at offset 0, or -1 if unterminated.
func scanQuotedKey(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}
	return -1
}

// scanBraced returns the offset of the '}' matching the '{' at offset i,
// skipping quoted runs, or -1 if unterminated.
func scanBraced(s string, i int) int {
	inQuote := false
	for j := i + 1; j < len(s); j++ {
		switch {
		case s[j] == '\\' && inQuote:
			j++
		case s[j] == '"':
			inQuote = !inQuote
		case s[j] == '}' && !inQuote:
			return j
		}
	}
	return -1
}

func isDashLine(content string) bool {
	return content == "-" || strings.HasPrefix(content, "- ")
}

func isDelimByte(c byte) bool {
	return c == byte(DelimComma) || c == byte(DelimTab) || c == byte(DelimPipe)
}

// otherDelimFits reports whether splitting by some other valid delimiter
// yields exactly the wanted field count, the signature of a body written
// with a different delimiter than the header declares.
func otherDelimFits(content string, declared byte, want int) bool {
	// A single wanted field splits trivially under every delimiter and
	// proves nothing.
	if want <= 1 {
		return false
	}
	for _, d := range []byte{byte(DelimComma), byte(DelimTab), byte(DelimPipe)} {
		if d == declared {
			continue
		}
		if len(literal.SplitFields(content, d)) == want {
			return true
		}
	}
	return false
}

func (p *parser) skipDeeperThan(depth int) {
	for p.pos < len(p.lines) && p.lines[p.pos].Depth > depth {
		p.pos++
	}
}

func (p *parser) currentLineNum() int {
	if p.pos < len(p.lines) {
		return p.lines[p.pos].Num
	}
	if n := len(p.lines); n > 0 {
		return p.lines[n-1].Num
	}
	return 0
}
