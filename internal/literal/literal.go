// Package literal implements the lexical layer shared by the TOON encoder
// and decoder: the decimal number grammar, the quoting decision for bare
// strings, escape handling, and quote-aware field splitting.
package literal

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Escape set for quoted strings. Everything else passes through verbatim.
const escapable = "\"\\nrt"

// ErrEscape marks Unquote failures caused by a bad or unterminated escape
// sequence. Other Unquote failures are shape problems with the quoted
// string itself.
var ErrEscape = errors.New("invalid escape")

// NeedsQuote reports whether s can not be written as a bare string under the
// given delimiter. A bare string must not be confusable with another scalar,
// must not contain structure characters, and must survive a round trip
// through the line scanner and field splitter unchanged.
func NeedsQuote(s string, delim byte) bool {
	if s == "" {
		return true
	}
	if strings.EqualFold(s, "null") || strings.EqualFold(s, "true") || strings.EqualFold(s, "false") {
		return true
	}
	if IsNumber(s) {
		return true
	}
	if leadingOrTrailingWhitespace(s) {
		return true
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ':', '[', ']', '{', '}', '-', '"', '\\', '\n', '\r':
			return true
		case delim:
			return true
		}
	}
	return false
}

// The decoder trims whitespace around inline values and split fields, so a
// bare string must not begin or end with any rune unicode considers space.
func leadingOrTrailingWhitespace(s string) bool {
	if s == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(first) || unicode.IsSpace(last)
}

// Quote returns s wrapped in double quotes with interior quotes, backslashes,
// newlines, carriage returns and tabs escaped.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// Unquote strips the surrounding double quotes from s and resolves its
// escapes. It fails if s is not a complete quoted string or contains an
// escape outside the supported set.
func Unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' {
		return "", fmt.Errorf("not a quoted string: %q", s)
	}
	var sb strings.Builder
	sb.Grow(len(s) - 2)
	i := 1
	for i < len(s) {
		c := s[i]
		if c == '"' {
			if i != len(s)-1 {
				return "", fmt.Errorf("trailing characters after closing quote: %q", s[i+1:])
			}
			return sb.String(), nil
		}
		if c == '\\' {
			if i+1 >= len(s) {
				return "", fmt.Errorf("%w: unterminated at end of %q", ErrEscape, s)
			}
			r, ok := unescape(s[i+1])
			if !ok {
				return "", fmt.Errorf("%w: \\%c", ErrEscape, s[i+1])
			}
			sb.WriteByte(r)
			i += 2
			continue
		}
		sb.WriteByte(c)
		i++
	}
	return "", fmt.Errorf("unterminated string: %q", s)
}

func unescape(c byte) (byte, bool) {
	switch c {
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	}
	return 0, false
}

// SplitFields splits s on delim, honoring quoted fields: a delimiter inside
// a quoted run does not split. Quotes and escapes are left intact for the
// caller to resolve per field. An unterminated quoted run is not an error
// here; the resulting last field simply carries the open quote.
func SplitFields(s string, delim byte) []string {
	var fields []string
	start := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\' && inQuote:
			i++ // skip escaped char
		case c == '"':
			inQuote = !inQuote
		case c == delim && !inQuote:
			fields = append(fields, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	fields = append(fields, strings.TrimSpace(s[start:]))
	return fields
}

// IsNumber reports whether s matches the decimal number grammar: optional
// sign, integer part without leading zeros, optional fractional part,
// optional exponent. This is the single lexical rule used both for the
// encoder's quoting decision and the decoder's scalar coercion.
func IsNumber(s string) bool {
	if len(s) == 0 {
		return false
	}
	i := 0
	if s[i] == '-' || s[i] == '+' {
		i++
		if i == len(s) {
			return false
		}
	}

	var ok bool
	if i, ok = scanInteger(s, i); !ok {
		return false
	}
	if i, ok = scanFraction(s, i); !ok {
		return false
	}
	if i, ok = scanExponent(s, i); !ok {
		return false
	}
	return i == len(s)
}

func scanDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

func scanInteger(s string, i int) (int, bool) {
	start := i
	i = scanDigits(s, i)
	if i == start {
		return i, false
	}
	if i-start > 1 && s[start] == '0' {
		return i, false // leading zeros read as strings
	}
	return i, true
}

func scanFraction(s string, i int) (int, bool) {
	if i >= len(s) || s[i] != '.' {
		return i, true
	}
	i++
	start := i
	i = scanDigits(s, i)
	return i, i != start
}

func scanExponent(s string, i int) (int, bool) {
	if i >= len(s) || (s[i] != 'e' && s[i] != 'E') {
		return i, true
	}
	i++
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	i = scanDigits(s, i)
	return i, i != start
}

// FormatInt renders an integer in canonical decimal form.
func FormatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

// FormatFloat renders a float in canonical decimal form: no exponent
// notation, negative zero collapsed to zero, integral values without a
// trailing fractional part.
func FormatFloat(v float64) string {
	if v == 0 {
		return "0" // covers -0 as well
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
