package toon_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	toon "github.com/toonfmt/go-toon"
)

func requireDecodeError(t *testing.T, err error, kind toon.ErrorKind, line int) {
	t.Helper()
	require.Error(t, err)
	var de *toon.DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, kind, de.Kind, "unexpected kind in %v", de)
	require.Equal(t, line, de.Line, "unexpected line in %v", de)
}

func TestDecodeStrictErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind toon.ErrorKind
		line int
	}{
		{
			"indentation not a multiple of width",
			"a:\n   b: 1",
			toon.ErrMalformedIndentation, 2,
		},
		{
			"unrecognizable mapping line",
			"a: 1\njust text",
			toon.ErrSyntax, 2,
		},
		{
			"indented document root",
			"  a: 1",
			toon.ErrSyntax, 1,
		},
		{
			"unexpected indentation under scalar",
			"a: 1\n  b: 2",
			toon.ErrSyntax, 2,
		},
		{
			"malformed array header",
			"nums[x]: 1,2",
			toon.ErrSyntax, 1,
		},
		{
			"duplicate key",
			"a: 1\nb: 2\na: 3",
			toon.ErrSyntax, 3,
		},
		{
			"content after root array",
			"[2]: 1,2\nextra: 1",
			toon.ErrSyntax, 2,
		},
		{
			"too few inline elements",
			"nums[3]: 1,2",
			toon.ErrLengthMismatch, 1,
		},
		{
			"too many inline elements",
			"nums[1]: 1,2",
			toon.ErrLengthMismatch, 1,
		},
		{
			"missing list items",
			"nums[2]:",
			toon.ErrLengthMismatch, 1,
		},
		{
			"too few dash items",
			"items[3]:\n  - 1\n  - 2",
			toon.ErrLengthMismatch, 1,
		},
		{
			"too few tabular rows",
			"users[2,]{id}:\n  1",
			toon.ErrLengthMismatch, 1,
		},
		{
			"row with wrong arity",
			"users[2,]{id,name}:\n  1,Alice\n  2",
			toon.ErrRowArity, 3,
		},
		{
			"inline body with wrong delimiter",
			"nums[3|]: 1,2,3",
			toon.ErrDelimiterMismatch, 1,
		},
		{
			"row with wrong delimiter",
			"users[1,]{id,name}:\n  1|Alice",
			toon.ErrDelimiterMismatch, 2,
		},
		{
			"invalid escape in value",
			`a: "\q"`,
			toon.ErrInvalidEscape, 1,
		},
		{
			"unterminated quoted value",
			`a: "abc`,
			toon.ErrSyntax, 1,
		},
		{
			"trailing characters after closing quote",
			`a: "x" y`,
			toon.ErrSyntax, 1,
		},
		{
			"unterminated escape at end of value",
			`a: "x\`,
			toon.ErrInvalidEscape, 1,
		},
		{
			"invalid escape in key",
			`"a\q": 1`,
			toon.ErrInvalidEscape, 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := toon.Decode([]byte(tt.in))
			requireDecodeError(t, err, tt.kind, tt.line)
		})
	}
}

func TestDecodeErrorMessage(t *testing.T) {
	_, err := toon.Decode([]byte("nums[3]: 1,2"))
	require.Error(t, err)
	require.Equal(t, "toon: LengthMismatchError at line 1: declared 3 elements, found 2", err.Error())
}

func TestDecodeMaxDepth(t *testing.T) {
	in := "a:\n  b:\n    c: 1"

	_, err := toon.Decode([]byte(in))
	require.NoError(t, err)

	_, err = toon.Decode([]byte(in), toon.MaxDepth(2))
	requireDecodeError(t, err, toon.ErrDepthExceeded, 3)

	// Depth is a safety limit; lenient mode does not disable it.
	_, err = toon.Decode([]byte(in), toon.Lenient(), toon.MaxDepth(2))
	requireDecodeError(t, err, toon.ErrDepthExceeded, 3)
}

func TestDecodeExpectIndent(t *testing.T) {
	in := "a:\n    b: 1"

	// Width 4 parses cleanly.
	got, err := toon.Decode([]byte(in), toon.ExpectIndent(4))
	require.NoError(t, err)
	want := toon.Obj(toon.F("a", toon.Obj(toon.F("b", toon.Int(1)))))
	require.True(t, want.Equal(got))

	// Default width 2 reads the child two levels deep.
	_, err = toon.Decode([]byte(in))
	requireDecodeError(t, err, toon.ErrSyntax, 2)
}
