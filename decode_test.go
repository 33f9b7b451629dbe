package toon_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	toon "github.com/toonfmt/go-toon"
)

func TestDecodeScalars(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *toon.Value
	}{
		{"null", "null", toon.Null()},
		{"true", "true", toon.Bool(true)},
		{"false", "false", toon.Bool(false)},
		{"int", "42", toon.Int(42)},
		{"signed int", "+7", toon.Int(7)},
		{"float", "3.14", toon.Float(3.14)},
		{"exponent", "1e3", toon.Float(1000)},
		{"bare string", "hello", toon.Str("hello")},
		{"leading zeros read as string", "007", toon.Str("007")},
		{"quoted boolean lookalike", `"true"`, toon.Str("true")},
		{"quoted empty", `""`, toon.Str("")},
		{"quoted with escapes", `"a\nb\t\"c\""`, toon.Str("a\nb\t\"c\"")},
		{"empty input", "", toon.Obj()},
		{"blank input", "\n  \n", toon.Obj()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toon.Decode([]byte(tt.in))
			require.NoError(t, err)
			require.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestDecodeObjects(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *toon.Value
	}{
		{
			"flat object",
			"id: 1\nname: Ada",
			toon.Obj(toon.F("id", toon.Int(1)), toon.F("name", toon.Str("Ada"))),
		},
		{
			"nested object",
			"server:\n  host: localhost\n  port: 8080\ndebug: true",
			toon.Obj(
				toon.F("server", toon.Obj(
					toon.F("host", toon.Str("localhost")),
					toon.F("port", toon.Int(8080)),
				)),
				toon.F("debug", toon.Bool(true)),
			),
		},
		{
			"key with no children is an empty object",
			"meta:",
			toon.Obj(toon.F("meta", toon.Obj())),
		},
		{
			"quoted key",
			`"max-size": 5`,
			toon.Obj(toon.F("max-size", toon.Int(5))),
		},
		{
			"key with interior space",
			"order count: 3",
			toon.Obj(toon.F("order count", toon.Int(3))),
		},
		{
			"crlf input",
			"a: 1\r\nb: 2\r\n",
			toon.Obj(toon.F("a", toon.Int(1)), toon.F("b", toon.Int(2))),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toon.Decode([]byte(tt.in))
			require.NoError(t, err)
			require.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestDecodeArrays(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *toon.Value
	}{
		{
			"primitive inline",
			"nums[3]: 1,2,3",
			toon.Obj(toon.F("nums", toon.Arr(toon.Int(1), toon.Int(2), toon.Int(3)))),
		},
		{
			"empty array",
			"empty[0]:",
			toon.Obj(toon.F("empty", toon.Arr())),
		},
		{
			"pipe delimiter",
			"nums[3|]: 1|2|3",
			toon.Obj(toon.F("nums", toon.Arr(toon.Int(1), toon.Int(2), toon.Int(3)))),
		},
		{
			"length marker",
			"nums[#3]: 1,2,3",
			toon.Obj(toon.F("nums", toon.Arr(toon.Int(1), toon.Int(2), toon.Int(3)))),
		},
		{
			"quoted element keeps delimiter",
			`vals[2]: "a,b",c`,
			toon.Obj(toon.F("vals", toon.Arr(toon.Str("a,b"), toon.Str("c")))),
		},
		{
			"tabular",
			"users[2,]{id,name}:\n  1,Alice\n  2,Bob",
			toon.Obj(toon.F("users", toon.Arr(
				toon.Obj(toon.F("id", toon.Int(1)), toon.F("name", toon.Str("Alice"))),
				toon.Obj(toon.F("id", toon.Int(2)), toon.F("name", toon.Str("Bob"))),
			))),
		},
		{
			"tabular with quoted header field",
			"rows[1,]{\"a,b\",c}:\n  1,2",
			toon.Obj(toon.F("rows", toon.Arr(
				toon.Obj(toon.F("a,b", toon.Int(1)), toon.F("c", toon.Int(2))),
			))),
		},
		{
			"mixed",
			"items[3]:\n  - 1\n  - a: 2\n  - [2]: 3,4",
			toon.Obj(toon.F("items", toon.Arr(
				toon.Int(1),
				toon.Obj(toon.F("a", toon.Int(2))),
				toon.Arr(toon.Int(3), toon.Int(4)),
			))),
		},
		{
			"mixed multi entry items",
			"people[2]:\n  - name: Ann\n    age: 1\n  - name: Ben\n    age: 2",
			toon.Obj(toon.F("people", toon.Arr(
				toon.Obj(toon.F("name", toon.Str("Ann")), toon.F("age", toon.Int(1))),
				toon.Obj(toon.F("name", toon.Str("Ben")), toon.F("age", toon.Int(2))),
			))),
		},
		{
			"empty object item",
			"items[2]:\n  -\n  - 1",
			toon.Obj(toon.F("items", toon.Arr(toon.Obj(), toon.Int(1)))),
		},
		{
			"root primitive array",
			"[2]: 1,2",
			toon.Arr(toon.Int(1), toon.Int(2)),
		},
		{
			"root tabular array",
			"[1,]{id}:\n  7",
			toon.Arr(toon.Obj(toon.F("id", toon.Int(7)))),
		},
		{
			"array as block child",
			"wrapper:\n  [2]: 1,2",
			toon.Obj(toon.F("wrapper", toon.Arr(toon.Int(1), toon.Int(2)))),
		},
		{
			"empty cells coerce to empty strings",
			"vals[3]: a,,b",
			toon.Obj(toon.F("vals", toon.Arr(toon.Str("a"), toon.Str(""), toon.Str("b")))),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toon.Decode([]byte(tt.in))
			require.NoError(t, err)
			require.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestDecodeLenient(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *toon.Value
	}{
		{
			"length mismatch keeps actual elements",
			"nums[3]: 1,2",
			toon.Obj(toon.F("nums", toon.Arr(toon.Int(1), toon.Int(2)))),
		},
		{
			"short row padded with nulls",
			"users[2,]{id,name}:\n  1\n  2,Bob",
			toon.Obj(toon.F("users", toon.Arr(
				toon.Obj(toon.F("id", toon.Int(1)), toon.F("name", toon.Null())),
				toon.Obj(toon.F("id", toon.Int(2)), toon.F("name", toon.Str("Bob"))),
			))),
		},
		{
			"long row truncated",
			"users[1,]{id}:\n  1,extra",
			toon.Obj(toon.F("users", toon.Arr(toon.Obj(toon.F("id", toon.Int(1)))))),
		},
		{
			"shifted document is re-based",
			"  a: 1\n    b:\n      c: 2",
			toon.Obj(toon.F("a", toon.Int(1)), toon.F("b", toon.Obj(toon.F("c", toon.Int(2))))),
		},
		{
			"unrecognizable line kept as raw string entry",
			"a: 1\njust text",
			toon.Obj(toon.F("a", toon.Int(1)), toon.F("just text", toon.Str("just text"))),
		},
		{
			"duplicate keys last wins in place",
			"a: 1\nb: 2\na: 3",
			toon.Obj(toon.F("a", toon.Int(3)), toon.F("b", toon.Int(2))),
		},
		{
			"bad escape kept verbatim",
			`a: "\q"`,
			toon.Obj(toon.F("a", toon.Str(`"\q"`))),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toon.Decode([]byte(tt.in), toon.Lenient())
			require.NoError(t, err)
			require.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}
