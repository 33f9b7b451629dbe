package toon_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	toon "github.com/toonfmt/go-toon"
)

func TestValueRoundTrip(t *testing.T) {
	docs := []*toon.Value{
		toon.Obj(),
		toon.Null(),
		toon.Str("hello world"),
		toon.Int(-42),
		toon.Float(3.5),
		toon.Arr(toon.Int(1), toon.Str("two"), toon.Bool(true), toon.Null()),
		toon.Obj(
			toon.F("id", toon.Int(1)),
			toon.F("tags", toon.Arr(toon.Str("a"), toon.Str("b"))),
			toon.F("meta", toon.Obj(toon.F("nested", toon.Obj(toon.F("deep", toon.Bool(false)))))),
			toon.F("users", toon.Arr(
				toon.Obj(toon.F("id", toon.Int(1)), toon.F("name", toon.Str("Alice"))),
				toon.Obj(toon.F("id", toon.Int(2)), toon.F("name", toon.Str("Bo,b"))),
			)),
			toon.F("mixed", toon.Arr(
				toon.Int(1),
				toon.Arr(toon.Int(2), toon.Int(3)),
				toon.Obj(toon.F("k", toon.Str("v")), toon.F("l", toon.Arr(toon.Str("x")))),
				toon.Obj(),
			)),
			toon.F("odd keys", toon.Obj(
				toon.F("", toon.Str("")),
				toon.F("with:colon", toon.Int(1)),
				toon.F("true", toon.Bool(true)),
			)),
		),
	}

	optSets := [][]toon.EncodeOption{
		nil,
		{toon.Delimiter(toon.DelimPipe)},
		{toon.Delimiter(toon.DelimTab)},
		{toon.LengthMarkers()},
		{toon.Indent(4)},
	}
	decSets := [][]toon.DecodeOption{
		nil,
		nil,
		nil,
		nil,
		{toon.ExpectIndent(4)},
	}

	for i, opts := range optSets {
		for _, doc := range docs {
			text, err := toon.Encode(doc, opts...)
			require.NoError(t, err)

			back, err := toon.Decode(text, decSets[i]...)
			require.NoError(t, err, "input:\n%s", text)
			require.True(t, doc.Equal(back), "round trip changed value, text:\n%s", text)
		}
	}
}

// Strings that begin or end with unusual whitespace must be quoted, or the
// decoder's value trimming would eat the edge runes on the way back.
func TestRoundTripEdgeWhitespace(t *testing.T) {
	doc := toon.Obj(
		toon.F("a", toon.Str("\vx")),
		toon.F("b", toon.Str("x\f")),
		toon.F("c", toon.Str(" x")),
		toon.F("d", toon.Str("x　")),
		toon.F("interior", toon.Str("a\vb")),
		toon.F("list", toon.Arr(toon.Str("\va"), toon.Str("b\f"))),
	)

	text, err := toon.Encode(doc)
	require.NoError(t, err)
	require.Equal(t,
		"a: \"\vx\"\n"+
			"b: \"x\f\"\n"+
			"c: \" x\"\n"+
			"d: \"x　\"\n"+
			"interior: a\vb\n"+
			"list[2]: \"\va\",\"b\f\"",
		string(text))

	back, err := toon.Decode(text)
	require.NoError(t, err)
	require.True(t, doc.Equal(back), "round trip changed value, text:\n%s", text)
}

func TestEncodeIsDeterministic(t *testing.T) {
	doc := toon.Obj(
		toon.F("users", toon.Arr(
			toon.Obj(toon.F("id", toon.Int(1)), toon.F("name", toon.Str("Alice"))),
		)),
		toon.F("nums", toon.Arr(toon.Int(1), toon.Int(2))),
	)
	first, err := toon.Encode(doc)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := toon.Encode(doc)
		require.NoError(t, err)
		require.Equal(t, string(first), string(again))
	}
}

func TestUnmarshalStruct(t *testing.T) {
	var u testUser
	err := toon.Unmarshal([]byte("id: 7\nname: Grace"), &u)
	require.NoError(t, err)
	require.Equal(t, testUser{ID: 7, Name: "Grace"}, u)
}

func TestUnmarshalCaseInsensitiveFallback(t *testing.T) {
	type cfg struct {
		HostName string
	}
	var c cfg
	err := toon.Unmarshal([]byte("hostname: web1"), &c)
	require.NoError(t, err)
	require.Equal(t, "web1", c.HostName)
}

func TestUnmarshalEmbedded(t *testing.T) {
	type base struct {
		ID int `toon:"id"`
	}
	type derived struct {
		base
		Name string `toon:"name"`
	}
	var d derived
	err := toon.Unmarshal([]byte("id: 3\nname: x"), &d)
	require.NoError(t, err)
	require.Equal(t, 3, d.ID)
	require.Equal(t, "x", d.Name)
}

func TestUnmarshalInterface(t *testing.T) {
	var v any
	err := toon.Unmarshal([]byte("a: 1\nb: 2.5\nc: hi\nd[2]: 1,2"), &v)
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"a": int64(1),
		"b": 2.5,
		"c": "hi",
		"d": []any{int64(1), int64(2)},
	}, v)
}

func TestUnmarshalTabularIntoSlice(t *testing.T) {
	var users []testUser
	err := toon.Unmarshal([]byte("[2,]{id,name}:\n  1,Alice\n  2,Bob"), &users)
	require.NoError(t, err)
	require.Equal(t, []testUser{{1, "Alice"}, {2, "Bob"}}, users)
}

func TestUnmarshalTime(t *testing.T) {
	type event struct {
		At time.Time `toon:"at"`
	}
	var e event
	err := toon.Unmarshal([]byte(`at: "2026-01-02T03:04:05Z"`), &e)
	require.NoError(t, err)
	require.True(t, e.At.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestUnmarshalValueTarget(t *testing.T) {
	var v *toon.Value
	err := toon.Unmarshal([]byte("a: 1"), &v)
	require.NoError(t, err)
	require.True(t, toon.Obj(toon.F("a", toon.Int(1))).Equal(v))
}

func TestUnmarshalPointerAllocation(t *testing.T) {
	type holder struct {
		N *int `toon:"n"`
	}
	var h holder
	err := toon.Unmarshal([]byte("n: 9"), &h)
	require.NoError(t, err)
	require.NotNil(t, h.N)
	require.Equal(t, 9, *h.N)

	err = toon.Unmarshal([]byte("n: null"), &h)
	require.NoError(t, err)
	require.Nil(t, h.N)
}

func TestUnmarshalErrors(t *testing.T) {
	var u testUser
	require.Error(t, toon.Unmarshal([]byte("id: 1"), u))
	require.Error(t, toon.Unmarshal([]byte("id: 1"), nil))

	var n int
	require.Error(t, toon.Unmarshal([]byte("hello"), &n))

	var small int8
	require.Error(t, toon.Unmarshal([]byte("1000"), &small))
}

type loud string

func (l *loud) UnmarshalTOON(data []byte) error {
	*l = loud(strings.ToUpper(string(data)))
	return nil
}

func TestUnmarshalCustomUnmarshaler(t *testing.T) {
	type holder struct {
		V loud `toon:"v"`
	}
	var h holder
	err := toon.Unmarshal([]byte("v: quiet"), &h)
	require.NoError(t, err)
	require.Equal(t, loud("QUIET"), h.V)
}

func TestEncoderDecoderStream(t *testing.T) {
	var buf bytes.Buffer
	enc := toon.NewEncoder(&buf, toon.LengthMarkers())
	require.NoError(t, enc.Encode(map[string][]int{"nums": {1, 2, 3}}))
	require.Equal(t, "nums[#3]: 1,2,3", buf.String())

	var out map[string][]int
	dec := toon.NewDecoder(&buf)
	require.NoError(t, dec.Decode(&out))
	require.Equal(t, map[string][]int{"nums": {1, 2, 3}}, out)
}

func TestDecoderOptionValidation(t *testing.T) {
	dec := toon.NewDecoder(bytes.NewReader([]byte("a: 1")), toon.MaxDepth(0))
	var v any
	require.Error(t, dec.Decode(&v))

	dec = toon.NewDecoder(bytes.NewReader([]byte("a: 1")), toon.ExpectIndent(-2))
	require.Error(t, dec.Decode(&v))
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	type inner struct {
		Tags []string `toon:"tags"`
	}
	type outer struct {
		Name  string     `toon:"name"`
		Score float64    `toon:"score"`
		OK    bool       `toon:"ok"`
		In    inner      `toon:"in"`
		Users []testUser `toon:"users"`
	}

	orig := outer{
		Name:  "demo, with delimiters | inside",
		Score: 9.25,
		OK:    true,
		In:    inner{Tags: []string{"x", "y z"}},
		Users: []testUser{{1, "Alice"}, {2, "Bob"}},
	}

	data, err := toon.Marshal(orig)
	require.NoError(t, err)

	var back outer
	require.NoError(t, toon.Unmarshal(data, &back))
	require.Equal(t, orig, back)
}
