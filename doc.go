/*
Package toon encodes and decodes TOON (Token-Oriented Object Notation), a
compact, indentation-based text format for JSON-like data. The API mirrors
the standard `encoding/json` package.

The package offers two primary workflows depending on the use case:

1. Data-Oriented Marshaling

For the common task of converting Go structs to TOON text (and vice
versa), the Marshal and Unmarshal functions provide a simple and direct
API:

	type User struct {
		ID   int    `toon:"id"`
		Name string `toon:"name"`
	}

	out, err := toon.Marshal([]User{{1, "Alice"}, {2, "Bob"}})
	if err != nil {
		// handle error
	}
	// out:
	// [2,]{id,name}:
	//   1,Alice
	//   2,Bob

2. Value-Level Manipulation

For tooling that needs to inspect or build documents directly, Encode and
Decode operate on the Value model, an ordered tree of nulls, booleans,
numbers, strings, arrays and objects:

	doc, err := toon.Decode(input)
	if err != nil {
		// handle error
	}
	name, err := doc.Get("name").AsStr()

Arrays are rendered in one of three forms chosen per array: a primitive
inline form for scalar elements, a tabular form for uniform objects, and
a dash-item form for everything else. The field delimiter (comma, tab or
pipe) is configurable with Delimiter and is recorded in array headers so
decoding never needs guessing.

Decoding is strict by default: structural problems are reported as a
*DecodeError carrying an ErrorKind and a 1-based line number. The Lenient
option turns most of these errors into best-effort repairs.

Customization is available via struct field tags (e.g. `toon:"key,omitempty"`)
and by implementing the toon.Marshaler and toon.Unmarshaler interfaces.
*/
package toon
