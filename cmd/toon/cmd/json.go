package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
	toon "github.com/toonfmt/go-toon"
)

// jsonToValue parses JSON into the Value model, preserving object key
// order. The stock json.Unmarshal path would lose it through map[string]any.
func jsonToValue(data []byte) (*toon.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readJSONValue(dec)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing JSON")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing content after JSON document")
	}
	return v, nil
}

func readJSONValue(dec *json.Decoder) (*toon.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return readJSONToken(dec, tok)
}

func readJSONToken(dec *json.Decoder, tok json.Token) (*toon.Value, error) {
	switch t := tok.(type) {
	case nil:
		return toon.Null(), nil
	case bool:
		return toon.Bool(t), nil
	case string:
		return toon.Str(t), nil
	case json.Number:
		if i, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return toon.Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return toon.Float(f), nil
	case json.Delim:
		switch t {
		case '[':
			var elems []*toon.Value
			for dec.More() {
				el, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				elems = append(elems, el)
			}
			if _, err := dec.Token(); err != nil { // closing ]
				return nil, err
			}
			return toon.Arr(elems...), nil
		case '{':
			var fields []toon.Field
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key token %v", keyTok)
				}
				val, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				fields = append(fields, toon.F(key, val))
			}
			if _, err := dec.Token(); err != nil { // closing }
				return nil, err
			}
			return toon.Obj(fields...), nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	default:
		return nil, fmt.Errorf("unexpected JSON token %v", tok)
	}
}

// valueToJSON renders a Value as compact JSON, preserving object key order.
func valueToJSON(v *toon.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSONValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSONValue(buf *bytes.Buffer, v *toon.Value) error {
	switch v.Kind() {
	case toon.KindNull:
		buf.WriteString("null")
	case toon.KindBool:
		b, _ := v.AsBool()
		buf.WriteString(strconv.FormatBool(b))
	case toon.KindNumber:
		if i, err := v.AsInt(); err == nil {
			buf.WriteString(strconv.FormatInt(i, 10))
		} else {
			f, _ := v.AsFloat()
			buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		}
	case toon.KindString:
		s, _ := v.AsStr()
		enc, err := json.Marshal(s)
		if err != nil {
			return err
		}
		buf.Write(enc)
	case toon.KindArray:
		elems, _ := v.AsArr()
		buf.WriteByte('[')
		for i, el := range elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONValue(buf, el); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case toon.KindObject:
		fields, _ := v.AsObj()
		buf.WriteByte('{')
		for i, f := range fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(f.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSONValue(buf, f.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unexpected value kind %v", v.Kind())
	}
	return nil
}
