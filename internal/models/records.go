package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ParseRecords decodes a record list: either a JSON array of objects or a JSON
// string holding one (the pandas to_json(orient="records") form). Column order
// is the order in which keys are first seen.
func ParseRecords(raw json.RawMessage) (*QueryResult, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return &QueryResult{}, nil
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("decode embedded records: %w", err)
		}
		if inner == "" {
			return &QueryResult{}, nil
		}
		return ParseRecords(json.RawMessage(inner))
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	res := &QueryResult{}
	seen := map[string]bool{}
	for dec.More() {
		row, keys, err := decodeObject(dec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(res.Rows), err)
		}
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				res.Columns = append(res.Columns, k)
			}
		}
		res.Rows = append(res.Rows, row)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	return res, nil
}

func decodeObject(dec *json.Decoder) (map[string]interface{}, []string, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, nil, err
	}
	row := map[string]interface{}{}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected key token %v", tok)
		}
		var val interface{}
		if err := dec.Decode(&val); err != nil {
			return nil, nil, err
		}
		if n, ok := val.(json.Number); ok {
			val = numberValue(n)
		}
		if _, dup := row[key]; !dup {
			keys = append(keys, key)
		}
		row[key] = val
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, nil, err
	}
	return row, keys, nil
}

func numberValue(n json.Number) interface{} {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("expected %q, got end of input", want)
	}
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
