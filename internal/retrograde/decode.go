package retrograde

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// member is one key/value pair of a JSON object, kept in source order.
type member struct {
	key string
	raw json.RawMessage
}

// decodeObject reads one JSON object from dec and returns its members in the
// order they appear. A repeated key keeps its first position and takes the
// later value.
func decodeObject(dec *json.Decoder) ([]member, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, found %v", describeToken(tok))
	}

	var members []member
	seen := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, found %v", describeToken(tok))
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		if i, dup := seen[key]; dup {
			members[i].raw = raw
			continue
		}
		seen[key] = len(members)
		members = append(members, member{key: key, raw: raw})
	}

	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return members, nil
}

// decodeObjectBytes decodes raw as a single JSON object.
func decodeObjectBytes(raw json.RawMessage) ([]member, error) {
	return decodeObject(json.NewDecoder(bytes.NewReader(raw)))
}

// decodeDocument decodes the top-level object from r and rejects trailing
// data after it.
func decodeDocument(r io.Reader) ([]member, error) {
	dec := json.NewDecoder(r)
	members, err := decodeObject(dec)
	if err != nil {
		return nil, err
	}
	if tok, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("unexpected %v after top-level object", describeToken(tok))
	}
	return members, nil
}

// decodeBool accepts only the JSON literals true and false.
func decodeBool(raw json.RawMessage) (bool, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

func describeToken(tok json.Token) string {
	switch t := tok.(type) {
	case nil:
		return "null"
	case json.Delim:
		return fmt.Sprintf("%q", t.String())
	case string:
		return fmt.Sprintf("string %q", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
