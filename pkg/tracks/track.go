package tracks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

const coverArtField = "coverArt"

// Track is a single record in the catalog array. Fields other than coverArt
// are opaque and round-trip byte-for-byte, keeping their original order.
type Track struct {
	raw json.RawMessage
}

// NewTrack builds a record from plain string fields, keys in sorted order.
func NewTrack(fields map[string]string) Track {
	keys := make([]string, 0, len(fields))
	values := make(map[string]json.RawMessage, len(fields))
	for key, value := range fields {
		keys = append(keys, key)
		values[key] = marshalString(value)
	}
	slices.Sort(keys)
	return Track{raw: encodeObject(keys, values)}
}

func (t *Track) UnmarshalJSON(data []byte) error {
	if _, _, err := parseObject(data); err != nil {
		return err
	}
	t.raw = bytes.Clone(data)
	return nil
}

func (t Track) MarshalJSON() ([]byte, error) {
	if t.raw == nil {
		return []byte("{}"), nil
	}
	return t.raw, nil
}

// StringField returns the named field when it exists and holds a string.
func (t *Track) StringField(key string) (string, bool) {
	_, values, err := parseObject(t.raw)
	if err != nil {
		return "", false
	}
	raw, ok := values[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// SetStringField overwrites (or appends) the named field, leaving every other
// field and the overall field order untouched.
func (t *Track) SetStringField(key, value string) error {
	keys, values, err := parseObject(t.raw)
	if err != nil {
		return err
	}
	if _, exists := values[key]; !exists {
		keys = append(keys, key)
	}
	values[key] = marshalString(value)
	t.raw = encodeObject(keys, values)
	return nil
}

func (t *Track) CoverArt() (string, bool) {
	return t.StringField(coverArtField)
}

func (t *Track) SetCoverArt(url string) error {
	return t.SetStringField(coverArtField, url)
}

func parseObject(raw []byte) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("track record must be a JSON object, got %v", tok)
	}

	var keys []string
	values := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, nil, err
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = value
	}
	return keys, values, nil
}

func encodeObject(keys []string, values map[string]json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(marshalString(key))
		buf.WriteByte(':')
		buf.Write(values[key])
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

// marshalString encodes s without the HTML escaping json.Marshal applies.
func marshalString(s string) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		// Encoding a plain string cannot fail.
		panic(err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n")
}
