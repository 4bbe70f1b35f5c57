package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// IDField is the server-assigned key present on every stored record.
const IDField = "id"

// Record is one item of a remote collection: scalar fields keyed by name.
// Records are snapshots. Methods never mutate the receiver.
type Record map[string]any

// ID returns the server-assigned id, if the record has one.
func (r Record) ID() (int64, bool) {
	if r == nil {
		return 0, false
	}
	return toInt(r[IDField])
}

// Int returns an integer-valued field.
func (r Record) Int(field string) (int64, bool) {
	return toInt(r[field])
}

// Text returns the display text of a field and whether it holds a
// non-empty value.
func (r Record) Text(field string) (string, bool) {
	v, ok := r[field]
	if !ok {
		return "", false
	}
	s := FormatValue(v)
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// Payload returns a copy of the record without its id, the body sent on
// create and update.
func (r Record) Payload() Record {
	out := make(Record, len(r))
	for k, v := range r {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	return out
}

// Clone returns a shallow copy.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// WithDefaults returns a copy where fields absent from r are taken from
// defaults. Fields present in r always win.
func (r Record) WithDefaults(defaults Record) Record {
	out := r.Clone()
	if out == nil {
		out = Record{}
	}
	for k, v := range defaults {
		if _, ok := out[k]; ok {
			continue
		}
		out[k] = v
	}
	return out
}

// FormatValue renders a scalar JSON value as plain text. nil renders as "".
func FormatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case json.Number:
		return value.String()
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case int32:
		return strconv.FormatInt(int64(value), 10)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}

func toInt(v any) (int64, bool) {
	switch value := v.(type) {
	case json.Number:
		n, err := value.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	case float64:
		if value != float64(int64(value)) {
			return 0, false
		}
		return int64(value), true
	case int:
		return int64(value), true
	case int64:
		return value, true
	case int32:
		return int64(value), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// DecodeList decodes a collection body. Both a bare JSON array and the
// {"data": [...]} envelope are accepted. Numbers are kept as json.Number.
func DecodeList(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []Record{}, nil
	}

	if trimmed[0] == '{' {
		var envelope struct {
			Data []Record `json:"data"`
		}
		if err := decodeNumbers(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return compact(envelope.Data), nil
	}

	var items []Record
	if err := decodeNumbers(trimmed, &items); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return compact(items), nil
}

// DecodeOne decodes a single-record body, with or without the envelope.
func DecodeOne(data []byte) (Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var rec Record
	if err := decodeNumbers(trimmed, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if inner, ok := rec["data"].(map[string]any); ok {
		if _, hasID := rec[IDField]; !hasID {
			return Record(inner), nil
		}
	}
	return rec, nil
}

func decodeNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func compact(items []Record) []Record {
	out := make([]Record, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, item)
	}
	return out
}
