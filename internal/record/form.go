package record

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire and form format of date fields.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// ParseDate parses a date-like string and returns the calendar date (UTC
// midnight).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ReadForm builds a candidate record from the inputs described by spec.
// Empty optional fields are omitted. Integer and date fields that do not
// parse return a *ValidationError instead of a substitute value.
func ReadForm(src FieldSource, spec FieldSpec) (Record, error) {
	return ReadFormDefaults(src, spec, nil)
}

// ReadFormDefaults is ReadForm with fallbacks: an empty input takes the
// value defaults holds for its field, so a default satisfies Required.
// Defaults are parsed like typed input.
func ReadFormDefaults(src FieldSource, spec FieldSpec, defaults Record) (Record, error) {
	rec := make(Record, len(spec))
	for _, f := range spec {
		raw := strings.TrimSpace(src.Value(f.SourceID()))
		if raw == "" {
			raw = strings.TrimSpace(FormatValue(defaults[f.Name]))
		}
		if raw == "" {
			if f.Required {
				return nil, &ValidationError{
					Field:   f.Name,
					Message: fmt.Sprintf("%s is required", f.DisplayLabel()),
				}
			}
			continue
		}

		switch f.Type {
		case Int:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, &ValidationError{
					Field:   f.Name,
					Message: fmt.Sprintf("%s must be a whole number", f.DisplayLabel()),
				}
			}
			rec[f.Name] = n
		case Date:
			d, err := ParseDate(raw)
			if err != nil {
				return nil, &ValidationError{
					Field:   f.Name,
					Message: fmt.Sprintf("%s must be a date (YYYY-MM-DD)", f.DisplayLabel()),
				}
			}
			rec[f.Name] = d.Format(DateLayout)
		default:
			rec[f.Name] = raw
		}
	}
	return rec, nil
}

// WriteForm clears dst and fills it with rec's values for every field in
// spec. Used when a form switches to editing an existing record.
func WriteForm(dst FieldSource, rec Record, spec FieldSpec) {
	dst.Reset()
	for _, f := range spec {
		value := FormatValue(rec[f.Name])
		if f.Type == Date && value != "" {
			if d, err := ParseDate(value); err == nil {
				value = d.Format(DateLayout)
			}
		}
		dst.SetValue(f.SourceID(), value)
	}
}
