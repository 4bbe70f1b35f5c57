package collection

import (
	"fmt"
	"strings"

	"github.com/gravitrone/campus/cli/internal/api"
	"github.com/gravitrone/campus/cli/internal/record"
)

// Resource describes one remote collection and its form.
type Resource struct {
	Name       string // path segment, e.g. "events"
	Singular   string // "event"
	Title      string // "Events"
	TitleField string // field that names a record, e.g. "name"

	Fields     record.FieldSpec
	Validators []record.Validator

	// Defaults fill fields the form leaves empty. Explicit input wins.
	Defaults record.Record

	// Query is appended to list reads, e.g. college_id.
	Query map[string]string
}

// ListPath is the collection URL path, including the list query.
func (r Resource) ListPath() string {
	return api.ResourcePath(r.Name, nil, api.QueryParams(r.Query))
}

// CreatePath is the collection URL path without query.
func (r Resource) CreatePath() string {
	return api.ResourcePath(r.Name, nil, nil)
}

// ItemPath is the URL path of one record.
func (r Resource) ItemPath(id int64) string {
	return api.ResourcePath(r.Name, &id, nil)
}

// DisplayName names a record in prompts and messages, falling back to its
// id when the title field is empty.
func (r Resource) DisplayName(rec record.Record, id int64) string {
	if r.TitleField != "" {
		if text, ok := rec.Text(r.TitleField); ok {
			return sanitizeValue(text)
		}
	}
	return fmt.Sprintf("#%d", id)
}

// Capitalized returns the singular noun with an upper-case first letter.
func (r Resource) Capitalized() string {
	if r.Singular == "" {
		return ""
	}
	return strings.ToUpper(r.Singular[:1]) + r.Singular[1:]
}
