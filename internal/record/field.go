package record

import (
	"sort"
	"sync"
)

// FieldType controls how a form value is parsed into a record field.
type FieldType int

const (
	String FieldType = iota
	Int
	Date
)

func (t FieldType) String() string {
	switch t {
	case Int:
		return "int"
	case Date:
		return "date"
	default:
		return "string"
	}
}

// Field binds one record field to one form input.
type Field struct {
	Name      string
	Label     string
	Source    string // input id; defaults to Name
	Type      FieldType
	Required  bool
	Multiline bool
}

// SourceID returns the input the field is read from and written to.
func (f Field) SourceID() string {
	if f.Source != "" {
		return f.Source
	}
	return f.Name
}

// DisplayLabel returns the human label, falling back to the field name.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// FieldSpec is the ordered list of fields a resource form exposes.
type FieldSpec []Field

// Lookup finds a field by record name.
func (s FieldSpec) Lookup(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldSource is the set of named inputs a form is made of.
type FieldSource interface {
	Value(source string) string
	SetValue(source, value string)
	Reset()
}

// Inputs is an in-memory FieldSource safe for use from several goroutines.
type Inputs struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewInputs returns an empty input set.
func NewInputs() *Inputs {
	return &Inputs{values: make(map[string]string)}
}

func (in *Inputs) Value(source string) string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.values[source]
}

func (in *Inputs) SetValue(source, value string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.values == nil {
		in.values = make(map[string]string)
	}
	in.values[source] = value
}

func (in *Inputs) Reset() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.values = make(map[string]string)
}

// Snapshot returns a copy of the non-empty values.
func (in *Inputs) Snapshot() map[string]string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := make(map[string]string, len(in.values))
	for k, v := range in.values {
		if v == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// Sources lists the inputs holding a value, sorted.
func (in *Inputs) Sources() []string {
	snap := in.Snapshot()
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
