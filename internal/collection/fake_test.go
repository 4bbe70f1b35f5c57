package collection

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gravitrone/campus/cli/internal/api"
	"github.com/gravitrone/campus/cli/internal/record"
)

var fixedNow = time.Date(2030, time.June, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func eventResource() Resource {
	return Resource{
		Name:       "events",
		Singular:   "event",
		Title:      "Events",
		TitleField: "name",
		Fields: record.FieldSpec{
			{Name: "name", Label: "Name", Required: true},
			{Name: "date", Label: "Date", Type: record.Date, Required: true},
			{Name: "location", Label: "Location"},
			{Name: "description", Label: "Description", Multiline: true},
			{Name: "college_id", Label: "College ID", Type: record.Int},
		},
		Validators: []record.Validator{record.NotInPast("date", fixedClock)},
	}
}

type call struct {
	Method string
	Path   string
	Body   record.Record
}

// fakeTransport is an in-memory collection answering the same paths the
// API serves.
type fakeTransport struct {
	mu      sync.Mutex
	items   []record.Record
	nextID  int64
	calls   []call
	failOn  map[string]error // keyed by method
	listErr error
}

func newFakeTransport(items ...record.Record) *fakeTransport {
	ft := &fakeTransport{nextID: 1, failOn: map[string]error{}}
	for _, it := range items {
		ft.items = append(ft.items, it.Clone())
		if id, ok := it.ID(); ok && id >= ft.nextID {
			ft.nextID = id + 1
		}
	}
	return ft
}

func (f *fakeTransport) Request(_ context.Context, method, path string, body any) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var payload record.Record
	if body != nil {
		raw, _ := json.Marshal(body)
		payload, _ = record.DecodeOne(raw)
	}
	f.calls = append(f.calls, call{Method: method, Path: path, Body: payload})

	if err := f.failOn[method]; err != nil {
		return nil, err
	}

	segments := strings.Split(strings.Trim(strings.SplitN(path, "?", 2)[0], "/"), "/")
	var id int64
	hasID := len(segments) > 1
	if hasID {
		id, _ = strconv.ParseInt(segments[1], 10, 64)
	}

	switch {
	case method == http.MethodGet && !hasID:
		if f.listErr != nil {
			return nil, f.listErr
		}
		return json.Marshal(f.items)
	case method == http.MethodPost:
		rec := payload.Clone()
		rec[record.IDField] = f.nextID
		f.nextID++
		f.items = append(f.items, rec)
		return json.Marshal(rec)
	case method == http.MethodPut:
		for i, it := range f.items {
			if rid, _ := it.ID(); rid == id {
				rec := payload.Clone()
				rec[record.IDField] = id
				f.items[i] = rec
				return json.Marshal(rec)
			}
		}
		return nil, &api.TransportError{Status: http.StatusNotFound, Detail: "Event not found"}
	case method == http.MethodDelete:
		for i, it := range f.items {
			if rid, _ := it.ID(); rid == id {
				f.items = append(f.items[:i], f.items[i+1:]...)
				return json.RawMessage(`{"message":"Event deleted"}`), nil
			}
		}
		return nil, &api.TransportError{Status: http.StatusNotFound, Detail: "Event not found"}
	}
	return nil, &api.TransportError{Status: http.StatusMethodNotAllowed, Detail: "Method Not Allowed"}
}

func (f *fakeTransport) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]call, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeTransport) methods() []string {
	var out []string
	for _, c := range f.Calls() {
		out = append(out, c.Method+" "+c.Path)
	}
	return out
}

// recordingRenderer keeps every render so tests can inspect the latest.
type recordingRenderer struct {
	mu      sync.Mutex
	renders [][]record.Record
	last    Handlers
}

func (r *recordingRenderer) Render(records []record.Record, handlers Handlers) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders = append(r.renders, records)
	r.last = handlers
}

func (r *recordingRenderer) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.renders)
}

func (r *recordingRenderer) Last() []record.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.renders) == 0 {
		return nil
	}
	return r.renders[len(r.renders)-1]
}

type note struct {
	Level   Level
	Message string
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (n *recordingNotifier) Notify(level Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note{Level: level, Message: message})
}

func (n *recordingNotifier) Last() note {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notes) == 0 {
		return note{}
	}
	return n.notes[len(n.notes)-1]
}

func ids(records []record.Record) []int64 {
	out := make([]int64, 0, len(records))
	for _, rec := range records {
		id, _ := rec.ID()
		out = append(out, id)
	}
	return out
}
