package ui

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/campus/cli/internal/api"
	"github.com/gravitrone/campus/cli/internal/resources"
)

// campusServer is an in-memory stand-in for the campus API.
type campusServer struct {
	mu     sync.Mutex
	items  map[string][]map[string]any
	nextID int
	calls  []string
}

func newCampusServer() *campusServer {
	return &campusServer{
		nextID: 100,
		items: map[string][]map[string]any{
			"events": {
				{"id": 1, "name": "Hack Day", "date": "2099-01-01", "location": "Lab1"},
				{"id": 2, "name": "Career Fair", "date": "2099-02-01"},
			},
			"students": {
				{"id": 1, "name": "Ada", "email": "ada@uni.edu"},
			},
			"feedback": {},
		},
	}
}

func (s *campusServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, r.Method+" "+r.URL.Path)

	if r.URL.Path == "/" {
		json.NewEncoder(w).Encode(map[string]string{"message": "Welcome to Campus Event Manager!"})
		return
	}
	switch r.URL.Path {
	case "/reports/registrations":
		json.NewEncoder(w).Encode([]map[string]any{
			{"event_id": 1, "event_name": "Hack Day", "total_registrations": 12},
			{"event_id": 2, "event_name": "Career Fair", "total_registrations": 30},
		})
		return
	case "/reports/feedback":
		json.NewEncoder(w).Encode([]map[string]any{
			{"event_id": 1, "event_name": "Hack Day", "avg_feedback": 4.0},
			{"event_id": 2, "event_name": "Career Fair", "avg_feedback": 4.5},
		})
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	items, ok := s.items[parts[0]]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Not Found"}`))
		return
	}
	var id int
	if len(parts) > 1 {
		id, _ = strconv.Atoi(parts[1])
	}

	switch {
	case r.Method == http.MethodGet && len(parts) == 1:
		json.NewEncoder(w).Encode(items)
	case r.Method == http.MethodPost:
		body := decodeBody(r)
		body["id"] = s.nextID
		s.nextID++
		s.items[parts[0]] = append(items, body)
		json.NewEncoder(w).Encode(body)
	case r.Method == http.MethodPut:
		for i, it := range items {
			if it["id"] == id {
				body := decodeBody(r)
				body["id"] = id
				items[i] = body
				json.NewEncoder(w).Encode(body)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Event not found"}`))
	case r.Method == http.MethodDelete:
		for i, it := range items {
			if it["id"] == id {
				s.items[parts[0]] = append(items[:i], items[i+1:]...)
				w.Write([]byte(`{"message":"deleted"}`))
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Event not found"}`))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *campusServer) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *campusServer) count(resource string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items[resource])
}

func decodeBody(r *http.Request) map[string]any {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	json.Unmarshal(raw, &body)
	if body == nil {
		body = map[string]any{}
	}
	return body
}

func testCampusClient(t *testing.T) (*campusServer, *api.Client) {
	t.Helper()
	state := newCampusServer()
	srv := httptest.NewServer(state)
	t.Cleanup(srv.Close)
	return state, api.NewClient(srv.URL, 2*time.Second)
}

func testResourceOptions() resources.Options {
	now := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	return resources.Options{Clock: func() time.Time { return now }}
}

// batchCmds unwraps a tea.Batch into its commands.
func batchCmds(t *testing.T, cmd tea.Cmd) []tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	require.True(t, ok, "expected batch, got %T", msg)
	return batch
}
