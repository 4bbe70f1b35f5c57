package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/campus/cli/internal/collection"
	"github.com/gravitrone/campus/cli/internal/record"
	"github.com/gravitrone/campus/cli/internal/resources"
)

type request struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

// apiStub is an in-memory campus API.
type apiStub struct {
	mu       sync.Mutex
	items    map[string][]map[string]any
	nextID   int
	requests []request
	failOn   map[string]int
}

func newAPIStub() *apiStub {
	return &apiStub{
		nextID: 10,
		failOn: map[string]int{},
		items: map[string][]map[string]any{
			"events": {
				{"id": 1, "name": "Hack Day", "date": "2099-01-01", "location": "Lab1", "college_id": 7},
				{"id": 2, "name": "Career Fair", "date": "2099-02-01", "college_id": 8},
			},
			"students": {},
			"feedback": {},
		},
	}
}

func (s *apiStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := request{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
	if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
		_ = json.Unmarshal(raw, &req.Body)
	}
	s.requests = append(s.requests, req)

	if status, ok := s.failOn[r.Method+" "+r.URL.Path]; ok {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"detail":"boom"}`)
		return
	}

	switch r.URL.Path {
	case "/":
		_, _ = io.WriteString(w, `{"message":"Welcome to Campus Event Manager!"}`)
		return
	case "/reports/registrations":
		_, _ = io.WriteString(w, `[{"event_id":1,"event_name":"Hack Day","total_registrations":12},{"event_id":2,"event_name":"Career Fair","total_registrations":30}]`)
		return
	case "/reports/feedback":
		_, _ = io.WriteString(w, `[{"event_id":1,"event_name":"Hack Day","avg_feedback":4.0},{"event_id":2,"event_name":"Career Fair","avg_feedback":4.5}]`)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	items, ok := s.items[parts[0]]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Not Found"}`)
		return
	}
	id := 0
	if len(parts) > 1 {
		id, _ = strconv.Atoi(parts[1])
	}

	switch {
	case r.Method == http.MethodGet && id == 0:
		out := items
		if college := r.URL.Query().Get("college_id"); college != "" {
			out = nil
			for _, it := range items {
				if fmt.Sprint(it["college_id"]) == college {
					out = append(out, it)
				}
			}
		}
		_ = json.NewEncoder(w).Encode(out)
	case r.Method == http.MethodPost:
		body := copyBody(req.Body)
		body["id"] = s.nextID
		s.nextID++
		s.items[parts[0]] = append(items, body)
		_ = json.NewEncoder(w).Encode(body)
	case r.Method == http.MethodPut:
		for i, it := range items {
			if it["id"] == id {
				body := copyBody(req.Body)
				body["id"] = id
				items[i] = body
				_ = json.NewEncoder(w).Encode(body)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Event not found"}`)
	case r.Method == http.MethodDelete:
		for i, it := range items {
			if it["id"] == id {
				s.items[parts[0]] = append(items[:i], items[i+1:]...)
				_, _ = io.WriteString(w, `{"message":"Event deleted"}`)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Event not found"}`)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func copyBody(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// writes returns the non-GET requests.
func (s *apiStub) writes() []request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []request
	for _, r := range s.requests {
		if r.Method != http.MethodGet {
			out = append(out, r)
		}
	}
	return out
}

func (s *apiStub) all() []request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]request(nil), s.requests...)
}

// startAPI serves a stub and points the CLI at it through the environment.
func startAPI(t *testing.T) (*apiStub, string) {
	t.Helper()
	stub := newAPIStub()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	t.Setenv("HOME", t.TempDir())
	t.Setenv("CAMPUS_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))
	t.Setenv("CAMPUS_BASE_URL", srv.URL)
	t.Setenv("CAMPUS_LOG_LEVEL", "ERROR")
	return stub, srv.URL
}

// testRoot mirrors the campus root command.
func testRoot() *cobra.Command {
	root := &cobra.Command{Use: "campus", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().String(FlagConfig, "", "")
	root.PersistentFlags().String(FlagBaseURL, "", "")
	for _, c := range CollectionCmds() {
		root.AddCommand(c)
	}
	root.AddCommand(StatsCmd())
	root.AddCommand(PingCmd())
	root.AddCommand(ConfigCmd())
	root.AddCommand(VersionCmd("test"))
	return root
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := testRoot()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// withTerminal pretends stdin and stdout are a terminal and replaces the
// prompts for the duration of the test.
func withTerminal(t *testing.T, field func(record.Field, string) (string, error), confirm func(context.Context, string) (bool, error)) {
	t.Helper()
	oldInteractive, oldField, oldConfirm := interactive, askField, askConfirm
	t.Cleanup(func() {
		interactive, askField, askConfirm = oldInteractive, oldField, oldConfirm
	})
	interactive = func() bool { return true }
	if field != nil {
		askField = field
	}
	if confirm != nil {
		askConfirm = confirm
	}
}

func requireNoWrites(t *testing.T, stub *apiStub) {
	t.Helper()
	require.Empty(t, stub.writes())
}

var noHandlers collection.Handlers

func testEventResource() collection.Resource {
	return resources.EventResource(resources.Options{})
}
