package ui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/campus/cli/internal/collection"
	"github.com/gravitrone/campus/cli/internal/record"
)

// The controller runs inside tea.Cmd goroutines. These adapters collect
// what it renders, notifies and asks so the model can pick it up from a
// message on the update loop.

// cardSink is the ListRenderer of a collection tab.
type cardSink struct {
	mu       sync.Mutex
	records  []record.Record
	handlers collection.Handlers
	renders  int
}

func (s *cardSink) Render(records []record.Record, handlers collection.Handlers) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.handlers = handlers
	s.renders++
}

// Snapshot returns the last rendered records, their handlers and the number
// of renders so far.
func (s *cardSink) Snapshot() ([]record.Record, collection.Handlers, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records, s.handlers, s.renders
}

type notice struct {
	level collection.Level
	text  string
}

// noticeSink keeps the most recent notification of one operation.
type noticeSink struct {
	mu   sync.Mutex
	last *notice
}

func (s *noticeSink) Notify(level collection.Level, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &notice{level: level, text: message}
}

// Take returns and clears the pending notification.
func (s *noticeSink) Take() *notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.last
	s.last = nil
	return n
}

type confirmRequest struct {
	prompt string
	answer chan bool
}

// promptConfirmer hands each prompt to the update loop and blocks until the
// user answers with y or n.
type promptConfirmer struct {
	prompts chan *confirmRequest
}

func newPromptConfirmer() *promptConfirmer {
	return &promptConfirmer{prompts: make(chan *confirmRequest)}
}

func (c *promptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	req := &confirmRequest{prompt: prompt, answer: make(chan bool, 1)}
	select {
	case c.prompts <- req:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case ok := <-req.answer:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// wait returns a command that delivers the next prompt for resource.
func (c *promptConfirmer) wait(resource string) tea.Cmd {
	return func() tea.Msg {
		return confirmPromptMsg{resource: resource, req: <-c.prompts}
	}
}
