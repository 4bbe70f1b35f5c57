// Package collection keeps a local list view in step with a remote
// collection resource: it reads a form, writes through a Transport,
// re-reads the whole collection and hands it to a ListRenderer.
package collection

import (
	"context"
	"encoding/json"

	"github.com/gravitrone/campus/cli/internal/record"
)

// Transport performs one HTTP call against the API root. *api.Client
// implements it.
type Transport interface {
	Request(ctx context.Context, method, path string, body any) (json.RawMessage, error)
}

// Handlers are the per-item actions a renderer attaches to each card.
type Handlers struct {
	OnEdit   func(rec record.Record) error
	OnDelete func(ctx context.Context, id int64) (bool, error)
}

// ListRenderer replaces the displayed list with records. Each call fully
// replaces the previous output and its handlers.
type ListRenderer interface {
	Render(records []record.Record, handlers Handlers)
}

// RenderFunc adapts a function to ListRenderer.
type RenderFunc func(records []record.Record, handlers Handlers)

func (f RenderFunc) Render(records []record.Record, handlers Handlers) {
	f(records, handlers)
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm approves every prompt. Used by non-interactive callers that
// already collected consent (e.g. --yes).
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// NeverConfirm declines every prompt.
var NeverConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })

// Level classifies a user-visible message.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notifier shows a message to the user.
type Notifier interface {
	Notify(level Level, message string)
}

// NotifyFunc adapts a function to Notifier.
type NotifyFunc func(level Level, message string)

func (f NotifyFunc) Notify(level Level, message string) {
	f(level, message)
}

type notifierKey struct{}

// WithNotifier returns a context whose controller operations report to n
// instead of the controller's configured Notifier. Callers running
// operations concurrently use it to keep each operation's messages apart.
func WithNotifier(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, notifierKey{}, n)
}

func notifierFrom(ctx context.Context, fallback Notifier) Notifier {
	if n, ok := ctx.Value(notifierKey{}).(Notifier); ok && n != nil {
		return n
	}
	return fallback
}

type nopRenderer struct{}

func (nopRenderer) Render([]record.Record, Handlers) {}

type nopNotifier struct{}

func (nopNotifier) Notify(Level, string) {}
