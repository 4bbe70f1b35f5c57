package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gravitrone/campus/cli/internal/record"
)

// ErrNoID is returned when editing a record the server never assigned an
// id to.
var ErrNoID = errors.New("record has no id")

// ErrStale marks a committed write whose follow-up read failed. The
// rendered list does not show the change yet.
var ErrStale = errors.New("write saved but list is stale")

// Config wires a Controller. Transport is required; everything else has a
// quiet default (no rendering, in-memory form, deletes declined).
type Config struct {
	Resource  Resource
	Transport Transport
	Renderer  ListRenderer
	Form      record.FieldSource
	Confirmer Confirmer
	Notifier  Notifier
	Logger    *slog.Logger
}

// Controller synchronizes one resource's list view and form with the
// remote collection. State changes only after the Transport confirms a
// write and a full re-read succeeds.
type Controller struct {
	res       Resource
	transport Transport
	renderer  ListRenderer
	form      record.FieldSource
	confirmer Confirmer
	notifier  Notifier
	log       *slog.Logger

	mu      sync.Mutex
	state   []record.Record
	session EditSession
	gen     uint64

	renderMu sync.Mutex
	rendered uint64
}

// New builds a controller. State starts empty and the session in Creating.
func New(cfg Config) (*Controller, error) {
	if cfg.Transport == nil {
		return nil, errors.New("collection: transport is required")
	}
	if cfg.Resource.Name == "" {
		return nil, errors.New("collection: resource name is required")
	}
	c := &Controller{
		res:       cfg.Resource,
		transport: cfg.Transport,
		renderer:  cfg.Renderer,
		form:      cfg.Form,
		confirmer: cfg.Confirmer,
		notifier:  cfg.Notifier,
		log:       cfg.Logger,
		state:     []record.Record{},
	}
	if c.renderer == nil {
		c.renderer = nopRenderer{}
	}
	if c.form == nil {
		c.form = record.NewInputs()
	}
	if c.confirmer == nil {
		c.confirmer = NeverConfirm
	}
	if c.notifier == nil {
		c.notifier = nopNotifier{}
	}
	if c.log == nil {
		c.log = slog.New(slog.DiscardHandler)
	}
	c.log = c.log.With("resource", c.res.Name)
	return c, nil
}

// Resource returns the resource this controller serves.
func (c *Controller) Resource() Resource {
	return c.res
}

// Form returns the inputs the controller reads and writes.
func (c *Controller) Form() record.FieldSource {
	return c.form
}

// State returns a copy of the current collection snapshot.
func (c *Controller) State() []record.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneRecords(c.state)
}

// Session returns the current edit mode.
func (c *Controller) Session() EditSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Lookup finds a record of the current snapshot by id.
func (c *Controller) Lookup(id int64) (record.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rec := range c.state {
		if rid, ok := rec.ID(); ok && rid == id {
			return rec.Clone(), true
		}
	}
	return nil, false
}

// Handlers returns the per-item actions renderers attach to cards.
func (c *Controller) Handlers() Handlers {
	return Handlers{
		OnEdit:   c.BeginEdit,
		OnDelete: c.Delete,
	}
}

// Load performs the initial read and render.
func (c *Controller) Load(ctx context.Context) error {
	return c.Refresh(ctx)
}

// Refresh re-reads the whole collection and re-renders. On failure the
// previous snapshot stays in place.
func (c *Controller) Refresh(ctx context.Context) error {
	if err := c.refresh(ctx); err != nil {
		c.notify(ctx, LevelError, fmt.Sprintf("Could not load %s: %v", c.res.Name, err))
		return err
	}
	return nil
}

// BeginEdit switches the form to update rec and fills the inputs from it.
func (c *Controller) BeginEdit(rec record.Record) error {
	id, ok := rec.ID()
	if !ok {
		return ErrNoID
	}
	c.mu.Lock()
	c.session = Editing(id)
	c.mu.Unlock()

	record.WriteForm(c.form, rec, c.res.Fields)
	c.log.Debug("edit started", "id", id)
	return nil
}

// Cancel leaves edit mode and clears the form.
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.session = Creating()
	c.mu.Unlock()
	c.form.Reset()
}

// Submit reads and validates the form, then creates or updates depending
// on the session. A validation or transport failure leaves state, session
// and form untouched. After a committed write the collection is re-read
// before rendering, then the session returns to Creating and the form is
// cleared.
func (c *Controller) Submit(ctx context.Context) error {
	session := c.Session()

	candidate, err := record.ReadFormDefaults(c.form, c.res.Fields, c.res.Defaults)
	if err == nil {
		candidate = candidate.WithDefaults(c.res.Defaults)
		err = record.Validate(candidate, c.res.Validators...)
	}
	if err != nil {
		c.log.Info("submit rejected", "session", session.String(), "error", err)
		c.notify(ctx, LevelError, err.Error())
		return err
	}

	method, path, verb := http.MethodPost, c.res.CreatePath(), "create"
	if id, editing := session.Target(); editing {
		method, path, verb = http.MethodPut, c.res.ItemPath(id), "update"
	}

	if _, err := c.transport.Request(ctx, method, path, candidate.Payload()); err != nil {
		c.log.Warn("write failed", "op", verb, "path", path, "error", err)
		c.notify(ctx, LevelError, fmt.Sprintf("Could not %s %s: %v", verb, c.res.Singular, err))
		return fmt.Errorf("%s %s: %w", verb, c.res.Singular, err)
	}
	c.log.Info("write committed", "op", verb, "path", path)

	refreshErr := c.refresh(ctx)
	c.finishSubmit(session)

	if refreshErr != nil {
		c.notify(ctx, LevelError, fmt.Sprintf("Saved, but could not reload %s: %v", c.res.Name, refreshErr))
		return fmt.Errorf("%w: %w", ErrStale, refreshErr)
	}

	msg := fmt.Sprintf("%s created", c.res.Capitalized())
	if id, editing := session.Target(); editing {
		msg = fmt.Sprintf("%s #%d updated", c.res.Capitalized(), id)
	}
	c.notify(ctx, LevelSuccess, msg)
	return nil
}

// Delete asks for confirmation naming the record, deletes it and re-reads
// the collection. A declined confirmation returns (false, nil) without
// any call.
func (c *Controller) Delete(ctx context.Context, id int64) (bool, error) {
	rec, _ := c.Lookup(id)
	prompt := fmt.Sprintf("Delete %s %q?", c.res.Singular, c.res.DisplayName(rec, id))

	ok, err := c.confirmer.Confirm(ctx, prompt)
	if err != nil {
		c.notify(ctx, LevelError, fmt.Sprintf("Delete cancelled: %v", err))
		return false, fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		c.log.Debug("delete declined", "id", id)
		return false, nil
	}

	path := c.res.ItemPath(id)
	if _, err := c.transport.Request(ctx, http.MethodDelete, path, nil); err != nil {
		c.log.Warn("delete failed", "id", id, "error", err)
		c.notify(ctx, LevelError, fmt.Sprintf("Could not delete %s: %v", c.res.Singular, err))
		return false, fmt.Errorf("delete %s: %w", c.res.Singular, err)
	}
	c.log.Info("write committed", "op", "delete", "path", path)

	c.mu.Lock()
	editingDeleted := c.session == Editing(id)
	if editingDeleted {
		c.session = Creating()
	}
	c.mu.Unlock()
	if editingDeleted {
		c.form.Reset()
	}

	if err := c.refresh(ctx); err != nil {
		c.notify(ctx, LevelError, fmt.Sprintf("Deleted, but could not reload %s: %v", c.res.Name, err))
		return true, fmt.Errorf("%w: %w", ErrStale, err)
	}
	c.notify(ctx, LevelSuccess, fmt.Sprintf("%s deleted", c.res.Capitalized()))
	return true, nil
}

func (c *Controller) notify(ctx context.Context, level Level, message string) {
	notifierFrom(ctx, c.notifier).Notify(level, message)
}

// finishSubmit resets the session and form after a committed write, unless
// the user switched to another record while the request was in flight.
func (c *Controller) finishSubmit(started EditSession) {
	c.mu.Lock()
	unchanged := c.session == started
	if unchanged {
		c.session = Creating()
	}
	c.mu.Unlock()
	if unchanged {
		c.form.Reset()
	}
}

func (c *Controller) refresh(ctx context.Context) error {
	path := c.res.ListPath()
	data, err := c.transport.Request(ctx, http.MethodGet, path, nil)
	if err != nil {
		c.log.Warn("list failed", "path", path, "error", err)
		return fmt.Errorf("list %s: %w", c.res.Name, err)
	}
	records, err := record.DecodeList(data)
	if err != nil {
		c.log.Warn("list undecodable", "path", path, "error", err)
		return fmt.Errorf("list %s: %w", c.res.Name, err)
	}
	c.apply(records)
	c.log.Debug("collection refreshed", "count", len(records))
	return nil
}

// apply replaces the snapshot and renders it. When reads race, the most
// recently applied snapshot is the one left on screen.
func (c *Controller) apply(records []record.Record) {
	c.mu.Lock()
	c.state = records
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	if gen < c.rendered {
		return
	}
	c.rendered = gen
	c.renderer.Render(cloneRecords(records), c.Handlers())
}

func cloneRecords(in []record.Record) []record.Record {
	out := make([]record.Record, len(in))
	for i, rec := range in {
		out[i] = rec.Clone()
	}
	return out
}
