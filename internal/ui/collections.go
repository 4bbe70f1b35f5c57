package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/campus/cli/internal/collection"
	"github.com/gravitrone/campus/cli/internal/record"
	"github.com/gravitrone/campus/cli/internal/ui/components"
)

// --- Messages ---

type syncOp string

const (
	opLoad   syncOp = "load"
	opSubmit syncOp = "submit"
	opDelete syncOp = "delete"
)

// collectionSyncedMsg reports a finished controller operation.
type collectionSyncedMsg struct {
	resource string
	op       syncOp
	err      error
	notice   *notice
}

type confirmPromptMsg struct {
	resource string
	req      *confirmRequest
}

type collectionView int

const (
	collectionViewList collectionView = iota
	collectionViewForm
)

const listPageSize = 10

// --- Collection Model ---

// CollectionModel is one resource tab: a card list and a create/edit form
// kept in step with the server by a collection.Controller.
type CollectionModel struct {
	ctx       context.Context
	ctrl      *collection.Controller
	res       collection.Resource
	inputs    *record.Inputs
	sink      *cardSink
	confirmer *promptConfirmer
	opts      collection.CardOptions

	list     *components.List
	cards    []collection.Card
	handlers collection.Handlers
	rendered int

	view     collectionView
	focus    int
	session  collection.EditSession
	loading  bool
	saving   bool
	deleting bool
	confirm  *confirmRequest
	formErr  string
	loadErr  string
	width    int
	height   int
}

// NewCollectionModel builds the tab for res on top of transport.
func NewCollectionModel(transport collection.Transport, res collection.Resource, opts collection.CardOptions, logger *slog.Logger) (CollectionModel, error) {
	m := CollectionModel{
		res:       res,
		inputs:    record.NewInputs(),
		ctx:       context.Background(),
		sink:      &cardSink{},
		confirmer: newPromptConfirmer(),
		opts:      opts,
		list:      components.NewList(listPageSize),
		view:      collectionViewList,
	}
	ctrl, err := collection.New(collection.Config{
		Resource:  res,
		Transport: transport,
		Renderer:  m.sink,
		Form:      m.inputs,
		Confirmer: m.confirmer,
		Logger:    logger,
	})
	if err != nil {
		return CollectionModel{}, fmt.Errorf("%s tab: %w", res.Name, err)
	}
	m.ctrl = ctrl
	return m, nil
}

// Name is the resource this tab shows.
func (m CollectionModel) Name() string {
	return m.res.Name
}

// Title is the tab label.
func (m CollectionModel) Title() string {
	return m.res.Title
}

func (m CollectionModel) Init() tea.Cmd {
	return m.sync(opLoad, m.ctrl.Refresh)
}

func (m CollectionModel) Update(msg tea.Msg) (CollectionModel, tea.Cmd) {
	switch msg := msg.(type) {
	case collectionSyncedMsg:
		if msg.resource != m.res.Name {
			return m, nil
		}
		return m.applySync(msg), nil
	case confirmPromptMsg:
		if msg.resource != m.res.Name {
			return m, nil
		}
		m.confirm = msg.req
		return m, nil
	case tea.KeyMsg:
		if m.confirm != nil {
			return m.handleConfirmKeys(msg)
		}
		if m.view == collectionViewForm {
			return m.handleFormKeys(msg)
		}
		return m.handleListKeys(msg)
	}
	return m, nil
}

func (m CollectionModel) View() string {
	if m.confirm != nil {
		return m.renderConfirm()
	}
	if m.view == collectionViewForm {
		return m.renderForm()
	}
	return m.renderList()
}

// --- Sync ---

// sync runs a controller operation off the update loop. Each operation
// collects its own notice so overlapping operations keep their toasts.
func (m CollectionModel) sync(op syncOp, fn func(context.Context) error) tea.Cmd {
	resource := m.res.Name
	ctx := m.ctx
	return func() tea.Msg {
		notices := &noticeSink{}
		err := fn(collection.WithNotifier(ctx, notices))
		return collectionSyncedMsg{resource: resource, op: op, err: err, notice: notices.Take()}
	}
}

func (m CollectionModel) applySync(msg collectionSyncedMsg) CollectionModel {
	m.loading = false
	m.saving = false
	m.deleting = false
	m.confirm = nil
	m.refreshCards()
	m.session = m.ctrl.Session()

	switch msg.op {
	case opLoad:
		m.loadErr = ""
		if msg.err != nil {
			m.loadErr = msg.err.Error()
		}
	case opSubmit:
		if msg.err == nil || errors.Is(msg.err, collection.ErrStale) {
			m.formErr = ""
			m.focus = 0
			m.view = collectionViewList
		} else {
			m.formErr = msg.err.Error()
		}
	}
	return m
}

func (m *CollectionModel) refreshCards() {
	records, handlers, renders := m.sink.Snapshot()
	if renders == m.rendered {
		return
	}
	m.rendered = renders
	m.handlers = handlers
	m.cards = collection.BuildCards(records, m.res, m.opts)
	labels := make([]string, 0, len(m.cards))
	for _, card := range m.cards {
		labels = append(labels, card.Title)
	}
	m.list.ReplaceItems(labels)
}

func (m CollectionModel) selectedCard() (collection.Card, bool) {
	idx := m.list.Selected()
	if idx < 0 || idx >= len(m.cards) {
		return collection.Card{}, false
	}
	return m.cards[idx], true
}

// --- List ---

func (m CollectionModel) handleListKeys(msg tea.KeyMsg) (CollectionModel, tea.Cmd) {
	switch {
	case isDown(msg):
		m.list.Down()
	case isUp(msg):
		m.list.Up()
	case isKey(msg, "n"):
		m.ctrl.Cancel()
		m.openForm()
	case isKey(msg, "e"), isEnter(msg):
		card, ok := m.selectedCard()
		if !ok {
			return m, nil
		}
		onEdit := m.handlers.OnEdit
		if onEdit == nil {
			onEdit = m.ctrl.BeginEdit
		}
		if err := onEdit(card.Record); err != nil {
			m.loadErr = err.Error()
			return m, nil
		}
		m.openForm()
	case isKey(msg, "d"):
		card, ok := m.selectedCard()
		if !ok || !card.HasID || m.deleting {
			return m, nil
		}
		onDelete := m.handlers.OnDelete
		if onDelete == nil {
			onDelete = m.ctrl.Delete
		}
		id := card.ID
		m.deleting = true
		return m, tea.Batch(
			m.sync(opDelete, func(ctx context.Context) error {
				_, err := onDelete(ctx, id)
				return err
			}),
			m.confirmer.wait(m.res.Name),
		)
	case isKey(msg, "r"):
		m.loading = true
		return m, m.sync(opLoad, m.ctrl.Refresh)
	}
	return m, nil
}

func (m *CollectionModel) openForm() {
	m.session = m.ctrl.Session()
	m.view = collectionViewForm
	m.focus = 0
	m.formErr = ""
}

func (m CollectionModel) renderList() string {
	name := strings.ToLower(m.res.Title)
	if m.loading && len(m.cards) == 0 {
		return components.CenterLine(fmt.Sprintf("Loading %s...", name), m.width)
	}
	if len(m.cards) == 0 {
		if m.loadErr != "" {
			return components.ErrorBox("Could not load "+name, m.loadErr, m.width)
		}
		content := MutedStyle.Render(fmt.Sprintf("No %s yet. Press n to add one.", name))
		return components.TitledBox(m.res.Title, content, m.width)
	}

	tableWidth := components.BoxContentWidth(m.width)
	if tableWidth <= 0 {
		tableWidth = 72
	}
	columns, extra := m.gridColumns(tableWidth)
	visible := m.list.Visible()
	rows := make([][]string, 0, len(visible))
	for i := range visible {
		card := m.cards[m.list.RelToAbs(i)]
		id := "-"
		if card.HasID {
			id = fmt.Sprintf("%d", card.ID)
		}
		row := []string{id, card.Title}
		for _, idx := range extra {
			row = append(row, card.Rows[idx].Value)
		}
		rows = append(rows, row)
	}
	grid := components.TableGridWithActiveRow(columns, rows, tableWidth, m.list.Selected()-m.list.Offset)

	countLine := fmt.Sprintf("%d total", len(m.cards))
	if len(m.res.Query) > 0 {
		countLine += " · filtered"
	}
	if m.loading {
		countLine += " · refreshing"
	}
	sections := []string{components.TitledBox(m.res.Title, MutedStyle.Render(countLine)+"\n\n"+grid, m.width)}
	if card, ok := m.selectedCard(); ok && len(card.Rows) > 0 {
		sections = append(sections, components.Table(card.Title, cardRows(card), m.width))
	}
	return strings.Join(sections, "\n\n")
}

// gridColumns picks id, title and up to two more fields for the list grid.
func (m CollectionModel) gridColumns(width int) ([]components.TableColumn, []int) {
	columns := []components.TableColumn{
		{Header: "ID", Width: 5, Align: lipgloss.Right},
		{Header: titleHeader(m.res), Width: width / 3},
	}
	var extra []int
	if len(m.cards) > 0 {
		for i, row := range m.cards[0].Rows {
			if len(extra) == 2 {
				break
			}
			columns = append(columns, components.TableColumn{Header: row.Label, Width: width / 5})
			extra = append(extra, i)
		}
	}
	return columns, extra
}

func titleHeader(res collection.Resource) string {
	if f, ok := res.Fields.Lookup(res.TitleField); ok {
		return f.DisplayLabel()
	}
	return "Title"
}

func cardRows(card collection.Card) []components.TableRow {
	rows := make([]components.TableRow, 0, len(card.Rows))
	for _, row := range card.Rows {
		rows = append(rows, components.TableRow{Label: row.Label, Value: row.Value})
	}
	return rows
}

// --- Form ---

func (m CollectionModel) handleFormKeys(msg tea.KeyMsg) (CollectionModel, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	fields := m.res.Fields
	if len(fields) == 0 {
		return m, nil
	}
	switch {
	case isBack(msg):
		m.ctrl.Cancel()
		m.session = m.ctrl.Session()
		m.view = collectionViewList
		m.formErr = ""
		return m, nil
	case isDown(msg), isKey(msg, "tab"):
		m.focus = (m.focus + 1) % len(fields)
		return m, nil
	case isUp(msg), isKey(msg, "shift+tab"):
		m.focus = (m.focus - 1 + len(fields)) % len(fields)
		return m, nil
	case isSave(msg):
		m.saving = true
		m.formErr = ""
		return m, m.sync(opSubmit, m.ctrl.Submit)
	}

	field := fields[m.focus]
	value := m.inputs.Value(field.SourceID())
	switch {
	case isEnter(msg):
		if field.Multiline {
			m.inputs.SetValue(field.SourceID(), value+"\n")
		} else {
			m.focus = (m.focus + 1) % len(fields)
		}
	case isErase(msg):
		if value != "" {
			r := []rune(value)
			m.inputs.SetValue(field.SourceID(), string(r[:len(r)-1]))
		}
	default:
		if text, ok := typedText(msg); ok {
			m.inputs.SetValue(field.SourceID(), value+text)
		}
	}
	return m, nil
}

func (m CollectionModel) renderForm() string {
	var b strings.Builder
	for i, f := range m.res.Fields {
		if i == m.focus {
			b.WriteString(SelectedStyle.Render("> " + f.DisplayLabel()))
		} else {
			b.WriteString(FieldLabelStyle.Render("  " + f.DisplayLabel()))
		}
		if f.Required {
			b.WriteString(AccentStyle.Render(" *"))
		}
		if f.Type == record.Date {
			b.WriteString(MutedStyle.Render("  (YYYY-MM-DD)"))
		}
		b.WriteString("\n")

		value := components.SanitizeText(m.inputs.Value(f.SourceID()))
		if i == m.focus {
			value += "█"
		}
		for _, line := range strings.Split(value, "\n") {
			b.WriteString(NormalStyle.Render("  " + line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if m.saving {
		b.WriteString(WarningStyle.Render("Saving..."))
		b.WriteString("\n")
	}
	if m.formErr != "" {
		b.WriteString(ErrorStyle.Render(components.SanitizeOneLine(m.formErr)))
		b.WriteString("\n")
	}
	title := m.session.Label(m.res.Singular)
	return components.TitledBox(title, strings.TrimRight(b.String(), "\n"), m.width)
}

// hasInput reports an open form holding typed values.
func (m CollectionModel) hasInput() bool {
	return m.view == collectionViewForm && len(m.inputs.Snapshot()) > 0
}

// capturesKeys reports whether every key should go to this tab, e.g. while
// typing into the form.
func (m CollectionModel) capturesKeys() bool {
	return m.confirm != nil || m.view == collectionViewForm
}

// --- Confirm ---

func (m CollectionModel) handleConfirmKeys(msg tea.KeyMsg) (CollectionModel, tea.Cmd) {
	switch {
	case isKey(msg, "y"):
		m.confirm.answer <- true
		m.confirm = nil
	case isKey(msg, "n"), isBack(msg):
		m.confirm.answer <- false
		m.confirm = nil
	}
	return m, nil
}

func (m CollectionModel) renderConfirm() string {
	var rows []components.TableRow
	if card, ok := m.selectedCard(); ok {
		rows = cardRows(card)
	}
	return components.ConfirmPreviewDialog("Delete", m.confirm.prompt, rows, m.width)
}

func (m CollectionModel) statusHints() []string {
	if m.confirm != nil {
		return []string{
			components.Hint("y", "Delete"),
			components.Hint("n", "Keep"),
		}
	}
	if m.view == collectionViewForm {
		return []string{
			components.Hint("↑/↓", "Field"),
			components.Hint("ctrl+s", m.session.SubmitLabel(m.res.Singular)),
			components.Hint("esc", "Cancel"),
		}
	}
	return []string{
		components.Hint("↑/↓", "Select"),
		components.Hint("n", "New"),
		components.Hint("e", "Edit"),
		components.Hint("d", "Delete"),
		components.Hint("r", "Refresh"),
	}
}
