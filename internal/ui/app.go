package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/campus/cli/internal/api"
	"github.com/gravitrone/campus/cli/internal/collection"
	"github.com/gravitrone/campus/cli/internal/config"
	"github.com/gravitrone/campus/cli/internal/ui/components"
)

// --- Messages ---

type clearToastMsg struct{}

type startupCheckedMsg struct {
	message string
	err     error
}

type appToast struct {
	level collection.Level
	text  string
}

const (
	toastDuration       = 2500 * time.Millisecond
	startupCheckTimeout = 700 * time.Millisecond
)

// --- App Model ---

// App is the root TUI model that routes between tabs. One tab per resource
// followed by the stats dashboard.
type App struct {
	ctx         context.Context
	cancel      context.CancelFunc
	client      *api.Client
	config      *config.Config
	collections []CollectionModel
	stats       StatsModel

	tab         int
	tabNav      bool
	width       int
	height      int
	helpOpen    bool
	quitConfirm bool
	toast       *appToast
}

// NewApp creates the root application model.
func NewApp(client *api.Client, cfg *config.Config, resources []collection.Resource, logger *slog.Logger) (App, error) {
	if client == nil {
		return App{}, fmt.Errorf("ui: api client is required")
	}
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	opts := collection.CardOptions{Placeholder: cfg.Placeholder, DateLayout: cfg.DateFormat}
	collections := make([]CollectionModel, 0, len(resources))
	for _, res := range resources {
		m, err := NewCollectionModel(client, res, opts, logger)
		if err != nil {
			return App{}, err
		}
		collections = append(collections, m)
	}

	// Quitting cancels every request still in flight.
	ctx, cancel := context.WithCancel(context.Background())
	app := App{
		ctx:         ctx,
		cancel:      cancel,
		client:      client,
		config:      cfg,
		tabNav:      true,
		collections: collections,
		stats:       NewStatsModel(client),
	}
	for i := range app.collections {
		app.collections[i].ctx = ctx
	}
	app.stats.ctx = ctx
	return app, nil
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.initTab(a.tab), a.runStartupCheckCmd())
}

func (a App) tabCount() int {
	return len(a.collections) + 1
}

func (a App) statsTab() int {
	return len(a.collections)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.quitting() {
		return a, nil
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		for i := range a.collections {
			a.collections[i].width = msg.Width
			a.collections[i].height = msg.Height
		}
		a.stats.width = msg.Width
		a.stats.height = msg.Height
		return a, nil

	case clearToastMsg:
		a.toast = nil
		return a, nil

	case startupCheckedMsg:
		if msg.err != nil {
			return a, a.setToast(collection.LevelError, fmt.Sprintf("API unreachable at %s: %v", a.client.BaseURL(), msg.err))
		}
		text := "API online"
		if msg.message != "" {
			text += ": " + msg.message
		}
		return a, a.setToast(collection.LevelInfo, text)

	case collectionSyncedMsg:
		var cmd tea.Cmd
		if i := a.collectionIndex(msg.resource); i >= 0 {
			a.collections[i], cmd = a.collections[i].Update(msg)
		}
		if msg.notice != nil {
			return a, tea.Batch(cmd, a.setToast(msg.notice.level, msg.notice.text))
		}
		return a, cmd

	case confirmPromptMsg:
		if i := a.collectionIndex(msg.resource); i >= 0 {
			a.collections[i], _ = a.collections[i].Update(msg)
		}
		return a, nil

	case statsLoadedMsg:
		var cmd tea.Cmd
		a.stats, cmd = a.stats.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if a.quitConfirm {
			switch {
			case isKey(msg, "y"):
				return a.quit()
			case isKey(msg, "n"), isBack(msg):
				a.quitConfirm = false
			}
			return a, nil
		}
		if a.helpOpen {
			if isBack(msg) || isKey(msg, "?") {
				a.helpOpen = false
			}
			return a, nil
		}
		if isKey(msg, "ctrl+c") {
			return a.requestQuit()
		}

		// Forms and prompts take every other key.
		if a.activeCapturesKeys() {
			a.tabNav = false
			return a.delegate(msg)
		}

		if isKey(msg, "?") {
			a.helpOpen = true
			return a, nil
		}
		if isQuit(msg) {
			return a.requestQuit()
		}
		if idx, ok := tabIndexForKey(msg.String(), a.tabCount()); ok {
			return a.switchTab(idx)
		}

		// Arrow tab navigation until user enters content with Down
		if a.tabNav {
			switch {
			case isKey(msg, "left"):
				return a.switchTab((a.tab - 1 + a.tabCount()) % a.tabCount())
			case isKey(msg, "right"):
				return a.switchTab((a.tab + 1) % a.tabCount())
			case isDown(msg):
				a.tabNav = false
				return a, nil
			}
			a.tabNav = false
		} else if isUp(msg) && a.canExitToTabNav() {
			a.tabNav = true
			return a, nil
		}
		return a.delegate(msg)
	}
	return a, nil
}

func (a App) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if a.tab == a.statsTab() {
		a.stats, cmd = a.stats.Update(msg)
		return a, cmd
	}
	a.collections[a.tab], cmd = a.collections[a.tab].Update(msg)
	return a, cmd
}

func (a App) requestQuit() (tea.Model, tea.Cmd) {
	if a.hasUnsaved() {
		a.quitConfirm = true
		return a, nil
	}
	return a.quit()
}

func (a App) quit() (tea.Model, tea.Cmd) {
	a.cancel()
	return a, tea.Quit
}

// quitting reports whether quit was requested. Completions that arrive
// afterwards are dropped.
func (a App) quitting() bool {
	return a.ctx.Err() != nil
}

func (a App) View() string {
	banner := centerBlockUniform(RenderBanner(), a.width)
	tabs := centerBlockUniform(a.renderTabs(), a.width)

	var content string
	switch {
	case a.quitConfirm:
		content = components.ConfirmDialog("Quit", "You have unsaved input. Quit anyway?")
	case a.helpOpen:
		content = a.renderHelp()
	case a.tab == a.statsTab():
		content = a.stats.View()
	default:
		content = a.collections[a.tab].View()
	}
	content = centerBlockUniform(content, a.width)

	hints := components.StatusBar(a.statusHints(), a.width)

	feedback := ""
	if a.toast != nil {
		feedback = "\n\n" + centerBlockUniform(a.renderToast(), a.width)
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n\n\n%s%s", banner, tabs, content, hints, feedback)
}

func (a App) switchTab(newTab int) (App, tea.Cmd) {
	oldTab := a.tab
	a.tab = newTab
	if oldTab != newTab {
		return a, a.initTab(newTab)
	}
	return a, nil
}

// initTab reloads a tab when it becomes active.
func (a App) initTab(tab int) tea.Cmd {
	if tab == a.statsTab() {
		return a.stats.Init()
	}
	if tab >= 0 && tab < len(a.collections) {
		return a.collections[tab].Init()
	}
	return nil
}

func (a App) collectionIndex(resource string) int {
	for i, m := range a.collections {
		if m.Name() == resource {
			return i
		}
	}
	return -1
}

func (a App) activeCapturesKeys() bool {
	return a.tab < len(a.collections) && a.collections[a.tab].capturesKeys()
}

func (a App) hasUnsaved() bool {
	for _, m := range a.collections {
		if m.hasInput() {
			return true
		}
	}
	return false
}

func (a App) canExitToTabNav() bool {
	if a.tab == a.statsTab() {
		return true
	}
	m := a.collections[a.tab]
	return m.view == collectionViewList && m.list.Selected() == 0
}

func (a App) renderTabs() string {
	segments := make([]string, 0, a.tabCount())
	for i := 0; i < a.tabCount(); i++ {
		name := "Stats"
		if i < len(a.collections) {
			name = a.collections[i].Title()
		}
		label := fmt.Sprintf("%d %s", i+1, name)
		if i == a.tab {
			segments = append(segments, TabActiveStyle.Render(label))
		} else {
			segments = append(segments, TabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, segments...)
}

func (a App) statusHints() []string {
	if a.quitConfirm {
		return []string{
			components.Hint("y", "Confirm"),
			components.Hint("n", "Cancel"),
		}
	}
	if a.helpOpen {
		return []string{components.Hint("esc", "Back")}
	}
	return a.statusHintsForTab()
}

func (a App) statusHintsForTab() []string {
	if a.activeCapturesKeys() {
		return a.collections[a.tab].statusHints()
	}
	base := []string{
		components.Hint(fmt.Sprintf("1-%d", a.tabCount()), "Tabs"),
		components.Hint("?", "Help"),
		components.Hint("q", "Quit"),
	}
	if a.tab == a.statsTab() {
		return append(base, a.stats.statusHints()...)
	}
	return append(base, a.collections[a.tab].statusHints()...)
}

func (a App) renderHelp() string {
	hints := a.statusHintsForTab()
	lines := make([]string, 0, len(hints)+2)
	lines = append(lines, MutedStyle.Render("esc to close"), "")
	for _, hint := range hints {
		lines = append(lines, "  "+hint)
	}
	lines = append(lines, "", MutedStyle.Render("API: "+a.client.BaseURL()))
	return components.Indent(components.TitledBox("Help", strings.Join(lines, "\n"), a.width), 1)
}

func (a App) runStartupCheckCmd() tea.Cmd {
	client := a.client.WithTimeout(startupCheckTimeout)
	ctx := a.ctx
	return func() tea.Msg {
		message, err := client.Health(ctx)
		return startupCheckedMsg{message: message, err: err}
	}
}

func (a *App) setToast(level collection.Level, text string) tea.Cmd {
	a.toast = &appToast{
		level: level,
		text:  components.SanitizeOneLine(text),
	}
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	switch a.toast.level {
	case collection.LevelError:
		return components.ErrorBox("Error", a.toast.text, a.width)
	case collection.LevelSuccess:
		return components.TitledBox("Success", a.toast.text, a.width)
	}
	return components.TitledBox("Info", a.toast.text, a.width)
}

func joinSections(sections []string) string {
	return strings.Join(sections, "\n\n")
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	pad := (width - maxWidth) / 2
	if pad <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", pad)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
