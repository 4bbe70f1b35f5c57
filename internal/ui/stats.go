package ui

import (
	"context"
	"fmt"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/campus/cli/internal/api"
	"github.com/gravitrone/campus/cli/internal/ui/components"
)

type statsLoadedMsg struct {
	stats *api.Stats
	top   []api.RegistrationStat
	err   error
}

const topEventCount = 5

// StatsModel is the dashboard tab.
type StatsModel struct {
	ctx     context.Context
	client  *api.Client
	stats   *api.Stats
	top     []api.RegistrationStat
	loading bool
	err     string
	width   int
	height  int
}

// NewStatsModel builds the dashboard tab.
func NewStatsModel(client *api.Client) StatsModel {
	return StatsModel{ctx: context.Background(), client: client}
}

func (m StatsModel) Init() tea.Cmd {
	return m.load
}

func (m StatsModel) load() tea.Msg {
	ctx := m.ctx
	stats, err := m.client.Stats(ctx)
	if err != nil {
		return statsLoadedMsg{err: err}
	}
	regs, err := m.client.RegistrationReport(ctx)
	if err != nil {
		return statsLoadedMsg{err: err}
	}
	sort.SliceStable(regs, func(i, j int) bool {
		return regs[i].TotalRegistrations > regs[j].TotalRegistrations
	})
	if len(regs) > topEventCount {
		regs = regs[:topEventCount]
	}
	return statsLoadedMsg{stats: stats, top: regs}
}

func (m StatsModel) Update(msg tea.Msg) (StatsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.stats = msg.stats
		m.top = msg.top
		return m, nil
	case tea.KeyMsg:
		if isKey(msg, "r") {
			m.loading = true
			return m, m.load
		}
	}
	return m, nil
}

func (m StatsModel) View() string {
	if m.stats == nil {
		if m.err != "" {
			return components.ErrorBox("Could not load stats", m.err, m.width)
		}
		return components.CenterLine("Loading stats...", m.width)
	}
	rows := []components.TableRow{
		{Label: "Events", Value: fmt.Sprintf("%d", m.stats.Events)},
		{Label: "Students", Value: fmt.Sprintf("%d", m.stats.Students)},
		{Label: "Registrations", Value: fmt.Sprintf("%d", m.stats.Registrations)},
		{Label: "Avg feedback", Value: fmt.Sprintf("%.1f", m.stats.AvgFeedback)},
	}
	sections := []string{components.Table("Dashboard", rows, m.width)}
	if len(m.top) > 0 {
		width := components.BoxContentWidth(m.width)
		if width <= 0 {
			width = 60
		}
		columns := []components.TableColumn{
			{Header: "Event", Width: width / 2},
			{Header: "Registrations", Width: 14, Align: lipgloss.Right},
		}
		grid := make([][]string, 0, len(m.top))
		for _, r := range m.top {
			grid = append(grid, []string{r.EventName, fmt.Sprintf("%d", r.TotalRegistrations)})
		}
		sections = append(sections, components.TitledBox("Top events", components.TableGrid(columns, grid, width), m.width))
	}
	if m.err != "" {
		sections = append(sections, ErrorStyle.Render(components.SanitizeOneLine(m.err)))
	}
	return joinSections(sections)
}

func (m StatsModel) statusHints() []string {
	return []string{components.Hint("r", "Refresh")}
}
