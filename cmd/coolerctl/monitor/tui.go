package monitor

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/icetrail/coolerd"
)

type model struct {
	table table.Model
}

func newTUI() *model {
	columns := []table.Column{
		{Title: "Sensor", Width: 20},
		{Title: "Reading", Width: 20},
	}

	t := table.New(
		table.WithColumns(columns),
		// table.WithRows(rows),
		table.WithFocused(false),
		// table.WithHeight(7),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		Foreground(lipgloss.Color("#00afff")).
		BorderForeground(lipgloss.Color("#00afff")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#ffffff")).
		Bold(false)
	t.SetStyles(s)

	return &model{
		table: t,
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(msg.Height)
	case coolerd.Sample:
		m.update(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	return m.table.View()
}

func (m *model) update(sample coolerd.Sample) {
	m.table.SetRows([]table.Row{
		{"Liquid", fmt.Sprintf("%5.1f °C", sample.Status.Liquid)},
		{"Pump", fmt.Sprintf("%4d RPM (%2d%%)", sample.Status.PumpRPM, sample.Status.PumpDuty)},
		{"Fan", fmt.Sprintf("%4d RPM (%2d%%)", sample.Status.FanRPM, sample.Status.FanDuty)},
	})
}
