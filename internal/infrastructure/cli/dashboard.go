package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/hilal/internal/infrastructure/watch"
	"github.com/felixgeelhaar/hilal/pkg/application"
	"github.com/felixgeelhaar/hilal/pkg/domain/checklist"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive checklist for the active day",
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("HILAL_SKIP_DASHBOARD_RUN") == "true" {
			return nil
		}
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return MapError(err)
		}
		defer func() { _ = services.Close() }()

		ctx, cancel := context.WithCancel(application.WithActor(cmd.Context(), cliActor))
		defer cancel()

		p := tea.NewProgram(newDashboardModel(ctx, services.Checklist))

		// Live reload is best effort; the dashboard still works without it.
		if err := services.Workspace.Files.Initialize(); err == nil {
			w, err := watch.NewStoreWatcher(services.Workspace.Files.Dir(), 0, nil, func(c watch.Change) {
				p.Send(storeChangedMsg{keys: c.Keys})
			})
			if err == nil {
				go func() { _ = w.Run(ctx) }()
			}
		}

		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard run failed: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(dashboardCmd)
}

// Styles
var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

var statusDone = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
var statusWIP = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
var statusErr = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

type storeChangedMsg struct {
	keys []string
}

type dashboardModel struct {
	ctx    context.Context
	svc    *application.ChecklistService
	table  table.Model
	day    application.DayView
	notice string
	err    error
}

func newDashboardModel(ctx context.Context, svc *application.ChecklistService) dashboardModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Done", Width: 6},
			{Title: "Task", Width: 36},
			{Title: "Checklist", Width: 10},
			{Title: "ID", Width: 15},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229"))
	t.SetStyles(s)

	m := dashboardModel{ctx: ctx, svc: svc, table: t}
	day, err := svc.Day(ctx, "")
	m.show(day, err)
	return m
}

func (m *dashboardModel) show(day application.DayView, err error) {
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.day = day

	rows := make([]table.Row, 0, len(day.Tasks))
	for _, t := range day.Tasks {
		done := "[ ]"
		if t.IsCompleted {
			done = "[x]"
		}
		items := ""
		if t.HasItems() {
			items = fmt.Sprintf("%d/%d", t.ItemsDone(), len(t.ChecklistItems))
		}
		rows = append(rows, table.Row{done, t.Title, items, strconv.FormatInt(t.ID, 10)})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m dashboardModel) selected() (checklist.Task, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.day.Tasks) {
		return checklist.Task{}, false
	}
	return m.day.Tasks[c], true
}

func (m dashboardModel) Init() tea.Cmd { return nil }

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case storeChangedMsg:
		if err := m.svc.Load(m.ctx); err != nil {
			m.err = err
			return m, nil
		}
		m.show(m.svc.Day(m.ctx, m.day.Date))
		m.notice = "reloaded " + strings.Join(msg.keys, ", ")
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "enter", "x":
			if t, ok := m.selected(); ok {
				if _, err := m.svc.ToggleTask(m.ctx, m.day.Date, t.ID); err != nil {
					m.err = err
					return m, nil
				}
				m.show(m.svc.Day(m.ctx, m.day.Date))
				m.notice = ""
			}
			return m, nil
		case "left", "h":
			return m.shiftDay(-1), nil
		case "right", "l":
			return m.shiftDay(1), nil
		case "r":
			return m.Update(storeChangedMsg{keys: []string{"all"}})
		}
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m dashboardModel) shiftDay(delta int) dashboardModel {
	d, err := checklist.ParseDate(m.day.Date)
	if err != nil {
		m.err = err
		return m
	}
	m.show(m.svc.ChangeActiveDate(m.ctx, checklist.FormatDate(d.AddDate(0, 0, delta))))
	m.notice = ""
	return m
}

func (m dashboardModel) View() string {
	if m.err != nil {
		return statusErr.Render(fmt.Sprintf("Error: %v", m.err)) + "\nPress q to quit."
	}

	c := m.svc.Campaign()
	header := headerStyle.Render(fmt.Sprintf("Hilal  %s", m.day.Date))

	progress := fmt.Sprintf("Outside the campaign (%s to %s)", c.StartDate(), c.EndDate())
	if m.day.DayIndex > 0 {
		progress = fmt.Sprintf("Day %d of %d", m.day.DayIndex, m.day.Length)
	}

	status := fmt.Sprintf("Completed %d/%d", m.day.Status.Completed, m.day.Status.Total)
	switch {
	case m.day.Status.Total > 0 && m.day.Status.Completed >= m.day.Status.Total:
		status = statusDone.Render(status)
	case m.day.Status.Completed > 0:
		status = statusWIP.Render(status)
	}

	notice := ""
	if m.notice != "" {
		notice = statusWIP.Render(m.notice)
	}

	return baseStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			progress,
			m.table.View(),
			status,
			notice,
			"[space] Toggle  [←/→] Day  [r] Reload  [q] Quit",
		),
	) + "\n"
}
