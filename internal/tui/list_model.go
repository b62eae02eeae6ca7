package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/inctrack/internal/models"
	"github.com/balkashynov/inctrack/internal/parser"
	"github.com/balkashynov/inctrack/internal/tracker"
)

// ListModel is the interactive incident table
type ListModel struct {
	svc    *tracker.Service
	opts   tracker.ListOptions
	width  int
	height int

	incidents []models.Incident
	running   map[string]bool
	table     table.Model

	// activity of the selected ticket, shown below the table when set
	detail       []models.Session
	detailTicket string

	status string
	err    error
}

// NewListModel loads incidents and builds the table
func NewListModel(svc *tracker.Service, opts tracker.ListOptions) (ListModel, error) {
	t := table.New(
		table.WithColumns(incidentColumns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Background(lipgloss.Color(ColorAccentMain)).
		Bold(false)
	t.SetStyles(styles)

	m := ListModel{svc: svc, opts: opts, table: t}
	if err := m.reload(); err != nil {
		return m, err
	}
	return m, nil
}

func incidentColumns(width int) []table.Column {
	fixed := 10 + 12 + 19 + 3
	desc := max(width-fixed-10, 20)
	return []table.Column{
		{Title: "Created", Width: 10},
		{Title: "Ticket", Width: 12},
		{Title: "Last activity", Width: 19},
		{Title: "", Width: 3},
		{Title: "Description", Width: desc},
	}
}

// reload re-reads the backing file and keeps the cursor on the same ticket
func (m *ListModel) reload() error {
	selected := m.selectedTicket()

	incidents, err := m.svc.Incidents(m.opts)
	if err != nil {
		return err
	}
	open, err := m.svc.OpenSessions()
	if err != nil {
		return err
	}

	m.incidents = incidents
	m.running = make(map[string]bool, len(open))
	for _, s := range open {
		m.running[s.TicketID] = true
	}

	rows := make([]table.Row, 0, len(incidents))
	cursor := 0
	for i, inc := range incidents {
		marker := ""
		if m.running[inc.TicketID] {
			marker = "●"
		}
		rows = append(rows, table.Row{
			inc.CreatedOnString(),
			inc.TicketID,
			inc.LastActivity.Format(models.DateTimeLayout),
			marker,
			inc.Description,
		})
		if inc.TicketID == selected && selected != "" {
			cursor = i
		}
	}
	m.table.SetRows(rows)
	if len(rows) > 0 {
		m.table.SetCursor(cursor)
	}
	return nil
}

func (m ListModel) selectedTicket() string {
	if len(m.incidents) == 0 {
		return ""
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(m.incidents) {
		return ""
	}
	return m.incidents[i].TicketID
}

// Init initializes the model
func (m ListModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(incidentColumns(msg.Width))
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(max(msg.Height-12, 3))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.detailTicket != "" {
				m.detail, m.detailTicket = nil, ""
				return m, nil
			}
			return m, tea.Quit
		case "s":
			return m.toggleTimer(), nil
		case "enter":
			return m.toggleDetail(), nil
		case "o":
			m.opts.LatestFirst = !m.opts.LatestFirst
			m.setResult(m.reload(), "")
			return m, nil
		case "r":
			m.setResult(m.reload(), "Reloaded")
			if m.detailTicket != "" {
				m = m.loadDetail(m.detailTicket)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// toggleTimer starts or stops the selected ticket's session
func (m ListModel) toggleTimer() ListModel {
	ticket := m.selectedTicket()
	if ticket == "" {
		return m
	}

	var err error
	if m.running[ticket] {
		var s *models.Session
		s, err = m.svc.Stop(tracker.StopSessionRequest{TicketID: ticket})
		if err == nil {
			m.status = fmt.Sprintf("Stopped %s after %s", ticket, parser.FormatDuration(s.Duration(m.svc.Now())))
		}
	} else {
		_, err = m.svc.Start(tracker.StartSessionRequest{TicketID: ticket})
		if err == nil {
			m.status = "Started " + ticket
		}
	}
	switch {
	case errors.Is(err, tracker.ErrSessionAlreadyRunning), errors.Is(err, tracker.ErrNoRunningSession):
		m.status = err.Error()
	case err != nil:
		m.setResult(err, "")
		return m
	}

	// the file may have changed under us; show what is there now
	m.setResult(m.reload(), m.status)
	if m.detailTicket == ticket {
		m = m.loadDetail(ticket)
	}
	return m
}

func (m ListModel) toggleDetail() ListModel {
	ticket := m.selectedTicket()
	if ticket == "" || ticket == m.detailTicket {
		m.detail, m.detailTicket = nil, ""
		return m
	}
	return m.loadDetail(ticket)
}

func (m ListModel) loadDetail(ticket string) ListModel {
	sessions, err := m.svc.Sessions(ticket)
	if err != nil {
		m.setResult(err, "")
		return m
	}
	m.detail, m.detailTicket = sessions, ticket
	return m
}

func (m *ListModel) setResult(err error, status string) {
	m.err = err
	if err == nil {
		m.status = status
	} else {
		m.status = ""
	}
}

// View renders the table
func (m ListModel) View() string {
	width := m.width
	if width == 0 {
		width = 80
	}

	var b strings.Builder
	order := "oldest first"
	if m.opts.LatestFirst {
		order = "newest first"
	}
	b.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Render(fmt.Sprintf("INCTRACK · %d incidents · %s", len(m.incidents), order)))
	b.WriteString("\n\n")

	if len(m.incidents) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDisabledText)).
			Render("No incidents yet. Use 'inctrack add' to log one."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}

	if m.detailTicket != "" {
		b.WriteString("\n")
		b.WriteString(m.renderDetail())
	}

	switch {
	case m.err != nil:
		b.WriteString("\n" + errorText(m.err.Error()) + "\n")
	case m.status != "":
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render(m.status) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle(width).Render("↑/↓ move · enter activity · s start/stop · o order · r reload · q quit"))
	return b.String()
}

func (m ListModel) renderDetail() string {
	title := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))

	var b strings.Builder
	b.WriteString(title.Render("Activity for "+m.detailTicket) + "\n")
	if len(m.detail) == 0 {
		b.WriteString(muted.Render("no sessions recorded") + "\n")
		return b.String()
	}

	now := m.svc.Now()
	for _, s := range m.detail {
		end := "running"
		if s.EndTime != nil {
			end = s.EndTime.Format(models.DateTimeLayout)
		}
		b.WriteString(muted.Render(fmt.Sprintf("  %s → %-19s %s",
			s.StartTime.Format(models.DateTimeLayout), end, parser.FormatDuration(s.Duration(now)))))
		b.WriteString("\n")
	}
	return b.String()
}
