package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/inctrack/internal/models"
	"github.com/balkashynov/inctrack/internal/parser"
	"github.com/balkashynov/inctrack/internal/tracker"
)

// TimerModel shows one running session until it is stopped or left running
type TimerModel struct {
	svc      *tracker.Service
	width    int
	height   int
	session  *models.Session
	incident *models.Incident // nil when the ticket was never logged

	elapsed time.Duration
	frame   int

	stopped *models.Session // set once Stop succeeded
	exiting bool            // left without stopping
	err     error
}

type timerTickMsg struct{}

// NewTimerModel creates a timer model for a running session
func NewTimerModel(svc *tracker.Service, session *models.Session, incident *models.Incident) TimerModel {
	return TimerModel{
		svc:      svc,
		session:  session,
		incident: incident,
		elapsed:  session.Duration(svc.Now()),
	}
}

func tickTimer() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return timerTickMsg{} })
}

// Init initializes the timer model
func (m TimerModel) Init() tea.Cmd {
	return tickTimer()
}

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		if m.stopped != nil || m.exiting {
			return m, nil
		}
		m.elapsed = m.session.Duration(m.svc.Now())
		m.frame = (m.frame + 1) % 2
		return m, tickTimer()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "s", "S":
			stopped, err := m.svc.Stop(tracker.StopSessionRequest{TicketID: m.session.TicketID})
			if err != nil {
				m.err = err
				return m, nil
			}
			m.stopped = stopped
			m.elapsed = stopped.Duration(m.svc.Now())
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			m.exiting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the timer
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := helpStyle(m.width).Render("s stop & save · esc/q exit (keep running) · ctrl+c force quit")
	contentHeight := m.height - 2

	if m.width < 90 {
		return lipgloss.JoinVertical(lipgloss.Left, m.renderTimerPanel(m.width, contentHeight), helpBar)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2
	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTimerPanel(leftWidth, contentHeight),
		"  ",
		m.renderIncidentPanel(rightWidth, contentHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, content, helpBar)
}

func (m TimerModel) renderTimerPanel(width, height int) string {
	center := lipgloss.NewStyle().Align(lipgloss.Center).Width(width)

	marker := []string{"●", "○"}[m.frame]
	parts := []string{
		center.Foreground(lipgloss.Color(ColorAccentBright)).Bold(true).
			Render(fmt.Sprintf("%s  TIMER RUNNING  %s", marker, marker)),
		center.Foreground(lipgloss.Color(ColorAccentMain)).Bold(true).
			Render(m.session.TicketID),
		renderBigClock(m.elapsed, width),
		center.Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true).
			Render("Started at " + m.session.StartTime.Format(time.TimeOnly)),
	}
	if m.err != nil {
		parts = append(parts, center.Render(errorText(m.err.Error())))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(parts, "\n\n"))
}

func (m TimerModel) renderIncidentPanel(width, height int) string {
	line := lipgloss.NewStyle().Align(lipgloss.Center).Width(width - 4)
	value := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))

	var b strings.Builder
	if m.incident == nil {
		b.WriteString(line.Render(muted.Render("ticket not found in the incident log")))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorAccentMain)).
			Width(width-8).
			Padding(0, 1).
			Render(m.incident.Description))
		b.WriteString("\n\n")
		b.WriteString(line.Render("Created on: " + value.Render(m.incident.CreatedOnString())))
	}

	if sessions, err := m.svc.Sessions(m.session.TicketID); err == nil {
		var total time.Duration
		now := m.svc.Now()
		for _, s := range sessions {
			total += s.Duration(now)
		}
		b.WriteString("\n")
		b.WriteString(line.Render(fmt.Sprintf("Sessions: %s  Total: %s",
			value.Render(fmt.Sprint(len(sessions))), value.Render(parser.FormatDuration(total)))))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(b.String())
}

// bigDigits holds 5-row glyphs, indexed by "0123456789:"
var bigDigits = [][5]string{
	{" ███ ", "█   █", "█   █", "█   █", " ███ "},
	{"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	{" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	{" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	{"█   █", "█   █", "█████", "    █", "    █"},
	{"█████", "█    ", "████ ", "    █", "████ "},
	{" ███ ", "█    ", "████ ", "█   █", " ███ "},
	{"█████", "    █", "   █ ", "  █  ", " █   "},
	{" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	{" ███ ", "█   █", " ████", "    █", " ███ "},
	{"     ", "  █  ", "     ", "  █  ", "     "},
}

func renderBigClock(d time.Duration, width int) string {
	hours := int(d.Hours())
	text := fmt.Sprintf("%02d:%02d", int(d.Minutes())%60, int(d.Seconds())%60)
	if hours > 0 {
		text = fmt.Sprintf("%02d:%s", hours, text)
	}

	var rows [5]strings.Builder
	for _, r := range text {
		idx := 10
		if r != ':' {
			idx = int(r - '0')
		}
		for i := range rows {
			rows[i].WriteString(bigDigits[idx][i] + " ")
		}
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)
	lines := make([]string, len(rows))
	for i := range rows {
		lines[i] = style.Render(rows[i].String())
	}
	return strings.Join(lines, "\n")
}

// RunTimerTUI runs the timer for a session that was just started
func RunTimerTUI(svc *tracker.Service, session *models.Session) error {
	var incident *models.Incident
	if incidents, err := svc.Incidents(tracker.ListOptions{}); err == nil {
		for i := range incidents {
			if incidents[i].TicketID == session.TicketID {
				incident = &incidents[i]
				break
			}
		}
	}

	p := tea.NewProgram(NewTimerModel(svc, session, incident), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	m := finalModel.(TimerModel)
	switch {
	case m.stopped != nil:
		fmt.Printf("Stopped timer for %s\n", m.stopped.TicketID)
		fmt.Printf("Session duration: %s\n", parser.FormatDuration(m.elapsed))
	case m.exiting:
		fmt.Printf("\nTimer is still running for %s.\n", session.TicketID)
		fmt.Printf("Use 'inctrack status' to check it or 'inctrack stop %s' to stop it.\n", session.TicketID)
	}
	return nil
}
