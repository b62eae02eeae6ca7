package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/inctrack/internal/models"
	"github.com/balkashynov/inctrack/internal/parser"
	"github.com/balkashynov/inctrack/internal/tracker"
)

// Field is the form element that has focus
type Field int

const (
	FieldDate Field = iota
	FieldTicket
	FieldDescription
	FieldSave
	fieldCount
)

// AddIncidentModel is the form for logging one incident
type AddIncidentModel struct {
	svc    *tracker.Service
	width  int
	height int

	focus       Field
	date        textinput.Model
	ticket      textinput.Model
	description textarea.Model

	// last ID the form suggested; the ticket field follows date changes
	// until the user types something else into it
	suggested string
	lastDate  string

	validationErr string
	result        *tracker.AddIncidentResult
	cancelled     bool
}

// NewAddIncidentModel creates the form with values from prefill
func NewAddIncidentModel(svc *tracker.Service, prefill AddPrefill) AddIncidentModel {
	date := newInput("yyyy-mm-dd, dd/mm/yyyy, today, yesterday, 3 days ago", 20)
	ticket := newInput("THyymmddNN (leave the suggestion or type your own)", 40)

	description := textarea.New()
	description.Placeholder = "What happened? Several lines are fine, they are joined on save."
	description.ShowLineNumbers = false
	description.CharLimit = 2000
	description.SetWidth(60)
	description.SetHeight(5)

	createdOn := prefill.CreatedOn
	if createdOn.IsZero() {
		createdOn = parser.StartOfDay(svc.Now())
	}
	date.SetValue(createdOn.Format(models.DateLayout))
	description.SetValue(prefill.Description)

	m := AddIncidentModel{
		svc:         svc,
		date:        date,
		ticket:      ticket,
		description: description,
		lastDate:    date.Value(),
	}
	if prefill.TicketID != "" {
		m.ticket.SetValue(prefill.TicketID)
	} else {
		m.suggestFor(createdOn)
	}
	m.date.Focus()
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 60
	in.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
	in.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	return in
}

// Init initializes the model
func (m AddIncidentModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m AddIncidentModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.description.SetWidth(min(max(msg.Width-10, 20), 80))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "ctrl+s":
			return m.save()
		case "tab", "down":
			if msg.String() == "down" && m.focus == FieldDescription {
				break
			}
			return m.setFocus((m.focus + 1) % fieldCount), nil
		case "shift+tab", "up":
			if msg.String() == "up" && m.focus == FieldDescription {
				break
			}
			return m.setFocus((m.focus + fieldCount - 1) % fieldCount), nil
		case "enter":
			switch m.focus {
			case FieldDate, FieldTicket:
				return m.setFocus(m.focus + 1), nil
			case FieldSave:
				return m.save()
			}
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case FieldDate:
		m.date, cmd = m.date.Update(msg)
		m = m.dateChanged()
	case FieldTicket:
		m.ticket, cmd = m.ticket.Update(msg)
	case FieldDescription:
		m.description, cmd = m.description.Update(msg)
	}
	return m, cmd
}

func (m AddIncidentModel) setFocus(f Field) AddIncidentModel {
	m.focus = f
	m.date.Blur()
	m.ticket.Blur()
	m.description.Blur()
	switch f {
	case FieldDate:
		m.date.Focus()
	case FieldTicket:
		m.ticket.Focus()
	case FieldDescription:
		m.description.Focus()
	}
	return m
}

// dateChanged re-suggests the ticket ID when the date field parses to a new day
func (m AddIncidentModel) dateChanged() AddIncidentModel {
	value := m.date.Value()
	if value == m.lastDate {
		return m
	}
	m.lastDate = value

	day, err := parser.ParseCreatedOn(value, m.svc.Now())
	if err != nil {
		m.validationErr = "Date: " + err.Error()
		return m
	}
	m.validationErr = ""
	if m.ticketFollowsSuggestion() {
		m.suggestFor(day)
	}
	return m
}

func (m AddIncidentModel) ticketFollowsSuggestion() bool {
	v := strings.TrimSpace(m.ticket.Value())
	return v == "" || v == m.suggested
}

func (m *AddIncidentModel) suggestFor(day time.Time) {
	id, err := m.svc.SuggestTicketID(day)
	if err != nil {
		m.validationErr = "Ticket ID: " + err.Error()
		m.suggested = ""
		m.ticket.SetValue("")
		return
	}
	m.suggested = id
	m.ticket.SetValue(id)
}

// save appends the incident; on failure the form keeps its values
func (m AddIncidentModel) save() (tea.Model, tea.Cmd) {
	day, err := parser.ParseCreatedOn(m.date.Value(), m.svc.Now())
	if err != nil {
		m.validationErr = "Date: " + err.Error()
		return m.setFocus(FieldDate), nil
	}

	// an untouched suggestion is picked again at save time, it may be taken by now
	ticket := m.ticket.Value()
	if m.ticketFollowsSuggestion() {
		ticket = ""
	}

	res, err := m.svc.AddIncident(tracker.AddIncidentRequest{
		CreatedOn:   day,
		TicketID:    ticket,
		Description: m.description.Value(),
	})
	if err != nil {
		m.validationErr = saveErrorText(err)
		if errors.Is(err, tracker.ErrEmptyDescription) {
			return m.setFocus(FieldDescription), nil
		}
		return m, nil
	}

	m.result = res
	m.validationErr = ""
	return m, tea.Quit
}

func saveErrorText(err error) string {
	var locked *tracker.StorageWriteError
	var denied *tracker.PermissionError
	switch {
	case errors.Is(err, tracker.ErrEmptyDescription):
		return "Description is required"
	case errors.Is(err, tracker.ErrValueTooLong):
		return "Too long to save: " + err.Error()
	case errors.As(err, &locked):
		return "Could not save, close the workbook in other programs and retry: " + err.Error()
	case errors.As(err, &denied):
		return "No permission to write the data file: " + err.Error()
	}
	return err.Error()
}

// View renders the form
func (m AddIncidentModel) View() string {
	width := m.width
	if width == 0 {
		width = 80
	}

	logo := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Render("INCTRACK · new incident")

	label := func(f Field, text string) string {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
		if m.focus == f {
			style = style.Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
		}
		return style.Render(text)
	}

	var b strings.Builder
	b.WriteString(logo + "\n\n")
	b.WriteString(label(FieldDate, "Created on") + "\n" + m.date.View() + "\n\n")

	ticketLabel := "Ticket ID"
	if m.suggested != "" && m.ticket.Value() == m.suggested {
		ticketLabel += " (suggested)"
	}
	b.WriteString(label(FieldTicket, ticketLabel) + "\n" + m.ticket.View() + "\n\n")
	b.WriteString(label(FieldDescription, "Description") + "\n" + m.description.View() + "\n")

	if preview := parser.NormalizeDescription(m.description.Value()); preview != "" && strings.Contains(m.description.Value(), "\n") {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDisabledText)).
			Italic(true).
			Render("saved as: "+preview) + "\n")
	}
	b.WriteString("\n")

	button := lipgloss.NewStyle().
		Padding(0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder))
	if m.focus == FieldSave {
		button = button.BorderForeground(lipgloss.Color(ColorAccentMain)).Bold(true)
	}
	b.WriteString(button.Render("Save") + "\n")

	if m.validationErr != "" {
		b.WriteString("\n" + errorText(m.validationErr) + "\n")
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Padding(1, 2).
		Render(b.String())

	help := helpStyle(width).Render("tab/shift+tab move · enter next · ctrl+s save · esc cancel")
	return fmt.Sprintf("%s\n%s", card, help)
}
