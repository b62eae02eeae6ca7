package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/inctrack/internal/tracker"
)

// AddPrefill holds form values passed in from flags
type AddPrefill struct {
	CreatedOn   time.Time
	TicketID    string
	Description string
}

// RunAddIncidentTUI starts the interactive add incident form
func RunAddIncidentTUI(svc *tracker.Service, prefill AddPrefill) error {
	model := NewAddIncidentModel(svc, prefill)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := finalModel.(AddIncidentModel); ok {
		switch {
		case m.result != nil:
			inc := m.result.Incident
			fmt.Printf("Added %s (%s): %s\n", inc.TicketID, inc.CreatedOnString(), inc.Description)
			if m.result.Duplicate {
				fmt.Printf("warning: ticket ID %s was already used by another incident\n", inc.TicketID)
			}
		case m.cancelled:
			fmt.Println("Incident not saved.")
		}
	}
	return nil
}

// RunListTUI starts the interactive incident table
func RunListTUI(svc *tracker.Service, opts tracker.ListOptions) error {
	model, err := NewListModel(svc, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func helpStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(width)
}

func errorText(msg string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Bold(true).Render(msg)
}
