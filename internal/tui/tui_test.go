package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/inctrack/internal/tracker"
	"github.com/balkashynov/inctrack/internal/workbook"
)

func newTestService(t *testing.T) (*tracker.Service, *tracker.FixedClock) {
	t.Helper()
	wb, err := workbook.Open(filepath.Join(t.TempDir(), "incidents.xlsx"))
	require.NoError(t, err)

	clock := &tracker.FixedClock{T: time.Date(2024, 3, 15, 9, 0, 0, 0, time.Local)}
	svc, err := tracker.NewService(wb.Tickets(), wb.Activities(),
		tracker.WithClock(clock),
		tracker.WithExporter(wb),
	)
	require.NoError(t, err)
	return svc, clock
}

func addIncident(t *testing.T, svc *tracker.Service, description string) string {
	t.Helper()
	res, err := svc.AddIncident(tracker.AddIncidentRequest{Description: description})
	require.NoError(t, err)
	return res.Incident.TicketID
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
