package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/inctrack/internal/tracker"
)

func TestAddIncidentModel_SuggestsTicket(t *testing.T) {
	svc, _ := newTestService(t)
	addIncident(t, svc, "first")

	m := NewAddIncidentModel(svc, AddPrefill{})

	assert.Equal(t, "2024-03-15", m.date.Value())
	assert.Equal(t, "TH24031502", m.ticket.Value())
	assert.Equal(t, FieldDate, m.focus)
}

func TestAddIncidentModel_PrefillKeepsTicket(t *testing.T) {
	svc, _ := newTestService(t)

	m := NewAddIncidentModel(svc, AddPrefill{
		CreatedOn:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local),
		TicketID:    "INC-9",
		Description: "from flags",
	})

	assert.Equal(t, "2024-03-01", m.date.Value())
	assert.Equal(t, "INC-9", m.ticket.Value())
	assert.Equal(t, "from flags", m.description.Value())
}

func TestAddIncidentModel_DateChangeResuggests(t *testing.T) {
	svc, _ := newTestService(t)
	m := NewAddIncidentModel(svc, AddPrefill{})

	m.date.SetValue("2024-03-01")
	m = m.dateChanged()
	assert.Equal(t, "TH24030101", m.ticket.Value())
	assert.Empty(t, m.validationErr)

	m.date.SetValue("not a date")
	m = m.dateChanged()
	assert.Contains(t, m.validationErr, "Date:")
	assert.Equal(t, "TH24030101", m.ticket.Value())
}

func TestAddIncidentModel_EditedTicketSurvivesDateChange(t *testing.T) {
	svc, _ := newTestService(t)
	m := NewAddIncidentModel(svc, AddPrefill{})

	m.ticket.SetValue("MY-1")
	m.date.SetValue("yesterday")
	m = m.dateChanged()

	assert.Equal(t, "MY-1", m.ticket.Value())
}

func TestAddIncidentModel_SaveRequiresDescription(t *testing.T) {
	svc, _ := newTestService(t)
	m := NewAddIncidentModel(svc, AddPrefill{})

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	am := model.(AddIncidentModel)

	assert.Nil(t, cmd)
	assert.Nil(t, am.result)
	assert.Equal(t, "Description is required", am.validationErr)
	assert.Equal(t, FieldDescription, am.focus)
	assert.Equal(t, "TH24031501", am.ticket.Value(), "form keeps its values")

	incidents, err := svc.Incidents(tracker.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, incidents)
}

func TestAddIncidentModel_TypeAndSave(t *testing.T) {
	svc, _ := newTestService(t)
	m := NewAddIncidentModel(svc, AddPrefill{})

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, FieldDescription, model.(AddIncidentModel).focus)

	model, _ = model.Update(key("disk full"))
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	am := model.(AddIncidentModel)

	require.NotNil(t, am.result, am.validationErr)
	assert.NotNil(t, cmd)
	assert.Equal(t, "TH24031501", am.result.Incident.TicketID)
	assert.True(t, am.result.Generated)

	incidents, err := svc.Incidents(tracker.ListOptions{})
	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, "disk full", incidents[0].Description)
}

func TestAddIncidentModel_SaveTakesFreshSuggestion(t *testing.T) {
	svc, _ := newTestService(t)
	m := NewAddIncidentModel(svc, AddPrefill{})
	require.Equal(t, "TH24031501", m.ticket.Value())

	// someone else logs an incident while the form is open
	addIncident(t, svc, "printer jam")

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyTab})
	model, _ = model.Update(key("disk full"))
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	am := model.(AddIncidentModel)

	require.NotNil(t, am.result, am.validationErr)
	assert.Equal(t, "TH24031502", am.result.Incident.TicketID)
	assert.True(t, am.result.Generated)
	assert.False(t, am.result.Duplicate)
}

func TestAddIncidentModel_TypedTicketIsKept(t *testing.T) {
	svc, _ := newTestService(t)
	m := NewAddIncidentModel(svc, AddPrefill{TicketID: "INC-7", Description: "vpn down"})

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	am := model.(AddIncidentModel)

	require.NotNil(t, am.result, am.validationErr)
	assert.Equal(t, "INC-7", am.result.Incident.TicketID)
	assert.False(t, am.result.Generated)
}

func TestAddIncidentModel_EscCancels(t *testing.T) {
	svc, _ := newTestService(t)
	m := NewAddIncidentModel(svc, AddPrefill{})

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.True(t, model.(AddIncidentModel).cancelled)
	assert.NotNil(t, cmd)
}
