package tracker

import (
	"time"

	"github.com/balkashynov/inctrack/internal/models"
)

// memStore keeps both tables in memory. failWrites simulates a locked file.
type memStore struct {
	incidents  []models.Incident
	sessions   []models.Session
	failWrites error
	writes     int
}

func (m *memStore) EnsureSchema() error { return nil }

func (m *memStore) ListAll() ([]models.Incident, error) {
	return append([]models.Incident(nil), m.incidents...), nil
}

func (m *memStore) Append(incident models.Incident) error {
	if m.failWrites != nil {
		return m.failWrites
	}
	m.writes++
	m.incidents = append(m.incidents, incident)
	return nil
}

type memActivities struct{ *memStore }

func (a memActivities) EnsureSchema() error { return nil }

func (a memActivities) ListFor(ticketID string) ([]models.Session, error) {
	var out []models.Session
	for _, s := range a.sessions {
		if s.TicketID == ticketID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (a memActivities) ListAll() ([]models.Session, error) {
	return append([]models.Session(nil), a.sessions...), nil
}

func (a memActivities) FindOpenSession(ticketID string) (*models.Session, error) {
	for i := len(a.sessions) - 1; i >= 0; i-- {
		if a.sessions[i].TicketID == ticketID && a.sessions[i].IsOpen() {
			s := a.sessions[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (a memActivities) AppendStart(ticketID string, start time.Time) error {
	if a.failWrites != nil {
		return a.failWrites
	}
	a.writes++
	a.sessions = append(a.sessions, models.Session{TicketID: ticketID, StartTime: start})
	return nil
}

func (a memActivities) SetEnd(ticketID string, start, end time.Time) error {
	if a.failWrites != nil {
		return a.failWrites
	}
	for i := len(a.sessions) - 1; i >= 0; i-- {
		s := &a.sessions[i]
		if s.TicketID == ticketID && s.IsOpen() && s.StartTime.Equal(start) {
			s.EndTime = &end
			a.writes++
			return nil
		}
	}
	return ErrSessionNotFound
}
