package tracker

import (
	"time"

	"github.com/balkashynov/inctrack/internal/models"
)

// TicketStore persists the INCIDENTS table. Incidents are append-only.
type TicketStore interface {
	EnsureSchema() error
	ListAll() ([]models.Incident, error)
	Append(incident models.Incident) error
}

// ActivityStore persists the Activity table.
// It does not check the one-open-session rule; SessionManager does.
type ActivityStore interface {
	EnsureSchema() error
	ListFor(ticketID string) ([]models.Session, error)
	ListAll() ([]models.Session, error)
	// FindOpenSession returns nil, nil when the ticket has no open session.
	FindOpenSession(ticketID string) (*models.Session, error)
	AppendStart(ticketID string, start time.Time) error
	SetEnd(ticketID string, start, end time.Time) error
}

// Exporter copies the backing file somewhere else.
type Exporter interface {
	Path() string
	ExportTo(dir string, overwrite bool) (string, error)
}

// Clock supplies "now".
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Set T to move it.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time { return c.T }

// Advance moves the clock forward.
func (c *FixedClock) Advance(d time.Duration) { c.T = c.T.Add(d) }
