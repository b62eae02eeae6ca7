package tracker

import (
	"fmt"
	"sync"
	"time"

	"github.com/balkashynov/inctrack/internal/models"
)

// SessionManager turns start/stop commands into Activity rows while keeping
// at most one open session per ticket.
type SessionManager struct {
	mu         sync.Mutex
	activities ActivityStore
	clock      Clock
}

// NewSessionManager creates a manager over the given store
func NewSessionManager(activities ActivityStore, clock Clock) *SessionManager {
	if clock == nil {
		clock = SystemClock{}
	}
	return &SessionManager{activities: activities, clock: clock}
}

// Start opens a new session for the ticket
func (m *SessionManager) Start(ticketID string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	open, err := m.activities.FindOpenSession(ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to check running session: %w", err)
	}
	if open != nil {
		return nil, fmt.Errorf("%s started at %s: %w",
			ticketID, open.StartTime.Format(models.DateTimeLayout), ErrSessionAlreadyRunning)
	}

	now := m.now()
	if err := m.activities.AppendStart(ticketID, now); err != nil {
		return nil, err
	}
	return &models.Session{TicketID: ticketID, StartTime: now}, nil
}

// Stop closes the ticket's open session
func (m *SessionManager) Stop(ticketID string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	open, err := m.activities.FindOpenSession(ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to check running session: %w", err)
	}
	if open == nil {
		return nil, fmt.Errorf("%s: %w", ticketID, ErrNoRunningSession)
	}

	now := m.now()
	if now.Before(open.StartTime) {
		return nil, fmt.Errorf("%s started at %s, now is %s: %w", ticketID,
			open.StartTime.Format(models.DateTimeLayout), now.Format(models.DateTimeLayout), ErrInvalidInterval)
	}

	if err := m.activities.SetEnd(ticketID, open.StartTime, now); err != nil {
		return nil, err
	}
	open.EndTime = &now
	return open, nil
}

// Running returns the ticket's open session, or nil
func (m *SessionManager) Running(ticketID string) (*models.Session, error) {
	return m.activities.FindOpenSession(ticketID)
}

// now is truncated to the second, the precision of the stored timestamps
func (m *SessionManager) now() time.Time {
	return m.clock.Now().Truncate(time.Second)
}
