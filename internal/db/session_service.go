package db

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/inctrack/internal/models"
	"github.com/balkashynov/inctrack/internal/tracker"
)

// Activities stores sessions in the sessions table
type Activities struct {
	store *Store
}

// EnsureSchema creates the sessions table when missing
func (a *Activities) EnsureSchema() error {
	return a.store.migrate(&models.Session{})
}

// ListFor returns all sessions of one ticket, oldest first
func (a *Activities) ListFor(ticketID string) ([]models.Session, error) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	sessions := []models.Session{}
	err := a.store.db.Where("ticket_id = ?", ticketID).Order("id ASC").Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return localize(sessions), nil
}

// ListAll returns every session, oldest first
func (a *Activities) ListAll() ([]models.Session, error) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	sessions := []models.Session{}
	if err := a.store.db.Order("id ASC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return localize(sessions), nil
}

// FindOpenSession returns the ticket's newest session without an end time
func (a *Activities) FindOpenSession(ticketID string) (*models.Session, error) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	var session models.Session
	err := a.store.db.Where("ticket_id = ? AND end_time IS NULL", ticketID).Order("id DESC").First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // No open session is not an error
	}
	if err != nil {
		return nil, err
	}
	localized := localize([]models.Session{session})[0]
	return &localized, nil
}

// AppendStart creates an open session
func (a *Activities) AppendStart(ticketID string, start time.Time) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	session := models.Session{
		TicketID:  ticketID,
		StartTime: start.Truncate(time.Second),
	}
	if err := a.store.db.Create(&session).Error; err != nil {
		return classify(a.store.path, err)
	}
	return nil
}

// SetEnd closes the open session of ticketID that started at start
func (a *Activities) SetEnd(ticketID string, start, end time.Time) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	var open []models.Session
	err := a.store.db.Where("ticket_id = ? AND end_time IS NULL", ticketID).Order("id DESC").Find(&open).Error
	if err != nil {
		return err
	}
	for _, session := range open {
		if !session.StartTime.Truncate(time.Second).Equal(start.Truncate(time.Second)) {
			continue
		}
		end = end.Truncate(time.Second)
		if err := a.store.db.Model(&session).Update("end_time", end).Error; err != nil {
			return classify(a.store.path, err)
		}
		return nil
	}
	return fmt.Errorf("%s at %s: %w", ticketID, start.Format(models.DateTimeLayout), tracker.ErrSessionNotFound)
}

func localize(sessions []models.Session) []models.Session {
	for i := range sessions {
		sessions[i].StartTime = sessions[i].StartTime.Local()
		if sessions[i].EndTime != nil {
			end := sessions[i].EndTime.Local()
			sessions[i].EndTime = &end
		}
	}
	return sessions
}
