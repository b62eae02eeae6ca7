package models

import "time"

const (
	// DateLayout is how dates are shown and accepted as text
	DateLayout = "2006-01-02"
	// DateTimeLayout is how timestamps are shown and accepted as text
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Session represents one start/stop interval of work on a ticket
type Session struct {
	ID        uint       `gorm:"primarykey" json:"-"`
	TicketID  string     `gorm:"index;not null" json:"ticket_id"`
	StartTime time.Time  `gorm:"not null" json:"start_time"`
	EndTime   *time.Time `json:"end_time"` // nil while the session is running
}

// IsOpen reports whether the session has not been stopped yet
func (s Session) IsOpen() bool {
	return s.EndTime == nil
}

// Duration returns the tracked time, measuring open sessions up to now
func (s Session) Duration(now time.Time) time.Duration {
	end := now
	if s.EndTime != nil {
		end = *s.EndTime
	}
	if end.Before(s.StartTime) {
		return 0
	}
	return end.Sub(s.StartTime)
}

// LatestTime returns the end time of a closed session or the start time of an open one
func (s Session) LatestTime() time.Time {
	if s.EndTime != nil && s.EndTime.After(s.StartTime) {
		return *s.EndTime
	}
	return s.StartTime
}
