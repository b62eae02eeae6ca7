package models

import "time"

// Incident is one row of the INCIDENTS table
type Incident struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	CreatedOn time.Time `gorm:"not null" json:"created_on"`
	TicketID  string    `gorm:"index;not null" json:"ticket_id"`
	// Single line, see parser.NormalizeDescription
	Description string `gorm:"not null" json:"description"`

	// Derived when listing, never stored
	LastActivity time.Time `gorm:"-" json:"last_activity"`
}

// CreatedOnString returns the created-on date in the workbook layout
func (i Incident) CreatedOnString() string {
	return i.CreatedOn.Format(DateLayout)
}
