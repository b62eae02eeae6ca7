package workbook

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/balkashynov/inctrack/internal/models"
	"github.com/balkashynov/inctrack/internal/tracker"
)

// Activities is the Activity sheet: Ticket ID | Start Time | End Time
type Activities struct {
	wb *Workbook
}

// activityRow is a session plus its 1-based row number in the sheet
type activityRow struct {
	row     int
	session models.Session
}

// EnsureSchema creates the workbook and the Activity sheet when missing
func (a *Activities) EnsureSchema() error {
	return a.wb.ensureSheet(ActivitySheet, ActivityHeaders)
}

// ListFor returns the sessions of one ticket in insertion order
func (a *Activities) ListFor(ticketID string) ([]models.Session, error) {
	rows, err := a.load()
	if err != nil {
		return nil, err
	}
	sessions := []models.Session{}
	for _, r := range rows {
		if r.session.TicketID == ticketID {
			sessions = append(sessions, r.session)
		}
	}
	return sessions, nil
}

// ListAll returns every session in insertion order
func (a *Activities) ListAll() ([]models.Session, error) {
	rows, err := a.load()
	if err != nil {
		return nil, err
	}
	sessions := make([]models.Session, 0, len(rows))
	for _, r := range rows {
		sessions = append(sessions, r.session)
	}
	return sessions, nil
}

// FindOpenSession returns the newest session of the ticket without an end time
func (a *Activities) FindOpenSession(ticketID string) (*models.Session, error) {
	rows, err := a.load()
	if err != nil {
		return nil, err
	}
	if r := findOpen(rows, ticketID, nil); r != nil {
		session := r.session
		return &session, nil
	}
	return nil, nil
}

// AppendStart adds an open session row
func (a *Activities) AppendStart(ticketID string, start time.Time) error {
	return a.wb.update(func(f *excelize.File) (bool, error) {
		if _, err := ensureSheet(f, ActivitySheet, ActivityHeaders); err != nil {
			return false, fmt.Errorf("failed to prepare %s: %w", ActivitySheet, err)
		}
		row, err := nextRow(f, ActivitySheet)
		if err != nil {
			return false, err
		}

		idCell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellStr(ActivitySheet, idCell, ticketID); err != nil {
			return false, err
		}
		startCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := a.wb.setTimeCell(f, ActivitySheet, startCell, start, dateTimeNumFmt); err != nil {
			return false, fmt.Errorf("failed to write start time: %w", err)
		}
		return true, nil
	})
}

// SetEnd closes the open session of ticketID that started at start
func (a *Activities) SetEnd(ticketID string, start, end time.Time) error {
	return a.wb.update(func(f *excelize.File) (bool, error) {
		idx, err := f.GetSheetIndex(ActivitySheet)
		if err != nil {
			return false, err
		}
		if idx == -1 {
			return false, fmt.Errorf("%s at %s: %w", ticketID, start.Format(models.DateTimeLayout), tracker.ErrSessionNotFound)
		}
		raw, err := f.GetRows(ActivitySheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return false, err
		}

		r := findOpen(a.parse(raw), ticketID, &start)
		if r == nil {
			return false, fmt.Errorf("%s at %s: %w", ticketID, start.Format(models.DateTimeLayout), tracker.ErrSessionNotFound)
		}

		endCell, _ := excelize.CoordinatesToCellName(3, r.row)
		if err := a.wb.setTimeCell(f, ActivitySheet, endCell, end, dateTimeNumFmt); err != nil {
			return false, fmt.Errorf("failed to write end time: %w", err)
		}
		return true, nil
	})
}

func (a *Activities) load() ([]activityRow, error) {
	raw, err := a.wb.rows(ActivitySheet)
	if err != nil {
		return nil, err
	}
	return a.parse(raw), nil
}

// parse skips the header and rows without a ticket. A non-empty end cell
// that is not a date still counts as closed.
func (a *Activities) parse(raw [][]string) []activityRow {
	var rows []activityRow
	for i, row := range raw {
		ticketID := cell(row, 0)
		if i == 0 || ticketID == "" {
			continue
		}

		session := models.Session{TicketID: ticketID}
		if start, ok := a.wb.parseTime(cell(row, 1)); ok {
			session.StartTime = start
		}
		if rawEnd := cell(row, 2); rawEnd != "" {
			end, ok := a.wb.parseTime(rawEnd)
			if !ok {
				end = session.StartTime
			}
			session.EndTime = &end
		}
		rows = append(rows, activityRow{row: i + 1, session: session})
	}
	return rows
}

// findOpen scans from the bottom so the newest open row wins
func findOpen(rows []activityRow, ticketID string, start *time.Time) *activityRow {
	for i := len(rows) - 1; i >= 0; i-- {
		s := rows[i].session
		if s.TicketID != ticketID || !s.IsOpen() {
			continue
		}
		if start != nil && !sameSecond(s.StartTime, *start) {
			continue
		}
		return &rows[i]
	}
	return nil
}
