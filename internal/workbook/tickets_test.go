package workbook

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/balkashynov/inctrack/internal/tracker"
)

func TestTickets_AppendThenList(t *testing.T) {
	wb := newTestWorkbook(t)
	tickets := wb.Tickets()
	require.NoError(t, tickets.EnsureSchema())

	want := incident(time.Date(2025, 8, 30, 0, 0, 0, 0, time.Local), "TH25083001", "Mail server unreachable")
	require.NoError(t, tickets.Append(want))

	list, err := tickets.ListAll()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, want.TicketID, list[0].TicketID)
	assert.Equal(t, want.Description, list[0].Description)
	assert.True(t, want.CreatedOn.Equal(list[0].CreatedOn), "got %s", list[0].CreatedOn)
}

func TestTickets_InsertionOrder(t *testing.T) {
	wb := newTestWorkbook(t)
	tickets := wb.Tickets()

	days := []time.Time{
		time.Date(2025, 8, 30, 0, 0, 0, 0, time.Local),
		time.Date(2025, 1, 2, 0, 0, 0, 0, time.Local),
		time.Date(2025, 8, 30, 0, 0, 0, 0, time.Local),
	}
	ids := []string{"TH25083001", "INC-9", "TH25083002"}
	for i := range ids {
		require.NoError(t, tickets.Append(incident(days[i], ids[i], "desc "+ids[i])))
	}

	list, err := tickets.ListAll()
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i := range ids {
		assert.Equal(t, ids[i], list[i].TicketID)
		assert.True(t, days[i].Equal(list[i].CreatedOn))
	}
}

func TestTickets_StoredAsExcelDates(t *testing.T) {
	wb := newTestWorkbook(t)
	require.NoError(t, wb.Tickets().Append(incident(time.Date(2025, 8, 30, 0, 0, 0, 0, time.Local), "A", "a")))

	f, err := excelize.OpenFile(wb.Path())
	require.NoError(t, err)
	defer f.Close()

	formatted, err := f.GetCellValue(IncidentsSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "2025-08-30", formatted)

	cellType, err := f.GetCellType(IncidentsSheet, "A2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)
}

func TestTickets_ReadsTextDatesAndSkipsBlankRows(t *testing.T) {
	wb := newTestWorkbook(t)
	require.NoError(t, wb.Tickets().EnsureSchema())

	f, err := excelize.OpenFile(wb.Path())
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(IncidentsSheet, "A2", &[]interface{}{"2025-07-01", "HAND-1", "typed in Excel"}))
	require.NoError(t, f.SetSheetRow(IncidentsSheet, "A4", &[]interface{}{"2025-07-02", "HAND-2", "after a gap"}))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	list, err := wb.Tickets().ListAll()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-07-01", list[0].CreatedOnString())
	assert.Equal(t, "HAND-2", list[1].TicketID)
}

func TestTickets_OlderFourColumnLayout(t *testing.T) {
	wb := newTestWorkbook(t)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", IncidentsSheet))
	require.NoError(t, f.SetSheetRow(IncidentsSheet, "A1", &[]interface{}{"Created On", "Updated On", "Ticket ID", "Description"}))
	require.NoError(t, f.SetSheetRow(IncidentsSheet, "A2", &[]interface{}{"2025-06-01", "2025-06-02 10:00:00", "TH25060101", "old row"}))
	require.NoError(t, f.SaveAs(wb.Path()))
	require.NoError(t, f.Close())

	require.NoError(t, wb.Tickets().Append(incident(time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local), "TH25060102", "new row")))

	list, err := wb.Tickets().ListAll()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "TH25060101", list[0].TicketID)
	assert.Equal(t, "old row", list[0].Description)
	assert.Equal(t, "TH25060102", list[1].TicketID)
	assert.Equal(t, "new row", list[1].Description)
	assert.Equal(t, "2025-06-01", list[1].CreatedOnString())
}

func TestTickets_AppendRejectsTextLongerThanACell(t *testing.T) {
	wb := newTestWorkbook(t)
	tickets := wb.Tickets()
	require.NoError(t, tickets.EnsureSchema())
	day := time.Date(2025, 8, 30, 0, 0, 0, 0, time.Local)

	long := strings.Repeat("é", excelize.TotalCellChars+1)
	err := tickets.Append(incident(day, "TH25083001", long))
	assert.ErrorIs(t, err, tracker.ErrValueTooLong)
	err = tickets.Append(incident(day, long, "disk full"))
	assert.ErrorIs(t, err, tracker.ErrValueTooLong)

	list, err := tickets.ListAll()
	require.NoError(t, err)
	assert.Empty(t, list, "nothing written")

	fits := strings.Repeat("x", excelize.TotalCellChars)
	require.NoError(t, tickets.Append(incident(day, "TH25083001", fits)))
	list, err = tickets.ListAll()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, fits, list[0].Description)
}

func TestService_AddIncidentTooLongKeepsWorkbook(t *testing.T) {
	wb := newTestWorkbook(t)
	clock := &tracker.FixedClock{T: time.Date(2025, 8, 30, 9, 0, 0, 0, time.Local)}
	svc, err := tracker.NewService(wb.Tickets(), wb.Activities(), tracker.WithClock(clock))
	require.NoError(t, err)

	res, err := svc.AddIncident(tracker.AddIncidentRequest{Description: strings.Repeat("a", 40000)})
	assert.ErrorIs(t, err, tracker.ErrValueTooLong)
	assert.Nil(t, res)

	list, err := svc.Incidents(tracker.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, list)
}
