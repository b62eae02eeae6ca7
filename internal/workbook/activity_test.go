package workbook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/balkashynov/inctrack/internal/tracker"
)

func TestActivities_StartThenEnd(t *testing.T) {
	wb := newTestWorkbook(t)
	activities := wb.Activities()
	require.NoError(t, activities.EnsureSchema())

	t1 := time.Date(2025, 8, 30, 9, 15, 30, 0, time.Local)
	t2 := t1.Add(95 * time.Minute)

	require.NoError(t, activities.AppendStart("TH25083001", t1))

	open, err := activities.FindOpenSession("TH25083001")
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.True(t, t1.Equal(open.StartTime), "got %s", open.StartTime)

	require.NoError(t, activities.SetEnd("TH25083001", open.StartTime, t2))

	open, err = activities.FindOpenSession("TH25083001")
	require.NoError(t, err)
	assert.Nil(t, open)

	sessions, err := activities.ListFor("TH25083001")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.True(t, t1.Equal(sessions[0].StartTime))
	require.NotNil(t, sessions[0].EndTime)
	assert.True(t, t2.Equal(*sessions[0].EndTime), "got %s", sessions[0].EndTime)
}

func TestActivities_FormattedCells(t *testing.T) {
	wb := newTestWorkbook(t)
	t1 := time.Date(2025, 8, 30, 9, 15, 30, 0, time.Local)
	require.NoError(t, wb.Activities().AppendStart("A", t1))

	f, err := excelize.OpenFile(wb.Path())
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(ActivitySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "2025-08-30 09:15:30", v)

	v, err = f.GetCellValue(ActivitySheet, "C2")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestActivities_FindOpenSessionNone(t *testing.T) {
	wb := newTestWorkbook(t)

	open, err := wb.Activities().FindOpenSession("TH25083001")
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestActivities_SetEndWithoutOpenRow(t *testing.T) {
	wb := newTestWorkbook(t)
	activities := wb.Activities()
	t1 := time.Date(2025, 8, 30, 9, 0, 0, 0, time.Local)

	err := activities.SetEnd("TH25083001", t1, t1.Add(time.Hour))
	assert.ErrorIs(t, err, tracker.ErrSessionNotFound)

	require.NoError(t, activities.AppendStart("TH25083001", t1))
	err = activities.SetEnd("TH25083001", t1.Add(time.Minute), t1.Add(time.Hour))
	assert.ErrorIs(t, err, tracker.ErrSessionNotFound, "start time must match")

	err = activities.SetEnd("OTHER", t1, t1.Add(time.Hour))
	assert.ErrorIs(t, err, tracker.ErrSessionNotFound)
}

func TestActivities_ListForFiltersAndKeepsOrder(t *testing.T) {
	wb := newTestWorkbook(t)
	activities := wb.Activities()
	base := time.Date(2025, 8, 30, 8, 0, 0, 0, time.Local)

	require.NoError(t, activities.AppendStart("A", base))
	require.NoError(t, activities.AppendStart("B", base.Add(time.Minute)))
	require.NoError(t, activities.SetEnd("A", base, base.Add(time.Hour)))
	require.NoError(t, activities.AppendStart("A", base.Add(2*time.Hour)))

	sessions, err := activities.ListFor("A")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.False(t, sessions[0].IsOpen())
	assert.True(t, sessions[1].IsOpen())

	all, err := activities.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"A", "B", "A"}, []string{all[0].TicketID, all[1].TicketID, all[2].TicketID})
}

func TestActivities_WithSessionManager(t *testing.T) {
	wb := newTestWorkbook(t)
	clock := &tracker.FixedClock{T: time.Date(2025, 8, 30, 9, 0, 0, 0, time.Local)}
	svc, err := tracker.NewService(wb.Tickets(), wb.Activities(), tracker.WithClock(clock))
	require.NoError(t, err)

	_, err = svc.Start(tracker.StartSessionRequest{TicketID: "TH25083001"})
	require.NoError(t, err)
	_, err = svc.Start(tracker.StartSessionRequest{TicketID: "TH25083001"})
	assert.ErrorIs(t, err, tracker.ErrSessionAlreadyRunning)

	clock.Advance(20 * time.Minute)
	_, err = svc.Stop(tracker.StopSessionRequest{TicketID: "TH25083001"})
	require.NoError(t, err)
	_, err = svc.Stop(tracker.StopSessionRequest{TicketID: "TH25083001"})
	assert.ErrorIs(t, err, tracker.ErrNoRunningSession)

	sessions, err := svc.Sessions("TH25083001")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 20*time.Minute, sessions[0].Duration(clock.T))
}
