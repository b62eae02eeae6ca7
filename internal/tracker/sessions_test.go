package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*SessionManager, *memStore, *FixedClock) {
	t.Helper()
	store := &memStore{}
	clock := &FixedClock{T: time.Date(2025, 8, 30, 9, 0, 0, 0, time.Local)}
	return NewSessionManager(memActivities{store}, clock), store, clock
}

func TestSessionManager_StartStop(t *testing.T) {
	m, store, clock := newTestManager(t)
	t1 := clock.T

	started, err := m.Start("TH25083001")
	require.NoError(t, err)
	assert.True(t, t1.Equal(started.StartTime))
	assert.True(t, started.IsOpen())

	clock.Advance(45 * time.Minute)
	stopped, err := m.Stop("TH25083001")
	require.NoError(t, err)
	require.NotNil(t, stopped.EndTime)

	require.Len(t, store.sessions, 1)
	got := store.sessions[0]
	assert.Equal(t, "TH25083001", got.TicketID)
	assert.True(t, t1.Equal(got.StartTime))
	require.NotNil(t, got.EndTime)
	assert.True(t, t1.Add(45*time.Minute).Equal(*got.EndTime))
}

func TestSessionManager_NoOverlaps(t *testing.T) {
	m, store, clock := newTestManager(t)

	_, err := m.Start("TH25083001")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = m.Start("TH25083001")
	assert.ErrorIs(t, err, ErrSessionAlreadyRunning)
	assert.Len(t, store.sessions, 1)
}

func TestSessionManager_OtherTicketsIndependent(t *testing.T) {
	m, store, _ := newTestManager(t)

	_, err := m.Start("TH25083001")
	require.NoError(t, err)
	_, err = m.Start("INC-77")
	require.NoError(t, err)
	assert.Len(t, store.sessions, 2)
}

func TestSessionManager_StopWithoutStart(t *testing.T) {
	m, store, _ := newTestManager(t)

	_, err := m.Stop("TH25083001")
	assert.ErrorIs(t, err, ErrNoRunningSession)
	assert.Zero(t, store.writes)
}

func TestSessionManager_StopBeforeStartRejected(t *testing.T) {
	m, store, clock := newTestManager(t)

	_, err := m.Start("TH25083001")
	require.NoError(t, err)

	clock.Advance(-10 * time.Minute)
	_, err = m.Stop("TH25083001")
	assert.ErrorIs(t, err, ErrInvalidInterval)
	assert.True(t, store.sessions[0].IsOpen())
}

func TestSessionManager_RestartAfterStop(t *testing.T) {
	m, store, clock := newTestManager(t)

	_, err := m.Start("TH25083001")
	require.NoError(t, err)
	clock.Advance(time.Hour)
	_, err = m.Stop("TH25083001")
	require.NoError(t, err)
	clock.Advance(time.Hour)
	_, err = m.Start("TH25083001")
	require.NoError(t, err)

	require.Len(t, store.sessions, 2)
	assert.False(t, store.sessions[0].IsOpen())
	assert.True(t, store.sessions[1].IsOpen())
}

func TestSessionManager_TruncatesToSeconds(t *testing.T) {
	m, _, clock := newTestManager(t)
	clock.T = clock.T.Add(750 * time.Millisecond)

	started, err := m.Start("TH25083001")
	require.NoError(t, err)
	assert.Zero(t, started.StartTime.Nanosecond())
}

func TestSessionManager_StorageErrorSurfaces(t *testing.T) {
	m, store, _ := newTestManager(t)
	store.failWrites = &StorageWriteError{Path: "x.xlsx", Err: assert.AnError}

	_, err := m.Start("TH25083001")
	require.Error(t, err)
	assert.True(t, IsStorageError(err))
	assert.Empty(t, store.sessions)
}
