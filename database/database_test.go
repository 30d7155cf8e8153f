package database

import (
	"path/filepath"
	"testing"
	"time"

	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Datastore {
	t.Helper()
	store, err := New("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUpsertUserAndRegistered(t *testing.T) {
	store := newTestStore(t)

	registered, err := store.Registered(1)
	require.NoError(t, err)
	assert.False(t, registered)

	require.NoError(t, store.UpsertUser(1, "https://x.com/one"))

	registered, err = store.Registered(1)
	require.NoError(t, err)
	assert.True(t, registered)

	// stat row is created alongside the user
	stat, err := store.Stat(1)
	require.NoError(t, err)
	assert.Equal(t, 0, stat.Registrations)
	assert.Equal(t, 0, stat.Wins)
}

func TestIncrementStatCreatesMissingUser(t *testing.T) {
	store := newTestStore(t)

	// no prior user row; must not fail on the foreign key
	require.NoError(t, store.IncrementStat(42, 1, 0))
	require.NoError(t, store.IncrementStat(42, 0, 2))

	stat, err := store.Stat(42)
	require.NoError(t, err)
	assert.Equal(t, 1, stat.Registrations)
	assert.Equal(t, 2, stat.Wins)

	registered, err := store.Registered(42)
	require.NoError(t, err)
	assert.True(t, registered)
}

func TestCreateRaffleIdempotent(t *testing.T) {
	store := newTestStore(t)

	created, err := store.CreateRaffle("SpaceA")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.CreateRaffle("SpaceA")
	require.NoError(t, err)
	assert.False(t, created)

	active, err := store.ActiveRaffles()
	require.NoError(t, err)
	assert.Equal(t, []string{"SpaceA"}, active)
}

func TestRecordWinIdempotent(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateRaffle("SpaceA")
	require.NoError(t, err)

	require.NoError(t, store.RecordWin("SpaceA", 7))
	require.NoError(t, store.RecordWin("SpaceA", 7))

	ids, err := store.WinnerIDs("SpaceA")
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, ids)

	// wins always equals the winner-record count
	stat, err := store.Stat(7)
	require.NoError(t, err)
	assert.Equal(t, 1, stat.Wins)

	wins, err := store.UserWins(7)
	require.NoError(t, err)
	assert.Equal(t, []string{"SpaceA"}, wins)
}

func TestArchiveRaffle(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateRaffle("SpaceA")
	require.NoError(t, err)
	require.NoError(t, store.ScheduleArchive("SpaceA", time.Now()))

	require.NoError(t, store.ArchiveRaffle("SpaceA"))

	archived, err := store.IsArchived("SpaceA")
	require.NoError(t, err)
	assert.True(t, archived)

	// schedule entry dropped together with the archive flag
	_, pending, err := store.ArchiveTime("SpaceA")
	require.NoError(t, err)
	assert.False(t, pending)

	names, err := store.ArchivedRaffles()
	require.NoError(t, err)
	assert.Equal(t, []string{"SpaceA"}, names)

	// archiving again is a no-op
	require.NoError(t, store.ArchiveRaffle("SpaceA"))
}

func TestScheduleArchiveReplaces(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateRaffle("SpaceA")
	require.NoError(t, err)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.ScheduleArchive("SpaceA", base))
	require.NoError(t, store.ScheduleArchive("SpaceA", base.Add(10*time.Minute)))

	at, pending, err := store.ArchiveTime("SpaceA")
	require.NoError(t, err)
	require.True(t, pending)
	assert.True(t, at.Equal(base.Add(10*time.Minute)))

	// not due before the rescheduled time
	due, err := store.DueArchives(base.Add(5 * time.Minute))
	require.NoError(t, err)
	assert.Empty(t, due)

	due, err = store.DueArchives(base.Add(10 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []string{"SpaceA"}, due)
}

func TestScheduleArchiveKeepsOneRow(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateRaffle("SpaceA")
	require.NoError(t, err)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.ScheduleArchive("SpaceA", base))
	}

	// the upsert never accumulates duplicate entries for a raffle
	due, err := store.DueArchives(base)
	require.NoError(t, err)
	assert.Equal(t, []string{"SpaceA"}, due)
}

func TestBlacklist(t *testing.T) {
	store := newTestStore(t)

	on, err := store.IsBlacklisted(5)
	require.NoError(t, err)
	assert.False(t, on)

	require.NoError(t, store.SetBlacklisted(5, true))
	require.NoError(t, store.SetBlacklisted(5, true))

	on, err = store.IsBlacklisted(5)
	require.NoError(t, err)
	assert.True(t, on)

	ids, err := store.BlacklistedIDs()
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, ids)

	require.NoError(t, store.SetBlacklisted(5, false))
	on, err = store.IsBlacklisted(5)
	require.NoError(t, err)
	assert.False(t, on)
}

func TestDeleteUser(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.UpsertUser(9, "https://x.com/nine"))
	require.NoError(t, store.SetAlwaysPick(9, true))
	require.NoError(t, store.SetBlacklisted(9, true))
	_, err := store.CreateRaffle("SpaceA")
	require.NoError(t, err)
	require.NoError(t, store.RecordWin("SpaceA", 9))

	require.NoError(t, store.DeleteUser(9))

	registered, err := store.Registered(9)
	require.NoError(t, err)
	assert.False(t, registered)

	ids, err := store.WinnerIDs("SpaceA")
	require.NoError(t, err)
	assert.Empty(t, ids)

	// blacklist membership survives unregistration
	on, err := store.IsBlacklisted(9)
	require.NoError(t, err)
	assert.True(t, on)
}

func TestSnapshotSkipsArchived(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.UpsertUser(1, "https://x.com/one"))
	require.NoError(t, store.SetAlwaysPick(2, true))
	for _, name := range []string{"Open", "Closed"} {
		_, err := store.CreateRaffle(name)
		require.NoError(t, err)
		require.NoError(t, store.RecordWin(name, 1))
	}
	require.NoError(t, store.ArchiveRaffle("Closed"))

	snap, err := store.Snapshot()
	require.NoError(t, err)

	assert.Len(t, snap.Users, 1)
	assert.Equal(t, []int64{2}, snap.AlwaysPick)
	assert.Equal(t, []int64{1}, snap.Picked)
	assert.Contains(t, snap.Raffles, "Open")
	assert.NotContains(t, snap.Raffles, "Closed")
	assert.Equal(t, []int64{1}, snap.Raffles["Open"])
}

func TestResets(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.UpsertUser(1, "https://x.com/one"))
	_, err := store.CreateRaffle("SpaceA")
	require.NoError(t, err)
	require.NoError(t, store.RecordWin("SpaceA", 1))
	require.NoError(t, store.ScheduleArchive("SpaceA", time.Now()))

	require.NoError(t, store.ResetRaffles())

	registered, err := store.Registered(1)
	require.NoError(t, err)
	assert.True(t, registered)
	active, err := store.ActiveRaffles()
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, store.ResetAll())
	registered, err = store.Registered(1)
	require.NoError(t, err)
	assert.False(t, registered)
}
