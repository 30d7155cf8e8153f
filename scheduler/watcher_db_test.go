package scheduler

import (
	"path/filepath"
	"testing"
	"time"

	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxcommunity/rafflebot/cache"
	"github.com/voxcommunity/rafflebot/database"
	"github.com/voxcommunity/rafflebot/raffle"
)

func TestTickAgainstDatastore(t *testing.T) {
	store, err := database.New("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer store.Close()
	c := cache.New()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, name := range []string{"Due", "Future"} {
		_, err := store.CreateRaffle(name)
		require.NoError(t, err)
		c.EnsureRaffle(name)
	}
	require.NoError(t, store.ScheduleArchive("Due", now.Add(-time.Minute)))
	require.NoError(t, store.ScheduleArchive("Future", now.Add(time.Hour)))

	NewWatcher(store, c, raffle.NewNameLocks()).Tick(now)

	// due entry: archived, schedule entry removed, evicted from cache
	archived, err := store.IsArchived("Due")
	require.NoError(t, err)
	assert.True(t, archived)
	_, pending, err := store.ArchiveTime("Due")
	require.NoError(t, err)
	assert.False(t, pending)
	assert.False(t, c.HasRaffle("Due"))

	// future entry untouched
	archived, err = store.IsArchived("Future")
	require.NoError(t, err)
	assert.False(t, archived)
	_, pending, err = store.ArchiveTime("Future")
	require.NoError(t, err)
	assert.True(t, pending)
	assert.True(t, c.HasRaffle("Future"))

	// duplicate tick is harmless
	NewWatcher(store, c, raffle.NewNameLocks()).Tick(now)
}
