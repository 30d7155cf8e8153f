// Package scheduler runs the recurring archive watcher: every tick it
// archives the raffles whose scheduled time has elapsed and evicts them
// from the cache.
package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

const tickInterval = 30 // seconds

// Store is the slice of the datastore the watcher needs.
type Store interface {
	DueArchives(now time.Time) ([]string, error)
	ArchiveRaffle(name string) error
}

// Cache is the slice of the state cache the watcher needs.
type Cache interface {
	RemoveRaffle(name string)
}

// Locker serializes per-raffle sequences. The watcher takes the raffle's
// lock around mark+evict so a concurrent draw for the same name cannot
// interleave with it; production wiring passes the same table the Picker
// uses.
type Locker interface {
	Lock(name string) func()
}

type Watcher struct {
	store Store
	cache Cache
	locks Locker
}

func NewWatcher(store Store, cache Cache, locks Locker) *Watcher {
	return &Watcher{store: store, cache: cache, locks: locks}
}

// Tick processes every due schedule entry once. A failing entry is
// logged and left scheduled so the next tick retries it; it never stops
// the rest of the batch. Archiving is idempotent, so a duplicate tick
// after a restart is harmless.
func (w *Watcher) Tick(now time.Time) {
	due, err := w.store.DueArchives(now)
	if err != nil {
		log.Printf("archive watcher: querying due entries: %v", err)
		return
	}
	for _, name := range due {
		w.archive(name)
	}
}

// archive marks one raffle and evicts it from the cache under the
// raffle's lock, so the pair is atomic with respect to draws.
func (w *Watcher) archive(name string) {
	unlock := w.locks.Lock(name)
	defer unlock()
	if err := w.store.ArchiveRaffle(name); err != nil {
		log.Printf("archive watcher: archiving %s: %v", name, err)
		return
	}
	w.cache.RemoveRaffle(name)
	log.Printf("archive watcher: archived %s", name)
}

// Start schedules Tick every 30 seconds on a fresh gocron scheduler and
// returns it so the caller can Stop it on shutdown.
func (w *Watcher) Start() (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(time.UTC)
	_, err := s.Every(tickInterval).Seconds().Do(func() {
		w.Tick(time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	s.StartAsync()
	return s, nil
}
