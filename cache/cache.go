// Package cache keeps the in-memory projection used for draw decisions
// and status queries. It is a mirror of the durable store: every mutator
// here has a corresponding store write and is called in lock-step with
// it. A raffle lives in the cache exactly as long as it is not archived.
package cache

import (
	"sync"

	"github.com/voxcommunity/rafflebot/database"
	"github.com/voxcommunity/rafflebot/models"
)

type Cache struct {
	mu         sync.RWMutex
	links      map[int64]string
	stats      map[int64]models.Stat
	alwaysPick map[int64]struct{}
	picked     map[int64]struct{}
	raffles    map[string][]int64
}

func New() *Cache {
	c := &Cache{}
	c.reset()
	return c
}

func (c *Cache) reset() {
	c.links = map[int64]string{}
	c.stats = map[int64]models.Stat{}
	c.alwaysPick = map[int64]struct{}{}
	c.picked = map[int64]struct{}{}
	c.raffles = map[string][]int64{}
}

// Rebuild replaces the whole projection with a store snapshot. Called
// once at startup; the process must not serve draws if the snapshot
// could not be loaded.
func (c *Cache) Rebuild(snap *database.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
	for _, u := range snap.Users {
		c.links[u.UserID] = u.XLink
	}
	for _, s := range snap.Stats {
		c.stats[s.UserID] = s
	}
	for _, id := range snap.AlwaysPick {
		c.alwaysPick[id] = struct{}{}
	}
	for _, id := range snap.Picked {
		c.picked[id] = struct{}{}
	}
	for name, winners := range snap.Raffles {
		c.raffles[name] = append([]int64{}, winners...)
	}
}

func (c *Cache) PutUser(userID int64, link string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.links[userID] = link
	if _, ok := c.stats[userID]; !ok {
		c.stats[userID] = models.Stat{UserID: userID}
	}
}

func (c *Cache) DropUser(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.links, userID)
	delete(c.stats, userID)
	delete(c.alwaysPick, userID)
	delete(c.picked, userID)
}

func (c *Cache) AddRegistration(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats[userID]
	s.UserID = userID
	s.Registrations++
	c.stats[userID] = s
}

func (c *Cache) AddWin(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats[userID]
	s.UserID = userID
	s.Wins++
	c.stats[userID] = s
}

func (c *Cache) SetAlwaysPick(userID int64, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if on {
		c.alwaysPick[userID] = struct{}{}
	} else {
		delete(c.alwaysPick, userID)
	}
}

func (c *Cache) SetPicked(userID int64, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if on {
		c.picked[userID] = struct{}{}
	} else {
		delete(c.picked, userID)
	}
}

func (c *Cache) ResetPicks() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.picked = map[int64]struct{}{}
}

// EnsureRaffle adds an empty winner list for the raffle if it is not
// cached yet.
func (c *Cache) EnsureRaffle(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.raffles[name]; !ok {
		c.raffles[name] = []int64{}
	}
}

func (c *Cache) AppendWinner(name string, userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.raffles[name] = append(c.raffles[name], userID)
}

// RemoveRaffle evicts an archived raffle from the projection.
func (c *Cache) RemoveRaffle(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.raffles, name)
}

func (c *Cache) ResetRaffles() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = map[int64]models.Stat{}
	c.picked = map[int64]struct{}{}
	c.raffles = map[string][]int64{}
}

func (c *Cache) ResetAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

func (c *Cache) Registered(userID int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.links[userID]
	return ok
}

func (c *Cache) Link(userID int64) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.links[userID]
}

func (c *Cache) RegisteredIDs() []int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]int64, 0, len(c.links))
	for id := range c.links {
		ids = append(ids, id)
	}
	return ids
}

func (c *Cache) RegisteredCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.links)
}

func (c *Cache) Stats(userID int64) models.Stat {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats[userID]
	s.UserID = userID
	return s
}

func (c *Cache) AlwaysPickIDs() []int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]int64, 0, len(c.alwaysPick))
	for id := range c.alwaysPick {
		ids = append(ids, id)
	}
	return ids
}

func (c *Cache) IsAlwaysPick(userID int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.alwaysPick[userID]
	return ok
}

func (c *Cache) IsPicked(userID int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.picked[userID]
	return ok
}

func (c *Cache) PickedCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.picked)
}

func (c *Cache) HasRaffle(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.raffles[name]
	return ok
}

// RaffleWinners returns a copy of the raffle's winner list in pick
// order.
func (c *Cache) RaffleWinners(name string) []int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]int64{}, c.raffles[name]...)
}

func (c *Cache) RaffleNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.raffles))
	for name := range c.raffles {
		names = append(names, name)
	}
	return names
}
