package raffle

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/voxcommunity/rafflebot/cache"
	"github.com/voxcommunity/rafflebot/database"
	"github.com/voxcommunity/rafflebot/models"
	"github.com/voxcommunity/rafflebot/platform"
)

// Picker runs draws. Draws for different raffles run concurrently; draws
// for the same raffle name serialize on a per-name lock so no reader
// ever observes a half-written winner list. The lock table is shared
// with the archive watcher, which takes the same lock around its
// mark+evict sequence.
type Picker struct {
	store *database.Datastore
	cache *cache.Cache

	rngMu sync.Mutex
	rng   *rand.Rand

	locks *NameLocks
}

// NewPicker creates a Picker. A nil rng gets a time-seeded one; tests
// pass a fixed seed. A nil locks gets a private table; production
// wiring passes the table it also hands to the archive watcher.
func NewPicker(store *database.Datastore, c *cache.Cache, rng *rand.Rand, locks *NameLocks) *Picker {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if locks == nil {
		locks = NewNameLocks()
	}
	return &Picker{
		store: store,
		cache: c,
		rng:   rng,
		locks: locks,
	}
}

// Winner is one selected user with the fields exports and announcements
// need.
type Winner struct {
	UserID      int64
	DisplayName string
	ShortName   string
	Link        string
}

// DrawResult is the committed outcome of a draw. Role grants are not
// part of it: callers attempt those afterwards, best-effort.
type DrawResult struct {
	Raffle    string
	NewRaffle bool
	Winners   []Winner
}

// Draw selects up to n winners for the named raffle. Always-pick members
// who are eligible win ahead of the random sample; the rest are drawn
// uniformly without replacement from registered members in the active
// presence state. The returned order is shuffled so the priority/pool
// split is not observable. A draw with zero eligible users mutates
// nothing.
func (p *Picker) Draw(roster platform.Roster, name string, n int) (*DrawResult, error) {
	unlock := p.locks.Lock(name)
	defer unlock()

	archived, err := p.store.IsArchived(name)
	if err != nil {
		return nil, fmt.Errorf("checking raffle %q: %w", name, err)
	}
	if archived {
		return nil, ErrRaffleArchived
	}

	priority, pool, err := p.eligible(roster)
	if err != nil {
		return nil, err
	}

	winners := append([]int64{}, priority...)
	if remainder := n - len(priority); remainder > 0 && len(pool) > 0 {
		winners = append(winners, p.sample(pool, remainder)...)
	}
	if len(winners) == 0 {
		return nil, ErrNoEligibleUsers
	}
	p.shuffle(winners)

	created, err := p.store.CreateRaffle(name)
	if err != nil {
		return nil, fmt.Errorf("creating raffle %q: %w", name, err)
	}
	p.cache.EnsureRaffle(name)

	result := &DrawResult{Raffle: name, NewRaffle: created}
	for _, uid := range winners {
		if err := p.store.RecordWin(name, uid); err != nil {
			return nil, fmt.Errorf("recording winner %d for %q: %w", uid, name, err)
		}
		p.cache.SetPicked(uid, true)
		p.cache.AppendWinner(name, uid)
		p.cache.AddWin(uid)
		result.Winners = append(result.Winners, p.winner(roster, uid))
	}
	return result, nil
}

// eligible splits the current membership into the guaranteed priority
// set and the random pool. Blacklist always excludes, even for
// always-pick members. Priority needs membership only; the pool
// additionally requires the active presence state.
func (p *Picker) eligible(roster platform.Roster) (priority, pool []int64, err error) {
	for _, uid := range p.cache.AlwaysPickIDs() {
		if !roster.IsMember(uid) || p.cache.IsPicked(uid) {
			continue
		}
		blacklisted, err := p.store.IsBlacklisted(uid)
		if err != nil {
			return nil, nil, err
		}
		if blacklisted {
			continue
		}
		priority = append(priority, uid)
	}
	for _, uid := range p.cache.RegisteredIDs() {
		if p.cache.IsAlwaysPick(uid) || p.cache.IsPicked(uid) {
			continue
		}
		if !roster.IsMember(uid) || roster.Presence(uid) != platform.StatusActive {
			continue
		}
		blacklisted, err := p.store.IsBlacklisted(uid)
		if err != nil {
			return nil, nil, err
		}
		if blacklisted {
			continue
		}
		pool = append(pool, uid)
	}
	return priority, pool, nil
}

func (p *Picker) winner(roster platform.Roster, uid int64) Winner {
	link := p.cache.Link(uid)
	return Winner{
		UserID:      uid,
		DisplayName: roster.DisplayName(uid),
		ShortName:   models.ShortName(link),
		Link:        link,
	}
}

// sample draws k users uniformly without replacement.
func (p *Picker) sample(pool []int64, k int) []int64 {
	if k > len(pool) {
		k = len(pool)
	}
	p.rngMu.Lock()
	defer p.rngMu.Unlock()
	p.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return pool[:k]
}

func (p *Picker) shuffle(ids []int64) {
	p.rngMu.Lock()
	defer p.rngMu.Unlock()
	p.rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}
