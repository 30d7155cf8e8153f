package raffle

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/voxcommunity/rafflebot/cache"
	"github.com/voxcommunity/rafflebot/database"
	"github.com/voxcommunity/rafflebot/models"
	"github.com/voxcommunity/rafflebot/platform"
)

// Service carries the registration, exclusion-list and reporting
// operations around the Picker. Every mutation writes the store first
// and mirrors the cache on success. Multi-step writes for the same user
// serialize on a per-user lock so concurrent requests never observe a
// half-applied registration.
type Service struct {
	store *database.Datastore
	cache *cache.Cache

	lockMu sync.Mutex
	locks  map[int64]*sync.Mutex
}

func NewService(store *database.Datastore, c *cache.Cache) *Service {
	return &Service{store: store, cache: c, locks: map[int64]*sync.Mutex{}}
}

func (s *Service) lockUser(userID int64) func() {
	s.lockMu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	s.lockMu.Unlock()
	l.Lock()
	return l.Unlock
}

// Register validates the link, rejects blacklisted and already
// registered users, then records the user and counts the registration.
func (s *Service) Register(userID int64, link string) error {
	if !models.ValidLink(link) {
		return ErrInvalidLink
	}
	unlock := s.lockUser(userID)
	defer unlock()
	if s.cache.Registered(userID) {
		return ErrAlreadyRegistered
	}
	blacklisted, err := s.store.IsBlacklisted(userID)
	if err != nil {
		return err
	}
	if blacklisted {
		return ErrBlacklisted
	}
	if err := s.store.UpsertUser(userID, link); err != nil {
		return err
	}
	if err := s.store.IncrementStat(userID, 1, 0); err != nil {
		return err
	}
	s.cache.PutUser(userID, link)
	s.cache.AddRegistration(userID)
	return nil
}

func (s *Service) Unregister(userID int64) error {
	unlock := s.lockUser(userID)
	defer unlock()
	if !s.cache.Registered(userID) {
		return ErrNotRegistered
	}
	if err := s.store.DeleteUser(userID); err != nil {
		return err
	}
	s.cache.DropUser(userID)
	return nil
}

func (s *Service) SetBlacklisted(userID int64, on bool) error {
	return s.store.SetBlacklisted(userID, on)
}

func (s *Service) BlacklistedIDs() ([]int64, error) {
	return s.store.BlacklistedIDs()
}

func (s *Service) SetAlwaysPick(userID int64, on bool) error {
	unlock := s.lockUser(userID)
	defer unlock()
	if !on && !s.cache.IsAlwaysPick(userID) {
		return ErrNotAlwaysPick
	}
	if err := s.store.SetAlwaysPick(userID, on); err != nil {
		return err
	}
	s.cache.SetAlwaysPick(userID, on)
	return nil
}

func (s *Service) AlwaysPickIDs() []int64 {
	return s.cache.AlwaysPickIDs()
}

// ResetPicks opens a new round: every previously picked user becomes
// eligible again.
func (s *Service) ResetPicks() error {
	if err := s.store.ResetPicks(); err != nil {
		return err
	}
	s.cache.ResetPicks()
	return nil
}

func (s *Service) ResetAll() error {
	if err := s.store.ResetAll(); err != nil {
		return err
	}
	s.cache.ResetAll()
	return nil
}

func (s *Service) ResetRaffles() error {
	if err := s.store.ResetRaffles(); err != nil {
		return err
	}
	s.cache.ResetRaffles()
	return nil
}

// Wins lists the raffle names the user has won, active or archived.
func (s *Service) Wins(userID int64) ([]string, error) {
	return s.store.UserWins(userID)
}

// ActiveRaffles lists the open raffles. The cache holds exactly the
// non-archived raffles, so no store round-trip is needed; sorted for
// stable output.
func (s *Service) ActiveRaffles() []string {
	names := s.cache.RaffleNames()
	sort.Strings(names)
	return names
}

func (s *Service) ArchivedRaffles() ([]string, error) {
	return s.store.ArchivedRaffles()
}

// HasWinners answers from the cache while the raffle is active and from
// the store once it has been archived and evicted.
func (s *Service) HasWinners(name string) (bool, error) {
	if s.cache.HasRaffle(name) {
		return len(s.cache.RaffleWinners(name)) > 0, nil
	}
	return s.store.HasWinners(name)
}

// ScheduleArchiveIn upserts the raffle's archive time relative to now.
// Repeated calls push the time forward.
func (s *Service) ScheduleArchiveIn(name string, d time.Duration) error {
	return s.store.ScheduleArchive(name, time.Now().UTC().Add(d))
}

// WinnerRows builds the ordered export rows for a raffle: cache order
// while active, picked_at order from the store once archived.
func (s *Service) WinnerRows(roster platform.Roster, name string) ([]Winner, error) {
	var ids []int64
	if s.cache.HasRaffle(name) {
		ids = s.cache.RaffleWinners(name)
	} else {
		var err error
		ids, err = s.store.WinnerIDs(name)
		if err != nil {
			return nil, err
		}
	}
	rows := make([]Winner, 0, len(ids))
	for _, uid := range ids {
		link := s.cache.Link(uid)
		display := roster.DisplayName(uid)
		if display == "" {
			display = fmt.Sprintf("User %d", uid)
		}
		rows = append(rows, Winner{
			UserID:      uid,
			DisplayName: display,
			ShortName:   models.ShortName(link),
			Link:        link,
		})
	}
	return rows, nil
}

// Profile is the gamified view of one user.
type Profile struct {
	UserID        int64
	Link          string
	Registrations int
	Wins          int
	Rank          string
	Progress      int // 0..10 segments towards the next rank
}

var ranks = []struct {
	lower, upper int
	name         string
}{
	{0, 5, "Newbie"},
	{6, 10, "Amateur"},
	{11, 15, "Experienced"},
	{16, 20, "Skilled"},
	{21, 25, "Advanced"},
	{26, 30, "Pro"},
}

const legendRank = "Legend" // 31 wins and up

func rankFor(wins int) (string, int) {
	for _, r := range ranks {
		if wins >= r.lower && wins <= r.upper {
			progress := (wins - r.lower) * 10 / (r.upper - r.lower + 1)
			return r.name, progress
		}
	}
	return legendRank, 10
}

func (s *Service) Profile(userID int64) Profile {
	stat := s.cache.Stats(userID)
	rank, progress := rankFor(stat.Wins)
	return Profile{
		UserID:        userID,
		Link:          s.cache.Link(userID),
		Registrations: stat.Registrations,
		Wins:          stat.Wins,
		Rank:          rank,
		Progress:      progress,
	}
}

// Registrant pairs a registered user with their current connectivity.
type Registrant struct {
	UserID int64
	Online bool
}

// Registrants lists all registered users, flagged online when they are a
// member in any connected presence state. Sorted by user id for stable
// output.
func (s *Service) Registrants(roster platform.Roster) []Registrant {
	ids := s.cache.RegisteredIDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]Registrant, 0, len(ids))
	for _, uid := range ids {
		online := roster != nil && roster.IsMember(uid) &&
			roster.Presence(uid) != platform.StatusDisconnected
		out = append(out, Registrant{UserID: uid, Online: online})
	}
	return out
}

// StatusReport summarizes the bot state for operators.
type StatusReport struct {
	Registered  int
	Online      int
	Offline     int
	Picked      int
	Blacklisted int
}

// Status counts registered users by connectivity. A nil roster skips the
// presence split (used by the HTTP endpoint, which has no guild
// context).
func (s *Service) Status(roster platform.Roster) (StatusReport, error) {
	report := StatusReport{
		Registered: s.cache.RegisteredCount(),
		Picked:     s.cache.PickedCount(),
	}
	blacklisted, err := s.store.BlacklistedIDs()
	if err != nil {
		return report, err
	}
	report.Blacklisted = len(blacklisted)
	if roster == nil {
		return report, nil
	}
	for _, uid := range s.cache.RegisteredIDs() {
		if roster.IsMember(uid) && roster.Presence(uid) != platform.StatusDisconnected {
			report.Online++
		} else {
			report.Offline++
		}
	}
	return report, nil
}
