package database

import (
	"github.com/jinzhu/gorm"

	"github.com/voxcommunity/rafflebot/models"
)

// Datastore is the single source of truth. Every mutating method is
// individually transactional; the in-memory cache mirrors it but never
// writes anything on its own.
type Datastore struct {
	db *gorm.DB
}

// New opens the database and migrates the schema. Dialect is "postgres"
// in production and "sqlite3" in tests.
func New(dialect string, args ...interface{}) (*Datastore, error) {
	db, err := gorm.Open(dialect, args...)
	if err != nil {
		return nil, err
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Stat{},
		&models.AlwaysPick{},
		&models.Blacklist{},
		&models.PickState{},
		&models.Raffle{},
		&models.RaffleWinner{},
		&models.ArchiveSchedule{},
	).Error
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Datastore{db: db}, nil
}

func (d *Datastore) Close() error {
	return d.db.Close()
}

// Snapshot is everything the cache needs for a full rebuild. Winner
// lists only cover active raffles; archived ones are served from the
// store directly.
type Snapshot struct {
	Users      []models.User
	Stats      []models.Stat
	AlwaysPick []int64
	Picked     []int64
	Raffles    map[string][]int64
}

func (d *Datastore) Snapshot() (*Snapshot, error) {
	snap := &Snapshot{Raffles: map[string][]int64{}}
	if err := d.db.Find(&snap.Users).Error; err != nil {
		return nil, err
	}
	if err := d.db.Find(&snap.Stats).Error; err != nil {
		return nil, err
	}
	if err := d.db.Model(&models.AlwaysPick{}).Pluck("user_id", &snap.AlwaysPick).Error; err != nil {
		return nil, err
	}
	if err := d.db.Model(&models.PickState{}).Pluck("user_id", &snap.Picked).Error; err != nil {
		return nil, err
	}
	active, err := d.ActiveRaffles()
	if err != nil {
		return nil, err
	}
	for _, name := range active {
		snap.Raffles[name] = []int64{}
	}
	var winners []models.RaffleWinner
	err = d.db.
		Select("raffle_winners.*").
		Joins("JOIN raffles ON raffles.raffle_name = raffle_winners.raffle_name").
		Where("raffles.archived = ?", false).
		Order("raffle_winners.picked_at ASC").
		Find(&winners).Error
	if err != nil {
		return nil, err
	}
	for _, w := range winners {
		snap.Raffles[w.RaffleName] = append(snap.Raffles[w.RaffleName], w.UserID)
	}
	return snap, nil
}

// ResetAll clears every table.
func (d *Datastore) ResetAll() error {
	tx := d.db.Begin()
	for _, m := range []interface{}{
		&models.User{}, &models.Raffle{}, &models.Stat{}, &models.AlwaysPick{},
		&models.RaffleWinner{}, &models.PickState{}, &models.ArchiveSchedule{},
		&models.Blacklist{},
	} {
		if err := tx.Delete(m).Error; err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit().Error
}

// ResetRaffles clears raffles, winners, stats, pick state and pending
// schedules while keeping registered users and the exclusion lists.
func (d *Datastore) ResetRaffles() error {
	tx := d.db.Begin()
	for _, m := range []interface{}{
		&models.Raffle{}, &models.Stat{}, &models.RaffleWinner{},
		&models.PickState{}, &models.ArchiveSchedule{},
	} {
		if err := tx.Delete(m).Error; err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit().Error
}
