package database

import (
	"time"

	"github.com/jinzhu/gorm"

	"github.com/voxcommunity/rafflebot/models"
)

// CreateRaffle inserts the raffle if it does not exist yet and reports
// whether the row is new. Creating an existing raffle is a no-op.
func (d *Datastore) CreateRaffle(name string) (bool, error) {
	var count int
	err := d.db.Model(&models.Raffle{}).Where("raffle_name = ?", name).Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	err = d.db.Create(&models.Raffle{Name: name, CreatedAt: time.Now().UTC()}).Error
	return err == nil, err
}

func (d *Datastore) IsArchived(name string) (bool, error) {
	var raffle models.Raffle
	err := d.db.Where("raffle_name = ?", name).First(&raffle).Error
	if gorm.IsRecordNotFoundError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return raffle.Archived, nil
}

// RecordWin persists one winner as a single unit: the winner record, the
// pick-state entry and the win counter move together or not at all. The
// user and stat rows are created when missing. Recording the same
// (raffle, user) pair twice leaves everything unchanged, keeping
// stats.wins equal to the user's winner-record count.
func (d *Datastore) RecordWin(name string, userID int64) error {
	tx := d.db.Begin()
	var count int
	err := tx.Model(&models.RaffleWinner{}).
		Where("raffle_name = ? AND user_id = ?", name, userID).
		Count(&count).Error
	if err != nil {
		tx.Rollback()
		return err
	}
	if count > 0 {
		tx.Rollback()
		return nil
	}
	if err := ensureUserStat(tx, userID); err != nil {
		tx.Rollback()
		return err
	}
	win := models.RaffleWinner{RaffleName: name, UserID: userID, PickedAt: time.Now().UTC()}
	if err := tx.Create(&win).Error; err != nil {
		tx.Rollback()
		return err
	}
	var picked models.PickState
	if err := tx.Where(models.PickState{UserID: userID}).FirstOrCreate(&picked).Error; err != nil {
		tx.Rollback()
		return err
	}
	err = tx.Model(&models.Stat{}).Where("user_id = ?", userID).
		Update("wins", gorm.Expr("wins + ?", 1)).Error
	if err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// ArchiveRaffle marks the raffle archived and drops its schedule entry
// in one transaction. Archiving an already-archived raffle is a no-op.
func (d *Datastore) ArchiveRaffle(name string) error {
	tx := d.db.Begin()
	err := tx.Model(&models.Raffle{}).Where("raffle_name = ?", name).
		Update("archived", true).Error
	if err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("raffle_name = ?", name).Delete(&models.ArchiveSchedule{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func (d *Datastore) ActiveRaffles() ([]string, error) {
	var names []string
	err := d.db.Model(&models.Raffle{}).Where("archived = ?", false).
		Order("created_at ASC").Pluck("raffle_name", &names).Error
	return names, err
}

func (d *Datastore) ArchivedRaffles() ([]string, error) {
	var names []string
	err := d.db.Model(&models.Raffle{}).Where("archived = ?", true).
		Order("created_at ASC").Pluck("raffle_name", &names).Error
	return names, err
}

// WinnerIDs returns the raffle's winners in pick order. Used for exports
// once the raffle is archived and gone from the cache.
func (d *Datastore) WinnerIDs(name string) ([]int64, error) {
	var ids []int64
	err := d.db.Model(&models.RaffleWinner{}).Where("raffle_name = ?", name).
		Order("picked_at ASC").Pluck("user_id", &ids).Error
	return ids, err
}

func (d *Datastore) HasWinners(name string) (bool, error) {
	var count int
	err := d.db.Model(&models.RaffleWinner{}).Where("raffle_name = ?", name).
		Count(&count).Error
	return count > 0, err
}

// UserWins lists the raffle names the user has won, across active and
// archived raffles.
func (d *Datastore) UserWins(userID int64) ([]string, error) {
	var names []string
	err := d.db.Model(&models.RaffleWinner{}).
		Joins("JOIN raffles ON raffles.raffle_name = raffle_winners.raffle_name").
		Where("raffle_winners.user_id = ?", userID).
		Order("raffle_winners.picked_at ASC").
		Pluck("raffle_winners.raffle_name", &names).Error
	return names, err
}
