package database

import (
	"github.com/jinzhu/gorm"

	"github.com/voxcommunity/rafflebot/models"
)

// UpsertUser writes the user's profile link and makes sure a zero stats
// row exists, in one transaction.
func (d *Datastore) UpsertUser(userID int64, link string) error {
	tx := d.db.Begin()
	var user models.User
	err := tx.Where(models.User{UserID: userID}).
		Assign(map[string]interface{}{"x_link": link}).
		FirstOrCreate(&user).Error
	if err != nil {
		tx.Rollback()
		return err
	}
	var stat models.Stat
	if err := tx.Where(models.Stat{UserID: userID}).FirstOrCreate(&stat).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// DeleteUser removes every trace of the user except blacklist
// membership, which survives unregistration on purpose.
func (d *Datastore) DeleteUser(userID int64) error {
	tx := d.db.Begin()
	for _, m := range []interface{}{
		&models.RaffleWinner{}, &models.PickState{}, &models.AlwaysPick{},
		&models.Stat{}, &models.User{},
	} {
		if err := tx.Where("user_id = ?", userID).Delete(m).Error; err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit().Error
}

func (d *Datastore) Registered(userID int64) (bool, error) {
	var user models.User
	err := d.db.Where("user_id = ?", userID).First(&user).Error
	if gorm.IsRecordNotFoundError(err) {
		return false, nil
	}
	return err == nil, err
}

// IncrementStat adds the deltas to the user's counters. The owning user
// row is created inside the same transaction when missing, so the call
// can never trip the stats foreign key.
func (d *Datastore) IncrementStat(userID int64, deltaReg, deltaWins int) error {
	tx := d.db.Begin()
	if err := ensureUserStat(tx, userID); err != nil {
		tx.Rollback()
		return err
	}
	err := tx.Model(&models.Stat{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
		"registrations": gorm.Expr("registrations + ?", deltaReg),
		"wins":          gorm.Expr("wins + ?", deltaWins),
	}).Error
	if err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func ensureUserStat(tx *gorm.DB, userID int64) error {
	var user models.User
	if err := tx.Where(models.User{UserID: userID}).FirstOrCreate(&user).Error; err != nil {
		return err
	}
	var stat models.Stat
	return tx.Where(models.Stat{UserID: userID}).FirstOrCreate(&stat).Error
}

func (d *Datastore) Stat(userID int64) (models.Stat, error) {
	var stat models.Stat
	err := d.db.Where("user_id = ?", userID).First(&stat).Error
	if gorm.IsRecordNotFoundError(err) {
		return models.Stat{UserID: userID}, nil
	}
	return stat, err
}

func (d *Datastore) SetAlwaysPick(userID int64, on bool) error {
	if on {
		var entry models.AlwaysPick
		return d.db.Where(models.AlwaysPick{UserID: userID}).FirstOrCreate(&entry).Error
	}
	return d.db.Where("user_id = ?", userID).Delete(&models.AlwaysPick{}).Error
}

func (d *Datastore) SetPicked(userID int64, on bool) error {
	if on {
		var entry models.PickState
		return d.db.Where(models.PickState{UserID: userID}).FirstOrCreate(&entry).Error
	}
	return d.db.Where("user_id = ?", userID).Delete(&models.PickState{}).Error
}

func (d *Datastore) ResetPicks() error {
	return d.db.Delete(&models.PickState{}).Error
}

func (d *Datastore) SetBlacklisted(userID int64, on bool) error {
	if on {
		var entry models.Blacklist
		return d.db.Where(models.Blacklist{UserID: userID}).FirstOrCreate(&entry).Error
	}
	return d.db.Where("user_id = ?", userID).Delete(&models.Blacklist{}).Error
}

func (d *Datastore) IsBlacklisted(userID int64) (bool, error) {
	var entry models.Blacklist
	err := d.db.Where("user_id = ?", userID).First(&entry).Error
	if gorm.IsRecordNotFoundError(err) {
		return false, nil
	}
	return err == nil, err
}

func (d *Datastore) BlacklistedIDs() ([]int64, error) {
	var ids []int64
	err := d.db.Model(&models.Blacklist{}).Pluck("user_id", &ids).Error
	return ids, err
}
