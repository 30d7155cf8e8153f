package database

import (
	"time"

	"github.com/jinzhu/gorm"

	"github.com/voxcommunity/rafflebot/models"
)

// ScheduleArchive upserts the raffle's archive time in one transaction.
// Repeated calls push the time forward instead of accumulating entries,
// and two concurrent exports of the same raffle cannot both race into
// an insert.
func (d *Datastore) ScheduleArchive(name string, at time.Time) error {
	tx := d.db.Begin()
	var entry models.ArchiveSchedule
	err := tx.Where(models.ArchiveSchedule{RaffleName: name}).
		Assign(map[string]interface{}{"archive_at": at.UTC()}).
		FirstOrCreate(&entry).Error
	if err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// DueArchives returns the raffles whose archive time has elapsed.
func (d *Datastore) DueArchives(now time.Time) ([]string, error) {
	var names []string
	err := d.db.Model(&models.ArchiveSchedule{}).Where("archive_at <= ?", now.UTC()).
		Pluck("raffle_name", &names).Error
	return names, err
}

// ArchiveTime returns the pending archive time for the raffle, if any.
func (d *Datastore) ArchiveTime(name string) (time.Time, bool, error) {
	var entry models.ArchiveSchedule
	err := d.db.Where("raffle_name = ?", name).First(&entry).Error
	if gorm.IsRecordNotFoundError(err) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return entry.ArchiveAt, true, nil
}
