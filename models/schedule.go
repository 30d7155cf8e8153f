package models

import "time"

// ArchiveSchedule holds at most one pending archive time per raffle.
// Rescheduling replaces the previous time. The entry is deleted by the
// archive operation itself.
type ArchiveSchedule struct {
	RaffleName string    `gorm:"column:raffle_name;primary_key"`
	ArchiveAt  time.Time `gorm:"column:archive_at"`
}

func (ArchiveSchedule) TableName() string {
	return "archive_schedule"
}
