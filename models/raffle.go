package models

import "time"

// Raffle is keyed by its name. Archived is terminal: once set it never
// reverts.
type Raffle struct {
	Name      string    `gorm:"column:raffle_name;primary_key"`
	CreatedAt time.Time `gorm:"column:created_at"`
	Archived  bool      `gorm:"column:archived;default:false"`
}

func (Raffle) TableName() string {
	return "raffles"
}

// RaffleWinner records one win. A user appears at most once per raffle.
type RaffleWinner struct {
	RaffleName string    `gorm:"column:raffle_name;primary_key"`
	UserID     int64     `gorm:"column:user_id;primary_key;auto_increment:false"`
	PickedAt   time.Time `gorm:"column:picked_at"`
}

func (RaffleWinner) TableName() string {
	return "raffle_winners"
}
