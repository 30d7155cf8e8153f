package models

// Stat holds the per-user counters. A Stat row never exists without its
// owning User row.
type Stat struct {
	UserID        int64 `gorm:"column:user_id;primary_key"`
	Registrations int   `gorm:"column:registrations;default:0"`
	Wins          int   `gorm:"column:wins;default:0"`
}

func (Stat) TableName() string {
	return "stats"
}
