package models

// AlwaysPick members win every draw they are eligible for.
type AlwaysPick struct {
	UserID int64 `gorm:"column:user_id;primary_key"`
}

func (AlwaysPick) TableName() string {
	return "always_pick"
}

// Blacklist members can neither register nor be selected. The blacklist
// check always runs first, even against always-pick membership.
type Blacklist struct {
	UserID int64 `gorm:"column:user_id;primary_key"`
}

func (Blacklist) TableName() string {
	return "blacklist"
}

// PickState marks users who already won in the current round. Cleared
// explicitly by an operator reset.
type PickState struct {
	UserID int64 `gorm:"column:user_id;primary_key"`
}

func (PickState) TableName() string {
	return "picks_state"
}
