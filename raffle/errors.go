package raffle

import "errors"

var (
	ErrInvalidLink       = errors.New("invalid profile link")
	ErrAlreadyRegistered = errors.New("user already registered")
	ErrNotRegistered     = errors.New("user not registered")
	ErrBlacklisted       = errors.New("user is blacklisted")
	ErrNotAlwaysPick     = errors.New("user not on always-pick list")
	ErrNoEligibleUsers   = errors.New("no eligible users available")
	ErrRaffleArchived    = errors.New("raffle is archived")
)
