// Package platform defines the chat-platform surface the core depends
// on. The core never talks to Discord directly; it sees memberships,
// presence states and role management through these interfaces.
package platform

// Status is a member's presence state.
type Status int

const (
	StatusDisconnected Status = iota
	StatusActive
	StatusIdle
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusIdle:
		return "idle"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "disconnected"
	}
}

// Roster answers membership and presence questions for one community.
type Roster interface {
	IsMember(userID int64) bool
	Presence(userID int64) Status
	DisplayName(userID int64) string
}

// RoleManager grants named roles. Calls are best-effort from the core's
// perspective: a failure never affects committed draw state.
type RoleManager interface {
	GrantRole(userID int64, role string) error
}
