package models

import (
	"fmt"
	"regexp"
	"strings"
)

var linkPattern = regexp.MustCompile(`^https://(x\.com|twitter\.com)/[A-Za-z0-9_]+$`)

// User is a registered community member. Existence of the row means the
// user is registered.
type User struct {
	UserID int64  `gorm:"column:user_id;primary_key"`
	XLink  string `gorm:"column:x_link"`
}

func (User) TableName() string {
	return "users"
}

// ValidLink reports whether link is a well-formed X profile link.
func ValidLink(link string) bool {
	return linkPattern.MatchString(link)
}

// ShortName extracts the X username from the profile link, "-" if the
// user has no link on file.
func (u User) ShortName() string {
	return ShortName(u.XLink)
}

func ShortName(link string) string {
	if link == "" {
		return "-"
	}
	parts := strings.Split(link, "/")
	return parts[len(parts)-1]
}

func (u User) Mention() string {
	return fmt.Sprintf("<@%d>", u.UserID)
}
