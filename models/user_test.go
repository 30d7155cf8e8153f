package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidLink(t *testing.T) {
	cases := []struct {
		link string
		want bool
	}{
		{"https://x.com/someone", true},
		{"https://twitter.com/some_one_99", true},
		{"https://x.com/", false},
		{"http://x.com/someone", false},
		{"https://example.com/someone", false},
		{"https://x.com/someone/extra", false},
		{"", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ValidLink(c.link), c.link)
	}
}

func TestUser_ShortName(t *testing.T) {
	u := User{UserID: 123, XLink: "https://x.com/johndoe"}
	assert.Equal(t, "johndoe", u.ShortName())

	assert.Equal(t, "-", User{UserID: 1}.ShortName())
}

func TestUser_Mention(t *testing.T) {
	u := User{UserID: 123456789}
	assert.Equal(t, "<@123456789>", u.Mention())
}
