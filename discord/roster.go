// Package discord adapts a discordgo session to the platform interfaces
// the core consumes. All lookups go through the session state cache, the
// same data the gateway keeps warm.
package discord

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/voxcommunity/rafflebot/platform"
)

// Guild answers membership, presence and role questions for one guild.
type Guild struct {
	session *discordgo.Session
	guildID string
}

func NewGuild(session *discordgo.Session, guildID string) *Guild {
	return &Guild{session: session, guildID: guildID}
}

func (g *Guild) IsMember(userID int64) bool {
	member, err := g.session.State.Member(g.guildID, formatID(userID))
	return err == nil && member != nil
}

func (g *Guild) Presence(userID int64) platform.Status {
	presence, err := g.session.State.Presence(g.guildID, formatID(userID))
	if err != nil || presence == nil {
		return platform.StatusDisconnected
	}
	switch presence.Status {
	case discordgo.StatusOnline:
		return platform.StatusActive
	case discordgo.StatusIdle:
		return platform.StatusIdle
	case discordgo.StatusDoNotDisturb:
		return platform.StatusUnavailable
	default:
		return platform.StatusDisconnected
	}
}

func (g *Guild) DisplayName(userID int64) string {
	member, err := g.session.State.Member(g.guildID, formatID(userID))
	if err != nil || member == nil {
		return fmt.Sprintf("User %d", userID)
	}
	if member.Nick != "" {
		return member.Nick
	}
	if member.User != nil {
		return member.User.Username
	}
	return fmt.Sprintf("User %d", userID)
}

// GrantRole assigns the named role to the member, creating the role on
// first use.
func (g *Guild) GrantRole(userID int64, role string) error {
	roleID, err := g.ensureRole(role)
	if err != nil {
		return err
	}
	return g.session.GuildMemberRoleAdd(g.guildID, formatID(userID), roleID)
}

func (g *Guild) findRole(name string) (string, error) {
	guild, err := g.session.State.Guild(g.guildID)
	if err != nil {
		return "", err
	}
	for _, r := range guild.Roles {
		if r.Name == name {
			return r.ID, nil
		}
	}
	return "", nil
}

func (g *Guild) ensureRole(name string) (string, error) {
	roleID, err := g.findRole(name)
	if err != nil {
		return "", err
	}
	if roleID != "" {
		return roleID, nil
	}
	role, err := g.session.GuildRoleCreate(g.guildID)
	if err != nil {
		return "", err
	}
	role, err = g.session.GuildRoleEdit(g.guildID, role.ID, name, role.Color, role.Hoist, role.Permissions, role.Mentionable)
	if err != nil {
		return "", err
	}
	return role.ID, nil
}

func formatID(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// ParseID converts a Discord snowflake string to the int64 the core
// keys everything by.
func ParseID(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}
