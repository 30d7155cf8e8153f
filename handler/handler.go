package handler

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/voxcommunity/rafflebot/discord"
	"github.com/voxcommunity/rafflebot/export"
	"github.com/voxcommunity/rafflebot/platform"
	"github.com/voxcommunity/rafflebot/raffle"
	"github.com/voxcommunity/rafflebot/texts"
)

// WinnerRoleName is the role granted to winners after a draw. The grant
// is cosmetic: a failure is logged, never rolled into the draw outcome.
const WinnerRoleName = "Winner"

// archiveDelay is how far in the future an export pushes the raffle's
// archive time.
const archiveDelay = 5 * time.Minute

const commandPrefix = "!"

// Handler dispatches chat commands to the raffle service and picker.
type Handler struct {
	Service *raffle.Service
	Picker  *raffle.Picker

	// send is swapped out in tests to capture replies
	send func(s *discordgo.Session, channelID, text string) (*discordgo.Message, error)
}

func New(service *raffle.Service, picker *raffle.Picker) *Handler {
	return &Handler{
		Service: service,
		Picker:  picker,
		send: func(s *discordgo.Session, channelID, text string) (*discordgo.Message, error) {
			return s.ChannelMessageSend(channelID, text)
		},
	}
}

// HandleMessage is registered as the discordgo message-create handler.
func (handler *Handler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}
	msgtext := strings.TrimSpace(m.Content)
	if !strings.HasPrefix(msgtext, commandPrefix) {
		return
	}
	args := strings.Fields(msgtext)
	cmd := strings.TrimPrefix(args[0], commandPrefix)
	args = args[1:]

	guild := discord.NewGuild(s, m.GuildID)
	admin := handler.isAdmin(s, m)

	var err error
	switch cmd {
	case "hello":
		handler.reply(s, m, fmt.Sprintf(texts.Hello, m.Author.Mention()))
	case "register":
		err = handler.handleRegister(s, m, args)
	case "unregister":
		err = handler.handleUnregister(s, m, admin)
	case "pick":
		err = handler.requireAdmin(s, m, admin, func() error {
			return handler.handlePick(s, m, guild, guild, args)
		})
	case "reset_picks":
		err = handler.requireAdmin(s, m, admin, func() error {
			if err := handler.Service.ResetPicks(); err != nil {
				return err
			}
			handler.reply(s, m, texts.Picks_reset)
			return nil
		})
	case "status":
		err = handler.requireAdmin(s, m, admin, func() error {
			return handler.handleStatus(s, m, guild)
		})
	case "profile":
		err = handler.handleProfile(s, m, guild)
	case "wins":
		err = handler.handleWins(s, m)
	case "always_add":
		err = handler.requireAdmin(s, m, admin, func() error {
			return handler.handleAlwaysPick(s, m, true)
		})
	case "always_remove":
		err = handler.requireAdmin(s, m, admin, func() error {
			return handler.handleAlwaysPick(s, m, false)
		})
	case "always_list":
		err = handler.requireAdmin(s, m, admin, func() error {
			return handler.handleAlwaysList(s, m)
		})
	case "blacklist":
		err = handler.requireAdmin(s, m, admin, func() error {
			return handler.handleBlacklist(s, m, true)
		})
	case "unblacklist":
		err = handler.requireAdmin(s, m, admin, func() error {
			return handler.handleBlacklist(s, m, false)
		})
	case "blacklist_list":
		err = handler.requireAdmin(s, m, admin, func() error {
			return handler.handleBlacklistList(s, m)
		})
	case "list_users":
		err = handler.requireAdmin(s, m, admin, func() error {
			return handler.handleListUsers(s, m, guild)
		})
	case "export":
		err = handler.handleExport(s, m, guild, admin, args)
	case "archive":
		err = handler.handleArchiveList(s, m)
	case "reset_db":
		err = handler.requireAdmin(s, m, admin, func() error {
			if err := handler.Service.ResetAll(); err != nil {
				return err
			}
			handler.reply(s, m, texts.Db_reset)
			return nil
		})
	case "reset_raffles":
		err = handler.requireAdmin(s, m, admin, func() error {
			if err := handler.Service.ResetRaffles(); err != nil {
				return err
			}
			handler.reply(s, m, texts.Raffles_reset)
			return nil
		})
	}
	if err != nil {
		log.Printf("command %s: %v", cmd, err)
	}
}

func (handler *Handler) isAdmin(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	perms, err := s.State.UserChannelPermissions(m.Author.ID, m.ChannelID)
	return err == nil && perms&discordgo.PermissionAdministrator != 0
}

// requireAdmin rejects non-administrators without revealing anything
// about internal state.
func (handler *Handler) requireAdmin(s *discordgo.Session, m *discordgo.MessageCreate, admin bool, fn func() error) error {
	if !admin {
		handler.reply(s, m, texts.No_permission)
		return nil
	}
	return fn()
}

func (handler *Handler) reply(s *discordgo.Session, m *discordgo.MessageCreate, text string) {
	if _, err := handler.send(s, m.ChannelID, text); err != nil {
		log.Printf("sending reply: %v", err)
	}
}

func (handler *Handler) handleRegister(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if len(args) < 1 {
		handler.reply(s, m, texts.Register_usage)
		return nil
	}
	userID, err := discord.ParseID(m.Author.ID)
	if err != nil {
		return err
	}
	link := args[0]
	switch err := handler.Service.Register(userID, link); {
	case errors.Is(err, raffle.ErrInvalidLink):
		handler.reply(s, m, texts.Invalid_link)
	case errors.Is(err, raffle.ErrAlreadyRegistered):
		handler.reply(s, m, fmt.Sprintf(texts.Already_registered, m.Author.Mention(), handler.Service.Profile(userID).Link))
	case errors.Is(err, raffle.ErrBlacklisted):
		handler.reply(s, m, texts.Blacklisted_register)
	case err != nil:
		return err
	default:
		handler.reply(s, m, fmt.Sprintf(texts.Registered_ok, m.Author.Mention(), link))
	}
	return nil
}

func (handler *Handler) handleUnregister(s *discordgo.Session, m *discordgo.MessageCreate, admin bool) error {
	target := m.Author
	if len(m.Mentions) > 0 {
		target = m.Mentions[0]
	}
	if target.ID != m.Author.ID && !admin {
		handler.reply(s, m, texts.No_permission)
		return nil
	}
	targetID, err := discord.ParseID(target.ID)
	if err != nil {
		return err
	}
	switch err := handler.Service.Unregister(targetID); {
	case errors.Is(err, raffle.ErrNotRegistered):
		if target.ID == m.Author.ID {
			handler.reply(s, m, fmt.Sprintf(texts.Not_registered_self, m.Author.Mention()))
		} else {
			handler.reply(s, m, fmt.Sprintf(texts.Not_registered_other, target.Mention()))
		}
	case err != nil:
		return err
	default:
		if target.ID == m.Author.ID {
			handler.reply(s, m, fmt.Sprintf(texts.Unregistered_self, m.Author.Mention()))
		} else {
			handler.reply(s, m, fmt.Sprintf(texts.Unregistered_other, target.Mention(), m.Author.Mention()))
		}
	}
	return nil
}

func (handler *Handler) handlePick(s *discordgo.Session, m *discordgo.MessageCreate, roster platform.Roster, roles platform.RoleManager, args []string) error {
	if len(args) < 2 {
		handler.reply(s, m, texts.Pick_usage)
		return nil
	}
	number, err := strconv.Atoi(args[1])
	if err != nil || number < 1 {
		handler.reply(s, m, texts.Pick_usage)
		return nil
	}
	name := args[0]

	result, err := handler.Picker.Draw(roster, name, number)
	switch {
	case errors.Is(err, raffle.ErrNoEligibleUsers):
		handler.reply(s, m, texts.No_eligible_users)
		return nil
	case errors.Is(err, raffle.ErrRaffleArchived):
		handler.reply(s, m, texts.Raffle_archived)
		return nil
	case err != nil:
		return err
	}

	// role grants happen after the draw is committed; each failure is
	// logged on its own and never affects the result
	for _, w := range result.Winners {
		if err := roles.GrantRole(w.UserID, WinnerRoleName); err != nil {
			log.Printf("granting %s role to %d: %v", WinnerRoleName, w.UserID, err)
		}
	}

	handler.reply(s, m, winnerTable(result))
	return nil
}

func winnerTable(result *raffle.DrawResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, texts.Winners_title, result.Raffle)
	b.WriteString("\n```\nS/N | Discord Name          | X Username\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	for i, w := range result.Winners {
		fmt.Fprintf(&b, "%-3d | %-20s | %s\n", i+1, w.DisplayName, w.ShortName)
	}
	b.WriteString("```")
	return b.String()
}

func (handler *Handler) handleStatus(s *discordgo.Session, m *discordgo.MessageCreate, roster platform.Roster) error {
	report, err := handler.Service.Status(roster)
	if err != nil {
		return err
	}
	handler.reply(s, m, fmt.Sprintf(
		"Registered: %d\nOnline: %d\nOffline: %d\nAlready picked: %d\nBlacklisted: %d",
		report.Registered, report.Online, report.Offline, report.Picked, report.Blacklisted))
	return nil
}

func (handler *Handler) handleProfile(s *discordgo.Session, m *discordgo.MessageCreate, roster platform.Roster) error {
	target := m.Author
	if len(m.Mentions) > 0 {
		target = m.Mentions[0]
	}
	targetID, err := discord.ParseID(target.ID)
	if err != nil {
		return err
	}
	profile := handler.Service.Profile(targetID)
	link := profile.Link
	if link == "" {
		link = "Not registered"
	}
	bar := strings.Repeat("■", profile.Progress) + strings.Repeat("□", 10-profile.Progress)
	handler.reply(s, m, fmt.Sprintf(
		"%s's profile\nX link: %s\nStatus: %s\nRegistrations: %d\nWins: %d\nRank: %s\nProgress: [%s] %d%%",
		roster.DisplayName(targetID), link, roster.Presence(targetID),
		profile.Registrations, profile.Wins, profile.Rank, bar, profile.Progress*10))
	return nil
}

func (handler *Handler) handleWins(s *discordgo.Session, m *discordgo.MessageCreate) error {
	userID, err := discord.ParseID(m.Author.ID)
	if err != nil {
		return err
	}
	wins, err := handler.Service.Wins(userID)
	if err != nil {
		return err
	}
	if len(wins) == 0 {
		handler.reply(s, m, texts.No_wins)
		return nil
	}
	handler.reply(s, m, texts.Wins_header+"- "+strings.Join(wins, "\n- "))
	return nil
}

func (handler *Handler) handleAlwaysPick(s *discordgo.Session, m *discordgo.MessageCreate, on bool) error {
	if len(m.Mentions) == 0 {
		handler.reply(s, m, texts.Always_usage)
		return nil
	}
	target := m.Mentions[0]
	targetID, err := discord.ParseID(target.ID)
	if err != nil {
		return err
	}
	switch err := handler.Service.SetAlwaysPick(targetID, on); {
	case errors.Is(err, raffle.ErrNotAlwaysPick):
		handler.reply(s, m, fmt.Sprintf(texts.Always_not_listed, target.Mention()))
	case err != nil:
		return err
	case on:
		handler.reply(s, m, fmt.Sprintf(texts.Always_added, target.Mention()))
	default:
		handler.reply(s, m, fmt.Sprintf(texts.Always_removed, target.Mention()))
	}
	return nil
}

func (handler *Handler) handleAlwaysList(s *discordgo.Session, m *discordgo.MessageCreate) error {
	ids := handler.Service.AlwaysPickIDs()
	if len(ids) == 0 {
		handler.reply(s, m, texts.Always_empty)
		return nil
	}
	handler.reply(s, m, texts.Always_header+mentionList(ids))
	return nil
}

func (handler *Handler) handleBlacklist(s *discordgo.Session, m *discordgo.MessageCreate, on bool) error {
	if len(m.Mentions) == 0 {
		handler.reply(s, m, texts.Blacklist_usage)
		return nil
	}
	target := m.Mentions[0]
	targetID, err := discord.ParseID(target.ID)
	if err != nil {
		return err
	}
	if err := handler.Service.SetBlacklisted(targetID, on); err != nil {
		return err
	}
	if on {
		handler.reply(s, m, fmt.Sprintf(texts.Blacklisted_ok, target.Mention()))
	} else {
		handler.reply(s, m, fmt.Sprintf(texts.Unblacklisted_ok, target.Mention()))
	}
	return nil
}

func (handler *Handler) handleBlacklistList(s *discordgo.Session, m *discordgo.MessageCreate) error {
	ids, err := handler.Service.BlacklistedIDs()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		handler.reply(s, m, texts.Blacklist_empty)
		return nil
	}
	handler.reply(s, m, texts.Blacklist_header+mentionList(ids))
	return nil
}

func (handler *Handler) handleListUsers(s *discordgo.Session, m *discordgo.MessageCreate, roster platform.Roster) error {
	registrants := handler.Service.Registrants(roster)
	if len(registrants) == 0 {
		handler.reply(s, m, texts.No_users)
		return nil
	}
	var online, offline []string
	for _, p := range registrants {
		if p.Online {
			online = append(online, fmt.Sprintf("<@%d>", p.UserID))
		} else {
			offline = append(offline, fmt.Sprintf("<@%d>", p.UserID))
		}
	}
	handler.reply(s, m, fmt.Sprintf("Online (%d):\n%s\n\nOffline (%d):\n%s",
		len(online), strings.Join(online, " "), len(offline), strings.Join(offline, " ")))
	return nil
}

func (handler *Handler) handleExport(s *discordgo.Session, m *discordgo.MessageCreate, roster platform.Roster, admin bool, args []string) error {
	if len(args) == 0 {
		// bare !export lists the spaces available for exporting
		names := handler.Service.ActiveRaffles()
		if len(names) == 0 {
			handler.reply(s, m, texts.No_active_raffles)
			return nil
		}
		handler.reply(s, m, texts.Active_header+"- "+strings.Join(names, "\n- "))
		return nil
	}
	if len(args) < 2 {
		handler.reply(s, m, texts.Export_usage)
		return nil
	}
	name, format := args[0], strings.ToLower(args[1])

	hasWinners, err := handler.Service.HasWinners(name)
	if err != nil {
		return err
	}
	if !hasWinners {
		handler.reply(s, m, fmt.Sprintf(texts.No_winners, name))
		return nil
	}

	winners, err := handler.Service.WinnerRows(roster, name)
	if err != nil {
		return err
	}
	rows := make([]export.Row, len(winners))
	for i, w := range winners {
		rows[i] = export.Row{Serial: i + 1, DisplayName: w.DisplayName, ShortName: w.ShortName, Link: w.Link}
	}

	var path string
	switch format {
	case "xlsx":
		if !admin {
			handler.reply(s, m, texts.Export_excel_admins)
			return nil
		}
		path, err = export.Excel(name, rows)
	case "pdf":
		path, err = export.PDF(name, rows)
	case "png":
		path, err = export.PNG(name, rows)
	default:
		handler.reply(s, m, texts.Export_unknown_format)
		return nil
	}
	if err != nil {
		return err
	}
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := s.ChannelFileSend(m.ChannelID, name+"_winners."+format, f); err != nil {
		return err
	}

	// a successful export starts (or pushes forward) the archive clock
	return handler.Service.ScheduleArchiveIn(name, archiveDelay)
}

func (handler *Handler) handleArchiveList(s *discordgo.Session, m *discordgo.MessageCreate) error {
	names, err := handler.Service.ArchivedRaffles()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		handler.reply(s, m, texts.No_archived_raffles)
		return nil
	}
	handler.reply(s, m, texts.Archived_header+"- "+strings.Join(names, "\n- "))
	return nil
}

func mentionList(ids []int64) string {
	mentions := make([]string, len(ids))
	for i, id := range ids {
		mentions[i] = fmt.Sprintf("<@%d>", id)
	}
	return strings.Join(mentions, ", ")
}
