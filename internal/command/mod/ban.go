package modcmd

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/dbatista/jukebot/internal/command"
	"github.com/dbatista/jukebot/internal/storage"
)

var mentionPattern = regexp.MustCompile(`^<@!?(\d+)>$`)

// parseMention extracts a user ID from a raw mention or a bare ID.
func parseMention(arg string) (string, bool) {
	if m := mentionPattern.FindStringSubmatch(arg); m != nil {
		return m[1], true
	}
	if _, err := strconv.ParseUint(arg, 10, 64); err == nil {
		return arg, true
	}
	return "", false
}

type BanCommand struct {
	Bot command.MusicBot
}

func (c *BanCommand) Name() string        { return "ban" }
func (c *BanCommand) Description() string { return "Ban a user from using the bot" }
func (c *BanCommand) Aliases() []string   { return []string{} }

func (c *BanCommand) SlashDefinition() *discordgo.ApplicationCommand {
	var min float64 = 1
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "Who to ban",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "minutes",
				Description: "Ban duration in minutes (omit for permanent)",
				Required:    false,
				MinValue:    &min,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "reason",
				Description: "Why",
				Required:    false,
			},
		},
	}
}

func (c *BanCommand) Run(ctx interface{}) error {
	origin, err := command.OriginOf(ctx)
	if err != nil {
		return err
	}

	if len(origin.Args) == 0 {
		return command.Reply(ctx, "Usage: ban @user [minutes] [reason]")
	}

	targetID, ok := parseMention(origin.Args[0])
	if !ok {
		return command.Reply(ctx, "Mention the user you want to ban.")
	}
	if targetID == origin.User.ID {
		return command.Reply(ctx, "You cannot ban yourself.")
	}

	// Moderators cannot ban each other through the bot.
	perms, err := origin.Session.UserChannelPermissions(targetID, origin.ChannelID)
	if err == nil && perms&discordgo.PermissionManageGuild != 0 {
		return command.Reply(ctx, "That user moderates this server; take it up with them directly.")
	}

	rec := storage.BanRecord{BannedBy: origin.User.ID}

	rest := origin.Args[1:]
	if len(rest) > 0 {
		if minutes, err := strconv.Atoi(rest[0]); err == nil && minutes > 0 {
			until := time.Now().UTC().Add(time.Duration(minutes) * time.Minute)
			rec.Until = &until
			rest = rest[1:]
		}
	}
	rec.Reason = strings.TrimSpace(strings.Join(rest, " "))

	origin.Storage.SetBan(targetID, rec)

	msg := fmt.Sprintf("<@%s> is banned from the bot", targetID)
	if rec.Until != nil {
		msg += fmt.Sprintf(" until %s", rec.Until.Format(time.RFC1123))
	}
	if rec.Reason != "" {
		msg += fmt.Sprintf(" (%s)", rec.Reason)
	}
	return command.Reply(ctx, msg+".")
}

type UnbanCommand struct {
	Bot command.MusicBot
}

func (c *UnbanCommand) Name() string        { return "unban" }
func (c *UnbanCommand) Description() string { return "Lift a bot ban" }
func (c *UnbanCommand) Aliases() []string   { return []string{} }

func (c *UnbanCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "Who to unban",
				Required:    true,
			},
		},
	}
}

func (c *UnbanCommand) Run(ctx interface{}) error {
	origin, err := command.OriginOf(ctx)
	if err != nil {
		return err
	}

	if len(origin.Args) == 0 {
		return command.Reply(ctx, "Usage: unban @user")
	}
	targetID, ok := parseMention(origin.Args[0])
	if !ok {
		return command.Reply(ctx, "Mention the user you want to unban.")
	}

	if !origin.Storage.RemoveBan(targetID) {
		return command.Reply(ctx, "That user is not banned.")
	}
	return command.Reply(ctx, fmt.Sprintf("<@%s> can use the bot again.", targetID))
}
