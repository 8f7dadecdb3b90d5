package command

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/dbatista/jukebot/internal/config"
	"github.com/dbatista/jukebot/internal/storage"
)

type Middleware func(Command) Command

type wrappedCommand struct {
	Command
	wrap func(ctx interface{}) error
}

func (w *wrappedCommand) Run(ctx interface{}) error {
	return w.wrap(ctx)
}

func (w *wrappedCommand) Component(ctx *ComponentContext) error {
	return w.wrap(ctx)
}

func (w *wrappedCommand) ComponentNamespace() string {
	if h, ok := w.Command.(ComponentHandler); ok {
		return h.ComponentNamespace()
	}
	return ""
}

func (w *wrappedCommand) SlashDefinition() *discordgo.ApplicationCommand {
	if sp, ok := w.Command.(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}

func ApplyMiddlewares(cmd Command, mws ...Middleware) Command {
	for _, mw := range mws {
		cmd = mw(cmd)
	}
	return cmd
}

// dispatch forwards a context to the inner command, routing component
// contexts to the component handler when the command has one.
func dispatch(cmd Command, ctx interface{}) error {
	if cctx, ok := ctx.(*ComponentContext); ok {
		if h, ok := cmd.(ComponentHandler); ok {
			return h.Component(cctx)
		}
	}
	return cmd.Run(ctx)
}

// invocation is the slice of a context the guards need, whatever the entry
// point was.
type invocation struct {
	session   *discordgo.Session
	guildID   string
	channelID string
	user      *discordgo.User
	member    *discordgo.Member
	storage   *storage.Storage
	config    *config.Config
	respond   func(content string) error
}

func invocationOf(ctx interface{}) (invocation, bool) {
	switch v := ctx.(type) {
	case *SlashContext:
		return interactionInvocation(v.Session, v.Event, v.Storage, v.Config), true
	case *ComponentContext:
		return interactionInvocation(v.Session, v.Event, v.Storage, v.Config), true
	case *MessageContext:
		return invocation{
			session:   v.Session,
			guildID:   v.Event.GuildID,
			channelID: v.Event.ChannelID,
			user:      v.Event.Author,
			member:    v.Event.Member,
			storage:   v.Storage,
			config:    v.Config,
			respond: func(content string) error {
				_, err := v.Session.ChannelMessageSend(v.Event.ChannelID, content)
				return err
			},
		}, true
	}
	return invocation{}, false
}

func interactionInvocation(s *discordgo.Session, e *discordgo.InteractionCreate, st *storage.Storage, cfg *config.Config) invocation {
	inv := invocation{
		session:   s,
		guildID:   e.GuildID,
		channelID: e.ChannelID,
		storage:   st,
		config:    cfg,
		respond: func(content string) error {
			return s.InteractionRespond(e.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{
					Content: content,
					Flags:   discordgo.MessageFlagsEphemeral,
				},
			})
		},
	}
	if e.Member != nil {
		inv.member = e.Member
		inv.user = e.Member.User
	} else {
		inv.user = e.User
	}
	return inv
}

// WithGuildOnly rejects direct-message invocations.
func WithGuildOnly(cmd Command) Command {
	return &wrappedCommand{
		Command: cmd,
		wrap: func(ctx interface{}) error {
			inv, ok := invocationOf(ctx)
			if !ok {
				return fmt.Errorf("wrong context type")
			}
			if inv.guildID == "" {
				return inv.respond("This command only works in a server.")
			}
			return dispatch(cmd, ctx)
		},
	}
}

// WithBanCheck silently drops invocations from users on the ban list. The
// check itself prunes expired entries.
func WithBanCheck(cmd Command) Command {
	return &wrappedCommand{
		Command: cmd,
		wrap: func(ctx interface{}) error {
			inv, ok := invocationOf(ctx)
			if !ok {
				return fmt.Errorf("wrong context type")
			}
			if inv.storage != nil && inv.user != nil {
				if banned, rec := inv.storage.IsBanned(inv.user.ID); banned {
					return inv.respond(banMessage(rec))
				}
			}
			return dispatch(cmd, ctx)
		},
	}
}

func banMessage(rec *storage.BanRecord) string {
	if rec.Until != nil {
		return fmt.Sprintf("You are banned from using the bot until %s.", rec.Until.UTC().Format(time.RFC1123))
	}
	return "You are banned from using the bot."
}

// WithManageGuild requires the Manage Server permission.
func WithManageGuild(cmd Command) Command {
	return &wrappedCommand{
		Command: cmd,
		wrap: func(ctx interface{}) error {
			inv, ok := invocationOf(ctx)
			if !ok {
				return fmt.Errorf("wrong context type")
			}
			allowed, err := hasManageGuild(inv)
			if err != nil {
				log.Printf("[ERR] permission lookup for %s: %v", inv.user.ID, err)
				return inv.respond("Could not verify your permissions.")
			}
			if !allowed {
				return inv.respond("You need the Manage Server permission for that.")
			}
			return dispatch(cmd, ctx)
		},
	}
}

func hasManageGuild(inv invocation) (bool, error) {
	// Interactions carry resolved permissions; messages need a state lookup.
	if inv.member != nil && inv.member.Permissions != 0 {
		return inv.member.Permissions&discordgo.PermissionManageGuild != 0, nil
	}
	perms, err := inv.session.UserChannelPermissions(inv.user.ID, inv.channelID)
	if err != nil {
		return false, err
	}
	return perms&discordgo.PermissionManageGuild != 0, nil
}

// WithOwnerOnly restricts a command to the configured bot owner.
func WithOwnerOnly(cmd Command) Command {
	return &wrappedCommand{
		Command: cmd,
		wrap: func(ctx interface{}) error {
			inv, ok := invocationOf(ctx)
			if !ok {
				return fmt.Errorf("wrong context type")
			}
			if inv.config == nil || inv.config.OwnerID == "" || inv.user == nil || inv.user.ID != inv.config.OwnerID {
				return inv.respond("Owner only.")
			}
			return dispatch(cmd, ctx)
		},
	}
}

// WithCommandLog appends the invocation to the guild's command history.
func WithCommandLog(cmd Command) Command {
	return &wrappedCommand{
		Command: cmd,
		wrap: func(ctx interface{}) error {
			inv, ok := invocationOf(ctx)
			if !ok {
				return fmt.Errorf("wrong context type")
			}
			if inv.storage != nil && inv.guildID != "" && inv.user != nil {
				inv.storage.AppendCommandToHistory(inv.guildID, storage.CommandHistoryRecord{
					ChannelID: inv.channelID,
					UserID:    inv.user.ID,
					Username:  inv.user.Username,
					Command:   cmd.Name(),
					Datetime:  time.Now().UTC(),
				})
			}
			return dispatch(cmd, ctx)
		},
	}
}
