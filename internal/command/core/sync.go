package corecmd

import (
	"fmt"

	"github.com/dbatista/jukebot/internal/command"
)

// SyncCommand registers the slash commands with the current guild.
type SyncCommand struct {
	Bot command.MusicBot
}

func (c *SyncCommand) Name() string        { return "sync" }
func (c *SyncCommand) Description() string { return "Register slash commands in this server" }
func (c *SyncCommand) Aliases() []string   { return []string{} }

func (c *SyncCommand) Run(ctx interface{}) error {
	origin, err := command.OriginOf(ctx)
	if err != nil {
		return err
	}
	if err := origin.Bot.SyncCommands(origin.GuildID); err != nil {
		return command.Reply(ctx, fmt.Sprintf("Sync failed: %v", err))
	}
	return command.Reply(ctx, "Slash commands registered.")
}

// UnsyncCommand removes the slash commands from the current guild.
type UnsyncCommand struct {
	Bot command.MusicBot
}

func (c *UnsyncCommand) Name() string        { return "unsync" }
func (c *UnsyncCommand) Description() string { return "Remove slash commands from this server" }
func (c *UnsyncCommand) Aliases() []string   { return []string{} }

func (c *UnsyncCommand) Run(ctx interface{}) error {
	origin, err := command.OriginOf(ctx)
	if err != nil {
		return err
	}
	if err := origin.Bot.UnsyncCommands(origin.GuildID); err != nil {
		return command.Reply(ctx, fmt.Sprintf("Unsync failed: %v", err))
	}
	return command.Reply(ctx, "Slash commands removed.")
}

// ResyncCommand re-registers the slash commands, picking up definition
// changes after a deploy.
type ResyncCommand struct {
	Bot command.MusicBot
}

func (c *ResyncCommand) Name() string        { return "resync" }
func (c *ResyncCommand) Description() string { return "Re-register slash commands in this server" }
func (c *ResyncCommand) Aliases() []string   { return []string{} }

func (c *ResyncCommand) Run(ctx interface{}) error {
	origin, err := command.OriginOf(ctx)
	if err != nil {
		return err
	}
	if err := origin.Bot.UnsyncCommands(origin.GuildID); err != nil {
		return command.Reply(ctx, fmt.Sprintf("Resync failed while removing: %v", err))
	}
	if err := origin.Bot.SyncCommands(origin.GuildID); err != nil {
		return command.Reply(ctx, fmt.Sprintf("Resync failed while registering: %v", err))
	}
	return command.Reply(ctx, "Slash commands refreshed.")
}
