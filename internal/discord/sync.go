package discord

import (
	"fmt"
	"log"

	"github.com/dbatista/jukebot/internal/command"
)

// SyncCommands registers every slash-capable command with one guild. Sync is
// explicit and per-guild; the bot never does a global rollout on startup.
func (b *Bot) SyncCommands(guildID string) error {
	appID, err := b.applicationID()
	if err != nil {
		return err
	}

	for _, cmd := range command.All() {
		sp, ok := cmd.(command.SlashProvider)
		if !ok {
			continue
		}
		def := sp.SlashDefinition()
		if def == nil {
			continue
		}
		if _, err := b.dg.ApplicationCommandCreate(appID, guildID, def); err != nil {
			return fmt.Errorf("register %s: %w", def.Name, err)
		}
		log.Printf("[INFO] [%s] Registered slash command %s", guildID, def.Name)
	}
	return nil
}

// UnsyncCommands deletes all of the bot's slash commands from one guild.
func (b *Bot) UnsyncCommands(guildID string) error {
	appID, err := b.applicationID()
	if err != nil {
		return err
	}

	existing, err := b.dg.ApplicationCommands(appID, guildID)
	if err != nil {
		return fmt.Errorf("list commands: %w", err)
	}
	for _, cmd := range existing {
		if err := b.dg.ApplicationCommandDelete(appID, guildID, cmd.ID); err != nil {
			return fmt.Errorf("delete %s: %w", cmd.Name, err)
		}
		log.Printf("[INFO] [%s] Deleted slash command %s", guildID, cmd.Name)
	}
	return nil
}

func (b *Bot) applicationID() (string, error) {
	if b.dg.State.User != nil && b.dg.State.User.ID != "" {
		return b.dg.State.User.ID, nil
	}
	user, err := b.dg.User("@me")
	if err != nil {
		return "", fmt.Errorf("fetch self: %w", err)
	}
	return user.ID, nil
}
