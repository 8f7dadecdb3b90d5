package corecmd

import (
	"context"
	"fmt"
	"time"

	"github.com/dbatista/jukebot/internal/command"
)

// ConnectCommand verifies the Spotify credentials with a live lookup.
type ConnectCommand struct {
	Bot command.MusicBot
}

func (c *ConnectCommand) Name() string        { return "connect" }
func (c *ConnectCommand) Description() string { return "Check the Spotify connection" }
func (c *ConnectCommand) Aliases() []string   { return []string{} }

func (c *ConnectCommand) Run(ctx interface{}) error {
	origin, err := command.OriginOf(ctx)
	if err != nil {
		return err
	}

	if !origin.Bot.SpotifyEnabled() {
		return command.Reply(ctx, "Spotify credentials are not configured.")
	}

	pctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := origin.Bot.SpotifyPing(pctx); err != nil {
		return command.Reply(ctx, fmt.Sprintf("Spotify check failed: %v", err))
	}
	return command.Reply(ctx, "Spotify connection is healthy.")
}
