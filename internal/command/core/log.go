package corecmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dbatista/jukebot/internal/command"
	"github.com/dbatista/jukebot/internal/logging"
)

const defaultLogLines = 20

// LogCommand posts the tail of the bot log for quick remote diagnosis.
type LogCommand struct {
	Bot command.MusicBot
}

func (c *LogCommand) Name() string        { return "log" }
func (c *LogCommand) Description() string { return "Show the last lines of the bot log" }
func (c *LogCommand) Aliases() []string   { return []string{} }

func (c *LogCommand) Run(ctx interface{}) error {
	origin, err := command.OriginOf(ctx)
	if err != nil {
		return err
	}

	lines := defaultLogLines
	if len(origin.Args) > 0 {
		if n, err := strconv.Atoi(origin.Args[0]); err == nil && n > 0 && n <= 50 {
			lines = n
		}
	}

	tail, err := logging.Tail(lines)
	if err != nil {
		return command.Reply(ctx, fmt.Sprintf("Could not read the log: %v", err))
	}
	if tail == "" {
		return command.Reply(ctx, "The log is empty.")
	}

	// Discord caps message length; keep the most recent lines that fit.
	if len(tail) > 1900 {
		tail = tail[len(tail)-1900:]
		if i := strings.IndexByte(tail, '\n'); i >= 0 {
			tail = tail[i+1:]
		}
	}
	return command.Reply(ctx, "```\n"+tail+"\n```")
}
