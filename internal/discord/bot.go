package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/dbatista/jukebot/internal/command"
	corecmd "github.com/dbatista/jukebot/internal/command/core"
	modcmd "github.com/dbatista/jukebot/internal/command/mod"
	musiccmd "github.com/dbatista/jukebot/internal/command/music"
	"github.com/dbatista/jukebot/internal/config"
	"github.com/dbatista/jukebot/internal/music"
	"github.com/dbatista/jukebot/internal/music/resolver"
	"github.com/dbatista/jukebot/internal/music/spotify"
	"github.com/dbatista/jukebot/internal/music/stream"
	"github.com/dbatista/jukebot/internal/storage"
	"github.com/dbatista/jukebot/pkg/jobmgr"
)

// Bot is the Discord gateway wiring: it dispatches prefix commands, slash
// commands and message components, and owns per-guild audio plumbing.
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	storage  *storage.Storage
	sessions *music.Registry
	jobs     *jobmgr.Manager
	resolver *resolver.TrackResolver
	opener   *stream.Opener
	spotify  *spotify.Client // nil when credentials are absent

	// startMu serializes EnsurePlaying: the running-check, voice join and
	// map writes must not interleave across racing play commands, or the
	// loser's dead output would shadow the live one.
	startMu sync.Mutex

	mu      sync.Mutex
	outputs map[string]*stream.VoiceOutput
	players map[string]*music.Player
}

// StartBot runs the bot until ctx is cancelled.
func StartBot(ctx context.Context, cfg *config.Config, st *storage.Storage) error {
	b := &Bot{
		cfg:      cfg,
		storage:  st,
		sessions: music.NewRegistry(),
		jobs:     jobmgr.New(),
		resolver: resolver.New(),
		opener:   stream.NewOpener(),
		outputs:  make(map[string]*stream.VoiceOutput),
		players:  make(map[string]*music.Player),
	}

	if cfg.SpotifyEnabled() {
		client, err := spotify.New(ctx, cfg.SpotifyClientID, cfg.SpotifyClientSecret)
		if err != nil {
			log.Printf("[WARN] Spotify setup failed, playlist support disabled: %v", err)
		} else {
			b.spotify = client
			log.Println("[INFO] Spotify playlist support enabled")
		}
	}

	b.registerCommands()

	if err := b.run(ctx); err != nil {
		return fmt.Errorf("bot run error: %w", err)
	}
	return nil
}

func (b *Bot) run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsMessageContent

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onInteractionCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	log.Println("[INFO] Shutdown signal received. Cleaning up...")
	b.shutdown()
	return nil
}

// shutdown stops every player loop and waits for them to release their voice
// connections.
func (b *Bot) shutdown() {
	for _, name := range b.jobs.List() {
		if err := b.jobs.StopWait(name); err != nil && err != jobmgr.ErrNotRunning {
			log.Printf("[WARN] stopping %s: %v", name, err)
		}
	}
}

// registerCommands wires every command with its guards. Every entry point
// passes the ban check; moderation and owner surfaces get stricter guards.
func (b *Bot) registerCommands() {
	everyone := func(cmd command.Command) command.Command {
		return command.ApplyMiddlewares(cmd,
			command.WithCommandLog,
			command.WithBanCheck,
			command.WithGuildOnly,
		)
	}
	managers := func(cmd command.Command) command.Command {
		return command.ApplyMiddlewares(cmd,
			command.WithCommandLog,
			command.WithManageGuild,
			command.WithGuildOnly,
		)
	}
	owner := func(cmd command.Command) command.Command {
		return command.ApplyMiddlewares(cmd,
			command.WithOwnerOnly,
		)
	}

	command.Register(everyone(&musiccmd.PlayCommand{Bot: b}))
	command.Register(everyone(&musiccmd.PlaylistCommand{Bot: b}))
	command.Register(everyone(&musiccmd.QueueCommand{Bot: b}))
	command.Register(everyone(&musiccmd.VolumeCommand{Bot: b}))
	command.Register(everyone(&musiccmd.StopCommand{Bot: b}))
	command.Register(everyone(&musiccmd.NowPlayingCommand{Bot: b}))
	command.Register(everyone(&musiccmd.StatusCommand{Bot: b}))
	command.Register(everyone(&musiccmd.MenuCommand{Bot: b}))

	command.Register(managers(&modcmd.BanCommand{Bot: b}))
	command.Register(managers(&modcmd.UnbanCommand{Bot: b}))
	command.Register(managers(&modcmd.ModMenuCommand{Bot: b}))

	command.Register(owner(&corecmd.SyncCommand{Bot: b}))
	command.Register(owner(&corecmd.UnsyncCommand{Bot: b}))
	command.Register(owner(&corecmd.ResyncCommand{Bot: b}))
	command.Register(owner(&corecmd.LogCommand{Bot: b}))
	command.Register(owner(&corecmd.ConnectCommand{Bot: b}))
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("[INFO] Logged in as %s, serving %d guilds", s.State.User.Username, len(r.Guilds))
}

// onMessageCreate dispatches prefix commands: "!play never gonna give you up".
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, b.cfg.CommandPrefix) {
		return
	}

	fields := strings.Fields(strings.TrimPrefix(m.Content, b.cfg.CommandPrefix))
	if len(fields) == 0 {
		return
	}

	cmd, ok := command.Get(strings.ToLower(fields[0]))
	if !ok {
		return
	}

	ctx := &command.MessageContext{
		Session: s,
		Event:   m,
		Args:    fields[1:],
		Storage: b.storage,
		Config:  b.cfg,
		Bot:     b,
	}
	if err := cmd.Run(ctx); err != nil {
		log.Printf("[ERR] Command %s failed: %v", cmd.Name(), err)
	}
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		cmd, ok := command.Get(data.Name)
		if !ok {
			log.Printf("[WARN] Unknown slash command: %s", data.Name)
			return
		}

		ctx := &command.SlashContext{
			Session: s,
			Event:   i,
			Args:    slashArgs(data.Options),
			Storage: b.storage,
			Config:  b.cfg,
			Bot:     b,
		}
		if err := cmd.Run(ctx); err != nil {
			log.Printf("[ERR] Slash command %s failed: %v", data.Name, err)
		}

	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID

		// The namespace is everything before the first colon, matched
		// exactly. "players:x" must never reach the "player" handler.
		namespace, data := customID, ""
		if idx := strings.Index(customID, ":"); idx >= 0 {
			namespace, data = customID[:idx], customID[idx+1:]
		}

		handler, ok := command.GetComponentHandler(namespace)
		if !ok {
			log.Printf("[WARN] No component handler for %q", customID)
			return
		}

		ctx := &command.ComponentContext{
			Session: s,
			Event:   i,
			Data:    data,
			Storage: b.storage,
			Config:  b.cfg,
			Bot:     b,
		}
		if err := handler.Component(ctx); err != nil {
			log.Printf("[ERR] Component %s failed: %v", customID, err)
		}
	}
}

// slashArgs flattens interaction options into positional arguments so
// commands parse slash and prefix input the same way.
func slashArgs(options []*discordgo.ApplicationCommandInteractionDataOption) []string {
	var args []string
	for _, opt := range options {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionString:
			args = append(args, opt.StringValue())
		case discordgo.ApplicationCommandOptionInteger:
			args = append(args, fmt.Sprintf("%d", opt.IntValue()))
		case discordgo.ApplicationCommandOptionUser:
			// Commands expect a mention or bare ID.
			args = append(args, fmt.Sprintf("%v", opt.Value))
		case discordgo.ApplicationCommandOptionBoolean:
			args = append(args, fmt.Sprintf("%t", opt.BoolValue()))
		}
	}
	return args
}
