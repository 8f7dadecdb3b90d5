package music

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// idleTimeout is how long the player waits on an empty queue before
// disconnecting for inactivity.
const idleTimeout = 300 * time.Second

// Output is the audio subsystem collaborator. Play starts asynchronous audio
// output for a track and reports completion through done, which the player
// bridges into its finished signal. The volume callback is sampled
// continuously so volume changes apply mid-track.
type Output interface {
	Connected() bool
	Play(track Track, volume func() float64, done func(error)) (stop func(), err error)
	SetPaused(paused bool)
	Paused() bool
	Disconnect()
}

// Events is how the player surfaces user-visible state changes without
// knowing anything about message rendering.
type Events interface {
	MenuUpdate(s *Session)
	PlaybackFailed(s *Session, t Track)
	IdleTimeout(s *Session)
	PlayerClosed(s *Session)
}

// Resolver turns a free-text query into a playable track. Implementations
// must be safe for concurrent use; failed lookups return an error, never a
// panic or a zero Track with nil error.
type Resolver interface {
	Resolve(ctx context.Context, query string, requester Requester) (Track, error)
}

// Player is the per-guild playback loop. One instance runs per guild while
// the bot is in a voice channel; the job manager enforces that.
type Player struct {
	session *Session
	out     Output
	events  Events
	cleanup func()

	finished  *finishSignal
	idleAfter time.Duration

	mu   sync.Mutex
	stop func()
}

// NewPlayer builds a player loop over a session and an audio output.
// cleanup runs exactly once when the loop exits, whatever the reason; the
// bot uses it to stop the playlist loader and drop the session from the
// registry.
func NewPlayer(session *Session, out Output, events Events, cleanup func()) *Player {
	return &Player{
		session:   session,
		out:       out,
		events:    events,
		cleanup:   cleanup,
		finished:  newFinishSignal(),
		idleAfter: idleTimeout,
	}
}

// Run executes the playback loop until the queue stays empty past the idle
// timeout, the voice connection drops, or ctx is cancelled. Cancellation is
// a normal exit.
func (p *Player) Run(ctx context.Context) error {
	defer p.close()

	for {
		p.finished.Reset()

		if !p.out.Connected() {
			log.Printf("[Player] %s: voice connection lost, cleaning up", p.session.GuildID)
			return nil
		}

		track, err := p.session.DequeueWait(ctx, p.idleAfter)
		if err != nil {
			if errors.Is(err, ErrDequeueTimeout) {
				if _, _, playing := p.session.Current(); playing {
					continue
				}
				log.Printf("[Player] %s: queue empty for %s, disconnecting", p.session.GuildID, p.idleAfter)
				p.events.IdleTimeout(p.session)
				return nil
			}
			return err // context cancelled
		}

		p.session.SetCurrent(track)

		stop, err := p.out.Play(track, p.session.Volume, p.onPlaybackDone)
		started := err == nil
		if err != nil {
			// A bad track must not stall the loop: report and advance.
			log.Printf("[ERR] [Player] %s: failed to start %q: %v", p.session.GuildID, track.Title, err)
			p.events.PlaybackFailed(p.session, track)
			p.finished.Fire()
		} else {
			p.setStop(stop)
			p.session.MarkStarted()
			log.Printf("[Player] %s: now playing %q", p.session.GuildID, track.Title)
		}

		p.events.MenuUpdate(p.session)

		select {
		case <-ctx.Done():
			p.stopPlayback()
			return ctx.Err()
		case <-p.finished.C():
		}

		p.setStop(nil)

		// A track that never started is not requeued by loop mode; doing so
		// would retry the same broken track forever.
		if started {
			switch p.session.Loop() {
			case LoopTrack:
				p.session.EnqueueFront(track)
			case LoopQueue:
				if err := p.session.Enqueue(track); err != nil {
					log.Printf("[WARN] [Player] %s: queue-loop requeue dropped: %v", p.session.GuildID, err)
				}
			}
		}

		p.session.ClearCurrent()
	}
}

// Skip stops the current playback; the finished signal then advances the loop.
func (p *Player) Skip() {
	p.stopPlayback()
}

func (p *Player) onPlaybackDone(err error) {
	if err != nil {
		log.Printf("[ERR] [Player] %s: playback ended with error: %v", p.session.GuildID, err)
	}
	p.finished.Fire()
}

func (p *Player) setStop(stop func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stop = stop
}

func (p *Player) stopPlayback() {
	p.mu.Lock()
	stop := p.stop
	p.stop = nil
	p.mu.Unlock()

	if stop != nil {
		stop()
	}
}

func (p *Player) close() {
	p.stopPlayback()
	p.session.ClearCurrent()
	p.events.PlayerClosed(p.session)
	p.out.Disconnect()
	if p.cleanup != nil {
		p.cleanup()
	}
	log.Printf("[Player] %s: loop terminated", p.session.GuildID)
}
