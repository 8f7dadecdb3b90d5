package music

import (
	"context"
	"log"
	"time"

	"golang.org/x/time/rate"
)

const (
	// peerBatchSize is how many pending queries one batch resolves.
	peerBatchSize = 20
	// peerLowWater is the queue occupancy at or below which the next batch
	// is pulled.
	peerLowWater = 5
	// peerPollInterval is the sleep between occupancy checks.
	peerPollInterval = 5 * time.Second
	// peerResolveInterval spaces consecutive search calls inside a batch.
	peerResolveInterval = 500 * time.Millisecond
)

// Loader incrementally converts a playlist's pending search queries into
// queued tracks. It resolves the first entry eagerly so playback can start,
// then tops the queue up in throttled batches whenever it drains to the
// low-water mark, instead of resolving the whole playlist up front.
type Loader struct {
	session  *Session
	resolver Resolver
	events   Events
	limiter  *rate.Limiter
	poll     time.Duration

	// OnFirst, when set, is told how the eager first resolution went so the
	// invoking command can update its progress message.
	OnFirst func(t Track, ok bool)
}

func NewLoader(session *Session, resolver Resolver, events Events) *Loader {
	return &Loader{
		session:  session,
		resolver: resolver,
		events:   events,
		limiter:  rate.NewLimiter(rate.Every(peerResolveInterval), 1),
		poll:     peerPollInterval,
	}
}

// Run drives the incremental load until the pending list is empty or ctx is
// cancelled. Individual resolution failures are skipped; on exit the playlist
// is marked inactive, unless a replacement load has already taken over, while
// already-queued tracks stay playable.
func (l *Loader) Run(ctx context.Context) error {
	gen := l.session.playlistGeneration()
	defer l.session.endPlaylist(gen)

	requester := l.session.Playlist().Requester
	log.Printf("[Loader] %s: playlist load started (%d tracks)", l.session.GuildID, l.session.Playlist().Total)

	// Resolve the first entry eagerly so playback starts right away.
	if query, ok := l.session.PopPending(); ok {
		track, err := l.resolve(ctx, query, requester)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("[WARN] [Loader] %s: first track %q not found: %v", l.session.GuildID, query, err)
			if l.OnFirst != nil {
				l.OnFirst(Track{}, false)
			}
		} else {
			if err := ctx.Err(); err != nil {
				return err
			}
			ok := l.session.EnqueuePlaylistTrack(track)
			if l.OnFirst != nil {
				l.OnFirst(track, ok)
			}
		}
	}

	for l.session.PendingCount() > 0 {
		if l.session.QueueLen() <= peerLowWater {
			if err := l.loadBatch(ctx, requester); err != nil {
				return err
			}
			l.events.MenuUpdate(l.session)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.poll):
		}
	}

	log.Printf("[Loader] %s: playlist load finished", l.session.GuildID)
	return nil
}

func (l *Loader) loadBatch(ctx context.Context, requester Requester) error {
	batch := l.session.NextPendingBatch(peerBatchSize)
	for _, query := range batch {
		if err := l.limiter.Wait(ctx); err != nil {
			return err
		}

		track, err := l.resolve(ctx, query, requester)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Skip the miss, keep the batch going.
			log.Printf("[WARN] [Loader] %s: skipping %q: %v", l.session.GuildID, query, err)
			continue
		}

		// A replacement playlist flips playlistActive back on before this
		// loader sees its cancellation; re-check so a stale resolve cannot
		// leak into the new load.
		if err := ctx.Err(); err != nil {
			return err
		}

		if !l.session.EnqueuePlaylistTrack(track) {
			if !l.session.Playlist().Active {
				// Playlist was reset underneath us; the session already
				// dropped our state (pending list included), stop producing.
				log.Printf("[Loader] %s: playlist no longer active, stopping", l.session.GuildID)
				return nil
			}
			// Queue at capacity: explicit drop policy, the miss is logged.
			log.Printf("[WARN] [Loader] %s: queue full, dropping %q", l.session.GuildID, track.Title)
		}
	}
	return nil
}

func (l *Loader) resolve(ctx context.Context, query string, requester Requester) (Track, error) {
	if err := ctx.Err(); err != nil {
		return Track{}, err
	}
	return l.resolver.Resolve(ctx, query, requester)
}
