package music

import (
	"context"
	"errors"
	"sync"
	"time"
)

// QueueCapacity bounds the per-guild play queue. Enqueue rejects once full;
// nothing blocks waiting for room.
const QueueCapacity = 200

var (
	// ErrQueueFull is returned by Enqueue when the queue is at capacity.
	ErrQueueFull = errors.New("queue is at capacity")
	// ErrDequeueTimeout is returned by DequeueWait when nothing arrived in time.
	ErrDequeueTimeout = errors.New("timed out waiting for a track")
)

// MenuRef locates the rendered control panel message so it can be edited.
type MenuRef struct {
	ChannelID string
	MessageID string
}

// PlaylistState is a read-only snapshot of playlist loading progress.
type PlaylistState struct {
	Active    bool
	Requester Requester
	Total     int
	Loaded    int
	Pending   int
}

// Session holds the mutable playback state of one guild. Every mutation of
// the queue and playlist fields goes through the session mutex, including the
// drain-and-rebuild paths (ResetPlaylist, MoveToFront), so they cannot race
// the player loop's dequeue.
type Session struct {
	GuildID string

	mu   sync.Mutex
	wake chan struct{}

	queue     []Track
	current   *Track
	startedAt time.Time
	loopMode  LoopMode
	volume    float64

	playlistActive    bool
	playlistGen       int
	playlistRequester Requester
	playlistTotal     int
	playlistLoaded    int
	pendingQueries    []string
	stopLoader        func()

	menu *MenuRef
}

func NewSession(guildID string) *Session {
	return &Session{
		GuildID: guildID,
		wake:    make(chan struct{}, 1),
		volume:  0.5,
	}
}

// signalWake nudges a waiting DequeueWait. Callers hold s.mu.
func (s *Session) signalWake() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Enqueue appends a track, rejecting with ErrQueueFull at capacity.
func (s *Session) Enqueue(t Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) >= QueueCapacity {
		return ErrQueueFull
	}
	s.queue = append(s.queue, t)
	s.signalWake()
	return nil
}

// EnqueueFront inserts a track at the head of the queue. Used for the
// track-loop requeue; capacity is intentionally not enforced here so a full
// queue cannot break loop mode.
func (s *Session) EnqueueFront(t Track) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue = append([]Track{t}, s.queue...)
	s.signalWake()
}

// DequeueWait pops the next track, blocking until one arrives, the timeout
// expires (ErrDequeueTimeout) or ctx is cancelled.
func (s *Session) DequeueWait(ctx context.Context, timeout time.Duration) (Track, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		s.mu.Lock()
		if len(s.queue) > 0 {
			t := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()
			return t, nil
		}
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return Track{}, ctx.Err()
		case <-timer.C:
			return Track{}, ErrDequeueTimeout
		case <-s.wake:
		}
	}
}

// QueueLen returns the current queue occupancy.
func (s *Session) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// QueueSnapshot returns a copy of the queued tracks in play order.
func (s *Session) QueueSnapshot() []Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Track, len(s.queue))
	copy(out, s.queue)
	return out
}

// MoveToFront removes the track at the given absolute index and rebuilds the
// queue with it first. The rebuild happens in one critical section so a
// concurrent dequeue sees either the old or the new order, never a partial one.
func (s *Session) MoveToFront(index int) (Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.queue) {
		return Track{}, errors.New("queue index out of range")
	}

	picked := s.queue[index]
	rebuilt := make([]Track, 0, len(s.queue))
	rebuilt = append(rebuilt, picked)
	rebuilt = append(rebuilt, s.queue[:index]...)
	rebuilt = append(rebuilt, s.queue[index+1:]...)
	s.queue = rebuilt
	return picked, nil
}

// ClearQueue drains the queue without touching playlist state.
func (s *Session) ClearQueue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = nil
}

// ResetPlaylist cancels any live playlist loader, clears the pending queries
// and drains the queue in one shot. Queue and pending queries are coupled:
// dropping only one of them would let leftover loader output repopulate the
// queue after a stop.
func (s *Session) ResetPlaylist() {
	s.mu.Lock()
	stop := s.stopLoader
	s.stopLoader = nil
	s.playlistActive = false
	s.playlistRequester = Requester{}
	s.playlistTotal = 0
	s.playlistLoaded = 0
	s.pendingQueries = nil
	s.queue = nil
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// BeginPlaylist arms playlist mode with the full list of search queries.
// Any previous playlist is reset first.
func (s *Session) BeginPlaylist(requester Requester, queries []string, stopLoader func()) {
	s.ResetPlaylist()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlistGen++
	s.playlistActive = true
	s.playlistRequester = requester
	s.playlistTotal = len(queries)
	s.pendingQueries = append([]string(nil), queries...)
	s.stopLoader = stopLoader
}

// playlistGeneration identifies the current playlist load. A loader captures
// it at start so a superseded loader cannot touch its replacement's state.
func (s *Session) playlistGeneration() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playlistGen
}

// endPlaylist marks loading finished; already-queued tracks stay playable.
// A stale generation is a superseded loader winding down and is ignored.
func (s *Session) endPlaylist(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.playlistGen {
		return
	}
	s.playlistActive = false
	s.stopLoader = nil
}

// PopPending removes and returns the next pending search query.
func (s *Session) PopPending() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pendingQueries) == 0 {
		return "", false
	}
	q := s.pendingQueries[0]
	s.pendingQueries = s.pendingQueries[1:]
	return q, true
}

// NextPendingBatch pops up to max pending queries at once.
func (s *Session) NextPendingBatch(max int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := min(max, len(s.pendingQueries))
	if n == 0 {
		return nil
	}
	batch := append([]string(nil), s.pendingQueries[:n]...)
	s.pendingQueries = s.pendingQueries[n:]
	return batch
}

// PendingCount returns how many playlist queries still await resolution.
func (s *Session) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pendingQueries)
}

// EnqueuePlaylistTrack appends a loader-resolved track, but only while the
// playlist is still active. After a reset the loader's in-flight results are
// dropped here instead of silently repopulating the queue.
func (s *Session) EnqueuePlaylistTrack(t Track) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playlistActive || len(s.queue) >= QueueCapacity {
		return false
	}
	s.queue = append(s.queue, t)
	s.playlistLoaded++
	s.signalWake()
	return true
}

// Playlist returns a snapshot of the playlist loading progress.
func (s *Session) Playlist() PlaylistState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return PlaylistState{
		Active:    s.playlistActive,
		Requester: s.playlistRequester,
		Total:     s.playlistTotal,
		Loaded:    s.playlistLoaded,
		Pending:   len(s.pendingQueries),
	}
}

// SetCurrent marks a track as the one being played.
func (s *Session) SetCurrent(t Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &t
	s.startedAt = time.Time{}
}

// MarkStarted records the moment audio output actually began.
func (s *Session) MarkStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startedAt = time.Now()
}

// ClearCurrent drops the current-track marker.
func (s *Session) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.startedAt = time.Time{}
}

// Current returns a copy of the playing track and when it started, or false
// when nothing is playing.
func (s *Session) Current() (Track, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return Track{}, time.Time{}, false
	}
	return *s.current, s.startedAt, true
}

// Volume returns the session volume, a multiplier in [0.01, 1.5].
func (s *Session) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// SetVolume clamps and stores the volume multiplier.
func (s *Session) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v < 0.01 {
		v = 0.01
	}
	if v > 1.5 {
		v = 1.5
	}
	s.volume = v
}

// Loop returns the active loop mode.
func (s *Session) Loop() LoopMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loopMode
}

// SetLoop forces a loop mode. Stop uses it so a looping track cannot
// resurrect itself after the queue is cleared.
func (s *Session) SetLoop(m LoopMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loopMode = m
}

// CycleLoop advances Off -> Track -> Queue -> Off and returns the new mode.
func (s *Session) CycleLoop() LoopMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loopMode = s.loopMode.Cycle()
	return s.loopMode
}

// Menu returns the control panel message reference, if one was sent.
func (s *Session) Menu() *MenuRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.menu
}

// SetMenu stores (or clears) the control panel message reference.
func (s *Session) SetMenu(ref *MenuRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menu = ref
}
