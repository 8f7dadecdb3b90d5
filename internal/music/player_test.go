package music

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOutput records play calls. By default each track finishes on its own
// right after starting; tests that drive playback by hand (skip, cancel) set
// autoFinish to false.
type fakeOutput struct {
	mu           sync.Mutex
	connected    bool
	autoFinish   bool
	paused       bool
	disconnected bool
	played       []string
	failStarts   map[string]error
	maxPlays     int
}

func newFakeOutput() *fakeOutput {
	return &fakeOutput{connected: true, autoFinish: true, failStarts: map[string]error{}, maxPlays: -1}
}

func (o *fakeOutput) Connected() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.connected
}

func (o *fakeOutput) Play(track Track, volume func() float64, done func(error)) (func(), error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err, ok := o.failStarts[track.Title]; ok {
		return nil, err
	}
	o.played = append(o.played, track.Title)
	if o.maxPlays >= 0 && len(o.played) >= o.maxPlays {
		o.connected = false
	}
	if o.autoFinish {
		go done(nil)
	}
	return func() { go done(nil) }, nil
}

func (o *fakeOutput) SetPaused(paused bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.paused = paused
}

func (o *fakeOutput) Paused() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.paused
}

func (o *fakeOutput) Disconnect() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.disconnected = true
	o.connected = false
}

func (o *fakeOutput) playedTitles() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.played))
	copy(out, o.played)
	return out
}

// fakeEvents counts notifications.
type fakeEvents struct {
	mu     sync.Mutex
	menu   int
	failed []string
	idle   int
	closed int
}

func (e *fakeEvents) MenuUpdate(*Session) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.menu++
}

func (e *fakeEvents) PlaybackFailed(_ *Session, t Track) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failed = append(e.failed, t.Title)
}

func (e *fakeEvents) IdleTimeout(*Session) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.idle++
}

func (e *fakeEvents) PlayerClosed(*Session) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed++
}

func (e *fakeEvents) snapshot() (menu int, failed []string, idle, closed int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.menu, append([]string(nil), e.failed...), e.idle, e.closed
}

func runPlayer(t *testing.T, p *Player, ctx context.Context) <-chan error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(ctx) }()
	return errCh
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestPlayerPlaysQueueInOrder(t *testing.T) {
	s := NewSession("g1")
	out := newFakeOutput()
	events := &fakeEvents{}
	cleaned := false
	p := NewPlayer(s, out, events, func() { cleaned = true })
	p.idleAfter = 50 * time.Millisecond

	require.NoError(t, s.Enqueue(track("A")))
	require.NoError(t, s.Enqueue(track("B")))

	errCh := runPlayer(t, p, context.Background())
	require.NoError(t, <-errCh)

	assert.Equal(t, []string{"A", "B"}, out.playedTitles())
	_, _, idle, closed := events.snapshot()
	assert.Equal(t, 1, idle, "empty queue past the idle window must time out")
	assert.Equal(t, 1, closed)
	assert.True(t, cleaned)
	assert.True(t, out.disconnected)

	_, _, playing := s.Current()
	assert.False(t, playing, "current track must be cleared on exit")
}

func TestPlayerAdvancesPastStartFailure(t *testing.T) {
	s := NewSession("g1")
	out := newFakeOutput()
	out.failStarts["bad"] = errors.New("stream unavailable")
	events := &fakeEvents{}
	p := NewPlayer(s, out, events, nil)
	p.idleAfter = 50 * time.Millisecond

	require.NoError(t, s.Enqueue(track("bad")))
	require.NoError(t, s.Enqueue(track("good")))

	errCh := runPlayer(t, p, context.Background())
	require.NoError(t, <-errCh)

	assert.Equal(t, []string{"good"}, out.playedTitles())
	_, failed, _, _ := events.snapshot()
	assert.Equal(t, []string{"bad"}, failed)
}

func TestPlayerLoopTrackRepeats(t *testing.T) {
	s := NewSession("g1")
	s.CycleLoop() // LoopTrack
	require.Equal(t, LoopTrack, s.Loop())

	out := newFakeOutput()
	out.maxPlays = 3 // drop the connection after three plays to end the test
	p := NewPlayer(s, out, &fakeEvents{}, nil)
	p.idleAfter = time.Second

	require.NoError(t, s.Enqueue(track("A")))
	require.NoError(t, s.Enqueue(track("B")))

	errCh := runPlayer(t, p, context.Background())
	require.NoError(t, <-errCh)

	// Track loop replays the same track instead of advancing to B.
	assert.Equal(t, []string{"A", "A", "A"}, out.playedTitles())
}

func TestPlayerLoopTrackDropsUnstartableTrack(t *testing.T) {
	s := NewSession("g1")
	s.CycleLoop() // LoopTrack
	require.Equal(t, LoopTrack, s.Loop())

	out := newFakeOutput()
	out.failStarts["bad"] = errors.New("stream unavailable")
	out.maxPlays = 2
	events := &fakeEvents{}
	p := NewPlayer(s, out, events, nil)
	p.idleAfter = time.Second

	require.NoError(t, s.Enqueue(track("bad")))
	require.NoError(t, s.Enqueue(track("good")))

	errCh := runPlayer(t, p, context.Background())
	require.NoError(t, <-errCh)

	// The unstartable track must not loop back in front of the queue, or the
	// player would retry it forever and never reach the next track.
	assert.Equal(t, []string{"good", "good"}, out.playedTitles())
	_, failed, _, _ := events.snapshot()
	assert.Equal(t, []string{"bad"}, failed, "one failure report, not a storm of retries")
}

func TestPlayerLoopQueueCycles(t *testing.T) {
	s := NewSession("g1")
	s.CycleLoop()
	s.CycleLoop() // LoopQueue
	require.Equal(t, LoopQueue, s.Loop())

	out := newFakeOutput()
	out.maxPlays = 4
	p := NewPlayer(s, out, &fakeEvents{}, nil)
	p.idleAfter = time.Second

	require.NoError(t, s.Enqueue(track("A")))
	require.NoError(t, s.Enqueue(track("B")))

	errCh := runPlayer(t, p, context.Background())
	require.NoError(t, <-errCh)

	// Queue loop re-appends each finished track, preserving rotation order.
	assert.Equal(t, []string{"A", "B", "A", "B"}, out.playedTitles())
}

func TestPlayerSkipAdvances(t *testing.T) {
	s := NewSession("g1")
	out := newFakeOutput()
	out.autoFinish = false // tracks end only when skipped
	p := NewPlayer(s, out, &fakeEvents{}, nil)
	p.idleAfter = 100 * time.Millisecond

	require.NoError(t, s.Enqueue(track("A")))
	require.NoError(t, s.Enqueue(track("B")))

	errCh := runPlayer(t, p, context.Background())

	waitFor(t, func() bool { return len(out.playedTitles()) >= 1 }, "first track never started")
	p.Skip()
	waitFor(t, func() bool { return len(out.playedTitles()) >= 2 }, "skip did not advance to the next track")
	p.Skip()

	require.NoError(t, <-errCh)
	assert.Equal(t, []string{"A", "B"}, out.playedTitles())
}

func TestPlayerStopsOnContextCancel(t *testing.T) {
	s := NewSession("g1")
	out := newFakeOutput()
	out.autoFinish = false
	events := &fakeEvents{}
	p := NewPlayer(s, out, events, nil)
	p.idleAfter = time.Minute

	require.NoError(t, s.Enqueue(track("A")))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := runPlayer(t, p, ctx)

	waitFor(t, func() bool { return len(out.playedTitles()) == 1 }, "track never started")
	cancel()

	err := <-errCh
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, out.disconnected)
	_, _, _, closed := events.snapshot()
	assert.Equal(t, 1, closed)
}

func TestPlayerExitsWhenDisconnected(t *testing.T) {
	s := NewSession("g1")
	out := newFakeOutput()
	out.connected = false
	p := NewPlayer(s, out, &fakeEvents{}, nil)

	errCh := runPlayer(t, p, context.Background())
	require.NoError(t, <-errCh)
	assert.Empty(t, out.playedTitles())
}
