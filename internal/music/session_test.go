package music

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func track(title string) Track {
	return Track{SourceLocator: title, Title: title}
}

func TestQueueFIFO(t *testing.T) {
	s := NewSession("g1")

	for i := 0; i < 10; i++ {
		require.NoError(t, s.Enqueue(track(fmt.Sprintf("t%d", i))))
	}

	for i := 0; i < 10; i++ {
		got, err := s.DequeueWait(context.Background(), time.Second)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("t%d", i), got.Title)
	}
}

func TestEnqueueRejectsAtCapacity(t *testing.T) {
	s := NewSession("g1")

	for i := 0; i < QueueCapacity; i++ {
		require.NoError(t, s.Enqueue(track("x")))
	}
	assert.ErrorIs(t, s.Enqueue(track("overflow")), ErrQueueFull)
	assert.Equal(t, QueueCapacity, s.QueueLen())
}

func TestEnqueueFrontJumpsQueue(t *testing.T) {
	s := NewSession("g1")
	require.NoError(t, s.Enqueue(track("A")))
	require.NoError(t, s.Enqueue(track("B")))

	s.EnqueueFront(track("C"))

	got, err := s.DequeueWait(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "C", got.Title)
}

func TestDequeueWaitTimesOut(t *testing.T) {
	s := NewSession("g1")

	_, err := s.DequeueWait(context.Background(), 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrDequeueTimeout)
}

func TestDequeueWaitWakesOnEnqueue(t *testing.T) {
	s := NewSession("g1")

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = s.Enqueue(track("late"))
	}()

	got, err := s.DequeueWait(context.Background(), 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "late", got.Title)
}

func TestDequeueWaitHonorsContext(t *testing.T) {
	s := NewSession("g1")
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := s.DequeueWait(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMoveToFront(t *testing.T) {
	s := NewSession("g1")
	for _, name := range []string{"A", "B", "C", "D"} {
		require.NoError(t, s.Enqueue(track(name)))
	}

	picked, err := s.MoveToFront(2)
	require.NoError(t, err)
	assert.Equal(t, "C", picked.Title)

	var order []string
	for _, tr := range s.QueueSnapshot() {
		order = append(order, tr.Title)
	}
	assert.Equal(t, []string{"C", "A", "B", "D"}, order)
}

func TestMoveToFrontOutOfRange(t *testing.T) {
	s := NewSession("g1")
	require.NoError(t, s.Enqueue(track("A")))

	_, err := s.MoveToFront(1)
	assert.Error(t, err)
	_, err = s.MoveToFront(-1)
	assert.Error(t, err)
}

func TestResetPlaylistClearsEverything(t *testing.T) {
	s := NewSession("g1")
	stopped := false
	s.BeginPlaylist(Requester{ID: "u1"}, []string{"q1", "q2", "q3"}, func() { stopped = true })
	require.NoError(t, s.Enqueue(track("queued")))

	s.ResetPlaylist()

	assert.True(t, stopped, "loader stop hook must run")
	assert.Equal(t, 0, s.QueueLen())
	assert.Equal(t, 0, s.PendingCount())
	assert.False(t, s.Playlist().Active)

	// nothing left to dequeue
	_, err := s.DequeueWait(context.Background(), 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrDequeueTimeout)

	// a loader still holding an in-flight result cannot repopulate the queue
	assert.False(t, s.EnqueuePlaylistTrack(track("stale")))
	assert.Equal(t, 0, s.QueueLen())
}

func TestBeginPlaylistReplacesPrevious(t *testing.T) {
	s := NewSession("g1")
	firstStopped := false
	s.BeginPlaylist(Requester{ID: "u1"}, []string{"a", "b"}, func() { firstStopped = true })

	s.BeginPlaylist(Requester{ID: "u2"}, []string{"c", "d", "e"}, nil)

	assert.True(t, firstStopped)
	st := s.Playlist()
	assert.True(t, st.Active)
	assert.Equal(t, "u2", st.Requester.ID)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 3, st.Pending)
}

func TestPendingBatchAndProgress(t *testing.T) {
	s := NewSession("g1")
	s.BeginPlaylist(Requester{ID: "u1"}, []string{"a", "b", "c"}, nil)

	q, ok := s.PopPending()
	require.True(t, ok)
	assert.Equal(t, "a", q)

	batch := s.NextPendingBatch(10)
	assert.Equal(t, []string{"b", "c"}, batch)
	assert.Equal(t, 0, s.PendingCount())

	require.True(t, s.EnqueuePlaylistTrack(track("a")))
	assert.Equal(t, 1, s.Playlist().Loaded)
}

func TestVolumeClamped(t *testing.T) {
	s := NewSession("g1")

	s.SetVolume(2.0)
	assert.Equal(t, 1.5, s.Volume())

	s.SetVolume(0.0)
	assert.Equal(t, 0.01, s.Volume())

	s.SetVolume(0.75)
	assert.Equal(t, 0.75, s.Volume())
}

func TestCycleLoop(t *testing.T) {
	s := NewSession("g1")
	assert.Equal(t, LoopOff, s.Loop())
	assert.Equal(t, LoopTrack, s.CycleLoop())
	assert.Equal(t, LoopQueue, s.CycleLoop())
	assert.Equal(t, LoopOff, s.CycleLoop())
}

func TestMenuRefLifecycle(t *testing.T) {
	s := NewSession("g1")
	assert.Nil(t, s.Menu(), "a fresh session has no panel yet")

	s.SetMenu(&MenuRef{ChannelID: "c1", MessageID: "m1"})
	ref := s.Menu()
	require.NotNil(t, ref)
	assert.Equal(t, "m1", ref.MessageID)

	s.SetMenu(nil)
	assert.Nil(t, s.Menu())
}

func TestCurrentTrackLifecycle(t *testing.T) {
	s := NewSession("g1")
	_, _, playing := s.Current()
	assert.False(t, playing)

	s.SetCurrent(track("A"))
	s.MarkStarted()
	cur, startedAt, playing := s.Current()
	assert.True(t, playing)
	assert.Equal(t, "A", cur.Title)
	assert.WithinDuration(t, time.Now(), startedAt, time.Second)

	s.ClearCurrent()
	_, _, playing = s.Current()
	assert.False(t, playing)
}
