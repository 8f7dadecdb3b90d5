package music

import "sync"

// finishSignal is the edge-triggered "track finished" latch. The audio
// subsystem's completion callback may fire more than once (stream end plus a
// racing stop); only the first Fire per Reset closes the channel, so the
// player loop can never double-advance.
type finishSignal struct {
	mu    sync.Mutex
	ch    chan struct{}
	fired bool
}

func newFinishSignal() *finishSignal {
	return &finishSignal{ch: make(chan struct{})}
}

// Reset arms the signal for the next playback.
func (f *finishSignal) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ch = make(chan struct{})
	f.fired = false
}

// Fire marks the current playback finished. Safe to call from any goroutine;
// repeated calls are no-ops until the next Reset.
func (f *finishSignal) Fire() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fired {
		return
	}
	f.fired = true
	close(f.ch)
}

// C returns the channel closed by Fire.
func (f *finishSignal) C() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ch
}
