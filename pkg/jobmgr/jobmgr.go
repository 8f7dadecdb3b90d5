// Package jobmgr runs named background tasks with cancellation and in-memory
// tracking. A name can only be running once, which is how the bot enforces
// "one player loop / one playlist loader per guild": starting a duplicate
// returns ErrAlreadyRunning.
//
// Jobs receive a context and must treat cancellation as a normal exit.
// Completed jobs remove themselves.
package jobmgr

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
)

// ErrAlreadyRunning is returned by StartAsync when the name is taken.
var ErrAlreadyRunning = errors.New("job is already running")

// ErrNotRunning is returned by Stop for unknown job names.
var ErrNotRunning = errors.New("job is not running")

type job struct {
	name   string
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager orchestrates starting, stopping and tracking jobs.
// It is safe for concurrent use.
type Manager struct {
	mu   sync.Mutex
	jobs map[string]*job
}

// New creates an empty Manager.
func New() *Manager {
	return &Manager{jobs: make(map[string]*job)}
}

// StartAsync runs runner in its own goroutine under the given name and
// returns immediately. The job is removed when the runner returns, whatever
// the outcome. Context cancellation is not treated as a failure.
func (m *Manager) StartAsync(name string, runner func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(context.Background())
	j := &job{name: name, cancel: cancel, done: make(chan struct{})}

	m.mu.Lock()
	if _, exists := m.jobs[name]; exists {
		m.mu.Unlock()
		cancel()
		return ErrAlreadyRunning
	}
	m.jobs[name] = j
	m.mu.Unlock()

	go func() {
		defer close(j.done)
		err := runner(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[ERR] Job %q failed: %v", name, err)
		}

		m.mu.Lock()
		if cur, ok := m.jobs[name]; ok && cur == j {
			delete(m.jobs, name)
		}
		m.mu.Unlock()
	}()

	return nil
}

// Stop cancels a running job by name. It does not wait for the runner to
// observe the cancellation; use StopWait for that.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	j, ok := m.jobs[name]
	if ok {
		delete(m.jobs, name)
	}
	m.mu.Unlock()

	if !ok {
		return ErrNotRunning
	}
	j.cancel()
	return nil
}

// StopWait cancels a job and blocks until its runner has returned.
func (m *Manager) StopWait(name string) error {
	m.mu.Lock()
	j, ok := m.jobs[name]
	if ok {
		delete(m.jobs, name)
	}
	m.mu.Unlock()

	if !ok {
		return ErrNotRunning
	}
	j.cancel()
	<-j.done
	return nil
}

// IsRunning reports whether a job with the given name is active.
func (m *Manager) IsRunning(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.jobs[name]
	return ok
}

// List returns the sorted names of active jobs.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for name := range m.jobs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
