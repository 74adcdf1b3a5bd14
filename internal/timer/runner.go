package timer

import (
	"sync"
	"time"
)

// Runner drives one countdown with a ticker goroutine. The completion
// callback fires exactly once per run, on the Running -> Completed edge.
type Runner struct {
	mu         sync.Mutex
	t          Timer
	stop       chan struct{}
	stopOnce   sync.Once
	onComplete func()
	fired      bool
}

func NewRunner(durationSeconds int, onComplete func()) *Runner {
	r := &Runner{
		t:          Apply(Timer{}, Start{Duration: durationSeconds}),
		stop:       make(chan struct{}),
		onComplete: onComplete,
	}
	go r.loop()
	return r
}

func (r *Runner) loop() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.tick()
		case <-r.stop:
			return
		}
	}
}

func (r *Runner) tick() {
	r.mu.Lock()
	wasRunning := r.t.State == Running
	r.t = Apply(r.t, Tick{})
	completed := wasRunning && r.t.State == Completed && !r.fired
	if completed {
		r.fired = true
	}
	cb := r.onComplete
	r.mu.Unlock()

	if completed && cb != nil {
		cb()
	}
}

func (r *Runner) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.t = Apply(r.t, Pause{})
}

func (r *Runner) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.t = Apply(r.t, Resume{})
}

// Reset returns the countdown to Inactive with the configured duration and
// clears the completion latch.
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.t = Apply(r.t, Reset{})
	r.fired = false
}

func (r *Runner) Snapshot() Timer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.t
}

// Stop shuts the ticker goroutine down. The runner is unusable afterwards.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
}
