package timer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestApply_StartOnlyFromInactive(t *testing.T) {
	started := Apply(Timer{}, Start{Duration: 1500})
	assert.Equal(t, Running, started.State)
	assert.Equal(t, 1500, started.Duration)
	assert.Equal(t, 1500, started.Remaining)

	// starting again mid-run changes nothing
	again := Apply(started, Start{Duration: 60})
	assert.Equal(t, started, again)

	// a non-positive duration is a no-op
	assert.Equal(t, Timer{}, Apply(Timer{}, Start{Duration: 0}))
}

func TestApply_DecrementOnlyWhileRunning(t *testing.T) {
	tm := Apply(Timer{}, Start{Duration: 10})

	tm = Apply(tm, Tick{})
	assert.Equal(t, 9, tm.Remaining)

	tm = Apply(tm, Pause{})
	assert.Equal(t, Paused, tm.State)

	for i := 0; i < 5; i++ {
		tm = Apply(tm, Tick{})
	}
	assert.Equal(t, 9, tm.Remaining, "paused timer must not decrement")

	tm = Apply(tm, Resume{})
	assert.Equal(t, Running, tm.State)
	tm = Apply(tm, Tick{})
	assert.Equal(t, 8, tm.Remaining)
}

func TestApply_PauseResumeCompleteScenario(t *testing.T) {
	tm := Apply(Timer{}, Start{Duration: 1500})

	for i := 0; i < 300; i++ {
		tm = Apply(tm, Tick{})
	}
	assert.Equal(t, 1200, tm.Remaining)

	tm = Apply(tm, Pause{})
	tm = Apply(tm, Resume{})

	completions := 0
	for i := 0; i < 1300; i++ {
		was := tm.State
		tm = Apply(tm, Tick{})
		if was == Running && tm.State == Completed {
			completions++
		}
	}

	assert.Equal(t, Completed, tm.State)
	assert.Equal(t, 0, tm.Remaining)
	assert.Equal(t, 1, completions, "completion must fire exactly once")

	// terminal until reset
	assert.Equal(t, tm, Apply(tm, Tick{}))
	assert.Equal(t, tm, Apply(tm, Pause{}))
	assert.Equal(t, tm, Apply(tm, Resume{}))

	tm = Apply(tm, Reset{})
	assert.Equal(t, Inactive, tm.State)
	assert.Equal(t, 1500, tm.Remaining)
}

func TestApply_ResetFromAnyState(t *testing.T) {
	states := []Timer{
		{},
		Apply(Timer{}, Start{Duration: 30}),
		Apply(Apply(Timer{}, Start{Duration: 30}), Pause{}),
	}

	for _, tm := range states {
		got := Apply(tm, Reset{})
		assert.Equal(t, Inactive, got.State)
		assert.Equal(t, tm.Duration, got.Remaining)
	}
}

func TestRunner_CompletionFiresOnce(t *testing.T) {
	done := make(chan struct{}, 2)
	r := NewRunner(3600, func() { done <- struct{}{} })
	defer r.Stop()

	// drive ticks directly instead of waiting on the wall clock
	for i := 0; i < 3600; i++ {
		r.tick()
	}
	assert.Equal(t, Completed, r.Snapshot().State)
	assert.Len(t, done, 1)

	r.tick()
	assert.Len(t, done, 1)

	r.Reset()
	assert.Equal(t, Inactive, r.Snapshot().State)
	assert.Equal(t, 3600, r.Snapshot().Remaining)
}

func TestManager_StartDiscardsPrevious(t *testing.T) {
	m := NewManager()
	user := uuid.New()
	catA := uuid.New()
	catB := uuid.New()

	m.Start(user, catA, 600, nil)
	m.Start(user, catB, 900, nil)
	defer m.Clear(user)

	s, err := m.Status(user)
	assert.NoError(t, err)
	assert.Equal(t, catB, s.CategoryID)
	assert.Equal(t, 900, s.Timer.Duration)
	assert.Equal(t, Running, s.Timer.State)
}

func TestManager_NoActiveSession(t *testing.T) {
	m := NewManager()
	user := uuid.New()

	_, err := m.Status(user)
	assert.ErrorIs(t, err, ErrNoActiveSession)
	assert.ErrorIs(t, m.Pause(user), ErrNoActiveSession)
	assert.ErrorIs(t, m.Resume(user), ErrNoActiveSession)
	assert.ErrorIs(t, m.Reset(user), ErrNoActiveSession)

	// Clear on a user with no session is harmless
	m.Clear(user)
}
