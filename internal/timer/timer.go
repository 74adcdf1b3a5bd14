package timer

// State of a practice session countdown.
type State int

const (
	Inactive State = iota
	Running
	Paused
	Completed
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Timer is the countdown state. Duration and Remaining are in seconds.
type Timer struct {
	State     State
	Duration  int
	Remaining int
}

// Action is a closed set of timer transitions. Apply dispatches on the
// concrete variant.
type Action interface {
	isAction()
}

type Start struct {
	Duration int
}

type Tick struct{}

type Pause struct{}

type Resume struct{}

type Reset struct{}

func (Start) isAction()  {}
func (Tick) isAction()   {}
func (Pause) isAction()  {}
func (Resume) isAction() {}
func (Reset) isAction()  {}

// Apply is the pure transition function over (timer, action). Invalid
// transitions leave the timer unchanged; the remaining time only decreases
// while strictly in Running.
func Apply(t Timer, a Action) Timer {
	switch a := a.(type) {
	case Start:
		if t.State != Inactive || a.Duration <= 0 {
			return t
		}
		return Timer{State: Running, Duration: a.Duration, Remaining: a.Duration}

	case Tick:
		if t.State != Running {
			return t
		}
		t.Remaining--
		if t.Remaining <= 0 {
			t.Remaining = 0
			t.State = Completed
		}
		return t

	case Pause:
		if t.State != Running {
			return t
		}
		t.State = Paused
		return t

	case Resume:
		if t.State != Paused {
			return t
		}
		t.State = Running
		return t

	case Reset:
		return Timer{State: Inactive, Duration: t.Duration, Remaining: t.Duration}

	default:
		return t
	}
}
