package game

// Status is where a stage run is in its life.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusComplete
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusComplete:
		return "complete"
	case StatusStopped:
		return "stopped"
	default:
		return "idle"
	}
}

// Phase is the step of a tick currently executing. Between ticks it is
// PhaseIdle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSense
	PhasePrepare
	PhaseResolve
	PhaseIntegrate
	PhaseEvaluate
)

func (p Phase) String() string {
	switch p {
	case PhaseSense:
		return "sense"
	case PhasePrepare:
		return "prepare"
	case PhaseResolve:
		return "resolve"
	case PhaseIntegrate:
		return "integrate"
	case PhaseEvaluate:
		return "evaluate"
	default:
		return "idle"
	}
}
