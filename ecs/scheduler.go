package ecs

// System advances one part of the simulation for a tick context C.
type System[C any] interface {
	Update(ctx C)
}

// SystemFunc adapts a function to System.
type SystemFunc[C any] func(ctx C)

func (f SystemFunc[C]) Update(ctx C) {
	f(ctx)
}

type Scheduler[C any] struct {
	systems []System[C]
}

// NewScheduler runs systems in the given order. Nil entries are skipped.
func NewScheduler[C any](systems ...System[C]) *Scheduler[C] {
	s := &Scheduler[C]{systems: make([]System[C], 0, len(systems))}
	for _, system := range systems {
		if system != nil {
			s.systems = append(s.systems, system)
		}
	}
	return s
}

func (s *Scheduler[C]) Update(ctx C) {
	for _, system := range s.systems {
		system.Update(ctx)
	}
}
