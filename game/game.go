// Package game drives a stage: it owns the simulation state, runs ticks
// through the system schedule and reports removals and completion.
package game

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/milk9111/tilepush/ecs"
	"github.com/milk9111/tilepush/input"
	"github.com/milk9111/tilepush/obj"
	"github.com/milk9111/tilepush/prefabs"
	"github.com/milk9111/tilepush/stage"
	"github.com/milk9111/tilepush/stagecode"
	"github.com/milk9111/tilepush/system"
)

var (
	ErrNotRunning = errors.New("game: no stage running")
	ErrNoStage    = errors.New("game: nothing to reload")
)

// Game runs one stage at a time.
type Game struct {
	// OnComplete is called once, on the tick the last player leaves.
	OnComplete func()
	// OnRemove is called for every object removed during a tick.
	OnRemove func(stage.Event)
	// OnPhase, if set, observes every phase change.
	OnPhase func(Phase)

	log    log.FieldLogger
	tuning prefabs.Tuning
	stage  *stage.Stage
	sched  *ecs.Scheduler[*system.Tick]
	input  input.Buffer

	descs  []obj.Descriptor
	status Status
	phase  Phase
	ticks  int
	last   *system.Tick
}

// New creates an idle game. A nil logger uses the logrus standard logger.
func New(tuning prefabs.Tuning, logger log.FieldLogger) *Game {
	if logger == nil {
		logger = log.StandardLogger()
	}
	g := &Game{
		log:    logger,
		tuning: tuning,
		stage:  stage.New(tuning.Strengths()),
	}
	g.sched = ecs.NewScheduler(
		g.phased(PhaseSense, system.NewSenseSystem()),
		g.phased(PhasePrepare, system.NewPrepareSystem()),
		g.phased(PhaseResolve, system.NewCollisionSystem()),
		g.phased(PhaseIntegrate, system.NewIntegrateSystem()),
		g.phased(PhaseEvaluate, system.NewGoalSystem()),
	)
	return g
}

func (g *Game) phased(p Phase, s ecs.System[*system.Tick]) ecs.System[*system.Tick] {
	return ecs.SystemFunc[*system.Tick](func(t *system.Tick) {
		g.setPhase(p)
		s.Update(t)
	})
}

func (g *Game) setPhase(p Phase) {
	g.phase = p
	if g.OnPhase != nil {
		g.OnPhase(p)
	}
}

// Load starts a run of the stage described by descs.
func (g *Game) Load(descs []obj.Descriptor) error {
	if err := g.stage.Load(descs); err != nil {
		return err
	}
	g.descs = append([]obj.Descriptor(nil), descs...)
	g.start()
	g.log.WithFields(log.Fields{
		"objects": g.stage.Len(),
		"players": g.stage.Count(obj.KindPlayer),
	}).Info("stage loaded")
	return nil
}

// LoadCode starts a run of an encoded stage.
func (g *Game) LoadCode(code string) error {
	descs, err := stagecode.Decode(code)
	if err != nil {
		return err
	}
	return g.Load(descs)
}

func (g *Game) start() {
	g.stage.Events()
	g.input.Reset()
	g.status = StatusRunning
	g.phase = PhaseIdle
	g.ticks = 0
	g.last = nil
}

// Reload restarts the last loaded stage from its initial layout.
func (g *Game) Reload() error {
	if g.descs == nil {
		return ErrNoStage
	}
	g.Stop()
	return g.Load(g.descs)
}

// Stop discards the live objects. Frames and ticks do nothing until the
// next Load.
func (g *Game) Stop() {
	if g.status == StatusIdle || g.status == StatusStopped {
		return
	}
	g.stage.Clear()
	g.stage.Events()
	g.status = StatusStopped
	g.phase = PhaseIdle
	g.log.WithField("ticks", g.ticks).Info("stage stopped")
}

// Layout returns the descriptors the current stage was loaded from.
func (g *Game) Layout() []obj.Descriptor {
	return append([]obj.Descriptor(nil), g.descs...)
}

func (g *Game) Status() Status { return g.status }

func (g *Game) Phase() Phase { return g.phase }

// Ticks is the number of ticks run since the stage was loaded.
func (g *Game) Ticks() int { return g.ticks }

func (g *Game) Stage() *stage.Stage { return g.stage }

func (g *Game) Tuning() prefabs.Tuning { return g.tuning }

// Input is the key buffer the loop reads each tick.
func (g *Game) Input() *input.Buffer { return &g.input }

// Last returns the context of the most recent tick, or nil.
func (g *Game) Last() *system.Tick { return g.last }

// Active reports whether ticks still advance the simulation. A completed
// stage keeps simulating the objects left behind.
func (g *Game) Active() bool {
	return g.status == StatusRunning || g.status == StatusComplete
}

// Tick runs one fixed step with the given input.
func (g *Game) Tick(in input.Snapshot) (*system.Tick, error) {
	if !g.Active() {
		return nil, fmt.Errorf("%w (status %s)", ErrNotRunning, g.status)
	}
	t := &system.Tick{
		Stage:  g.stage,
		Input:  in,
		Tuning: g.tuning,
		Index:  g.ticks,
	}
	g.sched.Update(t)
	g.setPhase(PhaseIdle)
	g.ticks++
	g.last = t

	g.dispatch()
	if t.Completed && g.status == StatusRunning {
		g.status = StatusComplete
		g.log.WithField("ticks", g.ticks).Info("stage complete")
		if g.OnComplete != nil {
			g.OnComplete()
		}
	}
	return t, nil
}

func (g *Game) dispatch() {
	for _, ev := range g.stage.Events() {
		switch ev.Kind {
		case stage.EventRemoved:
			g.log.WithFields(log.Fields{
				"entity": ev.Entity.String(),
				"kind":   ev.Object.String(),
				"reason": string(ev.Reason),
			}).Debug("object removed")
			if g.OnRemove != nil {
				g.OnRemove(ev)
			}
		case stage.EventActivated:
			g.log.WithFields(log.Fields{
				"color":   ev.Color,
				"toggled": ev.Toggled,
			}).Debug("color activated")
		}
	}
}
