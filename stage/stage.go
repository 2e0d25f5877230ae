package stage

import (
	"errors"
	"fmt"

	"github.com/milk9111/tilepush/ecs"
	"github.com/milk9111/tilepush/obj"
)

var (
	ErrPortalPairing = errors.New("stage: portal pairing")
	ErrUnknownEntity = errors.New("stage: unknown entity")
)

// Stage is the simulation state of one stage run.
type Stage struct {
	world     *ecs.World[*obj.Object, Event]
	order     []ecs.Entity
	byKind    [len(obj.Kinds)][]ecs.Entity
	strengths obj.Strengths
}

func New(strengths obj.Strengths) *Stage {
	return &Stage{
		world:     ecs.NewWorld[*obj.Object, Event](),
		strengths: strengths,
	}
}

func (s *Stage) Strengths() obj.Strengths {
	return s.strengths
}

// Load replaces the registry with objects built from descs, in order. On
// error the registry is left exactly as it was.
func (s *Stage) Load(descs []obj.Descriptor) error {
	objs := make([]*obj.Object, 0, len(descs))
	for i, d := range descs {
		o, err := obj.New(d)
		if err != nil {
			return fmt.Errorf("stage: object %d: %w", i, err)
		}
		if o.Kind == obj.KindPortal && o.Portal.Tag == "" {
			return fmt.Errorf("%w: object %d has no tag", ErrPortalPairing, i)
		}
		o.ResetTick(s.strengths)
		objs = append(objs, o)
	}
	pairs, err := pairPortals(objs)
	if err != nil {
		return err
	}

	s.world.Reset()
	s.order = make([]ecs.Entity, len(objs))
	for i, o := range objs {
		s.order[i] = s.world.Spawn(o)
	}
	for _, p := range pairs {
		objs[p[0]].Portal.Counterpart = s.order[p[1]]
		objs[p[1]].Portal.Counterpart = s.order[p[0]]
	}
	s.reindex()
	return nil
}

// pairPortals returns index pairs of portals sharing a tag.
func pairPortals(objs []*obj.Object) ([][2]int, error) {
	byTag := map[string][]int{}
	var tags []string
	for i, o := range objs {
		if o.Kind != obj.KindPortal {
			continue
		}
		if _, ok := byTag[o.Portal.Tag]; !ok {
			tags = append(tags, o.Portal.Tag)
		}
		byTag[o.Portal.Tag] = append(byTag[o.Portal.Tag], i)
	}
	pairs := make([][2]int, 0, len(tags))
	for _, tag := range tags {
		idx := byTag[tag]
		if len(idx) != 2 {
			return nil, fmt.Errorf("%w: tag %q has %d portals", ErrPortalPairing, tag, len(idx))
		}
		pairs = append(pairs, [2]int{idx[0], idx[1]})
	}
	return pairs, nil
}

// Clear drops every object.
func (s *Stage) Clear() {
	s.world.Reset()
	s.order = nil
	s.reindex()
}

func (s *Stage) reindex() {
	var byKind [len(obj.Kinds)][]ecs.Entity
	for _, e := range s.order {
		o, ok := s.world.Get(e)
		if !ok {
			continue
		}
		byKind[o.Kind] = append(byKind[o.Kind], e)
	}
	s.byKind = byKind
}

// Get resolves a handle. Handles of removed objects do not resolve.
func (s *Stage) Get(e ecs.Entity) (*obj.Object, bool) {
	return s.world.Get(e)
}

func (s *Stage) Len() int {
	return len(s.order)
}

// Entities lists live objects in load order. The slice is replaced, never
// modified, when the registry changes.
func (s *Stage) Entities() []ecs.Entity {
	return s.order
}

// OfKind lists live objects of kind k in load order. Like Entities, the
// returned slice stays valid across removals.
func (s *Stage) OfKind(k obj.Kind) []ecs.Entity {
	return s.byKind[k]
}

func (s *Stage) Count(k obj.Kind) int {
	return len(s.byKind[k])
}

// Movers lists the independently movable objects in resolution order:
// move blocks, then push blocks, then players.
func (s *Stage) Movers() []ecs.Entity {
	out := make([]ecs.Entity, 0, s.Count(obj.KindMoveBlock)+s.Count(obj.KindPushBlock)+s.Count(obj.KindPlayer))
	out = append(out, s.byKind[obj.KindMoveBlock]...)
	out = append(out, s.byKind[obj.KindPushBlock]...)
	return append(out, s.byKind[obj.KindPlayer]...)
}

// Add places one object between ticks. Portals must be added in pairs with
// AddPortalPair.
func (s *Stage) Add(d obj.Descriptor) (ecs.Entity, error) {
	o, err := obj.New(d)
	if err != nil {
		return 0, fmt.Errorf("stage: add: %w", err)
	}
	if o.Kind == obj.KindPortal {
		return 0, fmt.Errorf("%w: portals are added in pairs", ErrPortalPairing)
	}
	return s.spawn(o), nil
}

func (s *Stage) spawn(o *obj.Object) ecs.Entity {
	o.ResetTick(s.strengths)
	e := s.world.Spawn(o)
	order := make([]ecs.Entity, len(s.order), len(s.order)+1)
	copy(order, s.order)
	s.order = append(order, e)
	s.reindex()
	return e
}

// Remove deletes e. Removing a portal removes its counterpart as well.
func (s *Stage) Remove(e ecs.Entity, reason Reason) error {
	o, ok := s.world.Get(e)
	if !ok {
		return fmt.Errorf("%w %s", ErrUnknownEntity, e)
	}
	s.despawn(e, o, reason)
	if o.Kind == obj.KindPortal {
		if cp, ok := s.world.Get(o.Portal.Counterpart); ok {
			s.despawn(o.Portal.Counterpart, cp, ReasonCounterpart)
		}
	}
	s.reindex()
	return nil
}

func (s *Stage) despawn(e ecs.Entity, o *obj.Object, reason Reason) {
	s.world.Despawn(e)
	order := make([]ecs.Entity, 0, len(s.order))
	for _, id := range s.order {
		if id != e {
			order = append(order, id)
		}
	}
	s.order = order
	s.world.Events().Push(Event{Kind: EventRemoved, Entity: e, Object: o.Kind, Reason: reason})
}

// Activate broadcasts colour c. Every block, oneway and move block on that
// channel toggles. Channel 0 reaches nothing. It returns the number of
// objects that responded.
func (s *Stage) Activate(c int) int {
	if c == 0 {
		return 0
	}
	n := 0
	for _, e := range s.order {
		o, _ := s.world.Get(e)
		if o.Color != c {
			continue
		}
		if o.Activate() {
			n++
		}
	}
	s.world.Events().Push(Event{Kind: EventActivated, Color: c, Toggled: n})
	return n
}

// Events drains the pending notifications.
func (s *Stage) Events() []Event {
	return s.world.Events().Drain()
}

// Descriptors exports the current layout in load order.
func (s *Stage) Descriptors() []obj.Descriptor {
	out := make([]obj.Descriptor, 0, len(s.order))
	for _, e := range s.order {
		o, _ := s.world.Get(e)
		out = append(out, o.Descriptor())
	}
	return out
}
