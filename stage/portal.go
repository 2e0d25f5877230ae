package stage

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"github.com/milk9111/tilepush/common"
	"github.com/milk9111/tilepush/ecs"
	"github.com/milk9111/tilepush/obj"
	"github.com/milk9111/tilepush/stagecode"
)

// NextPortalTag returns the smallest tag, counting A, B, ... Z, BA, BB, ...
// that no live portal uses.
func (s *Stage) NextPortalTag() string {
	used := mapset.New[string]()
	for _, e := range s.byKind[obj.KindPortal] {
		o, _ := s.world.Get(e)
		used.Put(o.Portal.Tag)
	}
	for n := 0; ; n++ {
		tag := stagecode.FormatBase(n, stagecode.TagAlphabet)
		if !used.Has(tag) {
			return tag
		}
	}
}

// AddPortalPair places two linked portals. Empty tags are replaced by
// NextPortalTag; explicit tags must match and be unused.
func (s *Stage) AddPortalPair(a, b obj.Descriptor) (ecs.Entity, ecs.Entity, error) {
	a.GID, b.GID = obj.GIDPortal, obj.GIDPortal
	switch {
	case a.Tag == "" && b.Tag == "":
		tag := s.NextPortalTag()
		a.Tag, b.Tag = tag, tag
	case a.Tag != b.Tag:
		return 0, 0, fmt.Errorf("%w: tags %q and %q differ", ErrPortalPairing, a.Tag, b.Tag)
	}
	for _, e := range s.byKind[obj.KindPortal] {
		o, _ := s.world.Get(e)
		if o.Portal.Tag == a.Tag {
			return 0, 0, fmt.Errorf("%w: tag %q in use", ErrPortalPairing, a.Tag)
		}
	}

	pa, err := obj.New(a)
	if err != nil {
		return 0, 0, fmt.Errorf("stage: add portal: %w", err)
	}
	pb, err := obj.New(b)
	if err != nil {
		return 0, 0, fmt.Errorf("stage: add portal: %w", err)
	}
	ea := s.spawn(pa)
	eb := s.spawn(pb)
	pa.Portal.Counterpart = eb
	pb.Portal.Counterpart = ea
	return ea, eb, nil
}

// PortalExit places a mover leaving through portal p: one portal size out
// along p's facing, with the mover's speed redirected along that facing.
func PortalExit(p, mover *obj.Object) (x, y, vx, vy float64) {
	fx, fy := p.Ang.Facing()
	x = p.X + fx*p.W
	y = p.Y + fy*p.H
	speed := common.Speed(mover.VX, mover.VY)
	return x, y, fx * speed, fy * speed
}
