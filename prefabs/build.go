package prefabs

import (
	"fmt"

	"github.com/milk9111/locomotion/anim"
	"github.com/milk9111/locomotion/locomotion"
)

// BuildClips turns clip specs into clips keyed by name. Curve keys are sorted
// by time.
func BuildClips(spec AnimSetSpec) map[string]*anim.Clip {
	clips := make(map[string]*anim.Clip, len(spec.Clips))
	for _, cs := range spec.Clips {
		clip := &anim.Clip{
			Name:   cs.Name,
			Length: cs.Length,
			Loop:   cs.Loop,
			Speed:  cs.Speed,
			Curves: make(map[string]*anim.Curve, len(cs.Curves)),
		}
		for name, keys := range cs.Curves {
			curve := &anim.Curve{Keys: append([]anim.Key(nil), keys...)}
			curve.Sort()
			clip.Curves[name] = curve
		}
		clips[cs.Name] = clip
	}
	return clips
}

type clipResolver struct {
	clips map[string]*anim.Clip
	err   error
}

// get looks up name. An empty name is an unset slot; a name missing from the
// catalogue is an error.
func (r *clipResolver) get(name string) *anim.Clip {
	if name == "" || r.err != nil {
		return nil
	}
	clip, ok := r.clips[name]
	if !ok {
		r.err = fmt.Errorf("%w: %q", ErrUnknownClip, name)
		return nil
	}
	return clip
}

func (r *clipResolver) cardinals(c CardinalSpec) locomotion.CardinalClips {
	return locomotion.CardinalClips{
		Forward:  r.get(c.Forward),
		Backward: r.get(c.Backward),
		Left:     r.get(c.Left),
		Right:    r.get(c.Right),
	}
}

// BuildAnimSet resolves the anim set's clip names against clips.
func BuildAnimSet(spec AnimSetSpec, clips map[string]*anim.Clip) (locomotion.AnimSet, error) {
	r := &clipResolver{clips: clips}
	s := spec.Set

	set := locomotion.AnimSet{
		Idle:                 r.get(s.Idle),
		TurnInPlaceLeft:      r.get(s.TurnInPlaceLeft),
		TurnInPlaceRight:     r.get(s.TurnInPlaceRight),
		JogStart:             r.cardinals(s.JogStart),
		Jog:                  r.cardinals(s.Jog),
		JogStop:              r.cardinals(s.JogStop),
		JogPivot:             r.cardinals(s.JogPivot),
		JumpStart:            r.get(s.JumpStart),
		JumpStartLoop:        r.get(s.JumpStartLoop),
		JumpApex:             r.get(s.JumpApex),
		JumpFallLand:         r.get(s.JumpFallLand),
		JumpFallLoop:         r.get(s.JumpFallLoop),
		JumpRecoveryAdditive: r.get(s.JumpRecoveryAdditive),
	}
	for _, name := range s.IdleBreaks {
		if clip := r.get(name); clip != nil {
			set.IdleBreaks = append(set.IdleBreaks, clip)
		}
	}
	if r.err != nil {
		return locomotion.AnimSet{}, r.err
	}
	return set, nil
}
