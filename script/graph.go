package script

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/milk9111/locomotion/anim"
	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/prefabs"
)

const graphDispatchScript = `
if __phase == "enter" {
	onEnter(__engine, __state, __current_state)
} else if __phase == "update" {
	update(__engine, __state, __current_state)
} else if __phase == "exit" {
	onExit(__engine, __state, __current_state)
}
`

// slot is one graph state: its state node, the clip node it drives, and
// how much of its blend-out is left once it has been exited.
type slot struct {
	id       locomotion.StateID
	parent   *slot
	state    *anim.StateNode
	clip     anim.Node
	blendOut float64
}

func (s *slot) binding() locomotion.Binding {
	return locomotion.Binding{State: s.state, Clip: s.clip}
}

// clipTime is the playback position of the slot's clip node.
func (s *slot) clipTime() (float64, *anim.Clip) {
	switch n := s.clip.(type) {
	case *anim.SequencePlayer:
		return n.Time(), n.Clip()
	case *anim.SequenceEvaluator:
		return n.AccumulatedTime(), n.Clip()
	default:
		return 0, nil
	}
}

// Graph is a flat locomotion state machine whose transitions are decided by
// a tengo script. Each tick it asks the script for a transition, runs the
// enter callbacks of any state it lands in, then the update callbacks of the
// active state, its parent, and every state still blending out.
type Graph struct {
	spec    prefabs.GraphSpec
	rt      *runtime
	log     *slog.Logger
	slots   map[locomotion.StateID]*slot
	order   []*slot
	current *slot

	pending     string
	initialized bool
	timeInState float64
	transitions int
}

type GraphOption func(*Graph)

func WithGraphLogger(l *slog.Logger) GraphOption {
	return func(g *Graph) { g.log = l }
}

// LoadGraph loads the graph's script by the path named in spec.
func LoadGraph(spec prefabs.GraphSpec, anims locomotion.AnimSet, opts ...GraphOption) (*Graph, error) {
	rt, err := loadRuntime(spec.Script, graphDispatchScript, map[string]any{"__current_state": ""})
	if err != nil {
		return nil, err
	}
	return newGraph(spec, rt, anims, opts...)
}

// NewGraph builds a graph from script source rather than a prefab path.
func NewGraph(spec prefabs.GraphSpec, src []byte, anims locomotion.AnimSet, opts ...GraphOption) (*Graph, error) {
	rt, err := compileRuntime(spec.Script, src, graphDispatchScript, map[string]any{"__current_state": ""})
	if err != nil {
		return nil, err
	}
	return newGraph(spec, rt, anims, opts...)
}

func newGraph(spec prefabs.GraphSpec, rt *runtime, anims locomotion.AnimSet, opts ...GraphOption) (*Graph, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	g := &Graph{
		spec:  spec,
		rt:    rt,
		slots: make(map[locomotion.StateID]*slot, len(spec.States)),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = slog.New(slog.DiscardHandler)
	}

	clips := clipsByName(anims)
	for _, s := range spec.States {
		id, _ := locomotion.ParseStateID(s.Name)
		sl := &slot{id: id, state: &anim.StateNode{Name: s.Name}}
		switch s.Node {
		case prefabs.NodePlayer:
			sl.clip = anim.NewSequencePlayer(clips[s.Clip])
		case prefabs.NodeEvaluator:
			sl.clip = anim.NewSequenceEvaluator(clips[s.Clip])
		}
		g.slots[id] = sl
		g.order = append(g.order, sl)
	}
	for _, s := range spec.States {
		if s.Parent == "" {
			continue
		}
		pid, ok := locomotion.ParseStateID(s.Parent)
		parent, found := g.slots[pid]
		if !ok || !found {
			return nil, fmt.Errorf("%w: parent %q of %s", prefabs.ErrUnknownState, s.Parent, s.Name)
		}
		id, _ := locomotion.ParseStateID(s.Name)
		g.slots[id].parent = parent
	}

	initial := spec.Initial
	if v, ok := rt.global("initial_state").(string); ok && strings.TrimSpace(v) != "" {
		initial = strings.TrimSpace(v)
	}
	id, ok := locomotion.ParseStateID(initial)
	if !ok || g.slots[id] == nil {
		return nil, fmt.Errorf("%w: initial %q", prefabs.ErrUnknownState, initial)
	}
	g.current = g.slots[id]
	return g, nil
}

func clipsByName(anims locomotion.AnimSet) map[string]*anim.Clip {
	out := map[string]*anim.Clip{}
	add := func(c *anim.Clip) {
		if c != nil {
			out[c.Name] = c
		}
	}
	add(anims.Idle)
	for _, c := range anims.IdleBreaks {
		add(c)
	}
	add(anims.TurnInPlaceLeft)
	add(anims.TurnInPlaceRight)
	for _, set := range []locomotion.CardinalClips{anims.JogStart, anims.Jog, anims.JogStop, anims.JogPivot} {
		add(set.Forward)
		add(set.Backward)
		add(set.Left)
		add(set.Right)
	}
	add(anims.JumpStart)
	add(anims.JumpStartLoop)
	add(anims.JumpApex)
	add(anims.JumpFallLand)
	add(anims.JumpFallLoop)
	add(anims.JumpRecoveryAdditive)
	return out
}

func (g *Graph) Current() locomotion.StateID { return g.current.id }
func (g *Graph) TimeInState() float64        { return g.timeInState }
func (g *Graph) Transitions() int            { return g.transitions }

// ScriptState returns a copy of the script's persistent state map.
func (g *Graph) ScriptState() map[string]any { return g.rt.State() }

// ClipNode returns the clip node bound to id, or nil.
func (g *Graph) ClipNode(id locomotion.StateID) anim.Node {
	if sl, ok := g.slots[id]; ok {
		return sl.clip
	}
	return nil
}

// ActiveClip is the clip and playback time of the current state's node.
func (g *Graph) ActiveClip() (*anim.Clip, float64) {
	t, clip := g.current.clipTime()
	return clip, t
}

// Step advances the graph by one tick. It must run after the instance's
// thread-safe pass for the same tick.
func (g *Graph) Step(in *locomotion.Instance, ctx *anim.UpdateContext) error {
	if g.spec.InertialBlend > 0 {
		ctx.InertialBlendTime = g.spec.InertialBlend
	}

	if !g.initialized {
		g.enter(in, ctx, g.current, nil)
		engine, err := g.engine(in)
		if err != nil {
			return err
		}
		if err := g.rt.run("enter", engine, g.vars()); err != nil {
			return err
		}
		g.initialized = true
	}

	in.SetCurveSource(g.curves())

	engine, err := g.engine(in)
	if err != nil {
		return err
	}
	if err := g.rt.run("update", engine, g.vars()); err != nil {
		return err
	}

	if err := g.applyPending(in, ctx, engine); err != nil {
		return err
	}

	g.update(in, ctx)
	g.timeInState += ctx.DeltaTime
	return nil
}

func (g *Graph) vars() map[string]any {
	return map[string]any{"__current_state": g.current.id.String()}
}

func (g *Graph) applyPending(in *locomotion.Instance, ctx *anim.UpdateContext, engine *tengo.ImmutableMap) error {
	name := g.pending
	g.pending = ""
	if name == "" || name == g.current.id.String() {
		return nil
	}
	id, ok := locomotion.ParseStateID(name)
	next := g.slots[id]
	if !ok || next == nil {
		return fmt.Errorf("%w: %q from %s", ErrNoTransition, name, g.current.id)
	}

	if err := g.rt.run("exit", engine, g.vars()); err != nil {
		return err
	}

	prev := g.current
	g.exit(prev, next)
	g.current = next
	g.timeInState = 0
	g.transitions++
	g.enter(in, ctx, next, prev)

	g.log.Debug("graph: transition", "from", prev.id.String(), "to", next.id.String())
	return g.rt.run("enter", engine, g.vars())
}

// exit starts prev blending out, along with its parent when next leaves the
// parent's group.
func (g *Graph) exit(prev, next *slot) {
	g.startBlendOut(prev)
	if prev.parent != nil && next.parent != prev.parent && next != prev.parent {
		g.startBlendOut(prev.parent)
	}
}

func (g *Graph) startBlendOut(s *slot) {
	s.state.BlendingOut = true
	s.blendOut = g.spec.BlendOutTime
}

// enter runs next's enter callback, and its parent's when next enters the
// parent's group from outside it.
func (g *Graph) enter(in *locomotion.Instance, ctx *anim.UpdateContext, next, prev *slot) {
	if p := next.parent; p != nil && (prev == nil || prev.parent != p) {
		p.state.BlendingOut = false
		p.blendOut = 0
		in.EnterState(p.id, ctx, p.binding())
	}
	next.state.BlendingOut = false
	next.blendOut = 0
	in.EnterState(next.id, ctx, next.binding())
}

func (g *Graph) update(in *locomotion.Instance, ctx *anim.UpdateContext) {
	for _, s := range g.order {
		live := s == g.current || (g.current.parent == s)
		if !live && !s.state.BlendingOut {
			continue
		}
		in.UpdateState(s.id, ctx, s.binding())
		if p, ok := s.clip.(*anim.SequencePlayer); ok {
			p.Advance(ctx)
		}
		if !live {
			s.blendOut -= ctx.DeltaTime
			if s.blendOut <= 0 {
				s.state.BlendingOut = false
				s.blendOut = 0
			}
		}
	}
}

// curves are the current state's evaluator curves at its playback time.
// Players restart their clip on every change, so only evaluators feed
// curve-driven logic.
func (g *Graph) curves() anim.CurveSet {
	e, ok := g.current.clip.(*anim.SequenceEvaluator)
	if !ok || e.Clip() == nil {
		return anim.CurveSet{}
	}
	clip, t := e.Clip(), e.AccumulatedTime()
	out := make(anim.CurveSet, len(clip.Curves))
	for name := range clip.Curves {
		out[name] = clip.CurveValue(name, t)
	}
	return out
}

func (g *Graph) engine(in *locomotion.Instance) (*tengo.ImmutableMap, error) {
	signals, err := immutable(SignalValues(in.Signals()))
	if err != nil {
		return nil, err
	}

	values := map[string]tengo.Object{}
	values["signals"] = signals

	values["transition"] = &tengo.UserFunction{Name: "transition", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		g.pending = name
		return tengo.TrueValue, nil
	}}

	values["time_in_state"] = &tengo.UserFunction{Name: "time_in_state", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: g.timeInState}, nil
	}}

	values["clip_time"] = &tengo.UserFunction{Name: "clip_time", Value: func(args ...tengo.Object) (tengo.Object, error) {
		t, _ := g.current.clipTime()
		return &tengo.Float{Value: t}, nil
	}}

	values["clip_remaining"] = &tengo.UserFunction{Name: "clip_remaining", Value: func(args ...tengo.Object) (tengo.Object, error) {
		t, clip := g.current.clipTime()
		if clip == nil {
			return &tengo.Float{Value: 0}, nil
		}
		return &tengo.Float{Value: clip.Length - t}, nil
	}}

	values["clip_name"] = &tengo.UserFunction{Name: "clip_name", Value: func(args ...tengo.Object) (tengo.Object, error) {
		_, clip := g.current.clipTime()
		if clip == nil {
			return &tengo.String{Value: ""}, nil
		}
		return &tengo.String{Value: clip.Name}, nil
	}}

	values["is_blending_out"] = &tengo.UserFunction{Name: "is_blending_out", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		id, ok := locomotion.ParseStateID(objectAsString(args[0]))
		if !ok || g.slots[id] == nil {
			return tengo.FalseValue, nil
		}
		return boolObject(g.slots[id].state.BlendingOut), nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		g.log.Debug("graph: script", "state", g.current.id.String(), "msg", strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}, nil
}
