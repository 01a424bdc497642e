package script

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/sim"
)

const scenarioDispatchScript = `
__result := {}
if __phase == "input" {
	__result = input(__engine, __state, __tick)
}
`

// Scenario is a scripted input source. The script's input function returns
// a map of controls for each tick.
type Scenario struct {
	rt       *runtime
	tick     int
	elapsed  float64
	duration float64
}

func LoadScenario(path string) (*Scenario, error) {
	rt, err := loadRuntime(path, scenarioDispatchScript, map[string]any{"__tick": 0})
	if err != nil {
		return nil, err
	}
	return newScenario(rt), nil
}

func NewScenario(name string, src []byte) (*Scenario, error) {
	rt, err := compileRuntime(name, src, scenarioDispatchScript, map[string]any{"__tick": 0})
	if err != nil {
		return nil, err
	}
	return newScenario(rt), nil
}

func newScenario(rt *runtime) *Scenario {
	s := &Scenario{rt: rt}
	s.duration = toFloat(rt.global("duration"))
	return s
}

// Duration is the script's declared run length in seconds, or 0 when it
// does not declare one.
func (s *Scenario) Duration() float64 { return s.duration }

func (s *Scenario) Elapsed() float64 { return s.elapsed }

// Next returns the input for the next tick of length dt.
func (s *Scenario) Next(dt float64) (sim.Input, error) {
	engine := &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"time": &tengo.Float{Value: s.elapsed},
		"dt":   &tengo.Float{Value: dt},
	}}
	if err := s.rt.run("input", engine, map[string]any{"__tick": s.tick}); err != nil {
		return sim.Input{}, err
	}
	s.tick++
	s.elapsed += dt

	raw := s.rt.global("__result")
	if raw == nil {
		return sim.Input{}, nil
	}
	values, ok := raw.(map[string]any)
	if !ok {
		return sim.Input{}, fmt.Errorf("script: %s: input returned %T, want map", s.rt.path, raw)
	}
	return inputFromMap(values), nil
}

func inputFromMap(m map[string]any) sim.Input {
	return sim.Input{
		Move:      mgl64.Vec3{toFloat(m["move_x"]), toFloat(m["move_y"]), 0},
		Jump:      toBool(m["jump"]),
		Strafe:    toBool(m["strafe"]),
		FacingYaw: toFloat(m["facing_yaw"]),
		Montage:   toBool(m["montage"]),
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func toBool(v any) bool {
	b, _ := v.(bool)
	return b
}
