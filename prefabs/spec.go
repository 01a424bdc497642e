package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/locomotion/anim"
	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/physics"
	"github.com/milk9111/locomotion/sim"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownState = errors.New("prefabs: unknown state")
	ErrUnknownClip  = errors.New("prefabs: unknown clip")
)

const (
	LocomotionFile = "locomotion.yaml"
	AnimSetFile    = "animset.yaml"
	CharacterFile  = "character.yaml"
	LevelFile      = "level.yaml"
	GraphFile      = "graph.yaml"
	ViewerFile     = "viewer.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var spec T
	if err := loadInto(filename, &spec); err != nil {
		var zero T
		return zero, err
	}
	return spec, nil
}

// loadInto decodes filename over out, so fields the file leaves out keep
// whatever out already held.
func loadInto(filename string, out any) error {
	data, err := Load(filename)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return nil
}

// LoadSettings reads the locomotion tunables over the built-in defaults.
func LoadSettings() (locomotion.Settings, error) {
	s := locomotion.DefaultSettings()
	if err := loadInto(LocomotionFile, &s); err != nil {
		return locomotion.DefaultSettings(), err
	}
	return s, nil
}

// LoadCharacter reads the movement constants over the simulator defaults.
func LoadCharacter() (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if err := loadInto(CharacterFile, &cfg); err != nil {
		return sim.DefaultConfig(), err
	}
	return cfg, nil
}

func LoadLevel() (physics.Level, error) {
	return LoadSpec[physics.Level](LevelFile)
}

type ClipSpec struct {
	Name   string                `yaml:"name"`
	Length float64               `yaml:"length"`
	Loop   bool                  `yaml:"loop"`
	Speed  float64               `yaml:"speed"`
	Curves map[string][]anim.Key `yaml:"curves"`
}

type CardinalSpec struct {
	Forward  string `yaml:"forward"`
	Backward string `yaml:"backward"`
	Left     string `yaml:"left"`
	Right    string `yaml:"right"`
}

type AnimSetSpec struct {
	Clips []ClipSpec `yaml:"clips"`
	Set   struct {
		Idle                 string       `yaml:"idle"`
		IdleBreaks           []string     `yaml:"idle_breaks"`
		TurnInPlaceLeft      string       `yaml:"turn_in_place_left"`
		TurnInPlaceRight     string       `yaml:"turn_in_place_right"`
		JogStart             CardinalSpec `yaml:"jog_start"`
		Jog                  CardinalSpec `yaml:"jog"`
		JogStop              CardinalSpec `yaml:"jog_stop"`
		JogPivot             CardinalSpec `yaml:"jog_pivot"`
		JumpStart            string       `yaml:"jump_start"`
		JumpStartLoop        string       `yaml:"jump_start_loop"`
		JumpApex             string       `yaml:"jump_apex"`
		JumpFallLand         string       `yaml:"jump_fall_land"`
		JumpFallLoop         string       `yaml:"jump_fall_loop"`
		JumpRecoveryAdditive string       `yaml:"jump_recovery_additive"`
	} `yaml:"set"`
}

// LoadAnimSet reads the clip catalogue and resolves the anim set against it.
func LoadAnimSet() (locomotion.AnimSet, map[string]*anim.Clip, error) {
	spec, err := LoadSpec[AnimSetSpec](AnimSetFile)
	if err != nil {
		return locomotion.AnimSet{}, nil, err
	}
	clips := BuildClips(spec)
	set, err := BuildAnimSet(spec, clips)
	if err != nil {
		return locomotion.AnimSet{}, nil, fmt.Errorf("prefabs: %s: %w", AnimSetFile, err)
	}
	return set, clips, nil
}

// NodeKind is the kind of clip node a graph state drives.
type NodeKind string

const (
	NodePlayer    NodeKind = "player"
	NodeEvaluator NodeKind = "evaluator"
	NodeNone      NodeKind = "none"
)

type GraphStateSpec struct {
	Name string   `yaml:"name"`
	Node NodeKind `yaml:"node"`
	// Clip is the clip a node starts on before any callback picks one.
	Clip string `yaml:"clip"`
	// Parent names a state whose update also runs while this one is active.
	Parent string `yaml:"parent"`
}

// GraphSpec describes the locomotion state machine's states. Transitions
// between them live in Script.
type GraphSpec struct {
	Initial       string           `yaml:"initial"`
	Script        string           `yaml:"script"`
	BlendOutTime  float64          `yaml:"blend_out_time"`
	InertialBlend float64          `yaml:"inertial_blend"`
	States        []GraphStateSpec `yaml:"states"`
}

func LoadGraph() (GraphSpec, error) {
	spec, err := LoadSpec[GraphSpec](GraphFile)
	if err != nil {
		return GraphSpec{}, err
	}
	if err := spec.Validate(); err != nil {
		return GraphSpec{}, fmt.Errorf("prefabs: %s: %w", GraphFile, err)
	}
	return spec, nil
}

// Validate checks that every state names a locomotion state and the initial
// state is one of them.
func (g GraphSpec) Validate() error {
	seen := make(map[string]bool, len(g.States))
	for _, s := range g.States {
		if _, ok := locomotion.ParseStateID(s.Name); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownState, s.Name)
		}
		switch s.Node {
		case NodePlayer, NodeEvaluator, NodeNone, "":
		default:
			return fmt.Errorf("state %s: unknown node kind %q", s.Name, s.Node)
		}
		seen[s.Name] = true
	}
	for _, s := range g.States {
		if s.Parent != "" && !seen[s.Parent] {
			return fmt.Errorf("%w: parent %q of %s", ErrUnknownState, s.Parent, s.Name)
		}
	}
	if !seen[g.Initial] {
		return fmt.Errorf("%w: initial %q", ErrUnknownState, g.Initial)
	}
	return nil
}

type ViewerSpec struct {
	Width        int        `yaml:"width"`
	Height       int        `yaml:"height"`
	Scale        float64    `yaml:"scale"`
	TrailLength  int        `yaml:"trail_length"`
	Background   *YAMLColor `yaml:"background"`
	Floor        *YAMLColor `yaml:"floor"`
	Character    *YAMLColor `yaml:"character"`
	Velocity     *YAMLColor `yaml:"velocity"`
	Acceleration *YAMLColor `yaml:"acceleration"`
	StopMarker   *YAMLColor `yaml:"stop_marker"`
}

func LoadViewer() (ViewerSpec, error) {
	return LoadSpec[ViewerSpec](ViewerFile)
}

// ColorOr returns c, or fallback when c is unset.
func ColorOr(c *YAMLColor, fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
