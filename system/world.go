package system

import (
	"fmt"

	"github.com/milk9111/locomotion/physics"
	"github.com/milk9111/locomotion/prefabs"
)

// World owns the level geometry and the characters moving through it.
type World struct {
	Level      physics.Level
	Physics    *physics.World
	Characters []*Character
}

func NewWorld(level physics.Level) *World {
	w := &World{}
	w.Load(level)
	return w
}

// LoadWorld builds a world from the level prefab.
func LoadWorld() (*World, error) {
	level, err := prefabs.LoadLevel()
	if err != nil {
		return nil, err
	}
	return NewWorld(level), nil
}

// Load swaps in new level geometry. Existing characters are moved to the
// new world and reset to their start positions.
func (w *World) Load(level physics.Level) {
	if w == nil {
		return
	}
	w.Level = level
	w.Physics = physics.NewWorld(level)
	for _, c := range w.Characters {
		c.Body.SetWorld(w.Physics)
		c.Body.Reset()
	}
}

// Find returns the character called name.
func (w *World) Find(name string) (*Character, error) {
	if w == nil {
		return nil, fmt.Errorf("world is nil")
	}
	for _, c := range w.Characters {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("system: no character %q", name)
}
