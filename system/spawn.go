package system

import (
	"fmt"
	"log/slog"

	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/prefabs"
	"github.com/milk9111/locomotion/script"
	"github.com/milk9111/locomotion/sim"
)

// InputSource produces a character's controls for one tick.
type InputSource interface {
	Next(dt float64) (sim.Input, error)
}

// Character is one simulated body, its locomotion layer and the graph that
// drives the layer's state callbacks.
type Character struct {
	Name  string
	Body  *sim.Character
	Anim  *locomotion.Instance
	Graph *script.Graph
	Input InputSource

	last sim.Input
}

// LastInput is the input applied on the most recent tick.
func (c *Character) LastInput() sim.Input { return c.last }

// Assets are the prefabs a character is built from.
type Assets struct {
	Settings  locomotion.Settings
	Character sim.Config
	Anims     locomotion.AnimSet
	Graph     prefabs.GraphSpec
}

// LoadAssets reads every character prefab.
func LoadAssets() (Assets, error) {
	settings, err := prefabs.LoadSettings()
	if err != nil {
		return Assets{}, err
	}
	cfg, err := prefabs.LoadCharacter()
	if err != nil {
		return Assets{}, err
	}
	anims, _, err := prefabs.LoadAnimSet()
	if err != nil {
		return Assets{}, err
	}
	graph, err := prefabs.LoadGraph()
	if err != nil {
		return Assets{}, err
	}
	return Assets{Settings: settings, Character: cfg, Anims: anims, Graph: graph}, nil
}

// Spawn adds a character built from assets to the world.
func (w *World) Spawn(name string, assets Assets, input InputSource, log *slog.Logger) (*Character, error) {
	if w == nil {
		return nil, fmt.Errorf("world is nil")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log = log.With("character", name)

	body := sim.NewCharacter(assets.Character, w.Physics)
	in := locomotion.NewInstance(body, assets.Settings, assets.Anims,
		locomotion.WithTracer(w.Physics),
		locomotion.WithLogger(log),
	)
	graph, err := script.LoadGraph(assets.Graph, assets.Anims, script.WithGraphLogger(log))
	if err != nil {
		return nil, fmt.Errorf("system: spawn %s: %w", name, err)
	}

	c := &Character{Name: name, Body: body, Anim: in, Graph: graph, Input: input}
	w.Characters = append(w.Characters, c)
	return c, nil
}

// Reload applies new assets to every character. Tunables and clips change
// in place; the graph is rebuilt and restarts from its initial state.
func (w *World) Reload(assets Assets, log *slog.Logger) error {
	if w == nil {
		return nil
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	for _, c := range w.Characters {
		graph, err := script.LoadGraph(assets.Graph, assets.Anims, script.WithGraphLogger(log.With("character", c.Name)))
		if err != nil {
			return fmt.Errorf("system: reload %s: %w", c.Name, err)
		}
		c.Body.SetConfig(assets.Character)
		c.Anim.SetSettings(assets.Settings)
		c.Anim.SetAnimSet(assets.Anims)
		c.Graph = graph
	}
	return nil
}
