// Command locoreplay runs a scripted scenario headlessly and logs the
// locomotion signals of every tick as JSON lines.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/milk9111/locomotion/logging"
	"github.com/milk9111/locomotion/prefabs"
	"github.com/milk9111/locomotion/script"
	"github.com/milk9111/locomotion/system"
)

func main() {
	scenarioName := flag.String("scenario", "scenario.tengo", "scenario script in prefabs/scripts/")
	ticks := flag.Int("ticks", 0, "ticks to run (0 uses the scenario's duration)")
	hz := flag.Float64("hz", 60, "simulation rate")
	every := flag.Int("every", 1, "log signals every N ticks")
	dir := flag.String("prefabs", prefabs.DiskDir, "directory checked for prefab overrides")
	text := flag.Bool("text", false, "log as text instead of JSON")
	flag.Parse()

	prefabs.DiskDir = *dir

	log := logging.New(os.Stdout)
	if *text {
		log = logging.NewText(os.Stdout)
	}

	if err := run(log, *scenarioName, *ticks, *hz, *every); err != nil {
		log.Error("locoreplay: failed", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, scenarioName string, ticks int, hz float64, every int) error {
	if hz <= 0 {
		return fmt.Errorf("hz must be positive, got %v", hz)
	}
	dt := 1 / hz
	if every < 1 {
		every = 1
	}

	scenario, err := script.LoadScenario(scenarioName)
	if err != nil {
		return err
	}
	if ticks <= 0 {
		ticks = int(math.Ceil(scenario.Duration() * hz))
	}
	if ticks <= 0 {
		return fmt.Errorf("scenario %s declares no duration; pass -ticks", scenarioName)
	}

	world, err := system.LoadWorld()
	if err != nil {
		return err
	}
	assets, err := system.LoadAssets()
	if err != nil {
		return err
	}
	c, err := world.Spawn("player", assets, scenario, log)
	if err != nil {
		return err
	}

	sys := system.NewLocomotionSystem(world, log)
	visits := map[string]int{}
	prev := c.Graph.Current()
	ctx := context.Background()

	for i := 0; i < ticks; i++ {
		if err := sys.Update(ctx, dt); err != nil {
			return err
		}
		state := c.Graph.Current()
		if state != prev || i == 0 {
			visits[state.String()]++
			log.Info("state", "frame", sys.Frame(), "from", prev.String(), "to", state.String())
			prev = state
		}
		if i%every != 0 {
			continue
		}
		clip, clipTime := c.Graph.ActiveClip()
		log.Info("tick",
			"frame", sys.Frame(),
			"time", float64(sys.Frame())*dt,
			"state", state.String(),
			"clip", clip.String(),
			"clip_time", clipTime,
			"location", c.Body.Location(),
			"signals", script.SignalValues(c.Anim.Signals()),
		)
	}

	log.Info("done", "ticks", ticks, "transitions", c.Graph.Transitions(), "visits", visits)
	return nil
}
