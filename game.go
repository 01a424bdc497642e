package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/locomotion/prefabs"
	"github.com/milk9111/locomotion/script"
	"github.com/milk9111/locomotion/system"
)

const defaultScenario = "scenario.tengo"

// Viewer is an ebiten game that draws one simulated character in side view
// along with its locomotion state and signals.
type Viewer struct {
	log  *slog.Logger
	spec prefabs.ViewerSpec
	ctx  context.Context

	world    *system.World
	sys      *system.LocomotionSystem
	char     *system.Character
	assets   system.Assets
	keyboard *KeyboardInput

	scenarioName string
	scenario     *script.Scenario
	demo         bool

	paused  bool
	ui      *ebitenui.UI
	watcher *prefabs.Watcher

	trail   []mgl64.Vec3
	lastErr string
}

func NewViewer(log *slog.Logger, scenario string, watch bool) (*Viewer, error) {
	spec, err := prefabs.LoadViewer()
	if err != nil {
		return nil, err
	}
	world, err := system.LoadWorld()
	if err != nil {
		return nil, err
	}
	assets, err := system.LoadAssets()
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		log:          log,
		spec:         spec,
		ctx:          context.Background(),
		world:        world,
		sys:          system.NewLocomotionSystem(world, log),
		assets:       assets,
		keyboard:     NewKeyboardInput(),
		scenarioName: scenario,
		demo:         scenario != "",
	}
	if v.scenarioName == "" {
		v.scenarioName = defaultScenario
	}
	if err := v.respawn(); err != nil {
		return nil, err
	}
	v.ui = NewPauseUI(v)

	if watch {
		v.startWatcher()
	}
	return v, nil
}

func (v *Viewer) startWatcher() {
	var dirs []string
	for _, dir := range []string{prefabs.DiskDir, filepath.Join(prefabs.DiskDir, "scripts")} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		v.log.Warn("viewer: hot reload disabled", "err", err)
		return
	}
	v.watcher = w
}

func (v *Viewer) Close() {
	if v.watcher != nil {
		_ = v.watcher.Close()
	}
}

// respawn replaces the character with a fresh one at the level start.
func (v *Viewer) respawn() error {
	var input system.InputSource = v.keyboard
	if v.demo {
		s, err := script.LoadScenario(v.scenarioName)
		if err != nil {
			return err
		}
		v.scenario = s
		input = s
	}

	v.world.Characters = nil
	c, err := v.world.Spawn("player", v.assets, input, v.log)
	if err != nil {
		return err
	}
	v.char = c
	v.trail = v.trail[:0]
	return nil
}

func (v *Viewer) reset() {
	if err := v.respawn(); err != nil {
		v.fail("reset", err)
	}
}

func (v *Viewer) toggleDemo() {
	v.demo = !v.demo
	if err := v.respawn(); err != nil {
		v.demo = false
		v.fail("demo", err)
		v.reset()
	}
}

func (v *Viewer) fail(what string, err error) {
	v.lastErr = fmt.Sprintf("%s: %v", what, err)
	v.log.Error("viewer: "+what, "err", err)
}

func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		v.paused = !v.paused
	}
	if v.paused {
		v.ui.Update()
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		v.toggleDemo()
	}

	v.drainReloads()

	dt := 1 / float64(ebiten.TPS())
	if err := v.sys.Update(v.ctx, dt); err != nil {
		v.fail("tick", err)
		v.paused = true
		return nil
	}

	if v.demo && v.scenario != nil && v.scenario.Duration() > 0 && v.scenario.Elapsed() >= v.scenario.Duration() {
		v.reset()
	}

	v.trail = append(v.trail, v.char.Body.Location())
	if n := v.spec.TrailLength; n > 0 && len(v.trail) > n {
		v.trail = v.trail[len(v.trail)-n:]
	}
	return nil
}

func (v *Viewer) drainReloads() {
	if v.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-v.watcher.Changes:
			if !ok {
				v.watcher = nil
				return
			}
			v.reload(change.Kind)
		case err, ok := <-v.watcher.Errors:
			if ok {
				v.log.Warn("viewer: watch", "err", err)
			}
		default:
			return
		}
	}
}

func (v *Viewer) reload(kind string) {
	var err error
	switch kind {
	case "level":
		var level = v.world.Level
		if level, err = prefabs.LoadLevel(); err == nil {
			v.world.Load(level)
			v.trail = v.trail[:0]
		}
	case "viewer":
		var spec prefabs.ViewerSpec
		if spec, err = prefabs.LoadViewer(); err == nil {
			v.spec = spec
		}
	case "locomotion", "animset", "character", "graph", "script:graph":
		var assets system.Assets
		if assets, err = system.LoadAssets(); err == nil {
			v.assets = assets
			err = v.world.Reload(assets, v.log)
		}
	default:
		if v.demo && "script:"+trimExt(v.scenarioName) == kind {
			err = v.respawn()
		} else {
			return
		}
	}
	if err != nil {
		v.fail("reload "+kind, err)
		return
	}
	v.lastErr = ""
	v.log.Info("viewer: reloaded", "kind", kind)
}

func trimExt(name string) string {
	return filepath.Base(name[:len(name)-len(filepath.Ext(name))])
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	v.drawScene(screen)
	v.drawHUD(screen)
	if v.paused {
		v.ui.Draw(screen)
	}
}

func (v *Viewer) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return float64(v.spec.Width), float64(v.spec.Height)
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
