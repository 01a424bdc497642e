package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/locomotion/logging"
	"github.com/milk9111/locomotion/prefabs"
)

func main() {
	scenario := flag.String("scenario", "", "run a scenario script from prefabs/scripts/ instead of keyboard input")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	watch := flag.Bool("watch", true, "hot reload prefabs and scripts from disk")
	dir := flag.String("prefabs", prefabs.DiskDir, "directory checked for prefab overrides")
	flag.Parse()

	prefabs.DiskDir = *dir

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	viewer, err := NewViewer(logging.Default(), *scenario, *watch)
	if err != nil {
		log.Fatal(err)
	}
	defer viewer.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(viewer.spec.Width, viewer.spec.Height)
	ebiten.SetWindowTitle("locomotion")

	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}
