// Command clipview plots the curves of every clip in the anim set prefab,
// with a cursor sweeping through the clip in real time. Left/right switch
// clips.
package main

import (
	"fmt"
	"image/color"
	"log"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/locomotion/anim"
	"github.com/milk9111/locomotion/prefabs"
	"golang.org/x/image/colornames"
)

const (
	width   = 768
	height  = 512
	margin  = 40
	samples = 200
)

var palette = []color.Color{colornames.Deepskyblue, colornames.Tomato, colornames.Gold, colornames.Limegreen, colornames.Violet}

type clipView struct {
	clips   []*anim.Clip
	current int
	time    float64
}

func (g *clipView) Update() error {
	if len(g.clips) == 0 {
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		g.current = (g.current + 1) % len(g.clips)
		g.time = 0
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		g.current = (g.current + len(g.clips) - 1) % len(g.clips)
		g.time = 0
	}
	clip := g.clips[g.current]
	g.time += 1 / float64(ebiten.TPS())
	if clip.Length > 0 && g.time > clip.Length {
		g.time = 0
	}
	return nil
}

func (g *clipView) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x10, 0x12, 0x16, 0xff})
	if len(g.clips) == 0 {
		ebitenutil.DebugPrint(screen, "no clips")
		return
	}
	clip := g.clips[g.current]

	names := make([]string, 0, len(clip.Curves))
	for name := range clip.Curves {
		names = append(names, name)
	}
	sort.Strings(names)

	// one shared value range so curves are comparable
	lo, hi := 0.0, 1.0
	for i, name := range names {
		clo, chi := clip.Curves[name].Range()
		if i == 0 || clo < lo {
			lo = clo
		}
		if i == 0 || chi > hi {
			hi = chi
		}
	}
	if hi-lo < 1e-6 {
		hi = lo + 1
	}

	plotW := float64(width - 2*margin)
	plotH := float64(height - 2*margin)
	toScreen := func(t, v float64) (float32, float32) {
		x := margin + t/clip.Length*plotW
		y := margin + (1-(v-lo)/(hi-lo))*plotH
		return float32(x), float32(y)
	}

	vector.StrokeRect(screen, margin, margin, float32(plotW), float32(plotH), 1, colornames.Gray, false)
	if lo < 0 && hi > 0 {
		x0, y0 := toScreen(0, 0)
		x1, _ := toScreen(clip.Length, 0)
		vector.StrokeLine(screen, x0, y0, x1, y0, 1, colornames.Dimgray, false)
	}

	legend := ""
	for i, name := range names {
		c := palette[i%len(palette)]
		curve := clip.Curves[name]
		for s := 1; s <= samples; s++ {
			t0 := clip.Length * float64(s-1) / samples
			t1 := clip.Length * float64(s) / samples
			x0, y0 := toScreen(t0, curve.Eval(t0))
			x1, y1 := toScreen(t1, curve.Eval(t1))
			vector.StrokeLine(screen, x0, y0, x1, y1, 2, c, true)
		}
		legend += fmt.Sprintf("  %s=%.1f", name, curve.Eval(g.time))
	}

	cx, _ := toScreen(g.time, lo)
	vector.StrokeLine(screen, cx, margin, cx, float32(margin+plotH), 1, colornames.White, false)

	ebitenutil.DebugPrint(screen, fmt.Sprintf("%d/%d %s  length %.2fs  loop %v  speed %.0f\n t=%.2f%s",
		g.current+1, len(g.clips), clip.Name, clip.Length, clip.Loop, clip.Speed, g.time, legend))
}

func (g *clipView) Layout(outsideWidth, outsideHeight int) (int, int) {
	return width, height
}

func main() {
	_, clips, err := prefabs.LoadAnimSet()
	if err != nil {
		log.Fatal(err)
	}
	g := &clipView{}
	for _, c := range clips {
		if c.Length > 0 {
			g.clips = append(g.clips, c)
		}
	}
	sort.Slice(g.clips, func(i, j int) bool { return g.clips[i].Name < g.clips[j].Name })

	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("clip curves")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
