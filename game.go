package main

import (
	"fmt"
	"log"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/assemblyviewer/anim"
	"github.com/milk9111/assemblyviewer/arm"
	"github.com/milk9111/assemblyviewer/assembly"
	"github.com/milk9111/assemblyviewer/exec"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	// A stalled frame (window drag, debugger) shouldn't slam the animation
	// clock; the phase machine snaps at boundaries anyway.
	maxFrameDt = 0.25
)

type Game struct {
	frames int
	debug  bool

	assemblyName string
	asm          *assembly.Assembly
	controller   *anim.Controller
	feed         *exec.Feed
	watcher      *assembly.Watcher

	input *Input
	scrub *ScrubBar
	proj  Projection
	ui    *ebitenui.UI

	lastUpdate time.Time
	frame      anim.Frame
}

func NewGame(name string, asm *assembly.Assembly, feed *exec.Feed, watcher *assembly.Watcher, debug bool) *Game {
	g := &Game{
		debug:        debug,
		assemblyName: name,
		asm:          asm,
		feed:         feed,
		watcher:      watcher,
		controller:   anim.NewController(asm, arm.DefaultConfig()),
		input:        NewInput(),
		scrub:        NewScrubBar(),
		proj: Projection{
			Origin: cp.Vector{X: baseWidth / 2, Y: baseHeight/2 + 80},
			Scale:  70,
		},
	}
	g.ui = NewControlsUI(g.controller)
	return g
}

func (g *Game) Update() error {
	g.frames++

	now := time.Now()
	dt := 0.0
	if !g.lastUpdate.IsZero() {
		dt = now.Sub(g.lastUpdate).Seconds()
	}
	if dt > maxFrameDt {
		dt = maxFrameDt
	}
	g.lastUpdate = now

	g.drainWatcher()

	g.input.Update()
	g.applyInput()
	g.scrub.Update(g.input, g.controller)

	snap := g.feed.Latest()
	g.frame = g.controller.Update(dt, &snap)

	g.ui.Update()
	return nil
}

// drainWatcher merges definition edits at the tick boundary. A reload
// recreates the controller; animation state never carries across assemblies.
func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	changed := false
	for {
		select {
		case <-g.watcher.Events:
			changed = true
		case err := <-g.watcher.Errors:
			log.Printf("assembly watcher: %v", err)
		default:
			if changed {
				g.reload()
			}
			return
		}
	}
}

func (g *Game) reload() {
	asm, err := assembly.LoadAssembly(g.assemblyName)
	if err != nil {
		log.Printf("reload %s: %v", g.assemblyName, err)
		return
	}
	log.Printf("reloaded assembly %s (%d parts, %d steps)", asm.ID, len(asm.Parts), asm.StepCount())
	selected := g.controller.Selected()
	g.asm = asm
	g.controller = anim.NewController(asm, arm.DefaultConfig())
	g.controller.Select(selected)
	g.ui = NewControlsUI(g.controller)
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawScene(screen, g.proj, g.asm, g.frame)
	g.scrub.Draw(screen, g.frame.State, g.asm.StepCount())
	g.ui.Draw(screen)

	if g.debug {
		st := g.frame.State
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"FPS: %.1f  phase=%s progress=%.3f step=%d  effector=%s  mock=%v",
			ebiten.ActualFPS(), st.Phase, st.Progress, st.ActiveStep,
			g.frame.Exec.Phase, g.feed.UsingMock(),
		))
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
