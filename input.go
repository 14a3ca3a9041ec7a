package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"
)

// Input holds the per-frame control state for the viewer.
type Input struct {
	// TogglePressed is true on the frame the play/pause key was pressed.
	TogglePressed bool
	// StepFwdPressed / StepBackPressed single-step the sequence.
	StepFwdPressed  bool
	StepBackPressed bool
	// ReplayPressed restarts the demo moment.
	ReplayPressed bool
	// IdlePressed force-idles whatever is running.
	IdlePressed bool
	// SelectNextPressed cycles the selected part.
	SelectNextPressed bool
	// CopyPressed copies the active step id to the clipboard.
	CopyPressed bool

	MouseX, MouseY float64
	MousePressed   bool
	MouseHeld      bool
	MouseReleased  bool
}

func NewInput() *Input {
	return &Input{}
}

// Update polls the keyboard and mouse.
func (i *Input) Update() {
	i.TogglePressed = inpututil.IsKeyJustPressed(ebiten.KeySpace)
	i.StepFwdPressed = inpututil.IsKeyJustPressed(ebiten.KeyRight) || inpututil.IsKeyJustPressed(ebiten.KeyN)
	i.StepBackPressed = inpututil.IsKeyJustPressed(ebiten.KeyLeft) || inpututil.IsKeyJustPressed(ebiten.KeyP)
	i.ReplayPressed = inpututil.IsKeyJustPressed(ebiten.KeyR)
	i.IdlePressed = inpututil.IsKeyJustPressed(ebiten.KeyEscape)
	i.SelectNextPressed = inpututil.IsKeyJustPressed(ebiten.KeyTab)
	i.CopyPressed = inpututil.IsKeyJustPressed(ebiten.KeyC)

	mx, my := ebiten.CursorPosition()
	i.MouseX = float64(mx)
	i.MouseY = float64(my)
	i.MousePressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	i.MouseHeld = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	i.MouseReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
}

// applyInput routes keyboard shortcuts to the controller.
func (g *Game) applyInput() {
	in := g.input
	switch {
	case in.TogglePressed:
		g.controller.Toggle()
	case in.StepFwdPressed:
		g.controller.StepForward()
	case in.StepBackPressed:
		g.controller.StepBackward()
	case in.ReplayPressed:
		g.controller.ReplayDemo()
	case in.IdlePressed:
		g.controller.ForceIdle()
	}

	if in.SelectNextPressed {
		g.cycleSelection()
	}
	if in.CopyPressed {
		g.copyActiveStep()
	}
}

func (g *Game) cycleSelection() {
	if len(g.asm.Parts) == 0 {
		return
	}
	current := g.controller.Selected()
	next := g.asm.Parts[0].ID
	for i := range g.asm.Parts {
		if g.asm.Parts[i].ID == current {
			if i+1 < len(g.asm.Parts) {
				next = g.asm.Parts[i+1].ID
			} else {
				next = "" // wrap back to no selection
			}
			break
		}
	}
	g.controller.Select(next)
}

func (g *Game) copyActiveStep() {
	st := g.frame.State
	if st.ActiveStep < 0 || st.ActiveStep >= g.asm.StepCount() {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(g.asm.Steps[st.ActiveStep].ID))
}
