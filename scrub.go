package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/assemblyviewer/anim"
	"github.com/milk9111/assemblyviewer/common"
)

// ScrubBar is the draggable timeline along the bottom of the screen. A drag
// maps 1:1 onto the controller's ScrubStart/Scrub/ScrubEnd surface.
type ScrubBar struct {
	rect     Rect
	dragging bool
}

func NewScrubBar() *ScrubBar {
	return &ScrubBar{
		rect: Rect{X: 260, Y: baseHeight - 46, Width: baseWidth - 520, Height: 16},
	}
}

func (s *ScrubBar) progressAt(x float64) float64 {
	return common.Clamp((x-s.rect.X)/s.rect.Width, 0, 1)
}

func (s *ScrubBar) Update(in *Input, c *anim.Controller) {
	switch {
	case in.MousePressed && s.rect.Contains(in.MouseX, in.MouseY):
		s.dragging = true
		c.ScrubStart()
		c.Scrub(s.progressAt(in.MouseX))
	case s.dragging && in.MouseHeld:
		c.Scrub(s.progressAt(in.MouseX))
	case s.dragging && in.MouseReleased:
		c.Scrub(s.progressAt(in.MouseX))
		c.ScrubEnd()
		s.dragging = false
	case s.dragging && !in.MouseHeld:
		// Release happened outside the window; don't leave the machine stuck
		// in scrubbing.
		c.ScrubEnd()
		s.dragging = false
	}
}

// displayProgress picks the sequence-wide coordinate to show: live progress
// in sequence phases, the active step's start otherwise.
func displayProgress(st anim.State, n int) float64 {
	if st.Completed {
		return 1
	}
	switch st.Phase {
	case anim.PhasePlaying, anim.PhaseScrubbing, anim.PhaseDemoAssemble:
		return st.Progress
	}
	if st.ActiveStep >= 0 {
		return anim.StepToScrubber(st.ActiveStep, 0, n)
	}
	return 0
}

func (s *ScrubBar) Draw(screen *ebiten.Image, st anim.State, n int) {
	track := color.NRGBA{R: 0x30, G: 0x34, B: 0x40, A: 0xff}
	vector.DrawFilledRect(screen, float32(s.rect.X), float32(s.rect.Y), float32(s.rect.Width), float32(s.rect.Height), track, false)

	p := displayProgress(st, n)
	fill := colornames.Steelblue
	vector.DrawFilledRect(screen, float32(s.rect.X), float32(s.rect.Y), float32(s.rect.Width*p), float32(s.rect.Height), fill, false)

	// Step notches.
	for i := 1; i < n; i++ {
		x := s.rect.X + s.rect.Width*float64(i)/float64(n)
		vector.StrokeLine(screen, float32(x), float32(s.rect.Y), float32(x), float32(s.rect.Y+s.rect.Height), 1, colornames.Darkslategray, false)
	}

	handleX := s.rect.X + s.rect.Width*p
	vector.DrawFilledCircle(screen, float32(handleX), float32(s.rect.Y+s.rect.Height/2), 8, colornames.Whitesmoke, true)
}
