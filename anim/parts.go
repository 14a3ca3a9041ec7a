package anim

import (
	"math"

	"github.com/milk9111/assemblyviewer/assembly"
	"github.com/milk9111/assemblyviewer/common"
)

// VisualClass tells the renderer how to style a part.
type VisualClass int

const (
	ClassGhost VisualClass = iota
	ClassActive
	ClassComplete
	ClassSelected
)

func (c VisualClass) String() string {
	switch c {
	case ClassGhost:
		return "ghost"
	case ClassActive:
		return "active"
	case ClassComplete:
		return "complete"
	case ClassSelected:
		return "selected"
	}
	return "unknown"
}

// PartRenderState is the per-tick derived visual state of one part. It is
// recomputed every tick and never stored.
type PartRenderState struct {
	Position common.Vec3
	Opacity  float64
	Class    VisualClass
}

// FrameInput is everything the render-state function depends on. Now is the
// wall-clock seconds value driving the active-step pulse; passing it in keeps
// the function pure and replayable at arbitrary points.
type FrameInput struct {
	Phase      Phase
	Progress   float64
	ActiveStep int
	Completed  bool
	Selected   string
	Now        float64
}

// ComputePartRenderState derives the position, opacity, and visual class of a
// single part. It is a pure function of its inputs: no side effects, no
// hidden clocks, callable for any phase/progress without having played up to
// that point.
func ComputePartRenderState(in FrameInput, asm *assembly.Assembly, part *assembly.Part) PartRenderState {
	if part == nil {
		return PartRenderState{}
	}

	out := PartRenderState{Position: part.AssembledPosition, Opacity: 1, Class: ClassComplete}
	stepIdx := asm.StepIndexForPart(part.ID)
	n := asm.StepCount()
	progress := common.Clamp(in.Progress, 0, 1)

	switch in.Phase {
	case PhaseIdle:
		switch {
		case stepIdx < 0 || in.Completed:
			// Static parts and fully-run assemblies rest in place.
		case in.ActiveStep >= 0 && stepIdx < in.ActiveStep:
			// Completed earlier in an interrupted run.
		default:
			out.Position = part.ApproachPosition()
			out.Opacity = GhostOpacity
			out.Class = ClassGhost
		}

	case PhaseDemoFadeIn:
		if stepIdx >= 0 && n > 0 {
			frac := common.Clamp(progress*float64(n)-float64(stepIdx), 0, 1)
			out.Opacity = common.EaseInOutCubic(frac)
			switch {
			case frac <= 0:
				out.Class = ClassGhost
			case frac < 1:
				out.Class = ClassActive
			}
		}

	case PhaseDemoHold:
		// Everything assembled and fully opaque.

	case PhaseDemoExplode:
		t := common.EaseInOutCubic(progress)
		out.Position = common.LerpVec3(part.AssembledPosition, part.ApproachPosition(), t)

	case PhaseDemoAssemble, PhasePlaying, PhaseScrubbing:
		if stepIdx < 0 {
			break
		}
		if in.Completed {
			break
		}
		idx, frac := ScrubberToStep(progress, n)
		switch {
		case stepIdx < idx:
			// Already placed this run.
		case stepIdx > idx:
			out.Position = part.ApproachPosition()
			out.Opacity = GhostOpacity
			out.Class = ClassGhost
		default:
			out.Class = ClassActive
			moveShare := StepMoveTime / StepTime
			if frac < moveShare {
				t := common.EaseInOutCubic(frac / moveShare)
				out.Position = common.LerpVec3(part.ApproachPosition(), part.AssembledPosition, t)
			}
			if frac >= 1 {
				out.Class = ClassComplete
			} else if in.Phase != PhaseScrubbing {
				// Periodic pulse layered multiplicatively on the active step.
				// Suppressed while scrubbing so a held position is stable.
				pulse := 0.75 + 0.25*math.Sin(2*math.Pi*in.Now/PulsePeriod)
				out.Opacity *= pulse
			}
		}
	}

	if in.Selected != "" && part.ID == in.Selected {
		// Selection overrides class only; position and opacity stand.
		out.Class = ClassSelected
	}

	out.Opacity = common.Clamp(out.Opacity, 0, 1)
	return out
}

// ComputeFrame evaluates every part of the assembly for one tick.
func ComputeFrame(in FrameInput, asm *assembly.Assembly) map[string]PartRenderState {
	if asm == nil {
		return nil
	}
	out := make(map[string]PartRenderState, len(asm.Parts))
	for i := range asm.Parts {
		p := &asm.Parts[i]
		out[p.ID] = ComputePartRenderState(in, asm, p)
	}
	return out
}
