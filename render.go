package main

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/assemblyviewer/anim"
	"github.com/milk9111/assemblyviewer/arm"
	"github.com/milk9111/assemblyviewer/assembly"
	"github.com/milk9111/assemblyviewer/common"
)

// Projection maps Z-up world space to the screen with a fixed isometric
// camera. Screen-space math uses cp.Vector throughout.
type Projection struct {
	Origin cp.Vector
	Scale  float64
}

func (p Projection) Point(v common.Vec3) cp.Vector {
	sx := (v.X - v.Y) * 0.866 * p.Scale
	sy := (v.X+v.Y)*0.5*p.Scale*0.6 - v.Z*p.Scale
	return cp.Vector{X: p.Origin.X + sx, Y: p.Origin.Y + sy}
}

func classColor(class anim.VisualClass, opacity float64) color.NRGBA {
	var base color.RGBA
	switch class {
	case anim.ClassGhost:
		base = colornames.Slategray
	case anim.ClassActive:
		base = colornames.Orange
	case anim.ClassComplete:
		base = colornames.Lightsteelblue
	case anim.ClassSelected:
		base = colornames.Limegreen
	default:
		base = colornames.White
	}
	return color.NRGBA{R: base.R, G: base.G, B: base.B, A: uint8(opacity * 255)}
}

func drawScene(screen *ebiten.Image, proj Projection, asm *assembly.Assembly, frame anim.Frame) {
	screen.Fill(color.NRGBA{R: 0x12, G: 0x14, B: 0x1a, A: 0xff})
	drawGround(screen, proj)

	// Painter's order: farther parts first so nearer ones overdraw them.
	type drawable struct {
		part  *assembly.Part
		state anim.PartRenderState
		depth float64
	}
	order := make([]drawable, 0, len(asm.Parts))
	for i := range asm.Parts {
		p := &asm.Parts[i]
		st, ok := frame.Parts[p.ID]
		if !ok {
			continue
		}
		order = append(order, drawable{part: p, state: st, depth: st.Position.X + st.Position.Y - st.Position.Z})
	}
	sort.Slice(order, func(a, b int) bool { return order[a].depth < order[b].depth })

	for _, d := range order {
		drawPart(screen, proj, d.part, d.state)
	}

	drawArm(screen, proj, frame.Arm)
}

func drawGround(screen *ebiten.Image, proj Projection) {
	c := color.NRGBA{R: 0x2a, G: 0x2e, B: 0x38, A: 0xff}
	for i := -3; i <= 3; i++ {
		a := proj.Point(common.Vec3{X: float64(i), Y: -3})
		b := proj.Point(common.Vec3{X: float64(i), Y: 3})
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, c, true)
		a = proj.Point(common.Vec3{X: -3, Y: float64(i)})
		b = proj.Point(common.Vec3{X: 3, Y: float64(i)})
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, c, true)
	}
}

func drawPart(screen *ebiten.Image, proj Projection, part *assembly.Part, st anim.PartRenderState) {
	pos := proj.Point(st.Position)
	radius := float32(common.Clamp(part.BoundingHeight*0.35, 0.12, 0.8) * proj.Scale * 0.5)
	fill := classColor(st.Class, st.Opacity)

	vector.DrawFilledCircle(screen, float32(pos.X), float32(pos.Y), radius, fill, true)
	outline := classColor(st.Class, common.Clamp(st.Opacity+0.2, 0, 1))
	vector.StrokeCircle(screen, float32(pos.X), float32(pos.Y), radius, 1.5, outline, true)

	if st.Class == anim.ClassSelected {
		// Grasp/approach decoration: a ring and the approach path.
		vector.StrokeCircle(screen, float32(pos.X), float32(pos.Y), radius+6, 1.5, colornames.Limegreen, true)
		from := proj.Point(part.ApproachPosition())
		to := proj.Point(part.AssembledPosition)
		vector.StrokeLine(screen, float32(from.X), float32(from.Y), float32(to.X), float32(to.Y), 1, colornames.Limegreen, true)
	}
}

func drawArm(screen *ebiten.Image, proj Projection, pose arm.Pose) {
	cfg := arm.DefaultConfig()
	pts := arm.ChainPoints(cfg, pose)
	if len(pts) < 2 {
		return
	}

	prev := proj.Point(pts[0])
	for _, wp := range pts[1:] {
		cur := proj.Point(wp)
		vector.StrokeLine(screen, float32(prev.X), float32(prev.Y), float32(cur.X), float32(cur.Y), 4, colornames.Lightgrey, true)
		vector.DrawFilledCircle(screen, float32(cur.X), float32(cur.Y), 4, colornames.Grey, true)
		prev = cur
	}
	base := proj.Point(pts[0])
	vector.DrawFilledCircle(screen, float32(base.X), float32(base.Y), 7, colornames.Grey, true)

	// Gripper: two fingers separated by the solved gap, perpendicular to the
	// last segment in screen space.
	tip := proj.Point(pts[len(pts)-1])
	prevPt := proj.Point(pts[len(pts)-2])
	dir := tip.Sub(prevPt)
	if dir.Length() > 0 {
		dir = dir.Normalize()
	}
	perp := cp.Vector{X: -dir.Y, Y: dir.X}
	gap := pose.GripperGap * proj.Scale
	fingerLen := 10.0
	for _, side := range []float64{-1, 1} {
		root := tip.Add(perp.Mult(side * gap / 2))
		end := root.Add(dir.Mult(fingerLen))
		vector.StrokeLine(screen, float32(root.X), float32(root.Y), float32(end.X), float32(end.Y), 3, colornames.Orange, true)
	}
}
