package anim

import (
	"github.com/milk9111/assemblyviewer/arm"
	"github.com/milk9111/assemblyviewer/assembly"
	"github.com/milk9111/assemblyviewer/common"
	"github.com/milk9111/assemblyviewer/exec"
)

// demoIdleDelay is how long a freshly-loaded assembly sits in idle before the
// demo moment auto-plays.
const demoIdleDelay = 1.5

// Frame is everything the renderer needs for one tick.
type Frame struct {
	State State
	Parts map[string]PartRenderState
	Arm   arm.Pose
	Exec  ExecAnimState
}

// Controller is the single stateful shell around the pure animation
// functions. It owns the phase machine, the bridge, and the arm solver, runs
// one synchronous update per rendering frame, and exposes the imperative
// controls the host UI calls. Nothing here blocks or runs concurrently;
// external state is merged only at tick boundaries.
type Controller struct {
	asm     *assembly.Assembly
	machine *Machine
	bridge  *Bridge
	solver  *arm.Solver

	selected       string
	scrubbing      bool
	resumePhase    Phase
	resumeProgress float64
	demoTimer      float64
	elapsed        float64
}

// NewController creates a controller for one loaded assembly. Controllers are
// not reused across assemblies; load a new one instead.
func NewController(asm *assembly.Assembly, armCfg arm.Config) *Controller {
	rest := armRest(armCfg)
	parts := 0
	steps := 0
	if asm != nil {
		parts = len(asm.Parts)
		steps = asm.StepCount()
	}
	return &Controller{
		asm:       asm,
		machine:   NewMachine(parts, steps),
		bridge:    NewBridge(rest),
		solver:    arm.NewSolver(armCfg),
		demoTimer: demoIdleDelay,
	}
}

// armRest is the arm's parked end-effector position: up and slightly forward
// of the base so the folded pose reads clearly.
func armRest(cfg arm.Config) common.Vec3 {
	total := 0.0
	for _, l := range cfg.SegmentLengths {
		total += l
	}
	if total == 0 {
		total = 2
	}
	return cfg.Base.Add(common.Vec3{X: total * 0.25, Y: 0, Z: total * 0.45})
}

// State returns the current machine snapshot.
func (c *Controller) State() State {
	return c.machine.State()
}

// Update runs one tick: merge the latest execution snapshot, advance the
// bridge's dwell sequence, service the auto-demo timer, advance the phase
// machine, then derive all render state. A nil snapshot leaves execution
// state unchanged.
func (c *Controller) Update(dt float64, snap *exec.ExecutionState) Frame {
	if dt < 0 {
		dt = 0
	}
	c.elapsed += dt

	if snap != nil {
		c.bridge.Apply(*snap, c.asm, c.machine)
	}
	c.bridge.Advance(dt)

	// The auto-demo timer only runs in idle; any phase change away from it
	// clears the timer so a stale fire can't re-enter a transition.
	if c.machine.State().Phase == PhaseIdle {
		if c.demoTimer > 0 {
			c.demoTimer -= dt
			if c.demoTimer <= 0 {
				c.machine.GoToPhase(PhaseDemoFadeIn, 0)
			}
		}
	} else {
		c.demoTimer = 0
	}

	c.machine.Tick(dt)

	st := c.machine.State()
	in := FrameInput{
		Phase:      st.Phase,
		Progress:   st.Progress,
		ActiveStep: st.ActiveStep,
		Completed:  st.Completed,
		Selected:   c.selected,
		Now:        c.elapsed,
	}
	ex := c.bridge.State()
	return Frame{
		State: st,
		Parts: ComputeFrame(in, c.asm),
		Arm:   c.solver.Step(ex.Target, ex.Phase, dt),
		Exec:  ex,
	}
}

// Toggle starts playback, or stops it back to idle, remembering position so
// the next Toggle resumes.
func (c *Controller) Toggle() {
	c.demoTimer = 0
	st := c.machine.State()
	if st.Phase == PhasePlaying {
		c.resumeProgress = st.Progress
		c.machine.GoToPhase(PhaseIdle, 0)
		return
	}
	start := c.resumeProgress
	if st.Completed || start >= 1 {
		start = 0
	}
	c.resumeProgress = 0
	c.machine.GoToPhase(PhasePlaying, start)
}

// StepForward advances one step and re-derives progress.
func (c *Controller) StepForward() {
	c.demoTimer = 0
	c.machine.StepForward()
}

// StepBackward rewinds one step and re-derives progress.
func (c *Controller) StepBackward() {
	c.demoTimer = 0
	c.machine.StepBackward()
}

// ReplayDemo restarts the demo moment from its fade-in.
func (c *Controller) ReplayDemo() {
	c.demoTimer = 0
	c.machine.GoToPhase(PhaseDemoFadeIn, 0)
}

// ScrubStart enters scrubbing, remembering whether to come back to idle or
// playing. Starting a scrub while already scrubbing is a no-op.
func (c *Controller) ScrubStart() {
	if c.scrubbing || c.machine.StepCount() == 0 {
		return
	}
	c.demoTimer = 0
	st := c.machine.State()
	c.resumePhase = PhaseIdle
	if st.Phase == PhasePlaying {
		c.resumePhase = PhasePlaying
	}
	progress := st.Progress
	switch st.Phase {
	case PhasePlaying, PhaseScrubbing, PhaseDemoAssemble:
	default:
		// Other phases have phase-local progress; derive the sequence-wide
		// coordinate from the active step instead.
		idx := st.ActiveStep
		if idx < 0 {
			idx = 0
		}
		progress = StepToScrubber(idx, 0, c.machine.StepCount())
	}
	c.scrubbing = true
	c.machine.GoToPhase(PhaseScrubbing, progress)
}

// Scrub moves the scrub position. Calling it without ScrubStart is an
// invalid sequence and is ignored rather than guessed at.
func (c *Controller) Scrub(globalProgress float64) {
	if !c.scrubbing {
		return
	}
	c.machine.SetProgress(common.Clamp(globalProgress, 0, 1))
}

// ScrubEnd leaves scrubbing for whichever phase the pre-scrub state implies,
// keeping the active step at the final scrub position.
func (c *Controller) ScrubEnd() {
	if !c.scrubbing {
		return
	}
	c.scrubbing = false
	st := c.machine.State()
	if c.resumePhase == PhasePlaying {
		c.machine.GoToPhase(PhasePlaying, st.Progress)
		return
	}
	c.machine.GoToPhase(PhaseIdle, 0)
	c.machine.AdvanceToStep(st.ActiveStep)
}

// ForceIdle abandons whatever is happening immediately.
func (c *Controller) ForceIdle() {
	c.demoTimer = 0
	c.scrubbing = false
	c.resumeProgress = 0
	c.machine.GoToPhase(PhaseIdle, 0)
}

// Select designates a part to draw grasp/approach decorations on; empty
// clears the selection. Selection composes with every phase.
func (c *Controller) Select(partID string) {
	c.selected = partID
}

// Selected returns the currently selected part id.
func (c *Controller) Selected() string {
	return c.selected
}
