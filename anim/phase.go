package anim

import "github.com/milk9111/assemblyviewer/common"

// Phase is the current mode of the animation state machine. Exactly one phase
// is active at any instant.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDemoFadeIn
	PhaseDemoHold
	PhaseDemoExplode
	PhaseDemoAssemble
	PhasePlaying
	PhaseScrubbing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDemoFadeIn:
		return "demo_fadein"
	case PhaseDemoHold:
		return "demo_hold"
	case PhaseDemoExplode:
		return "demo_explode"
	case PhaseDemoAssemble:
		return "demo_assemble"
	case PhasePlaying:
		return "playing"
	case PhaseScrubbing:
		return "scrubbing"
	}
	return "unknown"
}

// Animation timing, in seconds.
const (
	FadePerPart     = 0.1
	DemoHoldTime    = 1.0
	DemoExplodeTime = 0.8
	StepMoveTime    = 0.5
	StepPauseTime   = 0.3
	StepTime        = StepMoveTime + StepPauseTime
	PulsePeriod     = 2.0
	GhostOpacity    = 0.1
)

// State is a snapshot of the machine. Progress is position within the current
// phase, or within the whole sequence for playing/scrubbing, always in [0,1].
// ActiveStep is a valid step index or -1 before any step has begun.
type State struct {
	Phase      Phase
	Progress   float64
	ActiveStep int
	// Completed is set once a full playback (or demo assemble) has finished
	// and cleared when a new run or demo starts.
	Completed bool
}

// Machine owns the animation state. It is the only writer; everything else
// sees value snapshots. A machine is created fresh per loaded assembly.
type Machine struct {
	state State
	steps int
	parts int
}

// NewMachine creates a machine for an assembly with the given part and step
// counts. With zero steps every transition is a no-op and the machine stays
// inert in idle.
func NewMachine(parts, steps int) *Machine {
	return &Machine{
		state: State{Phase: PhaseIdle, ActiveStep: -1},
		steps: steps,
		parts: parts,
	}
}

// State returns a read-only snapshot.
func (m *Machine) State() State {
	return m.state
}

// StepCount returns the number of steps the machine was built for.
func (m *Machine) StepCount() int {
	return m.steps
}

// phaseDuration returns the wall-clock length of a phase in seconds, or 0 for
// phases that do not advance with the clock.
func (m *Machine) phaseDuration(p Phase) float64 {
	switch p {
	case PhaseDemoFadeIn:
		return FadePerPart * float64(m.parts)
	case PhaseDemoHold:
		return DemoHoldTime
	case PhaseDemoExplode:
		return DemoExplodeTime
	case PhaseDemoAssemble, PhasePlaying:
		return StepTime * float64(m.steps)
	}
	return 0
}

// nextPhase is the fixed demo loop order; playing exits to idle on completion.
func nextPhase(p Phase) Phase {
	switch p {
	case PhaseDemoFadeIn:
		return PhaseDemoHold
	case PhaseDemoHold:
		return PhaseDemoExplode
	case PhaseDemoExplode:
		return PhaseDemoAssemble
	case PhaseDemoAssemble, PhasePlaying:
		return PhaseIdle
	}
	return PhaseIdle
}

// Tick advances progress by dt seconds. A non-positive dt is a no-op. An
// oversized dt snaps to the current phase's end and enters the next phase at
// its start; it never jumps past an intermediate phase.
func (m *Machine) Tick(dt float64) {
	if dt <= 0 || m.steps == 0 {
		return
	}

	d := m.phaseDuration(m.state.Phase)
	if d <= 0 {
		return
	}

	m.state.Progress += dt / d
	if m.state.Progress < 1 {
		m.syncActiveStep()
		return
	}

	// Snap to the boundary, then enter the next phase at its start. Overshoot
	// beyond the boundary is discarded rather than compounded.
	m.state.Progress = 1
	m.syncActiveStep()
	finished := m.state.Phase
	if finished == PhasePlaying || finished == PhaseDemoAssemble {
		m.state.Completed = true
	}
	m.enter(nextPhase(finished), 0)
}

// GoToPhase forces the phase. There are no forbidden transitions; entering a
// phase atomically replaces the previous one. Explicit transitions win over
// the machine's own clock: callers apply them before Tick within an update
// pass, and entering a phase discards the old phase's pending completion.
func (m *Machine) GoToPhase(p Phase, atProgress float64) {
	if m.steps == 0 {
		return
	}
	m.enter(p, atProgress)
}

func (m *Machine) enter(p Phase, atProgress float64) {
	m.state.Phase = p
	m.state.Progress = clampProgress(atProgress)
	switch p {
	case PhaseDemoFadeIn, PhaseDemoHold, PhaseDemoExplode:
		m.state.Completed = false
		m.state.ActiveStep = -1
	case PhaseDemoAssemble, PhasePlaying, PhaseScrubbing:
		if m.state.Progress == 0 && p != PhaseScrubbing {
			m.state.Completed = false
		}
		m.syncActiveStep()
	}
}

// StepForward advances the active step by one, clamped, and re-derives
// progress so position stays consistent with the scrubber mapping.
func (m *Machine) StepForward() {
	m.adjustStep(1)
}

// StepBackward moves the active step back by one, clamped.
func (m *Machine) StepBackward() {
	m.adjustStep(-1)
}

func (m *Machine) adjustStep(delta int) {
	if m.steps == 0 {
		return
	}
	step := common.ClampInt(m.state.ActiveStep+delta, 0, m.steps-1)
	m.state.ActiveStep = step
	m.state.Progress = StepToScrubber(step, 0, m.steps)
	m.state.Completed = false
}

// SetProgress sets global progress directly (scrubbing) and re-derives the
// active step. Out-of-range values are clamped before use.
func (m *Machine) SetProgress(p float64) {
	if m.steps == 0 {
		return
	}
	m.state.Progress = clampProgress(p)
	m.syncActiveStep()
}

// AdvanceToStep pins the active step to idx (clamped) and aligns progress to
// that step's start. Used when an external execution process reports step
// transitions. Advancing past the last step marks the run completed.
func (m *Machine) AdvanceToStep(idx int) {
	if m.steps == 0 {
		return
	}
	if idx >= m.steps {
		m.state.ActiveStep = m.steps - 1
		m.state.Progress = 1
		m.state.Completed = true
		return
	}
	idx = common.ClampInt(idx, 0, m.steps-1)
	m.state.ActiveStep = idx
	m.state.Progress = StepToScrubber(idx, 0, m.steps)
}

// syncActiveStep keeps ActiveStep consistent with global progress while in a
// sequence-wide phase.
func (m *Machine) syncActiveStep() {
	switch m.state.Phase {
	case PhaseDemoAssemble, PhasePlaying, PhaseScrubbing:
		idx, _ := ScrubberToStep(m.state.Progress, m.steps)
		m.state.ActiveStep = idx
	}
}

func clampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
