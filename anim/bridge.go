package anim

import (
	"github.com/milk9111/assemblyviewer/arm"
	"github.com/milk9111/assemblyviewer/assembly"
	"github.com/milk9111/assemblyviewer/common"
	"github.com/milk9111/assemblyviewer/exec"
)

// Grasp/retreat dwell times, seconds.
const (
	graspHoldTime   = 0.25
	retreatHoldTime = 0.6
)

// ExecAnimState is what the arm solver reads each tick: where the end
// effector should head and what the gripper is doing. The target is always a
// step's approach position, a step's assembled position, or the arm's resting
// point, never an arbitrary point.
type ExecAnimState struct {
	Target common.Vec3
	Phase  arm.EffectorPhase
}

// Bridge reconciles external execution-state transitions into phase-machine
// triggers and the arm target. It is the only writer of ExecAnimState.
type Bridge struct {
	state ExecAnimState
	rest  common.Vec3
	last  map[string]exec.Status
	timer float64
}

// NewBridge creates a bridge whose arm rests at the given position.
func NewBridge(rest common.Vec3) *Bridge {
	return &Bridge{
		state: ExecAnimState{Target: rest, Phase: arm.EffectorIdle},
		rest:  rest,
		last:  make(map[string]exec.Status),
	}
}

// State returns a read-only snapshot.
func (b *Bridge) State() ExecAnimState {
	return b.state
}

// Apply folds the latest execution snapshot into the animation state. Steps
// are visited in sequence order so same-tick transitions resolve
// deterministically. A snapshot that changes nothing leaves the state
// untouched; stale but valid beats undefined.
func (b *Bridge) Apply(snap exec.ExecutionState, asm *assembly.Assembly, m *Machine) {
	if asm == nil || m == nil {
		return
	}
	for i := range asm.Steps {
		step := &asm.Steps[i]
		status := snap.StepStatus(step.ID)
		if b.last[step.ID] == status {
			continue
		}
		b.last[step.ID] = status
		b.onTransition(step, status, asm, m)
	}
}

func (b *Bridge) onTransition(step *assembly.Step, status exec.Status, asm *assembly.Assembly, m *Machine) {
	part := asm.Part(step.PartID)

	switch status {
	case exec.StatusRunning, exec.StatusRetrying:
		if part != nil {
			b.state.Target = part.ApproachPosition()
		}
		b.state.Phase = arm.EffectorApproach
		b.timer = 0
		if machineFollowsExecution(m) {
			m.AdvanceToStep(step.Index)
		}

	case exec.StatusSuccess:
		if part != nil {
			b.state.Target = part.AssembledPosition
		}
		b.state.Phase = arm.EffectorGrasp
		b.timer = graspHoldTime
		if machineFollowsExecution(m) {
			m.AdvanceToStep(step.Index + 1)
		}

	case exec.StatusFailed, exec.StatusHuman:
		b.state.Target = b.rest
		b.state.Phase = arm.EffectorRetreat
		b.timer = retreatHoldTime
	}
}

// Advance runs the grasp → retreat → idle dwell sequence.
func (b *Bridge) Advance(dt float64) {
	if dt <= 0 || b.timer <= 0 {
		return
	}
	b.timer -= dt
	if b.timer > 0 {
		return
	}
	switch b.state.Phase {
	case arm.EffectorGrasp:
		b.state.Target = b.rest
		b.state.Phase = arm.EffectorRetreat
		b.timer = retreatHoldTime
	case arm.EffectorRetreat:
		b.state.Phase = arm.EffectorIdle
		b.timer = 0
	default:
		b.timer = 0
	}
}

// machineFollowsExecution reports whether external step progress may steer
// the phase machine. Scrubbing and the demo moment are explicit user intent
// and are never overridden by the remote process.
func machineFollowsExecution(m *Machine) bool {
	switch m.State().Phase {
	case PhaseIdle, PhasePlaying:
		return true
	}
	return false
}
