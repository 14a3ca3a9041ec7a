// Package exec carries the execution-collaborator types and the two delivery
// mechanisms the viewer can consume them through: a websocket push feed and a
// local mock sequencer used when no remote process is reachable.
package exec

// Status is the closed set of per-step execution states.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusHuman    Status = "human"
	StatusRetrying Status = "retrying"
)

// StepRuntimeState is the per-step slice of an execution run.
type StepRuntimeState struct {
	StepID     string   `json:"stepId"`
	Status     Status   `json:"status"`
	Attempt    int      `json:"attempt"`
	StartTime  *float64 `json:"startTime,omitempty"`
	EndTime    *float64 `json:"endTime,omitempty"`
	DurationMs *float64 `json:"durationMs,omitempty"`
}

// ExecutionState is the full sequencer snapshot. The viewer only ever cares
// about the most recent one; delivery order and framing are irrelevant.
type ExecutionState struct {
	Phase              string                      `json:"phase"`
	AssemblyID         string                      `json:"assemblyId,omitempty"`
	CurrentStepID      string                      `json:"currentStepId,omitempty"`
	StepStates         map[string]StepRuntimeState `json:"stepStates"`
	RunNumber          int                         `json:"runNumber"`
	StartTime          *float64                    `json:"startTime,omitempty"`
	ElapsedMs          float64                     `json:"elapsedMs"`
	OverallSuccessRate float64                     `json:"overallSuccessRate"`
}

// Clone deep-copies the snapshot so readers can hold it across ticks.
func (s ExecutionState) Clone() ExecutionState {
	out := s
	out.StepStates = make(map[string]StepRuntimeState, len(s.StepStates))
	for k, v := range s.StepStates {
		out.StepStates[k] = v
	}
	return out
}

// StepStatus returns the status of a step, defaulting to pending.
func (s ExecutionState) StepStatus(stepID string) Status {
	if st, ok := s.StepStates[stepID]; ok && st.Status != "" {
		return st.Status
	}
	return StatusPending
}
