package exec

import (
	"embed"
	"fmt"
	"sync"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/assemblyviewer/assembly"
)

//go:embed scripts/*.tengo
var scriptsFS embed.FS

const sequencerScript = "scripts/sequencer.tengo"

// planDispatchScript is appended to the user script so each step plan is a
// single Run call.
const planDispatchScript = `
__plan = plan_step(__step_id, __step_index, __attempt)
`

const humanHoldTime = 3 * time.Second

// stepPlan is what the script decides per step attempt.
type stepPlan struct {
	duration time.Duration
	outcome  Status
}

var defaultPlan = stepPlan{duration: time.Second, outcome: StatusSuccess}

// MockSequencer is a hardware-free execution driver that walks an assembly's
// steps on the wall clock. Per-step duration and outcome come from an
// embedded tengo script so failure behavior can be tweaked without a rebuild.
// It advances lazily inside Snapshot, so it needs no goroutine of its own.
type MockSequencer struct {
	mu  sync.Mutex
	asm *assembly.Assembly

	state    ExecutionState
	running  bool
	idx      int
	attempt  int
	plan     stepPlan
	stepFrom time.Time
	runFrom  time.Time

	attempts  int
	successes int

	compiled *tengo.Compiled

	// now allows tests to drive the clock.
	now func() time.Time
}

// NewMockSequencer creates an idle sequencer for the assembly. A missing or
// broken script falls back to fixed one-second successful steps.
func NewMockSequencer(asm *assembly.Assembly) *MockSequencer {
	m := &MockSequencer{
		asm: asm,
		now: time.Now,
	}
	m.reset()

	compiled, err := compilePlanScript()
	if err != nil {
		fmt.Printf("exec: mock sequencer script unavailable, using defaults: %v\n", err)
	} else {
		m.compiled = compiled
	}
	return m
}

func compilePlanScript() (*tengo.Compiled, error) {
	src, err := scriptsFS.ReadFile(sequencerScript)
	if err != nil {
		return nil, err
	}
	script := tengo.NewScript(append(src, []byte(planDispatchScript)...))
	_ = script.Add("__step_id", "")
	_ = script.Add("__step_index", 0)
	_ = script.Add("__attempt", 1)
	_ = script.Add("__plan", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return script.Compile()
}

func (m *MockSequencer) reset() {
	steps := make(map[string]StepRuntimeState)
	if m.asm != nil {
		for _, s := range m.asm.Steps {
			steps[s.ID] = StepRuntimeState{StepID: s.ID, Status: StatusPending, Attempt: 0}
		}
	}
	assemblyID := ""
	if m.asm != nil {
		assemblyID = m.asm.ID
	}
	m.state = ExecutionState{
		Phase:      "idle",
		AssemblyID: assemblyID,
		StepStates: steps,
	}
	m.idx = 0
	m.attempt = 1
	m.stepFrom = time.Time{}
	m.running = false
}

// Start begins (or resumes) a run.
func (m *MockSequencer) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.asm == nil || m.asm.StepCount() == 0 {
		return
	}
	if m.state.Phase == "complete" || m.state.Phase == "idle" && m.idx == 0 && m.stepFrom.IsZero() {
		if m.state.Phase == "complete" {
			m.reset()
		}
		m.state.RunNumber++
		m.runFrom = m.now()
		start := unixSeconds(m.runFrom)
		m.state.StartTime = &start
	}
	m.running = true
	m.state.Phase = "running"
}

// Pause freezes the run without losing position.
func (m *MockSequencer) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		m.running = false
		m.state.Phase = "paused"
	}
}

// Stop abandons the run and returns to idle pending state.
func (m *MockSequencer) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	run := m.state.RunNumber
	m.reset()
	m.state.RunNumber = run
}

// Snapshot advances the sequencer to the current wall-clock time and returns
// a copy of its state.
func (m *MockSequencer) Snapshot() ExecutionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advance(m.now())
	return m.state.Clone()
}

func (m *MockSequencer) advance(now time.Time) {
	if !m.running || m.asm == nil {
		return
	}
	m.state.ElapsedMs = float64(now.Sub(m.runFrom)) / float64(time.Millisecond)

	for {
		if m.idx >= m.asm.StepCount() {
			m.state.Phase = "complete"
			m.state.CurrentStepID = ""
			m.running = false
			return
		}
		step := m.asm.Steps[m.idx]

		if m.stepFrom.IsZero() {
			m.beginStep(step, now)
			return
		}

		elapsed := now.Sub(m.stepFrom)
		if elapsed < m.plan.duration {
			return
		}
		m.finishStep(step, now, elapsed)
		if !m.running {
			return
		}
	}
}

func (m *MockSequencer) beginStep(step assembly.Step, now time.Time) {
	m.stepFrom = now
	m.plan = m.planStep(step.ID, m.idx, m.attempt)
	status := StatusRunning
	if m.attempt > 1 {
		status = StatusRetrying
	}
	start := unixSeconds(now)
	m.state.CurrentStepID = step.ID
	m.state.StepStates[step.ID] = StepRuntimeState{
		StepID:    step.ID,
		Status:    status,
		Attempt:   m.attempt,
		StartTime: &start,
	}
}

func (m *MockSequencer) finishStep(step assembly.Step, now time.Time, elapsed time.Duration) {
	st := m.state.StepStates[step.ID]
	end := unixSeconds(now)
	dur := float64(elapsed) / float64(time.Millisecond)
	st.EndTime = &end
	st.DurationMs = &dur

	m.attempts++
	switch m.plan.outcome {
	case StatusSuccess:
		st.Status = StatusSuccess
		m.successes++
		m.idx++
		m.attempt = 1
		m.stepFrom = time.Time{}
	case StatusHuman:
		// Parked for an operator; the mock "operator" resolves it as a
		// success after a fixed hold.
		st.Status = StatusHuman
		m.attempt++
		m.stepFrom = now
		m.plan = stepPlan{duration: humanHoldTime, outcome: StatusSuccess}
	default:
		st.Status = StatusFailed
		m.attempt++
		m.stepFrom = time.Time{}
	}
	m.state.StepStates[step.ID] = st

	if m.attempts > 0 {
		m.state.OverallSuccessRate = float64(m.successes) / float64(m.attempts)
	}
}

// planStep asks the script for this attempt's duration and outcome, falling
// back to the default plan on any script problem.
func (m *MockSequencer) planStep(stepID string, index, attempt int) stepPlan {
	if m.compiled == nil {
		return defaultPlan
	}
	if err := m.compiled.Set("__step_id", stepID); err != nil {
		return defaultPlan
	}
	if err := m.compiled.Set("__step_index", index); err != nil {
		return defaultPlan
	}
	if err := m.compiled.Set("__attempt", attempt); err != nil {
		return defaultPlan
	}
	if err := m.compiled.Run(); err != nil {
		fmt.Printf("exec: step plan script error: %v\n", err)
		return defaultPlan
	}

	raw, ok := m.compiled.Get("__plan").Value().(map[string]any)
	if !ok {
		return defaultPlan
	}
	plan := defaultPlan
	if ms, ok := numberValue(raw["duration_ms"]); ok && ms > 0 {
		plan.duration = time.Duration(ms * float64(time.Millisecond))
	}
	if outcome, ok := raw["outcome"].(string); ok {
		switch Status(outcome) {
		case StatusSuccess, StatusFailed, StatusHuman:
			plan.outcome = Status(outcome)
		}
	}
	return plan
}

func numberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
