package exec

import (
	"testing"
	"time"

	"github.com/milk9111/assemblyviewer/assembly"
	"github.com/milk9111/assemblyviewer/common"
)

func testAssembly(t *testing.T) *assembly.Assembly {
	t.Helper()
	asm, err := assembly.New("test", "Test",
		[]assembly.Part{
			{ID: "a", AssembledPosition: common.Vec3{}},
			{ID: "b", AssembledPosition: common.Vec3{X: 1}},
			{ID: "c", AssembledPosition: common.Vec3{X: 2}},
		},
		[]assembly.Step{
			{ID: "s0", PartID: "a"},
			{ID: "s1", PartID: "b"},
			{ID: "s2", PartID: "c"},
		})
	if err != nil {
		t.Fatalf("expected test assembly to build, got %v", err)
	}
	return asm
}

// deterministicSequencer disables the plan script so every step is a fixed
// one-second success, and pins the clock to the returned cursor.
func deterministicSequencer(t *testing.T, asm *assembly.Assembly) (*MockSequencer, *time.Time) {
	t.Helper()
	m := NewMockSequencer(asm)
	m.compiled = nil
	cursor := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return cursor }
	return m, &cursor
}

func TestMockSequencerWalksSteps(t *testing.T) {
	asm := testAssembly(t)
	m, cursor := deterministicSequencer(t, asm)

	m.Start()
	snap := m.Snapshot()
	if snap.Phase != "running" || snap.CurrentStepID != "s0" {
		t.Fatalf("expected running on s0, got %+v", snap)
	}
	if got := snap.StepStatus("s0"); got != StatusRunning {
		t.Fatalf("expected s0 running, got %s", got)
	}
	if got := snap.StepStatus("s1"); got != StatusPending {
		t.Fatalf("expected s1 pending, got %s", got)
	}

	*cursor = cursor.Add(time.Second)
	snap = m.Snapshot()
	if got := snap.StepStatus("s0"); got != StatusSuccess {
		t.Fatalf("expected s0 success after its duration, got %s", got)
	}
	if snap.CurrentStepID != "s1" {
		t.Fatalf("expected s1 current, got %s", snap.CurrentStepID)
	}

	*cursor = cursor.Add(time.Second)
	m.Snapshot()
	*cursor = cursor.Add(time.Second)
	snap = m.Snapshot()
	if snap.Phase != "complete" {
		t.Fatalf("expected complete run, got %s", snap.Phase)
	}
	for _, id := range []string{"s0", "s1", "s2"} {
		if got := snap.StepStatus(id); got != StatusSuccess {
			t.Fatalf("expected %s success, got %s", id, got)
		}
	}
	if snap.OverallSuccessRate != 1 {
		t.Fatalf("expected success rate 1, got %v", snap.OverallSuccessRate)
	}
}

func TestMockSequencerPauseFreezes(t *testing.T) {
	asm := testAssembly(t)
	m, cursor := deterministicSequencer(t, asm)

	m.Start()
	m.Snapshot()
	m.Pause()

	*cursor = cursor.Add(time.Minute)
	snap := m.Snapshot()
	if snap.Phase != "paused" {
		t.Fatalf("expected paused, got %s", snap.Phase)
	}
	if got := snap.StepStatus("s0"); got != StatusRunning {
		t.Fatalf("expected s0 frozen as running, got %s", got)
	}

	m.Start()
	snap = m.Snapshot()
	if snap.Phase != "running" {
		t.Fatalf("expected resumed run, got %s", snap.Phase)
	}
}

func TestMockSequencerStopResets(t *testing.T) {
	asm := testAssembly(t)
	m, cursor := deterministicSequencer(t, asm)

	m.Start()
	m.Snapshot()
	*cursor = cursor.Add(time.Second)
	m.Snapshot()
	run := m.Snapshot().RunNumber

	m.Stop()
	snap := m.Snapshot()
	if snap.Phase != "idle" {
		t.Fatalf("expected idle after stop, got %s", snap.Phase)
	}
	for _, id := range []string{"s0", "s1", "s2"} {
		if got := snap.StepStatus(id); got != StatusPending {
			t.Fatalf("expected %s back to pending, got %s", id, got)
		}
	}
	if snap.RunNumber != run {
		t.Fatalf("expected run number preserved, got %d", snap.RunNumber)
	}
}

func TestMockSequencerEmptyAssemblyInert(t *testing.T) {
	asm, err := assembly.New("empty", "Empty", nil, nil)
	if err != nil {
		t.Fatalf("expected empty assembly to build, got %v", err)
	}
	m, _ := deterministicSequencer(t, asm)

	m.Start()
	snap := m.Snapshot()
	if snap.Phase != "idle" {
		t.Fatalf("expected empty assembly to stay idle, got %s", snap.Phase)
	}
}

func TestExecutionStateCloneIsIndependent(t *testing.T) {
	orig := ExecutionState{
		Phase:      "running",
		StepStates: map[string]StepRuntimeState{"s0": {StepID: "s0", Status: StatusRunning}},
	}
	clone := orig.Clone()
	clone.StepStates["s0"] = StepRuntimeState{StepID: "s0", Status: StatusFailed}

	if got := orig.StepStatus("s0"); got != StatusRunning {
		t.Fatalf("expected original untouched, got %s", got)
	}
}

func TestStepStatusDefaultsPending(t *testing.T) {
	var s ExecutionState
	if got := s.StepStatus("anything"); got != StatusPending {
		t.Fatalf("expected pending default, got %s", got)
	}
}

func TestPlanScriptCompiles(t *testing.T) {
	m := NewMockSequencer(testAssembly(t))
	if m.compiled == nil {
		t.Fatal("expected the embedded plan script to compile")
	}
	plan := m.planStep("s0", 0, 1)
	if plan.duration <= 0 {
		t.Fatalf("expected positive duration, got %v", plan.duration)
	}
	switch plan.outcome {
	case StatusSuccess, StatusFailed, StatusHuman:
	default:
		t.Fatalf("unexpected outcome %s", plan.outcome)
	}
}

func TestFeedFallsBackToMockWithoutURL(t *testing.T) {
	asm := testAssembly(t)
	m, _ := deterministicSequencer(t, asm)

	f := NewFeed("", m)
	defer f.Close()

	if !f.UsingMock() {
		t.Fatal("expected mock mode without a feed url")
	}
	snap := f.Latest()
	if snap.Phase != "running" {
		t.Fatalf("expected the mock auto-started, got %s", snap.Phase)
	}
}
