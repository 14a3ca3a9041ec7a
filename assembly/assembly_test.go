package assembly

import (
	"math"
	"strings"
	"testing"

	"github.com/milk9111/assemblyviewer/common"
)

func TestNewAppliesDefaults(t *testing.T) {
	asm, err := New("t", "T",
		[]Part{{ID: "p"}},
		[]Step{{ID: "s", PartID: "p"}})
	if err != nil {
		t.Fatalf("expected assembly to build, got %v", err)
	}

	p := asm.Part("p")
	if p.BoundingHeight != 1 {
		t.Fatalf("expected default bounding height 1, got %v", p.BoundingHeight)
	}
	if (p.ApproachVector != common.Vec3{Z: -1}) {
		t.Fatalf("expected default approach vector straight down, got %v", p.ApproachVector)
	}
	if p.ApproachOffset != 2 {
		t.Fatalf("expected default offset twice the bounding height, got %v", p.ApproachOffset)
	}
}

func TestNewNormalizesApproachVector(t *testing.T) {
	asm, err := New("t", "T",
		[]Part{{ID: "p", ApproachVector: common.Vec3{X: 3, Y: 4}}},
		nil)
	if err != nil {
		t.Fatalf("expected assembly to build, got %v", err)
	}

	v := asm.Part("p").ApproachVector
	if math.Abs(v.Length()-1) > 1e-9 {
		t.Fatalf("expected unit approach vector, got length %v", v.Length())
	}
	if math.Abs(v.X-0.6) > 1e-9 || math.Abs(v.Y-0.8) > 1e-9 {
		t.Fatalf("expected direction preserved, got %v", v)
	}
}

func TestNewRejectsUnknownPartRef(t *testing.T) {
	_, err := New("t", "T",
		[]Part{{ID: "p"}},
		[]Step{{ID: "s", PartID: "missing"}})
	if err == nil {
		t.Fatal("expected error for step referencing unknown part")
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Fatalf("expected the unknown part named in the error, got %v", err)
	}
}

func TestNewRenumbersSteps(t *testing.T) {
	asm, err := New("t", "T",
		[]Part{{ID: "a"}, {ID: "b"}},
		[]Step{
			{ID: "s0", PartID: "a", Index: 7},
			{ID: "s1", PartID: "b", Index: 2},
		})
	if err != nil {
		t.Fatalf("expected assembly to build, got %v", err)
	}

	for i, s := range asm.Steps {
		if s.Index != i {
			t.Fatalf("step %s: expected index %d, got %d", s.ID, i, s.Index)
		}
	}
}

func TestApproachPosition(t *testing.T) {
	p := Part{
		AssembledPosition: common.Vec3{X: 1, Y: 2, Z: 3},
		ApproachVector:    common.Vec3{Z: 1},
		ApproachOffset:    2.5,
	}
	want := common.Vec3{X: 1, Y: 2, Z: 5.5}
	if got := p.ApproachPosition(); got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestLookups(t *testing.T) {
	asm, err := New("t", "T",
		[]Part{{ID: "a"}, {ID: "b"}, {ID: "static"}},
		[]Step{
			{ID: "s0", PartID: "a"},
			{ID: "s1", PartID: "b"},
		})
	if err != nil {
		t.Fatalf("expected assembly to build, got %v", err)
	}

	if got := asm.StepIndexForPart("b"); got != 1 {
		t.Fatalf("expected step index 1, got %d", got)
	}
	if got := asm.StepIndexForPart("static"); got != -1 {
		t.Fatalf("expected -1 for static part, got %d", got)
	}
	if got := asm.PartForStep(0); got == nil || got.ID != "a" {
		t.Fatalf("expected part a for step 0, got %v", got)
	}
	if got := asm.PartForStep(5); got != nil {
		t.Fatalf("expected nil for out-of-range step, got %v", got)
	}
	if got := asm.StepByID("s1"); got == nil || got.PartID != "b" {
		t.Fatalf("expected step s1 placing b, got %v", got)
	}

	var nilAsm *Assembly
	if nilAsm.StepCount() != 0 || nilAsm.Part("a") != nil || nilAsm.StepIndexForPart("a") != -1 {
		t.Fatal("expected nil assembly lookups to degrade safely")
	}
}

func TestFromSpec(t *testing.T) {
	spec := AssemblySpec{
		ID:   "demo",
		Name: "Demo",
		Parts: []PartSpec{
			{ID: "base", Position: Vec3Spec{X: 1}, BoundingHeight: 2},
			{ID: "top", Position: Vec3Spec{Z: 1}, Approach: &Vec3Spec{Y: -1}, ApproachOffset: 3},
		},
		Steps: []StepSpec{
			{Part: "base"},
			{ID: "place-top", Part: "top"},
		},
	}

	asm, err := FromSpec(spec)
	if err != nil {
		t.Fatalf("expected spec to build, got %v", err)
	}

	if asm.Part("base").ApproachOffset != 4 {
		t.Fatalf("expected derived offset 4, got %v", asm.Part("base").ApproachOffset)
	}
	top := asm.Part("top")
	if (top.ApproachVector != common.Vec3{Y: -1}) || top.ApproachOffset != 3 {
		t.Fatalf("expected explicit approach preserved, got %+v", top)
	}
	// Anonymous steps get generated ids.
	if asm.Steps[0].ID != "step-0" {
		t.Fatalf("expected generated step id, got %s", asm.Steps[0].ID)
	}
	if got := asm.StepByID("place-top"); got == nil || got.Index != 1 {
		t.Fatalf("expected named step at index 1, got %v", got)
	}
}

func TestLoadAssemblyEmbedded(t *testing.T) {
	asm, err := LoadAssembly("gearbox")
	if err != nil {
		t.Fatalf("expected embedded gearbox to load, got %v", err)
	}
	if asm.ID != "gearbox" {
		t.Fatalf("expected id gearbox, got %s", asm.ID)
	}
	if asm.StepCount() == 0 || len(asm.Parts) == 0 {
		t.Fatal("expected parts and steps")
	}
	for _, s := range asm.Steps {
		if asm.Part(s.PartID) == nil {
			t.Fatalf("step %s references missing part %s", s.ID, s.PartID)
		}
	}
}

func TestLoadAssemblyMissing(t *testing.T) {
	if _, err := LoadAssembly("no-such-assembly"); err == nil {
		t.Fatal("expected error for unknown assembly")
	}
}

func TestListIncludesGearbox(t *testing.T) {
	names := List()
	found := false
	for _, n := range names {
		if n == "gearbox" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected gearbox in %v", names)
	}
}
