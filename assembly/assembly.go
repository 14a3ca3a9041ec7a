package assembly

import (
	"fmt"

	"github.com/milk9111/assemblyviewer/common"
)

// defaultApproachOffsetScale sizes the approach offset when a spec leaves it
// zero: twice the part's bounding height.
const defaultApproachOffsetScale = 2.0

// Part is one physical piece of an assembly. Immutable after load.
type Part struct {
	ID   string
	Name string
	// AssembledPosition is where the part sits once placed.
	AssembledPosition common.Vec3
	// ApproachVector is the unit direction from the assembled position to
	// the staging point. Defaults to straight down.
	ApproachVector common.Vec3
	// ApproachOffset is how far along the approach vector the part stages
	// before placement.
	ApproachOffset float64
	BoundingHeight float64
}

// ApproachPosition is where the part waits before it is placed: offset from
// the assembled position along the approach vector. The part travels back
// along that vector to seat.
func (p Part) ApproachPosition() common.Vec3 {
	return p.AssembledPosition.Add(p.ApproachVector.Scale(p.ApproachOffset))
}

// Step places one part. Steps are ordered; Index is the position in that order.
type Step struct {
	ID     string
	PartID string
	Index  int
}

// Assembly is the read-only projection the animation engine runs against.
type Assembly struct {
	ID    string
	Name  string
	Parts []Part
	Steps []Step

	partsByID   map[string]*Part
	stepIndexOf map[string]int // part id -> step index
	stepsByID   map[string]*Step
}

// New builds an Assembly from loaded parts and steps, applying defaults and
// indexing lookups. Steps are renumbered to their slice order.
func New(id, name string, parts []Part, steps []Step) (*Assembly, error) {
	a := &Assembly{
		ID:          id,
		Name:        name,
		Parts:       parts,
		Steps:       steps,
		partsByID:   make(map[string]*Part, len(parts)),
		stepIndexOf: make(map[string]int, len(steps)),
		stepsByID:   make(map[string]*Step, len(steps)),
	}

	for i := range a.Parts {
		p := &a.Parts[i]
		if p.ID == "" {
			return nil, fmt.Errorf("assembly %s: part %d has no id", id, i)
		}
		if p.BoundingHeight <= 0 {
			p.BoundingHeight = 1
		}
		if p.ApproachVector.Length() == 0 {
			p.ApproachVector = common.Vec3{Z: -1}
		} else {
			p.ApproachVector = p.ApproachVector.Normalize()
		}
		if p.ApproachOffset <= 0 {
			p.ApproachOffset = defaultApproachOffsetScale * p.BoundingHeight
		}
		a.partsByID[p.ID] = p
	}

	for i := range a.Steps {
		s := &a.Steps[i]
		s.Index = i
		if _, ok := a.partsByID[s.PartID]; !ok {
			return nil, fmt.Errorf("assembly %s: step %s references unknown part %q", id, s.ID, s.PartID)
		}
		a.stepIndexOf[s.PartID] = i
		a.stepsByID[s.ID] = s
	}

	return a, nil
}

// StepCount returns the number of ordered steps.
func (a *Assembly) StepCount() int {
	if a == nil {
		return 0
	}
	return len(a.Steps)
}

// Part returns the part with the given id, or nil.
func (a *Assembly) Part(id string) *Part {
	if a == nil {
		return nil
	}
	return a.partsByID[id]
}

// StepByID returns the step with the given id, or nil.
func (a *Assembly) StepByID(id string) *Step {
	if a == nil {
		return nil
	}
	return a.stepsByID[id]
}

// StepIndexForPart returns the index of the step that places the part, or -1
// when no step places it.
func (a *Assembly) StepIndexForPart(partID string) int {
	if a == nil {
		return -1
	}
	if i, ok := a.stepIndexOf[partID]; ok {
		return i
	}
	return -1
}

// PartForStep returns the part placed by the step at index i, or nil when the
// index is out of bounds.
func (a *Assembly) PartForStep(i int) *Part {
	if a == nil || i < 0 || i >= len(a.Steps) {
		return nil
	}
	return a.partsByID[a.Steps[i].PartID]
}
