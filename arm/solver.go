// Package arm animates a schematic multi-segment manipulator. The solver is a
// stylized pose approximation, not inverse kinematics: the end effector chases
// its target with a critically-damped approach and the joints curl by a
// heuristic fold distribution. Replacing it with a true IK chain would change
// the reach and stability behavior the tests pin down.
package arm

import (
	"math"

	"github.com/milk9111/assemblyviewer/common"
)

// EffectorPhase is what the gripper is currently doing.
type EffectorPhase int

const (
	EffectorIdle EffectorPhase = iota
	EffectorApproach
	EffectorGrasp
	EffectorRetreat
)

func (p EffectorPhase) String() string {
	switch p {
	case EffectorIdle:
		return "idle"
	case EffectorApproach:
		return "approach"
	case EffectorGrasp:
		return "grasp"
	case EffectorRetreat:
		return "retreat"
	}
	return "unknown"
}

// maxReach caps normalized extension below 1 so the chain never straightens
// into the degenerate, visually locked pose.
const maxReach = 0.95

// Config sizes the arm and tunes its motion.
type Config struct {
	// Base is the fixed mount position of the first joint.
	Base common.Vec3
	// SegmentLengths are the link lengths from base to gripper.
	SegmentLengths []float64
	// ApproachRate is the damping rate k in 1-e^(-k*dt).
	ApproachRate float64
	// MaxFold is the total curl (radians) distributed over joints at zero
	// extension.
	MaxFold float64
	// BaseShare is the base joint's relative share of the fold; each further
	// joint's share decays by ShareDecay.
	BaseShare  float64
	ShareDecay float64

	GripperOpen   float64
	GripperClosed float64
	GripperRate   float64
}

// DefaultConfig returns the tuning used by the viewer.
func DefaultConfig() Config {
	return Config{
		Base:           common.Vec3{X: -4, Y: -2.5, Z: 0},
		SegmentLengths: []float64{1.4, 1.1, 0.9, 0.6},
		ApproachRate:   6,
		MaxFold:        2.2,
		BaseShare:      1,
		ShareDecay:     0.6,
		GripperOpen:    0.08,
		GripperClosed:  0.012,
		GripperRate:    10,
	}
}

// Pose is the solved arm state handed to the renderer each tick.
type Pose struct {
	Effector common.Vec3
	Yaw      float64
	Pitch    float64
	// JointAngles holds one angle per segment: the base joint carries pitch
	// plus its fold share, later joints carry only their fold share.
	JointAngles []float64
	GripperGap  float64
	// Reach is the normalized extension in [0, maxReach].
	Reach float64
}

// Solver holds the arm's continuous state between ticks.
type Solver struct {
	cfg      Config
	effector common.Vec3
	gap      float64
	total    float64
	shares   []float64
}

// NewSolver creates a solver resting at the configured base.
func NewSolver(cfg Config) *Solver {
	if len(cfg.SegmentLengths) == 0 {
		cfg.SegmentLengths = DefaultConfig().SegmentLengths
	}
	total := 0.0
	for _, l := range cfg.SegmentLengths {
		total += l
	}

	// Normalized geometric fold shares: base joint first, decaying outward.
	shares := make([]float64, len(cfg.SegmentLengths))
	sum := 0.0
	share := cfg.BaseShare
	for i := range shares {
		shares[i] = share
		sum += share
		share *= cfg.ShareDecay
	}
	for i := range shares {
		shares[i] /= sum
	}

	return &Solver{
		cfg:      cfg,
		effector: cfg.Base,
		gap:      cfg.GripperOpen,
		total:    total,
		shares:   shares,
	}
}

// Effector returns the current end-effector position.
func (s *Solver) Effector() common.Vec3 {
	return s.effector
}

// Step moves the end effector a damped fraction of the remaining distance to
// target, updates the gripper gap for the effector phase, and derives joint
// angles. dt is in seconds; a non-positive dt re-derives the pose unchanged.
func (s *Solver) Step(target common.Vec3, phase EffectorPhase, dt float64) Pose {
	if dt > 0 {
		alpha := common.DampFactor(s.cfg.ApproachRate, dt)
		s.effector = s.effector.Add(target.Sub(s.effector).Scale(alpha))

		gapTarget := s.cfg.GripperOpen
		if phase == EffectorGrasp {
			gapTarget = s.cfg.GripperClosed
		}
		s.gap += (gapTarget - s.gap) * common.DampFactor(s.cfg.GripperRate, dt)
	}
	return s.pose()
}

func (s *Solver) pose() Pose {
	delta := s.effector.Sub(s.cfg.Base)
	horiz := math.Hypot(delta.X, delta.Y)
	dist := delta.Length()

	yaw := 0.0
	if horiz > 1e-9 {
		yaw = math.Atan2(delta.Y, delta.X)
	}
	pitch := 0.0
	if dist > 1e-9 {
		pitch = math.Atan2(delta.Z, horiz)
	}

	reach := 0.0
	if s.total > 0 {
		reach = math.Min(dist/s.total, maxReach)
	}
	fold := (1 - reach) * s.cfg.MaxFold

	angles := make([]float64, len(s.shares))
	for i, share := range s.shares {
		angles[i] = fold * share
	}
	if len(angles) > 0 {
		angles[0] += pitch
	}

	return Pose{
		Effector:    s.effector,
		Yaw:         yaw,
		Pitch:       pitch,
		JointAngles: angles,
		GripperGap:  s.gap,
		Reach:       reach,
	}
}
