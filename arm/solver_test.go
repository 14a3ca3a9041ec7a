package arm

import (
	"math"
	"testing"

	"github.com/milk9111/assemblyviewer/common"
)

func TestSolverReachNeverSaturates(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSolver(cfg)

	// A target far past the arm's total length.
	target := cfg.Base.Add(common.Vec3{X: 100})
	var pose Pose
	for i := 0; i < 600; i++ {
		pose = s.Step(target, EffectorApproach, 1.0/60.0)
	}

	if pose.Reach > maxReach {
		t.Fatalf("expected reach capped at %v, got %v", maxReach, pose.Reach)
	}
	if pose.Reach < 0.9 {
		t.Fatalf("expected near-full extension chasing a distant target, got %v", pose.Reach)
	}
}

func TestSolverDampedConvergence(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSolver(cfg)
	target := cfg.Base.Add(common.Vec3{X: 1.5, Z: 0.8})

	prev := s.Effector().Sub(target).Length()
	for i := 0; i < 300; i++ {
		s.Step(target, EffectorApproach, 1.0/60.0)
		d := s.Effector().Sub(target).Length()
		if d > prev+1e-12 {
			t.Fatalf("tick %d: distance grew from %v to %v", i, prev, d)
		}
		prev = d
	}
	if prev > 1e-3 {
		t.Fatalf("expected convergence to target, still %v away", prev)
	}
}

func TestSolverNoOvershoot(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSolver(cfg)
	target := cfg.Base.Add(common.Vec3{X: 2})

	// Even an enormous dt moves at most the full remaining distance.
	s.Step(target, EffectorApproach, 100)
	if got := s.Effector().X; got > target.X+1e-9 {
		t.Fatalf("expected no overshoot past %v, got %v", target.X, got)
	}
}

func TestSolverNonPositiveDt(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSolver(cfg)
	target := cfg.Base.Add(common.Vec3{X: 2})

	before := s.Effector()
	pose := s.Step(target, EffectorApproach, 0)
	if s.Effector() != before {
		t.Fatalf("expected effector unchanged for dt=0, got %v", s.Effector())
	}
	if pose.Effector != before {
		t.Fatalf("expected pose at current position, got %v", pose.Effector)
	}
	s.Step(target, EffectorApproach, -1)
	if s.Effector() != before {
		t.Fatal("expected effector unchanged for negative dt")
	}
}

func TestSolverGripper(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSolver(cfg)
	target := cfg.Base.Add(common.Vec3{X: 1})

	for i := 0; i < 300; i++ {
		s.Step(target, EffectorGrasp, 1.0/60.0)
	}
	pose := s.Step(target, EffectorGrasp, 1.0/60.0)
	if math.Abs(pose.GripperGap-cfg.GripperClosed) > 1e-3 {
		t.Fatalf("expected gripper closed near %v, got %v", cfg.GripperClosed, pose.GripperGap)
	}

	for i := 0; i < 300; i++ {
		s.Step(target, EffectorRetreat, 1.0/60.0)
	}
	pose = s.Step(target, EffectorRetreat, 1.0/60.0)
	if math.Abs(pose.GripperGap-cfg.GripperOpen) > 1e-3 {
		t.Fatalf("expected gripper reopened near %v, got %v", cfg.GripperOpen, pose.GripperGap)
	}
}

func TestSolverFoldSharesDecay(t *testing.T) {
	s := NewSolver(DefaultConfig())

	pose := s.Step(s.cfg.Base.Add(common.Vec3{X: 0.5}), EffectorIdle, 1.0/60.0)
	if len(pose.JointAngles) != len(s.cfg.SegmentLengths) {
		t.Fatalf("expected one angle per segment, got %d", len(pose.JointAngles))
	}
	// Past the base joint (which also carries pitch), folds strictly decay.
	for i := 2; i < len(pose.JointAngles); i++ {
		if pose.JointAngles[i] >= pose.JointAngles[i-1] {
			t.Fatalf("expected decaying fold shares, angle %d (%v) >= angle %d (%v)",
				i, pose.JointAngles[i], i-1, pose.JointAngles[i-1])
		}
	}
}

func TestSolverYawPitchTrackTarget(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSolver(cfg)
	target := cfg.Base.Add(common.Vec3{X: 1, Y: 1, Z: 1})

	var pose Pose
	for i := 0; i < 300; i++ {
		pose = s.Step(target, EffectorApproach, 1.0/60.0)
	}

	if math.Abs(pose.Yaw-math.Pi/4) > 1e-2 {
		t.Fatalf("expected yaw near pi/4, got %v", pose.Yaw)
	}
	wantPitch := math.Atan2(1, math.Sqrt2)
	if math.Abs(pose.Pitch-wantPitch) > 1e-2 {
		t.Fatalf("expected pitch near %v, got %v", wantPitch, pose.Pitch)
	}
}

func TestChainPointsSegmentLengths(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSolver(cfg)
	pose := s.Step(cfg.Base.Add(common.Vec3{X: 2, Z: 0.5}), EffectorApproach, 1.0/60.0)

	pts := ChainPoints(cfg, pose)
	if len(pts) != len(cfg.SegmentLengths)+1 {
		t.Fatalf("expected %d points, got %d", len(cfg.SegmentLengths)+1, len(pts))
	}
	if pts[0] != cfg.Base {
		t.Fatalf("expected chain anchored at base, got %v", pts[0])
	}
	for i, length := range cfg.SegmentLengths {
		got := pts[i+1].Sub(pts[i]).Length()
		if math.Abs(got-length) > 1e-9 {
			t.Fatalf("segment %d: expected length %v, got %v", i, length, got)
		}
	}
}
