package arm

import (
	"math"

	"github.com/milk9111/assemblyviewer/common"
)

// ChainPoints lays the solved joint angles out as world-space joint
// positions, base first, gripper tip last. Segments live in the vertical
// plane selected by the pose yaw; each joint bends the chain back toward the
// ground, producing the schematic curl.
func ChainPoints(cfg Config, pose Pose) []common.Vec3 {
	pts := make([]common.Vec3, 0, len(cfg.SegmentLengths)+1)
	pts = append(pts, cfg.Base)

	cosYaw := math.Cos(pose.Yaw)
	sinYaw := math.Sin(pose.Yaw)

	theta := 0.0
	r, z := 0.0, 0.0
	for i, length := range cfg.SegmentLengths {
		if i < len(pose.JointAngles) {
			if i == 0 {
				theta = pose.JointAngles[0]
			} else {
				theta -= pose.JointAngles[i]
			}
		}
		r += length * math.Cos(theta)
		z += length * math.Sin(theta)
		pts = append(pts, common.Vec3{
			X: cfg.Base.X + r*cosYaw,
			Y: cfg.Base.Y + r*sinYaw,
			Z: cfg.Base.Z + z,
		})
	}
	return pts
}
