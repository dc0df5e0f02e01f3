package detect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dermalens/dermalens/internal/detect"
)

// frontalLandmarks builds a 468-point set describing a level, camera-facing
// face with open eyes. Unreferenced points sit at the center.
func frontalLandmarks() []detect.Point3 {
	pts := make([]detect.Point3, 468)
	for i := range pts {
		pts[i] = detect.Point3{X: 0.5, Y: 0.5}
	}

	pts[33] = detect.Point3{X: 0.35, Y: 0.4}  // left eye outer
	pts[263] = detect.Point3{X: 0.65, Y: 0.4} // right eye inner
	pts[1] = detect.Point3{X: 0.5, Y: 0.5}    // nose tip
	pts[61] = detect.Point3{X: 0.42, Y: 0.65} // mouth left
	pts[291] = detect.Point3{X: 0.58, Y: 0.65}
	pts[13] = detect.Point3{X: 0.5, Y: 0.62} // upper lip
	pts[14] = detect.Point3{X: 0.5, Y: 0.68}

	// Left eye contour, open.
	pts[133] = detect.Point3{X: 0.45, Y: 0.4}
	pts[160] = detect.Point3{X: 0.38, Y: 0.38}
	pts[158] = detect.Point3{X: 0.42, Y: 0.38}
	pts[144] = detect.Point3{X: 0.38, Y: 0.42}
	pts[153] = detect.Point3{X: 0.42, Y: 0.42}

	// Right eye contour, open.
	pts[362] = detect.Point3{X: 0.55, Y: 0.4}
	pts[385] = detect.Point3{X: 0.58, Y: 0.38}
	pts[373] = detect.Point3{X: 0.58, Y: 0.42}
	pts[387] = detect.Point3{X: 0.62, Y: 0.38}
	pts[380] = detect.Point3{X: 0.62, Y: 0.42}

	return pts
}

func TestEstimatePoseFrontalFace(t *testing.T) {
	pose := detect.EstimatePose(frontalLandmarks())

	assert.True(t, pose.IsFrontal)
	assert.False(t, pose.Degraded)
	assert.InDelta(t, 0, pose.Pose.Roll, 0.01, "level eyes give zero roll")
	assert.InDelta(t, 0, pose.Pose.Yaw, 0.01, "centered nose gives zero yaw")
	assert.Less(t, pose.Pose.Pitch, 20.0)
	assert.Greater(t, pose.EyeAspectRatio, 0.1, "open eyes")
	assert.Equal(t, 1.0, pose.QualityScore)
	assert.Equal(t, 468, pose.LandmarkCount)
}

func TestEstimatePoseTurnedHeadWithClosedEyes(t *testing.T) {
	pts := frontalLandmarks()

	// Nose pushed far right of the mouth line: yaw past the frontality
	// threshold.
	pts[1] = detect.Point3{X: 1.0, Y: 0.5}

	// Collapse both eye contours: EAR goes to zero.
	for _, idx := range []int{160, 158, 144, 153} {
		pts[idx] = detect.Point3{X: pts[idx].X, Y: 0.4}
	}
	for _, idx := range []int{385, 373, 387, 380} {
		pts[idx] = detect.Point3{X: pts[idx].X, Y: 0.4}
	}

	pose := detect.EstimatePose(pts)

	assert.False(t, pose.IsFrontal)
	assert.Less(t, pose.EyeAspectRatio, 0.1)

	// Both deductions stack: 1.0 - 0.2 - 0.15.
	assert.InDelta(t, 0.65, pose.QualityScore, 1e-9)
}

func TestEstimatePoseDegradedWithoutDenseLandmarks(t *testing.T) {
	tests := []struct {
		name      string
		landmarks []detect.Point3
	}{
		{"nil", nil},
		{"sparse", make([]detect.Point3, 5)},
		{"just under dense", make([]detect.Point3, 467)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pose := detect.EstimatePose(tt.landmarks)
			assert.True(t, pose.Degraded)
			assert.Equal(t, 0.5, pose.QualityScore)
			assert.Zero(t, pose.Pose.Yaw)
			assert.Zero(t, pose.Pose.Pitch)
			assert.Zero(t, pose.Pose.Roll)
		})
	}
}
