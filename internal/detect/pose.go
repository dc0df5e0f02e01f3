package detect

import (
	"math"

	log "github.com/sirupsen/logrus"
)

// Dense mesh anchor indices (468-point topology).
const (
	meshNoseTip    = 1
	meshLeftEye    = 33
	meshRightEye   = 263
	meshLeftMouth  = 61
	meshRightMouth = 291
	meshUpperLip   = 13
	meshLowerLip   = 14
)

// Frontality thresholds in degrees. Calibration constants; changes here
// shift which captures count as usable for region analysis.
const (
	yawThreshold   = 25.0
	pitchThreshold = 20.0
)

// Quality deductions applied to the composite pose quality score.
const (
	nonFrontalPenalty = 0.2
	closedEyesPenalty = 0.15
	lowEARThreshold   = 0.1
)

// leftEyeEAR / rightEyeEAR are the six-point eye contours used for the
// eye-aspect-ratio: [outer corner, upper1, upper2, inner corner, lower2, lower1].
var (
	leftEyeEAR  = [6]int{33, 160, 158, 133, 153, 144}
	rightEyeEAR = [6]int{362, 385, 387, 263, 380, 373}
)

// EstimatePose derives head pose, eye/mouth aspect ratios, frontality and a
// composite quality score from a dense landmark set.
//
// The pose formulas are 2D arctangent heuristics over normalized landmark
// coordinates, not a calibrated camera solve. When the landmark set is
// missing or below the dense cardinality, all pose fields default to zero
// and the result is flagged degraded.
func EstimatePose(landmarks []Point3) PoseData {
	if len(landmarks) < 468 {
		return PoseData{
			QualityScore:  0.5,
			LandmarkCount: len(landmarks),
			Degraded:      true,
		}
	}

	nose := landmarks[meshNoseTip]
	leftEye := landmarks[meshLeftEye]
	rightEye := landmarks[meshRightEye]
	leftMouth := landmarks[meshLeftMouth]
	rightMouth := landmarks[meshRightMouth]

	eyeCenterY := (leftEye.Y + rightEye.Y) / 2
	mouthCenterX := (leftMouth.X + rightMouth.X) / 2

	dx := rightEye.X - leftEye.X
	dy := rightEye.Y - leftEye.Y

	// Roll: rotation around the camera axis, from the eye line slope.
	roll := degrees(math.Atan2(dy, dx))

	// Pitch: up-down tilt. The +1 keeps the denominator nonzero when the
	// eyes are perfectly level.
	pitch := degrees(math.Atan2(nose.Y-eyeCenterY, math.Abs(dx)+1))

	// Yaw: left-right turn, from nose offset against the mouth line.
	yaw := degrees(math.Atan2(nose.X-mouthCenterX, math.Abs(dy)+1))

	pose := HeadPose{Yaw: yaw, Pitch: pitch, Roll: roll}
	frontal := math.Abs(yaw) < yawThreshold && math.Abs(pitch) < pitchThreshold

	ear := eyeAspectRatio(landmarks)
	mar := mouthAspectRatio(landmarks)

	quality := 1.0
	if !frontal {
		quality -= nonFrontalPenalty
	}
	if ear < lowEARThreshold {
		quality -= closedEyesPenalty // eyes closed or squeezed
	}
	if quality < 0 {
		quality = 0
	}

	log.Debugf("Pose estimate: yaw=%.1f pitch=%.1f roll=%.1f frontal=%t ear=%.3f quality=%.2f",
		yaw, pitch, roll, frontal, ear, quality)

	return PoseData{
		Pose:             pose,
		EyeAspectRatio:   ear,
		MouthAspectRatio: mar,
		IsFrontal:        frontal,
		QualityScore:     quality,
		LandmarkCount:    len(landmarks),
	}
}

// eyeAspectRatio averages the EAR over both eyes. Low values indicate
// closed or squeezed eyes; it reduces the composite quality score but is
// never a hard gate.
func eyeAspectRatio(landmarks []Point3) float64 {
	left := singleEyeEAR(landmarks, leftEyeEAR)
	right := singleEyeEAR(landmarks, rightEyeEAR)
	return (left + right) / 2
}

func singleEyeEAR(landmarks []Point3, idx [6]int) float64 {
	vertical := (dist2D(landmarks[idx[1]], landmarks[idx[5]]) +
		dist2D(landmarks[idx[2]], landmarks[idx[4]])) / 2
	horizontal := dist2D(landmarks[idx[0]], landmarks[idx[3]])
	return vertical / (horizontal + 1e-6)
}

// mouthAspectRatio measures mouth opening from the inner lip landmarks.
func mouthAspectRatio(landmarks []Point3) float64 {
	vertical := dist2D(landmarks[meshUpperLip], landmarks[meshLowerLip])
	horizontal := dist2D(landmarks[meshLeftMouth], landmarks[meshRightMouth])
	return vertical / (horizontal + 1e-6)
}

func dist2D(a, b Point3) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
