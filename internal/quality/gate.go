package quality

import (
	"image"

	log "github.com/sirupsen/logrus"

	"github.com/dermalens/dermalens/pkg/utils"
)

// Thresholds holds the tunable limits for the three quality indicators.
type Thresholds struct {
	MinWidth      int
	MinHeight     int
	MinBrightness float64 // 0-255 scale
	MaxBrightness float64
	MinSharpness  float64 // Laplacian variance
}

// DefaultThresholds are the reference calibration values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinWidth:      640,
		MinHeight:     480,
		MinBrightness: 40,
		MaxBrightness: 220,
		MinSharpness:  100,
	}
}

// Report is the three-indicator quality assessment of an input image.
//
// FaceDetected starts as the resolution check only. Callers that run face
// detection afterwards overwrite it with the locator's verdict, which is
// the authoritative signal for that indicator.
type Report struct {
	InFocus      bool    `json:"in_focus"`
	FaceDetected bool    `json:"face_detected"`
	WellLit      bool    `json:"well_lit"`
	Sharpness    float64 `json:"sharpness"`
	Brightness   float64 `json:"brightness"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	ResolutionOK bool    `json:"resolution_ok"`
}

// Overall reports whether all three indicators passed. The aggregate is
// always the conjunction of the three, never computed independently.
func (r Report) Overall() bool {
	return r.InFocus && r.FaceDetected && r.WellLit
}

// FailedChecks names the failing pre-detection indicators in
// user-actionable terms. Face presence is not listed here: a missing face
// is its own outcome, not a quality reason.
func (r Report) FailedChecks() []string {
	var failed []string
	if !r.InFocus {
		failed = append(failed, "blurry")
	}
	if !r.WellLit {
		failed = append(failed, "poor lighting")
	}
	if !r.ResolutionOK {
		failed = append(failed, "resolution too low")
	}
	return failed
}

// Checker runs the quality gate over decoded images. Pure: no state beyond
// the configured thresholds.
type Checker struct {
	thresholds Thresholds
}

// NewChecker creates a quality checker with the given thresholds.
func NewChecker(t Thresholds) *Checker {
	return &Checker{thresholds: t}
}

// Check computes the per-indicator report for an image. FaceDetected is
// provisionally set to the resolution check; callers that run face
// detection afterwards must overwrite it with the real verdict.
func (c *Checker) Check(img image.Image) Report {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	gray := toGray(img)
	brightness := meanIntensity(img)
	sharpness := utils.LaplacianVariance(gray, w, h)

	report := Report{
		Width:        w,
		Height:       h,
		Brightness:   brightness,
		Sharpness:    sharpness,
		ResolutionOK: w >= c.thresholds.MinWidth && h >= c.thresholds.MinHeight,
		WellLit:      brightness >= c.thresholds.MinBrightness && brightness <= c.thresholds.MaxBrightness,
		InFocus:      sharpness >= c.thresholds.MinSharpness,
	}
	report.FaceDetected = report.ResolutionOK

	log.Debugf("Quality gate: sharpness=%.1f brightness=%.1f resolution=%dx%d focus=%t lit=%t",
		sharpness, brightness, w, h, report.InFocus, report.WellLit)
	return report
}
