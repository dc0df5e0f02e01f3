package quality_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dermalens/dermalens/internal/quality"
)

// uniformImage returns a w x h image filled with a single gray value.
func uniformImage(w, h int, value uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	c := color.NRGBA{R: value, G: value, B: value, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// checkerImage returns a w x h black/white checkerboard: maximal local
// contrast, mid-range mean brightness.
func checkerImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(0)
			if (x+y)%2 == 0 {
				v = 255
			}
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestCheckSharpCheckerboardPasses(t *testing.T) {
	checker := quality.NewChecker(quality.DefaultThresholds())

	report := checker.Check(checkerImage(640, 480))

	assert.True(t, report.InFocus, "checkerboard should exceed the sharpness threshold")
	assert.True(t, report.WellLit, "mean around 127 is inside the brightness band")
	assert.True(t, report.ResolutionOK)
	assert.True(t, report.Overall())
	assert.Empty(t, report.FailedChecks())
}

func TestCheckUniformImageIsBlurry(t *testing.T) {
	checker := quality.NewChecker(quality.DefaultThresholds())

	report := checker.Check(uniformImage(640, 480, 128))

	assert.Zero(t, report.Sharpness)
	assert.False(t, report.InFocus)
	assert.True(t, report.WellLit)
	assert.True(t, report.ResolutionOK)

	// One failing indicator fails the whole gate.
	assert.False(t, report.Overall())
	assert.Equal(t, []string{"blurry"}, report.FailedChecks())
}

func TestCheckBrightnessBand(t *testing.T) {
	checker := quality.NewChecker(quality.DefaultThresholds())

	tests := []struct {
		name    string
		value   uint8
		wellLit bool
	}{
		{"too dark", 20, false},
		{"lower edge", 40, true},
		{"mid-range", 128, true},
		{"upper edge", 220, true},
		{"too bright", 245, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := checker.Check(uniformImage(640, 480, tt.value))
			assert.Equal(t, tt.wellLit, report.WellLit)
			assert.InDelta(t, float64(tt.value), report.Brightness, 1.0)
		})
	}
}

func TestCheckResolution(t *testing.T) {
	checker := quality.NewChecker(quality.DefaultThresholds())

	tooSmall := checker.Check(checkerImage(639, 480))
	assert.False(t, tooSmall.ResolutionOK)

	exact := checker.Check(checkerImage(640, 480))
	assert.True(t, exact.ResolutionOK)
}

func TestFailedChecksNamesEveryFailure(t *testing.T) {
	checker := quality.NewChecker(quality.DefaultThresholds())

	// Dark uniform tiny image: sharpness, lighting and resolution all fail
	// at once.
	report := checker.Check(uniformImage(100, 100, 10))

	require.False(t, report.Overall())
	failed := report.FailedChecks()
	assert.Contains(t, failed, "blurry")
	assert.Contains(t, failed, "poor lighting")
	assert.Contains(t, failed, "resolution too low")
	assert.NotContains(t, failed, "face not detected")
}

func TestOverallIsConjunction(t *testing.T) {
	// The aggregate must flip with any single indicator.
	base := quality.Report{InFocus: true, FaceDetected: true, WellLit: true}
	assert.True(t, base.Overall())

	for _, mutate := range []func(*quality.Report){
		func(r *quality.Report) { r.InFocus = false },
		func(r *quality.Report) { r.FaceDetected = false },
		func(r *quality.Report) { r.WellLit = false },
	} {
		r := base
		mutate(&r)
		assert.False(t, r.Overall())
	}
}
