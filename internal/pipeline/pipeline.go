// Package pipeline orchestrates the full analysis flow: decode, quality
// gate, face location, pose estimation, alignment and skin analysis. Stages
// run strictly in order; a stage only runs if every stage before it passed.
package pipeline

import (
	"context"
	"image"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/dermalens/dermalens/internal/align"
	"github.com/dermalens/dermalens/internal/analyze"
	"github.com/dermalens/dermalens/internal/detect"
	"github.com/dermalens/dermalens/internal/quality"
)

// Status is the tagged outcome of a pipeline run.
type Status string

const (
	StatusCompleted       Status = "completed"
	StatusQualityRejected Status = "quality_rejected"
	StatusNoFaceFound     Status = "no_face_found"
	StatusFailed          Status = "failed"
)

// Outcome is the terminal artifact of one pipeline run. Exactly one of the
// optional fields is meaningful per status: Result for completed runs,
// Reasons for quality rejections, Error for failures. Quality is populated
// whenever the gate ran.
type Outcome struct {
	RequestID string           `json:"request_id"`
	Status    Status           `json:"status"`
	Quality   *quality.Report  `json:"quality,omitempty"`
	Faces     int              `json:"faces_detected"`
	Pose      *detect.PoseData `json:"pose,omitempty"`
	Result    *analyze.Result  `json:"result,omitempty"`
	Reasons   []string         `json:"reasons,omitempty"`
	Error     string           `json:"error,omitempty"`
	ElapsedMS int64            `json:"elapsed_ms"`

	// Primary face extent relative to the image, set on completed runs.
	FaceWidthRatio  float64 `json:"face_width_ratio,omitempty"`
	FaceHeightRatio float64 `json:"face_height_ratio,omitempty"`
}

// Locator is the face-location stage surface. *detect.Locator is the
// production implementation.
type Locator interface {
	Locate(ctx context.Context, img image.Image) []detect.Detection
	Primary(detections []detect.Detection) (detect.Detection, bool)
	PaddedBox(d detect.Detection, bounds image.Rectangle) detect.BoundingBox
}

// Pipeline wires the stages together. Read-only after construction; safe
// for concurrent Run calls.
type Pipeline struct {
	checker  *quality.Checker
	locator  Locator
	aligner  *align.Aligner
	analyzer *analyze.Analyzer
}

// New assembles a pipeline from its stages.
func New(checker *quality.Checker, locator Locator, aligner *align.Aligner, analyzer *analyze.Analyzer) *Pipeline {
	return &Pipeline{
		checker:  checker,
		locator:  locator,
		aligner:  aligner,
		analyzer: analyzer,
	}
}

// Run executes the full flow over raw upload bytes. Undecodable input is the
// only failure status; everything downstream resolves to a typed outcome.
func (p *Pipeline) Run(ctx context.Context, data []byte) Outcome {
	requestID := uuid.New().String()
	start := time.Now()
	logger := log.WithField("request_id", requestID)

	outcome := p.run(ctx, logger, data)
	outcome.RequestID = requestID
	outcome.ElapsedMS = time.Since(start).Milliseconds()

	logger.WithFields(log.Fields{
		"status":     outcome.Status,
		"faces":      outcome.Faces,
		"elapsed_ms": outcome.ElapsedMS,
	}).Info("Pipeline run finished")
	return outcome
}

func (p *Pipeline) run(ctx context.Context, logger *log.Entry, data []byte) Outcome {
	img, err := quality.Decode(data)
	if err != nil {
		logger.Warnf("Decode failed: %v", err)
		return Outcome{Status: StatusFailed, Error: err.Error()}
	}

	report := p.checker.Check(img)

	// The gate is a hard precondition for detection: sharpness, lighting
	// and resolution are checked first, and a failure halts the run before
	// the locator ever sees the image.
	if reasons := report.FailedChecks(); len(reasons) > 0 {
		report.FaceDetected = false
		logger.Infof("Quality gate rejected image: %v", reasons)
		return Outcome{
			Status:  StatusQualityRejected,
			Quality: &report,
			Reasons: reasons,
		}
	}

	// Face presence comes from the locator, not the resolution proxy. Zero
	// faces on a gate-passing image is its own terminal outcome.
	detections := p.locator.Locate(ctx, img)
	report.FaceDetected = len(detections) > 0
	if len(detections) == 0 {
		logger.Info("No face found in image")
		return Outcome{Status: StatusNoFaceFound, Quality: &report}
	}

	primary, _ := p.locator.Primary(detections)
	logger.Debugf("Primary face %dx%d centered at %v",
		primary.Box.Width(), primary.Box.Height(), primary.Box.Center())

	pose := detect.EstimatePose(primary.Landmarks)
	logger.Debugf("Pose: yaw=%.1f pitch=%.1f roll=%.1f frontal=%t quality=%.2f",
		pose.Pose.Yaw, pose.Pose.Pitch, pose.Pose.Roll, pose.IsFrontal, pose.QualityScore)

	padded := p.locator.PaddedBox(primary, img.Bounds())
	face := p.aligner.Align(img, padded)

	result := p.analyzer.Analyze(ctx, face, pose.QualityScore)

	bounds := img.Bounds()
	return Outcome{
		Status:          StatusCompleted,
		Quality:         &report,
		Faces:           len(detections),
		Pose:            &pose,
		Result:          &result,
		FaceWidthRatio:  float64(primary.Box.Width()) / float64(bounds.Dx()),
		FaceHeightRatio: float64(primary.Box.Height()) / float64(bounds.Dy()),
	}
}
