package detect

import (
	"fmt"
	"image"
	"os"
	"sort"

	pigo "github.com/esimov/pigo/core"
	log "github.com/sirupsen/logrus"
)

// FastDetector is the baseline cascade face detector. It establishes face
// presence and a crude bounding box quickly; landmark refinement is layered
// on top by the Locator when a dense backend is available.
//
// The unpacked classifier is read-only after construction and safe to share
// across concurrent detections.
type FastDetector struct {
	classifier     *pigo.Pigo
	minFaceSize    int
	scoreThreshold float32
}

// FastDetectorConfig holds configuration for the cascade detector.
type FastDetectorConfig struct {
	CascadePath    string  // binary cascade file
	MinFaceSize    int     // minimum face side in pixels (default: 100)
	ScoreThreshold float64 // minimum cascade score (default: 5.0)
}

// NewFastDetector loads and unpacks the binary cascade file.
func NewFastDetector(cfg FastDetectorConfig) (*FastDetector, error) {
	if cfg.CascadePath == "" {
		return nil, fmt.Errorf("cascade file path is required")
	}
	if cfg.MinFaceSize == 0 {
		cfg.MinFaceSize = 100
	}
	if cfg.ScoreThreshold == 0 {
		cfg.ScoreThreshold = 5.0
	}

	cascadeFile, err := os.ReadFile(cfg.CascadePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read cascade file: %w", err)
	}

	classifier, err := pigo.NewPigo().Unpack(cascadeFile)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack cascade file: %w", err)
	}

	return &FastDetector{
		classifier:     classifier,
		minFaceSize:    cfg.MinFaceSize,
		scoreThreshold: float32(cfg.ScoreThreshold),
	}, nil
}

// Detect runs the multi-scale cascade over the image and returns every face
// above the score threshold, ordered by bounding-box area descending with
// ties broken by leftmost x1 so results are reproducible.
func (d *FastDetector) Detect(img image.Image) []Detection {
	src := pigo.ImgToNRGBA(img)
	pixels := pigo.RgbToGrayscale(src)
	cols, rows := src.Bounds().Max.X, src.Bounds().Max.Y

	maxSize := cols
	if rows > maxSize {
		maxSize = rows
	}

	cParams := pigo.CascadeParams{
		MinSize:     d.minFaceSize,
		MaxSize:     maxSize,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,

		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := d.classifier.RunCascade(cParams, 0.0)
	dets = d.classifier.ClusterDetections(dets, 0.2)

	detections := make([]Detection, 0, len(dets))
	for _, det := range dets {
		if det.Q < d.scoreThreshold {
			continue
		}

		half := det.Scale / 2
		box := BoundingBox{
			XMin: det.Col - half,
			YMin: det.Row - half,
			XMax: det.Col + half,
			YMax: det.Row + half,
		}
		box = clampBox(box, img.Bounds())
		if box.Width() <= 0 || box.Height() <= 0 {
			continue
		}

		detections = append(detections, Detection{
			Box:        box,
			Confidence: scoreToConfidence(det.Q),
		})
	}

	sort.SliceStable(detections, func(i, j int) bool {
		ai, aj := detections[i].Box.Area(), detections[j].Box.Area()
		if ai != aj {
			return ai > aj
		}
		return detections[i].Box.XMin < detections[j].Box.XMin
	})

	log.Debugf("Cascade detector found %d face(s)", len(detections))
	return detections
}

// scoreToConfidence maps the cascade's unbounded quality score onto [0,1].
// Scores around 10 and above are near-certain detections in practice.
func scoreToConfidence(q float32) float64 {
	conf := float64(q) / 10.0
	if conf > 1.0 {
		conf = 1.0
	}
	if conf < 0 {
		conf = 0
	}
	return conf
}

func clampBox(b BoundingBox, bounds image.Rectangle) BoundingBox {
	return BoundingBox{
		XMin: maxInt(bounds.Min.X, b.XMin),
		YMin: maxInt(bounds.Min.Y, b.YMin),
		XMax: minInt(bounds.Max.X, b.XMax),
		YMax: minInt(bounds.Max.Y, b.YMax),
	}
}
