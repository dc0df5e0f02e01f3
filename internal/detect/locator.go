package detect

import (
	"context"
	"image"

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"
)

// LandmarkDetector is the optional high-accuracy backend. A nil
// LandmarkDetector means the capability is absent; the locator degrades to
// cascade-only results rather than failing.
type LandmarkDetector interface {
	Landmarks(ctx context.Context, crop image.Image) ([]Point3, error)
}

// Locator composes the fast cascade detector with the optional dense
// landmark backend. The cascade establishes presence and crude boxes; the
// landmark backend refines the primary face with mesh points when enabled.
type Locator struct {
	fast    *FastDetector
	dense   LandmarkDetector
	padding float64
}

// NewLocator builds a locator. dense may be nil.
func NewLocator(fast *FastDetector, dense LandmarkDetector, paddingRatio float64) *Locator {
	if paddingRatio == 0 {
		paddingRatio = 0.2
	}
	return &Locator{
		fast:    fast,
		dense:   dense,
		padding: paddingRatio,
	}
}

// Locate finds all faces in the image. Zero detections is a valid terminal
// state, not an error. When a dense backend is configured, the primary face
// is refined with landmarks; backend failures only cost the refinement.
func (l *Locator) Locate(ctx context.Context, img image.Image) []Detection {
	detections := l.fast.Detect(img)
	if len(detections) == 0 {
		return detections
	}

	if l.dense != nil {
		idx := primaryIndex(detections)
		padded := detections[idx].Box.Pad(l.padding, img.Bounds())
		crop := imaging.Crop(img, padded.Rect())

		points, err := l.dense.Landmarks(ctx, crop)
		if err != nil {
			log.Warnf("Dense landmark refinement failed, continuing without landmarks: %v", err)
		} else if len(points) > 0 {
			detections[idx].Landmarks = points
			log.Debugf("Refined primary face with %d landmarks", len(points))
		}
	}

	return detections
}

// Primary selects the face with the largest bounding-box area. Ties are
// broken by leftmost x1 to keep the selection deterministic regardless of
// input order. Returns false when the slice is empty.
func (l *Locator) Primary(detections []Detection) (Detection, bool) {
	if len(detections) == 0 {
		return Detection{}, false
	}
	return detections[primaryIndex(detections)], true
}

// PaddedBox expands a detection's box by the configured padding ratio,
// clamped to the image bounds.
func (l *Locator) PaddedBox(d Detection, bounds image.Rectangle) BoundingBox {
	return d.Box.Pad(l.padding, bounds)
}

func primaryIndex(detections []Detection) int {
	best := 0
	for i := 1; i < len(detections); i++ {
		bi, bb := detections[i].Box, detections[best].Box
		if bi.Area() > bb.Area() || (bi.Area() == bb.Area() && bi.XMin < bb.XMin) {
			best = i
		}
	}
	return best
}
