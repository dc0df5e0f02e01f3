// Package align normalizes a located face into the model's canonical input
// and partitions it into the anatomical sub-regions used for per-region
// feature extraction.
package align

import (
	"image"

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"

	"github.com/dermalens/dermalens/internal/detect"
)

// Aligner crops the padded face box out of the source image and resizes it
// to the model input size. The resize does not preserve aspect ratio; the
// model was trained on squashed square crops. No rotation correction is
// applied in this path.
type Aligner struct {
	size int
}

// NewAligner creates an aligner producing size×size face crops.
func NewAligner(size int) *Aligner {
	if size == 0 {
		size = 224
	}
	return &Aligner{size: size}
}

// Size returns the canonical output side length.
func (a *Aligner) Size() int {
	return a.size
}

// Align crops the given (already padded) box from the image and resizes the
// crop to the canonical input size.
func (a *Aligner) Align(img image.Image, box detect.BoundingBox) *image.NRGBA {
	crop := imaging.Crop(img, box.Rect())
	aligned := imaging.Resize(crop, a.size, a.size, imaging.Lanczos)
	log.Debugf("Aligned face: %dx%d crop -> %dx%d", box.Width(), box.Height(), a.size, a.size)
	return aligned
}
