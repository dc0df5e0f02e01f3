package align

import (
	"image"

	"github.com/disintegration/imaging"
)

// SkinRegions holds the anatomical sub-buffers cut out of an aligned face.
// Regions are recomputed per call; they share no pixels with each other.
type SkinRegions struct {
	Forehead   *image.NRGBA
	LeftCheek  *image.NRGBA
	RightCheek *image.NRGBA
	Nose       *image.NRGBA
	Chin       *image.NRGBA
	FullFace   *image.NRGBA
}

// Region boundary proportions relative to the aligned face. Design
// constants, not learned: they approximate anatomical zones without
// landmark-level precision.
const (
	foreheadBottom = 0.30
	foreheadLeft   = 0.20
	foreheadRight  = 0.80

	cheekTop    = 0.35
	cheekBottom = 0.70
	cheekWidth  = 0.35

	noseTop    = 0.30
	noseBottom = 0.70
	noseLeft   = 0.35
	noseRight  = 0.65

	chinTop   = 0.70
	chinLeft  = 0.25
	chinRight = 0.75
)

// Segment partitions an aligned face into the fixed proportional regions.
// Each region's dimensions are a deterministic function of the face
// dimensions and the proportionality constants above.
func Segment(face *image.NRGBA) SkinRegions {
	b := face.Bounds()
	w, h := b.Dx(), b.Dy()

	cut := func(x0, y0, x1, y1 float64) *image.NRGBA {
		rect := image.Rect(
			b.Min.X+int(float64(w)*x0),
			b.Min.Y+int(float64(h)*y0),
			b.Min.X+int(float64(w)*x1),
			b.Min.Y+int(float64(h)*y1),
		)
		return imaging.Crop(face, rect)
	}

	return SkinRegions{
		Forehead:   cut(foreheadLeft, 0, foreheadRight, foreheadBottom),
		LeftCheek:  cut(0, cheekTop, cheekWidth, cheekBottom),
		RightCheek: cut(1-cheekWidth, cheekTop, 1, cheekBottom),
		Nose:       cut(noseLeft, noseTop, noseRight, noseBottom),
		Chin:       cut(chinLeft, chinTop, chinRight, 1),
		FullFace:   imaging.Clone(face),
	}
}

// Named returns the regions keyed by their anatomical label, full face
// included. Iteration should use RegionNames for a stable order.
func (r SkinRegions) Named() map[string]*image.NRGBA {
	return map[string]*image.NRGBA{
		"forehead":    r.Forehead,
		"left_cheek":  r.LeftCheek,
		"right_cheek": r.RightCheek,
		"nose":        r.Nose,
		"chin":        r.Chin,
		"full_face":   r.FullFace,
	}
}

// RegionNames is the canonical region ordering.
var RegionNames = []string{"forehead", "left_cheek", "right_cheek", "nose", "chin", "full_face"}
