package analyze

import (
	"image"

	"github.com/dermalens/dermalens/internal/align"
	"github.com/dermalens/dermalens/pkg/utils"
)

// featuresPerRegion is the per-region descriptor width. The full feature
// vector is featuresPerRegion × len(align.RegionNames) and its layout is
// part of the model weight contract.
const featuresPerRegion = 8

// FeatureDim is the feature vector length the local model expects.
var FeatureDim = featuresPerRegion * len(align.RegionNames)

// ExtractFeatures computes the deterministic per-region descriptor for an
// aligned face. Regions are traversed in align.RegionNames order; each
// contributes, in order: mean R, mean G, mean B, brightness, sharpness,
// mean hue, mean saturation and skin ratio, all scaled to [0,1]. The hue
// and saturation means are taken over the skin-masked copy of the region
// so hair and background pixels contribute nothing to the color signal.
func ExtractFeatures(regions align.SkinRegions) []float64 {
	named := regions.Named()
	features := make([]float64, 0, FeatureDim)
	for _, name := range align.RegionNames {
		features = append(features, regionFeatures(named[name])...)
	}
	return features
}

func regionFeatures(region *image.NRGBA) []float64 {
	b := region.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return make([]float64, featuresPerRegion)
	}
	n := float64(w * h)

	var sumR, sumG, sumB float64
	gray := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := region.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			rf, gf, bf := float64(c.R), float64(c.G), float64(c.B)
			sumR += rf
			sumG += gf
			sumB += bf
			gray[y*w+x] = 0.299*rf + 0.587*gf + 0.114*bf
		}
	}

	mask := align.SkinMask(region)
	skin := align.ApplyMask(region, mask)

	var sumHue, sumSat float64
	sb := skin.Bounds()
	for y := sb.Min.Y; y < sb.Max.Y; y++ {
		for x := sb.Min.X; x < sb.Max.X; x++ {
			c := skin.NRGBAAt(x, y)
			hue, sat, _ := pixelHSV(c.R, c.G, c.B)
			sumHue += hue
			sumSat += sat
		}
	}

	return []float64{
		sumR / n / 255,
		sumG / n / 255,
		sumB / n / 255,
		(sumR + sumG + sumB) / (3 * n) / 255,
		normalizeSharpness(utils.LaplacianVariance(gray, w, h)),
		sumHue / n / 180,
		sumSat / n / 255,
		align.SkinRatio(mask),
	}
}

// normalizeSharpness squashes the unbounded Laplacian variance to [0,1).
// The half-point sits at the focus threshold, so an in-focus region scores
// above 0.5.
func normalizeSharpness(v float64) float64 {
	return v / (v + 100)
}

// pixelHSV converts to OpenCV-scale HSV (H in [0,180], S in [0,255]); the
// value channel is unused here.
func pixelHSV(r, g, b uint8) (float64, float64, float64) {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255

	maxC, minC := rf, rf
	if gf > maxC {
		maxC = gf
	}
	if bf > maxC {
		maxC = bf
	}
	if gf < minC {
		minC = gf
	}
	if bf < minC {
		minC = bf
	}
	delta := maxC - minC

	var hue float64
	switch {
	case delta == 0:
		hue = 0
	case maxC == rf:
		hue = 60 * ((gf - bf) / delta)
	case maxC == gf:
		hue = 60*((bf-rf)/delta) + 120
	default:
		hue = 60*((rf-gf)/delta) + 240
	}
	if hue < 0 {
		hue += 360
	}

	var sat float64
	if maxC > 0 {
		sat = delta / maxC
	}

	return hue / 2, sat * 255, maxC * 255
}
