package align

import (
	"image"
	"image/color"
)

// Skin-tone bounds in HSV, OpenCV scale (H in [0,180], S and V in [0,255]).
// This is a coarse heuristic band: it misclassifies under extreme lighting
// and for skin tones outside the fixed range. Adjusting these thresholds
// requires domain validation, not a quick retune.
var (
	skinLower = [3]float64{0, 20, 70}
	skinUpper = [3]float64{20, 255, 255}
)

// SkinMask produces a binary skin/non-skin mask for a face crop by
// thresholding in HSV and cleaning the result with a morphological
// close-then-open pass.
func SkinMask(face *image.NRGBA) *image.Gray {
	b := face.Bounds()
	w, h := b.Dx(), b.Dy()

	mask := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := face.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			hue, sat, val := rgbToHSV(c.R, c.G, c.B)
			if hue >= skinLower[0] && hue <= skinUpper[0] &&
				sat >= skinLower[1] && sat <= skinUpper[1] &&
				val >= skinLower[2] && val <= skinUpper[2] {
				mask.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	// Close fills pinholes inside skin areas, open drops speckle noise.
	mask = erode(dilate(mask))
	mask = dilate(erode(mask))
	return mask
}

// ApplyMask zeroes non-skin pixels, leaving skin pixels untouched.
func ApplyMask(face *image.NRGBA, mask *image.Gray) *image.NRGBA {
	b := face.Bounds()
	w, h := b.Dx(), b.Dy()

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask.GrayAt(x, y).Y > 0 {
				out.SetNRGBA(x, y, face.NRGBAAt(b.Min.X+x, b.Min.Y+y))
			} else {
				out.SetNRGBA(x, y, color.NRGBA{A: 255})
			}
		}
	}
	return out
}

// SkinRatio returns the fraction of mask pixels classified as skin.
func SkinRatio(mask *image.Gray) float64 {
	b := mask.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}
	var skin int
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.GrayAt(x, y).Y > 0 {
				skin++
			}
		}
	}
	return float64(skin) / float64(total)
}

// ellipseKernel is the 5x5 elliptical structuring element offsets.
var ellipseKernel = [][2]int{
	{0, -2},
	{-1, -1}, {0, -1}, {1, -1},
	{-2, 0}, {-1, 0}, {0, 0}, {1, 0}, {2, 0},
	{-1, 1}, {0, 1}, {1, 1},
	{0, 2},
}

func dilate(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			for _, off := range ellipseKernel {
				nx, ny := x+off[0], y+off[1]
				if nx >= b.Min.X && nx < b.Max.X && ny >= b.Min.Y && ny < b.Max.Y &&
					src.GrayAt(nx, ny).Y > 0 {
					dst.SetGray(x, y, color.Gray{Y: 255})
					break
				}
			}
		}
	}
	return dst
}

func erode(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			keep := true
			for _, off := range ellipseKernel {
				nx, ny := x+off[0], y+off[1]
				if nx < b.Min.X || nx >= b.Max.X || ny < b.Min.Y || ny >= b.Max.Y ||
					src.GrayAt(nx, ny).Y == 0 {
					keep = false
					break
				}
			}
			if keep {
				dst.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return dst
}

// rgbToHSV converts to OpenCV-scale HSV: H in [0,180], S and V in [0,255].
func rgbToHSV(r, g, b uint8) (float64, float64, float64) {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255

	maxC := rf
	if gf > maxC {
		maxC = gf
	}
	if bf > maxC {
		maxC = bf
	}
	minC := rf
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
