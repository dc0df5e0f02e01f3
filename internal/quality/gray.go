package quality

import "image"

// toGray converts an image to a float64 luminance buffer in row-major order.
// Uses the Rec. 601 weights, matching the grayscale conversion the cascade
// detector runs on.
func toGray(img image.Image) []float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	gray := make([]float64, w*h)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			gray[i] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			i++
		}
	}
	return gray
}

// meanIntensity returns the mean pixel value across all three channels on a
// 0-255 scale. This is the lighting indicator's raw signal.
func meanIntensity(img image.Image) float64 {
	bounds := img.Bounds()
	var sum float64
	var count int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			sum += float64(r>>8) + float64(g>>8) + float64(b>>8)
			count += 3
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
