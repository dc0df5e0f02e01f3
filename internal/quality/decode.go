package quality

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	log "github.com/sirupsen/logrus"
	_ "golang.org/x/image/webp"
)

// ErrUndecodable is returned when the input bytes cannot be decoded into an
// image. It is the only fatal input error in the pipeline.
var ErrUndecodable = errors.New("undecodable image data")

// Decode turns raw upload bytes into a pixel buffer. Phone uploads commonly
// carry an EXIF orientation tag instead of rotated pixels, so the decoded
// image is normalized to orientation 1 before any geometry runs on it.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrUndecodable)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	log.Debugf("Decoded %s image: %dx%d", format, img.Bounds().Dx(), img.Bounds().Dy())

	return applyOrientation(img, data), nil
}

// applyOrientation rotates/flips the image according to its EXIF orientation
// tag. Images without EXIF (PNG, stripped JPEG) pass through untouched.
func applyOrientation(img image.Image, data []byte) image.Image {
	meta, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return img
	}

	tag, err := meta.Get(exif.Orientation)
	if err != nil {
		return img
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return img
	}

	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
