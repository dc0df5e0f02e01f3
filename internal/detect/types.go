package detect

import "image"

// BoundingBox represents face coordinates in the image
type BoundingBox struct {
	XMin int `json:"x_min"`
	YMin int `json:"y_min"`
	XMax int `json:"x_max"`
	YMax int `json:"y_max"`
}

// Point3 is a single facial landmark. X and Y are normalized to [0,1]
// relative to the detection crop; Z is relative depth when the backend
// provides it, zero otherwise.
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Detection is one located face. Landmarks and AlignedFace are optional
// refinements added by later pipeline stages; a bare cascade hit carries
// only the box and confidence.
type Detection struct {
	Box         BoundingBox
	Confidence  float64 // [0,1]
	Landmarks   []Point3
	AlignedFace image.Image
}

// HeadPose holds approximate head orientation angles in degrees. The
// estimator is a geometric heuristic, not a calibrated camera model, so
// values outside [-90,90] signal a poor estimate rather than an error.
type HeadPose struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
}

// PoseData bundles the pose-derived signals for one face.
type PoseData struct {
	Pose             HeadPose `json:"head_pose"`
	EyeAspectRatio   float64  `json:"eye_aspect_ratio"`
	MouthAspectRatio float64  `json:"mouth_aspect_ratio"`
	IsFrontal        bool     `json:"is_frontal"`
	QualityScore     float64  `json:"quality_score"`
	LandmarkCount    int      `json:"landmark_count"`
	Degraded         bool     `json:"degraded"`
}

// Width returns the bounding box width
func (b BoundingBox) Width() int {
	return b.XMax - b.XMin
}

// Height returns the bounding box height
func (b BoundingBox) Height() int {
	return b.YMax - b.YMin
}

// Center returns the center point of the bounding box
func (b BoundingBox) Center() image.Point {
	return image.Point{
		X: (b.XMin + b.XMax) / 2,
		Y: (b.YMin + b.YMax) / 2,
	}
}

// Area returns the area of the bounding box
func (b BoundingBox) Area() int {
	return b.Width() * b.Height()
}

// Rect converts the box to an image.Rectangle.
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.XMin, b.YMin, b.XMax, b.YMax)
}

// Pad expands the box by ratio of max(width, height) on all sides, clamped
// to the given image bounds.
func (b BoundingBox) Pad(ratio float64, bounds image.Rectangle) BoundingBox {
	side := b.Width()
	if b.Height() > side {
		side = b.Height()
	}
	pad := int(ratio * float64(side))

	return BoundingBox{
		XMin: maxInt(bounds.Min.X, b.XMin-pad),
		YMin: maxInt(bounds.Min.Y, b.YMin-pad),
		XMax: minInt(bounds.Max.X, b.XMax+pad),
		YMax: minInt(bounds.Max.Y, b.YMax+pad),
	}
}

// IoU calculates Intersection over Union with another bounding box
func (b BoundingBox) IoU(other BoundingBox) float64 {
	xMin := maxInt(b.XMin, other.XMin)
	yMin := maxInt(b.YMin, other.YMin)
	xMax := minInt(b.XMax, other.XMax)
	yMax := minInt(b.YMax, other.YMax)

	if xMin >= xMax || yMin >= yMax {
		return 0.0
	}

	intersection := (xMax - xMin) * (yMax - yMin)
	union := b.Area() + other.Area() - intersection

	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
