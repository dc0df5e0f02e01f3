package config

// Config holds service settings resolved from the environment.
type Config struct {
	ListenAddr string
	LogLevel   string

	// Quality gate thresholds (0-255 brightness scale)
	MinWidth      int
	MinHeight     int
	MinBrightness float64
	MaxBrightness float64
	MinSharpness  float64

	// Face detection
	CascadePath        string
	LandmarkURL        string // dense landmark service, optional
	LandmarkTimeoutSec int
	MinFaceSize        int
	DetectionScore     float64
	PaddingRatio       float64

	// Analysis
	ProviderURL        string // external inference provider, optional
	ProviderAPIKey     string
	ProviderTimeoutSec int
	ModelWeightsPath   string
	ConcernThreshold   float64
	MaxRecommendations int
	AlignedSize        int
}
