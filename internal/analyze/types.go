// Package analyze implements the skin analysis model surface: the external
// inference provider, the local multi-head model, the rule-based fallback,
// and the deterministic post-processing that turns raw outputs into a
// clinically-flavored result.
package analyze

import "time"

// Concern is a detectable skin concern tag.
type Concern string

const (
	ConcernAcne              Concern = "acne"
	ConcernWrinkles          Concern = "wrinkles"
	ConcernDarkSpots         Concern = "dark_spots"
	ConcernRedness           Concern = "redness"
	ConcernDryness           Concern = "dryness"
	ConcernOiliness          Concern = "oiliness"
	ConcernLargePores        Concern = "large_pores"
	ConcernUnevenTexture     Concern = "uneven_texture"
	ConcernDarkCircles       Concern = "dark_circles"
	ConcernHyperpigmentation Concern = "hyperpigmentation"
	ConcernDehydration       Concern = "dehydration"
	ConcernSensitivity       Concern = "sensitivity"
)

// Concerns is the closed enumeration in canonical order. The concern head's
// output vector is aligned to this order.
var Concerns = []Concern{
	ConcernAcne,
	ConcernWrinkles,
	ConcernDarkSpots,
	ConcernRedness,
	ConcernDryness,
	ConcernOiliness,
	ConcernLargePores,
	ConcernUnevenTexture,
	ConcernDarkCircles,
	ConcernHyperpigmentation,
	ConcernDehydration,
	ConcernSensitivity,
}

// SkinType classifies the overall skin condition.
type SkinType string

const (
	SkinTypeDry         SkinType = "dry"
	SkinTypeOily        SkinType = "oily"
	SkinTypeCombination SkinType = "combination"
	SkinTypeNormal      SkinType = "normal"
	SkinTypeSensitive   SkinType = "sensitive"
	SkinTypeUnknown     SkinType = "unknown" // terminal fallback only
)

// SkinTypes is the classifier's output order.
var SkinTypes = []SkinType{SkinTypeDry, SkinTypeOily, SkinTypeCombination, SkinTypeNormal, SkinTypeSensitive}

// Severity buckets a continuous concern score.
type Severity string

const (
	SeverityNone       Severity = "none"
	SeverityMild       Severity = "mild"
	SeverityModerate   Severity = "moderate"
	SeveritySevere     Severity = "severe"
	SeverityVerySevere Severity = "very_severe"
)

// RiskLevel classifies the overall concern picture.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Source identifies which analysis path produced a result.
type Source string

const (
	SourceProvider Source = "provider"
	SourceModel    Source = "model"
	SourceRules    Source = "rules"
	SourceFallback Source = "fallback"
)

// SkinMetrics holds the five core metric scores plus oiliness, all 0-100.
type SkinMetrics struct {
	HydrationScore   float64 `json:"hydration_score"`
	OilinessScore    float64 `json:"oiliness_score"`
	TextureScore     float64 `json:"texture_score"`
	ElasticityScore  float64 `json:"elasticity_score"`
	PoreSizeScore    float64 `json:"pore_size_score"`
	SkinToneEvenness float64 `json:"skin_tone_evenness"`
}

// DefaultMetrics is the all-neutral metric set used by the terminal
// fallback.
func DefaultMetrics() SkinMetrics {
	return SkinMetrics{
		HydrationScore:   50,
		OilinessScore:    50,
		TextureScore:     50,
		ElasticityScore:  50,
		PoreSizeScore:    50,
		SkinToneEvenness: 50,
	}
}

// coreMean averages the five metrics that feed the overall score. Oiliness
// is informational, not a health axis, so it stays out of the mean.
func (m SkinMetrics) coreMean() float64 {
	return (m.HydrationScore + m.TextureScore + m.ElasticityScore +
		m.PoreSizeScore + m.SkinToneEvenness) / 5
}

// ConcernScore is one concern's raw model output: a 0-100 severity-scale
// score and a detection confidence.
type ConcernScore struct {
	Score      float64
	Confidence float64
}

// RawOutput is the model-output tuple before post-processing. Every
// analysis path (provider, local model, rules) produces one of these; the
// post-processor is the only place that turns it into a Result.
type RawOutput struct {
	SkinTypeScores []float64 // distribution over SkinTypes order
	Concerns       map[Concern]ConcernScore
	Biomarkers     []float64 // schema order, each in [0,1]
	OverallScore   float64   // 0-100; negative means derive from metrics
	SkinAge        int       // 0 = unknown
	Metrics        SkinMetrics
	Confidence     float64
	ImageQuality   float64
	Source         Source
}

// ConcernDetail is a detected concern as exposed to the caller.
type ConcernDetail struct {
	Type            Concern  `json:"concern_type"`
	Severity        Severity `json:"severity"`
	Confidence      float64  `json:"confidence"`
	AffectedArea    string   `json:"affected_area,omitempty"`
	Recommendations []string `json:"recommendations"`
}

// Result is the terminal analysis artifact. Immutable after construction;
// ownership passes to the caller.
type Result struct {
	OverallScore      float64            `json:"overall_score"`
	SkinType          SkinType           `json:"skin_type"`
	SkinAge           int                `json:"skin_age,omitempty"`
	Concerns          []ConcernDetail    `json:"concerns"` // primary concern first
	RiskLevel         RiskLevel          `json:"risk_level"`
	Biomarkers        map[string]float64 `json:"biomarkers"`
	Metrics           SkinMetrics        `json:"metrics"`
	Recommendations   []string           `json:"recommendations"`
	HydrationLevel    float64            `json:"hydration_level,omitempty"`
	TextureScore      float64            `json:"texture_score,omitempty"`
	ConfidenceScore   float64            `json:"confidence_score"`
	ImageQualityScore float64            `json:"image_quality_score"`
	Source            Source             `json:"source"`
	Timestamp         time.Time          `json:"analysis_timestamp"`
}

// Primary returns the primary concern (highest severity, then confidence),
// or false when no concern was detected.
func (r Result) Primary() (ConcernDetail, bool) {
	if len(r.Concerns) == 0 {
		return ConcernDetail{}, false
	}
	return r.Concerns[0], true
}
