package analyze

import (
	"sort"
	"time"

	"github.com/dermalens/dermalens/pkg/utils"
)

// severityRank orders severities for primary-concern selection.
var severityRank = map[Severity]int{
	SeverityNone:       0,
	SeverityMild:       1,
	SeverityModerate:   2,
	SeveritySevere:     3,
	SeverityVerySevere: 4,
}

// severityPenalty is subtracted from the metric-derived base score per
// detected concern when the overall score is rule-derived.
var severityPenalty = map[Severity]float64{
	SeverityNone:       0,
	SeverityMild:       5,
	SeverityModerate:   10,
	SeveritySevere:     15,
	SeverityVerySevere: 20,
}

// ScoreToSeverity buckets a 0-100 score into a severity level. The
// breakpoints are total and non-overlapping: every score maps to exactly
// one bucket and the mapping is non-decreasing.
func ScoreToSeverity(score float64) Severity {
	switch {
	case score < 20:
		return SeverityNone
	case score < 40:
		return SeverityMild
	case score < 60:
		return SeverityModerate
	case score < 80:
		return SeveritySevere
	default:
		return SeverityVerySevere
	}
}

// PostProcessor converts raw model output into the terminal Result. Pure
// and deterministic: given the same RawOutput and clock value it always
// produces an identical Result.
type PostProcessor struct {
	schema             BiomarkerSchema
	concernThreshold   float64
	maxRecommendations int
}

// NewPostProcessor builds a post-processor. Zero-valued tunables fall back
// to the reference defaults (threshold 0.3, cap 10).
func NewPostProcessor(schema BiomarkerSchema, concernThreshold float64, maxRecommendations int) *PostProcessor {
	if concernThreshold == 0 {
		concernThreshold = 0.3
	}
	if maxRecommendations == 0 {
		maxRecommendations = 10
	}
	return &PostProcessor{
		schema:             schema,
		concernThreshold:   concernThreshold,
		maxRecommendations: maxRecommendations,
	}
}

// Build assembles the Result from raw output: severity bucketing, primary
// concern ordering, risk classification, score blending, recommendations.
func (p *PostProcessor) Build(raw RawOutput, now time.Time) Result {
	skinType := p.classifySkinType(raw)
	concerns := p.buildConcerns(raw)

	overall := raw.OverallScore
	if overall < 0 {
		overall = p.blendOverallScore(raw.Metrics, concerns)
	}

	biomarkers := p.schema.Map(raw.Biomarkers)

	result := Result{
		OverallScore:      overall,
		SkinType:          skinType,
		SkinAge:           raw.SkinAge,
		Concerns:          concerns,
		RiskLevel:         classifyRisk(concerns),
		Biomarkers:        biomarkers,
		Metrics:           raw.Metrics,
		Recommendations:   p.buildRecommendations(skinType, concerns),
		HydrationLevel:    biomarkers["hydration_level"],
		TextureScore:      biomarkers["skin_texture"],
		ConfidenceScore:   raw.Confidence,
		ImageQualityScore: raw.ImageQuality,
		Source:            raw.Source,
		Timestamp:         now,
	}
	return result
}

// classifySkinType picks the argmax of the skin-type distribution. An empty
// or short distribution yields "unknown".
func (p *PostProcessor) classifySkinType(raw RawOutput) SkinType {
	if len(raw.SkinTypeScores) < len(SkinTypes) {
		return SkinTypeUnknown
	}
	best := 0
	for i := 1; i < len(SkinTypes); i++ {
		if raw.SkinTypeScores[i] > raw.SkinTypeScores[best] {
			best = i
		}
	}
	return SkinTypes[best]
}

// buildConcerns filters concerns by the detection threshold, buckets their
// scores into severities and orders them primary-first. The sort is stable
// and total: severity rank descending, then confidence descending, then
// concern name ascending so equal pairs never reorder between runs.
func (p *PostProcessor) buildConcerns(raw RawOutput) []ConcernDetail {
	details := make([]ConcernDetail, 0, len(raw.Concerns))

	// Iterate the canonical order, not the map, for determinism.
	for _, concern := range Concerns {
		cs, ok := raw.Concerns[concern]
		if !ok || cs.Confidence <= p.concernThreshold {
			continue
		}
		severity := ScoreToSeverity(cs.Score)
		if severity == SeverityNone {
			continue
		}

		recs := concernRecommendations[concern]
		if len(recs) > 2 {
			recs = recs[:2]
		}
		details = append(details, ConcernDetail{
			Type:            concern,
			Severity:        severity,
			Confidence:      cs.Confidence,
			AffectedArea:    affectedAreas[concern],
			Recommendations: append([]string(nil), recs...),
		})
	}

	sort.SliceStable(details, func(i, j int) bool {
		ri, rj := severityRank[details[i].Severity], severityRank[details[j].Severity]
		if ri != rj {
			return ri > rj
		}
		if details[i].Confidence != details[j].Confidence {
			return details[i].Confidence > details[j].Confidence
		}
		return details[i].Type < details[j].Type
	})

	return details
}

// blendOverallScore derives the overall score on the rule-based path: mean
// of the five core metrics minus a per-concern severity penalty, clamped to
// [0,100] and rounded to one decimal.
func (p *PostProcessor) blendOverallScore(metrics SkinMetrics, concerns []ConcernDetail) float64 {
	score := metrics.coreMean()
	for _, c := range concerns {
		score -= severityPenalty[c.Severity]
	}
	return utils.Round1(utils.Clamp(score, 0, 100))
}

// classifyRisk maps the concern picture to a risk level. The high checks
// run before the moderate checks: both can hold at once and high must win.
func classifyRisk(concerns []ConcernDetail) RiskLevel {
	if len(concerns) == 0 {
		return RiskLow
	}

	maxConfidence := 0.0
	for _, c := range concerns {
		if c.Confidence > maxConfidence {
			maxConfidence = c.Confidence
		}
	}

	if maxConfidence > 0.9 || len(concerns) > 5 {
		return RiskHigh
	}
	if maxConfidence > 0.7 || len(concerns) > 3 {
		return RiskModerate
	}
	return RiskLow
}

// buildRecommendations assembles the ordered recommendation list: the three
// baselines, the skin-type line, then up to two entries per detected
// concern; de-duplicated preserving first-seen order and capped.
func (p *PostProcessor) buildRecommendations(skinType SkinType, concerns []ConcernDetail) []string {
	recs := make([]string, 0, p.maxRecommendations)
	recs = append(recs, baselineRecommendations...)
	if line, ok := skinTypeRecommendations[skinType]; ok {
		recs = append(recs, line)
	}
	for _, c := range concerns {
		recs = append(recs, c.Recommendations...)
	}

	recs = utils.Dedupe(recs)
	if len(recs) > p.maxRecommendations {
		recs = recs[:p.maxRecommendations]
	}
	return recs
}

// FallbackResult is the documented last-resort result when every analysis
// path failed. Never an exception to the caller.
func FallbackResult(now time.Time) Result {
	return Result{
		OverallScore:      50.0,
		SkinType:          SkinTypeUnknown,
		Concerns:          []ConcernDetail{},
		RiskLevel:         RiskLow,
		Biomarkers:        map[string]float64{},
		Metrics:           DefaultMetrics(),
		Recommendations:   append([]string(nil), fallbackRecommendations...),
		ConfidenceScore:   0.0,
		ImageQualityScore: 0.0,
		Source:            SourceFallback,
		Timestamp:         now,
	}
}
