package analyze

const (
	rulesConfidence   = 0.6
	rulesImageQuality = 0.8
	rulesOverallScore = 70.0
)

// RuleBasedAnalyzer is the always-available last analysis path before the
// terminal fallback. It needs no weights and no network: it returns the
// calibrated population-baseline profile, so a deployment with neither
// provider nor local model still produces a usable, clearly lower-confidence
// result.
type RuleBasedAnalyzer struct{}

// NewRuleBasedAnalyzer returns the rule-based path.
func NewRuleBasedAnalyzer() *RuleBasedAnalyzer {
	return &RuleBasedAnalyzer{}
}

// Analyze returns the baseline profile: combination skin type, the
// reference metric set, no detected concerns, overall 70. Deterministic for
// any input.
func (r *RuleBasedAnalyzer) Analyze(imageQuality float64) RawOutput {
	if imageQuality <= 0 {
		imageQuality = rulesImageQuality
	}

	// Distribution aligned to SkinTypes order, argmax at combination.
	skinTypeScores := []float64{0.15, 0.15, 0.40, 0.20, 0.10}

	return RawOutput{
		SkinTypeScores: skinTypeScores,
		Concerns:       map[Concern]ConcernScore{},
		Biomarkers:     nil,
		OverallScore:   rulesOverallScore,
		Metrics: SkinMetrics{
			HydrationScore:   65,
			OilinessScore:    45,
			TextureScore:     70,
			ElasticityScore:  75,
			PoreSizeScore:    60,
			SkinToneEvenness: 72,
		},
		Confidence:   rulesConfidence,
		ImageQuality: imageQuality,
		Source:       SourceRules,
	}
}
