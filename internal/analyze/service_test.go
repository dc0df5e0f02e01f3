package analyze_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dermalens/dermalens/internal/analyze"
)

type stubProvider struct {
	raw analyze.RawOutput
	err error
}

func (s *stubProvider) Analyze(_ context.Context, _ image.Image, _ float64) (analyze.RawOutput, error) {
	return s.raw, s.err
}

type stubModel struct {
	raw analyze.RawOutput
	err error
}

func (s *stubModel) Infer(_ []float64, _ float64) (analyze.RawOutput, error) {
	return s.raw, s.err
}

func testFace() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 190, G: 150, B: 120, A: 255})
		}
	}
	return img
}

func TestAnalyzerPrefersProvider(t *testing.T) {
	provider := &stubProvider{raw: analyze.RawOutput{
		SkinTypeScores: []float64{0.6, 0.1, 0.1, 0.1, 0.1},
		OverallScore:   88,
		Confidence:     0.85,
		Source:         analyze.SourceProvider,
	}}
	analyzer := analyze.NewAnalyzer(provider, &stubModel{err: errors.New("should not be called")}, newPost())

	result := analyzer.Analyze(context.Background(), testFace(), 0.9)

	assert.Equal(t, analyze.SourceProvider, result.Source)
	assert.Equal(t, 88.0, result.OverallScore)
	assert.Equal(t, 0.85, result.ConfidenceScore)
}

func TestAnalyzerFallsBackToModelOnProviderFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("provider down")}
	model := &stubModel{raw: analyze.RawOutput{
		SkinTypeScores: []float64{0.1, 0.6, 0.1, 0.1, 0.1},
		OverallScore:   64,
		Confidence:     0.75,
		Source:         analyze.SourceModel,
	}}
	analyzer := analyze.NewAnalyzer(provider, model, newPost())

	result := analyzer.Analyze(context.Background(), testFace(), 0.9)

	assert.Equal(t, analyze.SourceModel, result.Source)
	assert.Equal(t, 64.0, result.OverallScore)
	assert.Equal(t, 0.75, result.ConfidenceScore)
}

func TestAnalyzerFallsBackToRules(t *testing.T) {
	provider := &stubProvider{err: errors.New("provider down")}
	model := &stubModel{err: errors.New("bad weights")}
	analyzer := analyze.NewAnalyzer(provider, model, newPost())

	result := analyzer.Analyze(context.Background(), testFace(), 0.9)

	assert.Equal(t, analyze.SourceRules, result.Source)
	assert.Equal(t, 70.0, result.OverallScore)
	assert.Equal(t, analyze.SkinTypeCombination, result.SkinType)
	assert.Equal(t, 0.6, result.ConfidenceScore)
	assert.Equal(t, 0.9, result.ImageQualityScore)
}

func TestAnalyzerRulesOnlyDeployment(t *testing.T) {
	analyzer := analyze.NewAnalyzer(nil, nil, newPost())

	result := analyzer.Analyze(context.Background(), testFace(), 0)

	assert.Equal(t, analyze.SourceRules, result.Source)
	assert.Equal(t, 0.8, result.ImageQualityScore, "rule path default quality")
}

func TestConfidenceOrderingAcrossPaths(t *testing.T) {
	// Each degradation step must lose confidence, never gain it.
	rules := analyze.NewRuleBasedAnalyzer().Analyze(0.8)
	fallback := analyze.FallbackResult(testNow)

	providerConfidence := 0.85
	modelConfidence := 0.75

	require.Greater(t, providerConfidence, modelConfidence)
	require.Greater(t, modelConfidence, rules.Confidence)
	require.Greater(t, rules.Confidence, fallback.ConfidenceScore)
}

func TestRuleBasedAnalyzerOutput(t *testing.T) {
	raw := analyze.NewRuleBasedAnalyzer().Analyze(0)

	assert.Equal(t, analyze.SourceRules, raw.Source)
	assert.Equal(t, 70.0, raw.OverallScore)
	assert.Equal(t, 0.6, raw.Confidence)
	assert.Equal(t, 0.8, raw.ImageQuality)
	assert.Empty(t, raw.Concerns)
	assert.Equal(t, 65.0, raw.Metrics.HydrationScore)
	assert.Equal(t, 45.0, raw.Metrics.OilinessScore)
	assert.Equal(t, 70.0, raw.Metrics.TextureScore)
	assert.Equal(t, 75.0, raw.Metrics.ElasticityScore)
	assert.Equal(t, 60.0, raw.Metrics.PoreSizeScore)
	assert.Equal(t, 72.0, raw.Metrics.SkinToneEvenness)

	// Argmax of the baseline distribution is the combination type.
	best := 0
	for i, v := range raw.SkinTypeScores {
		if v > raw.SkinTypeScores[best] {
			best = i
		}
	}
	assert.Equal(t, analyze.SkinTypeCombination, analyze.SkinTypes[best])
}
