package analyze

import (
	"context"
	"image"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dermalens/dermalens/internal/align"
)

// Provider is the external inference surface. Nil means the deployment has
// no provider configured.
type Provider interface {
	Analyze(ctx context.Context, face image.Image, imageQuality float64) (RawOutput, error)
}

// Model is the local inference surface. Nil means no weights were loaded.
type Model interface {
	Infer(features []float64, imageQuality float64) (RawOutput, error)
}

// Analyzer runs the fallback chain over an aligned face: provider first,
// then the local model, then the rule-based baseline. Every path failure is
// recovered internally; Analyze never returns an error to the caller. The
// terminal fallback result only appears if even the rule path is somehow
// unusable, which the current rule path makes unreachable by construction.
type Analyzer struct {
	provider Provider
	model    Model
	rules    *RuleBasedAnalyzer
	post     *PostProcessor
	now      func() time.Time
}

// NewAnalyzer wires the chain. provider and model may be nil; the rule path
// and post-processor are always present.
func NewAnalyzer(provider Provider, model Model, post *PostProcessor) *Analyzer {
	return &Analyzer{
		provider: provider,
		model:    model,
		rules:    NewRuleBasedAnalyzer(),
		post:     post,
		now:      time.Now,
	}
}

// Analyze produces the terminal Result for an aligned face. imageQuality is
// the quality gate's normalized score, carried through to the result.
func (a *Analyzer) Analyze(ctx context.Context, face *image.NRGBA, imageQuality float64) Result {
	raw, ok := a.rawOutput(ctx, face, imageQuality)
	if !ok {
		log.Warn("All analysis paths failed, returning fallback result")
		return FallbackResult(a.now())
	}
	return a.post.Build(raw, a.now())
}

func (a *Analyzer) rawOutput(ctx context.Context, face *image.NRGBA, imageQuality float64) (RawOutput, bool) {
	if a.provider != nil {
		raw, err := a.provider.Analyze(ctx, face, imageQuality)
		if err == nil {
			log.Debug("Analysis served by provider")
			return raw, true
		}
		log.Warnf("Provider analysis failed, falling back: %v", err)
	}

	if a.model != nil {
		regions := align.Segment(face)
		features := ExtractFeatures(regions)
		raw, err := a.model.Infer(features, imageQuality)
		if err == nil {
			log.Debug("Analysis served by local model")
			return raw, true
		}
		log.Warnf("Local model inference failed, falling back: %v", err)
	}

	if a.rules != nil {
		log.Debug("Analysis served by rule-based path")
		return a.rules.Analyze(imageQuality), true
	}

	return RawOutput{}, false
}
