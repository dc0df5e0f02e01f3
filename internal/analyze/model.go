package analyze

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	log "github.com/sirupsen/logrus"
	"gorgonia.org/tensor"
)

// Local model head names. Every head is a linear map over the shared
// feature vector; the activation is fixed per head.
const (
	headSkinType   = "skin_type"
	headConcerns   = "concerns"
	headConfidence = "concern_confidence"
	headBiomarkers = "biomarkers"
	headMetrics    = "metrics"
	headOverall    = "overall"
	headAge        = "age"
)

const modelConfidence = 0.75

// headSpec is the serialized form of one linear head.
type headSpec struct {
	Weights [][]float64 `json:"weights"` // (in, out)
	Bias    []float64   `json:"bias"`    // (out)
}

// weightsFile is the on-disk model format.
type weightsFile struct {
	FeatureDim int                 `json:"feature_dim"`
	Biomarkers []string            `json:"biomarkers,omitempty"`
	Heads      map[string]headSpec `json:"heads"`
}

// head is one compiled linear head.
type head struct {
	weights *tensor.Dense // (in, out)
	bias    []float64
	out     int
}

// LocalModel runs the multi-head skin analysis heads over the extracted
// feature vector. Read-only after construction; safe for concurrent use.
type LocalModel struct {
	featureDim int
	schema     BiomarkerSchema
	heads      map[string]*head
}

// LoadModel reads and compiles a weight file. A missing or malformed file
// is an error; callers treat a nil model as an absent capability.
func LoadModel(path string) (*LocalModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model weights: %w", err)
	}

	var wf weightsFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parse model weights: %w", err)
	}
	if wf.FeatureDim != FeatureDim {
		return nil, fmt.Errorf("model expects feature dim %d, pipeline produces %d", wf.FeatureDim, FeatureDim)
	}

	schema := DefaultSchema()
	if len(wf.Biomarkers) > 0 {
		schema, err = NewSchema(wf.Biomarkers)
		if err != nil {
			return nil, fmt.Errorf("model biomarker schema: %w", err)
		}
	}

	m := &LocalModel{
		featureDim: wf.FeatureDim,
		schema:     schema,
		heads:      make(map[string]*head, len(wf.Heads)),
	}

	expected := map[string]int{
		headSkinType:   len(SkinTypes),
		headConcerns:   len(Concerns),
		headConfidence: len(Concerns),
		headBiomarkers: schema.Len(),
		headMetrics:    6,
		headOverall:    1,
		headAge:        1,
	}
	for name, want := range expected {
		spec, ok := wf.Heads[name]
		if !ok {
			return nil, fmt.Errorf("model weights missing head %q", name)
		}
		h, err := compileHead(spec, wf.FeatureDim, want)
		if err != nil {
			return nil, fmt.Errorf("head %q: %w", name, err)
		}
		m.heads[name] = h
	}

	log.WithFields(log.Fields{
		"path":       path,
		"featureDim": m.featureDim,
		"biomarkers": schema.Len(),
	}).Info("Local analysis model loaded")
	return m, nil
}

func compileHead(spec headSpec, in, out int) (*head, error) {
	if len(spec.Weights) != in {
		return nil, fmt.Errorf("weight rows %d, want %d", len(spec.Weights), in)
	}
	if len(spec.Bias) != out {
		return nil, fmt.Errorf("bias length %d, want %d", len(spec.Bias), out)
	}

	flat := make([]float64, 0, in*out)
	for i, row := range spec.Weights {
		if len(row) != out {
			return nil, fmt.Errorf("weight row %d has %d columns, want %d", i, len(row), out)
		}
		flat = append(flat, row...)
	}

	return &head{
		weights: tensor.New(tensor.WithShape(in, out), tensor.WithBacking(flat)),
		bias:    append([]float64(nil), spec.Bias...),
		out:     out,
	}, nil
}

// Schema returns the biomarker schema the model was trained against.
func (m *LocalModel) Schema() BiomarkerSchema {
	return m.schema
}

// Infer runs every head over the feature vector and assembles the raw
// output tuple. imageQuality is carried through untouched.
func (m *LocalModel) Infer(features []float64, imageQuality float64) (RawOutput, error) {
	if len(features) != m.featureDim {
		return RawOutput{}, fmt.Errorf("feature vector length %d, model expects %d", len(features), m.featureDim)
	}

	skinType, err := m.forward(headSkinType, features)
	if err != nil {
		return RawOutput{}, err
	}
	softmax(skinType)

	concernScores, err := m.forward(headConcerns, features)
	if err != nil {
		return RawOutput{}, err
	}
	concernConf, err := m.forward(headConfidence, features)
	if err != nil {
		return RawOutput{}, err
	}
	concerns := make(map[Concern]ConcernScore, len(Concerns))
	for i, concern := range Concerns {
		concerns[concern] = ConcernScore{
			Score:      sigmoid(concernScores[i]) * 100,
			Confidence: sigmoid(concernConf[i]),
		}
	}

	biomarkers, err := m.forward(headBiomarkers, features)
	if err != nil {
		return RawOutput{}, err
	}
	for i := range biomarkers {
		biomarkers[i] = sigmoid(biomarkers[i])
	}

	metrics, err := m.forward(headMetrics, features)
	if err != nil {
		return RawOutput{}, err
	}

	overall, err := m.forward(headOverall, features)
	if err != nil {
		return RawOutput{}, err
	}
	age, err := m.forward(headAge, features)
	if err != nil {
		return RawOutput{}, err
	}
	skinAge := int(math.Round(age[0]))
	if skinAge < 0 {
		skinAge = 0
	}

	return RawOutput{
		SkinTypeScores: skinType,
		Concerns:       concerns,
		Biomarkers:     biomarkers,
		OverallScore:   sigmoid(overall[0]) * 100,
		SkinAge:        skinAge,
		Metrics: SkinMetrics{
			HydrationScore:   sigmoid(metrics[0]) * 100,
			OilinessScore:    sigmoid(metrics[1]) * 100,
			TextureScore:     sigmoid(metrics[2]) * 100,
			ElasticityScore:  sigmoid(metrics[3]) * 100,
			PoreSizeScore:    sigmoid(metrics[4]) * 100,
			SkinToneEvenness: sigmoid(metrics[5]) * 100,
		},
		Confidence:   modelConfidence,
		ImageQuality: imageQuality,
		Source:       SourceModel,
	}, nil
}

// forward computes features·W + b for one head.
func (m *LocalModel) forward(name string, features []float64) ([]float64, error) {
	h := m.heads[name]

	x := tensor.New(tensor.WithShape(1, m.featureDim), tensor.WithBacking(append([]float64(nil), features...)))
	prod, err := tensor.MatMul(x, h.weights)
	if err != nil {
		return nil, fmt.Errorf("head %q matmul: %w", name, err)
	}

	raw, ok := prod.Data().([]float64)
	if !ok || len(raw) != h.out {
		return nil, fmt.Errorf("head %q produced unexpected output shape", name)
	}
	out := make([]float64, h.out)
	for i := range out {
		out[i] = raw[i] + h.bias[i]
	}
	return out, nil
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

// softmax normalizes in place, shifting by the max for stability.
func softmax(v []float64) {
	if len(v) == 0 {
		return
	}
	max := v[0]
	for _, x := range v[1:] {
		if x > max {
			max = x
		}
	}
	var sum float64
	for i := range v {
		v[i] = math.Exp(v[i] - max)
		sum += v[i]
	}
	for i := range v {
		v[i] /= sum
	}
}
