package analyze

import (
	"fmt"

	"github.com/dermalens/dermalens/pkg/utils"
)

// BiomarkerSchema is the ordered list of named biomarker channels the model
// emits. The schema is open: deployments declare whatever channel list
// their model configuration was trained with, and outputs are validated
// against the declared length rather than a hardcoded count.
type BiomarkerSchema struct {
	names []string
}

// defaultBiomarkerNames is the baseline channel set. Larger deployments
// extend this toward the full 150-channel configuration.
var defaultBiomarkerNames = []string{
	"hydration_level", "oil_production", "pore_size", "skin_texture",
	"fine_lines", "deep_wrinkles", "elasticity", "firmness",
	"pigmentation_uniformity", "melanin_index", "hemoglobin_index",
	"redness_intensity", "acne_severity", "blackheads_count",
	"whiteheads_count", "skin_brightness", "radiance_score",
	"dark_circle_intensity", "eye_puffiness", "skin_thickness",
}

// DefaultSchema returns the baseline biomarker schema.
func DefaultSchema() BiomarkerSchema {
	return BiomarkerSchema{names: defaultBiomarkerNames}
}

// NewSchema builds a schema from an explicit ordered channel list.
func NewSchema(names []string) (BiomarkerSchema, error) {
	if len(names) == 0 {
		return BiomarkerSchema{}, fmt.Errorf("biomarker schema must declare at least one channel")
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" {
			return BiomarkerSchema{}, fmt.Errorf("biomarker channel name must not be empty")
		}
		if seen[name] {
			return BiomarkerSchema{}, fmt.Errorf("duplicate biomarker channel %q", name)
		}
		seen[name] = true
	}
	return BiomarkerSchema{names: append([]string(nil), names...)}, nil
}

// Len returns the number of declared channels.
func (s BiomarkerSchema) Len() int {
	return len(s.names)
}

// Names returns the ordered channel names.
func (s BiomarkerSchema) Names() []string {
	return append([]string(nil), s.names...)
}

// Map pairs a raw biomarker vector with the schema names. Vectors shorter
// than the schema fill what they have; longer vectors are truncated.
func (s BiomarkerSchema) Map(values []float64) map[string]float64 {
	out := make(map[string]float64, len(s.names))
	for i, name := range s.names {
		if i >= len(values) {
			break
		}
		out[name] = utils.Clamp01(values[i])
	}
	return out
}
