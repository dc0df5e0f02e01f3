package analyze_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dermalens/dermalens/internal/analyze"
)

func TestDefaultSchema(t *testing.T) {
	schema := analyze.DefaultSchema()
	assert.Equal(t, 20, schema.Len())
	assert.Contains(t, schema.Names(), "hydration_level")
	assert.Contains(t, schema.Names(), "skin_texture")
}

func TestNewSchemaValidation(t *testing.T) {
	_, err := analyze.NewSchema(nil)
	assert.Error(t, err)

	_, err = analyze.NewSchema([]string{"a", ""})
	assert.Error(t, err)

	_, err = analyze.NewSchema([]string{"a", "b", "a"})
	assert.ErrorContains(t, err, "duplicate")

	schema, err := analyze.NewSchema([]string{"melanin_index", "redness_intensity"})
	require.NoError(t, err)
	assert.Equal(t, 2, schema.Len())
}

func TestSchemaMap(t *testing.T) {
	schema, err := analyze.NewSchema([]string{"a", "b", "c"})
	require.NoError(t, err)

	t.Run("exact length", func(t *testing.T) {
		out := schema.Map([]float64{0.1, 0.2, 0.3})
		assert.Equal(t, map[string]float64{"a": 0.1, "b": 0.2, "c": 0.3}, out)
	})

	t.Run("short vector fills what it has", func(t *testing.T) {
		out := schema.Map([]float64{0.4})
		assert.Equal(t, map[string]float64{"a": 0.4}, out)
	})

	t.Run("long vector truncated", func(t *testing.T) {
		out := schema.Map([]float64{0.1, 0.2, 0.3, 0.4, 0.5})
		assert.Len(t, out, 3)
	})

	t.Run("values clamped to unit interval", func(t *testing.T) {
		out := schema.Map([]float64{-0.5, 1.5, 0.5})
		assert.Equal(t, 0.0, out["a"])
		assert.Equal(t, 1.0, out["b"])
		assert.Equal(t, 0.5, out["c"])
	})
}
