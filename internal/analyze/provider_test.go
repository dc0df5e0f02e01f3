package analyze_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dermalens/dermalens/internal/analyze"
)

func TestProviderClientAnalyze(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		require.Equal(t, "/v1/skin/analyze", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(32<<20))
		_, _, err := r.FormFile("file")
		require.NoError(t, err)

		json.NewEncoder(w).Encode(map[string]any{
			"skin_type_scores": []float64{0.1, 0.5, 0.2, 0.1, 0.1},
			"concerns": []map[string]any{
				{"type": "acne", "score": 55.0, "confidence": 0.82},
				{"type": "not_a_real_concern", "score": 90.0, "confidence": 0.99},
			},
			"overall_score": 68.5,
			"skin_age":      31,
			"metrics":       map[string]float64{"hydration_score": 58},
			"confidence":    0.91,
		})
	}))
	defer srv.Close()

	client := analyze.NewProviderClient(srv.URL, "secret-key", 5*time.Second)
	raw, err := client.Analyze(context.Background(), testFace(), 0.95)
	require.NoError(t, err)

	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, analyze.SourceProvider, raw.Source)
	assert.Equal(t, 68.5, raw.OverallScore)
	assert.Equal(t, 31, raw.SkinAge)
	assert.Equal(t, 0.91, raw.Confidence)
	assert.Equal(t, 0.95, raw.ImageQuality)

	// Unknown concern tags are dropped, known ones kept.
	require.Len(t, raw.Concerns, 1)
	assert.Equal(t, 55.0, raw.Concerns[analyze.ConcernAcne].Score)

	// Named metrics are read; absent ones default to neutral.
	assert.Equal(t, 58.0, raw.Metrics.HydrationScore)
	assert.Equal(t, 50.0, raw.Metrics.TextureScore)
}

func TestProviderClientLowConfidenceIsFloored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"skin_type_scores": []float64{0.2, 0.2, 0.2, 0.2, 0.2},
			"overall_score":    70.0,
			"confidence":       0.1,
		})
	}))
	defer srv.Close()

	client := analyze.NewProviderClient(srv.URL, "k", 5*time.Second)
	raw, err := client.Analyze(context.Background(), testFace(), 0.9)
	require.NoError(t, err)
	assert.Equal(t, 0.85, raw.Confidence)
}

func TestProviderClientErrorStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := analyze.NewProviderClient(srv.URL, "k", 5*time.Second)
	_, err := client.Analyze(context.Background(), testFace(), 0.9)
	assert.ErrorContains(t, err, "429")
}

func TestProviderClientBreakerOpensAfterFailures(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := analyze.NewProviderClient(srv.URL, "k", 5*time.Second)
	for i := 0; i < 3; i++ {
		_, err := client.Analyze(context.Background(), testFace(), 0.9)
		require.Error(t, err)
	}
	require.Equal(t, 3, calls)

	// Breaker is open now: the request never reaches the server.
	_, err := client.Analyze(context.Background(), testFace(), 0.9)
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}
