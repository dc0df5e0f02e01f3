package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

const defaultProviderConfidence = 0.85

// ProviderClient calls the external skin-analysis inference API.
// POST /v1/skin/analyze with the aligned face as a multipart upload.
type ProviderClient struct {
	BaseURL string
	APIKey  string

	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*providerResponse]
}

// NewProviderClient creates a provider client with the given request
// timeout. The circuit breaker opens after repeated consecutive failures so
// a dead provider stops costing a full timeout per request.
func NewProviderClient(baseURL, apiKey string, timeout time.Duration) *ProviderClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	breaker := gobreaker.NewCircuitBreaker[*providerResponse](gobreaker.Settings{
		Name:    "skin-analysis-provider",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("Provider breaker %s: %s -> %s", name, from, to)
		},
	})
	return &ProviderClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: breaker,
	}
}

// providerResponse is the provider's wire format.
type providerResponse struct {
	SkinTypeScores []float64          `json:"skin_type_scores"`
	Concerns       []providerConcern  `json:"concerns"`
	Biomarkers     []float64          `json:"biomarkers"`
	OverallScore   float64            `json:"overall_score"`
	SkinAge        int                `json:"skin_age"`
	Metrics        map[string]float64 `json:"metrics"`
	Confidence     float64            `json:"confidence"`
}

type providerConcern struct {
	Type       string  `json:"type"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}

// Analyze submits the aligned face and maps the provider response onto the
// raw output tuple. Transport failures, non-200 statuses, malformed bodies
// and an open breaker all surface as errors; the caller decides the
// fallback.
func (c *ProviderClient) Analyze(ctx context.Context, face image.Image, imageQuality float64) (RawOutput, error) {
	resp, err := c.breaker.Execute(func() (*providerResponse, error) {
		return c.post(ctx, face)
	})
	if err != nil {
		return RawOutput{}, fmt.Errorf("provider analysis: %w", err)
	}

	concerns := make(map[Concern]ConcernScore, len(resp.Concerns))
	for _, pc := range resp.Concerns {
		concern := Concern(pc.Type)
		if !knownConcern(concern) {
			log.Debugf("Provider returned unknown concern %q, skipping", pc.Type)
			continue
		}
		concerns[concern] = ConcernScore{Score: pc.Score, Confidence: pc.Confidence}
	}

	confidence := resp.Confidence
	if confidence < 0.8 {
		confidence = defaultProviderConfidence
	}

	return RawOutput{
		SkinTypeScores: resp.SkinTypeScores,
		Concerns:       concerns,
		Biomarkers:     resp.Biomarkers,
		OverallScore:   resp.OverallScore,
		SkinAge:        resp.SkinAge,
		Metrics:        metricsFromMap(resp.Metrics),
		Confidence:     confidence,
		ImageQuality:   imageQuality,
		Source:         SourceProvider,
	}, nil
}

func (c *ProviderClient) post(ctx context.Context, face image.Image) (*providerResponse, error) {
	reqURL := fmt.Sprintf("%s/v1/skin/analyze", c.BaseURL)

	var jpegBuf bytes.Buffer
	if err := jpeg.Encode(&jpegBuf, face, &jpeg.Options{Quality: 95}); err != nil {
		return nil, fmt.Errorf("failed to encode face crop: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "face.jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err = part.Write(jpegBuf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}
	if err = writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("x-api-key", c.APIKey)

	log.Tracef("Analyze: POST %s", reqURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed providerResponse
	if err = json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &parsed, nil
}

func knownConcern(c Concern) bool {
	for _, known := range Concerns {
		if c == known {
			return true
		}
	}
	return false
}

// metricsFromMap reads the provider's named metric map, defaulting absent
// keys to the neutral 50.
func metricsFromMap(m map[string]float64) SkinMetrics {
	metrics := DefaultMetrics()
	if m == nil {
		return metrics
	}
	if v, ok := m["hydration_score"]; ok {
		metrics.HydrationScore = v
	}
	if v, ok := m["oiliness_score"]; ok {
		metrics.OilinessScore = v
	}
	if v, ok := m["texture_score"]; ok {
		metrics.TextureScore = v
	}
	if v, ok := m["elasticity_score"]; ok {
		metrics.ElasticityScore = v
	}
	if v, ok := m["pore_size_score"]; ok {
		metrics.PoreSizeScore = v
	}
	if v, ok := m["skin_tone_evenness"]; ok {
		metrics.SkinToneEvenness = v
	}
	return metrics
}
