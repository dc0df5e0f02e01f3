package detect

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
)

// MeshClient provides an HTTP client for the dense landmark service, the
// higher-accuracy detection backend. The service returns a 468-point face
// mesh with normalized coordinates.
type MeshClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// meshDetectResponse represents the detect endpoint response
type meshDetectResponse struct {
	Faces []meshFace `json:"faces"`
}

// meshFace matches the landmark service response for one face
type meshFace struct {
	Box struct {
		XMin int `json:"x_min"`
		YMin int `json:"y_min"`
		XMax int `json:"x_max"`
		YMax int `json:"y_max"`
	} `json:"box"`
	Landmarks [][3]float64 `json:"landmarks"`
	Score     float64      `json:"score"`
}

// NewMeshClient creates a new landmark service HTTP client
func NewMeshClient(baseURL string) *MeshClient {
	return &MeshClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetTimeout sets the HTTP client timeout
func (c *MeshClient) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// Health checks if the landmark service is available
func (c *MeshClient) Health() error {
	url := fmt.Sprintf("%s/health", c.BaseURL)

	resp, err := c.HTTPClient.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// Landmarks submits a face crop and returns the dense landmark set for the
// most prominent face in it. Coordinates come back normalized to [0,1]
// relative to the submitted crop.
func (c *MeshClient) Landmarks(ctx context.Context, crop image.Image) ([]Point3, error) {
	url := fmt.Sprintf("%s/landmarks/detect", c.BaseURL)

	var imgBuf bytes.Buffer
	if err := jpeg.Encode(&imgBuf, crop, &jpeg.Options{Quality: 95}); err != nil {
		return nil, fmt.Errorf("failed to encode crop: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "face.jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, &imgBuf); err != nil {
		return nil, fmt.Errorf("failed to copy image data: %w", err)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var result meshDetectResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Faces) == 0 {
		return nil, nil
	}

	raw := result.Faces[0].Landmarks
	points := make([]Point3, len(raw))
	for i, lm := range raw {
		points[i] = Point3{X: lm[0], Y: lm[1], Z: lm[2]}
	}
	return points, nil
}
