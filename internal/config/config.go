package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Load resolves service configuration from the environment. A .env file in
// the working directory is applied first when present; real environment
// variables win over file entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using system environment variables")
	}

	cfg := &Config{
		ListenAddr: getString("DERMALENS_LISTEN_ADDR", ":8080"),
		LogLevel:   getString("DERMALENS_LOG_LEVEL", "info"),

		MinWidth:      getInt("DERMALENS_MIN_WIDTH", 640),
		MinHeight:     getInt("DERMALENS_MIN_HEIGHT", 480),
		MinBrightness: getFloat("DERMALENS_MIN_BRIGHTNESS", 40),
		MaxBrightness: getFloat("DERMALENS_MAX_BRIGHTNESS", 220),
		MinSharpness:  getFloat("DERMALENS_MIN_SHARPNESS", 100),

		CascadePath:        getString("DERMALENS_CASCADE_PATH", "models/facefinder"),
		LandmarkURL:        getString("DERMALENS_LANDMARK_URL", ""),
		LandmarkTimeoutSec: getInt("DERMALENS_LANDMARK_TIMEOUT", 30),
		MinFaceSize:        getInt("DERMALENS_MIN_FACE_SIZE", 100),
		DetectionScore:     getFloat("DERMALENS_DETECTION_SCORE", 5.0),
		PaddingRatio:       getFloat("DERMALENS_PADDING_RATIO", 0.2),

		ProviderURL:        getString("DERMALENS_PROVIDER_URL", ""),
		ProviderAPIKey:     getString("DERMALENS_PROVIDER_API_KEY", ""),
		ProviderTimeoutSec: getInt("DERMALENS_PROVIDER_TIMEOUT", 30),
		ModelWeightsPath:   getString("DERMALENS_MODEL_WEIGHTS", ""),
		ConcernThreshold:   getFloat("DERMALENS_CONCERN_THRESHOLD", 0.3),
		MaxRecommendations: getInt("DERMALENS_MAX_RECOMMENDATIONS", 10),
		AlignedSize:        getInt("DERMALENS_ALIGNED_SIZE", 224),
	}

	// Optional backends get DNS resolution for container deployments.
	if cfg.LandmarkURL != "" {
		cfg.LandmarkURL = resolveServiceURL(cfg.LandmarkURL, "dermalens-landmarks", "6001")
		log.Infof("Landmark service configured at: %s", cfg.LandmarkURL)
	} else {
		log.Info("Landmark service not configured (pose estimation degraded)")
	}

	if cfg.ProviderURL != "" {
		cfg.ProviderURL = resolveServiceURL(cfg.ProviderURL, "dermalens-inference", "9000")
		log.Infof("Inference provider configured at: %s", cfg.ProviderURL)
		if cfg.ProviderAPIKey == "" {
			return nil, fmt.Errorf("provider API key is required when a provider URL is set")
		}
	} else {
		log.Info("Inference provider not configured (local analysis only)")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MinBrightness >= c.MaxBrightness {
		return fmt.Errorf("brightness band is empty: [%.0f, %.0f]", c.MinBrightness, c.MaxBrightness)
	}
	if c.MinWidth <= 0 || c.MinHeight <= 0 {
		return fmt.Errorf("minimum resolution must be positive, got %dx%d", c.MinWidth, c.MinHeight)
	}
	if c.ConcernThreshold < 0 || c.ConcernThreshold > 1 {
		return fmt.Errorf("concern threshold %.2f outside [0,1]", c.ConcernThreshold)
	}
	if c.AlignedSize <= 0 {
		return fmt.Errorf("aligned face size must be positive, got %d", c.AlignedSize)
	}
	if c.PaddingRatio < 0 {
		return fmt.Errorf("padding ratio must not be negative, got %.2f", c.PaddingRatio)
	}
	return nil
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warnf("Invalid integer for %s: %q, using default %d", key, v, fallback)
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Warnf("Invalid float for %s: %q, using default %g", key, v, fallback)
	}
	return fallback
}

// resolveServiceURL resolves a backend URL with proper DNS lookup.
// Handles IP addresses, hostnames, container names, and localhost.
func resolveServiceURL(configuredURL string, defaultContainerName string, defaultPort string) string {
	const defaultScheme = "http"
	var hardcodedFallback = fmt.Sprintf("%s://%s:%s", defaultScheme, defaultContainerName, defaultPort)

	if configuredURL == "" {
		log.Infof("No service URL configured, using default: %s", hardcodedFallback)
		return hardcodedFallback
	}

	parsedURL, err := url.Parse(configuredURL)
	if err != nil {
		log.Warnf("Failed to parse service URL '%s': %v, using fallback", configuredURL, err)
		return hardcodedFallback
	}

	hostname := parsedURL.Hostname()
	port := parsedURL.Port()
	scheme := parsedURL.Scheme

	if scheme == "" {
		scheme = defaultScheme
	}
	if port == "" {
		port = defaultPort
	}

	// Case 1: localhost - use as-is
	if hostname == "localhost" || hostname == "127.0.0.1" {
		return fmt.Sprintf("%s://%s:%s", scheme, hostname, port)
	}

	// Case 2: Already an IP address - use as-is
	if net.ParseIP(hostname) != nil {
		return fmt.Sprintf("%s://%s:%s", scheme, hostname, port)
	}

	// Case 3: Hostname or container name - resolve via DNS
	addrs, err := net.LookupIP(hostname)
	if err != nil || len(addrs) == 0 {
		log.Warnf("DNS lookup failed for '%s', using hostname as-is", hostname)
		return fmt.Sprintf("%s://%s:%s", scheme, hostname, port)
	}

	resolvedIP := addrs[0].String()
	resolvedURL := fmt.Sprintf("%s://%s:%s", scheme, resolvedIP, port)
	log.Infof("Resolved '%s' to %s", hostname, resolvedURL)
	return resolvedURL
}
