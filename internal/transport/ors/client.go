// Package ors is a thin client for the OpenRouteService directions API.
package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/campus-maps/vendmap/internal/domain"
)

// profile is the only routing profile the locator needs: everything on
// campus is reached on foot.
const profile = "foot-walking"

// Client calls the OpenRouteService v2 directions endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// Config holds the directions provider settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  *zap.Logger
}

// New creates a directions client.
func New(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		logger:     cfg.Logger,
	}
}

// Route is the upstream response reduced to what the locator uses: the
// encoded polyline and the step list of the first route.
type Route struct {
	Geometry string
	Steps    []Step
}

// Step is one turn instruction. WayPoints indexes into the decoded polyline;
// the first index is where the instruction applies.
type Step struct {
	Distance    float64 `json:"distance"`
	Duration    float64 `json:"duration"`
	Instruction string  `json:"instruction"`
	Name        string  `json:"name"`
	WayPoints   []int   `json:"way_points"`
}

type directionsRequest struct {
	Coordinates [][2]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Routes []struct {
		Geometry string `json:"geometry"`
		Segments []struct {
			Steps []Step `json:"steps"`
		} `json:"segments"`
	} `json:"routes"`
}

// Directions requests a walking route between two [lon, lat] coordinates.
// Any upstream failure, transport or non-200, wraps domain.ErrDirectionsFailed.
func (c *Client) Directions(ctx context.Context, start, end [2]float64) (Route, error) {
	body, err := json.Marshal(directionsRequest{Coordinates: [][2]float64{start, end}})
	if err != nil {
		return Route{}, fmt.Errorf("marshal directions request: %w", err)
	}

	url := c.baseURL + "/v2/directions/" + profile
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Route{}, fmt.Errorf("build directions request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Route{}, fmt.Errorf("%w: %v", domain.ErrDirectionsFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("directions upstream error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", detail))
		return Route{}, fmt.Errorf("%w: upstream status %d", domain.ErrDirectionsFailed, resp.StatusCode)
	}

	var parsed directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Route{}, fmt.Errorf("%w: decode response: %v", domain.ErrDirectionsFailed, err)
	}
	if len(parsed.Routes) == 0 {
		return Route{}, fmt.Errorf("%w: no route found", domain.ErrDirectionsFailed)
	}

	route := Route{Geometry: parsed.Routes[0].Geometry}
	for _, seg := range parsed.Routes[0].Segments {
		route.Steps = append(route.Steps, seg.Steps...)
	}
	return route, nil
}
