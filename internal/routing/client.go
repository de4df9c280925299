// Package routing wraps the third-party directions provider the route map
// view uses to draw the picker's path to the delivery location.
package routing

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/campusbites/campusbites-client/pkg/config"
	"github.com/campusbites/campusbites-client/pkg/httpx"
)

const defaultBaseURL = "https://routes.googleapis.com/v1"

var errAPIKeyRequired = errors.New("routing api key is required")

// Point is a latitude/longitude pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Route is the provider's answer, already reduced to what the view renders.
type Route struct {
	Polyline        string `json:"polyline"`
	DurationSeconds int    `json:"duration_seconds"`
	DistanceMeters  int    `json:"distance_meters"`
}

// Client calls the directions provider.
type Client struct {
	http    *httpx.Client
	baseURL string
	apiKey  string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithBaseURL overrides the provider base URL, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

// NewClient builds the directions client from config.
func NewClient(cfg config.RoutingConfig, httpClient *httpx.Client, opts ...Option) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, errAPIKeyRequired
	}
	if httpClient == nil {
		return nil, fmt.Errorf("http client required")
	}
	client := &Client{
		http:    httpClient,
		baseURL: defaultBaseURL,
		apiKey:  key,
	}
	if trimmed := strings.TrimSpace(cfg.BaseURL); trimmed != "" {
		client.baseURL = strings.TrimRight(trimmed, "/")
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

type directionsResponse struct {
	Routes []struct {
		Polyline struct {
			EncodedPolyline string `json:"encodedPolyline"`
		} `json:"polyline"`
		Duration       string `json:"duration"`
		DistanceMeters int    `json:"distanceMeters"`
	} `json:"routes"`
}

// Directions asks the provider for a route from origin to destination.
func (c *Client) Directions(ctx context.Context, origin, destination Point) (*Route, error) {
	query := url.Values{}
	query.Set("key", c.apiKey)
	query.Set("origin", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
	query.Set("destination", fmt.Sprintf("%f,%f", destination.Lat, destination.Lng))

	var resp directionsResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/directions?"+query.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("fetching directions: %w", err)
	}
	if len(resp.Routes) == 0 {
		return nil, fmt.Errorf("no route between origin and destination")
	}

	route := resp.Routes[0]
	return &Route{
		Polyline:        route.Polyline.EncodedPolyline,
		DurationSeconds: parseDurationSeconds(route.Duration),
		DistanceMeters:  route.DistanceMeters,
	}, nil
}

// parseDurationSeconds reads the provider's "123s" duration format. Anything
// unparseable reads as zero; the view renders it as "unknown".
func parseDurationSeconds(raw string) int {
	trimmed := strings.TrimSuffix(strings.TrimSpace(raw), "s")
	if trimmed == "" {
		return 0
	}
	d, err := time.ParseDuration(trimmed + "s")
	if err != nil {
		return 0
	}
	return int(d.Seconds())
}
