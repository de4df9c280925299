// Package listings wraps the externally hosted surplus-food catalog: stalls
// publish leftover items for self-collection at a discount, and the special
// listings page browses them. The catalog is read-only from our side.
package listings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/campusbites/campusbites-client/pkg/config"
	"github.com/campusbites/campusbites-client/pkg/httpx"
)

var errBaseURLRequired = errors.New("listings base url is required")

// Listing is one surplus-food item offered for pickup.
type Listing struct {
	ID             string
	Title          string
	RestaurantName string
	FoodType       string
	ImageURL       string
	PickupAddress  string
	Quantity       int
	ExpiresAt      time.Time
}

// ExpiryLabel says how long the listing stays available, in the coarse
// units the page shows. Listings without a parseable expiry get no label.
func (l Listing) ExpiryLabel(now time.Time) string {
	if l.ExpiresAt.IsZero() {
		return ""
	}
	remaining := l.ExpiresAt.Sub(now)
	if remaining <= 0 {
		return "expired"
	}
	hours := int(math.Ceil(remaining.Hours()))
	if hours < 24 {
		return fmt.Sprintf("%d hours left", hours)
	}
	return fmt.Sprintf("%d days left", hours/24)
}

// Client fetches listings from the external catalog.
type Client struct {
	http    *httpx.Client
	baseURL string
}

// NewClient builds the catalog client from config.
func NewClient(cfg config.ListingsConfig, httpClient *httpx.Client) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, errBaseURLRequired
	}
	if httpClient == nil {
		return nil, fmt.Errorf("http client required")
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(base, "/"),
	}, nil
}

// The catalog is a third-party API with its own field casing.
type listingPayload struct {
	ID             string `json:"Id"`
	Title          string `json:"Title"`
	RestaurantName string `json:"RestaurantName"`
	FoodType       string `json:"FoodType"`
	ImageText      string `json:"ImageText"`
	PickupAddress  string `json:"PickupAddress"`
	Qty            int    `json:"Qty"`
	ExpiryTime     string `json:"ExpiryTime"`
}

// List fetches every active listing from the catalog.
func (c *Client) List(ctx context.Context) ([]Listing, error) {
	var payload []listingPayload
	if err := c.http.GetJSON(ctx, c.baseURL+"/listings", &payload); err != nil {
		return nil, fmt.Errorf("fetching food listings: %w", err)
	}

	result := make([]Listing, 0, len(payload))
	for _, p := range payload {
		result = append(result, Listing{
			ID:             p.ID,
			Title:          p.Title,
			RestaurantName: p.RestaurantName,
			FoodType:       p.FoodType,
			ImageURL:       p.ImageText,
			PickupAddress:  p.PickupAddress,
			Quantity:       p.Qty,
			ExpiresAt:      parseExpiry(p.ExpiryTime),
		})
	}
	return result, nil
}

// parseExpiry reads the catalog's timestamp, which shows up both as RFC 3339
// and as a bare date. Unparseable values read as zero.
func parseExpiry(raw string) time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Filter keeps listings whose title or restaurant name contains the search
// term and whose food type matches. Empty arguments match everything.
func Filter(all []Listing, search, foodType string) []Listing {
	search = strings.ToLower(strings.TrimSpace(search))
	foodType = strings.ToLower(strings.TrimSpace(foodType))

	result := make([]Listing, 0, len(all))
	for _, l := range all {
		if search != "" &&
			!strings.Contains(strings.ToLower(l.Title), search) &&
			!strings.Contains(strings.ToLower(l.RestaurantName), search) {
			continue
		}
		if foodType != "" && strings.ToLower(l.FoodType) != foodType {
			continue
		}
		result = append(result, l)
	}
	return result
}

// FoodTypes returns the distinct food types across the listings, sorted,
// for the filter dropdown.
func FoodTypes(all []Listing) []string {
	seen := make(map[string]struct{}, len(all))
	types := make([]string, 0, len(all))
	for _, l := range all {
		if l.FoodType == "" {
			continue
		}
		if _, ok := seen[l.FoodType]; ok {
			continue
		}
		seen[l.FoodType] = struct{}{}
		types = append(types, l.FoodType)
	}
	sort.Strings(types)
	return types
}
