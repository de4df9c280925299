// Package catalog reads the stall/menu catalog service and maps its wire
// shapes into the restaurant types the views render.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusbites/campusbites-client/pkg/httpx"
	"github.com/shopspring/decimal"
)

// Stall is the catalog service's wire shape for one food stall.
type Stall struct {
	ID              string          `json:"id"`
	StallName       string          `json:"stall_name"`
	StallImage      string          `json:"stall_image"`
	StallDesc       string          `json:"stall_description"`
	Rating          float64         `json:"rating"`
	ReviewCount     int             `json:"review_count"`
	Cuisines        []string        `json:"cuisines"`
	PreparationMins int             `json:"preparation_time_mins"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	StallLocation   string          `json:"stall_location"`
	IsPromoted      bool            `json:"is_promoted"`
	Menu            []StallMenuItem `json:"menu"`
}

// StallMenuItem is the wire shape for one menu entry.
type StallMenuItem struct {
	ID        string          `json:"id"`
	FoodName  string          `json:"food_name"`
	FoodPrice decimal.Decimal `json:"food_price"`
	FoodDesc  string          `json:"food_description"`
	FoodCat   string          `json:"food_category"`
	FoodImage string          `json:"food_image"`
}

// Restaurant is the view-facing shape.
type Restaurant struct {
	ID           string
	Name         string
	Image        string
	Description  string
	Rating       float64
	ReviewCount  int
	Cuisines     []string
	DeliveryTime int
	DeliveryFee  decimal.Decimal
	Location     string
	IsPromoted   bool
	Menu         []MenuItem
}

// MenuItem is the view-facing menu entry.
type MenuItem struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Description string
	Category    string
	Image       string
}

// Client calls the stall catalog service.
type Client struct {
	baseURL string
	http    *httpx.Client
}

// NewClient builds a catalog client for the given base URL.
func NewClient(baseURL string, httpClient *httpx.Client) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("catalog base url required")
	}
	if httpClient == nil {
		return nil, fmt.Errorf("http client required")
	}
	return &Client{baseURL: trimmed, http: httpClient}, nil
}

// ListRestaurants fetches every stall and maps it.
func (c *Client) ListRestaurants(ctx context.Context) ([]Restaurant, error) {
	var stalls []Stall
	if err := c.http.GetJSON(ctx, c.baseURL+"/stalls", &stalls); err != nil {
		return nil, fmt.Errorf("listing stalls: %w", err)
	}
	restaurants := make([]Restaurant, 0, len(stalls))
	for _, stall := range stalls {
		restaurants = append(restaurants, mapStall(stall))
	}
	return restaurants, nil
}

// GetRestaurant fetches one stall by id.
func (c *Client) GetRestaurant(ctx context.Context, id string) (*Restaurant, error) {
	var stall Stall
	if err := c.http.GetJSON(ctx, fmt.Sprintf("%s/stalls/%s", c.baseURL, id), &stall); err != nil {
		return nil, fmt.Errorf("loading stall %s: %w", id, err)
	}
	mapped := mapStall(stall)
	return &mapped, nil
}

// GetMenu fetches the menu of one stall.
func (c *Client) GetMenu(ctx context.Context, id string) ([]MenuItem, error) {
	var items []StallMenuItem
	if err := c.http.GetJSON(ctx, fmt.Sprintf("%s/stalls/%s/menu", c.baseURL, id), &items); err != nil {
		return nil, fmt.Errorf("loading menu for stall %s: %w", id, err)
	}
	menu := make([]MenuItem, 0, len(items))
	for _, item := range items {
		menu = append(menu, mapMenuItem(item))
	}
	return menu, nil
}

func mapStall(stall Stall) Restaurant {
	menu := make([]MenuItem, 0, len(stall.Menu))
	for _, item := range stall.Menu {
		menu = append(menu, mapMenuItem(item))
	}
	return Restaurant{
		ID:           stall.ID,
		Name:         stall.StallName,
		Image:        stall.StallImage,
		Description:  stall.StallDesc,
		Rating:       stall.Rating,
		ReviewCount:  stall.ReviewCount,
		Cuisines:     stall.Cuisines,
		DeliveryTime: stall.PreparationMins,
		DeliveryFee:  stall.DeliveryFee,
		Location:     stall.StallLocation,
		IsPromoted:   stall.IsPromoted,
		Menu:         menu,
	}
}

func mapMenuItem(item StallMenuItem) MenuItem {
	return MenuItem{
		ID:          item.ID,
		Name:        item.FoodName,
		Price:       item.FoodPrice,
		Description: item.FoodDesc,
		Category:    item.FoodCat,
		Image:       item.FoodImage,
	}
}
