// Package orders calls the order lifecycle service and the assignment
// service. State transition rules live server-side; this client only sends
// the shapes the backends expect.
package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/campusbites/campusbites-client/pkg/httpx"
	"github.com/shopspring/decimal"
)

// Status values the order service reports.
type Status string

const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusPreparing  Status = "preparing"
	StatusDelivering Status = "delivering"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Item is one line of an order on the wire.
type Item struct {
	Name     string          `json:"order_item"`
	Quantity int             `json:"order_quantity"`
	Price    decimal.Decimal `json:"order_price"`
}

// Order is the order service's wire shape.
type Order struct {
	ID         string     `json:"order_id"`
	CustomerID string     `json:"customer_id"`
	PickerID   string     `json:"picker_id,omitempty"`
	StallID    string     `json:"stall_id"`
	Status     Status     `json:"order_status"`
	Location   string     `json:"order_location"`
	Started    time.Time  `json:"order_start"`
	Completed  *time.Time `json:"order_completed,omitempty"`
	IsPaid     bool       `json:"is_paid"`
	Items      []Item     `json:"order_items"`
}

// Total sums the order's lines.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// CreateOrderInput is the payload for placing a new order.
type CreateOrderInput struct {
	CustomerID string `json:"customer_id"`
	StallID    string `json:"stall_id"`
	Status     Status `json:"order_status"`
	Location   string `json:"order_location"`
	IsPaid     bool   `json:"is_paid"`
	Items      []Item `json:"order_items"`
}

// Client talks to the order service and, for operations that must broadcast
// to pickers, the assignment service.
type Client struct {
	orderURL      string
	assignmentURL string
	http          *httpx.Client
}

// NewClient builds an orders client.
func NewClient(orderURL, assignmentURL string, httpClient *httpx.Client) (*Client, error) {
	order := strings.TrimRight(strings.TrimSpace(orderURL), "/")
	assignment := strings.TrimRight(strings.TrimSpace(assignmentURL), "/")
	if order == "" {
		return nil, fmt.Errorf("order service url required")
	}
	if assignment == "" {
		return nil, fmt.Errorf("assignment service url required")
	}
	if httpClient == nil {
		return nil, fmt.Errorf("http client required")
	}
	return &Client{orderURL: order, assignmentURL: assignment, http: httpClient}, nil
}

// Create places an order through the assignment service, which forwards it to
// the order service and broadcasts order_waiting to connected pickers.
// Returns the created order id.
func (c *Client) Create(ctx context.Context, input CreateOrderInput) (string, error) {
	if input.Status == "" {
		input.Status = StatusPending
	}
	var resp struct {
		OrderID string `json:"order_id"`
	}
	if err := c.http.PostJSON(ctx, c.assignmentURL+"/orders", input, &resp); err != nil {
		return "", fmt.Errorf("creating order: %w", err)
	}
	return resp.OrderID, nil
}

// Get fetches one order.
func (c *Client) Get(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	if err := c.http.GetJSON(ctx, fmt.Sprintf("%s/orders/%s", c.orderURL, orderID), &order); err != nil {
		return nil, fmt.Errorf("loading order %s: %w", orderID, err)
	}
	return &order, nil
}

// ListPending fetches the pool of orders waiting for a picker.
func (c *Client) ListPending(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.http.GetJSON(ctx, c.orderURL+"/orders", &orders); err != nil {
		return nil, fmt.Errorf("listing pending orders: %w", err)
	}
	return orders, nil
}

// ListByCustomer fetches the customer's order history.
func (c *Client) ListByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	var orders []Order
	if err := c.http.GetJSON(ctx, fmt.Sprintf("%s/customers/%s/orders", c.orderURL, customerID), &orders); err != nil {
		return nil, fmt.Errorf("listing orders for customer %s: %w", customerID, err)
	}
	return orders, nil
}

// ListByPicker fetches the orders currently assigned to a picker.
func (c *Client) ListByPicker(ctx context.Context, pickerID string) ([]Order, error) {
	var orders []Order
	if err := c.http.GetJSON(ctx, fmt.Sprintf("%s/pickers/%s/orders", c.orderURL, pickerID), &orders); err != nil {
		return nil, fmt.Errorf("listing orders for picker %s: %w", pickerID, err)
	}
	return orders, nil
}

// Accept claims a pending order for a picker. The assignment service
// publishes the acceptance so customer views get their picker_update push.
func (c *Client) Accept(ctx context.Context, orderID, pickerID string) error {
	payload := map[string]string{"order_id": orderID, "picker_id": pickerID}
	if err := c.http.PostJSON(ctx, c.assignmentURL+"/picker_accept", payload, nil); err != nil {
		return fmt.Errorf("accepting order %s: %w", orderID, err)
	}
	body := map[string]string{"picker_id": pickerID, "order_status": string(StatusAssigned)}
	if err := c.http.PutJSON(ctx, fmt.Sprintf("%s/orders/%s", c.orderURL, orderID), body, nil); err != nil {
		return fmt.Errorf("recording assignment for order %s: %w", orderID, err)
	}
	return nil
}

// UpdateStatus patches the order's status.
func (c *Client) UpdateStatus(ctx context.Context, orderID string, status Status) error {
	body := map[string]string{"order_status": string(status)}
	if err := c.http.PatchJSON(ctx, fmt.Sprintf("%s/orders/%s", c.orderURL, orderID), body, nil); err != nil {
		return fmt.Errorf("updating status of order %s: %w", orderID, err)
	}
	return nil
}

// UpdateLocation patches the order's delivery location.
func (c *Client) UpdateLocation(ctx context.Context, orderID, location string) error {
	body := map[string]string{"order_location": location}
	if err := c.http.PatchJSON(ctx, fmt.Sprintf("%s/orders/%s", c.orderURL, orderID), body, nil); err != nil {
		return fmt.Errorf("updating location of order %s: %w", orderID, err)
	}
	return nil
}
