// Package credits calls the credit and payment services. All ledger math is
// backend-owned; amounts pass through as decimals and come back as the new
// balance.
package credits

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusbites/campusbites-client/pkg/httpx"
	"github.com/shopspring/decimal"
)

// Client talks to the credit and payment services.
type Client struct {
	creditURL  string
	paymentURL string
	http       *httpx.Client
}

// NewClient builds a credits client.
func NewClient(creditURL, paymentURL string, httpClient *httpx.Client) (*Client, error) {
	credit := strings.TrimRight(strings.TrimSpace(creditURL), "/")
	payment := strings.TrimRight(strings.TrimSpace(paymentURL), "/")
	if credit == "" || payment == "" {
		return nil, fmt.Errorf("credit and payment service urls required")
	}
	if httpClient == nil {
		return nil, fmt.Errorf("http client required")
	}
	return &Client{creditURL: credit, paymentURL: payment, http: httpClient}, nil
}

type addCreditsRequest struct {
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
}

type balanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// AddCredits tops up the customer's balance and returns the new balance.
func (c *Client) AddCredits(ctx context.Context, customerID string, amount decimal.Decimal) (decimal.Decimal, error) {
	var resp balanceResponse
	err := c.http.PostJSON(ctx, c.creditURL+"/credits/add", addCreditsRequest{CustomerID: customerID, Amount: amount}, &resp)
	if err != nil {
		return decimal.Zero, fmt.Errorf("adding credits: %w", err)
	}
	return resp.Balance, nil
}

// Balance fetches the customer's current credit balance.
func (c *Client) Balance(ctx context.Context, customerID string) (decimal.Decimal, error) {
	var resp balanceResponse
	if err := c.http.GetJSON(ctx, fmt.Sprintf("%s/credits/%s", c.creditURL, customerID), &resp); err != nil {
		return decimal.Zero, fmt.Errorf("loading balance for customer %s: %w", customerID, err)
	}
	return resp.Balance, nil
}

type payRequest struct {
	CustomerID string          `json:"customer_id"`
	OrderID    string          `json:"order_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// Pay settles an order from the customer's credit balance.
func (c *Client) Pay(ctx context.Context, customerID, orderID string, amount decimal.Decimal) error {
	if err := c.http.PostJSON(ctx, c.paymentURL+"/payments", payRequest{CustomerID: customerID, OrderID: orderID, Amount: amount}, nil); err != nil {
		return fmt.Errorf("paying order %s: %w", orderID, err)
	}
	return nil
}

type refundRequest struct {
	CustomerID string `json:"customer_id"`
	OrderID    string `json:"order_id"`
	Reason     string `json:"reason"`
}

// RequestRefund files a refund request for an order. Approval and the ledger
// update are backend decisions.
func (c *Client) RequestRefund(ctx context.Context, customerID, orderID, reason string) error {
	if err := c.http.PostJSON(ctx, c.creditURL+"/refunds", refundRequest{CustomerID: customerID, OrderID: orderID, Reason: reason}, nil); err != nil {
		return fmt.Errorf("requesting refund for order %s: %w", orderID, err)
	}
	return nil
}
