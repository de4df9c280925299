package accounts

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusbites/campusbites-client/pkg/httpx"
)

// Client calls the customer and picker account services.
type Client struct {
	customerURL string
	pickerURL   string
	http        *httpx.Client
}

// NewClient builds an accounts client.
func NewClient(customerURL, pickerURL string, httpClient *httpx.Client) (*Client, error) {
	customer := strings.TrimRight(strings.TrimSpace(customerURL), "/")
	picker := strings.TrimRight(strings.TrimSpace(pickerURL), "/")
	if customer == "" || picker == "" {
		return nil, fmt.Errorf("customer and picker service urls required")
	}
	if httpClient == nil {
		return nil, fmt.Errorf("http client required")
	}
	return &Client{customerURL: customer, pickerURL: picker, http: httpClient}, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates against the account service for the given role and
// returns the signed-in user.
func (c *Client) Login(ctx context.Context, role Role, email, password string) (*User, error) {
	var user User
	if err := c.http.PostJSON(ctx, c.baseFor(role)+"/login", loginRequest{Email: email, Password: password}, &user); err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	user.Role = role
	return &user, nil
}

// GetCustomer fetches a customer account, typically to refresh the credit
// balance after a payment or refund.
func (c *Client) GetCustomer(ctx context.Context, id string) (*User, error) {
	var user User
	if err := c.http.GetJSON(ctx, fmt.Sprintf("%s/customers/%s", c.customerURL, id), &user); err != nil {
		return nil, fmt.Errorf("loading customer %s: %w", id, err)
	}
	user.Role = RoleCustomer
	return &user, nil
}

// GetPicker fetches a picker account.
func (c *Client) GetPicker(ctx context.Context, id string) (*User, error) {
	var user User
	if err := c.http.GetJSON(ctx, fmt.Sprintf("%s/pickers/%s", c.pickerURL, id), &user); err != nil {
		return nil, fmt.Errorf("loading picker %s: %w", id, err)
	}
	user.Role = RolePicker
	return &user, nil
}

func (c *Client) baseFor(role Role) string {
	if role == RolePicker {
		return c.pickerURL
	}
	return c.customerURL
}
