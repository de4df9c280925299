// Package checkout assembles an order from the cart and submits it. The cart
// is cleared only after the backend confirms the order; any failure leaves
// the shopper's selection intact.
package checkout

import (
	"context"
	"fmt"

	"github.com/campusbites/campusbites-client/internal/cart"
	"github.com/campusbites/campusbites-client/internal/orders"
	pkgerrors "github.com/campusbites/campusbites-client/pkg/errors"
	"github.com/campusbites/campusbites-client/pkg/logger"
	"github.com/shopspring/decimal"
)

type orderPlacer interface {
	Create(ctx context.Context, input orders.CreateOrderInput) (string, error)
}

type payer interface {
	Pay(ctx context.Context, customerID, orderID string, amount decimal.Decimal) error
}

// Service performs checkout assembly.
type Service struct {
	cart    *cart.Store
	orders  orderPlacer
	credits payer
	logg    *logger.Logger
}

// NewService wires the checkout dependencies.
func NewService(cartStore *cart.Store, orderClient orderPlacer, creditClient payer, logg *logger.Logger) (*Service, error) {
	if cartStore == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if orderClient == nil {
		return nil, fmt.Errorf("order client required")
	}
	if creditClient == nil {
		return nil, fmt.Errorf("credit client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{cart: cartStore, orders: orderClient, credits: creditClient, logg: logg}, nil
}

// Input carries the checkout form fields the cart does not know.
type Input struct {
	CustomerID      string
	DeliveryAddress string
	PayFromCredit   bool
}

// Result reports the created order.
type Result struct {
	OrderID string
	Total   decimal.Decimal
}

// Checkout builds the order payload from the current cart, submits it through
// the assignment service and, when requested, settles it from credit. The
// cart is cleared on success.
func (s *Service) Checkout(ctx context.Context, input Input) (*Result, error) {
	if input.CustomerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if input.DeliveryAddress == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}

	lines := s.cart.Lines()
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	items := make([]orders.Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, orders.Item{
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.UnitPrice,
		})
	}
	total := s.cart.Total()

	orderID, err := s.orders.Create(ctx, orders.CreateOrderInput{
		CustomerID: input.CustomerID,
		StallID:    s.cart.RestaurantID(),
		Status:     orders.StatusPending,
		Location:   input.DeliveryAddress,
		IsPaid:     input.PayFromCredit,
		Items:      items,
	})
	if err != nil {
		return nil, fmt.Errorf("placing order: %w", err)
	}

	logCtx := s.logg.WithOrderID(ctx, orderID)
	if input.PayFromCredit {
		if err := s.credits.Pay(ctx, input.CustomerID, orderID, total); err != nil {
			// The order exists but is unpaid; the order page offers payment
			// again. The cart is still cleared because the order was placed.
			s.logg.Error(logCtx, "credit payment failed after order creation", err)
		}
	}

	s.cart.Clear(ctx)
	s.logg.Info(logCtx, "checkout complete")

	return &Result{OrderID: orderID, Total: total}, nil
}
