package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusbites/campusbites-client/internal/accounts"
	pkgerrors "github.com/campusbites/campusbites-client/pkg/errors"
)

type stubCredits struct {
	balance    decimal.Decimal
	balanceErr error
	added      []decimal.Decimal
	refunds    []string
}

func (s *stubCredits) AddCredits(ctx context.Context, customerID string, amount decimal.Decimal) (decimal.Decimal, error) {
	s.added = append(s.added, amount)
	s.balance = s.balance.Add(amount)
	return s.balance, nil
}

func (s *stubCredits) Balance(ctx context.Context, customerID string) (decimal.Decimal, error) {
	if s.balanceErr != nil {
		return decimal.Zero, s.balanceErr
	}
	return s.balance, nil
}

func (s *stubCredits) RequestRefund(ctx context.Context, customerID, orderID, reason string) error {
	s.refunds = append(s.refunds, orderID)
	return nil
}

func TestCreditsAddParsesAmount(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, accounts.User{ID: "cust-1", Role: accounts.RoleCustomer})
	svc := &stubCredits{}

	w := postForm(t, CreditsAdd(svc, env.renderer, env.cart, env.sessions, env.logg), "/credits/add", url.Values{
		"amount": {"25.00"},
	})

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Len(t, svc.added, 1)
	assert.Equal(t, "25", svc.added[0].String())
}

func TestCreditsAddInvalidAmountReRendersForm(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, accounts.User{ID: "cust-1", Role: accounts.RoleCustomer})
	svc := &stubCredits{balance: decimal.RequireFromString("3.50")}

	w := postForm(t, CreditsAdd(svc, env.renderer, env.cart, env.sessions, env.logg), "/credits/add", url.Values{
		"amount": {"-5"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "greater than zero")
	assert.Empty(t, svc.added)
}

func TestProfileFallsBackToStoredCredit(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, accounts.User{
		ID:     "cust-1",
		Name:   "Ana",
		Role:   accounts.RoleCustomer,
		Credit: decimal.RequireFromString("9.75"),
	})
	svc := &stubCredits{balanceErr: pkgerrors.New(pkgerrors.CodeUnavailable, "credit service down")}

	r := httptest.NewRequest(http.MethodGet, "/profile", nil)
	w := httptest.NewRecorder()
	Profile(svc, env.renderer, env.cart, env.sessions, env.logg)(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "9.75")
}
