// Package accounts holds the authenticated-user memory and the thin clients
// for the customer and picker account services. Authentication itself is
// backend business; this side only remembers who signed in.
package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/campusbites/campusbites-client/pkg/localstore"
	"github.com/campusbites/campusbites-client/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

// Role distinguishes the two sides of the client.
type Role string

const (
	RoleCustomer Role = "customer"
	RolePicker   Role = "picker"
)

// User is the signed-in identity as persisted in the user slot.
type User struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Email  string          `json:"email"`
	Role   Role            `json:"role"`
	Credit decimal.Decimal `json:"credit"`
	Token  string          `json:"token,omitempty"`
}

// Session is the durable authenticated-user store. Absent or corrupt state
// reads as signed out.
type Session struct {
	mu      sync.Mutex
	user    *User
	storage localstore.Store
	logg    *logger.Logger
}

// NewSession hydrates the session from the user slot.
func NewSession(ctx context.Context, storage localstore.Store, logg *logger.Logger) (*Session, error) {
	if storage == nil {
		return nil, fmt.Errorf("session storage required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	s := &Session{storage: storage, logg: logg}
	s.hydrate(ctx)
	return s, nil
}

func (s *Session) hydrate(ctx context.Context) {
	data, err := s.storage.Get(ctx, localstore.SlotUser)
	if errors.Is(err, localstore.ErrNotFound) {
		return
	}
	if err != nil {
		s.logg.Warn(ctx, "user hydrate failed, treating as signed out: "+err.Error())
		return
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil || user.ID == "" {
		s.logg.Warn(ctx, "user slot corrupt, treating as signed out")
		return
	}
	s.user = &user
}

// Current returns the signed-in user, or nil.
func (s *Session) Current() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

// SignIn remembers the user and persists it. Persistence failures are logged
// and swallowed; the in-memory session stays signed in.
func (s *Session) SignIn(ctx context.Context, user User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = &user
	data, err := json.Marshal(user)
	if err != nil {
		s.logg.Warn(ctx, "user serialize failed: "+err.Error())
		return
	}
	if err := s.storage.Set(ctx, localstore.SlotUser, data); err != nil {
		s.logg.Warn(ctx, "user persist failed: "+err.Error())
	}
}

// SignOut forgets the user and clears the slot.
func (s *Session) SignOut(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	if err := s.storage.Delete(ctx, localstore.SlotUser); err != nil {
		s.logg.Warn(ctx, "user slot delete failed: "+err.Error())
	}
}

// TokenExpired reports whether the remembered session token carries an expiry
// in the past. Tokens are opaque to the backend contract; if the token does
// not parse as a JWT, or carries no expiry, it is treated as still usable and
// the backend gets the final say.
func (s *Session) TokenExpired(now time.Time) bool {
	s.mu.Lock()
	user := s.user
	s.mu.Unlock()

	if user == nil || user.Token == "" {
		return false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(user.Token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}
