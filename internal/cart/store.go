// Package cart holds the shopper's pending selection: the single source of
// truth for "what is about to be bought", bound to one restaurant at a time
// and persisted across restarts.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/campusbites/campusbites-client/pkg/localstore"
	"github.com/campusbites/campusbites-client/pkg/logger"
	"github.com/campusbites/campusbites-client/pkg/metrics"
	"github.com/shopspring/decimal"
)

// MenuItem is the menu descriptor a line is created from. Prices are captured
// at add-time and never re-fetched.
type MenuItem struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// Line is one item-and-quantity entry. Quantity is always positive; a line
// that would drop to zero is removed instead.
type Line struct {
	ItemID       string          `json:"item_id"`
	RestaurantID string          `json:"restaurant_id"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
}

// Total returns unit price times quantity.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// AddStatus is the outcome of an AddItem call.
type AddStatus string

const (
	// StatusAdded means the line list was updated and persisted.
	StatusAdded AddStatus = "added"
	// StatusConflict means the item belongs to a different restaurant than
	// the cart is bound to. Nothing changed; the caller must complete the
	// operation with ResolveConflict.
	StatusConflict AddStatus = "conflict"
)

// AddResult reports what AddItem did. On conflict it names the restaurant the
// cart is currently bound to so the UI can phrase the decision.
type AddResult struct {
	Status              AddStatus
	CurrentRestaurantID string
}

type pendingAdd struct {
	item         MenuItem
	restaurantID string
}

// PendingConflict describes an add held back by the single-restaurant rule,
// awaiting a ResolveConflict call.
type PendingConflict struct {
	ItemName            string
	NewRestaurantID     string
	CurrentRestaurantID string
}

// Store is the cart store. One instance per running client; construction is
// explicit so tests can substitute storage and metrics.
type Store struct {
	mu      sync.Mutex
	lines   []Line
	pending *pendingAdd

	storage localstore.Store
	logg    *logger.Logger
	metrics *metrics.ClientMetrics
}

// NewStore hydrates the cart from durable storage. Absent or corrupt state
// falls open to an empty cart; it is never an error to the caller.
func NewStore(ctx context.Context, storage localstore.Store, logg *logger.Logger, m *metrics.ClientMetrics) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	s := &Store{
		storage: storage,
		logg:    logg,
		metrics: m,
	}
	s.hydrate(ctx)
	return s, nil
}

func (s *Store) hydrate(ctx context.Context) {
	data, err := s.storage.Get(ctx, localstore.SlotCart)
	if errors.Is(err, localstore.ErrNotFound) {
		return
	}
	if err != nil {
		s.logg.Warn(ctx, "cart hydrate failed, starting empty: "+err.Error())
		return
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		s.logg.Warn(ctx, "cart slot corrupt, starting empty: "+err.Error())
		return
	}
	if !linesValid(lines) {
		s.logg.Warn(ctx, "cart slot violates invariants, starting empty")
		return
	}
	s.lines = lines
}

// linesValid checks the persisted snapshot: positive quantities and a single
// restaurant binding across every line.
func linesValid(lines []Line) bool {
	for _, line := range lines {
		if line.ItemID == "" || line.Quantity <= 0 {
			return false
		}
		if line.RestaurantID != lines[0].RestaurantID {
			return false
		}
	}
	return true
}

// AddItem adds one unit of the item. If the cart is bound to a different
// restaurant it returns StatusConflict and retains the add as pending until
// ResolveConflict decides; the cart itself is untouched.
func (s *Store) AddItem(ctx context.Context, item MenuItem, restaurantID string) AddResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lines) > 0 && s.lines[0].RestaurantID != restaurantID {
		s.pending = &pendingAdd{item: item, restaurantID: restaurantID}
		return AddResult{
			Status:              StatusConflict,
			CurrentRestaurantID: s.lines[0].RestaurantID,
		}
	}

	s.upsertLocked(item, restaurantID)
	s.persistLocked(ctx)
	s.metrics.IncCartMutation("add_item")
	return AddResult{Status: StatusAdded}
}

// ResolveConflict completes a conflicted AddItem. Discarding replaces the
// cart with a single line for the pending item's restaurant; declining keeps
// the cart exactly as it was. Without a pending conflict it is a logged no-op.
func (s *Store) ResolveConflict(ctx context.Context, discard bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		s.logg.Warn(ctx, "resolve conflict called with no pending add")
		return
	}
	pending := *s.pending
	s.pending = nil

	if !discard {
		return
	}

	s.lines = nil
	s.upsertLocked(pending.item, pending.restaurantID)
	s.persistLocked(ctx)
	s.metrics.IncCartMutation("resolve_conflict")
}

func (s *Store) upsertLocked(item MenuItem, restaurantID string) {
	for i := range s.lines {
		if s.lines[i].ItemID == item.ID {
			s.lines[i].Quantity++
			return
		}
	}
	s.lines = append(s.lines, Line{
		ItemID:       item.ID,
		RestaurantID: restaurantID,
		Name:         item.Name,
		UnitPrice:    item.Price,
		Quantity:     1,
	})
}

// RemoveItem deletes the matching line. Idempotent.
func (s *Store) RemoveItem(ctx context.Context, itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ItemID == itemID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.persistLocked(ctx)
			s.metrics.IncCartMutation("remove_item")
			return
		}
	}
}

// UpdateQuantity replaces the line's quantity. Zero or negative removes the
// line, same as RemoveItem.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(ctx, itemID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ItemID == itemID {
			s.lines[i].Quantity = quantity
			s.persistLocked(ctx)
			s.metrics.IncCartMutation("update_quantity")
			return
		}
	}
}

// Clear empties every line and releases the restaurant binding.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.persistLocked(ctx)
	s.metrics.IncCartMutation("clear")
}

// ItemCount is the sum of quantities across all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// Total is the exact sum of line totals. Decimal arithmetic keeps repeated
// additions free of binary-fraction drift.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.Total())
	}
	return total
}

// Lines returns a copy of the current line list.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// RestaurantID returns the restaurant the cart is bound to, or empty when the
// cart has no lines.
func (s *Store) RestaurantID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lines) == 0 {
		return ""
	}
	return s.lines[0].RestaurantID
}

// PendingConflict reports the held-back add awaiting resolution, or nil when
// there is none.
func (s *Store) PendingConflict() *PendingConflict {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return nil
	}
	current := ""
	if len(s.lines) > 0 {
		current = s.lines[0].RestaurantID
	}
	return &PendingConflict{
		ItemName:            s.pending.item.Name,
		NewRestaurantID:     s.pending.restaurantID,
		CurrentRestaurantID: current,
	}
}

// persistLocked writes the full line list to the cart slot. Storage failures
// are logged and swallowed; the in-memory state stays authoritative for the
// session.
func (s *Store) persistLocked(ctx context.Context) {
	data, err := json.Marshal(s.lines)
	if err != nil {
		s.logg.Warn(ctx, "cart serialize failed: "+err.Error())
		return
	}
	if err := s.storage.Set(ctx, localstore.SlotCart, data); err != nil {
		s.logg.Warn(ctx, "cart persist failed: "+err.Error())
	}
}
