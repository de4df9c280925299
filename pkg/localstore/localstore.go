// Package localstore provides the durable key-value slots the client uses to
// survive restarts: one slot per logical store (cart, authenticated user).
package localstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a slot has never been written.
var ErrNotFound = errors.New("localstore: slot not found")

const (
	SlotCart = "cart"
	SlotUser = "user"
)

// Store persists opaque serialized state per named slot.
type Store interface {
	Get(ctx context.Context, slot string) ([]byte, error)
	Set(ctx context.Context, slot string, data []byte) error
	Delete(ctx context.Context, slot string) error
	Close() error
}
