package accounts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/campusbites/campusbites-client/pkg/localstore"
	"github.com/campusbites/campusbites-client/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	slots map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{slots: map[string][]byte{}}
}

func (m *memoryStore) Get(_ context.Context, slot string) ([]byte, error) {
	data, ok := m.slots[slot]
	if !ok {
		return nil, localstore.ErrNotFound
	}
	return data, nil
}

func (m *memoryStore) Set(_ context.Context, slot string, data []byte) error {
	m.slots[slot] = append([]byte(nil), data...)
	return nil
}

func (m *memoryStore) Delete(_ context.Context, slot string) error {
	delete(m.slots, slot)
	return nil
}

func (m *memoryStore) Close() error { return nil }

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "accounts-test", Output: &bytes.Buffer{}})
}

func newTestSession(t *testing.T, storage localstore.Store) *Session {
	t.Helper()
	s, err := NewSession(context.Background(), storage, testLogger())
	require.NoError(t, err)
	return s
}

// unsignedToken builds a JWT-shaped token with the given expiry; the session
// never verifies signatures so an empty one is enough.
func unsignedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, err := json.Marshal(map[string]any{"sub": "cust-1", "exp": exp.Unix()})
	require.NoError(t, err)
	return fmt.Sprintf("%s.%s.", header, base64.RawURLEncoding.EncodeToString(payload))
}

func TestSessionPersistsAcrossRestarts(t *testing.T) {
	t.Parallel()

	storage := newMemoryStore()
	s := newTestSession(t, storage)
	ctx := context.Background()

	s.SignIn(ctx, User{ID: "cust-1", Name: "Mei Lin", Role: RoleCustomer, Credit: decimal.RequireFromString("12.40")})

	reloaded := newTestSession(t, storage)
	user := reloaded.Current()
	require.NotNil(t, user)
	assert.Equal(t, "cust-1", user.ID)
	assert.Equal(t, RoleCustomer, user.Role)
	assert.True(t, user.Credit.Equal(decimal.RequireFromString("12.40")))
}

func TestSignOutClearsSlot(t *testing.T) {
	t.Parallel()

	storage := newMemoryStore()
	s := newTestSession(t, storage)
	ctx := context.Background()

	s.SignIn(ctx, User{ID: "p-1", Role: RolePicker})
	s.SignOut(ctx)

	assert.Nil(t, s.Current())
	assert.Nil(t, newTestSession(t, storage).Current())
}

func TestCorruptUserSlotReadsAsSignedOut(t *testing.T) {
	t.Parallel()

	storage := newMemoryStore()
	storage.slots[localstore.SlotUser] = []byte(`{"id":`)

	assert.Nil(t, newTestSession(t, storage).Current())
}

func TestTokenExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	storage := newMemoryStore()
	s := newTestSession(t, storage)
	ctx := context.Background()

	// No user, no token: never expired.
	assert.False(t, s.TokenExpired(now))

	s.SignIn(ctx, User{ID: "c1", Token: unsignedToken(t, now.Add(time.Hour))})
	assert.False(t, s.TokenExpired(now))

	s.SignIn(ctx, User{ID: "c1", Token: unsignedToken(t, now.Add(-time.Hour))})
	assert.True(t, s.TokenExpired(now))

	// Opaque non-JWT tokens are left for the backend to judge.
	s.SignIn(ctx, User{ID: "c1", Token: "opaque-session-token"})
	assert.False(t, s.TokenExpired(now))
}

func TestCurrentReturnsCopy(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, newMemoryStore())
	s.SignIn(context.Background(), User{ID: "c1", Name: "Mei Lin"})

	user := s.Current()
	user.Name = "changed"

	assert.Equal(t, "Mei Lin", s.Current().Name)
}
