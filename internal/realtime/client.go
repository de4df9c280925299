// Package realtime maintains the single long-lived connection to the
// order-assignment service and fans incoming events out to local handlers.
// It is a pure dispatch layer: payloads are forwarded verbatim, nothing is
// retried, and reconnect policy belongs to the caller.
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/campusbites/campusbites-client/pkg/logger"
	"github.com/campusbites/campusbites-client/pkg/metrics"
)

// Event names on the assignment channel. Inbound pushes and outbound
// registrations share one namespace.
const (
	EventOrderWaiting     = "order_waiting"
	EventOrderTaken       = "order_taken"
	EventPickerUpdate     = "picker_update"
	EventRegisterPicker   = "register_picker"
	EventRegisterCustomer = "register_customer"
	EventTest             = "test_event"
	EventTestResponse     = "test_response"
)

// Frame is one message on the wire in either direction.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Conn is a single established transport connection.
type Conn interface {
	ReadFrame() (Frame, error)
	WriteFrame(Frame) error
	Close() error
}

// Dialer establishes transport connections.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Conn, error)
}

// State is the connection lifecycle position.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Handler receives the raw payload of one inbound event.
type Handler func(data json.RawMessage)

// Subscription identifies one registered handler. Handlers are functions and
// functions are not comparable in Go, so removal goes through the handle.
type Subscription struct {
	event   string
	handler Handler
}

// Client is the event subscription client. One instance per running client
// process; construct it explicitly and share it.
type Client struct {
	mu       sync.Mutex
	state    State
	conn     Conn
	gen      uint64
	pickerID string
	subs     map[string][]*Subscription

	endpoint string
	dialer   Dialer
	logg     *logger.Logger
	metrics  *metrics.ClientMetrics
}

// NewClient builds a disconnected client. Nothing is dialed until Connect.
func NewClient(endpoint string, dialer Dialer, logg *logger.Logger, m *metrics.ClientMetrics) *Client {
	return &Client{
		endpoint: endpoint,
		dialer:   dialer,
		logg:     logg,
		metrics:  m,
		subs:     map[string][]*Subscription{},
	}
}

// Connect starts a connection attempt and returns immediately. Calling it
// while already connecting or connected is a logged no-op. On reaching
// Connected a remembered picker identity is re-registered before any frames
// are read.
func (c *Client) Connect(ctx context.Context) {
	c.mu.Lock()
	if c.state != Disconnected {
		state := c.state
		c.mu.Unlock()
		c.logg.Info(ctx, "realtime connect ignored, already "+state.String())
		return
	}
	c.state = Connecting
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	go c.run(ctx, gen)
}

func (c *Client) run(ctx context.Context, gen uint64) {
	conn, err := c.dialer.Dial(ctx, c.endpoint)

	c.mu.Lock()
	if c.gen != gen || c.state != Connecting {
		// Disconnect raced the dial; whatever we got is stale.
		c.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		c.state = Disconnected
		c.mu.Unlock()
		c.logg.Warn(ctx, "realtime connect failed: "+err.Error())
		return
	}

	c.conn = conn
	c.state = Connected
	c.metrics.SetRealtimeConnected(true)
	if c.pickerID != "" {
		c.emitLocked(ctx, Frame{
			Event: EventRegisterPicker,
			Data:  mustMarshal(map[string]string{"picker_id": c.pickerID}),
		})
	}
	c.mu.Unlock()
	c.logg.Info(ctx, "realtime connected")

	c.readLoop(ctx, conn, gen)
}

func (c *Client) readLoop(ctx context.Context, conn Conn, gen uint64) {
	for {
		frame, err := conn.ReadFrame()
		if err != nil {
			c.mu.Lock()
			if c.gen == gen {
				// Transport drop, not an explicit Disconnect: the picker
				// identity survives so a later connect can replay it.
				c.state = Disconnected
				c.conn = nil
				c.metrics.SetRealtimeConnected(false)
			}
			c.mu.Unlock()
			c.logg.Warn(ctx, "realtime connection closed: "+err.Error())
			return
		}
		c.dispatch(ctx, frame)
	}
}

func (c *Client) dispatch(ctx context.Context, frame Frame) {
	c.mu.Lock()
	handlers := make([]*Subscription, len(c.subs[frame.Event]))
	copy(handlers, c.subs[frame.Event])
	c.mu.Unlock()

	c.metrics.IncRealtimeEvent(frame.Event)
	c.logg.Debug(c.logg.WithField(ctx, "event", frame.Event), "realtime event received")

	for _, sub := range handlers {
		sub.handler(frame.Data)
	}
}

// Disconnect closes the connection and forgets the picker identity. Safe to
// call in any state; the client can be reconnected later.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.gen++
	c.pickerID = ""
	conn := c.conn
	c.conn = nil
	c.state = Disconnected
	c.metrics.SetRealtimeConnected(false)
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

// RegisterAsPicker remembers the picker identity for replay on every future
// connect and, when currently connected, registers it immediately.
func (c *Client) RegisterAsPicker(ctx context.Context, pickerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pickerID = pickerID
	if c.state != Connected {
		c.logg.Info(ctx, "realtime not connected, picker registration deferred")
		return
	}
	c.emitLocked(ctx, Frame{
		Event: EventRegisterPicker,
		Data:  mustMarshal(map[string]string{"picker_id": pickerID}),
	})
}

// RegisterForOrderUpdates registers interest in one order's events. Unlike
// the picker identity this is not replayed on reconnect; the page owning the
// order re-issues it. Disconnected calls are dropped with a log line.
func (c *Client) RegisterForOrderUpdates(ctx context.Context, customerID, orderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Connected {
		c.logg.Info(ctx, "realtime not connected, order registration dropped")
		return
	}
	c.emitLocked(ctx, Frame{
		Event: EventRegisterCustomer,
		Data: mustMarshal(map[string]string{
			"customer_id": customerID,
			"order_id":    orderID,
		}),
	})
}

// RegisterForAllCustomerOrders registers one order at a time, matching the
// assignment service's per-order registration contract.
func (c *Client) RegisterForAllCustomerOrders(ctx context.Context, customerID string, orderIDs []string) {
	for _, orderID := range orderIDs {
		c.RegisterForOrderUpdates(ctx, customerID, orderID)
	}
}

// TestConnection sends the diagnostic round-trip event. The reply arrives as
// a normal EventTestResponse dispatch.
func (c *Client) TestConnection(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Connected {
		c.logg.Info(ctx, "realtime not connected, test event dropped")
		return
	}
	c.emitLocked(ctx, Frame{
		Event: EventTest,
		Data:  mustMarshal(map[string]string{"message": "ping from client"}),
	})
}

// On registers a handler for a named event. Handlers fire in registration
// order; the same function may be registered more than once.
func (c *Client) On(event string, handler Handler) *Subscription {
	sub := &Subscription{event: event, handler: handler}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs[event] = append(c.subs[event], sub)
	return sub
}

// Off removes a previously registered subscription. Unknown or already
// removed subscriptions are a no-op.
func (c *Client) Off(sub *Subscription) {
	if sub == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	handlers := c.subs[sub.event]
	for i, candidate := range handlers {
		if candidate == sub {
			c.subs[sub.event] = append(handlers[:i], handlers[i+1:]...)
			return
		}
	}
}

// IsConnected reports the current connection status for UI indicators.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == Connected
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// emitLocked writes a frame on the current connection. Failures are logged,
// never returned: emitting on a dead channel is an expected condition.
func (c *Client) emitLocked(ctx context.Context, frame Frame) {
	if c.conn == nil {
		c.logg.Warn(ctx, "realtime emit skipped, no connection")
		return
	}
	if err := c.conn.WriteFrame(frame); err != nil {
		c.logg.Warn(ctx, "realtime emit failed: "+err.Error())
	}
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
