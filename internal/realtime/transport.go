package realtime

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
)

// WebsocketDialer is the production Dialer, speaking JSON frames over a
// websocket to the assignment service.
type WebsocketDialer struct {
	writeTimeout time.Duration
}

// NewWebsocketDialer builds the dialer. A zero write timeout disables write
// deadlines.
func NewWebsocketDialer(writeTimeout time.Duration) *WebsocketDialer {
	return &WebsocketDialer{writeTimeout: writeTimeout}
}

func (d *WebsocketDialer) Dial(ctx context.Context, endpoint string) (Conn, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return &websocketConn{conn: conn, writeTimeout: d.writeTimeout}, nil
}

type websocketConn struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
}

func (w *websocketConn) ReadFrame() (Frame, error) {
	var frame Frame
	if err := w.conn.ReadJSON(&frame); err != nil {
		return Frame{}, err
	}
	return frame, nil
}

func (w *websocketConn) WriteFrame(frame Frame) error {
	if w.writeTimeout > 0 {
		if err := w.conn.SetWriteDeadline(time.Now().Add(w.writeTimeout)); err != nil {
			return err
		}
	}
	return w.conn.WriteJSON(frame)
}

func (w *websocketConn) Close() error {
	return w.conn.Close()
}
