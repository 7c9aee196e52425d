package websocket

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	ErrClientClosed   = errors.New("client closed")
	ErrSendBufferFull = errors.New("client send buffer full")
)

// Conn is the part of *websocket.Conn a Client needs.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	RemoteAddr() net.Addr
	Close() error
}

// Client は1本のWebSocket接続。送信はキュー経由で、書き込みはwritePumpだけが行う
type Client struct {
	ID   string
	conn Conn
	send chan frame
	done chan struct{}

	mu        sync.Mutex
	closed    bool
	sessionID string
}

func newClient(conn Conn, sendBuffer int) *Client {
	return &Client{
		ID:   uuid.New().String(),
		conn: conn,
		send: make(chan frame, sendBuffer),
		done: make(chan struct{}),
	}
}

// frame はキューに積まれる1通。kindはwebsocket.TextMessageかBinaryMessage
type frame struct {
	kind int
	data []byte
}

// Send queues a text frame without blocking. It fails if the client is
// closed or its queue is full.
func (c *Client) Send(msg []byte) error {
	return c.sendFrame(websocket.TextMessage, msg)
}

func (c *Client) sendFrame(kind int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.send <- frame{kind: kind, data: data}:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close stops the pumps and closes the underlying connection. Safe to call
// more than once.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.done)
	c.mu.Unlock()

	_ = c.conn.Close()
}

// Done is closed once the client has been closed.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

func (c *Client) setSessionID(id string) {
	c.mu.Lock()
	c.sessionID = id
	c.mu.Unlock()
}

func (c *Client) remoteAddr() string {
	if addr := c.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}

// writePump はキューに積まれた順に書き込みます。書き込みエラーで接続を閉じる
func (c *Client) writePump(writeWait time.Duration) {
	for {
		select {
		case f := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(f.kind, f.data); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// keepalive はPingを一定間隔で送ります。WriteControlは他の書き込みと並行して呼べるので
// ブロードキャストの書き込みとは独立して動く
func (c *Client) keepalive(interval, writeWait time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}
