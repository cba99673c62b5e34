package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/phanxgames/evergreen"
)

const (
	// pongWait is how long to wait for a pong or frame before giving up.
	pongWait = 60 * time.Second
	// pingPeriod must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// writeWait bounds control frame writes.
	writeWait = 10 * time.Second
	// maxMessageSize bounds one frame; two hands of 21 points fit easily.
	maxMessageSize = 64 * 1024
	// bufferSize is the number of decoded results queued per source.
	bufferSize = 4
)

// Server is an http.Handler accepting detector connections. Every frame
// received on any connection is decoded and queued; Server is itself the
// LandmarkSource the scene's sampler reads.
type Server struct {
	*evergreen.ChannelSource

	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients int
}

// NewServer creates a server. A nil logger uses slog.Default().
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		ChannelSource: evergreen.NewChannelSource(bufferSize),
		logger:        logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 1024,
			// Detectors run from local pages and scripts.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Clients returns the number of connected detectors.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients
}

// ServeHTTP upgrades the request and reads frames until the peer goes away.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	s.mu.Lock()
	s.clients++
	s.mu.Unlock()
	s.logger.Info("detector connected", "remote", r.RemoteAddr)

	defer func() {
		s.mu.Lock()
		s.clients--
		s.mu.Unlock()
		conn.Close()
		s.logger.Info("detector disconnected", "remote", r.RemoteAddr)
	}()

	readFrames(conn, s.ChannelSource, s.logger)
}

// readFrames pumps decoded frames from conn into dst until a read fails.
func readFrames(conn *websocket.Conn, dst *evergreen.ChannelSource, logger *slog.Logger) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		typ, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read error", "err", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
		if typ != websocket.TextMessage {
			continue
		}
		res, err := Decode(data)
		if err != nil {
			logger.Warn("dropping frame", "err", err)
			continue
		}
		dst.Push(res)
	}
}

// Client is a LandmarkSource reading from a detector that serves frames.
type Client struct {
	*evergreen.ChannelSource

	conn   *websocket.Conn
	logger *slog.Logger
	done   chan struct{}
	once   sync.Once
}

// Dial connects to a detector stream at url (ws:// or wss://). The returned
// client reads in the background until Close or ctx is cancelled; after
// that Next reports the source as exhausted.
func Dial(ctx context.Context, url string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("source: failed to dial %s: %w", url, err)
	}
	c := &Client{
		ChannelSource: evergreen.NewChannelSource(bufferSize),
		conn:          conn,
		logger:        logger,
		done:          make(chan struct{}),
	}
	go c.readPump()
	go c.pingPump(ctx)
	return c, nil
}

func (c *Client) readPump() {
	defer c.Close()
	readFrames(c.conn, c.ChannelSource, c.logger)
}

// pingPump keeps the connection alive and closes it when ctx ends.
func (c *Client) pingPump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.Close()
			return
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.logger.Warn("websocket ping failed", "err", err)
				c.Close()
				return
			}
		}
	}
}

// Close shuts the connection and ends the stream.
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		c.ChannelSource.Close()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		err = c.conn.Close()
	})
	return err
}
