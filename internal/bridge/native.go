package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// TokenHeader carries the optional bridge token on the upgrade request.
const TokenHeader = "X-Bridge-Token"

// NativeClient talks to the host bridge over a single WebSocket connection.
// Concurrent calls are multiplexed by request ID. The connection is dialed on
// first use and redialed on the next call after it breaks.
type NativeClient struct {
	url    string
	header http.Header
	dialer *websocket.Dialer
	log    *slog.Logger

	mu         sync.Mutex
	sess       *session
	closed     bool
	dialing    chan struct{}
	cancelDial context.CancelFunc
}

type NativeOption func(*NativeClient)

func WithToken(token string) NativeOption {
	return func(c *NativeClient) {
		if token != "" {
			c.header.Set(TokenHeader, token)
		}
	}
}

func WithDialTimeout(d time.Duration) NativeOption {
	return func(c *NativeClient) {
		if d > 0 {
			c.dialer.HandshakeTimeout = d
		}
	}
}

func WithLogger(l *slog.Logger) NativeOption {
	return func(c *NativeClient) {
		if l != nil {
			c.log = l
		}
	}
}

func NewNativeClient(url string, opts ...NativeOption) *NativeClient {
	c := &NativeClient{
		url:    url,
		header: http.Header{},
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 3 * time.Second,
		},
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *NativeClient) Invoke(ctx context.Context, name string, args Args) (json.RawMessage, error) {
	sess, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	req := Request{ID: uuid.NewString(), Command: name, Args: args}
	ch, err := sess.register(req.ID)
	if err != nil {
		return nil, err
	}
	defer sess.forget(req.ID)

	if err := sess.write(ctx, req); err != nil {
		c.drop(sess, err)
		return nil, fmt.Errorf("%w: send %s: %v", ErrUnavailable, name, err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case resp, ok := <-ch:
		if !ok {
			return nil, fmt.Errorf("%w: connection closed during %s", ErrUnavailable, name)
		}
		return resp.result(name)
	}
}

func (c *NativeClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.cancelDial != nil {
		c.cancelDial()
	}
	if c.sess == nil {
		return nil
	}
	sess := c.sess
	c.sess = nil
	sess.fail()
	return sess.conn.Close()
}

// connect returns the live session, dialing one if needed. The dial runs
// outside c.mu; concurrent callers wait for it instead of dialing again.
func (c *NativeClient) connect(ctx context.Context) (*session, error) {
	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return nil, fmt.Errorf("%w: client closed", ErrUnavailable)
		}
		if c.url == "" {
			c.mu.Unlock()
			return nil, fmt.Errorf("%w: no endpoint configured", ErrUnavailable)
		}
		if c.sess != nil && !c.sess.isDone() {
			sess := c.sess
			c.mu.Unlock()
			return sess, nil
		}
		if wait := c.dialing; wait != nil {
			c.mu.Unlock()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-wait:
			}
			continue
		}
		done := make(chan struct{})
		dialCtx, cancel := context.WithCancel(ctx)
		c.dialing, c.cancelDial = done, cancel
		c.mu.Unlock()

		sess, err := c.dial(dialCtx)
		cancel()

		c.mu.Lock()
		c.dialing, c.cancelDial = nil, nil
		close(done)
		if err == nil && c.closed {
			sess.fail()
			_ = sess.conn.Close()
			err = fmt.Errorf("%w: client closed", ErrUnavailable)
		}
		if err != nil {
			c.mu.Unlock()
			return nil, err
		}
		c.sess = sess
		c.mu.Unlock()
		go c.readLoop(sess)
		return sess, nil
	}
}

func (c *NativeClient) dial(ctx context.Context) (*session, error) {
	conn, resp, err := c.dialer.DialContext(ctx, c.url, c.header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("%w: dial %s: %v (status %d)", ErrUnavailable, c.url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: dial %s: %v", ErrUnavailable, c.url, err)
	}
	c.log.Debug("bridge connected", "url", c.url)
	return &session{conn: conn, pending: map[string]chan Response{}}, nil
}

func (c *NativeClient) readLoop(sess *session) {
	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			c.drop(sess, err)
			return
		}
		resp, err := decodeResponse(data)
		if resp.ID == "" {
			c.log.Warn("bridge frame dropped", "error", err, "bytes", len(data))
			continue
		}
		if resp.malformed {
			c.log.Warn("bridge frame malformed", "id", resp.ID, "error", err)
		}
		if !sess.deliver(resp) {
			c.log.Debug("bridge response without caller", "id", resp.ID)
		}
	}
}

func (c *NativeClient) drop(sess *session, cause error) {
	c.mu.Lock()
	if c.sess == sess {
		c.sess = nil
	}
	c.mu.Unlock()
	if sess.fail() {
		c.log.Warn("bridge connection lost", "url", c.url, "error", cause)
		_ = sess.conn.Close()
	}
}

// session is one live connection and the calls waiting on it.
type session struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan Response
	done    bool
}

func (s *session) register(id string) (chan Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil, fmt.Errorf("%w: connection closed", ErrUnavailable)
	}
	ch := make(chan Response, 1)
	s.pending[id] = ch
	return ch, nil
}

func (s *session) forget(id string) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

func (s *session) deliver(resp Response) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.pending[resp.ID]
	if !ok {
		return false
	}
	delete(s.pending, resp.ID)
	ch <- resp
	return true
}

// fail closes every waiting call. It reports false if the session had already failed.
func (s *session) fail() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return false
	}
	s.done = true
	for id, ch := range s.pending {
		close(ch)
		delete(s.pending, id)
	}
	return true
}

func (s *session) isDone() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *session) write(ctx context.Context, req Request) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if deadline, ok := ctx.Deadline(); ok {
		_ = s.conn.SetWriteDeadline(deadline)
	} else {
		_ = s.conn.SetWriteDeadline(time.Time{})
	}
	return s.conn.WriteJSON(req)
}
