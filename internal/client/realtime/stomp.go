package realtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-stomp/stomp/v3/frame"
	"github.com/gorilla/websocket"
)

const (
	headerAuthorization = "Authorization"
	acceptVersions      = "1.2,1.1"

	defaultHandshakeTimeout = 10 * time.Second
	defaultHeartBeat        = 10 * time.Second
)

// WebSocketDialer speaks STOMP over a plain WebSocket, one STOMP frame per
// text message, as Spring's /ws/websocket endpoint expects.
type WebSocketDialer struct {
	url              string
	host             string
	writeTimeout     time.Duration
	handshakeTimeout time.Duration
	heartBeat        time.Duration
	ws               *websocket.Dialer
}

type DialerOption func(*WebSocketDialer)

// WithHandshakeTimeout bounds the WebSocket upgrade and the wait for the
// CONNECTED frame.
func WithHandshakeTimeout(d time.Duration) DialerOption {
	return func(w *WebSocketDialer) {
		if d > 0 {
			w.handshakeTimeout = d
		}
	}
}

// WithHeartBeat sets the heart-beat interval offered in CONNECT. Zero
// disables heart-beating in both directions.
func WithHeartBeat(d time.Duration) DialerOption {
	return func(w *WebSocketDialer) {
		if d >= 0 {
			w.heartBeat = d
		}
	}
}

func NewWebSocketDialer(endpoint string, writeTimeout time.Duration, opts ...DialerOption) (*WebSocketDialer, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse realtime url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("unsupported realtime url scheme %q", u.Scheme)
	}

	d := &WebSocketDialer{
		url:              u.String(),
		host:             u.Hostname(),
		writeTimeout:     writeTimeout,
		handshakeTimeout: defaultHandshakeTimeout,
		heartBeat:        defaultHeartBeat,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.ws = &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: d.handshakeTimeout,
	}
	return d, nil
}

func (d *WebSocketDialer) Dial(ctx context.Context, token string) (Conn, error) {
	header := http.Header{}
	header.Set(headerAuthorization, "Bearer "+token)

	ws, resp, err := d.ws.DialContext(ctx, d.url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket upgrade %s: %s: %w", d.url, resp.Status, err)
		}
		return nil, fmt.Errorf("websocket dial %s: %w", d.url, err)
	}

	c := &stompConn{ws: ws, writeTimeout: d.writeTimeout, closed: make(chan struct{})}

	// Closing the socket is the only way to interrupt a blocked read.
	stop := context.AfterFunc(ctx, func() { _ = ws.Close() })
	defer stop()

	if err := c.handshake(d.host, token, d.handshakeTimeout, d.heartBeat); err != nil {
		_ = ws.Close()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	if !stop() {
		_ = c.Close()
		return nil, ctx.Err()
	}
	c.startHeartBeats()
	return c, nil
}

type stompConn struct {
	ws           *websocket.Conn
	writeTimeout time.Duration

	// Negotiated heart-beat intervals. readTimeout is zero when the broker
	// does not heart-beat; otherwise every frame must arrive within it.
	sendEvery   time.Duration
	readTimeout time.Duration

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    chan struct{}
}

func (c *stompConn) handshake(host, token string, timeout, heartBeat time.Duration) error {
	connect := frame.New(frame.CONNECT,
		frame.AcceptVersion, acceptVersions,
		frame.Host, host,
		frame.HeartBeat, formatHeartBeat(heartBeat),
		headerAuthorization, "Bearer "+token,
	)
	if err := c.write(connect); err != nil {
		return fmt.Errorf("send CONNECT: %w", err)
	}

	if timeout > 0 {
		_ = c.ws.SetReadDeadline(time.Now().Add(timeout))
	}
	f, err := c.read()
	if err != nil {
		return fmt.Errorf("read CONNECTED: %w", err)
	}
	switch f.Command {
	case frame.CONNECTED:
		var receiveEvery time.Duration
		c.sendEvery, receiveEvery = negotiateHeartBeat(heartBeat, f.Header.Get(frame.HeartBeat))
		if receiveEvery > 0 {
			c.readTimeout = 2 * receiveEvery
			_ = c.ws.SetReadDeadline(time.Now().Add(c.readTimeout))
		} else {
			_ = c.ws.SetReadDeadline(time.Time{})
		}
		return nil
	case frame.ERROR:
		return fmt.Errorf("%w: %s", ErrHandshakeRejected, errorText(f))
	default:
		return fmt.Errorf("%w: unexpected %s frame", ErrHandshakeRejected, f.Command)
	}
}

func (c *stompConn) Subscribe(id, destination string) error {
	return c.write(frame.New(frame.SUBSCRIBE,
		frame.Id, id,
		frame.Destination, destination,
		frame.Ack, "auto",
	))
}

func (c *stompConn) Unsubscribe(id string) error {
	return c.write(frame.New(frame.UNSUBSCRIBE, frame.Id, id))
}

func (c *stompConn) Send(destination string, body []byte) error {
	f := frame.New(frame.SEND,
		frame.Destination, destination,
		frame.ContentType, "application/json",
	)
	f.Body = body
	return c.write(f)
}

func (c *stompConn) Receive() (*Frame, error) {
	for {
		f, err := c.read()
		if err != nil {
			select {
			case <-c.closed:
				return nil, ErrConnectionClosed
			default:
			}
			return nil, fmt.Errorf("%w: %v", ErrConnectionClosed, err)
		}

		switch f.Command {
		case frame.MESSAGE:
			return &Frame{
				Kind:         KindMessage,
				Destination:  f.Header.Get(frame.Destination),
				Subscription: f.Header.Get(frame.Subscription),
				Body:         f.Body,
			}, nil
		case frame.ERROR:
			return &Frame{Kind: KindError, Message: errorText(f), Body: f.Body}, nil
		}
	}
}

// Close sends DISCONNECT best-effort and closes the socket. Only the first
// call has an effect.
func (c *stompConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		_ = c.write(frame.New(frame.DISCONNECT))
		close(c.closed)
		err = c.ws.Close()
	})
	return err
}

// read returns the next non-heartbeat frame. Any message, heart-beats
// included, extends the read deadline.
func (c *stompConn) read() (*frame.Frame, error) {
	for {
		_, r, err := c.ws.NextReader()
		if err != nil {
			return nil, err
		}
		if c.readTimeout > 0 {
			_ = c.ws.SetReadDeadline(time.Now().Add(c.readTimeout))
		}

		f, err := frame.NewReader(r).Read()
		if errors.Is(err, io.EOF) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if f == nil {
			continue
		}
		return f, nil
	}
}

// startHeartBeats sends an EOL every sendEvery until the connection closes.
// A failed write closes the socket so that Receive reports the loss.
func (c *stompConn) startHeartBeats() {
	if c.sendEvery <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(c.sendEvery)
		defer ticker.Stop()
		for {
			select {
			case <-c.closed:
				return
			case <-ticker.C:
				if err := c.writeHeartBeat(); err != nil {
					_ = c.ws.Close()
					return
				}
			}
		}
	}()
}

func (c *stompConn) writeHeartBeat() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.writeTimeout > 0 {
		_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	return c.ws.WriteMessage(websocket.TextMessage, []byte{'\n'})
}

func (c *stompConn) write(f *frame.Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.writeTimeout > 0 {
		_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	w, err := c.ws.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	if err := frame.NewWriter(w).Write(f); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func errorText(f *frame.Frame) string {
	if msg := f.Header.Get(frame.Message); msg != "" {
		return msg
	}
	if len(f.Body) > 0 {
		return string(f.Body)
	}
	return "no details"
}

func formatHeartBeat(d time.Duration) string {
	ms := strconv.FormatInt(d.Milliseconds(), 10)
	return ms + "," + ms
}

// negotiateHeartBeat applies the STOMP 1.2 rules to our offered interval and
// the broker's "sx,sy" heart-beat header. It returns how often we must send
// and how often the broker will send; zero means none. A missing or
// malformed header disables heart-beating.
func negotiateHeartBeat(ours time.Duration, header string) (send, receive time.Duration) {
	sx, sy, ok := strings.Cut(header, ",")
	if !ok || ours <= 0 {
		return 0, 0
	}
	canSend, err1 := strconv.ParseInt(strings.TrimSpace(sx), 10, 64)
	wants, err2 := strconv.ParseInt(strings.TrimSpace(sy), 10, 64)
	if err1 != nil || err2 != nil || canSend < 0 || wants < 0 {
		return 0, 0
	}

	if wants > 0 {
		send = max(ours, time.Duration(wants)*time.Millisecond)
	}
	if canSend > 0 {
		receive = max(ours, time.Duration(canSend)*time.Millisecond)
	}
	return send, receive
}
