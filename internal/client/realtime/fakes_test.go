package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/shopclient/internal/client/session"
	"github.com/stretchr/testify/require"
)

type subCall struct{ id, destination string }

type sentFrame struct {
	destination string
	body        string
}

type fakeConn struct {
	dialer *fakeDialer
	token  string

	frames chan *Frame
	lost   chan struct{}
	done   chan struct{}

	mu        sync.Mutex
	subs      []subCall
	unsubs    []string
	sent      []sentFrame
	closed    bool
	failSubs  int
	lostOnce  sync.Once
	closeOnce sync.Once
}

func (c *fakeConn) Subscribe(id, destination string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSubs > 0 {
		c.failSubs--
		return errors.New("write: broken pipe")
	}
	c.subs = append(c.subs, subCall{id, destination})
	return nil
}

func (c *fakeConn) Unsubscribe(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unsubs = append(c.unsubs, id)
	return nil
}

func (c *fakeConn) Send(destination string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}
	c.sent = append(c.sent, sentFrame{destination, string(body)})
	return nil
}

func (c *fakeConn) Receive() (*Frame, error) {
	select {
	case f := <-c.frames:
		return f, nil
	case <-c.lost:
		return nil, errors.New("connection reset by peer")
	case <-c.done:
		return nil, ErrConnectionClosed
	}
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.done)
		c.dialer.release()
	})
	return nil
}

// drop simulates the server going away.
func (c *fakeConn) drop() {
	c.lostOnce.Do(func() { close(c.lost) })
}

func (c *fakeConn) deliver(destination, body string) {
	c.frames <- &Frame{Kind: KindMessage, Destination: destination, Body: []byte(body)}
}

func (c *fakeConn) subscriptions() []subCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]subCall(nil), c.subs...)
}

func (c *fakeConn) subscribedTopics() []string {
	var out []string
	for _, s := range c.subscriptions() {
		out = append(out, s.destination)
	}
	return out
}

func (c *fakeConn) unsubscribed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.unsubs...)
}

func (c *fakeConn) sends() []sentFrame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sentFrame(nil), c.sent...)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type fakeDialer struct {
	mu      sync.Mutex
	tokens  []string
	conns   []*fakeConn
	live    int
	maxLive int
	fail    error
	gate    chan struct{}
}

func (d *fakeDialer) Dial(ctx context.Context, token string) (Conn, error) {
	d.mu.Lock()
	d.tokens = append(d.tokens, token)
	fail, gate := d.fail, d.gate
	d.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if fail != nil {
		return nil, fail
	}

	c := &fakeConn{
		dialer: d,
		token:  token,
		frames: make(chan *Frame, 16),
		lost:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.conns = append(d.conns, c)
	d.live++
	if d.live > d.maxLive {
		d.maxLive = d.live
	}
	return c, nil
}

func (d *fakeDialer) release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.live--
}

func (d *fakeDialer) setFail(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fail = err
}

func (d *fakeDialer) calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.tokens...)
}

func (d *fakeDialer) last() *fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.conns) == 0 {
		return nil
	}
	return d.conns[len(d.conns)-1]
}

func (d *fakeDialer) stats() (live, maxLive int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live, d.maxLive
}

type fakeTimer struct {
	clock   *fakeClock
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

// fire runs the callback even when stopped, as a timer that had already
// fired before Stop would.
func (t *fakeTimer) fire() { t.fn() }

func (t *fakeTimer) isStopped() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	return t.stopped
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, delay: d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) last() *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.timers) == 0 {
		return nil
	}
	return c.timers[len(c.timers)-1]
}

func (c *fakeClock) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

type fakeSession struct {
	mu        sync.Mutex
	current   *session.Credential
	observers []session.Observer
}

func (s *fakeSession) Current() *session.Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *fakeSession) Subscribe(fn session.Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
	return func() {}
}

func (s *fakeSession) set(c *session.Credential) {
	s.mu.Lock()
	prev := s.current
	s.current = c
	obs := append([]session.Observer(nil), s.observers...)
	s.mu.Unlock()
	for _, fn := range obs {
		fn(prev, c)
	}
}

func (s *fakeSession) login(user, token string) {
	s.set(&session.Credential{Token: token, Username: user})
}

func (s *fakeSession) logout() { s.set(nil) }

func newTestManager(t *testing.T) (*Manager, *fakeDialer, *fakeClock, *fakeSession) {
	t.Helper()
	d := &fakeDialer{}
	clock := &fakeClock{}
	src := &fakeSession{}
	m := NewManager(d, WithAfterFunc(clock.AfterFunc), WithReconnectDelay(5*time.Second))
	m.Bind(src)
	t.Cleanup(m.Disconnect)
	return m, d, clock, src
}

func waitState(t *testing.T, m *Manager, want State) {
	t.Helper()
	require.Eventually(t, func() bool { return m.State() == want }, 2*time.Second, 5*time.Millisecond,
		"state is %s, want %s", m.State(), want)
}
