package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/shopclient/internal/client/session"
	"github.com/dmitrijs2005/shopclient/internal/logging"
)

const DefaultReconnectDelay = 5 * time.Second

// Timer is a scheduled retry.
type Timer interface {
	Stop() bool
}

// SessionSource is the part of the session store the manager observes.
type SessionSource interface {
	Current() *session.Credential
	Subscribe(fn session.Observer) (unsubscribe func())
}

type Option func(*Manager)

func WithReconnectDelay(d time.Duration) Option {
	return func(m *Manager) { m.delay = d }
}

// WithAfterFunc replaces time.AfterFunc for scheduling retries.
func WithAfterFunc(fn func(d time.Duration, f func()) Timer) Option {
	return func(m *Manager) { m.afterFunc = fn }
}

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithRegistry makes the manager drive r instead of a registry of its own.
func WithRegistry(r *Registry) Option {
	return func(m *Manager) { m.registry = r }
}

// Manager owns the single realtime connection of the session.
type Manager struct {
	dialer    Dialer
	registry  *Registry
	log       logging.Logger
	delay     time.Duration
	afterFunc func(d time.Duration, f func()) Timer

	mu         sync.Mutex
	state      State
	token      string
	epoch      uint64
	conn       Conn
	cancelDial context.CancelFunc
	retry      Timer
	listeners  []func(State)
	events     []State
	flushing   bool
}

func NewManager(dialer Dialer, opts ...Option) *Manager {
	m := &Manager{
		dialer: dialer,
		log:    logging.Nop(),
		delay:  DefaultReconnectDelay,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = NewRegistry(m.log)
	}
	return m
}

// Bind follows src: a credential connects, its removal disconnects. A
// credential already present connects immediately.
func (m *Manager) Bind(src SessionSource) (unbind func()) {
	unbind = src.Subscribe(func(_, next *session.Credential) {
		if next == nil {
			m.Disconnect()
			return
		}
		m.Connect(next.Token)
	})
	if c := src.Current(); c != nil {
		m.Connect(c.Token)
	}
	return unbind
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsReady reports whether Publish may succeed now.
func (m *Manager) IsReady() bool {
	return m.State() == Connected
}

// OnStateChange registers fn to be called after every transition, in order
// and outside the manager lock.
func (m *Manager) OnStateChange(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) Subscribe(topic string, h Handler) (Disposer, error) {
	return m.registry.Subscribe(topic, h)
}

func (m *Manager) Topics() (active, pending []string) {
	return m.registry.Topics()
}

// Publish sends payload, JSON-encoded, to destination.
func (m *Manager) Publish(destination string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	m.mu.Lock()
	conn := m.conn
	ready := m.state == Connected
	m.mu.Unlock()
	if !ready || conn == nil {
		return ErrNotConnected
	}

	if err := conn.Send(destination, body); err != nil {
		return fmt.Errorf("%w: %v", ErrNotConnected, err)
	}
	return nil
}

// Connect starts a connection authenticated with token. It does nothing while
// a connection for the same token is live or being established; a different
// token replaces the current connection.
func (m *Manager) Connect(token string) {
	if token == "" {
		return
	}

	m.mu.Lock()
	if m.state != Disconnected && m.token == token {
		m.mu.Unlock()
		return
	}

	var stale Conn
	if m.state != Disconnected {
		m.log.Info(context.Background(), "credential changed, reconnecting")
		stale = m.abandon()
		m.registry.detach()
	}
	m.token = token
	m.startAttempt()
	m.mu.Unlock()

	closeConn(stale)
	m.flush()
}

// Disconnect tears the connection down and drops every subscription before
// returning. A pending retry is cancelled.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	if m.state == Disconnected {
		m.mu.Unlock()
		return
	}

	conn := m.abandon()
	m.registry.reset()
	m.token = ""
	m.setState(Disconnected)
	m.mu.Unlock()

	closeConn(conn)
	m.log.Info(context.Background(), "realtime disconnected")
	m.flush()
}

// abandon invalidates the current attempt and returns its connection, if any.
// Must be called with m.mu held.
func (m *Manager) abandon() Conn {
	m.epoch++
	if m.cancelDial != nil {
		m.cancelDial()
		m.cancelDial = nil
	}
	if m.retry != nil {
		m.retry.Stop()
		m.retry = nil
	}
	conn := m.conn
	m.conn = nil
	return conn
}

// startAttempt enters Connecting and dials in the background. Must be called
// with m.mu held.
func (m *Manager) startAttempt() {
	m.epoch++
	epoch, token := m.epoch, m.token

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelDial = cancel
	m.setState(Connecting)

	go func() {
		conn, err := m.dialer.Dial(ctx, token)
		m.onDialed(epoch, conn, err)
	}()
}

func (m *Manager) onDialed(epoch uint64, conn Conn, err error) {
	m.mu.Lock()
	if epoch != m.epoch || m.state != Connecting {
		m.mu.Unlock()
		closeConn(conn)
		return
	}
	m.cancelDial = nil

	if err != nil {
		m.log.Warn(context.Background(), "realtime handshake failed", "error", err, "retry_in", m.delay)
		m.scheduleRetry()
		m.mu.Unlock()
		m.flush()
		return
	}

	m.conn = conn
	m.setState(Connected)
	m.registry.attach(conn)
	m.mu.Unlock()

	m.log.Info(context.Background(), "realtime connected")
	go m.readLoop(epoch, conn)
	m.flush()
}

func (m *Manager) readLoop(epoch uint64, conn Conn) {
	for {
		f, err := conn.Receive()
		if err != nil {
			m.onLost(epoch, err)
			return
		}
		if f.Kind == KindError {
			m.onLost(epoch, fmt.Errorf("error frame: %s", f.Message))
			return
		}
		m.registry.dispatch(conn, f)
	}
}

// onLost handles an unexpected close or error frame of the attempt epoch.
func (m *Manager) onLost(epoch uint64, cause error) {
	m.mu.Lock()
	if epoch != m.epoch || m.state != Connected {
		m.mu.Unlock()
		return
	}
	conn := m.conn
	m.conn = nil
	m.registry.detach()
	m.scheduleRetry()
	m.mu.Unlock()

	closeConn(conn)
	m.log.Warn(context.Background(), "realtime connection lost", "error", cause, "retry_in", m.delay)
	m.flush()
}

// scheduleRetry enters Reconnecting. Must be called with m.mu held.
func (m *Manager) scheduleRetry() {
	m.epoch++
	epoch := m.epoch
	m.setState(Reconnecting)
	m.retry = m.afterFunc(m.delay, func() { m.onRetry(epoch) })
}

func (m *Manager) onRetry(epoch uint64) {
	m.mu.Lock()
	if epoch != m.epoch || m.state != Reconnecting {
		m.mu.Unlock()
		return
	}
	m.retry = nil
	m.startAttempt()
	m.mu.Unlock()

	m.flush()
}

// setState records a transition for flush. Must be called with m.mu held.
func (m *Manager) setState(s State) {
	m.state = s
	m.events = append(m.events, s)
}

// flush delivers recorded transitions to listeners in the order they
// happened. Whoever finds the queue idle drains it, so a listener may call
// back into the manager.
func (m *Manager) flush() {
	m.mu.Lock()
	if m.flushing {
		m.mu.Unlock()
		return
	}
	m.flushing = true
	for len(m.events) > 0 {
		s := m.events[0]
		m.events = m.events[1:]
		listeners := append([]func(State){}, m.listeners...)
		m.mu.Unlock()

		for _, fn := range listeners {
			fn(s)
		}

		m.mu.Lock()
	}
	m.flushing = false
	m.mu.Unlock()
}

func closeConn(c Conn) {
	if c != nil {
		_ = c.Close()
	}
}
