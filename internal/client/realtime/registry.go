package realtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/shopclient/internal/logging"
	"github.com/google/uuid"
)

// Handler receives the decoded payloads of one topic.
type Handler func(Payload)

// Disposer cancels a subscription. Calling it more than once, or after the
// connection is gone, does nothing.
type Disposer func()

type entry struct {
	topic   string
	handler Handler
	serial  uint64
	subID   string
	active  bool
}

// Registry is the set of topic subscriptions of a session, at most one
// handler per topic.
type Registry struct {
	log   logging.Logger
	newID func() string

	mu      sync.Mutex
	link    Conn
	entries map[string]*entry
	order   []*entry
	serial  uint64
}

func NewRegistry(log logging.Logger) *Registry {
	return &Registry{
		log:     log,
		newID:   func() string { return "sub-" + uuid.NewString() },
		entries: make(map[string]*entry),
	}
}

// Subscribe registers handler for topic. While no connection is attached the
// topic stays pending. Subscribing again to a registered topic swaps the
// handler, invalidates the earlier disposer and retries the transport
// subscription if an earlier attempt failed.
func (r *Registry) Subscribe(topic string, handler Handler) (Disposer, error) {
	if err := ValidateTopic(topic); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, fmt.Errorf("subscribe %s: nil handler", topic)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.serial++
	serial := r.serial

	if e, ok := r.entries[topic]; ok {
		e.handler = handler
		e.serial = serial
		if r.link != nil && !e.active {
			r.activate(e)
		}
		return r.disposer(topic, serial), nil
	}

	e := &entry{topic: topic, handler: handler, serial: serial}
	r.entries[topic] = e
	r.order = append(r.order, e)
	if r.link != nil {
		r.activate(e)
	}

	return r.disposer(topic, serial), nil
}

func (r *Registry) disposer(topic string, serial uint64) Disposer {
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		e, ok := r.entries[topic]
		if !ok || e.serial != serial {
			return
		}
		delete(r.entries, topic)
		for i, o := range r.order {
			if o == e {
				r.order = append(r.order[:i:i], r.order[i+1:]...)
				break
			}
		}
		if e.active && r.link != nil {
			if err := r.link.Unsubscribe(e.subID); err != nil {
				r.log.Warn(context.Background(), "unsubscribe failed", "topic", topic, "error", err)
			}
		}
	}
}

// Topics lists active and pending topics in registration order.
func (r *Registry) Topics() (active, pending []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.order {
		if e.active {
			active = append(active, e.topic)
		} else {
			pending = append(pending, e.topic)
		}
	}
	return active, pending
}

// attach makes c the live connection and subscribes every registered topic.
func (r *Registry) attach(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.link = c
	for _, e := range r.order {
		r.activate(e)
	}
}

// detach forgets the connection; registrations stay and become pending.
func (r *Registry) detach() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.link = nil
	for _, e := range r.order {
		e.active = false
		e.subID = ""
	}
}

// reset unsubscribes and drops every registration.
func (r *Registry) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.link != nil {
		for _, e := range r.order {
			if e.active {
				_ = r.link.Unsubscribe(e.subID)
			}
		}
	}
	r.link = nil
	r.entries = make(map[string]*entry)
	r.order = nil
}

// activate must be called with r.mu held and r.link set.
func (r *Registry) activate(e *entry) {
	id := r.newID()
	if err := r.link.Subscribe(id, e.topic); err != nil {
		r.log.Warn(context.Background(), "subscribe failed", "topic", e.topic, "error", err)
		return
	}
	e.subID = id
	e.active = true
	r.log.Debug(context.Background(), "subscribed", "topic", e.topic, "id", id)
}

// dispatch routes f to the handler of its destination. Frames from a
// connection other than the attached one are ignored.
func (r *Registry) dispatch(c Conn, f *Frame) {
	r.mu.Lock()
	if r.link != c {
		r.mu.Unlock()
		return
	}
	e, ok := r.entries[f.Destination]
	if !ok || !e.active {
		r.mu.Unlock()
		r.log.Debug(context.Background(), "no handler for frame", "destination", f.Destination)
		return
	}
	handler := e.handler
	r.mu.Unlock()

	p, err := Decode(f.Destination, f.Body)
	if err != nil {
		r.log.Warn(context.Background(), "dropping frame", "destination", f.Destination, "error", err)
		return
	}
	handler(p)
}
