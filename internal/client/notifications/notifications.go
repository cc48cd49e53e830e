// Package notifications accumulates the personal notifications pushed to the
// logged-in user, whether or not anything is displaying them.
package notifications

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/shopclient/internal/client/models"
	"github.com/dmitrijs2005/shopclient/internal/client/realtime"
	"github.com/dmitrijs2005/shopclient/internal/client/session"
	"github.com/dmitrijs2005/shopclient/internal/logging"
)

type Subscriber interface {
	Subscribe(topic string, h realtime.Handler) (realtime.Disposer, error)
}

type SessionSource interface {
	Current() *session.Credential
	Subscribe(fn session.Observer) (unsubscribe func())
}

// State is the newest-first list of received notifications.
type State struct {
	sub Subscriber
	log logging.Logger

	mu        sync.Mutex
	items     []models.Notification
	lastID    uint64
	username  string
	dispose   realtime.Disposer
	listeners []func(models.Notification)
}

func New(sub Subscriber, log logging.Logger) *State {
	return &State{sub: sub, log: log}
}

// Bind subscribes to the personal topic of every user that logs in on src
// and clears the list on logout.
func (s *State) Bind(src SessionSource) (unbind func()) {
	unbind = src.Subscribe(func(prev, next *session.Credential) {
		switch {
		case next == nil:
			s.stop()
		case prev == nil || prev.Username != next.Username:
			s.stop()
			s.start(next.Username)
		}
	})
	if c := src.Current(); c != nil {
		s.start(c.Username)
	}
	return unbind
}

func (s *State) start(username string) {
	s.mu.Lock()
	if s.username == username && s.dispose != nil {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	dispose, err := s.sub.Subscribe(realtime.NotificationTopic(username), s.receive)
	if err != nil {
		s.log.Error(context.Background(), "notification subscribe failed", "username", username, "error", err)
		return
	}

	s.mu.Lock()
	s.username = username
	s.dispose = dispose
	s.mu.Unlock()
}

// stop disposes the personal subscription and forgets every notification.
func (s *State) stop() {
	s.mu.Lock()
	dispose := s.dispose
	s.dispose = nil
	s.username = ""
	s.items = nil
	s.mu.Unlock()

	if dispose != nil {
		dispose()
	}
}

func (s *State) receive(p realtime.Payload) {
	if ev, ok := p.(realtime.NotificationEvent); ok {
		s.Add(ev.Notification)
	}
}

// Add prepends an unread notification with the next local id.
func (s *State) Add(p models.NotificationPayload) models.Notification {
	s.mu.Lock()
	s.lastID++
	n := models.Notification{NotificationPayload: p, ID: s.lastID}
	s.items = append([]models.Notification{n}, s.items...)
	listeners := append([]func(models.Notification){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(n)
	}
	return n
}

// MarkAllAsRead marks every current notification as read.
func (s *State) MarkAllAsRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		s.items[i].Read = true
	}
}

// Remove dismisses one notification locally.
func (s *State) Remove(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.items {
		if n.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// List returns a copy, newest first.
func (s *State) List() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification(nil), s.items...)
}

func (s *State) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		if !it.Read {
			n++
		}
	}
	return n
}

// OnNotification registers fn for every notification added.
func (s *State) OnNotification(fn func(models.Notification)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}
