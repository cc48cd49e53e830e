// Package chat holds the transcript of the chat room the user is looking at
// and sends messages to it.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/shopclient/internal/client/models"
	"github.com/dmitrijs2005/shopclient/internal/client/realtime"
	"github.com/dmitrijs2005/shopclient/internal/logging"
)

var (
	ErrEmptyMessage        = errors.New("message is empty")
	ErrNoActiveRoom        = errors.New("no active chat room")
	ErrHistoryUnavailable  = errors.New("chat history unavailable")
	ErrRoomInfoUnavailable = errors.New("chat room info unavailable")
)

// Realtime is what a room needs from the realtime connection.
type Realtime interface {
	Subscribe(topic string, h realtime.Handler) (realtime.Disposer, error)
	Publish(destination string, payload any) error
	IsReady() bool
}

// API fetches room data over HTTP.
type API interface {
	GetRoom(ctx context.Context, roomID models.ID) (*models.ChatRoomDetail, error)
	GetRoomMessages(ctx context.Context, roomID models.ID) ([]models.ChatMessage, error)
}

// Session is the active room of a chat view. At most one room subscription
// exists at a time.
type Session struct {
	rt  Realtime
	api API
	log logging.Logger

	mu         sync.Mutex
	roomID     models.ID
	room       *models.ChatRoomDetail
	transcript []models.ChatMessage
	dispose    realtime.Disposer
	generation uint64
	listeners  []func(models.ChatMessage)
}

func NewSession(rt Realtime, api API, log logging.Logger) *Session {
	return &Session{rt: rt, api: api, log: log}
}

// Enter leaves the current room and makes roomID active. The room topic is
// subscribed before history is fetched, and stays subscribed when a fetch
// fails; such failures are returned wrapped in ErrRoomInfoUnavailable or
// ErrHistoryUnavailable.
func (s *Session) Enter(ctx context.Context, roomID models.ID) error {
	if roomID == "" {
		return fmt.Errorf("%w: empty room id", ErrNoActiveRoom)
	}
	s.Leave()

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.roomID = roomID
	s.mu.Unlock()

	dispose, err := s.rt.Subscribe(realtime.ChatTopic(roomID), func(p realtime.Payload) {
		s.receive(gen, roomID, p)
	})
	if err != nil {
		s.mu.Lock()
		if s.generation == gen {
			s.roomID = ""
		}
		s.mu.Unlock()
		return fmt.Errorf("subscribe to room %s: %w", roomID, err)
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		dispose()
		return nil
	}
	s.dispose = dispose
	s.mu.Unlock()

	var errs []error

	room, err := s.api.GetRoom(ctx, roomID)
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrRoomInfoUnavailable, err))
	}

	history, histErr := s.api.GetRoomMessages(ctx, roomID)
	if histErr != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrHistoryUnavailable, histErr))
	}
	for i := range history {
		if history[i].RoomID == "" {
			history[i].RoomID = roomID
		}
	}

	s.mu.Lock()
	if s.generation == gen {
		if room != nil {
			s.room = room
		}
		if histErr == nil {
			s.transcript = append(history, s.transcript...)
		}
	}
	s.mu.Unlock()

	if len(errs) > 0 {
		s.log.Warn(ctx, "room entered with errors", "room", roomID, "error", errors.Join(errs...))
	}
	return errors.Join(errs...)
}

// Leave disposes the room subscription and discards the transcript.
func (s *Session) Leave() {
	s.mu.Lock()
	dispose := s.dispose
	s.dispose = nil
	s.generation++
	s.roomID = ""
	s.room = nil
	s.transcript = nil
	s.mu.Unlock()

	if dispose != nil {
		dispose()
	}
}

// Send publishes body to the active room. Nothing is published when the
// body is blank, no room is active or the connection is not ready.
func (s *Session) Send(body string) error {
	if strings.TrimSpace(body) == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	roomID := s.roomID
	s.mu.Unlock()
	if roomID == "" {
		return ErrNoActiveRoom
	}
	if !s.rt.IsReady() {
		return realtime.ErrNotConnected
	}

	return s.rt.Publish(realtime.ChatSendDestination, models.SendChatMessage{RoomID: roomID, Message: body})
}

func (s *Session) receive(gen uint64, roomID models.ID, p realtime.Payload) {
	ev, ok := p.(realtime.ChatEvent)
	if !ok {
		return
	}

	s.mu.Lock()
	if gen != s.generation || ev.Message.RoomID != roomID {
		s.mu.Unlock()
		s.log.Debug(context.Background(), "dropping chat message for another room",
			"room", roomID, "message_room", ev.Message.RoomID)
		return
	}
	s.transcript = append(s.transcript, ev.Message)
	listeners := append([]func(models.ChatMessage){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(ev.Message)
	}
}

// OnMessage registers fn for live messages of the active room.
func (s *Session) OnMessage(fn func(models.ChatMessage)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Session) RoomID() models.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomID
}

// Room returns the details of the active room, or nil when unknown.
func (s *Session) Room() *models.ChatRoomDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.room == nil {
		return nil
	}
	r := *s.room
	return &r
}

// Transcript returns a copy of the active room's messages, oldest first.
func (s *Session) Transcript() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChatMessage(nil), s.transcript...)
}
