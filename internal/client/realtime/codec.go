package realtime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/shopclient/internal/client/models"
)

// Well-known destinations.
const (
	TopicPrefix             = "/topic/"
	ChatTopicPrefix         = "/topic/chat/"
	NotificationTopicPrefix = "/topic/notifications/"
	ChatSendDestination     = "/app/chat/send"
)

func ChatTopic(roomID models.ID) string { return ChatTopicPrefix + roomID.String() }

func NotificationTopic(username string) string { return NotificationTopicPrefix + username }

// Payload is a decoded inbound message: ChatEvent or NotificationEvent.
type Payload interface {
	isPayload()
}

// ChatEvent is a message delivered on a chat room topic.
type ChatEvent struct {
	Message models.ChatMessage
}

// NotificationEvent is a message delivered on a personal notification topic.
type NotificationEvent struct {
	Recipient    string
	Notification models.NotificationPayload
}

func (ChatEvent) isPayload()         {}
func (NotificationEvent) isPayload() {}

// ValidateTopic accepts destinations under /topic/ made of non-empty segments
// without whitespace.
func ValidateTopic(topic string) error {
	rest, ok := strings.CutPrefix(topic, TopicPrefix)
	if !ok || rest == "" {
		return fmt.Errorf("%w: %q", ErrMalformedTopic, topic)
	}
	for _, seg := range strings.Split(rest, "/") {
		if seg == "" || strings.IndexFunc(seg, unicode.IsSpace) >= 0 {
			return fmt.Errorf("%w: %q", ErrMalformedTopic, topic)
		}
	}
	return nil
}

// Decode turns the body delivered on topic into its Payload variant. Chat
// messages without a room id get the one named by the topic.
func Decode(topic string, body []byte) (Payload, error) {
	switch {
	case strings.HasPrefix(topic, ChatTopicPrefix):
		var m models.ChatMessage
		if err := decodeObject(body, &m); err != nil {
			return nil, err
		}
		if m.RoomID == "" {
			m.RoomID = models.ID(strings.TrimPrefix(topic, ChatTopicPrefix))
		}
		return ChatEvent{Message: m}, nil

	case strings.HasPrefix(topic, NotificationTopicPrefix):
		var n models.NotificationPayload
		if err := decodeObject(body, &n); err != nil {
			return nil, err
		}
		return NotificationEvent{
			Recipient:    strings.TrimPrefix(topic, NotificationTopicPrefix),
			Notification: n,
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
}

func decodeObject(body []byte, v any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: body is not a JSON object", ErrMalformedPayload)
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}
