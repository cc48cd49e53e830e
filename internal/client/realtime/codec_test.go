package realtime

import (
	"testing"

	"github.com/dmitrijs2005/shopclient/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_ChatFillsRoomFromTopic(t *testing.T) {
	p, err := Decode(ChatTopic("5"), []byte(`{"id":10,"message":"hi","sender":{"id":3,"username":"bob"},"createdAt":"2024-03-01T12:00:00"}`))
	require.NoError(t, err)

	ev, ok := p.(ChatEvent)
	require.True(t, ok)
	assert.Equal(t, models.ID("5"), ev.Message.RoomID)
	assert.Equal(t, models.ID("10"), ev.Message.ID)
	assert.Equal(t, "bob", ev.Message.Sender.Username)
	assert.Equal(t, "hi", ev.Message.Message)
}

func TestDecode_ChatKeepsExplicitRoom(t *testing.T) {
	p, err := Decode(ChatTopic("5"), []byte(`{"id":1,"roomId":6,"message":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, models.ID("6"), p.(ChatEvent).Message.RoomID)
}

func TestDecode_Notification(t *testing.T) {
	p, err := Decode(NotificationTopic("alice"), []byte(`{"message":"New chat","content":"hello","productId":4,"productName":"Lamp"}`))
	require.NoError(t, err)

	ev, ok := p.(NotificationEvent)
	require.True(t, ok)
	assert.Equal(t, "alice", ev.Recipient)
	assert.Equal(t, "New chat", ev.Notification.Message)
	assert.Equal(t, "hello", ev.Notification.Content)
	assert.Equal(t, models.ID("4"), ev.Notification.ProductID)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		topic string
		body  string
		want  error
	}{
		{"not json", ChatTopic("1"), `hello`, ErrMalformedPayload},
		{"json array", ChatTopic("1"), `[1,2]`, ErrMalformedPayload},
		{"json null", NotificationTopic("a"), `null`, ErrMalformedPayload},
		{"empty", NotificationTopic("a"), ``, ErrMalformedPayload},
		{"wrong field type", ChatTopic("1"), `{"message":5}`, ErrMalformedPayload},
		{"unknown family", "/topic/orders/1", `{}`, ErrUnknownTopic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode(tt.topic, []byte(tt.body))
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, p)
		})
	}
}

func TestValidateTopic(t *testing.T) {
	assert.NoError(t, ValidateTopic("/topic/chat/42"))
	assert.NoError(t, ValidateTopic("/topic/notifications/alice"))
	assert.ErrorIs(t, ValidateTopic("/app/chat/send"), ErrMalformedTopic)
	assert.ErrorIs(t, ValidateTopic("/topic/chat/\t"), ErrMalformedTopic)
}
