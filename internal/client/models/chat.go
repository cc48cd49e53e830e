package models

import "github.com/dmitrijs2005/shopclient/internal/timex"

// Sender identifies the author of a chat message.
type Sender struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
}

// ChatMessage is one message of a room, as returned by the history endpoint
// and broadcast on /topic/chat/{roomId}. The backend does not always include
// RoomID; the realtime codec fills it from the topic.
type ChatMessage struct {
	ID        ID              `json:"id"`
	RoomID    ID              `json:"roomId,omitempty"`
	Sender    Sender          `json:"sender"`
	Message   string          `json:"message"`
	CreatedAt timex.Timestamp `json:"createdAt"`
}

// ChatRoomDetail describes the product a room is about.
type ChatRoomDetail struct {
	RoomID           ID     `json:"roomId"`
	ProductName      string `json:"productName"`
	ProductThumbnail string `json:"productThumbnail"`
}

// ChatRoomInfo is an entry of the caller's room list.
type ChatRoomInfo struct {
	RoomID      ID     `json:"roomId"`
	PartnerName string `json:"partnerName"`
	ProductName string `json:"productName"`
}

// ChatRoomRef is returned when a room is opened for a product.
type ChatRoomRef struct {
	RoomID ID `json:"roomId"`
}

// SendChatMessage is the body published to /app/chat/send.
type SendChatMessage struct {
	RoomID  ID     `json:"roomId"`
	Message string `json:"message"`
}
