package models

import "github.com/dmitrijs2005/shopclient/internal/timex"

// NotificationPayload is the body broadcast on /topic/notifications/{username}.
type NotificationPayload struct {
	Message     string          `json:"message"`
	Content     string          `json:"content"`
	ProductID   ID              `json:"productId"`
	ProductName string          `json:"productName"`
	CreatedAt   timex.Timestamp `json:"createdAt"`
}

// Notification is a received payload with a local id and read flag.
// ID is assigned on receipt and strictly increases.
type Notification struct {
	NotificationPayload
	ID   uint64
	Read bool
}
