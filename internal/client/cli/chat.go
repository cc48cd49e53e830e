package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/shopclient/internal/client/chat"
	"github.com/dmitrijs2005/shopclient/internal/client/models"
	"github.com/dmitrijs2005/shopclient/internal/client/realtime"
)

const timeLayout = "2006-01-02 15:04"

func formatMessage(m models.ChatMessage) string {
	ts := "--"
	if !m.CreatedAt.IsZero() {
		ts = m.CreatedAt.Local().Format(timeLayout)
	}
	return fmt.Sprintf("[%s] %s: %s", ts, m.Sender.Username, m.Message)
}

func (a *App) Rooms(ctx context.Context) error {
	rooms, err := a.api.MyRooms(ctx)
	if err != nil {
		return err
	}
	if len(rooms) == 0 {
		a.println("No chat rooms yet.")
		return nil
	}
	for _, r := range rooms {
		a.printf("%-8s %-20s %s\n", r.RoomID, r.PartnerName, r.ProductName)
	}
	return nil
}

// Open finds or creates the room for a product and enters it.
func (a *App) Open(ctx context.Context, productID string) error {
	roomID, err := a.api.OpenRoom(ctx, models.ID(productID))
	if err != nil {
		return err
	}
	return a.Enter(ctx, string(roomID))
}

// Enter switches to a room and prints its transcript. A room whose details
// or history could not be loaded is still entered.
func (a *App) Enter(ctx context.Context, roomID string) error {
	err := a.chat.Enter(ctx, models.ID(roomID))
	if err != nil && !errors.Is(err, chat.ErrHistoryUnavailable) && !errors.Is(err, chat.ErrRoomInfoUnavailable) {
		return err
	}

	if room := a.chat.Room(); room != nil {
		a.printf("Room %s: %s\n", room.RoomID, room.ProductName)
	} else {
		a.printf("Room %s\n", roomID)
	}
	if err != nil {
		a.println("Warning:", err)
	}

	return a.History(ctx)
}

func (a *App) Leave(ctx context.Context) error {
	if a.chat.RoomID() == "" {
		return chat.ErrNoActiveRoom
	}
	a.chat.Leave()
	return nil
}

func (a *App) Send(ctx context.Context, text string) error {
	err := a.chat.Send(text)
	if errors.Is(err, realtime.ErrNotConnected) {
		return fmt.Errorf("message was not sent: %w", err)
	}
	return err
}

func (a *App) History(ctx context.Context) error {
	if a.chat.RoomID() == "" {
		return chat.ErrNoActiveRoom
	}
	msgs := a.chat.Transcript()
	if len(msgs) == 0 {
		a.println("No messages yet.")
		return nil
	}
	for _, m := range msgs {
		a.println(formatMessage(m))
	}
	return nil
}
