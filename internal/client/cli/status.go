package cli

import (
	"context"
	"fmt"
	"strings"
)

// getStatus renders the prompt suffix, e.g. " (alice connected 2* #7)".
func (a *App) getStatus() string {
	var parts []string
	if c := a.session.Current(); c != nil {
		parts = append(parts, c.Username)
	}
	parts = append(parts, a.conn.State().String())
	if n := a.inbox.UnreadCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d*", n))
	}
	if id := a.chat.RoomID(); id != "" {
		parts = append(parts, "#"+string(id))
	}
	return " (" + strings.Join(parts, " ") + ")"
}

func (a *App) Status(ctx context.Context) error {
	if c := a.session.Current(); c != nil {
		a.printf("User:          %s (%s)\n", c.Username, c.Email)
	} else {
		a.println("User:          not signed in")
	}
	a.printf("Connection:    %s\n", a.conn.State())

	active, pending := a.conn.Topics()
	a.printf("Subscriptions: %d active, %d pending\n", len(active), len(pending))
	a.printf("Unread:        %d\n", a.inbox.UnreadCount())

	if id := a.chat.RoomID(); id != "" {
		a.printf("Room:          %s\n", id)
	}
	return nil
}
