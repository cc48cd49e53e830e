package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/shopclient/internal/client/models"
)

func formatNotification(n models.Notification) string {
	s := n.Message
	if n.Content != "" {
		s += ": " + n.Content
	}
	if n.ProductName != "" {
		s += fmt.Sprintf(" [%s]", n.ProductName)
	}
	return s
}

// Notifications prints the list, newest first, then marks everything read.
func (a *App) Notifications(ctx context.Context) error {
	items := a.inbox.List()
	if len(items) == 0 {
		a.println("No notifications.")
		return nil
	}
	for _, n := range items {
		mark := " "
		if !n.Read {
			mark = "*"
		}
		a.printf("%s %4d  %s\n", mark, n.ID, formatNotification(n))
	}
	a.inbox.MarkAllAsRead()
	return nil
}

func (a *App) Dismiss(ctx context.Context, id string) error {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return fmt.Errorf("bad notification id %q", id)
	}
	if !a.inbox.Remove(n) {
		return fmt.Errorf("notification %d not found", n)
	}
	return nil
}
