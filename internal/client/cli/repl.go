package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Rooms(ctx context.Context) error
	Open(ctx context.Context, productID string) error
	Enter(ctx context.Context, roomID string) error
	Leave(ctx context.Context) error
	Send(ctx context.Context, text string) error
	History(ctx context.Context) error
	Notifications(ctx context.Context) error
	Dismiss(ctx context.Context, id string) error
	Products(ctx context.Context, args string) error
	Product(ctx context.Context, id string) error
	Reviews(ctx context.Context, args string) error
	Cart(ctx context.Context, args string) error
	Order(ctx context.Context) error
	Buy(ctx context.Context, args string) error
	Orders(ctx context.Context, page string) error
	Review(ctx context.Context, args string) error
	MyReviews(ctx context.Context, page string) error
}

// runREPL starts a simple read–eval–print loop for the storefront client.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit".
//
//	Always:
//	  - help                 show available commands
//	  - status               show the signed-in user and connection state
//	  - products [page] [category=x] [min=n] [max=n]
//	                         list products, page is 1-based
//	  - product <id>         show one product
//	  - reviews <id> [page]  list the reviews of a product
//	  - exit | quit          leave the program
//
//	Not logged in:
//	  - register, login
//
//	Logged in:
//	  - rooms                list your chat rooms
//	  - open <productId>     open the chat room for a product
//	  - enter <roomId>       enter a chat room
//	  - leave                leave the current room
//	  - send <text>          send a message to the current room
//	  - history              print the current room's transcript
//	  - notifications        list notifications and mark them as read
//	  - dismiss <id>         remove a notification
//	  - cart [add|set|rm]    show or change the cart
//	  - order                order everything in the cart
//	  - buy <id> [qty]       order one product directly
//	  - orders [page]        list your orders
//	  - review <id> <rating> <text>
//	  - myreviews [page]     list your reviews
//	  - logout
//
// Errors returned by command handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("shop%s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		rest := strings.TrimSpace(strings.TrimPrefix(line, cmd))

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: rooms, open, enter, leave, send, history, notifications, dismiss, products, product, reviews, cart, order, buy, orders, review, myreviews, status, logout, exit")
			} else {
				printlnFn("Available commands: register, login, products, product, reviews, status, exit")
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "status":
			cmdErr = a.Status(ctx)

		case "products":
			cmdErr = a.Products(ctx, rest)

		case "product":
			if rest == "" {
				printlnFn("Usage: product <id>")
				continue
			}
			cmdErr = a.Product(ctx, rest)

		case "reviews":
			cmdErr = a.Reviews(ctx, rest)

		case "logout", "rooms", "open", "enter", "leave", "send", "history", "notifications", "dismiss",
			"cart", "order", "buy", "orders", "review", "myreviews":
			if !a.isLoggedIn() {
				printlnFn("Please log in first")
				continue
			}
			cmdErr = dispatchAuthed(ctx, a, cmd, rest)

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}

func dispatchAuthed(ctx context.Context, a execIface, cmd, arg string) error {
	usage := func(u string) error {
		printlnFn("Usage:", u)
		return nil
	}

	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "rooms":
		return a.Rooms(ctx)
	case "open":
		if arg == "" {
			return usage("open <productId>")
		}
		return a.Open(ctx, arg)
	case "enter":
		if arg == "" {
			return usage("enter <roomId>")
		}
		return a.Enter(ctx, arg)
	case "leave":
		return a.Leave(ctx)
	case "send":
		if arg == "" {
			return usage("send <text>")
		}
		return a.Send(ctx, arg)
	case "history":
		return a.History(ctx)
	case "notifications":
		return a.Notifications(ctx)
	case "dismiss":
		if arg == "" {
			return usage("dismiss <id>")
		}
		return a.Dismiss(ctx, arg)
	case "cart":
		return a.Cart(ctx, arg)
	case "order":
		return a.Order(ctx)
	case "buy":
		return a.Buy(ctx, arg)
	case "orders":
		return a.Orders(ctx, arg)
	case "review":
		return a.Review(ctx, arg)
	case "myreviews":
		return a.MyReviews(ctx, arg)
	}
	return nil
}
