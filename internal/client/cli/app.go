package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/shopclient/internal/client/models"
	"github.com/dmitrijs2005/shopclient/internal/client/realtime"
	"github.com/dmitrijs2005/shopclient/internal/client/services"
	"github.com/dmitrijs2005/shopclient/internal/client/session"
	"github.com/dmitrijs2005/shopclient/internal/logging"
)

const defaultPageSize = 10

// Storefront is the part of the HTTP API used directly by the CLI.
type Storefront interface {
	MyRooms(ctx context.Context) ([]models.ChatRoomInfo, error)
	OpenRoom(ctx context.Context, productID models.ID) (models.ID, error)
	ListProducts(ctx context.Context, page, size int, filter models.ProductFilter) (*models.ProductPage, error)
	GetProduct(ctx context.Context, id models.ID) (*models.Product, error)
	ProductReviews(ctx context.Context, productID models.ID, page, size int) (*models.Page[models.Review], error)
	MyOrders(ctx context.Context, page, size int) (*models.Page[models.Order], error)
	MyReviews(ctx context.Context, page, size int) (*models.Page[models.Review], error)
}

// ChatRoom is the active chat room.
type ChatRoom interface {
	Enter(ctx context.Context, roomID models.ID) error
	Leave()
	Send(body string) error
	OnMessage(fn func(models.ChatMessage))
	RoomID() models.ID
	Room() *models.ChatRoomDetail
	Transcript() []models.ChatMessage
}

// Inbox is the notification list of the signed-in user.
type Inbox interface {
	List() []models.Notification
	MarkAllAsRead()
	Remove(id uint64) bool
	UnreadCount() int
	OnNotification(fn func(models.Notification))
}

// Connection reports the realtime connection state.
type Connection interface {
	State() realtime.State
	OnStateChange(fn func(realtime.State))
	Topics() (active, pending []string)
}

// CredentialSource returns the signed-in user, or nil.
type CredentialSource interface {
	Current() *session.Credential
}

// Deps are the services an App drives.
type Deps struct {
	Auth          services.AuthService
	API           Storefront
	Shop          services.ShopService
	Chat          ChatRoom
	Notifications Inbox
	Realtime      Connection
	Session       CredentialSource
	Log           logging.Logger
	PageSize      int
}

type App struct {
	auth     services.AuthService
	api      Storefront
	shop     services.ShopService
	chat     ChatRoom
	inbox    Inbox
	conn     Connection
	session  CredentialSource
	log      logging.Logger
	pageSize int

	reader *bufio.Reader

	outMu sync.Mutex
	out   io.Writer
}

// NewApp builds an App reading commands from in and printing to out.
func NewApp(d Deps, in io.Reader, out io.Writer) *App {
	if d.Log == nil {
		d.Log = logging.Nop()
	}
	if d.PageSize <= 0 {
		d.PageSize = defaultPageSize
	}
	return &App{
		auth:     d.Auth,
		api:      d.API,
		shop:     d.Shop,
		chat:     d.Chat,
		inbox:    d.Notifications,
		conn:     d.Realtime,
		session:  d.Session,
		log:      d.Log,
		pageSize: d.PageSize,
		reader:   bufio.NewReader(in),
		out:      out,
	}
}

// printf writes to the output; live events arrive on other goroutines.
func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.out, args...)
}

// Run restores the previous session, starts printing live events and runs
// the REPL until the user exits or in is exhausted.
func (a *App) Run(ctx context.Context) {
	a.println("Welcome to the storefront client (type 'help' for commands)")

	cred, err := a.auth.Restore(ctx)
	if err != nil {
		a.log.Warn(ctx, "restore session", "error", err)
	}
	if cred != nil {
		a.printf("Signed in as %s\n", cred.Username)
	}

	a.watch()
	defer a.chat.Leave()

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) watch() {
	a.chat.OnMessage(func(m models.ChatMessage) {
		a.printf("%s\n", formatMessage(m))
	})
	a.inbox.OnNotification(func(n models.Notification) {
		a.printf("* %s\n", formatNotification(n))
	})
	a.conn.OnStateChange(func(s realtime.State) {
		a.log.Debug(context.Background(), "realtime state", "state", s.String())
	})
}

// SessionExpired tells the user that the server rejected their token.
// The credential itself is cleared by the caller.
func (a *App) SessionExpired() {
	a.chat.Leave()
	a.println("Your session has expired, please log in again.")
}

func (a *App) isLoggedIn() bool {
	return a.session.Current() != nil
}
