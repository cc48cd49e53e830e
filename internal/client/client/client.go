package client

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/shopclient/internal/client/models"
)

type Client interface {
	Request(ctx context.Context, method, path string, params url.Values, body, out any) error
	Login(ctx context.Context, username, password string) (*models.LoginResult, error)
	Register(ctx context.Context, username, email, password string) (*models.SignupResult, error)
	MyRooms(ctx context.Context) ([]models.ChatRoomInfo, error)
	OpenRoom(ctx context.Context, productID models.ID) (models.ID, error)
	GetRoom(ctx context.Context, roomID models.ID) (*models.ChatRoomDetail, error)
	GetRoomMessages(ctx context.Context, roomID models.ID) ([]models.ChatMessage, error)
	ListProducts(ctx context.Context, page, size int, filter models.ProductFilter) (*models.ProductPage, error)
	GetProduct(ctx context.Context, id models.ID) (*models.Product, error)

	Cart(ctx context.Context) ([]models.CartItem, error)
	AddToCart(ctx context.Context, productID models.ID, quantity int) error
	UpdateCartItem(ctx context.Context, cartItemID models.ID, quantity int) error
	RemoveCartItem(ctx context.Context, cartItemID models.ID) error

	PlaceOrder(ctx context.Context, items []models.OrderItemRequest) (*models.Order, error)
	HasPurchased(ctx context.Context, productID models.ID) (bool, error)
	MyOrders(ctx context.Context, page, size int) (*models.Page[models.Order], error)

	ProductReviews(ctx context.Context, productID models.ID, page, size int) (*models.Page[models.Review], error)
	WriteReview(ctx context.Context, productID models.ID, r models.ReviewRequest) (*models.Review, error)
	UpdateReview(ctx context.Context, productID, reviewID models.ID, r models.ReviewRequest) (*models.Review, error)
	DeleteReview(ctx context.Context, productID, reviewID models.ID) error
	MyReviews(ctx context.Context, page, size int) (*models.Page[models.Review], error)
}

// TokenSource yields the bearer token to attach, or "" when logged out.
type TokenSource interface {
	Token() string
}
