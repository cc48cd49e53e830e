package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/shopclient/internal/client/models"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidReview   = errors.New("invalid review")
	ErrNotPurchased    = errors.New("only buyers of the product can review it")
)

// ShopService covers the cart, ordering and reviews.
type ShopService interface {
	Cart(ctx context.Context) ([]models.CartItem, int, error)
	AddToCart(ctx context.Context, productID models.ID, quantity int) error
	SetQuantity(ctx context.Context, cartItemID models.ID, quantity int) error
	Checkout(ctx context.Context) (*models.Order, error)
	BuyNow(ctx context.Context, productID models.ID, quantity int) (*models.Order, error)
	WriteReview(ctx context.Context, productID models.ID, rating int, content string) (*models.Review, error)
}

// ShopAPI is the part of the API client used by ShopService.
type ShopAPI interface {
	Cart(ctx context.Context) ([]models.CartItem, error)
	AddToCart(ctx context.Context, productID models.ID, quantity int) error
	UpdateCartItem(ctx context.Context, cartItemID models.ID, quantity int) error
	RemoveCartItem(ctx context.Context, cartItemID models.ID) error
	PlaceOrder(ctx context.Context, items []models.OrderItemRequest) (*models.Order, error)
	HasPurchased(ctx context.Context, productID models.ID) (bool, error)
	WriteReview(ctx context.Context, productID models.ID, r models.ReviewRequest) (*models.Review, error)
}

type shopService struct {
	api      ShopAPI
	validate *validator.Validate
}

func NewShopService(api ShopAPI) ShopService {
	return &shopService{api: api, validate: validator.New()}
}

// Cart returns the cart lines and their total price.
func (s *shopService) Cart(ctx context.Context) ([]models.CartItem, int, error) {
	items, err := s.api.Cart(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("cart error: %w", err)
	}
	total := 0
	for _, it := range items {
		total += it.Price * it.Quantity
	}
	return items, total, nil
}

func (s *shopService) AddToCart(ctx context.Context, productID models.ID, quantity int) error {
	if err := required([2]string{"product id", productID.String()}); err != nil {
		return err
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if err := s.api.AddToCart(ctx, productID, quantity); err != nil {
		return fmt.Errorf("add to cart error: %w", err)
	}
	return nil
}

// SetQuantity changes a cart line; zero removes it.
func (s *shopService) SetQuantity(ctx context.Context, cartItemID models.ID, quantity int) error {
	if err := required([2]string{"cart item id", cartItemID.String()}); err != nil {
		return err
	}

	var err error
	switch {
	case quantity < 0:
		return ErrInvalidQuantity
	case quantity == 0:
		err = s.api.RemoveCartItem(ctx, cartItemID)
	default:
		err = s.api.UpdateCartItem(ctx, cartItemID, quantity)
	}
	if err != nil {
		return fmt.Errorf("update cart error: %w", err)
	}
	return nil
}

// Checkout orders everything in the cart. The server removes the ordered
// lines from the cart.
func (s *shopService) Checkout(ctx context.Context) (*models.Order, error) {
	items, err := s.api.Cart(ctx)
	if err != nil {
		return nil, fmt.Errorf("cart error: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	req := make([]models.OrderItemRequest, 0, len(items))
	for _, it := range items {
		req = append(req, models.OrderItemRequest{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return s.placeOrder(ctx, req)
}

// BuyNow orders a single product without touching the cart.
func (s *shopService) BuyNow(ctx context.Context, productID models.ID, quantity int) (*models.Order, error) {
	if err := required([2]string{"product id", productID.String()}); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	return s.placeOrder(ctx, []models.OrderItemRequest{{ProductID: productID, Quantity: quantity}})
}

func (s *shopService) placeOrder(ctx context.Context, items []models.OrderItemRequest) (*models.Order, error) {
	o, err := s.api.PlaceOrder(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("order error: %w", err)
	}
	return o, nil
}

// WriteReview posts a review for a product the caller has bought.
func (s *shopService) WriteReview(ctx context.Context, productID models.ID, rating int, content string) (*models.Review, error) {
	req := models.ReviewRequest{Content: strings.TrimSpace(content), Rating: rating}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReview, err)
	}

	bought, err := s.api.HasPurchased(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("purchase check error: %w", err)
	}
	if !bought {
		return nil, ErrNotPurchased
	}

	r, err := s.api.WriteReview(ctx, productID, req)
	if err != nil {
		return nil, fmt.Errorf("review error: %w", err)
	}
	return r, nil
}
