package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/shopclient/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShopAPI struct {
	cart      []models.CartItem
	cartErr   error
	orderErr  error
	purchased bool

	added   []models.CartItemRequest
	updated map[models.ID]int
	removed []models.ID
	orders  [][]models.OrderItemRequest
	reviews []models.ReviewRequest
}

func (f *fakeShopAPI) Cart(context.Context) ([]models.CartItem, error) { return f.cart, f.cartErr }

func (f *fakeShopAPI) AddToCart(_ context.Context, productID models.ID, quantity int) error {
	f.added = append(f.added, models.CartItemRequest{ProductID: productID, Quantity: quantity})
	return nil
}

func (f *fakeShopAPI) UpdateCartItem(_ context.Context, id models.ID, quantity int) error {
	if f.updated == nil {
		f.updated = map[models.ID]int{}
	}
	f.updated[id] = quantity
	return nil
}

func (f *fakeShopAPI) RemoveCartItem(_ context.Context, id models.ID) error {
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeShopAPI) PlaceOrder(_ context.Context, items []models.OrderItemRequest) (*models.Order, error) {
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	f.orders = append(f.orders, items)
	return &models.Order{OrderID: "1"}, nil
}

func (f *fakeShopAPI) HasPurchased(context.Context, models.ID) (bool, error) { return f.purchased, nil }

func (f *fakeShopAPI) WriteReview(_ context.Context, _ models.ID, r models.ReviewRequest) (*models.Review, error) {
	f.reviews = append(f.reviews, r)
	return &models.Review{ReviewID: "9", Content: r.Content, Rating: r.Rating}, nil
}

func TestCart_Total(t *testing.T) {
	api := &fakeShopAPI{cart: []models.CartItem{
		{ProductID: "1", Price: 10, Quantity: 3},
		{ProductID: "2", Price: 5, Quantity: 1},
	}}
	items, total, err := NewShopService(api).Cart(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 35, total)
}

func TestAddToCart_Validation(t *testing.T) {
	api := &fakeShopAPI{}
	svc := NewShopService(api)

	assert.ErrorIs(t, svc.AddToCart(context.Background(), "", 1), ErrMissingField)
	assert.ErrorIs(t, svc.AddToCart(context.Background(), "3", 0), ErrInvalidQuantity)
	require.NoError(t, svc.AddToCart(context.Background(), "3", 2))
	assert.Equal(t, []models.CartItemRequest{{ProductID: "3", Quantity: 2}}, api.added)
}

func TestSetQuantity(t *testing.T) {
	api := &fakeShopAPI{}
	svc := NewShopService(api)
	ctx := context.Background()

	require.NoError(t, svc.SetQuantity(ctx, "11", 4))
	require.NoError(t, svc.SetQuantity(ctx, "12", 0))
	assert.ErrorIs(t, svc.SetQuantity(ctx, "13", -1), ErrInvalidQuantity)

	assert.Equal(t, map[models.ID]int{"11": 4}, api.updated)
	assert.Equal(t, []models.ID{"12"}, api.removed)
}

func TestCheckout_OrdersWholeCart(t *testing.T) {
	api := &fakeShopAPI{cart: []models.CartItem{
		{CartItemID: "11", ProductID: "1", Quantity: 3},
		{CartItemID: "12", ProductID: "2", Quantity: 1},
	}}

	o, err := NewShopService(api).Checkout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ID("1"), o.OrderID)
	require.Len(t, api.orders, 1)
	assert.Equal(t, []models.OrderItemRequest{{ProductID: "1", Quantity: 3}, {ProductID: "2", Quantity: 1}}, api.orders[0])
}

func TestCheckout_Errors(t *testing.T) {
	_, err := NewShopService(&fakeShopAPI{}).Checkout(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)

	boom := errors.New("boom")
	_, err = NewShopService(&fakeShopAPI{cartErr: boom}).Checkout(context.Background())
	assert.ErrorIs(t, err, boom)

	api := &fakeShopAPI{cart: []models.CartItem{{ProductID: "1", Quantity: 1}}, orderErr: boom}
	_, err = NewShopService(api).Checkout(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestBuyNow(t *testing.T) {
	api := &fakeShopAPI{}
	svc := NewShopService(api)

	_, err := svc.BuyNow(context.Background(), "3", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.BuyNow(context.Background(), "3", 2)
	require.NoError(t, err)
	assert.Equal(t, [][]models.OrderItemRequest{{{ProductID: "3", Quantity: 2}}}, api.orders)
}

func TestWriteReview(t *testing.T) {
	api := &fakeShopAPI{}
	svc := NewShopService(api)
	ctx := context.Background()

	_, err := svc.WriteReview(ctx, "3", 5, "   ")
	assert.ErrorIs(t, err, ErrInvalidReview)
	_, err = svc.WriteReview(ctx, "3", 6, "great")
	assert.ErrorIs(t, err, ErrInvalidReview)

	_, err = svc.WriteReview(ctx, "3", 5, "great")
	assert.ErrorIs(t, err, ErrNotPurchased)
	assert.Empty(t, api.reviews)

	api.purchased = true
	r, err := svc.WriteReview(ctx, "3", 4, " great ")
	require.NoError(t, err)
	assert.Equal(t, "great", r.Content)
	assert.Equal(t, []models.ReviewRequest{{Content: "great", Rating: 4}}, api.reviews)
}
