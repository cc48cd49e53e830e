package cli

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/shopclient/internal/client/client"
	"github.com/dmitrijs2005/shopclient/internal/client/services"
)

type token string

func (t token) Token() string { return string(t) }

type backendRoute struct {
	status int
	body   string
}

// backend is an httptest storefront answering "METHOD /path" routes.
type backend struct {
	mu   sync.Mutex
	seen []string
}

func (b *backend) requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.seen...)
}

// newShopHarness wires an App to the real HTTP client and shop service
// talking to an httptest server.
func newShopHarness(t *testing.T, routes map[string]backendRoute) (*harness, *backend) {
	t.Helper()
	b := &backend{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := r.Method + " " + r.URL.Path
		if r.URL.RawQuery != "" {
			req += "?" + r.URL.RawQuery
		}
		if body, _ := io.ReadAll(r.Body); len(body) > 0 {
			req += " " + string(body)
		}
		b.mu.Lock()
		b.seen = append(b.seen, req)
		b.mu.Unlock()

		rt, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if rt.status != 0 {
			w.WriteHeader(rt.status)
		}
		_, _ = w.Write([]byte(rt.body))
	}))
	t.Cleanup(srv.Close)

	c, err := client.NewHTTPClient(srv.URL, token("tok"),
		client.WithRetries(0, time.Millisecond), client.WithTimeout(2*time.Second))
	require.NoError(t, err)

	h := newHarness(t, "")
	h.app.api = c
	h.app.shop = services.NewShopService(c)
	return h, b
}

func TestProductCommand(t *testing.T) {
	h, b := newShopHarness(t, map[string]backendRoute{
		"GET /api/products/3": {body: `{"id":3,"name":"Desk","price":120,"stock":4,"category":"furniture","description":"oak"}`},
	})

	require.NoError(t, h.app.Product(context.Background(), "3"))
	assert.Contains(t, h.out.String(), "Desk (#3)")
	assert.Contains(t, h.out.String(), "Category: furniture")
	assert.Contains(t, h.out.String(), "oak")
	assert.Equal(t, []string{"GET /api/products/3"}, b.requests())

	assert.ErrorIs(t, h.app.Product(context.Background(), "4"), client.ErrNotFound)
}

func TestProductsCommand_SendsFilters(t *testing.T) {
	h, b := newShopHarness(t, map[string]backendRoute{
		"GET /api/products": {body: `{"content":[{"id":3,"name":"Desk","price":120,"stock":4}],"number":1,"totalPages":2}`},
	})

	require.NoError(t, h.app.Products(context.Background(), "2 category=furniture min=100"))
	assert.Equal(t, []string{"GET /api/products?category=furniture&minPrice=100&page=1&size=10"}, b.requests())
	assert.Contains(t, h.out.String(), "Desk")
	assert.Contains(t, h.out.String(), "< 1 [2]")
}

func TestReviewsCommand(t *testing.T) {
	h, b := newShopHarness(t, map[string]backendRoute{
		"GET /api/products/3/reviews": {body: `{"content":[
			{"reviewId":4,"username":"bob","content":"solid","rating":4,"purchased":true},
			{"reviewId":5,"username":"eve","content":"meh","rating":2}],"number":1,"totalPages":2}`},
	})

	require.NoError(t, h.app.Reviews(context.Background(), "3 2"))
	assert.Equal(t, []string{"GET /api/products/3/reviews?page=1&size=3"}, b.requests())
	assert.Contains(t, h.out.String(), "****.  bob (buyer): solid")
	assert.Contains(t, h.out.String(), "**...  eve: meh")

	require.NoError(t, h.app.Reviews(context.Background(), ""))
	assert.Contains(t, h.out.String(), "Usage: reviews <productId> [page]")
}

func TestCartCommand(t *testing.T) {
	h, b := newShopHarness(t, map[string]backendRoute{
		"GET /api/cart": {body: `[
			{"cartItemId":11,"productId":3,"productName":"Desk","price":120,"quantity":2},
			{"cartItemId":12,"productId":5,"productName":"Lamp","price":30,"quantity":1}]`},
		"POST /api/cart/items":      {status: http.StatusCreated},
		"PUT /api/cart/items/11":    {},
		"DELETE /api/cart/items/12": {status: http.StatusNoContent},
	})
	ctx := context.Background()

	require.NoError(t, h.app.Cart(ctx, ""))
	assert.Contains(t, h.out.String(), "Desk")
	assert.Contains(t, h.out.String(), "Total: 270")

	require.NoError(t, h.app.Cart(ctx, "add 3 2"))
	require.NoError(t, h.app.Cart(ctx, "set 11 5"))
	require.NoError(t, h.app.Cart(ctx, "rm 12"))
	assert.Equal(t, []string{
		"GET /api/cart",
		`POST /api/cart/items {"productId":3,"quantity":2}`,
		`PUT /api/cart/items/11 {"quantity":5}`,
		"DELETE /api/cart/items/12",
	}, b.requests())

	assert.ErrorIs(t, h.app.Cart(ctx, "add 3 0"), services.ErrInvalidQuantity)
	require.NoError(t, h.app.Cart(ctx, "frob"))
	assert.Contains(t, h.out.String(), "Usage: cart")
}

func TestOrderCommands(t *testing.T) {
	order := `{"orderId":8,"orderDate":"2024-05-01T12:00:00",
		"orderItems":[{"productId":3,"productName":"Desk","quantity":2,"orderPrice":120}],"totalPrice":240}`
	h, b := newShopHarness(t, map[string]backendRoute{
		"GET /api/cart":      {body: `[{"cartItemId":11,"productId":3,"productName":"Desk","price":120,"quantity":2}]`},
		"POST /api/orders":   {status: http.StatusCreated, body: order},
		"GET /mypage/orders": {body: `{"content":[` + order + `],"number":0,"totalPages":1}`},
	})
	ctx := context.Background()

	require.NoError(t, h.app.Order(ctx))
	assert.Contains(t, h.out.String(), "Order 8")
	assert.Contains(t, h.out.String(), "total 240")

	require.NoError(t, h.app.Buy(ctx, "5 3"))
	require.NoError(t, h.app.Orders(ctx, ""))
	assert.Equal(t, []string{
		"GET /api/cart",
		`POST /api/orders {"orderItems":[{"productId":3,"quantity":2}]}`,
		`POST /api/orders {"orderItems":[{"productId":5,"quantity":3}]}`,
		"GET /mypage/orders?page=0&size=5",
	}, b.requests())
	assert.Equal(t, 3, strings.Count(h.out.String(), "Order 8"))
}

func TestOrderCommand_EmptyCart(t *testing.T) {
	h, b := newShopHarness(t, map[string]backendRoute{
		"GET /api/cart": {body: `[]`},
	})

	assert.ErrorIs(t, h.app.Order(context.Background()), services.ErrEmptyCart)
	assert.Equal(t, []string{"GET /api/cart"}, b.requests())
}

func TestReviewCommand(t *testing.T) {
	h, b := newShopHarness(t, map[string]backendRoute{
		"GET /api/orders/check-purchase": {body: `{"hasPurchased":true}`},
		"POST /api/products/3/reviews":   {status: http.StatusCreated, body: `{"reviewId":4,"content":"great desk","rating":5}`},
		"GET /mypage/reviews":            {body: `{"content":[{"reviewId":4,"username":"alice","content":"great desk","rating":5}],"number":0,"totalPages":1}`},
	})
	ctx := context.Background()

	require.NoError(t, h.app.Review(ctx, "3 5 great desk"))
	assert.Contains(t, h.out.String(), "Review posted.")

	require.NoError(t, h.app.MyReviews(ctx, ""))
	assert.Contains(t, h.out.String(), "*****  alice: great desk")

	assert.Equal(t, []string{
		"GET /api/orders/check-purchase?productId=3",
		`POST /api/products/3/reviews {"content":"great desk","rating":5}`,
		"GET /mypage/reviews?page=0&size=5",
	}, b.requests())

	assert.ErrorIs(t, h.app.Review(ctx, "3 9 too good"), services.ErrInvalidReview)
	assert.Error(t, h.app.Review(ctx, "3 five stars"))
}
