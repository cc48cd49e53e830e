package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/shopclient/internal/client/models"
	"github.com/dmitrijs2005/shopclient/internal/logging"
	"github.com/gojektech/heimdall/v6"
	"github.com/gojektech/heimdall/v6/httpclient"
)

const maxJitter = 5 * time.Millisecond

// HTTPClient implements Client over the backend's REST API.
type HTTPClient struct {
	baseURL        *url.URL
	http           *httpclient.Client
	tokens         TokenSource
	log            logging.Logger
	onUnauthorized func(ctx context.Context)

	timeout       time.Duration
	retries       int
	retryInterval time.Duration
}

var _ Client = (*HTTPClient)(nil)

type Option func(*HTTPClient)

func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

// WithRetries sets how many times a failed or 5xx request is repeated and
// the constant pause between attempts.
func WithRetries(count int, interval time.Duration) Option {
	return func(c *HTTPClient) {
		c.retries = count
		c.retryInterval = interval
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// WithUnauthorizedHook sets fn to be called once for every 401 response to a
// request that carried a token.
func WithUnauthorizedHook(fn func(ctx context.Context)) Option {
	return func(c *HTTPClient) { c.onUnauthorized = fn }
}

func NewHTTPClient(baseURL string, tokens TokenSource, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported base url scheme %q", u.Scheme)
	}

	c := &HTTPClient{
		baseURL:       u,
		tokens:        tokens,
		log:           logging.Nop(),
		timeout:       5 * time.Second,
		retries:       1,
		retryInterval: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}

	retrier := heimdall.NewRetrier(heimdall.NewConstantBackoff(c.retryInterval, maxJitter))
	c.http = httpclient.NewClient(
		httpclient.WithHTTPTimeout(c.timeout),
		httpclient.WithRetrier(retrier),
		httpclient.WithRetryCount(c.retries),
	)

	return c, nil
}

// Request sends body (JSON-encoded, when not nil) to path and decodes the
// reply into out (when not nil).
func (c *HTTPClient) Request(ctx context.Context, method, path string, params url.Values, body, out any) error {
	target := c.baseURL.JoinPath(path)
	if len(params) > 0 {
		target.RawQuery = params.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token := ""
	if c.tokens != nil {
		token = c.tokens.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	c.log.Debug(ctx, "request done", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode >= http.StatusBadRequest {
		serr := &StatusError{Code: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
		if resp.StatusCode == http.StatusUnauthorized && token != "" && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return fmt.Errorf("%s %s: %w", method, path, serr)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// errorMessage prefers a "message" or "error" field of a JSON body.
func errorMessage(code int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 && !strings.HasPrefix(text, "{") {
		return text
	}
	return http.StatusText(code)
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.LoginResult, error) {
	var res models.LoginResult
	err := c.Request(ctx, http.MethodPost, "/auth/login", nil,
		models.LoginRequest{Username: username, Password: password}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Register(ctx context.Context, username, email, password string) (*models.SignupResult, error) {
	var res models.SignupResult
	err := c.Request(ctx, http.MethodPost, "/auth/signup", nil,
		models.SignupRequest{Username: username, Email: email, Password: password}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) MyRooms(ctx context.Context) ([]models.ChatRoomInfo, error) {
	var rooms []models.ChatRoomInfo
	if err := c.Request(ctx, http.MethodGet, "/chat/my-rooms", nil, nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// OpenRoom finds or creates the room between the caller and the seller of productID.
func (c *HTTPClient) OpenRoom(ctx context.Context, productID models.ID) (models.ID, error) {
	var ref models.ChatRoomRef
	body := struct {
		ProductID models.ID `json:"productId"`
	}{productID}
	if err := c.Request(ctx, http.MethodPost, "/chat/rooms", nil, body, &ref); err != nil {
		return "", err
	}
	return ref.RoomID, nil
}

func (c *HTTPClient) GetRoom(ctx context.Context, roomID models.ID) (*models.ChatRoomDetail, error) {
	var d models.ChatRoomDetail
	if err := c.Request(ctx, http.MethodGet, "/chat/rooms/"+pathID(roomID), nil, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetRoomMessages returns the full history of a room, oldest first.
func (c *HTTPClient) GetRoomMessages(ctx context.Context, roomID models.ID) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	path := "/chat/rooms/" + pathID(roomID) + "/messages"
	if err := c.Request(ctx, http.MethodGet, path, nil, nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func pageParams(page, size int) url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))
	return params
}

func pathID(id models.ID) string {
	return url.PathEscape(id.String())
}

// ListProducts fetches a 0-based page of the catalogue narrowed by filter.
func (c *HTTPClient) ListProducts(ctx context.Context, page, size int, filter models.ProductFilter) (*models.ProductPage, error) {
	params := pageParams(page, size)
	for k, v := range filter.Values() {
		params[k] = v
	}

	var p models.ProductPage
	if err := c.Request(ctx, http.MethodGet, "/api/products", params, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) GetProduct(ctx context.Context, id models.ID) (*models.Product, error) {
	var p models.Product
	if err := c.Request(ctx, http.MethodGet, "/api/products/"+pathID(id), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) Cart(ctx context.Context) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := c.Request(ctx, http.MethodGet, "/api/cart", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart adds quantity to the cart line of productID, creating it if needed.
func (c *HTTPClient) AddToCart(ctx context.Context, productID models.ID, quantity int) error {
	body := models.CartItemRequest{ProductID: productID, Quantity: quantity}
	return c.Request(ctx, http.MethodPost, "/api/cart/items", nil, body, nil)
}

func (c *HTTPClient) UpdateCartItem(ctx context.Context, cartItemID models.ID, quantity int) error {
	body := map[string]int{"quantity": quantity}
	return c.Request(ctx, http.MethodPut, "/api/cart/items/"+pathID(cartItemID), nil, body, nil)
}

func (c *HTTPClient) RemoveCartItem(ctx context.Context, cartItemID models.ID) error {
	return c.Request(ctx, http.MethodDelete, "/api/cart/items/"+pathID(cartItemID), nil, nil, nil)
}

// PlaceOrder orders items. Ordered products are removed from the cart by
// the server. Insufficient stock is a 400, a concurrent order a 409.
func (c *HTTPClient) PlaceOrder(ctx context.Context, items []models.OrderItemRequest) (*models.Order, error) {
	var o models.Order
	if err := c.Request(ctx, http.MethodPost, "/api/orders", nil, models.OrderRequest{OrderItems: items}, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *HTTPClient) HasPurchased(ctx context.Context, productID models.ID) (bool, error) {
	params := url.Values{}
	params.Set("productId", productID.String())

	var res struct {
		HasPurchased bool `json:"hasPurchased"`
	}
	if err := c.Request(ctx, http.MethodGet, "/api/orders/check-purchase", params, nil, &res); err != nil {
		return false, err
	}
	return res.HasPurchased, nil
}

// MyOrders lists the caller's orders, newest first.
func (c *HTTPClient) MyOrders(ctx context.Context, page, size int) (*models.Page[models.Order], error) {
	var p models.Page[models.Order]
	if err := c.Request(ctx, http.MethodGet, "/mypage/orders", pageParams(page, size), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductReviews lists the reviews of a product, newest first.
func (c *HTTPClient) ProductReviews(ctx context.Context, productID models.ID, page, size int) (*models.Page[models.Review], error) {
	var p models.Page[models.Review]
	path := "/api/products/" + pathID(productID) + "/reviews"
	if err := c.Request(ctx, http.MethodGet, path, pageParams(page, size), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) WriteReview(ctx context.Context, productID models.ID, r models.ReviewRequest) (*models.Review, error) {
	var res models.Review
	path := "/api/products/" + pathID(productID) + "/reviews"
	if err := c.Request(ctx, http.MethodPost, path, nil, r, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) UpdateReview(ctx context.Context, productID, reviewID models.ID, r models.ReviewRequest) (*models.Review, error) {
	var res models.Review
	path := "/api/products/" + pathID(productID) + "/reviews/" + pathID(reviewID)
	if err := c.Request(ctx, http.MethodPut, path, nil, r, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) DeleteReview(ctx context.Context, productID, reviewID models.ID) error {
	path := "/api/products/" + pathID(productID) + "/reviews/" + pathID(reviewID)
	return c.Request(ctx, http.MethodDelete, path, nil, nil, nil)
}

// MyReviews lists the reviews written by the caller, newest first.
func (c *HTTPClient) MyReviews(ctx context.Context, page, size int) (*models.Page[models.Review], error) {
	var p models.Page[models.Review]
	if err := c.Request(ctx, http.MethodGet, "/mypage/reviews", pageParams(page, size), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
