package models

import "github.com/dmitrijs2005/shopclient/internal/timex"

// CartItem is one line of the caller's cart.
type CartItem struct {
	CartItemID   ID     `json:"cartItemId"`
	ProductID    ID     `json:"productId"`
	ProductName  string `json:"productName"`
	Price        int    `json:"price"`
	Quantity     int    `json:"quantity"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

type CartItemRequest struct {
	ProductID ID  `json:"productId"`
	Quantity  int `json:"quantity"`
}

type OrderItemRequest struct {
	ProductID ID  `json:"productId"`
	Quantity  int `json:"quantity"`
}

type OrderRequest struct {
	OrderItems []OrderItemRequest `json:"orderItems"`
}

// OrderItem is a product line of a placed order. OrderPrice is the unit
// price at the time of ordering.
type OrderItem struct {
	ProductID    ID     `json:"productId"`
	ProductName  string `json:"productName"`
	Quantity     int    `json:"quantity"`
	OrderPrice   int    `json:"orderPrice"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

type Order struct {
	OrderID    ID              `json:"orderId"`
	OrderDate  timex.Timestamp `json:"orderDate"`
	OrderItems []OrderItem     `json:"orderItems"`
	TotalPrice int             `json:"totalPrice"`
}

// Review is a product review. Purchased tells whether the author bought
// the product.
type Review struct {
	ReviewID            ID              `json:"reviewId"`
	Username            string          `json:"username"`
	Content             string          `json:"content"`
	Rating              int             `json:"rating"`
	CreatedAt           timex.Timestamp `json:"createdAt"`
	ProductThumbnailURL string          `json:"productThumbnailUrl"`
	Purchased           bool            `json:"purchased"`
}

type ReviewRequest struct {
	Content string `json:"content" validate:"required"`
	Rating  int    `json:"rating" validate:"min=1,max=5"`
}
