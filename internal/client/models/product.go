package models

import (
	"net/url"
	"strconv"
	"strings"
)

// Product is one item of the storefront catalogue.
type Product struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Description string `json:"description"`
	Stock       int    `json:"stock"`
	Category    string `json:"category,omitempty"`
	Thumbnail   string `json:"thumbnail"`
}

// Page is the backend's paging envelope. Number is 0-based.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
}

type ProductPage = Page[Product]

// ProductFilter narrows a product listing. Zero fields are not sent.
type ProductFilter struct {
	Category string
	MinPrice *int
	MaxPrice *int
}

// Values returns the filter as query parameters.
func (f ProductFilter) Values() url.Values {
	v := url.Values{}
	if c := strings.TrimSpace(f.Category); c != "" {
		v.Set("category", c)
	}
	if f.MinPrice != nil {
		v.Set("minPrice", strconv.Itoa(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		v.Set("maxPrice", strconv.Itoa(*f.MaxPrice))
	}
	return v
}
