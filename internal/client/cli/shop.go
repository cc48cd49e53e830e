package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/shopclient/internal/client/models"
)

const (
	reviewPageSize = 3
	orderPageSize  = 5
)

func parseQuantity(s string) (int, error) {
	if s == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad quantity %q", s)
	}
	return n, nil
}

func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("*", rating) + strings.Repeat(".", 5-rating)
}

// Cart lists the cart or changes it:
//
//	cart
//	cart add <productId> [qty]
//	cart set <cartItemId> <qty>
//	cart rm <cartItemId>
func (a *App) Cart(ctx context.Context, args string) error {
	f := strings.Fields(args)
	if len(f) == 0 {
		return a.listCart(ctx)
	}

	switch {
	case f[0] == "add" && (len(f) == 2 || len(f) == 3):
		qty, err := parseQuantity(strings.Join(f[2:], ""))
		if err != nil {
			return err
		}
		if err := a.shop.AddToCart(ctx, models.ID(f[1]), qty); err != nil {
			return err
		}
		a.println("Added to cart.")
		return nil

	case f[0] == "set" && len(f) == 3:
		qty, err := strconv.Atoi(f[2])
		if err != nil {
			return fmt.Errorf("bad quantity %q", f[2])
		}
		return a.shop.SetQuantity(ctx, models.ID(f[1]), qty)

	case f[0] == "rm" && len(f) == 2:
		return a.shop.SetQuantity(ctx, models.ID(f[1]), 0)
	}

	a.println("Usage: cart | cart add <productId> [qty] | cart set <itemId> <qty> | cart rm <itemId>")
	return nil
}

func (a *App) listCart(ctx context.Context) error {
	items, total, err := a.shop.Cart(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		a.println("Your cart is empty.")
		return nil
	}
	for _, it := range items {
		a.printf("%-8s %-30s %3d x %8d\n", it.CartItemID, it.ProductName, it.Quantity, it.Price)
	}
	a.printf("Total: %d\n", total)
	return nil
}

// Order checks out the whole cart.
func (a *App) Order(ctx context.Context) error {
	o, err := a.shop.Checkout(ctx)
	if err != nil {
		return err
	}
	a.printOrder(*o)
	return nil
}

// Buy orders one product directly: buy <productId> [qty].
func (a *App) Buy(ctx context.Context, args string) error {
	f := strings.Fields(args)
	if len(f) == 0 || len(f) > 2 {
		a.println("Usage: buy <productId> [qty]")
		return nil
	}
	qty, err := parseQuantity(strings.Join(f[1:], ""))
	if err != nil {
		return err
	}
	o, err := a.shop.BuyNow(ctx, models.ID(f[0]), qty)
	if err != nil {
		return err
	}
	a.printOrder(*o)
	return nil
}

func (a *App) printOrder(o models.Order) {
	date := "--"
	if !o.OrderDate.IsZero() {
		date = o.OrderDate.Local().Format(timeLayout)
	}
	a.printf("Order %s  %s  total %d\n", o.OrderID, date, o.TotalPrice)
	for _, it := range o.OrderItems {
		a.printf("    %-30s %3d x %8d\n", it.ProductName, it.Quantity, it.OrderPrice)
	}
}

func (a *App) Orders(ctx context.Context, page string) error {
	idx, err := parsePage(page)
	if err != nil {
		return err
	}
	res, err := a.api.MyOrders(ctx, idx, orderPageSize)
	if err != nil {
		return err
	}
	if len(res.Content) == 0 {
		a.println("No orders yet.")
	}
	for _, o := range res.Content {
		a.printOrder(o)
	}
	a.printPager(res.Number, res.TotalPages)
	return nil
}

func (a *App) printReviews(res *models.Page[models.Review], showBuyer bool) {
	if len(res.Content) == 0 {
		a.println("No reviews.")
	}
	for _, r := range res.Content {
		tag := ""
		if showBuyer && r.Purchased {
			tag = " (buyer)"
		}
		a.printf("%s  %s%s: %s\n", stars(r.Rating), r.Username, tag, r.Content)
	}
	a.printPager(res.Number, res.TotalPages)
}

// Reviews lists product reviews: reviews <productId> [page].
func (a *App) Reviews(ctx context.Context, args string) error {
	f := strings.Fields(args)
	if len(f) == 0 || len(f) > 2 {
		a.println("Usage: reviews <productId> [page]")
		return nil
	}
	idx, err := parsePage(strings.Join(f[1:], ""))
	if err != nil {
		return err
	}
	res, err := a.api.ProductReviews(ctx, models.ID(f[0]), idx, reviewPageSize)
	if err != nil {
		return err
	}
	a.printReviews(res, true)
	return nil
}

func (a *App) MyReviews(ctx context.Context, page string) error {
	idx, err := parsePage(page)
	if err != nil {
		return err
	}
	res, err := a.api.MyReviews(ctx, idx, orderPageSize)
	if err != nil {
		return err
	}
	a.printReviews(res, false)
	return nil
}

// Review writes a review: review <productId> <rating 1-5> <text>.
func (a *App) Review(ctx context.Context, args string) error {
	f := strings.SplitN(strings.TrimSpace(args), " ", 3)
	if len(f) < 3 {
		a.println("Usage: review <productId> <rating 1-5> <text>")
		return nil
	}
	rating, err := strconv.Atoi(f[1])
	if err != nil {
		return fmt.Errorf("bad rating %q", f[1])
	}
	if _, err := a.shop.WriteReview(ctx, models.ID(f[0]), rating, f[2]); err != nil {
		return err
	}
	a.println("Review posted.")
	return nil
}
