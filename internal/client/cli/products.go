package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/shopclient/internal/client/models"
	"github.com/dmitrijs2005/shopclient/internal/client/pagination"
)

const pagerWindow = 7

// parsePage turns a 1-based page argument into a 0-based index.
func parsePage(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("bad page number %q", s)
	}
	return n - 1, nil
}

// parseProductArgs reads "[page] [category=x] [min=n] [max=n]".
func parseProductArgs(args string) (int, models.ProductFilter, error) {
	var (
		page   int
		filter models.ProductFilter
	)
	for _, arg := range strings.Fields(args) {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			p, err := parsePage(arg)
			if err != nil {
				return 0, filter, err
			}
			page = p
			continue
		}

		switch key {
		case "category":
			filter.Category = value
		case "min", "max":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return 0, filter, fmt.Errorf("bad %s price %q", key, value)
			}
			if key == "min" {
				filter.MinPrice = &n
			} else {
				filter.MaxPrice = &n
			}
		default:
			return 0, filter, fmt.Errorf("unknown filter %q", key)
		}
	}
	return page, filter, nil
}

func (a *App) printPager(number, total int) {
	if s := pagination.New(number, total).Render(pagerWindow); s != "" {
		a.println(s)
	}
}

// Products prints one page of the catalogue, e.g. "products 2 category=books max=30".
func (a *App) Products(ctx context.Context, args string) error {
	page, filter, err := parseProductArgs(args)
	if err != nil {
		return err
	}

	res, err := a.api.ListProducts(ctx, page, a.pageSize, filter)
	if err != nil {
		return err
	}

	if len(res.Content) == 0 {
		a.println("No products.")
	}
	for _, p := range res.Content {
		a.printf("%-8s %-30s %8d  stock %d\n", p.ID, p.Name, p.Price, p.Stock)
	}
	a.printPager(res.Number, res.TotalPages)
	return nil
}

func (a *App) Product(ctx context.Context, id string) error {
	p, err := a.api.GetProduct(ctx, models.ID(id))
	if err != nil {
		return err
	}

	a.printf("%s (#%s)\n", p.Name, p.ID)
	a.printf("Price:    %d\n", p.Price)
	a.printf("Stock:    %d\n", p.Stock)
	if p.Category != "" {
		a.printf("Category: %s\n", p.Category)
	}
	if p.Description != "" {
		a.println(p.Description)
	}
	return nil
}
