package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ProductFilter narrows the catalog listing. Zero values are omitted
// from the query so the backend applies no filter for them.
type ProductFilter struct {
	Category string
	Occasion string
	Featured *bool
	MinPrice float64
	MaxPrice float64
	Search   string
	Page     int
	Limit    int
}

func (f ProductFilter) query() url.Values {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Occasion != "" {
		q.Set("occasion", f.Occasion)
	}
	if f.Featured != nil {
		q.Set("featured", strconv.FormatBool(*f.Featured))
	}
	if f.MinPrice > 0 {
		q.Set("min_price", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice > 0 {
		q.Set("max_price", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q.Set("search", s)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// Products lists the catalog page matching the filter.
func (c *Client) Products(ctx context.Context, filter ProductFilter) (ProductPage, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/products", nil, "")
	if err != nil {
		return ProductPage{}, err
	}
	req.URL.RawQuery = filter.query().Encode()

	var page ProductPage
	if err := c.do(req, &page); err != nil {
		return ProductPage{}, err
	}
	return page, nil
}

// Product fetches a single catalog entry by id.
func (c *Client) Product(ctx context.Context, id int) (Product, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, "")
	if err != nil {
		return Product{}, err
	}
	var p Product
	if err := c.do(req, &p); err != nil {
		return Product{}, err
	}
	return p, nil
}
