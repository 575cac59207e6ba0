package main

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/luxethreads/storefront-web/internal/api"
	"github.com/luxethreads/storefront-web/internal/format"
	mw "github.com/luxethreads/storefront-web/internal/middleware"
)

const shopPageSize = 12

// ShopView aggregates the catalog page: active filters, the result
// grid, and pagination.
type ShopView struct {
	Lang       string
	Filters    ShopFilters
	Products   []ProductCard
	Empty      bool
	Page       int
	TotalPages int
	Total      int
	PrevQuery  string
	NextQuery  string
}

// ShopFilters mirrors the query string driving the grid.
type ShopFilters struct {
	Category   string
	Occasion   string
	Search     string
	MinPrice   string
	MaxPrice   string
	Featured   bool
	Categories []FilterOption
	Occasions  []FilterOption
}

// FilterOption is one selectable filter value.
type FilterOption struct {
	Value    string
	LabelKey string
	Selected bool
}

// ProductCard is a single tile in the grid.
type ProductCard struct {
	ID         int
	Name       string
	Category   string
	Occasion   string
	Price      string
	ImageURL   string
	InStock    bool
	Featured   bool
	Wishlisted bool
}

var shopCategories = []FilterOption{
	{Value: "lehenga", LabelKey: "shop.category.lehenga"},
	{Value: "saree", LabelKey: "shop.category.saree"},
	{Value: "gown", LabelKey: "shop.category.gown"},
	{Value: "anarkali", LabelKey: "shop.category.anarkali"},
	{Value: "indo_western", LabelKey: "shop.category.indo_western"},
}

var shopOccasions = []FilterOption{
	{Value: "wedding", LabelKey: "shop.occasion.wedding"},
	{Value: "party", LabelKey: "shop.occasion.party"},
	{Value: "festive", LabelKey: "shop.occasion.festive"},
	{Value: "casual", LabelKey: "shop.occasion.casual"},
	{Value: "office", LabelKey: "shop.occasion.office"},
}

// parseShopFilter converts the query string into a backend filter.
func parseShopFilter(q url.Values) api.ProductFilter {
	f := api.ProductFilter{
		Category: strings.TrimSpace(q.Get("category")),
		Occasion: strings.TrimSpace(q.Get("occasion")),
		Search:   strings.TrimSpace(q.Get("search")),
		Limit:    shopPageSize,
	}
	if v, err := strconv.ParseFloat(q.Get("min_price"), 64); err == nil && v > 0 {
		f.MinPrice = v
	}
	if v, err := strconv.ParseFloat(q.Get("max_price"), 64); err == nil && v > 0 {
		f.MaxPrice = v
	}
	if q.Get("featured") == "1" {
		featured := true
		f.Featured = &featured
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 1 {
		f.Page = p
	}
	return f
}

func buildShopView(lang string, q url.Values, page api.ProductPage, sess *mw.SessionData) ShopView {
	filters := ShopFilters{
		Category: strings.TrimSpace(q.Get("category")),
		Occasion: strings.TrimSpace(q.Get("occasion")),
		Search:   strings.TrimSpace(q.Get("search")),
		MinPrice: strings.TrimSpace(q.Get("min_price")),
		MaxPrice: strings.TrimSpace(q.Get("max_price")),
		Featured: q.Get("featured") == "1",
	}
	filters.Categories = selectOptions(shopCategories, filters.Category)
	filters.Occasions = selectOptions(shopOccasions, filters.Occasion)

	view := ShopView{
		Lang:       lang,
		Filters:    filters,
		Products:   productCards(page.Products, sess),
		Empty:      len(page.Products) == 0,
		Page:       page.Page,
		TotalPages: page.TotalPages,
		Total:      page.Total,
	}
	if view.Page <= 0 {
		view.Page = 1
	}
	if view.Page > 1 {
		view.PrevQuery = pageQuery(q, view.Page-1)
	}
	if view.Page < view.TotalPages {
		view.NextQuery = pageQuery(q, view.Page+1)
	}
	return view
}

func selectOptions(opts []FilterOption, selected string) []FilterOption {
	out := make([]FilterOption, len(opts))
	copy(out, opts)
	for i := range out {
		out[i].Selected = out[i].Value == selected
	}
	return out
}

func pageQuery(q url.Values, page int) string {
	next := url.Values{}
	for k, vs := range q {
		for _, v := range vs {
			if v != "" {
				next.Add(k, v)
			}
		}
	}
	next.Set("page", strconv.Itoa(page))
	return next.Encode()
}

func productCards(products []api.Product, sess *mw.SessionData) []ProductCard {
	cards := make([]ProductCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, productCard(p, sess))
	}
	return cards
}

func productCard(p api.Product, sess *mw.SessionData) ProductCard {
	card := ProductCard{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Occasion: p.Occasion,
		Price:    format.FmtCurrency(p.Price, "INR", ""),
		ImageURL: p.ImageURL,
		InStock:  p.Stock > 0,
		Featured: p.Featured,
	}
	if sess != nil {
		card.Wishlisted = sess.InWishlist(p.ID)
	}
	return card
}

// ProductView is the detail page view model.
type ProductView struct {
	Lang        string
	Card        ProductCard
	Description string
	Material    string
	Sizes       []string
	Colors      []string
	Stock       int
	Quantities  []int
}

func buildProductView(lang string, p api.Product, sess *mw.SessionData) ProductView {
	view := ProductView{
		Lang:        lang,
		Card:        productCard(p, sess),
		Description: p.Description,
		Material:    p.Material,
		Sizes:       splitList(p.AvailableSizes),
		Colors:      splitList(p.Colors),
		Stock:       p.Stock,
	}
	max := p.Stock
	if max > 5 {
		max = 5
	}
	for i := 1; i <= max; i++ {
		view.Quantities = append(view.Quantities, i)
	}
	return view
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
