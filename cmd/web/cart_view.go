package main

import (
	"github.com/luxethreads/storefront-web/internal/api"
	"github.com/luxethreads/storefront-web/internal/format"
)

// CartView aggregates the cart page and its htmx fragments.
type CartView struct {
	Lang      string
	Items     []CartLine
	Empty     bool
	ItemCount int
	Subtotal  string
	Message   string
}

// CartLine is one row of the cart table.
type CartLine struct {
	ID         int
	ProductID  int
	Name       string
	ImageURL   string
	Quantity   int
	UnitPrice  string
	LineTotal  string
	Quantities []int
}

const maxLineQuantity = 10

func buildCartView(lang string, items []api.CartItem) CartView {
	view := CartView{
		Lang:  lang,
		Empty: len(items) == 0,
	}
	var subtotal float64
	for _, item := range items {
		line := CartLine{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			ImageURL:  item.ImageURL,
			Quantity:  item.Quantity,
			UnitPrice: format.FmtCurrency(item.Price, "INR", ""),
			LineTotal: format.FmtCurrency(item.Total, "INR", ""),
		}
		for i := 1; i <= maxLineQuantity; i++ {
			line.Quantities = append(line.Quantities, i)
		}
		view.Items = append(view.Items, line)
		view.ItemCount += item.Quantity
		subtotal += item.Total
	}
	view.Subtotal = format.FmtCurrency(subtotal, "INR", "")
	return view
}
