package main

import (
	"time"

	"github.com/luxethreads/storefront-web/internal/api"
	"github.com/luxethreads/storefront-web/internal/checkout"
	"github.com/luxethreads/storefront-web/internal/format"
)

// OrdersView lists the shopper's order history.
type OrdersView struct {
	Lang   string
	Orders []OrderSummary
	Empty  bool
}

// OrderSummary is one row of the history table.
type OrderSummary struct {
	ID            int
	OrderNumber   string
	PlacedAt      string
	FinalAmount   string
	OrderStatus   string
	PaymentStatus string
	Cancellable   bool
}

// OrderView is the detail page view model.
type OrderView struct {
	Summary         OrderSummary
	Lang            string
	ShippingAddress string
	BillingAddress  string
	PaymentMethod   string
	TransactionID   string
	TrackingNumber  string
	Notes           string
	Items           []OrderLine

	// Pay-retry form state, shown while payment is pending or failed
	Payable        bool
	PayMethods     []MethodOption
	PayMethod      string
	PayCardNumber  string
	PayExpiryMonth string
	PayExpiryYear  string
	PayErrors      map[string]string
	PayAlert       string

	Subtotal        string
	Discount        string
	Tax             string
	Shipping        string
	FinalAmount     string
}

// OrderLine is one purchased item.
type OrderLine struct {
	Name      string
	Quantity  int
	UnitPrice string
	LineTotal string
}

func buildOrdersView(lang string, orders []api.Order) OrdersView {
	view := OrdersView{Lang: lang, Empty: len(orders) == 0}
	for _, o := range orders {
		view.Orders = append(view.Orders, orderSummary(lang, o))
	}
	return view
}

func orderSummary(lang string, o api.Order) OrderSummary {
	return OrderSummary{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		PlacedAt:      formatOrderDate(o.CreatedAt, lang),
		FinalAmount:   format.FmtCurrency(o.FinalAmount, "INR", ""),
		OrderStatus:   o.OrderStatus,
		PaymentStatus: o.PaymentStatus,
		Cancellable:   o.OrderStatus == "processing" || o.OrderStatus == "confirmed",
	}
}

func buildOrderView(lang string, o api.Order) OrderView {
	view := OrderView{
		Summary:         orderSummary(lang, o),
		Lang:            lang,
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  o.BillingAddress,
		PaymentMethod:   o.PaymentMethod,
		TrackingNumber:  o.TrackingNumber,
		Notes:           o.Notes,
		Subtotal:        format.FmtCurrency(o.TotalAmount, "INR", ""),
		Discount:        format.FmtCurrency(o.DiscountAmount, "INR", ""),
		Tax:             format.FmtCurrency(o.TaxAmount, "INR", ""),
		Shipping:        format.FmtCurrency(o.ShippingAmount, "INR", ""),
		FinalAmount:     format.FmtCurrency(o.FinalAmount, "INR", ""),
	}
	view.refreshPayable()
	for _, item := range o.Items {
		view.Items = append(view.Items, OrderLine{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: format.FmtCurrency(item.UnitPrice, "INR", ""),
			LineTotal: format.FmtCurrency(item.Total, "INR", ""),
		})
	}
	return view
}

// refreshPayable recomputes whether the pay-retry form shows, using
// the current payment status. The backend keeps declined-payment
// orders alive so the shopper can try again.
func (v *OrderView) refreshPayable() {
	status := v.Summary.PaymentStatus
	v.Payable = (status == "pending" || status == "failed") && v.Summary.OrderStatus != "cancelled"
	if v.Payable && v.PayMethods == nil {
		v.PayMethods = methodOptions(checkout.PaymentMethod(v.PaymentMethod))
		v.PayMethod = v.PaymentMethod
	}
}

func formatOrderDate(t time.Time, lang string) string {
	if t.IsZero() {
		return ""
	}
	return format.FmtDate(t, lang)
}
