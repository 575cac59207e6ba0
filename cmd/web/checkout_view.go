package main

import (
	"github.com/luxethreads/storefront-web/internal/api"
	"github.com/luxethreads/storefront-web/internal/checkout"
	"github.com/luxethreads/storefront-web/internal/format"
)

// CheckoutStep is one entry of the stepper shown above every checkout
// page.
type CheckoutStep struct {
	Key       string
	LabelKey  string
	Active    bool
	Completed bool
}

// CheckoutView drives the address, payment, review, success, and
// error pages.
type CheckoutView struct {
	Lang  string
	Steps []CheckoutStep

	// Preview snapshot fetched at flow entry
	Items     []CheckoutLine
	ItemCount int
	Totals    CheckoutTotals
	Loyalty   CheckoutLoyalty

	// Draft echo for form re-rendering
	ShippingAddress string
	BillingAddress  string
	Notes           string
	Method          string
	Methods         []MethodOption
	CardNumber      string
	ExpiryMonth     string
	ExpiryYear      string

	Errors map[string]string

	// Outcome
	OrderNumber string
	OrderID     int
	Failure     *checkout.Failure
}

// CheckoutLine is one validated cart line on the review panel.
type CheckoutLine struct {
	Name      string
	Quantity  int
	UnitPrice string
	LineTotal string
}

// CheckoutTotals renders the backend-computed amounts verbatim.
type CheckoutTotals struct {
	Subtotal       string
	Discount       string
	DiscountRate   float64
	Tax            string
	Shipping       string
	FinalAmount    string
	HasDiscount    bool
	HasShippingFee bool
}

// CheckoutLoyalty summarizes the loyalty benefit applied.
type CheckoutLoyalty struct {
	Score    int
	Discount string
	Applied  bool
}

// MethodOption is a selectable payment method.
type MethodOption struct {
	Value        string
	LabelKey     string
	RequiresCard bool
	Selected     bool
}

var checkoutStepOrder = []struct {
	key      string
	labelKey string
}{
	{"address", "checkout.step.address"},
	{"payment", "checkout.step.payment"},
	{"review", "checkout.step.review"},
}

func buildCheckoutSteps(state checkout.State) []CheckoutStep {
	rank := map[checkout.State]int{
		checkout.StateAddress: 0,
		checkout.StatePayment: 1,
		checkout.StateReview:  2,
		checkout.StateError:   2,
		checkout.StateSuccess: 3,
	}
	current := rank[state]
	steps := make([]CheckoutStep, 0, len(checkoutStepOrder))
	for i, s := range checkoutStepOrder {
		steps = append(steps, CheckoutStep{
			Key:       s.key,
			LabelKey:  s.labelKey,
			Active:    i == current,
			Completed: i < current,
		})
	}
	return steps
}

func buildCheckoutView(lang string, flow *checkout.Flow) CheckoutView {
	draft := flow.Draft()
	preview := flow.Preview()

	view := CheckoutView{
		Lang:            lang,
		Steps:           buildCheckoutSteps(flow.State()),
		ItemCount:       preview.ItemCount,
		Totals:          buildCheckoutTotals(preview.Totals),
		Loyalty:         buildCheckoutLoyalty(preview.Loyalty),
		ShippingAddress: draft.ShippingAddress,
		BillingAddress:  draft.BillingAddress,
		Notes:           draft.Notes,
		Method:          string(draft.Method),
		Methods:         methodOptions(draft.Method),
		ExpiryMonth:     draft.Card.ExpiryMonth,
		ExpiryYear:      draft.Card.ExpiryYear,
		OrderNumber:     flow.OrderNumber(),
		OrderID:         flow.OrderID(),
		Failure:         flow.Failure(),
	}
	for _, item := range preview.Items {
		view.Items = append(view.Items, CheckoutLine{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: format.FmtCurrency(item.UnitPrice, "INR", ""),
			LineTotal: format.FmtCurrency(item.LineTotal, "INR", ""),
		})
	}
	return view
}

func buildCheckoutTotals(t api.Totals) CheckoutTotals {
	return CheckoutTotals{
		Subtotal:       format.FmtCurrency(t.Subtotal, "INR", ""),
		Discount:       format.FmtCurrency(t.DiscountAmount, "INR", ""),
		DiscountRate:   t.DiscountRate,
		Tax:            format.FmtCurrency(t.TaxAmount, "INR", ""),
		Shipping:       format.FmtCurrency(t.ShippingAmount, "INR", ""),
		FinalAmount:    format.FmtCurrency(t.FinalAmount, "INR", ""),
		HasDiscount:    t.DiscountAmount > 0,
		HasShippingFee: t.ShippingAmount > 0,
	}
}

func buildCheckoutLoyalty(l api.Loyalty) CheckoutLoyalty {
	return CheckoutLoyalty{
		Score:    l.Score,
		Discount: format.FmtCurrency(l.DiscountAmount, "INR", ""),
		Applied:  l.DiscountAmount > 0,
	}
}

// filterMethodOptions keeps only the options the backend advertises.
// An empty intersection keeps the full set so the shopper is never
// left without a method to pick.
func filterMethodOptions(options []MethodOption, available map[string]api.PaymentMethodInfo) []MethodOption {
	var out []MethodOption
	for _, o := range options {
		if _, ok := available[o.Value]; ok {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return options
	}
	return out
}

func methodOptions(selected checkout.PaymentMethod) []MethodOption {
	labels := map[checkout.PaymentMethod]string{
		checkout.CreditCard: "checkout.method.credit_card",
		checkout.DebitCard:  "checkout.method.debit_card",
		checkout.UPI:        "checkout.method.upi",
		checkout.Wallet:     "checkout.method.wallet",
		checkout.NetBanking: "checkout.method.net_banking",
	}
	var out []MethodOption
	for _, m := range checkout.Methods() {
		out = append(out, MethodOption{
			Value:        string(m),
			LabelKey:     labels[m],
			RequiresCard: m.RequiresCard(),
			Selected:     m == selected,
		})
	}
	return out
}
