package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/luxethreads/storefront-web/internal/api"
	"github.com/luxethreads/storefront-web/internal/checkout"
	mw "github.com/luxethreads/storefront-web/internal/middleware"
)

// OrdersHandler renders the order history page.
func OrdersHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	orders, err := apiClient.Orders(r.Context(), mw.Token(r.Context()))
	if err != nil {
		http.Error(w, "orders unavailable", http.StatusBadGateway)
		return
	}

	title := i18nOrDefault(lang, "orders.title", "My Orders")
	vm := basePageData(r, lang, title, i18nOrDefault(lang, "orders.desc", "Track, review, and cancel your orders."))
	vm.Orders = buildOrdersView(lang, orders)
	vm.SEO.Robots = "noindex, nofollow"
	renderPage(w, r, "orders", vm)
}

// OrderDetailHandler renders one order with items and totals.
func OrderDetailHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	id, ok := pathParamInt(r, "orderID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	order, err := apiClient.Order(r.Context(), mw.Token(r.Context()), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	view := buildOrderView(lang, order)
	// payment status is authoritative on its own endpoint; the order
	// document can lag behind a refund or capture
	if ps, err := apiClient.OrderPaymentStatus(r.Context(), mw.Token(r.Context()), id); err == nil {
		if ps.PaymentStatus != "" {
			view.Summary.PaymentStatus = ps.PaymentStatus
		}
		view.TransactionID = ps.TransactionID
		view.refreshPayable()
	}

	vm := basePageData(r, lang, order.OrderNumber, "")
	vm.Order = view
	vm.SEO.Robots = "noindex, nofollow"
	renderPage(w, r, "order_detail", vm)
}

// OrderPayHandler retries payment for an order whose payment is still
// pending or was declined. Success reloads the detail page with the
// updated status; failures re-render the pay form in place.
func OrderPayHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	id, ok := pathParamInt(r, "orderID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	method := checkout.PaymentMethod(strings.TrimSpace(r.FormValue("payment_method")))
	card := checkout.CardDetails{
		Number:      r.FormValue("card_number"),
		ExpiryMonth: strings.TrimSpace(r.FormValue("expiry_month")),
		ExpiryYear:  strings.TrimSpace(r.FormValue("expiry_year")),
		CVV:         r.FormValue("cvv"),
	}

	if errs := checkout.ValidatePayment(method, card); len(errs) > 0 {
		renderOrderPayForm(w, r, id, lang, method, card, errs, "")
		return
	}

	wireMethod, wireCard := checkout.PaymentPayload(method, card)
	result, err := apiClient.PayOrder(r.Context(), mw.Token(r.Context()), id, api.PayOrderRequest{
		PaymentMethod: wireMethod,
		CardDetails:   wireCard,
	})
	if err != nil {
		msg := i18nOrDefault(lang, "orders.pay.failed", "Payment could not be processed. Please try again.")
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		renderOrderPayForm(w, r, id, lang, method, card, nil, msg)
		return
	}
	if !result.Success {
		renderOrderPayForm(w, r, id, lang, method, card, nil, result.Message)
		return
	}
	hxRedirect(w, r, fmt.Sprintf("/orders/%d", id))
}

// renderOrderPayForm re-renders the pay step with its errors: the bare
// fragment for htmx, the whole detail page otherwise.
func renderOrderPayForm(w http.ResponseWriter, r *http.Request, id int, lang string, method checkout.PaymentMethod, card checkout.CardDetails, errs map[string]string, alert string) {
	order, err := apiClient.Order(r.Context(), mw.Token(r.Context()), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	view := buildOrderView(lang, order)
	view.Payable = true
	if view.PayMethods == nil {
		view.PayMethods = methodOptions(method)
	}
	view.PayMethod = string(method)
	view.PayCardNumber = card.Number
	view.PayExpiryMonth = card.ExpiryMonth
	view.PayExpiryYear = card.ExpiryYear
	view.PayErrors = errs
	view.PayAlert = alert
	for i := range view.PayMethods {
		view.PayMethods[i].Selected = view.PayMethods[i].Value == string(method)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnprocessableEntity)
	if mw.IsHTMX(r.Context()) {
		renderTemplate(w, r, "frag_order_pay_form", view)
		return
	}
	vm := basePageData(r, lang, order.OrderNumber, "")
	vm.Order = view
	vm.SEO.Robots = "noindex, nofollow"
	renderPage(w, r, "order_detail", vm)
}

// OrderCancelHandler cancels an order; the backend restores stock and
// refunds completed payments.
func OrderCancelHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParamInt(r, "orderID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := apiClient.CancelOrder(r.Context(), mw.Token(r.Context()), id); err != nil {
		renderCartAlert(w, r, "error", i18nOrDefault(mw.Lang(r), "orders.cancel.failed", "This order can no longer be cancelled."))
		return
	}
	hxRedirect(w, r, "/orders")
}
