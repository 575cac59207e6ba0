package main

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/luxethreads/storefront-web/internal/checkout"
	mw "github.com/luxethreads/storefront-web/internal/middleware"
)

// sessionFlow fetches the live checkout flow for this session.
func sessionFlow(r *http.Request) (*checkout.Flow, bool) {
	sess := mw.GetSession(r)
	return flowStore.Get(sess.ID)
}

// startFlow constructs and enters a fresh flow wired to the session's
// credentials, replacing any previous one.
func startFlow(r *http.Request) (*checkout.Flow, error) {
	sess := mw.GetSession(r)
	token := sess.Token
	flow := checkout.New(
		apiClient,
		func() string { return token },
		func(ctx context.Context) error { return apiClient.ClearCart(ctx, token) },
	)
	if err := flow.Begin(r.Context()); err != nil {
		return nil, err
	}
	flowStore.Put(sess.ID, flow)
	return flow, nil
}

func stepPath(state checkout.State) string {
	switch state {
	case checkout.StateAddress:
		return "/checkout/address"
	case checkout.StatePayment:
		return "/checkout/payment"
	case checkout.StateReview:
		return "/checkout/review"
	case checkout.StateSuccess:
		return "/checkout/success"
	case checkout.StateError:
		return "/checkout/error"
	}
	return "/checkout"
}

// CheckoutEntryHandler starts (or resumes) checkout and routes to the
// current step. A finished flow starts over so the shopper can place
// another order.
func CheckoutEntryHandler(w http.ResponseWriter, r *http.Request) {
	flow, ok := sessionFlow(r)
	if ok && flow.State() != checkout.StateSuccess {
		http.Redirect(w, r, stepPath(flow.State()), http.StatusSeeOther)
		return
	}

	flow, err := startFlow(r)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrNotAuthenticated):
			hxRedirect(w, r, "/login?next=/checkout")
		case errors.Is(err, checkout.ErrEmptyCart):
			hxRedirect(w, r, "/cart")
		default:
			http.Error(w, "checkout unavailable", http.StatusBadGateway)
		}
		return
	}
	http.Redirect(w, r, stepPath(flow.State()), http.StatusSeeOther)
}

// requireStep loads the flow and normalizes mismatched navigation by
// redirecting to whatever step the flow is actually on.
func requireStep(w http.ResponseWriter, r *http.Request, states ...checkout.State) (*checkout.Flow, bool) {
	flow, ok := sessionFlow(r)
	if !ok {
		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
		return nil, false
	}
	current := flow.State()
	for _, s := range states {
		if current == s {
			return flow, true
		}
	}
	http.Redirect(w, r, stepPath(current), http.StatusSeeOther)
	return nil, false
}

// CheckoutAddressHandler renders the address step, pre-filling from
// the shopper profile on first visit.
func CheckoutAddressHandler(w http.ResponseWriter, r *http.Request) {
	flow, ok := requireStep(w, r, checkout.StateAddress)
	if !ok {
		return
	}
	lang := mw.Lang(r)
	view := buildCheckoutView(lang, flow)
	if view.ShippingAddress == "" {
		if me, err := apiClient.Me(r.Context(), mw.Token(r.Context())); err == nil && me.Address != "" {
			view.ShippingAddress = me.Address
			view.BillingAddress = me.Address
		}
	}
	renderCheckoutPage(w, r, "checkout_address", view)
}

// CheckoutAddressSubmitHandler validates and stores the address step.
func CheckoutAddressSubmitHandler(w http.ResponseWriter, r *http.Request) {
	flow, ok := requireStep(w, r, checkout.StateAddress)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	shipping := r.FormValue("shipping_address")
	billing := r.FormValue("billing_address")
	if r.FormValue("billing_same") == "1" {
		billing = shipping
	}

	fieldErrs, err := flow.SubmitAddresses(shipping, billing, r.FormValue("notes"))
	if err != nil {
		http.Redirect(w, r, stepPath(flow.State()), http.StatusSeeOther)
		return
	}
	if len(fieldErrs) > 0 {
		lang := mw.Lang(r)
		view := buildCheckoutView(lang, flow)
		view.ShippingAddress = strings.TrimSpace(shipping)
		view.BillingAddress = strings.TrimSpace(billing)
		view.Notes = strings.TrimSpace(r.FormValue("notes"))
		view.Errors = fieldErrs
		renderCheckoutForm(w, r, "checkout_address", "frag_checkout_address_form", view)
		return
	}
	hxRedirect(w, r, "/checkout/payment")
}

// CheckoutPaymentHandler renders the payment step. When the backend
// advertises its accepted methods the options are narrowed to match;
// if the call fails the full set stays available.
func CheckoutPaymentHandler(w http.ResponseWriter, r *http.Request) {
	flow, ok := requireStep(w, r, checkout.StatePayment)
	if !ok {
		return
	}
	view := buildCheckoutView(mw.Lang(r), flow)
	if available, err := apiClient.PaymentMethods(r.Context()); err == nil && len(available) > 0 {
		view.Methods = filterMethodOptions(view.Methods, available)
	}
	renderCheckoutPage(w, r, "checkout_payment", view)
}

// CheckoutPaymentSubmitHandler validates and stores the payment step.
// Card numbers are accepted with spaces or dashes; only digits count.
func CheckoutPaymentSubmitHandler(w http.ResponseWriter, r *http.Request) {
	flow, ok := requireStep(w, r, checkout.StatePayment)
	if !ok {
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

	fieldErrs, err := flow.SubmitPayment(method, card)
	if err != nil {
		http.Redirect(w, r, stepPath(flow.State()), http.StatusSeeOther)
		return
	}
	if len(fieldErrs) > 0 {
		lang := mw.Lang(r)
		view := buildCheckoutView(lang, flow)
		view.Method = string(method)
		view.Methods = methodOptions(method)
		view.CardNumber = card.Number
		view.ExpiryMonth = card.ExpiryMonth
		view.ExpiryYear = card.ExpiryYear
		view.Errors = fieldErrs
		renderCheckoutForm(w, r, "checkout_payment", "frag_checkout_payment_form", view)
		return
	}
	hxRedirect(w, r, "/checkout/review")
}

// CheckoutReviewHandler renders the order summary before submission.
func CheckoutReviewHandler(w http.ResponseWriter, r *http.Request) {
	flow, ok := requireStep(w, r, checkout.StateReview)
	if !ok {
		return
	}
	renderCheckoutPage(w, r, "checkout_review", buildCheckoutView(mw.Lang(r), flow))
}

// CheckoutBackHandler steps backwards without losing entered data.
func CheckoutBackHandler(w http.ResponseWriter, r *http.Request) {
	flow, ok := sessionFlow(r)
	if !ok {
		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
		return
	}
	if err := flow.Back(); err != nil {
		http.Redirect(w, r, stepPath(flow.State()), http.StatusSeeOther)
		return
	}
	hxRedirect(w, r, stepPath(flow.State()))
}

// CheckoutConfirmHandler submits the order and routes to success or
// the error step.
func CheckoutConfirmHandler(w http.ResponseWriter, r *http.Request) {
	flow, ok := requireStep(w, r, checkout.StateReview)
	if !ok {
		return
	}
	if err := flow.Confirm(r.Context()); err != nil {
		if errors.Is(err, checkout.ErrSubmissionInFlight) {
			hxRedirect(w, r, "/checkout/review")
			return
		}
		http.Redirect(w, r, stepPath(flow.State()), http.StatusSeeOther)
		return
	}
	hxRedirect(w, r, stepPath(flow.State()))
}

// CheckoutSuccessHandler renders the confirmation page.
func CheckoutSuccessHandler(w http.ResponseWriter, r *http.Request) {
	flow, ok := requireStep(w, r, checkout.StateSuccess)
	if !ok {
		return
	}
	renderCheckoutPage(w, r, "checkout_success", buildCheckoutView(mw.Lang(r), flow))
}

// CheckoutErrorHandler renders the classified failure with its
// recovery suggestion and a retry button.
func CheckoutErrorHandler(w http.ResponseWriter, r *http.Request) {
	flow, ok := requireStep(w, r, checkout.StateError)
	if !ok {
		return
	}
	renderCheckoutPage(w, r, "checkout_error", buildCheckoutView(mw.Lang(r), flow))
}

// CheckoutRetryHandler re-submits the same draft with the same
// idempotency key.
func CheckoutRetryHandler(w http.ResponseWriter, r *http.Request) {
	flow, ok := requireStep(w, r, checkout.StateError)
	if !ok {
		return
	}
	if err := flow.Retry(r.Context()); err != nil {
		http.Redirect(w, r, stepPath(flow.State()), http.StatusSeeOther)
		return
	}
	hxRedirect(w, r, stepPath(flow.State()))
}

func renderCheckoutPage(w http.ResponseWriter, r *http.Request, name string, view CheckoutView) {
	lang := view.Lang
	title := i18nOrDefault(lang, name+".title", "Checkout")
	vm := basePageData(r, lang, title, i18nOrDefault(lang, "checkout.desc", "Complete your Luxe Threads order."))
	vm.Checkout = view
	vm.SEO.Robots = "noindex, nofollow"
	renderPage(w, r, name, vm)
}

// renderCheckoutForm re-renders a step with validation errors: the
// bare form fragment for htmx, the whole page otherwise.
func renderCheckoutForm(w http.ResponseWriter, r *http.Request, page, frag string, view CheckoutView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnprocessableEntity)
	if mw.IsHTMX(r.Context()) {
		renderTemplate(w, r, frag, view)
		return
	}
	lang := view.Lang
	title := i18nOrDefault(lang, page+".title", "Checkout")
	vm := basePageData(r, lang, title, "")
	vm.Checkout = view
	vm.SEO.Robots = "noindex, nofollow"
	renderPage(w, r, page, vm)
}
