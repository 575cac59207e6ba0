package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/luxethreads/storefront-web/internal/api"
)

// State names a step of the checkout flow. Success is terminal; error
// is recoverable back into review via retry.
type State string

const (
	StateAddress State = "address"
	StatePayment State = "payment"
	StateReview  State = "review"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Backend is the remote collaborator the flow submits against.
type Backend interface {
	FetchCheckoutPreview(ctx context.Context, token string) (api.CheckoutPreview, error)
	SubmitCheckout(ctx context.Context, token string, body api.CheckoutRequest, idempotencyKey string) (api.CheckoutResult, error)
}

// TokenSource supplies the shopper's bearer token. Injected rather
// than read from ambient storage so flows are deterministic in tests.
type TokenSource func() string

// CartClearer empties the shopper's cart after a confirmed order.
type CartClearer func(ctx context.Context) error

var (
	// ErrNotAuthenticated means no token was available at flow entry.
	ErrNotAuthenticated = errors.New("checkout: not authenticated")
	// ErrEmptyCart means the preview reported no purchasable items.
	ErrEmptyCart = errors.New("checkout: cart is empty")
	// ErrSubmissionInFlight means a confirm call is already running.
	ErrSubmissionInFlight = errors.New("checkout: submission already in flight")
	// ErrInvalidTransition means the requested step does not follow
	// from the current state.
	ErrInvalidTransition = errors.New("checkout: invalid state transition")
)

// Failure describes a classified submission failure shown on the
// error step.
type Failure struct {
	Type       ErrorType
	Message    string
	Suggestion string
}

// Flow drives one checkout session from address entry through
// submission. Validation here is advisory; the backend is the final
// authority on addresses, card validity, and balance.
type Flow struct {
	mu        sync.Mutex
	backend   Backend
	token     TokenSource
	clearCart CartClearer

	state   State
	draft   Draft
	preview api.CheckoutPreview

	// attemptKey is generated once per draft and reused verbatim on
	// retries so the backend can deduplicate double submissions.
	attemptKey  string
	inFlight    bool
	cartCleared bool

	orderID     int
	orderNumber string
	failure     *Failure
}

// New constructs a Flow with its collaborators injected.
func New(backend Backend, token TokenSource, clearCart CartClearer) *Flow {
	return &Flow{
		backend:   backend,
		token:     token,
		clearCart: clearCart,
	}
}

// Begin enters the flow: verifies a token is present, fetches the
// preview once, and lands on the address step. An empty cart aborts
// with ErrEmptyCart so the caller can route back to the shop.
func (f *Flow) Begin(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tok := f.token()
	if strings.TrimSpace(tok) == "" {
		return ErrNotAuthenticated
	}
	preview, err := f.backend.FetchCheckoutPreview(ctx, tok)
	if err != nil {
		return err
	}
	if !preview.HasItems {
		return ErrEmptyCart
	}
	f.preview = preview
	f.state = StateAddress
	f.attemptKey = uuid.NewString()
	return nil
}

// State returns the current step.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Preview returns the snapshot fetched at entry. It is never
// recomputed against draft edits.
func (f *Flow) Preview() api.CheckoutPreview {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.preview
}

// Draft returns a copy of the current form state.
func (f *Flow) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Failure returns the classified failure for the error step, or nil.
func (f *Flow) Failure() *Failure {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failure == nil {
		return nil
	}
	cp := *f.failure
	return &cp
}

// OrderNumber returns the confirmed order number once successful.
func (f *Flow) OrderNumber() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orderNumber
}

// OrderID returns the confirmed order id once successful.
func (f *Flow) OrderID() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orderID
}

// AttemptKey exposes the idempotency key for the current draft.
func (f *Flow) AttemptKey() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attemptKey
}

// SubmitAddresses validates and persists the address step. On any
// validation failure the draft is left untouched.
func (f *Flow) SubmitAddresses(shipping, billing, notes string) (FieldErrors, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateAddress {
		return nil, ErrInvalidTransition
	}
	shipping = strings.TrimSpace(shipping)
	billing = strings.TrimSpace(billing)
	if errs := validateAddresses(shipping, billing); len(errs) > 0 {
		return errs, nil
	}
	f.draft.ShippingAddress = shipping
	f.draft.BillingAddress = billing
	f.draft.Notes = strings.TrimSpace(notes)
	f.state = StatePayment
	return nil, nil
}

// SubmitPayment validates and persists the payment step. Card checks
// apply only to card methods.
func (f *Flow) SubmitPayment(method PaymentMethod, card CardDetails) (FieldErrors, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StatePayment {
		return nil, ErrInvalidTransition
	}
	if errs := validatePayment(method, card); len(errs) > 0 {
		return errs, nil
	}
	f.draft.Method = method
	if method.RequiresCard() {
		f.draft.Card = card
	} else {
		f.draft.Card = CardDetails{}
	}
	f.state = StateReview
	return nil, nil
}

// Back steps from payment to address or review to payment without
// touching the draft.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case StatePayment:
		f.state = StateAddress
	case StateReview:
		f.state = StatePayment
	default:
		return ErrInvalidTransition
	}
	return nil
}

// Confirm submits the draft. Allowed from review, and from error as a
// user-initiated retry (same draft, same idempotency key, no
// re-validation). Submission failures never propagate as errors: they
// are classified into the taxonomy and parked in the error state with
// the draft preserved. The cart is cleared exactly once, and only
// after success is observed.
func (f *Flow) Confirm(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateReview && f.state != StateError {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	if f.inFlight {
		f.mu.Unlock()
		return ErrSubmissionInFlight
	}
	f.inFlight = true
	tok := f.token()
	body := f.requestBody()
	key := f.attemptKey
	f.mu.Unlock()

	res, err := f.backend.SubmitCheckout(ctx, tok, body, key)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false

	if err != nil {
		t := Classify(err)
		f.fail(t, err.Error())
		return nil
	}
	if !res.Success {
		t := ParseErrorType(res.ErrorType)
		msg := res.Error
		if msg == "" {
			msg = "Checkout could not be completed."
		}
		f.fail(t, msg)
		return nil
	}

	f.state = StateSuccess
	f.failure = nil
	f.orderID = res.OrderID
	f.orderNumber = res.OrderNumber
	if !f.cartCleared && f.clearCart != nil {
		// Best effort: the order exists regardless; the cart view
		// reconciles with the backend on next load.
		_ = f.clearCart(ctx)
		f.cartCleared = true
	}
	return nil
}

// Retry re-attempts submission from the error state.
func (f *Flow) Retry(ctx context.Context) error {
	if f.State() != StateError {
		return ErrInvalidTransition
	}
	return f.Confirm(ctx)
}

func (f *Flow) fail(t ErrorType, msg string) {
	f.state = StateError
	f.failure = &Failure{Type: t, Message: msg, Suggestion: Suggestion(t)}
}

// requestBody builds the wire payload from the draft. Called with the
// lock held; the result depends only on draft contents so retries send
// identical bodies.
func (f *Flow) requestBody() api.CheckoutRequest {
	body := api.CheckoutRequest{
		ShippingAddress: f.draft.ShippingAddress,
		BillingAddress:  f.draft.BillingAddress,
		PaymentMethod:   string(f.draft.Method),
		Notes:           f.draft.Notes,
	}
	if f.draft.Method.RequiresCard() {
		body.CardDetails = &api.CardDetails{
			Number:      digitsOnly(f.draft.Card.Number),
			ExpiryMonth: f.draft.Card.ExpiryMonth,
			ExpiryYear:  f.draft.Card.ExpiryYear,
			CVV:         digitsOnly(f.draft.Card.CVV),
		}
	}
	return body
}
