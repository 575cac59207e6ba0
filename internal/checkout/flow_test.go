package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxethreads/storefront-web/internal/api"
)

type submission struct {
	body api.CheckoutRequest
	key  string
}

type fakeBackend struct {
	mu          sync.Mutex
	preview     api.CheckoutPreview
	previewErr  error
	submitFn    func(body api.CheckoutRequest, key string) (api.CheckoutResult, error)
	submissions []submission
}

func (b *fakeBackend) FetchCheckoutPreview(ctx context.Context, token string) (api.CheckoutPreview, error) {
	if b.previewErr != nil {
		return api.CheckoutPreview{}, b.previewErr
	}
	return b.preview, nil
}

func (b *fakeBackend) SubmitCheckout(ctx context.Context, token string, body api.CheckoutRequest, key string) (api.CheckoutResult, error) {
	b.mu.Lock()
	b.submissions = append(b.submissions, submission{body: body, key: key})
	b.mu.Unlock()
	if b.submitFn != nil {
		return b.submitFn(body, key)
	}
	return api.CheckoutResult{Success: true}, nil
}

func (b *fakeBackend) recorded() []submission {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]submission, len(b.submissions))
	copy(out, b.submissions)
	return out
}

func stockedPreview() api.CheckoutPreview {
	return api.CheckoutPreview{
		HasItems:  true,
		ItemCount: 1,
		Items: []api.PreviewItem{
			{Name: "Silk Evening Gown", Quantity: 1, UnitPrice: 1999, LineTotal: 1999},
		},
		Totals: api.Totals{Subtotal: 1999, FinalAmount: 1999},
	}
}

func staticToken(tok string) TokenSource {
	return func() string { return tok }
}

// beganFlow returns a flow already past Begin, on the address step.
func beganFlow(t *testing.T, backend *fakeBackend, clear CartClearer) *Flow {
	t.Helper()
	f := New(backend, staticToken("tok-1"), clear)
	require.NoError(t, f.Begin(context.Background()))
	require.Equal(t, StateAddress, f.State())
	return f
}

// reviewFlow walks a flow to the review step with a valid UPI draft.
func reviewFlow(t *testing.T, backend *fakeBackend, clear CartClearer) *Flow {
	t.Helper()
	f := beganFlow(t, backend, clear)
	errs, err := f.SubmitAddresses("221B Baker Street, London", "221B Baker Street, London", "")
	require.NoError(t, err)
	require.Empty(t, errs)
	errs, err = f.SubmitPayment(UPI, CardDetails{})
	require.NoError(t, err)
	require.Empty(t, errs)
	require.Equal(t, StateReview, f.State())
	return f
}

func TestBeginRequiresToken(t *testing.T) {
	t.Parallel()

	f := New(&fakeBackend{preview: stockedPreview()}, staticToken(""), nil)
	err := f.Begin(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestBeginEmptyCartAborts(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{preview: api.CheckoutPreview{HasItems: false}}
	f := New(backend, staticToken("tok-1"), nil)
	err := f.Begin(context.Background())
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestBeginPreviewFailurePropagates(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{previewErr: &api.APIError{Status: 500, Message: "boom"}}
	f := New(backend, staticToken("tok-1"), nil)
	err := f.Begin(context.Background())
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
}

func TestShortAddressesRejectedAndDraftUnchanged(t *testing.T) {
	t.Parallel()

	f := beganFlow(t, &fakeBackend{preview: stockedPreview()}, nil)

	for _, tc := range []struct {
		name     string
		shipping string
		billing  string
	}{
		{"both empty", "", ""},
		{"shipping short", "short", "221B Baker Street, London"},
		{"billing short", "221B Baker Street, London", "too short"},
		{"nine chars", "123456789", "123456789"},
		{"six devanagari chars", "दिल्ली", "221B Baker Street, London"},
		{"whitespace padding", "   short    ", "221B Baker Street, London"},
	} {
		errs, err := f.SubmitAddresses(tc.shipping, tc.billing, "")
		require.NoError(t, err, tc.name)
		require.NotEmpty(t, errs, tc.name)
		require.Equal(t, StateAddress, f.State(), tc.name)
		require.Equal(t, Draft{}, f.Draft(), tc.name)
	}
}

func TestAddressSubmitAdvancesToPayment(t *testing.T) {
	t.Parallel()

	f := beganFlow(t, &fakeBackend{preview: stockedPreview()}, nil)
	errs, err := f.SubmitAddresses("  221B Baker Street, London  ", "42 Marine Drive, Mumbai", "ring the bell")
	require.NoError(t, err)
	require.Empty(t, errs)
	require.Equal(t, StatePayment, f.State())

	draft := f.Draft()
	require.Equal(t, "221B Baker Street, London", draft.ShippingAddress)
	require.Equal(t, "42 Marine Drive, Mumbai", draft.BillingAddress)
	require.Equal(t, "ring the bell", draft.Notes)
}

func TestCardNumberMustNormalizeToSixteenDigits(t *testing.T) {
	t.Parallel()

	f := beganFlow(t, &fakeBackend{preview: stockedPreview()}, nil)
	errs, err := f.SubmitAddresses("221B Baker Street, London", "221B Baker Street, London", "")
	require.NoError(t, err)
	require.Empty(t, errs)

	for _, tc := range []struct {
		name   string
		number string
		ok     bool
	}{
		{"plain sixteen", "4111111111111111", true},
		{"spaced sixteen", "4111 1111 1111 1111", true},
		{"dashed sixteen", "4111-1111-1111-1111", true},
		{"fifteen digits", "411111111111111", false},
		{"seventeen digits", "41111111111111111", false},
		{"letters only", "not a card number", false},
		{"empty", "", false},
	} {
		errs, err := f.SubmitPayment(CreditCard, CardDetails{
			Number:      tc.number,
			ExpiryMonth: "04",
			ExpiryYear:  "2028",
			CVV:         "123",
		})
		require.NoError(t, err, tc.name)
		if tc.ok {
			require.Empty(t, errs, tc.name)
			require.Equal(t, StateReview, f.State(), tc.name)
			require.NoError(t, f.Back(), tc.name) // back to payment for next case
		} else {
			require.Contains(t, errs, "card_number", tc.name)
			require.Equal(t, StatePayment, f.State(), tc.name)
		}
	}
}

func TestCVVMustNormalizeToThreeOrFourDigits(t *testing.T) {
	t.Parallel()

	f := beganFlow(t, &fakeBackend{preview: stockedPreview()}, nil)
	errs, err := f.SubmitAddresses("221B Baker Street, London", "221B Baker Street, London", "")
	require.NoError(t, err)
	require.Empty(t, errs)

	for _, tc := range []struct {
		name string
		cvv  string
		ok   bool
	}{
		{"three digits", "123", true},
		{"four digits", "1234", true},
		{"spaced four", "1 2 3 4", true},
		{"two digits", "12", false},
		{"five digits", "12345", false},
		{"letters", "abc", false},
		{"empty", "", false},
	} {
		errs, err := f.SubmitPayment(DebitCard, CardDetails{
			Number:      "4111111111111111",
			ExpiryMonth: "04",
			ExpiryYear:  "2028",
			CVV:         tc.cvv,
		})
		require.NoError(t, err, tc.name)
		if tc.ok {
			require.Empty(t, errs, tc.name)
			require.NoError(t, f.Back(), tc.name)
		} else {
			require.Contains(t, errs, "cvv", tc.name)
			require.Equal(t, StatePayment, f.State(), tc.name)
		}
	}
}

func TestExpiryRequiredForCardMethods(t *testing.T) {
	t.Parallel()

	f := beganFlow(t, &fakeBackend{preview: stockedPreview()}, nil)
	errs, err := f.SubmitAddresses("221B Baker Street, London", "221B Baker Street, London", "")
	require.NoError(t, err)
	require.Empty(t, errs)

	errs, err = f.SubmitPayment(CreditCard, CardDetails{Number: "4111111111111111", CVV: "123"})
	require.NoError(t, err)
	require.Contains(t, errs, "expiry_month")
	require.Contains(t, errs, "expiry_year")
}

func TestNonCardMethodsSkipCardChecks(t *testing.T) {
	t.Parallel()

	for _, method := range []PaymentMethod{UPI, Wallet, NetBanking} {
		f := beganFlow(t, &fakeBackend{preview: stockedPreview()}, nil)
		errs, err := f.SubmitAddresses("221B Baker Street, London", "221B Baker Street, London", "")
		require.NoError(t, err)
		require.Empty(t, errs)

		errs, err = f.SubmitPayment(method, CardDetails{})
		require.NoError(t, err, method)
		require.Empty(t, errs, method)
		require.Equal(t, StateReview, f.State(), method)
	}
}

func TestBackRetainsDraftFields(t *testing.T) {
	t.Parallel()

	f := reviewFlow(t, &fakeBackend{preview: stockedPreview()}, nil)

	require.NoError(t, f.Back())
	require.Equal(t, StatePayment, f.State())
	require.NoError(t, f.Back())
	require.Equal(t, StateAddress, f.State())
	require.ErrorIs(t, f.Back(), ErrInvalidTransition)

	draft := f.Draft()
	require.Equal(t, "221B Baker Street, London", draft.ShippingAddress)
	require.Equal(t, UPI, draft.Method)
}

func TestConfirmSuccessClearsCartOnceAndRecordsOrder(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{preview: stockedPreview()}
	backend.submitFn = func(body api.CheckoutRequest, key string) (api.CheckoutResult, error) {
		return api.CheckoutResult{Success: true, OrderID: 7, OrderNumber: "ORD-1001", FinalAmount: 1999}, nil
	}

	clears := 0
	f := reviewFlow(t, backend, func(ctx context.Context) error {
		// The cart must only ever be cleared after success came back.
		require.NotEmpty(t, backend.recorded())
		clears++
		return nil
	})

	require.NoError(t, f.Confirm(context.Background()))
	require.Equal(t, StateSuccess, f.State())
	require.Equal(t, "ORD-1001", f.OrderNumber())
	require.Equal(t, 7, f.OrderID())
	require.Equal(t, 1, clears)

	// success is terminal
	require.ErrorIs(t, f.Confirm(context.Background()), ErrInvalidTransition)
	require.Equal(t, 1, clears)
}

func TestConfirmBusinessFailureMovesToErrorWithoutClearingCart(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{preview: stockedPreview()}
	backend.submitFn = func(body api.CheckoutRequest, key string) (api.CheckoutResult, error) {
		return api.CheckoutResult{Success: false, Error: "Item out of stock", ErrorType: "checkout_error"}, nil
	}

	clears := 0
	f := reviewFlow(t, backend, func(ctx context.Context) error { clears++; return nil })

	require.NoError(t, f.Confirm(context.Background()))
	require.Equal(t, StateError, f.State())
	require.Zero(t, clears)

	failure := f.Failure()
	require.NotNil(t, failure)
	require.Equal(t, ErrorCheckout, failure.Type)
	require.Equal(t, "Item out of stock", failure.Message)
	require.Equal(t, Suggestion(ErrorCheckout), failure.Suggestion)

	// draft preserved for retry
	require.Equal(t, "221B Baker Street, London", f.Draft().ShippingAddress)
}

func TestConfirmTransportErrorClassified(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{preview: stockedPreview()}
	backend.submitFn = func(body api.CheckoutRequest, key string) (api.CheckoutResult, error) {
		return api.CheckoutResult{}, errors.New("request failed with status 401")
	}

	f := reviewFlow(t, backend, nil)
	require.NoError(t, f.Confirm(context.Background()))

	failure := f.Failure()
	require.NotNil(t, failure)
	require.Equal(t, ErrorAuthentication, failure.Type)
}

func TestRetrySendsIdenticalBodyAndKey(t *testing.T) {
	t.Parallel()

	attempts := 0
	backend := &fakeBackend{preview: stockedPreview()}
	backend.submitFn = func(body api.CheckoutRequest, key string) (api.CheckoutResult, error) {
		attempts++
		if attempts < 3 {
			return api.CheckoutResult{Success: false, Error: "try later", ErrorType: "system_error"}, nil
		}
		return api.CheckoutResult{Success: true, OrderNumber: "ORD-1002"}, nil
	}

	f := reviewFlow(t, backend, func(ctx context.Context) error { return nil })
	require.NoError(t, f.Confirm(context.Background()))
	require.Equal(t, StateError, f.State())
	require.NoError(t, f.Retry(context.Background()))
	require.Equal(t, StateError, f.State())
	require.NoError(t, f.Retry(context.Background()))
	require.Equal(t, StateSuccess, f.State())

	subs := backend.recorded()
	require.Len(t, subs, 3)
	for _, s := range subs[1:] {
		require.Equal(t, subs[0].body, s.body)
		require.Equal(t, subs[0].key, s.key)
	}
	require.Equal(t, f.AttemptKey(), subs[0].key)
}

func TestRetryOnlyValidFromErrorState(t *testing.T) {
	t.Parallel()

	f := reviewFlow(t, &fakeBackend{preview: stockedPreview()}, nil)
	require.ErrorIs(t, f.Retry(context.Background()), ErrInvalidTransition)
}

func TestConfirmRejectsOverlappingSubmissions(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	backend := &fakeBackend{preview: stockedPreview()}
	backend.submitFn = func(body api.CheckoutRequest, key string) (api.CheckoutResult, error) {
		close(started)
		<-release
		return api.CheckoutResult{Success: true, OrderNumber: "ORD-1003"}, nil
	}

	f := reviewFlow(t, backend, func(ctx context.Context) error { return nil })

	done := make(chan error, 1)
	go func() { done <- f.Confirm(context.Background()) }()

	<-started
	require.ErrorIs(t, f.Confirm(context.Background()), ErrSubmissionInFlight)
	close(release)
	require.NoError(t, <-done)
	require.Equal(t, StateSuccess, f.State())
}

func TestUpiScenarioEndToEnd(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{preview: stockedPreview()}
	backend.submitFn = func(body api.CheckoutRequest, key string) (api.CheckoutResult, error) {
		return api.CheckoutResult{Success: true, OrderNumber: "ORD-1001"}, nil
	}

	f := beganFlow(t, backend, func(ctx context.Context) error { return nil })
	errs, err := f.SubmitAddresses("221B Baker Street, London", "221B Baker Street, London", "")
	require.NoError(t, err)
	require.Empty(t, errs)
	errs, err = f.SubmitPayment(UPI, CardDetails{})
	require.NoError(t, err)
	require.Empty(t, errs)
	require.NoError(t, f.Confirm(context.Background()))

	require.Equal(t, StateSuccess, f.State())
	require.Equal(t, "ORD-1001", f.OrderNumber())

	subs := backend.recorded()
	require.Len(t, subs, 1)
	require.Equal(t, "upi", subs[0].body.PaymentMethod)
	require.Nil(t, subs[0].body.CardDetails)
}

func TestCardSubmissionCarriesNormalizedCardDetails(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{preview: stockedPreview()}
	f := beganFlow(t, backend, func(ctx context.Context) error { return nil })
	errs, err := f.SubmitAddresses("221B Baker Street, London", "221B Baker Street, London", "")
	require.NoError(t, err)
	require.Empty(t, errs)
	errs, err = f.SubmitPayment(CreditCard, CardDetails{
		Number:      "4111 1111 1111 1111",
		ExpiryMonth: "09",
		ExpiryYear:  "2027",
		CVV:         "123",
	})
	require.NoError(t, err)
	require.Empty(t, errs)
	require.NoError(t, f.Confirm(context.Background()))

	subs := backend.recorded()
	require.Len(t, subs, 1)
	require.NotNil(t, subs[0].body.CardDetails)
	require.Equal(t, "4111111111111111", subs[0].body.CardDetails.Number)
	require.Equal(t, "123", subs[0].body.CardDetails.CVV)
}
