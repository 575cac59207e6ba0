package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient("", nil)
	require.Error(t, err)

	_, err = NewClient("   ", nil)
	require.Error(t, err)

	c, err := NewClient("http://backend:8000/", nil)
	require.NoError(t, err)
	require.NotNil(t, c)
}

func TestRequestCarriesAuthAndContentHeaders(t *testing.T) {
	t.Parallel()

	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 1, "email": "a@b.test"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	_, err = c.Me(context.Background(), "tok-123")
	require.NoError(t, err)
	require.Equal(t, "/me", got.URL.Path)
	require.Equal(t, "Bearer tok-123", got.Header.Get("Authorization"))
	require.Equal(t, "application/json", got.Header.Get("Accept"))
}

func TestLoginDecodesToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "a@b.test", body["email"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "tok-9", "token_type": "bearer"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	tok, err := c.Login(context.Background(), "a@b.test", "secret")
	require.NoError(t, err)
	require.Equal(t, "tok-9", tok.AccessToken)
}

func TestErrorResponsesUnwrapDetailEnvelope(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"string detail", 401, `{"detail": "Invalid credentials"}`, "Invalid credentials"},
		{"structured detail", 400, `{"detail": {"error": "Address too short"}}`, "Address too short"},
		{"no envelope", 500, `upstream exploded`, "upstream exploded"},
		{"empty body", 503, ``, ""},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(tc.body))
		}))

		c, err := NewClient(srv.URL, srv.Client())
		require.NoError(t, err, tc.name)

		_, err = c.Me(context.Background(), "tok")
		srv.Close()

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr, tc.name)
		require.Equal(t, tc.status, apiErr.Status, tc.name)
		require.Equal(t, tc.wantMsg, apiErr.Message, tc.name)
	}
}

func TestProductFilterQuery(t *testing.T) {
	t.Parallel()

	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products": [], "total": 0, "page": 1, "limit": 12, "total_pages": 0}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	featured := true
	_, err = c.Products(context.Background(), ProductFilter{
		Category: "evening",
		Featured: &featured,
		MinPrice: 500,
		Search:   " silk ",
		Page:     2,
		Limit:    12,
	})
	require.NoError(t, err)
	require.Equal(t, "category=evening&featured=true&limit=12&min_price=500&page=2&search=silk", got)

	// zero-valued filter sends no query at all
	_, err = c.Products(context.Background(), ProductFilter{})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSubmitCheckoutSendsIdempotencyKey(t *testing.T) {
	t.Parallel()

	var keys []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "order_id": 3, "order_number": "LUX-20250101-ABCDEF12", "final_amount": 2499.0}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	body := CheckoutRequest{
		ShippingAddress: "221B Baker Street, London",
		BillingAddress:  "221B Baker Street, London",
		PaymentMethod:   "upi",
	}
	res, err := c.SubmitCheckout(context.Background(), "tok", body, "key-1")
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, "LUX-20250101-ABCDEF12", res.OrderNumber)

	_, err = c.SubmitCheckout(context.Background(), "tok", body, "key-1")
	require.NoError(t, err)
	require.Equal(t, []string{"key-1", "key-1"}, keys)
}

func TestSubmitCheckoutUnwrapsBusinessFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": {"success": false, "error": "Item out of stock", "error_type": "checkout_error"}}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	res, err := c.SubmitCheckout(context.Background(), "tok", CheckoutRequest{}, "key-1")
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, "Item out of stock", res.Error)
	require.Equal(t, "checkout_error", res.ErrorType)
}

func TestSubmitCheckoutStructuredFailureWithoutType(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Not authenticated"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	_, err = c.SubmitCheckout(context.Background(), "", CheckoutRequest{}, "key-1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Equal(t, "Not authenticated", apiErr.Message)
}

func TestCartRoundTrip(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /cart", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, 5, body["product_id"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 11, "product_id": 5, "product_name": "Silk Evening Gown", "price": 1999.0, "quantity": 2, "total": 3998.0}`))
	})
	mux.HandleFunc("DELETE /cart/11", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	item, err := c.AddToCart(context.Background(), "tok", 5, 2)
	require.NoError(t, err)
	require.Equal(t, 11, item.ID)
	require.Equal(t, 3998.0, item.Total)

	require.NoError(t, c.RemoveCartItem(context.Background(), "tok", 11))
}

func TestFetchCheckoutPreviewDecodesTotals(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cart/checkout-preview", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"has_items": true,
			"item_count": 2,
			"valid_items": [{"product_name": "Silk Evening Gown", "quantity": 2, "price": 1999.0, "total": 3998.0}],
			"totals": {"subtotal": 3998.0, "discount_amount": 199.9, "discount_rate": 0.05, "tax_amount": 683.66, "shipping_amount": 0, "final_amount": 4481.76},
			"user_loyalty": {"score": 120, "discount_rate": 0.05, "discount_amount": 199.9}
		}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	preview, err := c.FetchCheckoutPreview(context.Background(), "tok")
	require.NoError(t, err)
	require.True(t, preview.HasItems)
	require.Len(t, preview.Items, 1)
	require.Equal(t, 4481.76, preview.Totals.FinalAmount)
	require.Equal(t, 120, preview.Loyalty.Score)
}

func TestPaymentMethodsDecodesCatalog(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payment-methods", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"credit_card": {"name": "Credit Card", "description": "Visa, MasterCard", "icon": "credit-card", "min_amount": 10, "max_amount": 50000},
			"upi": {"name": "UPI", "description": "GPay, PhonePe", "min_amount": 1, "max_amount": 100000}
		}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	methods, err := c.PaymentMethods(context.Background())
	require.NoError(t, err)
	require.Len(t, methods, 2)
	require.Equal(t, "UPI", methods["upi"].Name)
	require.Equal(t, 50000.0, methods["credit_card"].MaxAmount)
}

func TestChatHistoryDecodesTranscript(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/session/sess-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"session": {"session_id": "sess-1", "status": "active"},
			"messages": [
				{"id": 1, "type": "user", "content": "show me sarees"},
				{"id": 2, "type": "assistant", "agent": "product_search", "content": "Here are a few picks."}
			]
		}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	hist, err := c.ChatHistory(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Len(t, hist.Messages, 2)
	require.Equal(t, "user", hist.Messages[0].Type)
	require.Equal(t, "product_search", hist.Messages[1].Agent)
}
