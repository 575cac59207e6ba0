package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const idempotencyHeader = "Idempotency-Key"

// FetchCheckoutPreview retrieves the backend-computed cart snapshot
// and totals shown during checkout. The preview is authoritative; the
// client never recomputes amounts from it.
func (c *Client) FetchCheckoutPreview(ctx context.Context, token string) (CheckoutPreview, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/cart/checkout-preview", nil, token)
	if err != nil {
		return CheckoutPreview{}, err
	}
	var preview CheckoutPreview
	if err := c.do(req, &preview); err != nil {
		return CheckoutPreview{}, err
	}
	return preview, nil
}

// SubmitCheckout posts the order. The idempotency key is attached as a
// header and must be reused unchanged when the same draft is retried,
// so the backend can deduplicate double submissions.
//
// The backend reports business-rule failures as HTTP 400 with the
// result payload nested under "detail"; those come back as a
// CheckoutResult with Success=false rather than an error. Transport
// and protocol failures are returned as errors for classification.
func (c *Client) SubmitCheckout(ctx context.Context, token string, body CheckoutRequest, idempotencyKey string) (CheckoutResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/checkout", body, token)
	if err != nil {
		return CheckoutResult{}, err
	}
	if idempotencyKey != "" {
		req.Header.Set(idempotencyHeader, idempotencyKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return CheckoutResult{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("api: read checkout response: %w", err)
	}

	if resp.StatusCode < 400 {
		var res CheckoutResult
		if err := json.Unmarshal(raw, &res); err != nil {
			return CheckoutResult{}, fmt.Errorf("api: decode checkout response: %w", err)
		}
		return res, nil
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Detail) > 0 {
		var res CheckoutResult
		if err := json.Unmarshal(envelope.Detail, &res); err == nil && res.ErrorType != "" {
			res.Success = false
			return res, nil
		}
	}
	return CheckoutResult{}, errorFromBody(resp.StatusCode, raw)
}

// PaymentMethods lists the payment methods the backend accepts, keyed
// by method value (credit_card, upi, ...).
func (c *Client) PaymentMethods(ctx context.Context) (map[string]PaymentMethodInfo, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/payment-methods", nil, "")
	if err != nil {
		return nil, err
	}
	var methods map[string]PaymentMethodInfo
	if err := c.do(req, &methods); err != nil {
		return nil, err
	}
	return methods, nil
}
