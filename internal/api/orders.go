package api

import (
	"context"
	"fmt"
	"net/http"
)

// Orders lists the shopper's order history, newest first.
func (c *Client) Orders(ctx context.Context, token string) ([]Order, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/orders", nil, token)
	if err != nil {
		return nil, err
	}
	var orders []Order
	if err := c.do(req, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Order fetches one order with its items.
func (c *Client) Order(ctx context.Context, token string, id int) (Order, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, token)
	if err != nil {
		return Order{}, err
	}
	var order Order
	if err := c.do(req, &order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// CancelOrder cancels a processing or confirmed order; the backend
// restores stock and refunds when payment had succeeded.
func (c *Client) CancelOrder(ctx context.Context, token string, id int) error {
	req, err := c.newRequest(ctx, http.MethodPut, fmt.Sprintf("/orders/%d/cancel", id), nil, token)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// PayOrder retries payment for an order whose payment is still
// pending. The backend rejects orders already paid or refunded.
func (c *Client) PayOrder(ctx context.Context, token string, id int, body PayOrderRequest) (PaymentResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/pay", id), body, token)
	if err != nil {
		return PaymentResult{}, err
	}
	var result PaymentResult
	if err := c.do(req, &result); err != nil {
		return PaymentResult{}, err
	}
	return result, nil
}

// OrderPaymentStatus reports payment state for an order, used by the
// tracking view.
func (c *Client) OrderPaymentStatus(ctx context.Context, token string, id int) (PaymentStatus, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/orders/%d/payment-status", id), nil, token)
	if err != nil {
		return PaymentStatus{}, err
	}
	var status PaymentStatus
	if err := c.do(req, &status); err != nil {
		return PaymentStatus{}, err
	}
	return status, nil
}
