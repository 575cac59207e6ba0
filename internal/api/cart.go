package api

import (
	"context"
	"fmt"
	"net/http"
)

// CartItems lists the shopper's cart lines.
func (c *Client) CartItems(ctx context.Context, token string) ([]CartItem, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/cart", nil, token)
	if err != nil {
		return nil, err
	}
	var items []CartItem
	if err := c.do(req, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart adds quantity of a product, merging with an existing line.
func (c *Client) AddToCart(ctx context.Context, token string, productID, quantity int) (CartItem, error) {
	body := map[string]int{"product_id": productID, "quantity": quantity}
	req, err := c.newRequest(ctx, http.MethodPost, "/cart", body, token)
	if err != nil {
		return CartItem{}, err
	}
	var item CartItem
	if err := c.do(req, &item); err != nil {
		return CartItem{}, err
	}
	return item, nil
}

// UpdateCartItem replaces the quantity of one cart line.
func (c *Client) UpdateCartItem(ctx context.Context, token string, itemID, quantity int) error {
	body := map[string]int{"quantity": quantity}
	req, err := c.newRequest(ctx, http.MethodPut, fmt.Sprintf("/cart/%d", itemID), body, token)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// RemoveCartItem deletes one cart line.
func (c *Client) RemoveCartItem(ctx context.Context, token string, itemID int) error {
	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/cart/%d", itemID), nil, token)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// ClearCart removes every cart line for the shopper.
func (c *Client) ClearCart(ctx context.Context, token string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/cart", nil, token)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
