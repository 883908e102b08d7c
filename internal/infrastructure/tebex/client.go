package tebex

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/fjordbyte/vipps-checkout-gateway/internal/application"
	"github.com/fjordbyte/vipps-checkout-gateway/internal/config"
)

const secretHeader = "X-Buycraft-Secret"

// Client talks to the store's webhook API for one account, authenticated
// by the account's shared secret.
type Client struct {
	base   string
	secret string
	http   *resty.Client
}

func NewClient(cfg config.StoreConfig, secret string) *Client {
	return &Client{
		base:   cfg.BaseURL,
		secret: secret,
		http:   resty.New().SetTimeout(cfg.ConnTimeout),
	}
}

var _ application.TebexClient = (*Client)(nil)

// Information fetches the store's identity (name, shop domain). Fetched
// once during account setup.
func (c *Client) Information(ctx context.Context) (*application.StoreInformation, error) {
	var info application.StoreInformation
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(secretHeader, c.secret).
		SetResult(&info).
		Get(c.base + "/information")
	if err != nil {
		return nil, fmt.Errorf("fetch store information: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, newStoreError("information", resp)
	}

	return &info, nil
}

// Payment reads the store-side payment for the order.
func (c *Client) Payment(ctx context.Context, orderID string) (*application.StorePayment, error) {
	var payment application.StorePayment
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(secretHeader, c.secret).
		SetResult(&payment).
		Get(fmt.Sprintf("%s/payments/%s", c.base, orderID))
	if err != nil {
		return nil, fmt.Errorf("fetch store payment %s: %w", orderID, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, newStoreError("payments", resp)
	}

	return &payment, nil
}

// ConfirmPayment marks the store order complete. The store answers 204 on
// success; anything else means the order was not confirmed.
func (c *Client) ConfirmPayment(ctx context.Context, orderID string) (bool, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(secretHeader, c.secret).
		SetBody(map[string]string{"status": "complete"}).
		Put(fmt.Sprintf("%s/payments/%s", c.base, orderID))
	if err != nil {
		return false, fmt.Errorf("confirm store payment %s: %w", orderID, err)
	}

	return resp.StatusCode() == http.StatusNoContent, nil
}
