package vipps

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/fjordbyte/vipps-checkout-gateway/internal/application"
	"github.com/fjordbyte/vipps-checkout-gateway/internal/config"
	"github.com/fjordbyte/vipps-checkout-gateway/internal/domain"
)

const (
	subscriptionKeyHeader = "Ocp-Apim-Subscription-Key"
	requestIDHeader       = "X-Request-Id"
)

// Client talks to the provider's eComm v2 API on behalf of one account.
type Client struct {
	base         string
	callbackBase string
	account      domain.Account
	http         *resty.Client
}

// NewClient builds a provider client for the account. callbackBase is this
// gateway's public base URL; the provider derives its webhook and redirect
// calls from it.
func NewClient(cfg config.ProviderConfig, baseURL, callbackBase string, account domain.Account) *Client {
	return &Client{
		base:         baseURL,
		callbackBase: callbackBase,
		account:      account,
		http:         resty.New().SetTimeout(cfg.ConnTimeout),
	}
}

var _ application.VippsClient = (*Client)(nil)

// FetchAccessToken obtains a fresh credential from the token endpoint. A
// non-200 response is fatal for account setup.
func (c *Client) FetchAccessToken(ctx context.Context) (domain.Credential, error) {
	var body accessTokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("client_id", c.account.ClientID).
		SetHeader("client_secret", c.account.ClientSecret).
		SetHeader(subscriptionKeyHeader, c.account.SubscriptionKey).
		SetHeader(requestIDHeader, uuid.NewString()).
		SetResult(&body).
		Post(c.base + "/accessToken/get")
	if err != nil {
		return domain.Credential{}, fmt.Errorf("fetch access token: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return domain.Credential{}, newProviderError("accessToken/get", resp)
	}

	return body.credential(time.Now())
}

// InitiatePayment opens a payment session and returns the approval URL for
// the customer's browser.
func (c *Client) InitiatePayment(ctx context.Context, cred domain.Credential, req application.InitiatePaymentRequest) (*application.PaymentSession, error) {
	body := initiatePaymentBody{
		CustomerInfo: customerInfo{MobileNumber: req.MobileNumber},
		MerchantInfo: merchantInfo{
			CallbackPrefix:       fmt.Sprintf("%s/%s", c.callbackBase, c.account.ClientID),
			FallBack:             fmt.Sprintf("%s/%s/%s/redirect", c.callbackBase, c.account.ClientID, req.OrderID),
			IsApp:                false,
			MerchantSerialNumber: c.account.MerchantSerialNumber,
			PaymentType:          "eComm Regular Payment",
		},
		Transaction: transaction{
			Amount:          req.Amount,
			OrderID:         req.OrderID,
			TimeStamp:       time.Now().Format(time.RFC3339),
			TransactionText: req.TransactionText,
		},
	}

	var session application.PaymentSession
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", cred.Authorization()).
		SetHeader(subscriptionKeyHeader, c.account.SubscriptionKey).
		SetHeader(requestIDHeader, uuid.NewString()).
		SetBody(body).
		SetResult(&session).
		Post(c.base + "/ecomm/v2/payments")
	if err != nil {
		return nil, fmt.Errorf("initiate payment for order %s: %w", req.OrderID, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, newProviderError("ecomm/v2/payments", resp)
	}

	return &session, nil
}

// PaymentStatus fetches the current transaction status for the order.
func (c *Client) PaymentStatus(ctx context.Context, cred domain.Credential, orderID string) (string, error) {
	var status paymentStatusResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("orderId", orderID).
		SetHeader("Authorization", cred.Authorization()).
		SetHeader(subscriptionKeyHeader, c.account.SubscriptionKey).
		SetHeader(requestIDHeader, uuid.NewString()).
		SetResult(&status).
		Get(fmt.Sprintf("%s/ecomm/v2/payments/%s/status", c.base, orderID))
	if err != nil {
		return "", fmt.Errorf("fetch payment status for order %s: %w", orderID, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", newProviderError("ecomm/v2/payments/status", resp)
	}

	return status.TransactionInfo.Status, nil
}

// Capture finalizes a reserved payment with the provider-required
// zero-amount capture call.
func (c *Client) Capture(ctx context.Context, cred domain.Credential, orderID, transactionText string) error {
	body := captureBody{
		MerchantInfo: captureMerchantInfo{
			MerchantSerialNumber: c.account.MerchantSerialNumber,
		},
		Transaction: captureTransaction{
			Amount:          0,
			TransactionText: transactionText,
		},
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("orderId", orderID).
		SetHeader("Authorization", cred.Authorization()).
		SetHeader(subscriptionKeyHeader, c.account.SubscriptionKey).
		SetHeader(requestIDHeader, uuid.NewString()).
		SetBody(body).
		Post(fmt.Sprintf("%s/ecomm/v2/payments/%s/capture", c.base, orderID))
	if err != nil {
		return fmt.Errorf("capture payment for order %s: %w", orderID, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return newProviderError("ecomm/v2/payments/capture", resp)
	}

	return nil
}
