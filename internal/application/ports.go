package application

import (
	"context"

	"github.com/fjordbyte/vipps-checkout-gateway/internal/domain"
)

// VippsClient is the port for the payment provider's eComm API. Every call
// authenticates with a live credential plus the account's subscription key.
type VippsClient interface {
	InitiatePayment(ctx context.Context, cred domain.Credential, req InitiatePaymentRequest) (*PaymentSession, error)
	PaymentStatus(ctx context.Context, cred domain.Credential, orderID string) (string, error)
	Capture(ctx context.Context, cred domain.Credential, orderID, transactionText string) error
}

// TebexClient is the port for the store's webhook API.
type TebexClient interface {
	Information(ctx context.Context) (*StoreInformation, error)
	Payment(ctx context.Context, orderID string) (*StorePayment, error)
	ConfirmPayment(ctx context.Context, orderID string) (bool, error)
}

// CredentialSource hands out the account's current access credential.
type CredentialSource interface {
	Acquire() (domain.Credential, error)
}
