package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fjordbyte/vipps-checkout-gateway/internal/application"
	"github.com/fjordbyte/vipps-checkout-gateway/internal/domain"
	"github.com/fjordbyte/vipps-checkout-gateway/internal/settlement"
)

const (
	// AwaitTimeout bounds how long the redirect path waits for the webhook.
	AwaitTimeout = 5 * time.Second
	// SettlementGrace is how long a settled entry stays addressable before
	// it is dropped from the registry.
	SettlementGrace = 10 * time.Second

	captureTimeout = 10 * time.Second
)

// SettlementCoordinator reconciles the provider's server-to-server payment
// webhook with the customer's browser redirect for the same order. The
// webhook path determines the true outcome and settles the registry; the
// redirect path waits on it with a bounded timeout.
type SettlementCoordinator struct {
	account     domain.Account
	storeName   string
	credentials application.CredentialSource
	provider    application.VippsClient
	store       application.TebexClient
	registry    *settlement.Registry
	logger      *slog.Logger

	awaitTimeout time.Duration
	grace        time.Duration
}

func NewSettlementCoordinator(
	account domain.Account,
	storeName string,
	credentials application.CredentialSource,
	provider application.VippsClient,
	store application.TebexClient,
	registry *settlement.Registry,
	logger *slog.Logger,
) *SettlementCoordinator {
	return &SettlementCoordinator{
		account:      account,
		storeName:    storeName,
		credentials:  credentials,
		provider:     provider,
		store:        store,
		registry:     registry,
		logger:       logger,
		awaitTimeout: AwaitTimeout,
		grace:        SettlementGrace,
	}
}

// Notify handles a webhook delivery for the order: it checks the real
// payment state at the provider, confirms the store-side order when the
// amount is reserved, and settles the registry with the result. Any failure
// along the way resolves the order as unconfirmed rather than propagating;
// the webhook caller does not consume error bodies and the provider retries
// delivery on its own.
func (c *SettlementCoordinator) Notify(ctx context.Context, orderID string) {
	confirmed := c.settle(ctx, orderID)

	c.registry.Resolve(orderID, confirmed)
	c.registry.ScheduleExpiry(orderID, c.grace)
}

func (c *SettlementCoordinator) settle(ctx context.Context, orderID string) bool {
	cred, err := c.credentials.Acquire()
	if err != nil {
		c.logger.Error("settlement check skipped, no credential",
			"client_id", c.account.ClientID,
			"order_id", orderID,
			"error", err,
		)
		return false
	}

	status, err := c.provider.PaymentStatus(ctx, cred, orderID)
	if err != nil {
		c.logger.Error("could not fetch payment status, resolving as unconfirmed",
			"client_id", c.account.ClientID,
			"order_id", orderID,
			"error", err,
		)
		return false
	}

	if status != application.TransactionStatusReserved {
		c.logger.Info("payment not reserved",
			"client_id", c.account.ClientID,
			"order_id", orderID,
			"status", status,
		)
		return false
	}

	confirmed, err := c.store.ConfirmPayment(ctx, orderID)
	if err != nil {
		c.logger.Error("could not confirm store payment, resolving as unconfirmed",
			"client_id", c.account.ClientID,
			"order_id", orderID,
			"error", err,
		)
		return false
	}

	return confirmed
}

// AwaitResult blocks the redirect path until the webhook settles the order
// or the timeout lapses; a timeout reports an unconfirmed payment. Either
// way the provider-required capture step is kicked off in the background
// before returning.
func (c *SettlementCoordinator) AwaitResult(ctx context.Context, orderID string) bool {
	outcome := c.registry.WaitFor(ctx, orderID, c.awaitTimeout)

	go c.capture(orderID)

	return outcome
}

// capture finalizes the payment at the provider with a zero-amount call.
// Its failure only affects bookkeeping at the provider, never the
// customer-facing redirect, so it is logged and swallowed.
func (c *SettlementCoordinator) capture(orderID string) {
	ctx, cancel := context.WithTimeout(context.Background(), captureTimeout)
	defer cancel()

	cred, err := c.credentials.Acquire()
	if err != nil {
		c.logger.Error("capture skipped, no credential",
			"client_id", c.account.ClientID,
			"order_id", orderID,
			"error", err,
		)
		return
	}

	text := fmt.Sprintf("Ditt kjøp hos %s er nå fullført.", c.storeName)
	if err := c.provider.Capture(ctx, cred, orderID, text); err != nil {
		c.logger.Error("could not capture payment",
			"client_id", c.account.ClientID,
			"order_id", orderID,
			"store", c.storeName,
			"error", err,
		)
	}
}
