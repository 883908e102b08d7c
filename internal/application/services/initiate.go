package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fjordbyte/vipps-checkout-gateway/internal/application"
	"github.com/fjordbyte/vipps-checkout-gateway/internal/domain"
)

// InitiationService starts a provider payment session for a store order,
// after validating that the order is actually payable.
type InitiationService struct {
	account     domain.Account
	storeName   string
	credentials application.CredentialSource
	provider    application.VippsClient
	store       application.TebexClient
	logger      *slog.Logger
}

func NewInitiationService(
	account domain.Account,
	storeName string,
	credentials application.CredentialSource,
	provider application.VippsClient,
	store application.TebexClient,
	logger *slog.Logger,
) *InitiationService {
	return &InitiationService{
		account:     account,
		storeName:   storeName,
		credentials: credentials,
		provider:    provider,
		store:       store,
		logger:      logger,
	}
}

// Initiate validates the store payment's state and currency, then opens a
// payment session at the provider and returns it for the caller's browser
// to follow.
func (s *InitiationService) Initiate(ctx context.Context, orderID string) (*application.PaymentSession, error) {
	payment, err := s.store.Payment(ctx, orderID)
	if err != nil {
		return nil, application.NewStoreUnavailableError(err)
	}

	if payment.Status != application.PaymentStatusPendingCapture {
		return nil, application.NewInvalidPaymentStateError(payment.Status)
	}

	if payment.Currency.ISO4217 != "NOK" {
		return nil, application.NewCurrencyNotSupportedError(payment.Currency.ISO4217)
	}

	amount, err := storeAmountToOre(payment.Amount)
	if err != nil {
		return nil, application.NewStoreUnavailableError(err)
	}

	cred, err := s.credentials.Acquire()
	if err != nil {
		return nil, application.NewAccountNotReadyError(err)
	}

	session, err := s.provider.InitiatePayment(ctx, cred, application.InitiatePaymentRequest{
		OrderID:         orderID,
		Amount:          amount,
		TransactionText: fmt.Sprintf("Betaling til %s.", s.storeName),
	})
	if err != nil {
		s.logger.Error("payment initiation failed",
			"client_id", s.account.ClientID,
			"order_id", orderID,
			"error", err,
		)
		return nil, application.NewProviderUnavailableError(err)
	}

	return session, nil
}

// storeAmountToOre converts the store's decimal amount string ("49.99")
// into the provider's integer øre representation.
func storeAmountToOre(amount string) (int, error) {
	ore, err := strconv.Atoi(strings.ReplaceAll(amount, ".", ""))
	if err != nil {
		return 0, fmt.Errorf("parse store amount %q: %w", amount, err)
	}
	return ore, nil
}
