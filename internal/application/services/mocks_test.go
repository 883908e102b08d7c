package services

import (
	"context"
	"sync"

	"github.com/fjordbyte/vipps-checkout-gateway/internal/application"
	"github.com/fjordbyte/vipps-checkout-gateway/internal/domain"
)

// MockVippsClient counts calls and answers a reserved, initiable payment
// unless a Fn field overrides the method.
type MockVippsClient struct {
	mu    sync.Mutex
	calls map[string]int

	InitiatePaymentFn func(ctx context.Context, cred domain.Credential, req application.InitiatePaymentRequest) (*application.PaymentSession, error)
	PaymentStatusFn   func(ctx context.Context, cred domain.Credential, orderID string) (string, error)
	CaptureFn         func(ctx context.Context, cred domain.Credential, orderID, transactionText string) error
}

func (m *MockVippsClient) inc(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

func (m *MockVippsClient) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockVippsClient) InitiatePayment(ctx context.Context, cred domain.Credential, req application.InitiatePaymentRequest) (*application.PaymentSession, error) {
	m.inc("InitiatePayment")
	if m.InitiatePaymentFn != nil {
		return m.InitiatePaymentFn(ctx, cred, req)
	}
	return &application.PaymentSession{
		OrderID: req.OrderID,
		URL:     "https://provider.example/pay/" + req.OrderID,
	}, nil
}

func (m *MockVippsClient) PaymentStatus(ctx context.Context, cred domain.Credential, orderID string) (string, error) {
	m.inc("PaymentStatus")
	if m.PaymentStatusFn != nil {
		return m.PaymentStatusFn(ctx, cred, orderID)
	}
	return application.TransactionStatusReserved, nil
}

func (m *MockVippsClient) Capture(ctx context.Context, cred domain.Credential, orderID, transactionText string) error {
	m.inc("Capture")
	if m.CaptureFn != nil {
		return m.CaptureFn(ctx, cred, orderID, transactionText)
	}
	return nil
}

// MockTebexClient counts calls and answers a pending NOK payment unless a
// Fn field overrides the method.
type MockTebexClient struct {
	mu    sync.Mutex
	calls map[string]int

	InformationFn    func(ctx context.Context) (*application.StoreInformation, error)
	PaymentFn        func(ctx context.Context, orderID string) (*application.StorePayment, error)
	ConfirmPaymentFn func(ctx context.Context, orderID string) (bool, error)
}

func (m *MockTebexClient) inc(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

func (m *MockTebexClient) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockTebexClient) Information(ctx context.Context) (*application.StoreInformation, error) {
	m.inc("Information")
	if m.InformationFn != nil {
		return m.InformationFn(ctx)
	}
	return &application.StoreInformation{
		Account: application.StoreAccount{
			Name:   "Blocktopia",
			Domain: "https://store.blocktopia.example",
		},
	}, nil
}

func (m *MockTebexClient) Payment(ctx context.Context, orderID string) (*application.StorePayment, error) {
	m.inc("Payment")
	if m.PaymentFn != nil {
		return m.PaymentFn(ctx, orderID)
	}
	return &application.StorePayment{
		ID:       1,
		Amount:   "49.99",
		Status:   application.PaymentStatusPendingCapture,
		Currency: application.StoreCurrency{ISO4217: "NOK", Symbol: "kr"},
	}, nil
}

func (m *MockTebexClient) ConfirmPayment(ctx context.Context, orderID string) (bool, error) {
	m.inc("ConfirmPayment")
	if m.ConfirmPaymentFn != nil {
		return m.ConfirmPaymentFn(ctx, orderID)
	}
	return true, nil
}

// staticCredentials hands out a fixed credential, or fails.
type staticCredentials struct {
	cred domain.Credential
	err  error
}

func (s staticCredentials) Acquire() (domain.Credential, error) {
	if s.err != nil {
		return domain.Credential{}, s.err
	}
	return s.cred, nil
}

func testCredentials() staticCredentials {
	return staticCredentials{cred: domain.Credential{
		TokenType:   "Bearer",
		AccessToken: "tok-live",
	}}
}

func testAccount() domain.Account {
	return domain.Account{
		Email:                "merchant@example.com",
		ClientID:             "client-1",
		MerchantSerialNumber: "123456",
	}
}
