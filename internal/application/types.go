package application

// TransactionStatusReserved is the provider status meaning the amount is
// reserved on the customer's card and the order may be completed.
const TransactionStatusReserved = "RESERVE"

// PaymentStatusPendingCapture is the only store-side payment state from
// which a provider payment may be initiated.
const PaymentStatusPendingCapture = "Pending Capture"

// InitiatePaymentRequest carries the transaction part of a payment
// initiation; merchant and callback details are the client's business.
type InitiatePaymentRequest struct {
	OrderID         string
	Amount          int
	TransactionText string
	MobileNumber    string
}

// PaymentSession is the provider's response to a payment initiation. The
// URL is where the customer's browser is sent to approve the payment.
type PaymentSession struct {
	OrderID string `json:"orderId"`
	URL     string `json:"url"`
}

type StoreInformation struct {
	Account StoreAccount `json:"account"`
}

type StoreAccount struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

type StorePayment struct {
	ID       int           `json:"id"`
	Amount   string        `json:"amount"`
	Status   string        `json:"status"`
	Currency StoreCurrency `json:"currency"`
}

type StoreCurrency struct {
	ISO4217 string `json:"iso_4217"`
	Symbol  string `json:"symbol"`
}
