package vipps

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fjordbyte/vipps-checkout-gateway/internal/domain"
)

// accessTokenResponse is the token endpoint's wire shape. The numeric
// fields arrive as strings.
type accessTokenResponse struct {
	TokenType    string `json:"token_type"`
	ExpiresIn    string `json:"expires_in"`
	ExtExpiresIn string `json:"ext_expires_in"`
	ExpiresOn    string `json:"expires_on"`
	NotBefore    string `json:"not_before"`
	Resource     string `json:"resource"`
	AccessToken  string `json:"access_token"`
}

func (r accessTokenResponse) credential(now time.Time) (domain.Credential, error) {
	expiresIn, err := strconv.Atoi(r.ExpiresIn)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("parse expires_in %q: %w", r.ExpiresIn, err)
	}

	cred := domain.Credential{
		TokenType:   r.TokenType,
		AccessToken: r.AccessToken,
		IssuedAt:    now,
		ExpiresIn:   time.Duration(expiresIn) * time.Second,
		ExpiresAt:   now.Add(time.Duration(expiresIn) * time.Second),
	}

	if notBefore, err := strconv.ParseInt(r.NotBefore, 10, 64); err == nil {
		cred.NotBefore = time.Unix(notBefore, 0)
	}

	return cred, nil
}

type initiatePaymentBody struct {
	CustomerInfo customerInfo `json:"customerInfo"`
	MerchantInfo merchantInfo `json:"merchantInfo"`
	Transaction  transaction  `json:"transaction"`
}

type customerInfo struct {
	MobileNumber string `json:"mobileNumber"`
}

type merchantInfo struct {
	CallbackPrefix       string `json:"callbackPrefix"`
	FallBack             string `json:"fallBack"`
	IsApp                bool   `json:"isApp"`
	MerchantSerialNumber string `json:"merchantSerialNumber"`
	PaymentType          string `json:"paymentType"`
}

type transaction struct {
	Amount          int    `json:"amount"`
	OrderID         string `json:"orderId"`
	TimeStamp       string `json:"timeStamp"`
	TransactionText string `json:"transactionText"`
}

type paymentStatusResponse struct {
	OrderID         string          `json:"orderId"`
	TransactionInfo transactionInfo `json:"transactionInfo"`
}

type transactionInfo struct {
	Status string `json:"status"`
}

type captureBody struct {
	MerchantInfo captureMerchantInfo `json:"merchantInfo"`
	Transaction  captureTransaction  `json:"transaction"`
}

type captureMerchantInfo struct {
	MerchantSerialNumber string `json:"merchantSerialNumber"`
}

type captureTransaction struct {
	Amount          int    `json:"amount"`
	TransactionText string `json:"transactionText"`
}
