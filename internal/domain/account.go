package domain

import "time"

// Account is one merchant's configured identity for both the payment
// provider and the store webhook API. Immutable after load; one instance
// per configured merchant.
type Account struct {
	Email                string
	ClientID             string
	ClientSecret         string
	SubscriptionKey      string
	MerchantSerialNumber string
	StoreSecret          string
}

// Credential is a time-bounded access token used to authenticate provider
// API calls. A refresh installs a whole new value; fields are never edited
// in place.
type Credential struct {
	TokenType   string
	AccessToken string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	NotBefore   time.Time
	ExpiresIn   time.Duration
}

// Authorization renders the credential as an HTTP Authorization header value.
func (c Credential) Authorization() string {
	return c.TokenType + " " + c.AccessToken
}
