package vipps

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjordbyte/vipps-checkout-gateway/internal/application"
	"github.com/fjordbyte/vipps-checkout-gateway/internal/config"
	"github.com/fjordbyte/vipps-checkout-gateway/internal/domain"
)

func testClient(baseURL string) *Client {
	return NewClient(
		config.ProviderConfig{ConnTimeout: 5 * time.Second},
		baseURL,
		"https://pay.example.com",
		domain.Account{
			Email:                "merchant@example.com",
			ClientID:             "client-1",
			ClientSecret:         "secret-1",
			SubscriptionKey:      "sub-1",
			MerchantSerialNumber: "123456",
		},
	)
}

func testCredential() domain.Credential {
	return domain.Credential{TokenType: "Bearer", AccessToken: "tok-live"}
}

func TestFetchAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/accessToken/get", r.URL.Path)
		assert.Equal(t, "client-1", r.Header.Get("client_id"))
		assert.Equal(t, "secret-1", r.Header.Get("client_secret"))
		assert.Equal(t, "sub-1", r.Header.Get("Ocp-Apim-Subscription-Key"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"token_type": "Bearer",
			"expires_in": "3600",
			"ext_expires_in": "3600",
			"expires_on": "1893456000",
			"not_before": "1893452400",
			"resource": "00000002-0000-0000-c000-000000000000",
			"access_token": "tok-fresh"
		}`))
	}))
	defer server.Close()

	before := time.Now()
	cred, err := testClient(server.URL).FetchAccessToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer", cred.TokenType)
	assert.Equal(t, "tok-fresh", cred.AccessToken)
	assert.Equal(t, 3600*time.Second, cred.ExpiresIn)
	assert.WithinDuration(t, before.Add(3600*time.Second), cred.ExpiresAt, 5*time.Second)
	assert.Equal(t, "Bearer tok-fresh", cred.Authorization())
}

func TestFetchAccessTokenRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "invalid_client"}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchAccessToken(context.Background())
	require.Error(t, err)

	provErr, ok := IsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, provErr.StatusCode)
}

func TestFetchAccessTokenGarbageExpiry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token_type": "Bearer", "expires_in": "soon", "access_token": "tok"}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchAccessToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expires_in")
}

func TestInitiatePayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ecomm/v2/payments", r.URL.Path)
		assert.Equal(t, "Bearer tok-live", r.Header.Get("Authorization"))
		assert.Equal(t, "sub-1", r.Header.Get("Ocp-Apim-Subscription-Key"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(raw, &body))

		var merchant map[string]any
		require.NoError(t, json.Unmarshal(body["merchantInfo"], &merchant))
		assert.Equal(t, "https://pay.example.com/client-1", merchant["callbackPrefix"])
		assert.Equal(t, "https://pay.example.com/client-1/ORD1/redirect", merchant["fallBack"])
		assert.Equal(t, "123456", merchant["merchantSerialNumber"])
		assert.Equal(t, "eComm Regular Payment", merchant["paymentType"])

		var tx map[string]any
		require.NoError(t, json.Unmarshal(body["transaction"], &tx))
		assert.Equal(t, float64(4999), tx["amount"])
		assert.Equal(t, "ORD1", tx["orderId"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"orderId": "ORD1", "url": "https://provider.example/pay/ORD1"}`))
	}))
	defer server.Close()

	session, err := testClient(server.URL).InitiatePayment(context.Background(), testCredential(), application.InitiatePaymentRequest{
		OrderID:         "ORD1",
		Amount:          4999,
		TransactionText: "Betaling til Blocktopia.",
	})
	require.NoError(t, err)

	assert.Equal(t, "ORD1", session.OrderID)
	assert.Equal(t, "https://provider.example/pay/ORD1", session.URL)
}

func TestPaymentStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ecomm/v2/payments/ORD2/status", r.URL.Path)
		assert.Equal(t, "ORD2", r.Header.Get("orderId"))
		assert.Equal(t, "Bearer tok-live", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"orderId": "ORD2", "transactionInfo": {"status": "RESERVE"}}`))
	}))
	defer server.Close()

	status, err := testClient(server.URL).PaymentStatus(context.Background(), testCredential(), "ORD2")
	require.NoError(t, err)
	assert.Equal(t, "RESERVE", status)
}

func TestCaptureSendsZeroAmount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ecomm/v2/payments/ORD3/capture", r.URL.Path)

		var body captureBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 0, body.Transaction.Amount)
		assert.Equal(t, "123456", body.MerchantInfo.MerchantSerialNumber)
		assert.Equal(t, "Ditt kjøp hos Blocktopia er nå fullført.", body.Transaction.TransactionText)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	err := testClient(server.URL).Capture(context.Background(), testCredential(), "ORD3",
		"Ditt kjøp hos Blocktopia er nå fullført.")
	require.NoError(t, err)
}

func TestCaptureFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error": "already captured"}`))
	}))
	defer server.Close()

	err := testClient(server.URL).Capture(context.Background(), testCredential(), "ORD4", "text")
	require.Error(t, err)

	provErr, ok := IsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, provErr.StatusCode)
}
