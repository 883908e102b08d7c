package tebex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjordbyte/vipps-checkout-gateway/internal/config"
)

func testClient(baseURL string) *Client {
	return NewClient(config.StoreConfig{BaseURL: baseURL, ConnTimeout: 5 * time.Second}, "tebex-secret-1")
}

func TestInformation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/information", r.URL.Path)
		assert.Equal(t, "tebex-secret-1", r.Header.Get("X-Buycraft-Secret"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"account": {
				"id": 1,
				"name": "Blocktopia",
				"domain": "https://store.blocktopia.example",
				"currency": {"iso_4217": "NOK", "symbol": "kr"}
			}
		}`))
	}))
	defer server.Close()

	info, err := testClient(server.URL).Information(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Blocktopia", info.Account.Name)
	assert.Equal(t, "https://store.blocktopia.example", info.Account.Domain)
}

func TestInformationBadSecret(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error_message": "Invalid secret key."}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Information(context.Background())
	require.Error(t, err)

	storeErr, ok := IsStoreError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, storeErr.StatusCode)
}

func TestPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/ORD1", r.URL.Path)
		assert.Equal(t, "tebex-secret-1", r.Header.Get("X-Buycraft-Secret"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 1337,
			"amount": "49.99",
			"status": "Pending Capture",
			"currency": {"iso_4217": "NOK", "symbol": "kr"}
		}`))
	}))
	defer server.Close()

	payment, err := testClient(server.URL).Payment(context.Background(), "ORD1")
	require.NoError(t, err)

	assert.Equal(t, 1337, payment.ID)
	assert.Equal(t, "49.99", payment.Amount)
	assert.Equal(t, "Pending Capture", payment.Status)
	assert.Equal(t, "NOK", payment.Currency.ISO4217)
}

func TestPaymentNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error_message": "No payment found."}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Payment(context.Background(), "MISSING")
	require.Error(t, err)

	storeErr, ok := IsStoreError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, storeErr.StatusCode)
}

func TestConfirmPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/payments/ORD2", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "complete", body["status"])

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	ok, err := testClient(server.URL).ConfirmPayment(context.Background(), "ORD2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConfirmPaymentUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ok, err := testClient(server.URL).ConfirmPayment(context.Background(), "ORD3")
	require.NoError(t, err)
	assert.False(t, ok)
}
